package pricing

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// PostgresStore persists the price book to Postgres. Save keeps the
// full-rewrite semantics of the file backend: the table always
// reflects exactly one complete book.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open connection pool.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type bookRow struct {
	Service         string        `db:"service"`
	UnitPrice       int64         `db:"unit_price"`
	BulkPrice       int64         `db:"bulk_price"`
	BulkThreshold   int           `db:"bulk_threshold"`
	OfferPrice      sql.NullInt64 `db:"offer_price"`
	OfferValidUntil sql.NullTime  `db:"offer_valid_until"`
}

// Load reads the book. An empty table yields the defaults, mirroring
// the file backend's behaviour on a fresh deployment.
func (p *PostgresStore) Load(ctx context.Context) (Table, error) {
	var rows []bookRow
	err := p.db.SelectContext(ctx, &rows,
		`SELECT service, unit_price, bulk_price, bulk_threshold, offer_price, offer_valid_until FROM pricebook`)
	if err != nil {
		return nil, fmt.Errorf("pricebook select: %w", err)
	}
	if len(rows) == 0 {
		return Defaults(), nil
	}

	t := make(Table, len(rows))
	for _, r := range rows {
		s, ok := ParseService(r.Service)
		if !ok {
			return nil, fmt.Errorf("pricebook select: unknown service %q", r.Service)
		}
		e := Entry{
			UnitPrice:     r.UnitPrice,
			BulkPrice:     r.BulkPrice,
			BulkThreshold: r.BulkThreshold,
		}
		if r.OfferPrice.Valid && r.OfferValidUntil.Valid {
			e.Offer = &Offer{
				DiscountedPrice: r.OfferPrice.Int64,
				ValidUntil:      r.OfferValidUntil.Time,
			}
		}
		t[s] = e
	}
	return t, nil
}

// Save rewrites the book inside a single transaction.
func (p *PostgresStore) Save(ctx context.Context, t Table) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pricebook tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pricebook`); err != nil {
		return fmt.Errorf("pricebook clear: %w", err)
	}
	for s, e := range t {
		var offerPrice sql.NullInt64
		var offerUntil sql.NullTime
		if e.Offer != nil {
			offerPrice = sql.NullInt64{Int64: e.Offer.DiscountedPrice, Valid: true}
			offerUntil = sql.NullTime{Time: e.Offer.ValidUntil.UTC(), Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO pricebook (service, unit_price, bulk_price, bulk_threshold, offer_price, offer_valid_until, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			string(s), e.UnitPrice, e.BulkPrice, e.BulkThreshold, offerPrice, offerUntil, time.Now().UTC(),
		); err != nil {
			return fmt.Errorf("pricebook insert %s: %w", s, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pricebook commit: %w", err)
	}
	return nil
}
