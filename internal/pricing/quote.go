package pricing

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoEntry indicates the price book has no entry for the requested service.
var ErrNoEntry = errors.New("pricing: no price entry for service")

// Quote is the computed result for a service and quantity. It is
// derived data and never stored beyond the session.
type Quote struct {
	Service          Service
	Quantity         int
	UnitPriceApplied int64
	Total            int64
}

// ComputeQuote prices a quantity of the given service against the
// book. The caller validates that quantity is a positive integer.
//
// Tier rule: the bulk price applies at or above the bulk threshold
// (a zero threshold disables the tier). An offer active at `now`
// substitutes the tier price when it is lower.
func ComputeQuote(s Service, quantity int, book *Book, now time.Time) (Quote, error) {
	entry, ok := book.Entry(s)
	if !ok {
		return Quote{}, fmt.Errorf("%w: %s", ErrNoEntry, s)
	}

	unit := entry.UnitPrice
	if entry.BulkThreshold > 0 && quantity >= entry.BulkThreshold {
		unit = entry.BulkPrice
	}
	if entry.Offer.ActiveAt(now) && entry.Offer.DiscountedPrice < unit {
		unit = entry.Offer.DiscountedPrice
	}

	return Quote{
		Service:          s,
		Quantity:         quantity,
		UnitPriceApplied: unit,
		Total:            int64(quantity) * unit,
	}, nil
}

// Breakdown renders the quote the way it is shown to users.
func (q Quote) Breakdown() string {
	return fmt.Sprintf("%d × $%d = $%d CLP", q.Quantity, q.UnitPriceApplied, q.Total)
}
