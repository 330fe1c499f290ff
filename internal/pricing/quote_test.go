package pricing

import (
	"context"
	"errors"
	"testing"
	"time"
)

func testBook(t Table) *Book {
	return NewBook(t, nil)
}

func TestComputeQuoteTierRule(t *testing.T) {
	book := testBook(Table{
		ServiceProgramming: {UnitPrice: 1000, BulkPrice: 800, BulkThreshold: 10},
	})
	now := time.Now()

	cases := []struct {
		qty      int
		wantUnit int64
	}{
		{1, 1000},
		{5, 1000},
		{9, 1000},
		{10, 800},
		{25, 800},
	}
	for _, tc := range cases {
		q, err := ComputeQuote(ServiceProgramming, tc.qty, book, now)
		if err != nil {
			t.Fatalf("ComputeQuote(%d): %v", tc.qty, err)
		}
		if q.UnitPriceApplied != tc.wantUnit {
			t.Errorf("qty %d: unit = %d, want %d", tc.qty, q.UnitPriceApplied, tc.wantUnit)
		}
		if q.Total != int64(tc.qty)*tc.wantUnit {
			t.Errorf("qty %d: total = %d, want %d", tc.qty, q.Total, int64(tc.qty)*tc.wantUnit)
		}
	}
}

func TestComputeQuoteFlatUnlock(t *testing.T) {
	book := testBook(Table{ServiceUnlock: {UnitPrice: 2000}})
	q, err := ComputeQuote(ServiceUnlock, 12, book, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if q.Total != 24000 {
		t.Fatalf("total = %d, want 24000", q.Total)
	}
	if q.UnitPriceApplied != 2000 {
		t.Fatalf("unit = %d, want 2000 (no bulk tier for unlock)", q.UnitPriceApplied)
	}
}

func TestComputeQuoteActiveOffer(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	book := testBook(Table{
		ServiceProgramming: {
			UnitPrice: 1000, BulkPrice: 800, BulkThreshold: 10,
			Offer: &Offer{DiscountedPrice: 700, ValidUntil: now.Add(24 * time.Hour)},
		},
	})

	q, err := ComputeQuote(ServiceProgramming, 2, book, now)
	if err != nil {
		t.Fatal(err)
	}
	if q.UnitPriceApplied != 700 {
		t.Fatalf("active offer not applied, unit = %d", q.UnitPriceApplied)
	}

	// expired offer falls back to the tier price
	q, err = ComputeQuote(ServiceProgramming, 2, book, now.Add(48*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if q.UnitPriceApplied != 1000 {
		t.Fatalf("expired offer applied, unit = %d", q.UnitPriceApplied)
	}
}

func TestComputeQuoteOfferNeverRaises(t *testing.T) {
	now := time.Now()
	book := testBook(Table{
		ServiceUnlock: {
			UnitPrice: 2000,
			Offer:     &Offer{DiscountedPrice: 2500, ValidUntil: now.Add(time.Hour)},
		},
	})
	q, err := ComputeQuote(ServiceUnlock, 1, book, now)
	if err != nil {
		t.Fatal(err)
	}
	if q.UnitPriceApplied != 2000 {
		t.Fatalf("offer above list price applied, unit = %d", q.UnitPriceApplied)
	}
}

func TestComputeQuoteUnknownService(t *testing.T) {
	book := testBook(Table{})
	if _, err := ComputeQuote(ServiceAdvisory, 1, book, time.Now()); !errors.Is(err, ErrNoEntry) {
		t.Fatalf("err = %v, want ErrNoEntry", err)
	}
}

func TestSetUnitPriceRollsBackOnSaveFailure(t *testing.T) {
	failing := &failingStore{}
	book := NewBook(Table{ServiceProgramming: {UnitPrice: 1000}}, failing)

	if err := book.SetUnitPrice(context.Background(), ServiceProgramming, 1500); err == nil {
		t.Fatal("expected persistence error")
	}
	e, _ := book.Entry(ServiceProgramming)
	if e.UnitPrice != 1000 {
		t.Fatalf("price not rolled back: %d", e.UnitPrice)
	}
}

func TestSetUnitPricePersists(t *testing.T) {
	rec := &recordingStore{}
	book := NewBook(Table{ServiceProgramming: {UnitPrice: 1000}}, rec)

	if err := book.SetUnitPrice(context.Background(), ServiceProgramming, 1500); err != nil {
		t.Fatal(err)
	}
	e, _ := book.Entry(ServiceProgramming)
	if e.UnitPrice != 1500 {
		t.Fatalf("price = %d, want 1500", e.UnitPrice)
	}
	if rec.saved == nil || rec.saved[ServiceProgramming].UnitPrice != 1500 {
		t.Fatal("persisted table does not reflect the edit")
	}
}

type failingStore struct{}

func (failingStore) Load(context.Context) (Table, error) { return nil, errors.New("load failed") }
func (failingStore) Save(context.Context, Table) error   { return errors.New("disk full") }

type recordingStore struct{ saved Table }

func (r *recordingStore) Load(context.Context) (Table, error) { return Defaults(), nil }
func (r *recordingStore) Save(_ context.Context, t Table) error {
	r.saved = t.Clone()
	return nil
}
