// Package pricing holds the per-service price book and the quote engine.
package pricing

import (
	"context"
	"sync"
	"time"
)

// Service identifies one of the offered service categories.
type Service string

const (
	// ServiceProgramming is radio equipment programming.
	ServiceProgramming Service = "programacion"
	// ServiceUnlock is radio equipment unlocking.
	ServiceUnlock Service = "desbloqueo"
	// ServiceAdvisory is purchase advisory; it has no price entry and is
	// quoted by a human operator.
	ServiceAdvisory Service = "asesoria"
)

// ParseService maps a wire tag value to a known service.
func ParseService(v string) (Service, bool) {
	switch Service(v) {
	case ServiceProgramming, ServiceUnlock, ServiceAdvisory:
		return Service(v), true
	}
	return "", false
}

// Label returns the user-facing Spanish name of the service.
func (s Service) Label() string {
	switch s {
	case ServiceProgramming:
		return "Programación"
	case ServiceUnlock:
		return "Desbloqueo"
	case ServiceAdvisory:
		return "Asesoría/Compra"
	}
	return string(s)
}

// Offer is a time-limited promotional price for a service.
type Offer struct {
	DiscountedPrice int64     `yaml:"discounted_price" db:"discounted_price"`
	ValidUntil      time.Time `yaml:"valid_until" db:"valid_until"`
}

// ActiveAt reports whether the offer applies at the given instant.
func (o *Offer) ActiveAt(now time.Time) bool {
	return o != nil && now.Before(o.ValidUntil)
}

// Entry holds the pricing of a single service. Prices are CLP.
// A BulkThreshold of zero disables the bulk tier.
type Entry struct {
	UnitPrice     int64  `yaml:"unit_price" db:"unit_price"`
	BulkPrice     int64  `yaml:"bulk_price" db:"bulk_price"`
	BulkThreshold int    `yaml:"bulk_threshold" db:"bulk_threshold"`
	Offer         *Offer `yaml:"offer,omitempty"`
}

// Table maps services to their price entries.
type Table map[Service]Entry

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for s, e := range t {
		if e.Offer != nil {
			o := *e.Offer
			e.Offer = &o
		}
		out[s] = e
	}
	return out
}

// Defaults returns the price table used when no persisted book exists yet.
func Defaults() Table {
	return Table{
		ServiceProgramming: {UnitPrice: 3000, BulkPrice: 2500, BulkThreshold: 10},
		ServiceUnlock:      {UnitPrice: 2000},
	}
}

// Book is the process-wide shared price table. Reads may be concurrent;
// mutation happens only through the admin edit path and is serialized
// together with its persistence write.
type Book struct {
	mu      sync.RWMutex
	entries Table
	store   Store
}

// NewBook wraps a table and its persistence store.
func NewBook(entries Table, store Store) *Book {
	if entries == nil {
		entries = Defaults()
	}
	return &Book{entries: entries.Clone(), store: store}
}

// Entry returns the price entry for a service.
func (b *Book) Entry(s Service) (Entry, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.entries[s]
	return e, ok
}

// Snapshot returns a copy of the whole table for rendering.
func (b *Book) Snapshot() Table {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.entries.Clone()
}

// SetUnitPrice updates the unit price of a service and persists the
// whole book. On persistence failure the in-memory value is rolled
// back and the error is returned to the caller so the admin sees an
// explicit failure instead of a silent success claim.
func (b *Book) SetUnitPrice(ctx context.Context, s Service, price int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	prev, ok := b.entries[s]
	entry := prev
	entry.UnitPrice = price
	b.entries[s] = entry

	if b.store != nil {
		if err := b.store.Save(ctx, b.entries.Clone()); err != nil {
			if ok {
				b.entries[s] = prev
			} else {
				delete(b.entries, s)
			}
			return err
		}
	}
	return nil
}
