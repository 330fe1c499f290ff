package pricing

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricebook.yaml")
	store := NewFileStore(path)
	ctx := context.Background()

	want := Table{
		ServiceProgramming: {
			UnitPrice: 1500, BulkPrice: 1200, BulkThreshold: 10,
			Offer: &Offer{DiscountedPrice: 999, ValidUntil: time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)},
		},
		ServiceUnlock: {UnitPrice: 2000},
	}
	if err := store.Save(ctx, want); err != nil {
		t.Fatal(err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	prog := got[ServiceProgramming]
	if prog.UnitPrice != 1500 || prog.BulkPrice != 1200 || prog.BulkThreshold != 10 {
		t.Fatalf("programming entry = %+v", prog)
	}
	if prog.Offer == nil || prog.Offer.DiscountedPrice != 999 {
		t.Fatalf("offer lost: %+v", prog.Offer)
	}
	if !prog.Offer.ValidUntil.Equal(want[ServiceProgramming].Offer.ValidUntil) {
		t.Fatalf("offer expiry = %v", prog.Offer.ValidUntil)
	}
	if got[ServiceUnlock].UnitPrice != 2000 {
		t.Fatalf("unlock entry = %+v", got[ServiceUnlock])
	}
}

func TestFileStoreMissingFileYieldsDefaults(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.yaml"))
	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) == 0 {
		t.Fatal("expected default table")
	}
	if got[ServiceProgramming].UnitPrice == 0 {
		t.Fatal("defaults missing programming entry")
	}
}

func TestFileStoreRejectsUnknownService(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricebook.yaml")
	if err := os.WriteFile(path, []byte("reparacion:\n  unit_price: 100\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(path).Load(context.Background()); err == nil {
		t.Fatal("expected parse error for unknown service")
	}
}

func TestFileStoreSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "pricebook.yaml"))
	if err := store.Save(context.Background(), Defaults()); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "pricebook.yaml" {
		t.Fatalf("unexpected directory contents: %v", entries)
	}
}
