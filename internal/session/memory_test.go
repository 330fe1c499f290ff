package session

import (
	"sync"
	"testing"

	"github.com/LucasNunez12345/bot-hexadec/internal/pricing"
)

func TestStoreLazyGet(t *testing.T) {
	store := NewStore()
	sess := store.Get(42)
	if sess.Step != StepIdle {
		t.Fatalf("fresh session step = %q, want idle", sess.Step)
	}
	if sess.UserID != 42 {
		t.Fatalf("fresh session user = %d", sess.UserID)
	}
	if store.InProgress(42) {
		t.Fatal("fresh session must not count as in progress")
	}
}

func TestStoreSetClear(t *testing.T) {
	store := NewStore()
	store.Set(7, Session{Step: StepQuantity, Service: pricing.ServiceProgramming})

	got := store.Get(7)
	if got.Step != StepQuantity || got.Service != pricing.ServiceProgramming {
		t.Fatalf("stored session = %+v", got)
	}
	if !store.InProgress(7) {
		t.Fatal("expected in progress")
	}

	store.Clear(7)
	if store.Get(7).Step != StepIdle {
		t.Fatal("cleared session must start from idle")
	}
}

func TestStoreGetReturnsCopy(t *testing.T) {
	store := NewStore()
	store.Set(1, Session{Step: StepContactName})

	sess := store.Get(1)
	sess.Step = StepConfirmation
	sess.ContactName = "mutated"

	if got := store.Get(1); got.Step != StepContactName || got.ContactName != "" {
		t.Fatalf("store mutated through a copy: %+v", got)
	}
}

func TestStorePerKeyIsolation(t *testing.T) {
	store := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			store.Set(id, Session{Step: StepQuantity, Quantity: int(id)})
			got := store.Get(id)
			if got.Quantity != int(id) {
				t.Errorf("user %d read quantity %d", id, got.Quantity)
			}
		}(int64(i))
	}
	wg.Wait()

	for i := 0; i < 32; i++ {
		if got := store.Get(int64(i)); got.Quantity != i {
			t.Fatalf("user %d quantity = %d after concurrent writes", i, got.Quantity)
		}
	}
}
