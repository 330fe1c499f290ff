package dialog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/LucasNunez12345/bot-hexadec/internal/pricing"
)

const adminID = int64(999)

func testAdmin(t *testing.T, store pricing.Store) (*Admin, *pricing.Book) {
	t.Helper()
	book := pricing.NewBook(pricing.Table{
		pricing.ServiceProgramming: {UnitPrice: 1000, BulkPrice: 800, BulkThreshold: 10},
		pricing.ServiceUnlock:      {UnitPrice: 2000},
	}, store)
	return NewAdmin(book, adminID), book
}

func adminHandle(t *testing.T, a *Admin, ev Event) Reply {
	t.Helper()
	r, err := a.Handle(context.Background(), ev)
	require.NoError(t, err)
	return r
}

func TestUnauthorizedIsSilent(t *testing.T) {
	a, book := testAdmin(t, nil)
	before := book.Snapshot()

	r := adminHandle(t, a, command(123, CmdAdmin))
	require.True(t, r.Empty())

	r = adminHandle(t, a, button(123, TagAdminEdit))
	require.True(t, r.Empty())

	r = adminHandle(t, a, text(123, "1500"))
	require.True(t, r.Empty())

	require.Equal(t, before, book.Snapshot())
}

func TestAdminDisabledWhenUnconfigured(t *testing.T) {
	book := pricing.NewBook(nil, nil)
	a := NewAdmin(book, 0)
	r := adminHandle(t, a, command(0, CmdAdmin))
	require.True(t, r.Empty())
}

func TestAdminMenuAndPriceView(t *testing.T) {
	a, _ := testAdmin(t, nil)

	r := adminHandle(t, a, command(adminID, CmdAdmin))
	require.Contains(t, r.Text, "Administración")
	require.Equal(t, TagAdminView, r.Buttons[0][0].Tag)
	require.Equal(t, TagAdminEdit, r.Buttons[1][0].Tag)

	r = adminHandle(t, a, button(adminID, TagAdminView))
	require.Contains(t, r.Text, "Programación: $1000")
	require.Contains(t, r.Text, "(desde 10 un.: $800)")
	require.Contains(t, r.Text, "Desbloqueo: $2000")
}

func TestAdminPriceViewShowsOffers(t *testing.T) {
	book := pricing.NewBook(pricing.Table{
		pricing.ServiceProgramming: {
			UnitPrice: 1000,
			Offer: &pricing.Offer{
				DiscountedPrice: 700,
				ValidUntil:      time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
			},
		},
	}, nil)
	a := NewAdmin(book, adminID)
	a.now = func() time.Time { return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC) }

	adminHandle(t, a, command(adminID, CmdAdmin))
	r := adminHandle(t, a, button(adminID, TagAdminView))
	require.Contains(t, r.Text, "Oferta activa: $700 hasta 31-12-2026")
}

func TestAdminEditFlow(t *testing.T) {
	rec := &recordingAdminStore{}
	a, book := testAdmin(t, rec)

	adminHandle(t, a, command(adminID, CmdAdmin))
	r := adminHandle(t, a, button(adminID, TagAdminEdit))
	require.Contains(t, r.Text, "editar")
	require.NotEmpty(t, r.Buttons)

	r = adminHandle(t, a, button(adminID, TagAdminEditPrefix+"programacion"))
	require.Contains(t, r.Text, "Programación")

	// Non-numeric input re-prompts without mutating anything.
	r = adminHandle(t, a, text(adminID, "mil quinientos"))
	require.Contains(t, r.Text, "válido")
	e, _ := book.Entry(pricing.ServiceProgramming)
	require.EqualValues(t, 1000, e.UnitPrice)

	r = adminHandle(t, a, text(adminID, "1500"))
	require.Contains(t, r.Text, "actualizado")

	e, _ = book.Entry(pricing.ServiceProgramming)
	require.EqualValues(t, 1500, e.UnitPrice)
	require.NotNil(t, rec.saved)
	require.EqualValues(t, 1500, rec.saved[pricing.ServiceProgramming].UnitPrice)
}

func TestAdminEditSurfacesPersistenceFailure(t *testing.T) {
	a, book := testAdmin(t, failingAdminStore{})

	adminHandle(t, a, command(adminID, CmdAdmin))
	adminHandle(t, a, button(adminID, TagAdminEdit))
	adminHandle(t, a, button(adminID, TagAdminEditPrefix+"programacion"))
	r := adminHandle(t, a, text(adminID, "1500"))

	require.Contains(t, r.Text, "No se pudo guardar")
	e, _ := book.Entry(pricing.ServiceProgramming)
	require.EqualValues(t, 1000, e.UnitPrice, "failed write must not change the effective price")
}

// Edited prices feed new quotes immediately.
func TestAdminEditAffectsSubsequentQuotes(t *testing.T) {
	a, book := testAdmin(t, &recordingAdminStore{})

	adminHandle(t, a, command(adminID, CmdAdmin))
	adminHandle(t, a, button(adminID, TagAdminEdit))
	adminHandle(t, a, button(adminID, TagAdminEditPrefix+"programacion"))
	adminHandle(t, a, text(adminID, "1500"))

	q, err := pricing.ComputeQuote(pricing.ServiceProgramming, 5, book, time.Now())
	require.NoError(t, err)
	require.EqualValues(t, 7500, q.Total)
}

type recordingAdminStore struct{ saved pricing.Table }

func (r *recordingAdminStore) Load(context.Context) (pricing.Table, error) {
	return pricing.Defaults(), nil
}

func (r *recordingAdminStore) Save(_ context.Context, t pricing.Table) error {
	r.saved = t.Clone()
	return nil
}

type failingAdminStore struct{}

func (failingAdminStore) Load(context.Context) (pricing.Table, error) {
	return pricing.Defaults(), nil
}

func (failingAdminStore) Save(context.Context, pricing.Table) error {
	return context.DeadlineExceeded
}
