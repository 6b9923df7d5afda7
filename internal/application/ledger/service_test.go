package ledger_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appledger "github.com/colmadopos/contable-api/internal/application/ledger"
	"github.com/colmadopos/contable-api/internal/domain"
	"github.com/colmadopos/contable-api/internal/domain/entity"
	"github.com/colmadopos/contable-api/internal/domain/repository"
)

// fakeJournalRepo repositorio del diario en memoria para pruebas del servicio.
type fakeJournalRepo struct {
	entries []*entity.JournalEntry
}

var _ repository.JournalRepository = (*fakeJournalRepo)(nil)

func (f *fakeJournalRepo) Create(entry *entity.JournalEntry) error {
	if entry.ID == "" {
		entry.ID = fmt.Sprintf("entry-%d", len(f.entries)+1)
	}
	for _, e := range f.entries {
		if e.EntryNumber == entry.EntryNumber {
			return domain.ErrConflict
		}
	}
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeJournalRepo) GetByID(id string) (*entity.JournalEntry, error) {
	for _, e := range f.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (f *fakeJournalRepo) LockYear(year int) error { return nil }

func (f *fakeJournalRepo) CountByYear(year int) (int, error) {
	prefix := fmt.Sprintf("JE-%d-", year)
	count := 0
	for _, e := range f.entries {
		if strings.HasPrefix(e.EntryNumber, prefix) {
			count++
		}
	}
	return count, nil
}

func (f *fakeJournalRepo) MarkVoided(id, reason, actor string, at time.Time) error {
	for _, e := range f.entries {
		if e.ID == id {
			e.Status = entity.EntryStatusVoided
			e.VoidReason = reason
			e.VoidedBy = actor
			e.VoidedAt = &at
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeJournalRepo) ListPosted(from, to *time.Time) ([]*entity.JournalEntry, error) {
	var out []*entity.JournalEntry
	for _, e := range f.entries {
		if e.Status == entity.EntryStatusPosted {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeJournalRepo) ListBySourceType(sourceType entity.SourceType, from, to *time.Time) ([]*entity.JournalEntry, error) {
	var out []*entity.JournalEntry
	for _, e := range f.entries {
		if e.Status == entity.EntryStatusPosted && e.SourceType == sourceType {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeTxRunner ejecuta la función directamente contra el repositorio en memoria.
type fakeTxRunner struct {
	repo *fakeJournalRepo
}

func (f *fakeTxRunner) Run(ctx context.Context, fn func(repository.JournalRepository) error) error {
	return fn(f.repo)
}

func newService() (*appledger.Service, *fakeJournalRepo) {
	repo := &fakeJournalRepo{}
	svc := appledger.NewService(&fakeTxRunner{repo: repo})
	svc.WithNow(func() time.Time {
		return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	})
	return svc, repo
}

func saleEntry(desc string) *entity.JournalEntry {
	return &entity.JournalEntry{
		Description: desc,
		SourceType:  entity.SourceSale,
		SourceID:    "sale-1",
		Lines: []entity.JournalEntryLine{
			{AccountCode: "1101", AccountName: "Caja General", Debit: decimal.RequireFromString("118"), Credit: decimal.Zero},
			{AccountCode: "4101", AccountName: "Ventas de Mercancías", Debit: decimal.Zero, Credit: decimal.RequireFromString("100")},
			{AccountCode: "2102", AccountName: "ITBIS por Pagar", Debit: decimal.Zero, Credit: decimal.RequireFromString("18")},
		},
	}
}

// TestService_Post_NumeracionSecuencial verifica que los números de asiento se
// asignan en secuencia por año con el formato JE-<año>-<5 dígitos>.
func TestService_Post_NumeracionSecuencial(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	for i, want := range []string{"JE-2025-00001", "JE-2025-00002", "JE-2025-00003"} {
		posted, err := svc.Post(ctx, saleEntry(fmt.Sprintf("Venta V-%d", i+1)))
		require.NoError(t, err)
		assert.Equal(t, want, posted.EntryNumber)
		assert.Equal(t, entity.EntryStatusPosted, posted.Status)
	}
}

// TestService_Post_NumeracionReiniciaPorAno verifica que la secuencia se
// reinicia con el año de la fecha del asiento: el primer asiento de cada año
// recibe la secuencia 00001.
func TestService_Post_NumeracionReiniciaPorAno(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	dic := saleEntry("Venta de diciembre")
	dic.Date = time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)
	posted, err := svc.Post(ctx, dic)
	require.NoError(t, err)
	assert.Equal(t, "JE-2025-00001", posted.EntryNumber)

	ene := saleEntry("Venta de enero")
	ene.Date = time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	posted, err = svc.Post(ctx, ene)
	require.NoError(t, err)
	assert.Equal(t, "JE-2026-00001", posted.EntryNumber,
		"el cambio de año debe reiniciar la secuencia")

	ene2 := saleEntry("Segunda venta de enero")
	ene2.Date = time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC)
	posted, err = svc.Post(ctx, ene2)
	require.NoError(t, err)
	assert.Equal(t, "JE-2026-00002", posted.EntryNumber)
}

func TestService_Post_RecalculaTotales(t *testing.T) {
	svc, _ := newService()

	posted, err := svc.Post(context.Background(), saleEntry("Venta V-100"))
	require.NoError(t, err)
	assert.True(t, posted.TotalDebit.Equal(decimal.RequireFromString("118")))
	assert.True(t, posted.TotalCredit.Equal(decimal.RequireFromString("118")))
	assert.False(t, posted.PostedAt.IsZero())
}

func TestService_Post_AsientoDescuadrado(t *testing.T) {
	svc, repo := newService()

	entry := saleEntry("Venta V-200")
	entry.Lines[0].Debit = decimal.RequireFromString("120") // 2.00 de diferencia

	_, err := svc.Post(context.Background(), entry)
	assert.ErrorIs(t, err, domain.ErrAsientoDescuadrado)
	assert.Empty(t, repo.entries, "un asiento descuadrado no debe persistirse")
}

func TestService_Post_OrigenInvalido(t *testing.T) {
	svc, _ := newService()

	entry := saleEntry("Venta V-300")
	entry.SourceType = entity.SourceType("lottery")

	_, err := svc.Post(context.Background(), entry)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestService_Post_SinLineas(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Post(context.Background(), &entity.JournalEntry{SourceType: entity.SourceSale})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Post(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestService_Void_GeneraReverso verifica la anulación por reverso: el original
// queda voided y el reverso intercambia débitos y créditos con su propio número.
func TestService_Void_GeneraReverso(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	original, err := svc.Post(ctx, saleEntry("Venta V-400"))
	require.NoError(t, err)

	reversal, err := svc.Void(ctx, original.ID, "venta duplicada", "admin-1")
	require.NoError(t, err)

	assert.Equal(t, entity.EntryStatusVoided, original.Status)
	assert.Equal(t, "venta duplicada", original.VoidReason)
	assert.Equal(t, "admin-1", original.VoidedBy)
	require.NotNil(t, original.VoidedAt)

	assert.Equal(t, "JE-2025-00002", reversal.EntryNumber, "el reverso recibe su propio número")
	assert.Equal(t, "REVERSO: Venta V-400", reversal.Description)
	assert.Equal(t, original.SourceType, reversal.SourceType)
	assert.Equal(t, original.SourceID, reversal.SourceID)

	require.Len(t, reversal.Lines, len(original.Lines))
	for i, l := range reversal.Lines {
		assert.True(t, l.Debit.Equal(original.Lines[i].Credit), "línea %d: el débito del reverso es el crédito original", i)
		assert.True(t, l.Credit.Equal(original.Lines[i].Debit), "línea %d: el crédito del reverso es el débito original", i)
	}
	assert.Len(t, repo.entries, 2, "el original nunca se borra")
}

func TestService_Void_YaAnulado(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	original, err := svc.Post(ctx, saleEntry("Venta V-500"))
	require.NoError(t, err)

	_, err = svc.Void(ctx, original.ID, "error de captura", "admin-1")
	require.NoError(t, err)

	_, err = svc.Void(ctx, original.ID, "segundo intento", "admin-1")
	assert.ErrorIs(t, err, domain.ErrAsientoYaAnulado)
}

func TestService_Void_NoExiste(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Void(context.Background(), "no-existe", "motivo", "admin-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_Get(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	posted, err := svc.Post(ctx, saleEntry("Venta V-600"))
	require.NoError(t, err)

	got, err := svc.Get(ctx, posted.ID)
	require.NoError(t, err)
	assert.Equal(t, posted.EntryNumber, got.EntryNumber)

	_, err = svc.Get(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
