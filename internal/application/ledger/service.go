package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/colmadopos/contable-api/internal/domain"
	"github.com/colmadopos/contable-api/internal/domain/entity"
	ledgerdom "github.com/colmadopos/contable-api/internal/domain/ledger"
	"github.com/colmadopos/contable-api/internal/domain/repository"
)

// Service coordina la contabilización, numeración y anulación de asientos.
// Los asientos son write-once: Post falla cerrado ante un asiento descuadrado
// y la corrección es siempre por asiento de reverso.
type Service struct {
	txRunner TxRunner
	now      func() time.Time
}

// NewService construye el servicio del libro diario.
func NewService(txRunner TxRunner) *Service {
	return &Service{txRunner: txRunner, now: time.Now}
}

// WithNow reemplaza el reloj (tests).
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Validate verifica el invariante de cuadre: |Σdébito − Σcrédito| < 0.02 y ≥2 líneas.
func (s *Service) Validate(entry *entity.JournalEntry) bool {
	return entry != nil && ledgerdom.Balanced(entry.Lines)
}

// Post contabiliza un asiento en su propia transacción.
func (s *Service) Post(ctx context.Context, entry *entity.JournalEntry) (*entity.JournalEntry, error) {
	err := s.txRunner.Run(ctx, func(journalRepo repository.JournalRepository) error {
		return s.PostInTx(journalRepo, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// PostInTx contabiliza un asiento usando el repositorio proporcionado (misma
// transacción del caller). Asigna número secuencial por año bajo el lock del
// año: dos llamadas concurrentes nunca producen el mismo número.
func (s *Service) PostInTx(journalRepo repository.JournalRepository, entry *entity.JournalEntry) error {
	if entry == nil || len(entry.Lines) == 0 {
		return domain.ErrInvalidInput
	}
	if !entry.SourceType.Valid() {
		return domain.ErrInvalidInput
	}
	if !ledgerdom.Balanced(entry.Lines) {
		return domain.ErrAsientoDescuadrado
	}

	now := s.now()
	if entry.Date.IsZero() {
		entry.Date = now
	}

	number, err := nextEntryNumber(journalRepo, entry.Date.Year())
	if err != nil {
		return err
	}
	entry.EntryNumber = number
	entry.Status = entity.EntryStatusPosted
	entry.PostedAt = now
	entry.CreatedAt = now
	entry.RecalcTotals()

	return journalRepo.Create(entry)
}

// nextEntryNumber calcula el siguiente número JE-<año>-<secuencia de 5 dígitos>.
// Requiere el advisory lock del año para serializar lecturas concurrentes.
func nextEntryNumber(journalRepo repository.JournalRepository, year int) (string, error) {
	if err := journalRepo.LockYear(year); err != nil {
		return "", fmt.Errorf("bloquear numeración del año %d: %w", year, err)
	}
	count, err := journalRepo.CountByYear(year)
	if err != nil {
		return "", fmt.Errorf("contar asientos del año %d: %w", year, err)
	}
	return fmt.Sprintf("JE-%d-%05d", year, count+1), nil
}

// Get obtiene un asiento por ID.
func (s *Service) Get(ctx context.Context, entryID string) (*entity.JournalEntry, error) {
	var entry *entity.JournalEntry
	err := s.txRunner.Run(ctx, func(journalRepo repository.JournalRepository) error {
		e, err := journalRepo.GetByID(entryID)
		if err != nil {
			return err
		}
		if e == nil {
			return domain.ErrNotFound
		}
		entry = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Void anula un asiento: marca el original como voided y contabiliza un asiento
// de reverso (débitos y créditos intercambiados, descripción con prefijo
// "REVERSO:", mismo sourceType/sourceId). El original nunca se borra ni se
// edita; el reverso recibe su propio número. Devuelve el asiento de reverso.
func (s *Service) Void(ctx context.Context, entryID, reason, actor string) (*entity.JournalEntry, error) {
	var reversal *entity.JournalEntry
	err := s.txRunner.Run(ctx, func(journalRepo repository.JournalRepository) error {
		original, err := journalRepo.GetByID(entryID)
		if err != nil {
			return err
		}
		if original == nil {
			return domain.ErrNotFound
		}
		if original.Status == entity.EntryStatusVoided {
			return domain.ErrAsientoYaAnulado
		}

		now := s.now()
		if err := journalRepo.MarkVoided(original.ID, reason, actor, now); err != nil {
			return err
		}

		reversal = reversalOf(original)
		return s.PostInTx(journalRepo, reversal)
	})
	if err != nil {
		return nil, err
	}
	return reversal, nil
}

// reversalOf construye el asiento de reverso: mismas líneas con débito/crédito
// intercambiados. Por cada cuenta, original + reverso netean a cero.
func reversalOf(original *entity.JournalEntry) *entity.JournalEntry {
	lines := make([]entity.JournalEntryLine, 0, len(original.Lines))
	for _, l := range original.Lines {
		lines = append(lines, entity.JournalEntryLine{
			AccountCode: l.AccountCode,
			AccountName: l.AccountName,
			Description: l.Description,
			Debit:       l.Credit,
			Credit:      l.Debit,
			TaxRate:     l.TaxRate,
		})
	}
	return &entity.JournalEntry{
		Date:        original.Date,
		Description: "REVERSO: " + original.Description,
		SourceType:  original.SourceType,
		SourceID:    original.SourceID,
		Lines:       lines,
	}
}
