package pos

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/colmadopos/contable-api/internal/application/ledger"
	"github.com/colmadopos/contable-api/internal/domain"
	"github.com/colmadopos/contable-api/internal/domain/entity"
	"github.com/colmadopos/contable-api/pkg/logger"
)

// ShiftUseCase abre y cierra turnos de caja. El cierre suma el costo FIFO de
// todos los consumos atribuidos al turno y contabiliza un único asiento de COGS.
type ShiftUseCase struct {
	txRunner  TxRunner
	ledgerSvc *ledger.Service
	factory   *ledger.EntryFactory
	log       *logger.Logger
}

// NewShiftUseCase construye el caso de uso.
func NewShiftUseCase(txRunner TxRunner, ledgerSvc *ledger.Service, factory *ledger.EntryFactory, log *logger.Logger) *ShiftUseCase {
	return &ShiftUseCase{txRunner: txRunner, ledgerSvc: ledgerSvc, factory: factory, log: log}
}

// Open abre un turno de caja.
func (uc *ShiftUseCase) Open(ctx context.Context, registerID, userID string) (*entity.CashRegisterShift, error) {
	if registerID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	shift := &entity.CashRegisterShift{
		ID:         uuid.New().String(),
		RegisterID: registerID,
		OpenedBy:   userID,
		OpenedAt:   now,
		Status:     entity.ShiftStatusOpen,
		CreatedAt:  now,
	}
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		return r.Shifts.Create(shift)
	})
	if err != nil {
		return nil, err
	}
	return shift, nil
}

// Sales devuelve las ventas registradas en el turno (arqueo de caja).
func (uc *ShiftUseCase) Sales(ctx context.Context, shiftID string) ([]*entity.Sale, error) {
	if shiftID == "" {
		return nil, domain.ErrInvalidInput
	}
	var sales []*entity.Sale
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		shift, err := r.Shifts.GetByID(shiftID)
		if err != nil {
			return err
		}
		if shift == nil {
			return domain.ErrNotFound
		}
		sales, err = r.Sales.ListByShift(shiftID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sales, nil
}

// Close cierra el turno exactamente una vez (FOR UPDATE sobre la fila) y
// contabiliza el COGS acumulado. Un turno sin consumos no genera asiento.
func (uc *ShiftUseCase) Close(ctx context.Context, shiftID, userID string) (*entity.CashRegisterShift, *entity.JournalEntry, error) {
	if shiftID == "" {
		return nil, nil, domain.ErrInvalidInput
	}

	var shift *entity.CashRegisterShift
	var entry *entity.JournalEntry
	err := uc.txRunner.Run(ctx, func(r Repos) error {
		current, err := r.Shifts.GetForUpdate(shiftID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if current.Status == entity.ShiftStatusClosed {
			return domain.ErrTurnoCerrado
		}

		totalCOGS, err := r.Consumptions.SumCostByShift(shiftID)
		if err != nil {
			return err
		}

		now := time.Now()
		current.ClosedAt = &now
		current.ClosedBy = userID

		e, err := uc.factory.ShiftCloseEntry(current, totalCOGS)
		if err != nil {
			return err
		}
		cogsEntryID := ""
		if e != nil {
			if err := uc.ledgerSvc.PostInTx(r.Journal, e); err != nil {
				return err
			}
			cogsEntryID = e.ID
		}

		if err := r.Shifts.Close(shiftID, userID, cogsEntryID, now); err != nil {
			return err
		}

		current.Status = entity.ShiftStatusClosed
		current.COGSJournalEntryID = cogsEntryID
		shift = current
		entry = e
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if entry == nil {
		uc.log.Info().Str("shift_id", shiftID).Msg("turno cerrado sin consumos: no se genera asiento de COGS")
	}
	return shift, entry, nil
}
