package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/colmadopos/contable-api/internal/application/dto"
	"github.com/colmadopos/contable-api/internal/application/ledger"
	"github.com/colmadopos/contable-api/internal/application/reports"
	"github.com/colmadopos/contable-api/internal/domain"
	"github.com/colmadopos/contable-api/internal/domain/entity"
)

// LedgerHandler maneja las peticiones HTTP del libro diario (protegido).
type LedgerHandler struct {
	svc    *ledger.Service
	engine *reports.Engine
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(svc *ledger.Service, engine *reports.Engine) *LedgerHandler {
	return &LedgerHandler{svc: svc, engine: engine}
}

// GetEntry godoc
// @Summary      Obtener asiento por ID
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del asiento"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ledger/entries/{id} [get]
func (h *LedgerHandler) GetEntry(c *fiber.Ctx) error {
	entry, err := h.svc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}

// ListEntries godoc
// @Summary      Listar asientos del período
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        from         query  string  false  "Fecha inicial (2006-01-02)"
// @Param        to           query  string  false  "Fecha final (2006-01-02)"
// @Param        source_type  query  string  false  "Filtrar por origen (sale, purchase, shift_close, ...)"
// @Success      200  {array}   map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/entries [get]
func (h *LedgerHandler) ListEntries(c *fiber.Ctx) error {
	from, to, err := parsePeriod(c)
	if err != nil {
		return respondError(c, err)
	}
	var entries []*entity.JournalEntry
	if st := c.Query("source_type"); st != "" {
		entries, err = h.engine.EntriesBySourceType(c.Context(), entity.SourceType(st), from, to)
	} else {
		entries, err = h.engine.EntriesForPeriod(c.Context(), from, to)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(entries), "entries": entries})
}

// VoidEntry godoc
// @Summary      Anular asiento (genera asiento de reverso)
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del asiento a anular"
// @Param        body  body  dto.VoidEntryRequest  true  "reason"
// @Success      201   {object}  map[string]string
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/ledger/entries/{id}/void [post]
func (h *LedgerHandler) VoidEntry(c *fiber.Ctx) error {
	var in dto.VoidEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	reversal, err := h.svc.Void(c.Context(), c.Params("id"), in.Reason, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"reversal_entry_id": reversal.ID,
		"entry_number":      reversal.EntryNumber,
	})
}

// parsePeriod lee from/to de la query (formato 2006-01-02). "to" cubre el día
// completo.
func parsePeriod(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, nil, domain.ErrInvalidInput
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, nil, domain.ErrInvalidInput
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return from, to, nil
}
