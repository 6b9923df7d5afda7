package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/colmadopos/contable-api/internal/application/dto"
	"github.com/colmadopos/contable-api/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP de lotes FIFO (protegido).
type InventoryHandler struct {
	lotTracker *inventory.LotTrackerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(lotTracker *inventory.LotTrackerUseCase) *InventoryHandler {
	return &InventoryHandler{lotTracker: lotTracker}
}

// AddLot godoc
// @Summary      Alta manual de lote (correcciones, carga inicial)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddLotRequest  true  "product_id, quantity, unit_cost, tax_rate"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/lots [post]
func (h *InventoryHandler) AddLot(c *fiber.Ctx) error {
	var in dto.AddLotRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	lotID, err := h.lotTracker.AddLot(c.Context(), inventory.AddLotInput{
		ProductID:       in.ProductID,
		Quantity:        in.Quantity,
		UnitCost:        in.UnitCost,
		TaxRate:         in.TaxRate,
		PurchaseDate:    time.Now(),
		SourceInvoiceID: in.SourceInvoiceID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": lotID})
}

// Consume godoc
// @Summary      Consumo FIFO directo (primitiva de costeo)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConsumeRequest  true  "product_id, quantity"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/consume [post]
func (h *InventoryHandler) Consume(c *fiber.Ctx) error {
	var in dto.ConsumeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	consumption, err := h.lotTracker.Consume(c.Context(), inventory.ConsumeInput{
		ProductID:     in.ProductID,
		Quantity:      in.Quantity,
		TransactionID: in.TransactionID,
		ShiftID:       in.ShiftID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":            consumption.ID,
		"total_cost":    consumption.TotalCost,
		"unit_cost":     consumption.UnitCost,
		"estimated_qty": consumption.EstimatedQty,
		"draws":         consumption.Draws,
	})
}

// ListLots godoc
// @Summary      Listar lotes de un producto en orden FIFO
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  path  string  true  "ID del producto"
// @Success      200  {array}   map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/lots/{product_id} [get]
func (h *InventoryHandler) ListLots(c *fiber.Ctx) error {
	lots, err := h.lotTracker.Lots(c.Context(), c.Params("product_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"total": len(lots), "lots": lots})
}
