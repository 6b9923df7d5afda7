package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/colmadopos/contable-api/internal/application/dto"
	"github.com/colmadopos/contable-api/internal/application/pos"
)

// POSHandler maneja las peticiones HTTP de los flujos de caja (protegido).
type POSHandler struct {
	sales       *pos.RegisterSaleUseCase
	purchases   *pos.PurchaseUseCase
	shifts      *pos.ShiftUseCase
	shrinkage   *pos.ShrinkageUseCase
	settlements *pos.SettlementUseCase
}

// NewPOSHandler construye el handler.
func NewPOSHandler(
	sales *pos.RegisterSaleUseCase,
	purchases *pos.PurchaseUseCase,
	shifts *pos.ShiftUseCase,
	shrinkage *pos.ShrinkageUseCase,
	settlements *pos.SettlementUseCase,
) *POSHandler {
	return &POSHandler{
		sales:       sales,
		purchases:   purchases,
		shifts:      shifts,
		shrinkage:   shrinkage,
		settlements: settlements,
	}
}

// RegisterSale godoc
// @Summary      Registrar venta (contado, tarjeta o crédito)
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterSaleRequest  true  "shift_id, number, payment_method, items"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pos/sales [post]
func (h *POSHandler) RegisterSale(c *fiber.Ctx) error {
	var in dto.RegisterSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sale, err := h.sales.RegisterSale(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":               sale.ID,
		"journal_entry_id": sale.JournalEntryID,
		"grand_total":      sale.GrandTotal,
	})
}

// RegisterReturn godoc
// @Summary      Registrar devolución sobre una venta
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SalesReturnRequest  true  "sale_id, refund_method, net_total, tax_total"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/pos/returns [post]
func (h *POSHandler) RegisterReturn(c *fiber.Ctx) error {
	var in dto.SalesReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ret, err := h.sales.RegisterReturn(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":               ret.ID,
		"journal_entry_id": ret.JournalEntryID,
	})
}

// RegisterPurchase godoc
// @Summary      Registrar factura de proveedor
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterPurchaseRequest  true  "supplier_id, number, items con target inventory|expense"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pos/purchases [post]
func (h *POSHandler) RegisterPurchase(c *fiber.Ctx) error {
	var in dto.RegisterPurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	invoice, err := h.purchases.RegisterPurchase(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":               invoice.ID,
		"journal_entry_id": invoice.JournalEntryID,
		"grand_total":      invoice.GrandTotal,
	})
}

// RegisterSupplierPayment godoc
// @Summary      Registrar pago a proveedor
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SupplierPaymentRequest  true  "supplier_id, method cash|transfer, amount"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/pos/supplier-payments [post]
func (h *POSHandler) RegisterSupplierPayment(c *fiber.Ctx) error {
	var in dto.SupplierPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	payment, err := h.purchases.RegisterPayment(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":               payment.ID,
		"journal_entry_id": payment.JournalEntryID,
	})
}

// OpenShift godoc
// @Summary      Abrir turno de caja
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenShiftRequest  true  "register_id"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/pos/shifts [post]
func (h *POSHandler) OpenShift(c *fiber.Ctx) error {
	var in dto.OpenShiftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	shift, err := h.shifts.Open(c.Context(), in.RegisterID, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": shift.ID, "opened_at": shift.OpenedAt})
}

// CloseShift godoc
// @Summary      Cerrar turno de caja y contabilizar el COGS del turno
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del turno"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pos/shifts/{id}/close [post]
func (h *POSHandler) CloseShift(c *fiber.Ctx) error {
	shift, entry, err := h.shifts.Close(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	resp := fiber.Map{"id": shift.ID, "closed_at": shift.ClosedAt}
	if entry != nil {
		resp["cogs_journal_entry_id"] = entry.ID
		resp["total_cogs"] = entry.TotalDebit
	}
	return c.JSON(resp)
}

// ShiftSales godoc
// @Summary      Listar las ventas de un turno (arqueo de caja)
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del turno"
// @Success      200  {array}   map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pos/shifts/{id}/sales [get]
func (h *POSHandler) ShiftSales(c *fiber.Ctx) error {
	sales, err := h.shifts.Sales(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"shift_id": c.Params("id"), "count": len(sales), "sales": sales})
}

// RegisterShrinkage godoc
// @Summary      Registrar merma o ajuste de inventario
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ShrinkageRequest  true  "product_id, reason, quantity (unit_cost solo para found)"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/pos/shrinkage [post]
func (h *POSHandler) RegisterShrinkage(c *fiber.Ctx) error {
	var in dto.ShrinkageRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	adj, err := h.shrinkage.Register(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":               adj.ID,
		"journal_entry_id": adj.JournalEntryID,
		"total_cost":       adj.TotalCost,
	})
}

// SettleCards godoc
// @Summary      Liquidar lote de ventas con tarjeta
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SettleCardsRequest  true  "period_start, period_end, sale_ids, commission_rate, tax_retained_rate"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pos/settlements [post]
func (h *POSHandler) SettleCards(c *fiber.Ctx) error {
	var in dto.SettleCardsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	stl, err := h.settlements.SettleCards(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":               stl.ID,
		"journal_entry_id": stl.JournalEntryID,
		"gross_amount":     stl.GrossAmount,
		"net_deposit":      stl.NetDeposit,
	})
}
