package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/colmadopos/contable-api/internal/application/reports"
	"github.com/colmadopos/contable-api/internal/domain"
)

// ReportsHandler maneja las peticiones HTTP de reportes contables (protegido).
type ReportsHandler struct {
	engine *reports.Engine
	pdf    *reports.PDFUseCase
}

// NewReportsHandler construye el handler.
func NewReportsHandler(engine *reports.Engine, pdf *reports.PDFUseCase) *ReportsHandler {
	return &ReportsHandler{engine: engine, pdf: pdf}
}

// TrialBalance godoc
// @Summary      Balanza de comprobación del período
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Fecha inicial (2006-01-02)"
// @Param        to    query  string  false  "Fecha final (2006-01-02)"
// @Success      200  {object}  reports.TrialBalance
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/trial-balance [get]
func (h *ReportsHandler) TrialBalance(c *fiber.Ctx) error {
	from, to, err := parsePeriod(c)
	if err != nil {
		return respondError(c, err)
	}
	tb, err := h.engine.TrialBalance(c.Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tb)
}

// TrialBalancePDF godoc
// @Summary      Balanza de comprobación en PDF
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        from  query  string  false  "Fecha inicial (2006-01-02)"
// @Param        to    query  string  false  "Fecha final (2006-01-02)"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/trial-balance/pdf [get]
func (h *ReportsHandler) TrialBalancePDF(c *fiber.Ctx) error {
	from, to, err := parsePeriod(c)
	if err != nil {
		return respondError(c, err)
	}
	pdfBytes, filename, err := h.pdf.DownloadTrialBalancePDF(c.Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}

// AccountBalance godoc
// @Summary      Actividad y saldo de una cuenta en el período
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        code  path   string  true   "Código de cuenta (p.ej. 1101)"
// @Param        from  query  string  false  "Fecha inicial (2006-01-02)"
// @Param        to    query  string  false  "Fecha final (2006-01-02)"
// @Success      200  {object}  reports.TrialBalanceRow
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/accounts/{code} [get]
func (h *ReportsHandler) AccountBalance(c *fiber.Ctx) error {
	from, to, err := parsePeriod(c)
	if err != nil {
		return respondError(c, err)
	}
	row, err := h.engine.AccountBalance(c.Context(), c.Params("code"), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(row)
}

// IncomeStatement godoc
// @Summary      Estado de resultados del período
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Fecha inicial (2006-01-02)"
// @Param        to    query  string  false  "Fecha final (2006-01-02)"
// @Success      200  {object}  reports.IncomeStatement
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/income-statement [get]
func (h *ReportsHandler) IncomeStatement(c *fiber.Ctx) error {
	from, to, err := parsePeriod(c)
	if err != nil {
		return respondError(c, err)
	}
	is, err := h.engine.IncomeStatement(c.Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(is)
}

// BalanceSheet godoc
// @Summary      Balance general a fecha de corte
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        as_of  query  string  false  "Fecha de corte (2006-01-02), por defecto hoy"
// @Success      200  {object}  reports.BalanceSheet
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/balance-sheet [get]
func (h *ReportsHandler) BalanceSheet(c *fiber.Ctx) error {
	asOf, err := parseAsOf(c)
	if err != nil {
		return respondError(c, err)
	}
	bs, err := h.engine.BalanceSheet(c.Context(), asOf)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(bs)
}

// CashFlow godoc
// @Summary      Flujo de efectivo del período por origen
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Fecha inicial (2006-01-02)"
// @Param        to    query  string  false  "Fecha final (2006-01-02)"
// @Success      200  {object}  reports.CashFlow
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/cash-flow [get]
func (h *ReportsHandler) CashFlow(c *fiber.Ctx) error {
	from, to, err := parsePeriod(c)
	if err != nil {
		return respondError(c, err)
	}
	cf, err := h.engine.CashFlow(c.Context(), from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cf)
}

// ARAging godoc
// @Summary      Antigüedad de cuentas por cobrar
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        as_of  query  string  false  "Fecha de corte (2006-01-02), por defecto hoy"
// @Success      200  {object}  reports.AgingReport
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/ar-aging [get]
func (h *ReportsHandler) ARAging(c *fiber.Ctx) error {
	asOf, err := parseAsOf(c)
	if err != nil {
		return respondError(c, err)
	}
	report, err := h.engine.ARAging(c.Context(), asOf)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// APAging godoc
// @Summary      Antigüedad de cuentas por pagar
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        as_of  query  string  false  "Fecha de corte (2006-01-02), por defecto hoy"
// @Success      200  {object}  reports.AgingReport
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/ap-aging [get]
func (h *ReportsHandler) APAging(c *fiber.Ctx) error {
	asOf, err := parseAsOf(c)
	if err != nil {
		return respondError(c, err)
	}
	report, err := h.engine.APAging(c.Context(), asOf)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

func parseAsOf(c *fiber.Ctx) (time.Time, error) {
	if s := c.Query("as_of"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return time.Time{}, domain.ErrInvalidInput
		}
		return t.Add(24*time.Hour - time.Nanosecond), nil
	}
	return time.Now(), nil
}
