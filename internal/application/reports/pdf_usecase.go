package reports

import (
	"context"
	"fmt"
	"time"
)

// TrialBalancePDFGenerator puerto de generación de la balanza en PDF.
type TrialBalancePDFGenerator interface {
	GenerateTrialBalancePDF(ctx context.Context, tb *TrialBalance) ([]byte, error)
}

// PDFUseCase genera la representación en PDF de la balanza de comprobación.
type PDFUseCase struct {
	engine    *Engine
	generator TrialBalancePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(engine *Engine, generator TrialBalancePDFGenerator) *PDFUseCase {
	return &PDFUseCase{engine: engine, generator: generator}
}

// DownloadTrialBalancePDF genera la balanza del período y su PDF.
//
// Retorna (pdfBytes, filename, nil) si todo sale bien.
func (uc *PDFUseCase) DownloadTrialBalancePDF(ctx context.Context, from, to *time.Time) ([]byte, string, error) {
	tb, err := uc.engine.TrialBalance(ctx, from, to)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar balanza: %w", err)
	}

	pdfBytes, err := uc.generator.GenerateTrialBalancePDF(ctx, tb)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	suffix := "completa"
	if to != nil {
		suffix = to.Format("2006-01-02")
	}
	return pdfBytes, fmt.Sprintf("balanza_%s.pdf", suffix), nil
}
