package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/yachiey/ocr-final/internal/repository"
)

// Service is a tiny façade over the result repository that produces XLSX
// bytes for exports.
type Service struct {
	results repository.ResultRepository
	logger  *slog.Logger
}

func NewService(results repository.ResultRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{results: results, logger: logger}
}

// ExportResultsXLSX returns an XLSX workbook (as bytes) of the stored
// extraction results for a user. An empty userID exports everything.
func (s *Service) ExportResultsXLSX(ctx context.Context, userID string) ([]byte, error) {
	start := time.Now()

	recs, err := s.results.ListResults(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Receipts"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Date",
		"Merchant",
		"Invoice No.",
		"Subtotal",
		"Tax",
		"VAT",
		"Total",
		"Currency",
		"Payment Method",
		"Image Path",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range recs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		ext := r.Extraction
		write(1, deref(ext.Transaction.Date))
		write(2, deref(ext.Merchant.Name))
		write(3, deref(ext.Transaction.InvoiceNumber))
		writeMoney(write, 4, ext.Totals.Subtotal)
		writeMoney(write, 5, ext.Totals.Tax)
		writeMoney(write, 6, ext.Totals.VATAmount)
		writeMoney(write, 7, ext.Totals.Total)
		write(8, ext.Totals.Currency)
		write(9, deref(ext.Payment.Method))
		write(10, r.ImagePath)

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "B", 28)
	_ = f.SetColWidth(sheet, "C", "C", 16)
	_ = f.SetColWidth(sheet, "J", "J", 40)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.results.ok",
		"user_id", userID,
		"rows", len(recs),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func writeMoney(write func(int, any), col int, v *float64) {
	if v == nil {
		write(col, "")
		return
	}
	write(col, *v)
}
