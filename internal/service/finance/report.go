package finance

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	sheetSummary   = "Summary"
	sheetExpenses  = "Expenses"
	sheetCompleted = "Completed"
)

// reportWriter пишет листы отчёта построчно
type reportWriter struct {
	file         *excelize.File
	currentSheet string
	currentRow   int
	headerStyle  int
}

func newReportWriter() (*reportWriter, error) {
	file := excelize.NewFile()

	style, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	return &reportWriter{file: file, headerStyle: style}, nil
}

// addSheet начинает новый лист; первый лист переименовывает Sheet1
func (w *reportWriter) addSheet(name string) error {
	if w.currentSheet == "" {
		if err := w.file.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("rename sheet %s: %w", name, err)
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}

	w.currentSheet = name
	w.currentRow = 1
	return nil
}

func (w *reportWriter) writeHeader(columns ...string) error {
	row := make([]interface{}, len(columns))
	for i, c := range columns {
		row[i] = c
	}
	if err := w.writeRow(row...); err != nil {
		return err
	}

	start, _ := excelize.CoordinatesToCellName(1, w.currentRow-1)
	end, _ := excelize.CoordinatesToCellName(len(columns), w.currentRow-1)
	return w.file.SetCellStyle(w.currentSheet, start, end, w.headerStyle)
}

func (w *reportWriter) writeRow(values ...interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, w.currentRow)
	if err != nil {
		return err
	}
	if err := w.file.SetSheetRow(w.currentSheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d of %s: %w", w.currentRow, w.currentSheet, err)
	}
	w.currentRow++
	return nil
}

func (w *reportWriter) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := w.file.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// buildReport формирует xlsx с листами Summary, Expenses и Completed
func buildReport(summary domain.FinancialSummary, expenses []*domain.Expense, completed []*domain.Booking) ([]byte, error) {
	w, err := newReportWriter()
	if err != nil {
		return nil, err
	}
	defer w.file.Close()

	if err := w.addSheet(sheetSummary); err != nil {
		return nil, err
	}
	if err := w.writeHeader("Metric", "Value"); err != nil {
		return nil, err
	}
	summaryRows := [][]interface{}{
		{"From", formatBound(summary.From)},
		{"To", formatBound(summary.To)},
		{"Completed appointments", summary.CompletedCount},
		{"Price per cut", summary.PricePerCut.InexactFloat64()},
		{"Income", summary.Income.InexactFloat64()},
		{"Expenses", summary.Expenses.InexactFloat64()},
		{"Net", summary.Net.InexactFloat64()},
		{"Currency", summary.Currency},
	}
	for _, row := range summaryRows {
		if err := w.writeRow(row...); err != nil {
			return nil, err
		}
	}

	if err := w.addSheet(sheetExpenses); err != nil {
		return nil, err
	}
	if err := w.writeHeader("Date", "Title", "Amount"); err != nil {
		return nil, err
	}
	for _, e := range expenses {
		if err := w.writeRow(e.Date.Format(domain.DateFormat), e.Title, e.Amount.InexactFloat64()); err != nil {
			return nil, err
		}
	}

	if err := w.addSheet(sheetCompleted); err != nil {
		return nil, err
	}
	if err := w.writeHeader("Date", "Time", "Customer", "Phone", "Category"); err != nil {
		return nil, err
	}
	for _, b := range completed {
		if err := w.writeRow(b.Date.Format(domain.DateFormat), b.TimeSlot.String(), b.CustomerName, b.CustomerPhone, string(b.Category)); err != nil {
			return nil, err
		}
	}

	w.file.SetActiveSheet(0)

	return w.bytes()
}
