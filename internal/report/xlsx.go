package report

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tributecare/poa-validator/constants"
	"github.com/tributecare/poa-validator/internal/verdict"
)

// Row is one validated document in a batch report.
type Row struct {
	Filename string
	Verdict  verdict.Verdict
	Duration time.Duration
	Err      string // non-empty only for pipeline-level errors (cancellation)
}

// Writer produces XLSX verdict reports for batch runs.
type Writer struct {
	logger *slog.Logger
}

func NewWriter(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// WriteXLSX returns an XLSX workbook (as bytes) with one row per document.
// Reason codes are rendered alongside their actionable messages so the report
// is usable without the code table at hand.
func (w *Writer) WriteXLSX(rows []Row) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Verdicts"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defIdx, _ := f.GetSheetIndex("Sheet1"); defIdx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"File",
		"Status",
		"Reason Codes",
		"Details",
		"Confidence",
		"Run ID",
		"Duration (ms)",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	rowNum := 2
	for _, r := range rows {
		values := []any{
			r.Filename,
			string(r.Verdict.Status),
			joinReasons(r.Verdict.Reasons),
			reasonDetails(r.Verdict.Reasons, r.Err),
			confidenceCell(r.Verdict.Confidence),
			r.Verdict.RunID.String(),
			r.Duration.Milliseconds(),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, rowNum)
			_ = f.SetCellValue(sheet, cell, v)
		}
		rowNum++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	w.logger.Info("report.written", "rows", len(rows), "duration_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

func joinReasons(reasons []constants.ReasonCode) string {
	if len(reasons) == 0 {
		return ""
	}
	parts := make([]string, len(reasons))
	for i, r := range reasons {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}

func reasonDetails(reasons []constants.ReasonCode, errMsg string) string {
	if errMsg != "" {
		return errMsg
	}
	var parts []string
	for _, r := range reasons {
		if msg, ok := constants.ReasonMessages[r]; ok {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, " ")
}

func confidenceCell(c *float64) any {
	if c == nil {
		return ""
	}
	return *c
}
