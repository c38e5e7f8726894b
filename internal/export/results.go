// Package export renders game results as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"resident-lockdown/internal/domain"
)

const (
	SheetName   = "Results"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var headers = []interface{}{
	"Name", "Score", "Infection Level", "Status", "Correct Answers", "Wrong Answers", "Eliminated", "Elimination Reason",
}

// WriteXLSX streams one row per result under a header row.
func WriteXLSX(w io.Writer, rows []domain.ResultRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("create stream writer: %w", err)
	}
	if err := sw.SetRow("A1", headers); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}

	for i, r := range rows {
		eliminated := "No"
		if r.Eliminated {
			eliminated = "Yes"
		}
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{
			sanitizeForExcel(r.Name),
			r.Score,
			r.InfectionLevel,
			string(r.Status),
			r.CorrectAnswers,
			r.WrongAnswers,
			eliminated,
			r.EliminationReason,
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return f.Write(w)
}

// sanitizeForExcel keeps player-chosen names from being evaluated as formulas.
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
