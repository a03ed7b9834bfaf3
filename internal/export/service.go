// Package export renders the merged datasets into the analyst-facing
// workbook. It is a presentation sink: it receives the same tables the
// snapshot store persists.
package export

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/farematrix/faremon/constants"
	"github.com/farematrix/faremon/internal/canonical"
	"github.com/farematrix/faremon/internal/dataset"
)

// Service produces XLSX bytes for the offers/errors workbook.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// RenderWorkbook returns an XLSX workbook with the offers sheet and the
// error-monitoring sheet. Date columns carry a DD/MM/YYYY number format.
func (s *Service) RenderWorkbook(offers, errs *dataset.Table) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	if err := writeSheet(f, constants.SheetOffers, offers); err != nil {
		return nil, err
	}
	if err := writeSheet(f, constants.SheetErrors, errs); err != nil {
		return nil, err
	}
	// The workbook opens on the offers sheet; drop excelize's default.
	if idx, _ := f.GetSheetIndex(constants.SheetOffers); idx != -1 {
		f.SetActiveSheet(idx)
	}
	_ = f.DeleteSheet("Sheet1")

	if err := styleDateColumns(f, constants.SheetOffers, offers); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"offers", offers.Len(),
		"errors", errs.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, t *dataset.Table) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	for i, col := range t.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}
	for r := 0; r < t.Len(); r++ {
		for c, col := range t.Columns {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, cellValue(col, t.Get(r, col))); err != nil {
				return err
			}
		}
	}
	// Widen the identifier column a little.
	_ = f.SetColWidth(sheet, "A", "A", 32)
	return nil
}

// cellValue types numeric and date columns so Excel treats them natively;
// everything else is written as text.
func cellValue(col, val string) any {
	switch col {
	case constants.ColPrice:
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			return v
		}
	case constants.ColADVP, constants.ColRanking, constants.ColPage:
		if v, err := strconv.Atoi(val); err == nil {
			return v
		}
	case constants.ColFlightDate, constants.ColSearchDate:
		if d, ok := canonical.ParseDate(val); ok {
			return d
		}
	}
	return val
}

func styleDateColumns(f *excelize.File, sheet string, t *dataset.Table) error {
	if t.Len() == 0 {
		return nil
	}
	numFmt := "DD/MM/YYYY"
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return err
	}
	for i, col := range t.Columns {
		if col != constants.ColFlightDate && col != constants.ColSearchDate {
			continue
		}
		top, _ := excelize.CoordinatesToCellName(i+1, 2)
		bottom, _ := excelize.CoordinatesToCellName(i+1, t.Len()+1)
		if err := f.SetCellStyle(sheet, top, bottom, style); err != nil {
			return err
		}
	}
	return nil
}
