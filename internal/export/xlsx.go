// Package export writes admitted business lists as XLSX artifacts.
package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/irfanturkoz/google-maps-scraper/internal/scraper"
)

const sheetName = "Businesses"

// Column widths are sized to the longest value for readability, with padding
// and a cap so one long website does not blow up the layout.
const (
	colPadding  = 2
	maxColWidth = 50
)

// columns is the fixed output column order, matching BusinessRecord.
var columns = []string{"Name", "Address", "Phone", "Website", "Status"}

// WriteXLSX writes records as a single sheet with one header row and one row
// per record. An empty record list is logged and skipped, not an error. The
// whole result set is materialized before writing; there is no streaming.
func WriteXLSX(records []scraper.BusinessRecord, path string) error {
	if len(records) == 0 {
		zap.L().Warn("nothing to export", zap.String("path", path))
		return nil
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	widths := make([]int, len(columns))
	for i, col := range columns {
		header.AddCell().Value = col
		widths[i] = len(col)
	}

	for _, rec := range records {
		row := sheet.AddRow()
		for i, val := range recordValues(rec) {
			row.AddCell().Value = val
			if n := len([]rune(val)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	for i, w := range widths {
		sheet.SetColWidth(i, i, colWidth(w))
	}

	if err := file.Save(path); err != nil {
		return eris.Wrap(err, "export: save file")
	}

	zap.L().Info("exported businesses",
		zap.Int("count", len(records)),
		zap.String("path", path),
	)
	return nil
}

func recordValues(rec scraper.BusinessRecord) []string {
	return []string{rec.Name, rec.Address, rec.Phone, rec.Website, rec.Status}
}

func colWidth(longest int) float64 {
	w := longest + colPadding
	if w > maxColWidth {
		w = maxColWidth
	}
	return float64(w)
}
