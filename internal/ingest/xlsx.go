package ingest

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jugesdebnath7/powercast/internal/frame"
)

// readXLSX reads the first sheet of one workbook, treating the first row
// as the header.
func readXLSX(path string) (*frame.Frame, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q of %s: %w", sheets[0], path, err)
	}
	if len(rows) == 0 {
		return buildFrame(nil, nil)
	}

	return buildFrame(rows[0], rows[1:])
}
