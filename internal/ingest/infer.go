package ingest

import (
	"strconv"

	"github.com/jugesdebnath7/powercast/internal/frame"
)

// buildFrame type-infers row-major string data into a frame. A column
// whose present values all parse as numbers becomes a float column;
// anything else stays a string column. Empty cells are missing.
func buildFrame(header []string, rows [][]string) (*frame.Frame, error) {
	cols := make([]*frame.Series, 0, len(header))
	for ci, name := range header {
		numeric := true
		present := 0
		for _, row := range rows {
			if ci >= len(row) || row[ci] == "" {
				continue
			}
			present++
			if _, err := strconv.ParseFloat(row[ci], 64); err != nil {
				numeric = false
				break
			}
		}

		if numeric && present > 0 {
			s := frame.NewSeries(name, frame.Float, len(rows))
			for ri, row := range rows {
				if ci >= len(row) || row[ci] == "" {
					continue
				}
				v, _ := strconv.ParseFloat(row[ci], 64)
				s.SetFloat(ri, v)
			}
			cols = append(cols, s)
			continue
		}

		s := frame.NewSeries(name, frame.String, len(rows))
		for ri, row := range rows {
			if ci >= len(row) || row[ci] == "" {
				continue
			}
			s.SetString(ri, row[ci])
		}
		cols = append(cols, s)
	}
	return frame.New(cols...)
}
