package ingest

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/jugesdebnath7/powercast/internal/frame"
)

// readParquet reads one parquet file through the arrow bridge. Numeric,
// string and timestamp columns keep their types; anything else is
// stringified and left for downstream coercion.
func readParquet(ctx context.Context, path string) (*frame.Frame, error) {
	pf, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer pf.Close()

	reader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, fmt.Errorf("arrow reader for %s: %w", path, err)
	}

	tbl, err := reader.ReadTable(ctx)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", path, err)
	}
	defer tbl.Release()

	rows := int(tbl.NumRows())
	cols := make([]*frame.Series, 0, tbl.NumCols())
	for ci := 0; ci < int(tbl.NumCols()); ci++ {
		field := tbl.Schema().Field(ci)
		chunked := tbl.Column(ci).Data()
		s, err := arrowToSeries(field, chunked, rows)
		if err != nil {
			return nil, fmt.Errorf("column %s of %s: %w", field.Name, path, err)
		}
		cols = append(cols, s)
	}

	return frame.New(cols...)
}

func arrowToSeries(field arrow.Field, chunked *arrow.Chunked, rows int) (*frame.Series, error) {
	var out *frame.Series
	switch field.Type.ID() {
	case arrow.FLOAT64, arrow.FLOAT32, arrow.INT64, arrow.INT32:
		out = frame.NewSeries(field.Name, frame.Float, rows)
	case arrow.TIMESTAMP:
		out = frame.NewSeries(field.Name, frame.Time, rows)
	default:
		out = frame.NewSeries(field.Name, frame.String, rows)
	}

	row := 0
	for _, chunk := range chunked.Chunks() {
		for i := 0; i < chunk.Len(); i++ {
			if chunk.IsNull(i) {
				row++
				continue
			}
			switch arr := chunk.(type) {
			case *array.Float64:
				out.SetFloat(row, arr.Value(i))
			case *array.Float32:
				out.SetFloat(row, float64(arr.Value(i)))
			case *array.Int64:
				out.SetFloat(row, float64(arr.Value(i)))
			case *array.Int32:
				out.SetFloat(row, float64(arr.Value(i)))
			case *array.Timestamp:
				unit := field.Type.(*arrow.TimestampType).Unit
				out.SetTime(row, arr.Value(i).ToTime(unit))
			default:
				out.SetString(row, chunk.ValueStr(i))
			}
			row++
		}
	}
	return out, nil
}
