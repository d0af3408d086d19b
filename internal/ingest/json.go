package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/jugesdebnath7/powercast/internal/frame"
)

// readJSON reads one file holding a JSON array of flat records.
func readJSON(path string) (*frame.Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	var records []map[string]interface{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	keySet := make(map[string]struct{})
	for _, rec := range records {
		for k := range rec {
			keySet[k] = struct{}{}
		}
	}
	header := make([]string, 0, len(keySet))
	for k := range keySet {
		header = append(header, k)
	}
	sort.Strings(header)

	rows := make([][]string, len(records))
	for ri, rec := range records {
		row := make([]string, len(header))
		for ci, key := range header {
			row[ci] = renderJSONValue(rec[key])
		}
		rows[ri] = row
	}

	return buildFrame(header, rows)
}

// renderJSONValue flattens a scalar JSON value to its string form; null
// and absent values become the missing marker.
func renderJSONValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		b, _ := json.Marshal(val)
		return string(b)
	}
}
