package render

import (
	"fmt"
	"io"
	"time"

	jsoniter "github.com/json-iterator/go"

	"lending/internal/report"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSON renders reports as a JSON document
type JSON struct{}

type jsonColumn struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type jsonReport struct {
	Title   string                   `json:"title"`
	Columns []jsonColumn             `json:"columns"`
	Rows    []map[string]interface{} `json:"rows"`
}

// Render writes the report as {"title", "columns", "rows"} with one object
// per row keyed by column name. Dates are written as YYYY-MM-DD and missing
// dates as null.
func (JSON) Render(w io.Writer, r *report.Report) error {
	out := jsonReport{
		Title:   r.Title,
		Columns: make([]jsonColumn, len(r.Columns)),
		Rows:    make([]map[string]interface{}, 0, len(r.Rows)),
	}
	for i, col := range r.Columns {
		out.Columns[i] = jsonColumn{Name: col.Name, Kind: col.Kind.String()}
	}

	for _, row := range r.Rows {
		obj := make(map[string]interface{}, len(r.Columns))
		for i, col := range r.Columns {
			var cell report.Cell
			if i < len(row) {
				cell = row[i]
			}
			obj[col.Name] = jsonValue(cell)
		}
		out.Rows = append(out.Rows, obj)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode report %q: %w", r.Title, err)
	}
	return nil
}

func jsonValue(cell report.Cell) interface{} {
	switch v := cell.(type) {
	case *time.Time:
		if v == nil {
			return nil
		}
		return v.Format("2006-01-02")
	case time.Time:
		return v.Format("2006-01-02")
	default:
		return v
	}
}
