package render

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"lending/internal/report"
)

// Supported output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

const (
	dateLayout         = "02/01/2006"
	missingPlaceholder = "-"
)

// Renderer writes a report to an output
type Renderer interface {
	Render(w io.Writer, r *report.Report) error
}

// New returns the renderer for format
func New(format string) (Renderer, error) {
	switch format {
	case FormatText, "":
		return Text{}, nil
	case FormatJSON:
		return JSON{}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q (expected %q or %q)", format, FormatText, FormatJSON)
	}
}

// formatCell turns a cell into display text according to its column kind
func formatCell(kind report.Kind, cell report.Cell) string {
	switch v := cell.(type) {
	case nil:
		return missingPlaceholder
	case *time.Time:
		if v == nil {
			return missingPlaceholder
		}
		return v.Format(dateLayout)
	case time.Time:
		return v.Format(dateLayout)
	case bool:
		if v {
			return "yes"
		}
		return "no"
	case float64:
		if kind == report.Money {
			return strconv.FormatFloat(v, 'f', 2, 64)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
