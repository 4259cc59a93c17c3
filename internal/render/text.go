package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"lending/internal/report"
)

// cellReplacer flattens characters that would break tabwriter columns
var cellReplacer = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

// Text renders reports as aligned plain-text tables
type Text struct{}

// Render writes the title, a header line and one line per row
func (Text) Render(w io.Writer, r *report.Report) error {
	if _, err := fmt.Fprintf(w, "%s\n%s\n", r.Title, strings.Repeat("=", len(r.Title))); err != nil {
		return fmt.Errorf("failed to write report title: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	headers := make([]string, len(r.Columns))
	for i, col := range r.Columns {
		headers[i] = cellReplacer.Replace(col.Name)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, row := range r.Rows {
		cells := make([]string, len(r.Columns))
		for i, col := range r.Columns {
			var cell report.Cell
			if i < len(row) {
				cell = row[i]
			}
			cells[i] = cellReplacer.Replace(formatCell(col.Kind, cell))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	if r.Len() == 0 {
		fmt.Fprintln(tw, "(no rows)")
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write report %q: %w", r.Title, err)
	}
	return nil
}
