// Package display renders query results for people and for other programs.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/bryan-buckman/newsdesk/internal/model"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// MaxCellWidth bounds table cells; longer values are truncated with an ellipsis.
const MaxCellWidth = 60

var (
	articleHeader = []string{"article_id", "url", "title", "label", "theme", "badge", "datetime", "author", "text"}
	reportHeader  = []string{"report_id", "report_date", "content"}
)

// Write renders v, a []model.Article or []model.Report, in the given format.
func Write(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatTable, "":
		switch rows := v.(type) {
		case []model.Article:
			return Table(w, articleHeader, ArticleRows(rows))
		case []model.Report:
			return Table(w, reportHeader, ReportRows(rows))
		default:
			return fmt.Errorf("cannot render %T as a table", v)
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// Table writes a plain table of header and rows.
func Table(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewTable(w)
	cols := make([]any, len(header))
	for i, h := range header {
		cols[i] = h
	}
	table.Header(cols...)
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("table rows: %w", err)
	}
	return table.Render()
}

// ArticleRows converts articles to table rows. NULL renders as an empty cell.
func ArticleRows(articles []model.Article) [][]string {
	rows := make([][]string, 0, len(articles))
	for _, a := range articles {
		rows = append(rows, []string{
			strconv.FormatInt(a.ArticleID, 10),
			cell(a.URL),
			cell(model.Value(a.Title)),
			cell(model.Value(a.Label)),
			cell(model.Value(a.Theme)),
			cell(model.Value(a.Badge)),
			a.Datetime,
			cell(model.Value(a.Author)),
			cell(a.Text),
		})
	}
	return rows
}

// ReportRows converts reports to table rows.
func ReportRows(reports []model.Report) [][]string {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []string{
			strconv.FormatInt(r.ReportID, 10),
			r.ReportDate,
			cell(r.Content),
		})
	}
	return rows
}

func cell(s string) string {
	return runewidth.Truncate(s, MaxCellWidth, "…")
}
