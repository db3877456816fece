package display

import (
	"fmt"
	"io"
	"strconv"

	"github.com/bryan-buckman/newsdesk/internal/model"
	"github.com/fatih/color"
)

// SampleSize is how many rows the summary shows per table.
const SampleSize = 5

// Source is the read side of the store used by Summary.
type Source interface {
	GetAllArticles() ([]model.Article, error)
	GetAllReports() ([]model.Report, error)
	GetArticlesForReport(reportID int64) ([]model.Article, error)
}

// SummaryOptions tunes Summary output.
type SummaryOptions struct {
	Colors bool
}

// Summary prints totals, a sample of articles and reports, and the articles
// linked to the first report.
func Summary(w io.Writer, src Source, opts SummaryOptions) error {
	heading := color.New(color.FgCyan, color.Bold)
	if !opts.Colors {
		heading.DisableColor()
	}

	articles, err := src.GetAllArticles()
	if err != nil {
		return err
	}
	heading.Fprintf(w, "\nTotal articles in database: %d\n", len(articles))
	if len(articles) > 0 {
		fmt.Fprintln(w, "\nSample articles:")
		if err := Table(w, []string{"article_id", "title", "datetime"}, sampleArticleRows(articles)); err != nil {
			return err
		}
	}

	reports, err := src.GetAllReports()
	if err != nil {
		return err
	}
	heading.Fprintf(w, "\nTotal reports in database: %d\n", len(reports))
	if len(reports) == 0 {
		return nil
	}
	fmt.Fprintln(w, "\nSample reports:")
	rows := make([][]string, 0, SampleSize)
	for _, r := range head(reports) {
		rows = append(rows, []string{strconv.FormatInt(r.ReportID, 10), r.ReportDate})
	}
	if err := Table(w, []string{"report_id", "report_date"}, rows); err != nil {
		return err
	}

	first := reports[0].ReportID
	linked, err := src.GetArticlesForReport(first)
	if err != nil {
		return err
	}
	heading.Fprintf(w, "\nArticles linked to report %d:\n", first)
	if len(linked) == 0 {
		fmt.Fprintln(w, "No linked articles found.")
		return nil
	}
	return Table(w, []string{"article_id", "title"}, linkedRows(linked))
}

func head[T any](s []T) []T {
	if len(s) > SampleSize {
		return s[:SampleSize]
	}
	return s
}

func sampleArticleRows(articles []model.Article) [][]string {
	rows := make([][]string, 0, SampleSize)
	for _, a := range head(articles) {
		rows = append(rows, []string{strconv.FormatInt(a.ArticleID, 10), cell(model.Value(a.Title)), a.Datetime})
	}
	return rows
}

func linkedRows(articles []model.Article) [][]string {
	rows := make([][]string, 0, SampleSize)
	for _, a := range head(articles) {
		rows = append(rows, []string{strconv.FormatInt(a.ArticleID, 10), cell(model.Value(a.Title))})
	}
	return rows
}
