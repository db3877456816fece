package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/bryan-buckman/newsdesk/internal/model"
)

const articleColumns = "article_id, url, title, label, theme, badge, datetime, author, text"

const reportColumns = "report_id, report_date, content"

// qualify prefixes each column in cols with a table alias.
func qualify(alias, cols string) string {
	parts := strings.Split(cols, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}

func validateArticle(a *model.Article) error {
	if a == nil {
		return wrap("insert article", ErrMalformedInput, nil)
	}
	var missing []string
	if a.URL == "" {
		missing = append(missing, "url")
	}
	if a.Datetime == "" {
		missing = append(missing, "datetime")
	}
	if a.Text == "" {
		missing = append(missing, "text")
	}
	if len(missing) > 0 {
		return wrap(fmt.Sprintf("insert article %q", a.URL), ErrMalformedInput,
			fmt.Errorf("missing %s", strings.Join(missing, ", ")))
	}
	return nil
}

func validateReport(reportDate, content string) error {
	var missing []string
	if reportDate == "" {
		missing = append(missing, "report_date")
	}
	if content == "" {
		missing = append(missing, "content")
	}
	if len(missing) > 0 {
		return wrap(fmt.Sprintf("insert report %q", reportDate), ErrMalformedInput,
			fmt.Errorf("missing %s", strings.Join(missing, ", ")))
	}
	return nil
}

// scanArticles reads article rows. The result is never nil so that an empty
// relation and an unlinked report both come back as an empty sequence.
func scanArticles(rows *sql.Rows) ([]model.Article, error) {
	articles := []model.Article{}
	for rows.Next() {
		var a model.Article
		if err := rows.Scan(&a.ArticleID, &a.URL, &a.Title, &a.Label, &a.Theme, &a.Badge, &a.Datetime, &a.Author, &a.Text); err != nil {
			return nil, wrap("scan article", ErrStorage, err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("iterate articles", ErrStorage, err)
	}
	return articles, nil
}

func scanReports(rows *sql.Rows) ([]model.Report, error) {
	reports := []model.Report{}
	for rows.Next() {
		var r model.Report
		if err := rows.Scan(&r.ReportID, &r.ReportDate, &r.Content); err != nil {
			return nil, wrap("scan report", ErrStorage, err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("iterate reports", ErrStorage, err)
	}
	return reports, nil
}
