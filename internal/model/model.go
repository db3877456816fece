// Package model defines shared data structures.
package model

// Article represents a single news item.
// Optional columns are pointers: nil is stored as NULL, which is not the
// same thing as an empty string.
type Article struct {
	ArticleID int64   `json:"article_id" yaml:"article_id"`
	URL       string  `json:"url" yaml:"url"`
	Title     *string `json:"title" yaml:"title"`
	Label     *string `json:"label" yaml:"label"`
	Theme     *string `json:"theme" yaml:"theme"`
	Badge     *string `json:"badge" yaml:"badge"`
	Datetime  string  `json:"datetime" yaml:"datetime"`
	Author    *string `json:"author" yaml:"author"`
	Text      string  `json:"text" yaml:"text"`
}

// Report represents a periodic digest, one per date.
type Report struct {
	ReportID   int64  `json:"report_id" yaml:"report_id"`
	ReportDate string `json:"report_date" yaml:"report_date"`
	Content    string `json:"content" yaml:"content"`
}

// ArticleReportLink associates an article with a report.
type ArticleReportLink struct {
	ID        int64 `json:"id" yaml:"id"`
	ArticleID int64 `json:"article_id" yaml:"article_id"`
	ReportID  int64 `json:"report_id" yaml:"report_id"`
}

// String returns a pointer to s, for filling optional article fields.
func String(s string) *string {
	return &s
}

// Value dereferences an optional field, returning "" for nil.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
