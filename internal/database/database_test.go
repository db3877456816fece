package database

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/bryan-buckman/newsdesk/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"modernc.org/sqlite"
)

// newTestDB creates a file-backed SQLite store private to the test.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "news.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func sampleArticle(n int) *model.Article {
	return &model.Article{
		URL:      fmt.Sprintf("https://www.example.com/article-%d", n),
		Title:    model.String(fmt.Sprintf("Article %d", n)),
		Label:    model.String("Analysis"),
		Theme:    model.String("Europe"),
		Badge:    model.String("Exclusive"),
		Datetime: "2025-03-09T10:00:00+00:00",
		Author:   model.String("Jane Roe"),
		Text:     fmt.Sprintf("Body of article %d.", n),
	}
}

func countRows(t *testing.T, db *DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.conn.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	_, err := db.InsertArticle(sampleArticle(1))
	require.NoError(t, err)

	require.NoError(t, db.EnsureSchema())
	require.NoError(t, db.EnsureSchema())

	articles, err := db.GetAllArticles()
	require.NoError(t, err)
	assert.Len(t, articles, 1, "re-running the schema must not drop data")

	var tables int
	require.NoError(t, db.conn.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type = 'table' AND name IN ('Articles', 'Reports', 'Article_Report_Link')`).Scan(&tables))
	assert.Equal(t, 3, tables)
}

func TestReopenExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "news.db")

	db, err := New(path)
	require.NoError(t, err)
	id, err := db.InsertArticle(sampleArticle(1))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)
	defer db.Close()

	articles, err := db.GetAllArticles()
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, id, articles[0].ArticleID)
}

func TestNewUnavailableStorage(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing-dir", "news.db"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Equal(t, "unavailable", Kind(err))
}

func TestInsertArticle(t *testing.T) {
	db := newTestDB(t)

	first, err := db.InsertArticle(sampleArticle(1))
	require.NoError(t, err)
	second, err := db.InsertArticle(sampleArticle(2))
	require.NoError(t, err)
	assert.Greater(t, second, first)

	articles, err := db.GetAllArticles()
	require.NoError(t, err)
	require.Len(t, articles, 2)

	want := *sampleArticle(1)
	want.ArticleID = first
	assert.Equal(t, want, articles[0])
}

func TestInsertArticleDuplicateURL(t *testing.T) {
	db := newTestDB(t)

	_, err := db.InsertArticle(sampleArticle(1))
	require.NoError(t, err)

	dup := sampleArticle(2)
	dup.URL = sampleArticle(1).URL
	id, err := db.InsertArticle(dup)

	require.Error(t, err)
	assert.Zero(t, id)
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.NotErrorIs(t, err, ErrStorage)
	assert.Equal(t, "duplicate", Kind(err))

	var se *sqlite.Error
	assert.True(t, errors.As(err, &se), "driver cause stays reachable")
	assert.Equal(t, 1, countRows(t, db, "Articles"))
}

func TestInsertArticleMissingRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Article)
		field  string
	}{
		{"url", func(a *model.Article) { a.URL = "" }, "url"},
		{"datetime", func(a *model.Article) { a.Datetime = "" }, "datetime"},
		{"text", func(a *model.Article) { a.Text = "" }, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			a := sampleArticle(1)
			tt.mutate(a)

			_, err := db.InsertArticle(a)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedInput)
			assert.Contains(t, err.Error(), tt.field)
			assert.Equal(t, 0, countRows(t, db, "Articles"))
		})
	}

	t.Run("nil article", func(t *testing.T) {
		db := newTestDB(t)
		_, err := db.InsertArticle(nil)
		assert.ErrorIs(t, err, ErrMalformedInput)
	})
}

func TestNullFieldsArePreserved(t *testing.T) {
	db := newTestDB(t)

	a := sampleArticle(1)
	a.Author = nil
	a.Badge = nil
	a.Label = model.String("")
	id, err := db.InsertArticle(a)
	require.NoError(t, err)

	var authorIsNull bool
	require.NoError(t, db.conn.QueryRow("SELECT author IS NULL FROM Articles WHERE article_id = ?", id).Scan(&authorIsNull))
	assert.True(t, authorIsNull)

	articles, err := db.GetAllArticles()
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Nil(t, articles[0].Author)
	assert.Nil(t, articles[0].Badge)
	require.NotNil(t, articles[0].Label, "empty string is a value, not NULL")
	assert.Equal(t, "", *articles[0].Label)
}

func TestInsertReport(t *testing.T) {
	db := newTestDB(t)

	id, err := db.InsertReport("2025-03-10", "Daily summary.")
	require.NoError(t, err)

	reports, err := db.GetAllReports()
	require.NoError(t, err)
	assert.Equal(t, []model.Report{{ReportID: id, ReportDate: "2025-03-10", Content: "Daily summary."}}, reports)

	_, err = db.InsertReport("2025-03-10", "Another summary.")
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.Equal(t, 1, countRows(t, db, "Reports"))

	_, err = db.InsertReport("", "No date.")
	assert.ErrorIs(t, err, ErrMalformedInput)
	_, err = db.InsertReport("2025-03-11", "")
	assert.ErrorIs(t, err, ErrMalformedInput)
}

func TestLinkArticleToReport(t *testing.T) {
	db := newTestDB(t)

	articleID, err := db.InsertArticle(sampleArticle(1))
	require.NoError(t, err)
	reportID, err := db.InsertReport("2025-03-10", "Daily summary.")
	require.NoError(t, err)

	linkID, err := db.LinkArticleToReport(articleID, reportID)
	require.NoError(t, err)
	assert.NotZero(t, linkID)

	again, err := db.LinkArticleToReport(articleID, reportID)
	require.NoError(t, err, "duplicate links are allowed")
	assert.NotEqual(t, linkID, again)
	assert.Equal(t, 2, countRows(t, db, "Article_Report_Link"))
}

func TestLinkMissingEndpoints(t *testing.T) {
	db := newTestDB(t)

	articleID, err := db.InsertArticle(sampleArticle(1))
	require.NoError(t, err)
	reportID, err := db.InsertReport("2025-03-10", "Daily summary.")
	require.NoError(t, err)

	_, err = db.LinkArticleToReport(articleID+100, reportID)
	assert.ErrorIs(t, err, ErrReferential)
	assert.Equal(t, "referential", Kind(err))

	_, err = db.LinkArticleToReport(articleID, reportID+100)
	assert.ErrorIs(t, err, ErrReferential)

	assert.Equal(t, 0, countRows(t, db, "Article_Report_Link"))
}

func TestJoinQueries(t *testing.T) {
	db := newTestDB(t)

	a1, err := db.InsertArticle(sampleArticle(1))
	require.NoError(t, err)
	a2, err := db.InsertArticle(sampleArticle(2))
	require.NoError(t, err)
	r1, err := db.InsertReport("2025-03-10", "First.")
	require.NoError(t, err)
	r2, err := db.InsertReport("2025-03-11", "Second.")
	require.NoError(t, err)

	for _, l := range [][2]int64{{a1, r1}, {a2, r1}, {a1, r2}} {
		_, err := db.LinkArticleToReport(l[0], l[1])
		require.NoError(t, err)
	}

	articles, err := db.GetArticlesForReport(r1)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	want := *sampleArticle(1)
	want.ArticleID = a1
	assert.Equal(t, want, articles[0], "joined rows carry the full record")
	assert.Equal(t, a2, articles[1].ArticleID)

	reports, err := db.GetReportsForArticle(a1)
	require.NoError(t, err)
	assert.Equal(t, []model.Report{
		{ReportID: r1, ReportDate: "2025-03-10", Content: "First."},
		{ReportID: r2, ReportDate: "2025-03-11", Content: "Second."},
	}, reports)

	reports, err = db.GetReportsForArticle(a2)
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

func TestEmptyJoinResults(t *testing.T) {
	db := newTestDB(t)

	reportID, err := db.InsertReport("2025-03-10", "Nothing linked.")
	require.NoError(t, err)

	articles, err := db.GetArticlesForReport(reportID)
	require.NoError(t, err)
	assert.NotNil(t, articles)
	assert.Empty(t, articles)

	articles, err = db.GetArticlesForReport(9999)
	require.NoError(t, err)
	assert.Empty(t, articles)

	reports, err := db.GetReportsForArticle(9999)
	require.NoError(t, err)
	assert.NotNil(t, reports)
	assert.Empty(t, reports)

	all, err := db.GetAllArticles()
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestCascadeDelete(t *testing.T) {
	db := newTestDB(t)

	a1, err := db.InsertArticle(sampleArticle(1))
	require.NoError(t, err)
	a2, err := db.InsertArticle(sampleArticle(2))
	require.NoError(t, err)
	r1, err := db.InsertReport("2025-03-10", "First.")
	require.NoError(t, err)
	r2, err := db.InsertReport("2025-03-11", "Second.")
	require.NoError(t, err)
	for _, l := range [][2]int64{{a1, r1}, {a2, r1}, {a1, r2}} {
		_, err := db.LinkArticleToReport(l[0], l[1])
		require.NoError(t, err)
	}

	_, err = db.conn.Exec("DELETE FROM Articles WHERE article_id = ?", a1)
	require.NoError(t, err)
	assert.Equal(t, 1, countRows(t, db, "Article_Report_Link"))

	reports, err := db.GetReportsForArticle(a1)
	require.NoError(t, err)
	assert.Empty(t, reports)

	_, err = db.conn.Exec("DELETE FROM Reports WHERE report_id = ?", r1)
	require.NoError(t, err)
	assert.Equal(t, 0, countRows(t, db, "Article_Report_Link"))

	var orphans int
	require.NoError(t, db.conn.QueryRow(`
		SELECT COUNT(*) FROM Article_Report_Link l
		LEFT JOIN Articles a ON a.article_id = l.article_id
		LEFT JOIN Reports r ON r.report_id = l.report_id
		WHERE a.article_id IS NULL OR r.report_id IS NULL`).Scan(&orphans))
	assert.Zero(t, orphans)
}

func TestMemoryDatabase(t *testing.T) {
	db, err := New(":memory:")
	require.NoError(t, err)
	defer db.Close()

	_, err = db.InsertArticle(sampleArticle(1))
	require.NoError(t, err)
	articles, err := db.GetAllArticles()
	require.NoError(t, err)
	assert.Len(t, articles, 1)
	assert.Equal(t, "SQLite", db.DatabaseType())
}
