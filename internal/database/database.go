package database

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/bryan-buckman/newsdesk/internal/model"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DB wraps the SQLite connection.
type DB struct {
	conn *sql.DB
}

// Ensure DB implements Store interface.
var _ Store = (*DB)(nil)

// New opens or creates an SQLite database at the given path and ensures the
// schema exists.
func New(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, wrap("open db", ErrStorageUnavailable, err)
	}
	// ":memory:" databases live only as long as their one connection.
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, wrap("open db", ErrStorageUnavailable, err)
	}
	db := &DB{conn: conn}
	if err := db.EnsureSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// sqliteDSN enables foreign keys on every pooled connection; SQLite leaves
// them off by default and cascades depend on them.
func sqliteDSN(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// DatabaseType returns the database backend name.
func (db *DB) DatabaseType() string {
	return "SQLite"
}

// EnsureSchema creates the Articles, Reports and Article_Report_Link tables.
func (db *DB) EnsureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS Articles (
		article_id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT UNIQUE NOT NULL,
		title TEXT,
		label TEXT,
		theme TEXT,
		badge TEXT,
		datetime TEXT NOT NULL,
		author TEXT,
		text TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS Reports (
		report_id INTEGER PRIMARY KEY AUTOINCREMENT,
		report_date TEXT UNIQUE NOT NULL,
		content TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS Article_Report_Link (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		article_id INTEGER,
		report_id INTEGER,
		FOREIGN KEY (article_id) REFERENCES Articles(article_id) ON DELETE CASCADE,
		FOREIGN KEY (report_id) REFERENCES Reports(report_id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_link_article_id ON Article_Report_Link(article_id);
	CREATE INDEX IF NOT EXISTS idx_link_report_id ON Article_Report_Link(report_id);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		return wrap("ensure schema", ErrStorage, err)
	}
	return nil
}

// classify maps SQLite extended result codes onto the error taxonomy.
func (db *DB) classify(op string, err error) error {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return wrap(op, ErrDuplicateKey, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return wrap(op, ErrReferential, err)
		case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return wrap(op, ErrMalformedInput, err)
		}
	}
	return wrap(op, ErrStorage, err)
}

// --- Insert Methods ---

// InsertArticle adds an article. Returns the new article_id, or an error
// wrapping ErrDuplicateKey when the url is already stored.
func (db *DB) InsertArticle(a *model.Article) (int64, error) {
	if err := validateArticle(a); err != nil {
		return 0, err
	}
	res, err := db.conn.Exec(`
		INSERT INTO Articles (url, title, label, theme, badge, datetime, author, text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.URL, a.Title, a.Label, a.Theme, a.Badge, a.Datetime, a.Author, a.Text)
	if err != nil {
		return 0, db.classify(fmt.Sprintf("insert article %q", a.URL), err)
	}
	return lastInsertID(res)
}

// InsertReport adds a report for a date. Returns the new report_id, or an
// error wrapping ErrDuplicateKey when the date already has a report.
func (db *DB) InsertReport(reportDate, content string) (int64, error) {
	if err := validateReport(reportDate, content); err != nil {
		return 0, err
	}
	res, err := db.conn.Exec("INSERT INTO Reports (report_date, content) VALUES (?, ?)", reportDate, content)
	if err != nil {
		return 0, db.classify(fmt.Sprintf("insert report %q", reportDate), err)
	}
	return lastInsertID(res)
}

// LinkArticleToReport associates an article with a report. Returns the link id.
// Repeated calls create repeated links.
func (db *DB) LinkArticleToReport(articleID, reportID int64) (int64, error) {
	res, err := db.conn.Exec("INSERT INTO Article_Report_Link (article_id, report_id) VALUES (?, ?)", articleID, reportID)
	if err != nil {
		return 0, db.classify(fmt.Sprintf("link article %d to report %d", articleID, reportID), err)
	}
	return lastInsertID(res)
}

func lastInsertID(res sql.Result) (int64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrap("last insert id", ErrStorage, err)
	}
	return id, nil
}

// --- Query Methods ---

// GetAllArticles returns every article in insertion order.
func (db *DB) GetAllArticles() ([]model.Article, error) {
	rows, err := db.conn.Query("SELECT " + articleColumns + " FROM Articles ORDER BY article_id")
	if err != nil {
		return nil, wrap("query articles", ErrStorage, err)
	}
	defer rows.Close()
	return scanArticles(rows)
}

// GetAllReports returns every report in insertion order.
func (db *DB) GetAllReports() ([]model.Report, error) {
	rows, err := db.conn.Query("SELECT " + reportColumns + " FROM Reports ORDER BY report_id")
	if err != nil {
		return nil, wrap("query reports", ErrStorage, err)
	}
	defer rows.Close()
	return scanReports(rows)
}

// GetArticlesForReport returns the articles linked to a report.
func (db *DB) GetArticlesForReport(reportID int64) ([]model.Article, error) {
	rows, err := db.conn.Query(`
		SELECT `+qualify("a", articleColumns)+`
		FROM Articles a
		JOIN Article_Report_Link l ON a.article_id = l.article_id
		WHERE l.report_id = ?
		ORDER BY l.id`, reportID)
	if err != nil {
		return nil, wrap(fmt.Sprintf("query articles for report %d", reportID), ErrStorage, err)
	}
	defer rows.Close()
	return scanArticles(rows)
}

// GetReportsForArticle returns the reports an article is linked to.
func (db *DB) GetReportsForArticle(articleID int64) ([]model.Report, error) {
	rows, err := db.conn.Query(`
		SELECT `+qualify("r", reportColumns)+`
		FROM Reports r
		JOIN Article_Report_Link l ON r.report_id = l.report_id
		WHERE l.article_id = ?
		ORDER BY l.id`, articleID)
	if err != nil {
		return nil, wrap(fmt.Sprintf("query reports for article %d", articleID), ErrStorage, err)
	}
	defer rows.Close()
	return scanReports(rows)
}
