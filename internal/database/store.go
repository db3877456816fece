// Package database provides storage backends for articles and reports.
package database

import (
	"fmt"

	"github.com/bryan-buckman/newsdesk/internal/config"
	"github.com/bryan-buckman/newsdesk/internal/model"
)

// Store defines the interface for database operations.
// Both SQLite and PostgreSQL implementations satisfy this interface.
type Store interface {
	Close() error

	// DatabaseType returns the name of the database backend ("SQLite" or "PostgreSQL").
	DatabaseType() string

	// EnsureSchema creates the three tables if absent. Safe to call repeatedly.
	EnsureSchema() error

	// Insert operations. Each call commits before returning.
	InsertArticle(a *model.Article) (int64, error)
	InsertReport(reportDate, content string) (int64, error)
	LinkArticleToReport(articleID, reportID int64) (int64, error)

	// Query operations
	GetAllArticles() ([]model.Article, error)
	GetAllReports() ([]model.Report, error)
	GetArticlesForReport(reportID int64) ([]model.Article, error)
	GetReportsForArticle(articleID int64) ([]model.Report, error)
}

// Open returns the backend selected by cfg.
func Open(cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite, "":
		db, err := New(cfg.Path)
		if err != nil {
			return nil, err
		}
		return db, nil
	case config.DriverPostgres:
		db, err := NewPostgres(cfg.DSN)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
