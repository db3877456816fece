// Package importer loads articles in bulk, one committed insert per row.
//
// A batch never aborts on a bad row: duplicates and other per-row failures are
// recorded in the Result and the next row is attempted. Because every row is
// committed on its own, re-running an interrupted import is safe; rows that
// already made it in come back as duplicates.
package importer

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/bryan-buckman/newsdesk/internal/database"
	"github.com/bryan-buckman/newsdesk/internal/model"
)

// ArticleInserter is the part of database.Store the importer needs.
type ArticleInserter interface {
	InsertArticle(a *model.Article) (int64, error)
}

// Skipped describes a row that was not imported. Records that could not be
// parsed at all carry their CSV line instead of a row.
type Skipped struct {
	Row   int    `json:"row,omitempty"` // 1-based position among parsed rows
	Line  int    `json:"line,omitempty"`
	URL   string `json:"url"`
	Kind  string `json:"kind"` // see database.Kind
	Error string `json:"error"`
	Err   error  `json:"-"`
}

// Result summarises a bulk import. Partial success is the normal outcome.
type Result struct {
	Imported int       `json:"imported"`
	Total    int       `json:"total"`
	Skipped  []Skipped `json:"skipped"`
}

// Duplicates returns how many rows were skipped for an existing url.
func (r Result) Duplicates() int {
	n := 0
	for _, s := range r.Skipped {
		if errors.Is(s.Err, database.ErrDuplicateKey) {
			n++
		}
	}
	return n
}

// Add folds other into r.
func (r *Result) Add(other Result) {
	r.Imported += other.Imported
	r.Total += other.Total
	r.Skipped = append(r.Skipped, other.Skipped...)
}

// Importer drives single-row inserts over a batch.
type Importer struct {
	store ArticleInserter
	log   *slog.Logger
}

// New creates an importer writing to store.
func New(store ArticleInserter, log *slog.Logger) *Importer {
	return &Importer{store: store, log: log}
}

// Import inserts every row and reports how many succeeded.
func (im *Importer) Import(rows []model.Article) Result {
	res := Result{Total: len(rows), Skipped: []Skipped{}}
	for i := range rows {
		row := &rows[i]
		id, err := im.store.InsertArticle(row)
		if err != nil {
			kind := database.Kind(err)
			res.Skipped = append(res.Skipped, Skipped{Row: i + 1, URL: row.URL, Kind: kind, Error: err.Error(), Err: err})
			if errors.Is(err, database.ErrDuplicateKey) {
				im.log.Warn("skipping duplicate article", "row", i+1, "url", row.URL)
			} else {
				im.log.Warn("skipping article", "row", i+1, "url", row.URL, "kind", kind, "error", err)
			}
			continue
		}
		row.ArticleID = id
		res.Imported++
		im.log.Debug("article imported", "row", i+1, "article_id", id, "url", row.URL)
	}
	im.log.Info("import finished", "imported", res.Imported, "total", res.Total, "skipped", len(res.Skipped))
	return res
}

// ImportFile reads a CSV file in the named encoding and imports its rows.
func (im *Importer) ImportFile(path, encoding string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	res, err := im.ImportCSV(f, encoding)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	return res, nil
}

// ImportCSV imports CSV read from r. Unparseable records count towards the
// total and are reported as skipped.
func (im *Importer) ImportCSV(r io.Reader, encoding string) (Result, error) {
	rows, bad, err := ReadCSV(r, encoding)
	if err != nil {
		return Result{}, err
	}
	for _, s := range bad {
		im.log.Warn("skipping unparseable record", "line", s.Line, "error", s.Err)
	}
	im.log.Info("found articles in input", "rows", len(rows), "unparseable", len(bad))

	res := Result{Total: len(bad), Skipped: bad}
	res.Add(im.Import(rows))
	return res, nil
}
