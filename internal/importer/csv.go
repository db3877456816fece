package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bryan-buckman/newsdesk/internal/database"
	"github.com/bryan-buckman/newsdesk/internal/model"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Columns lists the input columns in their canonical order.
var Columns = []string{"url", "title", "label", "theme", "badge", "datetime", "author", "text"}

var requiredColumns = []string{"url", "datetime", "text"}

// ReadCSV parses article rows from r, decoding it from the named encoding
// (any WHATWG label, e.g. "utf-8" or "windows-1252"). Columns are matched by
// header name in any order. Empty cells become nil, so absent values are
// stored as NULL rather than as empty strings.
//
// Records the CSV reader cannot parse are returned as skipped with the
// malformed kind; reading carries on with the next record.
func ReadCSV(r io.Reader, encoding string) ([]model.Article, []Skipped, error) {
	dec, err := decoder(r, encoding)
	if err != nil {
		return nil, nil, err
	}

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []model.Article{}, []Skipped{}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, c := range requiredColumns {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, nil, fmt.Errorf("header lacks %s: %w", strings.Join(missing, ", "), database.ErrMalformedInput)
	}

	rows := []model.Article{}
	bad := []Skipped{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			err = fmt.Errorf("line %d: %w: %w", perr.StartLine, database.ErrMalformedInput, perr.Err)
			bad = append(bad, Skipped{Line: perr.StartLine, Kind: database.Kind(err), Error: err.Error(), Err: err})
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}
		cell := func(name string) *string {
			i, ok := index[name]
			if !ok || i >= len(rec) || rec[i] == "" {
				return nil
			}
			v := rec[i]
			return &v
		}
		rows = append(rows, model.Article{
			URL:      model.Value(cell("url")),
			Title:    cell("title"),
			Label:    cell("label"),
			Theme:    cell("theme"),
			Badge:    cell("badge"),
			Datetime: model.Value(cell("datetime")),
			Author:   cell("author"),
			Text:     model.Value(cell("text")),
		})
	}
	return rows, bad, nil
}

// decoder wraps r so that it yields UTF-8. A leading UTF-8 byte order mark
// is dropped for utf-8 input.
func decoder(r io.Reader, name string) (io.Reader, error) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("input encoding %q: %w", name, err)
	}
	if enc == unicode.UTF8 {
		return transform.NewReader(r, unicode.UTF8BOM.NewDecoder()), nil
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
