// Package rss turns news feeds into article rows.
package rss

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/bryan-buckman/newsdesk/internal/importer"
	"github.com/bryan-buckman/newsdesk/internal/model"
	"github.com/bryan-buckman/newsdesk/internal/opml"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
)

// DatetimeLayout matches the timestamps of the tabular input, e.g.
// 2025-03-09T10:00:00+00:00.
const DatetimeLayout = "2006-01-02T15:04:05-07:00"

// Fetcher handles feed fetching.
type Fetcher struct {
	importer *importer.Importer
	parser   *gofeed.Parser
	policy   *bluemonday.Policy
	log      *slog.Logger
	now      func() time.Time

	// Timeout bounds each feed request. Zero means no limit.
	Timeout time.Duration
}

// NewFetcher creates a fetcher that stores items through im.
func NewFetcher(im *importer.Importer, log *slog.Logger) *Fetcher {
	return &Fetcher{
		importer: im,
		parser:   gofeed.NewParser(),
		policy:   bluemonday.StrictPolicy(),
		log:      log,
		now:      time.Now,
	}
}

// FetchFeed fetches and parses a single feed, importing its items.
func (f *Fetcher) FetchFeed(ctx context.Context, entry opml.FeedEntry) (importer.Result, error) {
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}
	parsed, err := f.parser.ParseURLWithContext(entry.URL, ctx)
	if err != nil {
		return importer.Result{}, fmt.Errorf("parse feed %s: %w", entry.URL, err)
	}
	rows := f.Articles(parsed, entry)
	f.log.Info("feed parsed", "url", entry.URL, "items", len(parsed.Items), "articles", len(rows))
	return f.importer.Import(rows), nil
}

// FetchAll fetches feeds one at a time. A feed that fails is logged and
// skipped; the combined result covers the feeds that were read.
func (f *Fetcher) FetchAll(ctx context.Context, entries []opml.FeedEntry) (importer.Result, error) {
	total := importer.Result{Skipped: []importer.Skipped{}}
	for i, entry := range entries {
		select {
		case <-ctx.Done():
			f.log.Warn("fetch cancelled", "done", i, "feeds", len(entries))
			return total, ctx.Err()
		default:
		}

		res, err := f.FetchFeed(ctx, entry)
		if err != nil {
			f.log.Error("failed to fetch feed", "url", entry.URL, "error", err)
			continue
		}
		total.Add(res)
	}
	return total, nil
}

// Articles maps feed items onto article rows. Items without a link have no
// natural key and are dropped.
func (f *Fetcher) Articles(feed *gofeed.Feed, entry opml.FeedEntry) []model.Article {
	rows := make([]model.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}
		a := model.Article{
			URL:      item.Link,
			Theme:    entry.Theme(),
			Datetime: f.datetime(item),
			Author:   author(item),
		}
		if item.Title != "" {
			a.Title = model.String(item.Title)
		}
		if len(item.Categories) > 0 && item.Categories[0] != "" {
			a.Label = model.String(item.Categories[0])
		}
		a.Text = f.plainText(item.Content)
		if a.Text == "" {
			a.Text = f.plainText(item.Description)
		}
		if a.Text == "" {
			a.Text = item.Title
		}
		rows = append(rows, a)
	}
	return rows
}

func (f *Fetcher) datetime(item *gofeed.Item) string {
	t := f.now()
	switch {
	case item.PublishedParsed != nil:
		t = *item.PublishedParsed
	case item.UpdatedParsed != nil:
		t = *item.UpdatedParsed
	}
	return t.UTC().Format(DatetimeLayout)
}

// plainText strips markup and collapses whitespace.
func (f *Fetcher) plainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(html.UnescapeString(f.policy.Sanitize(s))), " ")
}

func author(item *gofeed.Item) *string {
	if item.Author != nil && item.Author.Name != "" {
		return model.String(item.Author.Name)
	}
	for _, p := range item.Authors {
		if p != nil && p.Name != "" {
			return model.String(p.Name)
		}
	}
	return nil
}
