package cmd

import (
	"fmt"
	"time"

	"github.com/bryan-buckman/newsdesk/internal/model"
	"github.com/bryan-buckman/newsdesk/internal/rss"
	"github.com/spf13/cobra"
)

var newArticle struct {
	url, title, label, theme, badge, datetime, author, text string
}

// addArticleCmd inserts a single article.
var addArticleCmd = &cobra.Command{
	Use:   "add-article",
	Short: "Insert one article",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := &model.Article{
			URL:      newArticle.url,
			Datetime: newArticle.datetime,
			Text:     newArticle.text,
		}
		if a.Datetime == "" {
			a.Datetime = time.Now().UTC().Format(rss.DatetimeLayout)
		}
		// Only flags that were given become values; the rest stay NULL.
		optional := []struct {
			flag string
			val  string
			dst  **string
		}{
			{"title", newArticle.title, &a.Title},
			{"label", newArticle.label, &a.Label},
			{"theme", newArticle.theme, &a.Theme},
			{"badge", newArticle.badge, &a.Badge},
			{"author", newArticle.author, &a.Author},
		}
		for _, o := range optional {
			if cmd.Flags().Changed(o.flag) {
				*o.dst = model.String(o.val)
			}
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.InsertArticle(a)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Article inserted successfully with ID: %d\n", id)
		return nil
	},
}

func init() {
	f := addArticleCmd.Flags()
	f.StringVar(&newArticle.url, "url", "", "article url (required, unique)")
	f.StringVar(&newArticle.title, "title", "", "title")
	f.StringVar(&newArticle.label, "label", "", "label, e.g. Breaking News")
	f.StringVar(&newArticle.theme, "theme", "", "theme, e.g. Technology")
	f.StringVar(&newArticle.badge, "badge", "", "badge, e.g. Exclusive")
	f.StringVar(&newArticle.datetime, "datetime", "", "publication time (default: now)")
	f.StringVar(&newArticle.author, "author", "", "author")
	f.StringVar(&newArticle.text, "text", "", "body text (required)")
	_ = addArticleCmd.MarkFlagRequired("url")
	_ = addArticleCmd.MarkFlagRequired("text")
	rootCmd.AddCommand(addArticleCmd)
}
