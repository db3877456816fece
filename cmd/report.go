package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var (
	reportDate    string
	reportContent string
	seedDate      string
	seedContent   string
	seedLimit     int
)

const sampleReportContent = "Daily report summarising key events from the previous day's articles."

// addReportCmd inserts a report; one report per date.
var addReportCmd = &cobra.Command{
	Use:   "add-report",
	Short: "Insert one report",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.InsertReport(dateOrToday(reportDate), reportContent)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report inserted successfully with ID: %d\n", id)
		return nil
	},
}

// linkCmd links an article to a report.
var linkCmd = &cobra.Command{
	Use:   "link <article-id> <report-id>",
	Short: "Link an article to a report",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		articleID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid article id %q", args[0])
		}
		reportID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid report id %q", args[1])
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		id, err := store.LinkArticleToReport(articleID, reportID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Article %d linked to report %d with link ID: %d\n", articleID, reportID, id)
		return nil
	},
}

// seedReportCmd adds a report and links it to the first articles in the store.
var seedReportCmd = &cobra.Command{
	Use:   "seed-report",
	Short: "Add a sample report linked to the first articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedLimit < 0 {
			return fmt.Errorf("invalid --limit %d: must not be negative", seedLimit)
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		content := seedContent
		if content == "" {
			content = sampleReportContent
		}
		date := dateOrToday(seedDate)
		reportID, err := store.InsertReport(date, content)
		if err != nil {
			return err
		}

		articles, err := store.GetAllArticles()
		if err != nil {
			return err
		}
		if len(articles) > seedLimit {
			articles = articles[:seedLimit]
		}
		for _, a := range articles {
			if _, err := store.LinkArticleToReport(a.ArticleID, reportID); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added sample report dated %s and linked it to %d articles.\n", date, len(articles))
		return nil
	},
}

func dateOrToday(d string) string {
	if d != "" {
		return d
	}
	return time.Now().Format("2006-01-02")
}

func init() {
	addReportCmd.Flags().StringVar(&reportDate, "date", "", "report date, YYYY-MM-DD (default: today)")
	addReportCmd.Flags().StringVar(&reportContent, "content", "", "report content (required)")
	_ = addReportCmd.MarkFlagRequired("content")

	seedReportCmd.Flags().StringVar(&seedDate, "date", "", "report date, YYYY-MM-DD (default: today)")
	seedReportCmd.Flags().StringVar(&seedContent, "content", "", "report content (default: a sample text)")
	seedReportCmd.Flags().IntVar(&seedLimit, "limit", 3, "number of articles to link")

	rootCmd.AddCommand(addReportCmd, linkCmd, seedReportCmd)
}
