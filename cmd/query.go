package cmd

import (
	"github.com/bryan-buckman/newsdesk/internal/display"
	"github.com/bryan-buckman/newsdesk/internal/model"
	"github.com/spf13/cobra"
)

var (
	queryFormat    string
	queryReportID  int64
	queryArticleID int64
)

// articlesCmd lists all articles, or those linked to one report.
var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "List articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		var articles []model.Article
		if cmd.Flags().Changed("report") {
			articles, err = store.GetArticlesForReport(queryReportID)
		} else {
			articles, err = store.GetAllArticles()
		}
		if err != nil {
			return err
		}
		return display.Write(cmd.OutOrStdout(), queryFormat, articles)
	},
}

// reportsCmd lists all reports, or those an article is linked to.
var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		var reports []model.Report
		if cmd.Flags().Changed("article") {
			reports, err = store.GetReportsForArticle(queryArticleID)
		} else {
			reports, err = store.GetAllReports()
		}
		if err != nil {
			return err
		}
		return display.Write(cmd.OutOrStdout(), queryFormat, reports)
	},
}

func init() {
	for _, c := range []*cobra.Command{articlesCmd, reportsCmd} {
		c.Flags().StringVarP(&queryFormat, "format", "o", display.FormatTable, "output format: table, json or yaml")
	}
	articlesCmd.Flags().Int64Var(&queryReportID, "report", 0, "only articles linked to this report")
	reportsCmd.Flags().Int64Var(&queryArticleID, "article", 0, "only reports linked to this article")
	rootCmd.AddCommand(articlesCmd, reportsCmd)
}
