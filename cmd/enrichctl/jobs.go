package main

import (
	"fmt"
	"os"

	"github.com/enrichhq/enrichctl/internal/jobs"
	"github.com/enrichhq/enrichctl/internal/render"

	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Browse enrichment jobs",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List enrichment jobs",
	Long: `List enrichment jobs with filtering, sorting and pagination.

Example:
  enrichctl jobs list --status completed --sort success_rate --dir desc --page 2`,
	Run: func(cmd *cobra.Command, args []string) {
		search, _ := cmd.Flags().GetString("search")
		statusFlag, _ := cmd.Flags().GetString("status")
		sortFlag, _ := cmd.Flags().GetString("sort")
		dirFlag, _ := cmd.Flags().GetString("dir")
		page, _ := cmd.Flags().GetInt("page")
		pageSize, _ := cmd.Flags().GetInt("page-size")

		status, err := jobs.ParseStatus(statusFlag)
		if err != nil {
			logger.Error("%v", err)
			os.Exit(1)
		}
		field, err := jobs.ParseSortField(sortFlag)
		if err != nil {
			logger.Error("%v", err)
			os.Exit(1)
		}
		dir, err := jobs.ParseDirection(dirFlag)
		if err != nil {
			logger.Error("%v", err)
			os.Exit(1)
		}

		a := newApp()
		defer a.close()
		if pageSize <= 0 {
			pageSize = a.cfg.PageSize
		}

		var list []jobs.Job
		withSpinner("Loading jobs...", func() {
			list, err = a.client.ListJobs(cmd.Context())
		})
		if err != nil {
			a.fatal("Failed to load jobs: %v", err)
			return
		}

		browser := jobs.NewBrowser(pageSize)
		browser.SetFilter(jobs.Filter{SearchText: search, Status: status})
		browser.SetSort(jobs.Sort{Field: field, Direction: dir})
		browser.SetPage(page, list)

		fmt.Println(render.JobsPage(browser.View(list), nil))
	},
}

func initJobCommands() {
	jobsCmd.AddCommand(jobsListCmd)

	jobsListCmd.Flags().String("search", "", "Only show jobs whose file name or id contains this text")
	jobsListCmd.Flags().String("status", jobs.StatusAll, "Status filter: all, pending, processing, completed, failed, credit_insufficient")
	jobsListCmd.Flags().String("sort", string(jobs.DefaultSort.Field), "Sort field: created_at, file_name, status, total, completed, success_rate")
	jobsListCmd.Flags().String("dir", string(jobs.DefaultSort.Direction), "Sort direction: asc or desc")
	jobsListCmd.Flags().Int("page", 1, "Page number")
	jobsListCmd.Flags().Int("page-size", 0, "Jobs per page (default from ENRICH_PAGE_SIZE)")
}
