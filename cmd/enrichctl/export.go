package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/enrichhq/enrichctl/internal/export"
	"github.com/enrichhq/enrichctl/internal/jobs"
	"github.com/enrichhq/enrichctl/internal/render"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export JOB_ID [JOB_ID...]",
	Short: "Export enriched results",
	Long: `Export one or more completed jobs to a file format or push them to an
integration. With several jobs every job is attempted; the ones that fail are
printed so the command can be re-run with just those.

Destinations: csv, excel, json, crm-push, sequencer-push, automation-push

Example:
  enrichctl export 6b1f... --to csv --filename leads.csv
  enrichctl export 6b1f... 9c2e... --to crm-push`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		toFlag, _ := cmd.Flags().GetString("to")
		filename, _ := cmd.Flags().GetString("filename")

		to, err := export.ParseDestination(toFlag)
		if err != nil {
			logger.Error("%v", err)
			os.Exit(1)
		}

		a := newApp()
		defer a.close()

		if err := os.MkdirAll(a.cfg.ExportDir, 0755); err != nil {
			a.fatal("Failed to create export directory: %v", err)
			return
		}

		var list []jobs.Job
		withSpinner("Loading jobs...", func() {
			list, err = a.client.ListJobs(cmd.Context())
		})
		if err != nil {
			a.fatal("Failed to load jobs: %v", err)
			return
		}

		registry := export.NewRegistry(a.client)
		orchestrator := export.NewOrchestrator(registry, export.SliceLookup(list), export.Options{
			IntegrationRPS: a.cfg.IntegrationRPS,
			Logger:         logger,
		})

		selection := export.NewSelection(args...)

		var outcome export.Outcome
		withSpinner(fmt.Sprintf("Exporting %d job(s) to %s...", selection.Len(), to), func() {
			outcome, err = orchestrator.Export(cmd.Context(), export.Request{
				Targets:          selection.IDs(),
				Destination:      to,
				FilenameOverride: filename,
			})
		})
		if err != nil {
			a.fatal("Export failed: %v", err)
			return
		}

		fmt.Println(render.Outcome(outcome))

		selection.Apply(outcome)
		if selection.Len() > 0 {
			fmt.Printf("\nStill selected: %s\n", strings.Join(selection.IDs(), " "))
			a.exit(1)
			return
		}

		if h, err := registry.Lookup(to); err == nil && h.Kind() == export.KindFile {
			logger.Info("Files written to %s", a.cfg.ExportDir)
		}
	},
}

func initExportCommands() {
	exportCmd.Flags().String("to", string(export.DestinationCSV), "Destination: csv, excel, json, crm-push, sequencer-push, automation-push")
	exportCmd.Flags().String("filename", "", "Output filename override for file destinations")
}
