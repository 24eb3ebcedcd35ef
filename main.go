package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aktagon/pocket2omnivore/internal/importer"
	"github.com/aktagon/pocket2omnivore/internal/omnivore"
	"github.com/aktagon/pocket2omnivore/internal/output"
	"github.com/aktagon/pocket2omnivore/internal/pocket"
)

var (
	configFile   string
	reportPath   string
	colorMode    string
	startRow     int
	dryRun       bool
	skipURLCheck bool
	verbose      bool
	quiet        bool
	forceInit    bool
)

var rootCmd = &cobra.Command{
	Use:   "pocket2omnivore <export.csv>",
	Short: "Import a Pocket export into Omnivore",
	Long: `Reads the CSV export produced by Pocket and saves every bookmark to Omnivore.

Rows are imported one at a time. Bookmarks whose URL no longer resolves are
skipped. Any other failure stops the import and reports the row so it can be
fixed and the import resumed with --start-row.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runImport,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default settings file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFile
		if path == "" {
			path = configName + ".yaml"
		}
		if err := writeDefaultSettings(path, forceInit); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "settings file (default is ./pocket2omnivore.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	flags := rootCmd.Flags()
	flags.String("api-key", "", "Omnivore API key (default $OMNIVORE_API_KEY)")
	flags.String("api-url", omnivore.DefaultEndpoint, "Omnivore GraphQL endpoint")
	flags.Duration("delay", 0, "pause between rows (default from settings)")
	flags.Duration("url-timeout", 0, "timeout of each URL liveness check (default from settings)")
	flags.Bool("unread-untagged", false, "import archived bookmarks without tags as unread")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.IntVar(&startRow, "start-row", 1, "1-based row to resume from")
	flags.BoolVar(&dryRun, "dry-run", false, "validate and check URLs without saving")
	flags.BoolVar(&skipURLCheck, "skip-url-check", false, "do not check whether URLs are still alive")
	flags.StringVar(&reportPath, "report", "", "write a YAML report to this file")
	flags.StringVar(&colorMode, "color", "auto", "color output: auto, always or never")
	flags.BoolVarP(&quiet, "quiet", "q", false, "only print errors and the summary")

	initCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing settings file")
	rootCmd.AddCommand(initCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	exportPath := args[0]

	loadDotEnv()

	settings, err := loadSettings(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if skipURLCheck {
		settings.Import.CheckURLs = false
	}
	if err := validateSettings(settings, dryRun); err != nil {
		return err
	}
	if startRow < 1 {
		return fmt.Errorf("--start-row must be at least 1, got %d", startRow)
	}

	logger := newLogger(settings.Logging.Level, verbose)

	mode, err := output.ParseColorMode(colorMode)
	if err != nil {
		return err
	}
	printer := output.NewPrinterWithWriters(cmd.OutOrStdout(), cmd.ErrOrStderr(),
		output.ResolveColors(mode, settings.Output.Colors), quiet)

	rows, err := pocket.ReadFile(exportPath)
	if err != nil {
		return err
	}

	printer.Info("Importing %d bookmarks from %s", len(rows), exportPath)
	if dryRun {
		printer.Warning("Dry run: nothing will be saved to Omnivore")
	}
	if settings.Import.UnreadUntagged {
		printer.Info("Archived bookmarks without tags will be imported as unread")
	}

	var saver importer.Saver = &importer.DryRunSaver{}
	if !dryRun {
		saver = omnivore.NewClient(settings.API.URL, settings.API.Key,
			omnivore.WithTimeout(settings.API.Timeout),
			omnivore.WithUserAgent(settings.HTTP.UserAgent),
		)
	}

	var prober importer.Prober = importer.UncheckedProbe{}
	if settings.Import.CheckURLs {
		prober = importer.NewLivenessProbe(&http.Client{}, settings.HTTP.UserAgent)
	}

	report := NewReport(exportPath, dryRun)

	runner := importer.NewRunner(saver,
		importer.Options{
			UnreadUntagged: settings.Import.UnreadUntagged,
			Delay:          settings.Import.Delay,
			URLTimeout:     settings.Import.URLTimeout,
			StartRow:       startRow,
		},
		importer.WithProber(prober),
		importer.WithLogger(logger),
		importer.WithProgress(func(current, total int, title string) {
			report.Begin(current)
			printer.Progress(current, total, title)
		}),
		importer.WithOutcome(func(outcome importer.RowOutcome) {
			report.Record(outcome)
			printOutcome(printer, outcome)
		}),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, runErr := runner.Run(ctx, rows)

	printStatistics(printer, stats)

	if reportPath != "" {
		report.Finish(stats, runErr)
		if err := report.Save(reportPath); err != nil {
			printer.Error("%v", err)
		} else {
			printer.Info("Report written to %s", reportPath)
		}
	}

	if runErr != nil {
		var rowErr *importer.RowError
		if errors.As(runErr, &rowErr) {
			printer.Error("Import stopped at row %d", rowErr.Row)
			fmt.Fprintln(cmd.ErrOrStderr(), rowErr.Diagnostics())
			if !errors.Is(runErr, context.Canceled) {
				printer.Info("Fix the row and resume with --start-row %d", rowErr.Row)
			}
		}
		return runErr
	}

	printer.Success("Import completed")
	return nil
}

func printOutcome(p *output.Printer, outcome importer.RowOutcome) {
	switch o := outcome.(type) {
	case importer.Skipped:
		p.Warning("Skipped %s: %s", o.URL, o.Reason)
	case importer.Success:
		state := "unread"
		if o.IsArchived {
			state = "archived"
		} else if o.WasArchivedInPocket {
			state = "unread (untagged)"
		}
		p.Success("Saved %s as %s", o.URL, state)
	}
}

func printStatistics(p *output.Printer, stats importer.RunStatistics) {
	p.Header("Summary")

	table := output.NewTable(p.Out(), []string{"Metric", "Count"})
	table.AddRow("Processed", strconv.Itoa(stats.Total))
	table.AddRow("Saved", strconv.Itoa(stats.Successful))
	table.AddRow("Skipped (dead URL)", strconv.Itoa(stats.Skipped))
	table.AddRow("Tagged", strconv.Itoa(stats.Tagged))
	table.AddRow("Archived", strconv.Itoa(stats.Archived))
	table.AddRow("Imported unread (untagged)", strconv.Itoa(stats.SkippedArchive))
	if err := table.Render(); err != nil {
		p.Error("rendering summary: %v", err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		os.Exit(1)
	}
}
