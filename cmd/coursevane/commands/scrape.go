package commands

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"coursevane/lib/util/serviceutil"
	"coursevane/scrape/schedule"

	"github.com/spf13/cobra"
)

var (
	scrapeOut    *string
	scrapeFormat *string
)

func init() {
	scrapeOut = scrapeCmd.Flags().String("out", "schedule.json", "The file to write scrape results to.")
	scrapeFormat = scrapeCmd.Flags().String("format", "json", "Output format, json or csv.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--out <path>] [--format json|csv]",
	Short: "Scrapes the live class schedule and writes the snapshot to a file.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		scraper := schedule.NewScraper(cfg.ScheduleUrl)

		t1 := time.Now()
		rows, err := scraper.Fetch(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to scrape schedule", err)
		}
		t2 := time.Now()
		slog.Info("scraped schedule", "count", len(rows), "seconds", t2.Sub(t1).Seconds())

		switch strings.ToLower(*scrapeFormat) {
		case "json":
			err = schedule.WriteJSON(*scrapeOut, rows)
		case "csv":
			err = schedule.WriteCSV(*scrapeOut, rows)
		default:
			serviceutil.Fatal("failed to write snapshot", fmt.Errorf("unknown output format %q", *scrapeFormat))
		}
		if err != nil {
			serviceutil.Fatal("failed to write snapshot", err)
		}
		slog.Info("wrote snapshot", "path", *scrapeOut)
	},
}
