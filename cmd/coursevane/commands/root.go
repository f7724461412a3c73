package commands

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"coursevane"
	"coursevane/classdata"
	"coursevane/kvstore"
	"coursevane/lib/configutil"
	"coursevane/lib/telemetry"
	"coursevane/lib/util/serviceutil"
	"coursevane/scrape/catalog"
	"coursevane/scrape/ratings"
	"coursevane/scrape/schedule"

	"github.com/spf13/cobra"
)

type Config struct {
	ScheduleUrl   string `json:"schedule_url"`
	CatalogUrl    string `json:"catalog_url"`
	CatalogOid    string `json:"catalog_oid"`
	RatingsSchool int64  `json:"ratings_school"`
	Database      string `json:"database"`
	Seed          string `json:"seed"`
}

var (
	configFile *string
	verbose    *bool
)

var rootCmd = &cobra.Command{
	Use:   "coursevane",
	Short: "coursevane scrapes and serves class schedules, catalog details and professor ratings.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func init() {
	configFile = rootCmd.PersistentFlags().String("config", "config.json5", "The config file to read.")
	verbose = rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() Config {
	cfg, err := configutil.ReadConfig[Config](*configFile)
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if cfg.Database == "" {
		cfg.Database = "coursevane.db"
	}
	return cfg
}

// openStore wires the full pipeline: the sqlite-backed cache, the three
// scrapers and the optional seed snapshot. Callers close the returned db.
func openStore(cfg Config) (*classdata.Store, *sql.DB) {
	database, err := kvstore.Open(cfg.Database)
	if err != nil {
		serviceutil.Fatal("failed to open cache database", err)
	}

	catalogScraper, err := catalog.NewScraper(cfg.CatalogUrl, cfg.CatalogOid)
	if err != nil {
		serviceutil.Fatal("failed to initialize catalog scraper", err)
	}

	kv := kvstore.NewStore(database)
	if err := kv.PurgeExpired(context.Background()); err != nil {
		slog.Warn("failed to purge expired cache entries", "err", err)
	}

	store := classdata.NewStore(classdata.Options{
		KV:       kv,
		Schedule: schedule.NewScraper(cfg.ScheduleUrl),
		Catalog:  catalogScraper,
		Ratings:  ratings.NewClient(ratings.ClientOptions{SchoolID: cfg.RatingsSchool}),
		Seed:     loadSeed(cfg.Seed),
	})
	return store, database
}

func loadSeed(path string) []coursevane.ClassRecord {
	if path == "" {
		return nil
	}
	rows, err := classdata.LoadSeed(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Debug("no seed snapshot found", "path", path)
			return nil
		}
		serviceutil.Fatal("failed to load seed snapshot", err)
	}
	slog.Info("loaded seed snapshot", "path", path, "count", len(rows))
	return rows
}
