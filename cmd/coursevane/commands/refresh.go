package commands

import (
	"log/slog"

	"coursevane"
	"coursevane/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(refreshCmd)
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-scrapes the live schedule and replaces the snapshot.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		store, database := openStore(cfg)
		defer database.Close()

		res, err := store.RefreshSchedule(cmd.Context())
		if err != nil {
			if coursevane.Kind(err) == coursevane.KindRateLimited {
				slog.Error("refresh is rate limited", "retry_after", coursevane.RetryAfter(err))
				return
			}
			serviceutil.Fatal("failed to refresh schedule", err)
		}
		slog.Info("refreshed schedule", "count", res.Count, "at", res.Timestamp)
	},
}
