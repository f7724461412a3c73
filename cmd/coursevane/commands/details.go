package commands

import (
	"strconv"

	"coursevane/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(detailsCmd)
}

var detailsCmd = &cobra.Command{
	Use:   "details <class number>",
	Short: "Prints the catalog details for a class, scraping on cache miss.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		classNumber, err := strconv.Atoi(args[0])
		if err != nil {
			serviceutil.Fatal("invalid class number", err)
		}

		cfg := loadConfig()
		store, database := openStore(cfg)
		defer database.Close()

		details, err := store.GetClassDetails(cmd.Context(), classNumber)
		if err != nil {
			serviceutil.Fatal("failed to get class details", err)
		}

		t := newTable()
		t.AppendRow(table.Row{"Course", details.CourseKey})
		t.AppendRow(table.Row{"Title", details.CourseTitle})
		t.AppendRow(table.Row{"Credits", details.Credits})
		t.AppendRow(table.Row{"Description", details.Description})
		t.AppendRow(table.Row{"Satisfies", details.Satisfies})
		t.AppendRow(table.Row{"Prerequisites", details.Prereq})
		t.AppendRow(table.Row{"Grading", details.Grading})
		if details.Notes != "" {
			t.AppendRow(table.Row{"Notes", details.Notes})
		}
		t.Render()
	},
}
