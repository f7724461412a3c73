package commands

import (
	"errors"
	"os"

	"coursevane/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

var errNoSnapshot = errors.New("run `coursevane refresh` or configure a seed snapshot first")

func init() {
	rootCmd.AddCommand(classesCmd)
}

var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "Prints the current class snapshot.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		store, database := openStore(cfg)
		defer database.Close()

		rows := store.ListClasses(cmd.Context())
		if len(rows) == 0 {
			serviceutil.Fatal("the snapshot is empty", errNoSnapshot)
		}

		t := newTable()
		t.AppendHeader(table.Row{"Class #", "Course", "Sec", "Title", "Type", "Mode", "Days", "Times", "Instructor", "Open"})
		for _, r := range rows {
			t.AppendRow(table.Row{
				r.ClassNumber,
				r.CourseKey(),
				r.Section,
				r.CourseTitle,
				r.Type,
				r.ModeOfInstruction,
				r.Days,
				r.Times,
				r.Instructor,
				r.OpenSeats,
			})
		}
		t.Render()
	},
}
