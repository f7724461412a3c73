package commands

import (
	"strconv"

	"coursevane/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(classCmd)
}

var classCmd = &cobra.Command{
	Use:   "class <class number>",
	Short: "Prints one class row from the snapshot.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		classNumber, err := strconv.Atoi(args[0])
		if err != nil {
			serviceutil.Fatal("invalid class number", err)
		}

		cfg := loadConfig()
		store, database := openStore(cfg)
		defer database.Close()

		row, err := store.GetClassByID(cmd.Context(), classNumber)
		if err != nil {
			serviceutil.Fatal("failed to look up class", err)
		}

		t := newTable()
		t.AppendRow(table.Row{"Class #", row.ClassNumber})
		t.AppendRow(table.Row{"Course", row.CourseKey()})
		t.AppendRow(table.Row{"Section", row.Section})
		t.AppendRow(table.Row{"Title", row.CourseTitle})
		t.AppendRow(table.Row{"Satisfies", row.Satisfies})
		t.AppendRow(table.Row{"Units", row.Units})
		t.AppendRow(table.Row{"Type", row.Type})
		t.AppendRow(table.Row{"Mode", row.ModeOfInstruction})
		t.AppendRow(table.Row{"Days", row.Days})
		t.AppendRow(table.Row{"Times", row.Times})
		t.AppendRow(table.Row{"Instructor", row.Instructor})
		t.AppendRow(table.Row{"Location", row.Location})
		t.AppendRow(table.Row{"Dates", row.Dates})
		t.AppendRow(table.Row{"Open seats", row.OpenSeats})
		if row.Notes != "" {
			t.AppendRow(table.Row{"Notes", row.Notes})
		}
		t.Render()
	},
}
