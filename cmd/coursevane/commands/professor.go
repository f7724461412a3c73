package commands

import (
	"fmt"
	"strconv"
	"strings"

	"coursevane"
	"coursevane/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var professorClass *bool

func init() {
	professorClass = professorCmd.Flags().Bool("class", false, "Treat the argument as a class number and look up its instructor.")
	rootCmd.AddCommand(professorCmd)
}

var professorCmd = &cobra.Command{
	Use:   "professor <name> | professor --class <class number>",
	Short: "Prints a professor's rating summary and reviews.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		store, database := openStore(cfg)
		defer database.Close()

		var rating coursevane.ProfessorRating
		var err error
		if *professorClass {
			classNumber, convErr := strconv.Atoi(args[0])
			if convErr != nil {
				serviceutil.Fatal("invalid class number", convErr)
			}
			rating, err = store.GetProfessorForClass(cmd.Context(), classNumber)
		} else {
			rating, err = store.GetProfessor(cmd.Context(), strings.Join(args, " "))
		}
		if err != nil {
			serviceutil.Fatal("failed to get professor rating", err)
		}

		summary := newTable()
		summary.AppendRow(table.Row{"Name", rating.Professor.Name})
		summary.AppendRow(table.Row{"Department", rating.Professor.Department})
		summary.AppendRow(table.Row{"Quality", fmt.Sprintf("%.1f / 5", rating.Professor.AverageQuality)})
		summary.AppendRow(table.Row{"Difficulty", fmt.Sprintf("%.1f / 5", rating.Professor.Difficulty)})
		summary.AppendRow(table.Row{"Would take again", fmt.Sprintf("%.0f%%", rating.Professor.WouldTakeAgainPercent)})
		summary.Render()

		if len(rating.Reviews) == 0 {
			return
		}
		reviews := newTable()
		reviews.AppendHeader(table.Row{"Date", "Class", "Quality", "Difficulty", "Grade", "Tags", "Review"})
		for _, r := range rating.Reviews {
			reviews.AppendRow(table.Row{
				r.Date.Format("2006-01-02"),
				r.Class,
				r.Quality,
				r.Difficulty,
				r.Grade,
				strings.Join(r.Tags, ", "),
				r.ReviewText,
			})
		}
		reviews.Render()
	},
}
