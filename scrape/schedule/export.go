package schedule

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"coursevane"
)

// WriteJSON saves a snapshot to path, creating parent directories as
// needed. The output doubles as a seed file for classdata.LoadSeed.
func WriteJSON(path string, rows []coursevane.ClassRecord) error {
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteCSV saves a snapshot as CSV with a header row.
func WriteCSV(path string, rows []coursevane.ClassRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"subject", "course", "section", "classNumber", "modeOfInstruction",
		"courseTitle", "satisfies", "units", "type", "days", "times",
		"instructor", "location", "dates", "openSeats", "notes",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.Subject,
			r.Course,
			r.Section,
			strconv.Itoa(r.ClassNumber),
			string(r.ModeOfInstruction),
			r.CourseTitle,
			r.Satisfies,
			fmt.Sprintf("%g", r.Units),
			string(r.Type),
			r.Days,
			r.Times,
			r.Instructor,
			r.Location,
			r.Dates,
			strconv.Itoa(r.OpenSeats),
			r.Notes,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
