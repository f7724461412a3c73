package schedule

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"coursevane"
	"coursevane/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) *goquery.Document {
	f, err := os.Open(filepath.Join("testdata", "schedule.html"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestParse(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrape/schedule")
	defer cleanup()

	rows := Parse(context.Background(), loadFixture(t))

	// the fixture has 5 rows, one with an unparseable class number
	require.Len(t, rows, 4)

	diff := cmp.Diff(coursevane.ClassRecord{
		Subject:           "CS",
		Course:            "147",
		Section:           "01",
		ClassNumber:       30412,
		ModeOfInstruction: coursevane.ModeInPerson,
		CourseTitle:       "Introduction to Human Computer Interaction",
		Units:             3,
		Type:              coursevane.TypeLecture,
		Days:              "TR",
		Times:             "0900-1015",
		Instructor:        "Nguyen, T",
		Location:          "MH 222",
		Dates:             "01/22/26-05/11/26",
		OpenSeats:         12,
	}, rows[0])
	require.Empty(t, diff)

	// non-breaking space in the code cell, online section
	require.Equal(t, "BUS4", rows[1].Subject)
	require.Equal(t, "91L", rows[1].Course)
	require.Equal(t, "80", rows[1].Section)
	require.Equal(t, coursevane.ModeOnline, rows[1].ModeOfInstruction)
	require.Equal(t, "Fully asynchronous", rows[1].Notes)

	// fused code, negative seat count survives
	require.Equal(t, "ENGR", rows[2].Subject)
	require.Equal(t, "10", rows[2].Course)
	require.Equal(t, -2, rows[2].OpenSeats)
	require.Equal(t, "TBA", rows[2].Instructor)

	// unknown mode/type strings are preserved, not rejected
	require.Equal(t, coursevane.InstructionMode("Telepresence"), rows[3].ModeOfInstruction)
	require.False(t, rows[3].ModeOfInstruction.Known())
	require.Equal(t, coursevane.SectionType("COL"), rows[3].Type)
	require.False(t, rows[3].Type.Known())
}

func TestParseUniqueClassNumbers(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrape/schedule")
	defer cleanup()

	rows := Parse(context.Background(), loadFixture(t))

	seen := map[int]bool{}
	for _, r := range rows {
		require.False(t, seen[r.ClassNumber], "duplicate class number %d", r.ClassNumber)
		seen[r.ClassNumber] = true
	}
	require.Len(t, seen, len(rows))
}

func TestParseEmptyDocument(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrape/schedule")
	defer cleanup()

	empty, err := goquery.NewDocumentFromReader(
		strings.NewReader("<html><body><p>maintenance</p></body></html>"),
	)
	require.NoError(t, err)
	require.Empty(t, Parse(context.Background(), empty))
}

func TestExport(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrape/schedule")
	defer cleanup()

	rows := Parse(context.Background(), loadFixture(t))
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "out", "classes.json")
	require.NoError(t, WriteJSON(jsonPath, rows))
	_, err := os.Stat(jsonPath)
	require.NoError(t, err)

	csvPath := filepath.Join(dir, "out", "classes.csv")
	require.NoError(t, WriteCSV(csvPath, rows))
	contents, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	require.Contains(t, string(contents), "30412")
}
