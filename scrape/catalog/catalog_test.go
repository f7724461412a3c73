package catalog

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"coursevane"
	"coursevane/lib/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, name string) *goquery.Document {
	f, err := os.Open(filepath.Join("testdata", name))
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

func docFromString(t *testing.T, html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

var base = &url.URL{Scheme: "https", Host: "catalog.example.edu"}

func TestBestMatchLink(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrape/catalog")
	defer cleanup()

	link, err := BestMatchLink(base, loadFixture(t, "search.html"))
	require.NoError(t, err)
	require.Equal(t,
		"https://catalog.example.edu/preview_course_nopop.php?catoid=17&coid=120394",
		link,
	)
}

func TestBestMatchLinkNoMatch(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrape/catalog")
	defer cleanup()

	doc := docFromString(t, `<html><body>
		<a href="index.php">Catalog Home</a>
		<p>Your search returned no results.</p>
	</body></html>`)

	_, err := BestMatchLink(base, doc)
	require.ErrorIs(t, err, ErrNoMatch)
	require.Equal(t, coursevane.KindNotFound, coursevane.Kind(err))
}

func TestBestMatchLinkMalformedAnchor(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrape/catalog")
	defer cleanup()

	doc := docFromString(t, `<html><body>
		<a><strong>Best Match:</strong> CS 147</a>
	</body></html>`)

	_, err := BestMatchLink(base, doc)
	require.ErrorIs(t, err, ErrMalformedAnchor)
	require.Equal(t, coursevane.KindMalformed, coursevane.Kind(err))
}

func TestParseDetails(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrape/catalog")
	defer cleanup()

	details, err := ParseDetails("17", loadFixture(t, "course.html"))
	require.NoError(t, err)

	require.Equal(t, "17", details.Oid)
	require.Equal(t, "CS 147", details.CourseKey)
	require.Equal(t, "CS 147 - Introduction to Human Computer Interaction", details.CourseTitle)
	require.Equal(t, "3 unit(s)", details.Credits)
	require.Equal(t,
		"Design, prototyping and evaluation of user interfaces for computing systems. Usability testing, interface technology and human factors.",
		details.Description,
	)
	require.Equal(t, `CS 146 (with a grade of "C-" or better)`, details.Prereq)
	require.Equal(t, "Letter Graded", details.Grading)
	require.Equal(t, "Majors only during advance registration.", details.Notes)
	require.Equal(t, "Earth, Environment, and Sustainability", details.Satisfies)
}

func TestParseDetailsFieldAbsenceIsNotAnError(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrape/catalog")
	defer cleanup()

	doc := docFromString(t, `<html><body><table><tr>
		<td class="block_content"><h3 id="course_preview_title">ENGR 10 - Introduction to Engineering</h3></td>
	</tr></table></body></html>`)

	details, err := ParseDetails("17", doc)
	require.NoError(t, err)
	require.Equal(t, "ENGR 10", details.CourseKey)
	require.Empty(t, details.Credits)
	require.Empty(t, details.Description)
	require.Empty(t, details.Prereq)
	require.Empty(t, details.Grading)
	require.Empty(t, details.Notes)
	require.Empty(t, details.Satisfies)
}

func TestParseDetailsMissingBlock(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrape/catalog")
	defer cleanup()

	doc := docFromString(t, `<html><body><p>page moved</p></body></html>`)

	_, err := ParseDetails("17", doc)
	require.Error(t, err)
	require.Equal(t, coursevane.KindMalformed, coursevane.Kind(err))
}
