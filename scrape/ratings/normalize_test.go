package ratings

import (
	"context"
	"testing"
	"time"

	"coursevane"
	"coursevane/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func TestNormalizeProfessor(t *testing.T) {
	prof := NormalizeProfessor(RawProfessor{
		FirstName:             "Ada",
		LastName:              "Lovelace",
		AvgRating:             4.7,
		AvgDifficulty:         3.2,
		WouldTakeAgainPercent: 91,
		Department:            "Computer Science",
	})

	require.Equal(t, "Ada Lovelace", prof.Name)
	require.Equal(t, 4.7, prof.AverageQuality)
	require.Equal(t, 3.2, prof.Difficulty)
	require.Equal(t, float64(91), prof.WouldTakeAgainPercent)
	require.Equal(t, "Computer Science", prof.Department)
}

func TestNormalizeReviewDate(t *testing.T) {
	review, err := NormalizeReview("Ada Lovelace", RawReview{
		DatePosted: "2023-05-01 14:30:00 +0000 UTC",
	})
	require.NoError(t, err)
	require.Equal(t, time.Date(2023, 5, 1, 14, 30, 0, 0, time.UTC), review.Date.UTC())
	require.Equal(t, "Ada Lovelace", review.ProfName)
}

func TestNormalizeReviewBadDate(t *testing.T) {
	_, err := NormalizeReview("Ada Lovelace", RawReview{
		DatePosted: "last tuesday",
	})
	require.Error(t, err)
}

func TestNormalizeReviewsIsolatesFailures(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrape/ratings")
	defer cleanup()

	reviews := NormalizeReviews(context.Background(), "Ada Lovelace", []RawReview{
		{DatePosted: "2023-05-01 14:30:00 +0000 UTC", ClarityRating: 5},
		{DatePosted: "not a date", ClarityRating: 1},
		{DatePosted: "2024-01-15 09:00:00 +0000 UTC", ClarityRating: 4},
	})

	require.Len(t, reviews, 2)
	require.Equal(t, float64(5), reviews[0].Quality)
	require.Equal(t, float64(4), reviews[1].Quality)
	for _, r := range reviews {
		require.Equal(t, "Ada Lovelace", r.ProfName)
	}
}

func TestTextbookUse(t *testing.T) {
	testCases := []struct {
		code   int
		expect coursevane.TextbookUse
	}{
		{code: 3, expect: coursevane.TextbookYes},
		{code: 1, expect: coursevane.TextbookNo},
		{code: -1, expect: coursevane.TextbookNA},
		{code: 7, expect: coursevane.TextbookUnknown},
		{code: 0, expect: coursevane.TextbookUnknown},
	}
	for _, test := range testCases {
		require.Equal(t, test.expect, TextbookUse(test.code), "code %d", test.code)
	}
}

func TestSplitTags(t *testing.T) {
	require.Equal(t,
		[]string{"easy grader", "gives good feedback"},
		SplitTags("easy grader--gives good feedback--  "),
	)
	require.Nil(t, SplitTags(""))
	require.Equal(t, []string{"solo"}, SplitTags("  solo  "))
}
