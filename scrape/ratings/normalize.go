package ratings

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"coursevane"
)

// NormalizeProfessor converts a raw professor payload into the domain type.
// The rating fields pass through unconverted.
func NormalizeProfessor(raw RawProfessor) coursevane.Professor {
	return coursevane.Professor{
		Name:                  strings.TrimSpace(raw.FirstName + " " + raw.LastName),
		AverageQuality:        raw.AvgRating,
		Difficulty:            raw.AvgDifficulty,
		WouldTakeAgainPercent: raw.WouldTakeAgainPercent,
		Department:            raw.Department,
	}
}

// NormalizeReview converts one raw review. profName should be the
// normalized professor name so every review is self-describing without an
// external join. A malformed date fails this review only, never a batch.
func NormalizeReview(profName string, raw RawReview) (coursevane.ProfessorReview, error) {
	date, err := parseReviewDate(raw.DatePosted)
	if err != nil {
		return coursevane.ProfessorReview{}, err
	}

	return coursevane.ProfessorReview{
		ProfName:       profName,
		Date:           date,
		Quality:        raw.ClarityRating,
		Difficulty:     raw.DifficultyRating,
		Class:          raw.Class,
		Attendance:     raw.AttendanceStatus,
		WouldTakeAgain: raw.WouldTakeAgain,
		GradeReceived:  raw.StudentGrade,
		Grade:          raw.StudentGrade,
		Textbook:       TextbookUse(raw.TextbookUse),
		OnlineClass:    raw.IsOnline,
		ReviewText:     raw.Comment,
		Likes:          raw.CommentLikes,
		Dislikes:       raw.CommentDislikes,
		Tags:           SplitTags(raw.RatingTags),
	}, nil
}

// NormalizeReviews converts a batch, dropping (and logging) reviews that
// fail individually.
func NormalizeReviews(ctx context.Context, profName string, raws []RawReview) []coursevane.ProfessorReview {
	reviews := make([]coursevane.ProfessorReview, 0, len(raws))
	for _, raw := range raws {
		review, err := NormalizeReview(profName, raw)
		if err != nil {
			slog.WarnContext(
				ctx, "dropping review with malformed date",
				"professor", profName,
				"date", raw.DatePosted,
				"err", err,
			)
			continue
		}
		reviews = append(reviews, review)
	}
	return reviews
}

// parseReviewDate handles the provider's Go-flavored timestamp string,
// e.g. "2023-05-01 14:30:00 +0000 UTC": swap the first space for a "T" and
// the UTC suffix for a "Z" designator, then parse as RFC 3339.
func parseReviewDate(s string) (time.Time, error) {
	normalized := strings.Replace(s, " ", "T", 1)
	normalized = strings.Replace(normalized, " +0000 UTC", "Z", 1)
	date, err := time.Parse(time.RFC3339, normalized)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse review date %q: %w", s, err)
	}
	return date, nil
}

// TextbookUse maps the provider's tri-state numeric code. Anything outside
// the three documented codes is Unknown rather than an error: the provider
// has been observed emitting values the declared type does not allow.
func TextbookUse(code int) coursevane.TextbookUse {
	switch code {
	case 3:
		return coursevane.TextbookYes
	case 1:
		return coursevane.TextbookNo
	case -1:
		return coursevane.TextbookNA
	}
	return coursevane.TextbookUnknown
}

// SplitTags splits the provider's "--"-joined tag string, trimming each
// piece and dropping empties while preserving order.
func SplitTags(s string) []string {
	var tags []string
	for _, piece := range strings.Split(s, "--") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		tags = append(tags, piece)
	}
	return tags
}
