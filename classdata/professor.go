package classdata

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"coursevane"
	"coursevane/scrape/ratings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	professorKeyPrefix = "professor:"
	reviewKeyPrefix    = "professorReview:"
)

// GetProfessor returns the rating snapshot and reviews for a professor
// display name ("First Last"). Info and reviews are cached independently
// but only count as a hit together: if either is missing, both are
// refetched and rewritten, so the two key spaces never drift into partial
// state.
func (s *Store) GetProfessor(ctx context.Context, name string) (coursevane.ProfessorRating, error) {
	ctx, span := tracer.Start(ctx, "GetProfessor")
	defer span.End()
	span.SetAttributes(attribute.String("name", name))

	cached, hit, err := s.readProfessor(ctx, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "professor cache read failed")
		return coursevane.ProfessorRating{}, coursevane.Unavailable("read professor cache", err)
	}
	if hit {
		span.SetAttributes(attribute.String("cache", "kv"))
		return cached, nil
	}

	v, err, _ := s.flight.Do(professorKeyPrefix+name, func() (interface{}, error) {
		return s.fetchProfessor(ctx, name)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "professor fetch failed")
		return coursevane.ProfessorRating{}, err
	}
	span.SetAttributes(attribute.String("cache", "miss"))
	return v.(coursevane.ProfessorRating), nil
}

func (s *Store) readProfessor(ctx context.Context, name string) (coursevane.ProfessorRating, bool, error) {
	rawInfo, infoHit, err := s.kv.Get(ctx, professorKeyPrefix+name)
	if err != nil {
		return coursevane.ProfessorRating{}, false, err
	}
	rawReviews, reviewsHit, err := s.kv.Get(ctx, reviewKeyPrefix+name)
	if err != nil {
		return coursevane.ProfessorRating{}, false, err
	}
	if !infoHit || !reviewsHit {
		return coursevane.ProfessorRating{}, false, nil
	}

	var rating coursevane.ProfessorRating
	err = json.Unmarshal(rawInfo, &rating.Professor)
	if err != nil {
		return coursevane.ProfessorRating{}, false, err
	}
	err = json.Unmarshal(rawReviews, &rating.Reviews)
	if err != nil {
		return coursevane.ProfessorRating{}, false, err
	}
	return rating, true, nil
}

func (s *Store) fetchProfessor(ctx context.Context, name string) (coursevane.ProfessorRating, error) {
	s.ratingsMu.Lock()
	s.ratings.SetTarget(name)
	rawInfo, err := s.ratings.GetInfo(ctx)
	if err != nil {
		s.ratingsMu.Unlock()
		return coursevane.ProfessorRating{}, err
	}
	rawReviews, err := s.ratings.GetReviews(ctx)
	s.ratingsMu.Unlock()
	if err != nil {
		return coursevane.ProfessorRating{}, err
	}

	prof := ratings.NormalizeProfessor(rawInfo)
	reviews := ratings.NormalizeReviews(ctx, prof.Name, rawReviews)

	// an aborted caller gets no write-back, cache state stays untouched
	if ctx.Err() != nil {
		return coursevane.ProfessorRating{}, ctx.Err()
	}

	// info is keyed by the name the caller asked with, so later reads
	// with the same name hit
	encoded, err := json.Marshal(prof)
	if err != nil {
		return coursevane.ProfessorRating{}, err
	}
	err = s.kv.Set(ctx, professorKeyPrefix+name, encoded, s.cacheTTL)
	if err != nil {
		return coursevane.ProfessorRating{}, coursevane.Unavailable("write professor cache", err)
	}

	err = s.writeReviewBatch(ctx, reviews)
	if err != nil {
		return coursevane.ProfessorRating{}, coursevane.Unavailable("write review cache", err)
	}

	return coursevane.ProfessorRating{Professor: prof, Reviews: reviews}, nil
}

// writeReviewBatch replaces a professor's review collection. The key is
// derived from the first review's ProfName, which is the normalized
// professor name, not necessarily the name the caller queried with. An
// empty batch has no key to write under and is a no-op.
func (s *Store) writeReviewBatch(ctx context.Context, reviews []coursevane.ProfessorReview) error {
	if len(reviews) == 0 {
		slog.DebugContext(ctx, "skipping empty review batch write")
		return nil
	}
	encoded, err := json.Marshal(reviews)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, reviewKeyPrefix+reviews[0].ProfName, encoded, s.cacheTTL)
}

// ProfessorQueryName converts the schedule's "Last, First" instructor cell
// into the "First Last" display-name convention the ratings provider uses.
// Returns "" for TBA or empty instructors.
func ProfessorQueryName(instructor string) string {
	instructor = strings.TrimSpace(instructor)
	if instructor == "" || strings.EqualFold(instructor, "TBA") {
		return ""
	}
	last, first, found := strings.Cut(instructor, ",")
	if !found {
		return instructor
	}
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}

// GetProfessorForClass looks up a class's instructor's rating snapshot.
func (s *Store) GetProfessorForClass(ctx context.Context, classNumber int) (coursevane.ProfessorRating, error) {
	row, err := s.GetClassByID(ctx, classNumber)
	if err != nil {
		return coursevane.ProfessorRating{}, err
	}
	name := ProfessorQueryName(row.Instructor)
	if name == "" {
		return coursevane.ProfessorRating{}, coursevane.NotFound("get class professor", nil)
	}
	return s.GetProfessor(ctx, name)
}
