package classdata

import (
	"context"
	"encoding/json"

	"coursevane"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const detailsKeyPrefix = "details:"

// GetClassDetails resolves a class to its catalog-level details: cache
// first, scrape on miss, write-through before returning. A cache hit is
// authoritative, no freshness check is made against the live catalog.
// Concurrent misses for the same course key share one scrape.
func (s *Store) GetClassDetails(ctx context.Context, classNumber int) (coursevane.ClassDetails, error) {
	ctx, span := tracer.Start(ctx, "GetClassDetails")
	defer span.End()
	span.SetAttributes(attribute.Int("class_number", classNumber))

	row, err := s.GetClassByID(ctx, classNumber)
	if err != nil {
		return coursevane.ClassDetails{}, err
	}
	key := row.CourseKey()
	span.SetAttributes(attribute.String("course_key", key))

	if details, hit := s.detailsHot.Get(key); hit {
		span.SetAttributes(attribute.String("cache", "hot"))
		return details, nil
	}

	raw, hit, err := s.kv.Get(ctx, detailsKeyPrefix+key)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "details cache read failed")
		return coursevane.ClassDetails{}, coursevane.Unavailable("read details cache", err)
	}
	if hit {
		var details coursevane.ClassDetails
		err = json.Unmarshal(raw, &details)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "details cache entry is corrupt")
			return coursevane.ClassDetails{}, coursevane.Unavailable("decode details cache", err)
		}
		s.detailsHot.Add(key, details)
		span.SetAttributes(attribute.String("cache", "kv"))
		return details, nil
	}

	v, err, _ := s.flight.Do(detailsKeyPrefix+key, func() (interface{}, error) {
		return s.scrapeDetails(ctx, row, key)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "details scrape failed")
		return coursevane.ClassDetails{}, err
	}
	span.SetAttributes(attribute.String("cache", "miss"))
	return v.(coursevane.ClassDetails), nil
}

func (s *Store) scrapeDetails(ctx context.Context, row coursevane.ClassRecord, key string) (coursevane.ClassDetails, error) {
	link, err := s.catalog.FindCourseLink(ctx, row.Subject, row.Course)
	if err != nil {
		return coursevane.ClassDetails{}, err
	}
	details, err := s.catalog.FetchDetails(ctx, link)
	if err != nil {
		return coursevane.ClassDetails{}, err
	}

	// an aborted caller gets no write-back, cache state stays untouched
	if ctx.Err() != nil {
		return coursevane.ClassDetails{}, ctx.Err()
	}

	encoded, err := json.Marshal(details)
	if err != nil {
		return coursevane.ClassDetails{}, err
	}
	err = s.kv.Set(ctx, detailsKeyPrefix+key, encoded, s.cacheTTL)
	if err != nil {
		return coursevane.ClassDetails{}, coursevane.Unavailable("write details cache", err)
	}
	s.detailsHot.Add(key, details)

	return details, nil
}
