// Package classdata owns the schedule snapshot and the cached per-course
// and per-professor lookups. It is the layer the routing/UI side talks to.
package classdata

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"time"

	"coursevane"
	"coursevane/kvstore"
	"coursevane/lib/timezone"
	"coursevane/scrape/ratings"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"
)

var tracer = otel.Tracer("coursevane.classdata")

const (
	// DefaultCacheTTL is how long catalog details and professor records
	// stay cached before a refetch.
	DefaultCacheTTL = 30 * 24 * time.Hour
	// DefaultRefreshInterval is the minimum spacing between schedule
	// refreshes.
	DefaultRefreshInterval = 60 * time.Second
)

type ScheduleSource interface {
	Fetch(ctx context.Context) ([]coursevane.ClassRecord, error)
}

type CatalogSource interface {
	FindCourseLink(ctx context.Context, subject, course string) (string, error)
	FetchDetails(ctx context.Context, url string) (coursevane.ClassDetails, error)
}

// RatingsSource is the provider contract: select a professor, then fetch.
// Implementations need not be safe for concurrent use, the store
// serializes access.
type RatingsSource interface {
	SetTarget(name string)
	GetInfo(ctx context.Context) (ratings.RawProfessor, error)
	GetReviews(ctx context.Context) ([]ratings.RawReview, error)
}

type Options struct {
	KV       kvstore.Store
	Schedule ScheduleSource
	Catalog  CatalogSource
	Ratings  RatingsSource

	// Seed optionally pre-populates the snapshot, e.g. from a file
	// written by a previous scrape.
	Seed []coursevane.ClassRecord

	// zero values fall back to the defaults above
	CacheTTL        time.Duration
	RefreshInterval time.Duration
}

// Store holds the current class snapshot plus its by-id index, and fronts
// the detail/professor caches. Construct one explicitly and pass it around,
// there is no package-level instance.
type Store struct {
	mu          sync.RWMutex
	rows        []coursevane.ClassRecord
	byId        map[int]coursevane.ClassRecord
	lastRefresh time.Time

	kv       kvstore.Store
	schedule ScheduleSource
	catalog  CatalogSource

	ratingsMu sync.Mutex
	ratings   RatingsSource

	// hot layer over the sqlite details cache
	detailsHot *expirable.LRU[string, coursevane.ClassDetails]
	// per-key deduplication of concurrent cache misses
	flight singleflight.Group

	cacheTTL        time.Duration
	refreshInterval time.Duration
}

func NewStore(opts Options) *Store {
	cacheTTL := opts.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = DefaultCacheTTL
	}
	refreshInterval := opts.RefreshInterval
	if refreshInterval == 0 {
		refreshInterval = DefaultRefreshInterval
	}

	s := &Store{
		kv:              opts.KV,
		schedule:        opts.Schedule,
		catalog:         opts.Catalog,
		ratings:         opts.Ratings,
		detailsHot:      expirable.NewLRU[string, coursevane.ClassDetails](1024, nil, time.Minute*15),
		cacheTTL:        cacheTTL,
		refreshInterval: refreshInterval,
	}
	s.replaceSnapshot(context.Background(), opts.Seed, time.Time{})
	return s
}

// LoadSeed reads a snapshot previously written with schedule.WriteJSON.
func LoadSeed(path string) ([]coursevane.ClassRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []coursevane.ClassRecord
	err = json.Unmarshal(data, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// replaceSnapshot swaps in a new snapshot atomically, dropping rows that
// would violate class-number uniqueness so the list and the index always
// agree.
func (s *Store) replaceSnapshot(ctx context.Context, rows []coursevane.ClassRecord, refreshedAt time.Time) int {
	byId := make(map[int]coursevane.ClassRecord, len(rows))
	deduped := make([]coursevane.ClassRecord, 0, len(rows))
	for _, row := range rows {
		if _, exists := byId[row.ClassNumber]; exists {
			slog.WarnContext(
				ctx, "dropping row with duplicate class number",
				"class_number", row.ClassNumber,
				"course", row.CourseKey(),
			)
			continue
		}
		byId[row.ClassNumber] = row
		deduped = append(deduped, row)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = deduped
	s.byId = byId
	if !refreshedAt.IsZero() {
		s.lastRefresh = refreshedAt
	}
	return len(deduped)
}

// ListClasses returns the full current snapshot in table order.
func (s *Store) ListClasses(ctx context.Context) []coursevane.ClassRecord {
	_, span := tracer.Start(ctx, "ListClasses")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]coursevane.ClassRecord, len(s.rows))
	copy(out, s.rows)
	span.SetAttributes(attribute.Int("count", len(out)))
	return out
}

func (s *Store) GetClassByID(ctx context.Context, classNumber int) (coursevane.ClassRecord, error) {
	_, span := tracer.Start(ctx, "GetClassByID")
	defer span.End()
	span.SetAttributes(attribute.Int("class_number", classNumber))

	s.mu.RLock()
	row, ok := s.byId[classNumber]
	s.mu.RUnlock()
	if !ok {
		return coursevane.ClassRecord{}, coursevane.NotFound("get class", nil)
	}
	return row, nil
}

type RefreshResult struct {
	Count     int       `json:"count"`
	Timestamp time.Time `json:"timestamp"`
}

// RefreshSchedule re-scrapes the live schedule and atomically replaces the
// snapshot. Calls within the refresh interval of the previous successful
// run are rejected with a rate-limited error carrying the remaining wait.
//
// The throttle is advisory: the timestamp is read before the scrape and
// written after it, so two calls racing through the check can both scrape.
// That is acceptable at refresh frequencies, last write wins.
func (s *Store) RefreshSchedule(ctx context.Context) (RefreshResult, error) {
	ctx, span := tracer.Start(ctx, "RefreshSchedule")
	defer span.End()

	now := timezone.Now()
	s.mu.RLock()
	sinceLast := now.Sub(s.lastRefresh)
	throttled := !s.lastRefresh.IsZero() && sinceLast < s.refreshInterval
	s.mu.RUnlock()
	if throttled {
		remaining := s.refreshInterval - sinceLast
		span.SetAttributes(attribute.Int64("retry_after_ms", remaining.Milliseconds()))
		return RefreshResult{}, coursevane.RateLimited("refresh schedule", remaining)
	}

	rows, err := s.schedule.Fetch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "schedule fetch failed")
		return RefreshResult{}, err
	}

	count := s.replaceSnapshot(ctx, rows, now)
	slog.InfoContext(ctx, "refreshed schedule snapshot", "count", count)
	span.SetAttributes(attribute.Int("count", count))

	return RefreshResult{Count: count, Timestamp: now}, nil
}
