// Package kvstore is a sqlite-backed key-value store with per-entry
// expiration. Expired entries read as absent and are purged lazily.
package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"coursevane/kvstore/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

var tracer = otel.Tracer("coursevane.kvstore")

type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

// Open opens (or creates) a sqlite database at path and applies the kv
// schema. Use ":memory:" for an ephemeral store.
func Open(path string) (*sql.DB, error) {
	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = database.Exec(db.Schema)
	if err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// Get returns the value stored under key, reporting whether it was present
// and unexpired.
func (s Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, span := tracer.Start(ctx, "Get")
	defer span.End()
	span.SetAttributes(attribute.String("key", key))

	row, err := s.qry.GetValue(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read kv row")
		return nil, false, err
	}

	if row.ExpiresAt != 0 && row.ExpiresAt <= time.Now().Unix() {
		// lazily drop the dead row, a failure here is harmless. The
		// expires_at guard keeps the purge from eating a value a
		// concurrent Set wrote after this read.
		err := s.qry.DeleteValueIfExpiresAt(ctx, db.DeleteValueIfExpiresAtParams{
			Key:       key,
			ExpiresAt: row.ExpiresAt,
		})
		if err != nil {
			span.RecordError(err)
		}
		return nil, false, nil
	}

	return row.Value, true, nil
}

// Set writes value under key. A ttl of zero or less stores the entry
// without expiration.
func (s Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, span := tracer.Start(ctx, "Set")
	defer span.End()
	span.SetAttributes(attribute.String("key", key))

	var expiresAt int64
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).Unix()
	}

	err := s.qry.SetValue(ctx, db.SetValueParams{
		Key:       key,
		Value:     value,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write kv row")
		return err
	}
	return nil
}

func (s Store) Delete(ctx context.Context, key string) error {
	ctx, span := tracer.Start(ctx, "Delete")
	defer span.End()
	span.SetAttributes(attribute.String("key", key))

	err := s.qry.DeleteValue(ctx, key)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to delete kv row")
		return err
	}
	return nil
}

// PurgeExpired removes every expired entry in one sweep.
func (s Store) PurgeExpired(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "PurgeExpired")
	defer span.End()

	return s.qry.DeleteExpired(ctx, time.Now().Unix())
}
