package kvstore

import (
	"context"
	"testing"
	"time"

	"coursevane/kvstore/db"
	"coursevane/lib/testutil"

	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "kvstore",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	_, hit, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, hit)

	err = store.Set(ctx, "a", []byte("value a"), 0)
	require.NoError(t, err)

	got, hit, err := store.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, []byte("value a"), got)

	// overwrite replaces the value in place
	err = store.Set(ctx, "a", []byte("value b"), time.Hour)
	require.NoError(t, err)

	got, hit, err = store.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, []byte("value b"), got)

	err = store.Delete(ctx, "a")
	require.NoError(t, err)

	_, hit, err = store.Get(ctx, "a")
	require.NoError(t, err)
	require.False(t, hit)
}

func TestStoreExpiration(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "kvstore",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	err := store.Set(ctx, "short", []byte("gone soon"), time.Second)
	require.NoError(t, err)
	err = store.Set(ctx, "long", []byte("still here"), time.Hour)
	require.NoError(t, err)

	_, hit, err := store.Get(ctx, "short")
	require.NoError(t, err)
	require.True(t, hit)

	time.Sleep(time.Second + time.Millisecond*50)

	_, hit, err = store.Get(ctx, "short")
	require.NoError(t, err)
	require.False(t, hit)

	_, hit, err = store.Get(ctx, "long")
	require.NoError(t, err)
	require.True(t, hit)

	require.NoError(t, store.PurgeExpired(ctx))
}

func TestStoreLazyPurgeSparesFreshWrite(t *testing.T) {
	setup, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "kvstore",
		DbSchema: db.Schema,
	})
	defer cleanup()
	store := NewStore(setup.DB)
	qry := db.New(setup.DB)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	// a reader observes this expired row and queues its purge
	err := qry.SetValue(ctx, db.SetValueParams{
		Key:       "contested",
		Value:     []byte("stale"),
		ExpiresAt: 1,
	})
	require.NoError(t, err)

	// a writer replaces the entry before the purge lands
	err = store.Set(ctx, "contested", []byte("fresh"), time.Hour)
	require.NoError(t, err)

	// the purge carries the expiry it read, so it must miss
	err = qry.DeleteValueIfExpiresAt(ctx, db.DeleteValueIfExpiresAtParams{
		Key:       "contested",
		ExpiresAt: 1,
	})
	require.NoError(t, err)

	got, hit, err := store.Get(ctx, "contested")
	require.NoError(t, err)
	require.True(t, hit)
	require.Equal(t, []byte("fresh"), got)
}
