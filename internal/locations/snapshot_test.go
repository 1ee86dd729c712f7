package locations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	locs  []ClinicLocation
	err   error
	calls int
}

func (f *fakeSource) FetchLocations(ctx context.Context) ([]ClinicLocation, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.locs, nil
}

func testCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Hour)
}

func TestSnapshotCurrentReturnsCopy(t *testing.T) {
	snap := NewSnapshot()
	snap.Replace(ReferenceDirectory(), time.Now())

	first := snap.Current()
	first[0].Name = "mutated"

	assert.Equal(t, "MedRehab Group Richmond Hill", snap.Current()[0].Name)
	assert.Equal(t, 12, snap.Len())
}

func TestRefreshOnceStoresUpstreamResult(t *testing.T) {
	snap := NewSnapshot()
	cache := testCache(t)
	source := &fakeSource{locs: ReferenceDirectory()[:2]}

	r, err := NewRefresher(RefresherConfig{Source: source, Cache: cache, Snapshot: snap})
	require.NoError(t, err)

	require.NoError(t, r.RefreshOnce(context.Background()))
	assert.Equal(t, 2, snap.Len())

	cached, err := cache.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, cached, 2)
}

func TestRefreshOnceFallsBackToCache(t *testing.T) {
	snap := NewSnapshot()
	cache := testCache(t)
	require.NoError(t, cache.Store(context.Background(), ReferenceDirectory()[:5]))

	source := &fakeSource{err: errors.New("upstream down")}
	r, err := NewRefresher(RefresherConfig{Source: source, Cache: cache, Snapshot: snap})
	require.NoError(t, err)

	require.NoError(t, r.RefreshOnce(context.Background()))
	assert.Equal(t, 5, snap.Len())
}

func TestRefreshOnceFallsBackToReferenceDirectory(t *testing.T) {
	snap := NewSnapshot()
	source := &fakeSource{err: errors.New("upstream down")}

	r, err := NewRefresher(RefresherConfig{Source: source, Snapshot: snap})
	require.NoError(t, err)

	err = r.RefreshOnce(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 12, snap.Len())
}

func TestRefreshOnceKeepsSnapshotOnFailure(t *testing.T) {
	snap := NewSnapshot()
	snap.Replace(ReferenceDirectory()[:4], time.Now())

	source := &fakeSource{err: errors.New("upstream down")}
	r, err := NewRefresher(RefresherConfig{Source: source, Snapshot: snap})
	require.NoError(t, err)

	assert.Error(t, r.RefreshOnce(context.Background()))
	assert.Equal(t, 4, snap.Len())
}

func TestRefresherStartRefreshesOnTick(t *testing.T) {
	snap := NewSnapshot()
	source := &fakeSource{locs: ReferenceDirectory()}
	tick := make(chan time.Time)

	r, err := NewRefresher(RefresherConfig{Source: source, Snapshot: snap, Tick: tick})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()

	tick <- time.Now()
	tick <- time.Now()
	cancel()
	<-done

	// Initial refresh plus two ticks.
	assert.Equal(t, 3, source.calls)
	assert.Equal(t, 12, snap.Len())
}

func TestNewRefresherValidation(t *testing.T) {
	_, err := NewRefresher(RefresherConfig{Snapshot: NewSnapshot()})
	assert.Error(t, err)

	_, err = NewRefresher(RefresherConfig{Source: &fakeSource{}})
	assert.Error(t, err)
}

func TestCacheMiss(t *testing.T) {
	cache := testCache(t)
	_, err := cache.Load(context.Background())
	assert.ErrorIs(t, err, ErrCacheMiss)

	var nilCache *Cache
	require.NoError(t, nilCache.Store(context.Background(), ReferenceDirectory()))
	_, err = nilCache.Load(context.Background())
	assert.ErrorIs(t, err, ErrCacheMiss)
}
