package locations

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/medrehab/clinic-concierge/pkg/logging"
)

// Source fetches the clinic directory from the system of record.
type Source interface {
	FetchLocations(ctx context.Context) ([]ClinicLocation, error)
}

// Snapshot holds the current clinic directory. It is replaced wholesale on
// refresh and safe for concurrent readers; readers get copies.
type Snapshot struct {
	mu       sync.RWMutex
	locs     []ClinicLocation
	loadedAt time.Time
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Current returns a copy of the directory.
func (s *Snapshot) Current() []ClinicLocation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ClinicLocation, len(s.locs))
	copy(out, s.locs)
	return out
}

// Replace swaps in a new directory.
func (s *Snapshot) Replace(locs []ClinicLocation, asOf time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locs = locs
	s.loadedAt = asOf
}

// Len returns the number of clinics currently loaded.
func (s *Snapshot) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.locs)
}

// LoadedAt returns when the directory was last replaced.
func (s *Snapshot) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Refresher keeps a Snapshot loaded from the upstream directory, with a Redis
// cache between the upstream and the static reference list. Refresh failures
// never clear a previously loaded snapshot.
type Refresher struct {
	source       Source
	cache        *Cache
	snapshot     *Snapshot
	fetchTimeout time.Duration
	logger       *logging.Logger

	tick <-chan time.Time
	stop func()
}

// RefresherConfig configures a Refresher. Tick/Stop are injectable for tests;
// when Tick is nil a ticker at Interval is used.
type RefresherConfig struct {
	Source       Source
	Cache        *Cache
	Snapshot     *Snapshot
	Interval     time.Duration
	FetchTimeout time.Duration
	Logger       *logging.Logger

	Tick <-chan time.Time
	Stop func()
}

// NewRefresher constructs a directory refresher.
func NewRefresher(cfg RefresherConfig) (*Refresher, error) {
	if cfg.Source == nil {
		return nil, errors.New("locations: refresher requires a source")
	}
	if cfg.Snapshot == nil {
		return nil, errors.New("locations: refresher requires a snapshot")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	fetchTimeout := cfg.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}

	tick := cfg.Tick
	stop := cfg.Stop
	if tick == nil {
		interval := cfg.Interval
		if interval <= 0 {
			interval = 30 * time.Minute
		}
		ticker := time.NewTicker(interval)
		tick = ticker.C
		stop = ticker.Stop
	}

	return &Refresher{
		source:       cfg.Source,
		cache:        cfg.Cache,
		snapshot:     cfg.Snapshot,
		fetchTimeout: fetchTimeout,
		logger:       logger,
		tick:         tick,
		stop:         stop,
	}, nil
}

// Start refreshes once immediately, then on every tick until ctx is done.
func (r *Refresher) Start(ctx context.Context) {
	if r == nil {
		return
	}
	defer func() {
		if r.stop != nil {
			r.stop()
		}
	}()

	_ = r.RefreshOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.tick:
			_ = r.RefreshOnce(ctx)
		}
	}
}

// RefreshOnce reloads the snapshot: upstream first, then the Redis cache,
// then the static reference directory if nothing has ever loaded.
func (r *Refresher) RefreshOnce(ctx context.Context) error {
	fetchCtx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()

	locs, err := r.source.FetchLocations(fetchCtx)
	if err == nil && len(locs) > 0 {
		r.snapshot.Replace(locs, time.Now())
		if cacheErr := r.cache.Store(ctx, locs); cacheErr != nil {
			r.logger.Warn("directory cache store failed", "error", cacheErr)
		}
		r.logger.Info("clinic directory refreshed", "count", len(locs))
		return nil
	}
	if err == nil {
		err = errors.New("locations: upstream returned no clinics")
	}
	r.logger.Warn("clinic directory fetch failed", "error", err)

	if cached, cacheErr := r.cache.Load(ctx); cacheErr == nil && len(cached) > 0 {
		r.snapshot.Replace(cached, time.Now())
		r.logger.Info("clinic directory loaded from cache", "count", len(cached))
		return nil
	}

	if r.snapshot.Len() == 0 {
		fallback := ReferenceDirectory()
		r.snapshot.Replace(fallback, time.Now())
		r.logger.Warn("clinic directory using static reference list", "count", len(fallback))
	}
	return fmt.Errorf("locations: refresh failed: %w", err)
}
