package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"anchor-status/api"
	hoursapi "anchor-status/api/hours"
	"anchor-status/dao/redis"
	"anchor-status/models/hours"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const fetchKey = "business_hours"

// SnapshotStore persists the last good hours document outside the process.
type SnapshotStore interface {
	SaveSnapshot(s redis.HoursSnapshot) error
	LoadSnapshot() (*redis.HoursSnapshot, error)
}

// BoundaryFunc returns the next instant at which the status derived from doc changes.
type BoundaryFunc func(now time.Time, doc *hours.HoursDocument) time.Time

// PollerConfig holds the poller timings.
type PollerConfig struct {
	Interval         time.Duration
	StaleAfter       time.Duration
	RateLimitBackoff time.Duration
}

// PollerSnapshot is a consistent copy of the poller cache.
type PollerSnapshot struct {
	Document         *hours.HoursDocument
	LastUpdate       time.Time
	IsStale          bool
	LastError        error
	RateLimitedUntil time.Time
	Visible          bool
}

// StatusPoller keeps a cached copy of the upstream hours document fresh.
//
// Ticks are skipped while hidden, rate limited or while a fetch is running.
// Out-of-band refetches join the fetch already in flight instead of starting
// another. Responses are applied in request order and a response older than the
// last applied one is dropped. The boundary timer only runs while visible.
type StatusPoller struct {
	hoursAPI hoursapi.HoursAPI
	store    SnapshotStore
	boundary BoundaryFunc
	cfg      PollerConfig
	now      func() time.Time
	flight   singleflight.Group

	mu               sync.Mutex
	doc              *hours.HoursDocument
	lastUpdate       time.Time
	lastErr          error
	rateLimitedUntil time.Time
	visible          bool
	inFlight         int
	nextSeq          uint64
	appliedSeq       uint64
	subscribers      []func(PollerSnapshot)
	boundaryTimer    *time.Timer
	runCtx           context.Context
}

// NewStatusPoller constructs a poller. store and boundary may be nil.
func NewStatusPoller(
	hoursAPI hoursapi.HoursAPI,
	store SnapshotStore,
	boundary BoundaryFunc,
	cfg PollerConfig,
) *StatusPoller {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 2 * time.Minute
	}
	if cfg.RateLimitBackoff <= 0 {
		cfg.RateLimitBackoff = time.Minute
	}
	return &StatusPoller{
		hoursAPI: hoursAPI,
		store:    store,
		boundary: boundary,
		cfg:      cfg,
		now:      time.Now,
		visible:  true,
		runCtx:   context.Background(),
	}
}

// Start warms the cache from the snapshot store, fetches once and launches the
// ticker loop. The loop and boundary timer stop when ctx is done.
func (p *StatusPoller) Start(ctx context.Context) {
	p.mu.Lock()
	p.runCtx = ctx
	p.mu.Unlock()

	p.warm()
	go p.run(ctx)
}

func (p *StatusPoller) run(ctx context.Context) {
	if err := p.Refetch(ctx); err != nil {
		log.Warn().Err(err).Msg("[StatusPoller] Initial fetch failed")
	}

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()
	defer p.stopBoundaryTimer()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("[StatusPoller] Stopping")
			return
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Tick is the periodic stimulus. It returns whether a fetch was made.
func (p *StatusPoller) Tick(ctx context.Context) bool {
	p.mu.Lock()
	skip := !p.visible || p.inFlight > 0 || p.now().Before(p.rateLimitedUntil)
	p.mu.Unlock()
	if skip {
		log.Debug().Msg("[StatusPoller] Tick skipped")
		return false
	}
	if err := p.fetchShared(ctx); err != nil {
		log.Warn().Err(err).Msg("[StatusPoller] Periodic fetch failed")
	}
	return true
}

// SetVisible records whether anybody is watching. Hiding suspends the boundary
// timer. Becoming visible with a missing or stale cache triggers an immediate
// refetch, otherwise the boundary timer is re-armed.
func (p *StatusPoller) SetVisible(ctx context.Context, visible bool) error {
	p.mu.Lock()
	becameVisible := visible && !p.visible
	p.visible = visible
	needsFetch := becameVisible && (p.doc == nil || p.now().Sub(p.lastUpdate) > p.cfg.StaleAfter)
	p.mu.Unlock()

	log.Debug().Bool("visible", visible).Msg("[StatusPoller] Visibility changed")
	if !visible {
		p.stopBoundaryTimer()
		return nil
	}
	if !becameVisible {
		return nil
	}
	if !needsFetch {
		p.scheduleBoundary()
		return nil
	}
	err := p.Refetch(ctx)
	if err != nil {
		p.scheduleBoundary()
	}
	return err
}

// Refetch fetches out of band. A caller arriving while a fetch is in flight
// waits for that fetch and shares its result. While rate limited it returns a
// *api.RateLimitError carrying the remaining wait.
func (p *StatusPoller) Refetch(ctx context.Context) error {
	p.mu.Lock()
	now := p.now()
	if now.Before(p.rateLimitedUntil) {
		wait := p.rateLimitedUntil.Sub(now)
		p.mu.Unlock()
		return &api.RateLimitError{RetryAfter: wait}
	}
	p.mu.Unlock()
	return p.fetchShared(ctx)
}

// Snapshot returns the cache state at the poller's clock.
func (p *StatusPoller) Snapshot() PollerSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// Subscribe registers fn to be called after every applied update and at each
// status boundary.
func (p *StatusPoller) Subscribe(fn func(PollerSnapshot)) {
	if fn == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers = append(p.subscribers, fn)
}

func (p *StatusPoller) snapshotLocked() PollerSnapshot {
	s := PollerSnapshot{
		Document:         p.doc,
		LastUpdate:       p.lastUpdate,
		LastError:        p.lastErr,
		RateLimitedUntil: p.rateLimitedUntil,
		Visible:          p.visible,
	}
	if p.doc != nil {
		s.IsStale = p.lastErr != nil || p.now().Sub(p.lastUpdate) > p.cfg.StaleAfter
	}
	return s
}

// fetchShared runs at most one upstream fetch at a time.
func (p *StatusPoller) fetchShared(ctx context.Context) error {
	ch := p.flight.DoChan(fetchKey, func() (interface{}, error) {
		return nil, p.fetch(ctx)
	})
	select {
	case res := <-ch:
		if res.Shared {
			log.Debug().Msg("[StatusPoller] Joined in-flight fetch")
		}
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *StatusPoller) fetch(ctx context.Context) error {
	p.mu.Lock()
	p.nextSeq++
	seq := p.nextSeq
	p.inFlight++
	p.mu.Unlock()

	doc, err := p.hoursAPI.GetBusinessHours(ctx)
	if err == nil && doc == nil {
		err = fmt.Errorf("%w: empty hours document", api.ErrUpstreamUnavailable)
	}

	p.mu.Lock()
	p.inFlight--
	now := p.now()

	var rl *api.RateLimitError
	if errors.As(err, &rl) {
		backoff := rl.RetryAfter
		if backoff <= 0 {
			backoff = p.cfg.RateLimitBackoff
		}
		if until := now.Add(backoff); until.After(p.rateLimitedUntil) {
			p.rateLimitedUntil = until
		}
	}

	if seq <= p.appliedSeq {
		p.mu.Unlock()
		log.Debug().Uint64("seq", seq).Msg("[StatusPoller] Dropping out-of-order response")
		return err
	}
	p.appliedSeq = seq

	if err != nil {
		p.lastErr = err
		snap := p.snapshotLocked()
		subs := p.subscribersLocked()
		p.mu.Unlock()

		log.Warn().Err(err).Uint64("seq", seq).Bool("cached", snap.Document != nil).Msg("[StatusPoller] Fetch failed")
		notify(subs, snap)
		return err
	}

	p.doc = doc
	p.lastUpdate = upstreamTimestamp(doc, now)
	p.lastErr = nil
	snap := p.snapshotLocked()
	subs := p.subscribersLocked()
	p.mu.Unlock()

	log.Info().Uint64("seq", seq).Time("last_update", snap.LastUpdate).Msg("[StatusPoller] Hours updated")
	p.persist(snap, now)
	p.scheduleBoundary()
	notify(subs, snap)
	return nil
}

func (p *StatusPoller) subscribersLocked() []func(PollerSnapshot) {
	return append([]func(PollerSnapshot){}, p.subscribers...)
}

func notify(subs []func(PollerSnapshot), snap PollerSnapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}

// upstreamTimestamp is the document's own update time, or the fetch time when
// upstream did not send a usable one.
func upstreamTimestamp(doc *hours.HoursDocument, fetchedAt time.Time) time.Time {
	raw := doc.UpdatedAt()
	if raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t
		}
	}
	log.Warn().Str("timestamp", raw).Msg("[StatusPoller] Upstream timestamp missing or invalid, using fetch time")
	return fetchedAt
}

func (p *StatusPoller) warm() {
	if p.store == nil {
		return
	}
	s, err := p.store.LoadSnapshot()
	if err != nil {
		log.Warn().Err(err).Msg("[StatusPoller] Could not load hours snapshot")
		return
	}
	if s == nil {
		log.Info().Msg("[StatusPoller] No hours snapshot to warm from")
		return
	}

	p.mu.Lock()
	if p.doc == nil {
		doc := s.Document
		p.doc = &doc
		p.lastUpdate = s.LastUpdate
	}
	p.mu.Unlock()

	log.Info().Time("last_update", s.LastUpdate).Msg("[StatusPoller] Warmed cache from snapshot")
	p.scheduleBoundary()
}

func (p *StatusPoller) persist(snap PollerSnapshot, now time.Time) {
	if p.store == nil || snap.Document == nil {
		return
	}
	err := p.store.SaveSnapshot(redis.HoursSnapshot{
		Document:   *snap.Document,
		LastUpdate: snap.LastUpdate,
		SavedAt:    now,
	})
	if err != nil {
		log.Warn().Err(err).Msg("[StatusPoller] Could not save hours snapshot")
	}
}

// scheduleBoundary arms a timer for the next status change of the cached
// document. Nothing is armed while hidden.
func (p *StatusPoller) scheduleBoundary() {
	if p.boundary == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.doc == nil || !p.visible {
		return
	}

	now := p.now()
	at := p.boundary(now, p.doc)
	wait := at.Sub(now)
	if wait <= 0 {
		wait = BoundaryClampMinimum
	}
	if p.boundaryTimer != nil {
		p.boundaryTimer.Stop()
	}
	p.boundaryTimer = time.AfterFunc(wait, p.onBoundary)
	log.Debug().Time("at", at).Dur("in", wait).Msg("[StatusPoller] Boundary scheduled")
}

func (p *StatusPoller) onBoundary() {
	p.mu.Lock()
	ctx := p.runCtx
	visible := p.visible
	snap := p.snapshotLocked()
	subs := p.subscribersLocked()
	p.mu.Unlock()

	if ctx.Err() != nil {
		return
	}
	log.Info().Msg("[StatusPoller] Status boundary reached")
	notify(subs, snap)
	if !visible {
		// caught up by SetVisible
		return
	}

	if err := p.Refetch(ctx); err != nil {
		log.Warn().Err(err).Msg("[StatusPoller] Boundary refetch failed")
		p.scheduleBoundary()
	}
}

func (p *StatusPoller) stopBoundaryTimer() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.boundaryTimer != nil {
		p.boundaryTimer.Stop()
		p.boundaryTimer = nil
	}
}
