package listview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rpggio/listview/internal/domain/access"
	"github.com/rpggio/listview/internal/domain/activity"
	"github.com/rpggio/listview/internal/domain/analytics"
	"github.com/rpggio/listview/internal/domain/resource"
	"github.com/rpggio/listview/internal/filter"
	"github.com/rpggio/listview/internal/metrics"
	"github.com/rpggio/listview/internal/repository"
	"github.com/rpggio/listview/internal/view"
	"golang.org/x/text/language"
)

const (
	defaultMaxViews  = 256
	defaultTrendDays = 7
)

// Options tune a Service. Zero values pick the defaults.
type Options struct {
	MaxViews int
	Language language.Tag
	Clock    func() time.Time
}

type entry struct {
	mu     sync.Mutex
	key    Key
	preset Preset
	view   *view.View
	tick   int64
}

// Service keeps the list views of every session. Live views sit in a
// bounded LRU; evicted views are rebuilt from persisted state.
type Service struct {
	presets    map[resource.Kind]Preset
	configs    map[resource.Kind]view.Config
	source     CollectionSource
	states     StateRepository
	activities ActivityRepository
	logger     *slog.Logger
	views      *lru.Cache[Key, *entry]
	now        func() time.Time
}

// NewService validates every preset and creates the view cache.
func NewService(
	presets map[resource.Kind]Preset,
	source CollectionSource,
	states StateRepository,
	activities ActivityRepository,
	logger *slog.Logger,
	opts Options,
) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxViews <= 0 {
		opts.MaxViews = defaultMaxViews
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	configs := make(map[resource.Kind]view.Config, len(presets))
	for kind, p := range presets {
		cfg, err := p.Config(opts.Language)
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", kind, err)
		}
		configs[kind] = cfg
	}

	views, err := lru.NewWithEvict(opts.MaxViews, func(Key, *entry) {
		metrics.ViewCacheEvent("evict")
	})
	if err != nil {
		return nil, fmt.Errorf("creating view cache: %w", err)
	}

	return &Service{
		presets:    presets,
		configs:    configs,
		source:     source,
		states:     states,
		activities: activities,
		logger:     logger,
		views:      views,
		now:        opts.Clock,
	}, nil
}

// Open returns the caller's view of kind, creating it with preset defaults
// or restoring its persisted state.
func (s *Service) Open(ctx context.Context, p access.Principal, sessionID string, kind resource.Kind, req PageRequest) (*Page, error) {
	e, err := s.acquire(ctx, p, sessionID, kind, true)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := s.refresh(ctx, e); err != nil {
		return nil, err
	}
	return s.page(e, req)
}

// Get returns a page of an open view.
func (s *Service) Get(ctx context.Context, p access.Principal, sessionID string, kind resource.Kind, req PageRequest) (*Page, error) {
	e, err := s.acquire(ctx, p, sessionID, kind, false)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := s.refresh(ctx, e); err != nil {
		return nil, err
	}
	return s.page(e, req)
}

// Apply changes the state of an open view, persists it, and returns the
// requested page of the new derived list.
func (s *Service) Apply(ctx context.Context, p access.Principal, sessionID string, kind resource.Kind, m Mutation, req PageRequest) (*Page, error) {
	if m == nil {
		return nil, ErrInvalidInput
	}
	e, err := s.acquire(ctx, p, sessionID, kind, false)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	before := e.view.Revision()
	if err := m.apply(e.view); err != nil {
		return nil, err
	}
	if e.view.Revision() != before {
		if err := s.persist(ctx, e); err != nil {
			return nil, err
		}
	}
	if _, ok := m.(ClearAll); ok {
		s.logCleared(ctx, e.key)
	}

	if err := s.refresh(ctx, e); err != nil {
		return nil, err
	}
	return s.page(e, req)
}

// Close forgets a view and its persisted state.
func (s *Service) Close(ctx context.Context, p access.Principal, sessionID string, kind resource.Kind) error {
	key, err := s.key(p, sessionID, kind)
	if err != nil {
		return err
	}
	live := s.views.Remove(key)
	if err := s.states.Delete(ctx, key); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if live {
				return nil
			}
			return ErrViewNotFound
		}
		return fmt.Errorf("deleting view state: %w", err)
	}
	return nil
}

// Stats summarizes the whole derived list of an open view.
func (s *Service) Stats(ctx context.Context, p access.Principal, sessionID string, kind resource.Kind, trendDays int) (*Stats, error) {
	e, err := s.acquire(ctx, p, sessionID, kind, false)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := s.refresh(ctx, e); err != nil {
		return nil, err
	}

	if trendDays <= 0 {
		trendDays = defaultTrendDays
	}
	now := s.now()
	res := e.view.Result()
	st := &Stats{
		SessionID:   sessionID,
		Kind:        kind,
		ResultCount: res.ResultCount,
		Tasks:       analytics.TaskStats(res.Items, now),
		Priorities:  analytics.PriorityDistribution(res.Items),
		Trend:       analytics.CompletionTrend(res.Items, trendDays, now),
		Clients:     analytics.ClientTaskDistribution(res.Items),
	}
	if p.Username != "" {
		perf := analytics.UserPerformance(res.Items, p.Username, now.Location())
		st.Performance = &perf
	}
	return st, nil
}

func (s *Service) key(p access.Principal, sessionID string, kind resource.Kind) (Key, error) {
	if sessionID == "" {
		return Key{}, fmt.Errorf("%w: session id required", ErrInvalidInput)
	}
	if _, err := resource.ParseKind(string(kind)); err != nil {
		return Key{}, err
	}
	if err := p.RequireView(kind); err != nil {
		return Key{}, err
	}
	return Key{TenantID: p.TenantID, SessionID: sessionID, Kind: kind}, nil
}

// acquire returns the live entry for the key, rebuilding it from persisted
// state when it was evicted. Without create, a view that was never opened
// is ErrViewNotFound.
func (s *Service) acquire(ctx context.Context, p access.Principal, sessionID string, kind resource.Kind, create bool) (*entry, error) {
	key, err := s.key(p, sessionID, kind)
	if err != nil {
		return nil, err
	}
	if e, ok := s.views.Get(key); ok {
		metrics.ViewCacheEvent("hit")
		return e, nil
	}
	metrics.ViewCacheEvent("miss")

	e, err := s.build(ctx, key, create)
	if err != nil {
		return nil, err
	}
	if prev, ok, _ := s.views.PeekOrAdd(key, e); ok {
		return prev, nil
	}
	return e, nil
}

func (s *Service) build(ctx context.Context, key Key, create bool) (*entry, error) {
	cfg, ok := s.configs[key.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: no preset for %s", ErrInvalidInput, key.Kind)
	}

	opts := []view.Option{view.WithClock(s.now)}
	fresh := false
	saved, err := s.states.Get(ctx, key)
	switch {
	case err == nil:
		st, decodeErr := DecodeState(saved.State, cfg)
		if decodeErr != nil {
			s.logger.Warn("discarding stored view state", "kind", key.Kind, "session_id", key.SessionID, "error", decodeErr)
			fresh = true
		} else {
			opts = append(opts, view.WithState(st))
			metrics.ViewCacheEvent("restore")
		}
	case errors.Is(err, repository.ErrNotFound):
		if !create {
			return nil, ErrViewNotFound
		}
		fresh = true
	default:
		return nil, fmt.Errorf("loading view state: %w", err)
	}

	docs, tick, err := s.source.Snapshot(ctx, key.TenantID, key.Kind)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", key.Kind, err)
	}
	metrics.CollectionReload(string(key.Kind))

	e := &entry{
		key:    key,
		preset: s.presets[key.Kind],
		view:   view.New(cfg, docs, opts...),
		tick:   tick,
	}
	if fresh {
		if err := s.persist(ctx, e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// refresh reloads the collection when its tick moved and expires results
// that depend on the clock. Callers hold e.mu.
func (s *Service) refresh(ctx context.Context, e *entry) error {
	tick, err := s.source.Revision(ctx, e.key.TenantID, e.key.Kind)
	if err != nil {
		return fmt.Errorf("checking %s revision: %w", e.key.Kind, err)
	}
	if tick != e.tick {
		docs, newTick, err := s.source.Snapshot(ctx, e.key.TenantID, e.key.Kind)
		if err != nil {
			return fmt.Errorf("loading %s: %w", e.key.Kind, err)
		}
		e.view.SetData(docs)
		e.tick = newTick
		metrics.CollectionReload(string(e.key.Kind))
	}

	switch e.view.State().DateRange {
	case filter.RangeToday, filter.RangeLast7Days, filter.RangeLast30Days, filter.RangeThisMonth:
		e.view.Invalidate()
	}
	return nil
}

func (s *Service) persist(ctx context.Context, e *entry) error {
	if err := s.states.Save(ctx, &SavedState{
		Key:       e.key,
		State:     EncodeState(e.view.State()),
		UpdatedAt: s.now(),
	}); err != nil {
		return fmt.Errorf("saving view state: %w", err)
	}
	return nil
}

func (s *Service) page(e *entry, req PageRequest) (*Page, error) {
	if req.Offset < 0 || req.Limit < 0 {
		return nil, fmt.Errorf("%w: offset and limit must not be negative", ErrInvalidInput)
	}
	limit := req.Limit
	if limit == 0 {
		limit = e.preset.pageSize()
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	res := e.view.Result()
	lo := min(req.Offset, len(res.Items))
	hi := min(lo+limit, len(res.Items))

	return &Page{
		SessionID:     e.key.SessionID,
		Kind:          e.key.Kind,
		Items:         res.Items[lo:hi:hi],
		Offset:        lo,
		Limit:         limit,
		ActiveFilters: res.ActiveFilters,
		HasFilters:    res.HasFilters,
		ResultCount:   res.ResultCount,
		TotalCount:    res.TotalCount,
		Revision:      res.Revision,
		State:         EncodeState(e.view.State()),
	}, nil
}

func (s *Service) logCleared(ctx context.Context, key Key) {
	if s.activities == nil {
		return
	}
	sessionID := key.SessionID
	if err := s.activities.Log(ctx, key.TenantID, &activity.ActivityEntry{
		Kind:         string(key.Kind),
		SessionID:    &sessionID,
		ActivityType: activity.TypeViewCleared,
		Summary:      fmt.Sprintf("cleared %s view", key.Kind),
	}); err != nil {
		s.logger.Warn("activity log failed", "kind", key.Kind, "session_id", sessionID, "error", err)
	}
}
