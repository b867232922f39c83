package server

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matzehuels/nix-template/pkg/observability"
)

// Stats counts pipeline and cache events. It implements
// [observability.PipelineHooks] and [observability.CacheHooks]; register it
// with the observability package to populate GET /stats.
type Stats struct {
	observability.NoopCacheHooks

	started time.Time

	renders      atomic.Int64
	renderErrors atomic.Int64
	renderBytes  atomic.Int64
	enriches     atomic.Int64
	enrichErrors atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64

	mu         sync.Mutex
	byTemplate map[string]int64
}

// StatsSnapshot is the JSON view of [Stats].
type StatsSnapshot struct {
	Uptime       string           `json:"uptime"`
	Renders      int64            `json:"renders"`
	RenderErrors int64            `json:"render_errors"`
	RenderBytes  int64            `json:"render_bytes"`
	Enriches     int64            `json:"enriches"`
	EnrichErrors int64            `json:"enrich_errors"`
	CacheHits    int64            `json:"cache_hits"`
	CacheMisses  int64            `json:"cache_misses"`
	ByTemplate   map[string]int64 `json:"by_template"`
}

var (
	_ observability.PipelineHooks = (*Stats)(nil)
	_ observability.CacheHooks    = (*Stats)(nil)
)

// NewStats returns zeroed counters.
func NewStats() *Stats {
	return &Stats{started: time.Now(), byTemplate: make(map[string]int64)}
}

func (s *Stats) OnEnrichStart(context.Context, string, string) {}

func (s *Stats) OnEnrichComplete(_ context.Context, _, _ string, _ time.Duration, err error) {
	s.enriches.Add(1)
	if err != nil {
		s.enrichErrors.Add(1)
	}
}

func (s *Stats) OnResolveComplete(context.Context, string, string, error) {}

func (s *Stats) OnRenderStart(context.Context, string) {}

func (s *Stats) OnRenderComplete(_ context.Context, template string, size int, _ time.Duration, err error) {
	if err != nil {
		s.renderErrors.Add(1)
		return
	}
	s.renders.Add(1)
	s.renderBytes.Add(int64(size))
	s.mu.Lock()
	s.byTemplate[template]++
	s.mu.Unlock()
}

func (s *Stats) OnCacheHit(context.Context, string) { s.cacheHits.Add(1) }

func (s *Stats) OnCacheMiss(context.Context, string) { s.cacheMisses.Add(1) }

// Snapshot copies the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	byTemplate := make(map[string]int64, len(s.byTemplate))
	for k, v := range s.byTemplate {
		byTemplate[k] = v
	}
	s.mu.Unlock()

	return StatsSnapshot{
		Uptime:       time.Since(s.started).Round(time.Second).String(),
		Renders:      s.renders.Load(),
		RenderErrors: s.renderErrors.Load(),
		RenderBytes:  s.renderBytes.Load(),
		Enriches:     s.enriches.Load(),
		EnrichErrors: s.enrichErrors.Load(),
		CacheHits:    s.cacheHits.Load(),
		CacheMisses:  s.cacheMisses.Load(),
		ByTemplate:   byTemplate,
	}
}
