package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nix-template/pkg/observability"
)

// debugHooks logs pipeline, cache and registry HTTP events. Registered with
// --verbose.
type debugHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks
	observability.NoopHTTPHooks
	logger *log.Logger
}

func (h *debugHooks) OnEnrichStart(_ context.Context, source, id string) {
	h.logger.Debug("enrich start", "source", source, "id", id)
}

func (h *debugHooks) OnEnrichComplete(_ context.Context, source, id string, d time.Duration, err error) {
	h.logger.Debug("enrich done", "source", source, "id", id, "took", d.Round(time.Millisecond), "err", err)
}

func (h *debugHooks) OnResolveComplete(_ context.Context, template, writePath string, err error) {
	h.logger.Debug("resolved path", "template", template, "path", writePath, "err", err)
}

func (h *debugHooks) OnRenderComplete(_ context.Context, template string, size int, d time.Duration, err error) {
	h.logger.Debug("rendered", "template", template, "bytes", size, "took", d.Round(time.Millisecond), "err", err)
}

func (h *debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *debugHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http", "method", method, "url", host+path, "status", status, "took", d.Round(time.Millisecond))
}

func (h *debugHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http failed", "method", method, "url", host+path, "err", err)
}
