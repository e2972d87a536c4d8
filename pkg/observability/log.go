package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. It implements
// PipelineHooks, CacheHooks and HTTPHooks.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks logging to logger, or to log.Default() when nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

func (h *LogHooks) OnParseStart(_ context.Context, sourceBytes int) {
	h.Logger.Debug("parse start", "bytes", sourceBytes)
}

func (h *LogHooks) OnParseComplete(_ context.Context, gateCount int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("parse failed", "error", err, "duration", d)
		return
	}
	h.Logger.Debug("parse complete", "gates", gateCount, "duration", d)
}

func (h *LogHooks) OnStageStart(_ context.Context, stage string) {
	h.Logger.Debug("stage start", "stage", stage)
}

func (h *LogHooks) OnStageComplete(_ context.Context, stage string, gateCount, depth int, d time.Duration) {
	h.Logger.Debug("stage complete", "stage", stage, "gates", gateCount, "depth", depth, "duration", d)
}

func (h *LogHooks) OnRunComplete(_ context.Context, runID string, cacheHit bool, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("run failed", "run", runID, "error", err, "duration", d)
		return
	}
	h.Logger.Debug("run complete", "run", runID, "cache_hit", cacheHit, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Info("response", "method", method, "path", path, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
