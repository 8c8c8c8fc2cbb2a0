package okrapi

import (
	"io"
	"log/slog"
)

// CallEvent records metadata about a single API request.
type CallEvent struct {
	Endpoint  string
	Status    int
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about API calls for logging.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events as structured log lines.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer that logs events to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	attrs := []any{
		"endpoint", event.Endpoint,
		"status", event.Status,
		"latency_ms", event.LatencyMs,
	}
	if !event.Success {
		o.logger.Error("okr_api_call", append(attrs, "error_code", event.ErrorCode)...)
		return
	}
	o.logger.Info("okr_api_call", attrs...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
