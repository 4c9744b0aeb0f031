package director

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// SinkGuard is the single failure boundary in front of the event sink. A
// panicking or erroring trigger becomes a uniform skipped outcome: counted,
// logged once per fault kind, never propagated into the scheduling loop.
type SinkGuard struct {
	sink   Sink
	logger *slog.Logger

	skipped atomic.Uint64

	mu   sync.Mutex
	seen map[string]struct{}
}

func NewSinkGuard(sink Sink, logger *slog.Logger) *SinkGuard {
	if logger == nil {
		logger = slog.Default()
	}
	return &SinkGuard{
		sink:   sink,
		logger: logger,
		seen:   make(map[string]struct{}),
	}
}

// Trigger forwards to the wrapped sink. It always returns nil: by the time
// control comes back to the director the event either sounded or was
// skipped, and neither needs handling upstream.
func (g *SinkGuard) Trigger(ev TriggerEvent) error {
	defer func() {
		if r := recover(); r != nil {
			g.skip("panic", ev, r)
		}
	}()
	if err := g.sink.Trigger(ev); err != nil {
		g.skip("error", ev, err)
	}
	return nil
}

// Skipped reports how many triggers the guard absorbed.
func (g *SinkGuard) Skipped() uint64 {
	return g.skipped.Load()
}

// skip counts the drop and logs the first occurrence of each (kind, role)
// pair. The log call is guarded so a failing handler cannot re-panic here.
func (g *SinkGuard) skip(kind string, ev TriggerEvent, cause any) {
	g.skipped.Add(1)
	key := kind + "/" + string(ev.Role)
	g.mu.Lock()
	_, logged := g.seen[key]
	if !logged {
		g.seen[key] = struct{}{}
	}
	g.mu.Unlock()
	if logged {
		return
	}
	defer func() { _ = recover() }()
	g.logger.Error("trigger skipped",
		"kind", kind,
		"role", ev.Role,
		"cause", cause,
	)
}
