package alert

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Pruner drops aged alerts from the history cache on a fixed tick. The
// durable store is untouched; pruning only bounds cache staleness.
type Pruner struct {
	history  *History
	logger   *slog.Logger
	maxAge   time.Duration
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

func NewPruner(history *History, logger *slog.Logger, maxAge, interval time.Duration) *Pruner {
	if interval == 0 {
		interval = time.Hour
	}

	return &Pruner{
		history:  history,
		logger:   logger,
		maxAge:   maxAge,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

func (p *Pruner) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("history pruner started", "interval", p.interval, "max_age", p.maxAge)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("history pruner stopped")
			return
		case <-p.stopCh:
			p.logger.Info("history pruner stopped")
			return
		case <-ticker.C:
			if removed := p.history.PruneOlderThan(p.maxAge); removed > 0 {
				p.logger.Info("pruned aged alerts", "removed", removed, "remaining", p.history.Size())
			}
		}
	}
}

// Stop is idempotent; context cancellation stops the loop as well.
func (p *Pruner) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
}
