package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"fairdice/internal/logger"
	"fairdice/internal/store"
)

// Pruner trims the round-audit table down to the retention window once an
// hour.
type Pruner struct {
	Store     *store.Store
	Retention time.Duration
}

func (p *Pruner) Name() string { return "audit-pruner" }

func (p *Pruner) Start(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.Store.Prune(p.Retention)
			if err != nil {
				logger.Log.Error("prune audit rounds", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Log.Info("pruned audit rounds", zap.Int64("rounds", n))
			}
		}
	}
}
