// Package jobs runs the service's background loops until the root context
// is cancelled.
package jobs

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"fairdice/internal/logger"
)

type Job interface {
	Name() string
	Start(ctx context.Context)
}

type Manager struct {
	jobs []Job
}

func New() *Manager {
	return &Manager{}
}

func (m *Manager) Register(job Job) {
	m.jobs = append(m.jobs, job)
}

// Start launches every registered job and blocks until the context is
// cancelled and all jobs have returned.
func (m *Manager) Start(ctx context.Context) {
	var wg sync.WaitGroup

	for _, job := range m.jobs {
		wg.Add(1)
		logger.Log.Info("job started", zap.String("job", job.Name()))

		go func(j Job) {
			defer wg.Done()
			j.Start(ctx)
		}(job)
	}

	<-ctx.Done()
	wg.Wait()
}
