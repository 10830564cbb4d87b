package session

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultSweepInterval is how often idle sessions are looked for.
	DefaultSweepInterval = 5 * time.Minute
	// DefaultIdleTimeout is how long a session may go without a reveal.
	DefaultIdleTimeout = 30 * time.Minute
)

// RunSweeper calls SweepIdle every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval, timeout time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed := m.SweepIdle(timeout)
			if removed > 0 {
				m.log.WithFields(logrus.Fields{
					"removed":   removed,
					"remaining": m.Count(),
				}).Info("cleaned up idle games")
			}
		}
	}
}
