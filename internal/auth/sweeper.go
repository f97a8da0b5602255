// ABOUTME: Optional background cleanup of expired session rows
// ABOUTME: Lazy expiry stays authoritative; this only bounds table growth

package auth

import (
	"context"
	"time"
)

// RunSweeper deletes expired sessions every interval until ctx is done.
// It returns immediately when interval is not positive.
func (s *Sessions) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("session sweeper started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("session sweeper stopped")
			return
		case <-ticker.C:
			n, err := s.Sweep(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.logger.Warn("session sweep failed", "error", err)
				continue
			}
			if n > 0 {
				s.logger.Info("swept expired sessions", "count", n)
			}
		}
	}
}
