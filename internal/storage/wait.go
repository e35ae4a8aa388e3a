package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	waitMaxRetries = 30
	waitRetryDelay = 2 * time.Second
)

// waitFor polls ping until it succeeds or the retries run out.
func waitFor(ctx context.Context, name string, ping func(context.Context) error, logger *slog.Logger) error {
	for i := 0; i < waitMaxRetries; i++ {
		if err := ping(ctx); err != nil {
			logger.Debug("Backend not ready yet", "backend", name, "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for %s: %w", name, ctx.Err())
			case <-time.After(waitRetryDelay):
				continue
			}
		}

		logger.Info("Connection established", "backend", name)
		return nil
	}

	return fmt.Errorf("%s did not become available after %d attempts", name, waitMaxRetries)
}
