package capture

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Fallback dimensions used when a stream never reports its frame size.
const (
	FallbackWidth  = 1280
	FallbackHeight = 720
)

// ReadinessDetector waits for a stream to report non-zero frame dimensions.
type ReadinessDetector struct {
	// PollInterval is how often dimensions are sampled. Defaults to 16ms,
	// roughly one display refresh.
	PollInterval time.Duration
	log          *zap.Logger
}

func NewReadinessDetector(log *zap.Logger) *ReadinessDetector {
	return &ReadinessDetector{PollInterval: 16 * time.Millisecond, log: log}
}

// WaitUntilReady blocks until the stream has live frames or timeout passes.
// It never fails: on timeout it hands back the fallback dimensions so the
// flow can attempt a best-effort capture instead of hanging.
func (d *ReadinessDetector) WaitUntilReady(ctx context.Context, stream Stream, timeout time.Duration) (width, height int, ready bool) {
	interval := d.PollInterval
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if w, h := stream.Dimensions(); w > 0 && h > 0 {
			return w, h, true
		}
		if time.Now().After(deadline) {
			d.log.Warn("Stream never reported dimensions, proceeding with fallback",
				zap.Duration("timeout", timeout),
				zap.Int("fallback_width", FallbackWidth),
				zap.Int("fallback_height", FallbackHeight))
			return FallbackWidth, FallbackHeight, false
		}
		select {
		case <-ctx.Done():
			return FallbackWidth, FallbackHeight, false
		case <-ticker.C:
		}
	}
}
