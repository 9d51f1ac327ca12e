package capture

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/VamshiKumar-25/the-nexus-rnedia/internal/domain"
)

// PositionOptions mirror the platform's one-shot position query knobs.
type PositionOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	// MaximumAge is the oldest cached fix the platform may return; zero
	// means a fresh fix is required.
	MaximumAge time.Duration
}

// Locator is the platform position source.
type Locator interface {
	CurrentPosition(ctx context.Context, opts PositionOptions) (domain.Coordinates, error)
}

// GeolocationProbe wraps a Locator with a hard timeout of its own. Some
// platforms ignore the timeout option they are given, so the probe enforces
// the deadline independently.
type GeolocationProbe struct {
	locator Locator
	log     *zap.Logger
}

func NewGeolocationProbe(locator Locator, log *zap.Logger) *GeolocationProbe {
	return &GeolocationProbe{locator: locator, log: log}
}

// Locate requests one high-accuracy fix with no cached-position tolerance.
// Failures are expected and non-fatal to the capture flow; the caller
// proceeds with absent coordinates.
func (p *GeolocationProbe) Locate(ctx context.Context, timeout time.Duration) (domain.Coordinates, error) {
	if p.locator == nil {
		return domain.Coordinates{}, ErrGeolocationUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type fix struct {
		coords domain.Coordinates
		err    error
	}
	ch := make(chan fix, 1)
	go func() {
		coords, err := p.locator.CurrentPosition(ctx, PositionOptions{
			HighAccuracy: true,
			Timeout:      timeout,
			MaximumAge:   0,
		})
		ch <- fix{coords, err}
	}()

	select {
	case f := <-ch:
		if f.err != nil {
			p.log.Warn("Geolocation failed", zap.Error(f.err))
			return domain.Coordinates{}, f.err
		}
		f.coords.Valid = true
		if f.coords.AcquiredAt.IsZero() {
			f.coords.AcquiredAt = time.Now()
		}
		p.log.Info("Geolocation acquired",
			zap.Float64("latitude", f.coords.Latitude),
			zap.Float64("longitude", f.coords.Longitude))
		return f.coords, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.Canceled) {
			return domain.Coordinates{}, ctx.Err()
		}
		p.log.Warn("Geolocation timed out", zap.Duration("timeout", timeout))
		return domain.Coordinates{}, ErrGeolocationTimeout
	}
}
