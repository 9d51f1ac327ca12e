package capture

import (
	"context"
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/VamshiKumar-25/the-nexus-rnedia/internal/domain"
	"github.com/VamshiKumar-25/the-nexus-rnedia/pkg/utils"
)

// CaptureStrategy is one way of producing a raw frame from a stream.
// Strategies are tried in order; the first to yield an image wins.
type CaptureStrategy interface {
	Name() string
	Available(s Stream) bool
	Grab(ctx context.Context, s Stream) (image.Image, error)
}

// trackGrabStrategy grabs a frame directly from the active track, when the
// platform exposes that capability.
type trackGrabStrategy struct{}

func (trackGrabStrategy) Name() string { return "track_grab" }

func (trackGrabStrategy) Available(s Stream) bool { return s.Track() != nil }

func (trackGrabStrategy) Grab(ctx context.Context, s Stream) (image.Image, error) {
	return s.Track().GrabFrame(ctx)
}

// presentationDrawStrategy copies whatever the live presentation currently
// shows. It waits a short settle delay first so it does not draw ahead of
// the decoder.
type presentationDrawStrategy struct {
	settle time.Duration
}

func (presentationDrawStrategy) Name() string { return "presentation_draw" }

func (presentationDrawStrategy) Available(Stream) bool { return true }

func (p presentationDrawStrategy) Grab(ctx context.Context, s Stream) (image.Image, error) {
	if p.settle > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.settle):
		}
	}
	return s.Snapshot()
}

// FrameCapturer extracts one encoded still from a stream. Mirroring and
// sizing live here so the strategies stay interchangeable.
type FrameCapturer struct {
	strategies []CaptureStrategy
	facing     FacingDetector
	log        *zap.Logger
}

func NewFrameCapturer(settleDelay time.Duration, log *zap.Logger) *FrameCapturer {
	return &FrameCapturer{
		strategies: []CaptureStrategy{
			trackGrabStrategy{},
			presentationDrawStrategy{settle: settleDelay},
		},
		facing: HeuristicFacingDetector{},
		log:    log,
	}
}

// WithFacingDetector swaps the facing heuristic, for platforms that report
// facing reliably.
func (f *FrameCapturer) WithFacingDetector(d FacingDetector) *FrameCapturer {
	f.facing = d
	return f
}

// Capture runs the strategies in order and packages the first frame into a
// PNG still. It never panics on strategy failure; when every strategy fails
// the returned error wraps ErrCaptureFailed and the caller must skip the
// upload.
func (f *FrameCapturer) Capture(ctx context.Context, s Stream) (domain.StillImage, error) {
	var frame image.Image
	for _, strat := range f.strategies {
		if !strat.Available(s) {
			continue
		}
		img, err := func() (img image.Image, err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("strategy %s panicked: %v", strat.Name(), r)
				}
			}()
			return strat.Grab(ctx, s)
		}()
		if err != nil {
			f.log.Warn("Capture strategy failed",
				zap.String("strategy", strat.Name()),
				zap.Error(err))
			continue
		}
		if img == nil {
			continue
		}
		f.log.Info("Frame captured", zap.String("strategy", strat.Name()))
		frame = img
		break
	}
	if frame == nil {
		return domain.StillImage{}, fmt.Errorf("%w: no strategy produced a frame", ErrCaptureFailed)
	}

	// Raster sized to the frame itself; only when the frame reports no size
	// do the stream's dimensions (or the fallback) decide.
	width, height := frame.Bounds().Dx(), frame.Bounds().Dy()
	if width == 0 || height == 0 {
		width, height = s.Dimensions()
		if width == 0 || height == 0 {
			width, height = FallbackWidth, FallbackHeight
		}
	}
	raster := utils.ScaleToRGBA(frame, width, height)

	mirrored := false
	if t := s.Track(); t != nil && f.facing.Detect(t) == FacingFront {
		raster = utils.MirrorHorizontal(raster)
		mirrored = true
	}

	encoded, err := utils.EncodePNG(raster)
	if err != nil {
		return domain.StillImage{}, fmt.Errorf("%w: png encode: %v", ErrCaptureFailed, err)
	}

	return domain.StillImage{
		Width:    width,
		Height:   height,
		PNG:      encoded,
		Mirrored: mirrored,
	}, nil
}
