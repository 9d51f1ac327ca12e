package capture

import (
	"context"
	"image"
	"strings"
)

// Facing is the logical direction a camera points.
type Facing int

const (
	FacingUnknown Facing = iota
	FacingFront
	FacingRear
)

func (f Facing) String() string {
	switch f {
	case FacingFront:
		return "user"
	case FacingRear:
		return "environment"
	default:
		return "unknown"
	}
}

// ParseFacing maps the configured preference strings onto a Facing.
func ParseFacing(s string) Facing {
	switch strings.ToLower(s) {
	case "user", "front", "selfie":
		return FacingFront
	case "environment", "rear", "back":
		return FacingRear
	default:
		return FacingUnknown
	}
}

// Camera acquires a video-only stream. The facing preference is a request:
// the device substitutes the nearest match it has.
type Camera interface {
	Start(ctx context.Context, facing Facing) (Stream, error)
}

// Stream is a live video stream owned by exactly one session.
type Stream interface {
	// Dimensions reports the current frame size, (0, 0) until the stream
	// actually produces frames.
	Dimensions() (width, height int)

	// Track exposes the active video track.
	Track() Track

	// Play begins presentation. A failure here is logged and tolerated;
	// some environments need a user gesture that was already satisfied.
	Play() error

	// Snapshot returns the current presentation contents.
	Snapshot() (image.Image, error)

	// Stop releases all tracks. Idempotent.
	Stop()

	// Stopped reports whether Stop has run.
	Stopped() bool
}

// Track is the active video track of a stream.
type Track interface {
	// Label is the device's human-readable name, possibly empty.
	Label() string

	// Facing is the capability-reported direction, FacingUnknown when the
	// device does not report one.
	Facing() Facing

	// GrabFrame grabs one frame directly from the track. Tracks without
	// that capability return ErrFrameGrabUnsupported.
	GrabFrame(ctx context.Context) (image.Image, error)
}

// FacingDetector decides which way a track points. Pluggable so platforms
// with reliable capability reporting can skip the label heuristic.
type FacingDetector interface {
	Detect(t Track) Facing
}

// HeuristicFacingDetector uses the capability report when present, then a
// case-insensitive label match, then assumes rear-facing.
type HeuristicFacingDetector struct{}

var frontLabelTerms = []string{"front", "user", "selfie", "facetime"}

func (HeuristicFacingDetector) Detect(t Track) Facing {
	if f := t.Facing(); f != FacingUnknown {
		return f
	}
	label := strings.ToLower(t.Label())
	for _, term := range frontLabelTerms {
		if strings.Contains(label, term) {
			return FacingFront
		}
	}
	return FacingRear
}
