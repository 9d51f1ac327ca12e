package capture

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/VamshiKumar-25/the-nexus-rnedia/internal/domain"
)

// testFrame builds a frame with a red column on the left edge so mirroring
// is observable in the output pixels.
func testFrame(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBA{0, 0, 255, 255}
			if x == 0 {
				c = color.RGBA{255, 0, 0, 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

type fakeTrack struct {
	label     string
	facing    Facing
	frame     image.Image
	grabErr   error
	grabCalls int
}

func (t *fakeTrack) Label() string  { return t.label }
func (t *fakeTrack) Facing() Facing { return t.facing }

func (t *fakeTrack) GrabFrame(ctx context.Context) (image.Image, error) {
	t.grabCalls++
	if t.grabErr != nil {
		return nil, t.grabErr
	}
	return t.frame, nil
}

type fakeStream struct {
	mu       sync.Mutex
	width    int
	height   int
	track    Track
	snapshot image.Image
	snapErr  error
	playErr  error
	stopped  bool
	stops    int

	// dimsAfter delays dimension reporting to exercise the readiness wait.
	dimsAfter time.Time
}

func (s *fakeStream) Dimensions() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dimsAfter.IsZero() && time.Now().Before(s.dimsAfter) {
		return 0, 0
	}
	return s.width, s.height
}

func (s *fakeStream) Track() Track { return s.track }

func (s *fakeStream) Play() error { return s.playErr }

func (s *fakeStream) Snapshot() (image.Image, error) {
	if s.snapErr != nil {
		return nil, s.snapErr
	}
	return s.snapshot, nil
}

func (s *fakeStream) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops++
	s.stopped = true
}

func (s *fakeStream) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

type fakeCamera struct {
	stream   *fakeStream
	startErr error
	facing   Facing
}

func (c *fakeCamera) Start(ctx context.Context, facing Facing) (Stream, error) {
	c.facing = facing
	if c.startErr != nil {
		return nil, c.startErr
	}
	return c.stream, nil
}

type fakeLocator struct {
	coords domain.Coordinates
	err    error
	delay  time.Duration
	// hang ignores every deadline it is handed, like platforms that do.
	hang bool
}

func (l *fakeLocator) CurrentPosition(ctx context.Context, opts PositionOptions) (domain.Coordinates, error) {
	if l.hang {
		select {} // never returns
	}
	if l.delay > 0 {
		time.Sleep(l.delay)
	}
	return l.coords, l.err
}

type fakeUploader struct {
	mu       sync.Mutex
	payloads []domain.UploadPayload
	err      error
}

func (u *fakeUploader) Send(ctx context.Context, payload domain.UploadPayload) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.payloads = append(u.payloads, payload)
	return u.err
}

func (u *fakeUploader) sent() []domain.UploadPayload {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]domain.UploadPayload, len(u.payloads))
	copy(out, u.payloads)
	return out
}

var errBroken = errors.New("broken")
