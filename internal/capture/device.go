package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"sync"
	"time"

	gocam "github.com/svanichkin/gocam"
	"go.uber.org/zap"
)

// DeviceCamera drives the machine's default webcam through gocam. The
// library exposes a single device and no facing metadata, so the track
// reports FacingUnknown with an empty label and the facing heuristic
// defaults it to rear.
type DeviceCamera struct {
	log *zap.Logger
}

func NewDeviceCamera(log *zap.Logger) *DeviceCamera {
	return &DeviceCamera{log: log}
}

func (c *DeviceCamera) Start(ctx context.Context, facing Facing) (Stream, error) {
	frames, err := gocam.StartStream(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
	c.log.Info("Camera stream started", zap.String("requested_facing", facing.String()))

	s := &deviceStream{frames: frames, done: make(chan struct{})}
	go s.consume()
	return s, nil
}

// deviceStream buffers the latest frame so Dimensions and Snapshot reflect
// the current presentation, while GrabFrame pulls the next fresh frame.
type deviceStream struct {
	frames <-chan gocam.Frame

	mu      sync.Mutex
	last    gocam.Frame
	seq     uint64
	hasLast bool
	stopped bool
	done    chan struct{}
}

func (s *deviceStream) consume() {
	for frame := range s.frames {
		s.mu.Lock()
		s.last = frame
		s.seq++
		s.hasLast = true
		s.mu.Unlock()
		select {
		case <-s.done:
			return
		default:
		}
	}
}

func (s *deviceStream) Dimensions() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasLast {
		return 0, 0
	}
	return s.last.Width, s.last.Height
}

func (s *deviceStream) Track() Track { return &deviceTrack{stream: s} }

func (s *deviceStream) Play() error { return nil }

func (s *deviceStream) Snapshot() (image.Image, error) {
	s.mu.Lock()
	frame := s.last
	ok := s.hasLast
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("no frame available yet")
	}
	return decodeFrame(frame)
}

func (s *deviceStream) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	close(s.done)
}

func (s *deviceStream) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

type deviceTrack struct {
	stream *deviceStream
}

func (t *deviceTrack) Label() string { return "" }

func (t *deviceTrack) Facing() Facing { return FacingUnknown }

// GrabFrame waits briefly for a frame newer than the buffered one, falling
// back to the buffered frame when the stream is slow.
func (t *deviceTrack) GrabFrame(ctx context.Context) (image.Image, error) {
	t.stream.mu.Lock()
	prev := t.stream.seq
	t.stream.mu.Unlock()

	deadline := time.After(500 * time.Millisecond)
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline:
			return t.stream.Snapshot()
		case <-ticker.C:
			t.stream.mu.Lock()
			fresh := t.stream.hasLast && t.stream.seq > prev
			frame := t.stream.last
			t.stream.mu.Unlock()
			if fresh {
				return decodeFrame(frame)
			}
		}
	}
}

// decodeFrame turns a gocam frame into an image. Raw RGBA buffers are
// wrapped directly; anything else goes through the registered decoders.
func decodeFrame(frame gocam.Frame) (image.Image, error) {
	if frame.Width > 0 && frame.Height > 0 && len(frame.Data) == frame.Width*frame.Height*4 {
		return &image.RGBA{
			Pix:    frame.Data,
			Stride: frame.Width * 4,
			Rect:   image.Rect(0, 0, frame.Width, frame.Height),
		}, nil
	}
	img, _, err := image.Decode(bytes.NewReader(frame.Data))
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}
	return img, nil
}
