package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/VamshiKumar-25/the-nexus-rnedia/internal/config"
	"github.com/VamshiKumar-25/the-nexus-rnedia/internal/domain"
)

// Uploader transmits the finished payload. Implemented by upload.Client.
type Uploader interface {
	Send(ctx context.Context, payload domain.UploadPayload) error
}

// Orchestrator composes the whole capture flow and owns cancellation.
// At most one session is live at a time; a new one may start only after the
// previous reached a terminal state.
type Orchestrator struct {
	camera   Camera
	probe    *GeolocationProbe
	ready    *ReadinessDetector
	capturer *FrameCapturer
	uploader Uploader
	cfg      config.CaptureConfig
	log      *zap.Logger

	// Countdown is exported so callers can shrink the tick interval.
	Countdown CountdownController

	// OnTick surfaces countdown progress to the presentation layer.
	OnTick func(remaining int)

	mu      sync.Mutex
	session *Session
}

func NewOrchestrator(camera Camera, locator Locator, uploader Uploader, cfg config.CaptureConfig, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		camera:    camera,
		probe:     NewGeolocationProbe(locator, log),
		ready:     NewReadinessDetector(log),
		capturer:  NewFrameCapturer(cfg.SettleDelay, log),
		uploader:  uploader,
		cfg:       cfg,
		log:       log,
		Countdown: CountdownController{Interval: cfg.CountdownTick},
	}
}

// Session returns the current session, nil before the first Start.
func (o *Orchestrator) Session() *Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session
}

// Stop cancels the live session cooperatively. Pending timers are cleared at
// the next suspension boundary; an in-flight upload is left to resolve and
// its result discarded.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	sess := o.session
	o.mu.Unlock()
	if sess != nil {
		sess.Cancel()
	}
}

// Start runs one end-to-end capture session and blocks until it reaches a
// terminal state. The camera is released on every exit path.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.session != nil && !o.session.State().Terminal() {
		o.mu.Unlock()
		return ErrSessionActive
	}
	runCtx, cancel := context.WithCancel(ctx)
	sess := newSession(cancel)
	o.session = sess
	o.mu.Unlock()

	defer cancel()
	return o.run(runCtx, sess)
}

func (o *Orchestrator) run(ctx context.Context, sess *Session) error {
	defer sess.releaseStream()

	// Opportunistic early probe: started before camera acquisition so the
	// permission prompts stack up front on mobile. The result is joined
	// after capture.
	var (
		earlyFix  chan domain.Coordinates
		coords    domain.Coordinates
		haveEarly bool
	)
	if o.cfg.GeolocateOrder == "before" {
		earlyFix = make(chan domain.Coordinates, 1)
		haveEarly = true
		go func() {
			fix, err := o.probe.Locate(ctx, o.cfg.GeolocateTimeout)
			if err != nil {
				earlyFix <- domain.Coordinates{}
				return
			}
			earlyFix <- fix
		}()
	}

	sess.setState(StateAwaitingPermission)
	stream, err := o.camera.Start(ctx, ParseFacing(o.cfg.FacingPreference))
	if err != nil {
		o.log.Error("Camera init error", zap.Error(err))
		sess.fail(err)
		return err
	}
	sess.setStream(stream)
	sess.setState(StateStreaming)

	if err := stream.Play(); err != nil {
		// Playback-start failure is tolerated; capture can still proceed.
		o.log.Warn("Playback start failed", zap.Error(err))
	}

	sess.setState(StateReadyWait)
	w, h, ready := o.ready.WaitUntilReady(ctx, stream, o.cfg.ReadinessTimeout)
	if err := ctx.Err(); err != nil {
		return o.stopCancelled(sess, err)
	}
	o.log.Info("Stream ready",
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Bool("reported", ready))

	sess.setState(StateCountdown)
	if err := o.Countdown.Run(ctx, o.cfg.CountdownSeconds, o.OnTick); err != nil {
		return o.stopCancelled(sess, err)
	}

	// Short warm-up after the countdown; some sensors need settling time
	// after stream start. Tuned, not computed.
	if o.cfg.WarmupDelay > 0 {
		select {
		case <-ctx.Done():
			return o.stopCancelled(sess, ctx.Err())
		case <-time.After(o.cfg.WarmupDelay):
		}
	}

	sess.setState(StateCapturing)
	still, err := o.capturer.Capture(ctx, stream)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return o.stopCancelled(sess, ctxErr)
		}
		sess.fail(err)
		return err
	}

	if haveEarly {
		coords = <-earlyFix
	} else {
		fix, err := o.probe.Locate(ctx, o.cfg.GeolocateTimeout)
		if err == nil {
			coords = fix
		}
	}
	if err := ctx.Err(); err != nil {
		return o.stopCancelled(sess, err)
	}

	sess.setState(StateUploading)
	payload := domain.UploadPayload{
		Image:       still,
		Filename:    fmt.Sprintf("capture_%d.png", time.Now().UnixMilli()),
		Coordinates: coords,
	}
	// The POST runs detached from the cancel signal: an external stop does
	// not interrupt an in-flight call, it is left to resolve and its result
	// discarded by the now-stopped session.
	sendErr := o.uploader.Send(context.WithoutCancel(ctx), payload)
	if err := ctx.Err(); err != nil {
		return o.stopCancelled(sess, err)
	}
	if sendErr != nil {
		// Reported, not fatal to teardown: the camera still stops.
		o.log.Error("Upload failed", zap.Error(sendErr))
		sess.fail(sendErr)
		return sendErr
	}

	sess.setState(StateStopped)
	o.log.Info("Capture session complete",
		zap.String("filename", payload.Filename),
		zap.Bool("mirrored", still.Mirrored),
		zap.Bool("has_coordinates", coords.Valid))
	return nil
}

func (o *Orchestrator) stopCancelled(sess *Session, err error) error {
	sess.setState(StateStopped)
	if errors.Is(err, context.Canceled) {
		o.log.Info("Capture cancelled")
		return nil
	}
	return err
}
