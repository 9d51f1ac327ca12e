package capture

import "errors"

var (
	// ErrPermissionDenied means the camera permission was refused. Terminal
	// for the session, never retried.
	ErrPermissionDenied = errors.New("camera permission denied")

	// ErrDeviceUnavailable means no usable camera device exists. Terminal.
	ErrDeviceUnavailable = errors.New("camera device unavailable")

	// ErrCaptureFailed means every capture strategy failed to produce image
	// bytes. The session skips the upload and goes straight to teardown.
	ErrCaptureFailed = errors.New("capture failed")

	// ErrFrameGrabUnsupported is returned by tracks that cannot grab frames
	// directly; the capturer falls through to the presentation draw.
	ErrFrameGrabUnsupported = errors.New("frame grab not supported on this track")

	// ErrGeolocationUnavailable means the platform has no position source.
	ErrGeolocationUnavailable = errors.New("geolocation unavailable")

	// ErrGeolocationTimeout means no fix arrived before the hard deadline.
	ErrGeolocationTimeout = errors.New("geolocation timed out")

	// ErrSessionActive means a session is already running; only one live
	// session is allowed at a time.
	ErrSessionActive = errors.New("a capture session is already active")
)
