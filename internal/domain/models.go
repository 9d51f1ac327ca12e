package domain

import (
	"strconv"
	"time"
)

// Coordinates is a best-effort geographic fix. Absence of a fix is a normal
// outcome, not an error: the zero value means "no coordinates".
type Coordinates struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Valid      bool      `json:"valid"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// LatString returns the latitude as a wire string, empty when no fix exists.
func (c Coordinates) LatString() string {
	if !c.Valid {
		return ""
	}
	return strconv.FormatFloat(c.Latitude, 'f', -1, 64)
}

// LonString returns the longitude as a wire string, empty when no fix exists.
func (c Coordinates) LonString() string {
	if !c.Valid {
		return ""
	}
	return strconv.FormatFloat(c.Longitude, 'f', -1, 64)
}

// StillImage is the single encoded frame produced by a capture session.
type StillImage struct {
	Width    int
	Height   int
	PNG      []byte
	Mirrored bool
}

// UploadPayload is built once per session and sent once, never retried.
type UploadPayload struct {
	Image       StillImage
	Filename    string
	Coordinates Coordinates
}

// RelayJob is the server's per-request bundle: the transiently stored file
// plus the raw coordinate strings exactly as the client sent them. Parsing
// happens at forward time so malformed values degrade instead of rejecting
// the upload.
type RelayJob struct {
	ReceivedFilePath string
	Latitude         string
	Longitude        string
	CaptionTime      time.Time
}

// ParsedCoordinates returns the numeric pair when both fields are well-formed
// floats. Anything else means "no coordinates" for forwarding purposes.
func (j RelayJob) ParsedCoordinates() (lat, lon float64, ok bool) {
	if j.Latitude == "" || j.Longitude == "" {
		return 0, 0, false
	}
	lat, errLat := strconv.ParseFloat(j.Latitude, 64)
	lon, errLon := strconv.ParseFloat(j.Longitude, 64)
	if errLat != nil || errLon != nil {
		return 0, 0, false
	}
	return lat, lon, true
}
