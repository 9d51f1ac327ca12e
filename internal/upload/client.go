package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"go.uber.org/zap"

	"github.com/VamshiKumar-25/the-nexus-rnedia/internal/domain"
)

var (
	// ErrServerRejected means the server answered with a non-2xx status.
	ErrServerRejected = errors.New("server rejected upload")

	// ErrNetworkFailure means no response arrived at all.
	ErrNetworkFailure = errors.New("network error while uploading")
)

// Client posts one capture payload to the ingest endpoint. One POST per
// payload, never retried; retries are a whole new session.
type Client struct {
	endpoint string
	http     *http.Client
	log      *zap.Logger
}

func NewClient(endpoint string, log *zap.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		// No client-side timeout beyond the transport's own; cancellation
		// comes from the caller's context.
		http: &http.Client{},
		log:  log,
	}
}

// Send serializes the payload as multipart/form-data and issues the POST.
// The latitude and longitude fields are always present, as empty strings
// when no fix exists; the server depends on that wire shape.
func (c *Client) Send(ctx context.Context, payload domain.UploadPayload) error {
	body, contentType, err := encodeForm(payload)
	if err != nil {
		return fmt.Errorf("build multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("Upload transport failed", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Error("Upload rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody))
		return fmt.Errorf("%w: status %d: %s", ErrServerRejected, resp.StatusCode, respBody)
	}

	c.log.Info("Photo uploaded",
		zap.String("filename", payload.Filename),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func encodeForm(payload domain.UploadPayload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename=%q`, payload.Filename))
	header.Set("Content-Type", "image/png")
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(payload.Image.PNG); err != nil {
		return nil, "", err
	}

	fields := map[string]string{
		"type":      "image",
		"latitude":  payload.Coordinates.LatString(),
		"longitude": payload.Coordinates.LonString(),
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
