package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/VamshiKumar-25/the-nexus-rnedia/internal/config"
	"github.com/VamshiKumar-25/the-nexus-rnedia/internal/domain"
	"github.com/VamshiKumar-25/the-nexus-rnedia/internal/handler"
	"github.com/VamshiKumar-25/the-nexus-rnedia/internal/relay"
)

// mockForwarder records jobs and snapshots whether the received file still
// existed at forward time.
type mockForwarder struct {
	mu          sync.Mutex
	jobs        []domain.RelayJob
	fileExisted []bool
	err         error
	panics      bool
}

func (m *mockForwarder) Forward(ctx context.Context, job domain.RelayJob) error {
	m.mu.Lock()
	_, statErr := os.Stat(job.ReceivedFilePath)
	m.jobs = append(m.jobs, job)
	m.fileExisted = append(m.fileExisted, statErr == nil)
	m.mu.Unlock()
	if m.panics {
		panic("forwarder exploded")
	}
	return m.err
}

func newTestRouter(t *testing.T, fwd relay.Forwarder) (*gin.Engine, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.App.UploadDir = t.TempDir()
	cfg.App.MaxUploadSize = 10 << 20

	h := handler.NewHandler(fwd, relay.NewTempFileManager(zap.NewNop()), cfg, zap.NewNop())

	router := gin.New()
	router.Use(gin.Recovery())
	router.POST("/upload", h.Upload)
	router.GET("/health", h.HealthCheck)
	return router, cfg
}

func multipartUpload(t *testing.T, fields map[string]string, fileBytes []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if fileBytes != nil {
		part, err := w.CreateFormFile("file", "capture_1700000000000.png")
		require.NoError(t, err)
		_, err = part.Write(fileBytes)
		require.NoError(t, err)
	}
	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func postUpload(router *gin.Engine, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func leftoverFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestUploadForwardsParsedCoordinates(t *testing.T) {
	fwd := &mockForwarder{}
	router, cfg := newTestRouter(t, fwd)

	body, ct := multipartUpload(t, map[string]string{
		"type": "image", "latitude": "12.9", "longitude": "77.6",
	}, []byte("png-data"))
	rec := postUpload(router, body, ct)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])

	require.Len(t, fwd.jobs, 1)
	job := fwd.jobs[0]
	assert.Equal(t, "12.9", job.Latitude)
	assert.Equal(t, "77.6", job.Longitude)
	lat, lon, ok := job.ParsedCoordinates()
	require.True(t, ok)
	assert.Equal(t, 12.9, lat)
	assert.Equal(t, 77.6, lon)
	assert.True(t, fwd.fileExisted[0], "file must exist while forwarding")

	assert.Empty(t, leftoverFiles(t, cfg.App.UploadDir), "temp file must not survive the request")
}

func TestUploadNonNumericCoordinatesNotRejected(t *testing.T) {
	fwd := &mockForwarder{}
	router, cfg := newTestRouter(t, fwd)

	body, ct := multipartUpload(t, map[string]string{
		"latitude": "abc", "longitude": "77.6",
	}, []byte("png-data"))
	rec := postUpload(router, body, ct)

	require.Equal(t, http.StatusOK, rec.Code, "malformed coordinates are not an ingest error")

	require.Len(t, fwd.jobs, 1)
	_, _, ok := fwd.jobs[0].ParsedCoordinates()
	assert.False(t, ok, "location forward must be skipped downstream")
	assert.Empty(t, leftoverFiles(t, cfg.App.UploadDir))
}

func TestUploadAbsentCoordinates(t *testing.T) {
	fwd := &mockForwarder{}
	router, _ := newTestRouter(t, fwd)

	body, ct := multipartUpload(t, map[string]string{"type": "image"}, []byte("png-data"))
	rec := postUpload(router, body, ct)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, fwd.jobs, 1)
	assert.Empty(t, fwd.jobs[0].Latitude)
	assert.Empty(t, fwd.jobs[0].Longitude)
}

func TestUploadMissingFile(t *testing.T) {
	fwd := &mockForwarder{}
	router, _ := newTestRouter(t, fwd)

	body, ct := multipartUpload(t, map[string]string{"latitude": "1"}, nil)
	rec := postUpload(router, body, ct)

	// Structured client error, not a crash.
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["error"])
	assert.Empty(t, fwd.jobs)
}

func TestUploadForwardErrorCleansUp(t *testing.T) {
	fwd := &mockForwarder{err: os.ErrPermission}
	router, cfg := newTestRouter(t, fwd)

	body, ct := multipartUpload(t, nil, []byte("png-data"))
	rec := postUpload(router, body, ct)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Upload/send failed", resp["error"])
	assert.NotEmpty(t, resp["details"])

	assert.Empty(t, leftoverFiles(t, cfg.App.UploadDir), "cleanup must run on forward failure")
}

func TestUploadForwardPanicCleansUp(t *testing.T) {
	fwd := &mockForwarder{panics: true}
	router, cfg := newTestRouter(t, fwd)

	body, ct := multipartUpload(t, nil, []byte("png-data"))
	rec := postUpload(router, body, ct)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, leftoverFiles(t, cfg.App.UploadDir), "cleanup must run even on a handler panic")
}

// TestIngestEndToEnd runs the whole server half against a fake Telegram API:
// one photo call with a two-line caption, one location call with the same
// numeric pair, and no file left behind.
func TestIngestEndToEnd(t *testing.T) {
	var (
		mu       sync.Mutex
		captions []string
		pins     []map[string]interface{}
	)
	tg := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case strings.HasSuffix(r.URL.Path, "/sendPhoto"):
			require.NoError(t, r.ParseMultipartForm(1<<20))
			captions = append(captions, r.FormValue("caption"))
		case strings.HasSuffix(r.URL.Path, "/sendLocation"):
			var pin map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&pin))
			pins = append(pins, pin)
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer tg.Close()

	cfg := &config.Config{}
	cfg.App.UploadDir = t.TempDir()
	cfg.App.MaxUploadSize = 10 << 20
	cfg.Telegram = config.TelegramConfig{BotToken: "token", ChatID: "42", APIBase: tg.URL}

	fwd := relay.NewTelegramForwarder(cfg.Telegram, zap.NewNop())
	h := handler.NewHandler(fwd, relay.NewTempFileManager(zap.NewNop()), cfg, zap.NewNop())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.POST("/upload", h.Upload)

	body, ct := multipartUpload(t, map[string]string{
		"type": "image", "latitude": "37.7749", "longitude": "-122.4194",
	}, []byte("png-data"))
	rec := postUpload(router, body, ct)

	require.Equal(t, http.StatusOK, rec.Code)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, captions, 1)
	lines := strings.Split(captions[0], "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "📸 New photo captured — ")
	assert.Regexp(t, `\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} UTC[+-]\d{2}:\d{2}`, lines[0])
	assert.Equal(t, "📍 37.7749, -122.4194", lines[1])

	require.Len(t, pins, 1)
	assert.Equal(t, 37.7749, pins[0]["latitude"])
	assert.Equal(t, -122.4194, pins[0]["longitude"])

	assert.Empty(t, leftoverFiles(t, cfg.App.UploadDir))
}

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(t, &mockForwarder{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK"}`, rec.Body.String())
}
