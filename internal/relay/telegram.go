package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/VamshiKumar-25/the-nexus-rnedia/internal/config"
	"github.com/VamshiKumar-25/the-nexus-rnedia/internal/domain"
)

// Forwarder relays a received job to the external messaging API.
type Forwarder interface {
	Forward(ctx context.Context, job domain.RelayJob) error
}

// TelegramForwarder sends the photo with its caption, then a location pin
// when the coordinates parse. The two calls are sequential but independent:
// a photo failure does not stop the location attempt. Only local file I/O
// or request-construction failures bubble up; API-level failures are logged
// and swallowed so the uploader still gets its success response.
type TelegramForwarder struct {
	token   string
	chatID  string
	apiBase string
	http    *http.Client
	log     *zap.Logger
}

func NewTelegramForwarder(cfg config.TelegramConfig, log *zap.Logger) *TelegramForwarder {
	return &TelegramForwarder{
		token:   cfg.BotToken,
		chatID:  cfg.ChatID,
		apiBase: cfg.APIBase,
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}
}

func (f *TelegramForwarder) Forward(ctx context.Context, job domain.RelayJob) error {
	caption := ComposeCaption(job)

	if job.ReceivedFilePath != "" {
		if err := f.sendPhoto(ctx, job.ReceivedFilePath, caption); err != nil {
			return err
		}
	} else {
		f.log.Warn("No file provided in upload")
	}

	if lat, lon, ok := job.ParsedCoordinates(); ok {
		f.sendLocation(ctx, lat, lon)
	} else if job.Latitude != "" || job.Longitude != "" {
		f.log.Warn("Latitude/longitude could not be parsed to numbers",
			zap.String("latitude", job.Latitude),
			zap.String("longitude", job.Longitude))
	} else {
		f.log.Info("No coordinates provided; skipping location pin")
	}

	return nil
}

// sendPhoto returns an error only when the request cannot be built, which
// includes failing to read the received file. An unhappy API response is a
// relay failure: logged, not escalated.
func (f *TelegramForwarder) sendPhoto(ctx context.Context, filePath, caption string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open received file: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("chat_id", f.chatID); err != nil {
		return fmt.Errorf("build photo form: %w", err)
	}
	part, err := w.CreateFormFile("photo", filepath.Base(filePath))
	if err != nil {
		return fmt.Errorf("build photo form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("read received file: %w", err)
	}
	if err := w.WriteField("caption", caption); err != nil {
		return fmt.Errorf("build photo form: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("build photo form: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendPhoto", f.apiBase, f.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return fmt.Errorf("build photo request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	f.do(req, "sendPhoto")
	return nil
}

func (f *TelegramForwarder) sendLocation(ctx context.Context, lat, lon float64) {
	payload, err := json.Marshal(map[string]interface{}{
		"chat_id":   f.chatID,
		"latitude":  lat,
		"longitude": lon,
	})
	if err != nil {
		f.log.Error("Failed to encode location payload", zap.Error(err))
		return
	}

	url := fmt.Sprintf("%s/bot%s/sendLocation", f.apiBase, f.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		f.log.Error("Failed to build location request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	f.do(req, "sendLocation")
}

// do executes one API call and logs its outcome. Relay failures never abort
// the request that triggered them.
func (f *TelegramForwarder) do(req *http.Request, call string) {
	resp, err := f.http.Do(req)
	if err != nil {
		f.log.Error("Relay call failed",
			zap.String("call", call),
			zap.Error(err))
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.log.Error("Relay call rejected",
			zap.String("call", call),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", body))
		return
	}
	f.log.Info("Relay call succeeded",
		zap.String("call", call),
		zap.ByteString("response", body))
}

// ComposeCaption builds the photo caption: an emoji-prefixed line with the
// local timestamp, plus a coordinates line when both raw values are present.
func ComposeCaption(job domain.RelayJob) string {
	caption := fmt.Sprintf("📸 New photo captured — %s", FormatTimestamp(job.CaptionTime))
	if job.Latitude != "" && job.Longitude != "" {
		caption += fmt.Sprintf("\n📍 %s, %s", job.Latitude, job.Longitude)
	}
	return caption
}

// FormatTimestamp renders local time with an explicit UTC-offset suffix,
// e.g. "2025-11-09 20:01:23 UTC+05:30".
func FormatTimestamp(t time.Time) string {
	_, offset := t.Zone()
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	return fmt.Sprintf("%s UTC%s%02d:%02d",
		t.Format("2006-01-02 15:04:05"), sign, offset/3600, (offset%3600)/60)
}
