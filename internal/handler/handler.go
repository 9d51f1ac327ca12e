package handler

import (
	"net/http"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/VamshiKumar-25/the-nexus-rnedia/internal/config"
	"github.com/VamshiKumar-25/the-nexus-rnedia/internal/domain"
	"github.com/VamshiKumar-25/the-nexus-rnedia/internal/relay"
)

type Handler struct {
	forwarder relay.Forwarder
	files     *relay.TempFileManager
	cfg       *config.Config
	log       *zap.Logger
}

func NewHandler(forwarder relay.Forwarder, files *relay.TempFileManager, cfg *config.Config, log *zap.Logger) *Handler {
	return &Handler{
		forwarder: forwarder,
		files:     files,
		cfg:       cfg,
		log:       log,
	}
}

// Upload ingests one multipart capture and relays it. Coordinates are
// optional and tolerated in any shape: non-numeric values are logged and
// treated as absent, never rejected.
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		h.log.Error("Failed to get file from form", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided in upload"})
		return
	}

	if file.Size > h.cfg.App.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	// Unique per upload, so concurrent requests never collide on disk.
	dst := filepath.Join(h.cfg.App.UploadDir, uuid.New().String()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		h.log.Error("Failed to store uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Upload/send failed",
			"details": err.Error(),
		})
		return
	}
	defer h.files.Cleanup(dst)

	latitude := c.PostForm("latitude")
	longitude := c.PostForm("longitude")

	mediaType := ""
	if mt, err := mimetype.DetectFile(dst); err == nil {
		mediaType = mt.String()
	}
	h.log.Info("Received upload",
		zap.String("file", dst),
		zap.String("media_type", mediaType),
		zap.String("latitude", latitude),
		zap.String("longitude", longitude))

	job := domain.RelayJob{
		ReceivedFilePath: dst,
		Latitude:         latitude,
		Longitude:        longitude,
		CaptionTime:      time.Now(),
	}

	if err := h.forwarder.Forward(c.Request.Context(), job); err != nil {
		h.log.Error("Upload handler error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Upload/send failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Photo and (optional) location sent to Telegram.",
	})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// Banner answers the root path so deployment checks have something to poke.
func (h *Handler) Banner(c *gin.Context) {
	c.String(http.StatusOK, "📷 Nexus Media backend running...")
}
