package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/VamshiKumar-25/the-nexus-rnedia/internal/capture"
	"github.com/VamshiKumar-25/the-nexus-rnedia/internal/config"
	"github.com/VamshiKumar-25/the-nexus-rnedia/internal/upload"
	"github.com/VamshiKumar-25/the-nexus-rnedia/pkg/logger"
)

// capture runs one unattended session against the machine's webcam and
// posts the still to the configured upload URL.
func main() {
	_ = godotenv.Load()

	log, err := logger.NewSugared()
	if err != nil {
		os.Stderr.WriteString("CRITICAL: Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	zlog := log.Desugar()
	camera := capture.NewDeviceCamera(zlog)
	uploader := upload.NewClient(cfg.Capture.UploadURL, zlog)

	// The webcam backend has no position source; the probe degrades to
	// "no coordinates" on its own.
	orch := capture.NewOrchestrator(camera, nil, uploader, cfg.Capture, zlog)
	orch.OnTick = func(remaining int) {
		if remaining > 0 {
			fmt.Printf("%d...\n", remaining)
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		log.Info("Signal received, cancelling capture")
		orch.Stop()
	}()

	if err := orch.Start(context.Background()); err != nil {
		log.Fatalf("Capture session failed: %v", err)
	}
	log.Info("Capture session finished")
}
