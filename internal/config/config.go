package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Telegram TelegramConfig
	Capture  CaptureConfig
	App      AppConfig
}

type ServerConfig struct {
	Host string
	Port string
}

type TelegramConfig struct {
	BotToken string
	ChatID   string
	// APIBase is overridable so tests and proxies can point elsewhere.
	APIBase string
}

// CaptureConfig carries the tunable timing constants of the capture flow.
// The source behavior varied across iterations, so none of these are baked in.
type CaptureConfig struct {
	UploadURL        string
	FacingPreference string
	CountdownSeconds int
	CountdownTick    time.Duration
	WarmupDelay      time.Duration
	SettleDelay      time.Duration
	ReadinessTimeout time.Duration
	GeolocateTimeout time.Duration
	// GeolocateOrder is "before" (probe before camera acquisition, surfaces
	// the permission prompt earlier on mobile) or "after" (probe after
	// capture, keeps the countdown prompt snappy).
	GeolocateOrder string
}

type AppConfig struct {
	UploadDir     string
	MaxUploadSize int64
}

func Load() (*Config, error) {
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("PORT", "10000")
	viper.SetDefault("TELEGRAM_API_BASE", "https://api.telegram.org")
	viper.SetDefault("UPLOAD_URL", "http://localhost:10000/upload")
	viper.SetDefault("CAPTURE_FACING", "user")
	viper.SetDefault("CAPTURE_COUNTDOWN_SECONDS", 2)
	viper.SetDefault("CAPTURE_COUNTDOWN_TICK", "1s")
	viper.SetDefault("CAPTURE_WARMUP_DELAY", "200ms")
	viper.SetDefault("CAPTURE_SETTLE_DELAY", "100ms")
	viper.SetDefault("CAPTURE_READINESS_TIMEOUT", "1200ms")
	viper.SetDefault("GEOLOCATE_TIMEOUT", "8s")
	viper.SetDefault("GEOLOCATE_ORDER", "before")
	viper.SetDefault("APP_UPLOAD_DIR", "./uploads")
	viper.SetDefault("APP_MAX_UPLOAD_SIZE", 10*1024*1024) // 10MB

	viper.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("SERVER_HOST"),
			Port: viper.GetString("PORT"),
		},
		Telegram: TelegramConfig{
			BotToken: viper.GetString("TELEGRAM_BOT_TOKEN"),
			ChatID:   viper.GetString("TELEGRAM_CHAT_ID"),
			APIBase:  viper.GetString("TELEGRAM_API_BASE"),
		},
		Capture: CaptureConfig{
			UploadURL:        viper.GetString("UPLOAD_URL"),
			FacingPreference: viper.GetString("CAPTURE_FACING"),
			CountdownSeconds: viper.GetInt("CAPTURE_COUNTDOWN_SECONDS"),
			CountdownTick:    viper.GetDuration("CAPTURE_COUNTDOWN_TICK"),
			WarmupDelay:      viper.GetDuration("CAPTURE_WARMUP_DELAY"),
			SettleDelay:      viper.GetDuration("CAPTURE_SETTLE_DELAY"),
			ReadinessTimeout: viper.GetDuration("CAPTURE_READINESS_TIMEOUT"),
			GeolocateTimeout: viper.GetDuration("GEOLOCATE_TIMEOUT"),
			GeolocateOrder:   viper.GetString("GEOLOCATE_ORDER"),
		},
		App: AppConfig{
			UploadDir:     viper.GetString("APP_UPLOAD_DIR"),
			MaxUploadSize: viper.GetInt64("APP_MAX_UPLOAD_SIZE"),
		},
	}

	return cfg, nil
}

// ValidateRelay enforces the hard startup requirements of the relay server.
func (c *Config) ValidateRelay() error {
	if c.Telegram.BotToken == "" || c.Telegram.ChatID == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set in environment")
	}
	return nil
}
