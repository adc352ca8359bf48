package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/dimonss/BirthdayBackend/internal/platform/envutil"
	"github.com/dimonss/BirthdayBackend/internal/platform/logger"
)

// File size limits in bytes.
const (
	defaultPhotoSizeLimit = 500 * 1024
	defaultAudioSizeLimit = 1024 * 1024
)

type Config struct {
	BotToken     string
	UserPageURL  string
	PagesDir     string
	TemplatesDir string
	MainPageURL  string
	APIPort      int

	PhotoSizeLimit int64
	AudioSizeLimit int64
}

// LoadConfig reads the environment. Missing required variables abort startup;
// everything else falls back to defaults.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		BotToken:       strings.TrimSpace(os.Getenv("BOT_TOKEN")),
		UserPageURL:    strings.TrimSpace(os.Getenv("USER_PAGE_URL")),
		PagesDir:       strings.TrimSpace(os.Getenv("PAGES_DIR")),
		TemplatesDir:   envutil.Str("TEMPLATES_DIR", "htmlTemplates"),
		MainPageURL:    envutil.Str("MAIN_PAGE_URL", ""),
		APIPort:        envutil.Int("API_PORT", 3000),
		PhotoSizeLimit: envutil.Int64("PHOTO_SIZE_LIMIT", defaultPhotoSizeLimit),
		AudioSizeLimit: envutil.Int64("AUDIO_SIZE_LIMIT", defaultAudioSizeLimit),
	}

	for name, val := range map[string]string{
		"BOT_TOKEN":     cfg.BotToken,
		"USER_PAGE_URL": cfg.UserPageURL,
		"PAGES_DIR":     cfg.PagesDir,
	} {
		if val == "" {
			return Config{}, fmt.Errorf("%s is not defined in environment variables", name)
		}
	}

	cfg.UserPageURL = strings.TrimRight(cfg.UserPageURL, "/")
	log.Info("configuration loaded",
		"pages_dir", cfg.PagesDir,
		"templates_dir", cfg.TemplatesDir,
		"api_port", cfg.APIPort,
	)
	return cfg, nil
}
