package app

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/dimonss/BirthdayBackend/internal/bot"
	"github.com/dimonss/BirthdayBackend/internal/catalog"
	"github.com/dimonss/BirthdayBackend/internal/data/db"
	userrepo "github.com/dimonss/BirthdayBackend/internal/data/repos/user"
	"github.com/dimonss/BirthdayBackend/internal/page"
	"github.com/dimonss/BirthdayBackend/internal/platform/logger"
	"github.com/dimonss/BirthdayBackend/internal/prefs"
	"github.com/dimonss/BirthdayBackend/internal/storage"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Catalog  *catalog.Catalog
	Assets   storage.Store
	Prefs    prefs.Store
	Pages    *page.Generator
	Router   *bot.Router
	Telegram *bot.Telegram
	API      *apiServer
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg, err := LoadConfig(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	cat, err := catalog.Load()
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	assets, err := storage.New(cfg.PagesDir, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init asset store: %w", err)
	}

	prefStore := prefs.New()
	generator := page.NewGenerator(cfg.TemplatesDir, cfg.UserPageURL, cat, assets, log)

	// The user registry is a peripheral audit log; when the database is
	// unavailable the bot still runs, it just stops recording activity.
	var users userrepo.Repo
	if dbService, err := db.New(log); err != nil {
		log.Warn("database unavailable, audit log disabled", "error", err)
	} else if err := dbService.AutoMigrateAll(); err != nil {
		log.Warn("database migration failed, audit log disabled", "error", err)
	} else {
		users = userrepo.NewRepo(dbService.DB(), log)
	}

	telegram, err := bot.NewTelegram(cfg.BotToken, log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	if err := telegram.SetCommands(); err != nil {
		log.Warn("command registration failed", "error", err)
	}

	router := bot.NewRouter(bot.RouterConfig{
		PhotoSizeLimit: cfg.PhotoSizeLimit,
		AudioSizeLimit: cfg.AudioSizeLimit,
		MainPageURL:    cfg.MainPageURL,
		Catalog:        cat,
		Prefs:          prefStore,
		Assets:         assets,
		Pages:          generator,
		Users:          users,
		Sink:           telegram,
		Files:          telegram,
		Log:            log,
	})

	api := wireAPI(cfg, assets, log)

	return &App{
		Log:      log,
		Cfg:      cfg,
		Catalog:  cat,
		Assets:   assets,
		Prefs:    prefStore,
		Pages:    generator,
		Router:   router,
		Telegram: telegram,
		API:      api,
	}, nil
}

// Run serves the bot polling loop and the listing API until either fails or
// ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Telegram.Run(ctx, a.Router)
	})
	g.Go(func() error {
		a.Log.Info("API server running", "port", a.Cfg.APIPort)
		return a.API.Run(fmt.Sprintf(":%d", a.Cfg.APIPort))
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
