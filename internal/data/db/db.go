package db

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/dimonss/BirthdayBackend/internal/domain"
	"github.com/dimonss/BirthdayBackend/internal/platform/envutil"
	"github.com/dimonss/BirthdayBackend/internal/platform/logger"
)

// Service owns the gorm connection for the peripheral user registry. SQLite is
// the default driver; DB_DRIVER=postgres switches to Postgres.
type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

func New(baseLog *logger.Logger) (*Service, error) {
	serviceLog := baseLog.With("service", "DBService")

	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	cfg := &gorm.Config{Logger: gormLog}

	var (
		conn *gorm.DB
		err  error
	)
	switch driver := envutil.Str("DB_DRIVER", "sqlite"); driver {
	case "postgres":
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable",
			envutil.Str("POSTGRES_USER", "postgres"),
			envutil.Str("POSTGRES_PASSWORD", ""),
			envutil.Str("POSTGRES_HOST", "localhost"),
			envutil.Str("POSTGRES_PORT", "5432"),
			envutil.Str("POSTGRES_NAME", "birthday"),
		)
		conn, err = gorm.Open(postgres.Open(dsn), cfg)
	case "sqlite":
		path := envutil.Str("DB_PATH", filepath.Join("data", "users.db"))
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
			return nil, fmt.Errorf("create db dir: %w", mkErr)
		}
		conn, err = gorm.Open(sqlite.Open(path), cfg)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &Service{db: conn, log: serviceLog}, nil
}

func (s *Service) AutoMigrateAll() error {
	return s.db.AutoMigrate(
		&domain.User{},
		&domain.ActivityEvent{},
	)
}

func (s *Service) DB() *gorm.DB { return s.db }
