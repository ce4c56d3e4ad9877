// Package daemon wires the database, the settings engine and the web service
// into a runnable unit.
package daemon

import (
	"fmt"

	"github.com/gofiber/storage"
	sessionmysql "github.com/gofiber/storage/mysql"
	sessionpostgres "github.com/gofiber/storage/postgres"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/accelerator-admin/accelerator-admin/internal/config"
	settingstore "github.com/accelerator-admin/accelerator-admin/internal/db/controller/setting"
	"github.com/accelerator-admin/accelerator-admin/internal/db/dsn"
	"github.com/accelerator-admin/accelerator-admin/internal/db/models"
	"github.com/accelerator-admin/accelerator-admin/internal/settings"
	"github.com/accelerator-admin/accelerator-admin/internal/web"
	"github.com/accelerator-admin/accelerator-admin/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	webService web.Service
	cfg        *config.Config
}

// Start starts the Daemon's web service.
func (d *Daemon) Start() error {
	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.GlobalSetting{},
		&models.UserSetting{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	seed(cfg, db)

	engine, err := newSettingsEngine(cfg, db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build settings engine")
	}

	session.Init(newSessionStorage(cfg))

	return &Daemon{
		webService: *web.New(cfg, db, engine),
		cfg:        cfg,
	}
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		dialector = gormpostgres.Open(dsn.Create(cfg))
	default:
		dialector = gormmysql.Open(dsn.Create(cfg))
	}

	return gorm.Open(dialector, &gorm.Config{})
}

// newSettingsEngine builds the default registries from the deployment
// configuration and attaches the database-backed override store.
func newSettingsEngine(cfg *config.Config, db *gorm.DB) (*settings.Engine, error) {
	global, err := settings.NewGlobalRegistry(cfg)
	if err != nil {
		return nil, err
	}

	user, err := settings.NewUserRegistry(global)
	if err != nil {
		return nil, err
	}

	store, err := settingstore.NewStore(db)
	if err != nil {
		return nil, err
	}

	return settings.NewEngine(store, global, user)
}

// newSessionStorage selects the fiber session storage backend matching the
// configured gorm engine, so sessions live next to the application data.
func newSessionStorage(cfg *config.Config) storage.Storage {
	if cfg.DB.GormEngine == config.EnginePostgres {
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "sessions",
		})
	}

	return sessionmysql.New(sessionmysql.Config{
		ConnectionURI: dsn.Create(cfg),
		Table:         "sessions",
	})
}
