package daemon

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/accelerator-admin/accelerator-admin/internal/config"
	settingstore "github.com/accelerator-admin/accelerator-admin/internal/db/controller/setting"
	"github.com/accelerator-admin/accelerator-admin/internal/db/models"
	"github.com/accelerator-admin/accelerator-admin/internal/settings"
)

func seed(_ *config.Config, db *gorm.DB) {
	// Seed initial data if user table is empty

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count == 0 {
		// Create default admin user
		// the password must be changed after the first login

		db.Create(
			&models.User{
				Username: "admin",
				Password: models.HashPassword("changeme"),
				Active:   true,
				Admin:    true,
			},
		)

		log.Info().Msg("created default admin user")
	}
}

// Seed connects to the configured database, runs the schema migration and
// materializes the built-in defaults: the admin account plus the default
// settings rows for both scopes. Safe to run repeatedly.
func Seed(cfg *config.Config) error {
	db, err := openDatabase(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.GlobalSetting{},
		&models.UserSetting{},
	); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}

	seed(cfg, db)

	engine, err := newSettingsEngine(cfg, db)
	if err != nil {
		return err
	}

	store, err := settingstore.NewStore(db)
	if err != nil {
		return err
	}

	for _, scope := range []settings.Scope{settings.ScopeGlobal, settings.ScopeUser} {
		reg, ok := engine.Registry(scope)
		if !ok {
			return settings.ErrUnknownScope
		}

		rows, err := defaultRows(reg)
		if err != nil {
			return errors.Wrapf(err, "failed to encode %s defaults", scope)
		}

		if err = store.BulkUpsert(scope, settings.SystemOwnerID, rows); err != nil {
			return errors.Wrapf(err, "failed to seed %s defaults", scope)
		}

		log.Info().Str("scope", string(scope)).Int("rows", len(rows)).Msg("seeded default settings")
	}

	return nil
}

// defaultRows encodes every registry default into override rows.
func defaultRows(reg *settings.Registry) ([]settings.Override, error) {
	var rows []settings.Override

	for _, category := range reg.Categories() {
		for _, def := range reg.Definitions(category) {
			raw, err := settings.Encode(def.Default, def.Type)
			if err != nil {
				return nil, err
			}

			rows = append(rows, settings.Override{
				Category: def.Category,
				Key:      def.Key,
				Value:    raw,
				Type:     def.Type,
			})
		}
	}

	return rows, nil
}
