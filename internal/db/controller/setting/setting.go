// Package setting provides the gorm backed override store for the settings engine.
package setting

import (
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/accelerator-admin/accelerator-admin/internal/db/models"
	"github.com/accelerator-admin/accelerator-admin/internal/settings"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Store persists setting overrides in two parallel tables, one per scope
// kind. It implements settings.OverrideStore.
type Store struct {
	db *gorm.DB
}

// NewStore creates a Store on the given database connection.
func NewStore(db *gorm.DB) (*Store, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	return &Store{db: db}, nil
}

// ReadAll returns every override row for the scope/owner. No rows means "all
// defaults" and is not an error.
func (s *Store) ReadAll(scope settings.Scope, ownerID uint64) ([]settings.Override, error) {
	switch scope {
	case settings.ScopeGlobal:
		var rows []models.GlobalSetting
		if result := s.db.Find(&rows); result.Error != nil {
			return nil, pkgerrors.Wrap(result.Error, "read global settings")
		}

		out := make([]settings.Override, 0, len(rows))
		for _, row := range rows {
			out = append(out, settings.Override{
				Category: row.Category,
				Key:      row.Key,
				Value:    row.Value,
				Type:     settings.ValueType(row.Type),
			})
		}

		return out, nil

	case settings.ScopeUser:
		var rows []models.UserSetting
		if result := s.db.Where("user_id = ?", ownerID).Find(&rows); result.Error != nil {
			return nil, pkgerrors.Wrap(result.Error, "read user settings")
		}

		out := make([]settings.Override, 0, len(rows))
		for _, row := range rows {
			out = append(out, settings.Override{
				Category: row.Category,
				Key:      row.Key,
				Value:    row.Value,
				Type:     settings.ValueType(row.Type),
			})
		}

		return out, nil

	default:
		return nil, settings.ErrUnknownScope
	}
}

// BulkUpsert creates or replaces the given rows for the scope/owner in one
// transaction: either every row lands or the caller observes the failure.
// An upsert replaces, never appends; rows are keyed by (owner, category, key).
func (s *Store) BulkUpsert(scope settings.Scope, ownerID uint64, rows []settings.Override) error {
	if len(rows) == 0 {
		return nil
	}

	switch scope {
	case settings.ScopeGlobal:
		records := make([]models.GlobalSetting, 0, len(rows))
		for _, row := range rows {
			records = append(records, models.GlobalSetting{
				Category: row.Category,
				Key:      row.Key,
				Value:    row.Value,
				Type:     string(row.Type),
			})
		}

		err := s.db.Transaction(func(tx *gorm.DB) error {
			return tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "category"}, {Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "type", "updated_at"}),
			}).Create(&records).Error
		})

		return pkgerrors.Wrap(err, "bulk upsert global settings")

	case settings.ScopeUser:
		records := make([]models.UserSetting, 0, len(rows))
		for _, row := range rows {
			records = append(records, models.UserSetting{
				UserID:   ownerID,
				Category: row.Category,
				Key:      row.Key,
				Value:    row.Value,
				Type:     string(row.Type),
			})
		}

		err := s.db.Transaction(func(tx *gorm.DB) error {
			return tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "category"}, {Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "type", "updated_at"}),
			}).Create(&records).Error
		})

		return pkgerrors.Wrap(err, "bulk upsert user settings")

	default:
		return settings.ErrUnknownScope
	}
}
