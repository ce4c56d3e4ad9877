package models

import "time"

// GlobalSetting is a sparse, typed override of a platform-wide setting default.
// Absence of a row for a known (category, key) means "use the built-in default".
type GlobalSetting struct {
	ID       uint64 `gorm:"primaryKey"`
	Category string `gorm:"size:100;not null;uniqueIndex:idx_global_settings_category_key"`
	Key      string `gorm:"size:100;not null;uniqueIndex:idx_global_settings_category_key"`
	Value    string `gorm:"type:text"`
	Type     string `gorm:"size:20;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserSetting is a sparse, typed override of a per-user setting default,
// owned by the user identified by UserID.
type UserSetting struct {
	ID       uint64 `gorm:"primaryKey"`
	UserID   uint64 `gorm:"not null;uniqueIndex:idx_user_settings_owner_category_key"`
	Category string `gorm:"size:100;not null;uniqueIndex:idx_user_settings_owner_category_key"`
	Key      string `gorm:"size:100;not null;uniqueIndex:idx_user_settings_owner_category_key"`
	Value    string `gorm:"type:text"`
	Type     string `gorm:"size:20;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
