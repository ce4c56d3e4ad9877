package settings

import (
	"github.com/pkg/errors"

	"github.com/accelerator-admin/accelerator-admin/internal/config"
)

// Category names referenced outside this package.
const (
	CategoryGeneral  = "general"
	CategorySecurity = "security"
	CategoryAI       = "ai"
)

// GlobalDefinitions returns the definition table of the platform-wide
// settings. Defaults are a pure function of the process configuration; they
// are not consulted again after registry construction.
func GlobalDefinitions(cfg *config.Config) []Definition {
	return []Definition{
		{Category: CategoryGeneral, Key: "siteName", Field: "site_name", Type: TypeString, Default: cfg.Defaults.SiteName},
		{Category: CategoryGeneral, Key: "siteURL", Field: "site_url", Type: TypeString, Default: cfg.Defaults.SiteURL},
		{Category: CategoryGeneral, Key: "supportEmail", Field: "support_email", Type: TypeString, Default: cfg.Defaults.SupportEmail},
		{Category: CategoryGeneral, Key: "maintenanceMode", Field: "maintenance_mode", Type: TypeBoolean, Default: false},

		{Category: CategorySecurity, Key: "sessionTimeout", Field: "session_timeout", Type: TypeNumber, Default: float64(60)},
		{Category: CategorySecurity, Key: "passwordMinLength", Field: "password_min_length", Type: TypeNumber, Default: float64(12)},
		{Category: CategorySecurity, Key: "enforceMFA", Field: "enforce_mfa", Type: TypeBoolean, Default: false},
		{Category: CategorySecurity, Key: "allowedOrigins", Field: "allowed_origins", Type: TypeArray, Default: []any{}},

		{Category: "email", Key: "smtpHost", Field: "smtp_host", Type: TypeString, Default: ""},
		{Category: "email", Key: "smtpPort", Field: "smtp_port", Type: TypeNumber, Default: float64(587)},
		{Category: "email", Key: "smtpUsername", Field: "smtp_username", Type: TypeString, Default: ""},
		{Category: "email", Key: "smtpPassword", Field: "smtp_password", Type: TypeString, Default: "", Sensitive: true},
		{Category: "email", Key: "fromAddress", Field: "from_address", Type: TypeString, Default: cfg.Defaults.SupportEmail},

		{Category: CategoryAI, Key: "enabled", Field: "ai_enabled", Type: TypeBoolean, Default: true},
		{Category: CategoryAI, Key: "provider", Field: "ai_provider", Type: TypeString, Default: cfg.Defaults.AIProvider},
		{Category: CategoryAI, Key: "model", Field: "ai_model", Type: TypeString, Default: cfg.Defaults.AIModel},
		{Category: CategoryAI, Key: "personality", Field: "ai_personality", Type: TypeString, Default: cfg.Defaults.AIPersonality},
		{Category: CategoryAI, Key: "apiKey", Field: "ai_api_key", Type: TypeString, Default: "", Sensitive: true},
		{Category: CategoryAI, Key: "temperature", Field: "ai_temperature", Type: TypeNumber, Default: cfg.Defaults.AITemperature},

		{Category: "compliance", Key: "retentionDays", Field: "retention_days", Type: TypeNumber, Default: float64(365)},
		{Category: "compliance", Key: "auditLogEnabled", Field: "audit_log_enabled", Type: TypeBoolean, Default: true},
		{Category: "compliance", Key: "piiFields", Field: "pii_fields", Type: TypeArray, Default: []any{"email", "firstName", "lastName"}},

		{Category: "backup", Key: "enabled", Field: "backup_enabled", Type: TypeBoolean, Default: false},
		{Category: "backup", Key: "schedule", Field: "backup_schedule", Type: TypeString, Default: cfg.Defaults.BackupSchedule},
		{Category: "backup", Key: "destination", Field: "backup_destination", Type: TypeObject, Default: map[string]any{
			"kind":   "s3",
			"bucket": "",
			"region": "",
		}},
	}
}

// UserDefinitions returns the definition table of the per-user settings. The
// ai category mirrors a subset of the global ai configuration: its defaults
// are copied from the global registry here, at construction time, not tracked
// live at resolution time.
func UserDefinitions(global *Registry) []Definition {
	return []Definition{
		{Category: "appearance", Key: "theme", Field: "theme", Type: TypeString, Default: "system"},
		{Category: "appearance", Key: "density", Field: "density", Type: TypeString, Default: "comfortable"},
		{Category: "appearance", Key: "accentColor", Field: "accent_color", Type: TypeString, Default: "#2563eb"},

		{Category: "accessibility", Key: "reduceMotion", Field: "reduce_motion", Type: TypeBoolean, Default: false},
		{Category: "accessibility", Key: "highContrast", Field: "high_contrast", Type: TypeBoolean, Default: false},
		{Category: "accessibility", Key: "fontScale", Field: "font_scale", Type: TypeNumber, Default: float64(1)},

		{Category: "notifications", Key: "emailDigest", Field: "email_digest", Type: TypeBoolean, Default: true},
		{Category: "notifications", Key: "digestFrequency", Field: "digest_frequency", Type: TypeString, Default: "weekly"},
		{Category: "notifications", Key: "mutedEvents", Field: "muted_events", Type: TypeArray, Default: []any{}},

		{Category: CategoryAI, Key: "enabled", Field: "ai_enabled", Type: TypeBoolean, Default: globalDefault(global, CategoryAI, "enabled", true)},
		{Category: CategoryAI, Key: "model", Field: "ai_model", Type: TypeString, Default: globalDefault(global, CategoryAI, "model", "")},
		{Category: CategoryAI, Key: "personality", Field: "ai_personality", Type: TypeString, Default: globalDefault(global, CategoryAI, "personality", "balanced")},
	}
}

// NewGlobalRegistry builds the platform-wide default registry.
func NewGlobalRegistry(cfg *config.Config) (*Registry, error) {
	r, err := NewRegistry(ScopeGlobal, GlobalDefinitions(cfg))

	return r, errors.Wrap(err, "global settings registry")
}

// NewUserRegistry builds the per-user default registry, seeding its ai
// defaults from the already constructed global registry.
func NewUserRegistry(global *Registry) (*Registry, error) {
	if global == nil {
		return nil, ErrNilRegistry
	}

	r, err := NewRegistry(ScopeUser, UserDefinitions(global))

	return r, errors.Wrap(err, "user settings registry")
}

func globalDefault(global *Registry, category, key string, fallback any) any {
	if global == nil {
		return fallback
	}

	def, ok := global.Lookup(category, key)
	if !ok {
		return fallback
	}

	return def.Default
}
