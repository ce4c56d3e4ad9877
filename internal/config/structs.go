package config

import (
	"time"

	"github.com/accelerator-admin/accelerator-admin/internal/logger"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Defaults  Defaults
}

// Webserver implement webserver settings.
type Webserver struct {
	BrowseStatic        bool    // enable static file browsing (for development purposes only)
	Domain              string  // domain name for the webserver
	Port                int     // listening port for the webserver
	ShutDownTime        int     // wait time for shutdown
	URL                 string  // base url for the webserver
	CookieEncryptionKey string  // encryption key for cookies
	Session             Session // session settings
}

// Defaults carries the deployment-tunable seed values for the built-in setting
// defaults. The default registries are constructed from these at startup; they
// are not consulted again at resolution time.
type Defaults struct {
	SiteName       string
	SiteURL        string
	SupportEmail   string
	AIProvider     string
	AIModel        string
	AIPersonality  string
	AITemperature  float64
	BackupSchedule string
}
