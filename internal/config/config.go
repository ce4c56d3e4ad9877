// Package config handles input from etc/main.toml and ACCEL_ADMIN_* environment overrides.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is the prefix for environment variable overrides,
	// e.g. ACCEL_ADMIN_WEBSERVER_PORT overrides webserver.port.
	EnvPrefix = "ACCEL_ADMIN"

	defaultConfigPath = "./etc/"
	defaultShutdown   = 5
)

// ReadConfig reads the main configuration from the given directory and applies
// environment overrides. An absent config file is not an error: defaults plus
// environment variables are a complete configuration on their own.
func ReadConfig(path string) (Config, error) {
	if path == "" {
		path = defaultConfigPath
	}

	v := viper.New()
	v.SetConfigName("main")
	v.SetConfigType("toml")
	v.AddConfigPath(path)

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, pkgerrors.Wrap(err, "failed to read main config file")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, pkgerrors.Wrap(err, "failed to decode main config file")
	}

	return c, validate(&c)
}

// setDefaults registers the built-in configuration values. Registering them
// with viper also makes the corresponding environment overrides visible to
// Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("title", "Accelerator Admin")

	v.SetDefault("webserver.port", 8080)
	v.SetDefault("webserver.url", "http://localhost:8080")
	v.SetDefault("webserver.shutdowntime", defaultShutdown)

	v.SetDefault("db.gormengine", "mysql")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 3306)

	v.SetDefault("log.loglevel", "info")
	v.SetDefault("log.appname", "accelerator-admin")
	v.SetDefault("log.servicename", "webservice")
	v.SetDefault("log.console.enabled", true)

	// Built-in setting defaults, the seed values of the default registries.
	v.SetDefault("defaults.sitename", "Accelerator")
	v.SetDefault("defaults.siteurl", "http://localhost:8080")
	v.SetDefault("defaults.supportemail", "support@accelerator.local")
	v.SetDefault("defaults.aiprovider", "openai")
	v.SetDefault("defaults.aimodel", "gpt-4o-mini")
	v.SetDefault("defaults.aipersonality", "balanced")
	v.SetDefault("defaults.aitemperature", 0.7)
	v.SetDefault("defaults.backupschedule", "0 3 * * *")
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate minimal config settings needed to bring the web service up.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return pkgerrors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return pkgerrors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutdown
	}

	return nil
}
