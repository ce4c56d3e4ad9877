// Package logout implements the logout endpoint.
package logout

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/accelerator-admin/accelerator-admin/internal/config"
	"github.com/accelerator-admin/accelerator-admin/internal/settings"
	"github.com/accelerator-admin/accelerator-admin/internal/web/handler"
	"github.com/accelerator-admin/accelerator-admin/internal/web/handler/login"
	"github.com/accelerator-admin/accelerator-admin/internal/web/session"
)

const (
	// Path is the path to the logout endpoint.
	Path = "/logout"
)

// Service is the logout handler service.
type Service struct {
	handler.Service
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, _ *settings.Engine) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	app.Get(Path, s.Get)

	return nil
}

// Get terminates the session and redirects to the login page.
func (s *Service) Get(c *fiber.Ctx) error {
	if sessionID := c.Cookies(login.CookieName); sessionID != "" {
		if err := session.Delete(sessionID); err != nil {
			log.Warn().Err(err).Msg("failed to delete session data")
		}
	}

	c.ClearCookie(login.CookieName)

	return c.Redirect(login.Path)
}
