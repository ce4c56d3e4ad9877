// Package login implements the local username/password login page.
package login

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/accelerator-admin/accelerator-admin/internal/config"
	"github.com/accelerator-admin/accelerator-admin/internal/db/models"
	"github.com/accelerator-admin/accelerator-admin/internal/settings"
	"github.com/accelerator-admin/accelerator-admin/internal/web/handler"
	"github.com/accelerator-admin/accelerator-admin/internal/web/session"
)

const (
	// Path is the path to the login page.
	Path = "/login"

	// TemplateName is the name of the login template.
	TemplateName = "login/login"

	// CookieName is the name of the session cookie.
	CookieName = "session"

	defaultSessionExpiry = 12 * time.Hour
)

// Service is the login handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the login handler.
var Handler = Service{}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, _ *settings.Engine) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db

	app.Get(Path, s.Get)
	app.Post(Path, s.Post)

	return nil
}

// Get handles the login page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render(TemplateName, fiber.Map{
		"Title": s.cfg.Title,
	})
}

// Post handles the login form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	var (
		username = c.FormValue("username")
		password = c.FormValue("password")
		user     models.User
	)

	result := s.db.Where("username = ? AND active = ?", username, true).First(&user)
	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			log.Error().Err(result.Error).Msg("failed to look up user for login")

			return c.Status(fiber.StatusInternalServerError).Render(TemplateName, fiber.Map{
				"Title": s.cfg.Title,
				"Error": "Login is temporarily unavailable",
			})
		}

		// fall through to the password check against an empty hash, so a
		// missing account takes the same visible path as a wrong password
	}

	if !user.VerifyPassword(password) {
		log.Info().Str("username", username).Msg("rejected login attempt")

		return c.Status(fiber.StatusUnauthorized).Render(TemplateName, fiber.Map{
			"Title": s.cfg.Title,
			"Error": "Invalid username or password",
		})
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session id")

		return c.SendStatus(fiber.StatusInternalServerError)
	}

	expiry := s.cfg.Webserver.Session.ExpiryTime
	if expiry == 0 {
		expiry = defaultSessionExpiry
	}

	data := session.Data{User: user}
	if err = data.Write(sessionID, expiry); err != nil {
		log.Error().Err(err).Msg("failed to write session data")

		return c.SendStatus(fiber.StatusInternalServerError)
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    sessionID,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	log.Info().Str("username", user.Username).Msg("user logged in")

	return c.Redirect("/dashboard")
}
