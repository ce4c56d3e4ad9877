// Package profile implements the per-user preferences page.
package profile

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/accelerator-admin/accelerator-admin/internal/config"
	"github.com/accelerator-admin/accelerator-admin/internal/db/models"
	"github.com/accelerator-admin/accelerator-admin/internal/settings"
	"github.com/accelerator-admin/accelerator-admin/internal/web/handler"
	"github.com/accelerator-admin/accelerator-admin/internal/web/middleware/auth"
	"github.com/accelerator-admin/accelerator-admin/internal/web/navigation"
)

const (
	// Path is the path to the user preferences page.
	Path = "/profile/settings"

	// TemplateName is the name of the user preferences template.
	TemplateName = "settings/profile"
)

// Service is the user preferences handler service.
type Service struct {
	handler.Service
	cfg    *config.Config
	db     *gorm.DB
	engine *settings.Engine
}

// Handler is the user preferences handler.
var Handler = Service{}

// Init initializes the user preferences handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, engine *settings.Engine) error {
	if app == nil || cfg == nil || db == nil || engine == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.engine = engine

	app.Get(Path, s.Get)
	app.Post(Path, s.Post)

	return nil
}

// Get renders the preferences page for the signed-in user.
func (s *Service) Get(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	return s.render(c, fiber.StatusOK, user, "", "")
}

// Post applies the submitted preferences for the signed-in user.
func (s *Service) Post(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	fields := handler.FormFields(c)

	if err := s.engine.Save(settings.ScopeUser, user.ID, fields); err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to save user preferences")

		return s.render(c, fiber.StatusInternalServerError, user, "", "Preferences were not saved: "+err.Error())
	}

	return s.render(c, fiber.StatusOK, user, "Preferences saved", "")
}

func (s *Service) render(c *fiber.Ctx, status int, user models.User, success, errMsg string) error {
	resolved, err := s.engine.Resolve(settings.ScopeUser, user.ID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to resolve user preferences")

		return c.SendStatus(fiber.StatusInternalServerError)
	}

	reg, _ := s.engine.Registry(settings.ScopeUser)

	nav := navigation.NewContext("My Preferences", "profile", "settings").
		AddBreadcrumb("Home", "/dashboard", false).
		AddBreadcrumb("My Preferences", Path, true)

	return c.Status(status).Render(TemplateName, fiber.Map{
		"Title":       s.cfg.Title,
		"Nav":         nav,
		"CurrentUser": user,
		"Categories":  handler.BuildSettingsView(reg, resolved),
		"Stale":       resolved.Stale,
		"Success":     success,
		"Error":       errMsg,
	}, handler.BaseLayout)
}

func currentUser(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals(auth.CurrentUserKey).(models.User)

	return user, ok && user.ID > 0
}
