// Package global implements the site-wide settings administration page.
package global

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
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
	// Path is the path to the global settings page.
	Path = "/admin/settings"

	// TemplateName is the name of the global settings template.
	TemplateName = "settings/global"
)

// fieldRules maps form field names to validation rules applied before the
// batch reaches the write mapper. Only syntactic checks live here; type
// coercion belongs to the settings codec.
var fieldRules = map[string]string{
	"site_url":      "omitempty,url",
	"support_email": "omitempty,email",
	"from_address":  "omitempty,email",
	"smtp_host":     "omitempty,hostname|ip",
}

// Service is the global settings handler service.
type Service struct {
	handler.Service
	cfg      *config.Config
	db       *gorm.DB
	engine   *settings.Engine
	validate *validator.Validate
}

// Handler is the global settings handler.
var Handler = Service{}

// Init initializes the global settings handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, engine *settings.Engine) error {
	if app == nil || cfg == nil || db == nil || engine == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.engine = engine
	s.validate = validator.New()

	app.Get(Path, s.Get)
	app.Post(Path, s.Post)

	return nil
}

// Get renders the global settings page.
func (s *Service) Get(c *fiber.Ctx) error {
	if !isAdmin(c) {
		return c.SendStatus(fiber.StatusForbidden)
	}

	return s.render(c, fiber.StatusOK, "", "")
}

// Post applies the submitted settings and re-renders the page.
func (s *Service) Post(c *fiber.Ctx) error {
	if !isAdmin(c) {
		return c.SendStatus(fiber.StatusForbidden)
	}

	fields := handler.FormFields(c)

	if msg := s.validateFields(fields); msg != "" {
		return s.render(c, fiber.StatusBadRequest, "", msg)
	}

	if err := s.engine.Save(settings.ScopeGlobal, settings.SystemOwnerID, fields); err != nil {
		log.Error().Err(err).Msg("failed to save global settings")

		return s.render(c, fiber.StatusInternalServerError, "", "Settings were not saved: "+err.Error())
	}

	return s.render(c, fiber.StatusOK, "Settings saved", "")
}

func (s *Service) render(c *fiber.Ctx, status int, success, errMsg string) error {
	resolved, err := s.engine.Resolve(settings.ScopeGlobal, settings.SystemOwnerID)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve global settings")

		return c.SendStatus(fiber.StatusInternalServerError)
	}

	reg, _ := s.engine.Registry(settings.ScopeGlobal)

	nav := navigation.NewContext("Site Settings", "admin", "settings").
		AddBreadcrumb("Home", "/dashboard", false).
		AddBreadcrumb("Site Settings", Path, true)

	return c.Status(status).Render(TemplateName, fiber.Map{
		"Title":       s.cfg.Title,
		"Nav":         nav,
		"CurrentUser": c.Locals(auth.CurrentUserKey),
		"Categories":  handler.BuildSettingsView(reg, resolved),
		"Stale":       resolved.Stale,
		"Success":     success,
		"Error":       errMsg,
	}, handler.BaseLayout)
}

func (s *Service) validateFields(fields map[string]string) string {
	for field, rule := range fieldRules {
		value, ok := fields[field]
		if !ok {
			continue
		}

		if err := s.validate.Var(value, rule); err != nil {
			return fmt.Sprintf("invalid value for %s", field)
		}
	}

	return ""
}

func isAdmin(c *fiber.Ctx) bool {
	user, ok := c.Locals(auth.CurrentUserKey).(models.User)

	return ok && user.Admin
}
