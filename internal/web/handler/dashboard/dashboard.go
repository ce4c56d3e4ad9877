// Package dashboard implements the landing page after login.
package dashboard

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
	// Path is the path to the dashboard page.
	Path = "/dashboard"

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"
)

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg    *config.Config
	db     *gorm.DB
	engine *settings.Engine
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, engine *settings.Engine) error {
	if app == nil || cfg == nil || db == nil || engine == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.db = db
	s.engine = engine

	app.Get(Path, s.Get)

	return nil
}

// Get renders the dashboard with the effective site settings applied.
func (s *Service) Get(c *fiber.Ctx) error {
	resolved, err := s.engine.Resolve(settings.ScopeGlobal, settings.SystemOwnerID)
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve global settings")

		return c.SendStatus(fiber.StatusInternalServerError)
	}

	var userCount int64
	if err = s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		log.Warn().Err(err).Msg("failed to count users for dashboard")
	}

	siteName, _ := resolved.Get(settings.CategoryGeneral, "siteName")
	maintenance, _ := resolved.Get(settings.CategoryGeneral, "maintenanceMode")

	nav := navigation.NewContext("Dashboard", "dashboard", "overview").
		AddBreadcrumb("Home", Path, true)

	return c.Render(TemplateName, fiber.Map{
		"Title":           s.cfg.Title,
		"Nav":             nav,
		"CurrentUser":     c.Locals(auth.CurrentUserKey),
		"SiteName":        siteName,
		"MaintenanceMode": maintenance == true,
		"UserCount":       userCount,
		"Stale":           resolved.Stale,
	}, handler.BaseLayout)
}
