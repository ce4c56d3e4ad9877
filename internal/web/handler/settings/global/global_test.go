package global

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/accelerator-admin/accelerator-admin/internal/config"
	settingstore "github.com/accelerator-admin/accelerator-admin/internal/db/controller/setting"
	"github.com/accelerator-admin/accelerator-admin/internal/db/models"
	"github.com/accelerator-admin/accelerator-admin/internal/settings"
	"github.com/accelerator-admin/accelerator-admin/internal/web/middleware/auth"
)

type noOpViews struct{}

func (noOpViews) Load() error { return nil }

func (noOpViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	if m, ok := data.(fiber.Map); ok {
		if v, exists := m["Error"]; exists && v != nil {
			if msg, isString := v.(string); isString && msg != "" {
				_, _ = io.WriteString(w, msg)
				return nil
			}
		}
	}

	_, _ = io.WriteString(w, name)

	return nil
}

func newTestConfig() *config.Config {
	return &config.Config{
		Title: "Accelerator Admin",
		Defaults: config.Defaults{
			SiteName:       "Accelerator",
			SiteURL:        "https://accelerator.example.com",
			SupportEmail:   "support@example.com",
			AIProvider:     "openai",
			AIModel:        "gpt-4o",
			AIPersonality:  "balanced",
			AITemperature:  0.7,
			BackupSchedule: "0 3 * * *",
		},
	}
}

func newTestEngine(t *testing.T) (*settings.Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite in-memory db: %v", err)
	}

	if err = db.AutoMigrate(&models.GlobalSetting{}, &models.UserSetting{}); err != nil {
		t.Fatalf("failed to migrate settings models: %v", err)
	}

	store, err := settingstore.NewStore(db)
	if err != nil {
		t.Fatalf("failed to build store: %v", err)
	}

	global, err := settings.NewGlobalRegistry(newTestConfig())
	if err != nil {
		t.Fatalf("failed to build global registry: %v", err)
	}

	user, err := settings.NewUserRegistry(global)
	if err != nil {
		t.Fatalf("failed to build user registry: %v", err)
	}

	engine, err := settings.NewEngine(store, global, user)
	if err != nil {
		t.Fatalf("failed to build engine: %v", err)
	}

	return engine, db
}

// setup builds a fiber app with the handler behind a stub auth middleware
// injecting the given user.
func setup(t *testing.T, user models.User) (*fiber.App, *settings.Engine) {
	t.Helper()

	engine, db := newTestEngine(t)
	app := fiber.New(fiber.Config{Views: noOpViews{}})

	if user.ID > 0 {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals(auth.CurrentUserKey, user)
			return c.Next()
		})
	}

	var s Service
	if err := s.Init(app, newTestConfig(), db, engine); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	return app, engine
}

func performGet(t *testing.T, app *fiber.App) *http.Response {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, Path, nil), -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	return resp
}

func performPost(t *testing.T, app *fiber.App, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	return resp
}

func TestGet_ForbiddenForNonAdmin(t *testing.T) {
	app, _ := setup(t, models.User{ID: 2, Username: "carol", Active: true})

	resp := performGet(t, app)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 Forbidden, got %d", resp.StatusCode)
	}
}

func TestGet_RendersForAdmin(t *testing.T) {
	app, _ := setup(t, models.User{ID: 1, Username: "admin", Active: true, Admin: true})

	resp := performGet(t, app)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", resp.StatusCode)
	}

	bodyBytes, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(bodyBytes), TemplateName) {
		t.Fatalf("expected template name in body, got %q", string(bodyBytes))
	}
}

func TestPost_SavesOverrides(t *testing.T) {
	app, engine := setup(t, models.User{ID: 1, Username: "admin", Active: true, Admin: true})

	form := url.Values{
		"site_name":        {"Changed Site"},
		"maintenance_mode": {"on"},
		"session_timeout":  {"45"},
	}
	resp := performPost(t, app, form)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", resp.StatusCode)
	}

	resolved, err := engine.Resolve(settings.ScopeGlobal, settings.SystemOwnerID)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if v, _ := resolved.Get(settings.CategoryGeneral, "siteName"); v != "Changed Site" {
		t.Fatalf("expected siteName override, got %v", v)
	}

	if v, _ := resolved.Get(settings.CategoryGeneral, "maintenanceMode"); v != true {
		t.Fatalf("expected maintenanceMode true, got %v", v)
	}

	if v, _ := resolved.Get(settings.CategorySecurity, "sessionTimeout"); v != float64(45) {
		t.Fatalf("expected sessionTimeout 45, got %v", v)
	}
}

func TestPost_InvalidEmailRejected(t *testing.T) {
	app, engine := setup(t, models.User{ID: 1, Username: "admin", Active: true, Admin: true})

	form := url.Values{
		"support_email": {"not-an-email"},
	}
	resp := performPost(t, app, form)

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 Bad Request, got %d", resp.StatusCode)
	}

	// nothing was written
	resolved, err := engine.Resolve(settings.ScopeGlobal, settings.SystemOwnerID)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if v, _ := resolved.Get(settings.CategoryGeneral, "supportEmail"); v != "support@example.com" {
		t.Fatalf("expected default supportEmail, got %v", v)
	}
}

func TestPost_ForbiddenForNonAdmin(t *testing.T) {
	app, engine := setup(t, models.User{ID: 2, Username: "carol", Active: true})

	resp := performPost(t, app, url.Values{"site_name": {"Hacked"}})

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 Forbidden, got %d", resp.StatusCode)
	}

	resolved, err := engine.Resolve(settings.ScopeGlobal, settings.SystemOwnerID)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if v, _ := resolved.Get(settings.CategoryGeneral, "siteName"); v != "Accelerator" {
		t.Fatalf("expected default siteName, got %v", v)
	}
}

func TestPost_SecretMaskKeepsStoredValue(t *testing.T) {
	app, engine := setup(t, models.User{ID: 1, Username: "admin", Active: true, Admin: true})

	// first write stores the real secret
	resp := performPost(t, app, url.Values{"ai_api_key": {"real-api-key"}})
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", resp.StatusCode)
	}

	// submitting the page again echoes the mask back, which must not overwrite
	resp = performPost(t, app, url.Values{
		"ai_api_key": {settings.SecretMask},
		"site_name":  {"Still Works"},
	})
	_ = resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", resp.StatusCode)
	}

	// the resolved view stays masked
	resolved, err := engine.Resolve(settings.ScopeGlobal, settings.SystemOwnerID)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if v, _ := resolved.Get(settings.CategoryAI, "apiKey"); v != settings.SecretMask {
		t.Fatalf("expected masked apiKey, got %v", v)
	}

	if v, _ := resolved.Get(settings.CategoryGeneral, "siteName"); v != "Still Works" {
		t.Fatalf("expected siteName override, got %v", v)
	}
}
