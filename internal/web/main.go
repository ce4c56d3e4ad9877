package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/template/html/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/accelerator-admin/accelerator-admin/internal/config"
	fiberlogger "github.com/accelerator-admin/accelerator-admin/internal/logger/adapter/fiber"
	"github.com/accelerator-admin/accelerator-admin/internal/settings"
	"github.com/accelerator-admin/accelerator-admin/internal/web/handler"
	"github.com/accelerator-admin/accelerator-admin/internal/web/handler/dashboard"
	"github.com/accelerator-admin/accelerator-admin/internal/web/handler/login"
	"github.com/accelerator-admin/accelerator-admin/internal/web/handler/logout"
	settingsglobal "github.com/accelerator-admin/accelerator-admin/internal/web/handler/settings/global"
	settingsprofile "github.com/accelerator-admin/accelerator-admin/internal/web/handler/settings/profile"
	"github.com/accelerator-admin/accelerator-admin/internal/web/middleware/auth"
)

// CheckAliveURI is the liveness endpoint path, excluded from access logging.
const CheckAliveURI = "/checkalive"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	engine       *settings.Engine
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	s.alive.Store(true)

	go s.WaitShutdown()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the web service.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	// Wait interrupt or shutdown request through /shutdown
	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, engine *settings.Engine) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	if engine == nil {
		panic("engine cannot be nil")
	}

	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	// Add template helper functions
	templateEngine.AddFunc("toJSON", func(v any) string {
		out, err := json.Marshal(v)
		if err != nil {
			return ""
		}

		return string(out)
	})

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        "Accelerator Admin",
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          templateEngine,
		},
	)

	// access logging
	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAliveURI,
	}))

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     cfg.Webserver.BrowseStatic,
			},
		),
	)

	// basic auth middleware
	app.Use(auth.Middleware)

	// init web service
	service := &Service{
		cfg:    cfg,
		App:    app,
		db:     db,
		engine: engine,
	}

	// liveness endpoint for load balancers
	app.Get(CheckAliveURI, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.SendStatus(fiber.StatusServiceUnavailable)
		}

		return c.SendStatus(fiber.StatusOK)
	})

	// init handlers (they register their own routes)
	mustInit(app, cfg, db, engine,
		&login.Handler,
		&logout.Handler,
		&dashboard.Handler,
		&settingsglobal.Handler,
		&settingsprofile.Handler,
	)

	// redirect root to dashboard
	app.Get(handler.RootPath, func(c *fiber.Ctx) error {
		return c.Redirect(dashboard.Path)
	})

	return service
}

func mustInit(
	app *fiber.App, cfg *config.Config, db *gorm.DB, engine *settings.Engine, handlers ...handler.Service,
) {
	for _, h := range handlers {
		if err := h.Init(app, cfg, db, engine); err != nil {
			log.Fatal().Err(err).Msgf("failed to init handler %T", h)
		}
	}
}
