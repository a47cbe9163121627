// Package web provides the HTTP surface: the fiber app, its middlewares and the
// guarded controller routes.
package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/permgate/permgate/internal/config"
	fiberlogger "github.com/permgate/permgate/internal/logger/adapter/fiber"
	"github.com/permgate/permgate/internal/web/handler"
	"github.com/permgate/permgate/internal/web/handler/catalog"
	"github.com/permgate/permgate/internal/web/handler/profile"
	"github.com/permgate/permgate/internal/web/handler/registration"
	"github.com/permgate/permgate/internal/web/handler/role"
	"github.com/permgate/permgate/internal/web/handler/rolepermission"
	"github.com/permgate/permgate/internal/web/handler/security"
	"github.com/permgate/permgate/internal/web/handler/user"
	"github.com/permgate/permgate/internal/web/middleware/access"
	"github.com/permgate/permgate/internal/web/middleware/authn"
)

const (
	// CheckAlivePath answers 200 while the service accepts traffic.
	CheckAlivePath = "/checkalive"
	// MetricsPath serves the prometheus metrics.
	MetricsPath = "/metrics"

	defaultAppName = "permgate"
)

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Controllers returns every controller of the HTTP surface in mount order.
func Controllers(deps *handler.Deps) []handler.Service {
	return []handler.Service{
		security.New(deps),
		registration.New(deps),
		profile.New(deps),
		user.New(deps),
		role.New(deps),
		rolepermission.New(deps),
		catalog.New(deps),
	}
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

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for a termination signal and shuts the web service down gracefully.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

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

	log.Info().Msg("stopping http server ...")

	if err := s.App.Shutdown(); err != nil {
		log.Error().Err(err).Msg("")
	}

	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates the web service and mounts the given controllers behind the access checker.
func New(cfg *config.Config, deps *handler.Deps, checker access.Checker, controllers []handler.Service) (*Service, error) {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if deps == nil || checker == nil {
		panic("dependencies cannot be nil")
	}

	appName := cfg.Title
	if appName == "" {
		appName = defaultAppName
	}

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        appName,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			BodyLimit:      cfg.Webserver.BodyLimit,
			JSONEncoder:    json.Marshal,
			JSONDecoder:    json.Unmarshal,
			ErrorHandler:   errorHandler,
		},
	)

	service := &Service{
		App:          app,
		cfg:          cfg,
		fastShutDown: cfg.DevMode,
	}
	service.alive.Store(true)

	if !cfg.Webserver.DisableRecover {
		app.Use(recover.New())
	}

	if cfg.Webserver.CleanPath {
		app.Use(cleanPath)
	}

	app.Use(fiberlogger.New(fiberlogger.Config{
		Config:        cfg.Log,
		CheckAliveURI: CheckAlivePath,
		Subject:       authn.Subject,
	}))

	app.Get(CheckAlivePath, service.checkAlive)
	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(authn.New(deps.Tokens, deps.DB, deps.Cache).Handler())

	hook := access.New(checker)

	for _, controller := range controllers {
		if err := handler.Mount(app, hook, controller); err != nil {
			return nil, err
		}
	}

	return service, nil
}

func (s *Service) checkAlive(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}

// cleanPath collapses repeated slashes before routing.
func cleanPath(c *fiber.Ctx) error {
	if p := c.Path(); strings.Contains(p, "//") {
		c.Path(path.Clean(p))
	}

	return c.Next()
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	} else {
		log.Error().Err(err).Str("path", c.Path()).Msg("unhandled request error")
	}

	return c.Status(code).JSON(fiber.Map{"message": http.StatusText(code)})
}
