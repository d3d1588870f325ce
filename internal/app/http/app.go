package httpapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/arl/statsviz"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nerdhub/internal/lib/apperr"
	appmiddleware "nerdhub/internal/middleware"
	appsession "nerdhub/internal/session"
	httprouters "nerdhub/internal/transport/http"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Options struct {
	Host          string
	Port          string
	Debug         bool
	SessionSecret string
	// AssetsDir содержит каталог imagens/, раздается как статика.
	AssetsDir string
}

type Server struct {
	m       *http.ServeMux
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	active  *appsession.Session
	opts    Options
}

func New(log *slog.Logger, opts Options, active *appsession.Session, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Validator = &CustomValidator{validator: apperr.NewValidator()}

	e.Use(middleware.Recover())
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(opts.SessionSecret))))
	e.Use(appmiddleware.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	mux := http.NewServeMux()
	if opts.Debug {
		if err := statsviz.Register(mux); err != nil {
			log.Warn("statsviz start with error", slog.String("error", err.Error()))
		}
	}

	s := &Server{
		m:       mux,
		log:     log,
		e:       e,
		routers: routers,
		active:  active,
		opts:    opts,
	}

	s.BuildRouters()

	return s
}

// Handler нужен тестам, чтобы поднять сервер через httptest.
func (s *Server) Handler() http.Handler {
	return s.e
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("addr", s.addr()))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) addr() string {
	return net.JoinHostPort(s.opts.Host, s.opts.Port)
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(s.addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping http server", slog.String("op", op))

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) BuildRouters() {
	s.e.GET("/health", s.routers.Health)
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	if s.opts.AssetsDir != "" {
		s.e.Static("/imagens", s.opts.AssetsDir+"/imagens")
	}

	if s.opts.Debug {
		debug := s.e.Group("/debug")
		{
			debug.GET("/statsviz/", echo.WrapHandler(s.m))
			debug.GET("/statsviz/*", echo.WrapHandler(s.m))
		}
	}

	api := s.e.Group("/api/v1")
	{
		api.POST("/register", s.routers.Register)
		api.POST("/login", s.routers.Login)
		api.POST("/logout", s.routers.Logout)

		api.GET("/products", s.routers.ListProducts)
		api.GET("/products/:id", s.routers.GetProduct)

		requireLogin := appmiddleware.RequireLogin(s.active)

		api.GET("/cart", s.routers.GetCart, requireLogin)
		api.DELETE("/cart", s.routers.ClearCart, requireLogin)
		api.POST("/cart/items", s.routers.AddCartItem, requireLogin)
		api.DELETE("/cart/items/:product_id", s.routers.RemoveCartItem, requireLogin)

		api.GET("/profile", s.routers.GetProfile, requireLogin)
		api.PATCH("/profile", s.routers.UpdateProfile, requireLogin)
		api.PUT("/profile/password", s.routers.ChangePassword, requireLogin)
	}
}
