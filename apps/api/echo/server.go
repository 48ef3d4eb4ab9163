// Package echoapi exposes the HTTP API on labstack/echo.
package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/kasanda/chuo/core"
	"github.com/kasanda/chuo/core/academic"
	"github.com/kasanda/chuo/core/notification"
	"github.com/kasanda/chuo/core/user"
)

type (
	Options struct {
		Conf           *core.Config
		DisableReqLogs bool

		UserSvc     *user.Service
		AcademicSvc *academic.Service
		NotifSvc    *notification.Service

		Validate   *validator.Validate
		Translator ut.Translator
		Logger     core.Logger

		// SignalShutdown is called when a request surfaces an unrecoverable
		// error and the app should stop serving.
		SignalShutdown func()
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.opts.SignalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	tokenSvc := newTokenService(conf)
	v1 := s.app.Group("/api")
	jwt := middleware.JWTWithConfig(tokenSvc.jwtConfig)
	authed := []echo.MiddlewareFunc{jwt, activeUserMiddleware(s.opts.UserSvc)}

	registerUserAPI(v1, authed, tokenSvc, s.opts.UserSvc, s.opts.Validate)
	registerAcademicAPI(v1, authed, s.opts.AcademicSvc, s.opts.UserSvc, s.opts.Validate)
	registerNotificationAPI(v1, authed, s.opts.NotifSvc, s.opts.UserSvc)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Conf.Server.Address())
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Chuo API!")
}
