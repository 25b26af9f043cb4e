package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ecadmin/internal/config"
	"ecadmin/internal/handler"
	"ecadmin/internal/infra/metrics"
	"ecadmin/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// Handlersはルート登録に必要なhandler一式
type Handlers struct {
	Auth         *handler.AuthHandler
	Me           *handler.MeHandler
	Product      *handler.ProductHandler
	Announcement *handler.AnnouncementHandler
	Discount     *handler.DiscountHandler
	User         *handler.UserHandler
	Order        *handler.OrderHandler
	AuditLog     *handler.AuditLogHandler
}

type Server struct {
	echo *echo.Echo
	addr string
	log  zerolog.Logger
}

func New(cfg config.Config, log zerolog.Logger, m *metrics.Metrics, resolver middleware.PrincipalResolver, h Handlers) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestLogger(log, m))
	if len(cfg.CORSOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins: cfg.CORSOrigins,
			AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
		}))
	}

	RegisterRoutes(e, m, resolver, h)

	return &Server{echo: e, addr: ":" + cfg.Port, log: log}
}

func (s *Server) Handler() http.Handler { return s.echo }

// Startはlistenが終わるまでブロックする。Shutdownによる終了はnilを返す
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.addr).Msg("http server started")
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.echo.Shutdown(ctx)
}
