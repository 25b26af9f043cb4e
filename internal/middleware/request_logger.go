package middleware

import (
	"fmt"
	"net/http"
	"time"

	"ecadmin/internal/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// メトリクスの記録先
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

// RequestLoggerはrequest_idを振り、1リクエスト1行のログを出す。
// panicはここでrecoverして500にする。
func RequestLogger(logger zerolog.Logger, observer HTTPObserver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			start := time.Now()
			req := c.Request()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c.Set(CtxRequestIDKey, requestID)
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			l := logger.With().Str("request_id", requestID).Logger()
			c.SetRequest(req.WithContext(l.WithContext(req.Context())))

			defer func() {
				if r := recover(); r != nil {
					l.Error().
						Str("method", req.Method).
						Str("path", req.URL.Path).
						Str("panic", fmt.Sprintf("%v", r)).
						Msg("panic recovered")
					err = response.Internal(c)
				}
				finish(c, l, observer, start)
			}()

			if err = next(c); err != nil {
				//echoのHTTPError（404ルートなど）をここで書き出す
				c.Error(err)
				err = nil
			}
			return err
		}
	}
}

func finish(c echo.Context, l zerolog.Logger, observer HTTPObserver, start time.Time) {
	req := c.Request()
	status := c.Response().Status
	elapsed := time.Since(start)

	ev := l.Info()
	if status >= http.StatusInternalServerError {
		ev = l.Error()
	} else if status >= http.StatusBadRequest {
		ev = l.Warn()
	}

	if p, ok := PrincipalFrom(c); ok {
		ev = ev.Int64("user_id", p.UserID)
	}
	ev.Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("route", c.Path()).
		Int("status", status).
		Dur("latency", elapsed).
		Msg("request completed")

	if observer != nil {
		observer.ObserveHTTP(req.Method, c.Path(), status, elapsed)
	}
}
