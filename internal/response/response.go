package response

import (
	"net/http"

	"ecadmin/internal/apperr"
	repo "ecadmin/internal/repository"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// 全APIで共通のレスポンス。handlerもmiddlewareもここから書く
type Envelope struct {
	Success    bool             `json:"success"`
	Data       interface{}      `json:"data,omitempty"`
	Pagination *repo.Pagination `json:"pagination,omitempty"`
	Error      *ErrorBody       `json:"error,omitempty"`
}

func OK(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Envelope{Success: true, Data: data})
}

func Page(c echo.Context, data interface{}, p repo.Pagination) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Pagination: &p})
}

// ErrorはapperrのKindでstatus/codeを決める。
// apperr以外と500はログに出して、メッセージは伏せる。
func Error(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	e, isApp := apperr.As(err)
	if !isApp || e.Kind == apperr.KindInternal {
		zerolog.Ctx(c.Request().Context()).Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("route", c.Path()).
			Msg("internal error")
		return Internal(c)
	}
	return c.JSON(e.Status(), Envelope{Error: &ErrorBody{Code: e.Code(), Message: e.Message}})
}

// ログは呼び出し側で出している前提
func Internal(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, Envelope{
		Error: &ErrorBody{Code: apperr.KindInternal.Code(), Message: "internal error"},
	})
}
