package handler

import (
	"net/http"
	"strconv"

	"ecadmin/internal/apperr"
	repo "ecadmin/internal/repository"
	"ecadmin/internal/response"

	"github.com/labstack/echo/v4"
)

func ok(c echo.Context, status int, data interface{}) error {
	return response.OK(c, status, data)
}

func okPage(c echo.Context, data interface{}, p repo.Pagination) error {
	return response.Page(c, data, p)
}

type messageDTO struct {
	Message string `json:"message"`
}

func okMessage(c echo.Context, msg string) error {
	return ok(c, http.StatusOK, messageDTO{Message: msg})
}

func writeError(c echo.Context, err error) error {
	return response.Error(c, err)
}

// bodyのJSONを読む。壊れていたら400
func bind(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return apperr.Validation("invalid body")
	}
	return nil
}

func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid " + name)
	}
	return id, nil
}

// page/limit/sortBy/order/search を読む。範囲の丸めはusecase側のNormalize
func listQuery(c echo.Context) (repo.ListQuery, error) {
	q := repo.ListQuery{
		SortBy: c.QueryParam("sortBy"),
		Order:  c.QueryParam("order"),
		Search: c.QueryParam("search"),
	}
	var err error
	if q.Page, err = queryInt(c, "page"); err != nil {
		return q, err
	}
	if q.Limit, err = queryInt(c, "limit"); err != nil {
		return q, err
	}
	return q, nil
}

func queryInt(c echo.Context, name string) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperr.Validation("invalid " + name)
	}
	return n, nil
}

func queryInt64Ptr(c echo.Context, name string) (*int64, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return nil, apperr.Validation("invalid " + name)
	}
	return &n, nil
}
