package handler

import (
	"net/http"

	"ecadmin/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /users 管理API
type UserHandler struct {
	uc *usecase.UserUsecase
}

func NewUserHandler(uc *usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/users", h.list)
	g.GET("/users/:id", h.detail)
	g.POST("/users", h.create)
	g.PUT("/users/:id", h.update)
	g.DELETE("/users/:id", h.deactivate)
}

func (h *UserHandler) list(c echo.Context) error {
	q, err := listQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	users, page, err := h.uc.List(c.Request().Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return okPage(c, users, page)
}

func (h *UserHandler) detail(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	u, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, u)
}

func (h *UserHandler) create(c echo.Context) error {
	var req usecase.CreateUserInput
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	u, err := h.uc.Create(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusCreated, u)
}

func (h *UserHandler) update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req usecase.UpdateUserInput
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	u, err := h.uc.Update(c.Request().Context(), id, req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, u)
}

// 無効化してtoken_versionを上げる（発行済みトークンは即失効）
func (h *UserHandler) deactivate(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Deactivate(c.Request().Context(), actor, id); err != nil {
		return writeError(c, err)
	}
	return okMessage(c, "deactivated")
}
