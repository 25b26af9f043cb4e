package handler

import (
	"net/http"

	"ecadmin/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /me と /me/addresses
type MeHandler struct {
	users     *usecase.UserUsecase
	addresses *usecase.AddressUsecase
}

func NewMeHandler(users *usecase.UserUsecase, addresses *usecase.AddressUsecase) *MeHandler {
	return &MeHandler{users: users, addresses: addresses}
}

// gはAuthJWT済みのグループ
func (h *MeHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/me", h.get)
	g.PUT("/me", h.update)
	g.DELETE("/me", h.delete)

	g.GET("/me/addresses", h.listAddresses)
	g.POST("/me/addresses", h.createAddress)
	g.PUT("/me/addresses/:id", h.updateAddress)
	g.DELETE("/me/addresses/:id", h.deleteAddress)
	g.POST("/me/addresses/:id/default", h.setDefaultAddress)
}

func (h *MeHandler) get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.users.GetMe(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, out)
}

func (h *MeHandler) update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	var req usecase.UpdateUserInput
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.users.UpdateMe(c.Request().Context(), p, req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, out)
}

// 退会。個人情報を匿名化してtoken_versionを上げる
func (h *MeHandler) delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.users.DeleteMe(c.Request().Context(), p); err != nil {
		return writeError(c, err)
	}
	return okMessage(c, "deleted")
}

func (h *MeHandler) listAddresses(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.addresses.List(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, list)
}

func (h *MeHandler) createAddress(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	var req usecase.AddressRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.addresses.Create(c.Request().Context(), p, req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusCreated, out)
}

func (h *MeHandler) updateAddress(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req usecase.AddressRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.addresses.Update(c.Request().Context(), p, id, req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, out)
}

func (h *MeHandler) deleteAddress(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.addresses.Delete(c.Request().Context(), p, id); err != nil {
		return writeError(c, err)
	}
	return okMessage(c, "deleted")
}

func (h *MeHandler) setDefaultAddress(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.addresses.SetDefault(c.Request().Context(), p, id); err != nil {
		return writeError(c, err)
	}
	return okMessage(c, "default set")
}
