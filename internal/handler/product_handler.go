package handler

import (
	"net/http"

	"ecadmin/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /products 公開APIと管理API
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// GETは公開、書き込みはadminのmiddlewareを付ける
func (h *ProductHandler) RegisterRoutes(g *echo.Group, admin ...echo.MiddlewareFunc) {
	g.GET("/products", h.list)
	g.GET("/products/:id", h.detail)

	g.POST("/products", h.create, admin...)
	g.PUT("/products/:id", h.update, admin...)
	g.DELETE("/products/:id", h.delete, admin...)
}

func (h *ProductHandler) list(c echo.Context) error {
	q, err := listQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	items, page, err := h.uc.ListPublicProducts(c.Request().Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return okPage(c, items, page)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	p, err := h.uc.GetProductDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, p)
}

func (h *ProductHandler) create(c echo.Context) error {
	var req usecase.ProductInput
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	p, err := h.uc.AdminCreateProduct(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusCreated, p)
}

func (h *ProductHandler) update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req usecase.ProductInput
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	p, err := h.uc.AdminUpdateProduct(c.Request().Context(), id, req)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, p)
}

// 論理削除（is_active=false）
func (h *ProductHandler) delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.AdminDeleteProduct(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return okMessage(c, "deleted")
}
