package handler

import (
	"net/http"
	"strings"

	"ecadmin/internal/apperr"
	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"
	"ecadmin/internal/usecase"
	"ecadmin/internal/validator"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type orderCreateRequest struct {
	Items             []usecase.OrderItemInput `json:"items"`
	ShippingAddress   *model.ShippingAddress   `json:"shipping_address"`
	UseDefaultAddress bool                     `json:"use_default_address"`
}

// itemsが無ければ明細は触らない。[]なら空注文としてエラー
type orderUpdateRequest struct {
	Items             *[]usecase.OrderItemInput `json:"items"`
	ShippingAddress   *model.ShippingAddress    `json:"shipping_address"`
	UseDefaultAddress bool                      `json:"use_default_address"`
}

// gはAuthJWT済み、adminはGET /orders に付ける
func (h *OrderHandler) RegisterRoutes(g *echo.Group, admin ...echo.MiddlewareFunc) {
	g.POST("/orders", h.create)
	g.GET("/orders/me", h.listMine)
	g.GET("/orders", h.listAdmin, admin...)
	g.GET("/orders/:id", h.detail)
	g.PUT("/orders/:id", h.update)
	g.POST("/orders/:id/cancel", h.cancel)
	g.POST("/orders/:id/advance", h.advance)
}

func (h *OrderHandler) create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}

	var req orderCreateRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	if err := validator.OrderItems(req.Items); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Create(c.Request().Context(), p, usecase.CreateOrderInput{
		Items:             req.Items,
		Address:           req.ShippingAddress,
		UseDefaultAddress: req.UseDefaultAddress,
	})
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusCreated, out)
}

func (h *OrderHandler) update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req orderUpdateRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}

	in := usecase.UpdateOrderInput{
		Address:           req.ShippingAddress,
		UseDefaultAddress: req.UseDefaultAddress,
	}
	if req.Items != nil {
		if err := validator.OrderItems(*req.Items); err != nil {
			return writeError(c, err)
		}
		in.Items = *req.Items
		in.ReplaceItems = true
	}

	out, err := h.uc.Update(c.Request().Context(), p, id, in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, out)
}

func (h *OrderHandler) cancel(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Cancel(c.Request().Context(), p, id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, out)
}

// pending→paid（本人）、paid→shipped（admin）
func (h *OrderHandler) advance(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Advance(c.Request().Context(), p, id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Get(c.Request().Context(), p, id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, out)
}

func (h *OrderHandler) listMine(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	q, err := listQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	out, page, err := h.uc.ListMine(c.Request().Context(), p, q)
	if err != nil {
		return writeError(c, err)
	}
	return okPage(c, out, page)
}

// ?status=pending,paid&user_id=1
func (h *OrderHandler) listAdmin(c echo.Context) error {
	q, err := listQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	userID, err := queryInt64Ptr(c, "user_id")
	if err != nil {
		return writeError(c, err)
	}
	statuses, err := parseStatuses(c.QueryParam("status"))
	if err != nil {
		return writeError(c, err)
	}

	rows, page, err := h.uc.ListAdmin(c.Request().Context(), repo.AdminOrderListFilter{
		ListQuery: q,
		Statuses:  statuses,
		UserID:    userID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return okPage(c, rows, page)
}

func parseStatuses(raw string) ([]model.OrderStatus, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var out []model.OrderStatus
	for _, s := range strings.Split(raw, ",") {
		st, err := model.ParseOrderStatus(strings.TrimSpace(s))
		if err != nil {
			return nil, apperr.Validation("invalid status")
		}
		out = append(out, st)
	}
	return out, nil
}
