package handler

import (
	"net/http"

	"ecadmin/internal/domain/model"
	"ecadmin/internal/usecase"
	"ecadmin/internal/validator"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /discounts はadminのみ
type DiscountHandler struct {
	uc *usecase.DiscountUsecase
}

func NewDiscountHandler(uc *usecase.DiscountUsecase) *DiscountHandler {
	return &DiscountHandler{uc: uc}
}

type discountRequest struct {
	ProductID int64           `json:"product_id"`
	Type      string          `json:"type"`
	Value     decimal.Decimal `json:"value"`
	StartAt   string          `json:"start_at"`
	EndAt     string          `json:"end_at"`
}

func (r discountRequest) toInput() (usecase.DiscountInput, error) {
	start, err := validator.Timestamp("start_at", r.StartAt)
	if err != nil {
		return usecase.DiscountInput{}, err
	}
	end, err := validator.Timestamp("end_at", r.EndAt)
	if err != nil {
		return usecase.DiscountInput{}, err
	}
	return usecase.DiscountInput{
		ProductID: r.ProductID,
		Type:      model.DiscountType(r.Type),
		Value:     r.Value,
		StartAt:   start,
		EndAt:     end,
	}, nil
}

// gはadmin限定のグループ
func (h *DiscountHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/discounts", h.list)
	g.GET("/discounts/:id", h.detail)
	g.POST("/discounts", h.create)
	g.PUT("/discounts/:id", h.update)
	g.DELETE("/discounts/:id", h.delete)
}

func (h *DiscountHandler) list(c echo.Context) error {
	q, err := listQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	items, page, err := h.uc.List(c.Request().Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return okPage(c, items, page)
}

func (h *DiscountHandler) detail(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	d, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, d)
}

func (h *DiscountHandler) create(c echo.Context) error {
	var req discountRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	in, err := req.toInput()
	if err != nil {
		return writeError(c, err)
	}
	d, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusCreated, d)
}

func (h *DiscountHandler) update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req discountRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	in, err := req.toInput()
	if err != nil {
		return writeError(c, err)
	}
	d, err := h.uc.Update(c.Request().Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, d)
}

func (h *DiscountHandler) delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return okMessage(c, "deleted")
}
