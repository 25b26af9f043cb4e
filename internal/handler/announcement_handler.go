package handler

import (
	"net/http"

	"ecadmin/internal/usecase"
	"ecadmin/internal/validator"

	"github.com/labstack/echo/v4"
)

type AnnouncementHandler struct {
	uc *usecase.AnnouncementUsecase
}

func NewAnnouncementHandler(uc *usecase.AnnouncementUsecase) *AnnouncementHandler {
	return &AnnouncementHandler{uc: uc}
}

type announcementRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartAt     string `json:"start_at"`
	EndAt       string `json:"end_at"`
}

// 日付はRFC3339で受け取る
func (r announcementRequest) toInput() (usecase.AnnouncementInput, error) {
	start, err := validator.Timestamp("start_at", r.StartAt)
	if err != nil {
		return usecase.AnnouncementInput{}, err
	}
	end, err := validator.Timestamp("end_at", r.EndAt)
	if err != nil {
		return usecase.AnnouncementInput{}, err
	}
	return usecase.AnnouncementInput{
		Title:       r.Title,
		Description: r.Description,
		StartAt:     start,
		EndAt:       end,
	}, nil
}

func (h *AnnouncementHandler) RegisterRoutes(g *echo.Group, admin ...echo.MiddlewareFunc) {
	g.GET("/announcements", h.list)
	g.GET("/announcements/:id", h.detail)

	g.POST("/announcements", h.create, admin...)
	g.PUT("/announcements/:id", h.update, admin...)
	g.DELETE("/announcements/:id", h.delete, admin...)
}

func (h *AnnouncementHandler) list(c echo.Context) error {
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

func (h *AnnouncementHandler) detail(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	a, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, a)
}

func (h *AnnouncementHandler) create(c echo.Context) error {
	var req announcementRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	in, err := req.toInput()
	if err != nil {
		return writeError(c, err)
	}
	a, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusCreated, a)
}

func (h *AnnouncementHandler) update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req announcementRequest
	if err := bind(c, &req); err != nil {
		return writeError(c, err)
	}
	in, err := req.toInput()
	if err != nil {
		return writeError(c, err)
	}
	a, err := h.uc.Update(c.Request().Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, http.StatusOK, a)
}

func (h *AnnouncementHandler) delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return okMessage(c, "deleted")
}
