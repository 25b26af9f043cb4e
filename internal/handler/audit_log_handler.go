package handler

import (
	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"
	"ecadmin/internal/usecase"
	"ecadmin/internal/validator"

	"github.com/labstack/echo/v4"
)

// /audit-logs はadminのみ（参照だけ）
type AuditLogHandler struct {
	uc *usecase.AuditLogUsecase
}

func NewAuditLogHandler(uc *usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{uc: uc}
}

func (h *AuditLogHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/audit-logs", h.list)
}

func (h *AuditLogHandler) list(c echo.Context) error {
	q, err := listQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	f := repo.AuditLogFilter{ListQuery: q}

	if f.ActorUserID, err = queryInt64Ptr(c, "actor_user_id"); err != nil {
		return writeError(c, err)
	}
	if f.ResourceID, err = queryInt64Ptr(c, "resource_id"); err != nil {
		return writeError(c, err)
	}
	if v := c.QueryParam("action"); v != "" {
		a := model.AuditAction(v)
		f.Action = &a
	}
	if v := c.QueryParam("resource_type"); v != "" {
		rt := model.AuditResourceType(v)
		f.ResourceType = &rt
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := validator.Timestamp("from", v)
		if err != nil {
			return writeError(c, err)
		}
		f.CreatedFrom = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := validator.Timestamp("to", v)
		if err != nil {
			return writeError(c, err)
		}
		f.CreatedTo = &t
	}

	logs, page, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return okPage(c, logs, page)
}
