package server

import (
	"net/http"

	"ecadmin/internal/domain/model"
	"ecadmin/internal/infra/metrics"
	"ecadmin/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func RegisterRoutes(e *echo.Echo, m *metrics.Metrics, resolver middleware.PrincipalResolver, h Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{})))

	api := e.Group("/api")
	adminOnly := middleware.AuthJWT(resolver, model.RoleAdmin)

	// 公開（書き込みだけadmin）
	h.Auth.RegisterRoutes(api)
	h.Product.RegisterRoutes(api, adminOnly)
	h.Announcement.RegisterRoutes(api, adminOnly)

	// ログイン必須
	authed := api.Group("", middleware.AuthJWT(resolver))
	h.Me.RegisterRoutes(authed)
	h.Order.RegisterRoutes(authed, middleware.RequireRole(model.RoleAdmin))

	// admin専用
	admin := api.Group("", adminOnly)
	h.Discount.RegisterRoutes(admin)
	h.User.RegisterRoutes(admin)
	h.AuditLog.RegisterRoutes(admin)
}
