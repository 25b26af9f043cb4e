package middleware

import (
	"context"

	"ecadmin/internal/apperr"
	"ecadmin/internal/domain/model"
	"ecadmin/internal/response"
	"ecadmin/internal/usecase"

	"github.com/labstack/echo/v4"
)

const (
	CtxPrincipalKey = "principal" // usecase.Principal
	CtxRequestIDKey = "request_id"
)

// bearerからPrincipalを解決する約束
type PrincipalResolver interface {
	Resolve(ctx context.Context, bearer string, required ...model.Role) (usecase.Principal, error)
}

// AuthJWTは署名・期限・is_active・token_versionを確認してPrincipalをcontextに入れる。
// rolesを渡すとそのロール以外は403。
func AuthJWT(resolver PrincipalResolver, roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authz := c.Request().Header.Get(echo.HeaderAuthorization)

			p, err := resolver.Resolve(c.Request().Context(), authz, roles...)
			if err != nil {
				return response.Error(c, err)
			}

			c.Set(CtxPrincipalKey, p)
			return next(c)
		}
	}
}

// RequireRoleはAuthJWTの後ろで使う
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return response.Error(c, apperr.Unauthenticated("unauthorized"))
			}
			for _, r := range roles {
				if p.Role == r {
					return next(c)
				}
			}
			return response.Error(c, apperr.Forbidden("insufficient role"))
		}
	}
}

func PrincipalFrom(c echo.Context) (usecase.Principal, bool) {
	p, ok := c.Get(CtxPrincipalKey).(usecase.Principal)
	return p, ok && p.UserID > 0
}
