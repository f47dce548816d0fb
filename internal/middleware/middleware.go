package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"melody-mart/internal/model"
	"melody-mart/internal/service"

	"github.com/labstack/echo/v4"
)

const ContextUserKey = "principal"

// extractPrincipal 解析 Bearer token 並在邊界就把匿名請求拒絕，
// 之後的守衛一律收到確定存在的 Principal
func extractPrincipal(c echo.Context) (service.Principal, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return service.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return service.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
	}
	claims, err := service.VerifyAccessToken(parts[1])
	if err != nil {
		return service.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, fmt.Sprintf("invalid token: %v", err))
	}
	p, err := service.PrincipalFromClaims(claims)
	if err != nil {
		return service.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	return p, nil
}

func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := extractPrincipal(c)
		if err != nil {
			return err
		}
		c.Set(ContextUserKey, p)
		return next(c)
	}
}

func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return RequireAuth(func(c echo.Context) error {
		p := c.Get(ContextUserKey).(service.Principal)
		if p.Role != model.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin privileges required")
		}
		return next(c)
	})
}

// Principal 取出中介層放入的操作者；未經 RequireAuth 的路由回傳 false
func Principal(c echo.Context) (service.Principal, bool) {
	p, ok := c.Get(ContextUserKey).(service.Principal)
	return p, ok
}
