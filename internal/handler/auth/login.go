// File: internal/handler/auth/login.go
package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"melody-mart/internal/api"
	"melody-mart/internal/cache"
	"melody-mart/internal/database"
	"melody-mart/internal/service"
	"melody-mart/internal/store"

	"github.com/labstack/echo/v4"
)

const (
	// AccessTokenTTL 存取令牌有效期
	AccessTokenTTL = 24 * time.Hour
	// RefreshTokenTTL 更新令牌有效期
	RefreshTokenTTL = 30 * 24 * time.Hour
)

// LoginHandler 使用 Email/Password 驗證並回傳 JWT
// @Summary     登入使用者
// @Description 使用 Email 與 Password 進行驗證，回傳存取令牌與更新令牌
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body api.LoginRequest true "登入資料"
// @Success     200 {object} api.TokenResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /auth/login [post]
func LoginHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		// 先 Bind
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: fmt.Sprintf("invalid request body: %v", err)})
		}
		// 再驗證結構化參數 (go-playground/validator)
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		ctx := c.Request().Context()

		// 撈使用者資料
		user, err := store.GetUserByEmail(ctx, db, strings.ToLower(req.Email))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid credentials"})
		}

		// 驗證密碼
		if err := service.AuthenticateUser(ctx, *user, req.Password); err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid credentials"})
		}

		// 發行存取令牌
		token, err := service.IssueAccessToken(*user, AccessTokenTTL)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: fmt.Sprintf("failed to issue token: %v", err)})
		}

		// 發行更新令牌並寫入快取
		refresh, err := service.IssueRefreshToken(ctx, rdb, user.ID.Hex(), user.Role, RefreshTokenTTL)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: fmt.Sprintf("failed to issue refresh token: %v", err)})
		}

		return c.JSON(http.StatusOK, api.TokenResponse{
			AccessToken:  token,
			TokenType:    "Bearer",
			ExpiresIn:    int(AccessTokenTTL.Seconds()),
			RefreshToken: refresh,
			User:         api.NewUserResponse(user),
		})
	}
}
