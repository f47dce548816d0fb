// File: internal/handler/auth/refresh.go
package auth

import (
	"fmt"
	"net/http"

	"melody-mart/internal/api"
	"melody-mart/internal/cache"
	"melody-mart/internal/database"
	"melody-mart/internal/service"
	"melody-mart/internal/store"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RefreshHandler 以更新令牌換發新的存取令牌
// @Summary     換發存取令牌
// @Description 驗證更新令牌後發行新的存取令牌，原更新令牌維持有效
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body api.RefreshRequest true "更新令牌"
// @Success     200 {object} api.TokenResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /auth/refresh [post]
func RefreshHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RefreshRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		ctx := c.Request().Context()

		data, err := service.ValidateRefreshToken(ctx, rdb, req.RefreshToken)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or expired refresh token"})
		}

		userID, err := primitive.ObjectIDFromHex(data.UserID)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or expired refresh token"})
		}

		// 令牌持有者必須仍然存在，被刪除的帳號不可續命
		user, err := store.GetUserByID(ctx, db, userID)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "user no longer exists"})
		}

		token, err := service.IssueAccessToken(*user, AccessTokenTTL)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: fmt.Sprintf("failed to issue token: %v", err)})
		}

		return c.JSON(http.StatusOK, api.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int(AccessTokenTTL.Seconds()),
		})
	}
}
