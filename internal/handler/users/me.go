// File: internal/handler/users/me.go
package users

import (
	"errors"
	"net/http"

	"melody-mart/internal/api"
	"melody-mart/internal/database"
	"melody-mart/internal/middleware"
	"melody-mart/internal/service"
	"melody-mart/internal/store"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetMeHandler 取得當前使用者資訊
// @Summary     Get current user
// @Description 使用 JWT Token 取得當前使用者詳細資料
// @Tags        users
// @Produce     json
// @Success     200 {object} api.UserResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /users/me [get]
func GetMeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := middleware.Principal(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		user, err := store.GetUserByID(c.Request().Context(), db, p.ID)
		if err != nil {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "user not found"})
		}
		return c.JSON(http.StatusOK, api.NewUserResponse(user))
	}
}

// UpdateMeHandler 更新當前使用者資料
// @Summary     Update current user
// @Description 部份更新當前使用者資料，未帶欄位不變動
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       body body api.UpdateUserRequest true "更新欄位"
// @Success     200 {object} api.UserResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     409 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /users/me [patch]
func UpdateMeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := middleware.Principal(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		var req api.UpdateUserRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		set := userUpdateSet(req)
		if len(set) == 0 {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "no fields to update"})
		}

		ctx := c.Request().Context()
		if err := store.UpdateUser(ctx, db, p.ID, set); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "user not found"})
			}
			if mongo.IsDuplicateKeyError(err) {
				return c.JSON(http.StatusConflict, api.ErrorResponse{Message: store.DuplicateKeyMessage(err)})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		user, err := store.GetUserByID(ctx, db, p.ID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.JSON(http.StatusOK, api.NewUserResponse(user))
	}
}

// UpdatePasswordMeHandler 更新當前使用者密碼
// @Summary     Update current user password
// @Description 驗證舊密碼後更新為新密碼
// @Tags        users
// @Accept      json
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /users/me/password [put]
func UpdatePasswordMeHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := middleware.Principal(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "invalid or missing token"})
		}

		var req api.UpdatePasswordRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		ctx := c.Request().Context()

		user, err := store.GetUserByID(ctx, db, p.ID)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Message: "user not found"})
		}

		// 舊密碼驗證失敗不可更新
		if err := service.AuthenticateUser(ctx, *user, req.OldPassword); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "old password is incorrect"})
		}

		hash, err := service.HashPassword(req.NewPassword)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to hash password"})
		}

		if err := store.UpdateUserPassword(ctx, db, p.ID, hash); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.NoContent(http.StatusNoContent)
	}
}
