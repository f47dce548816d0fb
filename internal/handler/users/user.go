// File: internal/handler/users/user.go
package users

import (
	"errors"
	"net/http"
	"strings"

	"melody-mart/internal/api"
	"melody-mart/internal/database"
	"melody-mart/internal/store"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ListUsersHandler 列出所有使用者（管理員）
// @Summary     List users
// @Description 回傳全部使用者，依建立時間排序
// @Tags        users
// @Produce     json
// @Success     200 {array} api.UserResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /users [get]
func ListUsersHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		users, err := store.ListUsers(c.Request().Context(), db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		resp := make([]*api.UserResponse, 0, len(users))
		for i := range users {
			resp = append(resp, api.NewUserResponse(&users[i]))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// GetUserHandler 透過使用者 ID 取得使用者資訊（管理員）
// @Summary     Get a user by ID
// @Description 透過 ID 查詢並回傳使用者詳細資料
// @Tags        users
// @Produce     json
// @Param       id path string true "使用者 ID"
// @Success     200 {object} api.UserResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /users/{id} [get]
func GetUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		// 解析 path 參數
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid user ID"})
		}

		user, err := store.GetUserByID(c.Request().Context(), db, id)
		if err != nil {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "user not found"})
		}
		return c.JSON(http.StatusOK, api.NewUserResponse(user))
	}
}

// userUpdateSet 將部份更新請求轉為 $set 內容，未帶欄位不變動
func userUpdateSet(req api.UpdateUserRequest) bson.M {
	set := bson.M{}
	if req.FirstName != nil {
		set["name.firstName"] = *req.FirstName
	}
	if req.LastName != nil {
		set["name.lastName"] = *req.LastName
	}
	if req.Email != nil {
		set["email"] = strings.ToLower(*req.Email)
	}
	if req.PhoneNumber != nil {
		set["phoneNumber"] = *req.PhoneNumber
	}
	if req.Address != nil {
		set["address"] = *req.Address
	}
	if req.Avatar != nil {
		set["avatar"] = *req.Avatar
	}
	return set
}

// UpdateUserHandler 更新指定使用者（管理員）
// @Summary     Update a user by ID
// @Description 部份更新使用者資料，未帶欄位不變動
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       id   path string                true "使用者 ID"
// @Param       body body api.UpdateUserRequest true "更新欄位"
// @Success     200 {object} api.UserResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     409 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /users/{id} [patch]
func UpdateUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid user ID"})
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
		if err := store.UpdateUser(ctx, db, id, set); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "user not found"})
			}
			if mongo.IsDuplicateKeyError(err) {
				return c.JSON(http.StatusConflict, api.ErrorResponse{Message: store.DuplicateKeyMessage(err)})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		user, err := store.GetUserByID(ctx, db, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.JSON(http.StatusOK, api.NewUserResponse(user))
	}
}

// DeleteUserHandler 刪除指定 ID 的使用者（管理員）
// @Summary     Delete a user by ID
// @Description 根據使用者 ID 刪除使用者帳號
// @Tags        users
// @Param       id path string true "使用者 ID"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    BearerAuth
// @Router      /users/{id} [delete]
func DeleteUserHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid user ID"})
		}

		if err := store.DeleteUser(c.Request().Context(), db, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Message: "user not found"})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}
		return c.NoContent(http.StatusNoContent)
	}
}
