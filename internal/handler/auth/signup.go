// File: internal/handler/auth/signup.go
package auth

import (
	"net/http"
	"strings"

	"melody-mart/internal/api"
	"melody-mart/internal/database"
	"melody-mart/internal/model"
	"melody-mart/internal/service"
	"melody-mart/internal/store"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
)

// SignupHandler 註冊新使用者
// @Summary     註冊使用者
// @Description 建立新帳號 (Email 會自動轉小寫)，角色固定為 user
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body api.SignupRequest true "註冊資料"
// @Success     201 {object} api.UserResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     409 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /auth/signup [post]
func SignupHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.SignupRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Message: err.Error()})
		}

		// Email 轉為小寫以確保唯一索引一致性
		req.Email = strings.ToLower(req.Email)

		hash, err := service.HashPassword(req.Password)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "failed to hash password"})
		}

		// 註冊入口一律建立一般使用者，管理員只能由既有管理員指派
		user := &model.User{
			Role:         model.RoleUser,
			PasswordHash: hash,
			Name:         model.UserName{FirstName: req.FirstName, LastName: req.LastName},
			PhoneNumber:  req.PhoneNumber,
			Email:        req.Email,
			Address:      req.Address,
			Avatar:       req.Avatar,
		}

		created, err := store.CreateUser(c.Request().Context(), db, user)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return c.JSON(http.StatusConflict, api.ErrorResponse{Message: store.DuplicateKeyMessage(err)})
			}
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: err.Error()})
		}

		return c.JSON(http.StatusCreated, api.NewUserResponse(created))
	}
}
