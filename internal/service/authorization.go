// File: internal/service/authorization.go
package service

import (
	"errors"

	"melody-mart/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrInvalidOwner 操作者不是紀錄的擁有者，屬用戶端錯誤
	ErrInvalidOwner = errors.New("invalid owner")
	// ErrUnknownOwner 擁有者欄位無法正規化為識別字串
	ErrUnknownOwner = errors.New("unknown owner reference")
)

// Principal 為已通過認證的操作者。匿名請求必須在中介層就被拒絕，
// 守衛一律收到確定存在的 Principal，不存在 fail-open 路徑
type Principal struct {
	ID   primitive.ObjectID
	Role model.Role
}

// PrincipalFromClaims 由 JWT claims 還原 Principal
func PrincipalFromClaims(claims *CustomClaims) (Principal, error) {
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return Principal{}, err
	}
	if !claims.Role.Valid() {
		return Principal{}, errors.New("unknown role in claims")
	}
	return Principal{ID: id, Role: claims.Role}, nil
}

// OwnerID 將擁有者欄位正規化為識別字串。
// 欄位可能是原始 ObjectID、其 hex 字串，或 populate 後的使用者文件
func OwnerID(owner any) (string, error) {
	switch v := owner.(type) {
	case primitive.ObjectID:
		return v.Hex(), nil
	case string:
		if _, err := primitive.ObjectIDFromHex(v); err != nil {
			return "", ErrUnknownOwner
		}
		return v, nil
	case model.User:
		return v.ID.Hex(), nil
	case *model.User:
		if v == nil {
			return "", ErrUnknownOwner
		}
		return v.ID.Hex(), nil
	case model.PublicUser:
		return v.ID.Hex(), nil
	case *model.PublicUser:
		if v == nil {
			return "", ErrUnknownOwner
		}
		return v.ID.Hex(), nil
	}
	return "", ErrUnknownOwner
}

// AuthorizeMutation 判定操作者是否可以變更一筆有擁有者的紀錄。
// 比對採識別字串，不用參考相等，因為一側可能是 populate 後的文件。
// 角色列舉採窮舉匹配，未知角色一律拒絕
func AuthorizeMutation(owner any, p Principal) error {
	ownerID, err := OwnerID(owner)
	if err != nil {
		return err
	}
	switch p.Role {
	case model.RoleUser, model.RoleAdmin:
		if ownerID != p.ID.Hex() {
			return ErrInvalidOwner
		}
		return nil
	}
	return ErrInvalidOwner
}
