package store

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound 查無目標文件
	ErrNotFound = errors.New("document not found")
	// ErrSellerNotFound 商品的 addedBy 不是現存的 admin 使用者
	ErrSellerNotFound = errors.New("requested seller not found")
)

// DuplicateKeyMessage 依唯一索引名稱辨識衝突欄位的對外訊息。
// users 集合有 email 與 phoneNumber 兩個唯一索引
func DuplicateKeyMessage(err error) string {
	if strings.Contains(err.Error(), "users_phone_unique") {
		return "phone number already registered"
	}
	return "email already registered"
}
