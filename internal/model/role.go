// File: internal/model/role.go
package model

// Role 表示使用者角色，封閉列舉：user 或 admin
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid 回報角色是否為已知值
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}
