package model

type ManagerRole string

const (
	ManagerRoleAdmin   ManagerRole = "admin"
	ManagerRoleManager ManagerRole = "manager"
)

// 管理画面に入れるユーザー。認証サービス側で管理され、ここでは読むだけ。
type Manager struct {
	ID       int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Email    string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Role     ManagerRole `gorm:"type:varchar(20);not null;default:'manager'" json:"role"`
	IsActive bool        `gorm:"not null;default:true" json:"is_active"`
}
