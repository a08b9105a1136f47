package model

import "time"

// User 表示系统用户。
//
// 新注册的用户处于未激活状态，通过邮箱验证码激活后才能登录。
type User struct {
	ID             uint       `gorm:"primaryKey"`                    // 用户 ID
	Email          string     `gorm:"type:varchar(191);uniqueIndex"` // 邮箱（唯一）
	FirstName      string     `gorm:"type:varchar(64)"`              // 名
	LastName       string     `gorm:"type:varchar(64)"`              // 姓
	HashedPassword string     // bcrypt 哈希（可为空）
	IsActive       bool       `gorm:"default:false"` // 是否已激活
	LastLogin      *time.Time // 上次登录时间
	CreatedAt      time.Time  // 创建时间
}
