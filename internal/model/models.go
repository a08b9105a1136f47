package model

import (
	"time"
)

// Question 表示一个提问。
//
// 问题拥有它的全部回答：删除问题时级联删除其所有回答。
type Question struct {
	ID        uint      `gorm:"primaryKey"` // 问题唯一标识
	CreatedAt time.Time // 创建时间

	Text string `gorm:"type:varchar(2000);not null"` // 问题内容

	Answers []Answer `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"` // 关联的回答列表
}

// Answer 表示针对某个问题的回答。
//
// 回答必须挂在一个已存在的问题下；问题被删除时回答随之删除。
type Answer struct {
	ID        uint      `gorm:"primaryKey"` // 回答唯一标识
	CreatedAt time.Time // 创建时间

	QuestionID uint   `gorm:"not null;index"`              // 所属问题 ID
	UserID     uint   `gorm:"not null"`                    // 回答者用户 ID
	Text       string `gorm:"type:varchar(2000);not null"` // 回答内容
}

// Task 表示一个带状态的工作项。
//
// 状态只能沿 TaskStatus 的转移表变化，唯一的修改入口是
// TaskUsecase.UpdateStatus。
type Task struct {
	ID        uint      `gorm:"primaryKey"` // 任务唯一标识
	CreatedAt time.Time // 创建时间
	UpdatedAt time.Time // 更新时间

	Title       string     `gorm:"type:varchar(255);not null"`       // 任务标题
	Description string     `gorm:"type:varchar(2000)"`               // 任务描述
	Status      TaskStatus `gorm:"type:varchar(16);default:CREATED"` // 任务状态
}
