package model

import (
	"time"
)

// User 商城用户的本地投影，仅保留通知需要的字段（身份体系归商城所有）
type User struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"size:50;not null" json:"username"`
	Email       *string   `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	DisplayName string    `gorm:"size:100" json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
