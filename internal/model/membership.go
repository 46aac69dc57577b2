package model

import (
	"time"
)

// 会员状态
const (
	MembershipStatusActive    = "active"
	MembershipStatusExpired   = "expired"
	MembershipStatusCancelled = "cancelled"
)

type Membership struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index:idx_user_status" json:"user_id"`
	PlanID    int64     `gorm:"not null;index" json:"plan_id"`
	OrderID   int64     `gorm:"not null;index" json:"order_id"`
	Tier      string    `gorm:"size:50;not null;default:standard" json:"tier"`
	Status    string    `gorm:"size:20;not null;default:active;index:idx_user_status;index:idx_status_expires" json:"status"` // active, expired, cancelled
	StartedAt time.Time `gorm:"not null" json:"started_at"`
	ExpiresAt time.Time `gorm:"not null;index:idx_status_expires" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Membership) TableName() string {
	return "memberships"
}

// IsCurrent 状态为 active 且未到期才算有效（status 由定时任务异步收敛，不可单独信任）
func (m *Membership) IsCurrent(now time.Time) bool {
	return m.Status == MembershipStatusActive && m.ExpiresAt.After(now)
}
