package model

import (
	"time"
)

// 订单状态（由商城侧推进，这里只读）
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusRefunded   = "refunded"
)

// Order 商城订单的本地投影，MembershipProcessed 是发放幂等标记
type Order struct {
	ID                  int64       `gorm:"primaryKey" json:"id"`
	UserID              int64       `gorm:"index" json:"user_id"` // 0 表示游客下单
	Status              string      `gorm:"size:20;not null;default:pending" json:"status"`
	MembershipProcessed bool        `gorm:"not null;default:false" json:"membership_processed"`
	Items               []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// IsGuest 游客订单不能持有会员资格
func (o *Order) IsGuest() bool {
	return o.UserID == 0
}

type OrderItem struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	OrderID     int64  `gorm:"not null;index" json:"order_id"`
	ProductID   int64  `gorm:"not null" json:"product_id"`
	ProductName string `gorm:"size:200" json:"product_name"`
	Quantity    int    `gorm:"not null;default:1" json:"quantity"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
