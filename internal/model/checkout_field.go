package model

import (
	"time"
)

// CheckoutField 下单时采集的附加字段（key/value）
type CheckoutField struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	OrderID    int64     `gorm:"not null;index:idx_order_field" json:"order_id"`
	FieldKey   string    `gorm:"size:100;not null;index:idx_order_field" json:"field_key"`
	FieldValue string    `gorm:"type:text" json:"field_value"`
	CreatedAt  time.Time `json:"created_at"`
}

func (CheckoutField) TableName() string {
	return "checkout_fields"
}
