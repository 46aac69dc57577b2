package repository

import (
	"gorm.io/gorm"

	"github.com/wpshift/membership_go_server/internal/model"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(order *model.Order) error {
	return r.db.Create(order).Error
}

// GetByID 查订单及订单项
func (r *OrderRepository) GetByID(id int64) (*model.Order, error) {
	var order model.Order
	err := r.db.Preload("Items").Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) UpdateStatus(id int64, status string) error {
	return r.db.Model(&model.Order{}).Where("id = ?", id).Update("status", status).Error
}

// ClaimProcessing 原子占位幂等标记。两个并发的完成事件只有一个能把
// membership_processed 从 false 翻成 true，返回 false 表示已被处理过。
func (r *OrderRepository) ClaimProcessing(id int64) (bool, error) {
	result := r.db.Model(&model.Order{}).
		Where("id = ? AND membership_processed = ?", id, false).
		Update("membership_processed", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ReleaseProcessing 回滚幂等标记，发放全部失败时调用，让后续事件可以重试
func (r *OrderRepository) ReleaseProcessing(id int64) error {
	return r.db.Model(&model.Order{}).
		Where("id = ?", id).
		Update("membership_processed", false).Error
}
