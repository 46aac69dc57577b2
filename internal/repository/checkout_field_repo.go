package repository

import (
	"gorm.io/gorm"

	"github.com/wpshift/membership_go_server/internal/model"
)

type CheckoutFieldRepository struct {
	db *gorm.DB
}

func NewCheckoutFieldRepository(db *gorm.DB) *CheckoutFieldRepository {
	return &CheckoutFieldRepository{db: db}
}

// SaveField 保存单个字段
func (r *CheckoutFieldRepository) SaveField(orderID int64, key, value string) error {
	field := &model.CheckoutField{
		OrderID:    orderID,
		FieldKey:   key,
		FieldValue: value,
	}
	return r.db.Create(field).Error
}

// SaveFields 批量保存，单条失败不影响其余字段，返回首个错误
func (r *CheckoutFieldRepository) SaveFields(orderID int64, fields map[string]string) error {
	var firstErr error
	for key, value := range fields {
		if err := r.SaveField(orderID, key, value); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// GetFieldsByOrderID 按订单取全部字段，返回 key -> value
func (r *CheckoutFieldRepository) GetFieldsByOrderID(orderID int64) (map[string]string, error) {
	var rows []model.CheckoutField
	err := r.db.Where("order_id = ?", orderID).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	fields := make(map[string]string, len(rows))
	for _, row := range rows {
		fields[row.FieldKey] = row.FieldValue
	}
	return fields, nil
}

// GetField 取单个字段值
func (r *CheckoutFieldRepository) GetField(orderID int64, key string) (string, error) {
	var row model.CheckoutField
	err := r.db.Where("order_id = ? AND field_key = ?", orderID, key).First(&row).Error
	if err != nil {
		return "", err
	}
	return row.FieldValue, nil
}

// UpdateField 更新单个字段值
func (r *CheckoutFieldRepository) UpdateField(orderID int64, key, value string) error {
	return r.db.Model(&model.CheckoutField{}).
		Where("order_id = ? AND field_key = ?", orderID, key).
		Update("field_value", value).Error
}

// DeleteFieldsByOrderID 删除订单的全部字段
func (r *CheckoutFieldRepository) DeleteFieldsByOrderID(orderID int64) error {
	return r.db.Where("order_id = ?", orderID).Delete(&model.CheckoutField{}).Error
}

// DeleteField 删除单个字段
func (r *CheckoutFieldRepository) DeleteField(orderID int64, key string) error {
	return r.db.Where("order_id = ? AND field_key = ?", orderID, key).
		Delete(&model.CheckoutField{}).Error
}
