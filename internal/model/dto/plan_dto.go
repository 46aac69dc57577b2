package dto

// CreatePlanRequest 创建套餐请求
type CreatePlanRequest struct {
	ID           int64   `json:"id" binding:"required,min=1"` // 商城 product_id
	Name         string  `json:"name" binding:"required,max=200"`
	Tier         string  `json:"tier,omitempty" binding:"omitempty,max=50"`
	Duration     int     `json:"duration" binding:"required,min=1"`
	DurationUnit string  `json:"duration_unit" binding:"required,oneof=days weeks months years"`
	Price        float64 `json:"price,omitempty" binding:"omitempty,min=0"`
}

// UpdatePlanRequest 更新套餐请求
type UpdatePlanRequest struct {
	Name         *string  `json:"name,omitempty" binding:"omitempty,max=200"`
	Tier         *string  `json:"tier,omitempty" binding:"omitempty,max=50"`
	Duration     *int     `json:"duration,omitempty" binding:"omitempty,min=1"`
	DurationUnit *string  `json:"duration_unit,omitempty" binding:"omitempty,oneof=days weeks months years"`
	Price        *float64 `json:"price,omitempty" binding:"omitempty,min=0"`
	Active       *bool    `json:"active,omitempty"`
}
