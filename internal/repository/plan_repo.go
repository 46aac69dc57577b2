package repository

import (
	"gorm.io/gorm"

	"github.com/wpshift/membership_go_server/internal/model"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(plan *model.Plan) error {
	return r.db.Create(plan).Error
}

// GetByID 按商城 product_id 查套餐
func (r *PlanRepository) GetByID(id int64) (*model.Plan, error) {
	var plan model.Plan
	err := r.db.Where("id = ?", id).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) Update(plan *model.Plan) error {
	return r.db.Save(plan).Error
}

func (r *PlanRepository) Delete(id int64) error {
	return r.db.Delete(&model.Plan{}, id).Error
}

// List 返回全部套餐，activeOnly 为 true 时只返回上架中的
func (r *PlanRepository) List(activeOnly bool) ([]*model.Plan, error) {
	var plans []*model.Plan

	query := r.db.Order("id ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	err := query.Find(&plans).Error
	return plans, err
}
