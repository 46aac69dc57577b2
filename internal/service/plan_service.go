package service

import (
	"errors"

	"github.com/wpshift/membership_go_server/internal/model"
	"github.com/wpshift/membership_go_server/internal/model/dto"
	"github.com/wpshift/membership_go_server/internal/repository"
)

var ErrPlanExists = errors.New("套餐已存在")

type PlanService struct {
	planRepo *repository.PlanRepository
}

func NewPlanService(planRepo *repository.PlanRepository) *PlanService {
	return &PlanService{planRepo: planRepo}
}

// Create 创建套餐，ID 即商城的 product_id
func (s *PlanService) Create(req *dto.CreatePlanRequest) (*model.Plan, error) {
	if _, err := s.planRepo.GetByID(req.ID); err == nil {
		return nil, ErrPlanExists
	}

	tier := req.Tier
	if tier == "" {
		tier = "standard"
	}

	plan := &model.Plan{
		ID:           req.ID,
		Name:         req.Name,
		Tier:         tier,
		Duration:     req.Duration,
		DurationUnit: req.DurationUnit,
		Price:        req.Price,
		Active:       true,
	}

	if err := s.planRepo.Create(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// Update 更新套餐，只改请求里出现的字段
func (s *PlanService) Update(id int64, req *dto.UpdatePlanRequest) (*model.Plan, error) {
	plan, err := s.planRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		plan.Name = *req.Name
	}
	if req.Tier != nil {
		plan.Tier = *req.Tier
	}
	if req.Duration != nil {
		plan.Duration = *req.Duration
	}
	if req.DurationUnit != nil {
		plan.DurationUnit = *req.DurationUnit
	}
	if req.Price != nil {
		plan.Price = *req.Price
	}
	if req.Active != nil {
		plan.Active = *req.Active
	}

	if err := s.planRepo.Update(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *PlanService) Get(id int64) (*model.Plan, error) {
	return s.planRepo.GetByID(id)
}

func (s *PlanService) List(activeOnly bool) ([]*model.Plan, error) {
	return s.planRepo.List(activeOnly)
}

func (s *PlanService) Delete(id int64) error {
	if _, err := s.planRepo.GetByID(id); err != nil {
		return err
	}
	return s.planRepo.Delete(id)
}
