package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wpshift/membership_go_server/internal/model/dto"
	"github.com/wpshift/membership_go_server/internal/pkg/response"
	"github.com/wpshift/membership_go_server/internal/service"
)

type PlanHandler struct {
	planService *service.PlanService
}

func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{
		planService: planService,
	}
}

// List 套餐列表
// GET /api/v1/plans?active_only=true
func (h *PlanHandler) List(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"

	plans, err := h.planService.List(activeOnly)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, plans)
}

// Get 套餐详情
// GET /api/v1/plans/:id
func (h *PlanHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "")
		return
	}

	plan, err := h.planService.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFoundError(c, "套餐不存在")
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, plan)
}

// Create 创建套餐
// POST /api/v1/plans
func (h *PlanHandler) Create(c *gin.Context) {
	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	plan, err := h.planService.Create(&req)
	if err != nil {
		if errors.Is(err, service.ErrPlanExists) {
			response.DuplicateError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "套餐已创建", plan)
}

// Update 更新套餐
// PUT /api/v1/plans/:id
func (h *PlanHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "")
		return
	}

	var req dto.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	plan, err := h.planService.Update(id, &req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFoundError(c, "套餐不存在")
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "套餐已更新", plan)
}

// Delete 删除套餐
// DELETE /api/v1/plans/:id
func (h *PlanHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "")
		return
	}

	if err := h.planService.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFoundError(c, "套餐不存在")
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "套餐已删除", nil)
}
