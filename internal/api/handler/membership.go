package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wpshift/membership_go_server/internal/model/dto"
	"github.com/wpshift/membership_go_server/internal/pkg/response"
	"github.com/wpshift/membership_go_server/internal/repository"
	"github.com/wpshift/membership_go_server/internal/service"
	"github.com/wpshift/membership_go_server/internal/worker"
)

type MembershipHandler struct {
	membershipService *service.MembershipService
	sweeper           *worker.Sweeper
}

func NewMembershipHandler(membershipService *service.MembershipService, sweeper *worker.Sweeper) *MembershipHandler {
	return &MembershipHandler{
		membershipService: membershipService,
		sweeper:           sweeper,
	}
}

// List 会员列表
// GET /api/v1/memberships
func (h *MembershipHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	planID, _ := strconv.ParseInt(c.Query("plan_id"), 10, 64)
	userID, _ := strconv.ParseInt(c.Query("user_id"), 10, 64)

	opts := repository.ListOptions{
		Status:  c.Query("status"),
		PlanID:  planID,
		UserID:  userID,
		Limit:   pageSize,
		Offset:  (page - 1) * pageSize,
		OrderBy: c.DefaultQuery("order_by", "created_at"),
		Order:   c.DefaultQuery("order", "DESC"),
	}

	items, total, err := h.membershipService.List(opts)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// ListByUser 指定用户的全部会员记录
// GET /api/v1/users/:id/memberships
func (h *MembershipHandler) ListByUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "")
		return
	}

	items, total, err := h.membershipService.List(repository.ListOptions{
		UserID:  userID,
		Limit:   100,
		OrderBy: "created_at",
		Order:   "DESC",
	})
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, 1, 100, items)
}

// Get 会员详情
// GET /api/v1/memberships/:id
func (h *MembershipHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "")
		return
	}

	detail, err := h.membershipService.Get(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFoundError(c, "会员记录不存在")
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, detail)
}

// Revoke 取消会员
// POST /api/v1/memberships/:id/revoke
func (h *MembershipHandler) Revoke(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "")
		return
	}

	if err := h.membershipService.Revoke(id); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFoundError(c, "会员记录不存在")
		case errors.Is(err, service.ErrMembershipNotActive):
			response.DuplicateError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "会员已取消", nil)
}

// Extend 延长会员时长
// POST /api/v1/memberships/:id/extend
func (h *MembershipHandler) Extend(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "")
		return
	}

	var req dto.ExtendMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	m, err := h.membershipService.Extend(id, req.Duration, req.Unit)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFoundError(c, "会员记录不存在")
		case errors.Is(err, service.ErrInvalidDurationUnit):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "会员已延期", m)
}

// Reactivate 重新激活会员
// POST /api/v1/memberships/:id/reactivate
func (h *MembershipHandler) Reactivate(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "")
		return
	}

	m, err := h.membershipService.Reactivate(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFoundError(c, "会员记录不存在")
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "会员已恢复", m)
}

// Delete 删除会员记录
// DELETE /api/v1/memberships/:id
func (h *MembershipHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "")
		return
	}

	if err := h.membershipService.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFoundError(c, "会员记录不存在")
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "会员记录已删除", nil)
}

// Sweep 手动触发一轮过期扫描
// POST /api/v1/memberships/sweep
func (h *MembershipHandler) Sweep(c *gin.Context) {
	processed, more, err := h.sweeper.Sweep()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, dto.SweepResult{
		Processed: processed,
		More:      more,
	})
}
