package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wpshift/membership_go_server/internal/api/middleware"
	"github.com/wpshift/membership_go_server/internal/model/dto"
	"github.com/wpshift/membership_go_server/internal/pkg/response"
	"github.com/wpshift/membership_go_server/internal/service"
)

type AccessHandler struct {
	accessService *service.AccessService
}

func NewAccessHandler(accessService *service.AccessService) *AccessHandler {
	return &AccessHandler{
		accessService: accessService,
	}
}

// Query 查询指定用户的会员权限
// GET /api/v1/access?user_id=1&plan_id=2
func (h *AccessHandler) Query(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user_id"), 10, 64)
	if err != nil {
		response.ParamError(c, "user_id 不能为空")
		return
	}

	// plan_id 缺省表示任意套餐
	planID, _ := strconv.ParseInt(c.Query("plan_id"), 10, 64)

	hasAccess, err := h.accessService.HasAccess(userID, planID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, dto.AccessResult{
		UserID:    userID,
		PlanID:    planID,
		HasAccess: hasAccess,
	})
}

// MyMemberships 当前登录用户的有效会员
// GET /api/v1/member/memberships
func (h *AccessHandler) MyMemberships(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	memberships, err := h.accessService.AllCurrentMemberships(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, memberships)
}
