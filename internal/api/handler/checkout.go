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

type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// SaveFields 保存下单附加字段
// POST /api/v1/orders/:id/checkout-fields
func (h *CheckoutHandler) SaveFields(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "")
		return
	}

	var req dto.SaveCheckoutFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.checkoutService.SaveFields(id, req.Fields); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFoundError(c, "订单不存在")
		case errors.Is(err, service.ErrMissingRequiredField):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "字段已保存", nil)
}

// GetFields 获取订单的附加字段
// GET /api/v1/orders/:id/checkout-fields
func (h *CheckoutHandler) GetFields(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "")
		return
	}

	fields, err := h.checkoutService.GetFields(id)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, fields)
}
