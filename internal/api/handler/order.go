package handler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wpshift/membership_go_server/internal/model"
	"github.com/wpshift/membership_go_server/internal/pkg/queue"
	"github.com/wpshift/membership_go_server/internal/pkg/response"
	"github.com/wpshift/membership_go_server/internal/repository"
	"github.com/wpshift/membership_go_server/internal/service"
)

type OrderHandler struct {
	orderRepo    *repository.OrderRepository
	orderQueue   *queue.Queue
	grantService *service.GrantService
}

func NewOrderHandler(
	orderRepo *repository.OrderRepository,
	orderQueue *queue.Queue,
	grantService *service.GrantService,
) *OrderHandler {
	return &OrderHandler{
		orderRepo:    orderRepo,
		orderQueue:   orderQueue,
		grantService: grantService,
	}
}

// Complete 订单完成回调，推进订单状态并把发放任务交给队列异步处理
// POST /api/v1/orders/:id/complete
func (h *OrderHandler) Complete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "")
		return
	}

	order, err := h.orderRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFoundError(c, "订单不存在")
			return
		}
		response.ServerError(c, "")
		return
	}

	if order.Status != model.OrderStatusCompleted {
		if err := h.orderRepo.UpdateStatus(id, model.OrderStatusCompleted); err != nil {
			response.ServerError(c, "")
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.orderQueue.Push(ctx, &queue.OrderMessage{OrderID: id}); err != nil {
		response.ServerError(c, "任务入队失败")
		return
	}

	response.SuccessWithMessage(c, "订单已受理", gin.H{"order_id": id})
}

// Process 同步处理订单发放（运维兜底，队列不可用时使用）
// POST /api/v1/orders/:id/process
func (h *OrderHandler) Process(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "")
		return
	}

	result, err := h.grantService.ProcessCompletedOrder(id)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.NotFoundError(c, "订单不存在")
		case errors.Is(err, service.ErrGuestOrder):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrGrantFailed):
			response.ServerError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	if result.AlreadyProcessed {
		response.DuplicateError(c, "订单已处理过")
		return
	}

	response.Success(c, result)
}
