package worker

import (
	"context"
	"fmt"
	"log"

	"github.com/wpshift/membership_go_server/internal/pkg/queue"
	"github.com/wpshift/membership_go_server/internal/service"
)

// Processor 订单任务处理器，消费队列里的已完成订单并触发会员发放
type Processor struct {
	grantService *service.GrantService
}

func NewProcessor(grantService *service.GrantService) *Processor {
	return &Processor{grantService: grantService}
}

// Process 处理一条订单完成消息
func (p *Processor) Process(ctx context.Context, msg *queue.OrderMessage) error {
	result, err := p.grantService.ProcessCompletedOrder(msg.OrderID)
	if err != nil {
		return fmt.Errorf("failed to process order %d: %w", msg.OrderID, err)
	}

	if result.AlreadyProcessed {
		return nil
	}

	log.Printf("Order %d processed: granted=%d, skipped=%d, failed=%d",
		msg.OrderID, result.Granted, result.Skipped, result.Failed)
	return nil
}
