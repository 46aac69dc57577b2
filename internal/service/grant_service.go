package service

import (
	"errors"
	"log"
	"time"

	"github.com/wpshift/membership_go_server/internal/model"
	"github.com/wpshift/membership_go_server/internal/pkg/email"
	"github.com/wpshift/membership_go_server/internal/pkg/events"
	"github.com/wpshift/membership_go_server/internal/repository"
)

var (
	ErrGuestOrder  = errors.New("游客订单不能开通会员")
	ErrGrantFailed = errors.New("会员发放失败")
)

// GrantResult 订单处理结果
type GrantResult struct {
	OrderID          int64   `json:"order_id"`
	Granted          int     `json:"granted"`
	Skipped          int     `json:"skipped"`
	Failed           int     `json:"failed"`
	AlreadyProcessed bool    `json:"already_processed"`
	MembershipIDs    []int64 `json:"membership_ids,omitempty"`
}

type GrantService struct {
	orderRepo      *repository.OrderRepository
	membershipRepo *repository.MembershipRepository
	planRepo       *repository.PlanRepository
	userRepo       *repository.UserRepository
	emailService   *email.Service
	bus            *events.Bus
}

func NewGrantService(
	orderRepo *repository.OrderRepository,
	membershipRepo *repository.MembershipRepository,
	planRepo *repository.PlanRepository,
	userRepo *repository.UserRepository,
	emailService *email.Service,
	bus *events.Bus,
) *GrantService {
	return &GrantService{
		orderRepo:      orderRepo,
		membershipRepo: membershipRepo,
		planRepo:       planRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		bus:            bus,
	}
}

// ProcessCompletedOrder 处理已完成订单的会员发放。
// 幂等标记通过条件更新原子占位，同一订单的重复完成事件只有一个能发放；
// 只有全部发放失败时才回滚标记，让后续事件可以重试。
func (s *GrantService) ProcessCompletedOrder(orderID int64) (*GrantResult, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	if order.IsGuest() {
		return nil, ErrGuestOrder
	}

	claimed, err := s.orderRepo.ClaimProcessing(orderID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		log.Printf("Order %d already processed, skipping", orderID)
		return &GrantResult{OrderID: orderID, AlreadyProcessed: true}, nil
	}

	result := &GrantResult{OrderID: orderID}
	now := time.Now()

	for _, item := range order.Items {
		plan, err := s.planRepo.GetByID(item.ProductID)
		if err != nil {
			// 非会员商品，跳过
			result.Skipped++
			continue
		}
		if !plan.Active {
			log.Printf("Order %d: plan %d is inactive, skipping", orderID, plan.ID)
			result.Skipped++
			continue
		}

		membership := &model.Membership{
			UserID:    order.UserID,
			PlanID:    plan.ID,
			OrderID:   order.ID,
			Tier:      plan.Tier,
			Status:    model.MembershipStatusActive,
			StartedAt: now,
			ExpiresAt: plan.ExpirationFrom(now),
		}

		if err := s.membershipRepo.Create(membership); err != nil {
			log.Printf("Order %d: failed to create membership for plan %d: %v", orderID, plan.ID, err)
			result.Failed++
			continue
		}

		result.Granted++
		result.MembershipIDs = append(result.MembershipIDs, membership.ID)

		s.bus.Publish(events.Event{
			Type:         events.TypeMembershipGranted,
			MembershipID: membership.ID,
			UserID:       membership.UserID,
			PlanID:       membership.PlanID,
			OrderID:      membership.OrderID,
		})

		s.notifyGranted(membership, plan)
	}

	// 没有任何发放成功时回滚幂等标记：失败的保留重试机会，
	// 全部跳过的（如套餐暂时下架）等后续完成事件补发
	if result.Granted == 0 {
		if err := s.orderRepo.ReleaseProcessing(orderID); err != nil {
			log.Printf("Order %d: failed to release processing flag: %v", orderID, err)
		}
		if result.Failed > 0 {
			return result, ErrGrantFailed
		}
	}

	return result, nil
}

// notifyGranted 开通通知，发送失败只记日志
func (s *GrantService) notifyGranted(m *model.Membership, plan *model.Plan) {
	if s.emailService == nil {
		return
	}

	user, err := s.userRepo.GetByID(m.UserID)
	if err != nil || user.Email == nil {
		return
	}

	if err := s.emailService.SendMembershipGranted(*user.Email, plan.Name, m.ExpiresAt.Format("2006-01-02")); err != nil {
		log.Printf("Failed to send grant email for membership %d: %v", m.ID, err)
	}
}
