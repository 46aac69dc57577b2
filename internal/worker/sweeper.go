package worker

import (
	"log"
	"time"

	"github.com/wpshift/membership_go_server/internal/model"
	"github.com/wpshift/membership_go_server/internal/pkg/email"
	"github.com/wpshift/membership_go_server/internal/repository"
	"github.com/wpshift/membership_go_server/internal/service"
)

// Sweeper 过期扫描器。按批把已到期但状态仍为 active 的会员收敛为 expired，
// 每批最多 limit 条，取满一批说明可能还有剩余。
type Sweeper struct {
	membershipService *service.MembershipService
	membershipRepo    *repository.MembershipRepository
	planRepo          *repository.PlanRepository
	userRepo          *repository.UserRepository
	emailService      *email.Service
	limit             int
}

func NewSweeper(
	membershipService *service.MembershipService,
	membershipRepo *repository.MembershipRepository,
	planRepo *repository.PlanRepository,
	userRepo *repository.UserRepository,
	emailService *email.Service,
	limit int,
) *Sweeper {
	if limit <= 0 {
		limit = 100
	}
	return &Sweeper{
		membershipService: membershipService,
		membershipRepo:    membershipRepo,
		planRepo:          planRepo,
		userRepo:          userRepo,
		emailService:      emailService,
		limit:             limit,
	}
}

// Pending 返回当前待收敛的一批会员，不做任何修改
func (s *Sweeper) Pending() ([]*model.Membership, error) {
	return s.membershipRepo.GetExpiredActive(s.limit, time.Now())
}

// Sweep 执行一轮扫描。返回本轮处理数量和是否可能还有剩余，
// 单条失败只记日志不中断整批。
func (s *Sweeper) Sweep() (int, bool, error) {
	expired, err := s.membershipRepo.GetExpiredActive(s.limit, time.Now())
	if err != nil {
		return 0, false, err
	}

	if len(expired) == 0 {
		return 0, false, nil
	}

	processed := 0
	for _, m := range expired {
		if err := s.membershipService.Expire(m); err != nil {
			log.Printf("Sweep: failed to expire membership %d: %v", m.ID, err)
			continue
		}
		processed++
		s.notifyExpired(m)
	}

	more := len(expired) == s.limit
	log.Printf("Sweep completed: found=%d, processed=%d, more=%v", len(expired), processed, more)

	return processed, more, nil
}

// notifyExpired 到期通知，发送失败只记日志
func (s *Sweeper) notifyExpired(m *model.Membership) {
	if s.emailService == nil {
		return
	}

	user, err := s.userRepo.GetByID(m.UserID)
	if err != nil || user.Email == nil {
		return
	}

	planName := m.Tier
	if plan, err := s.planRepo.GetByID(m.PlanID); err == nil {
		planName = plan.Name
	}

	if err := s.emailService.SendMembershipExpired(*user.Email, planName); err != nil {
		log.Printf("Failed to send expiration email for membership %d: %v", m.ID, err)
	}
}
