package service

import (
	"errors"
	"log"
	"time"

	"github.com/wpshift/membership_go_server/internal/model"
	"github.com/wpshift/membership_go_server/internal/model/dto"
	"github.com/wpshift/membership_go_server/internal/pkg/email"
	"github.com/wpshift/membership_go_server/internal/pkg/events"
	"github.com/wpshift/membership_go_server/internal/repository"
)

var (
	ErrMembershipNotActive = errors.New("会员当前不是有效状态")
	ErrInvalidDurationUnit = errors.New("时长单位不合法")
)

type MembershipService struct {
	membershipRepo *repository.MembershipRepository
	planRepo       *repository.PlanRepository
	userRepo       *repository.UserRepository
	emailService   *email.Service
	bus            *events.Bus
	graceDays      int
}

func NewMembershipService(
	membershipRepo *repository.MembershipRepository,
	planRepo *repository.PlanRepository,
	userRepo *repository.UserRepository,
	emailService *email.Service,
	bus *events.Bus,
	graceDays int,
) *MembershipService {
	if graceDays <= 0 {
		graceDays = 30
	}
	return &MembershipService{
		membershipRepo: membershipRepo,
		planRepo:       planRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		bus:            bus,
		graceDays:      graceDays,
	}
}

// Get 获取会员详情
func (s *MembershipService) Get(id int64) (*dto.MembershipDetail, error) {
	m, err := s.membershipRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	detail := &dto.MembershipDetail{
		ID:        m.ID,
		UserID:    m.UserID,
		PlanID:    m.PlanID,
		OrderID:   m.OrderID,
		Tier:      m.Tier,
		Status:    m.Status,
		StartedAt: m.StartedAt.Format(time.RFC3339),
		ExpiresAt: m.ExpiresAt.Format(time.RFC3339),
		Current:   m.IsCurrent(time.Now()),
		CreatedAt: m.CreatedAt.Format(time.RFC3339),
		UpdatedAt: m.UpdatedAt.Format(time.RFC3339),
	}

	// 套餐可能已被删除，名称缺失不算错误
	if plan, err := s.planRepo.GetByID(m.PlanID); err == nil {
		detail.PlanName = plan.Name
	}

	return detail, nil
}

// List 条件分页查询
func (s *MembershipService) List(opts repository.ListOptions) ([]*dto.MembershipListItem, int64, error) {
	memberships, err := s.membershipRepo.List(opts)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.membershipRepo.Count(opts)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	items := make([]*dto.MembershipListItem, 0, len(memberships))
	for _, m := range memberships {
		items = append(items, &dto.MembershipListItem{
			ID:        m.ID,
			UserID:    m.UserID,
			PlanID:    m.PlanID,
			OrderID:   m.OrderID,
			Tier:      m.Tier,
			Status:    m.Status,
			StartedAt: m.StartedAt.Format(time.RFC3339),
			ExpiresAt: m.ExpiresAt.Format(time.RFC3339),
			Current:   m.IsCurrent(now),
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		})
	}

	return items, total, nil
}

// Revoke 取消会员，只有 active 状态才能取消
func (s *MembershipService) Revoke(id int64) error {
	m, err := s.membershipRepo.GetByID(id)
	if err != nil {
		return err
	}

	if m.Status != model.MembershipStatusActive {
		return ErrMembershipNotActive
	}

	if err := s.membershipRepo.UpdateStatus(id, model.MembershipStatusCancelled); err != nil {
		return err
	}

	s.bus.Publish(events.Event{
		Type:         events.TypeMembershipRevoked,
		MembershipID: m.ID,
		UserID:       m.UserID,
		PlanID:       m.PlanID,
		OrderID:      m.OrderID,
	})

	return nil
}

// Expire 将会员标记为过期（定时扫描和手动扫描共用）。
// 已过期的重复调用直接收敛为成功；已取消的不动，取消状态只能由 Reactivate 改写。
func (s *MembershipService) Expire(m *model.Membership) error {
	if m.Status == model.MembershipStatusExpired {
		return nil
	}
	if m.Status != model.MembershipStatusActive {
		return ErrMembershipNotActive
	}

	if err := s.membershipRepo.UpdateStatus(m.ID, model.MembershipStatusExpired); err != nil {
		return err
	}

	s.bus.Publish(events.Event{
		Type:         events.TypeMembershipExpired,
		MembershipID: m.ID,
		UserID:       m.UserID,
		PlanID:       m.PlanID,
		OrderID:      m.OrderID,
	})

	return nil
}

// Extend 延长会员时长。基准时间取当前时间和原到期时间中较晚的一个，
// 已过期的会员从现在起算，未过期的在原到期时间上叠加，同时状态拉回 active。
func (s *MembershipService) Extend(id int64, duration int, unit string) (*model.Membership, error) {
	if unit == "" {
		unit = model.DurationUnitDays
	}
	if !model.ValidDurationUnit(unit) {
		return nil, ErrInvalidDurationUnit
	}

	m, err := s.membershipRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	base := m.ExpiresAt
	if base.Before(now) {
		base = now
	}

	m.ExpiresAt = model.AddDuration(base, duration, unit)
	m.Status = model.MembershipStatusActive

	if err := s.membershipRepo.Update(m); err != nil {
		return nil, err
	}

	s.bus.Publish(events.Event{
		Type:         events.TypeMembershipExtended,
		MembershipID: m.ID,
		UserID:       m.UserID,
		PlanID:       m.PlanID,
		OrderID:      m.OrderID,
	})

	s.notifyExtended(m)

	return m, nil
}

// Reactivate 重新激活已过期或已取消的会员，给固定的宽限时长
func (s *MembershipService) Reactivate(id int64) (*model.Membership, error) {
	m, err := s.membershipRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	m.Status = model.MembershipStatusActive
	m.ExpiresAt = now.AddDate(0, 0, s.graceDays)

	if err := s.membershipRepo.Update(m); err != nil {
		return nil, err
	}

	s.bus.Publish(events.Event{
		Type:         events.TypeMembershipReactivated,
		MembershipID: m.ID,
		UserID:       m.UserID,
		PlanID:       m.PlanID,
		OrderID:      m.OrderID,
	})

	return m, nil
}

// Delete 物理删除会员记录（管理端清理用）
func (s *MembershipService) Delete(id int64) error {
	if _, err := s.membershipRepo.GetByID(id); err != nil {
		return err
	}
	return s.membershipRepo.Delete(id)
}

// notifyExtended 延期通知，发送失败只记日志
func (s *MembershipService) notifyExtended(m *model.Membership) {
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

	if err := s.emailService.SendMembershipExtended(*user.Email, planName, m.ExpiresAt.Format("2006-01-02")); err != nil {
		log.Printf("Failed to send extension email for membership %d: %v", m.ID, err)
	}
}
