package service

import (
	"sync"
	"time"

	"github.com/wpshift/membership_go_server/internal/model"
	"github.com/wpshift/membership_go_server/internal/repository"
)

// AccessOverride 权限判定钩子，在基础判定之后依次调用，可以改写结果
type AccessOverride func(userID, planID int64, hasAccess bool) bool

type AccessService struct {
	membershipRepo *repository.MembershipRepository

	mu        sync.RWMutex
	overrides []AccessOverride
}

func NewAccessService(membershipRepo *repository.MembershipRepository) *AccessService {
	return &AccessService{
		membershipRepo: membershipRepo,
	}
}

// RegisterOverride 注册权限判定钩子
func (s *AccessService) RegisterOverride(f AccessOverride) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides = append(s.overrides, f)
}

// HasAccess 判定用户是否持有有效会员。planID 为 0 表示任意套餐。
// 判定同时校验状态和到期时间，不依赖定时任务是否已收敛状态。
func (s *AccessService) HasAccess(userID, planID int64) (bool, error) {
	// 未登录用户直接拒绝
	if userID <= 0 {
		return s.applyOverrides(userID, planID, false), nil
	}

	now := time.Now()
	var hasAccess bool
	var err error

	if planID > 0 {
		hasAccess, err = s.membershipRepo.HasActiveMembership(userID, planID, now)
	} else {
		hasAccess, err = s.membershipRepo.HasAnyActiveMembership(userID, now)
	}
	if err != nil {
		return false, err
	}

	return s.applyOverrides(userID, planID, hasAccess), nil
}

// CurrentMembership 获取用户当前有效会员（最新创建的一条），没有则返回 nil
func (s *AccessService) CurrentMembership(userID int64) (*model.Membership, error) {
	memberships, err := s.AllCurrentMemberships(userID)
	if err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return nil, nil
	}
	return memberships[0], nil
}

// AllCurrentMemberships 获取用户全部有效会员，最新创建在前
func (s *AccessService) AllCurrentMemberships(userID int64) ([]*model.Membership, error) {
	if userID <= 0 {
		return nil, nil
	}

	all, err := s.membershipRepo.ListByUserID(userID, model.MembershipStatusActive)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	current := make([]*model.Membership, 0, len(all))
	for _, m := range all {
		if m.IsCurrent(now) {
			current = append(current, m)
		}
	}
	return current, nil
}

func (s *AccessService) applyOverrides(userID, planID int64, hasAccess bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.overrides {
		hasAccess = f(userID, planID, hasAccess)
	}
	return hasAccess
}
