package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/wpshift/membership_go_server/internal/model"
)

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	email := fmt.Sprintf("member_%d@example.com", time.Now().UnixNano())
	user := &model.User{
		Username:    fmt.Sprintf("member_%d", time.Now().UnixNano()%100000),
		Email:       &email,
		DisplayName: "Test Member",
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// TestPlan 创建测试套餐
func TestPlan(t *testing.T, db *gorm.DB, opts ...func(*model.Plan)) *model.Plan {
	t.Helper()

	plan := &model.Plan{
		ID:           time.Now().UnixNano() % 1000000,
		Name:         "Gold Membership",
		Tier:         "gold",
		Duration:     30,
		DurationUnit: model.DurationUnitDays,
		Price:        29.99,
		Active:       true,
	}

	for _, opt := range opts {
		opt(plan)
	}

	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("Failed to create test plan: %v", err)
	}

	return plan
}

// WithPlanID 设置套餐 ID（即商城 product_id）
func WithPlanID(id int64) func(*model.Plan) {
	return func(p *model.Plan) {
		p.ID = id
	}
}

// WithDuration 设置套餐时长
func WithDuration(duration int, unit string) func(*model.Plan) {
	return func(p *model.Plan) {
		p.Duration = duration
		p.DurationUnit = unit
	}
}

// WithTier 设置套餐等级
func WithTier(tier string) func(*model.Plan) {
	return func(p *model.Plan) {
		p.Tier = tier
	}
}

// TestOrder 创建测试订单，productIDs 对应每个订单项
func TestOrder(t *testing.T, db *gorm.DB, userID int64, productIDs ...int64) *model.Order {
	t.Helper()

	order := &model.Order{
		UserID: userID,
		Status: model.OrderStatusCompleted,
	}

	if err := db.Create(order).Error; err != nil {
		t.Fatalf("Failed to create test order: %v", err)
	}

	for _, pid := range productIDs {
		item := &model.OrderItem{
			OrderID:     order.ID,
			ProductID:   pid,
			ProductName: fmt.Sprintf("Product %d", pid),
			Quantity:    1,
		}
		if err := db.Create(item).Error; err != nil {
			t.Fatalf("Failed to create test order item: %v", err)
		}
		order.Items = append(order.Items, *item)
	}

	return order
}

// TestMembership 创建测试会员记录
func TestMembership(t *testing.T, db *gorm.DB, userID, planID, orderID int64, opts ...func(*model.Membership)) *model.Membership {
	t.Helper()

	now := time.Now()
	membership := &model.Membership{
		UserID:    userID,
		PlanID:    planID,
		OrderID:   orderID,
		Tier:      "gold",
		Status:    model.MembershipStatusActive,
		StartedAt: now,
		ExpiresAt: now.AddDate(0, 0, 30),
	}

	for _, opt := range opts {
		opt(membership)
	}

	if err := db.Create(membership).Error; err != nil {
		t.Fatalf("Failed to create test membership: %v", err)
	}

	return membership
}

// WithStatus 设置会员状态
func WithStatus(status string) func(*model.Membership) {
	return func(m *model.Membership) {
		m.Status = status
	}
}

// WithExpiresAt 设置到期时间
func WithExpiresAt(expiresAt time.Time) func(*model.Membership) {
	return func(m *model.Membership) {
		m.ExpiresAt = expiresAt
	}
}

// WithStartedAt 设置开始时间
func WithStartedAt(startedAt time.Time) func(*model.Membership) {
	return func(m *model.Membership) {
		m.StartedAt = startedAt
	}
}

// WithMembershipTier 设置会员等级标签
func WithMembershipTier(tier string) func(*model.Membership) {
	return func(m *model.Membership) {
		m.Tier = tier
	}
}
