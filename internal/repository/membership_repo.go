package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/wpshift/membership_go_server/internal/model"
)

// ListOptions 会员列表查询条件
type ListOptions struct {
	Status  string // 为空则不过滤
	PlanID  int64  // 0 则不过滤
	UserID  int64  // 0 则不过滤
	Limit   int
	Offset  int
	OrderBy string // created_at, expires_at, started_at, id
	Order   string // ASC / DESC
}

// 允许排序的列，防止拼接注入
var allowedOrderColumns = map[string]bool{
	"id":         true,
	"created_at": true,
	"expires_at": true,
	"started_at": true,
	"status":     true,
}

type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) Create(membership *model.Membership) error {
	return r.db.Create(membership).Error
}

func (r *MembershipRepository) GetByID(id int64) (*model.Membership, error) {
	var membership model.Membership
	err := r.db.Where("id = ?", id).First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// GetByOrderID 按订单查会员（同一订单多个套餐时返回最早创建的一条）
func (r *MembershipRepository) GetByOrderID(orderID int64) (*model.Membership, error) {
	var membership model.Membership
	err := r.db.Where("order_id = ?", orderID).Order("created_at ASC").First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// ListByOrderID 按订单查全部会员
func (r *MembershipRepository) ListByOrderID(orderID int64) ([]*model.Membership, error) {
	var memberships []*model.Membership
	err := r.db.Where("order_id = ?", orderID).Order("created_at ASC").Find(&memberships).Error
	return memberships, err
}

// ListByUserID 按用户查会员，status 为空则不过滤，最新创建在前
func (r *MembershipRepository) ListByUserID(userID int64, status string) ([]*model.Membership, error) {
	var memberships []*model.Membership

	query := r.db.Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	err := query.Order("created_at DESC").Find(&memberships).Error
	return memberships, err
}

// HasActiveMembership 用户对指定套餐是否持有有效会员（状态与到期时间同时判定）
func (r *MembershipRepository) HasActiveMembership(userID, planID int64, now time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&model.Membership{}).
		Where("user_id = ? AND plan_id = ? AND status = ? AND expires_at > ?",
			userID, planID, model.MembershipStatusActive, now).
		Count(&count).Error
	return count > 0, err
}

// HasAnyActiveMembership 用户是否持有任意有效会员
func (r *MembershipRepository) HasAnyActiveMembership(userID int64, now time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&model.Membership{}).
		Where("user_id = ? AND status = ? AND expires_at > ?",
			userID, model.MembershipStatusActive, now).
		Count(&count).Error
	return count > 0, err
}

// Update 保存整条记录，gorm 自动刷新 updated_at
func (r *MembershipRepository) Update(membership *model.Membership) error {
	return r.db.Save(membership).Error
}

func (r *MembershipRepository) UpdateStatus(id int64, status string) error {
	return r.db.Model(&model.Membership{}).Where("id = ?", id).Update("status", status).Error
}

// GetExpiredActive 获取已到期但状态仍为 active 的会员，最早到期在前，limit 控制批量
func (r *MembershipRepository) GetExpiredActive(limit int, now time.Time) ([]*model.Membership, error) {
	var memberships []*model.Membership
	err := r.db.Where("status = ? AND expires_at <= ?", model.MembershipStatusActive, now).
		Order("expires_at ASC").
		Limit(limit).
		Find(&memberships).Error
	return memberships, err
}

// Delete 物理删除（仅供管理端清理，正常流转只改状态）
func (r *MembershipRepository) Delete(id int64) error {
	return r.db.Delete(&model.Membership{}, id).Error
}

// List 条件分页查询
func (r *MembershipRepository) List(opts ListOptions) ([]*model.Membership, error) {
	var memberships []*model.Membership

	query := r.db.Model(&model.Membership{})
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}
	if opts.PlanID > 0 {
		query = query.Where("plan_id = ?", opts.PlanID)
	}
	if opts.UserID > 0 {
		query = query.Where("user_id = ?", opts.UserID)
	}

	orderBy := opts.OrderBy
	if !allowedOrderColumns[orderBy] {
		orderBy = "created_at"
	}
	order := "DESC"
	if opts.Order == "ASC" {
		order = "ASC"
	}
	query = query.Order(orderBy + " " + order)

	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	query = query.Limit(limit).Offset(opts.Offset)

	err := query.Find(&memberships).Error
	return memberships, err
}

// Count 条件计数
func (r *MembershipRepository) Count(opts ListOptions) (int64, error) {
	var count int64

	query := r.db.Model(&model.Membership{})
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}
	if opts.PlanID > 0 {
		query = query.Where("plan_id = ?", opts.PlanID)
	}
	if opts.UserID > 0 {
		query = query.Where("user_id = ?", opts.UserID)
	}

	err := query.Count(&count).Error
	return count, err
}
