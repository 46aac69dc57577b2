package dto

// ExtendMembershipRequest 延长会员请求
type ExtendMembershipRequest struct {
	Duration int    `json:"duration" binding:"required,min=1"`
	Unit     string `json:"unit,omitempty" binding:"omitempty,oneof=days weeks months years"`
}

// MembershipListItem 会员列表项
type MembershipListItem struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	PlanID    int64  `json:"plan_id"`
	OrderID   int64  `json:"order_id"`
	Tier      string `json:"tier"`
	Status    string `json:"status"`
	StartedAt string `json:"started_at"`
	ExpiresAt string `json:"expires_at"`
	Current   bool   `json:"current"` // status 与到期时间共同判定
	CreatedAt string `json:"created_at"`
}

// MembershipDetail 会员详情
type MembershipDetail struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	PlanID    int64  `json:"plan_id"`
	PlanName  string `json:"plan_name,omitempty"`
	OrderID   int64  `json:"order_id"`
	Tier      string `json:"tier"`
	Status    string `json:"status"`
	StartedAt string `json:"started_at"`
	ExpiresAt string `json:"expires_at"`
	Current   bool   `json:"current"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// AccessResult 权限查询结果
type AccessResult struct {
	UserID    int64 `json:"user_id"`
	PlanID    int64 `json:"plan_id,omitempty"`
	HasAccess bool  `json:"has_access"`
}

// SweepResult 手动过期扫描结果
type SweepResult struct {
	Processed int  `json:"processed"`
	More      bool `json:"more"`
}
