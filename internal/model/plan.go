package model

import (
	"time"
)

// 会员时长单位
const (
	DurationUnitDays   = "days"
	DurationUnitWeeks  = "weeks"
	DurationUnitMonths = "months"
	DurationUnitYears  = "years"
)

// Plan 会员套餐（对应商城中的 membership 类型商品）
type Plan struct {
	ID           int64     `gorm:"primaryKey" json:"id"` // 即商城的 product_id
	Name         string    `gorm:"size:200;not null" json:"name"`
	Tier         string    `gorm:"size:50;not null;default:standard" json:"tier"`
	Duration     int       `gorm:"not null;default:1" json:"duration"`
	DurationUnit string    `gorm:"size:20;not null;default:days" json:"duration_unit"` // days, weeks, months, years
	Price        float64   `gorm:"type:decimal(10,2)" json:"price"`
	Active       bool      `gorm:"default:true" json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Plan) TableName() string {
	return "membership_plans"
}

// ValidDurationUnit 检查时长单位是否合法
func ValidDurationUnit(unit string) bool {
	switch unit {
	case DurationUnitDays, DurationUnitWeeks, DurationUnitMonths, DurationUnitYears:
		return true
	}
	return false
}

// AddDuration 在基准时间上叠加时长，duration <= 0 时按 1 处理
func AddDuration(base time.Time, duration int, unit string) time.Time {
	if duration <= 0 {
		duration = 1
	}

	switch unit {
	case DurationUnitWeeks:
		return base.AddDate(0, 0, duration*7)
	case DurationUnitMonths:
		return base.AddDate(0, duration, 0)
	case DurationUnitYears:
		return base.AddDate(duration, 0, 0)
	default:
		// 未知单位按天处理
		return base.AddDate(0, 0, duration)
	}
}

// ExpirationFrom 根据套餐时长计算到期时间
func (p *Plan) ExpirationFrom(start time.Time) time.Time {
	return AddDuration(start, p.Duration, p.DurationUnit)
}
