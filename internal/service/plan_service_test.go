package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wpshift/membership_go_server/internal/model"
	"github.com/wpshift/membership_go_server/internal/model/dto"
	"github.com/wpshift/membership_go_server/internal/repository"
	"github.com/wpshift/membership_go_server/internal/testutil"
)

func TestPlanService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewPlanService(repository.NewPlanRepository(db))

	plan, err := svc.Create(&dto.CreatePlanRequest{
		ID:           601,
		Name:         "Monthly Pass",
		Duration:     1,
		DurationUnit: model.DurationUnitMonths,
		Price:        9.99,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(601), plan.ID)
	assert.Equal(t, "standard", plan.Tier) // 默认等级
	assert.True(t, plan.Active)
}

func TestPlanService_Create_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewPlanService(repository.NewPlanRepository(db))
	existing := testutil.TestPlan(t, db, testutil.WithPlanID(611))

	_, err := svc.Create(&dto.CreatePlanRequest{
		ID:           existing.ID,
		Name:         "Duplicate",
		Duration:     30,
		DurationUnit: model.DurationUnitDays,
	})
	assert.ErrorIs(t, err, ErrPlanExists)
}

func TestPlanService_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewPlanService(repository.NewPlanRepository(db))
	plan := testutil.TestPlan(t, db, testutil.WithPlanID(621))

	name := "Renamed"
	active := false
	updated, err := svc.Update(plan.ID, &dto.UpdatePlanRequest{
		Name:   &name,
		Active: &active,
	})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Name)
	assert.False(t, updated.Active)
	// 未出现在请求里的字段不变
	assert.Equal(t, plan.Duration, updated.Duration)
	assert.Equal(t, plan.Tier, updated.Tier)
}

func TestPlanService_Update_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewPlanService(repository.NewPlanRepository(db))

	name := "Renamed"
	_, err := svc.Update(99999, &dto.UpdatePlanRequest{Name: &name})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPlanService_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := NewPlanService(repository.NewPlanRepository(db))
	plan := testutil.TestPlan(t, db, testutil.WithPlanID(631))

	require.NoError(t, svc.Delete(plan.ID))

	err := svc.Delete(plan.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
