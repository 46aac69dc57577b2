package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wpshift/membership_go_server/internal/model"
	"github.com/wpshift/membership_go_server/internal/pkg/events"
	"github.com/wpshift/membership_go_server/internal/pkg/queue"
	"github.com/wpshift/membership_go_server/internal/repository"
	"github.com/wpshift/membership_go_server/internal/service"
	"github.com/wpshift/membership_go_server/internal/testutil"
)

func setupSweeper(t *testing.T, db *gorm.DB, limit int) (*Sweeper, *events.Bus) {
	t.Helper()

	membershipRepo := repository.NewMembershipRepository(db)
	planRepo := repository.NewPlanRepository(db)
	userRepo := repository.NewUserRepository(db)
	bus := events.NewBus()

	membershipService := service.NewMembershipService(
		membershipRepo, planRepo, userRepo, nil, bus, 30)

	sweeper := NewSweeper(membershipService, membershipRepo, planRepo, userRepo, nil, limit)
	return sweeper, bus
}

func TestSweeper_Sweep(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	sweeper, bus := setupSweeper(t, db, 100)
	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	order := testutil.TestOrder(t, db, user.ID, plan.ID)

	expired := 0
	bus.Subscribe(events.TypeMembershipExpired, func(evt events.Event) {
		expired++
	})

	// 两条已到期，一条未到期，一条已是 expired 状态
	m1 := testutil.TestMembership(t, db, user.ID, plan.ID, order.ID,
		testutil.WithExpiresAt(time.Now().Add(-time.Hour)))
	m2 := testutil.TestMembership(t, db, user.ID, plan.ID, order.ID,
		testutil.WithExpiresAt(time.Now().Add(-time.Minute)))
	stillValid := testutil.TestMembership(t, db, user.ID, plan.ID, order.ID)
	testutil.TestMembership(t, db, user.ID, plan.ID, order.ID,
		testutil.WithStatus(model.MembershipStatusExpired),
		testutil.WithExpiresAt(time.Now().Add(-time.Hour)))

	processed, more, err := sweeper.Sweep()
	require.NoError(t, err)

	assert.Equal(t, 2, processed)
	assert.False(t, more)
	assert.Equal(t, 2, expired)

	var found model.Membership
	require.NoError(t, db.First(&found, m1.ID).Error)
	assert.Equal(t, model.MembershipStatusExpired, found.Status)
	found = model.Membership{}
	require.NoError(t, db.First(&found, m2.ID).Error)
	assert.Equal(t, model.MembershipStatusExpired, found.Status)
	found = model.Membership{}
	require.NoError(t, db.First(&found, stillValid.ID).Error)
	assert.Equal(t, model.MembershipStatusActive, found.Status)
}

func TestSweeper_Sweep_Idle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	sweeper, _ := setupSweeper(t, db, 100)

	processed, more, err := sweeper.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 0, processed)
	assert.False(t, more)
}

func TestSweeper_Sweep_FullBatchSignalsMore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	sweeper, _ := setupSweeper(t, db, 3)
	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	order := testutil.TestOrder(t, db, user.ID, plan.ID)

	for i := 0; i < 5; i++ {
		testutil.TestMembership(t, db, user.ID, plan.ID, order.ID,
			testutil.WithExpiresAt(time.Now().Add(-time.Duration(i+1)*time.Hour)))
	}

	// 第一批取满 limit，提示还有剩余
	processed, more, err := sweeper.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 3, processed)
	assert.True(t, more)

	// 第二批只剩 2 条
	processed, more, err = sweeper.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 2, processed)
	assert.False(t, more)

	// 第三批已无剩余
	processed, more, err = sweeper.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 0, processed)
	assert.False(t, more)
}

func TestSweeper_Pending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	sweeper, _ := setupSweeper(t, db, 100)
	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	order := testutil.TestOrder(t, db, user.ID, plan.ID)

	m := testutil.TestMembership(t, db, user.ID, plan.ID, order.ID,
		testutil.WithExpiresAt(time.Now().Add(-time.Hour)))
	testutil.TestMembership(t, db, user.ID, plan.ID, order.ID)

	pending, err := sweeper.Pending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, m.ID, pending[0].ID)

	// 只读，不改状态
	var found model.Membership
	require.NoError(t, db.First(&found, m.ID).Error)
	assert.Equal(t, model.MembershipStatusActive, found.Status)
}

func TestProcessor_Process(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	grantService := service.NewGrantService(
		repository.NewOrderRepository(db),
		repository.NewMembershipRepository(db),
		repository.NewPlanRepository(db),
		repository.NewUserRepository(db),
		nil,
		events.NewBus(),
	)
	processor := NewProcessor(grantService)

	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db, testutil.WithPlanID(951))
	order := testutil.TestOrder(t, db, user.ID, plan.ID)

	ctx := context.Background()
	err := processor.Process(ctx, &queue.OrderMessage{OrderID: order.ID})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.Membership{}).Where("order_id = ?", order.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// 重复消息静默跳过
	err = processor.Process(ctx, &queue.OrderMessage{OrderID: order.ID})
	require.NoError(t, err)
}
