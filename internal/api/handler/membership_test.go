package handler

import (
	"fmt"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wpshift/membership_go_server/internal/model"
	"github.com/wpshift/membership_go_server/internal/model/dto"
	"github.com/wpshift/membership_go_server/internal/pkg/events"
	"github.com/wpshift/membership_go_server/internal/pkg/response"
	"github.com/wpshift/membership_go_server/internal/repository"
	"github.com/wpshift/membership_go_server/internal/service"
	"github.com/wpshift/membership_go_server/internal/testutil"
	"github.com/wpshift/membership_go_server/internal/worker"
)

func setupMembershipHandler(t *testing.T, db *gorm.DB) *MembershipHandler {
	t.Helper()

	membershipRepo := repository.NewMembershipRepository(db)
	planRepo := repository.NewPlanRepository(db)
	userRepo := repository.NewUserRepository(db)

	membershipService := service.NewMembershipService(
		membershipRepo, planRepo, userRepo, nil, events.NewBus(), 30)
	sweeper := worker.NewSweeper(membershipService, membershipRepo, planRepo, userRepo, nil, 100)

	return NewMembershipHandler(membershipService, sweeper)
}

func membershipRouter(h *MembershipHandler) *gin.Engine {
	router := gin.New()
	router.GET("/memberships", h.List)
	router.GET("/users/:id/memberships", h.ListByUser)
	router.POST("/memberships/sweep", h.Sweep)
	router.GET("/memberships/:id", h.Get)
	router.DELETE("/memberships/:id", h.Delete)
	router.POST("/memberships/:id/revoke", h.Revoke)
	router.POST("/memberships/:id/extend", h.Extend)
	router.POST("/memberships/:id/reactivate", h.Reactivate)
	return router
}

func TestMembershipHandler_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	router := membershipRouter(setupMembershipHandler(t, db))
	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	order := testutil.TestOrder(t, db, user.ID, plan.ID)

	testutil.TestMembership(t, db, user.ID, plan.ID, order.ID)
	testutil.TestMembership(t, db, user.ID, plan.ID, order.ID,
		testutil.WithStatus(model.MembershipStatusCancelled))

	t.Run("all", func(t *testing.T) {
		w := performRequest(router, "GET", "/memberships", nil)
		resp := parseResponse(t, w)

		require.Equal(t, response.CodeSuccess, resp.Code)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, float64(2), data["total"])
	})

	t.Run("status filter", func(t *testing.T) {
		w := performRequest(router, "GET", "/memberships?status=active", nil)
		resp := parseResponse(t, w)

		require.Equal(t, response.CodeSuccess, resp.Code)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, float64(1), data["total"])
	})

	t.Run("pagination", func(t *testing.T) {
		w := performRequest(router, "GET", "/memberships?page=2&page_size=1", nil)
		resp := parseResponse(t, w)

		require.Equal(t, response.CodeSuccess, resp.Code)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, float64(2), data["total"])
		items := data["items"].([]interface{})
		assert.Len(t, items, 1)
	})
}

func TestMembershipHandler_ListByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	router := membershipRouter(setupMembershipHandler(t, db))
	user := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	order := testutil.TestOrder(t, db, user.ID, plan.ID)

	testutil.TestMembership(t, db, user.ID, plan.ID, order.ID)
	testutil.TestMembership(t, db, user.ID, plan.ID, order.ID,
		testutil.WithStatus(model.MembershipStatusExpired))
	testutil.TestMembership(t, db, other.ID, plan.ID, order.ID)

	w := performRequest(router, "GET", fmt.Sprintf("/users/%d/memberships", user.ID), nil)
	resp := parseResponse(t, w)

	require.Equal(t, response.CodeSuccess, resp.Code)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(2), data["total"])
}

func TestMembershipHandler_Get(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	router := membershipRouter(setupMembershipHandler(t, db))
	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	order := testutil.TestOrder(t, db, user.ID, plan.ID)
	m := testutil.TestMembership(t, db, user.ID, plan.ID, order.ID)

	t.Run("found", func(t *testing.T) {
		w := performRequest(router, "GET", fmt.Sprintf("/memberships/%d", m.ID), nil)
		resp := parseResponse(t, w)

		require.Equal(t, response.CodeSuccess, resp.Code)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, float64(m.ID), data["id"])
		assert.Equal(t, plan.Name, data["plan_name"])
	})

	t.Run("not found", func(t *testing.T) {
		w := performRequest(router, "GET", "/memberships/99999", nil)
		resp := parseResponse(t, w)
		assert.Equal(t, response.CodeResourceNotFound, resp.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		w := performRequest(router, "GET", "/memberships/abc", nil)
		resp := parseResponse(t, w)
		assert.Equal(t, response.CodeParamError, resp.Code)
	})
}

func TestMembershipHandler_Revoke(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	router := membershipRouter(setupMembershipHandler(t, db))
	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	order := testutil.TestOrder(t, db, user.ID, plan.ID)
	m := testutil.TestMembership(t, db, user.ID, plan.ID, order.ID)

	w := performRequest(router, "POST", fmt.Sprintf("/memberships/%d/revoke", m.ID), nil)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	var found model.Membership
	require.NoError(t, db.First(&found, m.ID).Error)
	assert.Equal(t, model.MembershipStatusCancelled, found.Status)

	// 已取消的不能再次取消
	w = performRequest(router, "POST", fmt.Sprintf("/memberships/%d/revoke", m.ID), nil)
	resp = parseResponse(t, w)
	assert.Equal(t, response.CodeDuplicateAction, resp.Code)
}

func TestMembershipHandler_Extend(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	router := membershipRouter(setupMembershipHandler(t, db))
	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	order := testutil.TestOrder(t, db, user.ID, plan.ID)

	expiresAt := time.Now().Add(24 * time.Hour)
	m := testutil.TestMembership(t, db, user.ID, plan.ID, order.ID,
		testutil.WithExpiresAt(expiresAt))

	t.Run("success", func(t *testing.T) {
		w := performRequest(router, "POST", fmt.Sprintf("/memberships/%d/extend", m.ID),
			dto.ExtendMembershipRequest{Duration: 7, Unit: "days"})
		resp := parseResponse(t, w)
		require.Equal(t, response.CodeSuccess, resp.Code)

		var found model.Membership
		require.NoError(t, db.First(&found, m.ID).Error)
		assert.WithinDuration(t, expiresAt.AddDate(0, 0, 7), found.ExpiresAt, time.Second)
	})

	t.Run("missing duration", func(t *testing.T) {
		w := performRequest(router, "POST", fmt.Sprintf("/memberships/%d/extend", m.ID),
			map[string]string{"unit": "days"})
		resp := parseResponse(t, w)
		assert.Equal(t, response.CodeParamError, resp.Code)
	})

	t.Run("invalid unit", func(t *testing.T) {
		w := performRequest(router, "POST", fmt.Sprintf("/memberships/%d/extend", m.ID),
			map[string]interface{}{"duration": 1, "unit": "decades"})
		resp := parseResponse(t, w)
		assert.Equal(t, response.CodeParamError, resp.Code)
	})

	t.Run("not found", func(t *testing.T) {
		w := performRequest(router, "POST", "/memberships/99999/extend",
			dto.ExtendMembershipRequest{Duration: 7, Unit: "days"})
		resp := parseResponse(t, w)
		assert.Equal(t, response.CodeResourceNotFound, resp.Code)
	})
}

func TestMembershipHandler_Reactivate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	router := membershipRouter(setupMembershipHandler(t, db))
	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	order := testutil.TestOrder(t, db, user.ID, plan.ID)
	m := testutil.TestMembership(t, db, user.ID, plan.ID, order.ID,
		testutil.WithStatus(model.MembershipStatusExpired),
		testutil.WithExpiresAt(time.Now().AddDate(0, 0, -10)))

	w := performRequest(router, "POST", fmt.Sprintf("/memberships/%d/reactivate", m.ID), nil)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	var found model.Membership
	require.NoError(t, db.First(&found, m.ID).Error)
	assert.Equal(t, model.MembershipStatusActive, found.Status)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 30), found.ExpiresAt, 5*time.Second)
}

func TestMembershipHandler_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	router := membershipRouter(setupMembershipHandler(t, db))
	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	order := testutil.TestOrder(t, db, user.ID, plan.ID)
	m := testutil.TestMembership(t, db, user.ID, plan.ID, order.ID)

	w := performRequest(router, "DELETE", fmt.Sprintf("/memberships/%d", m.ID), nil)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	w = performRequest(router, "DELETE", fmt.Sprintf("/memberships/%d", m.ID), nil)
	resp = parseResponse(t, w)
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
}

func TestMembershipHandler_Sweep(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	router := membershipRouter(setupMembershipHandler(t, db))
	user := testutil.TestUser(t, db)
	plan := testutil.TestPlan(t, db)
	order := testutil.TestOrder(t, db, user.ID, plan.ID)

	testutil.TestMembership(t, db, user.ID, plan.ID, order.ID,
		testutil.WithExpiresAt(time.Now().Add(-time.Hour)))
	testutil.TestMembership(t, db, user.ID, plan.ID, order.ID)

	w := performRequest(router, "POST", "/memberships/sweep", nil)
	resp := parseResponse(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["processed"])
	assert.Equal(t, false, data["more"])
}
