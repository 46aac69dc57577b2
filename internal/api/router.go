package api

import (
	"github.com/gin-gonic/gin"

	"github.com/wpshift/membership_go_server/config"
	"github.com/wpshift/membership_go_server/internal/api/handler"
	"github.com/wpshift/membership_go_server/internal/api/middleware"
	"github.com/wpshift/membership_go_server/internal/pkg/response"
	"github.com/wpshift/membership_go_server/internal/service"
)

type Router struct {
	authHandler       *handler.AuthHandler
	membershipHandler *handler.MembershipHandler
	accessHandler     *handler.AccessHandler
	planHandler       *handler.PlanHandler
	orderHandler      *handler.OrderHandler
	checkoutHandler   *handler.CheckoutHandler
	accessService     *service.AccessService
	cfg               *config.Config
}

func NewRouter(
	authHandler *handler.AuthHandler,
	membershipHandler *handler.MembershipHandler,
	accessHandler *handler.AccessHandler,
	planHandler *handler.PlanHandler,
	orderHandler *handler.OrderHandler,
	checkoutHandler *handler.CheckoutHandler,
	accessService *service.AccessService,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:       authHandler,
		membershipHandler: membershipHandler,
		accessHandler:     accessHandler,
		planHandler:       planHandler,
		orderHandler:      orderHandler,
		checkoutHandler:   checkoutHandler,
		accessService:     accessService,
		cfg:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS(r.cfg.CORS))

	api := engine.Group("/api/v1")
	{
		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/login", r.authHandler.Login)
		}

		// 公开接口 - 上架中的套餐
		api.GET("/plans", r.planHandler.List)
		api.GET("/plans/:id", r.planHandler.Get)

		// 需要认证的管理接口
		authenticated := api.Group("")
		authenticated.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			// 会员管理
			memberships := authenticated.Group("/memberships")
			{
				memberships.GET("", r.membershipHandler.List)
				memberships.POST("/sweep", r.membershipHandler.Sweep)
				memberships.GET("/:id", r.membershipHandler.Get)
				memberships.DELETE("/:id", r.membershipHandler.Delete)
				memberships.POST("/:id/revoke", r.membershipHandler.Revoke)
				memberships.POST("/:id/extend", r.membershipHandler.Extend)
				memberships.POST("/:id/reactivate", r.membershipHandler.Reactivate)
			}

			// 套餐管理
			authenticated.POST("/plans", r.planHandler.Create)
			authenticated.PUT("/plans/:id", r.planHandler.Update)
			authenticated.DELETE("/plans/:id", r.planHandler.Delete)

			// 订单
			orders := authenticated.Group("/orders")
			{
				orders.POST("/:id/complete", r.orderHandler.Complete)
				orders.POST("/:id/process", r.orderHandler.Process)
				orders.POST("/:id/checkout-fields", r.checkoutHandler.SaveFields)
				orders.GET("/:id/checkout-fields", r.checkoutHandler.GetFields)
			}

			// 指定用户的会员记录
			authenticated.GET("/users/:id/memberships", r.membershipHandler.ListByUser)

			// 权限查询
			authenticated.GET("/access", r.accessHandler.Query)
		}

		// 会员本人接口（用户 token）
		member := api.Group("/member")
		member.Use(middleware.Auth(r.cfg.JWT.Secret))
		{
			member.GET("/memberships", r.accessHandler.MyMemberships)

			// 会员专属内容示例：任意有效会员可访问
			content := member.Group("/content")
			content.Use(middleware.MembershipRequired(r.accessService, 0))
			{
				content.GET("", func(c *gin.Context) {
					response.Success(c, gin.H{"unlocked": true})
				})
			}
		}
	}

	return engine
}
