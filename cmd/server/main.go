package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/wpshift/membership_go_server/config"
	"github.com/wpshift/membership_go_server/internal/api"
	"github.com/wpshift/membership_go_server/internal/api/handler"
	"github.com/wpshift/membership_go_server/internal/database"
	"github.com/wpshift/membership_go_server/internal/pkg/email"
	"github.com/wpshift/membership_go_server/internal/pkg/events"
	"github.com/wpshift/membership_go_server/internal/pkg/pubsub"
	"github.com/wpshift/membership_go_server/internal/pkg/queue"
	"github.com/wpshift/membership_go_server/internal/repository"
	"github.com/wpshift/membership_go_server/internal/service"
	"github.com/wpshift/membership_go_server/internal/worker"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}
	log.Println("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}
	log.Println("Redis connected")

	// 初始化 Queue 和 Pub/Sub
	orderQueue := queue.NewQueue(rdb, cfg.Queue.OrderQueue)
	publisher := pubsub.NewPublisher(rdb)

	// 进程内事件总线，生命周期事件桥接到 Redis 频道
	bus := events.NewBus()
	bus.SubscribeAll(func(evt events.Event) {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		if err := publisher.PublishMembership(ctx, &pubsub.MembershipMessage{
			Type:         evt.Type,
			MembershipID: evt.MembershipID,
			UserID:       evt.UserID,
			PlanID:       evt.PlanID,
			OrderID:      evt.OrderID,
		}); err != nil {
			log.Printf("Failed to publish membership event: %v", err)
		}
	})

	// 初始化 Email
	emailService := email.NewService(&cfg.Email)

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	checkoutRepo := repository.NewCheckoutFieldRepository(db)

	// 初始化 Service
	authService := service.NewAuthService(cfg)
	planService := service.NewPlanService(planRepo)
	membershipService := service.NewMembershipService(
		membershipRepo, planRepo, userRepo, emailService, bus,
		cfg.Membership.ReactivateGraceDays)
	accessService := service.NewAccessService(membershipRepo)
	grantService := service.NewGrantService(
		orderRepo, membershipRepo, planRepo, userRepo, emailService, bus)
	checkoutService := service.NewCheckoutService(
		checkoutRepo, orderRepo, cfg.Checkout.RequiredFields)

	// 手动扫描接口用的 Sweeper
	sweeper := worker.NewSweeper(
		membershipService, membershipRepo, planRepo, userRepo, emailService,
		cfg.Membership.SweepLimit)

	// 初始化 Handler
	authHandler := handler.NewAuthHandler(authService)
	membershipHandler := handler.NewMembershipHandler(membershipService, sweeper)
	accessHandler := handler.NewAccessHandler(accessService)
	planHandler := handler.NewPlanHandler(planService)
	orderHandler := handler.NewOrderHandler(orderRepo, orderQueue, grantService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)

	// 初始化 Router
	router := api.NewRouter(
		authHandler,
		membershipHandler,
		accessHandler,
		planHandler,
		orderHandler,
		checkoutHandler,
		accessService,
		cfg,
	)
	engine := router.Setup()

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	if err := engine.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
