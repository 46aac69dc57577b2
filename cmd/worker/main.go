package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wpshift/membership_go_server/config"
	"github.com/wpshift/membership_go_server/internal/database"
	"github.com/wpshift/membership_go_server/internal/pkg/cron"
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

	// 发放服务与任务处理器
	grantService := service.NewGrantService(
		orderRepo, membershipRepo, planRepo, userRepo, emailService, bus)
	processor := worker.NewProcessor(grantService)

	// 过期扫描
	membershipService := service.NewMembershipService(
		membershipRepo, planRepo, userRepo, emailService, bus,
		cfg.Membership.ReactivateGraceDays)
	sweeper := worker.NewSweeper(
		membershipService, membershipRepo, planRepo, userRepo, emailService,
		cfg.Membership.SweepLimit)
	cronService := cron.NewService(sweeper, cfg.Membership.SweepHourUTC, cfg.Membership.FollowUpSeconds)
	cronService.Start()
	defer cronService.Stop()
	log.Printf("Expiration sweep scheduled daily at %02d:00 UTC", cfg.Membership.SweepHourUTC)

	// 创建 context 用于优雅关闭
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 监听退出信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal")
		cancel()
	}()

	log.Printf("Worker started, max workers: %d", cfg.Queue.MaxWorkers)

	// 启动 worker 循环
	for i := 0; i < cfg.Queue.MaxWorkers; i++ {
		go func(workerID int) {
			for {
				select {
				case <-ctx.Done():
					log.Printf("Worker %d shutting down", workerID)
					return
				default:
					// 从队列获取任务
					msg, err := orderQueue.Pop(ctx, 5*time.Second)
					if err != nil {
						if ctx.Err() != nil {
							return
						}
						log.Printf("Worker %d: failed to pop order: %v", workerID, err)
						continue
					}

					if msg == nil {
						continue // 超时，继续等待
					}

					log.Printf("Worker %d: processing order %d", workerID, msg.OrderID)
					if err := processor.Process(ctx, msg); err != nil {
						log.Printf("Worker %d: order %d failed: %v", workerID, msg.OrderID, err)
					}
				}
			}
		}(i)
	}

	// 等待 context 取消
	<-ctx.Done()
	log.Println("Worker shutdown complete")
}
