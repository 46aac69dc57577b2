package main

import (
	"flag"
	"log"
	"os"

	"github.com/wpshift/membership_go_server/config"
	"github.com/wpshift/membership_go_server/internal/database"
	"github.com/wpshift/membership_go_server/internal/pkg/events"
	"github.com/wpshift/membership_go_server/internal/repository"
	"github.com/wpshift/membership_go_server/internal/service"
	"github.com/wpshift/membership_go_server/internal/worker"
)

var (
	dryRun = flag.Bool("dry-run", true, "Dry run mode, list expired memberships without updating them")
	limit  = flag.Int("limit", 0, "Batch size per pass, 0 uses the configured sweep_limit")
)

func main() {
	flag.Parse()

	log.Println("🧹 Starting membership expiration sweep...")
	log.Printf("Mode: dry-run=%v", *dryRun)

	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	batchLimit := cfg.Membership.SweepLimit
	if *limit > 0 {
		batchLimit = *limit
	}

	// 连接数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)

	membershipService := service.NewMembershipService(
		membershipRepo, planRepo, userRepo, nil, events.NewBus(),
		cfg.Membership.ReactivateGraceDays)
	sweeper := worker.NewSweeper(
		membershipService, membershipRepo, planRepo, userRepo, nil, batchLimit)

	if *dryRun {
		pending, err := sweeper.Pending()
		if err != nil {
			log.Fatalf("Failed to list expired memberships: %v", err)
		}

		for _, m := range pending {
			log.Printf("  - membership %d (user %d, plan %d) expired at %s",
				m.ID, m.UserID, m.PlanID, m.ExpiresAt.Format("2006-01-02 15:04:05"))
		}
		log.Printf("Found %d expired memberships in the next batch", len(pending))
		log.Println("⚠️  DRY RUN MODE - No memberships were updated")
		log.Println("   Run with -dry-run=false to mark them expired")
		return
	}

	total := 0
	for {
		processed, more, err := sweeper.Sweep()
		if err != nil {
			log.Fatalf("Sweep failed after %d memberships: %v", total, err)
		}
		total += processed
		if !more {
			break
		}
	}

	log.Printf("✅ Sweep completed, %d memberships marked expired", total)
}
