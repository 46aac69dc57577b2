package cron

import (
	"log"
	"time"

	"github.com/wpshift/membership_go_server/internal/worker"
)

// Service 定时任务服务，每天在固定 UTC 小时执行一轮过期扫描，
// 取满一批时按 followUp 间隔继续追加扫描直到清空
type Service struct {
	sweeper  *worker.Sweeper
	hourUTC  int
	followUp time.Duration
	stopChan chan struct{}
}

func NewService(sweeper *worker.Sweeper, hourUTC int, followUpSeconds int) *Service {
	if hourUTC < 0 || hourUTC > 23 {
		hourUTC = 0
	}
	if followUpSeconds <= 0 {
		followUpSeconds = 60
	}
	return &Service{
		sweeper:  sweeper,
		hourUTC:  hourUTC,
		followUp: time.Duration(followUpSeconds) * time.Second,
		stopChan: make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runDailySweep()
	log.Println("Cron service started (membership expiration sweep)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// TriggerSoon 在 followUp 延迟之后额外执行一轮扫描（非阻塞）
func (s *Service) TriggerSoon() {
	go func() {
		select {
		case <-s.stopChan:
			return
		case <-time.After(s.followUp):
			s.runSweep()
		}
	}()
}

// RunNow 立即执行一轮扫描（用于测试或手动触发）
func (s *Service) RunNow() (int, bool, error) {
	return s.sweeper.Sweep()
}

// runDailySweep 每日过期扫描任务
func (s *Service) runDailySweep() {
	timer := time.NewTimer(s.untilNextRun(time.Now().UTC()))

	for {
		select {
		case <-s.stopChan:
			timer.Stop()
			return
		case <-timer.C:
			s.runSweep()
			timer.Reset(24 * time.Hour)
		}
	}
}

// runSweep 执行扫描，取满一批后等待 followUp 再继续，直到清空或被停止
func (s *Service) runSweep() {
	for {
		_, more, err := s.sweeper.Sweep()
		if err != nil {
			log.Printf("Sweep failed: %v", err)
			return
		}
		if !more {
			return
		}

		select {
		case <-s.stopChan:
			return
		case <-time.After(s.followUp):
		}
	}
}

// untilNextRun 距离下一次执行时刻的时长
func (s *Service) untilNextRun(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hourUTC, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
