package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/omishoninjp-sys/shopifychecker/internal/app/services/svcheck"
	"github.com/omishoninjp-sys/shopifychecker/internal/config"
	"github.com/omishoninjp-sys/shopifychecker/internal/model"
	"github.com/omishoninjp-sys/shopifychecker/pkg/logger"
)

// Scheduler 排程器：按 cron 表达式定时发起全量体检
type Scheduler struct {
	cron     *cron.Cron
	checkSvc *svcheck.CheckService
	cfg      config.ScheduleConfig
	logger   logger.Logger
}

// NewScheduler 创建排程器
func NewScheduler(checkSvc *svcheck.CheckService, cfg config.ScheduleConfig, log logger.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		checkSvc: checkSvc,
		cfg:      cfg,
		logger:   log,
	}
}

// Start 注册排程并启动
// run_at_boot 为 true 时启动后立即补跑一次（异步，不阻塞启动）
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		s.logger.Infof(context.Background(), "[Scheduler] disabled")
		return nil
	}

	spec := s.cfg.CheckCron
	if spec == "" {
		spec = "0 9 * * *" // 每天 09:00
	}

	if _, err := s.cron.AddFunc(spec, s.runCheck); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Infof(context.Background(), "[Scheduler] started with spec: %s", spec)

	if s.cfg.RunAtBoot {
		go s.runCheck()
	}

	return nil
}

// Stop 停止排程（不打断执行中的任务）
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Infof(context.Background(), "[Scheduler] stopped")
}

// runCheck 触发一次排程体检（不等待结果，由 worker 回调落库）
func (s *Scheduler) runCheck() {
	ctx := context.Background()
	s.logger.Infof(ctx, "[Scheduler] triggering scheduled catalog check")

	view, _, err := s.checkSvc.StartCheck(ctx, model.TriggeredBySchedule, s.cfg.SendEmail, 0)
	if err != nil {
		s.logger.Errorf(ctx, "[Scheduler] scheduled check failed: %v", err)
		return
	}

	s.logger.Infof(ctx, "[Scheduler] scheduled check published: check_id=%s", view.CheckID)
}
