package svcallback

import (
	"context"
	"fmt"
	"time"

	"github.com/omishoninjp-sys/shopifychecker/internal/entity"
	"github.com/omishoninjp-sys/shopifychecker/internal/model"
	"github.com/omishoninjp-sys/shopifychecker/internal/repo/rpcheckrun"
	infraredis "github.com/omishoninjp-sys/shopifychecker/pkg/infra/redis"
	"github.com/omishoninjp-sys/shopifychecker/pkg/logger"
)

// CallbackService 回调处理服务
// 职责：
// 1. 处理 worker 发送的体检完成回调
// 2. 更新 DB 体检记录状态
// 3. 发送 Redis PubSub 通知（Smart Wait）
type CallbackService struct {
	checkRepo   rpcheckrun.CheckRunRepository
	redisClient *infraredis.PubSub
	logger      logger.Logger
}

// NewCallbackService 创建回调服务实例
func NewCallbackService(
	checkRepo rpcheckrun.CheckRunRepository,
	redisClient *infraredis.PubSub,
	log logger.Logger,
) *CallbackService {
	return &CallbackService{
		checkRepo:   checkRepo,
		redisClient: redisClient,
		logger:      log,
	}
}

// HandleCallback 处理体检回调
// 返回 error 表示处理失败（需要重试）
func (s *CallbackService) HandleCallback(ctx context.Context, callback *model.CheckCallback) error {
	s.logger.Infof(ctx, "processing callback: check_id=%s, status=%s, request_id=%s",
		callback.CheckID, callback.Status, callback.RequestID)

	// 1. 根据回调状态更新 DB
	if err := s.updateCheckRun(ctx, callback); err != nil {
		s.logger.Errorf(ctx, "update check run failed: check_id=%s, error=%v", callback.CheckID, err)
		return fmt.Errorf("update check run failed: %w", err)
	}

	// 2. 发送 Redis PubSub 通知（用于 Smart Wait）
	// 通知失败不影响整体流程（DB 已更新成功），只记录日志
	if err := s.publishNotification(ctx, callback); err != nil {
		s.logger.Warnf(ctx, "publish redis notification failed: check_id=%s, error=%v", callback.CheckID, err)
	}

	s.logger.Infof(ctx, "callback processed: check_id=%s", callback.CheckID)
	return nil
}

// updateCheckRun 根据回调状态更新体检记录
func (s *CallbackService) updateCheckRun(ctx context.Context, callback *model.CheckCallback) error {
	if callback.Status == model.CallbackStatusSuccess {
		return s.checkRepo.UpdateResult(ctx, callback.CheckID, callback.Result, entity.CheckRunStatusCompleted, "")
	}
	return s.checkRepo.UpdateResult(ctx, callback.CheckID, nil, entity.CheckRunStatusFailed, callback.Error)
}

// publishNotification 发送体检完成通知（每个体检独立频道）
func (s *CallbackService) publishNotification(ctx context.Context, callback *model.CheckCallback) error {
	status := entity.CheckRunStatusCompleted
	if callback.Status != model.CallbackStatusSuccess {
		status = entity.CheckRunStatusFailed
	}

	return s.redisClient.PublishCheckComplete(ctx, &infraredis.CheckNotification{
		CheckID:   callback.CheckID,
		Status:    status,
		Timestamp: time.Now().Unix(),
	})
}
