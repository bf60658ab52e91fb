package svcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/omishoninjp-sys/shopifychecker/internal/app/modules/mdcheck"
	"github.com/omishoninjp-sys/shopifychecker/internal/entity"
	"github.com/omishoninjp-sys/shopifychecker/internal/model"
	"github.com/omishoninjp-sys/shopifychecker/internal/repo/rpcheckrun"
	infraredis "github.com/omishoninjp-sys/shopifychecker/pkg/infra/redis"
	"github.com/omishoninjp-sys/shopifychecker/pkg/logger"
)

// CheckPublisher 体检任务发布与结果订阅（由 mdcheck.CheckModule 实现）
type CheckPublisher interface {
	PublishCheckJob(ctx context.Context, checkID, triggeredBy string, sendEmail bool) error
	SubscribeCheckResult(ctx context.Context, checkID string) infraredis.ResultWaiter
}

var _ CheckPublisher = (*mdcheck.CheckModule)(nil)

// CheckService 体检编排服务（API 侧）
// 职责：创建体检记录 → 订阅结果频道 → 发布任务 → Smart Wait 等待结果
type CheckService struct {
	checkRepo   rpcheckrun.CheckRunRepository
	checkModule CheckPublisher
	logger      logger.Logger
}

// NewCheckService 创建体检编排服务实例
func NewCheckService(
	checkRepo rpcheckrun.CheckRunRepository,
	checkModule CheckPublisher,
	log logger.Logger,
) *CheckService {
	return &CheckService{
		checkRepo:   checkRepo,
		checkModule: checkModule,
		logger:      log,
	}
}

// CheckView 对外返回的体检记录视图
type CheckView struct {
	CheckID     string          `json:"check_id"`
	Status      string          `json:"status"`
	TriggeredBy string          `json:"triggered_by"`
	Result      *model.CheckRun `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// StartCheck 发起一次全量体检
// waitSeconds > 0 时 Smart Wait：等待 worker 完成后直接返回结果，
// 超时则返回仍在 RUNNING 的记录，调用方轮询查询接口。
// 返回的 bool 表示结果是否已就绪。
func (s *CheckService) StartCheck(ctx context.Context, triggeredBy string, sendEmail bool, waitSeconds int) (*CheckView, bool, error) {
	checkID := uuid.New().String()

	// 1. 创建体检记录（RUNNING）
	if err := s.checkRepo.Create(ctx, checkID, triggeredBy); err != nil {
		return nil, false, fmt.Errorf("create check run failed: %w", err)
	}

	// 2. Smart Wait 场景先订阅结果频道再发布任务，
	// 否则 worker 在订阅建立前完成时通知会丢失
	var waiter infraredis.ResultWaiter
	if waitSeconds > 0 {
		waiter = s.checkModule.SubscribeCheckResult(ctx, checkID)
		defer waiter.Close()
	}

	// 3. 发布体检任务
	if err := s.checkModule.PublishCheckJob(ctx, checkID, triggeredBy, sendEmail); err != nil {
		// 发布失败时标记记录失败，避免永久 RUNNING
		_ = s.checkRepo.UpdateResult(ctx, checkID, nil, entity.CheckRunStatusFailed, err.Error())
		return nil, false, fmt.Errorf("publish check job failed: %w", err)
	}

	s.logger.Infof(ctx, "check %s published, triggered_by=%s", checkID, triggeredBy)

	// 4. Smart Wait（等待体检结果通知）
	if waiter != nil {
		timeout := time.Duration(waitSeconds) * time.Second
		if _, err := waiter.Wait(ctx, timeout); err != nil {
			// 超时或订阅失败：返回 RUNNING 记录，由调用方轮询
			s.logger.Warnf(ctx, "wait for check result failed: check_id=%s, error=%v", checkID, err)
			view, getErr := s.GetCheck(ctx, checkID)
			if getErr != nil {
				return nil, false, getErr
			}
			return view, false, nil
		}

		// 通知到达，从 DB 读取完整结果
		view, err := s.GetCheck(ctx, checkID)
		if err != nil {
			return nil, false, err
		}
		return view, true, nil
	}

	view, err := s.GetCheck(ctx, checkID)
	if err != nil {
		return nil, false, err
	}
	return view, false, nil
}

// GetCheck 查询体检记录
func (s *CheckService) GetCheck(ctx context.Context, checkID string) (*CheckView, error) {
	po, err := s.checkRepo.GetByID(ctx, checkID)
	if err != nil {
		return nil, fmt.Errorf("get check run failed: %w", err)
	}
	if po == nil {
		return nil, nil
	}
	return toView(po)
}

// GetLatest 查询最近一次已完成的体检记录
func (s *CheckService) GetLatest(ctx context.Context) (*CheckView, error) {
	po, err := s.checkRepo.GetLatest(ctx)
	if err != nil {
		return nil, fmt.Errorf("get latest check run failed: %w", err)
	}
	if po == nil {
		return nil, nil
	}
	return toView(po)
}

// ListChecks 分页查询体检记录（列表不含完整结果，避免响应过大）
func (s *CheckService) ListChecks(ctx context.Context, page, limit int) ([]*CheckView, int64, error) {
	pos, total, err := s.checkRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list check runs failed: %w", err)
	}

	views := make([]*CheckView, 0, len(pos))
	for _, po := range pos {
		views = append(views, &CheckView{
			CheckID:     po.ID,
			Status:      po.Status,
			TriggeredBy: po.TriggeredBy,
			Error:       po.ErrorMessage,
			CreatedAt:   po.CreatedAt,
			UpdatedAt:   po.UpdatedAt,
		})
	}
	return views, total, nil
}

// toView 实体转视图（反序列化结果 JSON）
func toView(po *entity.CheckRun) (*CheckView, error) {
	view := &CheckView{
		CheckID:     po.ID,
		Status:      po.Status,
		TriggeredBy: po.TriggeredBy,
		Error:       po.ErrorMessage,
		CreatedAt:   po.CreatedAt,
		UpdatedAt:   po.UpdatedAt,
	}

	if len(po.Result) > 0 {
		var result model.CheckRun
		if err := json.Unmarshal(po.Result, &result); err != nil {
			return nil, fmt.Errorf("unmarshal check result failed: %w", err)
		}
		view.Result = &result
	}

	return view, nil
}
