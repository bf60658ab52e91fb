package mdcheck

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/omishoninjp-sys/shopifychecker/internal/model"
	infraredis "github.com/omishoninjp-sys/shopifychecker/pkg/infra/redis"
	"github.com/omishoninjp-sys/shopifychecker/pkg/lmstfy"
)

// CheckModule 体检任务模块
// 职责：
// 1. 组装 Lmstfy 和 Redis 客户端
// 2. 体检任务的消息格式构造与频道命名规则
type CheckModule struct {
	lmstfyClient *lmstfy.Client
	redisClient  *infraredis.PubSub
	queueName    string
}

// NewCheckModule 创建体检模块实例
func NewCheckModule(lmstfyClient *lmstfy.Client, redisClient *infraredis.PubSub, queueName string) *CheckModule {
	return &CheckModule{
		lmstfyClient: lmstfyClient,
		redisClient:  redisClient,
		queueName:    queueName,
	}
}

// PublishCheckJob 发布目录体检任务到队列
func (m *CheckModule) PublishCheckJob(ctx context.Context, checkID, triggeredBy string, sendEmail bool) error {
	message := model.CatalogCheckJob{
		Payload: model.CatalogCheckPayload{
			Data: model.CatalogCheckData{
				RequestID:  uuid.New().String(), // 全链路追踪
				OrgID:      "0",
				ActionType: model.ActionTypeCatalogCheck,
				ID:         checkID,
				Data: model.CatalogCheckBusinessData{
					CheckID:     checkID,
					TriggeredBy: triggeredBy,
					SendEmail:   sendEmail,
				},
			},
		},
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal check job failed: %w", err)
	}

	// ttl=0 表示永不过期, delay=0 表示立即可用
	return m.lmstfyClient.Publish(m.queueName, data, 0, 0)
}

// SubscribeCheckResult 订阅体检结果通知（Smart Wait）
// 调用方须先订阅再发布任务，并负责 Close
func (m *CheckModule) SubscribeCheckResult(ctx context.Context, checkID string) infraredis.ResultWaiter {
	return m.redisClient.SubscribeCheckResult(ctx, checkID)
}
