package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CheckResultChannel 体检结果通知频道前缀
const CheckResultChannel = "check:result:"

// ResultChannel 指定体检的结果频道名
func ResultChannel(checkID string) string {
	return CheckResultChannel + checkID
}

// PubSub Redis 发布/订阅客户端
type PubSub struct {
	client *redis.Client
}

// NewPubSub 创建 PubSub 实例
func NewPubSub(addr, password string, db int) (*PubSub, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// 测试连接
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &PubSub{
		client: client,
	}, nil
}

// CheckNotification 体检完成通知消息
type CheckNotification struct {
	CheckID   string `json:"check_id"`
	Status    string `json:"status"` // COMPLETED/FAILED
	Timestamp int64  `json:"timestamp"`
}

// PublishCheckComplete 发布体检完成通知
func (p *PubSub) PublishCheckComplete(ctx context.Context, notification *CheckNotification) error {
	msgJSON, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	channel := ResultChannel(notification.CheckID)
	if err := p.client.Publish(ctx, channel, msgJSON).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}

// ResultWaiter 已订阅的结果等待句柄
type ResultWaiter interface {
	Wait(ctx context.Context, timeout time.Duration) (*CheckNotification, error)
	Close() error
}

// ResultSubscription 基于 Redis 订阅的 ResultWaiter 实现
type ResultSubscription struct {
	sub *redis.PubSub
}

// SubscribeCheckResult 订阅体检结果频道
// Smart Wait 必须先订阅再发布任务：worker 先于订阅完成时通知会丢失
func (p *PubSub) SubscribeCheckResult(ctx context.Context, checkID string) ResultWaiter {
	return &ResultSubscription{
		sub: p.client.Subscribe(ctx, ResultChannel(checkID)),
	}
}

// Wait 等待通知，支持超时控制
func (s *ResultSubscription) Wait(ctx context.Context, timeout time.Duration) (*CheckNotification, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case msg := <-s.sub.Channel():
		var n CheckNotification
		if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
			return nil, fmt.Errorf("failed to unmarshal notification: %w", err)
		}
		return &n, nil
	case <-timeoutCtx.Done():
		return nil, timeoutCtx.Err()
	}
}

// Close 取消订阅
func (s *ResultSubscription) Close() error {
	return s.sub.Close()
}

// Close 关闭 Redis 连接
func (p *PubSub) Close() error {
	return p.client.Close()
}
