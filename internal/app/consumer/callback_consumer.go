package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/omishoninjp-sys/shopifychecker/internal/app/services/svcallback"
	"github.com/omishoninjp-sys/shopifychecker/internal/model"
	"github.com/omishoninjp-sys/shopifychecker/pkg/lmstfy"
	"github.com/omishoninjp-sys/shopifychecker/pkg/logger"
)

// CallbackConsumer 回调消费者
// 职责：
// 1. 从 lmstfy 队列消费回调消息
// 2. 解析消息并调用 CallbackService 处理
// 3. 确认消息（ACK）
type CallbackConsumer struct {
	lmstfyClient    *lmstfy.Client
	callbackService *svcallback.CallbackService
	queueName       string
	logger          logger.Logger

	timeout      time.Duration // 拉取消息超时
	ttr          time.Duration // Time-To-Run
	pollInterval time.Duration // 出错时的轮询间隔
}

// Config 消费者配置
type Config struct {
	QueueName    string
	Timeout      time.Duration
	TTR          time.Duration
	PollInterval time.Duration
}

// NewCallbackConsumer 创建回调消费者实例
func NewCallbackConsumer(
	lmstfyClient *lmstfy.Client,
	callbackService *svcallback.CallbackService,
	cfg *Config,
	log logger.Logger,
) *CallbackConsumer {
	return &CallbackConsumer{
		lmstfyClient:    lmstfyClient,
		callbackService: callbackService,
		queueName:       cfg.QueueName,
		timeout:         cfg.Timeout,
		ttr:             cfg.TTR,
		pollInterval:    cfg.PollInterval,
		logger:          log,
	}
}

// Start 启动消费循环（阻塞，ctx 取消后退出）
func (c *CallbackConsumer) Start(ctx context.Context) error {
	c.logger.Infof(ctx, "callback consumer started: queue=%s, timeout=%v, ttr=%v",
		c.queueName, c.timeout, c.ttr)

	for {
		select {
		case <-ctx.Done():
			c.logger.Infof(ctx, "callback consumer stopped")
			return ctx.Err()
		default:
			if err := c.consumeOne(ctx); err != nil {
				c.logger.Errorf(ctx, "consume callback failed: %v", err)
				time.Sleep(c.pollInterval)
			}
		}
	}
}

// consumeOne 消费一条消息
func (c *CallbackConsumer) consumeOne(ctx context.Context) error {
	// 1. 从队列拉取消息
	msg, err := c.lmstfyClient.Consume(c.queueName, c.timeout, c.ttr)
	if err != nil {
		return fmt.Errorf("consume message failed: %w", err)
	}

	if msg == nil {
		// 没有消息，继续等待
		return nil
	}

	c.logger.Infof(ctx, "received callback message: job_id=%s", msg.ID)

	// 2. 解析回调消息
	callback, err := c.parseMessage(msg.Data)
	if err != nil {
		c.logger.Errorf(ctx, "parse callback failed: job_id=%s, error=%v", msg.ID, err)
		// 解析失败，直接 ACK（避免死循环）
		_ = c.lmstfyClient.Ack(c.queueName, msg.ID)
		return err
	}

	// 3. 处理回调
	if err := c.callbackService.HandleCallback(ctx, callback); err != nil {
		// 处理失败，不 ACK（让 lmstfy TTR 机制重试）
		c.logger.Errorf(ctx, "handle callback failed: job_id=%s, check_id=%s, error=%v",
			msg.ID, callback.CheckID, err)
		return err
	}

	// 4. 确认消息
	if err := c.lmstfyClient.Ack(c.queueName, msg.ID); err != nil {
		c.logger.Errorf(ctx, "ack callback failed: job_id=%s, error=%v", msg.ID, err)
		return err
	}

	c.logger.Infof(ctx, "callback message processed: job_id=%s, check_id=%s", msg.ID, callback.CheckID)
	return nil
}

// parseMessage 解析消息数据
func (c *CallbackConsumer) parseMessage(data []byte) (*model.CheckCallback, error) {
	var callback model.CheckCallback
	if err := json.Unmarshal(data, &callback); err != nil {
		return nil, fmt.Errorf("unmarshal callback failed: %w", err)
	}

	if callback.CheckID == "" {
		return nil, fmt.Errorf("check_id is required")
	}
	if callback.Status == "" {
		return nil, fmt.Errorf("status is required")
	}

	return &callback, nil
}
