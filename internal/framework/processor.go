package framework

import (
	"context"
	"sync"
	"time"

	"github.com/bitleak/lmstfy/client"

	"github.com/omishoninjp-sys/shopifychecker/pkg/lmstfyx"
)

// Processor 处理器：接收消息，调用业务处理函数
type Processor struct {
	cfg        *ProcessorConfig
	proc       lmstfyx.Proc  // 业务处理函数（注入的 GetProcess）
	source     MessageSource // 处理结束后执行 ACK
	logger     Logger
	shutdownCh chan struct{}
	wg         sync.WaitGroup
}

// NewProcessor 创建处理器
func NewProcessor(cfg *ProcessorConfig, proc lmstfyx.Proc, source MessageSource, logger Logger) *Processor {
	return &Processor{
		cfg:        cfg,
		proc:       proc,
		source:     source,
		logger:     logger,
		shutdownCh: make(chan struct{}),
	}
}

// Start 启动处理协程
func (p *Processor) Start(ctx context.Context, inputChan <-chan *Message) error {
	p.logger.Infof(ctx, "[Processor] Starting with %d workers", p.cfg.Concurrency)

	for i := 0; i < p.cfg.Concurrency; i++ {
		workerID := i
		p.wg.Add(1)
		go p.loop(ctx, workerID, inputChan)
	}

	return nil
}

// SignalShutdown 通知 Processor 准备退出（进入 Drain 模式）
func (p *Processor) SignalShutdown() {
	p.logger.Infof(context.Background(), "[Processor] Shutdown signal received")
	close(p.shutdownCh)
}

// Wait 等待所有处理协程退出
func (p *Processor) Wait() {
	p.wg.Wait()
	p.logger.Infof(context.Background(), "[Processor] All workers exited")
}

// loop 处理循环（单个 Worker）
func (p *Processor) loop(ctx context.Context, workerID int, inputChan <-chan *Message) {
	defer p.wg.Done()
	p.logger.Infof(ctx, "[Processor-%d] Started", workerID)

	for {
		select {
		// A. 正常业务处理
		case msg := <-inputChan:
			p.process(ctx, msg, workerID)

		// B. Drain 模式：处理完剩余消息再退出
		case <-p.shutdownCh:
			p.logger.Infof(ctx, "[Processor-%d] Entering DRAIN mode", workerID)
			count := 0
			for {
				select {
				case msg := <-inputChan:
					p.process(ctx, msg, workerID)
					count++
				default:
					p.logger.Infof(ctx, "[Processor-%d] Drained %d messages, exiting", workerID, count)
					return
				}
			}
		}
	}
}

// process 处理单个消息
func (p *Processor) process(ctx context.Context, msg *Message, workerID int) {
	if msg == nil {
		return
	}

	startTime := time.Now()

	procCtx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	// 注入元信息到 Context
	procCtx = context.WithValue(procCtx, "worker_id", workerID)
	procCtx = context.WithValue(procCtx, "message_id", msg.ID)
	procCtx = context.WithValue(procCtx, "start_time", startTime)

	p.logger.Infof(procCtx, "[Processor-%d] Processing message: %s", workerID, msg.ID)

	job := &client.Job{
		ID:    msg.ID,
		Queue: msg.Queue,
		Data:  msg.Data,
	}

	resp := p.proc(procCtx, job)

	duration := time.Since(startTime)
	p.logger.Infof(procCtx, "[Processor-%d] Message processed: %s, action: %d, duration: %v",
		workerID, msg.ID, resp.Action, duration)

	p.settle(procCtx, msg, resp, workerID)
}

// settle 根据处理结果决定消息去向
// lmstfy 没有显式的 Release 指令：未 ACK 的消息 TTR 到期后自动重新投递，
// 因此 Release 等价于不做任何事，Bury 与 Success 一样 ACK（丢弃），只是日志级别不同。
func (p *Processor) settle(ctx context.Context, msg *Message, resp *lmstfyx.JobResp, workerID int) {
	switch resp.Action {
	case lmstfyx.JobRespStatusSuccess:
		if err := p.source.Ack(msg.Queue, msg.ID); err != nil {
			p.logger.Errorf(ctx, "[Processor-%d] Ack failed for %s: %v", workerID, msg.ID, err)
		}

	case lmstfyx.JobRespStatusRelease:
		p.logger.Warnf(ctx, "[Processor-%d] Message %s released, will be redelivered after TTR", workerID, msg.ID)

	case lmstfyx.JobRespStatusBury:
		p.logger.Errorf(ctx, "[Processor-%d] Message %s buried (non-retryable failure)", workerID, msg.ID)
		if err := p.source.Ack(msg.Queue, msg.ID); err != nil {
			p.logger.Errorf(ctx, "[Processor-%d] Ack failed for buried %s: %v", workerID, msg.ID, err)
		}
	}
}
