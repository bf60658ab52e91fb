package svcheck

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omishoninjp-sys/shopifychecker/internal/entity"
	"github.com/omishoninjp-sys/shopifychecker/internal/model"
	infraredis "github.com/omishoninjp-sys/shopifychecker/pkg/infra/redis"
)

// nopLogger 测试用空日志
type nopLogger struct{}

func (nopLogger) Debugf(ctx context.Context, format string, args ...interface{}) {}
func (nopLogger) Infof(ctx context.Context, format string, args ...interface{})  {}
func (nopLogger) Warnf(ctx context.Context, format string, args ...interface{})  {}
func (nopLogger) Errorf(ctx context.Context, format string, args ...interface{}) {}
func (nopLogger) Sync() error                                                    { return nil }

// stubRepo 可编程的体检记录仓储桩
type stubRepo struct {
	rows map[string]*entity.CheckRun

	failedStatus string
	failedMsg    string
}

func (r *stubRepo) Create(ctx context.Context, checkID string, triggeredBy string) error {
	if r.rows == nil {
		r.rows = make(map[string]*entity.CheckRun)
	}
	r.rows[checkID] = &entity.CheckRun{
		ID:          checkID,
		TriggeredBy: triggeredBy,
		Status:      entity.CheckRunStatusRunning,
	}
	return nil
}

func (r *stubRepo) GetByID(ctx context.Context, checkID string) (*entity.CheckRun, error) {
	return r.rows[checkID], nil
}

func (r *stubRepo) GetLatest(ctx context.Context) (*entity.CheckRun, error) {
	return nil, nil
}

func (r *stubRepo) UpdateResult(ctx context.Context, checkID string, result *model.CheckRun, status string, errorMsg string) error {
	r.failedStatus = status
	r.failedMsg = errorMsg
	if row, ok := r.rows[checkID]; ok {
		row.Status = status
		row.ErrorMessage = errorMsg
	}
	return nil
}

func (r *stubRepo) List(ctx context.Context, page, limit int) ([]*entity.CheckRun, int64, error) {
	return nil, 0, nil
}

// stubWaiter 可编程的结果等待桩
type stubWaiter struct {
	notification *infraredis.CheckNotification
	waitErr      error
	closed       bool
	module       *stubModule
}

func (w *stubWaiter) Wait(ctx context.Context, timeout time.Duration) (*infraredis.CheckNotification, error) {
	w.module.calls = append(w.module.calls, "wait")
	if w.waitErr != nil {
		return nil, w.waitErr
	}
	return w.notification, nil
}

func (w *stubWaiter) Close() error {
	w.closed = true
	return nil
}

// stubModule 可编程的任务发布桩，记录调用顺序
type stubModule struct {
	calls      []string
	publishErr error
	waiter     *stubWaiter

	onPublish func(checkID string)
}

func (m *stubModule) PublishCheckJob(ctx context.Context, checkID, triggeredBy string, sendEmail bool) error {
	m.calls = append(m.calls, "publish")
	if m.publishErr != nil {
		return m.publishErr
	}
	if m.onPublish != nil {
		m.onPublish(checkID)
	}
	return nil
}

func (m *stubModule) SubscribeCheckResult(ctx context.Context, checkID string) infraredis.ResultWaiter {
	m.calls = append(m.calls, "subscribe")
	if m.waiter == nil {
		m.waiter = &stubWaiter{module: m}
	}
	m.waiter.module = m
	return m.waiter
}

func TestStartCheckSubscribesBeforePublish(t *testing.T) {
	// 先订阅再发布，worker 先完成也不会丢通知
	repo := &stubRepo{}
	module := &stubModule{
		waiter: &stubWaiter{
			notification: &infraredis.CheckNotification{Status: entity.CheckRunStatusCompleted},
		},
	}
	// 模拟 worker 在发布后立即完成
	module.onPublish = func(checkID string) {
		repo.rows[checkID].Status = entity.CheckRunStatusCompleted
	}

	svc := NewCheckService(repo, module, nopLogger{})
	view, ready, err := svc.StartCheck(context.Background(), model.TriggeredByAPI, false, 5)
	require.NoError(t, err)

	assert.Equal(t, []string{"subscribe", "publish", "wait"}, module.calls)
	assert.True(t, ready)
	assert.Equal(t, entity.CheckRunStatusCompleted, view.Status)
	assert.True(t, module.waiter.closed)
}

func TestStartCheckPublishFailureMarksFailed(t *testing.T) {
	// 发布失败时记录标记为 FAILED，不能永久停留在 RUNNING
	repo := &stubRepo{}
	module := &stubModule{publishErr: errors.New("lmstfy unavailable")}

	svc := NewCheckService(repo, module, nopLogger{})
	_, _, err := svc.StartCheck(context.Background(), model.TriggeredByAPI, false, 0)
	require.Error(t, err)

	assert.Equal(t, entity.CheckRunStatusFailed, repo.failedStatus)
	assert.Contains(t, repo.failedMsg, "lmstfy unavailable")
}

func TestStartCheckWaitTimeoutFallsBack(t *testing.T) {
	// 超时返回 RUNNING 记录，由调用方轮询
	repo := &stubRepo{}
	module := &stubModule{
		waiter: &stubWaiter{waitErr: context.DeadlineExceeded},
	}

	svc := NewCheckService(repo, module, nopLogger{})
	view, ready, err := svc.StartCheck(context.Background(), model.TriggeredByAPI, false, 1)
	require.NoError(t, err)

	assert.False(t, ready)
	assert.Equal(t, entity.CheckRunStatusRunning, view.Status)
	assert.True(t, module.waiter.closed)
}

func TestStartCheckNoWaitSkipsSubscribe(t *testing.T) {
	repo := &stubRepo{}
	module := &stubModule{}

	svc := NewCheckService(repo, module, nopLogger{})
	view, ready, err := svc.StartCheck(context.Background(), model.TriggeredBySchedule, true, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"publish"}, module.calls)
	assert.False(t, ready)
	assert.Equal(t, entity.CheckRunStatusRunning, view.Status)
}
