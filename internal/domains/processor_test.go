package domains

import (
	"context"
	"testing"

	"github.com/bitleak/lmstfy/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omishoninjp-sys/shopifychecker/internal/domains/common/job"
	"github.com/omishoninjp-sys/shopifychecker/internal/domains/common/response"
	"github.com/omishoninjp-sys/shopifychecker/pkg/errorutil"
	"github.com/omishoninjp-sys/shopifychecker/pkg/lmstfyx"
)

type testLogger struct{}

func (testLogger) Debugf(ctx context.Context, format string, args ...interface{}) {}
func (testLogger) Infof(ctx context.Context, format string, args ...interface{})  {}
func (testLogger) Warnf(ctx context.Context, format string, args ...interface{})  {}
func (testLogger) Errorf(ctx context.Context, format string, args ...interface{}) {}
func (testLogger) Sync() error                                                    { return nil }

func TestParseJob(t *testing.T) {
	t.Run("标准消息", func(t *testing.T) {
		data := []byte(`{"payload":{"data":{"request_id":"req-1","org_id":"0","action_type":"catalog_check","id":"chk-1","data":{"check_id":"chk-1","triggered_by":"api"}}}}`)
		_, meta, bizPayload, err := parseJob(context.Background(), &client.Job{ID: "j1", Data: data}, testLogger{})
		require.NoError(t, err)

		assert.Equal(t, "req-1", meta.RequestID)
		assert.Equal(t, "catalog_check", meta.ActionType)
		assert.Equal(t, "chk-1", meta.ID)
		assert.NotNil(t, bizPayload)
	})

	t.Run("request_id 缺失时自动生成", func(t *testing.T) {
		data := []byte(`{"payload":{"data":{"action_type":"catalog_check","id":"chk-2","data":{}}}}`)
		_, meta, _, err := parseJob(context.Background(), &client.Job{ID: "j2", Data: data}, testLogger{})
		require.NoError(t, err)
		assert.NotEmpty(t, meta.RequestID)
	})

	t.Run("payload 缺失报错", func(t *testing.T) {
		_, _, _, err := parseJob(context.Background(), &client.Job{ID: "j3", Data: []byte(`{}`)}, testLogger{})
		assert.Error(t, err)
	})

	t.Run("非法 JSON 报错", func(t *testing.T) {
		_, _, _, err := parseJob(context.Background(), &client.Job{ID: "j4", Data: []byte(`not json`)}, testLogger{})
		assert.Error(t, err)
	})
}

func TestDoJobReport(t *testing.T) {
	meta := &job.Meta{RequestID: "req-1", ID: "chk-1"}

	t.Run("成功 ACK", func(t *testing.T) {
		resp := &response.Response{}
		resp.WrapResponse(response.NewCheckResult("chk-1"), meta, nil)

		jobResp := doJobReport(context.Background(), resp, testLogger{})
		assert.Equal(t, lmstfyx.JobRespStatusSuccess, jobResp.Action)
		assert.NotEmpty(t, jobResp.Data)
	})

	t.Run("可重试错误 Release", func(t *testing.T) {
		resp := &response.Response{}
		resp.WrapResponse(response.NewCheckResult("chk-1"), meta, errorutil.Retriable("shopify api rate limited"))

		jobResp := doJobReport(context.Background(), resp, testLogger{})
		assert.Equal(t, lmstfyx.JobRespStatusRelease, jobResp.Action)
	})

	t.Run("不可重试错误 Bury", func(t *testing.T) {
		resp := &response.Response{}
		resp.WrapResponse(response.NewCheckResult("chk-1"), meta, errorutil.NonRetriable("check_id is required"))

		jobResp := doJobReport(context.Background(), resp, testLogger{})
		assert.Equal(t, lmstfyx.JobRespStatusBury, jobResp.Action)
	})
}

func TestHandlerMapRouting(t *testing.T) {
	_, ok := HandlerMap["catalog_check"]
	assert.True(t, ok)

	_, ok = HandlerMap["unknown_action"]
	assert.False(t, ok)
}
