package catalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/omishoninjp-sys/shopifychecker/internal/business"
	"github.com/omishoninjp-sys/shopifychecker/internal/domains/common"
	"github.com/omishoninjp-sys/shopifychecker/internal/domains/common/job"
	"github.com/omishoninjp-sys/shopifychecker/internal/domains/common/response"
	"github.com/omishoninjp-sys/shopifychecker/internal/model"
)

// CheckHandler 目录体检 Handler
type CheckHandler struct {
	ctx     context.Context
	meta    *job.Meta
	jobData *model.CatalogCheckData
}

// NewCheckHandler 创建体检 Handler
// 解析标准化 Job 消息
func NewCheckHandler(ctx context.Context, meta *job.Meta, payload interface{}) (common.HandlerServ, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload failed: %w", err)
	}

	var bizData model.CatalogCheckBusinessData
	if err := json.Unmarshal(payloadBytes, &bizData); err != nil {
		return nil, fmt.Errorf("unmarshal business data failed: %w", err)
	}

	// 校验必填字段
	if bizData.CheckID == "" {
		return nil, fmt.Errorf("check_id is required")
	}

	jobData := &model.CatalogCheckData{
		RequestID:  meta.RequestID,
		OrgID:      meta.OrgID,
		ActionType: meta.ActionType,
		ID:         meta.ID,
		Data:       bizData,
	}

	return &CheckHandler{
		ctx:     ctx,
		meta:    meta,
		jobData: jobData,
	}, nil
}

// GetProcess 处理体检请求
func (h *CheckHandler) GetProcess() *response.Response {
	result := response.NewCheckResult(h.jobData.Data.CheckID)

	err := h.process()

	resp := &response.Response{}
	resp.WrapResponse(result, h.meta, err)

	return resp
}

// process 业务处理逻辑
func (h *CheckHandler) process() error {
	// 从 Context 获取 CheckService
	checkService, ok := h.ctx.Value("check_service").(*business.CheckService)
	if !ok || checkService == nil {
		return fmt.Errorf("CheckService not found in context")
	}

	return checkService.ExecuteCheck(h.ctx, h.jobData)
}
