package response

import "github.com/omishoninjp-sys/shopifychecker/internal/domains/common/job"

// CheckResult 体检任务处理结果
type CheckResult struct {
	CheckID string `json:"check_id"`
	Status  string `json:"status"` // SUCCESS / FAILED
	Error   string `json:"error,omitempty"`
}

// NewCheckResult 创建体检结果
func NewCheckResult(checkID string) *CheckResult {
	return &CheckResult{CheckID: checkID}
}

// Set 设置元数据和错误（实现 ResultI）
func (r *CheckResult) Set(meta *job.Meta, err error) {
	if r.CheckID == "" {
		r.CheckID = meta.ID
	}
	if err != nil {
		r.Status = "FAILED"
		r.Error = err.Error()
	} else {
		r.Status = "SUCCESS"
	}
}

// GetStatus 获取状态（实现 ResultI）
func (r *CheckResult) GetStatus() string {
	return r.Status
}
