package model

// CheckCallback 体检完成回调消息（标准化）
// 用于 worker → apiserver callback consumer 的消息传递
type CheckCallback struct {
	RequestID   string    `json:"request_id"`       // 对应请求的 request_id（链路追踪）
	CheckID     string    `json:"check_id"`         // 体检记录 ID
	Status      string    `json:"status"`           // 回调状态: SUCCESS / FAILED
	Result      *CheckRun `json:"result,omitempty"` // 体检结果（成功时返回）
	Error       string    `json:"error,omitempty"`  // 错误信息（失败时返回）
	ProcessedAt int64     `json:"processed_at"`     // 处理时间戳（Unix timestamp）
}

// 回调状态常量
const (
	CallbackStatusSuccess = "SUCCESS"
	CallbackStatusFailed  = "FAILED"
)
