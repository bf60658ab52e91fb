package model

// CatalogCheckJob 目录体检任务消息（标准化）
// 用于 apiserver → worker 的消息传递
type CatalogCheckJob struct {
	Payload CatalogCheckPayload `json:"payload"`
}

// CatalogCheckPayload Job 负载
type CatalogCheckPayload struct {
	Data CatalogCheckData `json:"data"`
}

// CatalogCheckData Job 数据层
type CatalogCheckData struct {
	// 元信息
	RequestID  string `json:"request_id"`  // 请求 ID（全链路追踪）
	OrgID      string `json:"org_id"`      // 组织 ID（固定为 "0"）
	ActionType string `json:"action_type"` // 动作类型，固定值 "catalog_check"
	ID         string `json:"id"`          // 体检记录 ID

	// 业务数据
	Data CatalogCheckBusinessData `json:"data"`
}

// CatalogCheckBusinessData 目录体检业务数据
type CatalogCheckBusinessData struct {
	CheckID     string `json:"check_id"`     // 体检记录 ID（与外层 id 一致）
	TriggeredBy string `json:"triggered_by"` // 触发来源: api / schedule
	SendEmail   bool   `json:"send_email"`   // 完成后是否发送邮件报告
}

// 动作类型常量
const ActionTypeCatalogCheck = "catalog_check"

// 触发来源常量
const (
	TriggeredByAPI      = "api"
	TriggeredBySchedule = "schedule"
)
