package entity

import (
	"time"

	"gorm.io/datatypes"
)

// CheckRun 体检记录实体
type CheckRun struct {
	// 基础字段
	ID          string `gorm:"column:id;primaryKey;type:varchar(64)"`
	TriggeredBy string `gorm:"column:triggered_by;type:varchar(16);not null"`

	// 体检状态与结果
	Status       string         `gorm:"column:status;type:varchar(16);not null;default:'RUNNING';index:idx_status"`
	Result       datatypes.JSON `gorm:"column:result;type:json"`
	ErrorMessage string         `gorm:"column:error_message;type:varchar(1024)"`

	// 时间戳
	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (CheckRun) TableName() string {
	return "check_runs"
}

// 体检状态常量
const (
	CheckRunStatusRunning   = "RUNNING"
	CheckRunStatusCompleted = "COMPLETED"
	CheckRunStatusFailed    = "FAILED"
)
