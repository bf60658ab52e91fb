package rpcheckrun

import (
	"context"

	"github.com/omishoninjp-sys/shopifychecker/internal/entity"
	"github.com/omishoninjp-sys/shopifychecker/internal/model"
)

// CheckRunRepository 体检记录仓储接口（只定义，不实现）
type CheckRunRepository interface {
	// Create 创建体检记录（状态 RUNNING）
	Create(ctx context.Context, checkID string, triggeredBy string) error

	// GetByID 根据ID查询体检记录
	GetByID(ctx context.Context, checkID string) (*entity.CheckRun, error)

	// GetLatest 查询最近一次已完成的体检记录
	GetLatest(ctx context.Context) (*entity.CheckRun, error)

	// UpdateResult 更新体检结果（成功时传结果，失败时传 nil + 错误信息）
	UpdateResult(ctx context.Context, checkID string, result *model.CheckRun, status string, errorMsg string) error

	// List 分页查询体检记录
	List(ctx context.Context, page, limit int) ([]*entity.CheckRun, int64, error)
}
