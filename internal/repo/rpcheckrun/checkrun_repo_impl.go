package rpcheckrun

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/omishoninjp-sys/shopifychecker/internal/entity"
	"github.com/omishoninjp-sys/shopifychecker/internal/model"
)

// CheckRunRepositoryImpl 体检记录仓储实现（MySQL）
type CheckRunRepositoryImpl struct {
	db *gorm.DB
}

// NewCheckRunRepository 创建体检记录仓储实例
func NewCheckRunRepository(db *gorm.DB) CheckRunRepository {
	return &CheckRunRepositoryImpl{db: db}
}

// Create 创建体检记录
func (r *CheckRunRepositoryImpl) Create(ctx context.Context, checkID string, triggeredBy string) error {
	now := time.Now()
	po := &entity.CheckRun{
		ID:          checkID,
		TriggeredBy: triggeredBy,
		Status:      entity.CheckRunStatusRunning,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return r.db.WithContext(ctx).Create(po).Error
}

// GetByID 根据ID查询体检记录
func (r *CheckRunRepositoryImpl) GetByID(ctx context.Context, checkID string) (*entity.CheckRun, error) {
	var po entity.CheckRun
	err := r.db.WithContext(ctx).Where("id = ?", checkID).First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &po, nil
}

// GetLatest 查询最近一次已完成的体检记录
func (r *CheckRunRepositoryImpl) GetLatest(ctx context.Context) (*entity.CheckRun, error) {
	var po entity.CheckRun
	err := r.db.WithContext(ctx).
		Where("status = ?", entity.CheckRunStatusCompleted).
		Order("created_at DESC").
		First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &po, nil
}

// UpdateResult 更新体检结果
func (r *CheckRunRepositoryImpl) UpdateResult(ctx context.Context, checkID string, result *model.CheckRun, status string, errorMsg string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}

	if result != nil {
		resultJSON, err := json.Marshal(result)
		if err != nil {
			return err
		}
		updates["result"] = resultJSON
	}

	if errorMsg != "" {
		updates["error_message"] = errorMsg
	}

	return r.db.WithContext(ctx).
		Model(&entity.CheckRun{}).
		Where("id = ?", checkID).
		Updates(updates).Error
}

// List 分页查询体检记录
func (r *CheckRunRepositoryImpl) List(ctx context.Context, page, limit int) ([]*entity.CheckRun, int64, error) {
	var total int64
	var pos []entity.CheckRun

	query := r.db.WithContext(ctx).Model(&entity.CheckRun{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Order("created_at DESC").Find(&pos).Error; err != nil {
		return nil, 0, err
	}

	runs := make([]*entity.CheckRun, 0, len(pos))
	for i := range pos {
		runs = append(runs, &pos[i])
	}

	return runs, total, nil
}
