package sql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iamahmet/karasuEmlak-sub001/internal/entity"
)

// CreateGenerationLog appends a generation log entry. Rows are never updated.
func (r *GormRepository) CreateGenerationLog(ctx context.Context, entry *entity.DbGenerationLog) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if entry == nil {
		return fmt.Errorf("entry is nil")
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListGenerationLogs retrieves paginated generation log entries.
func (r *GormRepository) ListGenerationLogs(ctx context.Context, params *entity.GenerationLogQuery) ([]entity.DbGenerationLog, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbGenerationLog{})
	if params != nil {
		if trimmed := strings.TrimSpace(params.Type); trimmed != "" {
			query = query.Where("generation_type = ?", trimmed)
		}
		if trimmed := strings.ToLower(strings.TrimSpace(params.Result)); trimmed != "" && trimmed != "all" {
			switch trimmed {
			case "success":
				query = query.Where("success = ?", true)
			case "failure":
				query = query.Where("success = ?", false)
			}
		}
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, nil, err
	}

	page := 1
	pageSize := 20
	if params != nil {
		if params.Page > 0 {
			page = int(params.Page)
		}
		if params.PageSize > 0 {
			pageSize = int(params.PageSize)
		}
	}

	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}

	var logs []entity.DbGenerationLog
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(pageSize).Find(&logs).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(totalCount, page, pageSize)
	return logs, meta, nil
}

// CountLogsSince counts log entries created after the given instant.
func (r *GormRepository) CountLogsSince(ctx context.Context, since time.Time) (int64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.DbGenerationLog{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count generation logs: %w", err)
	}
	return count, nil
}

// SumCostSince sums the cost of log entries created after the given instant.
func (r *GormRepository) SumCostSince(ctx context.Context, since time.Time) (float64, error) {
	if r == nil || r.db == nil {
		return 0, fmt.Errorf("repository not initialised")
	}

	var total float64
	err := r.db.WithContext(ctx).
		Model(&entity.DbGenerationLog{}).
		Where("created_at >= ?", since).
		Select("COALESCE(SUM(cost), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum generation cost: %w", err)
	}
	return total, nil
}
