package sql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iamahmet/karasuEmlak-sub001/internal/entity"

	"gorm.io/gorm"
)

// CreateMediaAsset inserts a new media asset row.
func (r *GormRepository) CreateMediaAsset(ctx context.Context, asset *entity.DbMediaAsset) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if asset == nil {
		return fmt.Errorf("asset is nil")
	}
	return r.db.WithContext(ctx).Create(asset).Error
}

// GetMediaAsset retrieves a single media asset by ID.
func (r *GormRepository) GetMediaAsset(ctx context.Context, id string) (*entity.DbMediaAsset, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("invalid media asset id")
	}

	var asset entity.DbMediaAsset
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&asset).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load media asset: %w", err)
	}
	return &asset, nil
}

// FindAssetByContext returns the most recently created asset matching the
// entity type, the optional entity ID, and the context hash. A nil result with
// a nil error means no match.
func (r *GormRepository) FindAssetByContext(ctx context.Context, entityType, entityID, contextHash string) (*entity.DbMediaAsset, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(contextHash) == "" {
		return nil, fmt.Errorf("context hash is required")
	}

	query := r.db.WithContext(ctx).
		Model(&entity.DbMediaAsset{}).
		Where("entity_type = ?", entityType).
		Where("context_hash = ?", contextHash)
	if trimmed := strings.TrimSpace(entityID); trimmed != "" {
		query = query.Where("entity_id = ?", trimmed)
	}

	var asset entity.DbMediaAsset
	err := query.Order("created_at DESC").First(&asset).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query asset by context: %w", err)
	}
	return &asset, nil
}

// FindSimilarAsset returns the most reused asset of the given entity type
// whose transformations JSON contains every key/value pair in match. Ranking
// by usage_count reuses popular assets preferentially.
func (r *GormRepository) FindSimilarAsset(ctx context.Context, entityType string, match map[string]string) (*entity.DbMediaAsset, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if len(match) == 0 {
		return nil, nil
	}

	query := r.db.WithContext(ctx).
		Model(&entity.DbMediaAsset{}).
		Where("entity_type = ?", entityType)
	for key, value := range match {
		cleanKey := sanitizeJSONKey(key)
		if cleanKey == "" {
			continue
		}
		query = r.applyTransformationFilter(query, cleanKey, value)
	}

	var asset entity.DbMediaAsset
	err := query.Order("usage_count DESC, created_at DESC").First(&asset).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query similar asset: %w", err)
	}
	return &asset, nil
}

func (r *GormRepository) applyTransformationFilter(query *gorm.DB, key, value string) *gorm.DB {
	if query == nil {
		return query
	}

	switch r.dialectName() {
	case "mysql":
		return query.Where(fmt.Sprintf("JSON_UNQUOTE(JSON_EXTRACT(transformations, '$.%s')) = ?", key), value)
	case "postgres":
		return query.Where(fmt.Sprintf("transformations::json->>'%s' = ?", key), value)
	case "sqlite":
		return query.Where(fmt.Sprintf("json_extract(transformations, '$.%s') = ?", key), value)
	default:
		// 无 JSON 函数支持时退化为子串匹配
		return query.Where("transformations LIKE ?", fmt.Sprintf(`%%"%s":"%s"%%`, key, value))
	}
}

// IncrementAssetUsage bumps usage_count by one and refreshes last_used_at in a
// single UPDATE so concurrent reuse never loses increments.
func (r *GormRepository) IncrementAssetUsage(ctx context.Context, id string) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("invalid media asset id")
	}

	result := r.db.WithContext(ctx).
		Model(&entity.DbMediaAsset{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"usage_count":  gorm.Expr("usage_count + ?", 1),
			"last_used_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListMediaAssets retrieves paginated media assets.
func (r *GormRepository) ListMediaAssets(ctx context.Context, params *entity.MediaAssetQuery) ([]entity.DbMediaAsset, *entity.Meta, error) {
	if r == nil || r.db == nil {
		return nil, nil, fmt.Errorf("repository not initialised")
	}

	query := r.db.WithContext(ctx).Model(&entity.DbMediaAsset{})
	if params != nil {
		if trimmed := strings.TrimSpace(params.EntityType); trimmed != "" {
			query = query.Where("entity_type = ?", trimmed)
		}
		if trimmed := strings.TrimSpace(params.EntityID); trimmed != "" {
			query = query.Where("entity_id = ?", trimmed)
		}
		if trimmed := strings.ToLower(strings.TrimSpace(params.AIGenerated)); trimmed != "" && trimmed != "all" {
			switch trimmed {
			case "true":
				query = query.Where("ai_generated = ?", true)
			case "false":
				query = query.Where("ai_generated = ?", false)
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

	var assets []entity.DbMediaAsset
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(pageSize).Find(&assets).Error; err != nil {
		return nil, nil, err
	}

	meta := r.calculatePagination(totalCount, page, pageSize)
	return assets, meta, nil
}
