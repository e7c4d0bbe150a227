package model

import (
	"context"
	"time"

	"github.com/iamahmet/karasuEmlak-sub001/internal/entity"
)

// Repository 定义数据库操作接口
type Repository interface {
	// 媒体资产
	CreateMediaAsset(ctx context.Context, asset *entity.DbMediaAsset) error
	GetMediaAsset(ctx context.Context, id string) (*entity.DbMediaAsset, error)
	FindAssetByContext(ctx context.Context, entityType, entityID, contextHash string) (*entity.DbMediaAsset, error)
	FindSimilarAsset(ctx context.Context, entityType string, match map[string]string) (*entity.DbMediaAsset, error)
	IncrementAssetUsage(ctx context.Context, id string) error
	ListMediaAssets(ctx context.Context, params *entity.MediaAssetQuery) ([]entity.DbMediaAsset, *entity.Meta, error)

	// 生成日志（追加写入，限流窗口回读）
	CreateGenerationLog(ctx context.Context, entry *entity.DbGenerationLog) error
	ListGenerationLogs(ctx context.Context, params *entity.GenerationLogQuery) ([]entity.DbGenerationLog, *entity.Meta, error)
	CountLogsSince(ctx context.Context, since time.Time) (int64, error)
	SumCostSince(ctx context.Context, since time.Time) (float64, error)
}
