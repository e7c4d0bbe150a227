package db

import (
	"time"

	"github.com/iamahmet/karasuEmlak-sub001/internal/entity/common"
)

// MediaAsset stores one persisted image artifact together with its provenance.
//
// An asset is created exactly once by the uploader after the provider chain
// resolves; afterwards only usage_count and last_used_at are mutated on cache
// hits. Deletion is an administrative action outside this service.
type MediaAsset struct {
	ID        string    `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// 存储层字段名保留了最初 Cloudinary 时期的列名，存储后端已可插拔。
	PublicID  string `gorm:"column:cloudinary_public_id;type:varchar(255);uniqueIndex" json:"public_id"`
	SecureURL string `gorm:"column:cloudinary_secure_url;type:varchar(1024)" json:"secure_url"`

	Width  int    `gorm:"column:width" json:"width"`
	Height int    `gorm:"column:height" json:"height"`
	Format string `gorm:"column:format;type:varchar(16)" json:"format"`
	Bytes  int64  `gorm:"column:bytes" json:"bytes"`

	EntityType string `gorm:"column:entity_type;type:varchar(32);index:idx_media_assets_entity" json:"entity_type"`
	EntityID   string `gorm:"column:entity_id;type:varchar(64);index:idx_media_assets_entity" json:"entity_id"`
	AssetType  string `gorm:"column:asset_type;type:varchar(32)" json:"asset_type"`

	AIGenerated        bool           `gorm:"column:ai_generated" json:"ai_generated"`
	PromptHash         string         `gorm:"column:prompt_hash;type:varchar(64)" json:"prompt_hash"`
	ContextHash        string         `gorm:"column:context_hash;type:varchar(64);index" json:"context_hash"`
	GenerationCost     float64        `gorm:"column:generation_cost;type:decimal(10,4);default:0" json:"generation_cost"`
	GenerationMetadata common.JSONMap `gorm:"column:generation_metadata;type:json" json:"generation_metadata"`
	Transformations    common.JSONMap `gorm:"column:transformations;type:json" json:"transformations"`

	Tags common.StringArray `gorm:"column:tags;type:json" json:"tags"`

	UsageCount int64     `gorm:"column:usage_count;default:1" json:"usage_count"`
	LastUsedAt time.Time `gorm:"column:last_used_at" json:"last_used_at"`
}

// TableName 指定表名
func (MediaAsset) TableName() string {
	return "media_assets"
}
