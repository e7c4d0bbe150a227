package db

import "time"

// GenerationLog records one image acquisition attempt, cache hit or miss.
// Rows are append-only; the rate governor reads them back in rolling windows.
type GenerationLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	GenerationType string `gorm:"column:generation_type;type:varchar(32);index" json:"generation_type"`
	ImageSize      string `gorm:"column:image_size;type:varchar(32)" json:"image_size"`
	ImageQuality   string `gorm:"column:image_quality;type:varchar(32)" json:"image_quality"`

	Cost         float64 `gorm:"column:cost;type:decimal(10,4);default:0" json:"cost"`
	Success      bool    `gorm:"column:success" json:"success"`
	ErrorMessage string  `gorm:"column:error_message;type:text" json:"error_message"`

	MediaAssetID string `gorm:"column:media_asset_id;type:varchar(36)" json:"media_asset_id"`
}

// TableName 指定表名
func (GenerationLog) TableName() string {
	return "ai_image_generation_logs"
}
