package entity

import "time"

// ImageOptions 控制生成图片的尺寸、质量与匹配策略。
type ImageOptions struct {
	Size    string `json:"size,omitempty"`
	Quality string `json:"quality,omitempty"`
	Style   string `json:"style,omitempty"`

	// ExactMatch 为 true 时仅允许 context hash 精确命中缓存，
	// 关闭相似度复用。
	ExactMatch bool `json:"exact_match,omitempty"`
}

// ImageUpload 描述产物持久化时的归属信息。
type ImageUpload struct {
	Folder     string   `json:"folder,omitempty"`
	EntityType string   `json:"entity_type,omitempty"`
	EntityID   string   `json:"entity_id,omitempty"`
	Alt        string   `json:"alt,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// GenerateImageRequest 是编辑端请求一张图片的入参。
type GenerateImageRequest struct {
	Type    string       `json:"type" binding:"required"` // 实体类型：listing/article/news/neighborhood/other
	Context JSONMap      `json:"context"`
	Options ImageOptions `json:"options"`
	Upload  ImageUpload  `json:"upload"`
}

// GenerateImageResponse 是图片获取接口的统一出参。
type GenerateImageResponse struct {
	Success   bool   `json:"success"`
	PublicID  string `json:"public_id,omitempty"`
	SecureURL string `json:"secure_url,omitempty"`
	FromCache bool   `json:"from_cache,omitempty"`
	Error     string `json:"error,omitempty"`
}

// MediaAssetQuery 媒体资产列表查询参数。
type MediaAssetQuery struct {
	BaseParams
	EntityType  string `json:"entity_type" form:"entity_type" query:"entity_type"`
	EntityID    string `json:"entity_id" form:"entity_id" query:"entity_id"`
	AIGenerated string `json:"ai_generated" form:"ai_generated" query:"ai_generated"` // all/true/false
}

// MediaAssetListResponse 媒体资产列表响应。
type MediaAssetListResponse struct {
	Assets []DbMediaAsset `json:"assets"`
	Meta   *Meta          `json:"meta"`
}

// GenerationLogQuery 生成日志列表查询参数。
type GenerationLogQuery struct {
	BaseParams
	Type   string `json:"type" form:"type" query:"type"`
	Result string `json:"result" form:"result" query:"result"` // success/failure/all
}

// GenerationLogListResponse 生成日志列表响应。
type GenerationLogListResponse struct {
	Logs []DbGenerationLog `json:"logs"`
	Meta *Meta             `json:"meta"`
}

// UsageSummary 汇总限流窗口内的用量，供 /api/ai/usage 查询。
type UsageSummary struct {
	HourlyRequests     int64     `json:"hourly_requests"`
	DailyRequests      int64     `json:"daily_requests"`
	DailyCost          float64   `json:"daily_cost"`
	MaxRequestsPerHour int       `json:"max_requests_per_hour"`
	MaxRequestsPerDay  int       `json:"max_requests_per_day"`
	MaxCostPerDay      float64   `json:"max_cost_per_day"`
	GeneratedAt        time.Time `json:"generated_at"`
}
