package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/iamahmet/karasuEmlak-sub001/internal/entity"
)

// GenerateImage 处理 POST /api/ai/generate-image：
// 缓存命中直接复用，未命中走限流后的多级获取链。
func (h *HTTPHandler) GenerateImage(c *gin.Context) {
	var request entity.GenerateImageRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		InvalidPayload(c)
		return
	}
	if strings.TrimSpace(request.Type) == "" {
		MissingField(c, "type")
		return
	}

	response := h.acquisition.GenerateImage(c.Request.Context(), &request)
	if !response.Success {
		// 编辑端要求显式错误而非静默的坏图
		c.JSON(http.StatusInternalServerError, response)
		return
	}
	c.JSON(http.StatusOK, response)
}

// ListMediaAssets 处理 GET /api/media-assets
func (h *HTTPHandler) ListMediaAssets(c *gin.Context) {
	var params entity.MediaAssetQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		InvalidPayload(c)
		return
	}

	assets, meta, err := h.repo.ListMediaAssets(c.Request.Context(), &params)
	if err != nil {
		InternalError(c, "failed to list media assets")
		return
	}
	c.JSON(http.StatusOK, entity.MediaAssetListResponse{Assets: assets, Meta: meta})
}

// GetMediaAsset 处理 GET /api/media-assets/:id
func (h *HTTPHandler) GetMediaAsset(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		MissingField(c, "id")
		return
	}

	asset, err := h.repo.GetMediaAsset(c.Request.Context(), id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			NotFound(c, ErrCodeAssetNotFound, "media asset not found")
			return
		}
		InternalError(c, "failed to load media asset")
		return
	}
	c.JSON(http.StatusOK, asset)
}

// ListGenerationLogs 处理 GET /api/ai/generation-logs
func (h *HTTPHandler) ListGenerationLogs(c *gin.Context) {
	var params entity.GenerationLogQuery
	if err := c.ShouldBindQuery(&params); err != nil {
		InvalidPayload(c)
		return
	}

	logs, meta, err := h.repo.ListGenerationLogs(c.Request.Context(), &params)
	if err != nil {
		InternalError(c, "failed to list generation logs")
		return
	}
	c.JSON(http.StatusOK, entity.GenerationLogListResponse{Logs: logs, Meta: meta})
}

// GetUsage 处理 GET /api/ai/usage：返回限流窗口内的请求数与成本
func (h *HTTPHandler) GetUsage(c *gin.Context) {
	summary, err := h.acquisition.Usage(c.Request.Context(), h.cfg.MaxRequestsPerHour, h.cfg.MaxRequestsPerDay, h.cfg.MaxCostPerDay)
	if err != nil {
		InternalError(c, "failed to aggregate usage")
		return
	}
	c.JSON(http.StatusOK, summary)
}
