package api

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iamahmet/karasuEmlak-sub001/internal/config"
	"github.com/iamahmet/karasuEmlak-sub001/internal/llm"
	"github.com/iamahmet/karasuEmlak-sub001/internal/media"
	"github.com/iamahmet/karasuEmlak-sub001/internal/model"
	"github.com/iamahmet/karasuEmlak-sub001/internal/stock"
	"github.com/iamahmet/karasuEmlak-sub001/internal/storage"
)

// 各层级的单独超时：生成模型最慢，图库其次，占位图本地渲染
const (
	generativeTierTimeout  = 90 * time.Second
	searchTierTimeout      = 60 * time.Second
	placeholderTierTimeout = 10 * time.Second
)

// HTTPHandler HTTP 请求处理器
type HTTPHandler struct {
	cfg  config.Config
	repo model.Repository

	acquisition *media.AcquisitionService
}

// NewHTTPHandler 创建 HTTP 处理器并组装获取管线。
// 所有外部客户端在此一次性构造并注入，便于测试替换。
func NewHTTPHandler(cfg config.Config, repo model.Repository, store storage.Storage) (*HTTPHandler, error) {
	downloader := media.NewDownloader()
	ledger := media.NewLedger(repo)
	governor := media.NewGovernor(ledger, cfg.MaxRequestsPerHour, cfg.MaxRequestsPerDay, cfg.MaxCostPerDay)
	matcher := media.DefaultMatcher{}
	dedup := media.NewDedupCache(repo, matcher)

	// 生成模型可缺省：没有 key 时该层保持禁用但仍在链上
	var imageModel llm.ImageModel
	if cfg.OpenAIAPIKey != "" || cfg.GeminiAPIKey != "" {
		model, err := llm.NewImageModel(cfg)
		if err != nil {
			logrus.WithError(err).Warn("generative_model_init_failed")
		} else {
			imageModel = model
		}
	}

	aggregator := stock.NewAggregator(stock.NewBackends(cfg))

	chain := media.NewChain().
		Append(media.NewGenerativeTier(imageModel, governor, downloader), generativeTierTimeout).
		Append(media.NewSearchTier(aggregator, downloader), searchTierTimeout).
		Append(media.NewPlaceholderTier(), placeholderTierTimeout)

	uploader := media.NewUploader(repo, store, cfg.StoragePublicBaseURL, matcher)
	acquisition := media.NewAcquisitionService(dedup, chain, uploader, ledger)

	return &HTTPHandler{
		cfg:         cfg,
		repo:        repo,
		acquisition: acquisition,
	}, nil
}
