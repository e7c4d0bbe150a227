package media

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iamahmet/karasuEmlak-sub001/internal/entity"
)

// AcquisitionService is the pipeline entry point: cache lookup, rate-governed
// provider chain, persistence, and ledger write, in that order. Every call
// produces exactly one ledger entry; a cache hit records cost 0.
type AcquisitionService struct {
	dedup    *DedupCache
	chain    *Chain
	uploader *Uploader
	ledger   *Ledger

	// inflight serializes calls that share the same dedup identity, so N
	// concurrent requests for one (entity, context) spend at most one
	// generation and the rest resolve as cache hits.
	inflight *keyedMutex
}

func NewAcquisitionService(dedup *DedupCache, chain *Chain, uploader *Uploader, ledger *Ledger) *AcquisitionService {
	return &AcquisitionService{
		dedup:    dedup,
		chain:    chain,
		uploader: uploader,
		ledger:   ledger,
		inflight: newKeyedMutex(),
	}
}

// GenerateImage resolves one image request end to end.
func (s *AcquisitionService) GenerateImage(ctx context.Context, request *entity.GenerateImageRequest) *entity.GenerateImageResponse {
	entityType := entity.NormalizeEntityType(request.Type)
	entityID := strings.TrimSpace(request.Upload.EntityID)
	contextHash := HashContext(request.Context)

	startedAt := time.Now()
	logger := logrus.WithFields(logrus.Fields{
		"entity_type":  entityType,
		"entity_id":    entityID,
		"context_hash": contextHash,
	})
	logger.Info("ai_acquire_image_start")

	lockKey := entityType + "|" + entityID + "|" + contextHash
	s.inflight.Lock(lockKey)
	defer s.inflight.Unlock(lockKey)

	// Cache lookup precedes any provider work.
	cached, err := s.dedup.Find(ctx, entityType, entityID, contextHash, request.Context, request.Options.ExactMatch)
	if err != nil {
		logger.WithError(err).Warn("ai_acquire_cache_lookup_failed")
	}
	if cached != nil {
		if err := s.dedup.MarkUsed(ctx, cached.ID); err != nil {
			logger.WithError(err).Warn("ai_acquire_usage_increment_failed")
		}
		s.ledger.Record(LedgerEntry{
			Type:         entityType,
			Size:         request.Options.Size,
			Quality:      request.Options.Quality,
			Cost:         0,
			Success:      true,
			MediaAssetID: cached.ID,
		})
		logger.WithFields(logrus.Fields{
			"asset_id": cached.ID,
			"duration": time.Since(startedAt).String(),
		}).Info("ai_acquire_image_cache_hit")
		return &entity.GenerateImageResponse{
			Success:   true,
			PublicID:  cached.PublicID,
			SecureURL: cached.SecureURL,
			FromCache: true,
		}
	}

	query := Query{
		EntityType: entityType,
		EntityID:   entityID,
		Context:    request.Context,
		Size:       request.Options.Size,
		Quality:    request.Options.Quality,
		Style:      request.Options.Style,
	}

	artifact, failures := s.chain.Acquire(ctx, query)
	if artifact == nil {
		reason := FailureSummary(failures)
		s.ledger.Record(LedgerEntry{
			Type:         entityType,
			Size:         request.Options.Size,
			Quality:      request.Options.Quality,
			Success:      false,
			ErrorMessage: reason,
		})
		logger.WithField("failures", reason).Error("ai_acquire_image_failed")
		return &entity.GenerateImageResponse{
			Success: false,
			Error:   "image acquisition failed: " + reason,
		}
	}

	asset, err := s.uploader.Persist(ctx, artifact, query, request.Upload, contextHash)
	if err != nil {
		s.ledger.Record(LedgerEntry{
			Type:         entityType,
			Size:         request.Options.Size,
			Quality:      request.Options.Quality,
			Cost:         artifact.Cost,
			Success:      false,
			ErrorMessage: "persist artifact: " + err.Error(),
		})
		logger.WithError(err).Error("ai_acquire_persist_failed")
		return &entity.GenerateImageResponse{
			Success: false,
			Error:   "failed to store acquired image",
		}
	}

	s.ledger.Record(LedgerEntry{
		Type:         entityType,
		Size:         request.Options.Size,
		Quality:      request.Options.Quality,
		Cost:         artifact.Cost,
		Success:      true,
		MediaAssetID: asset.ID,
	})
	logger.WithFields(logrus.Fields{
		"asset_id": asset.ID,
		"provider": artifact.Provider,
		"cost":     artifact.Cost,
		"duration": time.Since(startedAt).String(),
	}).Info("ai_acquire_image_done")

	return &entity.GenerateImageResponse{
		Success:   true,
		PublicID:  asset.PublicID,
		SecureURL: asset.SecureURL,
		FromCache: false,
	}
}

// Usage aggregates the rolling-window counters surfaced on /api/ai/usage.
func (s *AcquisitionService) Usage(ctx context.Context, maxPerHour, maxPerDay int, maxCostPerDay float64) (*entity.UsageSummary, error) {
	now := time.Now()

	hourly, err := s.ledger.CountSince(ctx, now.Add(-time.Hour))
	if err != nil {
		return nil, err
	}
	daily, err := s.ledger.CountSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}
	cost, err := s.ledger.SumCostSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}

	return &entity.UsageSummary{
		HourlyRequests:     hourly,
		DailyRequests:      daily,
		DailyCost:          cost,
		MaxRequestsPerHour: maxPerHour,
		MaxRequestsPerDay:  maxPerDay,
		MaxCostPerDay:      maxCostPerDay,
		GeneratedAt:        now,
	}, nil
}
