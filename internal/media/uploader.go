package media

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/iamahmet/karasuEmlak-sub001/internal/entity"
	"github.com/iamahmet/karasuEmlak-sub001/internal/storage"
	"github.com/iamahmet/karasuEmlak-sub001/internal/utils"
)

// UploaderStore is the slice of the repository the uploader needs.
type UploaderStore interface {
	CreateMediaAsset(ctx context.Context, asset *entity.DbMediaAsset) error
	FindAssetByContext(ctx context.Context, entityType, entityID, contextHash string) (*entity.DbMediaAsset, error)
}

// Uploader writes the winning artifact to durable object storage and records
// its MediaAsset row. Storage keys are stable per (entity, context), so a
// concurrent or repeated persist for the same key is idempotent: the storage
// layer keeps the existing object and a duplicate-key insert is swallowed in
// favor of the row that won.
type Uploader struct {
	store         UploaderStore
	objectStorage storage.Storage
	publicBaseURL string
	matcher       SimilarityMatcher
}

func NewUploader(store UploaderStore, objectStorage storage.Storage, publicBaseURL string, matcher SimilarityMatcher) *Uploader {
	if matcher == nil {
		matcher = DefaultMatcher{}
	}
	return &Uploader{
		store:         store,
		objectStorage: objectStorage,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/"),
		matcher:       matcher,
	}
}

// Persist stores the artifact binary and writes its metadata row. The
// returned asset is either the newly created row or, on a duplicate-key
// conflict, the row a concurrent caller created first.
func (u *Uploader) Persist(ctx context.Context, artifact *Artifact, query Query, upload entity.ImageUpload, contextHash string) (*entity.DbMediaAsset, error) {
	baseName := stableBaseName(query.EntityType, query.EntityID, contextHash)
	category := storage.SanitizeToken(upload.Folder)
	if category == "" {
		category = storage.SanitizeToken(query.EntityType)
	}

	publicID, err := u.objectStorage.Save(ctx, artifact.Data, storage.SaveOptions{
		Category:     category,
		Extension:    artifact.Extension,
		BaseName:     baseName,
		SkipIfExists: baseName != "",
	})
	if err != nil {
		return nil, err
	}

	width, height, format := utils.ImageDimensions(artifact.Data)
	if format == "" {
		format = artifact.Extension
	}

	now := time.Now()
	asset := &entity.DbMediaAsset{
		ID:          uuid.NewString(),
		PublicID:    publicID,
		SecureURL:   u.publicURL(publicID),
		Width:       width,
		Height:      height,
		Format:      format,
		Bytes:       int64(len(artifact.Data)),
		EntityType:  query.EntityType,
		EntityID:    query.EntityID,
		AssetType:   "image",
		AIGenerated: artifact.AIGenerated,
		PromptHash:  HashPrompt(artifact.Prompt),
		ContextHash: contextHash,
		Tags:        entity.StringArray(upload.Tags),
		GenerationCost: artifact.Cost,
		GenerationMetadata: u.buildMetadata(artifact, query, upload, now),
		Transformations:    u.buildTransformations(query, contextHash),
		UsageCount:         1,
		LastUsedAt:         now,
	}

	if err := u.store.CreateMediaAsset(ctx, asset); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Another caller persisted the same key first; the object is
			// already stored, so adopt the winning row.
			logrus.WithFields(logrus.Fields{
				"public_id":    publicID,
				"context_hash": contextHash,
			}).Info("media_asset_insert_conflict")
			if existing, findErr := u.store.FindAssetByContext(ctx, query.EntityType, query.EntityID, contextHash); findErr == nil && existing != nil {
				return existing, nil
			}
			return asset, nil
		}
		return nil, err
	}
	return asset, nil
}

func (u *Uploader) publicURL(publicID string) string {
	if strings.HasPrefix(publicID, "http://") || strings.HasPrefix(publicID, "https://") {
		return publicID
	}
	if u.publicBaseURL == "" {
		return "/" + strings.TrimLeft(publicID, "/")
	}
	return u.publicBaseURL + "/" + strings.TrimLeft(publicID, "/")
}

func (u *Uploader) buildMetadata(artifact *Artifact, query Query, upload entity.ImageUpload, now time.Time) entity.JSONMap {
	metadata := entity.JSONMap{
		"provider":     artifact.Provider,
		"size":         query.Size,
		"quality":      query.Quality,
		"generated_at": now.UTC().Format(time.RFC3339),
	}
	if artifact.Prompt != "" {
		metadata["prompt"] = artifact.Prompt
	}
	if artifact.RevisedText != "" {
		metadata["revised_prompt"] = artifact.RevisedText
	}
	if artifact.SourceURL != "" {
		metadata["source_url"] = artifact.SourceURL
	}
	if artifact.Author != "" {
		metadata["author"] = artifact.Author
	}
	if upload.Alt != "" {
		metadata["alt"] = upload.Alt
	}
	return metadata
}

// buildTransformations stores the similarity keys next to the context hash so
// later lookups can match either exactly or by heuristic.
func (u *Uploader) buildTransformations(query Query, contextHash string) entity.JSONMap {
	transformations := entity.JSONMap{}
	if contextHash != "" {
		transformations["context_hash"] = contextHash
	}
	for key, value := range u.matcher.MatchKeys(query.EntityType, query.Context) {
		transformations[key] = value
	}
	return transformations
}

// stableBaseName derives the idempotent storage key stem. Without a context
// hash there is no dedup identity, so a random name is used instead.
func stableBaseName(entityType, entityID, contextHash string) string {
	if contextHash == "" {
		return ""
	}
	parts := []string{storage.SanitizeToken(entityType)}
	if id := storage.SanitizeToken(entityID); id != "" {
		parts = append(parts, id)
	}
	parts = append(parts, contextHash)
	return strings.Join(parts, "-")
}
