package sql

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/iamahmet/karasuEmlak-sub001/internal/entity"
)

func newTestRepo(t *testing.T) *GormRepository {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&entity.DbMediaAsset{}, &entity.DbGenerationLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewGormRepository(db)
}

func seedAsset(t *testing.T, repo *GormRepository, asset *entity.DbMediaAsset) {
	t.Helper()
	if asset.LastUsedAt.IsZero() {
		asset.LastUsedAt = time.Now()
	}
	if asset.UsageCount == 0 {
		asset.UsageCount = 1
	}
	if err := repo.CreateMediaAsset(context.Background(), asset); err != nil {
		t.Fatalf("seed asset %s: %v", asset.ID, err)
	}
}

func TestCreateAndGetMediaAsset(t *testing.T) {
	repo := newTestRepo(t)

	seedAsset(t, repo, &entity.DbMediaAsset{
		ID:          "a1",
		PublicID:    "listing/listing-l1-abc.png",
		SecureURL:   "/files/listing/listing-l1-abc.png",
		EntityType:  "listing",
		EntityID:    "L1",
		ContextHash: "abc",
		Transformations: entity.JSONMap{
			"context_hash": "abc",
			"propertyType": "villa",
			"location":     "Karasu",
		},
	})

	asset, err := repo.GetMediaAsset(context.Background(), "a1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if asset.PublicID != "listing/listing-l1-abc.png" {
		t.Fatalf("unexpected public id: %q", asset.PublicID)
	}
	if asset.Transformations["propertyType"] != "villa" {
		t.Fatalf("transformations not round-tripped: %v", asset.Transformations)
	}

	if _, err := repo.GetMediaAsset(context.Background(), "missing"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record-not-found, got %v", err)
	}
}

func TestCreateMediaAssetDuplicateKey(t *testing.T) {
	repo := newTestRepo(t)

	seedAsset(t, repo, &entity.DbMediaAsset{ID: "a1", PublicID: "listing/dup.png", EntityType: "listing"})

	err := repo.CreateMediaAsset(context.Background(), &entity.DbMediaAsset{
		ID:         "a2",
		PublicID:   "listing/dup.png",
		EntityType: "listing",
		UsageCount: 1,
		LastUsedAt: time.Now(),
	})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected translated duplicate-key error, got %v", err)
	}
}

func TestFindAssetByContext(t *testing.T) {
	repo := newTestRepo(t)

	seedAsset(t, repo, &entity.DbMediaAsset{ID: "old", PublicID: "p1", EntityType: "listing", EntityID: "L1", ContextHash: "abc", CreatedAt: time.Now().Add(-time.Hour)})
	seedAsset(t, repo, &entity.DbMediaAsset{ID: "new", PublicID: "p2", EntityType: "listing", EntityID: "L1", ContextHash: "abc", CreatedAt: time.Now()})
	seedAsset(t, repo, &entity.DbMediaAsset{ID: "other", PublicID: "p3", EntityType: "listing", EntityID: "L2", ContextHash: "abc"})

	asset, err := repo.FindAssetByContext(context.Background(), "listing", "L1", "abc")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if asset == nil || asset.ID != "new" {
		t.Fatalf("expected most recent match, got %+v", asset)
	}

	asset, err = repo.FindAssetByContext(context.Background(), "listing", "", "abc")
	if err != nil {
		t.Fatalf("find without entity id: %v", err)
	}
	if asset == nil {
		t.Fatal("expected a match when entity id is omitted")
	}

	asset, err = repo.FindAssetByContext(context.Background(), "article", "", "abc")
	if err != nil {
		t.Fatalf("find mismatching type: %v", err)
	}
	if asset != nil {
		t.Fatalf("expected nil for wrong entity type, got %+v", asset)
	}

	if _, err := repo.FindAssetByContext(context.Background(), "listing", "L1", ""); err == nil {
		t.Fatal("blank context hash must be rejected")
	}
}

func TestFindSimilarAssetRanksByUsage(t *testing.T) {
	repo := newTestRepo(t)

	seedAsset(t, repo, &entity.DbMediaAsset{
		ID: "rarely", PublicID: "p1", EntityType: "listing", UsageCount: 2,
		Transformations: entity.JSONMap{"propertyType": "villa", "location": "Karasu"},
	})
	seedAsset(t, repo, &entity.DbMediaAsset{
		ID: "popular", PublicID: "p2", EntityType: "listing", UsageCount: 9,
		Transformations: entity.JSONMap{"propertyType": "villa", "location": "Karasu"},
	})
	seedAsset(t, repo, &entity.DbMediaAsset{
		ID: "elsewhere", PublicID: "p3", EntityType: "listing", UsageCount: 50,
		Transformations: entity.JSONMap{"propertyType": "villa", "location": "Kocaali"},
	})

	asset, err := repo.FindSimilarAsset(context.Background(), "listing", map[string]string{"propertyType": "villa", "location": "Karasu"})
	if err != nil {
		t.Fatalf("find similar: %v", err)
	}
	if asset == nil || asset.ID != "popular" {
		t.Fatalf("expected the most reused matching asset, got %+v", asset)
	}

	asset, err = repo.FindSimilarAsset(context.Background(), "listing", map[string]string{"propertyType": "bungalow", "location": "Karasu"})
	if err != nil {
		t.Fatalf("find similar no match: %v", err)
	}
	if asset != nil {
		t.Fatalf("expected nil for unmatched heuristics, got %+v", asset)
	}

	if asset, err := repo.FindSimilarAsset(context.Background(), "listing", nil); err != nil || asset != nil {
		t.Fatalf("empty match must be a miss, got %+v, %v", asset, err)
	}
}

func TestIncrementAssetUsage(t *testing.T) {
	repo := newTestRepo(t)

	before := time.Now().Add(-time.Hour).UTC()
	seedAsset(t, repo, &entity.DbMediaAsset{ID: "a1", PublicID: "p1", EntityType: "listing", UsageCount: 3, LastUsedAt: before})

	if err := repo.IncrementAssetUsage(context.Background(), "a1"); err != nil {
		t.Fatalf("increment: %v", err)
	}

	asset, err := repo.GetMediaAsset(context.Background(), "a1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if asset.UsageCount != 4 {
		t.Fatalf("expected usage 4, got %d", asset.UsageCount)
	}
	if !asset.LastUsedAt.After(before) {
		t.Fatal("last_used_at should be refreshed")
	}

	if err := repo.IncrementAssetUsage(context.Background(), "missing"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record-not-found, got %v", err)
	}
}

func TestListMediaAssetsFilters(t *testing.T) {
	repo := newTestRepo(t)

	seedAsset(t, repo, &entity.DbMediaAsset{ID: "a1", PublicID: "p1", EntityType: "listing", EntityID: "L1", AIGenerated: true})
	seedAsset(t, repo, &entity.DbMediaAsset{ID: "a2", PublicID: "p2", EntityType: "listing", EntityID: "L2"})
	seedAsset(t, repo, &entity.DbMediaAsset{ID: "a3", PublicID: "p3", EntityType: "article"})

	assets, meta, err := repo.ListMediaAssets(context.Background(), &entity.MediaAssetQuery{EntityType: "listing"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if meta.Total != 2 || len(assets) != 2 {
		t.Fatalf("expected 2 listings, got %d (total %d)", len(assets), meta.Total)
	}

	assets, _, err = repo.ListMediaAssets(context.Background(), &entity.MediaAssetQuery{AIGenerated: "true"})
	if err != nil {
		t.Fatalf("list ai: %v", err)
	}
	if len(assets) != 1 || assets[0].ID != "a1" {
		t.Fatalf("ai_generated filter broken: %+v", assets)
	}

	assets, meta, err = repo.ListMediaAssets(context.Background(), &entity.MediaAssetQuery{
		BaseParams: entity.BaseParams{Page: 2, PageSize: 2},
	})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if meta.Total != 3 || len(assets) != 1 {
		t.Fatalf("pagination broken: %d rows, total %d", len(assets), meta.Total)
	}
}

func TestGenerationLogWindows(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	now := time.Now()
	logs := []entity.DbGenerationLog{
		{GenerationType: "listing", Cost: 0.04, Success: true, CreatedAt: now.Add(-10 * time.Minute)},
		{GenerationType: "listing", Cost: 0.08, Success: true, CreatedAt: now.Add(-3 * time.Hour)},
		{GenerationType: "article", Cost: 0, Success: false, ErrorMessage: "all tiers failed", CreatedAt: now.Add(-30 * time.Hour)},
	}
	for i := range logs {
		if err := repo.CreateGenerationLog(ctx, &logs[i]); err != nil {
			t.Fatalf("create log: %v", err)
		}
	}

	hourly, err := repo.CountLogsSince(ctx, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("count hourly: %v", err)
	}
	if hourly != 1 {
		t.Fatalf("expected 1 entry in the hour, got %d", hourly)
	}

	daily, err := repo.CountLogsSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("count daily: %v", err)
	}
	if daily != 2 {
		t.Fatalf("expected 2 entries in the day, got %d", daily)
	}

	cost, err := repo.SumCostSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("sum cost: %v", err)
	}
	if cost < 0.119 || cost > 0.121 {
		t.Fatalf("expected ~0.12 daily cost, got %v", cost)
	}

	// Empty window sums to zero, not NULL.
	cost, err = repo.SumCostSince(ctx, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("sum empty window: %v", err)
	}
	if cost != 0 {
		t.Fatalf("expected 0 for empty window, got %v", cost)
	}
}

func TestListGenerationLogsFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	entries := []entity.DbGenerationLog{
		{GenerationType: "listing", Success: true, Cost: 0.04},
		{GenerationType: "listing", Success: false, ErrorMessage: "boom"},
		{GenerationType: "article", Success: true},
	}
	for i := range entries {
		if err := repo.CreateGenerationLog(ctx, &entries[i]); err != nil {
			t.Fatalf("create log: %v", err)
		}
	}

	logs, meta, err := repo.ListGenerationLogs(ctx, &entity.GenerationLogQuery{Type: "listing"})
	if err != nil {
		t.Fatalf("list by type: %v", err)
	}
	if meta.Total != 2 || len(logs) != 2 {
		t.Fatalf("type filter broken: %d rows (total %d)", len(logs), meta.Total)
	}

	logs, _, err = repo.ListGenerationLogs(ctx, &entity.GenerationLogQuery{Result: "failure"})
	if err != nil {
		t.Fatalf("list failures: %v", err)
	}
	if len(logs) != 1 || logs[0].ErrorMessage != "boom" {
		t.Fatalf("result filter broken: %+v", logs)
	}
}
