package main

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"namaz-assistant/internal/models"
	"namaz-assistant/internal/repository"
	"namaz-assistant/internal/service"

	"go.uber.org/zap"
)

type trainOptions struct {
	DatasetPath string
	ModelPath   string
	Force       bool
}

type trainResult struct {
	Entries int
	Skipped bool
}

// buildCache remembers what the last successful build consumed and produced.
type buildCache struct {
	DatasetPath string    `json:"dataset_path"`
	DatasetHash string    `json:"dataset_hash"`
	ModelHash   string    `json:"model_hash"`
	Entries     int       `json:"entries"`
	BuiltAt     time.Time `json:"built_at"`
}

type trainer struct {
	builder *service.KnowledgeBuilder
	publish func(ctx context.Context, kb models.KnowledgeBase) error
	logger  *zap.Logger
}

func newTrainer(builder *service.KnowledgeBuilder, logger *zap.Logger) *trainer {
	return &trainer{
		builder: builder,
		logger:  logger,
	}
}

func cachePath(modelPath string) string {
	return modelPath + ".cache.json"
}

// Run builds the model unless the dataset and the model on disk both match
// the previous build. Publishing always forces a build.
func (t *trainer) Run(ctx context.Context, opts trainOptions) (*trainResult, error) {
	datasetHash, err := fileHash(opts.DatasetPath)
	if err != nil {
		return nil, err
	}

	if !opts.Force && t.publish == nil {
		if cache, ok := t.upToDate(opts, datasetHash); ok {
			t.logger.Info("Dataset unchanged, skipping build",
				zap.String("dataset", opts.DatasetPath),
				zap.Time("built_at", cache.BuiltAt),
			)
			return &trainResult{Entries: cache.Entries, Skipped: true}, nil
		}
	}

	records, err := repository.LoadDataset(opts.DatasetPath)
	if err != nil {
		return nil, err
	}

	kb := t.builder.Build(records)

	fileRepo := repository.NewKnowledgeFileRepository(opts.ModelPath, t.logger)
	if err := fileRepo.Save(ctx, kb); err != nil {
		return nil, err
	}

	if t.publish != nil {
		if err := t.publish(ctx, kb); err != nil {
			return nil, fmt.Errorf("failed to publish knowledge base: %w", err)
		}
	}

	modelHash, err := fileHash(opts.ModelPath)
	if err != nil {
		return nil, err
	}
	cache := &buildCache{
		DatasetPath: opts.DatasetPath,
		DatasetHash: datasetHash,
		ModelHash:   modelHash,
		Entries:     len(kb),
		BuiltAt:     time.Now().UTC(),
	}
	if err := saveCache(cachePath(opts.ModelPath), cache); err != nil {
		t.logger.Warn("Failed to save build cache", zap.Error(err))
	}

	return &trainResult{Entries: len(kb)}, nil
}

func (t *trainer) upToDate(opts trainOptions, datasetHash string) (*buildCache, bool) {
	cache, err := loadCache(cachePath(opts.ModelPath))
	if err != nil {
		t.logger.Warn("Failed to load build cache, rebuilding", zap.Error(err))
		return nil, false
	}
	if cache == nil || cache.DatasetHash != datasetHash {
		return nil, false
	}

	modelHash, err := fileHash(opts.ModelPath)
	if err != nil || modelHash != cache.ModelHash {
		return nil, false
	}
	return cache, true
}

func loadCache(path string) (*buildCache, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var cache buildCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return nil, fmt.Errorf("failed to parse cache file: %w", err)
	}
	return &cache, nil
}

func saveCache(path string, cache *buildCache) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

func fileHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}
