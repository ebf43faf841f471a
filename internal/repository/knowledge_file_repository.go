package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"namaz-assistant/internal/models"

	"go.uber.org/zap"
)

// KnowledgeFileRepository stores the knowledge base as an indented JSON array.
type KnowledgeFileRepository struct {
	path   string
	logger *zap.Logger
}

func NewKnowledgeFileRepository(path string, logger *zap.Logger) *KnowledgeFileRepository {
	return &KnowledgeFileRepository{
		path:   path,
		logger: logger,
	}
}

func (r *KnowledgeFileRepository) Path() string {
	return r.path
}

func (r *KnowledgeFileRepository) Describe() string {
	return "file:" + r.path
}

// Load reads and validates the artifact. Every entry must carry a tokens array.
func (r *KnowledgeFileRepository) Load(_ context.Context) (models.KnowledgeBase, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base: %w", err)
	}

	var kb models.KnowledgeBase
	if err := json.Unmarshal(data, &kb); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge base: %w", err)
	}
	if kb == nil {
		return nil, fmt.Errorf("knowledge base %s is not an array", r.path)
	}
	for i := range kb {
		if kb[i].Tokens == nil {
			return nil, fmt.Errorf("knowledge base entry %d (%q) has no tokens", i, kb[i].Query)
		}
	}

	r.logger.Info("Knowledge base loaded",
		zap.String("path", r.path),
		zap.Int("entries", len(kb)),
	)

	return kb, nil
}

// Save writes the artifact atomically through a temp file in the same directory.
func (r *KnowledgeFileRepository) Save(_ context.Context, kb models.KnowledgeBase) error {
	if kb == nil {
		kb = models.KnowledgeBase{}
	}

	data, err := json.MarshalIndent(kb, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal knowledge base: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".model-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write knowledge base: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write knowledge base: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to move knowledge base into place: %w", err)
	}

	r.logger.Info("Knowledge base saved",
		zap.String("path", r.path),
		zap.Int("entries", len(kb)),
	)

	return nil
}
