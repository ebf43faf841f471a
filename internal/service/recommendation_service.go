package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"namaz-assistant/internal/models"
	"namaz-assistant/pkg/tokenizer"

	"go.uber.org/zap"
)

// ErrKnowledgeBaseUnavailable matches every knowledge base load failure.
var ErrKnowledgeBaseUnavailable = errors.New("knowledge base unavailable")

// KnowledgeBaseLoadError reports why the matcher could not load its model.
type KnowledgeBaseLoadError struct {
	Source string
	Err    error
}

func (e *KnowledgeBaseLoadError) Error() string {
	return fmt.Sprintf("failed to load knowledge base from %s: %v", e.Source, e.Err)
}

func (e *KnowledgeBaseLoadError) Unwrap() error {
	return e.Err
}

func (e *KnowledgeBaseLoadError) Is(target error) bool {
	return target == ErrKnowledgeBaseUnavailable
}

// KnowledgeSource provides the persisted knowledge base.
type KnowledgeSource interface {
	Load(ctx context.Context) (models.KnowledgeBase, error)
	Describe() string
}

// RecommendationService returns the knowledge base entry closest to a query.
// The knowledge base is loaded on first use and kept for the life of the
// process. Concurrent first calls may each load it; the result is identical
// so the last store wins.
type RecommendationService struct {
	source KnowledgeSource
	kb     atomic.Pointer[models.KnowledgeBase]
	logger *zap.Logger
}

func NewRecommendationService(source KnowledgeSource, logger *zap.Logger) *RecommendationService {
	return &RecommendationService{
		source: source,
		logger: logger,
	}
}

// KnowledgeBase returns the cached knowledge base, loading it if necessary.
// Failed loads are not cached.
func (s *RecommendationService) KnowledgeBase(ctx context.Context) (models.KnowledgeBase, error) {
	if kb := s.kb.Load(); kb != nil {
		return *kb, nil
	}

	kb, err := s.source.Load(ctx)
	if err != nil {
		s.logger.Error("Failed to load knowledge base",
			zap.String("source", s.source.Describe()),
			zap.Error(err),
		)
		return nil, &KnowledgeBaseLoadError{Source: s.source.Describe(), Err: err}
	}

	s.kb.Store(&kb)
	return kb, nil
}

// Recommend returns the entry with the highest Jaccard similarity to query.
// A nil entry with a nil error means nothing overlapped. Ties go to the
// entry that appears first in the knowledge base.
func (s *RecommendationService) Recommend(ctx context.Context, query string) (*models.FaqEntry, error) {
	kb, err := s.KnowledgeBase(ctx)
	if err != nil {
		return nil, err
	}

	tokens := tokenizer.Tokenize(query)

	best := -1
	bestScore := 0.0
	for i := range kb {
		score := jaccard(tokens, kb[i].Tokens)
		if score > bestScore {
			bestScore = score
			best = i
		}
	}

	if best < 0 {
		s.logger.Debug("No knowledge base match", zap.String("query", query))
		return nil, nil
	}

	s.logger.Debug("Knowledge base match",
		zap.String("query", query),
		zap.String("matched", kb[best].Query),
		zap.Float64("score", bestScore),
	)

	entry := kb[best]
	return &entry, nil
}
