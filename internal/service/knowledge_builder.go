package service

import (
	"namaz-assistant/internal/models"
	"namaz-assistant/pkg/tokenizer"

	"go.uber.org/zap"
)

// KnowledgeBuilder turns the authored dataset into a pre-tokenized knowledge base.
type KnowledgeBuilder struct {
	logger *zap.Logger
}

func NewKnowledgeBuilder(logger *zap.Logger) *KnowledgeBuilder {
	return &KnowledgeBuilder{logger: logger}
}

// Build tokenizes every record's query, preserving dataset order and all
// other fields.
func (b *KnowledgeBuilder) Build(records []models.RawFaqRecord) models.KnowledgeBase {
	kb := make(models.KnowledgeBase, 0, len(records))
	for i, record := range records {
		tokens := tokenizer.Tokenize(record.Query)
		if len(tokens) == 0 {
			b.logger.Warn("FAQ record has no tokens and will never match",
				zap.Int("index", i),
				zap.String("query", record.Query),
			)
		}
		kb = append(kb, models.FaqEntry{
			Query:            record.Query,
			Response:         record.Response,
			RecommendedItems: record.RecommendedItems,
			Tokens:           tokens,
		})
	}

	b.logger.Info("Knowledge base built", zap.Int("entries", len(kb)))
	return kb
}
