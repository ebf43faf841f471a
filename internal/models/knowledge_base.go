package models

import "encoding/json"

// RawFaqRecord is one authored question/answer pair before tokenization.
type RawFaqRecord struct {
	Query            string          `json:"query"`
	Response         string          `json:"response,omitempty"`
	RecommendedItems json.RawMessage `json:"recommended_items,omitempty"`
}

// FaqEntry is a knowledge base record with its query pre-tokenized at build time.
type FaqEntry struct {
	Query            string          `json:"query"`
	Response         string          `json:"response,omitempty"`
	RecommendedItems json.RawMessage `json:"recommended_items,omitempty"`
	Tokens           []string        `json:"tokens"`
}

// KnowledgeBase keeps entries in dataset order; earlier entries win ties.
type KnowledgeBase []FaqEntry
