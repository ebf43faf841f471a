package dto

import "namaz-assistant/internal/models"

// RecommendResponse carries the best match, or null when nothing overlapped.
type RecommendResponse struct {
	Result *models.FaqEntry `json:"result"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
