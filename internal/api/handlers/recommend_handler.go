package handlers

import (
	"context"
	"errors"

	"namaz-assistant/internal/dto"
	"namaz-assistant/internal/models"
	"namaz-assistant/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Recommender interface {
	Recommend(ctx context.Context, query string) (*models.FaqEntry, error)
}

type RecommendHandler struct {
	recommender Recommender
	logger      *zap.Logger
}

func NewRecommendHandler(recommender Recommender, logger *zap.Logger) *RecommendHandler {
	return &RecommendHandler{
		recommender: recommender,
		logger:      logger,
	}
}

// Recommend godoc
// @Summary Find the closest FAQ entry
// @Description Returns the knowledge base entry with the highest token overlap, or null
// @Tags recommend
// @Produce json
// @Param q query string false "User question"
// @Success 200 {object} dto.RecommendResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/recommend [get]
func (h *RecommendHandler) Recommend(c *fiber.Ctx) error {
	entry, err := h.recommender.Recommend(c.UserContext(), c.Query("q"))
	if err != nil {
		if errors.Is(err, service.ErrKnowledgeBaseUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Error: "Knowledge base unavailable",
			})
		}
		h.logger.Error("Failed to recommend", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "Failed to recommend",
		})
	}

	return c.JSON(dto.RecommendResponse{Result: entry})
}
