package handlers

import (
	"context"

	"namaz-assistant/internal/dto"
	"namaz-assistant/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type LanguageDetector interface {
	DetectLanguage(ctx context.Context, text string) string
}

type SessionObserver interface {
	ObserveUserMessage(ctx context.Context, sessionID uuid.UUID, content string) *models.SessionUpdate
}

type LanguageHandler struct {
	detector LanguageDetector
	sessions SessionObserver
	logger   *zap.Logger
}

func NewLanguageHandler(detector LanguageDetector, sessions SessionObserver, logger *zap.Logger) *LanguageHandler {
	return &LanguageHandler{
		detector: detector,
		sessions: sessions,
		logger:   logger,
	}
}

// DetectLanguage godoc
// @Summary Detect the language of a message
// @Tags language
// @Accept json
// @Produce json
// @Param request body dto.DetectLanguageRequest true "Message text"
// @Success 200 {object} dto.DetectLanguageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/language [post]
func (h *LanguageHandler) DetectLanguage(c *fiber.Ctx) error {
	var req dto.DetectLanguageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Invalid request body",
		})
	}

	return c.JSON(dto.DetectLanguageResponse{
		Language: h.detector.DetectLanguage(c.UserContext(), req.Text),
	})
}

// ObserveMessage godoc
// @Summary Record a user message in a conversation
// @Description Detects the message language and returns a system instruction when it changed
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body dto.UserMessageRequest true "User message"
// @Success 200 {object} dto.SessionUpdateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/sessions/{id}/messages [post]
func (h *LanguageHandler) ObserveMessage(c *fiber.Ctx) error {
	sessionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Invalid session ID",
		})
	}

	var req dto.UserMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "Invalid request body",
		})
	}

	update := h.sessions.ObserveUserMessage(c.UserContext(), sessionID, req.Content)
	return c.JSON(dto.SessionUpdateResponse{
		SessionID:   update.SessionID,
		Language:    update.Language,
		Changed:     update.Changed,
		Instruction: update.Instruction,
	})
}
