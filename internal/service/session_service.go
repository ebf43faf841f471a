package service

import (
	"context"
	"strings"
	"sync"

	"namaz-assistant/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	instructionRussian = "Продолжай диалог на русском языке."
	instructionDefault = "Continue the conversation in the language used by the user."
)

// LanguageDetectorService is what SessionService needs from LanguageService.
type LanguageDetectorService interface {
	DetectLanguage(ctx context.Context, text string) string
}

// SessionService tracks the language of each conversation and produces a
// system instruction whenever the user switches language.
type SessionService struct {
	languages LanguageDetectorService
	mu        sync.Mutex
	lastLang  map[uuid.UUID]string
	logger    *zap.Logger
}

func NewSessionService(languages LanguageDetectorService, logger *zap.Logger) *SessionService {
	return &SessionService{
		languages: languages,
		lastLang:  make(map[uuid.UUID]string),
		logger:    logger,
	}
}

// ObserveUserMessage detects the language of content. Sessions start in
// English; empty messages leave the session untouched.
func (s *SessionService) ObserveUserMessage(ctx context.Context, sessionID uuid.UUID, content string) *models.SessionUpdate {
	update := &models.SessionUpdate{SessionID: sessionID.String()}

	if strings.TrimSpace(content) == "" {
		update.Language = s.current(sessionID)
		return update
	}

	code := s.languages.DetectLanguage(ctx, content)
	update.Language = code

	s.mu.Lock()
	previous, ok := s.lastLang[sessionID]
	if !ok {
		previous = models.LanguageEnglish
	}
	if code != previous {
		s.lastLang[sessionID] = code
		update.Changed = true
	}
	s.mu.Unlock()

	if update.Changed {
		update.Instruction = instructionFor(code)
		s.logger.Info("Session language changed",
			zap.String("session_id", update.SessionID),
			zap.String("from", previous),
			zap.String("to", code),
		)
	}

	return update
}

func (s *SessionService) current(sessionID uuid.UUID) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if code, ok := s.lastLang[sessionID]; ok {
		return code
	}
	return models.LanguageEnglish
}

func instructionFor(code string) string {
	if code == models.LanguageRussian {
		return instructionRussian
	}
	return instructionDefault
}
