package service

import (
	"context"
	"fmt"

	"namaz-assistant/internal/models"
	"namaz-assistant/pkg/config"

	"go.uber.org/zap"
)

// LanguageService runs detectors in order and returns the first confident
// answer, falling back to English. Detector errors and panics are logged
// and treated as undetermined.
type LanguageService struct {
	detectors []LanguageDetector
	logger    *zap.Logger
}

func NewLanguageService(detectors []LanguageDetector, logger *zap.Logger) *LanguageService {
	return &LanguageService{
		detectors: detectors,
		logger:    logger,
	}
}

// NewDefaultLanguageService wires classifier, trigram guesser and Cyrillic heuristic.
func NewDefaultLanguageService(cfg config.LanguageConfig, logger *zap.Logger) *LanguageService {
	return NewLanguageService([]LanguageDetector{
		NewClassifierDetector(cfg, logger),
		NewTrigramDetector(cfg),
		CyrillicDetector{},
	}, logger)
}

// DetectLanguage never fails; it returns an ISO 639-3 style code.
func (s *LanguageService) DetectLanguage(ctx context.Context, text string) string {
	for _, detector := range s.detectors {
		code, err := s.attempt(ctx, detector, text)
		if err != nil {
			s.logger.Debug("Language detector failed",
				zap.String("detector", detector.Name()),
				zap.Error(err),
			)
			continue
		}
		if code == "" || code == models.LanguageUndetermined {
			continue
		}

		s.logger.Debug("Language detected",
			zap.String("detector", detector.Name()),
			zap.String("language", code),
		)
		return code
	}
	return models.LanguageEnglish
}

func (s *LanguageService) attempt(ctx context.Context, detector LanguageDetector, text string) (code string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("detector %s panicked: %v", detector.Name(), r)
		}
	}()
	return detector.Detect(ctx, text)
}
