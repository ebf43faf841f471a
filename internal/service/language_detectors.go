package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"namaz-assistant/internal/models"
	"namaz-assistant/pkg/config"

	"github.com/abadojack/whatlanggo"
	"github.com/pemistahl/lingua-go"
	"go.uber.org/zap"
)

var errClassifierDisabled = errors.New("language classifier disabled")

// LanguageDetector is one tier of language identification. Detect returns
// models.LanguageUndetermined (or "") when it cannot decide.
type LanguageDetector interface {
	Name() string
	Detect(ctx context.Context, text string) (string, error)
}

// classifierCodes maps classifier ISO 639-1 output onto our ISO 639-3 codes.
// Codes missing here pass through unchanged.
var classifierCodes = map[string]string{
	"ru": models.LanguageRussian,
	"en": models.LanguageEnglish,
}

func toLanguageCode(iso6391 string) string {
	if code, ok := classifierCodes[iso6391]; ok {
		return code
	}
	return iso6391
}

type languageClassifier interface {
	DetectLanguageOf(text string) (lingua.Language, bool)
}

// ClassifierDetector wraps a lingua detector. The detector is built on first
// use; concurrent callers wait for the same build and a failed build is
// never retried.
type ClassifierDetector struct {
	load       func() (languageClassifier, error)
	reportOnce sync.Once
	logger     *zap.Logger
}

func NewClassifierDetector(cfg config.LanguageConfig, logger *zap.Logger) *ClassifierDetector {
	return newClassifierDetector(func() (languageClassifier, error) {
		return buildLinguaDetector(cfg, logger)
	}, logger)
}

func newClassifierDetector(build func() (languageClassifier, error), logger *zap.Logger) *ClassifierDetector {
	return &ClassifierDetector{
		load:   sync.OnceValues(build),
		logger: logger,
	}
}

func (d *ClassifierDetector) Name() string { return "classifier" }

func (d *ClassifierDetector) Detect(_ context.Context, text string) (string, error) {
	classifier, err := d.load()
	if err != nil {
		d.reportOnce.Do(func() {
			d.logger.Warn("Language classifier unavailable", zap.Error(err))
		})
		return "", err
	}

	language, ok := classifier.DetectLanguageOf(text)
	if !ok || language == lingua.Unknown {
		return models.LanguageUndetermined, nil
	}
	return toLanguageCode(strings.ToLower(language.IsoCode639_1().String())), nil
}

func buildLinguaDetector(cfg config.LanguageConfig, logger *zap.Logger) (classifier languageClassifier, err error) {
	if !cfg.ClassifierEnabled {
		return nil, errClassifierDisabled
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to build language classifier: %v", r)
		}
	}()

	var builder lingua.LanguageDetectorBuilder
	if len(cfg.ClassifierLanguages) == 1 && cfg.ClassifierLanguages[0] == "all" {
		builder = lingua.NewLanguageDetectorBuilder().FromAllLanguages()
	} else {
		languages := make([]lingua.Language, 0, len(cfg.ClassifierLanguages))
		for _, code := range cfg.ClassifierLanguages {
			language := lingua.GetLanguageFromIsoCode639_1(lingua.GetIsoCode639_1FromValue(strings.ToUpper(code)))
			if language == lingua.Unknown {
				return nil, fmt.Errorf("unsupported classifier language %q", code)
			}
			languages = append(languages, language)
		}
		if len(languages) < 2 {
			return nil, fmt.Errorf("language classifier needs at least two languages, got %d", len(languages))
		}
		builder = lingua.NewLanguageDetectorBuilder().FromLanguages(languages...)
	}

	if cfg.ClassifierMinDistance > 0 {
		builder = builder.WithMinimumRelativeDistance(cfg.ClassifierMinDistance)
	}

	logger.Info("Building language classifier", zap.Strings("languages", cfg.ClassifierLanguages))
	return builder.WithPreloadedLanguageModels().Build(), nil
}

// TrigramDetector guesses the language from character trigram statistics.
// Short inputs are left undetermined.
type TrigramDetector struct {
	minLength     int
	minConfidence float64
}

func NewTrigramDetector(cfg config.LanguageConfig) *TrigramDetector {
	return &TrigramDetector{
		minLength:     cfg.GuesserMinLength,
		minConfidence: cfg.GuesserMinConfidence,
	}
}

func (d *TrigramDetector) Name() string { return "trigram" }

func (d *TrigramDetector) Detect(_ context.Context, text string) (string, error) {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < d.minLength {
		return models.LanguageUndetermined, nil
	}

	info := whatlanggo.Detect(text)
	if info.Script == nil || info.Confidence <= 0 || info.Confidence < d.minConfidence {
		return models.LanguageUndetermined, nil
	}

	code := info.Lang.Iso6393()
	if code == "" {
		return models.LanguageUndetermined, nil
	}
	return code, nil
}

// CyrillicDetector reports Russian whenever the text contains a Cyrillic letter.
type CyrillicDetector struct{}

func (CyrillicDetector) Name() string { return "cyrillic" }

func (CyrillicDetector) Detect(_ context.Context, text string) (string, error) {
	for _, r := range text {
		if unicode.Is(unicode.Cyrillic, r) {
			return models.LanguageRussian, nil
		}
	}
	return models.LanguageUndetermined, nil
}
