package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type mapDetector map[string]string

func (m mapDetector) DetectLanguage(_ context.Context, text string) string {
	if code, ok := m[text]; ok {
		return code
	}
	return "eng"
}

func TestSessionService_LanguageSwitches(t *testing.T) {
	svc := NewSessionService(mapDetector{
		"Привет":  "rus",
		"Bonjour": "fra",
	}, zap.NewNop())
	id := uuid.New()
	ctx := context.Background()

	update := svc.ObserveUserMessage(ctx, id, "hello")
	assert.Equal(t, "eng", update.Language)
	assert.False(t, update.Changed)
	assert.Empty(t, update.Instruction)

	update = svc.ObserveUserMessage(ctx, id, "Привет")
	assert.Equal(t, "rus", update.Language)
	assert.True(t, update.Changed)
	assert.Equal(t, "Продолжай диалог на русском языке.", update.Instruction)

	update = svc.ObserveUserMessage(ctx, id, "Привет")
	assert.False(t, update.Changed)
	assert.Empty(t, update.Instruction)

	update = svc.ObserveUserMessage(ctx, id, "Bonjour")
	assert.True(t, update.Changed)
	assert.Equal(t, "Continue the conversation in the language used by the user.", update.Instruction)

	update = svc.ObserveUserMessage(ctx, id, "hello")
	assert.True(t, update.Changed)
	assert.Equal(t, "eng", update.Language)
}

func TestSessionService_SessionsAreIndependent(t *testing.T) {
	svc := NewSessionService(mapDetector{"Привет": "rus"}, zap.NewNop())
	a, b := uuid.New(), uuid.New()

	assert.True(t, svc.ObserveUserMessage(context.Background(), a, "Привет").Changed)
	assert.True(t, svc.ObserveUserMessage(context.Background(), b, "Привет").Changed)
	assert.False(t, svc.ObserveUserMessage(context.Background(), a, "Привет").Changed)
}

func TestSessionService_EmptyMessageIgnored(t *testing.T) {
	svc := NewSessionService(mapDetector{"Привет": "rus"}, zap.NewNop())
	id := uuid.New()

	svc.ObserveUserMessage(context.Background(), id, "Привет")
	update := svc.ObserveUserMessage(context.Background(), id, "   ")
	assert.Equal(t, "rus", update.Language)
	assert.False(t, update.Changed)
	assert.Equal(t, id.String(), update.SessionID)
}
