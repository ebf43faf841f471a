package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"namaz-assistant/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSource struct {
	kb    models.KnowledgeBase
	err   error
	loads atomic.Int32
}

func (s *stubSource) Load(context.Context) (models.KnowledgeBase, error) {
	s.loads.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.kb, nil
}

func (s *stubSource) Describe() string { return "stub" }

func newRecommender(kb models.KnowledgeBase) (*RecommendationService, *stubSource) {
	src := &stubSource{kb: kb}
	return NewRecommendationService(src, zap.NewNop()), src
}

func TestRecommend_ExactMatch(t *testing.T) {
	svc, _ := newRecommender(models.KnowledgeBase{
		{Query: "how to pray", Tokens: []string{"how", "to", "pray"}, Response: "Y"},
		{Query: "what breaks wudu", Tokens: []string{"what", "breaks", "wudu"}, Response: "X",
			RecommendedItems: json.RawMessage(`[{"id":1}]`)},
	})

	got, err := svc.Recommend(context.Background(), "What breaks wudu?")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "what breaks wudu", got.Query)
	assert.Equal(t, "X", got.Response)
	assert.JSONEq(t, `[{"id":1}]`, string(got.RecommendedItems))
}

func TestRecommend_TieGoesToFirstEntry(t *testing.T) {
	svc, _ := newRecommender(models.KnowledgeBase{
		{Query: "how to pray", Tokens: []string{"how", "to", "pray"}},
		{Query: "prayer steps", Tokens: []string{"how", "to", "pray"}},
	})

	got, err := svc.Recommend(context.Background(), "how to pray")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "how to pray", got.Query)
}

func TestRecommend_HighestScoreWins(t *testing.T) {
	svc, _ := newRecommender(models.KnowledgeBase{
		{Query: "pray", Tokens: []string{"pray"}},
		{Query: "how to pray fajr", Tokens: []string{"how", "to", "pray", "fajr"}},
		{Query: "fajr time", Tokens: []string{"fajr", "time"}},
	})

	got, err := svc.Recommend(context.Background(), "how do I pray fajr")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "how to pray fajr", got.Query)
}

func TestRecommend_NoMatch(t *testing.T) {
	svc, _ := newRecommender(models.KnowledgeBase{
		{Query: "how to pray", Tokens: []string{"how", "to", "pray"}},
		{Query: "what breaks wudu", Tokens: []string{"what", "breaks", "wudu"}},
	})

	for _, query := range []string{"", "   ", "?!", "zakat rules"} {
		got, err := svc.Recommend(context.Background(), query)
		require.NoError(t, err, "query %q", query)
		assert.Nil(t, got, "query %q", query)
	}
}

func TestRecommend_EmptyTokenEntriesNeverMatch(t *testing.T) {
	svc, _ := newRecommender(models.KnowledgeBase{
		{Query: "???", Tokens: []string{}},
	})

	got, err := svc.Recommend(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRecommend_EmptyKnowledgeBase(t *testing.T) {
	svc, _ := newRecommender(models.KnowledgeBase{})

	got, err := svc.Recommend(context.Background(), "how to pray")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRecommend_LoadsOnce(t *testing.T) {
	svc, src := newRecommender(models.KnowledgeBase{
		{Query: "adhan", Tokens: []string{"adhan"}},
	})
	assert.Equal(t, int32(0), src.loads.Load())

	for i := 0; i < 5; i++ {
		_, err := svc.Recommend(context.Background(), "adhan")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), src.loads.Load())
}

func TestRecommend_ConcurrentFirstCalls(t *testing.T) {
	svc, src := newRecommender(models.KnowledgeBase{
		{Query: "adhan", Tokens: []string{"adhan"}},
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := svc.Recommend(context.Background(), "adhan")
			assert.NoError(t, err)
			assert.NotNil(t, got)
		}()
	}
	wg.Wait()

	assert.GreaterOrEqual(t, src.loads.Load(), int32(1))

	loads := src.loads.Load()
	_, err := svc.Recommend(context.Background(), "adhan")
	require.NoError(t, err)
	assert.Equal(t, loads, src.loads.Load())
}

func TestRecommend_LoadFailureIsTypedAndRetried(t *testing.T) {
	src := &stubSource{err: errors.New("no such file")}
	svc := NewRecommendationService(src, zap.NewNop())

	got, err := svc.Recommend(context.Background(), "how to pray")
	assert.Nil(t, got)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrKnowledgeBaseUnavailable)

	var loadErr *KnowledgeBaseLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "stub", loadErr.Source)
	assert.EqualError(t, loadErr.Err, "no such file")

	src.err = nil
	src.kb = models.KnowledgeBase{{Query: "how to pray", Tokens: []string{"how", "to", "pray"}}}

	got, err = svc.Recommend(context.Background(), "how to pray")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int32(2), src.loads.Load())
}
