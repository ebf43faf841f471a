package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"namaz-assistant/internal/models"
	"namaz-assistant/internal/repository"
	"namaz-assistant/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testDataset = `[
  {"query": "What breaks wudu?", "response": "X"},
  {"query": "How to pray Fajr", "recommended_items": {"video": "fajr.mp4"}}
]`

func setup(t *testing.T) (trainOptions, *trainer) {
	t.Helper()
	dir := t.TempDir()
	dataset := filepath.Join(dir, "faq.json")
	require.NoError(t, os.WriteFile(dataset, []byte(testDataset), 0o644))

	opts := trainOptions{
		DatasetPath: dataset,
		ModelPath:   filepath.Join(dir, "out", "model.json"),
	}
	return opts, newTrainer(service.NewKnowledgeBuilder(zap.NewNop()), zap.NewNop())
}

func TestTrainer_BuildsModel(t *testing.T) {
	opts, tr := setup(t)

	result, err := tr.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Entries)
	assert.False(t, result.Skipped)

	kb, err := repository.NewKnowledgeFileRepository(opts.ModelPath, zap.NewNop()).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, kb, 2)
	assert.Equal(t, []string{"what", "breaks", "wudu"}, kb[0].Tokens)
	assert.Equal(t, "X", kb[0].Response)
	assert.JSONEq(t, `{"video": "fajr.mp4"}`, string(kb[1].RecommendedItems))

	assert.FileExists(t, cachePath(opts.ModelPath))
}

func TestTrainer_SkipsUnchangedDataset(t *testing.T) {
	opts, tr := setup(t)

	_, err := tr.Run(context.Background(), opts)
	require.NoError(t, err)

	result, err := tr.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Equal(t, 2, result.Entries)

	opts.Force = true
	result, err = tr.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
}

func TestTrainer_RebuildsWhenModelEdited(t *testing.T) {
	opts, tr := setup(t)

	_, err := tr.Run(context.Background(), opts)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(opts.ModelPath, []byte(`[]`), 0o644))

	result, err := tr.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
}

func TestTrainer_RebuildsWhenDatasetChanges(t *testing.T) {
	opts, tr := setup(t)

	_, err := tr.Run(context.Background(), opts)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(opts.DatasetPath, []byte(`[{"query": "adhan"}]`), 0o644))

	result, err := tr.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, 1, result.Entries)
}

func TestTrainer_Publish(t *testing.T) {
	opts, tr := setup(t)

	var published models.KnowledgeBase
	tr.publish = func(_ context.Context, kb models.KnowledgeBase) error {
		published = kb
		return nil
	}

	_, err := tr.Run(context.Background(), opts)
	require.NoError(t, err)
	require.Len(t, published, 2)
	assert.Equal(t, "What breaks wudu?", published[0].Query)

	tr.publish = func(context.Context, models.KnowledgeBase) error {
		return errors.New("connection refused")
	}
	_, err = tr.Run(context.Background(), opts)
	assert.ErrorContains(t, err, "failed to publish knowledge base: connection refused")
}

func TestTrainer_Errors(t *testing.T) {
	opts, tr := setup(t)

	missing := opts
	missing.DatasetPath = filepath.Join(t.TempDir(), "nope.json")
	_, err := tr.Run(context.Background(), missing)
	assert.ErrorContains(t, err, "failed to open")

	require.NoError(t, os.WriteFile(opts.DatasetPath, []byte(`{not json`), 0o644))
	_, err = tr.Run(context.Background(), opts)
	assert.ErrorContains(t, err, "failed to parse dataset")
	assert.NoFileExists(t, opts.ModelPath)
}

func TestRootCmd_Flags(t *testing.T) {
	assert.Equal(t, "train", rootCmd.Use)

	for _, name := range []string{"dataset", "model", "force", "publish"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), "flag %s", name)
	}
	assert.Equal(t, "d", rootCmd.Flags().Lookup("dataset").Shorthand)
	assert.Equal(t, "false", rootCmd.Flags().Lookup("force").DefValue)
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "b", firstNonEmpty("", "b", "c"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}
