package main

import (
	"context"

	"namaz-assistant/internal/models"
	"namaz-assistant/internal/repository"
	"namaz-assistant/internal/service"
	"namaz-assistant/pkg/config"
	"namaz-assistant/pkg/logger"
	"namaz-assistant/pkg/postgres"

	"github.com/spf13/cobra"
)

var (
	datasetPath string
	modelPath   string
	forceBuild  bool
	publishDB   bool
)

var rootCmd = &cobra.Command{
	Use:   "train",
	Short: "Build the FAQ knowledge base model",
	Long: `Tokenize every question in the FAQ dataset and write the knowledge base
model consumed by the assistant.

Examples:
  train                                   # paths from KB_DATASET_PATH / KB_MODEL_PATH
  train --dataset data/faq.yaml           # YAML datasets are accepted too
  train --force --publish                 # rebuild and copy into Postgres`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTrain,
}

func init() {
	rootCmd.Flags().StringVarP(&datasetPath, "dataset", "d", "", "path to the FAQ dataset (.json, .yaml, .yml)")
	rootCmd.Flags().StringVarP(&modelPath, "model", "m", "", "path of the model file to write")
	rootCmd.Flags().BoolVarP(&forceBuild, "force", "f", false, "rebuild even if the dataset is unchanged")
	rootCmd.Flags().BoolVar(&publishDB, "publish", false, "also replace the faq_entries table in Postgres")
}

func runTrain(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Logger.Level); err != nil {
		return err
	}
	defer logger.Sync()
	appLogger := logger.Component("train")

	opts := trainOptions{
		DatasetPath: firstNonEmpty(datasetPath, cfg.Knowledge.DatasetPath),
		ModelPath:   firstNonEmpty(modelPath, cfg.Knowledge.ModelPath),
		Force:       forceBuild,
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	t := newTrainer(service.NewKnowledgeBuilder(appLogger), appLogger)
	if publishDB {
		pool, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
		if err != nil {
			return err
		}
		defer pool.Close()

		repo := repository.NewKnowledgeRepository(pool, appLogger)
		t.publish = func(ctx context.Context, kb models.KnowledgeBase) error {
			if err := repo.EnsureSchema(ctx); err != nil {
				return err
			}
			return repo.ReplaceAll(ctx, kb)
		}
	}

	result, err := t.Run(ctx, opts)
	if err != nil {
		return err
	}

	if result.Skipped {
		cmd.Printf("Model %s is up to date (%d entries)\n", opts.ModelPath, result.Entries)
	} else {
		cmd.Printf("Model saved to %s (%d entries)\n", opts.ModelPath, result.Entries)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
