package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/profile-builder/internal/config"
	"github.com/jonathan/profile-builder/internal/db"
	"github.com/jonathan/profile-builder/internal/extraction"
	"github.com/jonathan/profile-builder/internal/gateway"
	"github.com/jonathan/profile-builder/internal/llm"
	"github.com/jonathan/profile-builder/internal/observability"
	"github.com/jonathan/profile-builder/internal/pipeline"
	"github.com/jonathan/profile-builder/internal/postprocess"
	"github.com/jonathan/profile-builder/internal/storage"
	"github.com/jonathan/profile-builder/internal/types"
)

var (
	processUserID    string
	processDocuments []string
	processMode      string
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run documents through the profile pipeline from the command line",
	Long: `Process one or more stored documents for a user without going through the
HTTP API. Documents are processed sequentially in the order given; each run
gets its own time budget. The resulting run summaries are printed as JSON.`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVarP(&processUserID, "user", "u", "", "User ID (UUID) owning the documents")
	processCmd.Flags().StringSliceVarP(&processDocuments, "document", "d", nil, "Document ID (UUID), repeatable for a batch")
	processCmd.Flags().StringVarP(&processMode, "mode", "m", string(types.ModeCompletion), "Run mode: completion or regeneration")
	_ = processCmd.MarkFlagRequired("user")
	_ = processCmd.MarkFlagRequired("document")
	rootCmd.AddCommand(processCmd)
}

func runProcess(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	userID, err := uuid.Parse(processUserID)
	if err != nil {
		return fmt.Errorf("invalid user ID: %w", err)
	}

	mode := types.Mode(processMode)
	if !mode.Valid() {
		return fmt.Errorf("invalid mode %q: must be completion or regeneration", processMode)
	}

	documentIDs := make([]uuid.UUID, 0, len(processDocuments))
	for _, raw := range processDocuments {
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid document ID %q: %w", raw, err)
		}
		documentIDs = append(documentIDs, id)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := observability.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	bucket, err := storage.NewBucket(ctx, cfg.BucketName, cfg.CredentialsFile)
	if err != nil {
		return fmt.Errorf("failed to open storage bucket: %w", err)
	}
	defer bucket.Close()

	llmClient, err := llm.NewGeminiClient(ctx, cfg.GeminiKey)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer llmClient.Close()

	gw := gateway.New(llmClient, cfg.ModelCascade, log)
	extractor := extraction.NewExtractor(bucket, database, log)
	post := postprocess.New(gw, log)
	orchestrator := pipeline.New(database, extractor, gw, post, log, cfg.RunBudget, nil)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	for i, documentID := range documentIDs {
		result, err := orchestrator.ProcessDocument(ctx, pipeline.Request{
			DocumentID: documentID,
			UserID:     userID,
			Mode:       mode,
			Batch:      types.BatchPosition{Index: i, Total: len(documentIDs)},
		})
		if err != nil {
			return fmt.Errorf("document %s failed (%s): %w", documentID, pipeline.CodeOf(err), err)
		}
		if err := encoder.Encode(result); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	}

	return nil
}
