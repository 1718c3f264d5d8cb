package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/profile-builder/internal/db"
	"github.com/jonathan/profile-builder/internal/deadline"
	"github.com/jonathan/profile-builder/internal/extraction"
	"github.com/jonathan/profile-builder/internal/gateway"
	"github.com/jonathan/profile-builder/internal/merge"
	"github.com/jonathan/profile-builder/internal/observability"
	"github.com/jonathan/profile-builder/internal/postprocess"
	"github.com/jonathan/profile-builder/internal/schemas"
	"github.com/jonathan/profile-builder/internal/scoring"
	"github.com/jonathan/profile-builder/internal/types"
	"github.com/jonathan/profile-builder/internal/validation"
)

// Model-call timeout bounds for the main extraction call, derived from the
// remaining run budget.
const (
	minExtractionCallTimeout = 10 * time.Second
	maxExtractionCallTimeout = 30 * time.Second
)

// Store is the slice of the database the orchestrator needs.
type Store interface {
	GetDocument(ctx context.Context, id, userID uuid.UUID) (*db.Document, error)
	GetProfileByUser(ctx context.Context, userID uuid.UUID) (*types.Profile, error)
	UpsertProfile(ctx context.Context, userID uuid.UUID, profile *types.Profile) error
}

// TextExtractor produces plain text from a document record.
type TextExtractor interface {
	Extract(ctx context.Context, doc *db.Document) (string, error)
}

// Generator is the model gateway contract the orchestrator depends on.
type Generator interface {
	Generate(ctx context.Context, prompt string, timeout time.Duration) (*gateway.Result, error)
}

// Request identifies one document run within a batch.
type Request struct {
	DocumentID uuid.UUID           `json:"document_id"`
	UserID     uuid.UUID           `json:"user_id"`
	Mode       types.Mode          `json:"mode"`
	Batch      types.BatchPosition `json:"batch"`
}

// Timings is the per-stage wall-clock breakdown returned with every success.
type Timings struct {
	ExtractMs     int64 `json:"extract_ms"`
	ModelMs       int64 `json:"model_ms"`
	PostProcessMs int64 `json:"post_process_ms"`
	PersistMs     int64 `json:"persist_ms"`
	TotalMs       int64 `json:"total_ms"`
}

// ProfileSummary carries the headline counts of the merged profile.
type ProfileSummary struct {
	ExperienceCount int `json:"experience_count"`
	SkillCount      int `json:"skill_count"`
	ClientCount     int `json:"client_count"`
}

// ValidationSummary is the capped, caller-facing slice of the validation
// result.
type ValidationSummary struct {
	Valid    bool                    `json:"valid"`
	Warnings []types.Warning         `json:"warnings,omitempty"`
	Metrics  types.ValidationMetrics `json:"metrics"`
}

// Result is the success response of one document run.
type Result struct {
	Profile     ProfileSummary             `json:"profile"`
	Quality     types.QualityScore         `json:"quality"`
	Validation  ValidationSummary          `json:"validation"`
	Suggestions []string                   `json:"suggestions,omitempty"`
	MergeStats  types.MergeStats           `json:"merge_stats"`
	Conflicts   []types.Conflict           `json:"conflicts,omitempty"`
	Truncation  extraction.TruncationStats `json:"truncation"`
	ModelUsed   string                     `json:"model_used"`
	Timings     Timings                    `json:"timings"`
	// ErrorCode is always empty on a success; failures never produce a
	// Result, but callers relaying the envelope rely on the field being
	// present either way.
	ErrorCode string `json:"error_code"`
}

// Orchestrator sequences one document run: extract, truncate, prompt,
// generate, parse, merge, post-process, score, validate, persist. All
// dependencies are injected so runs are independently testable.
type Orchestrator struct {
	store     Store
	extractor TextExtractor
	gw        Generator
	post      *postprocess.Processor
	log       *observability.Logger
	clock     func() time.Time
	budget    time.Duration
}

// New creates an orchestrator. A nil clock uses time.Now.
func New(store Store, extractor TextExtractor, gw Generator, post *postprocess.Processor,
	log *observability.Logger, budget time.Duration, clock func() time.Time) *Orchestrator {
	if clock == nil {
		clock = time.Now
	}
	return &Orchestrator{
		store:     store,
		extractor: extractor,
		gw:        gw,
		post:      post,
		log:       log.With("component", "orchestrator"),
		clock:     clock,
		budget:    budget,
	}
}

// ProcessDocument runs the full pipeline for one document. Any error before
// the persist stage leaves the profile unwritten; the document's cached text,
// once extracted, is kept deliberately since extraction is idempotent and
// expensive.
func (o *Orchestrator) ProcessDocument(ctx context.Context, req Request) (*Result, error) {
	if o.gw == nil {
		return nil, &ErrConfig{Missing: "model gateway"}
	}

	start := o.clock()
	dl := deadline.New(o.budget, o.clock)
	log := o.log.With("document_id", req.DocumentID, "mode", req.Mode)
	var timings Timings

	// extract
	doc, err := o.store.GetDocument(ctx, req.DocumentID, req.UserID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, &ErrNotFound{DocumentID: req.DocumentID}
	}

	extractStart := o.clock()
	text, err := o.extractor.Extract(ctx, doc)
	if err != nil {
		return nil, err
	}
	timings.ExtractMs = o.clock().Sub(extractStart).Milliseconds()

	// truncate + prompt
	truncated, truncStats := extraction.Truncate(text)
	if truncStats.WasTruncated {
		log.Info("document truncated",
			"original_tokens", truncStats.OriginalTokens,
			"final_tokens", truncStats.FinalTokens)
	}

	existing, err := o.store.GetProfileByUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	snapshot := ""
	hasExisting := existing != nil && !existing.IsEmpty()
	if extraction.ShouldIncludeSnapshot(req.Mode, req.Batch, hasExisting) {
		snapshot, err = extraction.SnapshotOf(existing)
		if err != nil {
			return nil, err
		}
	}
	prompt := extraction.BuildExtractionPrompt(truncated, snapshot)

	// generate
	modelStart := o.clock()
	callTimeout := deadline.Clamp(dl.Remaining(), minExtractionCallTimeout, maxExtractionCallTimeout)
	genResult, err := o.gw.Generate(ctx, prompt, callTimeout)
	if err != nil {
		return nil, err
	}
	timings.ModelMs = o.clock().Sub(modelStart).Milliseconds()

	// parse; the raw response is logged for diagnosis, never returned
	fragment, dropped, err := schemas.ParseFragment([]byte(genResult.Text))
	if err != nil {
		log.Error("model response rejected", "raw_response", genResult.Text, "error", err)
		return nil, &ErrParse{Cause: err}
	}
	if len(dropped) > 0 {
		log.Warn("malformed fragment sections dropped", "sections", dropped)
	}

	// merge
	var mergeResult *types.MergeResult
	if !hasExisting || (req.Mode == types.ModeRegeneration && req.Batch.IsFirst()) {
		mergeResult = merge.Rebase(existing, fragment)
	} else {
		mergeResult = merge.Merge(existing, fragment)
	}
	merged := mergeResult.Profile

	// post-process (client consolidation always, enrichment budget permitting)
	postStart := o.clock()
	o.post.Run(ctx, merged, dl, req.Batch)
	timings.PostProcessMs = o.clock().Sub(postStart).Milliseconds()

	// score + validate
	quality := scoring.Score(merged)
	merged.QualityMetrics = &quality
	merged.ExtractionMetadata = append(merged.ExtractionMetadata, types.ExtractionRecord{
		DocumentID:   req.DocumentID.String(),
		ModelUsed:    genResult.ModelUsed,
		WasTruncated: truncStats.WasTruncated,
		FinalTokens:  truncStats.FinalTokens,
		ExtractedAt:  o.clock().UTC().Format(time.RFC3339),
	})

	validationResult := validation.Validate(merged)
	suggestions := validation.DeriveSuggestions(merged, &validationResult)

	// persist
	persistStart := o.clock()
	if err := o.store.UpsertProfile(ctx, req.UserID, merged); err != nil {
		return nil, err
	}
	timings.PersistMs = o.clock().Sub(persistStart).Milliseconds()
	timings.TotalMs = o.clock().Sub(start).Milliseconds()

	log.Info("document processed",
		"model", genResult.ModelUsed,
		"items_added", mergeResult.Stats.ItemsAdded,
		"items_updated", mergeResult.Stats.ItemsUpdated,
		"quality", quality.Overall,
		"total_ms", timings.TotalMs)

	return &Result{
		Profile: ProfileSummary{
			ExperienceCount: len(merged.Experiences),
			SkillCount:      merged.Competences.Count(),
			ClientCount:     merged.ClientCount(),
		},
		Quality: quality,
		Validation: ValidationSummary{
			Valid:    validationResult.Valid,
			Warnings: validation.CapWarnings(validationResult.Warnings),
			Metrics:  validationResult.Metrics,
		},
		Suggestions: suggestions,
		MergeStats:  mergeResult.Stats,
		Conflicts:   mergeResult.Conflicts,
		Truncation:  truncStats,
		ModelUsed:   genResult.ModelUsed,
		Timings:     timings,
	}, nil
}
