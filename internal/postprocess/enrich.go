package postprocess

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/jonathan/profile-builder/internal/deadline"
	"github.com/jonathan/profile-builder/internal/extraction"
	"github.com/jonathan/profile-builder/internal/gateway"
	"github.com/jonathan/profile-builder/internal/llm"
	"github.com/jonathan/profile-builder/internal/observability"
	"github.com/jonathan/profile-builder/internal/types"
)

// Enrichment gating thresholds. The last document of a batch gets priority:
// intermediate documents only attempt enrichment when spare time is generous.
const (
	MinRemainingLastDocument         = 8 * time.Second
	MinRemainingIntermediateDocument = 20 * time.Second

	enrichmentReserve    = 2 * time.Second
	minEnrichmentTimeout = 5 * time.Second
	maxEnrichmentTimeout = 25 * time.Second
)

// Generator is the slice of the model gateway the enrichment pass needs.
type Generator interface {
	Generate(ctx context.Context, prompt string, timeout time.Duration) (*gateway.Result, error)
}

// Processor runs the post-merge passes.
type Processor struct {
	gw  Generator
	log *observability.Logger
}

// New creates a post-processor.
func New(gw Generator, log *observability.Logger) *Processor {
	return &Processor{gw: gw, log: log.With("component", "postprocess")}
}

// Run consolidates client references (always) and, budget permitting, asks
// the model for implicit context. Enrichment is best-effort: any failure is
// logged and swallowed, never failing the document run.
func (p *Processor) Run(ctx context.Context, profile *types.Profile, dl deadline.Deadline, pos types.BatchPosition) {
	ConsolidateClients(profile)

	if !ShouldEnrich(dl.Remaining(), pos) {
		p.log.Debug("skipping enrichment, budget too tight",
			"remaining", dl.Remaining().String(),
			"is_last", pos.IsLast())
		return
	}

	timeout := EnrichmentTimeout(dl.Remaining())

	snapshot, err := extraction.SnapshotOf(profile)
	if err != nil {
		p.log.Warn("enrichment skipped, snapshot failed", "error", err)
		return
	}

	result, err := p.gw.Generate(ctx, extraction.BuildEnrichmentPrompt(snapshot), timeout)
	if err != nil {
		p.log.Warn("enrichment skipped, generation failed", "error", err)
		return
	}

	var enriched types.ContexteEnrichi
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(result.Text)), &enriched); err != nil {
		p.log.Warn("enrichment skipped, response not parseable", "error", err)
		return
	}

	// Append, never overwrite: intermediate-document results accumulate and
	// the last document still keeps everything gathered before it.
	profile.ContexteEnrichi = types.ContexteEnrichi{
		ImplicitResponsibilities: unionInferred(profile.ContexteEnrichi.ImplicitResponsibilities, enriched.ImplicitResponsibilities, profile.RejectedInferred),
		TacitSkills:              unionInferred(profile.ContexteEnrichi.TacitSkills, enriched.TacitSkills, profile.RejectedInferred),
		WorkEnvironment:          unionInferred(profile.ContexteEnrichi.WorkEnvironment, enriched.WorkEnvironment, profile.RejectedInferred),
	}
	p.log.Info("enrichment merged", "model", result.ModelUsed)
}

// ShouldEnrich reports whether the remaining budget clears the mode-specific
// threshold. Strictly-greater comparison: exactly at the threshold is not
// enough.
func ShouldEnrich(remaining time.Duration, pos types.BatchPosition) bool {
	threshold := MinRemainingIntermediateDocument
	if pos.IsLast() {
		threshold = MinRemainingLastDocument
	}
	return remaining > threshold
}

// EnrichmentTimeout derives the per-call timeout from the remaining budget,
// keeping a reserve for scoring and persistence.
func EnrichmentTimeout(remaining time.Duration) time.Duration {
	return deadline.Clamp(remaining-enrichmentReserve, minEnrichmentTimeout, maxEnrichmentTimeout)
}

// unionInferred appends new inferred items, skipping duplicates and anything
// the user has explicitly rejected.
func unionInferred(existing, fresh, rejected []string) []string {
	rejectedSet := make(map[string]bool, len(rejected))
	for _, r := range rejected {
		rejectedSet[fold(r)] = true
	}

	seen := make(map[string]bool, len(existing))
	out := make([]string, 0, len(existing)+len(fresh))
	for _, s := range existing {
		key := fold(s)
		if key == "" || seen[key] || rejectedSet[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	for _, s := range fresh {
		key := fold(s)
		if key == "" || seen[key] || rejectedSet[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

func fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
