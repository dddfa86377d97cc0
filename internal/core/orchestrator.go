// ABOUTME: Orchestrator drives resumable translation over the untranslated worklist
// ABOUTME: Classifies degenerate content, splits oversized chunks, and tallies outcomes
package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/booksllm/granth/internal/llm"
	"github.com/booksllm/granth/internal/models"
)

// Orchestration defaults. Chunks above SplitThreshold runes are translated
// fragment by fragment; progress is reported every progressEvery chunks.
const (
	DefaultSplitThreshold = 800

	progressEvery          = 20
	defaultFailureCooldown = 10 * time.Second
)

// Translator is the resilient translation policy the orchestrator submits
// text to. Satisfied by llm.RetryingTranslator.
type Translator interface {
	TranslateWithPolicy(ctx context.Context, text string) (string, error)
}

// ChunkStore is the chunk persistence the orchestrator reads worklists
// from and writes results to. Satisfied by sqlite.ChunkStore.
type ChunkStore interface {
	Untranslated(startID, endID int) ([]models.Chunk, error)
	SetTranslation(chunkID int, translation string) error
	CountRange(startID, endID int) (int, error)
	CountTranslated(startID, endID int) (int, error)
}

// RunStore records completed orchestration runs. May be nil, in which case
// runs are not persisted.
type RunStore interface {
	SaveRun(run *models.Run) error
}

// Orchestrator walks the untranslated worklist in ID order, writing each
// outcome immediately so progress survives interruption. Store write
// failures on individual chunks are reported and counted but do not abort
// the run.
type Orchestrator struct {
	store      ChunkStore
	runs       RunStore
	translator Translator
	splitter   *Splitter

	splitThreshold  int
	failureCooldown time.Duration
	sleep           llm.SleepFunc
	out             io.Writer
	now             func() time.Time
}

// OrchestratorOption customizes an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithRunStore enables run recording.
func WithRunStore(runs RunStore) OrchestratorOption {
	return func(o *Orchestrator) { o.runs = runs }
}

// WithSplitThreshold overrides the rune count above which chunks are
// split into sentence fragments.
func WithSplitThreshold(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.splitThreshold = n
		}
	}
}

// WithFailureCooldown overrides the pause after an exhausted chunk.
func WithFailureCooldown(d time.Duration) OrchestratorOption {
	return func(o *Orchestrator) { o.failureCooldown = d }
}

// WithOrchestratorSleep injects the wait function (tests).
func WithOrchestratorSleep(sleep llm.SleepFunc) OrchestratorOption {
	return func(o *Orchestrator) { o.sleep = sleep }
}

// WithProgressOutput directs progress reporting to w.
func WithProgressOutput(w io.Writer) OrchestratorOption {
	return func(o *Orchestrator) { o.out = w }
}

// WithClock injects the time source (tests).
func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator creates an Orchestrator over the given store and
// translation policy.
func NewOrchestrator(store ChunkStore, translator Translator, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		store:           store,
		translator:      translator,
		splitter:        NewSplitter(),
		splitThreshold:  DefaultSplitThreshold,
		failureCooldown: defaultFailureCooldown,
		sleep:           llm.ContextSleep,
		out:             io.Discard,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run processes every untranslated chunk whose ID falls in [startID,
// endID]. An endID of 0 means unbounded. It returns the run tally; the
// tally is also returned (partially filled) alongside the error when the
// context is cancelled mid-run.
func (o *Orchestrator) Run(ctx context.Context, startID, endID int) (*models.Run, error) {
	worklist, err := o.store.Untranslated(startID, endID)
	if err != nil {
		return nil, fmt.Errorf("loading worklist: %w", err)
	}

	run := &models.Run{
		ID:        uuid.New().String(),
		StartID:   startID,
		EndID:     endID,
		Found:     len(worklist),
		StartedAt: o.now(),
	}

	fmt.Fprintf(o.out, "found %d untranslated chunks\n", run.Found)

	for i, chunk := range worklist {
		if ctx.Err() != nil {
			run.FinishedAt = o.now()
			o.saveRun(run)
			return run, ctx.Err()
		}

		if err := o.processChunk(ctx, chunk, run); err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				run.FinishedAt = o.now()
				o.saveRun(run)
				return run, err
			}
			fmt.Fprintf(o.out, "chunk %d: %v\n", chunk.ChunkID, err)
		}

		done := i + 1
		if done%progressEvery == 0 && done < len(worklist) {
			o.reportProgress(run, done, len(worklist))
		}
	}

	run.FinishedAt = o.now()
	o.saveRun(run)

	fmt.Fprintf(o.out, "done: %d translated, %d skipped, %d failed\n",
		run.Translated, run.Skipped, run.Failed)
	return run, nil
}

// processChunk decides the chunk's outcome and persists it. Sentinel
// writes and translations both go through SetTranslation, so either way
// the chunk leaves the worklist permanently.
func (o *Orchestrator) processChunk(ctx context.Context, chunk models.Chunk, run *models.Run) error {
	var translation string

	switch models.ClassifyContent(chunk.Content) {
	case models.ClassEmpty:
		translation = models.SentinelEmpty
	case models.ClassTooShort:
		translation = models.SentinelTooShort
	case models.ClassNumeric:
		translation = models.SentinelNumeric(strings.TrimSpace(chunk.Content))
	default:
		result, err := o.translate(ctx, chunk.Content)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			run.Failed++
			if cerr := o.sleep(ctx, o.failureCooldown); cerr != nil {
				return cerr
			}
			return fmt.Errorf("translation failed: %w", err)
		}
		if err := o.store.SetTranslation(chunk.ChunkID, result); err != nil {
			run.Failed++
			return fmt.Errorf("storing translation: %w", err)
		}
		run.Translated++
		return nil
	}

	if err := o.store.SetTranslation(chunk.ChunkID, translation); err != nil {
		run.Failed++
		return fmt.Errorf("storing sentinel: %w", err)
	}
	run.Skipped++
	return nil
}

// translate routes content through the policy, fragmenting it first when
// it exceeds the split threshold. Fragment failures are tolerated as long
// as at least one fragment translates; a chunk with zero successful
// fragments is a failure, leaving it untranslated for the next run.
func (o *Orchestrator) translate(ctx context.Context, content string) (string, error) {
	if utf8.RuneCountInString(content) <= o.splitThreshold {
		return o.translator.TranslateWithPolicy(ctx, content)
	}

	fragments := o.splitter.Split(content)
	if len(fragments) == 0 {
		return o.translator.TranslateWithPolicy(ctx, content)
	}

	var parts []string
	var lastErr error
	for _, fragment := range fragments {
		result, err := o.translator.TranslateWithPolicy(ctx, fragment)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			lastErr = err
			continue
		}
		parts = append(parts, result)
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no fragment translated: %w", lastErr)
	}
	return strings.Join(parts, " "), nil
}

func (o *Orchestrator) reportProgress(run *models.Run, done, total int) {
	elapsed := o.now().Sub(run.StartedAt)
	perChunk := elapsed / time.Duration(done)
	remaining := perChunk * time.Duration(total-done)
	fmt.Fprintf(o.out, "progress: %d/%d (%d translated, %d skipped, %d failed), elapsed %s, eta %s\n",
		done, total, run.Translated, run.Skipped, run.Failed,
		elapsed.Round(time.Second), remaining.Round(time.Second))
}

func (o *Orchestrator) saveRun(run *models.Run) {
	if o.runs == nil {
		return
	}
	if err := o.runs.SaveRun(run); err != nil {
		fmt.Fprintf(o.out, "recording run: %v\n", err)
	}
}

// VerificationReport summarizes store-verified completion for an ID range.
type VerificationReport struct {
	StartID      int     `json:"start_id"`
	EndID        int     `json:"end_id"`
	Total        int     `json:"total"`
	Translated   int     `json:"translated"`
	Untranslated int     `json:"untranslated"`
	Percent      float64 `json:"percent"`
}

// Verify recounts translation state directly from the store rather than
// trusting any in-memory tally.
func (o *Orchestrator) Verify(startID, endID int) (*VerificationReport, error) {
	total, err := o.store.CountRange(startID, endID)
	if err != nil {
		return nil, fmt.Errorf("counting chunks: %w", err)
	}
	translated, err := o.store.CountTranslated(startID, endID)
	if err != nil {
		return nil, fmt.Errorf("counting translated chunks: %w", err)
	}

	report := &VerificationReport{
		StartID:      startID,
		EndID:        endID,
		Total:        total,
		Translated:   translated,
		Untranslated: total - translated,
	}
	if total > 0 {
		report.Percent = 100 * float64(translated) / float64(total)
	}
	return report, nil
}
