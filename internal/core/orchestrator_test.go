// ABOUTME: Tests for the translation orchestrator over a fake store and policy
// ABOUTME: Covers sentinels, split routing, failure tolerance, tallies, and resumability
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/booksllm/granth/internal/models"
)

// fakeStore keeps chunks in memory with the same NULL semantics as the
// sqlite store: an empty Translation string means untranslated.
type fakeStore struct {
	mu        sync.Mutex
	chunks    map[int]*models.Chunk
	failSetID int // SetTranslation fails for this chunk ID
}

func newFakeStore(chunks ...models.Chunk) *fakeStore {
	s := &fakeStore{chunks: make(map[int]*models.Chunk)}
	for i := range chunks {
		c := chunks[i]
		s.chunks[c.ChunkID] = &c
	}
	return s
}

func (s *fakeStore) Untranslated(startID, endID int) ([]models.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Chunk
	for id := startID; ; id++ {
		if endID > 0 && id > endID {
			break
		}
		c, ok := s.chunks[id]
		if !ok {
			if endID == 0 {
				break
			}
			continue
		}
		if !c.Translated() {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *fakeStore) SetTranslation(chunkID int, translation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if chunkID == s.failSetID {
		return errors.New("disk full")
	}
	c, ok := s.chunks[chunkID]
	if !ok {
		return fmt.Errorf("chunk %d not found", chunkID)
	}
	c.Translation = translation
	return nil
}

func (s *fakeStore) CountRange(startID, endID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id := range s.chunks {
		if id >= startID && (endID == 0 || id <= endID) {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) CountTranslated(startID, endID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, c := range s.chunks {
		if id >= startID && (endID == 0 || id <= endID) && c.Translated() {
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) translation(id int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chunks[id].Translation
}

// fakePolicy translates by prefixing, or fails for configured inputs.
type fakePolicy struct {
	mu     sync.Mutex
	failOn map[string]bool
	calls  []string
}

func (p *fakePolicy) TranslateWithPolicy(ctx context.Context, text string) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, text)
	if p.failOn[text] {
		return "", errors.New("translation attempts exhausted")
	}
	return "translated: " + text, nil
}

func noSleep() OrchestratorOption {
	return WithOrchestratorSleep(func(ctx context.Context, d time.Duration) error {
		return ctx.Err()
	})
}

func chunk(id int, content string) models.Chunk {
	return models.Chunk{ChunkID: id, Section: "Test", Content: content}
}

func TestOrchestrator_TranslatesAndTallies(t *testing.T) {
	store := newFakeStore(
		chunk(1, "प्रथमः श्लोकः"),
		chunk(2, "42"),
		chunk(3, "द्वितीयः श्लोकः"),
	)
	policy := &fakePolicy{}
	o := NewOrchestrator(store, policy, noSleep())

	run, err := o.Run(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Found != 3 || run.Translated != 2 || run.Skipped != 1 || run.Failed != 0 {
		t.Errorf("tally = found %d translated %d skipped %d failed %d",
			run.Found, run.Translated, run.Skipped, run.Failed)
	}
	if got := store.translation(1); got != "translated: प्रथमः श्लोकः" {
		t.Errorf("chunk 1 translation = %q", got)
	}
	if got := store.translation(2); got != "[numeric: 42]" {
		t.Errorf("chunk 2 translation = %q", got)
	}
}

func TestOrchestrator_SentinelsNeverReachClient(t *testing.T) {
	store := newFakeStore(
		chunk(1, "   "),
		chunk(2, "अ"),
		chunk(3, "1, 2, 3"),
	)
	policy := &fakePolicy{}
	o := NewOrchestrator(store, policy, noSleep())

	run, err := o.Run(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(policy.calls) != 0 {
		t.Errorf("client should not be called for degenerate content, got %v", policy.calls)
	}
	if run.Skipped != 3 {
		t.Errorf("skipped = %d, want 3", run.Skipped)
	}
	if got := store.translation(1); got != models.SentinelEmpty {
		t.Errorf("chunk 1 = %q", got)
	}
	if got := store.translation(2); got != models.SentinelTooShort {
		t.Errorf("chunk 2 = %q", got)
	}
	if got := store.translation(3); got != "[numeric: 1, 2, 3]" {
		t.Errorf("chunk 3 = %q", got)
	}
}

func TestOrchestrator_FailureLeavesChunkUntranslated(t *testing.T) {
	store := newFakeStore(
		chunk(1, "fails every time"),
		chunk(2, "works fine here"),
	)
	policy := &fakePolicy{failOn: map[string]bool{"fails every time": true}}
	o := NewOrchestrator(store, policy, noSleep())

	run, err := o.Run(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("run should survive per-chunk failure: %v", err)
	}
	if run.Failed != 1 || run.Translated != 1 {
		t.Errorf("tally = translated %d failed %d", run.Translated, run.Failed)
	}
	if got := store.translation(1); got != "" {
		t.Errorf("failed chunk must stay untranslated, got %q", got)
	}

	// The failed chunk is exactly the worklist of the next run.
	remaining, err := store.Untranslated(1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(remaining) != 1 || remaining[0].ChunkID != 1 {
		t.Errorf("remaining worklist = %v", remaining)
	}
}

func TestOrchestrator_SecondRunFindsNothing(t *testing.T) {
	store := newFakeStore(chunk(1, "some devotional verse"))
	policy := &fakePolicy{}
	o := NewOrchestrator(store, policy, noSleep())

	if _, err := o.Run(context.Background(), 1, 0); err != nil {
		t.Fatalf("first run: %v", err)
	}
	run, err := o.Run(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if run.Found != 0 {
		t.Errorf("second run found %d chunks, want 0", run.Found)
	}
	if len(policy.calls) != 1 {
		t.Errorf("client called %d times across both runs, want 1", len(policy.calls))
	}
}

func TestOrchestrator_SplitsOversizedChunks(t *testing.T) {
	verse := strings.Repeat("अ", 120) + "।"
	content := verse + verse + verse // 363 runes
	store := newFakeStore(chunk(1, content))
	policy := &fakePolicy{}
	o := NewOrchestrator(store, policy, noSleep(), WithSplitThreshold(300))

	run, err := o.Run(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Translated != 1 {
		t.Errorf("translated = %d, want 1", run.Translated)
	}
	if len(policy.calls) != 3 {
		t.Fatalf("expected 3 fragment calls, got %d", len(policy.calls))
	}
	want := "translated: " + policy.calls[0] + " translated: " + policy.calls[1] +
		" translated: " + policy.calls[2]
	if got := store.translation(1); got != want {
		t.Errorf("joined translation = %q", got)
	}
}

func TestOrchestrator_PartialFragmentFailureStillCounts(t *testing.T) {
	partA := strings.Repeat("a", 150) + "।"
	partB := strings.Repeat("b", 150) + "।"
	store := newFakeStore(chunk(1, partA+partB))
	policy := &fakePolicy{failOn: map[string]bool{strings.TrimSpace(partA): true}}
	o := NewOrchestrator(store, policy, noSleep(), WithSplitThreshold(200))

	run, err := o.Run(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Translated != 1 {
		t.Errorf("translated = %d, want 1", run.Translated)
	}
	if got := store.translation(1); !strings.Contains(got, "bbb") {
		t.Errorf("surviving fragment missing from %q", got)
	}
}

func TestOrchestrator_AllFragmentsFailMeansFailure(t *testing.T) {
	partA := strings.Repeat("a", 150) + "।"
	partB := strings.Repeat("b", 150) + "।"
	store := newFakeStore(chunk(1, partA+partB))
	policy := &fakePolicy{failOn: map[string]bool{
		strings.TrimSpace(partA): true,
		strings.TrimSpace(partB): true,
	}}
	o := NewOrchestrator(store, policy, noSleep(), WithSplitThreshold(200))

	run, err := o.Run(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("run should survive: %v", err)
	}
	if run.Failed != 1 {
		t.Errorf("failed = %d, want 1", run.Failed)
	}
	if got := store.translation(1); got != "" {
		t.Errorf("chunk must stay untranslated, got %q", got)
	}
}

func TestOrchestrator_StoreWriteFailureCounted(t *testing.T) {
	store := newFakeStore(chunk(1, "first verse text"), chunk(2, "second verse text"))
	store.failSetID = 1
	policy := &fakePolicy{}
	o := NewOrchestrator(store, policy, noSleep())

	run, err := o.Run(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("run should survive a store write failure: %v", err)
	}
	if run.Failed != 1 || run.Translated != 1 {
		t.Errorf("tally = translated %d failed %d", run.Translated, run.Failed)
	}
	if got := store.translation(2); got == "" {
		t.Error("later chunk should still be processed")
	}
}

func TestOrchestrator_RangeBounds(t *testing.T) {
	store := newFakeStore(
		chunk(1, "verse number one"),
		chunk(2, "verse number two"),
		chunk(3, "verse number three"),
	)
	policy := &fakePolicy{}
	o := NewOrchestrator(store, policy, noSleep())

	run, err := o.Run(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if run.Found != 1 || run.Translated != 1 {
		t.Errorf("tally = found %d translated %d", run.Found, run.Translated)
	}
	if store.translation(1) != "" || store.translation(3) != "" {
		t.Error("chunks outside the range must be untouched")
	}
}

func TestOrchestrator_RecordsRun(t *testing.T) {
	store := newFakeStore(chunk(1, "one verse to record"))
	recorder := &fakeRunStore{}
	o := NewOrchestrator(store, &fakePolicy{}, noSleep(), WithRunStore(recorder))

	if _, err := o.Run(context.Background(), 1, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recorder.saved) != 1 {
		t.Fatalf("expected 1 recorded run, got %d", len(recorder.saved))
	}
	saved := recorder.saved[0]
	if saved.ID == "" {
		t.Error("run ID should be set")
	}
	if saved.Found != 1 || saved.Translated != 1 {
		t.Errorf("recorded tally = found %d translated %d", saved.Found, saved.Translated)
	}
	if saved.FinishedAt.IsZero() {
		t.Error("finished timestamp should be set")
	}
}

type fakeRunStore struct {
	saved []*models.Run
}

func (f *fakeRunStore) SaveRun(run *models.Run) error {
	f.saved = append(f.saved, run)
	return nil
}

func TestOrchestrator_ContextCancelAborts(t *testing.T) {
	store := newFakeStore(chunk(1, "verse one text"), chunk(2, "verse two text"))
	policy := &fakePolicy{}
	o := NewOrchestrator(store, policy, noSleep())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := o.Run(ctx, 1, 0)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if run == nil {
		t.Fatal("partial tally should still be returned")
	}
	if len(policy.calls) != 0 {
		t.Errorf("no chunk should be processed after cancellation")
	}
}

func TestOrchestrator_Verify(t *testing.T) {
	store := newFakeStore(
		chunk(1, "translated one"),
		chunk(2, "still pending"),
		chunk(3, "sentinel here"),
		chunk(4, "also pending"),
	)
	_ = store.SetTranslation(1, "done")
	_ = store.SetTranslation(3, models.SentinelEmpty)

	o := NewOrchestrator(store, &fakePolicy{}, noSleep())
	report, err := o.Verify(1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Total != 4 || report.Translated != 2 || report.Untranslated != 2 {
		t.Errorf("report = %+v", report)
	}
	if report.Percent != 50 {
		t.Errorf("percent = %v, want 50", report.Percent)
	}
}
