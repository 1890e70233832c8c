// File: internal/store/store_test.go
package store_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/deskpilot/internal/config"
	"github.com/xkilldash9x/deskpilot/internal/observability"
	"github.com/xkilldash9x/deskpilot/internal/store"
	"github.com/xkilldash9x/deskpilot/internal/workflow"
)

// TestMain sets up the global logger for all tests in this package.
func TestMain(m *testing.M) {
	observability.ResetForTest()

	cfg := config.NewDefaultConfig().Logger
	cfg.Level = "debug"
	cfg.LogFile = ""
	cfg.Format = "console"
	observability.InitializeLogger(cfg)

	code := m.Run()
	observability.Sync()
	os.Exit(code)
}

// timeEqual lets go-cmp compare time.Time values by instant, ignoring the
// monotonic clock reading that JSON round-trips strip.
var timeEqual = cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) })

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(t.TempDir(), observability.GetLogger())
	require.NoError(t, err)
	return s
}

func sampleWorkflow(name string, createdAt time.Time, tags ...string) *workflow.Workflow {
	w := workflow.New(name, "a test workflow", []workflow.Step{
		workflow.NewStep("type", map[string]any{"text": "hi"}, &workflow.ActionResult{Output: "Typed: hi"}, 100*time.Millisecond),
		workflow.NewStep("click", map[string]any{}, nil, 0),
	}, tags)
	w.CreatedAt = createdAt
	return w
}

func TestPutGetRoundTrip(t *testing.T) {
	s := newStore(t)

	w := sampleWorkflow("Demo", time.Now(), "demo", "smoke")
	require.NoError(t, s.Put(w))

	got, err := s.Get(w.ID)
	require.NoError(t, err)

	if diff := cmp.Diff(w, got, timeEqual); diff != "" {
		t.Fatalf("workflow did not round-trip (-want +got):\n%s", diff)
	}
}

func TestGetNotFound(t *testing.T) {
	s := newStore(t)

	_, err := s.Get("no-such-id")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Ids that would escape the directory are treated as absent, not as errors.
	_, err = s.Get("../evil")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestGetCorruptRecord(t *testing.T) {
	s := newStore(t)

	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "bad.json"), []byte("{not json"), 0o644))

	_, err := s.Get("bad")
	var corrupt *store.CorruptRecordError
	require.ErrorAs(t, err, &corrupt)
	assert.Equal(t, "bad", corrupt.ID)
}

func TestGetRecordMissingRequiredFields(t *testing.T) {
	s := newStore(t)

	// Parses as JSON but has no name and no steps.
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "half.json"),
		[]byte(`{"id":"half","steps":[],"created_at":"2025-01-01T00:00:00Z"}`), 0o644))

	_, err := s.Get("half")
	var corrupt *store.CorruptRecordError
	assert.ErrorAs(t, err, &corrupt)
}

func TestPutRejectsInvalidWorkflow(t *testing.T) {
	s := newStore(t)

	w := workflow.New("Empty", "", nil, nil)
	assert.Error(t, s.Put(w), "a workflow with zero steps must not be persisted")
}

func TestDeleteIsIdempotent(t *testing.T) {
	s := newStore(t)

	w := sampleWorkflow("ToDelete", time.Now())
	require.NoError(t, s.Put(w))

	removed, err := s.Delete(w.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.Delete(w.ID)
	require.NoError(t, err)
	assert.False(t, removed, "second delete returns false, not an error")
}

func TestListSortsByCreatedAtDescending(t *testing.T) {
	s := newStore(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	oldest := sampleWorkflow("oldest", base)
	middle := sampleWorkflow("middle", base.Add(time.Hour))
	newest := sampleWorkflow("newest", base.Add(2*time.Hour))

	// Two workflows sharing a timestamp break the tie by id ascending.
	tieA := sampleWorkflow("tie-a", base.Add(3*time.Hour))
	tieA.ID = "aaaa-tie"
	tieB := sampleWorkflow("tie-b", base.Add(3*time.Hour))
	tieB.ID = "bbbb-tie"

	for _, w := range []*workflow.Workflow{middle, tieB, oldest, newest, tieA} {
		require.NoError(t, s.Put(w))
	}

	listed, err := s.List()
	require.NoError(t, err)
	require.Len(t, listed, 5)

	names := make([]string, len(listed))
	for i, w := range listed {
		names[i] = w.Name
	}
	assert.Equal(t, []string{"tie-a", "tie-b", "newest", "middle", "oldest"}, names)
}

func TestListSkipsCorruptRecords(t *testing.T) {
	s := newStore(t)

	good := sampleWorkflow("good", time.Now())
	require.NoError(t, s.Put(good))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "corrupt.json"), []byte("[["), 0o644))

	listed, skipped, err := s.ListWithErrors()
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, good.ID, listed[0].ID)

	require.Len(t, skipped, 1)
	var corrupt *store.CorruptRecordError
	assert.ErrorAs(t, skipped[0], &corrupt)
}

func TestListByTag(t *testing.T) {
	s := newStore(t)

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := sampleWorkflow("only-a", base.Add(time.Hour), "a")
	b := sampleWorkflow("only-b", base.Add(2*time.Hour), "b")
	ab := sampleWorkflow("both", base.Add(3*time.Hour), "a", "b")

	for _, w := range []*workflow.Workflow{a, b, ab} {
		require.NoError(t, s.Put(w))
	}

	tagged, err := s.ListByTag("a")
	require.NoError(t, err)
	require.Len(t, tagged, 2)
	// Sorted by CreatedAt descending: "both" first, then "only-a".
	assert.Equal(t, "both", tagged[0].Name)
	assert.Equal(t, "only-a", tagged[1].Name)
}

func TestAllTags(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.Put(sampleWorkflow("w1", time.Now(), "zeta", "alpha")))
	require.NoError(t, s.Put(sampleWorkflow("w2", time.Now(), "alpha", "mid")))

	tags, err := s.AllTags()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, tags)
}

func TestPutOverwritesExistingRecord(t *testing.T) {
	s := newStore(t)

	w := sampleWorkflow("Original", time.Now())
	require.NoError(t, s.Put(w))

	w.SuccessCount = 3
	now := time.Now()
	w.LastRun = &now
	require.NoError(t, s.Put(w))

	got, err := s.Get(w.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.SuccessCount)
	require.NotNil(t, got.LastRun)
	assert.True(t, got.LastRun.Equal(now))
}
