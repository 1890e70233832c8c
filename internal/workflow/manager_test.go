// File: internal/workflow/manager_test.go
package workflow_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/deskpilot/internal/observability"
	"github.com/xkilldash9x/deskpilot/internal/workflow"
)

func newManager(st workflow.Store) *workflow.Manager {
	return workflow.NewManager(st, 500*time.Millisecond, observability.GetLogger())
}

func TestRecordSaveLoad(t *testing.T) {
	st := newMemStore()
	m := newManager(st)

	m.StartRecording()
	m.AddStep("mouse_move", map[string]any{"x": 10, "y": 20}, &workflow.ActionResult{Output: "moved"})
	m.AddStep("click", map[string]any{}, nil)

	id, err := m.SaveWorkflow("Demo", "a demo workflow", []string{"demo"})
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.False(t, m.IsRecording(), "save transitions back to idle")
	assert.Zero(t, m.StepCount(), "save clears the buffer")

	loaded, err := m.LoadWorkflow(id)
	require.NoError(t, err)
	assert.Equal(t, "Demo", loaded.Name)
	require.Len(t, loaded.Steps, 2)
	assert.Equal(t, "mouse_move", loaded.Steps[0].Action)
	assert.Equal(t, 500*time.Millisecond, loaded.Steps[0].Delay)
	require.NotNil(t, loaded.Steps[0].Result)
	assert.Equal(t, "moved", loaded.Steps[0].Result.Output)
}

func TestAddStepWhileIdleIsIgnored(t *testing.T) {
	st := newMemStore()
	m := newManager(st)

	// Reported before any recording started: silently dropped.
	m.AddStep("click", nil, nil)
	assert.Zero(t, m.StepCount())

	m.StartRecording()
	m.AddStep("type", map[string]any{"text": "hi"}, nil)
	m.StopRecording()

	// Reported after stop: also dropped, even though the buffer is retained.
	m.AddStep("click", nil, nil)

	id, err := m.SaveWorkflow("OnlyTyped", "", nil)
	require.NoError(t, err)

	loaded, err := m.LoadWorkflow(id)
	require.NoError(t, err)
	require.Len(t, loaded.Steps, 1)
	assert.Equal(t, "type", loaded.Steps[0].Action)
}

func TestSaveEmptyRecordingRejected(t *testing.T) {
	m := newManager(newMemStore())

	m.StartRecording()
	_, err := m.SaveWorkflow("Nothing", "", nil)
	assert.ErrorIs(t, err, workflow.ErrEmptyRecording)
}

func TestSaveWithoutNameRejected(t *testing.T) {
	m := newManager(newMemStore())

	m.StartRecording()
	m.AddStep("click", nil, nil)
	_, err := m.SaveWorkflow("", "", nil)
	assert.ErrorIs(t, err, workflow.ErrEmptyName)
	assert.Equal(t, 1, m.StepCount(), "rejected save keeps the buffer")
}

func TestStartRecordingRestartsBuffer(t *testing.T) {
	m := newManager(newMemStore())

	m.StartRecording()
	m.AddStep("click", nil, nil)
	m.AddStep("click", nil, nil)

	// Starting again discards the two buffered steps.
	m.StartRecording()
	assert.Zero(t, m.StepCount())
	assert.True(t, m.IsRecording())
}

func TestSaveAfterStopStillWorks(t *testing.T) {
	st := newMemStore()
	m := newManager(st)

	m.StartRecording()
	m.AddStep("screenshot", nil, nil)
	m.StopRecording()

	id, err := m.SaveWorkflow("Later", "saved after stopping", nil)
	require.NoError(t, err)

	loaded, err := m.LoadWorkflow(id)
	require.NoError(t, err)
	assert.Len(t, loaded.Steps, 1)
}

func TestSaveFailureKeepsBuffer(t *testing.T) {
	st := newMemStore()
	st.putErr = assert.AnError
	m := newManager(st)

	m.StartRecording()
	m.AddStep("click", nil, nil)

	_, err := m.SaveWorkflow("Doomed", "", nil)
	require.Error(t, err)
	assert.Equal(t, 1, m.StepCount(), "buffer survives a failed persist so the save can be retried")

	st.putErr = nil
	_, err = m.SaveWorkflow("Doomed", "", nil)
	assert.NoError(t, err)
}

func TestDiscardRecording(t *testing.T) {
	m := newManager(newMemStore())

	m.StartRecording()
	m.AddStep("click", nil, nil)
	m.DiscardRecording()

	assert.False(t, m.IsRecording())
	_, err := m.SaveWorkflow("Gone", "", nil)
	assert.ErrorIs(t, err, workflow.ErrEmptyRecording)
}

func TestListAndDeleteDelegation(t *testing.T) {
	st := newMemStore()
	m := newManager(st)

	m.StartRecording()
	m.AddStep("click", nil, nil)
	id, err := m.SaveWorkflow("Demo", "", []string{"a"})
	require.NoError(t, err)

	all, err := m.ListWorkflows("")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Demo", all[0].Name)
	assert.Len(t, all[0].Steps, 1)

	tagged, err := m.ListWorkflows("a")
	require.NoError(t, err)
	assert.Len(t, tagged, 1)

	none, err := m.ListWorkflows("missing")
	require.NoError(t, err)
	assert.Empty(t, none)

	tags, err := m.AllTags()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, tags)

	removed, err := m.DeleteWorkflow(id)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = m.DeleteWorkflow(id)
	require.NoError(t, err)
	assert.False(t, removed)
}
