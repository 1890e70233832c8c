// File: internal/workflow/manager.go
package workflow

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ErrEmptyRecording is returned when SaveWorkflow is called with zero
// buffered steps.
var ErrEmptyRecording = errors.New("no steps have been recorded")

// ErrEmptyName is returned when SaveWorkflow is called without a name.
var ErrEmptyName = errors.New("workflow name must not be empty")

// Store is the persistence surface the manager drives. It is satisfied by
// *store.Store and by test fakes.
type Store interface {
	Put(w *Workflow) error
	Get(id string) (*Workflow, error)
	Delete(id string) (bool, error)
	List() ([]*Workflow, error)
	ListByTag(tag string) ([]*Workflow, error)
	AllTags() ([]string, error)
}

// Manager owns the workflow lifecycle: the ephemeral recording session and all
// writes to the store. It is intentionally not safe for concurrent use by
// multiple goroutines; it models a single interactive session, and an
// embedding system that needs concurrency must serialize calls to one Manager.
type Manager struct {
	store        Store
	log          *zap.Logger
	defaultDelay time.Duration

	recording bool
	buffer    []Step
}

// NewManager wires a manager to its store. defaultDelay is recorded on each
// new step; a non-positive value falls back to DefaultStepDelay.
func NewManager(st Store, defaultDelay time.Duration, logger *zap.Logger) *Manager {
	if defaultDelay <= 0 {
		defaultDelay = DefaultStepDelay
	}
	return &Manager{
		store:        st,
		log:          logger.Named("workflow_manager"),
		defaultDelay: defaultDelay,
	}
}

// StartRecording begins a new recording session. Calling it while already
// recording discards the current buffer and starts fresh.
func (m *Manager) StartRecording() {
	if m.recording && len(m.buffer) > 0 {
		m.log.Warn("Restarting recording, discarding buffered steps",
			zap.Int("discarded_steps", len(m.buffer)))
	}
	m.buffer = nil
	m.recording = true
	m.log.Info("Started recording new workflow")
}

// StopRecording ends the session but retains the buffer, so a later
// SaveWorkflow can still persist it. This supports a "record now, decide to
// save later" flow.
func (m *Manager) StopRecording() {
	m.recording = false
	m.log.Info("Stopped recording workflow", zap.Int("steps", len(m.buffer)))
}

// IsRecording reports whether steps are currently being captured.
func (m *Manager) IsRecording() bool {
	return m.recording
}

// StepCount returns the number of buffered steps.
func (m *Manager) StepCount() int {
	return len(m.buffer)
}

// AddStep appends an executed action to the recording buffer. It is a silent
// no-op while not recording; callers report every executed action without
// checking recording state first.
func (m *Manager) AddStep(action string, parameters map[string]any, result *ActionResult) {
	if !m.recording {
		return
	}
	step := NewStep(action, parameters, result, m.defaultDelay)
	m.buffer = append(m.buffer, step)
	m.log.Debug("Recorded step", zap.String("action", action), zap.Int("steps", len(m.buffer)))
}

// SaveWorkflow persists the buffered steps as a new workflow and returns its
// id. It works from either state (recording or stopped), rejects an empty
// buffer with ErrEmptyRecording and an empty name with ErrEmptyName, and on
// success transitions to idle with a cleared buffer.
func (m *Manager) SaveWorkflow(name, description string, tags []string) (string, error) {
	if len(m.buffer) == 0 {
		return "", ErrEmptyRecording
	}
	if name == "" {
		return "", ErrEmptyName
	}

	steps := make([]Step, len(m.buffer))
	copy(steps, m.buffer)

	w := New(name, description, steps, tags)
	if err := m.store.Put(w); err != nil {
		// Keep the buffer; the caller may retry the save.
		return "", fmt.Errorf("failed to save workflow %q: %w", name, err)
	}

	m.recording = false
	m.buffer = nil
	m.log.Info("Saved workflow",
		zap.String("id", w.ID), zap.String("name", name), zap.Int("steps", len(steps)))
	return w.ID, nil
}

// DiscardRecording drops the buffer without saving and returns to idle.
func (m *Manager) DiscardRecording() {
	if len(m.buffer) > 0 {
		m.log.Info("Discarded recording", zap.Int("steps", len(m.buffer)))
	}
	m.recording = false
	m.buffer = nil
}

// LoadWorkflow retrieves a stored workflow by id.
func (m *Manager) LoadWorkflow(id string) (*Workflow, error) {
	return m.store.Get(id)
}

// ListWorkflows lists stored workflows, optionally filtered by tag
// (empty tag means no filter).
func (m *Manager) ListWorkflows(tag string) ([]*Workflow, error) {
	if tag == "" {
		return m.store.List()
	}
	return m.store.ListByTag(tag)
}

// DeleteWorkflow removes a stored workflow, reporting whether it existed.
func (m *Manager) DeleteWorkflow(id string) (bool, error) {
	return m.store.Delete(id)
}

// AllTags returns the sorted union of tags across stored workflows.
func (m *Manager) AllTags() ([]string, error) {
	return m.store.AllTags()
}
