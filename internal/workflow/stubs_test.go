// File: internal/workflow/stubs_test.go
package workflow_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/xkilldash9x/deskpilot/internal/workflow"
)

// memStore is an in-memory workflow.Store used by the manager and runner
// tests. The real file-backed implementation has its own tests in
// internal/store.
type memStore struct {
	mu        sync.Mutex
	records   map[string]*workflow.Workflow
	putErr    error
	getErr    error
	putCalls  int
	lastSaved *workflow.Workflow
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]*workflow.Workflow)}
}

func (s *memStore) Put(w *workflow.Workflow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	s.putCalls++
	cp := w.Clone()
	s.records[w.ID] = cp
	s.lastSaved = cp
	return nil
}

func (s *memStore) Get(id string) (*workflow.Workflow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	w, ok := s.records[id]
	if !ok {
		return nil, errNotFound
	}
	return w.Clone(), nil
}

func (s *memStore) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return false, nil
	}
	delete(s.records, id)
	return true, nil
}

func (s *memStore) List() ([]*workflow.Workflow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*workflow.Workflow, 0, len(s.records))
	for _, w := range s.records {
		out = append(out, w.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *memStore) ListByTag(tag string) ([]*workflow.Workflow, error) {
	all, _ := s.List()
	out := make([]*workflow.Workflow, 0, len(all))
	for _, w := range all {
		if w.HasTag(tag) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *memStore) AllTags() ([]string, error) {
	all, _ := s.List()
	seen := map[string]struct{}{}
	for _, w := range all {
		for _, t := range w.Tags {
			seen[t] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags, nil
}

var errNotFound = errors.New("workflow not found")

// scriptedExecutor returns canned results per action and records every
// invocation in order.
type scriptedExecutor struct {
	mu      sync.Mutex
	results map[string]workflow.ActionResult
	calls   []string
}

func newScriptedExecutor() *scriptedExecutor {
	return &scriptedExecutor{results: make(map[string]workflow.ActionResult)}
}

func (e *scriptedExecutor) Execute(_ context.Context, action string, _ map[string]any) workflow.ActionResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, action)
	if r, ok := e.results[action]; ok {
		return r
	}
	return workflow.ActionResult{Output: "did " + action}
}

func (e *scriptedExecutor) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}
