// File: internal/store/store.go
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/deskpilot/internal/workflow"
)

// listConcurrency bounds how many record files a listing decodes in parallel.
const listConcurrency = 8

// Store provides durable CRUD for workflows, one JSON record per id under a
// single directory. Writes are atomic (write-temp-then-rename), which makes
// concurrent Put/Get/Delete on *different* ids safe; same-id races are the
// caller's responsibility to avoid.
type Store struct {
	dir string
	log *zap.Logger
}

// New creates a store rooted at dir, creating the directory if absent.
func New(dir string, logger *zap.Logger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("store directory must not be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create workflow directory %s: %w", dir, err)
	}
	return &Store{
		dir: dir,
		log: logger.Named("store"),
	}, nil
}

// Dir returns the backing directory.
func (s *Store) Dir() string {
	return s.dir
}

// Put writes or overwrites the record for w.ID. The workflow must satisfy the
// persistence invariants (id, name, at least one step).
func (s *Store) Put(w *workflow.Workflow) error {
	if err := w.Validate(); err != nil {
		return fmt.Errorf("refusing to persist invalid workflow: %w", err)
	}
	if !validID(w.ID) {
		return fmt.Errorf("workflow id %q is not a valid record name", w.ID)
	}

	data, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode workflow %s: %w", w.ID, err)
	}

	// Write to a temp file in the same directory, then rename. Rename within
	// one filesystem is atomic, so readers never observe a partial record.
	tmp, err := os.CreateTemp(s.dir, w.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp record: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp record: %w", err)
	}
	if err := os.Rename(tmpName, s.recordPath(w.ID)); err != nil {
		return fmt.Errorf("failed to commit record for %s: %w", w.ID, err)
	}

	s.log.Debug("Persisted workflow", zap.String("id", w.ID), zap.String("name", w.Name))
	return nil
}

// Get retrieves the workflow stored under id. It returns ErrNotFound when no
// record exists and a *CorruptRecordError when the record cannot be decoded
// into a valid workflow.
func (s *Store) Get(id string) (*workflow.Workflow, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	return s.readRecord(s.recordPath(id), id)
}

// Delete removes the record for id. It returns true if a record existed and
// was removed, false if it was already absent (not an error).
func (s *Store) Delete(id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	err := os.Remove(s.recordPath(id))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete workflow %s: %w", id, err)
	}
	s.log.Info("Deleted workflow", zap.String("id", id))
	return true, nil
}

// List returns every valid workflow record, sorted by CreatedAt descending
// (ties broken by id ascending). Corrupt records are logged and skipped.
func (s *Store) List() ([]*workflow.Workflow, error) {
	workflows, _, err := s.ListWithErrors()
	return workflows, err
}

// ListWithErrors is List plus the collected decode errors for records that
// were skipped, for callers that want to surface corruption to the user.
func (s *Store) ListWithErrors() ([]*workflow.Workflow, []error, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read workflow directory: %w", err)
	}

	var (
		mu        sync.Mutex
		workflows []*workflow.Workflow
		skipped   []error
	)

	var g errgroup.Group
	g.SetLimit(listConcurrency)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		path := filepath.Join(s.dir, name)

		g.Go(func() error {
			w, err := s.readRecord(path, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				// Corruption is non-fatal to the listing: log, skip, collect.
				s.log.Warn("Skipping unreadable workflow record",
					zap.String("path", path), zap.Error(err))
				skipped = append(skipped, err)
				return nil
			}
			workflows = append(workflows, w)
			return nil
		})
	}
	// Goroutines never return errors; Wait is for completion only.
	_ = g.Wait()

	sort.Slice(workflows, func(i, j int) bool {
		if !workflows[i].CreatedAt.Equal(workflows[j].CreatedAt) {
			return workflows[i].CreatedAt.After(workflows[j].CreatedAt)
		}
		return workflows[i].ID < workflows[j].ID
	})
	return workflows, skipped, nil
}

// ListByTag filters List by tag membership.
func (s *Store) ListByTag(tag string) ([]*workflow.Workflow, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	filtered := make([]*workflow.Workflow, 0, len(all))
	for _, w := range all {
		if w.HasTag(tag) {
			filtered = append(filtered, w)
		}
	}
	return filtered, nil
}

// AllTags returns the union of tags across all records in ascending order.
func (s *Store) AllTags() ([]string, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
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

// readRecord loads and validates a single record file.
func (s *Store) readRecord(path, id string) (*workflow.Workflow, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow %s: %w", id, err)
	}

	var w workflow.Workflow
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, &CorruptRecordError{ID: id, Path: path, Err: err}
	}
	if err := w.Validate(); err != nil {
		return nil, &CorruptRecordError{ID: id, Path: path, Err: err}
	}
	return &w, nil
}

func (s *Store) recordPath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// validID rejects ids that could escape the store directory when used as a
// file name.
func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\`) && id != "." && id != ".."
}
