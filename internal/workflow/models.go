// File: internal/workflow/models.go
package workflow

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultStepDelay is the inter-step delay recorded when a step does not
// specify one. It paces input injection so the target application can react.
const DefaultStepDelay = 500 * time.Millisecond

// DefaultVersion is the schema version stamped on newly created workflows.
const DefaultVersion = "1.0"

// ActionResult is the uniform outcome of one executed input action.
// A result with Error set is a failure; absence of Error is success, even when
// Output is also empty. Immutable once produced.
type ActionResult struct {
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
	// Base64Image carries a screenshot captured by the action, if any.
	Base64Image string `json:"base64_image,omitempty"`
	// System carries out-of-band notes for the caller (not shown to the user).
	System string `json:"system,omitempty"`
}

// Failed reports whether the result represents a failed action.
func (r ActionResult) Failed() bool {
	return r.Error != ""
}

// CombineResults folds a sequence of results into one. Non-empty outputs and
// errors are concatenated in order; for screenshots the last non-empty image
// wins, since the most recent screen state is the relevant one.
func CombineResults(results []ActionResult) ActionResult {
	var outputs, errs []string
	var image string
	for _, r := range results {
		if r.Output != "" {
			outputs = append(outputs, r.Output)
		}
		if r.Error != "" {
			errs = append(errs, r.Error)
		}
		if r.Base64Image != "" {
			image = r.Base64Image
		}
	}
	return ActionResult{
		Output:      strings.Join(outputs, "\n"),
		Error:       strings.Join(errs, "\n"),
		Base64Image: image,
	}
}

// Step is one recorded action occurrence: the action name, its parameters, an
// optional snapshot of the result observed at record time, and the delay to
// wait before the next step during replay. Stored steps are never mutated by
// replay; replays produce fresh transient ActionResults.
type Step struct {
	Action     string
	Parameters map[string]any
	Result     *ActionResult
	Delay      time.Duration
	CreatedAt  time.Time
}

// NewStep builds a step recorded now. A negative delay is clamped to the
// default rather than rejected, since callers report delays best-effort.
func NewStep(action string, parameters map[string]any, result *ActionResult, delay time.Duration) Step {
	if delay < 0 {
		delay = DefaultStepDelay
	}
	if parameters == nil {
		parameters = map[string]any{}
	}
	return Step{
		Action:     action,
		Parameters: parameters,
		Result:     result,
		Delay:      delay,
		CreatedAt:  time.Now(),
	}
}

// stepRecord is the persisted wire shape of a Step. The delay is encoded as
// fractional seconds to stay round-trip compatible with existing records.
type stepRecord struct {
	Action     string         `json:"action"`
	Parameters map[string]any `json:"parameters"`
	Result     *ActionResult  `json:"result,omitempty"`
	Delay      float64        `json:"delay"`
	CreatedAt  time.Time      `json:"created_at"`
}

// MarshalJSON implements json.Marshaler.
func (s Step) MarshalJSON() ([]byte, error) {
	return json.Marshal(stepRecord{
		Action:     s.Action,
		Parameters: s.Parameters,
		Result:     s.Result,
		Delay:      s.Delay.Seconds(),
		CreatedAt:  s.CreatedAt,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Step) UnmarshalJSON(data []byte) error {
	var rec stepRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	if rec.Delay < 0 {
		return fmt.Errorf("step %q has negative delay %v", rec.Action, rec.Delay)
	}
	s.Action = rec.Action
	s.Parameters = rec.Parameters
	s.Result = rec.Result
	s.Delay = time.Duration(rec.Delay * float64(time.Second))
	s.CreatedAt = rec.CreatedAt
	return nil
}

// Workflow is a named, ordered, persisted sequence of recorded steps plus run
// statistics. Once saved, the step sequence is immutable; only the run
// statistics (SuccessCount, LastRun) change, and only on a fully successful
// replay.
type Workflow struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Steps        []Step     `json:"steps"`
	CreatedAt    time.Time  `json:"created_at"`
	LastRun      *time.Time `json:"last_run,omitempty"`
	SuccessCount int        `json:"success_count"`
	Tags         []string   `json:"tags"`
	Version      string     `json:"version"`
}

// New constructs a workflow with a fresh collision-resistant id, stamped now.
func New(name, description string, steps []Step, tags []string) *Workflow {
	return &Workflow{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Steps:       steps,
		CreatedAt:   time.Now(),
		Tags:        normalizeTags(tags),
		Version:     DefaultVersion,
	}
}

// Validate checks the structural invariants required of a persisted workflow.
func (w *Workflow) Validate() error {
	if w.ID == "" {
		return fmt.Errorf("workflow has no id")
	}
	if w.Name == "" {
		return fmt.Errorf("workflow %s has no name", w.ID)
	}
	if len(w.Steps) == 0 {
		return fmt.Errorf("workflow %s has no steps", w.ID)
	}
	if w.SuccessCount < 0 {
		return fmt.Errorf("workflow %s has negative success count", w.ID)
	}
	for i, s := range w.Steps {
		if s.Action == "" {
			return fmt.Errorf("workflow %s step %d has no action", w.ID, i)
		}
	}
	return nil
}

// HasTag reports tag membership.
func (w *Workflow) HasTag(tag string) bool {
	for _, t := range w.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy, so callers can hold workflows without sharing
// mutable state with the store or other callers.
func (w *Workflow) Clone() *Workflow {
	cp := *w
	if w.LastRun != nil {
		lr := *w.LastRun
		cp.LastRun = &lr
	}
	cp.Tags = append([]string(nil), w.Tags...)
	cp.Steps = make([]Step, len(w.Steps))
	for i, s := range w.Steps {
		cp.Steps[i] = s
		if s.Result != nil {
			r := *s.Result
			cp.Steps[i].Result = &r
		}
		cp.Steps[i].Parameters = cloneParameters(s.Parameters)
	}
	return &cp
}

// normalizeTags drops empties and duplicates while preserving insertion order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// cloneParameters copies a parameter map one level deep plus nested maps and
// slices, which covers everything the serialized form can contain.
func cloneParameters(params map[string]any) map[string]any {
	if params == nil {
		return nil
	}
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneParameters(val)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return val
	}
}
