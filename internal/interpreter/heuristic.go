// File: internal/interpreter/heuristic.go
package interpreter

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/deskpilot/internal/computer"
)

var (
	coordsRegex = regexp.MustCompile(`(\d+)\s*,\s*(\d+)`)
	quotedRegex = regexp.MustCompile(`['"](.+?)['"]`)
	pressRegex  = regexp.MustCompile(`press\s+([\w+]+)`)
)

// Heuristic extracts actions from instruction text with line-by-line pattern
// matching. It understands a narrow phrasebook (move/click/type/press/
// screenshot) and is the zero-dependency fallback when no LLM is configured.
type Heuristic struct {
	logger *zap.Logger
}

// NewHeuristic builds the pattern-matching interpreter.
func NewHeuristic(logger *zap.Logger) *Heuristic {
	return &Heuristic{logger: logger.Named("heuristic")}
}

// Parse scans each line of the instruction for one recognizable action.
func (h *Heuristic) Parse(_ context.Context, text string) ([]ActionRequest, error) {
	var requests []ActionRequest
	for _, line := range strings.Split(strings.ToLower(text), "\n") {
		if req, ok := parseLine(line); ok {
			requests = append(requests, req)
		}
	}
	h.logger.Debug("Parsed instruction heuristically",
		zap.Int("actions", len(requests)))
	return requests, nil
}

// parseLine maps a single line to at most one action request. Order matters:
// pointer movement is checked before clicks so "move mouse to 10,20 and click"
// resolves to the movement on this line.
func parseLine(line string) (ActionRequest, bool) {
	switch {
	case strings.Contains(line, "move mouse") || strings.Contains(line, "move cursor"):
		if m := coordsRegex.FindStringSubmatch(line); m != nil {
			x, _ := strconv.Atoi(m[1])
			y, _ := strconv.Atoi(m[2])
			return ActionRequest{
				Action:     computer.ActionMouseMove,
				Parameters: map[string]any{"x": x, "y": y},
			}, true
		}

	case strings.Contains(line, "click"):
		action := computer.ActionClick
		if strings.Contains(line, "double click") || strings.Contains(line, "double-click") {
			action = computer.ActionDoubleClick
		} else if strings.Contains(line, "right click") || strings.Contains(line, "right-click") {
			action = computer.ActionRightClick
		}
		return ActionRequest{Action: action, Parameters: map[string]any{}}, true

	case strings.Contains(line, "type"):
		if m := quotedRegex.FindStringSubmatch(line); m != nil {
			return ActionRequest{
				Action:     computer.ActionType,
				Parameters: map[string]any{"text": m[1]},
			}, true
		}

	case strings.Contains(line, "press"):
		if m := pressRegex.FindStringSubmatch(line); m != nil {
			keys := strings.Split(m[1], "+")
			for i := range keys {
				keys[i] = strings.TrimSpace(keys[i])
			}
			if len(keys) == 1 {
				return ActionRequest{
					Action:     computer.ActionPressKey,
					Parameters: map[string]any{"key": keys[0]},
				}, true
			}
			keyList := make([]any, len(keys))
			for i, k := range keys {
				keyList[i] = k
			}
			return ActionRequest{
				Action:     computer.ActionHotkey,
				Parameters: map[string]any{"keys": keyList},
			}, true
		}

	case strings.Contains(line, "screenshot"):
		return ActionRequest{Action: computer.ActionScreenshot, Parameters: map[string]any{}}, true
	}
	return ActionRequest{}, false
}
