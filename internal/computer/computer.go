// File: internal/computer/computer.go

// Package computer translates the small, closed vocabulary of input actions
// into calls on an InputDriver, which performs the real OS-level injection.
// The dispatch table is validated at the boundary: unknown action names
// produce a typed error result, and no failure crosses this boundary as a
// panic.
package computer

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/xkilldash9x/deskpilot/internal/config"
	"github.com/xkilldash9x/deskpilot/internal/workflow"
)

// ErrorCode is a string type used for structured error reporting from the
// action executor. Using a custom type ensures only predefined constants can
// be used where an ErrorCode is expected.
type ErrorCode string

const (
	ErrCodeUnknownAction     ErrorCode = "UNKNOWN_ACTION"
	ErrCodeInvalidParameters ErrorCode = "INVALID_PARAMETERS"
	ErrCodeDriverFailure     ErrorCode = "DRIVER_FAILURE"
	ErrCodeExecutorPanic     ErrorCode = "EXECUTOR_PANIC"
)

// Supported action names. This is the whole vocabulary; the instruction
// interpreter and the replay engine never emit anything outside it.
const (
	ActionMouseMove   = "mouse_move"
	ActionClick       = "click"
	ActionDoubleClick = "double_click"
	ActionRightClick  = "right_click"
	ActionType        = "type"
	ActionScreenshot  = "screenshot"
	ActionGetPosition = "get_position"
	ActionPressKey    = "press_key"
	ActionHotkey      = "hotkey"
)

// ActionSpec describes one supported action for prompt building and help
// output.
type ActionSpec struct {
	Name        string
	Parameters  string
	Description string
}

// Catalog returns the supported actions in a stable order.
func Catalog() []ActionSpec {
	return []ActionSpec{
		{ActionMouseMove, `{"x": int, "y": int}`, "Move the pointer to absolute screen coordinates."},
		{ActionClick, `{}`, "Left-click at the current pointer position."},
		{ActionDoubleClick, `{}`, "Double-click at the current pointer position."},
		{ActionRightClick, `{}`, "Right-click at the current pointer position."},
		{ActionType, `{"text": string}`, "Type the given text."},
		{ActionScreenshot, `{}`, "Capture the screen."},
		{ActionGetPosition, `{}`, "Report the current pointer position."},
		{ActionPressKey, `{"key": string}`, "Tap a single named key, e.g. enter or escape."},
		{ActionHotkey, `{"keys": [string]} or {"name": string}`, "Press a key chord, by explicit keys or by shortcut name (copy, paste, spotlight, ...)."},
	}
}

type handlerFunc func(ctx context.Context, params map[string]any) workflow.ActionResult

// Computer is the input-action executor. It satisfies workflow.Executor and
// fails closed: every fault comes back as an ActionResult with Error set.
type Computer struct {
	driver        InputDriver
	human         *Humanizer
	screenshotDir string
	log           *zap.Logger
	handlers      map[string]handlerFunc
}

// Statically assert that Computer implements the replay executor contract.
var _ workflow.Executor = (*Computer)(nil)

// New builds an executor over the given driver. When cfg.Humanize is set,
// typing and pointer moves are paced with jittered, human-plausible timing.
func New(driver InputDriver, cfg config.InputConfig, logger *zap.Logger) *Computer {
	c := &Computer{
		driver:        driver,
		screenshotDir: cfg.ScreenshotDir,
		log:           logger.Named("computer"),
	}
	if cfg.Humanize {
		c.human = NewHumanizer(cfg.TypeInterval)
	}
	c.handlers = map[string]handlerFunc{
		ActionMouseMove:   c.handleMouseMove,
		ActionClick:       func(ctx context.Context, _ map[string]any) workflow.ActionResult { return c.click(ctx, ButtonLeft, 1, "Clicked") },
		ActionDoubleClick: func(ctx context.Context, _ map[string]any) workflow.ActionResult { return c.click(ctx, ButtonLeft, 2, "Double clicked") },
		ActionRightClick:  func(ctx context.Context, _ map[string]any) workflow.ActionResult { return c.click(ctx, ButtonRight, 1, "Right clicked") },
		ActionType:        c.handleType,
		ActionScreenshot:  c.handleScreenshot,
		ActionGetPosition: c.handleGetPosition,
		ActionPressKey:    c.handlePressKey,
		ActionHotkey:      c.handleHotkey,
	}
	return c
}

// Execute dispatches one action by name. Unknown names and all internal
// faults return an error result; this method never panics across the
// boundary.
func (c *Computer) Execute(ctx context.Context, action string, parameters map[string]any) (result workflow.ActionResult) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("Panic recovered in action executor",
				zap.String("action", action), zap.Any("panic_value", r), zap.Stack("stack"))
			result = errorResult(ErrCodeExecutorPanic, "internal fault while performing %s: %v", action, r)
		}
	}()

	handler, ok := c.handlers[action]
	if !ok {
		return errorResult(ErrCodeUnknownAction, "unknown action: %s", action)
	}

	c.log.Debug("Executing action", zap.String("action", action), zap.Any("parameters", parameters))
	return handler(ctx, parameters)
}

func (c *Computer) handleMouseMove(ctx context.Context, params map[string]any) workflow.ActionResult {
	x, err := intParam(params, "x")
	if err != nil {
		return errorResult(ErrCodeInvalidParameters, "mouse_move: %v", err)
	}
	y, err := intParam(params, "y")
	if err != nil {
		return errorResult(ErrCodeInvalidParameters, "mouse_move: %v", err)
	}

	if c.human != nil {
		if result, moved := c.humanizedMove(ctx, x, y); !moved {
			return result
		}
	} else if err := c.driver.MoveMouse(ctx, x, y); err != nil {
		return errorResult(ErrCodeDriverFailure, "failed to move mouse: %v", err)
	}
	return workflow.ActionResult{Output: fmt.Sprintf("Moved mouse to %d, %d", x, y)}
}

// humanizedMove walks the pointer along an eased trajectory. The bool result
// reports success; on failure the ActionResult carries the error.
func (c *Computer) humanizedMove(ctx context.Context, x, y int) (workflow.ActionResult, bool) {
	curX, curY, err := c.driver.CursorPosition(ctx)
	if err != nil {
		return errorResult(ErrCodeDriverFailure, "failed to read cursor position: %v", err), false
	}
	start := Point{X: float64(curX), Y: float64(curY)}
	end := Point{X: float64(x), Y: float64(y)}

	path := c.human.Path(start, end)
	interval := c.human.StepInterval(start.dist(end), len(path))
	for _, p := range path {
		if err := c.driver.MoveMouse(ctx, int(p.X), int(p.Y)); err != nil {
			return errorResult(ErrCodeDriverFailure, "failed to move mouse: %v", err), false
		}
		if err := pause(ctx, interval); err != nil {
			return errorResult(ErrCodeDriverFailure, "move interrupted: %v", err), false
		}
	}
	return workflow.ActionResult{}, true
}

func (c *Computer) click(ctx context.Context, button Button, clicks int, output string) workflow.ActionResult {
	if err := c.driver.Click(ctx, button, clicks); err != nil {
		return errorResult(ErrCodeDriverFailure, "failed to click: %v", err)
	}
	return workflow.ActionResult{Output: output}
}

func (c *Computer) handleType(ctx context.Context, params map[string]any) workflow.ActionResult {
	text, err := stringParam(params, "text")
	if err != nil {
		return errorResult(ErrCodeInvalidParameters, "type: %v", err)
	}

	if c.human == nil {
		if err := c.driver.TypeText(ctx, text); err != nil {
			return errorResult(ErrCodeDriverFailure, "failed to type: %v", err)
		}
		return workflow.ActionResult{Output: "Typed: " + text}
	}

	// Humanized path: one rune at a time with cadenced inter-key delays.
	prev := rune(0)
	for _, r := range text {
		if prev != 0 {
			if err := pause(ctx, c.human.KeyDelay(prev, r)); err != nil {
				return errorResult(ErrCodeDriverFailure, "typing interrupted: %v", err)
			}
		}
		if err := c.driver.TypeText(ctx, string(r)); err != nil {
			return errorResult(ErrCodeDriverFailure, "failed to type: %v", err)
		}
		prev = r
	}
	return workflow.ActionResult{Output: "Typed: " + text}
}

func (c *Computer) handleScreenshot(ctx context.Context, _ map[string]any) workflow.ActionResult {
	png, err := c.driver.Screenshot(ctx)
	if err != nil {
		return errorResult(ErrCodeDriverFailure, "failed to capture screenshot: %v", err)
	}

	result := workflow.ActionResult{
		Output:      "Screenshot taken",
		Base64Image: base64.StdEncoding.EncodeToString(png),
	}

	// Persisting the capture is best-effort; the base64 payload is the
	// authoritative result either way.
	if c.screenshotDir != "" {
		if path, err := c.saveScreenshot(png); err != nil {
			c.log.Warn("Failed to save screenshot to disk", zap.Error(err))
		} else {
			result.System = "saved to " + path
		}
	}
	return result
}

func (c *Computer) saveScreenshot(png []byte) (string, error) {
	if err := os.MkdirAll(c.screenshotDir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("screenshot_%s.png", time.Now().Format("20060102_150405.000"))
	path := filepath.Join(c.screenshotDir, name)
	if err := os.WriteFile(path, png, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (c *Computer) handleGetPosition(ctx context.Context, _ map[string]any) workflow.ActionResult {
	x, y, err := c.driver.CursorPosition(ctx)
	if err != nil {
		return errorResult(ErrCodeDriverFailure, "failed to read cursor position: %v", err)
	}
	return workflow.ActionResult{Output: fmt.Sprintf("Mouse position: %d, %d", x, y)}
}

func (c *Computer) handlePressKey(ctx context.Context, params map[string]any) workflow.ActionResult {
	key, err := stringParam(params, "key")
	if err != nil {
		return errorResult(ErrCodeInvalidParameters, "press_key: %v", err)
	}
	if err := c.driver.PressKey(ctx, key); err != nil {
		return errorResult(ErrCodeDriverFailure, "failed to press key: %v", err)
	}
	return workflow.ActionResult{Output: "Pressed key: " + key}
}

func (c *Computer) handleHotkey(ctx context.Context, params map[string]any) workflow.ActionResult {
	keys, err := hotkeyChord(params)
	if err != nil {
		return errorResult(ErrCodeInvalidParameters, "hotkey: %v", err)
	}
	if err := c.driver.Hotkey(ctx, keys); err != nil {
		return errorResult(ErrCodeDriverFailure, "failed to press hotkey: %v", err)
	}
	return workflow.ActionResult{Output: "Pressed hotkey: " + strings.Join(keys, "+")}
}

// hotkeyChord resolves the hotkey parameters: an explicit "keys" list wins,
// otherwise "name" is looked up in the shortcut table.
func hotkeyChord(params map[string]any) ([]string, error) {
	if raw, ok := params["keys"]; ok {
		keys, err := cast.ToStringSliceE(raw)
		if err != nil {
			return nil, fmt.Errorf("keys must be a list of strings: %w", err)
		}
		if len(keys) == 0 {
			return nil, fmt.Errorf("keys must not be empty")
		}
		return keys, nil
	}
	if raw, ok := params["name"]; ok {
		name, err := cast.ToStringE(raw)
		if err != nil {
			return nil, fmt.Errorf("name must be a string: %w", err)
		}
		keys, ok := Shortcut(name)
		if !ok {
			return nil, fmt.Errorf("unknown shortcut name %q", name)
		}
		return keys, nil
	}
	return nil, fmt.Errorf("either keys or name is required")
}

func intParam(params map[string]any, key string) (int, error) {
	raw, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("missing required parameter %q", key)
	}
	v, err := cast.ToIntE(raw)
	if err != nil {
		return 0, fmt.Errorf("parameter %q must be an integer: %w", key, err)
	}
	return v, nil
}

func stringParam(params map[string]any, key string) (string, error) {
	raw, ok := params[key]
	if !ok {
		return "", fmt.Errorf("missing required parameter %q", key)
	}
	v, err := cast.ToStringE(raw)
	if err != nil {
		return "", fmt.Errorf("parameter %q must be a string: %w", key, err)
	}
	return v, nil
}

// errorResult builds a failure ActionResult carrying the structured code in
// the system field.
func errorResult(code ErrorCode, format string, args ...any) workflow.ActionResult {
	return workflow.ActionResult{
		Error:  fmt.Sprintf(format, args...),
		System: string(code),
	}
}

// pause suspends cooperatively, waking early on cancellation.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
