// File: internal/computer/driver.go
package computer

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Button identifies a pointer button.
type Button string

const (
	ButtonLeft  Button = "left"
	ButtonRight Button = "right"
)

// InputDriver is the OS-level injection boundary. Implementations perform the
// real device effect (or simulate it); everything above this interface is
// platform-independent. Injection must be idempotent-safe: re-invoking an
// action during replay performs the effect again without corrupting driver
// state.
type InputDriver interface {
	// MoveMouse places the pointer at absolute screen coordinates.
	MoveMouse(ctx context.Context, x, y int) error
	// Click presses the given button clicks times at the current position.
	Click(ctx context.Context, button Button, clicks int) error
	// TypeText emits the given text from the keyboard. Callers pace longer
	// strings themselves and pass short chunks.
	TypeText(ctx context.Context, text string) error
	// PressKey taps a single named key (e.g. "enter", "escape").
	PressKey(ctx context.Context, key string) error
	// Hotkey chords the named keys together (e.g. ["command", "c"]).
	Hotkey(ctx context.Context, keys []string) error
	// Screenshot captures the screen and returns encoded PNG bytes.
	Screenshot(ctx context.Context) ([]byte, error)
	// CursorPosition reports the pointer's current screen coordinates.
	CursorPosition(ctx context.Context) (x, y int, err error)
}

// simScreenshotPNG is a 1x1 transparent PNG, the synthetic capture returned by
// the simulated driver.
var simScreenshotPNG, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg==")

// SimDriver is an InputDriver that performs no real injection. It tracks
// cursor state in memory and logs every action, which makes dry runs and
// tests deterministic and side-effect free.
type SimDriver struct {
	mu   sync.Mutex
	x, y int
	log  *zap.Logger
}

// NewSimDriver creates a simulated driver with the cursor at the origin.
func NewSimDriver(logger *zap.Logger) *SimDriver {
	return &SimDriver{log: logger.Named("sim_driver")}
}

func (d *SimDriver) MoveMouse(ctx context.Context, x, y int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	d.x, d.y = x, y
	d.mu.Unlock()
	d.log.Debug("sim: move mouse", zap.Int("x", x), zap.Int("y", y))
	return nil
}

func (d *SimDriver) Click(ctx context.Context, button Button, clicks int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if clicks < 1 {
		return fmt.Errorf("click count must be at least 1, got %d", clicks)
	}
	d.log.Debug("sim: click", zap.String("button", string(button)), zap.Int("clicks", clicks))
	return nil
}

func (d *SimDriver) TypeText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.log.Debug("sim: type", zap.Int("chars", len(text)))
	return nil
}

func (d *SimDriver) PressKey(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.log.Debug("sim: press key", zap.String("key", key))
	return nil
}

func (d *SimDriver) Hotkey(ctx context.Context, keys []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return fmt.Errorf("hotkey requires at least one key")
	}
	d.log.Debug("sim: hotkey", zap.Strings("keys", keys))
	return nil
}

func (d *SimDriver) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.log.Debug("sim: screenshot")
	out := make([]byte, len(simScreenshotPNG))
	copy(out, simScreenshotPNG)
	return out, nil
}

func (d *SimDriver) CursorPosition(ctx context.Context) (int, int, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.x, d.y, nil
}
