// File: internal/computer/humanize_test.go
package computer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathEndsAtTarget(t *testing.T) {
	h := NewHumanizer(10 * time.Millisecond)

	start := Point{X: 0, Y: 0}
	end := Point{X: 400, Y: 300}
	path := h.Path(start, end)

	require.NotEmpty(t, path)
	assert.Equal(t, end, path[len(path)-1])
	assert.Greater(t, len(path), 2, "a long move produces intermediate points")
}

func TestPathShortMoveCollapses(t *testing.T) {
	h := NewHumanizer(10 * time.Millisecond)

	end := Point{X: 5.2, Y: 5.6}
	path := h.Path(Point{X: 5, Y: 5}, end)
	assert.Equal(t, []Point{end}, path)
}

func TestMoveDurationGrowsWithDistance(t *testing.T) {
	h := NewHumanizer(10 * time.Millisecond)

	assert.Zero(t, h.MoveDuration(0))

	short := h.MoveDuration(10)
	long := h.MoveDuration(2000)
	assert.Greater(t, long, short, "Fitts's law: farther targets take longer")
}

func TestKeyDelayBounds(t *testing.T) {
	h := NewHumanizer(10 * time.Millisecond)

	for i := 0; i < 200; i++ {
		d := h.KeyDelay('t', 'h')
		assert.GreaterOrEqual(t, d, time.Millisecond, "delays never collapse below the floor")
		assert.Less(t, d, time.Second)
	}
}

func TestShortcutLookup(t *testing.T) {
	keys, ok := Shortcut("copy")
	require.True(t, ok)
	assert.Equal(t, []string{"command", "c"}, keys)

	// The returned slice is a copy; mutating it must not poison the table.
	keys[0] = "mutated"
	again, _ := Shortcut("copy")
	assert.Equal(t, "command", again[0])

	_, ok = Shortcut("warp")
	assert.False(t, ok)

	names := ShortcutNames()
	assert.Contains(t, names, "paste")
	assert.IsType(t, []string{}, names)
}
