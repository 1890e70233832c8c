// File: internal/computer/humanize.go
package computer

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// Digram frequencies drive faster inter-key intervals for common sequences,
// the way practiced typists roll through familiar letter pairs.
var commonDigrams = map[string]bool{
	"th": true, "he": true, "in": true, "er": true, "an": true, "re": true,
	"es": true, "on": true, "st": true, "nt": true, "te": true, "ed": true,
}

// Fitts's law coefficients (milliseconds): MT = fittsA + fittsB * log2(1 + D/W).
const (
	fittsA      = 80.0
	fittsB      = 150.0
	fittsWidth  = 30.0 // assumed target width in pixels
	pathDensity = 100  // trajectory points per second of movement
)

// Point is a screen position in pixels.
type Point struct {
	X float64
	Y float64
}

func (p Point) dist(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// Humanizer produces human-plausible pacing for input injection: jittered
// inter-key delays and eased pointer trajectories. It carries its own RNG so
// behavior is reproducible under a seeded source in tests.
type Humanizer struct {
	mu              sync.Mutex
	rng             *rand.Rand
	baseKeyInterval time.Duration
}

// NewHumanizer seeds the pacing model. baseKeyInterval is the mean inter-key
// delay; non-positive values fall back to 10ms.
func NewHumanizer(baseKeyInterval time.Duration) *Humanizer {
	if baseKeyInterval <= 0 {
		baseKeyInterval = 10 * time.Millisecond
	}
	return &Humanizer{
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())),
		baseKeyInterval: baseKeyInterval,
	}
}

// KeyDelay returns the pause before typing next, given the previously typed
// rune. Common digrams come out faster; word boundaries slower.
func (h *Humanizer) KeyDelay(prev, next rune) time.Duration {
	h.mu.Lock()
	jitter := h.rng.NormFloat64() * 0.35
	h.mu.Unlock()

	factor := 1.0 + jitter
	if commonDigrams[string([]rune{prev, next})] {
		factor *= 0.6
	}
	if next == ' ' || prev == ' ' {
		factor *= 1.4
	}
	d := time.Duration(float64(h.baseKeyInterval) * factor)
	if d < time.Millisecond {
		d = time.Millisecond
	}
	return d
}

// MoveDuration models how long a pointer move of the given distance takes,
// per Fitts's law with mild randomization.
func (h *Humanizer) MoveDuration(distance float64) time.Duration {
	if distance <= 0 {
		return 0
	}
	id := math.Log2(1.0 + distance/fittsWidth)
	mt := fittsA + fittsB*id

	h.mu.Lock()
	mt += mt * (h.rng.Float64()*0.3 - 0.15)
	h.mu.Unlock()

	return time.Duration(mt) * time.Millisecond
}

// Path generates intermediate pointer positions from start to end along a
// slightly bowed quadratic curve, spaced with ease-in-out-cubic so the
// pointer accelerates and decelerates. The final element is always end.
func (h *Humanizer) Path(start, end Point) []Point {
	dist := start.dist(end)
	if dist < 1.0 {
		return []Point{end}
	}

	duration := h.MoveDuration(dist)
	steps := int(duration.Seconds() * pathDensity)
	if steps < 2 {
		steps = 2
	}

	// Bow the path perpendicular to the straight line by a small random amount.
	h.mu.Lock()
	bow := (h.rng.Float64() - 0.5) * dist * 0.2
	h.mu.Unlock()

	mid := Point{X: (start.X + end.X) / 2, Y: (start.Y + end.Y) / 2}
	// Unit perpendicular of the movement vector.
	px := -(end.Y - start.Y) / dist
	py := (end.X - start.X) / dist
	ctrl := Point{X: mid.X + px*bow, Y: mid.Y + py*bow}

	path := make([]Point, steps)
	for i := 0; i < steps; i++ {
		t := easeInOutCubic(float64(i) / float64(steps-1))
		omt := 1.0 - t
		// Quadratic Bezier through the control point.
		path[i] = Point{
			X: omt*omt*start.X + 2*omt*t*ctrl.X + t*t*end.X,
			Y: omt*omt*start.Y + 2*omt*t*ctrl.Y + t*t*end.Y,
		}
	}
	path[steps-1] = end
	return path
}

// StepInterval is the pause between consecutive trajectory points for a move
// covering the given distance.
func (h *Humanizer) StepInterval(distance float64, steps int) time.Duration {
	if steps <= 1 {
		return 0
	}
	return h.MoveDuration(distance) / time.Duration(steps)
}

// easeInOutCubic provides a smooth acceleration and deceleration profile.
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}
