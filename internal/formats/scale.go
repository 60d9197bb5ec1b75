package formats

import "math"

// ScaleMapper converts a raw percent-correct (0..100) into a scaled score.
type ScaleMapper interface {
	Scale(percent int) int
	Range() (lo, hi int)
}

var scaleRegistry = map[string]ScaleMapper{}

// RegisterScale binds a mapper to a key like "comptia.scale".
func RegisterScale(key string, m ScaleMapper) { scaleRegistry[key] = m }

// ApplyScaling applies a registered scale mapper; unknown keys pass percent through.
func ApplyScaling(key string, percent int) int {
	if m, ok := scaleRegistry[key]; ok && m != nil {
		return m.Scale(percent)
	}
	return percent
}

// Bounds returns the range of a registered mapper, or 0..100 for passthrough.
func Bounds(key string) (int, int) {
	if m, ok := scaleRegistry[key]; ok && m != nil {
		return m.Range()
	}
	return 0, 100
}

// Linear maps 0..100 onto Lo..Hi, clamping out-of-range input.
type Linear struct{ Lo, Hi int }

func (l Linear) Scale(percent int) int {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return l.Lo + int(math.Round(float64(percent)/100*float64(l.Hi-l.Lo)))
}

func (l Linear) Range() (int, int) { return l.Lo, l.Hi }
