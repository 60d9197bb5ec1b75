// Package lpi registers the LPI exam profiles. LPI reports on a 200–800 scale with
// 500 to pass.
package lpi

import "github.com/mind-engage/certprep/internal/formats"

const ScaleKey = "lpi.scale"

func init() {
	formats.RegisterScale(ScaleKey, formats.Linear{Lo: 200, Hi: 800})

	formats.Register(formats.Profile{
		Key: "lpi.101-500", Title: "LPIC-1 Exam 101",
		Questions: 60, TimeLimitSec: 90 * 60, PassingScore: 500, ScaleKey: ScaleKey, AllowBack: true,
	})
}
