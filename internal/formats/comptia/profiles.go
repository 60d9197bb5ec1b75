// Package comptia registers the CompTIA exam profiles and their 100–900 scale.
package comptia

import "github.com/mind-engage/certprep/internal/formats"

const ScaleKey = "comptia.scale"

func init() {
	formats.RegisterScale(ScaleKey, formats.Linear{Lo: 100, Hi: 900})

	formats.Register(formats.Profile{
		Key: "comptia.sy0-701", Title: "CompTIA Security+ (SY0-701)",
		Questions: 90, TimeLimitSec: 90 * 60, PassingScore: 750, ScaleKey: ScaleKey, AllowBack: true,
	})
	formats.Register(formats.Profile{
		Key: "comptia.pt0-002", Title: "CompTIA PenTest+ (PT0-002)",
		Questions: 85, TimeLimitSec: 165 * 60, PassingScore: 750, ScaleKey: ScaleKey, AllowBack: true,
	})
	formats.Register(formats.Profile{
		Key: "comptia.n10-009", Title: "CompTIA Network+ (N10-009)",
		Questions: 90, TimeLimitSec: 90 * 60, PassingScore: 720, ScaleKey: ScaleKey, AllowBack: true,
	})
	formats.Register(formats.Profile{
		Key: "comptia.xk0-005", Title: "CompTIA Linux+ (XK0-005)",
		Questions: 90, TimeLimitSec: 90 * 60, PassingScore: 720, ScaleKey: ScaleKey, AllowBack: true,
	})
}
