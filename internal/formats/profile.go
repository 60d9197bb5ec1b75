package formats

import (
	"errors"
	"fmt"
	"sort"
)

// Profile holds the exam-simulator rules of one certification track,
// independent of its question content.
type Profile struct {
	Key          string `json:"key"` // e.g. "comptia.sy0-701"
	Title        string `json:"title"`
	Questions    int    `json:"questions"`      // items drawn for a full simulation
	TimeLimitSec int    `json:"time_limit_sec"` // 0 = untimed
	PassingScore int    `json:"passing_score"`  // on the scaled range
	ScaleKey     string `json:"scale_key"`      // key of the registered ScaleMapper
	AllowBack    bool   `json:"allow_back"`
}

// ValidateProfile runs basic consistency checks.
func ValidateProfile(p Profile) error {
	if p.Key == "" {
		return errors.New("profile.key is required")
	}
	if p.Questions <= 0 {
		return fmt.Errorf("profile %s: questions must be positive", p.Key)
	}
	if p.TimeLimitSec < 0 {
		return fmt.Errorf("profile %s: negative time_limit_sec", p.Key)
	}
	lo, hi := Bounds(p.ScaleKey)
	if p.PassingScore < lo || p.PassingScore > hi {
		return fmt.Errorf("profile %s: passing_score %d outside %d..%d", p.Key, p.PassingScore, lo, hi)
	}
	return nil
}

// Registry of profiles by key.
var registry = map[string]Profile{}

// Register a profile. Call from init() in subpackages.
func Register(p Profile) {
	if err := ValidateProfile(p); err != nil {
		panic(err)
	}
	registry[p.Key] = p
}

// Lookup returns a registered profile.
func Lookup(key string) (Profile, bool) { p, ok := registry[key]; return p, ok }

// Profiles lists registered profiles sorted by key.
func Profiles() []Profile {
	out := make([]Profile, 0, len(registry))
	for _, p := range registry {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Passed reports whether a scaled score meets the profile's passing mark.
func (p Profile) Passed(scaled int) bool { return scaled >= p.PassingScore }
