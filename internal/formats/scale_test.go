package formats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/certprep/internal/formats"
	"github.com/mind-engage/certprep/internal/formats/comptia"
	"github.com/mind-engage/certprep/internal/formats/lpi"
)

func TestComptiaScale(t *testing.T) {
	assert.Equal(t, 100, formats.ApplyScaling(comptia.ScaleKey, 0))
	assert.Equal(t, 900, formats.ApplyScaling(comptia.ScaleKey, 100))
	assert.Equal(t, 500, formats.ApplyScaling(comptia.ScaleKey, 50))
	assert.Equal(t, 748, formats.ApplyScaling(comptia.ScaleKey, 81))
	assert.Equal(t, 900, formats.ApplyScaling(comptia.ScaleKey, 140))
}

func TestLPIScale(t *testing.T) {
	assert.Equal(t, 200, formats.ApplyScaling(lpi.ScaleKey, 0))
	assert.Equal(t, 500, formats.ApplyScaling(lpi.ScaleKey, 50))
	assert.Equal(t, 800, formats.ApplyScaling(lpi.ScaleKey, 100))
}

func TestUnknownScalePassesThrough(t *testing.T) {
	assert.Equal(t, 42, formats.ApplyScaling("nope", 42))
	lo, hi := formats.Bounds("nope")
	assert.Equal(t, []int{0, 100}, []int{lo, hi})
}

func TestProfiles(t *testing.T) {
	p, ok := formats.Lookup("comptia.sy0-701")
	require.True(t, ok)
	assert.Equal(t, 90, p.Questions)
	assert.True(t, p.Passed(750))
	assert.False(t, p.Passed(749))

	keys := []string{}
	for _, p := range formats.Profiles() {
		keys = append(keys, p.Key)
	}
	assert.Contains(t, keys, "lpi.101-500")
	assert.IsIncreasing(t, keys)
}

func TestValidateProfile(t *testing.T) {
	assert.Error(t, formats.ValidateProfile(formats.Profile{}))
	assert.Error(t, formats.ValidateProfile(formats.Profile{Key: "x", Questions: 0}))
	assert.Error(t, formats.ValidateProfile(formats.Profile{Key: "x", Questions: 5, PassingScore: 750}))
	assert.NoError(t, formats.ValidateProfile(formats.Profile{Key: "x", Questions: 5, PassingScore: 70}))
	assert.Error(t, formats.ValidateProfile(formats.Profile{Key: "x", Questions: 5, TimeLimitSec: -1}))
}
