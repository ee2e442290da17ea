package search

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance_IdenticalPoints(t *testing.T) {
	assert.Equal(t, 0.0, Distance(19.076, 72.8777, 19.076, 72.8777))
}

func TestDistance_KnownPair(t *testing.T) {
	// Mumbai to Pune
	d := Distance(19.0760, 72.8777, 18.5204, 73.8567)
	assert.InDelta(t, 120.15, d, 0.1)
}

func TestDistance_Antipodal(t *testing.T) {
	d := Distance(0, 0, 0, 180)
	assert.InDelta(t, math.Pi*EarthRadiusKm, d, 1e-6)
	assert.False(t, math.IsNaN(Distance(90, 0, -90, 0)))
}

func TestDistance_Symmetric(t *testing.T) {
	assert.InDelta(t, Distance(12.97, 77.59, 28.61, 77.21), Distance(28.61, 77.21, 12.97, 77.59), 1e-9)
}
