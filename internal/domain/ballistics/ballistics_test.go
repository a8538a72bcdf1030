package ballistics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/younwookim/remnant/internal/domain/geom"
)

func TestFalloffApply(t *testing.T) {
	tests := []struct {
		name     string
		falloff  Falloff
		distance float64
		want     float64
	}{
		{"constant ignores distance", Falloff{Mode: FalloffConstant}, 1000, 10},
		{"linear", Falloff{Mode: FalloffLinear, Factor: 0.005}, 400, 8},
		{"linear clamps at zero", Falloff{Mode: FalloffLinear, Factor: 1}, 400, 0},
		{"exponential", Falloff{Mode: FalloffExponential, Factor: 1}, 3, 2},
		{"exponential clamps at zero", Falloff{Mode: FalloffExponential, Factor: 1}, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.falloff.Apply(10, tt.distance), 1e-9)
		})
	}
}

func TestParseFalloffMode(t *testing.T) {
	m, ok := ParseFalloffMode("linear")
	assert.True(t, ok)
	assert.Equal(t, FalloffLinear, m)
	assert.Equal(t, "linear", m.String())

	_, ok = ParseFalloffMode("cubic")
	assert.False(t, ok)

	m, ok = ParseFalloffMode("")
	assert.True(t, ok)
	assert.Equal(t, FalloffConstant, m)
}

func TestBulletReach(t *testing.T) {
	assert.Equal(t, MaxRange, Bullet{}.Reach())
	assert.Equal(t, 512.0, Bullet{Range: 512}.Reach())
}

func TestBulletEnd(t *testing.T) {
	b := Bullet{Origin: geom.V(10, 0, 0), Direction: geom.V(0, 1, 0), Range: 100}
	assert.Equal(t, geom.V(10, 100, 0), b.End())
}
