package utils

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestSphericalRoundTrip(t *testing.T) {
	vectors := []mgl64.Vec3{
		{0, 0.5, -1},
		{1, 1, 1},
		{-2, 0.3, 0.7},
	}

	for _, v := range vectors {
		s := SphericalFromVec3(v)
		back := s.Vec3()
		assert.True(t, back.ApproxEqualThreshold(v, 1e-9), "round trip %v -> %v", v, back)
	}
}

func TestSphericalConvention(t *testing.T) {
	s := SphericalFromVec3(mgl64.Vec3{0, 1, 0})
	assert.InDelta(t, 0, s.Phi, 1e-9, "+Y 方向极角为 0")

	s = SphericalFromVec3(mgl64.Vec3{0, 0, 2})
	assert.InDelta(t, math.Pi/2, s.Phi, 1e-9)
	assert.InDelta(t, 0, s.Theta, 1e-9, "+Z 方向方位角为 0")
	assert.InDelta(t, 2, s.Radius, 1e-9)

	s = SphericalFromVec3(mgl64.Vec3{1, 0, 0})
	assert.InDelta(t, math.Pi/2, s.Theta, 1e-9)
}

func TestSphericalRotateClampsPhi(t *testing.T) {
	minPhi, maxPhi := 0.01, 0.35*math.Pi
	s := Spherical{Radius: 1, Phi: 1.0, Theta: 0}

	up := s.Rotate(0, 10, minPhi, maxPhi)
	assert.Equal(t, minPhi, up.Phi)

	down := s.Rotate(0, -10, minPhi, maxPhi)
	assert.Equal(t, maxPhi, down.Phi)

	spun := s.Rotate(0.2, 0, minPhi, maxPhi)
	assert.InDelta(t, -0.2, spun.Theta, 1e-12)
	assert.Equal(t, 1.0, spun.Radius)
}
