package geometry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 所有面的法线都应朝外（与面中心相对原点的方向同向）
func assertOutwardFaces(t *testing.T, m *Mesh) {
	t.Helper()
	for i := 0; i < m.TriangleCount(); i++ {
		ia, ib, ic := m.Triangle(i)
		a, b, c := m.Positions[ia], m.Positions[ib], m.Positions[ic]
		n := FaceNormal(a, b, c)
		if n.Len() == 0 {
			continue
		}
		centroid := a.Add(b).Add(c).Mul(1.0 / 3)
		assert.Greater(t, n.Dot(centroid), 0.0, "triangle %d faces inward", i)
	}
}

func TestPlane(t *testing.T) {
	m := Plane(2, 1)
	require.Equal(t, 2, m.TriangleCount())
	assert.Len(t, m.Positions, 4)

	for i := 0; i < m.TriangleCount(); i++ {
		ia, ib, ic := m.Triangle(i)
		n := FaceNormal(m.Positions[ia], m.Positions[ib], m.Positions[ic])
		assert.True(t, n.ApproxEqual(mgl64.Vec3{0, 0, 1}), "plane faces +Z, got %v", n)
	}

	lo, hi := m.Bounds()
	assert.Equal(t, mgl64.Vec3{-1, -0.5, 0}, lo)
	assert.Equal(t, mgl64.Vec3{1, 0.5, 0}, hi)
}

func TestPlaneSegments(t *testing.T) {
	m := PlaneSegments(10, 10, 4, 2)
	assert.Equal(t, 16, m.TriangleCount())
	assert.Len(t, m.Positions, 15)
}

func TestBox(t *testing.T) {
	m := Box(1, 2, 3)
	assert.Equal(t, 12, m.TriangleCount())
	lo, hi := m.Bounds()
	assert.True(t, lo.ApproxEqual(mgl64.Vec3{-0.5, -1, -1.5}))
	assert.True(t, hi.ApproxEqual(mgl64.Vec3{0.5, 1, 1.5}))
	assertOutwardFaces(t, m)
}

func TestSphere(t *testing.T) {
	m := Sphere(0.5, 16, 8)
	for _, p := range m.Positions {
		assert.InDelta(t, 0.5, p.Len(), 1e-9)
	}
	// 两极各少一个三角形
	assert.Equal(t, 16*8*2-2*16, m.TriangleCount())
	assertOutwardFaces(t, m)
}

func TestCone(t *testing.T) {
	m := Cone(0.5, 1, 32)
	lo, hi := m.Bounds()
	assert.InDelta(t, -0.5, lo.Y(), 1e-9)
	assert.InDelta(t, 0.5, hi.Y(), 1e-9)
	assert.Equal(t, 64, m.TriangleCount())
	assertOutwardFaces(t, m)
}

func TestEdgesOfPlane(t *testing.T) {
	edges := Edges(Plane(2, 1), 1)
	require.Equal(t, ModeLines, edges.Mode)
	// 对角线被两个共面三角形共享，不应出现
	assert.Equal(t, 4, edges.LineCount())
}

func TestEdgesOfBox(t *testing.T) {
	assert.Equal(t, 12, Edges(Box(1, 1, 1), 1).LineCount())
}

func TestGrid(t *testing.T) {
	center := mgl64.Vec3{0.25, 0.25, 0.25}
	line := mgl64.Vec3{0.5, 0.5, 0.5}
	g := Grid(10, 10, center, line)
	assert.Equal(t, 22, g.LineCount())
	assert.Equal(t, center, g.Colors[5*4])
	assert.Equal(t, line, g.Colors[0])
}

func TestRayIntersectTriangle(t *testing.T) {
	a := mgl64.Vec3{-1, -1, 0}
	b := mgl64.Vec3{1, -1, 0}
	c := mgl64.Vec3{0, 1, 0}

	front := Ray{Origin: mgl64.Vec3{0, 0, 5}, Direction: mgl64.Vec3{0, 0, -1}}
	dist, ok := front.IntersectTriangle(a, b, c, FrontSide)
	require.True(t, ok)
	assert.InDelta(t, 5, dist, 1e-9)

	back := Ray{Origin: mgl64.Vec3{0, 0, -5}, Direction: mgl64.Vec3{0, 0, 1}}
	_, ok = back.IntersectTriangle(a, b, c, FrontSide)
	assert.False(t, ok, "FrontSide 剔除背面")
	_, ok = back.IntersectTriangle(a, b, c, DoubleSide)
	assert.True(t, ok)
	_, ok = front.IntersectTriangle(a, b, c, BackSide)
	assert.False(t, ok)

	miss := Ray{Origin: mgl64.Vec3{3, 0, 5}, Direction: mgl64.Vec3{0, 0, -1}}
	_, ok = miss.IntersectTriangle(a, b, c, DoubleSide)
	assert.False(t, ok)

	behind := Ray{Origin: mgl64.Vec3{0, 0, 5}, Direction: mgl64.Vec3{0, 0, 1}}
	_, ok = behind.IntersectTriangle(a, b, c, DoubleSide)
	assert.False(t, ok, "交点在射线起点之后")
}

func TestRayIntersectMesh(t *testing.T) {
	box := Box(1, 1, 1)
	model := mgl64.Translate3D(2, 0.5, 2)
	ray := Ray{Origin: mgl64.Vec3{2, 0.5, 10}, Direction: mgl64.Vec3{0, 0, -1}}

	dist, ok := ray.IntersectMesh(box, model, FrontSide)
	require.True(t, ok)
	assert.InDelta(t, 7.5, dist, 1e-9)
	assert.True(t, ray.At(dist).ApproxEqual(mgl64.Vec3{2, 0.5, 2.5}))

	_, ok = ray.IntersectMesh(Edges(box, 1), model, DoubleSide)
	assert.False(t, ok, "线段网格不可拾取")
}

func TestMeshTransformed(t *testing.T) {
	m := Plane(2, 2).Transformed(mgl64.HomogRotate3DX(-math.Pi / 2))
	for _, p := range m.Positions {
		assert.InDelta(t, 0, p.Y(), 1e-9, "旋转后平面应位于 y=0")
	}
}
