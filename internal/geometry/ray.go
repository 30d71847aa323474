package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray 射线，Direction 必须是单位向量
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// Side 材质的可见面，决定拾取时是否剔除背面
type Side int

const (
	// FrontSide 只有正面（逆时针）可见
	FrontSide Side = iota
	// BackSide 只有背面可见
	BackSide
	// DoubleSide 双面可见
	DoubleSide
)

// At 返回射线上距离原点 t 的点
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectTriangle 使用 Möller–Trumbore 算法求射线与三角形 abc 的交点距离
//
// 射线方向与面法线同向时视为打到背面，FrontSide 会剔除；BackSide 则剔除正面。
func (r Ray) IntersectTriangle(a, b, c mgl64.Vec3, side Side) (float64, bool) {
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)
	normal := edge1.Cross(edge2)

	ddn := r.Direction.Dot(normal)
	var sign float64
	switch {
	case ddn > 0:
		if side == FrontSide {
			return 0, false
		}
		sign = 1
	case ddn < 0:
		if side == BackSide {
			return 0, false
		}
		sign = -1
		ddn = -ddn
	default:
		return 0, false
	}

	diff := r.Origin.Sub(a)
	ddqxe2 := sign * r.Direction.Dot(diff.Cross(edge2))
	if ddqxe2 < 0 {
		return 0, false
	}
	dde1xq := sign * r.Direction.Dot(edge1.Cross(diff))
	if dde1xq < 0 {
		return 0, false
	}
	if ddqxe2+dde1xq > ddn {
		return 0, false
	}

	qdn := -sign * diff.Dot(normal)
	if qdn < 0 {
		return 0, false
	}
	return qdn / ddn, true
}

// IntersectMesh 返回射线与变换后网格的最近交点距离
//
// 线段网格不参与拾取。
func (r Ray) IntersectMesh(m *Mesh, model mgl64.Mat4, side Side) (float64, bool) {
	if m == nil || m.Mode != ModeTriangles {
		return 0, false
	}

	world := make([]mgl64.Vec3, len(m.Positions))
	for i, p := range m.Positions {
		world[i] = mgl64.TransformCoordinate(p, model)
	}

	best := math.Inf(1)
	hit := false
	for i := 0; i < m.TriangleCount(); i++ {
		ia, ib, ic := m.Triangle(i)
		if t, ok := r.IntersectTriangle(world[ia], world[ib], world[ic], side); ok && t < best {
			best = t
			hit = true
		}
	}
	return best, hit
}
