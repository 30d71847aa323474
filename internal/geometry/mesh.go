// Package geometry 提供场景使用的网格数据结构、基础几何体生成器以及射线求交
//
// 所有几何体与 three.js 的约定一致：右手系，Y 轴向上，三角形逆时针为正面。
package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Mode 网格图元类型
type Mode int

const (
	// ModeTriangles 每 3 个索引组成一个三角形
	ModeTriangles Mode = iota
	// ModeLines 每 2 个索引组成一条线段
	ModeLines
)

// Mesh 是局部坐标系下的网格
type Mesh struct {
	Positions []mgl64.Vec3
	// Normals 可选的逐顶点法线，渲染时使用面法线，拾取不依赖它
	Normals []mgl64.Vec3
	// Colors 可选的逐顶点颜色（0-1），为空时使用材质颜色
	Colors  []mgl64.Vec3
	Indices []uint32
	Mode    Mode
}

// TriangleCount 返回三角形数量，线段网格返回 0
func (m *Mesh) TriangleCount() int {
	if m.Mode != ModeTriangles {
		return 0
	}
	return len(m.Indices) / 3
}

// LineCount 返回线段数量，三角形网格返回 0
func (m *Mesh) LineCount() int {
	if m.Mode != ModeLines {
		return 0
	}
	return len(m.Indices) / 2
}

// Triangle 返回第 i 个三角形的三个顶点索引
func (m *Mesh) Triangle(i int) (uint32, uint32, uint32) {
	return m.Indices[i*3], m.Indices[i*3+1], m.Indices[i*3+2]
}

// Bounds 返回轴对齐包围盒
func (m *Mesh) Bounds() (mgl64.Vec3, mgl64.Vec3) {
	if len(m.Positions) == 0 {
		return mgl64.Vec3{}, mgl64.Vec3{}
	}
	lo := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range m.Positions {
		for k := 0; k < 3; k++ {
			lo[k] = math.Min(lo[k], p[k])
			hi[k] = math.Max(hi[k], p[k])
		}
	}
	return lo, hi
}

// FaceNormal 返回三角形 abc 的单位法线（逆时针为正面）
func FaceNormal(a, b, c mgl64.Vec3) mgl64.Vec3 {
	n := b.Sub(a).Cross(c.Sub(a))
	if l := n.Len(); l > 0 {
		return n.Mul(1 / l)
	}
	return mgl64.Vec3{}
}

// Transformed 返回顶点经过 model 矩阵变换后的副本，索引共享
func (m *Mesh) Transformed(model mgl64.Mat4) *Mesh {
	out := &Mesh{
		Positions: make([]mgl64.Vec3, len(m.Positions)),
		Colors:    m.Colors,
		Indices:   m.Indices,
		Mode:      m.Mode,
	}
	for i, p := range m.Positions {
		out.Positions[i] = mgl64.TransformCoordinate(p, model)
	}
	return out
}
