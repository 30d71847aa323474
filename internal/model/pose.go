package model

import (
	"github.com/decker502/talkroom/internal/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// Pose 每个节点的局部 TRS，由动画混合器写入
type Pose struct {
	Translation []mgl64.Vec3
	Rotation    []mgl64.Quat
	Scale       []mgl64.Vec3
}

// RestPose 返回所有节点处于绑定姿势的 Pose
func (m *Model) RestPose() *Pose {
	p := &Pose{
		Translation: make([]mgl64.Vec3, len(m.Nodes)),
		Rotation:    make([]mgl64.Quat, len(m.Nodes)),
		Scale:       make([]mgl64.Vec3, len(m.Nodes)),
	}
	p.Reset(m)
	return p
}

// Reset 将 Pose 恢复为绑定姿势
func (p *Pose) Reset(m *Model) {
	for i, n := range m.Nodes {
		p.Translation[i] = n.Translation
		p.Rotation[i] = n.Rotation
		p.Scale[i] = n.Scale
	}
}

// Local 返回节点 i 的局部矩阵
func (p *Pose) Local(m *Model, i int) mgl64.Mat4 {
	if mat := m.Nodes[i].Matrix; mat != nil {
		return *mat
	}
	t := p.Translation[i]
	s := p.Scale[i]
	return mgl64.Translate3D(t[0], t[1], t[2]).
		Mul4(p.Rotation[i].Normalize().Mat4()).
		Mul4(mgl64.Scale3D(s[0], s[1], s[2]))
}

// GlobalMatrices 计算所有节点相对模型根的全局矩阵，结果写入 out（长度不足时重新分配）
func (p *Pose) GlobalMatrices(m *Model, out []mgl64.Mat4) []mgl64.Mat4 {
	if len(out) != len(m.Nodes) {
		out = make([]mgl64.Mat4, len(m.Nodes))
	}
	var walk func(i int, parent mgl64.Mat4)
	walk = func(i int, parent mgl64.Mat4) {
		out[i] = parent.Mul4(p.Local(m, i))
		for _, c := range m.Nodes[i].Children {
			walk(c, out[i])
		}
	}
	for _, r := range m.Roots {
		walk(r, mgl64.Ident4())
	}
	return out
}

// Surface 一个可渲染的表面（模型空间）
type Surface struct {
	Mesh  *geometry.Mesh
	Color mgl64.Vec4
}

// Skinner 根据 Pose 计算所有网格在模型空间下的顶点位置，内部缓冲可复用
type Skinner struct {
	model    *Model
	globals  []mgl64.Mat4
	joints   [][]mgl64.Mat4
	surfaces []Surface
	sources  []*Primitive
	nodes    []int
}

// NewSkinner 为模型创建蒙皮计算器
func NewSkinner(m *Model) *Skinner {
	s := &Skinner{model: m, joints: make([][]mgl64.Mat4, len(m.Skins))}
	for i, sk := range m.Skins {
		s.joints[i] = make([]mgl64.Mat4, len(sk.Joints))
	}
	for ni, n := range m.Nodes {
		if n.Mesh < 0 {
			continue
		}
		for _, prim := range m.Meshes[n.Mesh].Primitives {
			s.sources = append(s.sources, prim)
			s.nodes = append(s.nodes, ni)
			s.surfaces = append(s.surfaces, Surface{
				Mesh: &geometry.Mesh{
					Positions: make([]mgl64.Vec3, len(prim.Geometry.Positions)),
					Indices:   prim.Geometry.Indices,
					Mode:      geometry.ModeTriangles,
				},
				Color: prim.Color,
			})
		}
	}
	return s
}

// Update 按 Pose 重新计算全部表面顶点并返回
//
// 蒙皮图元按 glTF 约定忽略自身节点变换：v' = Σ wᵢ · global(jointᵢ) · IBMᵢ · v，
// 非蒙皮图元使用所在节点的全局矩阵。
func (s *Skinner) Update(p *Pose) []Surface {
	m := s.model
	s.globals = p.GlobalMatrices(m, s.globals)

	for si, sk := range m.Skins {
		for j, node := range sk.Joints {
			s.joints[si][j] = s.globals[node].Mul4(sk.InverseBind[j])
		}
	}

	for i, prim := range s.sources {
		node := m.Nodes[s.nodes[i]]
		dst := s.surfaces[i].Mesh.Positions
		src := prim.Geometry.Positions

		if node.Skin < 0 || len(prim.Joints) != len(src) || len(prim.Weights) != len(src) {
			g := s.globals[s.nodes[i]]
			for v, pos := range src {
				dst[v] = mgl64.TransformCoordinate(pos, g)
			}
			continue
		}

		jm := s.joints[node.Skin]
		for v, pos := range src {
			dst[v] = skinVertex(pos, prim.Joints[v], prim.Weights[v], jm)
		}
	}
	return s.surfaces
}

// skinVertex 线性混合蒙皮，权重之和不为 1 时归一化
func skinVertex(pos mgl64.Vec3, joints [4]uint16, weights [4]float32, jm []mgl64.Mat4) mgl64.Vec3 {
	var out mgl64.Vec3
	total := 0.0
	for k := 0; k < 4; k++ {
		w := float64(weights[k])
		if w == 0 || int(joints[k]) >= len(jm) {
			continue
		}
		out = out.Add(mgl64.TransformCoordinate(pos, jm[joints[k]]).Mul(w))
		total += w
	}
	if total == 0 {
		return pos
	}
	return out.Mul(1 / total)
}
