package model

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/decker502/talkroom/internal/geometry"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// Decode 从 glTF / GLB 数据流解码模型
//
// 只支持内嵌缓冲区（GLB 或 data URI），外部 .bin 文件无法解析。
func Decode(r io.Reader) (*Model, error) {
	doc := new(gltf.Document)
	if err := decodeDocument(r, doc); err != nil {
		return nil, fmt.Errorf("failed to decode gltf: %w", err)
	}
	return FromDocument(doc)
}

// decodeDocument gltf 解码器遇到 null 缓冲区等输入会 panic，转换成错误返回
func decodeDocument(r io.Reader, doc *gltf.Document) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("malformed document: %v", p)
		}
	}()
	return gltf.NewDecoder(r).Decode(doc)
}

// DecodeBytes 是 Decode 的便捷封装
func DecodeBytes(data []byte) (*Model, error) {
	return Decode(bytes.NewReader(data))
}

// FromDocument 将 gltf.Document 转换为 Model
func FromDocument(doc *gltf.Document) (*Model, error) {
	m := &Model{}

	if err := loadNodes(doc, m); err != nil {
		return nil, err
	}
	if err := loadMeshes(doc, m); err != nil {
		return nil, err
	}
	if err := loadSkins(doc, m); err != nil {
		return nil, err
	}
	loadClips(doc, m)

	hasTriangles := false
	for _, n := range m.Nodes {
		if n.Mesh >= 0 && len(m.Meshes[n.Mesh].Primitives) > 0 {
			hasTriangles = true
			break
		}
	}
	if !hasTriangles {
		return nil, ErrNoMeshes
	}
	return m, nil
}

func loadNodes(doc *gltf.Document, m *Model) error {
	m.Nodes = make([]Node, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if n == nil {
			return fmt.Errorf("node %d is null", i)
		}
		t := n.TranslationOrDefault()
		r := n.RotationOrDefault()
		s := n.ScaleOrDefault()
		node := Node{
			Name:        n.Name,
			Parent:      -1,
			Children:    append([]int(nil), n.Children...),
			Translation: mgl64.Vec3{t[0], t[1], t[2]},
			Rotation:    mgl64.Quat{W: r[3], V: mgl64.Vec3{r[0], r[1], r[2]}},
			Scale:       mgl64.Vec3{s[0], s[1], s[2]},
			Mesh:        -1,
			Skin:        -1,
		}
		if mat := n.MatrixOrDefault(); mat != gltf.DefaultMatrix {
			mm := mgl64.Mat4(mat)
			node.Matrix = &mm
		}
		if n.Mesh != nil {
			if *n.Mesh < 0 || *n.Mesh >= len(doc.Meshes) {
				return fmt.Errorf("node %d: mesh %d out of range", i, *n.Mesh)
			}
			node.Mesh = *n.Mesh
		}
		if n.Skin != nil {
			if *n.Skin < 0 || *n.Skin >= len(doc.Skins) {
				return fmt.Errorf("node %d: skin %d out of range", i, *n.Skin)
			}
			node.Skin = *n.Skin
		}
		m.Nodes[i] = node
	}

	for i, n := range m.Nodes {
		for _, c := range n.Children {
			if c < 0 || c >= len(m.Nodes) {
				return fmt.Errorf("node %d has invalid child %d", i, c)
			}
			if m.Nodes[c].Parent >= 0 {
				return fmt.Errorf("node %d has more than one parent", c)
			}
			m.Nodes[c].Parent = i
		}
	}
	// 每个节点只有一个父节点，沿父链走超过节点数步即说明存在环
	for i := range m.Nodes {
		steps := 0
		for p := m.Nodes[i].Parent; p >= 0; p = m.Nodes[p].Parent {
			if steps++; steps > len(m.Nodes) {
				return fmt.Errorf("node %d is part of a cycle", i)
			}
		}
	}

	// 优先使用默认场景的根节点，否则取所有无父节点的节点
	var sceneRoots []int
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) && doc.Scenes[*doc.Scene] != nil {
		sceneRoots = doc.Scenes[*doc.Scene].Nodes
	} else if len(doc.Scenes) > 0 && doc.Scenes[0] != nil {
		sceneRoots = doc.Scenes[0].Nodes
	}
	for _, r := range sceneRoots {
		if r < 0 || r >= len(m.Nodes) {
			return fmt.Errorf("scene root %d out of range", r)
		}
		m.Roots = append(m.Roots, r)
	}
	if len(m.Roots) == 0 {
		for i, n := range m.Nodes {
			if n.Parent < 0 {
				m.Roots = append(m.Roots, i)
			}
		}
	}
	return nil
}

func loadMeshes(doc *gltf.Document, m *Model) error {
	m.Meshes = make([]Mesh, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		if gm == nil {
			return fmt.Errorf("mesh %d is null", mi)
		}
		mesh := Mesh{Name: gm.Name}
		for pi, gp := range gm.Primitives {
			if gp == nil {
				continue
			}
			if gp.Mode != gltf.PrimitiveTriangles {
				continue
			}
			prim, err := loadPrimitive(doc, gp)
			if err != nil {
				return fmt.Errorf("mesh %q primitive %d: %w", gm.Name, pi, err)
			}
			if prim != nil {
				mesh.Primitives = append(mesh.Primitives, prim)
			}
		}
		m.Meshes[mi] = mesh
	}
	return nil
}

func loadPrimitive(doc *gltf.Document, gp *gltf.Primitive) (*Primitive, error) {
	posIdx, ok := gp.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil
	}
	acr, err := accessor(doc, posIdx)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	positions, err := modeler.ReadPosition(doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read positions: %w", err)
	}

	g := &geometry.Mesh{Mode: geometry.ModeTriangles}
	g.Positions = make([]mgl64.Vec3, len(positions))
	for i, p := range positions {
		g.Positions[i] = mgl64.Vec3{float64(p[0]), float64(p[1]), float64(p[2])}
	}

	if gp.Indices != nil {
		acr, err := accessor(doc, *gp.Indices)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		indices, err := modeler.ReadIndices(doc, acr, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to read indices: %w", err)
		}
		for _, v := range indices {
			if int(v) >= len(positions) {
				return nil, fmt.Errorf("vertex index %d out of range (%d vertices)", v, len(positions))
			}
		}
		g.Indices = indices
	} else {
		g.Indices = make([]uint32, len(positions))
		for i := range g.Indices {
			g.Indices[i] = uint32(i)
		}
	}

	prim := &Primitive{Geometry: g, Color: mgl64.Vec4{0.8, 0.8, 0.8, 1}}

	if idx, ok := gp.Attributes[gltf.JOINTS_0]; ok {
		acr, err := accessor(doc, idx)
		if err != nil {
			return nil, fmt.Errorf("joints: %w", err)
		}
		if prim.Joints, err = modeler.ReadJoints(doc, acr, nil); err != nil {
			return nil, fmt.Errorf("failed to read joints: %w", err)
		}
	}
	if idx, ok := gp.Attributes[gltf.WEIGHTS_0]; ok {
		acr, err := accessor(doc, idx)
		if err != nil {
			return nil, fmt.Errorf("weights: %w", err)
		}
		if prim.Weights, err = modeler.ReadWeights(doc, acr, nil); err != nil {
			return nil, fmt.Errorf("failed to read weights: %w", err)
		}
	}

	if gp.Material != nil && *gp.Material >= 0 && *gp.Material < len(doc.Materials) && doc.Materials[*gp.Material] != nil {
		if pbr := doc.Materials[*gp.Material].PBRMetallicRoughness; pbr != nil {
			c := pbr.BaseColorFactorOrDefault()
			prim.Color = mgl64.Vec4{c[0], c[1], c[2], c[3]}
		}
	}
	return prim, nil
}

func loadSkins(doc *gltf.Document, m *Model) error {
	m.Skins = make([]Skin, len(doc.Skins))
	for si, gs := range doc.Skins {
		if gs == nil {
			return fmt.Errorf("skin %d is null", si)
		}
		for _, j := range gs.Joints {
			if j < 0 || j >= len(m.Nodes) {
				return fmt.Errorf("skin %d: joint node %d out of range", si, j)
			}
		}
		skin := Skin{
			Joints:      append([]int(nil), gs.Joints...),
			InverseBind: make([]mgl64.Mat4, len(gs.Joints)),
		}
		for j := range skin.InverseBind {
			skin.InverseBind[j] = mgl64.Ident4()
		}

		if gs.InverseBindMatrices != nil {
			acr, err := accessor(doc, *gs.InverseBindMatrices)
			if err != nil {
				return fmt.Errorf("skin %d: inverse bind matrices: %w", si, err)
			}
			data, err := modeler.ReadAccessor(doc, acr, nil)
			if err != nil {
				return fmt.Errorf("skin %d: failed to read inverse bind matrices: %w", si, err)
			}
			mats, ok := data.([][4][4]float32)
			if !ok {
				return fmt.Errorf("skin %d: unexpected inverse bind matrix type %T", si, data)
			}
			for j := 0; j < len(mats) && j < len(skin.InverseBind); j++ {
				var out mgl64.Mat4
				// glTF 与 mgl64 都是列主序
				for c := 0; c < 4; c++ {
					for r := 0; r < 4; r++ {
						out[c*4+r] = float64(mats[j][c][r])
					}
				}
				skin.InverseBind[j] = out
			}
		}
		m.Skins[si] = skin
	}
	return nil
}

// loadClips 解析动画。无法识别的通道（如 morph weights）直接忽略
func loadClips(doc *gltf.Document, m *Model) {
	for _, ga := range doc.Animations {
		if ga == nil {
			continue
		}
		clip := &Clip{Name: ga.Name}
		for _, gc := range ga.Channels {
			if gc == nil || gc.Target.Node == nil || gc.Sampler < 0 || gc.Sampler >= len(ga.Samplers) || ga.Samplers[gc.Sampler] == nil {
				continue
			}
			if node := *gc.Target.Node; node < 0 || node >= len(m.Nodes) {
				continue
			}
			var path Path
			switch gc.Target.Path {
			case gltf.TRSTranslation:
				path = PathTranslation
			case gltf.TRSRotation:
				path = PathRotation
			case gltf.TRSScale:
				path = PathScale
			default:
				continue
			}

			sampler := ga.Samplers[gc.Sampler]
			times, ok := readFloats(doc, sampler.Input)
			if !ok || len(times) == 0 {
				continue
			}
			values, ok := readFloats(doc, sampler.Output)
			if !ok {
				continue
			}

			ch := Channel{
				Node:   *gc.Target.Node,
				Path:   path,
				Times:  times,
				Values: values,
			}
			perKey := path.Components()
			switch sampler.Interpolation {
			case gltf.InterpolationStep:
				ch.Interpolation = InterpolationStep
			case gltf.InterpolationCubicSpline:
				ch.Interpolation = InterpolationCubicSpline
				perKey *= 3
			default:
				ch.Interpolation = InterpolationLinear
			}
			// 关键帧值不足的通道采样时会越界
			if len(values) < len(times)*perKey {
				continue
			}

			clip.Channels = append(clip.Channels, ch)
			clip.Duration = math.Max(clip.Duration, times[len(times)-1])
		}
		m.Clips = append(m.Clips, clip)
	}
}

// readFloats 读取浮点访问器并展开为一维切片
func readFloats(doc *gltf.Document, index int) ([]float64, bool) {
	acr, err := accessor(doc, index)
	if err != nil || acr.ComponentType != gltf.ComponentFloat {
		return nil, false
	}
	data, err := modeler.ReadAccessor(doc, acr, nil)
	if err != nil {
		return nil, false
	}
	switch v := data.(type) {
	case []float32:
		out := make([]float64, len(v))
		for i, f := range v {
			out[i] = float64(f)
		}
		return out, true
	case [][3]float32:
		out := make([]float64, 0, len(v)*3)
		for _, f := range v {
			out = append(out, float64(f[0]), float64(f[1]), float64(f[2]))
		}
		return out, true
	case [][4]float32:
		out := make([]float64, 0, len(v)*4)
		for _, f := range v {
			out = append(out, float64(f[0]), float64(f[1]), float64(f[2]), float64(f[3]))
		}
		return out, true
	}
	return nil, false
}

// accessor 取出访问器并检查它引用的缓冲视图
// modeler 直接按文件里的索引、偏移和数量切片，畸形数据会 panic，这里提前拒绝
func accessor(doc *gltf.Document, index int) (*gltf.Accessor, error) {
	if index < 0 || index >= len(doc.Accessors) || doc.Accessors[index] == nil {
		return nil, fmt.Errorf("accessor %d out of range", index)
	}
	acr := doc.Accessors[index]
	if acr.Count < 0 || acr.ComponentType > gltf.ComponentUint || acr.Type > gltf.AccessorMat4 {
		return nil, fmt.Errorf("accessor %d: invalid layout", index)
	}
	// 稀疏访问器在 modeler 中按字节偏移索引缓冲视图，无法安全读取
	if acr.Sparse != nil {
		return nil, fmt.Errorf("accessor %d: sparse accessors are not supported", index)
	}
	if acr.BufferView == nil {
		return nil, fmt.Errorf("accessor %d has no data", index)
	}
	if err := checkView(doc, *acr.BufferView, acr.ByteOffset); err != nil {
		return nil, fmt.Errorf("accessor %d: %w", index, err)
	}
	return acr, nil
}

func checkView(doc *gltf.Document, view, offset int) error {
	if view < 0 || view >= len(doc.BufferViews) || doc.BufferViews[view] == nil {
		return fmt.Errorf("buffer view %d out of range", view)
	}
	bv := doc.BufferViews[view]
	if bv.Buffer < 0 || bv.ByteOffset < 0 || bv.ByteLength < 0 || bv.ByteStride < 0 {
		return fmt.Errorf("buffer view %d: invalid layout", view)
	}
	if offset < 0 || offset > bv.ByteLength {
		return fmt.Errorf("byte offset %d outside buffer view %d", offset, view)
	}
	return nil
}
