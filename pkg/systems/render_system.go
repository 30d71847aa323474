package systems

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/decker502/talkroom/internal/geometry"
	"github.com/decker502/talkroom/internal/model"
	"github.com/decker502/talkroom/pkg/components"
	"github.com/decker502/talkroom/pkg/ecs"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

const (
	// maxBatchVertices DrawTriangles 使用 uint16 索引，单批顶点数不能超过 65535
	maxBatchVertices = math.MaxUint16
	// lineDepthBias 线段略微提前绘制，保证与其共面的三角形（屏幕边框）不会盖住它
	lineDepthBias = 1e-3
	// nearEpsilon 裁剪后 w 的下限，避免除零
	nearEpsilon = 1e-6
)

// RenderLayer 默认的绘制层级：地面 -> 网格 -> 通话区域 -> 其余物体
const (
	LayerGround = iota
	LayerGrid
	LayerDecal
	LayerObjects
)

// clipVertex 裁剪空间顶点及其颜色（直通 alpha）
type clipVertex struct {
	pos   mgl64.Vec4
	color mgl64.Vec4
}

// renderItem 一个待绘制的屏幕空间多边形（三角形、裁剪后的四边形或线段四边形）
type renderItem struct {
	order int
	depth float64
	count int
	verts [4]ebiten.Vertex
}

// RenderSystem 软件 3D 渲染
//
// 每帧流程：
//   - 收集所有可见网格和角色表面，逐三角形做背面剔除、平面光照和雾
//   - 在裁剪空间对近平面做 Sutherland–Hodgman 裁剪
//   - 线段扩展为屏幕空间四边形
//   - 按 (层级, 深度从远到近) 排序后分批调用 DrawTriangles
//
// 没有深度缓冲，遮挡完全依赖画家算法。
type RenderSystem struct {
	entityManager *ecs.EntityManager
	camera        *CameraSystem

	whiteImage *ebiten.Image

	items    []renderItem
	vertices []ebiten.Vertex
	indices  []uint16
	world    []mgl64.Vec3
	clip     []clipVertex

	labelFace *text.GoTextFace
}

// NewRenderSystem 创建渲染系统
func NewRenderSystem(em *ecs.EntityManager, camera *CameraSystem) *RenderSystem {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	return &RenderSystem{
		entityManager: em,
		camera:        camera,
		whiteImage:    white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
		items:         make([]renderItem, 0, 4096),
		vertices:      make([]ebiten.Vertex, 0, 4096),
		indices:       make([]uint16, 0, 6144),
	}
}

// SetLabelFace 设置标签字体（字体加载完成后调用）
func (s *RenderSystem) SetLabelFace(face *text.GoTextFace) {
	s.labelFace = face
}

// frameContext 一帧内不变的渲染参数
type frameContext struct {
	env    *components.EnvironmentComponent
	vp     mgl64.Mat4
	eye    mgl64.Vec3
	width  float64
	height float64
}

// Draw 绘制整个 3D 场景和标签
func (s *RenderSystem) Draw(screen *ebiten.Image) {
	bounds := screen.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return
	}

	env := s.environment()
	screen.Fill(toColor(env.Background.Vec4(1)))

	fc := frameContext{
		env:    env,
		vp:     s.camera.ViewProjection(float64(w) / float64(h)),
		eye:    s.camera.Eye(),
		width:  float64(w),
		height: float64(h),
	}

	s.items = s.items[:0]
	s.collectMeshes(&fc)
	s.collectCharacters(&fc)

	sort.SliceStable(s.items, func(i, j int) bool {
		a, b := &s.items[i], &s.items[j]
		if a.order != b.order {
			return a.order < b.order
		}
		return a.depth > b.depth
	})
	s.flushItems(screen)
	s.drawLabels(screen, float64(w)/float64(h))
}

// ItemCount 返回上一帧提交的多边形数量（调试与测试使用）
func (s *RenderSystem) ItemCount() int {
	return len(s.items)
}

func (s *RenderSystem) environment() *components.EnvironmentComponent {
	for _, id := range ecs.GetEntitiesWith1[*components.EnvironmentComponent](s.entityManager) {
		env, _ := ecs.GetComponent[*components.EnvironmentComponent](s.entityManager, id)
		return env
	}
	return &components.EnvironmentComponent{
		Background:    mgl64.Vec3{0, 0, 0},
		HemisphereSky: mgl64.Vec3{1, 1, 1},
		Intensity:     1,
	}
}

func (s *RenderSystem) collectMeshes(fc *frameContext) {
	ids := ecs.GetEntitiesWith3[*components.MeshComponent, *components.MaterialComponent, *components.TransformComponent](s.entityManager)
	for _, id := range ids {
		mesh, _ := ecs.GetComponent[*components.MeshComponent](s.entityManager, id)
		mat, _ := ecs.GetComponent[*components.MaterialComponent](s.entityManager, id)
		if mat.Hidden || mesh.Mesh == nil {
			continue
		}
		base := mat.Color.Vec4(mat.Alpha())
		s.submitMesh(fc, mesh.Mesh, WorldMatrix(s.entityManager, id), mat, base)
	}
}

func (s *RenderSystem) collectCharacters(fc *frameContext) {
	for _, id := range ecs.GetEntitiesWith1[*components.CharacterComponent](s.entityManager) {
		character, _ := ecs.GetComponent[*components.CharacterComponent](s.entityManager, id)
		if !character.Loaded() || character.Skinner == nil {
			continue
		}

		var pose *model.Pose
		if animComp, ok := ecs.GetComponent[*components.AnimationComponent](s.entityManager, id); ok && animComp.Mixer != nil {
			pose = animComp.Mixer.Pose()
		} else {
			pose = character.Model.RestPose()
		}

		mat := &components.MaterialComponent{Side: geometry.FrontSide, RenderOrder: LayerObjects, Fog: true}
		if m, ok := ecs.GetComponent[*components.MaterialComponent](s.entityManager, id); ok {
			mat = m
		}
		if mat.Hidden {
			continue
		}

		world := WorldMatrix(s.entityManager, id)
		for _, surface := range character.Skinner.Update(pose) {
			s.submitMesh(fc, surface.Mesh, world, mat, surface.Color)
		}
	}
}

// submitMesh 变换网格并生成绘制项
func (s *RenderSystem) submitMesh(fc *frameContext, mesh *geometry.Mesh, world mgl64.Mat4, mat *components.MaterialComponent, base mgl64.Vec4) {
	n := len(mesh.Positions)
	if cap(s.world) < n {
		s.world = make([]mgl64.Vec3, n)
		s.clip = make([]clipVertex, n)
	}
	s.world = s.world[:n]
	s.clip = s.clip[:n]
	for i, p := range mesh.Positions {
		wp := mgl64.TransformCoordinate(p, world)
		s.world[i] = wp
		s.clip[i] = clipVertex{pos: fc.vp.Mul4x1(wp.Vec4(1))}
	}

	switch mesh.Mode {
	case geometry.ModeLines:
		s.submitLines(fc, mesh, mat, base)
	default:
		s.submitTriangles(fc, mesh, mat, base)
	}
}

func (s *RenderSystem) submitTriangles(fc *frameContext, mesh *geometry.Mesh, mat *components.MaterialComponent, base mgl64.Vec4) {
	for t := 0; t < mesh.TriangleCount(); t++ {
		ia, ib, ic := mesh.Triangle(t)
		a, b, c := s.world[ia], s.world[ib], s.world[ic]

		normal := geometry.FaceNormal(a, b, c)
		facing := normal.Dot(fc.eye.Sub(a))
		switch mat.Side {
		case geometry.FrontSide:
			if facing <= 0 {
				continue
			}
		case geometry.BackSide:
			if facing >= 0 {
				continue
			}
			normal = normal.Mul(-1)
		default:
			if facing < 0 {
				normal = normal.Mul(-1)
			}
		}

		if outsideFrustum(s.clip[ia].pos, s.clip[ib].pos, s.clip[ic].pos) {
			continue
		}

		lit := base
		if !mat.Unlit {
			lit = shade(fc.env, normal, base)
		}

		poly := [3]clipVertex{s.clip[ia], s.clip[ib], s.clip[ic]}
		for k := range poly {
			poly[k].color = fog(fc.env, mat, lit, poly[k].pos.W())
		}
		s.appendPolygon(fc, mat.RenderOrder, clipNear(poly[:]), 0)
	}
}

func (s *RenderSystem) submitLines(fc *frameContext, mesh *geometry.Mesh, mat *components.MaterialComponent, base mgl64.Vec4) {
	width := mat.LineWidth
	if width <= 0 {
		width = 1
	}
	for l := 0; l < mesh.LineCount(); l++ {
		ia, ib := mesh.Indices[l*2], mesh.Indices[l*2+1]
		va, vb := s.clip[ia], s.clip[ib]

		ca, cb := base, base
		if len(mesh.Colors) == len(mesh.Positions) {
			ca = mesh.Colors[ia].Vec4(base.W())
			cb = mesh.Colors[ib].Vec4(base.W())
		}
		va.color = fog(fc.env, mat, ca, va.pos.W())
		vb.color = fog(fc.env, mat, cb, vb.pos.W())

		// 近平面裁剪：z >= -w
		da, db := va.pos.Z()+va.pos.W(), vb.pos.Z()+vb.pos.W()
		if da < 0 && db < 0 {
			continue
		}
		if da < 0 {
			va = lerpClip(va, vb, da/(da-db))
		} else if db < 0 {
			vb = lerpClip(vb, va, db/(db-da))
		}

		ax, ay := toScreen(fc, va.pos)
		bx, by := toScreen(fc, vb.pos)
		dx, dy := bx-ax, by-ay
		length := math.Hypot(dx, dy)
		if length < 1e-9 {
			continue
		}
		nx, ny := -dy/length*width/2, dx/length*width/2

		item := renderItem{
			order: mat.RenderOrder,
			depth: (va.pos.W()+vb.pos.W())/2 - lineDepthBias,
			count: 4,
		}
		item.verts[0] = vertex(ax+nx, ay+ny, va.color)
		item.verts[1] = vertex(bx+nx, by+ny, vb.color)
		item.verts[2] = vertex(bx-nx, by-ny, vb.color)
		item.verts[3] = vertex(ax-nx, ay-ny, va.color)
		s.items = append(s.items, item)
	}
}

// appendPolygon 将裁剪后的凸多边形（3 或 4 个顶点）加入绘制列表
func (s *RenderSystem) appendPolygon(fc *frameContext, order int, poly []clipVertex, bias float64) {
	if len(poly) < 3 || len(poly) > 4 {
		return
	}
	item := renderItem{order: order, count: len(poly)}
	depth := 0.0
	for k, v := range poly {
		x, y := toScreen(fc, v.pos)
		item.verts[k] = vertex(x, y, v.color)
		depth += v.pos.W()
	}
	item.depth = depth/float64(len(poly)) - bias
	s.items = append(s.items, item)
}

// flushItems 按顺序把绘制项写入顶点缓冲，接近 uint16 上限时提交一批
func (s *RenderSystem) flushItems(screen *ebiten.Image) {
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]

	for i := range s.items {
		item := &s.items[i]
		if len(s.vertices)+item.count > maxBatchVertices {
			s.flushBatch(screen)
		}
		base := uint16(len(s.vertices))
		s.vertices = append(s.vertices, item.verts[:item.count]...)
		s.indices = append(s.indices, base, base+1, base+2)
		if item.count == 4 {
			s.indices = append(s.indices, base, base+2, base+3)
		}
	}
	s.flushBatch(screen)
}

func (s *RenderSystem) flushBatch(screen *ebiten.Image) {
	if len(s.indices) == 0 {
		return
	}
	op := &ebiten.DrawTrianglesOptions{}
	screen.DrawTriangles(s.vertices, s.indices, s.whiteImage, op)
	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
}

// drawLabels 把 LabelComponent 文字投影到屏幕
func (s *RenderSystem) drawLabels(screen *ebiten.Image, aspect float64) {
	if s.labelFace == nil {
		return
	}
	bounds := screen.Bounds()
	for _, id := range ecs.GetEntitiesWith1[*components.LabelComponent](s.entityManager) {
		label, _ := ecs.GetComponent[*components.LabelComponent](s.entityManager, id)
		if !label.Visible || label.Text == "" {
			continue
		}
		ndc, ok := s.camera.Project(WorldPosition(s.entityManager, id).Add(label.Offset), aspect)
		if !ok || ndc.Z() < -1 || ndc.Z() > 1 {
			continue
		}
		x := (ndc.X() + 1) / 2 * float64(bounds.Dx())
		y := (1 - ndc.Y()) / 2 * float64(bounds.Dy())

		face := s.labelFace
		if label.Size > 0 && label.Size != face.Size {
			sized := *face
			sized.Size = label.Size
			face = &sized
		}
		op := &text.DrawOptions{}
		op.LayoutOptions.PrimaryAlign = text.AlignStart
		op.LayoutOptions.SecondaryAlign = text.AlignEnd
		op.GeoM.Translate(x, y)
		op.ColorScale.ScaleWithColor(toColor(label.Color.Vec4(1)))
		text.Draw(screen, label.Text, face, op)
	}
}

// shade 平面 Lambert 光照：半球光 + 平行光，结果截断到 [0,1]
func shade(env *components.EnvironmentComponent, normal mgl64.Vec3, base mgl64.Vec4) mgl64.Vec4 {
	t := 0.5*normal.Y() + 0.5
	hemi := env.HemisphereGround.Mul(1 - t).Add(env.HemisphereSky.Mul(t))
	ndl := math.Max(0, normal.Dot(env.LightDirection))
	light := hemi.Add(env.LightColor.Mul(ndl)).Mul(env.Intensity)

	return mgl64.Vec4{
		mgl64.Clamp(base.X()*light.X(), 0, 1),
		mgl64.Clamp(base.Y()*light.Y(), 0, 1),
		mgl64.Clamp(base.Z()*light.Z(), 0, 1),
		base.W(),
	}
}

// fog 按视深混合雾色，与 three.js 一样使用 smoothstep(near, far, depth)
func fog(env *components.EnvironmentComponent, mat *components.MaterialComponent, c mgl64.Vec4, depth float64) mgl64.Vec4 {
	if !mat.Fog || env.FogFar <= env.FogNear {
		return c
	}
	f := smoothstep(env.FogNear, env.FogFar, depth)
	rgb := c.Vec3().Mul(1 - f).Add(env.FogColor.Mul(f))
	return rgb.Vec4(c.W())
}

func smoothstep(edge0, edge1, x float64) float64 {
	t := mgl64.Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// outsideFrustum 三个顶点都在同一个裁剪平面外侧时返回 true
func outsideFrustum(a, b, c mgl64.Vec4) bool {
	for axis := 0; axis < 3; axis++ {
		if a[axis] > a.W() && b[axis] > b.W() && c[axis] > c.W() {
			return true
		}
		if a[axis] < -a.W() && b[axis] < -b.W() && c[axis] < -c.W() {
			return true
		}
	}
	return false
}

// clipNear 用近平面 z = -w 裁剪三角形，返回 0、3 或 4 个顶点
func clipNear(poly []clipVertex) []clipVertex {
	out := make([]clipVertex, 0, 4)
	for i := range poly {
		cur := poly[i]
		next := poly[(i+1)%len(poly)]
		dc := cur.pos.Z() + cur.pos.W()
		dn := next.pos.Z() + next.pos.W()
		if dc >= 0 {
			out = append(out, cur)
		}
		if (dc >= 0) != (dn >= 0) {
			out = append(out, lerpClip(cur, next, dc/(dc-dn)))
		}
	}
	return out
}

func lerpClip(a, b clipVertex, t float64) clipVertex {
	return clipVertex{
		pos:   a.pos.Add(b.pos.Sub(a.pos).Mul(t)),
		color: a.color.Add(b.color.Sub(a.color).Mul(t)),
	}
}

// toScreen 透视除法后映射到像素坐标（Y 轴向下）
func toScreen(fc *frameContext, p mgl64.Vec4) (float64, float64) {
	w := math.Max(p.W(), nearEpsilon)
	x := (p.X()/w + 1) / 2 * fc.width
	y := (1 - p.Y()/w) / 2 * fc.height
	return x, y
}

func vertex(x, y float64, c mgl64.Vec4) ebiten.Vertex {
	return ebiten.Vertex{
		DstX:   float32(x),
		DstY:   float32(y),
		SrcX:   1,
		SrcY:   1,
		ColorR: float32(c.X()),
		ColorG: float32(c.Y()),
		ColorB: float32(c.Z()),
		ColorA: float32(c.W()),
	}
}

func toColor(c mgl64.Vec4) color.Color {
	return color.NRGBA{
		R: uint8(mgl64.Clamp(c.X(), 0, 1)*255 + 0.5),
		G: uint8(mgl64.Clamp(c.Y(), 0, 1)*255 + 0.5),
		B: uint8(mgl64.Clamp(c.Z(), 0, 1)*255 + 0.5),
		A: uint8(mgl64.Clamp(c.W(), 0, 1)*255 + 0.5),
	}
}
