package systems

import (
	"github.com/decker502/talkroom/internal/geometry"
	"github.com/decker502/talkroom/pkg/components"
	"github.com/decker502/talkroom/pkg/ecs"
	"github.com/go-gl/mathgl/mgl64"
)

// worldUp 相机的上方向
var worldUp = mgl64.Vec3{0, 1, 0}

// CameraSystem 管理跟随相机：拖拽旋转、瞄准、视图/投影矩阵和拾取射线。
//
// 相机实体挂在容器下，局部位置 = Origin + Offset；
// 视线始终指向 容器世界位置 + Origin。
type CameraSystem struct {
	entityManager *ecs.EntityManager
	cameraEntity  ecs.EntityID
}

// NewCameraSystem 创建相机系统并立即瞄准一次
func NewCameraSystem(em *ecs.EntityManager, cameraEntity ecs.EntityID) *CameraSystem {
	cs := &CameraSystem{
		entityManager: em,
		cameraEntity:  cameraEntity,
	}
	cs.Aim()
	return cs
}

// Entity 返回相机实体
func (cs *CameraSystem) Entity() ecs.EntityID { return cs.cameraEntity }

func (cs *CameraSystem) lookup() (*components.CameraComponent, *components.TransformComponent, bool) {
	cam, ok := ecs.GetComponent[*components.CameraComponent](cs.entityManager, cs.cameraEntity)
	if !ok {
		return nil, nil, false
	}
	tr, ok := ecs.GetComponent[*components.TransformComponent](cs.entityManager, cs.cameraEntity)
	if !ok {
		return nil, nil, false
	}
	return cam, tr, true
}

// Drag 按指针位移旋转相机（dx/dy 为像素）
//
// theta -= dx * speed，phi = clamp(phi - dy * speed, MinPhi, MaxPhi)，半径不变。
func (cs *CameraSystem) Drag(dx, dy float64) {
	cam, tr, ok := cs.lookup()
	if !ok {
		return
	}
	cam.Offset = cam.Offset.Rotate(dx*cam.RotateSpeed, dy*cam.RotateSpeed, cam.MinPhi, cam.MaxPhi)
	tr.Position = cam.Origin.Add(cam.Offset.Vec3())
	cs.Aim()
}

// Target 返回注视点的世界坐标
func (cs *CameraSystem) Target() mgl64.Vec3 {
	cam, tr, ok := cs.lookup()
	if !ok {
		return mgl64.Vec3{}
	}
	return WorldPosition(cs.entityManager, tr.Parent).Add(cam.Origin)
}

// Eye 返回相机的世界坐标
func (cs *CameraSystem) Eye() mgl64.Vec3 {
	return WorldPosition(cs.entityManager, cs.cameraEntity)
}

// Aim 让相机看向 容器位置 + Origin，并缓存世界视线方向
func (cs *CameraSystem) Aim() {
	cam, _, ok := cs.lookup()
	if !ok {
		return
	}
	dir := cs.Target().Sub(cs.Eye())
	if dir.Len() < 1e-12 {
		return
	}
	cam.LookDirection = dir.Normalize()
}

// LookDirection 返回相机世界视线方向（单位向量）
func (cs *CameraSystem) LookDirection() mgl64.Vec3 {
	cam, _, ok := cs.lookup()
	if !ok {
		return mgl64.Vec3{0, 0, -1}
	}
	return cam.LookDirection
}

// ViewMatrix 返回视图矩阵
func (cs *CameraSystem) ViewMatrix() mgl64.Mat4 {
	eye := cs.Eye()
	return mgl64.LookAtV(eye, eye.Add(cs.LookDirection()), worldUp)
}

// ProjectionMatrix 返回透视投影矩阵，aspect = 宽 / 高
func (cs *CameraSystem) ProjectionMatrix(aspect float64) mgl64.Mat4 {
	cam, _, ok := cs.lookup()
	if !ok || aspect <= 0 {
		return mgl64.Ident4()
	}
	return mgl64.Perspective(mgl64.DegToRad(cam.FovDeg), aspect, cam.Near, cam.Far)
}

// ViewProjection 返回 P * V
func (cs *CameraSystem) ViewProjection(aspect float64) mgl64.Mat4 {
	return cs.ProjectionMatrix(aspect).Mul4(cs.ViewMatrix())
}

// RayFromNDC 返回从相机出发、穿过 NDC 点的射线
//
// 起点为相机位置，方向指向该 NDC 点在 z=0.5 处反投影得到的世界坐标。
func (cs *CameraSystem) RayFromNDC(ndc mgl64.Vec2, aspect float64) geometry.Ray {
	eye := cs.Eye()
	inv := cs.ViewProjection(aspect).Inv()
	p := inv.Mul4x1(mgl64.Vec4{ndc.X(), ndc.Y(), 0.5, 1})
	if p.W() != 0 {
		p = p.Mul(1 / p.W())
	}
	dir := p.Vec3().Sub(eye)
	if dir.Len() < 1e-12 {
		dir = cs.LookDirection()
	}
	return geometry.Ray{Origin: eye, Direction: dir.Normalize()}
}

// Project 将世界坐标投影为 NDC，点在相机后方时返回 false
func (cs *CameraSystem) Project(world mgl64.Vec3, aspect float64) (mgl64.Vec3, bool) {
	clip := cs.ViewProjection(aspect).Mul4x1(world.Vec4(1))
	if clip.W() <= 0 {
		return mgl64.Vec3{}, false
	}
	return clip.Vec3().Mul(1 / clip.W()), true
}
