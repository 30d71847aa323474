package components

import (
	"github.com/decker502/talkroom/pkg/ecs"
	"github.com/go-gl/mathgl/mgl64"
)

// TransformComponent 存储实体在父节点坐标系下的变换
//
// Rotation 是欧拉角（弧度），按 X、Y、Z 顺序组合，与场景数据里的
// rotation 字段一致。Scale 为零向量时按 (1,1,1) 处理。
// Parent 为 0 表示挂在场景根节点下。
type TransformComponent struct {
	Position mgl64.Vec3
	Rotation mgl64.Vec3
	Scale    mgl64.Vec3
	Parent   ecs.EntityID
}

// Yaw 返回绕 Y 轴的旋转角
func (t *TransformComponent) Yaw() float64 { return t.Rotation.Y() }

// RotateY 绕自身 Y 轴旋转 angle 弧度
func (t *TransformComponent) RotateY(angle float64) { t.Rotation[1] += angle }

// LocalMatrix 返回 T * R * S 局部矩阵
func (t *TransformComponent) LocalMatrix() mgl64.Mat4 {
	scale := t.Scale
	if scale == (mgl64.Vec3{}) {
		scale = mgl64.Vec3{1, 1, 1}
	}
	rot := mgl64.HomogRotate3DX(t.Rotation.X()).
		Mul4(mgl64.HomogRotate3DY(t.Rotation.Y())).
		Mul4(mgl64.HomogRotate3DZ(t.Rotation.Z()))
	return mgl64.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(rot).
		Mul4(mgl64.Scale3D(scale.X(), scale.Y(), scale.Z()))
}
