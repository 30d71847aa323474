package components

import (
	"github.com/decker502/talkroom/pkg/utils"
	"github.com/go-gl/mathgl/mgl64"
)

// CameraComponent 跟随相机
//
// 相机是容器实体的子节点，局部位置 = Origin + Offset.Vec3()，
// 始终看向 容器位置 + Origin。
type CameraComponent struct {
	// Origin 注视点相对容器的偏移（如 (0, 1.5, 0)）
	Origin mgl64.Vec3

	// Offset 相机相对注视点的球坐标，只由拖拽修改
	Offset utils.Spherical

	// 透视参数
	FovDeg float64
	Near   float64
	Far    float64

	// RotateSpeed 拖拽每像素旋转的弧度
	RotateSpeed float64
	// MinPhi / MaxPhi 极角限制
	MinPhi float64
	MaxPhi float64

	// LookDirection 最近一次瞄准后的世界视线方向（单位向量）
	LookDirection mgl64.Vec3
}
