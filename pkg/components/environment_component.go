package components

import "github.com/go-gl/mathgl/mgl64"

// EnvironmentComponent 场景级的背景、雾和灯光，整个场景只有一个
type EnvironmentComponent struct {
	Background mgl64.Vec3

	// 线性雾：视深 FogNear 处开始，FogFar 处完全变为 FogColor
	FogColor mgl64.Vec3
	FogNear  float64
	FogFar   float64

	// 半球光：法线朝上取 Sky，朝下取 Ground，中间线性插值
	HemisphereSky    mgl64.Vec3
	HemisphereGround mgl64.Vec3

	// 平行光，LightDirection 指向光源（单位向量）
	LightColor     mgl64.Vec3
	LightDirection mgl64.Vec3

	Intensity float64
}
