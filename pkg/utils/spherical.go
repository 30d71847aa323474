package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Spherical 是以 Y 轴为上方向的球坐标
//
//	Phi   极角，从 +Y 轴量起
//	Theta 方位角，从 +Z 轴绕 Y 轴量起（atan2(x, z)）
//
// mgl64.CartesianToSpherical 使用 Z 轴向上的约定，这里不能直接复用。
type Spherical struct {
	Radius float64
	Phi    float64
	Theta  float64
}

// SphericalFromVec3 将笛卡尔坐标转换为球坐标
func SphericalFromVec3(v mgl64.Vec3) Spherical {
	r := v.Len()
	if r == 0 {
		return Spherical{}
	}
	return Spherical{
		Radius: r,
		Phi:    math.Acos(mgl64.Clamp(v.Y()/r, -1, 1)),
		Theta:  math.Atan2(v.X(), v.Z()),
	}
}

// Vec3 将球坐标转换回笛卡尔坐标
func (s Spherical) Vec3() mgl64.Vec3 {
	sinPhi := math.Sin(s.Phi)
	return mgl64.Vec3{
		s.Radius * sinPhi * math.Sin(s.Theta),
		s.Radius * math.Cos(s.Phi),
		s.Radius * sinPhi * math.Cos(s.Theta),
	}
}

// Rotate 按拖拽增量旋转球坐标，极角限制在 [minPhi, maxPhi]
//
// 方位角减去 dTheta，极角减去 dPhi 后再限幅，半径不变。
func (s Spherical) Rotate(dTheta, dPhi, minPhi, maxPhi float64) Spherical {
	s.Theta -= dTheta
	s.Phi = math.Max(minPhi, math.Min(maxPhi, s.Phi-dPhi))
	return s
}
