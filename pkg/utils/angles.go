package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// XAxis 是水平角度的参考轴
var XAxis = mgl64.Vec3{1, 0, 0}

// HorizontalDirection 将方向向量投影到地面（Y 分量置零）并重新归一化
//
// 当输入向量几乎垂直（水平分量长度接近 0）时返回零向量和 false，
// 调用方应跳过依赖该方向的计算。
func HorizontalDirection(dir mgl64.Vec3) (mgl64.Vec3, bool) {
	flat := mgl64.Vec3{dir.X(), 0, dir.Z()}
	length := flat.Len()
	if length < 1e-9 {
		return mgl64.Vec3{}, false
	}
	return flat.Mul(1 / length), true
}

// SignedAngleToX 返回水平方向与 +X 轴之间的有符号夹角（绕 Y 轴）
//
// 夹角大小为 acos(dir·X)，取值 [0, π]；dir.Z > 0 时为正，否则为负。
// 因此 (-1, 0, 0) 的结果是 -π 而不是 π。
func SignedAngleToX(dir mgl64.Vec3) float64 {
	cos := mgl64.Clamp(dir.Dot(XAxis), -1, 1)
	angle := math.Acos(cos)
	if dir.Z() > 0 {
		return angle
	}
	return -angle
}

// NormalizeAngle 将角度差规范化到 (-π, π]
//
// 只做一次整圈修正：大于 π 减去 2π，小于等于 -π 加上 2π。
// 两个 SignedAngleToX 结果之差位于 [-2π, 2π]，一次修正足够。
func NormalizeAngle(angle float64) float64 {
	if angle > math.Pi {
		return angle - 2*math.Pi
	}
	if angle <= -math.Pi {
		return angle + 2*math.Pi
	}
	return angle
}

// ClampTurn 将每帧转向角限制在 [-maxStep, maxStep]
func ClampTurn(angle, maxStep float64) float64 {
	return math.Max(-maxStep, math.Min(angle, maxStep))
}

// TurnStep 计算角色本帧应旋转的偏航角
//
// 参数:
//   - cameraDir: 摄像机水平视线方向（已归一化）
//   - playerDir: 角色水平朝向（已归一化）
//   - maxStep: 每帧最大转角（弧度）
//
// 返回:
//   - 规范化并限幅后的转角，正值表示绕 +Y 旋转
func TurnStep(cameraDir, playerDir mgl64.Vec3, maxStep float64) float64 {
	cameraAngle := SignedAngleToX(cameraDir)
	playerAngle := SignedAngleToX(playerDir)
	return ClampTurn(NormalizeAngle(playerAngle-cameraAngle), maxStep)
}

// FacingFromYaw 返回偏航角 yaw 对应的朝向（局部 +Z 轴绕 Y 旋转后的方向）
func FacingFromYaw(yaw float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Sin(yaw), 0, math.Cos(yaw)}
}
