// Package utils 提供场景中通用的数学与输入工具函数
//
// coordinates.go 负责屏幕坐标与归一化设备坐标（NDC）之间的转换。
//
// # 坐标系统概述
//
//   - **屏幕坐标**：相对于窗口左上角，单位像素，Y 轴向下
//   - **NDC**：[-1, 1] 区间，原点在屏幕中心，Y 轴向上
//   - **世界坐标**：右手系，Y 轴向上，地面为 y = 0
package utils

import "github.com/go-gl/mathgl/mgl64"

// ScreenToNDC 将屏幕像素坐标转换为归一化设备坐标
//
//	ndcX = px / width * 2 - 1
//	ndcY = -(py / height) * 2 + 1
//
// width 或 height 为 0 时返回原点。
func ScreenToNDC(px, py float64, width, height int) mgl64.Vec2 {
	if width <= 0 || height <= 0 {
		return mgl64.Vec2{}
	}
	return mgl64.Vec2{
		px/float64(width)*2 - 1,
		-(py/float64(height))*2 + 1,
	}
}

// NDCToScreen 将 NDC 坐标转换为屏幕像素坐标
func NDCToScreen(ndc mgl64.Vec2, width, height int) (float64, float64) {
	x := (ndc.X() + 1) * 0.5 * float64(width)
	y := (1 - ndc.Y()) * 0.5 * float64(height)
	return x, y
}
