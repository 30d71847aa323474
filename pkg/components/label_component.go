package components

import "github.com/go-gl/mathgl/mgl64"

// LabelComponent 附着在实体上的文字，渲染时投影到屏幕
type LabelComponent struct {
	Text string

	// Offset 相对实体位置的世界坐标偏移
	Offset  mgl64.Vec3
	Size    float64
	Color   mgl64.Vec3
	Visible bool
}
