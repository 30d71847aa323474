package components

import (
	"github.com/decker502/talkroom/internal/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// MeshComponent 静态网格（局部坐标）
type MeshComponent struct {
	Mesh *geometry.Mesh
}

// MaterialComponent 描述网格的外观
type MaterialComponent struct {
	Color mgl64.Vec3 // RGB（0-1）

	// Opacity 只有 Transparent 为 true 时生效
	Opacity     float64
	Transparent bool

	// Unlit 为 true 时不参与光照（对应 basic 材质，线段始终不受光照）
	Unlit bool

	// Side 哪一面可见，同时决定拾取时的背面剔除
	Side geometry.Side

	// RenderOrder 绘制层级，数值小的先画；同层内按深度从远到近
	RenderOrder int

	// Fog 是否受雾影响
	Fog bool

	// LineWidth 线段网格的屏幕宽度（像素）
	LineWidth float64

	Hidden bool
}

// Alpha 返回材质最终的不透明度
func (m *MaterialComponent) Alpha() float64 {
	if !m.Transparent {
		return 1
	}
	return m.Opacity
}
