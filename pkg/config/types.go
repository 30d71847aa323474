package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// Color 24 位 RGB 颜色（0xRRGGBB）
//
// YAML 中既可以写整数（0xa0a0a0），也可以写字符串（"#a0a0a0"）。
type Color uint32

// Vec3 返回 0-1 范围的 RGB 分量
func (c Color) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{
		float64((c>>16)&0xff) / 255,
		float64((c>>8)&0xff) / 255,
		float64(c&0xff) / 255,
	}
}

// String 返回 "#rrggbb" 形式
func (c Color) String() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xffffff)
}

// UnmarshalYAML 支持整数和 "#rrggbb" 两种写法
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("color at line %d: expected scalar", node.Line)
	}
	raw := strings.TrimSpace(node.Value)
	base := 0
	if strings.HasPrefix(raw, "#") {
		raw = raw[1:]
		base = 16
	}
	v, err := strconv.ParseUint(raw, base, 32)
	if err != nil {
		return fmt.Errorf("color %q: %w", node.Value, err)
	}
	if v > 0xffffff {
		return fmt.Errorf("color %q out of range", node.Value)
	}
	*c = Color(v)
	return nil
}

// Vec3 三维坐标，YAML 中写作 [x, y, z]
type Vec3 [3]float64

// Mgl 转换为 mgl64.Vec3
func (v Vec3) Mgl() mgl64.Vec3 { return mgl64.Vec3(v) }

// UnmarshalYAML 要求恰好三个分量
func (v *Vec3) UnmarshalYAML(node *yaml.Node) error {
	var raw []float64
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("vec3: %w", err)
	}
	if len(raw) != 3 {
		return fmt.Errorf("vec3 at line %d: expected 3 components, got %d", node.Line, len(raw))
	}
	copy(v[:], raw)
	return nil
}
