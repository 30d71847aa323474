// Package model 描述从 glTF 资源解码得到的角色模型：节点层级、网格、蒙皮和动画片段
//
// 数据解码一次后只读，播放状态（Pose）由调用方持有，
// 因此同一个 Model 可以被多个实例共享。
package model

import (
	"errors"

	"github.com/decker502/talkroom/internal/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrNoMeshes 表示资源中没有可渲染的三角形网格
var ErrNoMeshes = errors.New("model has no triangle meshes")

// Node 节点的静止（绑定）变换与层级关系
type Node struct {
	Name     string
	Parent   int // -1 表示根节点
	Children []int

	Translation mgl64.Vec3
	Rotation    mgl64.Quat
	Scale       mgl64.Vec3
	// Matrix 非空时节点使用固定矩阵，动画通道对它无效
	Matrix *mgl64.Mat4

	Mesh int // -1 表示无网格
	Skin int // -1 表示无蒙皮
}

// Primitive 网格的一个图元
type Primitive struct {
	Geometry *geometry.Mesh
	// Joints / Weights 为空表示非蒙皮图元
	Joints  [][4]uint16
	Weights [][4]float32
	// Color 基础颜色 RGBA（0-1）
	Color mgl64.Vec4
}

// Mesh 一组图元
type Mesh struct {
	Name       string
	Primitives []*Primitive
}

// Skin 蒙皮：关节节点索引与逆绑定矩阵
type Skin struct {
	Joints      []int
	InverseBind []mgl64.Mat4
}

// Path 动画通道作用的属性
type Path int

const (
	PathTranslation Path = iota
	PathRotation
	PathScale
)

// Components 返回属性每个关键帧的分量数
func (p Path) Components() int {
	if p == PathRotation {
		return 4
	}
	return 3
}

// String 返回属性名
func (p Path) String() string {
	switch p {
	case PathTranslation:
		return "translation"
	case PathRotation:
		return "rotation"
	case PathScale:
		return "scale"
	}
	return "unknown"
}

// Interpolation 关键帧插值方式
type Interpolation int

const (
	InterpolationLinear Interpolation = iota
	InterpolationStep
	// InterpolationCubicSpline 每个关键帧存储 in-tangent、value、out-tangent 三组值
	InterpolationCubicSpline
)

// Channel 单个节点属性的关键帧序列
type Channel struct {
	Node          int
	Path          Path
	Interpolation Interpolation
	Times         []float64
	// Values 扁平存储，旋转为 (x, y, z, w)
	Values []float64
}

// Clip 命名动画片段
type Clip struct {
	Name     string
	Duration float64
	Channels []Channel
}

// Model 解码后的完整模型
type Model struct {
	Nodes  []Node
	Roots  []int
	Meshes []Mesh
	Skins  []Skin
	Clips  []*Clip
}

// ClipByName 按名称查找动画片段，找不到返回 nil
func (m *Model) ClipByName(name string) *Clip {
	for _, c := range m.Clips {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ClipNames 返回全部动画片段名称
func (m *Model) ClipNames() []string {
	names := make([]string, 0, len(m.Clips))
	for _, c := range m.Clips {
		names = append(names, c.Name)
	}
	return names
}
