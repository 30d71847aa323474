package config

import (
	"fmt"
	"math"
	"os"

	"github.com/decker502/talkroom/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// DefaultSceneConfigPath 内置场景配置
const DefaultSceneConfigPath = "data/scene.yaml"

// Shape 可点击物体的几何类型
const (
	ShapeBox    = "box"
	ShapeSphere = "sphere"
	ShapeCone   = "cone"
)

// SceneConfig 场景配置
//
// 描述整个房间：背景与雾、灯光、地面和网格、相机、角色、通话区域、
// 屏幕以及可点击的物体。
//
// 配置文件位置: data/scene.yaml
type SceneConfig struct {
	Background Color           `yaml:"background"`
	Fog        FogConfig       `yaml:"fog"`
	Lights     LightsConfig    `yaml:"lights"`
	Ground     GroundConfig    `yaml:"ground"`
	Grid       GridConfig      `yaml:"grid"`
	Camera     CameraConfig    `yaml:"camera"`
	Player     PlayerConfig    `yaml:"player"`
	Model      ModelConfig     `yaml:"model"`
	Font       FontConfig      `yaml:"font"`
	Animation  AnimationConfig `yaml:"animation"`
	TalkZone   TalkZoneConfig  `yaml:"talkZone"`
	Screen     ScreenConfig    `yaml:"screen"`
	Objects    []ObjectConfig  `yaml:"objects"`
	Notify     NotifyConfig    `yaml:"notify"`
}

// FogConfig 线性雾
type FogConfig struct {
	Color Color   `yaml:"color"`
	Near  float64 `yaml:"near"`
	Far   float64 `yaml:"far"`
}

// LightsConfig 半球光 + 平行光
type LightsConfig struct {
	HemisphereSky    Color   `yaml:"hemisphereSky"`
	HemisphereGround Color   `yaml:"hemisphereGround"`
	Directional      Color   `yaml:"directional"`
	DirectionalPos   Vec3    `yaml:"directionalPosition"`
	Intensity        float64 `yaml:"intensity"`
}

// GroundConfig 地面
type GroundConfig struct {
	Size  float64 `yaml:"size"`
	Color Color   `yaml:"color"`
	// Segments 地面细分数，细分后雾按顶点计算
	Segments int `yaml:"segments"`
}

// GridConfig 网格辅助线
type GridConfig struct {
	Size        float64 `yaml:"size"`
	Divisions   int     `yaml:"divisions"`
	CenterColor Color   `yaml:"centerColor"`
	LineColor   Color   `yaml:"lineColor"`
}

// CameraConfig 跟随相机
type CameraConfig struct {
	Fov      float64 `yaml:"fov"` // 垂直视角（度）
	Near     float64 `yaml:"near"`
	Far      float64 `yaml:"far"`
	Position Vec3    `yaml:"position"` // 相对容器的初始位置
	Origin   Vec3    `yaml:"origin"`   // 注视点相对容器的偏移

	// RotateSpeed 拖拽每像素旋转的弧度
	RotateSpeed float64 `yaml:"rotateSpeed"`
	// MinPhi 最小极角（弧度）
	MinPhi float64 `yaml:"minPhi"`
	// MaxPhiPi 最大极角，以 π 为单位（0.35 表示 0.35π）
	MaxPhiPi float64 `yaml:"maxPhiPi"`
}

// MaxPhi 返回最大极角（弧度）
func (c CameraConfig) MaxPhi() float64 { return c.MaxPhiPi * math.Pi }

// PlayerConfig 角色移动参数
type PlayerConfig struct {
	Step    float64 `yaml:"step"`    // 每帧前进距离
	MaxTurn float64 `yaml:"maxTurn"` // 每帧最大转角（弧度）
}

// ModelConfig 角色模型
type ModelConfig struct {
	// URL 支持 http(s)://、data/ 嵌入路径或本地文件路径
	URL string `yaml:"url"`
}

// FontConfig 标签字体，URL 为空时使用内置 Go Regular 字体
type FontConfig struct {
	URL  string  `yaml:"url"`
	Size float64 `yaml:"size"`
}

// AnimationConfig 动画状态表
type AnimationConfig struct {
	States []AnimationState `yaml:"states"`

	// Moving 移动键按下时设置的权重，Stopped 移动键松开时设置的权重
	Moving  map[string]float64 `yaml:"moving"`
	Stopped map[string]float64 `yaml:"stopped"`

	// ActivateOrder 权重变化后按此顺序重新激活状态
	ActivateOrder []string `yaml:"activateOrder"`
}

// AnimationState 一个可识别的动画状态
type AnimationState struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
}

// StateNames 返回状态名列表
func (c AnimationConfig) StateNames() []string {
	names := make([]string, 0, len(c.States))
	for _, s := range c.States {
		names = append(names, s.Name)
	}
	return names
}

// InitialWeights 返回状态的初始权重
func (c AnimationConfig) InitialWeights() map[string]float64 {
	weights := make(map[string]float64, len(c.States))
	for _, s := range c.States {
		weights[s.Name] = s.Weight
	}
	return weights
}

// TalkZoneConfig 通话区域
type TalkZoneConfig struct {
	Position   Vec3    `yaml:"position"`
	HalfExtent float64 `yaml:"halfExtent"`
	Color      Color   `yaml:"color"`
	Opacity    float64 `yaml:"opacity"`
	Message    string  `yaml:"message"`
}

// ScreenConfig 白色屏幕及其边框
type ScreenConfig struct {
	Position    Vec3        `yaml:"position"`
	Rotation    Vec3        `yaml:"rotation"`
	Width       float64     `yaml:"width"`
	Height      float64     `yaml:"height"`
	Color       Color       `yaml:"color"`
	BorderColor Color       `yaml:"borderColor"`
	Message     string      `yaml:"message"`
	Label       LabelConfig `yaml:"label"`
}

// LabelConfig 屏幕上的文字
type LabelConfig struct {
	Text     string  `yaml:"text"`
	Visible  bool    `yaml:"visible"`
	Position Vec3    `yaml:"position"` // 世界坐标
	Size     float64 `yaml:"size"`     // 像素
	Color    Color   `yaml:"color"`
}

// ObjectConfig 可点击的基础几何体
type ObjectConfig struct {
	Name     string  `yaml:"name"`
	Shape    string  `yaml:"shape"` // box / sphere / cone
	Size     Vec3    `yaml:"size"`  // box 的宽高深
	Radius   float64 `yaml:"radius"`
	Height   float64 `yaml:"height"`
	Segments int     `yaml:"segments"`
	Position Vec3    `yaml:"position"`
	Color    Color   `yaml:"color"`
	Message  string  `yaml:"message"`
}

// NotifyConfig 通知弹窗
type NotifyConfig struct {
	ButtonText string  `yaml:"buttonText"`
	FontSize   float64 `yaml:"fontSize"`
}

// DefaultSceneConfig 返回内置的默认场景
func DefaultSceneConfig() *SceneConfig {
	return &SceneConfig{
		Background: 0xa0a0a0,
		Fog:        FogConfig{Color: 0xa0a0a0, Near: 10, Far: 50},
		Lights: LightsConfig{
			HemisphereSky:    0xffffff,
			HemisphereGround: 0x444444,
			Directional:      0xffffff,
			DirectionalPos:   Vec3{3, 10, 10},
			Intensity:        1,
		},
		Ground: GroundConfig{Size: 100, Color: 0x999999, Segments: 20},
		Grid:   GridConfig{Size: 100, Divisions: 100, CenterColor: 0x444444, LineColor: 0x888888},
		Camera: CameraConfig{
			Fov:         75,
			Near:        0.01,
			Far:         1000,
			Position:    Vec3{0, 2, -1},
			Origin:      Vec3{0, 1.5, 0},
			RotateSpeed: 0.02,
			MinPhi:      0.01,
			MaxPhiPi:    0.35,
		},
		Player: PlayerConfig{Step: 0.05, MaxTurn: 0.05},
		Model:  ModelConfig{URL: "https://threejs.org/examples/models/gltf/Xbot.glb"},
		Font:   FontConfig{Size: 24},
		Animation: AnimationConfig{
			States: []AnimationState{
				{Name: "idle", Weight: 1},
				{Name: "walk", Weight: 0},
				{Name: "run", Weight: 0},
			},
			Moving:        map[string]float64{"idle": 0, "run": 5},
			Stopped:       map[string]float64{"idle": 1, "run": 0},
			ActivateOrder: []string{"run", "idle"},
		},
		TalkZone: TalkZoneConfig{
			Position:   Vec3{0, 0.01, -5},
			HalfExtent: 1,
			Color:      0x00ff00,
			Opacity:    0.3,
			Message:    "Call starts",
		},
		Screen: ScreenConfig{
			Position:    Vec3{0, 2, -3},
			Rotation:    Vec3{0, math.Pi, 0},
			Width:       2,
			Height:      1,
			Color:       0xffffff,
			BorderColor: 0x000000,
			Message:     "Screen clicked!",
			Label: LabelConfig{
				Text:     "Screen",
				Visible:  false,
				Position: Vec3{-0.4, 1.7, -3.1},
				Size:     24,
				Color:    0x000000,
			},
		},
		Objects: []ObjectConfig{
			{Name: "cube", Shape: ShapeBox, Size: Vec3{1, 1, 1}, Position: Vec3{2, 0.5, 2}, Color: 0x0000ff, Message: "Cube clicked!"},
			{Name: "sphere", Shape: ShapeSphere, Radius: 0.5, Segments: 32, Position: Vec3{-2, 0.5, -2}, Color: 0xff0000, Message: "Sphere clicked!"},
			{Name: "cone", Shape: ShapeCone, Radius: 0.5, Height: 1, Segments: 32, Position: Vec3{3, 0.5, -3}, Color: 0x00ff00, Message: "Cone clicked!"},
		},
		Notify: NotifyConfig{ButtonText: "OK", FontSize: 20},
	}
}

// LoadSceneConfig 加载场景配置
//
// "data/" 开头的路径从嵌入资源读取，其余路径从文件系统读取。
// 文件中未出现的字段保留默认值。
//
// 参数:
//   - path: 配置文件路径（如 "data/scene.yaml"）
//
// 返回:
//   - *SceneConfig: 加载并验证后的配置
//   - error: 读取、解析或验证失败
func LoadSceneConfig(path string) (*SceneConfig, error) {
	var (
		data []byte
		err  error
	)
	if embedded.IsInitialized() && embedded.IsEmbeddedPath(path) {
		data, err = embedded.ReadFile(path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read scene config: %w", err)
	}
	return ParseSceneConfig(data)
}

// ParseSceneConfig 在默认配置之上解析 YAML 并验证
func ParseSceneConfig(data []byte) (*SceneConfig, error) {
	cfg := DefaultSceneConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse scene config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene config: %w", err)
	}
	return cfg, nil
}

// Validate 验证配置有效性
func (c *SceneConfig) Validate() error {
	if c.Fog.Near < 0 || c.Fog.Far <= c.Fog.Near {
		return fmt.Errorf("fog range invalid: near(%.2f) far(%.2f)", c.Fog.Near, c.Fog.Far)
	}
	if c.Ground.Size <= 0 {
		return fmt.Errorf("ground size must be > 0, got %.2f", c.Ground.Size)
	}
	if c.Ground.Segments < 1 {
		return fmt.Errorf("ground segments must be >= 1, got %d", c.Ground.Segments)
	}
	if c.Grid.Size <= 0 || c.Grid.Divisions < 1 {
		return fmt.Errorf("grid invalid: size(%.2f) divisions(%d)", c.Grid.Size, c.Grid.Divisions)
	}
	if err := c.Camera.validate(); err != nil {
		return err
	}
	if c.Player.Step < 0 {
		return fmt.Errorf("player step must be >= 0, got %.3f", c.Player.Step)
	}
	if c.Player.MaxTurn <= 0 {
		return fmt.Errorf("player maxTurn must be > 0, got %.3f", c.Player.MaxTurn)
	}
	if err := c.Animation.validate(); err != nil {
		return err
	}
	if c.TalkZone.HalfExtent <= 0 {
		return fmt.Errorf("talkZone halfExtent must be > 0, got %.2f", c.TalkZone.HalfExtent)
	}
	if c.TalkZone.Opacity < 0 || c.TalkZone.Opacity > 1 {
		return fmt.Errorf("talkZone opacity must be in [0,1], got %.2f", c.TalkZone.Opacity)
	}
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("screen size invalid: %.2fx%.2f", c.Screen.Width, c.Screen.Height)
	}

	seen := map[string]bool{"screen": true}
	for i, obj := range c.Objects {
		if obj.Name == "" {
			return fmt.Errorf("object %d: name is required", i)
		}
		if seen[obj.Name] {
			return fmt.Errorf("object '%s': duplicate name", obj.Name)
		}
		seen[obj.Name] = true
		if err := obj.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c CameraConfig) validate() error {
	if c.Fov <= 0 || c.Fov >= 180 {
		return fmt.Errorf("camera fov must be in (0,180), got %.2f", c.Fov)
	}
	if c.Near <= 0 || c.Far <= c.Near {
		return fmt.Errorf("camera clip range invalid: near(%.3f) far(%.3f)", c.Near, c.Far)
	}
	if c.MinPhi < 0 || c.MaxPhi() <= c.MinPhi || c.MaxPhi() > math.Pi {
		return fmt.Errorf("camera phi range invalid: min(%.3f) max(%.3f)", c.MinPhi, c.MaxPhi())
	}
	if c.Position.Mgl().Sub(c.Origin.Mgl()).Len() == 0 {
		return fmt.Errorf("camera position must differ from origin")
	}
	return nil
}

func (c AnimationConfig) validate() error {
	if len(c.States) == 0 {
		return fmt.Errorf("animation states must not be empty")
	}
	names := make(map[string]bool, len(c.States))
	for _, s := range c.States {
		if s.Name == "" {
			return fmt.Errorf("animation state name is required")
		}
		if names[s.Name] {
			return fmt.Errorf("animation state '%s': duplicate name", s.Name)
		}
		names[s.Name] = true
	}
	// 权重不限制在 [0,1]，run=5 需要原样保留
	for _, table := range []map[string]float64{c.Moving, c.Stopped} {
		for name, w := range table {
			if !names[name] {
				return fmt.Errorf("animation weight for unknown state '%s'", name)
			}
			if w < 0 {
				return fmt.Errorf("animation weight for '%s' must be >= 0, got %.2f", name, w)
			}
		}
	}
	for _, name := range c.ActivateOrder {
		if !names[name] {
			return fmt.Errorf("activateOrder references unknown state '%s'", name)
		}
	}
	return nil
}

func (o ObjectConfig) validate() error {
	switch o.Shape {
	case ShapeBox:
		if o.Size[0] <= 0 || o.Size[1] <= 0 || o.Size[2] <= 0 {
			return fmt.Errorf("object '%s': box size must be positive", o.Name)
		}
	case ShapeSphere:
		if o.Radius <= 0 || o.Segments < 3 {
			return fmt.Errorf("object '%s': sphere needs radius > 0 and segments >= 3", o.Name)
		}
	case ShapeCone:
		if o.Radius <= 0 || o.Height <= 0 || o.Segments < 3 {
			return fmt.Errorf("object '%s': cone needs radius, height > 0 and segments >= 3", o.Name)
		}
	default:
		return fmt.Errorf("object '%s': unknown shape '%s'", o.Name, o.Shape)
	}
	return nil
}
