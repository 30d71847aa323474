package entities

import (
	"fmt"
	"math"

	"github.com/decker502/talkroom/internal/geometry"
	"github.com/decker502/talkroom/pkg/components"
	"github.com/decker502/talkroom/pkg/config"
	"github.com/decker502/talkroom/pkg/ecs"
	"github.com/decker502/talkroom/pkg/utils"
	"github.com/go-gl/mathgl/mgl64"
)

// 绘制层级，与 systems.Layer* 保持一致
const (
	layerGround = iota
	layerGrid
	layerDecal
	layerObjects
)

// edgeThresholdDeg 屏幕边框的折线阈值（度）
const edgeThresholdDeg = 1

// Room 房间场景中各实体的 ID
type Room struct {
	Environment ecs.EntityID
	Ground      ecs.EntityID
	Grid        ecs.EntityID

	// Container 承载相机和角色，移动时平移的是它
	Container ecs.EntityID
	Camera    ecs.EntityID
	Character ecs.EntityID

	TalkZone     ecs.EntityID
	Screen       ecs.EntityID
	ScreenBorder ecs.EntityID
	Label        ecs.EntityID

	// Objects 可点击物体，顺序与配置一致
	Objects []ecs.EntityID
}

// Clickables 返回点击列表：屏幕在前，其后是配置中的物体
func (r *Room) Clickables() []ecs.EntityID {
	out := make([]ecs.EntityID, 0, len(r.Objects)+1)
	out = append(out, r.Screen)
	return append(out, r.Objects...)
}

// NewRoom 按配置创建整个房间
//
// 角色模型此时尚未加载，CharacterComponent.Model 为 nil，
// 资源就绪后由场景填充。
//
// 参数:
//   - em: 实体管理器
//   - cfg: 已验证的场景配置
//
// 返回:
//   - *Room: 创建的实体
//   - error: 配置中出现无法创建的几何体
func NewRoom(em *ecs.EntityManager, cfg *config.SceneConfig) (*Room, error) {
	if em == nil {
		return nil, fmt.Errorf("entity manager cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("scene config cannot be nil")
	}

	room := &Room{}
	room.Environment = newEnvironment(em, cfg)
	room.Ground = newGround(em, cfg.Ground)
	room.Grid = newGrid(em, cfg.Grid)
	room.Container, room.Camera, room.Character = newPlayer(em, cfg)
	room.TalkZone = newTalkZone(em, cfg.TalkZone)
	room.Screen, room.ScreenBorder, room.Label = newScreen(em, cfg.Screen)

	for i, obj := range cfg.Objects {
		id, err := newObject(em, obj, i+1)
		if err != nil {
			return nil, err
		}
		room.Objects = append(room.Objects, id)
	}
	return room, nil
}

func newEnvironment(em *ecs.EntityManager, cfg *config.SceneConfig) ecs.EntityID {
	id := em.CreateEntity()
	lightDir := cfg.Lights.DirectionalPos.Mgl()
	if lightDir.Len() > 0 {
		lightDir = lightDir.Normalize()
	}
	ecs.AddComponent(em, id, &components.EnvironmentComponent{
		Background:       cfg.Background.Vec3(),
		FogColor:         cfg.Fog.Color.Vec3(),
		FogNear:          cfg.Fog.Near,
		FogFar:           cfg.Fog.Far,
		HemisphereSky:    cfg.Lights.HemisphereSky.Vec3(),
		HemisphereGround: cfg.Lights.HemisphereGround.Vec3(),
		LightColor:       cfg.Lights.Directional.Vec3(),
		LightDirection:   lightDir,
		Intensity:        cfg.Lights.Intensity,
	})
	return id
}

func newGround(em *ecs.EntityManager, cfg config.GroundConfig) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.TransformComponent{
		Rotation: mgl64.Vec3{-math.Pi / 2, 0, 0},
	})
	ecs.AddComponent(em, id, &components.MeshComponent{
		Mesh: geometry.PlaneSegments(cfg.Size, cfg.Size, cfg.Segments, cfg.Segments),
	})
	ecs.AddComponent(em, id, &components.MaterialComponent{
		Color:       cfg.Color.Vec3(),
		Side:        geometry.FrontSide,
		RenderOrder: layerGround,
		Fog:         true,
	})
	return id
}

func newGrid(em *ecs.EntityManager, cfg config.GridConfig) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.TransformComponent{})
	ecs.AddComponent(em, id, &components.MeshComponent{
		Mesh: geometry.Grid(cfg.Size, cfg.Divisions, cfg.CenterColor.Vec3(), cfg.LineColor.Vec3()),
	})
	ecs.AddComponent(em, id, &components.MaterialComponent{
		Color:       mgl64.Vec3{1, 1, 1},
		Unlit:       true,
		RenderOrder: layerGrid,
		Fog:         true,
		LineWidth:   1,
	})
	return id
}

// newPlayer 创建容器、相机（容器的子节点）和角色（容器的子节点）
func newPlayer(em *ecs.EntityManager, cfg *config.SceneConfig) (container, camera, character ecs.EntityID) {
	container = em.CreateEntity()
	ecs.AddComponent(em, container, &components.TransformComponent{})

	camera = em.CreateEntity()
	position := cfg.Camera.Position.Mgl()
	origin := cfg.Camera.Origin.Mgl()
	ecs.AddComponent(em, camera, &components.TransformComponent{
		Position: position,
		Parent:   container,
	})
	ecs.AddComponent(em, camera, &components.CameraComponent{
		Origin:      origin,
		Offset:      utils.SphericalFromVec3(position.Sub(origin)),
		FovDeg:      cfg.Camera.Fov,
		Near:        cfg.Camera.Near,
		Far:         cfg.Camera.Far,
		RotateSpeed: cfg.Camera.RotateSpeed,
		MinPhi:      cfg.Camera.MinPhi,
		MaxPhi:      cfg.Camera.MaxPhi(),
	})

	character = em.CreateEntity()
	ecs.AddComponent(em, character, &components.TransformComponent{Parent: container})
	ecs.AddComponent(em, character, &components.CharacterComponent{})
	ecs.AddComponent(em, character, &components.AnimationComponent{})
	ecs.AddComponent(em, character, &components.MaterialComponent{
		Side:        geometry.FrontSide,
		RenderOrder: layerObjects,
		Fog:         true,
	})

	ecs.AddComponent(em, container, &components.PlayerComponent{
		Character: character,
		Camera:    camera,
		Step:      cfg.Player.Step,
		MaxTurn:   cfg.Player.MaxTurn,
	})
	return container, camera, character
}

func newTalkZone(em *ecs.EntityManager, cfg config.TalkZoneConfig) ecs.EntityID {
	id := em.CreateEntity()
	size := cfg.HalfExtent * 2
	ecs.AddComponent(em, id, &components.TransformComponent{
		Position: cfg.Position.Mgl(),
		Rotation: mgl64.Vec3{-math.Pi / 2, 0, 0},
	})
	ecs.AddComponent(em, id, &components.MeshComponent{Mesh: geometry.Plane(size, size)})
	ecs.AddComponent(em, id, &components.MaterialComponent{
		Color:       cfg.Color.Vec3(),
		Opacity:     cfg.Opacity,
		Transparent: true,
		Unlit:       true,
		Side:        geometry.FrontSide,
		RenderOrder: layerDecal,
		Fog:         true,
	})
	ecs.AddComponent(em, id, &components.TalkZoneComponent{
		HalfExtent: cfg.HalfExtent,
		Message:    cfg.Message,
	})
	return id
}

// newScreen 创建屏幕、边框和标签；屏幕是点击列表的第一个对象
func newScreen(em *ecs.EntityManager, cfg config.ScreenConfig) (screen, border, label ecs.EntityID) {
	plane := geometry.Plane(cfg.Width, cfg.Height)

	screen = em.CreateEntity()
	ecs.AddComponent(em, screen, &components.TransformComponent{
		Position: cfg.Position.Mgl(),
		Rotation: cfg.Rotation.Mgl(),
	})
	ecs.AddComponent(em, screen, &components.MeshComponent{Mesh: plane})
	ecs.AddComponent(em, screen, &components.MaterialComponent{
		Color:       cfg.Color.Vec3(),
		Unlit:       true,
		Side:        geometry.FrontSide,
		RenderOrder: layerObjects,
		Fog:         true,
	})
	ecs.AddComponent(em, screen, &components.ClickableComponent{
		Name:      "screen",
		Message:   cfg.Message,
		Order:     0,
		IsEnabled: true,
	})

	border = em.CreateEntity()
	ecs.AddComponent(em, border, &components.TransformComponent{
		Position: cfg.Position.Mgl(),
		Rotation: cfg.Rotation.Mgl(),
	})
	ecs.AddComponent(em, border, &components.MeshComponent{Mesh: geometry.Edges(plane, edgeThresholdDeg)})
	ecs.AddComponent(em, border, &components.MaterialComponent{
		Color:       cfg.BorderColor.Vec3(),
		Unlit:       true,
		RenderOrder: layerObjects,
		Fog:         true,
		LineWidth:   1,
	})

	label = em.CreateEntity()
	ecs.AddComponent(em, label, &components.TransformComponent{Position: cfg.Label.Position.Mgl()})
	ecs.AddComponent(em, label, &components.LabelComponent{
		Text:    cfg.Label.Text,
		Size:    cfg.Label.Size,
		Color:   cfg.Label.Color.Vec3(),
		Visible: cfg.Label.Visible,
	})
	return screen, border, label
}

// ObjectMesh 按配置生成物体的几何体
func ObjectMesh(obj config.ObjectConfig) (*geometry.Mesh, error) {
	switch obj.Shape {
	case config.ShapeBox:
		return geometry.Box(obj.Size[0], obj.Size[1], obj.Size[2]), nil
	case config.ShapeSphere:
		return geometry.Sphere(obj.Radius, obj.Segments, obj.Segments), nil
	case config.ShapeCone:
		return geometry.Cone(obj.Radius, obj.Height, obj.Segments), nil
	default:
		return nil, fmt.Errorf("object '%s': unknown shape '%s'", obj.Name, obj.Shape)
	}
}

func newObject(em *ecs.EntityManager, obj config.ObjectConfig, order int) (ecs.EntityID, error) {
	mesh, err := ObjectMesh(obj)
	if err != nil {
		return 0, err
	}
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.TransformComponent{Position: obj.Position.Mgl()})
	ecs.AddComponent(em, id, &components.MeshComponent{Mesh: mesh})
	ecs.AddComponent(em, id, &components.MaterialComponent{
		Color:       obj.Color.Vec3(),
		Side:        geometry.FrontSide,
		RenderOrder: layerObjects,
		Fog:         true,
	})
	ecs.AddComponent(em, id, &components.ClickableComponent{
		Name:      obj.Name,
		Message:   obj.Message,
		Order:     order,
		IsEnabled: true,
	})
	return id, nil
}
