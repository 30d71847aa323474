package systems

import (
	"math"

	"github.com/decker502/talkroom/internal/geometry"
	"github.com/decker502/talkroom/pkg/components"
	"github.com/decker502/talkroom/pkg/ecs"
	"github.com/decker502/talkroom/pkg/game"
	"github.com/decker502/talkroom/pkg/utils"
	"github.com/go-gl/mathgl/mgl64"
)

// PickSystem 点击拾取：从相机发出射线，与可点击列表求交，命中最近的对象
type PickSystem struct {
	entityManager *ecs.EntityManager
	camera        *CameraSystem
	notifier      *game.Notifier
}

// NewPickSystem 创建拾取系统
func NewPickSystem(em *ecs.EntityManager, camera *CameraSystem, notifier *game.Notifier) *PickSystem {
	return &PickSystem{
		entityManager: em,
		camera:        camera,
		notifier:      notifier,
	}
}

// Pick 返回 NDC 点下最近的可点击实体
//
// 距离相同时点击列表中靠前（Order 小）的对象优先。
// 单面材质会剔除背面，与渲染时的可见面一致。
func (s *PickSystem) Pick(ndc mgl64.Vec2, aspect float64) (ecs.EntityID, bool) {
	ray := s.camera.RayFromNDC(ndc, aspect)

	var (
		best      ecs.EntityID
		bestDist  = math.Inf(1)
		bestOrder int
		found     bool
	)
	for _, id := range ecs.GetEntitiesWith2[*components.ClickableComponent, *components.MeshComponent](s.entityManager) {
		clickable, _ := ecs.GetComponent[*components.ClickableComponent](s.entityManager, id)
		if !clickable.IsEnabled {
			continue
		}
		mesh, _ := ecs.GetComponent[*components.MeshComponent](s.entityManager, id)
		side := geometry.FrontSide
		if mat, ok := ecs.GetComponent[*components.MaterialComponent](s.entityManager, id); ok {
			side = mat.Side
		}

		dist, hit := ray.IntersectMesh(mesh.Mesh, WorldMatrix(s.entityManager, id), side)
		if !hit {
			continue
		}
		if !found || dist < bestDist || (dist == bestDist && clickable.Order < bestOrder) {
			best, bestDist, bestOrder, found = id, dist, clickable.Order, true
		}
	}
	return best, found
}

// HandleClick 处理一次屏幕点击，命中时推送对象的通知并返回该实体
func (s *PickSystem) HandleClick(px, py float64, width, height int) (ecs.EntityID, bool) {
	if width <= 0 || height <= 0 {
		return 0, false
	}
	ndc := utils.ScreenToNDC(px, py, width, height)
	id, ok := s.Pick(ndc, float64(width)/float64(height))
	if !ok {
		return 0, false
	}
	clickable, _ := ecs.GetComponent[*components.ClickableComponent](s.entityManager, id)
	if clickable.Message != "" {
		s.notifier.Push(clickable.Message)
	}
	return id, true
}
