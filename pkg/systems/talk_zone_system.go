package systems

import (
	"math"

	"github.com/decker502/talkroom/pkg/components"
	"github.com/decker502/talkroom/pkg/ecs"
	"github.com/decker502/talkroom/pkg/game"
	"github.com/go-gl/mathgl/mgl64"
)

// InsideZone 判断水平位置是否在以 center 为中心、半边长 halfExtent 的正方形内（严格小于）
func InsideZone(pos, center mgl64.Vec3, halfExtent float64) bool {
	return math.Abs(pos.X()-center.X()) < halfExtent &&
		math.Abs(pos.Z()-center.Z()) < halfExtent
}

// TalkZoneSystem 检测角色进入通话区域
//
// 只在 不在区域 -> 在区域 的那一帧推送通知；
// 角色需要先离开（至少一帧在区域外）才会再次触发。
type TalkZoneSystem struct {
	entityManager *ecs.EntityManager
	state         *game.SceneState
	notifier      *game.Notifier
	playerEntity  ecs.EntityID
}

// NewTalkZoneSystem 创建通话区域系统
func NewTalkZoneSystem(em *ecs.EntityManager, state *game.SceneState, notifier *game.Notifier, playerEntity ecs.EntityID) *TalkZoneSystem {
	return &TalkZoneSystem{
		entityManager: em,
		state:         state,
		notifier:      notifier,
		playerEntity:  playerEntity,
	}
}

// Update 检测一帧，返回本帧是否触发了通知
func (s *TalkZoneSystem) Update() bool {
	pos := WorldPosition(s.entityManager, s.playerEntity)

	inside := false
	message := ""
	for _, id := range ecs.GetEntitiesWith2[*components.TalkZoneComponent, *components.TransformComponent](s.entityManager) {
		zone, _ := ecs.GetComponent[*components.TalkZoneComponent](s.entityManager, id)
		if InsideZone(pos, WorldPosition(s.entityManager, id), zone.HalfExtent) {
			inside = true
			message = zone.Message
			break
		}
	}

	if !inside {
		s.state.InTalkZone = false
		return false
	}
	if s.state.InTalkZone {
		return false
	}
	s.state.InTalkZone = true
	s.notifier.Push(message)
	return true
}
