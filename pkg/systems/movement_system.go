package systems

import (
	"github.com/decker502/talkroom/pkg/components"
	"github.com/decker502/talkroom/pkg/ecs"
	"github.com/decker502/talkroom/pkg/game"
	"github.com/decker502/talkroom/pkg/utils"
)

// MovementSystem 相机相对的前进移动
//
// 每帧（前进键按下时）：
//  1. 取相机和角色的水平方向，计算各自与 +X 轴的有符号夹角
//  2. 夹角差规范化到 (-π, π] 并限制在 ±MaxTurn，角色绕 Y 轴旋转该角度
//  3. 容器沿相机水平方向前进 Step
//  4. 相机重新瞄准
//
// 角色模型未加载时整个步骤跳过。
type MovementSystem struct {
	entityManager *ecs.EntityManager
	state         *game.SceneState
	camera        *CameraSystem
	playerEntity  ecs.EntityID
}

// NewMovementSystem 创建移动系统，playerEntity 是带 PlayerComponent 的容器实体
func NewMovementSystem(em *ecs.EntityManager, state *game.SceneState, camera *CameraSystem, playerEntity ecs.EntityID) *MovementSystem {
	return &MovementSystem{
		entityManager: em,
		state:         state,
		camera:        camera,
		playerEntity:  playerEntity,
	}
}

// Update 执行一帧移动，返回是否发生了移动
func (s *MovementSystem) Update() bool {
	if !s.state.MovingForward {
		return false
	}

	player, ok := ecs.GetComponent[*components.PlayerComponent](s.entityManager, s.playerEntity)
	if !ok {
		return false
	}
	character, ok := ecs.GetComponent[*components.CharacterComponent](s.entityManager, player.Character)
	if !ok || !character.Loaded() {
		return false
	}
	container, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, s.playerEntity)
	if !ok {
		return false
	}
	body, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, player.Character)
	if !ok {
		return false
	}

	cameraDir, ok := utils.HorizontalDirection(s.camera.LookDirection())
	if !ok {
		return false
	}
	// 容器不旋转，角色世界朝向即其局部 +Z 绕 Y 旋转 yaw
	playerDir := utils.FacingFromYaw(body.Yaw())

	body.RotateY(utils.TurnStep(cameraDir, playerDir, player.MaxTurn))
	container.Position = container.Position.Add(cameraDir.Mul(player.Step))

	s.camera.Aim()
	return true
}
