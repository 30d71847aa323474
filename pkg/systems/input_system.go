package systems

import (
	"github.com/decker502/talkroom/pkg/components"
	"github.com/decker502/talkroom/pkg/ecs"
	"github.com/decker502/talkroom/pkg/game"
	"github.com/decker502/talkroom/pkg/utils"
)

// InputSystem 把一帧输入分发给各个系统
//
// 处理顺序：前进键按下/松开 -> 指针按下 -> 拖拽 -> 指针松开（即一次点击）。
// 弹窗打开时不应调用，弹窗输入由 ModalSystem 处理。
type InputSystem struct {
	entityManager *ecs.EntityManager
	state         *game.SceneState
	camera        *CameraSystem
	animation     *AnimationSystem
	pick          *PickSystem
	playerEntity  ecs.EntityID

	width, height int
}

// NewInputSystem 创建输入系统
func NewInputSystem(em *ecs.EntityManager, state *game.SceneState, camera *CameraSystem, animation *AnimationSystem, pick *PickSystem, playerEntity ecs.EntityID) *InputSystem {
	return &InputSystem{
		entityManager: em,
		state:         state,
		camera:        camera,
		animation:     animation,
		pick:          pick,
		playerEntity:  playerEntity,
	}
}

// SetViewport 设置逻辑屏幕尺寸（像素），点击换算 NDC 时使用
func (s *InputSystem) SetViewport(width, height int) {
	s.width, s.height = width, height
}

// Handle 处理一帧输入
func (s *InputSystem) Handle(frame utils.InputFrame) {
	if frame.MovePressed {
		s.StartMoving()
	}
	if frame.MoveReleased {
		s.StopMoving()
	}
	// 按住不放相当于浏览器的按键自动重复：模型就绪后的第一帧开始移动
	if frame.MoveHeld && !frame.MoveReleased && !s.state.MovingForward {
		s.StartMoving()
	}

	wasDown := s.state.PointerDown
	if frame.PointerPressed {
		s.state.PointerDown = true
	}
	// 按下那一帧的位移发生在按下之前，不算拖拽
	if wasDown && (frame.DeltaX != 0 || frame.DeltaY != 0) {
		s.camera.Drag(float64(frame.DeltaX), float64(frame.DeltaY))
	}
	if frame.PointerReleased {
		s.state.PointerDown = false
		s.pick.HandleClick(float64(frame.PointerX), float64(frame.PointerY), s.width, s.height)
	}
}

// StartMoving 前进键按下
//
// 模型未就绪时输入直接丢弃，不会排队到加载完成后执行；
// 键仍按住时由 Handle 在之后的帧重新触发。
func (s *InputSystem) StartMoving() {
	character, ok := s.character()
	if !ok || !s.state.AssetsReady || !character.Loaded() {
		return
	}
	s.animation.OnMoveStart(s.characterEntity())
	s.state.MovingForward = true
}

// StopMoving 前进键松开
func (s *InputSystem) StopMoving() {
	if character, ok := s.character(); ok && character.Loaded() {
		s.animation.OnMoveStop(s.characterEntity())
	}
	s.state.MovingForward = false
}

// SyncMoveKey 弹窗关闭后按键盘实际状态同步：弹窗期间松开的前进键补发松开处理
func (s *InputSystem) SyncMoveKey(held bool) {
	if s.state.MovingForward && !held {
		s.StopMoving()
	}
}

// SyncPointer 弹窗关闭后按指针实际状态同步：弹窗期间松开的指针结束拖拽，不算点击
func (s *InputSystem) SyncPointer(held bool) {
	if s.state.PointerDown && !held {
		s.state.PointerDown = false
	}
}

func (s *InputSystem) characterEntity() ecs.EntityID {
	player, ok := ecs.GetComponent[*components.PlayerComponent](s.entityManager, s.playerEntity)
	if !ok {
		return 0
	}
	return player.Character
}

func (s *InputSystem) character() (*components.CharacterComponent, bool) {
	return ecs.GetComponent[*components.CharacterComponent](s.entityManager, s.characterEntity())
}
