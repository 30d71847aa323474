package scenes

import (
	"context"
	"fmt"
	"image/color"
	"log"

	"github.com/decker502/talkroom/internal/model"
	"github.com/decker502/talkroom/pkg/components"
	"github.com/decker502/talkroom/pkg/config"
	"github.com/decker502/talkroom/pkg/ecs"
	"github.com/decker502/talkroom/pkg/entities"
	"github.com/decker502/talkroom/pkg/game"
	"github.com/decker502/talkroom/pkg/systems"
	"github.com/decker502/talkroom/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// builtinFontKey 内置字体在 Face 缓存中的键
const builtinFontKey = "builtin"

var statusTextColor = color.RGBA{30, 30, 30, 255}

// RoomScene 三维会议室
//
// 每个 tick 的处理顺序：
//  1. 资源就绪（只处理一次）
//  2. 弹窗打开时只处理弹窗输入，其余全部暂停
//  3. 输入：前进键、拖拽旋转相机、点击拾取
//  4. 动画时钟前进
//  5. 前进移动与转向
//  6. 通话区域检测
type RoomScene struct {
	cfg             *config.SceneConfig
	resourceManager *game.ResourceManager

	entityManager *ecs.EntityManager
	state         *game.SceneState
	notifier      *game.Notifier
	room          *entities.Room
	poller        *utils.InputPoller

	// assets 资源加载结果，消费后置为 nil
	assets   <-chan game.AssetBundle
	modelErr error

	cameraSystem    *systems.CameraSystem
	animationSystem *systems.AnimationSystem
	movementSystem  *systems.MovementSystem
	pickSystem      *systems.PickSystem
	talkZoneSystem  *systems.TalkZoneSystem
	inputSystem     *systems.InputSystem
	modalSystem     *systems.ModalSystem
	renderSystem    *systems.RenderSystem

	statusFace *text.GoTextFace

	width, height int
}

// NewRoomScene 创建房间场景并开始后台加载角色模型和字体
//
// 参数:
//   - ctx: 控制后台加载的生命周期
//   - cfg: 已验证的场景配置
//   - rm: 资源管理器
func NewRoomScene(ctx context.Context, cfg *config.SceneConfig, rm *game.ResourceManager) (*RoomScene, error) {
	assets := rm.LoadAssetsAsync(ctx, game.AssetRequest{
		ModelURL: cfg.Model.URL,
		FontURL:  cfg.Font.URL,
	})
	return newRoomScene(ctx, cfg, rm, assets)
}

// newRoomScene 使用给定的资源通道创建场景（测试时可以手动投递资源）
func newRoomScene(ctx context.Context, cfg *config.SceneConfig, rm *game.ResourceManager, assets <-chan game.AssetBundle) (*RoomScene, error) {
	em := ecs.NewEntityManager()
	room, err := entities.NewRoom(em, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build room: %w", err)
	}

	s := &RoomScene{
		cfg:             cfg,
		resourceManager: rm,
		entityManager:   em,
		state:           game.NewSceneState(),
		notifier:        game.NewNotifier(),
		room:            room,
		poller:          utils.NewInputPoller(nil),
		assets:          assets,
	}

	s.cameraSystem = systems.NewCameraSystem(em, room.Camera)
	s.animationSystem = systems.NewAnimationSystem(em, cfg.Animation)
	s.movementSystem = systems.NewMovementSystem(em, s.state, s.cameraSystem, room.Container)
	s.pickSystem = systems.NewPickSystem(em, s.cameraSystem, s.notifier)
	s.talkZoneSystem = systems.NewTalkZoneSystem(em, s.state, s.notifier, room.Container)
	s.inputSystem = systems.NewInputSystem(em, s.state, s.cameraSystem, s.animationSystem, s.pickSystem, room.Container)
	s.renderSystem = systems.NewRenderSystem(em, s.cameraSystem)

	// 内置字体同步加载，保证加载提示和弹窗立即可用
	builtin, err := rm.LoadFontSource(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in font: %w", err)
	}
	s.statusFace = rm.Face(builtin, builtinFontKey, cfg.Notify.FontSize)
	s.modalSystem = systems.NewModalSystem(s.notifier, s.statusFace, cfg.Notify.ButtonText)

	log.Printf("[RoomScene] 场景已创建: %d 个实体, %d 个可点击对象", em.Count(), len(room.Clickables()))
	return s, nil
}

// Resize 实现 game.Resizable
func (s *RoomScene) Resize(width, height int) {
	s.width, s.height = width, height
	s.inputSystem.SetViewport(width, height)
}

// Update 实现 game.Scene
func (s *RoomScene) Update(deltaTime float64) {
	s.Advance(deltaTime, s.poller.Poll())
}

// Advance 用给定的输入推进一帧
func (s *RoomScene) Advance(deltaTime float64, frame utils.InputFrame) {
	s.consumeAssets()

	if s.modalSystem.IsOpen() {
		if s.modalSystem.HandleInput(frame, s.width, s.height) && !s.modalSystem.IsOpen() {
			// 弹窗期间松开的前进键和指针收不到，关闭时按实际状态补处理
			s.inputSystem.SyncMoveKey(frame.MoveHeld)
			s.inputSystem.SyncPointer(frame.PointerHeld)
		}
		return
	}

	s.inputSystem.Handle(frame)
	if s.modalSystem.IsOpen() {
		return
	}

	s.animationSystem.Update(deltaTime)
	s.movementSystem.Update()
	s.talkZoneSystem.Update()
}

// consumeAssets 资源就绪后挂载模型并激活动画，只执行一次
func (s *RoomScene) consumeAssets() {
	if s.assets == nil {
		return
	}
	var (
		bundle game.AssetBundle
		ok     bool
	)
	select {
	case bundle, ok = <-s.assets:
	default:
		return
	}
	s.assets = nil
	s.state.AssetsReady = true
	if !ok {
		s.modelErr = fmt.Errorf("asset loader closed without result")
		return
	}

	if bundle.Model != nil {
		s.attachModel(bundle.Model)
	} else {
		s.modelErr = bundle.ModelErr
		log.Printf("[RoomScene] 角色模型不可用，移动已禁用: %v", bundle.ModelErr)
	}

	key, src := s.cfg.Font.URL, bundle.Font
	if src == nil {
		// 字体加载失败时标签退回内置字体
		key = builtinFontKey
		src, _ = s.resourceManager.LoadFontSource(context.Background(), "")
	}
	s.renderSystem.SetLabelFace(s.resourceManager.Face(src, key, s.cfg.Font.Size))
}

func (s *RoomScene) attachModel(m *model.Model) {
	character, ok := ecs.GetComponent[*components.CharacterComponent](s.entityManager, s.room.Character)
	if !ok {
		return
	}
	character.Model = m
	character.Skinner = model.NewSkinner(m)
	s.animationSystem.Bind(s.room.Character, m)
}

// Draw 实现 game.Scene
func (s *RoomScene) Draw(screen *ebiten.Image) {
	s.renderSystem.Draw(screen)

	switch {
	case !s.state.AssetsReady:
		s.drawStatus(screen, "Loading model...")
	case s.modelErr != nil:
		s.drawStatus(screen, "Model unavailable")
	}

	s.modalSystem.Draw(screen)
}

func (s *RoomScene) drawStatus(screen *ebiten.Image, msg string) {
	if s.statusFace == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(12, 12)
	op.ColorScale.ScaleWithColor(statusTextColor)
	text.Draw(screen, msg, s.statusFace, op)
}

// State 返回场景交互状态（只读使用）
func (s *RoomScene) State() *game.SceneState { return s.state }

// Notifier 返回通知队列
func (s *RoomScene) Notifier() *game.Notifier { return s.notifier }

// Room 返回场景中的实体 ID
func (s *RoomScene) Room() *entities.Room { return s.room }

// EntityManager 返回实体管理器
func (s *RoomScene) EntityManager() *ecs.EntityManager { return s.entityManager }
