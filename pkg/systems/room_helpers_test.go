package systems

import (
	"testing"

	"github.com/decker502/talkroom/internal/geometry"
	"github.com/decker502/talkroom/internal/model"
	"github.com/decker502/talkroom/pkg/components"
	"github.com/decker502/talkroom/pkg/config"
	"github.com/decker502/talkroom/pkg/ecs"
	"github.com/decker502/talkroom/pkg/entities"
	"github.com/decker502/talkroom/pkg/game"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

const (
	testWidth  = 1600
	testHeight = 900
	testAspect = float64(testWidth) / float64(testHeight)
)

// testRoom 默认配置下的完整房间和全部系统
type testRoom struct {
	em       *ecs.EntityManager
	cfg      *config.SceneConfig
	room     *entities.Room
	state    *game.SceneState
	notifier *game.Notifier

	camera    *CameraSystem
	animation *AnimationSystem
	movement  *MovementSystem
	pick      *PickSystem
	talkZone  *TalkZoneSystem
	input     *InputSystem
	modal     *ModalSystem
}

func newTestRoom(t *testing.T) *testRoom {
	t.Helper()

	em := ecs.NewEntityManager()
	cfg := config.DefaultSceneConfig()
	room, err := entities.NewRoom(em, cfg)
	require.NoError(t, err)

	r := &testRoom{
		em:       em,
		cfg:      cfg,
		room:     room,
		state:    game.NewSceneState(),
		notifier: game.NewNotifier(),
	}
	r.camera = NewCameraSystem(em, room.Camera)
	r.animation = NewAnimationSystem(em, cfg.Animation)
	r.movement = NewMovementSystem(em, r.state, r.camera, room.Container)
	r.pick = NewPickSystem(em, r.camera, r.notifier)
	r.talkZone = NewTalkZoneSystem(em, r.state, r.notifier, room.Container)
	r.input = NewInputSystem(em, r.state, r.camera, r.animation, r.pick, room.Container)
	r.input.SetViewport(testWidth, testHeight)
	r.modal = NewModalSystem(r.notifier, nil, cfg.Notify.ButtonText)
	return r
}

// load 模拟资源加载完成
func (r *testRoom) load(t *testing.T) *model.Model {
	t.Helper()
	m := newTestModel()
	character, ok := ecs.GetComponent[*components.CharacterComponent](r.em, r.room.Character)
	require.True(t, ok)
	character.Model = m
	character.Skinner = model.NewSkinner(m)
	r.animation.Bind(r.room.Character, m)
	r.state.AssetsReady = true
	return m
}

func (r *testRoom) containerTransform(t *testing.T) *components.TransformComponent {
	t.Helper()
	tr, ok := ecs.GetComponent[*components.TransformComponent](r.em, r.room.Container)
	require.True(t, ok)
	return tr
}

func (r *testRoom) characterTransform(t *testing.T) *components.TransformComponent {
	t.Helper()
	tr, ok := ecs.GetComponent[*components.TransformComponent](r.em, r.room.Character)
	require.True(t, ok)
	return tr
}

// moveTo 直接把容器放到指定水平位置并重新瞄准
func (r *testRoom) moveTo(t *testing.T, x, z float64) {
	t.Helper()
	r.containerTransform(t).Position = mgl64.Vec3{x, 0, z}
	r.camera.Aim()
}

// newTestModel 单节点模型：一个立方体网格，idle / run 两个片段以及一个不识别的片段
func newTestModel() *model.Model {
	return &model.Model{
		Nodes: []model.Node{{
			Name: "hips", Parent: -1, Rotation: mgl64.QuatIdent(), Scale: mgl64.Vec3{1, 1, 1},
			Translation: mgl64.Vec3{0, 1, 0}, Mesh: 0, Skin: -1,
		}},
		Roots: []int{0},
		Meshes: []model.Mesh{{Primitives: []*model.Primitive{{
			Geometry: geometry.Box(0.5, 1.8, 0.3),
			Color:    mgl64.Vec4{0.6, 0.6, 0.6, 1},
		}}}},
		Clips: []*model.Clip{
			{Name: "idle", Duration: 1, Channels: []model.Channel{{
				Node: 0, Path: model.PathTranslation,
				Times: []float64{0, 1}, Values: []float64{0, 1, 0, 0, 1, 0},
			}}},
			{Name: "run", Duration: 1, Channels: []model.Channel{{
				Node: 0, Path: model.PathTranslation,
				Times: []float64{0, 1}, Values: []float64{0, 1, 0, 0, 1.2, 0},
			}}},
			{Name: "sad_pose", Duration: 1},
		},
	}
}
