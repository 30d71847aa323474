package anim

import (
	"math"
	"testing"

	"github.com/decker502/talkroom/internal/geometry"
	"github.com/decker502/talkroom/internal/model"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestModel 构造单节点模型，idle 片段把节点停在 x=0，run 片段在 1 秒内从 x=0 移到 x=2
func newTestModel() *model.Model {
	return &model.Model{
		Nodes: []model.Node{{
			Name: "hips", Parent: -1, Rotation: mgl64.QuatIdent(), Scale: mgl64.Vec3{1, 1, 1},
			Translation: mgl64.Vec3{0, 1, 0}, Mesh: 0, Skin: -1,
		}},
		Roots: []int{0},
		Meshes: []model.Mesh{{Primitives: []*model.Primitive{{
			Geometry: geometry.Box(1, 1, 1),
		}}}},
		Clips: []*model.Clip{
			{Name: "idle", Duration: 1, Channels: []model.Channel{{
				Node: 0, Path: model.PathTranslation,
				Times: []float64{0, 1}, Values: []float64{0, 1, 0, 0, 1, 0},
			}}},
			{Name: "run", Duration: 1, Channels: []model.Channel{{
				Node: 0, Path: model.PathTranslation,
				Times: []float64{0, 1}, Values: []float64{0, 1, 0, 2, 1, 0},
			}}},
			{Name: "TPose", Duration: 1},
		},
	}
}

func defaultStates() *StateSet {
	return NewStateSet([]string{"idle", "walk", "run"}, map[string]float64{"idle": 1, "walk": 0, "run": 0})
}

func TestSampleLinear(t *testing.T) {
	ch := &model.Channel{Path: model.PathTranslation, Times: []float64{0, 1, 2}, Values: []float64{0, 0, 0, 1, 0, 0, 1, 2, 0}}
	out := make([]float64, 3)

	tests := []struct {
		name string
		t    float64
		want []float64
	}{
		{"第一帧之前", -1, []float64{0, 0, 0}},
		{"中点", 0.5, []float64{0.5, 0, 0}},
		{"正好落在关键帧", 1, []float64{1, 0, 0}},
		{"第二段", 1.5, []float64{1, 1, 0}},
		{"最后一帧之后", 5, []float64{1, 2, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Sample(ch, tt.t, out)
			assert.InDeltaSlice(t, tt.want, out, 1e-9)
		})
	}
}

func TestSampleStepAndCubic(t *testing.T) {
	out := make([]float64, 3)

	step := &model.Channel{Path: model.PathScale, Interpolation: model.InterpolationStep,
		Times: []float64{0, 1}, Values: []float64{1, 1, 1, 2, 2, 2}}
	Sample(step, 0.9, out)
	assert.Equal(t, []float64{1, 1, 1}, out)

	// 每帧存储 in-tangent / value / out-tangent
	cubic := &model.Channel{Path: model.PathTranslation, Interpolation: model.InterpolationCubicSpline,
		Times: []float64{0, 1}, Values: []float64{
			9, 9, 9, 0, 0, 0, 9, 9, 9,
			9, 9, 9, 4, 0, 0, 9, 9, 9,
		}}
	Sample(cubic, 0.5, out)
	assert.InDeltaSlice(t, []float64{2, 0, 0}, out, 1e-9)
}

func TestSampleRotationShortestPath(t *testing.T) {
	q0 := mgl64.QuatIdent()
	q1 := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0}).Scale(-1) // 同一旋转的另一种表示
	ch := &model.Channel{Path: model.PathRotation, Times: []float64{0, 1},
		Values: []float64{q0.V[0], q0.V[1], q0.V[2], q0.W, q1.V[0], q1.V[1], q1.V[2], q1.W}}

	out := make([]float64, 4)
	Sample(ch, 0.5, out)
	q := mgl64.Quat{W: out[3], V: mgl64.Vec3{out[0], out[1], out[2]}}
	v := q.Rotate(mgl64.Vec3{0, 0, 1})
	assert.InDelta(t, math.Sin(math.Pi/4), v.X(), 1e-6, "应转过 45° 而不是 135°")
}

func TestClipActionIsCached(t *testing.T) {
	m := newTestModel()
	mx := NewMixer(m)
	a := mx.ClipAction(m.Clips[0])
	b := mx.ClipAction(m.Clips[0])
	assert.Same(t, a, b)
	assert.Len(t, mx.Actions(), 1)
}

func TestBindIgnoresUnknownClips(t *testing.T) {
	m := newTestModel()
	mx := NewMixer(m)
	states := defaultStates()

	bound := states.Bind(mx, m)
	require.Len(t, bound, 2, "TPose 不在状态表中")
	assert.Equal(t, 2, mx.RunningCount())

	walk, ok := states.Get("walk")
	require.True(t, ok)
	assert.Nil(t, walk.Action, "模型中没有 walk 片段")
	assert.False(t, states.Activate("walk"))
	assert.False(t, states.Activate("dance"))
}

func TestActivateIsIdempotent(t *testing.T) {
	m := newTestModel()
	mx := NewMixer(m)
	states := defaultStates()
	states.Bind(mx, m)

	states.SetWeight("run", 0.7)
	require.True(t, states.Activate("run"))
	mx.Update(0.25)
	require.True(t, states.Activate("run"))
	require.True(t, states.Activate("run"))

	run, _ := states.Get("run")
	assert.Equal(t, 0.7, run.Action.EffectiveWeight())
	assert.Equal(t, 1.0, run.Action.EffectiveTimeScale())
	assert.InDelta(t, 0.25, run.Action.Time(), 1e-12, "重复激活不重置播放时间")
	assert.Equal(t, 2, mx.RunningCount(), "仍然只有 idle 和 run 两个动作")
	assert.Len(t, mx.Actions(), 2)
}

func TestMixerBlendsNormalized(t *testing.T) {
	m := newTestModel()
	mx := NewMixer(m)
	states := defaultStates()
	states.Bind(mx, m)

	// 按下前进键：idle 0，run 5
	states.SetWeight("idle", 0)
	states.SetWeight("run", 5)
	states.Activate("run")
	states.Activate("idle")

	mx.Update(0.5)
	x := mx.Pose().Translation[0].X()
	assert.InDelta(t, 1.0, x, 1e-9, "只有 run 参与，权重 5 归一化后等同于 1")

	// 等权混合
	states.SetWeight("idle", 1)
	states.SetWeight("run", 1)
	states.Activate("run")
	states.Activate("idle")
	mx.Update(0) // 时间停在 0.5
	assert.InDelta(t, 0.5, mx.Pose().Translation[0].X(), 1e-9)
}

func TestMixerFillsWithRestPose(t *testing.T) {
	m := newTestModel()
	m.Nodes[0].Translation = mgl64.Vec3{10, 1, 0}
	mx := NewMixer(m)
	a := mx.ClipAction(m.Clips[1]).SetEffectiveWeight(0.5).Play()

	mx.Update(0.5)
	// run 在 0.5 秒处 x=1，剩余一半权重来自绑定姿势 x=10
	assert.InDelta(t, 5.5, mx.Pose().Translation[0].X(), 1e-9)

	a.SetEffectiveWeight(0)
	mx.Update(0.1)
	assert.InDelta(t, 10, mx.Pose().Translation[0].X(), 1e-9, "权重为 0 时回到绑定姿势")
}

func TestMixerLoopsAndSkipsDisabled(t *testing.T) {
	m := newTestModel()
	mx := NewMixer(m)
	a := mx.ClipAction(m.Clips[1]).Play()

	mx.Update(1.25)
	assert.InDelta(t, 0.25, a.Time(), 1e-9)

	a.SetEnabled(false)
	mx.Update(0.5)
	assert.InDelta(t, 0.25, a.Time(), 1e-9, "禁用的动作不推进时间")

	assert.True(t, a.IsRunning())
	assert.InDelta(t, 1.75, mx.Time(), 1e-9)
}
