package systems

import (
	"testing"

	"github.com/decker502/talkroom/pkg/components"
	"github.com/decker502/talkroom/pkg/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weight(t *testing.T, r *testRoom, name string) float64 {
	t.Helper()
	w, ok := r.animation.Weight(r.room.Character, name)
	require.True(t, ok, name)
	return w
}

func TestAnimationBind(t *testing.T) {
	r := newTestRoom(t)
	r.load(t)

	animComp, ok := ecs.GetComponent[*components.AnimationComponent](r.em, r.room.Character)
	require.True(t, ok)
	require.NotNil(t, animComp.Mixer)

	// 只有 idle 和 run 被识别，sad_pose 被忽略，walk 在模型中不存在
	assert.Len(t, animComp.Actions, 2)
	assert.Equal(t, 2, animComp.Mixer.RunningCount())
	assert.Equal(t, 1.0, weight(t, r, "idle"))
	assert.Equal(t, 0.0, weight(t, r, "run"))

	_, ok = r.animation.Weight(r.room.Character, "walk")
	assert.False(t, ok)

	mixer := animComp.Mixer
	r.animation.Bind(r.room.Character, newTestModel())
	assert.Same(t, mixer, animComp.Mixer, "重复绑定不应替换混合器")
}

func TestAnimationMoveWeights(t *testing.T) {
	r := newTestRoom(t)
	r.load(t)
	animComp, _ := ecs.GetComponent[*components.AnimationComponent](r.em, r.room.Character)

	r.animation.OnMoveStart(r.room.Character)
	assert.Equal(t, 0.0, weight(t, r, "idle"))
	assert.Equal(t, 5.0, weight(t, r, "run"), "run 权重原样保留")
	assert.True(t, animComp.RunWeightWarned)

	// 重复按下不会产生新动作
	r.animation.OnMoveStart(r.room.Character)
	assert.Len(t, animComp.Mixer.Actions(), 2)
	assert.Equal(t, 2, animComp.Mixer.RunningCount())

	r.animation.OnMoveStop(r.room.Character)
	assert.Equal(t, 1.0, weight(t, r, "idle"))
	assert.Equal(t, 0.0, weight(t, r, "run"))
}

func TestAnimationUpdateAdvancesClock(t *testing.T) {
	r := newTestRoom(t)
	r.load(t)
	animComp, _ := ecs.GetComponent[*components.AnimationComponent](r.em, r.room.Character)

	r.animation.Update(1.0 / 60)
	r.animation.Update(1.0 / 60)
	assert.InDelta(t, 2.0/60, animComp.Mixer.Time(), 1e-12)
}

func TestAnimationWithoutModel(t *testing.T) {
	r := newTestRoom(t)

	assert.NotPanics(t, func() {
		r.animation.Bind(r.room.Character, nil)
		r.animation.OnMoveStart(r.room.Character)
		r.animation.Update(1.0 / 60)
	})
	_, ok := r.animation.Weight(r.room.Character, "idle")
	assert.False(t, ok)
}
