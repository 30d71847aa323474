package anim

import (
	"math"

	"github.com/decker502/talkroom/internal/model"
	"github.com/go-gl/mathgl/mgl64"
)

// Action 一个动画片段在混合器中的播放状态
type Action struct {
	clip      *model.Clip
	enabled   bool
	timeScale float64
	weight    float64
	time      float64
	running   bool
}

// Clip 返回动作对应的动画片段
func (a *Action) Clip() *model.Clip { return a.clip }

// SetEnabled 启用或禁用动作，禁用的动作不推进时间也不参与混合
func (a *Action) SetEnabled(enabled bool) *Action {
	a.enabled = enabled
	return a
}

// Enabled 返回动作是否启用
func (a *Action) Enabled() bool { return a.enabled }

// SetEffectiveTimeScale 设置播放速度倍率
func (a *Action) SetEffectiveTimeScale(scale float64) *Action {
	a.timeScale = scale
	return a
}

// EffectiveTimeScale 返回播放速度倍率
func (a *Action) EffectiveTimeScale() float64 { return a.timeScale }

// SetEffectiveWeight 设置混合权重
//
// 不做 [0,1] 限幅：混合时按权重做归一化加权平均，大于 1 的权重只影响与其他动作的相对比例。
func (a *Action) SetEffectiveWeight(weight float64) *Action {
	a.weight = weight
	return a
}

// EffectiveWeight 返回混合权重
func (a *Action) EffectiveWeight() float64 { return a.weight }

// Play 开始播放，已在播放时不做任何事（不重置时间）
func (a *Action) Play() *Action {
	a.running = true
	return a
}

// IsRunning 返回是否正在播放
func (a *Action) IsRunning() bool { return a.running }

// Time 返回当前播放时间（秒）
func (a *Action) Time() float64 { return a.time }

// accumulator 一个节点属性在本帧的加权累积值
type accumulator struct {
	generation uint64
	weight     float64
	value      [4]float64
}

// Mixer 管理一个模型上的全部动作并输出混合后的 Pose
type Mixer struct {
	model   *model.Model
	pose    *model.Pose
	actions map[*model.Clip]*Action
	order   []*Action

	accum      []accumulator
	generation uint64
	scratch    [4]float64
	time       float64
}

// NewMixer 为模型创建混合器，初始 Pose 为绑定姿势
func NewMixer(m *model.Model) *Mixer {
	return &Mixer{
		model:   m,
		pose:    m.RestPose(),
		actions: make(map[*model.Clip]*Action),
		accum:   make([]accumulator, len(m.Nodes)*3),
	}
}

// ClipAction 返回片段对应的动作，同一片段总是返回同一个动作
func (mx *Mixer) ClipAction(clip *model.Clip) *Action {
	if a, ok := mx.actions[clip]; ok {
		return a
	}
	a := &Action{clip: clip, enabled: true, timeScale: 1, weight: 1}
	mx.actions[clip] = a
	mx.order = append(mx.order, a)
	return a
}

// Actions 按创建顺序返回全部动作
func (mx *Mixer) Actions() []*Action { return mx.order }

// RunningCount 返回正在播放的动作数量
func (mx *Mixer) RunningCount() int {
	n := 0
	for _, a := range mx.order {
		if a.running {
			n++
		}
	}
	return n
}

// Time 返回混合器累计推进的时间
func (mx *Mixer) Time() float64 { return mx.time }

// Pose 返回最近一次 Update 的结果
func (mx *Mixer) Pose() *model.Pose { return mx.pose }

// Update 推进所有播放中的动作并重新计算 Pose
//
// 同一属性上多个动作的值按权重做归一化加权平均（平移/缩放线性插值，旋转球面插值）；
// 总权重小于 1 时剩余部分由绑定姿势补足。
func (mx *Mixer) Update(dt float64) {
	mx.time += dt
	mx.generation++

	for _, a := range mx.order {
		if !a.running || !a.enabled {
			continue
		}
		a.time += dt * a.timeScale
		if d := a.clip.Duration; d > 0 {
			a.time = math.Mod(a.time, d)
			if a.time < 0 {
				a.time += d
			}
		}
		if a.weight <= 0 {
			continue
		}
		for i := range a.clip.Channels {
			mx.accumulate(&a.clip.Channels[i], a.time, a.weight)
		}
	}

	mx.apply()
}

func (mx *Mixer) accumulate(ch *model.Channel, t, weight float64) {
	slot := ch.Node*3 + int(ch.Path)
	if slot < 0 || slot >= len(mx.accum) {
		return
	}
	n := ch.Path.Components()
	Sample(ch, t, mx.scratch[:])

	acc := &mx.accum[slot]
	if acc.generation != mx.generation {
		acc.generation = mx.generation
		acc.weight = weight
		copy(acc.value[:n], mx.scratch[:n])
		return
	}

	acc.weight += weight
	mix := weight / acc.weight
	if ch.Path == model.PathRotation {
		q := slerp(quatFrom(acc.value[:]), quatFrom(mx.scratch[:]), mix)
		acc.value = [4]float64{q.V[0], q.V[1], q.V[2], q.W}
		return
	}
	for i := 0; i < n; i++ {
		acc.value[i] += (mx.scratch[i] - acc.value[i]) * mix
	}
}

// apply 将累积结果写入 Pose，未被动画覆盖的属性保持绑定姿势
func (mx *Mixer) apply() {
	mx.pose.Reset(mx.model)

	for slot := range mx.accum {
		acc := &mx.accum[slot]
		if acc.generation != mx.generation {
			continue
		}
		node := slot / 3
		path := model.Path(slot % 3)
		w := math.Min(acc.weight, 1)

		switch path {
		case model.PathTranslation:
			rest := mx.pose.Translation[node]
			mx.pose.Translation[node] = lerpVec(rest, mgl64.Vec3{acc.value[0], acc.value[1], acc.value[2]}, w)
		case model.PathScale:
			rest := mx.pose.Scale[node]
			mx.pose.Scale[node] = lerpVec(rest, mgl64.Vec3{acc.value[0], acc.value[1], acc.value[2]}, w)
		case model.PathRotation:
			rest := mx.pose.Rotation[node]
			mx.pose.Rotation[node] = slerp(rest, quatFrom(acc.value[:]), w)
		}
	}
}

func lerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
