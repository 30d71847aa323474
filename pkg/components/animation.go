package components

import "github.com/decker502/talkroom/internal/anim"

// AnimationComponent 角色的骨骼动画状态
//
// Mixer 和 Actions 在资源就绪时初始化一次。
// States 是 idle / walk / run 状态表，移动键按下和松开时修改其中的权重。
type AnimationComponent struct {
	Mixer   *anim.Mixer
	States  *anim.StateSet
	Actions []*anim.Action

	// RunWeightWarned 越界的 run 权重只记录一次日志
	RunWeightWarned bool
}
