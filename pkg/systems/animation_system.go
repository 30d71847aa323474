package systems

import (
	"log"

	"github.com/decker502/talkroom/internal/anim"
	"github.com/decker502/talkroom/internal/model"
	"github.com/decker502/talkroom/pkg/components"
	"github.com/decker502/talkroom/pkg/config"
	"github.com/decker502/talkroom/pkg/ecs"
)

// AnimationSystem 驱动角色的骨骼动画
//
// 状态表（idle / walk / run）来自配置，只有同名片段会被激活。
// 权重切换是瞬时的，没有交叉淡入淡出。
type AnimationSystem struct {
	entityManager *ecs.EntityManager
	config        config.AnimationConfig
}

// NewAnimationSystem 创建动画系统
func NewAnimationSystem(em *ecs.EntityManager, cfg config.AnimationConfig) *AnimationSystem {
	return &AnimationSystem{
		entityManager: em,
		config:        cfg,
	}
}

// Bind 在模型就绪后为角色创建混合器并激活识别到的状态
//
// 每个实体只绑定一次，重复调用直接返回。
func (s *AnimationSystem) Bind(id ecs.EntityID, m *model.Model) {
	if m == nil {
		return
	}
	animComp, ok := ecs.GetComponent[*components.AnimationComponent](s.entityManager, id)
	if !ok {
		animComp = &components.AnimationComponent{}
		ecs.AddComponent(s.entityManager, id, animComp)
	}
	if animComp.Mixer != nil {
		return
	}

	animComp.Mixer = anim.NewMixer(m)
	animComp.States = anim.NewStateSet(s.config.StateNames(), s.config.InitialWeights())
	animComp.Actions = animComp.States.Bind(animComp.Mixer, m)

	log.Printf("[Animation] 模型片段: %v, 已激活 %d 个", m.ClipNames(), len(animComp.Actions))
	for _, name := range animComp.States.Names() {
		if st, _ := animComp.States.Get(name); st.Action == nil {
			log.Printf("[Animation] 模型中没有片段 '%s'", name)
		}
	}
}

// Update 推进所有角色的动画时钟
func (s *AnimationSystem) Update(dt float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.AnimationComponent](s.entityManager) {
		animComp, _ := ecs.GetComponent[*components.AnimationComponent](s.entityManager, id)
		if animComp.Mixer != nil {
			animComp.Mixer.Update(dt)
		}
	}
}

// OnMoveStart 前进键按下：应用 moving 权重（idle 0, run 5）并按顺序重新激活
func (s *AnimationSystem) OnMoveStart(id ecs.EntityID) {
	s.applyWeights(id, s.config.Moving)
}

// OnMoveStop 前进键松开：应用 stopped 权重（idle 1, run 0）并按顺序重新激活
func (s *AnimationSystem) OnMoveStop(id ecs.EntityID) {
	s.applyWeights(id, s.config.Stopped)
}

func (s *AnimationSystem) applyWeights(id ecs.EntityID, weights map[string]float64) {
	animComp, ok := ecs.GetComponent[*components.AnimationComponent](s.entityManager, id)
	if !ok || animComp.States == nil {
		return
	}

	for _, name := range s.config.StateNames() {
		w, ok := weights[name]
		if !ok {
			continue
		}
		if w > 1 && !animComp.RunWeightWarned {
			// 原样保留超出 [0,1] 的权重，混合时按归一化加权平均处理
			log.Printf("[Animation] 状态 '%s' 的权重 %.1f 超出 [0,1]，保持原值", name, w)
			animComp.RunWeightWarned = true
		}
		animComp.States.SetWeight(name, w)
	}

	for _, name := range s.config.ActivateOrder {
		animComp.States.Activate(name)
	}
}

// Weight 返回状态当前的有效权重，状态不存在或未绑定时返回 false
func (s *AnimationSystem) Weight(id ecs.EntityID, name string) (float64, bool) {
	animComp, ok := ecs.GetComponent[*components.AnimationComponent](s.entityManager, id)
	if !ok || animComp.States == nil {
		return 0, false
	}
	st, ok := animComp.States.Get(name)
	if !ok || st.Action == nil {
		return 0, false
	}
	return st.Action.EffectiveWeight(), true
}
