package anim

import "github.com/decker502/talkroom/internal/model"

// State 一个可识别的动画状态（按片段名匹配）及其配置权重
type State struct {
	Name   string
	Weight float64
	Action *Action // 模型中没有同名片段时为 nil
}

// StateSet 固定的动画状态表
//
// 只有名称出现在表中的片段会被绑定和激活，其余片段被忽略。
type StateSet struct {
	order  []string
	states map[string]*State
}

// NewStateSet 按给定顺序创建状态表
func NewStateSet(names []string, weights map[string]float64) *StateSet {
	s := &StateSet{states: make(map[string]*State, len(names))}
	for _, name := range names {
		if _, dup := s.states[name]; dup {
			continue
		}
		s.order = append(s.order, name)
		s.states[name] = &State{Name: name, Weight: weights[name]}
	}
	return s
}

// Names 返回状态名称（保持创建顺序）
func (s *StateSet) Names() []string { return s.order }

// Get 返回指定状态
func (s *StateSet) Get(name string) (*State, bool) {
	st, ok := s.states[name]
	return st, ok
}

// Bind 为模型中与状态同名的片段创建动作并激活，返回绑定的数量
//
// 按模型中片段的顺序遍历，不识别的片段直接跳过。
func (s *StateSet) Bind(mx *Mixer, m *model.Model) []*Action {
	bound := make([]*Action, 0, len(s.order))
	for _, clip := range m.Clips {
		st, ok := s.states[clip.Name]
		if !ok {
			continue
		}
		st.Action = mx.ClipAction(clip)
		s.activate(st)
		bound = append(bound, st.Action)
	}
	return bound
}

// SetWeight 修改状态的配置权重，不会立即作用到动作上，需要再调用 Activate
func (s *StateSet) SetWeight(name string, weight float64) {
	if st, ok := s.states[name]; ok {
		st.Weight = weight
	}
}

// Activate 启用状态对应的动作：速度 1、权重取配置值并开始播放
//
// 幂等：重复调用不会产生新的动作，也不会重置播放时间。
// 状态不存在或没有绑定片段时返回 false。
func (s *StateSet) Activate(name string) bool {
	st, ok := s.states[name]
	if !ok || st.Action == nil {
		return false
	}
	s.activate(st)
	return true
}

func (s *StateSet) activate(st *State) {
	st.Action.SetEnabled(true).
		SetEffectiveTimeScale(1).
		SetEffectiveWeight(st.Weight).
		Play()
}
