package components

import "github.com/decker502/talkroom/internal/model"

// CharacterComponent 角色模型
//
// 资源加载完成前 Model 为 nil，依赖模型的系统应直接跳过。
type CharacterComponent struct {
	Model   *model.Model
	Skinner *model.Skinner
}

// Loaded 模型是否已就绪
func (c *CharacterComponent) Loaded() bool { return c != nil && c.Model != nil }
