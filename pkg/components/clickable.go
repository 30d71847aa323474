package components

// ClickableComponent 标记实体可以被点击拾取
//
// 拾取使用实体的 MeshComponent 做射线求交，命中最近的实体后
// 推送 Message 通知。Order 是点击列表中的顺序，距离相同时顺序小的优先。
type ClickableComponent struct {
	Name      string // 对象名（如 "cube"）
	Message   string // 点击后的通知文本（如 "Cube clicked!"）
	Order     int
	IsEnabled bool // 是否可以被点击
}
