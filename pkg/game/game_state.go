package game

// SceneState 房间场景的交互状态
//
// 输入处理和各个系统都通过参数拿到同一个 *SceneState，不使用包级变量。
// 所有字段只在主循环（ebiten Update）中读写。
type SceneState struct {
	// MovingForward 前进键处于按下状态
	MovingForward bool

	// PointerDown 指针按下，拖拽会旋转相机
	PointerDown bool

	// InTalkZone 上一帧角色是否在通话区域内，用于只在进入时触发一次
	InTalkZone bool

	// AssetsReady 资源加载结果已被场景消费（无论模型是否加载成功）
	AssetsReady bool
}

// NewSceneState 创建初始状态：静止、未加载
func NewSceneState() *SceneState {
	return &SceneState{}
}
