package config

// 窗口布局常量
//
// 画面始终铺满窗口，逻辑尺寸等于窗口尺寸，这里只规定初始窗口大小。
const (
	// GameWindowWidth 初始窗口宽度
	GameWindowWidth = 1280
	// GameWindowHeight 初始窗口高度
	GameWindowHeight = 720

	// MinLayoutSize 逻辑尺寸下限，窗口最小化时避免出现 0 宽高
	MinLayoutSize = 1

	// WindowTitle 窗口标题
	WindowTitle = "Talk Room"

	// TickRate 固定逻辑帧率，每个 tick 的 deltaTime = 1 / TickRate
	TickRate = 60
)
