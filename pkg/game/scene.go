package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a screen of the application (currently only the room).
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	// screen is the target image where the scene should be drawn.
	Draw(screen *ebiten.Image)
}

// Resizable 是一个可选接口，场景需要知道逻辑屏幕尺寸时实现
//
// 点击拾取需要把像素坐标换算成 NDC，而输入在 Update 中处理，
// 早于 Draw 拿到 screen，因此由 App.Layout 把尺寸推送给场景。
type Resizable interface {
	Resize(width, height int)
}
