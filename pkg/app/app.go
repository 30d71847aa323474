// Package app 提供应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/decker502/talkroom/pkg/config"
	"github.com/decker502/talkroom/pkg/game"
	"github.com/decker502/talkroom/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// SceneConfigPath 场景配置路径，为空时使用内置的 data/scene.yaml
	SceneConfigPath string
	// ModelURL / FontURL 非空时覆盖场景配置中的地址
	ModelURL string
	FontURL  string
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	cancel                   context.CancelFunc
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	path := cfg.SceneConfigPath
	if path == "" {
		path = config.DefaultSceneConfigPath
	}
	sceneConfig, err := config.LoadSceneConfig(path)
	if err != nil {
		return nil, fmt.Errorf("场景配置加载失败: %w", err)
	}
	config.EnvConfig{ModelURL: cfg.ModelURL, FontURL: cfg.FontURL}.ApplyTo(sceneConfig)
	log.Printf("[Config] 场景配置: %s (模型 %s, %d 个物体)", path, sceneConfig.Model.URL, len(sceneConfig.Objects))

	ctx, cancel := context.WithCancel(context.Background())
	resourceManager := game.NewResourceManager(nil)

	room, err := scenes.NewRoomScene(ctx, sceneConfig, resourceManager)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("场景创建失败: %w", err)
	}

	sceneManager := game.NewSceneManager()
	sceneManager.SwitchTo(room)

	return &App{
		sceneManager: sceneManager,
		cancel:       cancel,
	}, nil
}

// Update 更新逻辑
// 每个 tick 调用一次（每秒 config.TickRate 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	a.sceneManager.Update(1.0 / config.TickRate)
	return nil
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 逻辑尺寸跟随窗口，这里只负责清空背景后原样拷贝
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 逻辑尺寸等于窗口尺寸，窗口变化时同步给场景（更新投影宽高比和拾取换算）
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	w := max(outsideWidth, config.MinLayoutSize)
	h := max(outsideHeight, config.MinLayoutSize)
	a.sceneManager.Resize(w, h)
	return w, h
}

// Close 取消仍在进行的资源加载
func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
}
