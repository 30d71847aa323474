package main

import (
	"flag"
	"log"

	"github.com/decker502/talkroom/pkg/app"
	"github.com/decker502/talkroom/pkg/config"
	"github.com/decker502/talkroom/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verbose     = flag.Bool("verbose", false, "显示详细日志")
	sceneConfig = flag.String("config", "", "场景配置文件（默认使用内置 data/scene.yaml）")
	modelURL    = flag.String("model", "", "角色模型地址（http(s) URL、data/ 路径或本地文件）")
	fontURL     = flag.String("font", "", "标签字体地址（TTF/OTF）")
)

func main() {
	flag.Parse()

	// 嵌入资源在 embed.go 中声明
	embedded.Init(dataFS)

	envCfg, err := config.LoadEnvConfig()
	if err != nil {
		log.Fatalf("环境变量解析失败: %v", err)
	}

	// 命令行参数优先于环境变量
	cfg := app.Config{
		Verbose:         *verbose || envCfg.Verbose,
		SceneConfigPath: firstNonEmpty(*sceneConfig, envCfg.SceneConfig),
		ModelURL:        firstNonEmpty(*modelURL, envCfg.ModelURL),
		FontURL:         firstNonEmpty(*fontURL, envCfg.FontURL),
	}

	gameApp, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}
	defer gameApp.Close()

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle(config.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(config.TickRate)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.Fatal(err)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
