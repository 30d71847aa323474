package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/decker502/talkroom/internal/model"
	"github.com/decker502/talkroom/pkg/config"
	"github.com/decker502/talkroom/pkg/game"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	sceneConfig = flag.String("config", "", "场景配置文件，用于检查动画状态表（默认使用内置配置）")
	timeout     = flag.Duration("timeout", game.DefaultFetchTimeout, "下载超时")
)

func main() {
	flag.Parse()
	if flag.NArg() < 1 {
		fmt.Println("用法: go run ./cmd/inspect_model [-config scene.yaml] <模型地址或路径>")
		os.Exit(1)
	}
	source := flag.Arg(0)

	cfg := config.DefaultSceneConfig()
	if *sceneConfig != "" {
		loaded, err := config.LoadSceneConfig(*sceneConfig)
		if err != nil {
			log.Fatalf("配置加载失败: %v", err)
		}
		cfg = loaded
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	m, err := game.NewResourceManager(nil).LoadModel(ctx, source)
	if err != nil {
		log.Fatalf("模型加载失败: %v", err)
	}

	fmt.Printf("模型: %s (耗时 %v)\n", source, time.Since(start).Round(time.Millisecond))
	fmt.Printf("节点: %d  网格: %d  蒙皮: %d  动画: %d\n\n", len(m.Nodes), len(m.Meshes), len(m.Skins), len(m.Clips))

	printNodes(m)
	printMeshes(m)
	printClips(m, cfg.Animation)
	printBounds(m)
}

// printNodes 按层级输出节点，标出网格、蒙皮和作为关节的节点
func printNodes(m *model.Model) {
	joints := make(map[int]bool)
	for _, skin := range m.Skins {
		for _, j := range skin.Joints {
			joints[j] = true
		}
	}

	var walk func(i, depth int)
	walk = func(i, depth int) {
		n := m.Nodes[i]
		tags := ""
		if n.Mesh >= 0 {
			tags += fmt.Sprintf(" mesh=%d", n.Mesh)
		}
		if n.Skin >= 0 {
			tags += fmt.Sprintf(" skin=%d", n.Skin)
		}
		if joints[i] {
			tags += " joint"
		}
		fmt.Printf("  %*s%s%s\n", depth*2, "", n.Name, tags)
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}

	fmt.Println("节点层级:")
	for _, root := range m.Roots {
		walk(root, 0)
	}
	fmt.Println()
}

func printMeshes(m *model.Model) {
	fmt.Println("网格:")
	for i, mesh := range m.Meshes {
		for j, prim := range mesh.Primitives {
			skinned := len(prim.Joints) > 0
			fmt.Printf("  [%d.%d] %-24s 顶点 %6d  三角形 %6d  蒙皮 %-5v  颜色 %.2f\n",
				i, j, mesh.Name, len(prim.Geometry.Positions), prim.Geometry.TriangleCount(), skinned, prim.Color)
		}
	}
	fmt.Println()
}

func printClips(m *model.Model, anim config.AnimationConfig) {
	known := make(map[string]bool)
	for _, name := range anim.StateNames() {
		known[name] = true
	}

	fmt.Println("动画片段:")
	for _, clip := range m.Clips {
		mark := "忽略"
		if known[clip.Name] {
			mark = "识别"
		}
		fmt.Printf("  %-24s 时长 %6.2fs  通道 %4d  %s\n", clip.Name, clip.Duration, len(clip.Channels), mark)
	}
	for _, name := range anim.StateNames() {
		if m.ClipByName(name) == nil {
			fmt.Printf("  缺少状态片段: %s\n", name)
		}
	}
	fmt.Println()
}

// printBounds 输出绑定姿势下的包围盒，用于确认模型尺寸和朝向
func printBounds(m *model.Model) {
	minP := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	maxP := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}

	for _, surface := range model.NewSkinner(m).Update(m.RestPose()) {
		lo, hi := surface.Mesh.Bounds()
		for k := 0; k < 3; k++ {
			minP[k] = math.Min(minP[k], lo[k])
			maxP[k] = math.Max(maxP[k], hi[k])
		}
	}
	size := maxP.Sub(minP)
	fmt.Printf("绑定姿势包围盒: min (%.3f, %.3f, %.3f)  max (%.3f, %.3f, %.3f)  尺寸 (%.3f, %.3f, %.3f)\n",
		minP[0], minP[1], minP[2], maxP[0], maxP[1], maxP[2], size[0], size[1], size[2])
}
