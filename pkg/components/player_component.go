package components

import "github.com/decker502/talkroom/pkg/ecs"

// PlayerComponent 挂在容器实体上，容器同时承载相机和角色
//
// 移动时平移的是容器，转向的是角色，因此相机和角色总是一起移动。
type PlayerComponent struct {
	Character ecs.EntityID
	Camera    ecs.EntityID

	// Step 每帧前进距离
	Step float64
	// MaxTurn 每帧最大转角（弧度）
	MaxTurn float64
}
