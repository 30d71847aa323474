package systems

import (
	"github.com/decker502/talkroom/pkg/components"
	"github.com/decker502/talkroom/pkg/ecs"
	"github.com/go-gl/mathgl/mgl64"
)

// maxHierarchyDepth 防止错误的父子关系形成环
const maxHierarchyDepth = 32

// WorldMatrix 返回实体的世界矩阵（沿 Parent 链逐级相乘）
// 没有 TransformComponent 的实体视为单位矩阵
func WorldMatrix(em *ecs.EntityManager, id ecs.EntityID) mgl64.Mat4 {
	world := mgl64.Ident4()
	for depth := 0; id != 0 && depth < maxHierarchyDepth; depth++ {
		t, ok := ecs.GetComponent[*components.TransformComponent](em, id)
		if !ok {
			break
		}
		world = t.LocalMatrix().Mul4(world)
		id = t.Parent
	}
	return world
}

// WorldPosition 返回实体原点的世界坐标
func WorldPosition(em *ecs.EntityManager, id ecs.EntityID) mgl64.Vec3 {
	return WorldMatrix(em, id).Col(3).Vec3()
}
