package systems

import (
	"math"
	"testing"

	"github.com/decker502/talkroom/internal/geometry"
	"github.com/decker502/talkroom/pkg/components"
	"github.com/decker502/talkroom/pkg/ecs"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderSystemDraw(t *testing.T) {
	r := newTestRoom(t)
	rs := NewRenderSystem(r.em, r.camera)
	screen := ebiten.NewImage(320, 180)

	rs.Draw(screen)
	withoutCharacter := rs.ItemCount()
	assert.Positive(t, withoutCharacter)

	r.load(t)
	rs.Draw(screen)
	assert.Greater(t, rs.ItemCount(), withoutCharacter, "角色加载后应提交更多多边形")

	// 按层级排序：地面最先
	assert.Equal(t, LayerGround, rs.items[0].order)
	for i := 1; i < len(rs.items); i++ {
		a, b := rs.items[i-1], rs.items[i]
		require.LessOrEqual(t, a.order, b.order)
		if a.order == b.order {
			require.GreaterOrEqual(t, a.depth, b.depth)
		}
	}
}

func TestRenderSystemHidden(t *testing.T) {
	r := newTestRoom(t)
	rs := NewRenderSystem(r.em, r.camera)
	screen := ebiten.NewImage(320, 180)

	rs.Draw(screen)
	before := rs.ItemCount()

	mat, ok := ecs.GetComponent[*components.MaterialComponent](r.em, r.room.Grid)
	require.True(t, ok)
	mat.Hidden = true
	rs.Draw(screen)
	assert.Less(t, rs.ItemCount(), before)
	for _, item := range rs.items {
		assert.NotEqual(t, LayerGrid, item.order)
	}
}

func TestClipNear(t *testing.T) {
	v := func(z, w float64) clipVertex {
		return clipVertex{pos: mgl64.Vec4{0, 0, z, w}, color: mgl64.Vec4{1, 1, 1, 1}}
	}

	tests := []struct {
		name string
		poly []clipVertex
		want int
	}{
		{"全部在前方", []clipVertex{v(0, 1), v(0.5, 1), v(0.2, 1)}, 3},
		{"全部在后方", []clipVertex{v(-2, 1), v(-3, 1), v(-2, 1)}, 0},
		{"一个顶点在后方", []clipVertex{v(-2, 1), v(0, 1), v(0.5, 1)}, 4},
		{"两个顶点在后方", []clipVertex{v(-2, 1), v(-3, 1), v(0.5, 1)}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := clipNear(tt.poly)
			assert.Len(t, out, tt.want)
			for _, p := range out {
				assert.GreaterOrEqual(t, p.pos.Z()+p.pos.W(), -1e-12)
			}
		})
	}
}

func TestShadeAndFog(t *testing.T) {
	env := &components.EnvironmentComponent{
		FogColor:         mgl64.Vec3{0.5, 0.5, 0.5},
		FogNear:          10,
		FogFar:           50,
		HemisphereSky:    mgl64.Vec3{1, 1, 1},
		HemisphereGround: mgl64.Vec3{0.25, 0.25, 0.25},
		LightColor:       mgl64.Vec3{1, 1, 1},
		LightDirection:   mgl64.Vec3{0, 1, 0},
		Intensity:        1,
	}
	base := mgl64.Vec4{0.4, 0.2, 0.1, 1}

	t.Run("朝上的面被截断到 1 以内", func(t *testing.T) {
		c := shade(env, mgl64.Vec3{0, 1, 0}, base)
		assert.InDelta(t, 0.8, c.X(), 1e-12)
		assert.InDelta(t, 0.4, c.Y(), 1e-12)
		assert.Equal(t, 1.0, c.W())

		bright := shade(env, mgl64.Vec3{0, 1, 0}, mgl64.Vec4{1, 1, 1, 1})
		assert.Equal(t, 1.0, bright.X())
	})

	t.Run("朝下的面只有地面光", func(t *testing.T) {
		c := shade(env, mgl64.Vec3{0, -1, 0}, base)
		assert.InDelta(t, 0.1, c.X(), 1e-12)
	})

	t.Run("雾", func(t *testing.T) {
		mat := &components.MaterialComponent{Fog: true}
		assert.Equal(t, base, fog(env, mat, base, 5))
		assert.True(t, fog(env, mat, base, 60).Vec3().ApproxEqualThreshold(env.FogColor, 1e-12))

		mid := fog(env, mat, base, 30)
		assert.InDelta(t, 0.45, mid.X(), 1e-12)

		mat.Fog = false
		assert.Equal(t, base, fog(env, mat, base, 60))
	})
}

func TestOutsideFrustum(t *testing.T) {
	in := mgl64.Vec4{0, 0, 0, 1}
	right := mgl64.Vec4{2, 0, 0, 1}

	assert.False(t, outsideFrustum(in, right, right))
	assert.True(t, outsideFrustum(right, right, right))
	assert.True(t, outsideFrustum(mgl64.Vec4{0, -3, 0, 1}, mgl64.Vec4{1, -2, 0, 1}, mgl64.Vec4{0, -5, 0, 2}))
}

func TestRenderLines(t *testing.T) {
	r := newTestRoom(t)
	rs := NewRenderSystem(r.em, r.camera)

	// 只保留一条横跨视野的线段
	for _, id := range ecs.GetEntitiesWith1[*components.MaterialComponent](r.em) {
		mat, _ := ecs.GetComponent[*components.MaterialComponent](r.em, id)
		mat.Hidden = true
	}
	line := r.em.CreateEntity()
	ecs.AddComponent(r.em, line, &components.TransformComponent{})
	ecs.AddComponent(r.em, line, &components.MeshComponent{Mesh: &geometry.Mesh{
		Positions: []mgl64.Vec3{{-1, 1.5, 2}, {1, 1.5, 2}},
		Indices:   []uint32{0, 1},
		Mode:      geometry.ModeLines,
	}})
	ecs.AddComponent(r.em, line, &components.MaterialComponent{Unlit: true, LineWidth: 2, RenderOrder: LayerObjects})

	rs.Draw(ebiten.NewImage(320, 180))
	require.Equal(t, 1, rs.ItemCount())
	item := rs.items[0]
	assert.Equal(t, 4, item.count)
	assert.InDelta(t, 2, math.Abs(float64(item.verts[0].DstY-item.verts[3].DstY)), 1e-3)
}
