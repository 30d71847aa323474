package systems

import (
	"math"
	"testing"

	"github.com/decker502/talkroom/pkg/components"
	"github.com/decker502/talkroom/pkg/ecs"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cameraComponent(t *testing.T, r *testRoom) *components.CameraComponent {
	t.Helper()
	cam, ok := ecs.GetComponent[*components.CameraComponent](r.em, r.room.Camera)
	require.True(t, ok)
	return cam
}

func TestCameraInitialAim(t *testing.T) {
	r := newTestRoom(t)

	assert.True(t, r.camera.Eye().ApproxEqualThreshold(mgl64.Vec3{0, 2, -1}, 1e-9))
	assert.True(t, r.camera.Target().ApproxEqualThreshold(mgl64.Vec3{0, 1.5, 0}, 1e-9))

	want := mgl64.Vec3{0, -0.5, 1}.Normalize()
	assert.True(t, r.camera.LookDirection().ApproxEqualThreshold(want, 1e-9))
}

func TestCameraDrag(t *testing.T) {
	t.Run("方位角随水平拖拽减小", func(t *testing.T) {
		r := newTestRoom(t)
		cam := cameraComponent(t, r)
		before := cam.Offset

		r.camera.Drag(10, 0)

		assert.InDelta(t, before.Theta-0.2, cam.Offset.Theta, 1e-12)
		assert.InDelta(t, before.Radius, cam.Offset.Radius, 1e-12)
	})

	t.Run("极角限制", func(t *testing.T) {
		r := newTestRoom(t)
		cam := cameraComponent(t, r)

		r.camera.Drag(0, -1000)
		assert.InDelta(t, 0.35*math.Pi, cam.Offset.Phi, 1e-12)

		r.camera.Drag(0, 1000)
		assert.InDelta(t, 0.01, cam.Offset.Phi, 1e-12)
	})

	t.Run("初始极角只在第一次拖拽时被限制", func(t *testing.T) {
		r := newTestRoom(t)
		cam := cameraComponent(t, r)
		require.Greater(t, cam.Offset.Phi, 0.35*math.Pi)

		r.camera.Drag(0, 0)
		assert.InDelta(t, 0.35*math.Pi, cam.Offset.Phi, 1e-12)
	})

	t.Run("拖拽后相机仍看向注视点", func(t *testing.T) {
		r := newTestRoom(t)
		r.camera.Drag(37, -12)

		tr, ok := ecs.GetComponent[*components.TransformComponent](r.em, r.room.Camera)
		require.True(t, ok)
		cam := cameraComponent(t, r)
		assert.True(t, tr.Position.ApproxEqualThreshold(cam.Origin.Add(cam.Offset.Vec3()), 1e-12))

		want := r.camera.Target().Sub(r.camera.Eye()).Normalize()
		assert.True(t, r.camera.LookDirection().ApproxEqualThreshold(want, 1e-9))
	})
}

func TestCameraFollowsContainer(t *testing.T) {
	r := newTestRoom(t)
	dir := r.camera.LookDirection()

	r.moveTo(t, 3, -4)

	assert.True(t, r.camera.Eye().ApproxEqualThreshold(mgl64.Vec3{3, 2, -5}, 1e-9))
	assert.True(t, r.camera.LookDirection().ApproxEqualThreshold(dir, 1e-9))
}

func TestCameraProjection(t *testing.T) {
	r := newTestRoom(t)

	ndc, ok := r.camera.Project(r.camera.Target(), testAspect)
	require.True(t, ok)
	assert.InDelta(t, 0, ndc.X(), 1e-9)
	assert.InDelta(t, 0, ndc.Y(), 1e-9)

	_, ok = r.camera.Project(mgl64.Vec3{0, 2, -10}, testAspect)
	assert.False(t, ok, "相机后方的点不可投影")

	ray := r.camera.RayFromNDC(mgl64.Vec2{0, 0}, testAspect)
	assert.True(t, ray.Origin.ApproxEqualThreshold(r.camera.Eye(), 1e-9))
	assert.True(t, ray.Direction.ApproxEqualThreshold(r.camera.LookDirection(), 1e-6))
}
