package game

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
)

// MockScene is a mock implementation of the Scene interface for testing.
type MockScene struct {
	updateCalled bool
	drawCalled   bool
	deltaTime    float64
}

// Update records that Update was called and stores the deltaTime.
func (m *MockScene) Update(deltaTime float64) {
	m.updateCalled = true
	m.deltaTime = deltaTime
}

// Draw records that Draw was called.
func (m *MockScene) Draw(screen *ebiten.Image) {
	m.drawCalled = true
}

// MockResizableScene 额外记录 Resize 调用
type MockResizableScene struct {
	MockScene
	resizes [][2]int
}

func (m *MockResizableScene) Resize(width, height int) {
	m.resizes = append(m.resizes, [2]int{width, height})
}

func TestNewSceneManager(t *testing.T) {
	sm := NewSceneManager()
	assert.NotNil(t, sm)
	assert.Nil(t, sm.GetCurrentScene())
}

func TestSceneManagerSwitchTo(t *testing.T) {
	sm := NewSceneManager()
	mockScene := &MockScene{}

	sm.SwitchTo(mockScene)
	assert.Same(t, mockScene, sm.GetCurrentScene())
}

func TestSceneManagerUpdate(t *testing.T) {
	sm := NewSceneManager()
	mockScene := &MockScene{}
	sm.SwitchTo(mockScene)

	deltaTime := 1.0 / 60
	sm.Update(deltaTime)

	assert.True(t, mockScene.updateCalled)
	assert.Equal(t, deltaTime, mockScene.deltaTime)
}

func TestSceneManagerDraw(t *testing.T) {
	sm := NewSceneManager()
	mockScene := &MockScene{}
	sm.SwitchTo(mockScene)

	screen := ebiten.NewImage(8, 8)
	sm.Draw(screen)

	assert.True(t, mockScene.drawCalled)
}

// TestSceneManagerNoScene 没有活动场景时 Update/Draw/Resize 都是空操作
func TestSceneManagerNoScene(t *testing.T) {
	sm := NewSceneManager()
	assert.NotPanics(t, func() {
		sm.Update(1.0 / 60)
		sm.Draw(ebiten.NewImage(8, 8))
		sm.Resize(800, 600)
	})
}

func TestSceneManagerResize(t *testing.T) {
	sm := NewSceneManager()
	sm.Resize(800, 600)

	// 切换时补发当前尺寸
	scene := &MockResizableScene{}
	sm.SwitchTo(scene)
	assert.Equal(t, [][2]int{{800, 600}}, scene.resizes)

	// 尺寸不变不重复通知
	sm.Resize(800, 600)
	sm.Resize(1024, 768)
	assert.Equal(t, [][2]int{{800, 600}, {1024, 768}}, scene.resizes)
}
