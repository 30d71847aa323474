package utils

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
)

func TestNewInputPollerDefaultKeys(t *testing.T) {
	p := NewInputPoller(nil)
	assert.Equal(t, DefaultMoveKeys, p.moveKeys)

	custom := NewInputPoller([]ebiten.Key{ebiten.KeyK})
	assert.Equal(t, []ebiten.Key{ebiten.KeyK}, custom.moveKeys)
}

func TestInputPollerTrackDelta(t *testing.T) {
	p := NewInputPoller(nil)

	// 第一帧没有上一帧位置，位移为 0
	var first InputFrame
	p.track(&first, 100, 100)
	assert.Equal(t, 0, first.DeltaX)
	assert.Equal(t, 0, first.DeltaY)

	var second InputFrame
	p.track(&second, 110, 95)
	assert.Equal(t, 10, second.DeltaX)
	assert.Equal(t, -5, second.DeltaY)
	assert.Equal(t, 110, second.PointerX)
	assert.Equal(t, 95, second.PointerY)
}

func TestInputPollerTouchMove(t *testing.T) {
	t.Setenv("TALKROOM_MOBILE_EMULATE", "1")
	p := NewInputPoller(nil)
	assert.True(t, p.touchMove)

	var down InputFrame
	p.applyTouchMove(&down, true)
	assert.True(t, down.MovePressed)
	assert.True(t, down.MoveHeld)

	var hold InputFrame
	p.applyTouchMove(&hold, true)
	assert.False(t, hold.MovePressed)
	assert.True(t, hold.MoveHeld)

	var up InputFrame
	p.applyTouchMove(&up, false)
	assert.True(t, up.MoveReleased)
	assert.False(t, up.MoveHeld)
}
