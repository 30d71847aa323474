package utils

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestScreenToNDC(t *testing.T) {
	tests := []struct {
		name   string
		px, py float64
		want   mgl64.Vec2
	}{
		{"左上角", 0, 0, mgl64.Vec2{-1, 1}},
		{"中心", 400, 300, mgl64.Vec2{0, 0}},
		{"右下角", 800, 600, mgl64.Vec2{1, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScreenToNDC(tt.px, tt.py, 800, 600)
			assert.True(t, got.ApproxEqual(tt.want), "got %v", got)

			x, y := NDCToScreen(got, 800, 600)
			assert.InDelta(t, tt.px, x, 1e-9)
			assert.InDelta(t, tt.py, y, 1e-9)
		})
	}
}

func TestScreenToNDCZeroSize(t *testing.T) {
	assert.Equal(t, mgl64.Vec2{}, ScreenToNDC(10, 10, 0, 600))
}
