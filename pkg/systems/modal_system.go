package systems

import (
	"image"
	"image/color"

	"github.com/decker502/talkroom/pkg/game"
	"github.com/decker502/talkroom/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 弹窗布局常量
const (
	modalMaxWidth     = 420.0
	modalHeight       = 170.0
	modalMargin       = 20.0
	modalButtonWidth  = 110.0
	modalButtonHeight = 36.0
	modalLineHeight   = 26.0
)

var (
	modalOverlayColor = color.RGBA{0, 0, 0, 110}
	modalBoxColor     = color.RGBA{250, 250, 250, 255}
	modalBorderColor  = color.RGBA{90, 90, 90, 255}
	modalTextColor    = color.RGBA{20, 20, 20, 255}
	modalButtonColor  = color.RGBA{40, 110, 220, 255}
)

// ModalSystem 显示通知弹窗并处理关闭输入
//
// 弹窗打开期间场景其余部分暂停，只有 Enter / Space / Escape 或点击按钮能关闭它。
type ModalSystem struct {
	notifier   *game.Notifier
	face       *text.GoTextFace
	buttonText string
}

// NewModalSystem 创建弹窗系统，face 为 nil 时只绘制方框不绘制文字
func NewModalSystem(notifier *game.Notifier, face *text.GoTextFace, buttonText string) *ModalSystem {
	if buttonText == "" {
		buttonText = "OK"
	}
	return &ModalSystem{
		notifier:   notifier,
		face:       face,
		buttonText: buttonText,
	}
}

// IsOpen 是否有弹窗
func (s *ModalSystem) IsOpen() bool {
	return s.notifier.IsOpen()
}

// BoxRect 返回弹窗在屏幕上的矩形
func (s *ModalSystem) BoxRect(width, height int) image.Rectangle {
	w := min(modalMaxWidth, float64(width)-2*modalMargin)
	if w < modalButtonWidth {
		w = modalButtonWidth
	}
	x := (float64(width) - w) / 2
	y := (float64(height) - modalHeight) / 2
	return image.Rect(int(x), int(y), int(x+w), int(y+modalHeight))
}

// ButtonRect 返回关闭按钮的矩形
func (s *ModalSystem) ButtonRect(width, height int) image.Rectangle {
	box := s.BoxRect(width, height)
	cx := float64(box.Min.X+box.Max.X) / 2
	bottom := float64(box.Max.Y) - modalMargin
	return image.Rect(
		int(cx-modalButtonWidth/2), int(bottom-modalButtonHeight),
		int(cx+modalButtonWidth/2), int(bottom),
	)
}

// HandleInput 处理弹窗打开时的输入，返回是否关闭了一条通知
func (s *ModalSystem) HandleInput(frame utils.InputFrame, width, height int) bool {
	if !s.notifier.IsOpen() {
		return false
	}
	dismiss := frame.DismissPressed
	if frame.PointerReleased {
		pt := image.Pt(frame.PointerX, frame.PointerY)
		if pt.In(s.ButtonRect(width, height)) {
			dismiss = true
		}
	}
	if !dismiss {
		return false
	}
	return s.notifier.Dismiss()
}

// Draw 绘制当前通知
func (s *ModalSystem) Draw(screen *ebiten.Image) {
	message, ok := s.notifier.Current()
	if !ok {
		return
	}
	bounds := screen.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	vector.DrawFilledRect(screen, 0, 0, float32(w), float32(h), modalOverlayColor, false)

	box := s.BoxRect(w, h)
	bx, by := float32(box.Min.X), float32(box.Min.Y)
	bw, bh := float32(box.Dx()), float32(box.Dy())
	vector.DrawFilledRect(screen, bx, by, bw, bh, modalBoxColor, true)
	vector.StrokeRect(screen, bx, by, bw, bh, 2, modalBorderColor, true)

	btn := s.ButtonRect(w, h)
	vector.DrawFilledRect(screen, float32(btn.Min.X), float32(btn.Min.Y), float32(btn.Dx()), float32(btn.Dy()), modalButtonColor, true)

	if s.face == nil {
		return
	}

	centerX := float64(box.Min.X+box.Max.X) / 2
	lines := utils.WrapText(message, s.face, float64(box.Dx())-2*modalMargin)
	textTop := float64(box.Min.Y) + modalMargin
	for i, line := range lines {
		op := &text.DrawOptions{}
		op.LayoutOptions.PrimaryAlign = text.AlignCenter
		op.LayoutOptions.SecondaryAlign = text.AlignStart
		op.GeoM.Translate(centerX, textTop+float64(i)*modalLineHeight)
		op.ColorScale.ScaleWithColor(modalTextColor)
		text.Draw(screen, line, s.face, op)
	}

	op := &text.DrawOptions{}
	op.LayoutOptions.PrimaryAlign = text.AlignCenter
	op.LayoutOptions.SecondaryAlign = text.AlignCenter
	op.GeoM.Translate(float64(btn.Min.X+btn.Max.X)/2, float64(btn.Min.Y+btn.Max.Y)/2)
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen, s.buttonText, s.face, op)
}
