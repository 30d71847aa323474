package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputFrame 存储一帧内采集到的全部输入
//
// 由 InputPoller 从 ebiten 采集，场景只读取该结构，测试时可直接构造。
// 键盘字段都是边沿事件（本帧刚按下/刚释放），指针同时支持鼠标和触摸。
type InputFrame struct {
	// 前进键（W / 方向上键）本帧刚按下
	MovePressed bool
	// 前进键本帧刚释放
	MoveReleased bool
	// 前进键当前是否处于按下状态（用于弹窗关闭后同步）
	MoveHeld bool

	// 指针本帧刚按下 / 刚释放（释放即一次 click）
	PointerPressed  bool
	PointerReleased bool
	// 指针当前是否按住（用于弹窗关闭后同步）
	PointerHeld bool
	// 指针位置（屏幕坐标）
	PointerX, PointerY int
	// 指针相对上一帧的位移（对应 DOM 的 movementX / movementY）
	DeltaX, DeltaY int

	// 关闭弹窗的按键（Enter / Space / Escape）
	DismissPressed bool
}

// DefaultMoveKeys 前进键绑定
var DefaultMoveKeys = []ebiten.Key{ebiten.KeyW, ebiten.KeyArrowUp}

// InputPoller 每帧从 ebiten 采集输入
type InputPoller struct {
	moveKeys []ebiten.Key

	lastX, lastY int
	hasLast      bool

	// 触摸释放时 ebiten 已拿不到坐标，保存最后一次触摸位置
	touchID                ebiten.TouchID
	touching               bool
	lastTouchX, lastTouchY int

	// 移动端没有键盘：两指按住等同于按住前进键
	touchMove     bool
	touchMoveHeld bool
}

// NewInputPoller 创建输入采集器，moveKeys 为空时使用 DefaultMoveKeys
func NewInputPoller(moveKeys []ebiten.Key) *InputPoller {
	if len(moveKeys) == 0 {
		moveKeys = DefaultMoveKeys
	}
	return &InputPoller{moveKeys: moveKeys, touchID: -1, touchMove: IsMobile()}
}

// Poll 采集当前帧输入
// 必须在每个 tick 调用一次，否则 DeltaX/DeltaY 会跨帧累积
func (p *InputPoller) Poll() InputFrame {
	frame := InputFrame{}

	for _, key := range p.moveKeys {
		if inpututil.IsKeyJustPressed(key) {
			frame.MovePressed = true
		}
		if inpututil.IsKeyJustReleased(key) {
			frame.MoveReleased = true
		}
		if ebiten.IsKeyPressed(key) {
			frame.MoveHeld = true
		}
	}

	frame.DismissPressed = inpututil.IsKeyJustPressed(ebiten.KeyEnter) ||
		inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
		inpututil.IsKeyJustPressed(ebiten.KeyEscape)

	if p.touchMove {
		p.applyTouchMove(&frame, len(ebiten.AppendTouchIDs(nil)) >= 2)
	}

	p.pollPointer(&frame)
	return frame
}

// applyTouchMove 把两指按住的状态转换成前进键的边沿事件
func (p *InputPoller) applyTouchMove(frame *InputFrame, held bool) {
	if held && !p.touchMoveHeld {
		frame.MovePressed = true
	}
	if !held && p.touchMoveHeld {
		frame.MoveReleased = true
	}
	frame.MoveHeld = frame.MoveHeld || held
	p.touchMoveHeld = held
}

// pollPointer 优先处理触摸，其次是鼠标
func (p *InputPoller) pollPointer(frame *InputFrame) {
	if pressed := inpututil.AppendJustPressedTouchIDs(nil); len(pressed) > 0 && !p.touching {
		p.touchID = pressed[0]
		p.touching = true
		p.lastTouchX, p.lastTouchY = ebiten.TouchPosition(p.touchID)
		p.hasLast = false
		frame.PointerPressed = true
	}

	if p.touching {
		if inpututil.IsTouchJustReleased(p.touchID) {
			frame.PointerReleased = true
			p.touching = false
			p.touchID = -1
		} else {
			p.lastTouchX, p.lastTouchY = ebiten.TouchPosition(p.touchID)
		}
		frame.PointerHeld = p.touching
		p.track(frame, p.lastTouchX, p.lastTouchY)
		return
	}

	x, y := ebiten.CursorPosition()
	frame.PointerPressed = frame.PointerPressed || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	frame.PointerReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	frame.PointerHeld = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	p.track(frame, x, y)
}

// track 记录指针位置并计算帧间位移
func (p *InputPoller) track(frame *InputFrame, x, y int) {
	frame.PointerX, frame.PointerY = x, y
	if p.hasLast {
		frame.DeltaX = x - p.lastX
		frame.DeltaY = y - p.lastY
	}
	p.lastX, p.lastY = x, y
	p.hasLast = true
}
