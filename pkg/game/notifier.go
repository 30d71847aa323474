package game

import "log"

// Notifier 模态通知队列（先进先出）
//
// 队首消息处于显示状态时场景暂停：动画时钟不前进，移动和区域检测都不执行。
// 关闭队首后若还有消息，下一条立即显示。
type Notifier struct {
	queue []string
	total int
}

// NewNotifier 创建空的通知队列
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Push 追加一条通知
func (n *Notifier) Push(message string) {
	log.Printf("[Notify] %s", message)
	n.queue = append(n.queue, message)
	n.total++
}

// IsOpen 是否有正在显示的通知
func (n *Notifier) IsOpen() bool {
	return len(n.queue) > 0
}

// Current 返回正在显示的通知
func (n *Notifier) Current() (string, bool) {
	if len(n.queue) == 0 {
		return "", false
	}
	return n.queue[0], true
}

// Dismiss 关闭正在显示的通知，队列为空时返回 false
func (n *Notifier) Dismiss() bool {
	if len(n.queue) == 0 {
		return false
	}
	n.queue[0] = ""
	n.queue = n.queue[1:]
	return true
}

// Pending 返回尚未关闭的通知数量
func (n *Notifier) Pending() int {
	return len(n.queue)
}

// Total 返回累计推送的通知数量
func (n *Notifier) Total() int {
	return n.total
}
