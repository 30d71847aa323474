//go:build mobile

package utils

// IsMobile 移动端构建恒为 true，输入层据此启用两指前进手势
func IsMobile() bool {
	return true
}
