//go:build !mobile

// 非移动端构建时的占位文件。
// 移动端入口在 mobile.go 和 embed.go 中，仅在 -tags mobile 时编译，
// gomobile bind 生成 Android/iOS 绑定时使用。
package mobile

// Dummy 保证包在桌面构建下也可被引用
func Dummy() {}
