// Package anim 实现骨骼动画的关键帧采样与多片段权重混合
package anim

import (
	"sort"

	"github.com/decker502/talkroom/internal/model"
	"github.com/go-gl/mathgl/mgl64"
)

// Sample 在时间 t 采样通道，结果写入 out（长度至少为 Path.Components()）
//
// t 早于第一帧时返回第一帧，晚于最后一帧时返回最后一帧。
func Sample(ch *model.Channel, t float64, out []float64) {
	n := ch.Path.Components()
	count := len(ch.Times)
	if count == 0 {
		return
	}

	if t <= ch.Times[0] || count == 1 {
		copy(out[:n], keyValue(ch, 0, n))
		return
	}
	if t >= ch.Times[count-1] {
		copy(out[:n], keyValue(ch, count-1, n))
		return
	}

	// 第一个大于 t 的关键帧
	next := sort.SearchFloat64s(ch.Times, t)
	if next < count && ch.Times[next] == t {
		copy(out[:n], keyValue(ch, next, n))
		return
	}
	prev := next - 1

	if ch.Interpolation == model.InterpolationStep {
		copy(out[:n], keyValue(ch, prev, n))
		return
	}

	t0, t1 := ch.Times[prev], ch.Times[next]
	alpha := (t - t0) / (t1 - t0)
	a := keyValue(ch, prev, n)
	b := keyValue(ch, next, n)

	if ch.Path == model.PathRotation {
		q := slerp(quatFrom(a), quatFrom(b), alpha)
		out[0], out[1], out[2], out[3] = q.V[0], q.V[1], q.V[2], q.W
		return
	}
	for i := 0; i < n; i++ {
		out[i] = a[i] + (b[i]-a[i])*alpha
	}
}

// keyValue 返回第 i 个关键帧的值；CUBICSPLINE 只取中间的 value 分量
func keyValue(ch *model.Channel, i, n int) []float64 {
	if ch.Interpolation == model.InterpolationCubicSpline {
		start := (i*3 + 1) * n
		return ch.Values[start : start+n]
	}
	return ch.Values[i*n : i*n+n]
}

func quatFrom(v []float64) mgl64.Quat {
	return mgl64.Quat{W: v[3], V: mgl64.Vec3{v[0], v[1], v[2]}}
}

// slerp 沿最短路径插值
func slerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl64.QuatSlerp(a, b, t)
}
