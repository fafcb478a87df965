// Package utils 提供不依赖渲染层的通用工具函数
package utils

import "math"

// Easing Functions (缓动函数)
//
// 缓动函数用于控制动画的速度曲线，使动画看起来更自然。
// 所有函数接受一个进度值 t ∈ [0, 1]，返回缓动后的值（EaseOutBack 会短暂超过 1）。
//
// 参考：https://easings.net/

// EasingFunc 缓动函数签名
type EasingFunc func(t float64) float64

// EaseLinear 线性缓动（无缓动）
func EaseLinear(t float64) float64 {
	return t
}

// EaseOutCubic 三次方缓出
// 特点：开始快，结束慢
// 公式：f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseOutBack 回弹缓出
// 特点：冲过终点后再回落（收缩道具的"弹一下"效果）
// 公式：f(t) = 1 + c3·(t-1)³ + c1·(t-1)²，c1 = 1.70158，c3 = c1 + 1
func EaseOutBack(t float64) float64 {
	const c1 = 1.70158
	const c3 = c1 + 1
	return 1 + c3*math.Pow(t-1, 3) + c1*math.Pow(t-1, 2)
}

// Lerp 线性插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp 将 v 限制在 [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Tween 按帧推进的数值补间
type Tween struct {
	From     float64
	To       float64
	Duration float64
	Elapsed  float64
	Ease     EasingFunc
}

// NewTween 创建补间，ease 为 nil 时使用线性缓动
func NewTween(from, to, duration float64, ease EasingFunc) *Tween {
	if ease == nil {
		ease = EaseLinear
	}
	return &Tween{From: from, To: to, Duration: duration, Ease: ease}
}

// Update 推进补间并返回当前值；完成后恒等于 To
func (tw *Tween) Update(deltaTime float64) float64 {
	tw.Elapsed += deltaTime
	return tw.Value()
}

// Value 返回当前值
func (tw *Tween) Value() float64 {
	if tw.Done() {
		return tw.To
	}
	return Lerp(tw.From, tw.To, tw.Ease(tw.Elapsed/tw.Duration))
}

// Done 补间是否已结束
func (tw *Tween) Done() bool {
	return tw.Duration <= 0 || tw.Elapsed >= tw.Duration
}
