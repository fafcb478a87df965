package physics

import "math"

// Vec 二维向量（画布坐标，Y 向下）
type Vec struct {
	X float64
	Y float64
}

// Add 返回 v + o
func (v Vec) Add(o Vec) Vec { return Vec{X: v.X + o.X, Y: v.Y + o.Y} }

// Sub 返回 v - o
func (v Vec) Sub(o Vec) Vec { return Vec{X: v.X - o.X, Y: v.Y - o.Y} }

// Scale 返回 v * k
func (v Vec) Scale(k float64) Vec { return Vec{X: v.X * k, Y: v.Y * k} }

// Len 返回向量长度
func (v Vec) Len() float64 { return math.Hypot(v.X, v.Y) }

// Perp 返回逆时针旋转 90° 的垂直向量
func (v Vec) Perp() Vec { return Vec{X: -v.Y, Y: v.X} }

// Normalize 返回单位向量，零向量原样返回
func (v Vec) Normalize() Vec {
	l := v.Len()
	if l == 0 {
		return v
	}
	return Vec{X: v.X / l, Y: v.Y / l}
}
