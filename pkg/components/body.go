package components

import "github.com/solarlune/resolv"

// 刚体组件
//
// 物理世界中的每个刚体都是一个 ECS 实体，由以下组件组合而成。
// 坐标系与画布一致：X 向右，Y 向下，角度为弧度（顺时针为正）。
// 速度单位是"像素/步"，与力积分时使用的毫秒平方时间步配合。

// TransformComponent 刚体位置（中心点）和旋转角度
type TransformComponent struct {
	X     float64
	Y     float64
	Angle float64
}

// VelocityComponent 刚体线速度和角速度
type VelocityComponent struct {
	VX              float64
	VY              float64
	AngularVelocity float64
}

// ShapeComponent 矩形碰撞盒
// Width/Height 为原始尺寸，Scale 为当前缩放（收缩道具会修改）
type ShapeComponent struct {
	Width  float64
	Height float64
	Scale  float64
}

// EffectiveSize 返回缩放后的宽高
func (s *ShapeComponent) EffectiveSize() (float64, float64) {
	return s.Width * s.Scale, s.Height * s.Scale
}

// MaterialComponent 材质与刚体类型
type MaterialComponent struct {
	Density     float64 // 密度，质量 = 密度 × 面积
	Friction    float64 // 与静态刚体接触时的摩擦系数
	Restitution float64 // 落地反弹系数
	FrictionAir float64 // 空气阻力（每步速度衰减比例）

	IsStatic    bool // 静态刚体（平台），不积分也不被推动
	IsSensor    bool // 传感器：只产生碰撞事件，不做分离
	IsKinematic bool // 运动学刚体：只按速度移动，不受重力、阻力和外力影响
}

// LabelComponent 刚体的语义标签和所属游戏实体（反向引用）
type LabelComponent struct {
	Label string
	Owner any
}

// ForceComponent 本步累积的外力，积分后清零
type ForceComponent struct {
	FX float64
	FY float64
}

// ColliderComponent 刚体在 resolv 碰撞空间中的对象
// 对象的标签即刚体标签，Data 保存刚体句柄
type ColliderComponent struct {
	Object *resolv.Object
}
