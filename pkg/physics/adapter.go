// Package physics 定义对战核心使用的刚体模拟接口，并提供一个确定性的默认实现。
//
// 核心逻辑（角色状态机、碰撞结算、回合控制）只依赖 Adapter 接口，
// 不关心具体由哪个模拟后端执行。默认实现 World 基于 ECS 存储刚体，
// 使用 AABB 检测碰撞，适合单元测试和无窗口运行。
package physics

import "github.com/decker502/tiltduel/pkg/ecs"

// BodyHandle 刚体句柄
type BodyHandle = ecs.EntityID

// NoBody 无效句柄
const NoBody BodyHandle = 0

// Label 刚体语义标签，碰撞结算据此分类
type Label string

const (
	LabelCharacter  Label = "character"
	LabelProjectile Label = "projectile"
	LabelObstacle   Label = "obstacle"
	LabelPowerUp    Label = "powerUp"
	LabelPlatform   Label = "platform"
)

// Shape 矩形形状（尺寸，像素）
type Shape struct {
	Width  float64
	Height float64
}

// BodyOptions 创建刚体的选项
type BodyOptions struct {
	Label Label
	Owner any // 所属游戏实体，碰撞事件中原样返回

	Density     float64
	Friction    float64
	Restitution float64
	FrictionAir float64

	IsStatic    bool
	IsSensor    bool
	IsKinematic bool
}

// BodyRef 碰撞事件中的一方
type BodyRef struct {
	Handle BodyHandle
	Label  Label
	Owner  any
}

// Pair 一次碰撞开始事件（两个刚体开始重叠）
type Pair struct {
	A BodyRef
	B BodyRef
}

// Match 检查这一对是否由标签 first 和 second 组成，按该顺序返回两方
func (p Pair) Match(first, second Label) (BodyRef, BodyRef, bool) {
	switch {
	case p.A.Label == first && p.B.Label == second:
		return p.A, p.B, true
	case p.B.Label == first && p.A.Label == second:
		return p.B, p.A, true
	}
	return BodyRef{}, BodyRef{}, false
}

// CollisionHandler 碰撞开始回调
// 回调在 Step 内同步执行，不得再调用 Step
type CollisionHandler func(pairs []Pair)

// Adapter 刚体模拟服务
//
// 对已移除或不存在的句柄，所有方法都是无操作（读取返回零值），不会 panic。
type Adapter interface {
	CreateBody(shape Shape, x, y float64, opts BodyOptions) BodyHandle
	// RemoveBody 幂等：重复移除同一刚体是无操作
	RemoveBody(body BodyHandle)
	Exists(body BodyHandle) bool
	Bodies(label Label) []BodyHandle

	Position(body BodyHandle) Vec
	SetPosition(body BodyHandle, pos Vec)
	Velocity(body BodyHandle) Vec
	SetVelocity(body BodyHandle, vel Vec)
	Angle(body BodyHandle) float64
	SetAngle(body BodyHandle, angle float64)
	AngularVelocity(body BodyHandle) float64
	SetAngularVelocity(body BodyHandle, omega float64)
	// ApplyForce 累积一个外力，在下一次 Step 中积分
	ApplyForce(body BodyHandle, point Vec, force Vec)

	Density(body BodyHandle) float64
	SetDensity(body BodyHandle, density float64)
	Mass(body BodyHandle) float64
	Size(body BodyHandle) (float64, float64)
	// SetScale 设置相对原始尺寸的缩放，质量随面积变化
	SetScale(body BodyHandle, scale float64)

	Step(deltaTime float64)
	OnCollisionStart(handler CollisionHandler)
}
