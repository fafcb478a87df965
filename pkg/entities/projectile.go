package entities

import (
	"github.com/decker502/tiltduel/pkg/components"
	"github.com/decker502/tiltduel/pkg/config"
	"github.com/decker502/tiltduel/pkg/physics"
)

// ProjectileOptions 创建子弹的参数
type ProjectileOptions struct {
	X, Y       float64
	Width      float64
	Height     float64
	Velocity   physics.Vec
	Shooter    *Combatant
	WeaponType string
	Explosive  bool
}

// Projectile 子弹
//
// 传感器刚体：只产生碰撞事件，不推动其他刚体。速度在生成时确定，
// 每帧重新写回刚体，抵消模拟中的重力和阻力。
// shouldCleanUp 是终态：一旦置位，子弹会从活动池和物理世界中移除，不会恢复。
type Projectile struct {
	physics    physics.Adapter
	body       physics.BodyHandle
	velocity   physics.Vec
	shooter    *Combatant
	weaponType string
	explosive  bool

	lifetime components.LifetimeComponent
	bounds   boundsRect

	shouldCleanUp bool
	removed       bool
}

// boundsRect 超出即清理的矩形范围
type boundsRect struct {
	minX, minY, maxX, maxY float64
}

// NewProjectile 在物理世界中生成子弹
func NewProjectile(adapter physics.Adapter, cfg *config.GameplayConfig, opts ProjectileOptions) *Projectile {
	margin := cfg.Projectile.BoundsMargin
	p := &Projectile{
		physics:    adapter,
		velocity:   opts.Velocity,
		shooter:    opts.Shooter,
		weaponType: opts.WeaponType,
		explosive:  opts.Explosive,
		lifetime:   components.LifetimeComponent{MaxLifetime: cfg.Projectile.MaxLifetime},
		bounds: boundsRect{
			minX: -margin,
			minY: -margin,
			maxX: cfg.Canvas.Width + margin,
			maxY: cfg.Canvas.Height + margin,
		},
	}

	p.body = adapter.CreateBody(
		physics.Shape{Width: opts.Width, Height: opts.Height},
		opts.X, opts.Y,
		physics.BodyOptions{
			Label:       physics.LabelProjectile,
			Owner:       p,
			Density:     cfg.Projectile.Density,
			FrictionAir: cfg.Projectile.FrictionAir,
			IsSensor:    true,
			IsKinematic: true,
		},
	)
	adapter.SetVelocity(p.body, p.velocity)

	return p
}

// Body 刚体句柄
func (p *Projectile) Body() physics.BodyHandle { return p.body }

// Velocity 生成时确定的速度
func (p *Projectile) Velocity() physics.Vec { return p.velocity }

// Position 当前位置
func (p *Projectile) Position() physics.Vec { return p.physics.Position(p.body) }

// Mass 子弹质量
func (p *Projectile) Mass() float64 { return p.physics.Mass(p.body) }

// Shooter 开火者，只用于身份比较
func (p *Projectile) Shooter() *Combatant { return p.shooter }

// WeaponType 发射它的武器类型
func (p *Projectile) WeaponType() string { return p.weaponType }

// Explosive 是否爆炸弹
func (p *Projectile) Explosive() bool { return p.explosive }

// Elapsed 已存在时间（秒）
func (p *Projectile) Elapsed() float64 { return p.lifetime.CurrentLifetime }

// ShouldCleanUp 是否已标记清理
func (p *Projectile) ShouldCleanUp() bool { return p.shouldCleanUp }

// MarkForCleanUp 标记清理（幂等）
func (p *Projectile) MarkForCleanUp() { p.shouldCleanUp = true }

// Removed 刚体是否已从物理世界移除
func (p *Projectile) Removed() bool { return p.removed }

// Update 写回速度，累计存在时间，超时或出界时标记清理
func (p *Projectile) Update(deltaTime float64) {
	if p.removed {
		return
	}
	p.physics.SetVelocity(p.body, p.velocity)

	if p.lifetime.Advance(deltaTime) {
		p.shouldCleanUp = true
	}

	pos := p.Position()
	if pos.X < p.bounds.minX || pos.X > p.bounds.maxX || pos.Y < p.bounds.minY || pos.Y > p.bounds.maxY {
		p.shouldCleanUp = true
	}
}

// Remove 标记清理并移除刚体，重复调用是无操作
func (p *Projectile) Remove() {
	p.shouldCleanUp = true
	if p.removed {
		return
	}
	p.removed = true
	p.physics.RemoveBody(p.body)
}
