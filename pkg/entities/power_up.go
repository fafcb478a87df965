package entities

import (
	"log"
	"math/rand"

	"github.com/decker502/tiltduel/pkg/config"
	"github.com/decker502/tiltduel/pkg/physics"
)

// EffectKind 道具效果
type EffectKind int

const (
	// EffectJumpBoost 跳跃力乘以 JumpFactor
	EffectJumpBoost EffectKind = iota
	// EffectWeightBoost 密度乘以 WeightFactor，更难被击退
	EffectWeightBoost
	// EffectShrink 缩小到 ShrinkScale，更难被击中
	EffectShrink
)

func (k EffectKind) String() string {
	switch k {
	case EffectJumpBoost:
		return "jumpBoost"
	case EffectWeightBoost:
		return "weightBoost"
	case EffectShrink:
		return "shrink"
	}
	return "unknown"
}

// ParseEffectKind 解析配置中的道具名，未知名称回退到 JumpBoost
func ParseEffectKind(name string) (EffectKind, bool) {
	switch name {
	case "jumpBoost":
		return EffectJumpBoost, true
	case "weightBoost":
		return EffectWeightBoost, true
	case "shrink":
		return EffectShrink, true
	}
	return EffectJumpBoost, false
}

// PowerUp 可拾取道具
// 被角色碰到后立即生效，并从活动池和物理世界中移除
type PowerUp struct {
	physics   physics.Adapter
	body      physics.BodyHandle
	kind      EffectKind
	duration  float64
	collected bool
	removed   bool
}

// Body 刚体句柄
func (p *PowerUp) Body() physics.BodyHandle { return p.body }

// Kind 道具效果
func (p *PowerUp) Kind() EffectKind { return p.kind }

// Duration 效果持续时间（秒）
func (p *PowerUp) Duration() float64 { return p.duration }

// Collected 是否已被拾取
func (p *PowerUp) Collected() bool { return p.collected }

// Position 当前位置
func (p *PowerUp) Position() physics.Vec { return p.physics.Position(p.body) }

// Update 道具由物理模拟驱动，自身无逻辑
func (p *PowerUp) Update(deltaTime float64) {}

// Collect 把效果施加到角色上
//
// 返回:
//   - bool: 是否生效；已被拾取或角色已死亡时返回 false
func (p *PowerUp) Collect(c *Combatant, scheduler Scheduler) bool {
	if p.collected || c == nil {
		return false
	}
	if !c.ApplyPowerUp(p.kind, p.duration, scheduler) {
		return false
	}
	p.collected = true
	return true
}

// Remove 移除刚体，重复调用是无操作
func (p *PowerUp) Remove() {
	if p.removed {
		return
	}
	p.removed = true
	p.physics.RemoveBody(p.body)
}

// Removed 是否已移除
func (p *PowerUp) Removed() bool { return p.removed }

// PowerUpFactory 按配置创建道具
type PowerUpFactory struct {
	physics physics.Adapter
	cfg     *config.GameplayConfig
}

// NewPowerUpFactory 创建道具工厂
func NewPowerUpFactory(adapter physics.Adapter, cfg *config.GameplayConfig) *PowerUpFactory {
	return &PowerUpFactory{physics: adapter, cfg: cfg}
}

// Create 在 (x, y) 生成指定名称的道具，未知名称回退到 JumpBoost
func (f *PowerUpFactory) Create(name string, x, y float64) *PowerUp {
	kind, ok := ParseEffectKind(name)
	if !ok {
		log.Printf("[PowerUpFactory] Warning: unknown power-up '%s', falling back to %s", name, kind)
	}

	pu := f.cfg.PowerUps
	p := &PowerUp{physics: f.physics, kind: kind, duration: pu.Duration}
	p.body = f.physics.CreateBody(
		physics.Shape{Width: pu.Width, Height: pu.Height},
		x, y,
		physics.BodyOptions{
			Label:       physics.LabelPowerUp,
			Owner:       p,
			Density:     pu.Density,
			Friction:    0.5,
			Restitution: 0.3,
			FrictionAir: pu.FrictionAir,
		},
	)
	return p
}

// CreateRandom 在随机横坐标处生成随机种类的道具
func (f *PowerUpFactory) CreateRandom(rng *rand.Rand) *PowerUp {
	pu := f.cfg.PowerUps
	name := EffectJumpBoost.String()
	if len(pu.Kinds) > 0 {
		name = pu.Kinds[rng.Intn(len(pu.Kinds))]
	}
	x := randomX(rng, f.cfg.Canvas.Width, pu.SpawnMarginX)
	return f.Create(name, x, pu.SpawnY)
}

// randomX 返回 [margin, width-margin) 内的随机横坐标
func randomX(rng *rand.Rand, width, margin float64) float64 {
	span := width - 2*margin
	if span <= 0 {
		return width / 2
	}
	return margin + rng.Float64()*span
}
