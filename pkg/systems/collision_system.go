package systems

import (
	"log"

	"github.com/decker502/tiltduel/pkg/config"
	"github.com/decker502/tiltduel/pkg/entities"
	"github.com/decker502/tiltduel/pkg/physics"
)

// HitEvent 一次有效命中
type HitEvent struct {
	Target     *entities.Combatant
	Shooter    *entities.Combatant
	WeaponType string
	Explosive  bool
	// DeltaV 击退造成的速度变化，爆炸命中时为零
	DeltaV physics.Vec
}

// PickupEvent 一次道具拾取
type PickupEvent struct {
	Combatant *entities.Combatant
	Kind      entities.EffectKind
}

// CollisionSystem 碰撞结算
//
// 订阅物理世界的碰撞开始事件，按两方标签分类处理：
//   - 子弹 × 角色：排除自伤；爆炸弹让角色进入爆炸状态，普通子弹施加击退；子弹标记清理
//   - 子弹 × 障碍物：子弹标记清理
//   - 角色 × 道具：道具生效并从池和物理世界移除
//
// 碰撞对引用的实体可能在同一步内已被移除，这类事件静默忽略。
type CollisionSystem struct {
	pool      *EntityPool
	scheduler entities.Scheduler
	knockback config.KnockbackConfig

	onHit    func(HitEvent)
	onPickup func(PickupEvent)
}

// NewCollisionSystem 创建碰撞结算系统并订阅 adapter 的碰撞事件
func NewCollisionSystem(adapter physics.Adapter, pool *EntityPool, scheduler entities.Scheduler, knockback config.KnockbackConfig) *CollisionSystem {
	s := &CollisionSystem{
		pool:      pool,
		scheduler: scheduler,
		knockback: knockback,
	}
	adapter.OnCollisionStart(s.HandlePairs)
	return s
}

// OnHit 设置命中回调
func (s *CollisionSystem) OnHit(fn func(HitEvent)) { s.onHit = fn }

// OnPickup 设置拾取回调
func (s *CollisionSystem) OnPickup(fn func(PickupEvent)) { s.onPickup = fn }

// HandlePairs 处理一批碰撞开始事件
func (s *CollisionSystem) HandlePairs(pairs []physics.Pair) {
	for _, pair := range pairs {
		if proj, char, ok := pair.Match(physics.LabelProjectile, physics.LabelCharacter); ok {
			s.resolveProjectileHit(proj, char)
			continue
		}
		if proj, _, ok := pair.Match(physics.LabelProjectile, physics.LabelObstacle); ok {
			s.resolveProjectileBlocked(proj)
			continue
		}
		if char, pu, ok := pair.Match(physics.LabelCharacter, physics.LabelPowerUp); ok {
			s.resolvePickup(char, pu)
		}
	}
}

// liveProjectile 返回仍在池中且未标记清理的子弹
func (s *CollisionSystem) liveProjectile(ref physics.BodyRef) (*entities.Projectile, bool) {
	proj, ok := ref.Owner.(*entities.Projectile)
	if !ok || proj == nil {
		return nil, false
	}
	if !s.pool.HasProjectile(proj) || proj.ShouldCleanUp() {
		return nil, false
	}
	return proj, true
}

func (s *CollisionSystem) resolveProjectileHit(projRef, charRef physics.BodyRef) {
	proj, ok := s.liveProjectile(projRef)
	if !ok {
		return
	}
	target, ok := charRef.Owner.(*entities.Combatant)
	if !ok || target == nil {
		log.Printf("[CollisionSystem] Warning: character body %d has no combatant, ignored", charRef.Handle)
		return
	}
	if proj.Shooter() == target {
		return
	}
	// 已死亡的角色等待回合重置，子弹只做清理
	if !target.IsAlive() {
		proj.MarkForCleanUp()
		return
	}

	event := HitEvent{
		Target:     target,
		Shooter:    proj.Shooter(),
		WeaponType: proj.WeaponType(),
		Explosive:  proj.Explosive(),
	}

	if proj.Explosive() {
		target.Explode()
	} else if dv, ok := Knockback(proj.Velocity(), proj.Mass(), target.Mass(), target.Density(), s.knockback); ok {
		target.SetVelocity(target.Velocity().Add(dv))
		event.DeltaV = dv
	}
	proj.MarkForCleanUp()

	if s.onHit != nil {
		s.onHit(event)
	}
}

func (s *CollisionSystem) resolveProjectileBlocked(projRef physics.BodyRef) {
	if proj, ok := s.liveProjectile(projRef); ok {
		proj.MarkForCleanUp()
	}
}

func (s *CollisionSystem) resolvePickup(charRef, puRef physics.BodyRef) {
	pu, ok := puRef.Owner.(*entities.PowerUp)
	if !ok || pu == nil || !s.pool.HasPowerUp(pu) {
		return
	}
	c, ok := charRef.Owner.(*entities.Combatant)
	if !ok || c == nil {
		return
	}
	if !pu.Collect(c, s.scheduler) {
		return
	}
	s.pool.RemovePowerUp(pu)

	if s.onPickup != nil {
		s.onPickup(PickupEvent{Combatant: c, Kind: pu.Kind()})
	}
}

// Knockback 计算子弹命中造成的速度变化
//
//	resistance = 1 + density × DensityFactor
//	impulse    = (v / |v|) × (子弹质量 / 角色质量) × Base / resistance
//	Δv         = (impulse.x, impulse.y × VerticalDamping)
//
// 返回:
//   - physics.Vec: 速度变化量
//   - bool: 子弹速度可忽略或角色质量无效时返回 false
func Knockback(velocity physics.Vec, projectileMass, characterMass, characterDensity float64, cfg config.KnockbackConfig) (physics.Vec, bool) {
	speed := velocity.Len()
	if speed < cfg.MinSpeed || speed == 0 || characterMass <= 0 {
		return physics.Vec{}, false
	}

	resistance := 1 + characterDensity*cfg.DensityFactor
	impulse := velocity.Scale(1 / speed * (projectileMass / characterMass) * cfg.Base / resistance)
	return physics.Vec{X: impulse.X, Y: impulse.Y * cfg.VerticalDamping}, true
}
