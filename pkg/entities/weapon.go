package entities

import (
	"log"
	"math"
	"math/rand"

	"github.com/decker502/tiltduel/pkg/config"
	"github.com/decker502/tiltduel/pkg/physics"
)

// Weapon 武器
//
// 除类型参数外不持有状态；开火冷却由角色状态机管理。
// 多弹丸武器一次产生 N 颗平行飞行的子弹，沿垂直于速度的方向错开。
type Weapon struct {
	spec     config.WeaponConfig
	physics  physics.Adapter
	gameplay *config.GameplayConfig
}

// Type 武器类型
func (w *Weapon) Type() string { return w.spec.Type }

// Explosive 是否爆炸武器
func (w *Weapon) Explosive() bool { return w.spec.Kind == config.WeaponKindExplosive }

// Spec 武器参数
func (w *Weapon) Spec() config.WeaponConfig { return w.spec }

// Shoot 按角色当前的位置、朝向和瞄准角开火
func (w *Weapon) Shoot(c *Combatant) []*Projectile {
	if c == nil {
		return nil
	}
	return w.Fire(c.Position(), c.AimAngle(), c.Direction(), c)
}

// Fire 从 origin 以瞄准角 aim 开火
//
// 生成点 = origin + 按朝向翻转的枪口偏移。
// 速度 = (-direction·sin(aim), -cos(aim)) × speed，aim = -π/2 时水平朝向前方。
//
// 参数:
//   - origin: 角色中心点
//   - aim: 世界坐标瞄准角
//   - direction: 朝向（+1/-1）
//   - shooter: 开火者，用于排除自伤，可为 nil
//
// 返回:
//   - []*Projectile: 生成的子弹
func (w *Weapon) Fire(origin physics.Vec, aim float64, direction int, shooter *Combatant) []*Projectile {
	dir := float64(direction)
	velocity := physics.Vec{
		X: -dir * math.Sin(aim) * w.spec.Speed,
		Y: -math.Cos(aim) * w.spec.Speed,
	}
	spawn := origin.Add(physics.Vec{X: dir * w.spec.BarrelOffsetX, Y: w.spec.BarrelOffsetY})
	lateral := velocity.Perp().Normalize()

	pellets := w.spec.Pellets
	if pellets < 1 {
		pellets = 1
	}
	projectiles := make([]*Projectile, 0, pellets)
	for i := 0; i < pellets; i++ {
		offset := (float64(i) - float64(pellets-1)/2) * w.spec.PelletSpacing
		pos := spawn.Add(lateral.Scale(offset))
		projectiles = append(projectiles, NewProjectile(w.physics, w.gameplay, ProjectileOptions{
			X:          pos.X,
			Y:          pos.Y,
			Width:      w.spec.BulletWidth,
			Height:     w.spec.BulletHeight,
			Velocity:   velocity,
			Shooter:    shooter,
			WeaponType: w.spec.Type,
			Explosive:  w.Explosive(),
		}))
	}
	return projectiles
}

// WeaponFactory 按配置创建武器
type WeaponFactory struct {
	physics physics.Adapter
	cfg     *config.GameplayConfig
}

// NewWeaponFactory 创建武器工厂
func NewWeaponFactory(adapter physics.Adapter, cfg *config.GameplayConfig) *WeaponFactory {
	return &WeaponFactory{physics: adapter, cfg: cfg}
}

// Create 创建指定类型的武器，未知类型回退到默认武器
func (f *WeaponFactory) Create(weaponType string) *Weapon {
	spec, ok := f.cfg.Weapon(weaponType)
	if !ok {
		log.Printf("[WeaponFactory] Warning: unknown weapon type '%s', falling back to '%s'", weaponType, f.cfg.DefaultWeapon)
		spec, _ = f.cfg.Weapon(f.cfg.DefaultWeapon)
	}
	return &Weapon{spec: spec, physics: f.physics, gameplay: f.cfg}
}

// IsKnown 检查武器类型是否存在于配置中
func (f *WeaponFactory) IsKnown(weaponType string) bool {
	_, ok := f.cfg.Weapon(weaponType)
	return ok
}

// PickType 随机选择武器类型
//
// forceChange 为 true 且存在其他类型时，结果一定不同于 previous。
func (f *WeaponFactory) PickType(previous string, forceChange bool, rng *rand.Rand) string {
	types := f.cfg.WeaponTypes()
	if forceChange {
		candidates := make([]string, 0, len(types))
		for _, t := range types {
			if t != previous {
				candidates = append(candidates, t)
			}
		}
		if len(candidates) > 0 {
			types = candidates
		}
	}
	return types[rng.Intn(len(types))]
}

// CreateForBoth 为两名角色创建同类型的武器并装备
func (f *WeaponFactory) CreateForBoth(weaponType string, a, b *Combatant) {
	a.SetWeapon(f.Create(weaponType))
	b.SetWeapon(f.Create(weaponType))
}
