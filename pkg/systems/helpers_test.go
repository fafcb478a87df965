package systems

import (
	"math/rand"

	"github.com/decker502/tiltduel/pkg/config"
	"github.com/decker502/tiltduel/pkg/entities"
	"github.com/decker502/tiltduel/pkg/physics"
)

const testDelta = 1.0 / 60.0

// testArena 测试用的最小对战环境：无重力的物理世界 + 池 + 计时器 + 碰撞结算
type testArena struct {
	cfg       *config.GameplayConfig
	world     *physics.World
	pool      *EntityPool
	timers    *TimerSystem
	collision *CollisionSystem
	hits      []HitEvent
}

func newTestArena() *testArena {
	cfg := config.DefaultGameplayConfig()
	a := &testArena{
		cfg:    cfg,
		world:  physics.NewWorld(physics.WorldConfig{}),
		pool:   NewEntityPool(),
		timers: NewTimerSystem(),
	}
	a.collision = NewCollisionSystem(a.world, a.pool, a.timers, cfg.Knockback)
	a.collision.OnHit(func(e HitEvent) { a.hits = append(a.hits, e) })
	return a
}

func (a *testArena) combatant(name string, x, y float64, direction int) *entities.Combatant {
	return entities.NewCombatant(a.world, entities.CombatantOptions{
		Name:       name,
		X:          x,
		Y:          y,
		Direction:  direction,
		Controller: &entities.ManualController{},
		Character:  a.cfg.Character,
		PowerUps:   a.cfg.PowerUps,
		Rand:       rand.New(rand.NewSource(1)),
		Sink:       a.pool,
	})
}

func (a *testArena) projectile(shooter *entities.Combatant, x, y float64, v physics.Vec, explosive bool) *entities.Projectile {
	p := entities.NewProjectile(a.world, a.cfg, entities.ProjectileOptions{
		X: x, Y: y, Width: 4, Height: 3,
		Velocity:   v,
		Shooter:    shooter,
		WeaponType: "ak",
		Explosive:  explosive,
	})
	a.pool.AddProjectiles(p)
	return p
}

// pair 构造一个碰撞开始事件
func pair(aHandle physics.BodyHandle, aLabel physics.Label, aOwner any, bHandle physics.BodyHandle, bLabel physics.Label, bOwner any) physics.Pair {
	return physics.Pair{
		A: physics.BodyRef{Handle: aHandle, Label: aLabel, Owner: aOwner},
		B: physics.BodyRef{Handle: bHandle, Label: bLabel, Owner: bOwner},
	}
}
