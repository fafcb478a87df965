package systems

import (
	"math"
	"testing"

	"github.com/decker502/tiltduel/pkg/entities"
	"github.com/decker502/tiltduel/pkg/physics"
)

func TestSelfHitIsIgnored(t *testing.T) {
	a := newTestArena()
	shooter := a.combatant("p1", 150, 100, 1)
	shooter.SetVelocity(physics.Vec{X: 0.5, Y: -1})
	p := a.projectile(shooter, 150, 100, physics.Vec{X: 10}, false)

	a.collision.HandlePairs([]physics.Pair{
		pair(p.Body(), physics.LabelProjectile, p, shooter.Body(), physics.LabelCharacter, shooter),
	})

	if v := shooter.Velocity(); v != (physics.Vec{X: 0.5, Y: -1}) {
		t.Errorf("Self hit changed shooter velocity to %+v", v)
	}
	if p.ShouldCleanUp() {
		t.Error("Self hit must not flag the projectile for cleanup")
	}
	if len(a.hits) != 0 {
		t.Errorf("Expected no hit events, got %d", len(a.hits))
	}
}

func TestHitAppliesKnockbackAndFlagsProjectile(t *testing.T) {
	a := newTestArena()
	shooter := a.combatant("p1", 100, 100, 1)
	target := a.combatant("p2", 300, 100, -1)
	p := a.projectile(shooter, 300, 100, physics.Vec{X: 10}, false)

	a.collision.HandlePairs([]physics.Pair{
		pair(target.Body(), physics.LabelCharacter, target, p.Body(), physics.LabelProjectile, p),
	})

	if !p.ShouldCleanUp() {
		t.Error("Expected projectile flagged after hit")
	}
	v := target.Velocity()
	if v.X <= 0 || v.Y != 0 {
		t.Errorf("Expected rightward knockback only, got %+v", v)
	}
	if len(a.hits) != 1 || a.hits[0].Target != target || a.hits[0].Shooter != shooter || a.hits[0].DeltaV != v {
		t.Errorf("Unexpected hit events %+v", a.hits)
	}

	// 同一颗子弹在同一批次中再次命中不会生效
	a.collision.HandlePairs([]physics.Pair{
		pair(p.Body(), physics.LabelProjectile, p, target.Body(), physics.LabelCharacter, target),
	})
	if target.Velocity() != v || len(a.hits) != 1 {
		t.Error("Flagged projectile must not hit twice")
	}
}

func TestExplosiveHitStartsExplosion(t *testing.T) {
	a := newTestArena()
	shooter := a.combatant("p1", 100, 100, 1)
	target := a.combatant("p2", 300, 100, -1)
	p := a.projectile(shooter, 300, 100, physics.Vec{X: 6}, true)

	a.collision.HandlePairs([]physics.Pair{
		pair(p.Body(), physics.LabelProjectile, p, target.Body(), physics.LabelCharacter, target),
	})

	if target.State() != entities.StateExploding {
		t.Errorf("Expected target exploding, got %v", target.State())
	}
	if target.Velocity() != (physics.Vec{}) {
		t.Errorf("Explosive hit should not apply knockback, got %+v", target.Velocity())
	}
	if !p.ShouldCleanUp() || len(a.hits) != 1 || !a.hits[0].Explosive {
		t.Error("Expected explosive projectile flagged and reported")
	}
}

func TestHitOnDeadCombatantOnlyCleansUp(t *testing.T) {
	a := newTestArena()
	shooter := a.combatant("p1", 100, 100, 1)
	target := a.combatant("p2", 300, 100, -1)

	target.Explode()
	for i := 0; i < 600 && target.IsAlive(); i++ {
		target.Update(testDelta)
	}
	if target.IsAlive() {
		t.Fatal("Expected target dead after the explosion finished")
	}
	target.SetVelocity(physics.Vec{})

	p := a.projectile(shooter, 300, 100, physics.Vec{X: 10}, false)
	a.collision.HandlePairs([]physics.Pair{
		pair(p.Body(), physics.LabelProjectile, p, target.Body(), physics.LabelCharacter, target),
	})

	if v := target.Velocity(); v != (physics.Vec{}) {
		t.Errorf("Dead combatant should not be knocked back, got %+v", v)
	}
	if !p.ShouldCleanUp() {
		t.Error("Expected projectile flagged after hitting a dead combatant")
	}
	if len(a.hits) != 0 {
		t.Errorf("Expected no hit events, got %d", len(a.hits))
	}
}

func TestProjectileBlockedByObstacle(t *testing.T) {
	a := newTestArena()
	box := entities.NewObstacleFactory(a.world, a.cfg).Create("box", 200, 100)
	p := a.projectile(nil, 200, 100, physics.Vec{X: 10}, false)

	a.collision.HandlePairs([]physics.Pair{
		pair(box.Body(), physics.LabelObstacle, box, p.Body(), physics.LabelProjectile, p),
	})

	if !p.ShouldCleanUp() {
		t.Error("Expected projectile flagged after hitting obstacle")
	}
	if len(a.hits) != 0 {
		t.Error("Obstacle block is not a hit")
	}
}

func TestStaleReferencesAreIgnored(t *testing.T) {
	a := newTestArena()
	target := a.combatant("p2", 300, 100, -1)

	// 不在池中的子弹（已被清理）
	orphan := entities.NewProjectile(a.world, a.cfg, entities.ProjectileOptions{
		X: 300, Y: 100, Width: 4, Height: 3, Velocity: physics.Vec{X: 10},
	})
	pairs := []physics.Pair{
		pair(orphan.Body(), physics.LabelProjectile, orphan, target.Body(), physics.LabelCharacter, target),
		pair(99, physics.LabelProjectile, nil, target.Body(), physics.LabelCharacter, target),
		pair(98, physics.LabelCharacter, nil, 97, physics.LabelPowerUp, nil),
		pair(96, physics.LabelCharacter, "not a combatant", 95, physics.LabelPlatform, nil),
	}
	a.collision.HandlePairs(pairs)

	if target.Velocity() != (physics.Vec{}) || len(a.hits) != 0 {
		t.Error("Stale references must be ignored")
	}
}

func TestPowerUpPickupRemovesPowerUp(t *testing.T) {
	a := newTestArena()
	c := a.combatant("p1", 150, 100, 1)
	pu := entities.NewPowerUpFactory(a.world, a.cfg).Create("weightBoost", 150, 100)
	a.pool.AddPowerUp(pu)

	picked := 0
	a.collision.OnPickup(func(e PickupEvent) {
		picked++
		if e.Combatant != c || e.Kind != entities.EffectWeightBoost {
			t.Errorf("Unexpected pickup event %+v", e)
		}
	})

	// 通过物理步进触发：两者重叠
	a.world.Step(testDelta)

	if picked != 1 {
		t.Fatalf("Expected one pickup, got %d", picked)
	}
	if a.pool.HasPowerUp(pu) || a.world.Exists(pu.Body()) {
		t.Error("Expected power-up removed from pool and world")
	}
	if c.Density() != a.cfg.Character.Density*a.cfg.PowerUps.WeightFactor {
		t.Errorf("Expected weight boost applied, density=%f", c.Density())
	}
	if a.timers.PendingNamed("powerup_weightBoost") != 1 {
		t.Error("Expected revert scheduled")
	}

	// 到期后恢复
	for i := 0; i < 601; i++ {
		a.timers.Update(testDelta)
	}
	if c.Density() != a.cfg.Character.Density {
		t.Errorf("Expected density reverted, got %f", c.Density())
	}
}

func TestKnockbackFormula(t *testing.T) {
	a := newTestArena()
	cfg := a.cfg.Knockback

	dv, ok := Knockback(physics.Vec{X: 10}, 6.6, 1.152, 0.002, cfg)
	if !ok {
		t.Fatal("Expected knockback")
	}
	expected := (6.6 / 1.152) * 0.8 / (1 + 0.002*60)
	if math.Abs(dv.X-expected) > 1e-12 || dv.Y != 0 {
		t.Errorf("Expected (%f, 0), got %+v", expected, dv)
	}

	dv, _ = Knockback(physics.Vec{X: 0, Y: -10}, 6.6, 1.152, 0.002, cfg)
	if math.Abs(dv.Y+expected*0.3) > 1e-12 {
		t.Errorf("Expected vertical knockback damped to 30%%, got %f", dv.Y)
	}

	if _, ok := Knockback(physics.Vec{X: 0.0001}, 6.6, 1.152, 0.002, cfg); ok {
		t.Error("Negligible speed should skip knockback")
	}
	if _, ok := Knockback(physics.Vec{X: 10}, 6.6, 0, 0.002, cfg); ok {
		t.Error("Zero character mass should skip knockback")
	}
}

func TestKnockbackDecreasesWithDensity(t *testing.T) {
	a := newTestArena()
	light := a.combatant("light", 100, 100, 1)
	heavy := a.combatant("heavy", 300, 100, 1)
	a.world.SetDensity(heavy.Body(), a.cfg.Character.Density*4)

	hit := func(target *entities.Combatant) float64 {
		pos := target.Position()
		p := a.projectile(nil, pos.X, pos.Y, physics.Vec{X: 10}, false)
		before := target.Velocity()
		a.collision.HandlePairs([]physics.Pair{
			pair(p.Body(), physics.LabelProjectile, p, target.Body(), physics.LabelCharacter, target),
		})
		return target.Velocity().Sub(before).Len()
	}

	dLight := hit(light)
	dHeavy := hit(heavy)
	if !(dLight > dHeavy) || dHeavy <= 0 {
		t.Errorf("Expected lighter density to be knocked further: light=%f heavy=%f", dLight, dHeavy)
	}
}
