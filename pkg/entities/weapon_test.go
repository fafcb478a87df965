package entities

import (
	"math"
	"math/rand"
	"testing"

	"github.com/decker502/tiltduel/pkg/config"
	"github.com/decker502/tiltduel/pkg/physics"
)

func TestFireSpreadProducesParallelPellets(t *testing.T) {
	cfg := config.DefaultGameplayConfig()
	w := physics.NewWorld(physics.WorldConfig{})
	ak := NewWeaponFactory(w, cfg).Create("ak")

	shots := ak.Fire(physics.Vec{X: 150, Y: 135}, -math.Pi/2, 1, nil)

	if len(shots) != 3 {
		t.Fatalf("Expected 3 pellets, got %d", len(shots))
	}
	for i, p := range shots {
		v := p.Velocity()
		if math.Abs(v.X-10) > 1e-9 || math.Abs(v.Y) > 1e-9 {
			t.Errorf("Pellet %d: expected velocity (10, 0), got %+v", i, v)
		}
		expectedY := 135 + float64(i-1)*cfg.Weapons[1].PelletSpacing
		if pos := p.Position(); math.Abs(pos.X-150) > 1e-9 || math.Abs(pos.Y-expectedY) > 1e-9 {
			t.Errorf("Pellet %d: expected spawn (150, %f), got %+v", i, expectedY, pos)
		}
		if p.WeaponType() != "ak" || p.Explosive() {
			t.Errorf("Pellet %d: unexpected tags %s explosive=%v", i, p.WeaponType(), p.Explosive())
		}
	}
}

func TestFireMirrorsByDirection(t *testing.T) {
	cfg := config.DefaultGameplayConfig()
	cfg.Weapons[0].BarrelOffsetX = 6
	w := physics.NewWorld(physics.WorldConfig{})
	laser := NewWeaponFactory(w, cfg).Create("laser")

	right := laser.Fire(physics.Vec{X: 100, Y: 100}, -math.Pi/2, 1, nil)[0]
	left := laser.Fire(physics.Vec{X: 100, Y: 100}, -math.Pi/2, -1, nil)[0]

	if right.Velocity().X <= 0 || left.Velocity().X >= 0 {
		t.Errorf("Expected mirrored horizontal velocity, got right=%+v left=%+v", right.Velocity(), left.Velocity())
	}
	if right.Position().X != 106 || left.Position().X != 94 {
		t.Errorf("Expected barrel offset flipped, got right.x=%f left.x=%f", right.Position().X, left.Position().X)
	}

	// 手臂放下（0）时朝正上方
	up := laser.Fire(physics.Vec{X: 100, Y: 100}, 0, 1, nil)[0]
	if v := up.Velocity(); math.Abs(v.X) > 1e-9 || math.Abs(v.Y+20) > 1e-9 {
		t.Errorf("Expected straight-up velocity (0, -20), got %+v", v)
	}
}

func TestShootUsesBodyTilt(t *testing.T) {
	cfg := config.DefaultGameplayConfig()
	w := physics.NewWorld(physics.WorldConfig{})
	c, _ := newTestCombatant(w, cfg, &ManualController{}, 100, 100, 1)
	laser := NewWeaponFactory(w, cfg).Create("laser")

	w.SetAngle(c.Body(), 0.2)
	shot := laser.Shoot(c)[0]

	// 手臂角 0，刚体顺时针倾斜 0.2：瞄准角为 -0.2，子弹略向右上
	expected := physics.Vec{X: -math.Sin(-0.2) * 20, Y: -math.Cos(-0.2) * 20}
	if v := shot.Velocity(); math.Abs(v.X-expected.X) > 1e-9 || math.Abs(v.Y-expected.Y) > 1e-9 {
		t.Errorf("Expected velocity %+v, got %+v", expected, v)
	}
	if shot.Shooter() != c {
		t.Error("Expected shooter recorded")
	}
}

func TestWeaponFactoryFallsBackToDefault(t *testing.T) {
	cfg := config.DefaultGameplayConfig()
	factory := NewWeaponFactory(physics.NewWorld(physics.WorldConfig{}), cfg)

	w := factory.Create("railgun")
	if w.Type() != cfg.DefaultWeapon {
		t.Errorf("Expected fallback to %s, got %s", cfg.DefaultWeapon, w.Type())
	}
	if factory.IsKnown("railgun") || !factory.IsKnown("bazooka") {
		t.Error("IsKnown returned wrong result")
	}
	if !factory.Create("bazooka").Explosive() {
		t.Error("Expected bazooka to be explosive")
	}
}

func TestPickTypeForcesChange(t *testing.T) {
	cfg := config.DefaultGameplayConfig()
	factory := NewWeaponFactory(physics.NewWorld(physics.WorldConfig{}), cfg)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 50; i++ {
		if got := factory.PickType("ak", true, rng); got == "ak" {
			t.Fatalf("Expected a different weapon than ak, got %s", got)
		}
	}

	cfg.Weapons = cfg.Weapons[:1]
	if got := factory.PickType("laser", true, rng); got != "laser" {
		t.Errorf("With a single weapon the same type must be reused, got %s", got)
	}
}

func TestCreateForBothAssignsSameType(t *testing.T) {
	cfg := config.DefaultGameplayConfig()
	w := newTestWorld(cfg)
	a, _ := newTestCombatant(w, cfg, AutonomousController{}, 150, 135, 1)
	b, _ := newTestCombatant(w, cfg, AutonomousController{}, 426, 135, -1)

	NewWeaponFactory(w, cfg).CreateForBoth("ak", a, b)

	if a.Weapon() == nil || b.Weapon() == nil {
		t.Fatal("Expected both combatants armed")
	}
	if a.Weapon() == b.Weapon() {
		t.Error("Each combatant should get its own weapon instance")
	}
	if a.Weapon().Type() != "ak" || b.Weapon().Type() != "ak" {
		t.Errorf("Expected ak for both, got %s / %s", a.Weapon().Type(), b.Weapon().Type())
	}
}
