package systems

import (
	"math/rand"
	"testing"

	"github.com/decker502/tiltduel/pkg/entities"
)

func newTestSpawnSystem(a *testArena, seed int64) *SpawnSystem {
	return NewSpawnSystem(
		a.pool,
		entities.NewPowerUpFactory(a.world, a.cfg),
		entities.NewObstacleFactory(a.world, a.cfg),
		a.timers,
		rand.New(rand.NewSource(seed)),
		a.cfg,
	)
}

func TestPowerUpDropsWithinDelayWindow(t *testing.T) {
	a := newTestArena()
	a.cfg.Obstacles.SpawnChance = 0
	s := newTestSpawnSystem(a, 5)

	s.StartRound()
	for i := 0; i < 119; i++ {
		a.timers.Update(testDelta)
	}
	if len(a.pool.PowerUps()) != 0 {
		t.Fatal("Power-up dropped before the minimum delay")
	}
	for i := 0; i < 61; i++ {
		a.timers.Update(testDelta)
	}
	if len(a.pool.PowerUps()) != 1 {
		t.Errorf("Expected one power-up within %v-%v s, got %d",
			a.cfg.PowerUps.DropDelayMin, a.cfg.PowerUps.DropDelayMax, len(a.pool.PowerUps()))
	}
}

func TestStoppedRoundCancelsDrop(t *testing.T) {
	a := newTestArena()
	s := newTestSpawnSystem(a, 5)

	s.StartRound()
	s.StopRound()
	for i := 0; i < 240; i++ {
		a.timers.Update(testDelta)
	}
	if len(a.pool.PowerUps()) != 0 {
		t.Error("Drop scheduled for a stopped round must not fire")
	}

	// 新回合的投放不受旧任务影响
	s.StartRound()
	for i := 0; i < 240; i++ {
		a.timers.Update(testDelta)
	}
	if len(a.pool.PowerUps()) != 1 {
		t.Errorf("Expected exactly one drop for the new round, got %d", len(a.pool.PowerUps()))
	}
}

func TestObstacleSpawnAndCull(t *testing.T) {
	a := newTestArena()
	a.cfg.Obstacles.SpawnChance = 1
	s := newTestSpawnSystem(a, 9)

	s.Update(testDelta)
	if len(a.pool.Obstacles()) != 0 {
		t.Fatal("Inactive spawn system must not drop obstacles")
	}

	s.StartRound()
	s.Update(testDelta)
	if len(a.pool.Obstacles()) != 1 {
		t.Fatalf("Expected one obstacle with spawn chance 1, got %d", len(a.pool.Obstacles()))
	}

	o := a.pool.Obstacles()[0]
	o.Remove()
	a.cfg.Obstacles.SpawnChance = 0
	s.Update(testDelta)
	if len(a.pool.Obstacles()) != 0 {
		t.Errorf("Expected flagged obstacle culled, got %d", len(a.pool.Obstacles()))
	}
}
