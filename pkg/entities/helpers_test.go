package entities

import (
	"math/rand"

	"github.com/decker502/tiltduel/pkg/config"
	"github.com/decker502/tiltduel/pkg/physics"
)

const testDelta = 1.0 / 60.0

// fakeScheduler 记录延迟任务，由测试手动触发
type fakeScheduler struct {
	tasks []fakeTask
}

type fakeTask struct {
	delay    float64
	name     string
	callback func()
}

func (s *fakeScheduler) After(delay float64, name string, callback func()) {
	s.tasks = append(s.tasks, fakeTask{delay: delay, name: name, callback: callback})
}

// runAll 执行并清空当前所有任务
func (s *fakeScheduler) runAll() {
	tasks := s.tasks
	s.tasks = nil
	for _, task := range tasks {
		task.callback()
	}
}

// projectileCollector 收集角色开火产生的子弹
type projectileCollector struct {
	volleys     int
	projectiles []*Projectile
}

func (c *projectileCollector) AddProjectiles(projectiles ...*Projectile) {
	c.volleys++
	c.projectiles = append(c.projectiles, projectiles...)
}

func newTestWorld(cfg *config.GameplayConfig) *physics.World {
	w := physics.NewWorld(physics.WorldConfig{
		GravityX:       cfg.Physics.GravityX,
		GravityY:       cfg.Physics.GravityY,
		GravityScale:   cfg.Physics.GravityScale,
		GroundFriction: cfg.Physics.GroundFriction,
	})
	for _, p := range cfg.Platforms {
		w.CreateBody(physics.Shape{Width: p.Width, Height: p.Height}, p.X, p.Y, physics.BodyOptions{
			Label:    physics.LabelPlatform,
			IsStatic: true,
			Friction: 0.5,
		})
	}
	return w
}

func newTestCombatant(w physics.Adapter, cfg *config.GameplayConfig, controller Controller, x, y float64, direction int) (*Combatant, *projectileCollector) {
	sink := &projectileCollector{}
	c := NewCombatant(w, CombatantOptions{
		Name:       "tester",
		X:          x,
		Y:          y,
		Direction:  direction,
		Controller: controller,
		Character:  cfg.Character,
		PowerUps:   cfg.PowerUps,
		Rand:       rand.New(rand.NewSource(42)),
		Sink:       sink,
	})
	return c, sink
}

// tick 推进一帧：物理步进后更新角色
func tick(w *physics.World, c *Combatant) {
	w.Step(testDelta)
	c.Update(testDelta)
}
