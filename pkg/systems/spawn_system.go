package systems

import (
	"log"
	"math/rand"

	"github.com/decker502/tiltduel/pkg/config"
	"github.com/decker502/tiltduel/pkg/entities"
)

// SpawnSystem 道具投放与障碍物掉落
//
// 每回合开始后延迟投放一个道具；每帧以固定概率从画布上方掉落一个障碍物。
type SpawnSystem struct {
	pool      *EntityPool
	powerUps  *entities.PowerUpFactory
	obstacles *entities.ObstacleFactory
	scheduler entities.Scheduler
	rng       *rand.Rand
	cfg       *config.GameplayConfig

	// round 每次 StartRound/StopRound 加一，旧回合的投放任务据此失效
	round  int
	active bool
}

// NewSpawnSystem 创建投放系统
func NewSpawnSystem(pool *EntityPool, powerUps *entities.PowerUpFactory, obstacles *entities.ObstacleFactory,
	scheduler entities.Scheduler, rng *rand.Rand, cfg *config.GameplayConfig) *SpawnSystem {
	return &SpawnSystem{
		pool:      pool,
		powerUps:  powerUps,
		obstacles: obstacles,
		scheduler: scheduler,
		rng:       rng,
		cfg:       cfg,
	}
}

// StartRound 开始新回合并安排道具投放
func (s *SpawnSystem) StartRound() {
	s.round++
	s.active = true

	pu := s.cfg.PowerUps
	delay := pu.DropDelayMin + s.rng.Float64()*(pu.DropDelayMax-pu.DropDelayMin)
	round := s.round
	s.scheduler.After(delay, "powerup_drop", func() {
		if !s.active || s.round != round {
			return
		}
		p := s.powerUps.CreateRandom(s.rng)
		s.pool.AddPowerUp(p)
		log.Printf("[SpawnSystem] Dropped %s power-up at x=%.1f", p.Kind(), p.Position().X)
	})
}

// StopRound 停止投放，未执行的投放任务失效
func (s *SpawnSystem) StopRound() {
	s.round++
	s.active = false
}

// Active 当前回合是否在投放
func (s *SpawnSystem) Active() bool { return s.active }

// Update 按概率掉落障碍物，并清理掉出画布的障碍物
func (s *SpawnSystem) Update(deltaTime float64) {
	if s.active && s.cfg.Obstacles.SpawnChance > 0 && s.rng.Float64() < s.cfg.Obstacles.SpawnChance {
		o := s.obstacles.CreateRandom(s.rng)
		s.pool.AddObstacle(o)
		log.Printf("[SpawnSystem] Dropped %s at x=%.1f", o.Name(), o.Position().X)
	}
	s.pool.CullObstacles()
}
