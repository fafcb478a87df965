package entities

import (
	"math/rand"

	"github.com/decker502/tiltduel/pkg/config"
	"github.com/decker502/tiltduel/pkg/physics"
)

// Obstacle 从天而降的木桶或箱子
// 会挡住子弹，掉出画布后被清理
type Obstacle struct {
	physics       physics.Adapter
	body          physics.BodyHandle
	name          string
	floor         float64
	shouldCleanUp bool
	removed       bool
}

// Body 刚体句柄
func (o *Obstacle) Body() physics.BodyHandle { return o.body }

// Name 障碍物外形名
func (o *Obstacle) Name() string { return o.name }

// Position 当前位置
func (o *Obstacle) Position() physics.Vec { return o.physics.Position(o.body) }

// ShouldCleanUp 是否已掉出画布
func (o *Obstacle) ShouldCleanUp() bool { return o.shouldCleanUp }

// Update 掉出画布底部时标记清理
func (o *Obstacle) Update(deltaTime float64) {
	if o.removed {
		return
	}
	if o.Position().Y > o.floor {
		o.shouldCleanUp = true
	}
}

// Remove 移除刚体，重复调用是无操作
func (o *Obstacle) Remove() {
	o.shouldCleanUp = true
	if o.removed {
		return
	}
	o.removed = true
	o.physics.RemoveBody(o.body)
}

// ObstacleFactory 按配置创建障碍物
type ObstacleFactory struct {
	physics physics.Adapter
	cfg     *config.GameplayConfig
}

// NewObstacleFactory 创建障碍物工厂
func NewObstacleFactory(adapter physics.Adapter, cfg *config.GameplayConfig) *ObstacleFactory {
	return &ObstacleFactory{physics: adapter, cfg: cfg}
}

// Create 在 (x, y) 生成指定外形的障碍物，未知外形使用第一种
func (f *ObstacleFactory) Create(name string, x, y float64) *Obstacle {
	shape, ok := f.cfg.ObstacleType(name)
	if !ok && len(f.cfg.Obstacles.Types) > 0 {
		shape = f.cfg.Obstacles.Types[0]
	}

	o := &Obstacle{
		physics: f.physics,
		name:    shape.Name,
		floor:   f.cfg.Canvas.Height + shape.Height,
	}
	o.body = f.physics.CreateBody(
		physics.Shape{Width: shape.Width, Height: shape.Height},
		x, y,
		physics.BodyOptions{
			Label:       physics.LabelObstacle,
			Owner:       o,
			Density:     f.cfg.Obstacles.Density,
			Friction:    0.5,
			FrictionAir: f.cfg.Obstacles.FrictionAir,
		},
	)
	return o
}

// CreateRandom 在随机横坐标处生成随机外形的障碍物
func (f *ObstacleFactory) CreateRandom(rng *rand.Rand) *Obstacle {
	types := f.cfg.Obstacles.Types
	name := ""
	if len(types) > 0 {
		name = types[rng.Intn(len(types))].Name
	}
	x := randomX(rng, f.cfg.Canvas.Width, f.cfg.Obstacles.SpawnMarginX)
	return f.Create(name, x, f.cfg.Obstacles.SpawnY)
}
