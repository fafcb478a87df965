package game

import (
	"fmt"
	"math/rand"

	"github.com/decker502/tiltduel/pkg/config"
	"github.com/decker502/tiltduel/pkg/physics"
	"github.com/decker502/tiltduel/pkg/systems"
)

// Context 对战核心的依赖集合
//
// 物理模拟、计时服务、持久化服务和随机源都显式注入，
// 测试可以替换任意一项并逐帧推进模拟时间。
type Context struct {
	Physics physics.Adapter
	Timers  *systems.TimerSystem
	Store   SessionStore
	Config  *config.GameplayConfig
	Rand    *rand.Rand
}

// NewContext 按配置创建默认依赖：物理世界（含静态平台）、计时系统和随机源
//
// 参数:
//   - cfg: 玩法配置，nil 时使用默认配置
//   - store: 会话存储，nil 时使用内存存储
//   - seed: 随机种子
//
// 返回:
//   - *Context: 依赖集合
//   - error: 配置无效时返回错误
func NewContext(cfg *config.GameplayConfig, store SessionStore, seed int64) (*Context, error) {
	if cfg == nil {
		cfg = config.DefaultGameplayConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid gameplay config: %w", err)
	}
	if store == nil {
		store = NewMemorySessionStore()
	}

	return &Context{
		Physics: NewArena(cfg),
		Timers:  systems.NewTimerSystem(),
		Store:   store,
		Config:  cfg,
		Rand:    rand.New(rand.NewSource(seed)),
	}, nil
}

// platformFriction 平台表面摩擦系数
const platformFriction = 0.5

// NewArena 创建物理世界并放置配置中的静态平台
func NewArena(cfg *config.GameplayConfig) *physics.World {
	world := physics.NewWorld(physics.WorldConfig{
		GravityX:       cfg.Physics.GravityX,
		GravityY:       cfg.Physics.GravityY,
		GravityScale:   cfg.Physics.GravityScale,
		GroundFriction: cfg.Physics.GroundFriction,
		Width:          cfg.Canvas.Width,
		Height:         cfg.Canvas.Height,
	})
	for _, p := range cfg.Platforms {
		world.CreateBody(physics.Shape{Width: p.Width, Height: p.Height}, p.X, p.Y, physics.BodyOptions{
			Label:    physics.LabelPlatform,
			IsStatic: true,
			Friction: platformFriction,
		})
	}
	return world
}
