package systems

import (
	"github.com/decker502/tiltduel/pkg/entities"
)

// EntityPool 本回合的临时实体：子弹、道具、障碍物
//
// 保持插入顺序以便逐帧更新是确定性的；成员集合用于碰撞结算时判断
// 一个刚体的所属实体是否仍在场上。
type EntityPool struct {
	projectiles   []*entities.Projectile
	projectileSet map[*entities.Projectile]struct{}

	powerUps   []*entities.PowerUp
	powerUpSet map[*entities.PowerUp]struct{}

	obstacles []*entities.Obstacle
}

// NewEntityPool 创建空池
func NewEntityPool() *EntityPool {
	return &EntityPool{
		projectileSet: make(map[*entities.Projectile]struct{}),
		powerUpSet:    make(map[*entities.PowerUp]struct{}),
	}
}

// AddProjectiles 加入子弹（实现 entities.ProjectileSink）
func (p *EntityPool) AddProjectiles(projectiles ...*entities.Projectile) {
	for _, proj := range projectiles {
		if proj == nil {
			continue
		}
		if _, exists := p.projectileSet[proj]; exists {
			continue
		}
		p.projectileSet[proj] = struct{}{}
		p.projectiles = append(p.projectiles, proj)
	}
}

// AddPowerUp 加入道具
func (p *EntityPool) AddPowerUp(pu *entities.PowerUp) {
	if pu == nil {
		return
	}
	if _, exists := p.powerUpSet[pu]; exists {
		return
	}
	p.powerUpSet[pu] = struct{}{}
	p.powerUps = append(p.powerUps, pu)
}

// AddObstacle 加入障碍物
func (p *EntityPool) AddObstacle(o *entities.Obstacle) {
	if o != nil {
		p.obstacles = append(p.obstacles, o)
	}
}

// Projectiles 当前子弹
func (p *EntityPool) Projectiles() []*entities.Projectile { return p.projectiles }

// PowerUps 当前道具
func (p *EntityPool) PowerUps() []*entities.PowerUp { return p.powerUps }

// Obstacles 当前障碍物
func (p *EntityPool) Obstacles() []*entities.Obstacle { return p.obstacles }

// HasProjectile 子弹是否仍在池中
func (p *EntityPool) HasProjectile(proj *entities.Projectile) bool {
	_, ok := p.projectileSet[proj]
	return ok
}

// HasPowerUp 道具是否仍在池中
func (p *EntityPool) HasPowerUp(pu *entities.PowerUp) bool {
	_, ok := p.powerUpSet[pu]
	return ok
}

// Update 依次更新障碍物、道具、子弹
func (p *EntityPool) Update(deltaTime float64) {
	for _, o := range p.obstacles {
		o.Update(deltaTime)
	}
	for _, pu := range p.powerUps {
		pu.Update(deltaTime)
	}
	for _, proj := range p.projectiles {
		proj.Update(deltaTime)
	}
}

// CullProjectiles 移除所有标记清理的子弹，返回移除数量
func (p *EntityPool) CullProjectiles() int {
	kept := p.projectiles[:0]
	removed := 0
	for _, proj := range p.projectiles {
		if proj.ShouldCleanUp() {
			proj.Remove()
			delete(p.projectileSet, proj)
			removed++
			continue
		}
		kept = append(kept, proj)
	}
	clearTail(p.projectiles, len(kept))
	p.projectiles = kept
	return removed
}

// CullObstacles 移除所有掉出画布的障碍物，返回移除数量
func (p *EntityPool) CullObstacles() int {
	kept := p.obstacles[:0]
	removed := 0
	for _, o := range p.obstacles {
		if o.ShouldCleanUp() {
			o.Remove()
			removed++
			continue
		}
		kept = append(kept, o)
	}
	clearTail(p.obstacles, len(kept))
	p.obstacles = kept
	return removed
}

// RemovePowerUp 从池和物理世界中移除道具，不在池中时是无操作
func (p *EntityPool) RemovePowerUp(pu *entities.PowerUp) {
	if _, ok := p.powerUpSet[pu]; !ok {
		return
	}
	delete(p.powerUpSet, pu)
	pu.Remove()
	for i, candidate := range p.powerUps {
		if candidate == pu {
			p.powerUps = append(p.powerUps[:i], p.powerUps[i+1:]...)
			break
		}
	}
}

// Clear 移除所有临时实体的刚体并清空池
func (p *EntityPool) Clear() {
	for _, proj := range p.projectiles {
		proj.Remove()
	}
	for _, pu := range p.powerUps {
		pu.Remove()
	}
	for _, o := range p.obstacles {
		o.Remove()
	}
	p.projectiles = nil
	p.powerUps = nil
	p.obstacles = nil
	p.projectileSet = make(map[*entities.Projectile]struct{})
	p.powerUpSet = make(map[*entities.PowerUp]struct{})
}

// clearTail 释放被过滤掉的尾部引用
func clearTail[T any](s []*T, from int) {
	for i := from; i < len(s); i++ {
		s[i] = nil
	}
}
