package entities

import (
	"log"
	"math"
	"math/rand"

	"github.com/decker502/tiltduel/pkg/config"
	"github.com/decker502/tiltduel/pkg/physics"
	"github.com/decker502/tiltduel/pkg/utils"
)

// CombatantOptions 创建角色的参数
type CombatantOptions struct {
	Name string
	X, Y float64
	// Direction 朝向：+1 面向右，-1 面向左
	Direction  int
	Controller Controller
	Character  config.CharacterConfig
	PowerUps   config.PowerUpConfig
	// Rand 自主跳跃间隔的随机源，nil 时使用固定种子
	Rand *rand.Rand
	Sink ProjectileSink
}

// Combatant 对战角色
//
// 位置、速度、角度由物理刚体持有；角色自身维护着地判定、摇摆平衡、
// 手臂瞄准、武器槽和 Idling/Jumping/Exploding 状态机。
// 角色在整个对局中只创建一次，每回合通过 Respawn 复位。
type Combatant struct {
	name       string
	physics    physics.Adapter
	body       physics.BodyHandle
	direction  int
	controller Controller
	sink       ProjectileSink
	rng        *rand.Rand

	cfg      config.CharacterConfig
	powerCfg config.PowerUpConfig

	isAlive    bool
	isGrounded bool
	tiltTime   float64

	armRaised      bool
	armAngle       float64
	armTargetAngle float64

	jumpPower float64
	scale     float64
	tween     *utils.Tween
	weapon    *Weapon

	// 生效中的道具层数，数值总是由基础值和层数重新计算，撤销不会累积误差
	jumpBoosts   int
	weightBoosts int
	shrinks      int

	// generation 每次 Respawn 加一，延迟回调据此判断目标是否还是同一条命
	generation uint64

	states       map[StateTag]State
	currentState State
	stateTag     StateTag
}

// NewCombatant 创建角色并在物理世界中生成刚体
func NewCombatant(adapter physics.Adapter, opts CombatantOptions) *Combatant {
	direction := 1
	if opts.Direction < 0 {
		direction = -1
	}
	controller := opts.Controller
	if controller == nil {
		controller = AutonomousController{}
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	c := &Combatant{
		name:       opts.Name,
		physics:    adapter,
		direction:  direction,
		controller: controller,
		sink:       opts.Sink,
		rng:        rng,
		cfg:        opts.Character,
		powerCfg:   opts.PowerUps,
		isAlive:    true,
		jumpPower:  opts.Character.JumpPower,
		scale:      1,
	}

	c.body = adapter.CreateBody(
		physics.Shape{Width: c.cfg.Width, Height: c.cfg.Height},
		opts.X, opts.Y,
		physics.BodyOptions{
			Label:       physics.LabelCharacter,
			Owner:       c,
			Density:     c.cfg.Density,
			Friction:    c.cfg.Friction,
			Restitution: c.cfg.Restitution,
			FrictionAir: c.cfg.FrictionAir,
		},
	)
	c.isGrounded = opts.Y >= c.cfg.GroundedY

	c.states = map[StateTag]State{
		StateIdling:    newIdlingState(c),
		StateJumping:   newJumpingState(c),
		StateExploding: newExplodingState(c),
	}
	c.ChangeState(StateIdling)

	return c
}

// Name 角色名（日志用）
func (c *Combatant) Name() string { return c.name }

// Body 刚体句柄
func (c *Combatant) Body() physics.BodyHandle { return c.body }

// Direction 朝向（+1/-1）
func (c *Combatant) Direction() int { return c.direction }

// Controller 当前控制器
func (c *Combatant) Controller() Controller { return c.controller }

// SetController 切换控制器（如 1P 模式下把玩家2交给 AI）
func (c *Combatant) SetController(controller Controller) {
	if controller == nil {
		controller = AutonomousController{}
	}
	c.controller = controller
}

// SetProjectileSink 设置子弹接收方
func (c *Combatant) SetProjectileSink(sink ProjectileSink) { c.sink = sink }

// Position 刚体中心点
func (c *Combatant) Position() physics.Vec { return c.physics.Position(c.body) }

// Velocity 刚体线速度
func (c *Combatant) Velocity() physics.Vec { return c.physics.Velocity(c.body) }

// SetVelocity 直接覆盖线速度（击退使用）
func (c *Combatant) SetVelocity(v physics.Vec) { c.physics.SetVelocity(c.body, v) }

// Angle 刚体旋转角度
func (c *Combatant) Angle() float64 { return c.physics.Angle(c.body) }

// Density 当前密度（道具会修改）
func (c *Combatant) Density() float64 { return c.physics.Density(c.body) }

// Mass 当前质量
func (c *Combatant) Mass() float64 { return c.physics.Mass(c.body) }

// IsAlive 是否存活
func (c *Combatant) IsAlive() bool { return c.isAlive }

// IsGrounded 本帧是否着地
func (c *Combatant) IsGrounded() bool { return c.isGrounded }

// ArmRaised 手臂是否处于举起（瞄准）目标
func (c *Combatant) ArmRaised() bool { return c.armRaised }

// ArmAngle 当前手臂角度
func (c *Combatant) ArmAngle() float64 { return c.armAngle }

// ArmTargetAngle 手臂目标角度
func (c *Combatant) ArmTargetAngle() float64 { return c.armTargetAngle }

// JumpPower 当前跳跃力
func (c *Combatant) JumpPower() float64 { return c.jumpPower }

// Scale 当前显示/碰撞缩放
func (c *Combatant) Scale() float64 { return c.scale }

// Glowing 是否有道具效果生效
func (c *Combatant) Glowing() bool {
	return c.jumpBoosts > 0 || c.weightBoosts > 0 || c.shrinks > 0
}

// Weapon 当前武器，可能为 nil
func (c *Combatant) Weapon() *Weapon { return c.weapon }

// SetWeapon 装备武器
func (c *Combatant) SetWeapon(w *Weapon) { c.weapon = w }

// State 当前状态标签
func (c *Combatant) State() StateTag { return c.stateTag }

// Generation 当前生命序号
func (c *Combatant) Generation() uint64 { return c.generation }

// ExplosionFrame 爆炸动画当前帧，未爆炸时返回 -1
func (c *Combatant) ExplosionFrame() int {
	if s, ok := c.currentState.(*explodingState); ok && c.stateTag == StateExploding {
		return s.frame
	}
	return -1
}

// ChangeState 切换状态：先退出旧状态，再进入新状态
func (c *Combatant) ChangeState(tag StateTag) {
	next, ok := c.states[tag]
	if !ok {
		log.Printf("[Combatant] %s: unknown state %v ignored", c.name, tag)
		return
	}
	if c.currentState != nil {
		c.currentState.Exit()
	}
	c.currentState = next
	c.stateTag = tag
	next.Enter()
}

// Update 每帧更新
//
// 顺序：着地判定 → 摇摆 → 手臂插值 → 缩放补间 → 状态机。
// 死亡后不再更新，直到 Respawn。
func (c *Combatant) Update(deltaTime float64) {
	if !c.isAlive {
		return
	}

	c.isGrounded = c.Position().Y >= c.cfg.GroundedY

	c.tilt(deltaTime)
	c.updateArm()
	c.updateScale(deltaTime)

	c.currentState.Update(deltaTime)
}

// tilt 着地时用比例控制把角速度推向正弦目标角
func (c *Combatant) tilt(deltaTime float64) {
	if !c.isGrounded {
		return
	}
	c.tiltTime += deltaTime

	target := math.Sin(c.tiltTime*c.cfg.TiltOscillationSpeed) * c.cfg.MaxTilt * float64(c.direction)
	diff := target - c.Angle()
	c.physics.SetAngularVelocity(c.body, diff*c.cfg.TiltReturnStrength)
}

// updateArm 手臂以固定角速度逼近目标角，不会越过目标
func (c *Combatant) updateArm() {
	if c.armAngle < c.armTargetAngle {
		c.armAngle = math.Min(c.armAngle+c.cfg.ArmSpeed, c.armTargetAngle)
	} else if c.armAngle > c.armTargetAngle {
		c.armAngle = math.Max(c.armAngle-c.cfg.ArmSpeed, c.armTargetAngle)
	}
}

func (c *Combatant) updateScale(deltaTime float64) {
	if c.tween == nil {
		return
	}
	value := c.tween.Update(deltaTime)
	if value > 0 && math.Abs(value-c.scale) > 1e-4 {
		c.scale = value
		c.physics.SetScale(c.body, value)
	}
	if c.tween.Done() {
		c.scale = c.tween.To
		c.physics.SetScale(c.body, c.scale)
		c.tween = nil
	}
}

// RaiseArm 举起手臂瞄准
func (c *Combatant) RaiseArm() {
	c.armRaised = true
	c.armTargetAngle = c.cfg.ArmRaisedAngle
}

// LowerArm 放下手臂
func (c *Combatant) LowerArm() {
	c.armRaised = false
	c.armTargetAngle = 0
}

// Shoot 用当前武器开火，子弹交给 ProjectileSink
// 没有武器时是无操作
func (c *Combatant) Shoot() {
	if c.weapon == nil {
		return
	}
	projectiles := c.weapon.Shoot(c)
	if len(projectiles) == 0 || c.sink == nil {
		return
	}
	c.sink.AddProjectiles(projectiles...)
}

// AimAngle 世界坐标下的瞄准角：手臂角叠加按朝向镜像的刚体角
func (c *Combatant) AimAngle() float64 {
	return c.armAngle - float64(c.direction)*c.Angle()
}

// Jump 施加一次跳跃力，不在地面时无效
//
// 水平分量与当前倾斜成正比（倾斜比例限制在 [-1, 1]），竖直分量为固定跳跃力。
func (c *Combatant) Jump() {
	if !c.isGrounded {
		return
	}

	tiltRatio := utils.Clamp(c.Angle()/c.cfg.MaxTilt, -1, 1)
	force := physics.Vec{
		X: tiltRatio * c.cfg.HorizontalJumpForce,
		Y: -c.jumpPower,
	}
	c.physics.ApplyForce(c.body, c.Position(), force)
}

// Explode 被爆炸武器命中，进入爆炸状态
// 已在爆炸或已死亡时忽略
func (c *Combatant) Explode() {
	if !c.isAlive || c.stateTag == StateExploding {
		return
	}
	log.Printf("[Combatant] %s exploded", c.name)
	c.ChangeState(StateExploding)
}

// IsDead 已死亡或掉出死亡线
func (c *Combatant) IsDead(deathLine float64) bool {
	if !c.isAlive {
		return true
	}
	return c.Position().Y > deathLine
}

// Respawn 在 (x, y) 复活
//
// 复位位置、速度、角度、角速度、手臂、密度、跳跃力和缩放，清除道具效果，
// 重新进入 Idling。尚未执行的道具撤销回调会因生命序号变化而失效。
func (c *Combatant) Respawn(x, y float64) {
	c.generation++
	c.isAlive = true

	c.physics.SetPosition(c.body, physics.Vec{X: x, Y: y})
	c.physics.SetVelocity(c.body, physics.Vec{})
	c.physics.SetAngle(c.body, 0)
	c.physics.SetAngularVelocity(c.body, 0)
	c.physics.SetDensity(c.body, c.cfg.Density)
	c.physics.SetScale(c.body, 1)

	c.jumpBoosts, c.weightBoosts, c.shrinks = 0, 0, 0
	c.jumpPower = c.cfg.JumpPower
	c.scale = 1
	c.tween = nil

	c.armRaised = false
	c.armAngle = 0
	c.armTargetAngle = 0
	c.tiltTime = 0
	c.isGrounded = y >= c.cfg.GroundedY

	for _, s := range c.states {
		s.Reset()
	}
	c.ChangeState(StateIdling)
}

// ApplyPowerUp 应用道具效果，并安排 duration 秒后撤销
//
// 应用与撤销成对出现；撤销回调只对同一条命生效。
//
// 参数:
//   - kind: 道具效果
//   - duration: 持续时间（秒）
//   - scheduler: 延迟任务服务
//
// 返回:
//   - bool: 角色已死亡时返回 false，不产生任何效果
func (c *Combatant) ApplyPowerUp(kind EffectKind, duration float64, scheduler Scheduler) bool {
	if !c.isAlive {
		return false
	}

	switch kind {
	case EffectWeightBoost:
		c.weightBoosts++
	case EffectShrink:
		c.shrinks++
	default:
		kind = EffectJumpBoost
		c.jumpBoosts++
	}
	c.applyModifiers()
	log.Printf("[Combatant] %s collected %s (jumpPower=%.4f density=%.4f)",
		c.name, kind, c.jumpPower, c.Density())

	if scheduler == nil {
		return true
	}
	generation := c.generation
	scheduler.After(duration, "powerup_"+kind.String(), func() {
		if c.generation != generation {
			return
		}
		switch kind {
		case EffectWeightBoost:
			c.weightBoosts--
		case EffectShrink:
			c.shrinks--
		default:
			c.jumpBoosts--
		}
		c.applyModifiers()
		log.Printf("[Combatant] %s %s expired", c.name, kind)
	})
	return true
}

// applyModifiers 由基础值和道具层数重新计算跳跃力、密度和目标缩放
func (c *Combatant) applyModifiers() {
	c.jumpPower = c.cfg.JumpPower * math.Pow(c.powerCfg.JumpFactor, float64(c.jumpBoosts))

	density := c.cfg.Density
	if c.weightBoosts > 0 {
		density *= c.powerCfg.WeightFactor
	}
	c.physics.SetDensity(c.body, density)

	targetScale := 1.0
	if c.shrinks > 0 {
		targetScale = c.powerCfg.ShrinkScale
	}
	if c.tween != nil {
		if c.tween.To == targetScale {
			return
		}
		c.tween = utils.NewTween(c.scale, targetScale, c.powerCfg.ShrinkTweenDuration, utils.EaseOutBack)
		return
	}
	if c.scale != targetScale {
		c.tween = utils.NewTween(c.scale, targetScale, c.powerCfg.ShrinkTweenDuration, utils.EaseOutBack)
	}
}
