package entities

// StateTag 角色状态
type StateTag int

const (
	StateIdling StateTag = iota
	StateJumping
	StateExploding
)

func (s StateTag) String() string {
	switch s {
	case StateIdling:
		return "Idling"
	case StateJumping:
		return "Jumping"
	case StateExploding:
		return "Exploding"
	}
	return "Unknown"
}

// State 角色状态机中的一个状态
type State interface {
	Enter()
	Exit()
	Update(deltaTime float64)
	// Reset 复活时清除状态内部的计时
	Reset()
}

// trigger 开火控制，Idling 和 Jumping 各持有一份
//
// 人类控制：按住开火键举臂，松开后放下并开火，两次开火至少间隔冷却时间。
// 自主控制：举臂保持固定时长后放下并开火。
type trigger struct {
	c *Combatant

	autoHolding  bool
	autoHoldTime float64

	sinceLastShot float64
}

func (t *trigger) update(deltaTime float64) {
	c := t.c
	if c.controller.Autonomous() {
		if !t.autoHolding {
			t.autoHolding = true
			t.autoHoldTime = 0
			if !c.armRaised {
				c.RaiseArm()
			}
			return
		}
		t.autoHoldTime += deltaTime
		if t.autoHoldTime >= c.cfg.AutoHoldDuration {
			c.LowerArm()
			c.Shoot()
			t.autoHolding = false
			t.autoHoldTime = 0
		}
		return
	}

	t.sinceLastShot += deltaTime
	if c.controller.FireHeld() {
		if !c.armRaised {
			c.RaiseArm()
		}
		return
	}
	if c.armRaised && t.sinceLastShot >= c.cfg.ShootCooldown {
		c.LowerArm()
		c.Shoot()
		t.sinceLastShot = 0
	}
}

func (t *trigger) reset() {
	t.autoHolding = false
	t.autoHoldTime = 0
	t.sinceLastShot = 0
}

// idlingState 站立：可开火；着地时可跳
type idlingState struct {
	trigger
	jumpTimer    float64
	jumpInterval float64
}

func newIdlingState(c *Combatant) *idlingState {
	return &idlingState{trigger: trigger{c: c}}
}

func (s *idlingState) Enter() {
	s.jumpTimer = 0
	s.jumpInterval = s.randomJumpInterval()
}

func (s *idlingState) Exit() {}

func (s *idlingState) Reset() {
	s.trigger.reset()
	s.jumpTimer = 0
}

func (s *idlingState) randomJumpInterval() float64 {
	cfg := s.c.cfg
	return cfg.AutoJumpIntervalMin + s.c.rng.Float64()*(cfg.AutoJumpIntervalMax-cfg.AutoJumpIntervalMin)
}

func (s *idlingState) Update(deltaTime float64) {
	s.trigger.update(deltaTime)

	c := s.c
	if c.controller.Autonomous() {
		s.jumpTimer += deltaTime
		if s.jumpTimer >= s.jumpInterval && c.isGrounded {
			c.ChangeState(StateJumping)
		}
		return
	}
	if c.controller.JumpHeld() && c.isGrounded {
		c.ChangeState(StateJumping)
	}
}

// jumpingState 进入时起跳，重新着地后回到 Idling
type jumpingState struct {
	trigger
}

func newJumpingState(c *Combatant) *jumpingState {
	return &jumpingState{trigger: trigger{c: c}}
}

func (s *jumpingState) Enter() {
	s.c.Jump()
}

func (s *jumpingState) Exit() {}

func (s *jumpingState) Reset() {
	s.trigger.reset()
}

func (s *jumpingState) Update(deltaTime float64) {
	s.trigger.update(deltaTime)
	if s.c.isGrounded {
		s.c.ChangeState(StateIdling)
	}
}

// explodingState 播放固定帧数的爆炸动画，结束后角色死亡；不能开火
type explodingState struct {
	c       *Combatant
	elapsed float64
	frame   int
}

func newExplodingState(c *Combatant) *explodingState {
	return &explodingState{c: c}
}

func (s *explodingState) Enter() {
	s.elapsed = 0
	s.frame = 0
	s.c.LowerArm()
}

func (s *explodingState) Exit() {}

func (s *explodingState) Reset() {
	s.elapsed = 0
	s.frame = 0
}

func (s *explodingState) Update(deltaTime float64) {
	cfg := s.c.cfg
	s.elapsed += deltaTime
	s.frame = int(s.elapsed / cfg.ExplosionFrameDuration)
	if s.frame >= cfg.ExplosionFrames {
		s.frame = cfg.ExplosionFrames - 1
		s.c.isAlive = false
	}
}
