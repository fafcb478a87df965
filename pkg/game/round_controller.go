package game

import (
	"fmt"
	"log"
	"time"

	"github.com/decker502/tiltduel/pkg/entities"
	"github.com/decker502/tiltduel/pkg/physics"
	"github.com/decker502/tiltduel/pkg/systems"
)

// Side 对战一方
type Side int

const (
	// SideNone 无（平局或尚未分出胜负）
	SideNone Side = iota
	SidePlayer1
	SidePlayer2
)

// String 返回可读名称
func (s Side) String() string {
	switch s {
	case SidePlayer1:
		return "player1"
	case SidePlayer2:
		return "player2"
	default:
		return "none"
	}
}

// SessionResult 一局结束时的结果
type SessionResult struct {
	Winner       Side
	Player1Score int
	Player2Score int
	Rounds       int
}

// RoundOptions 创建回合控制器的参数
type RoundOptions struct {
	// Player1Controller/Player2Controller 为 nil 时使用自主控制
	Player1Controller entities.Controller
	Player2Controller entities.Controller
	PlayerCount       int
}

// RoundController 回合控制器
//
// 持有两名角色和所有短生命周期实体，按固定顺序推进每一帧：
// 计时器 → 物理步进 → 实体更新 → 子弹清理 → 投放 → 角色更新 → 死亡判定。
// 每回合最多记一分，记分后延迟重置回合；任一方达到胜利分数时整局结束。
type RoundController struct {
	ctx *Context

	player1 *entities.Combatant
	player2 *entities.Combatant

	pool      *systems.EntityPool
	collision *systems.CollisionSystem
	spawns    *systems.SpawnSystem
	weapons   *entities.WeaponFactory

	player1Score int
	player2Score int
	weaponType   string
	playerCount  int

	// round 每次重置回合加一，旧回合的重置任务据此失效
	round           int
	scoredThisRound bool
	started         bool
	paused          bool
	over            bool
	result          SessionResult

	onHit         []func(systems.HitEvent)
	onScore       []func(scorer Side, player1Score, player2Score int)
	onRoundReset  []func(round int)
	onSessionOver []func(SessionResult)
}

// NewRoundController 创建回合控制器，生成两名角色
//
// 参数:
//   - ctx: 依赖集合，不能为 nil
//   - opts: 控制器与玩家人数
//
// 返回:
//   - *RoundController: 尚未开始的控制器，调用 Start 进入第一回合
//   - error: 依赖缺失时返回错误
func NewRoundController(ctx *Context, opts RoundOptions) (*RoundController, error) {
	if ctx == nil || ctx.Physics == nil || ctx.Timers == nil || ctx.Config == nil || ctx.Rand == nil {
		return nil, fmt.Errorf("round controller requires physics, timers, config and rand")
	}
	if ctx.Store == nil {
		ctx.Store = NewMemorySessionStore()
	}

	cfg := ctx.Config
	rc := &RoundController{
		ctx:         ctx,
		pool:        systems.NewEntityPool(),
		weapons:     entities.NewWeaponFactory(ctx.Physics, cfg),
		playerCount: opts.PlayerCount,
	}

	p1Ctrl := opts.Player1Controller
	if p1Ctrl == nil {
		p1Ctrl = entities.AutonomousController{}
	}
	p2Ctrl := opts.Player2Controller
	if p2Ctrl == nil {
		p2Ctrl = entities.AutonomousController{}
	}

	rc.player1 = entities.NewCombatant(ctx.Physics, entities.CombatantOptions{
		Name:       SidePlayer1.String(),
		X:          cfg.Round.Player1Spawn.X,
		Y:          cfg.Round.Player1Spawn.Y,
		Direction:  1,
		Controller: p1Ctrl,
		Character:  cfg.Character,
		PowerUps:   cfg.PowerUps,
		Rand:       ctx.Rand,
		Sink:       rc.pool,
	})
	rc.player2 = entities.NewCombatant(ctx.Physics, entities.CombatantOptions{
		Name:       SidePlayer2.String(),
		X:          cfg.Round.Player2Spawn.X,
		Y:          cfg.Round.Player2Spawn.Y,
		Direction:  -1,
		Controller: p2Ctrl,
		Character:  cfg.Character,
		PowerUps:   cfg.PowerUps,
		Rand:       ctx.Rand,
		Sink:       rc.pool,
	})

	rc.collision = systems.NewCollisionSystem(ctx.Physics, rc.pool, ctx.Timers, cfg.Knockback)
	rc.collision.OnHit(func(e systems.HitEvent) {
		for _, fn := range rc.onHit {
			fn(e)
		}
	})
	rc.spawns = systems.NewSpawnSystem(rc.pool,
		entities.NewPowerUpFactory(ctx.Physics, cfg),
		entities.NewObstacleFactory(ctx.Physics, cfg),
		ctx.Timers, ctx.Rand, cfg)

	return rc, nil
}

// Start 进入第一回合
//
// 从存储恢复比分和武器类型；存储为空或武器类型无效时从零比分、随机武器开始。
func (rc *RoundController) Start() {
	if rc.started {
		return
	}
	rc.started = true

	info, err := rc.ctx.Store.Load()
	if err != nil {
		log.Printf("[RoundController] Warning: failed to load session, starting fresh: %v", err)
		info = nil
	}
	if info != nil {
		winScore := rc.ctx.Config.Round.WinScore
		if info.Player1Score < winScore && info.Player2Score < winScore &&
			info.Player1Score >= 0 && info.Player2Score >= 0 {
			rc.player1Score = info.Player1Score
			rc.player2Score = info.Player2Score
		}
		if rc.weapons.IsKnown(info.WeaponType) {
			rc.weaponType = info.WeaponType
		}
	}
	if rc.weaponType == "" {
		rc.weaponType = rc.weapons.PickType("", false, rc.ctx.Rand)
	}

	rc.round = 1
	rc.weapons.CreateForBoth(rc.weaponType, rc.player1, rc.player2)
	rc.spawns.StartRound()
	rc.persist()

	log.Printf("[RoundController] Session started: %d-%d, weapon=%s", rc.player1Score, rc.player2Score, rc.weaponType)
}

// Update 推进一帧
func (rc *RoundController) Update(deltaTime float64) {
	if !rc.started || rc.paused || rc.over {
		return
	}

	rc.ctx.Timers.Update(deltaTime)
	rc.ctx.Physics.Step(deltaTime)
	rc.pool.Update(deltaTime)
	rc.pool.CullProjectiles()
	rc.spawns.Update(deltaTime)
	rc.player1.Update(deltaTime)
	rc.player2.Update(deltaTime)
	rc.checkDeaths()
}

// checkDeaths 死亡判定，每回合最多记一分
// 双方同帧死亡时先检查 1 号玩家，因此得分归 2 号玩家
func (rc *RoundController) checkDeaths() {
	if rc.scoredThisRound {
		return
	}
	deathLine := rc.ctx.Config.DeathLine()
	switch {
	case rc.player1.IsDead(deathLine):
		rc.award(SidePlayer2)
	case rc.player2.IsDead(deathLine):
		rc.award(SidePlayer1)
	}
}

func (rc *RoundController) award(scorer Side) {
	rc.scoredThisRound = true
	if scorer == SidePlayer1 {
		rc.player1Score++
	} else {
		rc.player2Score++
	}
	log.Printf("[RoundController] Round %d: point to %s (%d-%d)", rc.round, scorer, rc.player1Score, rc.player2Score)

	rc.persist()
	for _, fn := range rc.onScore {
		fn(scorer, rc.player1Score, rc.player2Score)
	}

	winScore := rc.ctx.Config.Round.WinScore
	if rc.player1Score >= winScore || rc.player2Score >= winScore {
		rc.finishSession()
		return
	}

	round := rc.round
	rc.ctx.Timers.After(rc.ctx.Config.Round.ResetDelay, "round_reset", func() {
		if rc.round != round || rc.over {
			return
		}
		rc.ResetRound()
	})
}

func (rc *RoundController) finishSession() {
	rc.over = true
	rc.spawns.StopRound()
	rc.result = SessionResult{
		Winner:       decideWinner(rc.player1Score, rc.player2Score),
		Player1Score: rc.player1Score,
		Player2Score: rc.player2Score,
		Rounds:       rc.round,
	}
	log.Printf("[RoundController] Session over: winner=%s (%d-%d)", rc.result.Winner, rc.player1Score, rc.player2Score)

	for _, fn := range rc.onSessionOver {
		fn(rc.result)
	}
}

// decideWinner 比分高者获胜；比分相同记为平局
func decideWinner(player1Score, player2Score int) Side {
	switch {
	case player1Score > player2Score:
		return SidePlayer1
	case player2Score > player1Score:
		return SidePlayer2
	}
	log.Printf("[RoundController] Warning: session ended tied at %d-%d, recording a draw", player1Score, player2Score)
	return SideNone
}

// ResetRound 清空场上实体，两名角色回到出生点并重新分配武器
func (rc *RoundController) ResetRound() {
	rc.round++
	rc.spawns.StopRound()
	rc.pool.Clear()

	cfg := rc.ctx.Config
	rc.player1.Respawn(cfg.Round.Player1Spawn.X, cfg.Round.Player1Spawn.Y)
	rc.player2.Respawn(cfg.Round.Player2Spawn.X, cfg.Round.Player2Spawn.Y)

	if cfg.Round.ForceWeaponChange || !rc.weapons.IsKnown(rc.weaponType) {
		rc.weaponType = rc.weapons.PickType(rc.weaponType, cfg.Round.ForceWeaponChange, rc.ctx.Rand)
	}
	rc.weapons.CreateForBoth(rc.weaponType, rc.player1, rc.player2)

	rc.scoredThisRound = false
	rc.spawns.StartRound()
	rc.persist()

	log.Printf("[RoundController] Round %d started with %s", rc.round, rc.weaponType)
	for _, fn := range rc.onRoundReset {
		fn(rc.round)
	}
}

// NewSession 比分归零并开始新的一局
func (rc *RoundController) NewSession() {
	rc.ctx.Timers.Clear()
	rc.player1Score = 0
	rc.player2Score = 0
	rc.over = false
	rc.result = SessionResult{}
	rc.started = true
	rc.ResetRound()
}

// Persist 把当前比分和武器类型写入会话存储
func (rc *RoundController) Persist() error {
	return rc.ctx.Store.Save(&SessionInfo{
		Player1Score: rc.player1Score,
		Player2Score: rc.player2Score,
		WeaponType:   rc.weaponType,
		PlayerCount:  rc.playerCount,
		UpdatedAt:    time.Now(),
	})
}

// persist 写入失败只记录警告，不影响对局
func (rc *RoundController) persist() {
	if err := rc.Persist(); err != nil {
		log.Printf("[RoundController] Warning: failed to save session: %v", err)
	}
}

// Pause 暂停模拟
func (rc *RoundController) Pause() { rc.paused = true }

// Resume 恢复模拟
func (rc *RoundController) Resume() { rc.paused = false }

// Paused 是否暂停中
func (rc *RoundController) Paused() bool { return rc.paused }

// Scores 返回当前比分
func (rc *RoundController) Scores() (int, int) { return rc.player1Score, rc.player2Score }

// ScoredThisRound 本回合是否已记分
func (rc *RoundController) ScoredThisRound() bool { return rc.scoredThisRound }

// Over 整局是否结束
func (rc *RoundController) Over() bool { return rc.over }

// Result 整局结果，未结束时为零值
func (rc *RoundController) Result() SessionResult { return rc.result }

// Round 当前回合序号，从 1 开始
func (rc *RoundController) Round() int { return rc.round }

// WeaponType 本回合武器类型
func (rc *RoundController) WeaponType() string { return rc.weaponType }

// Player1 返回 1 号角色
func (rc *RoundController) Player1() *entities.Combatant { return rc.player1 }

// Player2 返回 2 号角色
func (rc *RoundController) Player2() *entities.Combatant { return rc.player2 }

// Pool 返回场上实体池（渲染使用）
func (rc *RoundController) Pool() *systems.EntityPool { return rc.pool }

// Physics 返回物理模拟
func (rc *RoundController) Physics() physics.Adapter { return rc.ctx.Physics }

// OnHit 注册命中回调
func (rc *RoundController) OnHit(fn func(systems.HitEvent)) {
	rc.onHit = append(rc.onHit, fn)
}

// OnScore 注册记分回调
func (rc *RoundController) OnScore(fn func(scorer Side, player1Score, player2Score int)) {
	rc.onScore = append(rc.onScore, fn)
}

// OnRoundReset 注册回合重置回调，在角色复位和武器分配之后触发
func (rc *RoundController) OnRoundReset(fn func(round int)) {
	rc.onRoundReset = append(rc.onRoundReset, fn)
}

// OnSessionOver 注册整局结束回调
func (rc *RoundController) OnSessionOver(fn func(SessionResult)) {
	rc.onSessionOver = append(rc.onSessionOver, fn)
}

// Summary 返回一行对局摘要
func (rc *RoundController) Summary() string {
	status := "in progress"
	if rc.over {
		status = "winner: " + rc.result.Winner.String()
	}
	return fmt.Sprintf("round %d | %s %d - %d %s | weapon %s | %s",
		rc.round, rc.player1.Name(), rc.player1Score, rc.player2Score, rc.player2.Name(), rc.weaponType, status)
}
