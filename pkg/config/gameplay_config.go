package config

import (
	"fmt"
)

// GameplayConfig 对战玩法的全部数值配置
//
// 默认值见 DefaultGameplayConfig()，与内嵌的 gameplay.yaml 保持一致。
// 配置文件位置: pkg/config/gameplay.yaml（可用 -config 指定 yaml/toml 文件覆盖）
type GameplayConfig struct {
	Canvas     CanvasConfig     `yaml:"canvas" toml:"canvas"`
	Physics    PhysicsConfig    `yaml:"physics" toml:"physics"`
	Character  CharacterConfig  `yaml:"character" toml:"character"`
	Projectile ProjectileConfig `yaml:"projectile" toml:"projectile"`
	Knockback  KnockbackConfig  `yaml:"knockback" toml:"knockback"`

	// DefaultWeapon 未知武器类型回退到的武器
	DefaultWeapon string         `yaml:"defaultWeapon" toml:"defaultWeapon"`
	Weapons       []WeaponConfig `yaml:"weapons" toml:"weapons"`

	PowerUps  PowerUpConfig  `yaml:"powerUps" toml:"powerUps"`
	Obstacles ObstacleConfig `yaml:"obstacles" toml:"obstacles"`
	Round     RoundConfig    `yaml:"round" toml:"round"`
	Platforms []RectConfig   `yaml:"platforms" toml:"platforms"`
}

// CanvasConfig 逻辑画布尺寸（像素）
type CanvasConfig struct {
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

// PhysicsConfig 物理世界参数
type PhysicsConfig struct {
	GravityX       float64 `yaml:"gravityX" toml:"gravityX"`
	GravityY       float64 `yaml:"gravityY" toml:"gravityY"`
	GravityScale   float64 `yaml:"gravityScale" toml:"gravityScale"`
	GroundFriction float64 `yaml:"groundFriction" toml:"groundFriction"`
}

// CharacterConfig 角色参数
type CharacterConfig struct {
	Width       float64 `yaml:"width" toml:"width"`
	Height      float64 `yaml:"height" toml:"height"`
	Density     float64 `yaml:"density" toml:"density"`
	Friction    float64 `yaml:"friction" toml:"friction"`
	Restitution float64 `yaml:"restitution" toml:"restitution"`
	FrictionAir float64 `yaml:"frictionAir" toml:"frictionAir"`

	// GroundedY 中心点 Y 大于等于该值视为着地
	GroundedY float64 `yaml:"groundedY" toml:"groundedY"`

	// 摇摆：着地时目标角度 = sin(t × TiltOscillationSpeed) × MaxTilt × 朝向
	MaxTilt              float64 `yaml:"maxTilt" toml:"maxTilt"`
	TiltOscillationSpeed float64 `yaml:"tiltOscillationSpeed" toml:"tiltOscillationSpeed"`
	TiltReturnStrength   float64 `yaml:"tiltReturnStrength" toml:"tiltReturnStrength"`

	JumpPower           float64 `yaml:"jumpPower" toml:"jumpPower"`
	HorizontalJumpForce float64 `yaml:"horizontalJumpForce" toml:"horizontalJumpForce"`

	// ArmSpeed 手臂每帧转动的弧度
	ArmSpeed       float64 `yaml:"armSpeed" toml:"armSpeed"`
	ArmRaisedAngle float64 `yaml:"armRaisedAngle" toml:"armRaisedAngle"`

	ShootCooldown       float64 `yaml:"shootCooldown" toml:"shootCooldown"`
	AutoHoldDuration    float64 `yaml:"autoHoldDuration" toml:"autoHoldDuration"`
	AutoJumpIntervalMin float64 `yaml:"autoJumpIntervalMin" toml:"autoJumpIntervalMin"`
	AutoJumpIntervalMax float64 `yaml:"autoJumpIntervalMax" toml:"autoJumpIntervalMax"`

	ExplosionFrames        int     `yaml:"explosionFrames" toml:"explosionFrames"`
	ExplosionFrameDuration float64 `yaml:"explosionFrameDuration" toml:"explosionFrameDuration"`
}

// ProjectileConfig 子弹公共参数
type ProjectileConfig struct {
	MaxLifetime  float64 `yaml:"maxLifetime" toml:"maxLifetime"`
	BoundsMargin float64 `yaml:"boundsMargin" toml:"boundsMargin"`
	Density      float64 `yaml:"density" toml:"density"`
	FrictionAir  float64 `yaml:"frictionAir" toml:"frictionAir"`
}

// KnockbackConfig 击退公式参数
//
//	resistance = 1 + density × DensityFactor
//	impulse    = (v / |v|) × (子弹质量 / 角色质量) × Base / resistance
//	Δv         = (impulse.x, impulse.y × VerticalDamping)
type KnockbackConfig struct {
	Base            float64 `yaml:"base" toml:"base"`
	DensityFactor   float64 `yaml:"densityFactor" toml:"densityFactor"`
	VerticalDamping float64 `yaml:"verticalDamping" toml:"verticalDamping"`
	MinSpeed        float64 `yaml:"minSpeed" toml:"minSpeed"`
}

// 武器种类
const (
	WeaponKindStandard  = "standard"
	WeaponKindExplosive = "explosive"
)

// WeaponConfig 单种武器参数
type WeaponConfig struct {
	Type          string  `yaml:"type" toml:"type"`
	Kind          string  `yaml:"kind" toml:"kind"`
	Speed         float64 `yaml:"speed" toml:"speed"`
	BulletWidth   float64 `yaml:"bulletWidth" toml:"bulletWidth"`
	BulletHeight  float64 `yaml:"bulletHeight" toml:"bulletHeight"`
	Pellets       int     `yaml:"pellets" toml:"pellets"`
	PelletSpacing float64 `yaml:"pelletSpacing" toml:"pelletSpacing"`
	BarrelOffsetX float64 `yaml:"barrelOffsetX" toml:"barrelOffsetX"`
	BarrelOffsetY float64 `yaml:"barrelOffsetY" toml:"barrelOffsetY"`
}

// PowerUpConfig 道具参数
type PowerUpConfig struct {
	Kinds       []string `yaml:"kinds" toml:"kinds"`
	Duration    float64  `yaml:"duration" toml:"duration"`
	Width       float64  `yaml:"width" toml:"width"`
	Height      float64  `yaml:"height" toml:"height"`
	Density     float64  `yaml:"density" toml:"density"`
	FrictionAir float64  `yaml:"frictionAir" toml:"frictionAir"`

	JumpFactor          float64 `yaml:"jumpFactor" toml:"jumpFactor"`
	WeightFactor        float64 `yaml:"weightFactor" toml:"weightFactor"`
	ShrinkScale         float64 `yaml:"shrinkScale" toml:"shrinkScale"`
	ShrinkTweenDuration float64 `yaml:"shrinkTweenDuration" toml:"shrinkTweenDuration"`

	// 每回合开始后 [DropDelayMin, DropDelayMax) 秒投放一个道具
	DropDelayMin float64 `yaml:"dropDelayMin" toml:"dropDelayMin"`
	DropDelayMax float64 `yaml:"dropDelayMax" toml:"dropDelayMax"`
	SpawnY       float64 `yaml:"spawnY" toml:"spawnY"`
	SpawnMarginX float64 `yaml:"spawnMarginX" toml:"spawnMarginX"`
}

// ObstacleConfig 障碍物参数
type ObstacleConfig struct {
	// SpawnChance 每帧掉落一个障碍物的概率
	SpawnChance  float64              `yaml:"spawnChance" toml:"spawnChance"`
	SpawnY       float64              `yaml:"spawnY" toml:"spawnY"`
	SpawnMarginX float64              `yaml:"spawnMarginX" toml:"spawnMarginX"`
	Density      float64              `yaml:"density" toml:"density"`
	FrictionAir  float64              `yaml:"frictionAir" toml:"frictionAir"`
	Types        []ObstacleTypeConfig `yaml:"types" toml:"types"`
}

// ObstacleTypeConfig 障碍物外形
type ObstacleTypeConfig struct {
	Name   string  `yaml:"name" toml:"name"`
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

// RoundConfig 回合与计分参数
type RoundConfig struct {
	WinScore   int     `yaml:"winScore" toml:"winScore"`
	ResetDelay float64 `yaml:"resetDelay" toml:"resetDelay"`
	// DeathLineOffset 死亡线 = Canvas.Height/2 + DeathLineOffset
	DeathLineOffset   float64     `yaml:"deathLineOffset" toml:"deathLineOffset"`
	Player1Spawn      PointConfig `yaml:"player1Spawn" toml:"player1Spawn"`
	Player2Spawn      PointConfig `yaml:"player2Spawn" toml:"player2Spawn"`
	ForceWeaponChange bool        `yaml:"forceWeaponChange" toml:"forceWeaponChange"`
}

// PointConfig 坐标点
type PointConfig struct {
	X float64 `yaml:"x" toml:"x"`
	Y float64 `yaml:"y" toml:"y"`
}

// RectConfig 矩形（中心点 + 尺寸）
type RectConfig struct {
	X      float64 `yaml:"x" toml:"x"`
	Y      float64 `yaml:"y" toml:"y"`
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
}

// DefaultGameplayConfig 返回默认配置
func DefaultGameplayConfig() *GameplayConfig {
	const canvasWidth = 18 * 32
	const canvasHeight = 10 * 32

	return &GameplayConfig{
		Canvas: CanvasConfig{Width: canvasWidth, Height: canvasHeight},
		Physics: PhysicsConfig{
			GravityX:       0,
			GravityY:       1,
			GravityScale:   0.001,
			GroundFriction: 0.2,
		},
		Character: CharacterConfig{
			Width:                  16,
			Height:                 36,
			Density:                0.002,
			Friction:               0.5,
			Restitution:            0.2,
			FrictionAir:            0.01,
			GroundedY:              135,
			MaxTilt:                0.35,
			TiltOscillationSpeed:   2.0,
			TiltReturnStrength:     0.15,
			JumpPower:              0.03,
			HorizontalJumpForce:    0.02,
			ArmSpeed:               0.02,
			ArmRaisedAngle:         -1.5707963267948966,
			ShootCooldown:          0.3,
			AutoHoldDuration:       0.5,
			AutoJumpIntervalMin:    10,
			AutoJumpIntervalMax:    12,
			ExplosionFrames:        8,
			ExplosionFrameDuration: 0.03,
		},
		Projectile: ProjectileConfig{
			MaxLifetime:  5,
			BoundsMargin: 50,
			Density:      0.55,
			FrictionAir:  0.001,
		},
		Knockback: KnockbackConfig{
			Base:            0.8,
			DensityFactor:   60,
			VerticalDamping: 0.3,
			MinSpeed:        0.001,
		},
		DefaultWeapon: "laser",
		Weapons: []WeaponConfig{
			{Type: "laser", Kind: WeaponKindStandard, Speed: 20, BulletWidth: 8, BulletHeight: 10, Pellets: 1},
			{Type: "ak", Kind: WeaponKindStandard, Speed: 10, BulletWidth: 4, BulletHeight: 3, Pellets: 3, PelletSpacing: 5},
			{Type: "bazooka", Kind: WeaponKindExplosive, Speed: 6, BulletWidth: 10, BulletHeight: 10, Pellets: 1},
		},
		PowerUps: PowerUpConfig{
			Kinds:               []string{"jumpBoost", "weightBoost", "shrink"},
			Duration:            10,
			Width:               32,
			Height:              32,
			Density:             1e-21,
			FrictionAir:         0.9,
			JumpFactor:          2,
			WeightFactor:        4,
			ShrinkScale:         0.6,
			ShrinkTweenDuration: 0.2,
			DropDelayMin:        2,
			DropDelayMax:        3,
			SpawnY:              -80,
			SpawnMarginX:        120,
		},
		Obstacles: ObstacleConfig{
			SpawnChance:  0.0001,
			SpawnY:       -80,
			SpawnMarginX: 120,
			Density:      1e-21,
			FrictionAir:  0.9,
			Types: []ObstacleTypeConfig{
				{Name: "barrel", Width: 18, Height: 26},
				{Name: "box", Width: 32, Height: 32},
			},
		},
		Round: RoundConfig{
			WinScore:          3,
			ResetDelay:        1.5,
			DeathLineOffset:   30,
			Player1Spawn:      PointConfig{X: 150, Y: 130},
			Player2Spawn:      PointConfig{X: canvasWidth - 150, Y: 130},
			ForceWeaponChange: true,
		},
		Platforms: []RectConfig{
			{X: canvasWidth / 2, Y: 169, Width: 384, Height: 32},
		},
	}
}

// DeathLine 返回死亡线的 Y 坐标
func (c *GameplayConfig) DeathLine() float64 {
	return c.Canvas.Height/2 + c.Round.DeathLineOffset
}

// Weapon 按类型查找武器配置
func (c *GameplayConfig) Weapon(weaponType string) (WeaponConfig, bool) {
	for _, w := range c.Weapons {
		if w.Type == weaponType {
			return w, true
		}
	}
	return WeaponConfig{}, false
}

// WeaponTypes 返回所有武器类型（按配置顺序）
func (c *GameplayConfig) WeaponTypes() []string {
	types := make([]string, 0, len(c.Weapons))
	for _, w := range c.Weapons {
		types = append(types, w.Type)
	}
	return types
}

// ObstacleType 按名称查找障碍物外形
func (c *GameplayConfig) ObstacleType(name string) (ObstacleTypeConfig, bool) {
	for _, t := range c.Obstacles.Types {
		if t.Name == name {
			return t, true
		}
	}
	return ObstacleTypeConfig{}, false
}

// Validate 验证配置有效性
//
// 返回:
//   - error: 第一个不合法的字段，成功返回 nil
func (c *GameplayConfig) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size must be positive, got %.1fx%.1f", c.Canvas.Width, c.Canvas.Height)
	}

	ch := c.Character
	if ch.Width <= 0 || ch.Height <= 0 {
		return fmt.Errorf("character size must be positive, got %.1fx%.1f", ch.Width, ch.Height)
	}
	if ch.Density <= 0 {
		return fmt.Errorf("character density must be positive, got %g", ch.Density)
	}
	if ch.MaxTilt <= 0 {
		return fmt.Errorf("character maxTilt must be positive, got %g", ch.MaxTilt)
	}
	if ch.ArmSpeed <= 0 {
		return fmt.Errorf("character armSpeed must be positive, got %g", ch.ArmSpeed)
	}
	if ch.AutoJumpIntervalMin > ch.AutoJumpIntervalMax {
		return fmt.Errorf("autoJumpInterval invalid: min(%.1f) > max(%.1f)", ch.AutoJumpIntervalMin, ch.AutoJumpIntervalMax)
	}
	if ch.ExplosionFrames <= 0 || ch.ExplosionFrameDuration <= 0 {
		return fmt.Errorf("explosion animation must have positive frames and duration")
	}

	if c.Projectile.MaxLifetime <= 0 {
		return fmt.Errorf("projectile maxLifetime must be positive, got %g", c.Projectile.MaxLifetime)
	}
	if c.Projectile.Density <= 0 {
		return fmt.Errorf("projectile density must be positive, got %g", c.Projectile.Density)
	}
	if c.Knockback.MinSpeed < 0 {
		return fmt.Errorf("knockback minSpeed must not be negative, got %g", c.Knockback.MinSpeed)
	}

	if len(c.Weapons) == 0 {
		return fmt.Errorf("at least one weapon must be configured")
	}
	seen := make(map[string]bool, len(c.Weapons))
	for _, w := range c.Weapons {
		if w.Type == "" {
			return fmt.Errorf("weapon type must not be empty")
		}
		if seen[w.Type] {
			return fmt.Errorf("duplicate weapon type '%s'", w.Type)
		}
		seen[w.Type] = true
		if w.Kind != WeaponKindStandard && w.Kind != WeaponKindExplosive {
			return fmt.Errorf("weapon '%s' has unknown kind '%s'", w.Type, w.Kind)
		}
		if w.Speed <= 0 || w.Pellets < 1 || w.BulletWidth <= 0 || w.BulletHeight <= 0 {
			return fmt.Errorf("weapon '%s' needs positive speed, bullet size and at least one pellet", w.Type)
		}
	}
	if !seen[c.DefaultWeapon] {
		return fmt.Errorf("defaultWeapon '%s' is not a configured weapon", c.DefaultWeapon)
	}

	pu := c.PowerUps
	if pu.Duration <= 0 {
		return fmt.Errorf("powerUp duration must be positive, got %g", pu.Duration)
	}
	if pu.DropDelayMin > pu.DropDelayMax {
		return fmt.Errorf("powerUp dropDelay invalid: min(%.1f) > max(%.1f)", pu.DropDelayMin, pu.DropDelayMax)
	}
	if pu.JumpFactor <= 0 || pu.WeightFactor <= 0 || pu.ShrinkScale <= 0 {
		return fmt.Errorf("powerUp factors must be positive")
	}

	if c.Obstacles.SpawnChance < 0 || c.Obstacles.SpawnChance > 1 {
		return fmt.Errorf("obstacle spawnChance must be in [0,1], got %g", c.Obstacles.SpawnChance)
	}
	if c.Obstacles.SpawnChance > 0 && len(c.Obstacles.Types) == 0 {
		return fmt.Errorf("obstacle spawning enabled without obstacle types")
	}

	if c.Round.WinScore <= 0 {
		return fmt.Errorf("round winScore must be positive, got %d", c.Round.WinScore)
	}
	if c.Round.ResetDelay < 0 {
		return fmt.Errorf("round resetDelay must not be negative, got %g", c.Round.ResetDelay)
	}

	return nil
}
