package scenes

import (
	"fmt"
	"log"

	"github.com/decker502/tiltduel/pkg/config"
	"github.com/decker502/tiltduel/pkg/game"
	"github.com/decker502/tiltduel/pkg/input"
	"github.com/decker502/tiltduel/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// DuelScene 对战场景
//
// 快捷键：P 暂停/继续，F3 显示碰撞盒，C 复制对局摘要。
// 整局结束后切换到结果场景。
type DuelScene struct {
	round        *game.RoundController
	sceneManager *SceneManager
	settings     *game.SettingsManager // 可为 nil
	cfg          *config.GameplayConfig

	face *text.GoXFace

	lastHit      string
	message      string
	messageTimer float64
	showHitboxes bool
	resultLoaded bool
}

// NewDuelScene 创建对战场景
//
// 参数:
//   - round: 已开始的回合控制器
//   - sceneManager: 场景管理器，整局结束时切换场景
//   - settings: 设置管理器，可为 nil
//   - cfg: 玩法配置（渲染平台和画布尺寸）
func NewDuelScene(round *game.RoundController, sceneManager *SceneManager, settings *game.SettingsManager, cfg *config.GameplayConfig) *DuelScene {
	s := &DuelScene{
		round:        round,
		sceneManager: sceneManager,
		settings:     settings,
		cfg:          cfg,
		face:         newHUDFace(),
	}
	if settings != nil {
		s.showHitboxes = settings.GetSettings().ShowHitboxes
	}

	round.OnHit(func(e systems.HitEvent) {
		shooter := "?"
		if e.Shooter != nil {
			shooter = e.Shooter.Name()
		}
		s.lastHit = fmt.Sprintf("%s hit %s (%s)", shooter, e.Target.Name(), e.WeaponType)
	})
	round.OnRoundReset(func(int) {
		s.lastHit = ""
		s.resultLoaded = false
	})
	return s
}

// Update 处理快捷键并推进一帧
func (s *DuelScene) Update(deltaTime float64) {
	if input.IsKeyJustPressed(ebiten.KeyP) {
		s.TogglePause()
	}
	if input.IsKeyJustPressed(ebiten.KeyF3) {
		s.ToggleHitboxes()
	}
	if input.IsKeyJustPressed(ebiten.KeyC) {
		s.showMessage(copyToClipboard(s.round.Summary()))
	}

	s.round.Update(deltaTime)

	if s.messageTimer > 0 {
		s.messageTimer -= deltaTime
		if s.messageTimer <= 0 {
			s.message = ""
		}
	}

	if s.round.Over() && !s.resultLoaded && s.sceneManager != nil {
		s.resultLoaded = s.sceneManager.Load(SceneResult)
	}
}

// TogglePause 暂停或继续
func (s *DuelScene) TogglePause() {
	if s.round.Paused() {
		s.round.Resume()
		s.showMessage("resumed")
	} else {
		s.round.Pause()
		s.showMessage("paused")
	}
}

// ToggleHitboxes 切换碰撞盒显示并保存到设置
func (s *DuelScene) ToggleHitboxes() {
	s.showHitboxes = !s.showHitboxes
	if s.settings == nil {
		return
	}
	s.settings.SetShowHitboxes(s.showHitboxes)
	if err := s.settings.Save(); err != nil {
		log.Printf("[DuelScene] Warning: failed to save settings: %v", err)
	}
}

// ShowHitboxes 是否绘制碰撞盒
func (s *DuelScene) ShowHitboxes() bool { return s.showHitboxes }

// Message 当前状态提示
func (s *DuelScene) Message() string { return s.message }

// LastHit 最近一次命中描述
func (s *DuelScene) LastHit() string { return s.lastHit }

func (s *DuelScene) showMessage(msg string) {
	s.message = msg
	s.messageTimer = statusMessageDuration
}

// SaveOnExit 窗口关闭时保存会话
func (s *DuelScene) SaveOnExit() bool {
	if err := s.round.Persist(); err != nil {
		log.Printf("[DuelScene] Warning: failed to save session on exit: %v", err)
		return false
	}
	return true
}
