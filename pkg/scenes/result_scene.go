package scenes

import (
	"fmt"

	"github.com/decker502/tiltduel/pkg/game"
	"github.com/decker502/tiltduel/pkg/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// ResultScene 整局结束画面：R 重新开始，C 复制摘要
type ResultScene struct {
	round        *game.RoundController
	sceneManager *SceneManager
	width        float64
	height       float64
	face         *text.GoXFace

	message string
}

// NewResultScene 创建结果场景
func NewResultScene(round *game.RoundController, sceneManager *SceneManager, width, height float64) *ResultScene {
	return &ResultScene{
		round:        round,
		sceneManager: sceneManager,
		width:        width,
		height:       height,
		face:         newHUDFace(),
	}
}

// Update 处理重新开始和复制
func (s *ResultScene) Update(deltaTime float64) {
	if input.IsKeyJustPressed(ebiten.KeyC) {
		s.message = copyToClipboard(s.round.Summary())
	}
	if input.IsKeyJustPressed(ebiten.KeyR) {
		s.Rematch()
	}
}

// Rematch 比分归零并回到对战场景
func (s *ResultScene) Rematch() {
	s.round.NewSession()
	if s.sceneManager != nil {
		s.sceneManager.Load(SceneDuel)
	}
}

// Banner 结果标题
func (s *ResultScene) Banner() string {
	result := s.round.Result()
	if result.Winner == game.SideNone {
		return "DRAW"
	}
	if result.Winner == game.SidePlayer1 {
		return "PLAYER 1 WINS"
	}
	return "PLAYER 2 WINS"
}

// Draw 绘制结果
func (s *ResultScene) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	vector.FillRect(screen, 0, float32(s.height/2-40), float32(s.width), 80, colorOverlay, false)

	result := s.round.Result()
	centerX := s.width / 2
	bannerColor := colorText
	switch result.Winner {
	case game.SidePlayer1:
		bannerColor = colorPlayer1
	case game.SidePlayer2:
		bannerColor = colorPlayer2
	}

	drawCenteredText(screen, s.face, s.Banner(), centerX, s.height/2-30, bannerColor)
	drawCenteredText(screen, s.face, fmt.Sprintf("%d - %d after %d rounds", result.Player1Score, result.Player2Score, result.Rounds), centerX, s.height/2-10, colorText)
	drawCenteredText(screen, s.face, "R: rematch   C: copy summary", centerX, s.height/2+14, colorText)
	if s.message != "" {
		drawCenteredText(screen, s.face, s.message, centerX, s.height-20, colorText)
	}
}
