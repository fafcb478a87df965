package scenes

import (
	"fmt"
	"image/color"
	"math"

	"github.com/decker502/tiltduel/pkg/entities"
	"github.com/decker502/tiltduel/pkg/physics"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// armLength 手臂绘制长度（像素）
const armLength = 12

// Draw 绘制平台、角色、场上实体和 HUD
func (s *DuelScene) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	for _, p := range s.cfg.Platforms {
		vector.FillRect(screen, float32(p.X-p.Width/2), float32(p.Y-p.Height/2),
			float32(p.Width), float32(p.Height), colorPlatform, false)
	}

	pool := s.round.Pool()
	adapter := s.round.Physics()
	for _, o := range pool.Obstacles() {
		s.drawBody(screen, adapter, o.Body(), colorObstacle)
	}
	for _, pu := range pool.PowerUps() {
		s.drawBody(screen, adapter, pu.Body(), powerUpColor(pu.Kind()))
	}
	for _, proj := range pool.Projectiles() {
		clr := colorProjectile
		if proj.Explosive() {
			clr = colorExplosive
		}
		s.drawBody(screen, adapter, proj.Body(), clr)
	}

	s.drawCombatant(screen, s.round.Player1(), colorPlayer1)
	s.drawCombatant(screen, s.round.Player2(), colorPlayer2)

	if s.showHitboxes {
		s.drawHitboxes(screen)
	}
	s.drawHUD(screen)
}

// drawBody 以刚体 AABB 绘制实心矩形
func (s *DuelScene) drawBody(screen *ebiten.Image, adapter physics.Adapter, body physics.BodyHandle, clr color.Color) {
	if !adapter.Exists(body) {
		return
	}
	pos := adapter.Position(body)
	w, h := adapter.Size(body)
	vector.FillRect(screen, float32(pos.X-w/2), float32(pos.Y-h/2), float32(w), float32(h), clr, false)
}

// drawCombatant 身体按倾斜角绘制为粗线段，手臂沿瞄准方向
func (s *DuelScene) drawCombatant(screen *ebiten.Image, c *entities.Combatant, clr color.Color) {
	if frame := c.ExplosionFrame(); frame >= 0 {
		pos := c.Position()
		radius := float32(6 + frame*3)
		vector.FillCircle(screen, float32(pos.X), float32(pos.Y), radius, colorExplosive, true)
		return
	}
	if !c.IsAlive() {
		return
	}

	pos := c.Position()
	angle := c.Angle()
	halfHeight := s.cfg.Character.Height * c.Scale() / 2
	width := float32(s.cfg.Character.Width * c.Scale())
	axis := physics.Vec{X: math.Sin(angle), Y: -math.Cos(angle)}
	head := pos.Add(axis.Scale(halfHeight))
	feet := pos.Sub(axis.Scale(halfHeight))

	if c.Glowing() {
		vector.StrokeLine(screen, float32(feet.X), float32(feet.Y), float32(head.X), float32(head.Y), width+4, colorGlow, true)
	}
	vector.StrokeLine(screen, float32(feet.X), float32(feet.Y), float32(head.X), float32(head.Y), width, clr, true)

	// 手臂方向与子弹速度方向一致
	aim := c.AimAngle()
	dir := float64(c.Direction())
	shoulder := pos.Add(axis.Scale(halfHeight * 0.3))
	hand := shoulder.Add(physics.Vec{X: -dir * math.Sin(aim), Y: -math.Cos(aim)}.Scale(armLength * c.Scale()))
	vector.StrokeLine(screen, float32(shoulder.X), float32(shoulder.Y), float32(hand.X), float32(hand.Y), 3, colorText, true)
}

func (s *DuelScene) drawHitboxes(screen *ebiten.Image) {
	adapter := s.round.Physics()
	for _, label := range []physics.Label{physics.LabelCharacter, physics.LabelProjectile, physics.LabelObstacle, physics.LabelPowerUp, physics.LabelPlatform} {
		for _, h := range adapter.Bodies(label) {
			pos := adapter.Position(h)
			w, hh := adapter.Size(h)
			vector.StrokeRect(screen, float32(pos.X-w/2), float32(pos.Y-hh/2), float32(w), float32(hh), 1, colorHitbox, false)
		}
	}
	deathLine := float32(s.cfg.DeathLine())
	vector.StrokeLine(screen, 0, deathLine, float32(s.cfg.Canvas.Width), deathLine, 1, colorPlayer2, false)
}

func (s *DuelScene) drawHUD(screen *ebiten.Image) {
	p1, p2 := s.round.Scores()
	centerX := s.cfg.Canvas.Width / 2

	drawText(screen, s.face, fmt.Sprintf("P1  %d", p1), 8, 6, colorPlayer1)
	score := fmt.Sprintf("%d  P2", p2)
	width := float64(len(score) * 7)
	drawText(screen, s.face, score, s.cfg.Canvas.Width-8-width, 6, colorPlayer2)
	drawCenteredText(screen, s.face, fmt.Sprintf("round %d  %s  first to %d", s.round.Round(), s.round.WeaponType(), s.cfg.Round.WinScore), centerX, 6, colorText)

	if s.lastHit != "" {
		drawCenteredText(screen, s.face, s.lastHit, centerX, 22, colorText)
	}
	if s.message != "" {
		drawCenteredText(screen, s.face, s.message, centerX, s.cfg.Canvas.Height-20, colorText)
	}

	if s.round.Paused() {
		vector.FillRect(screen, 0, 0, float32(s.cfg.Canvas.Width), float32(s.cfg.Canvas.Height), colorOverlay, false)
		drawCenteredText(screen, s.face, "PAUSED  (P to resume)", centerX, s.cfg.Canvas.Height/2-6, colorText)
	}
}

// powerUpColor 按效果区分道具颜色
func powerUpColor(kind entities.EffectKind) color.Color {
	switch kind {
	case entities.EffectWeightBoost:
		return color.RGBA{R: 170, G: 90, B: 220, A: 255}
	case entities.EffectShrink:
		return color.RGBA{R: 90, G: 220, B: 160, A: 255}
	default:
		return color.RGBA{R: 250, G: 210, B: 60, A: 255}
	}
}
