package scenes

import (
	"image/color"
	"log"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// 配色
var (
	colorBackground = color.RGBA{R: 24, G: 28, B: 40, A: 255}
	colorPlatform   = color.RGBA{R: 92, G: 84, B: 70, A: 255}
	colorPlayer1    = color.RGBA{R: 80, G: 160, B: 240, A: 255}
	colorPlayer2    = color.RGBA{R: 240, G: 100, B: 90, A: 255}
	colorGlow       = color.RGBA{R: 255, G: 230, B: 90, A: 160}
	colorProjectile = color.RGBA{R: 255, G: 240, B: 200, A: 255}
	colorExplosive  = color.RGBA{R: 255, G: 150, B: 40, A: 255}
	colorObstacle   = color.RGBA{R: 130, G: 130, B: 140, A: 255}
	colorHitbox     = color.RGBA{R: 0, G: 255, B: 0, A: 200}
	colorText       = color.RGBA{R: 235, G: 235, B: 235, A: 255}
	colorOverlay    = color.RGBA{R: 0, G: 0, B: 0, A: 150}
)

// statusMessageDuration 状态提示显示时间（秒）
const statusMessageDuration = 2.0

// newHUDFace 创建 HUD 使用的等宽位图字体
func newHUDFace() *text.GoXFace {
	return text.NewGoXFace(basicfont.Face7x13)
}

// drawText 在 (x, y) 绘制一行文字，y 为文字顶部
func drawText(screen *ebiten.Image, face text.Face, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, face, op)
}

// drawCenteredText 水平居中绘制一行文字
func drawCenteredText(screen *ebiten.Image, face text.Face, s string, centerX, y float64, clr color.Color) {
	width, _ := text.Measure(s, face, 0)
	drawText(screen, face, s, centerX-width/2, y, clr)
}

// copyToClipboard 复制文本到系统剪贴板，返回给玩家的提示
func copyToClipboard(s string) string {
	if err := clipboard.WriteAll(s); err != nil {
		log.Printf("[Clipboard] Warning: failed to copy summary: %v", err)
		return "clipboard unavailable"
	}
	log.Printf("[Clipboard] Copied: %s", s)
	return "summary copied"
}
