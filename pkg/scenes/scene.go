package scenes

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents a screen of the game (the duel itself, the result banner).
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// Saveable 是一个可选接口，窗口关闭时调用 SaveOnExit 持久化场景状态
type Saveable interface {
	// SaveOnExit 返回 true 表示保存成功或无需保存
	SaveOnExit() bool
}
