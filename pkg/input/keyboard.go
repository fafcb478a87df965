// Package input 读取键盘状态，把按键映射成战斗核心使用的控制器
package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeyBinding 一名玩家的按键
type KeyBinding struct {
	Jump ebiten.Key
	Fire ebiten.Key
}

// 默认按键：玩家1 W/空格，玩家2 上方向键/回车
var (
	Player1Keys = KeyBinding{Jump: ebiten.KeyW, Fire: ebiten.KeySpace}
	Player2Keys = KeyBinding{Jump: ebiten.KeyArrowUp, Fire: ebiten.KeyEnter}
)

// KeyboardController 读取键盘状态的人类控制器
type KeyboardController struct {
	keys KeyBinding
}

// NewKeyboardController 创建键盘控制器
func NewKeyboardController(keys KeyBinding) *KeyboardController {
	return &KeyboardController{keys: keys}
}

// Autonomous 人类控制器不是自主控制
func (k *KeyboardController) Autonomous() bool { return false }

// JumpHeld 跳跃键是否按下
func (k *KeyboardController) JumpHeld() bool {
	return ebiten.IsKeyPressed(k.keys.Jump)
}

// FireHeld 开火键是否按下
func (k *KeyboardController) FireHeld() bool {
	return ebiten.IsKeyPressed(k.keys.Fire)
}

// IsKeyJustPressed 检查本帧是否刚按下某个键（菜单/快捷键使用）
func IsKeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}
