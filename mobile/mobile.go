//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 仅在使用 -tags mobile 构建时编译：
//
//	ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.decker.tiltduel -o build/android/tiltduel.aar ./mobile
//	ebitenmobile bind -target ios -tags mobile -o build/ios/TiltDuel.xcframework ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/decker502/tiltduel/pkg/app"
)

func init() {
	// 移动端没有键盘，双方都由自主逻辑控制
	gameApp, err := app.NewApp(app.Config{
		Verbose: true,
		Players: 0,
	})
	if err != nil {
		log.Fatalf("游戏初始化失败: %v", err)
	}

	mobile.SetGame(gameApp)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
