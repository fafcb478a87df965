package main

import (
	"flag"
	"log"
	"os"

	"github.com/decker502/tiltduel/pkg/app"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verbose  = flag.Bool("verbose", false, "显示详细调试信息")
	gameplay = flag.String("config", "", "玩法配置文件（.yaml/.toml），为空使用内置配置")
	players  = flag.Int("players", -1, "人类玩家数量 0~2，-1 使用已保存的设置")
	seed     = flag.Int64("seed", 0, "随机种子，0 表示使用当前时间")
)

func main() {
	flag.Parse()

	gameApp, err := app.NewApp(app.Config{
		Verbose:      *verbose,
		GameplayPath: *gameplay,
		Players:      *players,
		Seed:         *seed,
	})
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("游戏初始化失败: %v", err)
	}

	ebiten.SetWindowSize(gameApp.WindowSize())
	ebiten.SetWindowTitle("Tilt Duel")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(gameApp); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatal(err)
	}
}
