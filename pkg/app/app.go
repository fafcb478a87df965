// Package app 提供游戏应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"time"

	"github.com/decker502/tiltduel/pkg/config"
	"github.com/decker502/tiltduel/pkg/entities"
	"github.com/decker502/tiltduel/pkg/game"
	"github.com/decker502/tiltduel/pkg/input"
	"github.com/decker502/tiltduel/pkg/scenes"
	"github.com/decker502/tiltduel/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"
)

// AppName gdata 存储使用的应用名
const AppName = "tiltduel"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// GameplayPath 玩法配置文件（.yaml/.yml/.toml），为空使用内置配置
	GameplayPath string
	// Players 人类玩家数量（0~2），小于 0 时使用已保存的设置
	Players int
	// Seed 随机种子，为 0 时使用当前时间
	Seed int64
}

// App 是游戏应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *scenes.SceneManager
	settings     *game.SettingsManager
	gameplay     *config.GameplayConfig
	verbose      bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化游戏应用
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	gameplay, err := config.LoadGameplayConfig(cfg.GameplayPath)
	if err != nil {
		return nil, fmt.Errorf("玩法配置加载失败: %w", err)
	}

	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[App] Warning: storage dir not ready: %v", err)
	}
	gdataManager, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		// 存储不可用时降级为仅内存
		log.Printf("[App] Warning: gdata unavailable, progress will not be saved: %v", err)
		gdataManager = nil
	}

	settings, _ := game.NewSettingsManager(gdataManager)
	if cfg.Players >= 0 {
		settings.SetPlayerCount(cfg.Players)
		if err := settings.Save(); err != nil {
			log.Printf("[App] Warning: failed to save settings: %v", err)
		}
	}
	playerCount := settings.GetSettings().PlayerCount

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	ctx, err := game.NewContext(gameplay, game.NewGdataSessionStore(gdataManager), seed)
	if err != nil {
		return nil, err
	}

	round, err := game.NewRoundController(ctx, controllersFor(playerCount))
	if err != nil {
		return nil, err
	}
	round.Start()

	sceneManager := scenes.NewSceneManager()
	duel := scenes.NewDuelScene(round, sceneManager, settings, gameplay)
	sceneManager.SetSceneFactory(func(sceneID string) scenes.Scene {
		switch sceneID {
		case scenes.SceneDuel:
			return duel
		case scenes.SceneResult:
			return scenes.NewResultScene(round, sceneManager, gameplay.Canvas.Width, gameplay.Canvas.Height)
		}
		return nil
	})
	sceneManager.Load(scenes.SceneDuel)

	if settings.GetSettings().Fullscreen {
		ebiten.SetFullscreen(true)
	}
	log.Printf("[App] Started with %d human player(s), seed=%d", playerCount, seed)

	return &App{
		sceneManager: sceneManager,
		settings:     settings,
		gameplay:     gameplay,
		verbose:      cfg.Verbose,
	}, nil
}

// controllersFor 按人类玩家数量分配控制器，其余由自主逻辑控制
func controllersFor(playerCount int) game.RoundOptions {
	opts := game.RoundOptions{
		Player1Controller: entities.AutonomousController{},
		Player2Controller: entities.AutonomousController{},
		PlayerCount:       playerCount,
	}
	if playerCount >= 1 {
		opts.Player1Controller = input.NewKeyboardController(input.Player1Keys)
	}
	if playerCount >= 2 {
		opts.Player2Controller = input.NewKeyboardController(input.Player2Keys)
	}
	return opts
}

// Update 更新游戏逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() {
		a.saveOnExit()
		return ebiten.Termination
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.WindowSize())
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		fullscreen := !ebiten.IsFullscreen()
		ebiten.SetFullscreen(fullscreen)
		if !fullscreen {
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		}
		a.settings.SetFullscreen(fullscreen)
		if err := a.settings.Save(); err != nil {
			log.Printf("[App] Warning: failed to save settings: %v", err)
		}
	}

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

// saveOnExit 窗口关闭时保存当前场景状态
func (a *App) saveOnExit() {
	if saveable, ok := a.sceneManager.GetCurrentScene().(scenes.Saveable); ok {
		if !saveable.SaveOnExit() {
			log.Printf("[App] Warning: scene state was not saved on exit")
		}
	}
}

// Draw 绘制游戏画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 全屏时 letterbox 区域填充黑色，像素画面使用最近邻缩放
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸（画布尺寸）
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(a.gameplay.Canvas.Width), int(a.gameplay.Canvas.Height)
}

// WindowSize 窗口尺寸：画布放大两倍
func (a *App) WindowSize() (int, int) {
	return int(a.gameplay.Canvas.Width) * 2, int(a.gameplay.Canvas.Height) * 2
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *scenes.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
