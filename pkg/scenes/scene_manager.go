package scenes

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// 场景 ID
const (
	SceneDuel   = "duel"
	SceneResult = "result"
)

// SceneFactory 场景工厂函数类型
// 按 ID 创建场景，避免 app 包依赖具体场景的构造顺序
type SceneFactory func(sceneID string) Scene

// SceneManager manages the game's high-level state by controlling which scene is active.
// It ensures only one scene's Update and Draw methods are called at any given time.
type SceneManager struct {
	currentScene Scene
	sceneFactory SceneFactory
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use SwitchTo to set the initial scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo changes the active scene to the provided scene.
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// Load 通过工厂创建并切换到指定场景
//
// 返回：
//   - bool: 工厂未设置或创建失败时返回 false，当前场景保持不变
func (sm *SceneManager) Load(sceneID string) bool {
	if sm.sceneFactory == nil {
		log.Printf("[SceneManager] Error: scene factory not set, cannot load '%s'", sceneID)
		return false
	}

	newScene := sm.sceneFactory(sceneID)
	if newScene == nil {
		log.Printf("[SceneManager] Error: factory returned no scene for '%s'", sceneID)
		return false
	}
	sm.SwitchTo(newScene)
	log.Printf("[SceneManager] Switched to scene: %s", sceneID)
	return true
}

// Update updates the currently active scene.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
}

// Draw renders the currently active scene to the provided screen.
// If no scene is active, this method does nothing.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
