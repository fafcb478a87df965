package entities

// Controller 角色的输入来源
//
// 人类控制器每帧报告按键状态；自主控制器（AI）不读取按键，
// 由状态机按固定节奏自行跳跃和开火。
type Controller interface {
	Autonomous() bool
	JumpHeld() bool
	FireHeld() bool
}

// AutonomousController 自主控制（AI）
type AutonomousController struct{}

// Autonomous 总是返回 true
func (AutonomousController) Autonomous() bool { return true }

// JumpHeld 自主控制不读按键
func (AutonomousController) JumpHeld() bool { return false }

// FireHeld 自主控制不读按键
func (AutonomousController) FireHeld() bool { return false }

// ManualController 由代码直接设置按键状态的人类控制器
// 用于无窗口运行和测试
type ManualController struct {
	Jump bool
	Fire bool
}

// Autonomous 返回 false
func (m *ManualController) Autonomous() bool { return false }

// JumpHeld 返回跳跃键状态
func (m *ManualController) JumpHeld() bool { return m.Jump }

// FireHeld 返回开火键状态
func (m *ManualController) FireHeld() bool { return m.Fire }

// Scheduler 帧驱动的延迟任务服务
// 回调在之后某一帧执行，必须自行检查目标是否仍然有效
type Scheduler interface {
	After(delay float64, name string, callback func())
}

// ProjectileSink 接收角色开火产生的子弹
type ProjectileSink interface {
	AddProjectiles(projectiles ...*Projectile)
}
