package components

// TimerComponent 通用计时器组件
// 用于处理需要时间延迟的行为（如道具效果到期、回合重置延迟）
type TimerComponent struct {
	Name        string  // 计时器名称，如 "round_reset"
	TargetTime  float64 // 目标时间（秒）
	CurrentTime float64 // 当前已过时间（秒）
	IsReady     bool    // 计时器是否已完成
}

// TaskComponent 计时器到期时执行的回调
// 回调自行负责检查目标对象是否仍然有效
type TaskComponent struct {
	Callback func()
}
