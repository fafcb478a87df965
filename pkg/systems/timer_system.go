package systems

import (
	"github.com/decker502/tiltduel/pkg/components"
	"github.com/decker502/tiltduel/pkg/ecs"
)

// timerEpsilon 抵消逐帧累加 1/60 产生的浮点误差
const timerEpsilon = 1e-9

// TimerSystem 帧驱动的延迟任务调度
//
// 每个任务是一个实体（TimerComponent + TaskComponent）。任务只在 Update 中推进，
// 测试可以逐帧推进模拟时间，不依赖真实时钟。到期任务在本帧所有计时器推进完成后
// 按创建顺序执行；回调中新建的任务从下一帧开始计时。
type TimerSystem struct {
	entityManager *ecs.EntityManager
}

// NewTimerSystem 创建计时系统
func NewTimerSystem() *TimerSystem {
	return &TimerSystem{entityManager: ecs.NewEntityManager()}
}

// After 安排 delay 秒后执行 callback
func (s *TimerSystem) After(delay float64, name string, callback func()) {
	id := s.entityManager.CreateEntity()
	s.entityManager.AddComponent(id, &components.TimerComponent{
		Name:       name,
		TargetTime: delay,
	})
	s.entityManager.AddComponent(id, &components.TaskComponent{Callback: callback})
}

// Update 推进所有计时器并执行到期任务
func (s *TimerSystem) Update(deltaTime float64) {
	entities := ecs.GetEntitiesWith2[*components.TimerComponent, *components.TaskComponent](s.entityManager)

	due := make([]func(), 0)
	for _, id := range entities {
		timer, ok := ecs.GetComponent[*components.TimerComponent](s.entityManager, id)
		if !ok {
			continue
		}
		timer.CurrentTime += deltaTime
		if timer.CurrentTime+timerEpsilon < timer.TargetTime {
			continue
		}
		timer.IsReady = true

		if task, ok := ecs.GetComponent[*components.TaskComponent](s.entityManager, id); ok && task.Callback != nil {
			due = append(due, task.Callback)
		}
		s.entityManager.DestroyEntity(id)
	}
	s.entityManager.RemoveMarkedEntities()

	for _, callback := range due {
		callback()
	}
}

// Pending 返回尚未到期的任务数量
func (s *TimerSystem) Pending() int {
	return s.entityManager.Count()
}

// PendingNamed 返回指定名称的未到期任务数量
func (s *TimerSystem) PendingNamed(name string) int {
	count := 0
	for _, id := range ecs.GetEntitiesWith1[*components.TimerComponent](s.entityManager) {
		if timer, ok := ecs.GetComponent[*components.TimerComponent](s.entityManager, id); ok && timer.Name == name {
			count++
		}
	}
	return count
}

// Clear 丢弃所有未到期任务
func (s *TimerSystem) Clear() {
	for _, id := range ecs.GetEntitiesWith1[*components.TimerComponent](s.entityManager) {
		s.entityManager.DestroyEntity(id)
	}
	s.entityManager.RemoveMarkedEntities()
}
