package ecs

import (
	"testing"
)

type benchmarkTransform struct {
	X, Y, Angle float64
}

type benchmarkVelocity struct {
	VX, VY float64
}

type benchmarkLabel struct {
	Label string
}

// setupBenchmarkBodies 创建与一局对战规模相当的刚体实体
// 每 4 个实体中有 1 个没有速度组件（静态平台）
func setupBenchmarkBodies(count int) *EntityManager {
	em := NewEntityManager()
	for i := 0; i < count; i++ {
		id := em.CreateEntity()
		em.AddComponent(id, &benchmarkTransform{X: float64(i), Y: float64(i * 2)})
		em.AddComponent(id, &benchmarkLabel{Label: "projectile"})
		if i%4 != 0 {
			em.AddComponent(id, &benchmarkVelocity{VX: 10})
		}
	}
	return em
}

func BenchmarkGetEntitiesWith2(b *testing.B) {
	em := setupBenchmarkBodies(64)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = GetEntitiesWith2[*benchmarkTransform, *benchmarkVelocity](em)
	}
}

func BenchmarkCreateDestroyCycle(b *testing.B) {
	em := NewEntityManager()
	for i := 0; i < b.N; i++ {
		id := em.CreateEntity()
		em.AddComponent(id, &benchmarkTransform{})
		em.DestroyEntity(id)
		em.RemoveMarkedEntities()
	}
}
