package ecs

import (
	"reflect"
	"sort"
)

// EntityID 是实体的唯一标识符
// 0 保留为无效ID
type EntityID uint64

// EntityManager 管理所有实体和组件
//
// 销毁是延迟的：DestroyEntity 只做标记，RemoveMarkedEntities 统一清理。
// 已标记的实体对 IsAlive 立即返回 false，但组件在清理前仍可读取。
type EntityManager struct {
	nextID uint64
	// 实体-组件映射: EntityID -> ComponentType -> Component实例
	components map[EntityID]map[reflect.Type]any
	// 待删除的实体ID（集合 + 顺序列表）
	pending           map[EntityID]struct{}
	entitiesToDestroy []EntityID
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID:            1,
		components:        make(map[EntityID]map[reflect.Type]any),
		pending:           make(map[EntityID]struct{}),
		entitiesToDestroy: make([]EntityID, 0),
	}
}

// CreateEntity 创建新实体并返回唯一ID
func (em *EntityManager) CreateEntity() EntityID {
	id := EntityID(em.nextID)
	em.nextID++
	em.components[id] = make(map[reflect.Type]any)
	return id
}

// DestroyEntity 标记实体待删除(不立即删除)
//
// 幂等：对不存在或已标记的实体调用返回 false，不报错。
func (em *EntityManager) DestroyEntity(id EntityID) bool {
	if _, exists := em.components[id]; !exists {
		return false
	}
	if _, marked := em.pending[id]; marked {
		return false
	}
	em.pending[id] = struct{}{}
	em.entitiesToDestroy = append(em.entitiesToDestroy, id)
	return true
}

// IsAlive 检查实体存在且未被标记删除
func (em *EntityManager) IsAlive(id EntityID) bool {
	if _, exists := em.components[id]; !exists {
		return false
	}
	_, marked := em.pending[id]
	return !marked
}

// RemoveMarkedEntities 清理所有标记删除的实体，返回清理数量
func (em *EntityManager) RemoveMarkedEntities() int {
	removed := len(em.entitiesToDestroy)
	for _, id := range em.entitiesToDestroy {
		delete(em.components, id)
		delete(em.pending, id)
	}
	em.entitiesToDestroy = em.entitiesToDestroy[:0]
	return removed
}

// Count 返回当前存活（未标记删除）的实体数量
func (em *EntityManager) Count() int {
	return len(em.components) - len(em.pending)
}

// AddComponent 为实体添加组件，同类型组件会被覆盖
func (em *EntityManager) AddComponent(id EntityID, component any) {
	if compMap, exists := em.components[id]; exists {
		compMap[reflect.TypeOf(component)] = component
	}
}

// RemoveComponent 从实体移除指定类型的组件
func RemoveComponent[T any](em *EntityManager, id EntityID) {
	if compMap, exists := em.components[id]; exists {
		delete(compMap, reflect.TypeFor[T]())
	}
}

// GetComponent 获取实体的特定类型组件
//
// 示例: pos, ok := ecs.GetComponent[*components.TransformComponent](em, id)
func GetComponent[T any](em *EntityManager, id EntityID) (T, bool) {
	var zero T
	compMap, exists := em.components[id]
	if !exists {
		return zero, false
	}
	comp, found := compMap[reflect.TypeFor[T]()]
	if !found {
		return zero, false
	}
	typed, ok := comp.(T)
	return typed, ok
}

// HasComponent 检查实体是否拥有特定类型组件
func HasComponent[T any](em *EntityManager, id EntityID) bool {
	if compMap, exists := em.components[id]; exists {
		_, found := compMap[reflect.TypeFor[T]()]
		return found
	}
	return false
}

// GetEntitiesWith1 查询拥有指定组件的所有存活实体，按ID升序
func GetEntitiesWith1[T any](em *EntityManager) []EntityID {
	return em.query(reflect.TypeFor[T]())
}

// GetEntitiesWith2 查询同时拥有两种组件的所有存活实体，按ID升序
func GetEntitiesWith2[T1, T2 any](em *EntityManager) []EntityID {
	return em.query(reflect.TypeFor[T1](), reflect.TypeFor[T2]())
}

// GetEntitiesWith3 查询同时拥有三种组件的所有存活实体，按ID升序
func GetEntitiesWith3[T1, T2, T3 any](em *EntityManager) []EntityID {
	return em.query(reflect.TypeFor[T1](), reflect.TypeFor[T2](), reflect.TypeFor[T3]())
}

// query 返回结果按ID排序，保证模拟在 map 无序遍历下仍是确定性的
func (em *EntityManager) query(componentTypes ...reflect.Type) []EntityID {
	result := make([]EntityID, 0)

	for id, compMap := range em.components {
		if _, marked := em.pending[id]; marked {
			continue
		}
		hasAll := true
		for _, ct := range componentTypes {
			if _, found := compMap[ct]; !found {
				hasAll = false
				break
			}
		}
		if hasAll {
			result = append(result, id)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
