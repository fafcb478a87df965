package physics

import (
	"log"
	"math"
	"sort"

	"github.com/decker502/tiltduel/pkg/components"
	"github.com/decker502/tiltduel/pkg/ecs"
	"github.com/solarlune/resolv"
)

// WorldConfig 物理世界参数
type WorldConfig struct {
	GravityX     float64
	GravityY     float64
	GravityScale float64
	// GroundFriction 接触摩擦的缩放系数：每步切向速度衰减 friction × GroundFriction
	GroundFriction float64
	// Width/Height 碰撞空间覆盖的场地大小，为 0 时使用 defaultSpaceSize
	Width  float64
	Height float64
}

// restingThreshold 法向相对速度低于该值时不反弹（像素/步）
const restingThreshold = 1.0

const (
	collisionCellSize = 32
	defaultSpaceSize  = 1024
	// spaceMargin 场地四周额外覆盖的范围，出生点上方和死亡线附近的刚体也参与碰撞
	spaceMargin = 512
)

// checkOffsets 四个对角方向各探测 1 像素
// resolv 按格子登记对象，贴着格子边界的亚像素穿透只有朝对方方向探测才能发现
var checkOffsets = [4][2]float64{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

// pairKey 一对刚体（a < b）
type pairKey struct {
	a BodyHandle
	b BodyHandle
}

// World 默认物理实现
//
// 刚体存储在 ECS 中：每个刚体是一个实体，挂载 Transform/Velocity/Shape/
// Material/Label/Force/Collider 组件。积分方式与常见 2D 刚体引擎一致：速度以
// "像素/步"为单位，外力和重力按毫秒平方时间步累加。碰撞检测交给 resolv：
// 每个刚体对应空间中的一个矩形对象（忽略旋转），Check 做宽相位，
// ContactWithObject 给出贴合所需的位移，即穿透深度。
type World struct {
	em       *ecs.EntityManager
	cfg      WorldConfig
	space    *resolv.Space
	handlers []CollisionHandler
	active   map[pairKey]struct{}
	stepping bool
}

// body 一个刚体的全部组件
type body struct {
	id BodyHandle
	t  *components.TransformComponent
	v  *components.VelocityComponent
	s  *components.ShapeComponent
	m  *components.MaterialComponent
	l  *components.LabelComponent
	f  *components.ForceComponent
	c  *components.ColliderComponent
}

// NewWorld 创建物理世界
func NewWorld(cfg WorldConfig) *World {
	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = defaultSpaceSize
	}
	if height <= 0 {
		height = defaultSpaceSize
	}
	return &World{
		em:     ecs.NewEntityManager(),
		cfg:    cfg,
		space:  resolv.NewSpace(int(width)+2*spaceMargin, int(height)+2*spaceMargin, collisionCellSize, collisionCellSize),
		active: make(map[pairKey]struct{}),
	}
}

// CreateBody 创建矩形刚体，(x, y) 为中心点
func (w *World) CreateBody(shape Shape, x, y float64, opts BodyOptions) BodyHandle {
	id := w.em.CreateEntity()
	w.em.AddComponent(id, &components.TransformComponent{X: x, Y: y})
	w.em.AddComponent(id, &components.VelocityComponent{})
	w.em.AddComponent(id, &components.ShapeComponent{Width: shape.Width, Height: shape.Height, Scale: 1})
	w.em.AddComponent(id, &components.MaterialComponent{
		Density:     opts.Density,
		Friction:    opts.Friction,
		Restitution: opts.Restitution,
		FrictionAir: opts.FrictionAir,
		IsStatic:    opts.IsStatic,
		IsSensor:    opts.IsSensor,
		IsKinematic: opts.IsKinematic,
	})
	w.em.AddComponent(id, &components.LabelComponent{Label: string(opts.Label), Owner: opts.Owner})
	w.em.AddComponent(id, &components.ForceComponent{})

	obj := resolv.NewObject(x-shape.Width/2+spaceMargin, y-shape.Height/2+spaceMargin, shape.Width, shape.Height, string(opts.Label))
	obj.SetShape(resolv.NewRectangle(0, 0, shape.Width, shape.Height))
	obj.Data = id
	w.space.Add(obj)
	w.em.AddComponent(id, &components.ColliderComponent{Object: obj})
	return id
}

// RemoveBody 移除刚体
// 在 Step 内（碰撞回调中）调用时延迟到本步结束再真正删除，
// 但刚体立即对 Exists 和后续查询不可见。
func (w *World) RemoveBody(h BodyHandle) {
	collider, ok := ecs.GetComponent[*components.ColliderComponent](w.em, h)
	if !w.em.DestroyEntity(h) {
		return
	}
	if ok {
		w.space.Remove(collider.Object)
	}
	if !w.stepping {
		w.flush()
	}
}

// Exists 检查刚体是否仍在世界中
func (w *World) Exists(h BodyHandle) bool {
	return w.em.IsAlive(h)
}

// Bodies 返回指定标签的全部刚体，按句柄升序
func (w *World) Bodies(label Label) []BodyHandle {
	result := make([]BodyHandle, 0)
	for _, id := range ecs.GetEntitiesWith1[*components.ColliderComponent](w.em) {
		if c, ok := ecs.GetComponent[*components.ColliderComponent](w.em, id); ok && c.Object.HasTags(string(label)) {
			result = append(result, id)
		}
	}
	return result
}

// BodyCount 返回世界中的刚体数量
func (w *World) BodyCount() int {
	return w.em.Count()
}

func (w *World) lookup(h BodyHandle) (body, bool) {
	if !w.em.IsAlive(h) {
		return body{}, false
	}
	b := body{id: h}
	var ok1, ok2, ok3, ok4, ok5, ok6, ok7 bool
	b.t, ok1 = ecs.GetComponent[*components.TransformComponent](w.em, h)
	b.v, ok2 = ecs.GetComponent[*components.VelocityComponent](w.em, h)
	b.s, ok3 = ecs.GetComponent[*components.ShapeComponent](w.em, h)
	b.m, ok4 = ecs.GetComponent[*components.MaterialComponent](w.em, h)
	b.l, ok5 = ecs.GetComponent[*components.LabelComponent](w.em, h)
	b.f, ok6 = ecs.GetComponent[*components.ForceComponent](w.em, h)
	b.c, ok7 = ecs.GetComponent[*components.ColliderComponent](w.em, h)
	return b, ok1 && ok2 && ok3 && ok4 && ok5 && ok6 && ok7
}

// Position 返回刚体中心点
func (w *World) Position(h BodyHandle) Vec {
	if b, ok := w.lookup(h); ok {
		return Vec{X: b.t.X, Y: b.t.Y}
	}
	return Vec{}
}

// SetPosition 直接设置位置
func (w *World) SetPosition(h BodyHandle, pos Vec) {
	if b, ok := w.lookup(h); ok {
		b.t.X, b.t.Y = pos.X, pos.Y
	}
}

// Velocity 返回线速度
func (w *World) Velocity(h BodyHandle) Vec {
	if b, ok := w.lookup(h); ok {
		return Vec{X: b.v.VX, Y: b.v.VY}
	}
	return Vec{}
}

// SetVelocity 直接覆盖线速度
func (w *World) SetVelocity(h BodyHandle, vel Vec) {
	if b, ok := w.lookup(h); ok {
		b.v.VX, b.v.VY = vel.X, vel.Y
	}
}

// Angle 返回旋转角度
func (w *World) Angle(h BodyHandle) float64 {
	if b, ok := w.lookup(h); ok {
		return b.t.Angle
	}
	return 0
}

// SetAngle 直接设置旋转角度
func (w *World) SetAngle(h BodyHandle, angle float64) {
	if b, ok := w.lookup(h); ok {
		b.t.Angle = angle
	}
}

// AngularVelocity 返回角速度（弧度/步）
func (w *World) AngularVelocity(h BodyHandle) float64 {
	if b, ok := w.lookup(h); ok {
		return b.v.AngularVelocity
	}
	return 0
}

// SetAngularVelocity 直接设置角速度
func (w *World) SetAngularVelocity(h BodyHandle, omega float64) {
	if b, ok := w.lookup(h); ok {
		b.v.AngularVelocity = omega
	}
}

// ApplyForce 累积外力
// 碰撞盒不参与旋转，作用点不产生力矩，只保留以兼容接口
func (w *World) ApplyForce(h BodyHandle, point Vec, force Vec) {
	if b, ok := w.lookup(h); ok {
		b.f.FX += force.X
		b.f.FY += force.Y
	}
}

// Density 返回密度
func (w *World) Density(h BodyHandle) float64 {
	if b, ok := w.lookup(h); ok {
		return b.m.Density
	}
	return 0
}

// SetDensity 设置密度，质量随之改变
func (w *World) SetDensity(h BodyHandle, density float64) {
	if b, ok := w.lookup(h); ok {
		b.m.Density = density
	}
}

// Mass 返回质量（密度 × 缩放后面积）
func (w *World) Mass(h BodyHandle) float64 {
	if b, ok := w.lookup(h); ok {
		return massOf(b)
	}
	return 0
}

// Size 返回缩放后的宽高
func (w *World) Size(h BodyHandle) (float64, float64) {
	if b, ok := w.lookup(h); ok {
		return b.s.EffectiveSize()
	}
	return 0, 0
}

// SetScale 设置缩放
func (w *World) SetScale(h BodyHandle, scale float64) {
	if scale <= 0 {
		return
	}
	if b, ok := w.lookup(h); ok {
		b.s.Scale = scale
	}
}

// OnCollisionStart 订阅碰撞开始事件
func (w *World) OnCollisionStart(handler CollisionHandler) {
	w.handlers = append(w.handlers, handler)
}

// Step 推进一步模拟
//
// 顺序：积分 → 碰撞检测与分离 → 同步派发碰撞开始事件 → 清理本步移除的刚体。
// 回调中再次调用 Step 会被忽略。
func (w *World) Step(deltaTime float64) {
	if w.stepping {
		log.Printf("[PhysicsWorld] Warning: re-entrant Step ignored")
		return
	}
	w.stepping = true

	w.integrate(deltaTime)
	started := w.detectCollisions()
	if len(started) > 0 {
		for _, handler := range w.handlers {
			handler(started)
		}
	}

	w.stepping = false
	w.flush()
}

// flush 删除已标记的刚体，并丢弃涉及它们的活动碰撞对
func (w *World) flush() {
	if w.em.RemoveMarkedEntities() == 0 {
		return
	}
	for key := range w.active {
		if !w.em.IsAlive(key.a) || !w.em.IsAlive(key.b) {
			delete(w.active, key)
		}
	}
}

func massOf(b body) float64 {
	width, height := b.s.EffectiveSize()
	return b.m.Density * width * height
}

func (w *World) integrate(deltaTime float64) {
	dtMs := deltaTime * 1000
	dt2 := dtMs * dtMs
	gx := w.cfg.GravityX * w.cfg.GravityScale
	gy := w.cfg.GravityY * w.cfg.GravityScale

	for _, id := range ecs.GetEntitiesWith2[*components.TransformComponent, *components.VelocityComponent](w.em) {
		b, ok := w.lookup(id)
		if !ok || b.m.IsStatic {
			continue
		}

		if b.m.IsKinematic {
			b.t.X += b.v.VX
			b.t.Y += b.v.VY
			b.t.Angle += b.v.AngularVelocity
			b.f.FX, b.f.FY = 0, 0
			continue
		}

		ax, ay := gx, gy
		if mass := massOf(b); mass > 0 {
			ax += b.f.FX / mass
			ay += b.f.FY / mass
		}
		air := 1 - b.m.FrictionAir

		b.v.VX = b.v.VX*air + ax*dt2
		b.v.VY = b.v.VY*air + ay*dt2
		b.v.AngularVelocity *= air

		b.t.X += b.v.VX
		b.t.Y += b.v.VY
		b.t.Angle += b.v.AngularVelocity

		b.f.FX, b.f.FY = 0, 0
	}
}

// syncCollider 把刚体的位置和缩放后的尺寸写回 resolv 对象
func (w *World) syncCollider(b body) {
	obj := b.c.Object
	width, height := b.s.EffectiveSize()
	if obj.W != width || obj.H != height {
		obj.W, obj.H = width, height
		obj.SetShape(resolv.NewRectangle(0, 0, width, height))
	}
	obj.X = b.t.X - width/2 + spaceMargin
	obj.Y = b.t.Y - height/2 + spaceMargin
	obj.Update()
}

// candidatePairs 宽相位：从每个非静态刚体出发在 resolv 空间中查找共享格子的对象
// 返回按 (a, b) 升序排列的候选对
func (w *World) candidatePairs(ids []BodyHandle) []pairKey {
	seen := make(map[pairKey]struct{})
	for _, id := range ids {
		a, ok := w.lookup(id)
		if !ok || a.m.IsStatic {
			continue
		}
		for _, offset := range checkOffsets {
			col := a.c.Object.Check(offset[0], offset[1])
			if col == nil {
				continue
			}
			for _, obj := range col.Objects {
				other, ok := obj.Data.(BodyHandle)
				if !ok || other == id {
					continue
				}
				key := pairKey{a: id, b: other}
				if other < id {
					key = pairKey{a: other, b: id}
				}
				seen[key] = struct{}{}
			}
		}
	}

	pairs := make([]pairKey, 0, len(seen))
	for key := range seen {
		pairs = append(pairs, key)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].a != pairs[j].a {
			return pairs[i].a < pairs[j].a
		}
		return pairs[i].b < pairs[j].b
	})
	return pairs
}

func (w *World) detectCollisions() []Pair {
	ids := ecs.GetEntitiesWith1[*components.ColliderComponent](w.em)
	for _, id := range ids {
		if b, ok := w.lookup(id); ok {
			w.syncCollider(b)
		}
	}

	current := make(map[pairKey]struct{})
	started := make([]Pair, 0)

	for _, key := range w.candidatePairs(ids) {
		a, ok := w.lookup(key.a)
		if !ok {
			continue
		}
		b, ok := w.lookup(key.b)
		if !ok {
			continue
		}
		if a.m.IsStatic && b.m.IsStatic {
			continue
		}

		penX, penY, overlapping := penetration(a, b)
		if !overlapping {
			continue
		}
		current[key] = struct{}{}

		if !a.m.IsSensor && !b.m.IsSensor {
			w.separate(a, b, penX, penY)
			w.syncCollider(a)
			w.syncCollider(b)
		}

		if _, wasActive := w.active[key]; !wasActive {
			started = append(started, Pair{
				A: BodyRef{Handle: a.id, Label: Label(a.l.Label), Owner: a.l.Owner},
				B: BodyRef{Handle: b.id, Label: Label(b.l.Label), Owner: b.l.Owner},
			})
		}
	}

	w.active = current
	return started
}

// penetration 朝 b 的方向探测 1 像素，由 resolv 的贴合位移得到两轴穿透深度
// 贴合位移指向远离 b 的一侧，取反即为穿透深度
func penetration(a, b body) (float64, float64, bool) {
	sx, sy := 1.0, 1.0
	if b.t.X < a.t.X {
		sx = -1
	}
	if b.t.Y < a.t.Y {
		sy = -1
	}

	col := a.c.Object.Check(sx, sy)
	if col == nil || !containsObject(col.Objects, b.c.Object) {
		return 0, 0, false
	}
	contact := col.ContactWithObject(b.c.Object)
	penX := -sx * contact.X()
	penY := -sy * contact.Y()
	return penX, penY, penX > 0 && penY > 0
}

func containsObject(objects []*resolv.Object, target *resolv.Object) bool {
	for _, obj := range objects {
		if obj == target {
			return true
		}
	}
	return false
}

// inverseMass 静态和运动学刚体视为无限质量
func inverseMass(b body) float64 {
	if b.m.IsStatic || b.m.IsKinematic {
		return 0
	}
	mass := massOf(b)
	if mass <= 0 {
		return 0
	}
	return 1 / mass
}

// separate 沿最小穿透轴分离两个实体刚体，并消去相向的法向速度
func (w *World) separate(a, b body, penX, penY float64) {
	invA := inverseMass(a)
	invB := inverseMass(b)
	total := invA + invB
	if total == 0 {
		return
	}

	// 法向 n 从 a 指向 b
	var n Vec
	depth := penX
	if penX < penY {
		n = Vec{X: 1}
		if b.t.X < a.t.X {
			n.X = -1
		}
	} else {
		depth = penY
		n = Vec{Y: 1}
		if b.t.Y < a.t.Y {
			n.Y = -1
		}
	}

	switch {
	case invB == 0:
		// 对方不可推动：直接贴合到接触面，避免浮点残差让刚体停在阈值附近
		aw, ah := a.s.EffectiveSize()
		bw, bh := b.s.EffectiveSize()
		if n.X != 0 {
			a.t.X = b.t.X - n.X*(aw+bw)/2
		} else {
			a.t.Y = b.t.Y - n.Y*(ah+bh)/2
		}
	case invA == 0:
		aw, ah := a.s.EffectiveSize()
		bw, bh := b.s.EffectiveSize()
		if n.X != 0 {
			b.t.X = a.t.X + n.X*(aw+bw)/2
		} else {
			b.t.Y = a.t.Y + n.Y*(ah+bh)/2
		}
	default:
		a.t.X -= n.X * depth * invA / total
		a.t.Y -= n.Y * depth * invA / total
		b.t.X += n.X * depth * invB / total
		b.t.Y += n.Y * depth * invB / total
	}

	relative := (b.v.VX-a.v.VX)*n.X + (b.v.VY-a.v.VY)*n.Y
	if relative >= 0 {
		return
	}

	restitution := math.Max(a.m.Restitution, b.m.Restitution)
	if -relative < restingThreshold {
		restitution = 0
	}
	j := -(1 + restitution) * relative / total
	a.v.VX -= j * invA * n.X
	a.v.VY -= j * invA * n.Y
	b.v.VX += j * invB * n.X
	b.v.VY += j * invB * n.Y

	// 竖直方向接触时，对水平速度施加摩擦
	if n.Y != 0 {
		decay := 1 - math.Min(1, math.Min(a.m.Friction, b.m.Friction)*w.cfg.GroundFriction)
		if invA > 0 {
			a.v.VX *= decay
		}
		if invB > 0 {
			b.v.VX *= decay
		}
	}
}
