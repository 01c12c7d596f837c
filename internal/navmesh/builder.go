// Package navmesh строит слои проходимых поверхностей по геометрии вокселей.
//
// Построение идёт в две фазы. Сначала верх и низ каждой коробки раскладываются
// по слоям одинаковой высоты (пол и потолок отдельно). Затем каждый слой пола
// урезается препятствиями, попадающими в полосу высоты агента над ним.
package navmesh

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/annel0/voxel-navmesh/internal/aabb"
	"github.com/annel0/voxel-navmesh/internal/logging"
	"github.com/annel0/voxel-navmesh/internal/vec"
	"github.com/annel0/voxel-navmesh/internal/voxel"
)

const tracerName = "github.com/annel0/voxel-navmesh/internal/navmesh"

// NavMesh слои одного региона; Floor и Ceiling упорядочены по возрастанию высоты
type NavMesh struct {
	BuildID uuid.UUID
	Origin  vec.Vec3
	Floor   []*Layer
	Ceiling []*Layer
}

// NodeCount возвращает число узлов в слоях пола и потолка
func (m *NavMesh) NodeCount() (floor, ceiling int) {
	for _, l := range m.Floor {
		floor += l.Len()
	}
	for _, l := range m.Ceiling {
		ceiling += l.Len()
	}
	return floor, ceiling
}

// Builder строит NavMesh. Безопасен для одновременного использования
// из нескольких горутин: состояние построения живёт в вызове Build.
type Builder struct {
	settings Settings
	metrics  *Metrics
	logger   *logging.Logger
	tracer   trace.Tracer
}

// Option настраивает Builder
type Option func(*Builder)

// WithMetrics подключает Prometheus-метрики
func WithMetrics(m *Metrics) Option {
	return func(b *Builder) { b.metrics = m }
}

// WithLogger заменяет логгер компонента navmesh
func WithLogger(l *logging.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithTracer заменяет трассировщик глобального провайдера
func WithTracer(t trace.Tracer) Option {
	return func(b *Builder) { b.tracer = t }
}

// NewBuilder создаёт построитель с проверенными параметрами
func NewBuilder(settings Settings, opts ...Option) (*Builder, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	b := &Builder{
		settings: settings,
		logger:   logging.GetNavMeshLogger(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// BuildNavMesh строит сетку региона с параметрами по умолчанию
func BuildNavMesh(region *voxel.Region) (*NavMesh, error) {
	b, err := NewBuilder(DefaultSettings())
	if err != nil {
		return nil, err
	}
	return b.Build(context.Background(), region)
}

// Build строит сетку региона. Регион только читается.
func (b *Builder) Build(ctx context.Context, region *voxel.Region) (*NavMesh, error) {
	origin := region.Origin()
	_, span := b.tracer.Start(ctx, "navmesh.Build", trace.WithAttributes(
		attribute.Int("region.x", origin.X),
		attribute.Int("region.y", origin.Y),
		attribute.Int("region.z", origin.Z),
	))
	defer span.End()

	start := time.Now()
	mesh, clipped, err := b.build(region)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		b.metrics.observeFailure()
		b.logger.Error("Ошибка построения региона %+v: %v", origin, err)
		return nil, err
	}
	elapsed := time.Since(start)

	floor, ceiling := mesh.NodeCount()
	span.SetAttributes(
		attribute.Int("navmesh.floor_layers", len(mesh.Floor)),
		attribute.Int("navmesh.ceiling_layers", len(mesh.Ceiling)),
		attribute.Int("navmesh.floor_nodes", floor),
		attribute.Int("navmesh.nodes_clipped", clipped),
	)
	b.metrics.observeBuild(mesh, clipped, elapsed)
	b.logger.Debug("Регион %+v: пол %d слоёв/%d узлов, потолок %d слоёв/%d узлов, урезано %d (%v)",
		origin, len(mesh.Floor), floor, len(mesh.Ceiling), ceiling, clipped, elapsed)
	return mesh, nil
}

func (b *Builder) build(region *voxel.Region) (*NavMesh, int, error) {
	mesh := &NavMesh{
		BuildID: uuid.New(),
		Origin:  region.Origin(),
	}

	var err error
	for pos, box := range region.IterFloor() {
		mesh.Floor, err = b.insert(mesh.Floor, float64(pos.Y)+box.MaxY, pos, box)
		if err != nil {
			return nil, 0, fmt.Errorf("floor %+v: %w", pos, err)
		}
	}
	for pos, box := range region.IterCeiling() {
		mesh.Ceiling, err = b.insert(mesh.Ceiling, float64(pos.Y)+box.MinY, pos, box)
		if err != nil {
			return nil, 0, fmt.Errorf("ceiling %+v: %w", pos, err)
		}
	}

	clipped := 0
	for _, layer := range mesh.Floor {
		clipped += b.clipLayer(region, layer)
	}
	return mesh, clipped, nil
}

// footprint горизонтальная проекция коробки клетки pos, расширенная на радиус агента
func (b *Builder) footprint(pos vec.Vec3, box aabb.Box3D) aabb.Box2D {
	return box.Footprint().
		Translate(float64(pos.X), float64(pos.Z)).
		Inflate(b.settings.ClearanceRadius)
}

func (b *Builder) insert(layers []*Layer, height float64, pos vec.Vec3, box aabb.Box3D) ([]*Layer, error) {
	i, found, err := searchLayer(layers, height)
	if err != nil {
		return nil, err
	}
	if !found {
		layers = slices.Insert(layers, i, newLayer(height))
	}
	layers[i].insert(b.footprint(pos, box), pos.Column())
	return layers, nil
}

// clearanceBand клетки по высоте, которые агент занимает, стоя на высоте h
func (b *Builder) clearanceBand(h float64) (lo, hi int) {
	lo = int(math.Floor(h))
	hi = int(math.Ceil(h + b.settings.AgentHeight))
	return min(max(lo, 0), voxel.Height), min(max(hi, 0), voxel.Height)
}

// obstacles собирает следы препятствий над колонкой и её соседями,
// вторгающихся в объём агента на высоте h
func (b *Builder) obstacles(region *voxel.Region, column vec.Vec2, h float64) []aabb.Box2D {
	lo, hi := b.clearanceBand(h)
	if lo >= hi {
		return nil
	}

	var out []aabb.Box2D
	for _, d := range vec.Neighbours() {
		col := column.Add(d)
		if !col.InSquare(voxel.Width) {
			continue
		}
		for y := lo; y < hi; y++ {
			pos := vec.Vec3{X: col.X, Y: y, Z: col.Y}
			base := float64(y)
			for _, box := range region.Cell(pos) {
				if base+box.MinY-b.settings.AgentHeight < h && h < base+box.MaxY {
					out = append(out, b.footprint(pos, box))
				}
			}
		}
	}
	return out
}

// clipLayer урезает узлы слоя пола и уплотняет слой.
// Возвращает число урезанных узлов.
func (b *Builder) clipLayer(region *voxel.Region, layer *Layer) int {
	clipped := 0
	for z := 0; z < voxel.Width; z++ {
		for x := 0; x < voxel.Width; x++ {
			handles := layer.handlesAt(x, z)
			if len(handles) == 0 {
				continue
			}
			column := vec.Vec2{X: x, Y: z}
			obstacles := b.obstacles(region, column, layer.height)
			if len(obstacles) == 0 {
				continue
			}

			for _, h := range handles {
				node, ok := layer.Node(h)
				if !ok {
					continue
				}
				pieces, changed := clip(node.Box, obstacles)
				if !changed {
					continue
				}
				layer.remove(h)
				for _, piece := range pieces {
					layer.insert(piece, column)
				}
				clipped++
			}
		}
	}
	layer.compact()
	return clipped
}

// clip вычитает из box все препятствия.
// Каждый кусок проверяется против каждого препятствия, так что
// ни один уцелевший кусок не пересекается ни с одним из них.
func clip(box aabb.Box2D, obstacles []aabb.Box2D) ([]aabb.Box2D, bool) {
	pieces := []aabb.Box2D{box}
	changed := false

	for _, obstacle := range obstacles {
		var next []aabb.Box2D
		for _, piece := range pieces {
			if !piece.Overlaps(obstacle) {
				next = append(next, piece)
				continue
			}
			changed = true
			next = append(next, piece.Subtract(obstacle)...)
		}
		pieces = next
		if len(pieces) == 0 {
			break
		}
	}
	return pieces, changed
}
