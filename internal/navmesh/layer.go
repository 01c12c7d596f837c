package navmesh

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/annel0/voxel-navmesh/internal/aabb"
	"github.com/annel0/voxel-navmesh/internal/vec"
	"github.com/annel0/voxel-navmesh/internal/voxel"
)

// ErrUnorderedHeight высота слоя не сравнима (NaN)
var ErrUnorderedHeight = errors.New("unordered layer height")

// NodeHandle стабильная ссылка на узел слоя.
// Удаление узла не сдвигает остальные ссылки; после уплотнения слоя
// все старые ссылки становятся недействительными.
type NodeHandle struct {
	index uint32
	gen   uint32
}

// AdjacencyKind вид связи между узлами
type AdjacencyKind uint8

const (
	AdjacentSuperset AdjacencyKind = iota
	AdjacentSubset
	AdjacentOverlapping
)

// Adjacency зарезервировано под граф связности, построитель его не заполняет
type Adjacency struct {
	Kind AdjacencyKind
	Node NodeHandle
	Axis uint8
	Min  float64
	Max  float64
}

// Node прямоугольник проходимой поверхности.
// Box задан в координатах региона: Box.X это мировая X, Box.Y это мировая Z.
type Node struct {
	Box      aabb.Box2D
	Column   vec.Vec2 // X = x, Y = z клетки, породившей узел
	Adjacent []Adjacency
}

type slot struct {
	node Node
	gen  uint32
	live bool
}

// Layer горизонтальный срез на фиксированной высоте
type Layer struct {
	height  float64
	slots   []slot
	live    int
	nextGen uint32

	// buckets[z][x] ссылки на узлы колонки
	buckets [voxel.Width][voxel.Width][]NodeHandle
}

func newLayer(height float64) *Layer {
	return &Layer{height: height}
}

// Height абсолютная высота слоя относительно основания региона
func (l *Layer) Height() float64 {
	return l.height
}

// Len количество живых узлов
func (l *Layer) Len() int {
	return l.live
}

// Nodes возвращает копии живых узлов в порядке вставки
func (l *Layer) Nodes() []Node {
	out := make([]Node, 0, l.live)
	for _, s := range l.slots {
		if s.live {
			out = append(out, s.node)
		}
	}
	return out
}

// NodesAt возвращает узлы, порождённые колонкой (x, z)
func (l *Layer) NodesAt(x, z int) []Node {
	if !(vec.Vec2{X: x, Y: z}).InSquare(voxel.Width) {
		return nil
	}
	bucket := l.buckets[z][x]
	out := make([]Node, 0, len(bucket))
	for _, h := range bucket {
		out = append(out, l.slots[h.index].node)
	}
	return out
}

// Node разыменовывает ссылку
func (l *Layer) Node(h NodeHandle) (Node, bool) {
	if int(h.index) >= len(l.slots) {
		return Node{}, false
	}
	s := l.slots[h.index]
	if !s.live || s.gen != h.gen {
		return Node{}, false
	}
	return s.node, true
}

// Area суммарная площадь узлов слоя
func (l *Layer) Area() float64 {
	total := 0.0
	for _, s := range l.slots {
		if s.live {
			total += s.node.Box.Area()
		}
	}
	return total
}

func (l *Layer) insert(box aabb.Box2D, column vec.Vec2) NodeHandle {
	l.nextGen++
	h := NodeHandle{index: uint32(len(l.slots)), gen: l.nextGen}
	l.slots = append(l.slots, slot{
		node: Node{Box: box, Column: column},
		gen:  h.gen,
		live: true,
	})
	l.buckets[column.Y][column.X] = append(l.buckets[column.Y][column.X], h)
	l.live++
	return h
}

// remove убирает узел; затрагивается только корзина его колонки
func (l *Layer) remove(h NodeHandle) bool {
	node, ok := l.Node(h)
	if !ok {
		return false
	}
	l.slots[h.index].live = false
	l.live--

	bucket := l.buckets[node.Column.Y][node.Column.X]
	if i := slices.Index(bucket, h); i >= 0 {
		l.buckets[node.Column.Y][node.Column.X] = slices.Delete(bucket, i, i+1)
	}
	return true
}

func (l *Layer) handlesAt(x, z int) []NodeHandle {
	return slices.Clone(l.buckets[z][x])
}

// compact пересобирает список узлов и корзины из живых узлов
func (l *Layer) compact() {
	fresh := newLayer(l.height)
	fresh.nextGen = l.nextGen
	for _, s := range l.slots {
		if s.live {
			fresh.insert(s.node.Box, s.node.Column)
		}
	}
	*l = *fresh
}

// checkInvariants сверяет корзины со списком узлов
func (l *Layer) checkInvariants() error {
	seen := make(map[NodeHandle]struct{}, l.live)
	for z := range l.buckets {
		for x, bucket := range l.buckets[z] {
			for _, h := range bucket {
				node, ok := l.Node(h)
				if !ok {
					return fmt.Errorf("layer %g: bucket (%d,%d) holds dead handle %+v", l.height, x, z, h)
				}
				if node.Column != (vec.Vec2{X: x, Y: z}) {
					return fmt.Errorf("layer %g: node %+v filed under (%d,%d)", l.height, node.Column, x, z)
				}
				if _, dup := seen[h]; dup {
					return fmt.Errorf("layer %g: handle %+v listed twice", l.height, h)
				}
				seen[h] = struct{}{}
			}
		}
	}
	if len(seen) != l.live {
		return fmt.Errorf("layer %g: %d live nodes, %d bucketed", l.height, l.live, len(seen))
	}
	return nil
}

// searchLayer ищет слой с точно такой высотой.
// Если не найден, index равен позиции вставки с сохранением порядка.
func searchLayer(layers []*Layer, height float64) (index int, found bool, err error) {
	if math.IsNaN(height) {
		return 0, false, fmt.Errorf("%w: %v", ErrUnorderedHeight, height)
	}
	index, found = slices.BinarySearchFunc(layers, height, func(l *Layer, h float64) int {
		return cmp.Compare(l.height, h)
	})
	return index, found, nil
}
