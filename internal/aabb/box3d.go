package aabb

import (
	"fmt"
	"math"
)

// Box3D выровненный по осям параллелепипед
type Box3D struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
}

// FullBlock коробка, ровно заполняющая единичную клетку
var FullBlock = Box3D{MaxX: 1, MaxY: 1, MaxZ: 1}

// NewBox3D создаёт параллелепипед, отклоняя min > max и нечисловые координаты
func NewBox3D(minX, minY, minZ, maxX, maxY, maxZ float64) (Box3D, error) {
	b := Box3D{MinX: minX, MinY: minY, MinZ: minZ, MaxX: maxX, MaxY: maxY, MaxZ: maxZ}
	if err := b.Validate(); err != nil {
		return Box3D{}, err
	}
	return b, nil
}

// MustBox3D как NewBox3D, но паникует при ошибке. Только для констант и тестов.
func MustBox3D(minX, minY, minZ, maxX, maxY, maxZ float64) Box3D {
	b, err := NewBox3D(minX, minY, minZ, maxX, maxY, maxZ)
	if err != nil {
		panic(err)
	}
	return b
}

// Validate проверяет инвариант min <= max по каждой оси
func (b Box3D) Validate() error {
	if err := checkAxis("x", b.MinX, b.MaxX); err != nil {
		return err
	}
	if err := checkAxis("y", b.MinY, b.MaxY); err != nil {
		return err
	}
	return checkAxis("z", b.MinZ, b.MaxZ)
}

func (b Box3D) bounds() [2][3]float64 {
	return [2][3]float64{{b.MinX, b.MinY, b.MinZ}, {b.MaxX, b.MaxY, b.MaxZ}}
}

func box3DFromBounds(v [2][3]float64) Box3D {
	return Box3D{
		MinX: v[0][0], MinY: v[0][1], MinZ: v[0][2],
		MaxX: v[1][0], MaxY: v[1][1], MaxZ: v[1][2],
	}
}

// Contains строгая проверка попадания точки внутрь
func (b Box3D) Contains(x, y, z float64) bool {
	return b.MinX < x && x < b.MaxX &&
		b.MinY < y && y < b.MaxY &&
		b.MinZ < z && z < b.MaxZ
}

// Volume возвращает объём; вырожденные коробки имеют нулевой объём
func (b Box3D) Volume() float64 {
	return extent(b.MinX, b.MaxX) * extent(b.MinY, b.MaxY) * extent(b.MinZ, b.MaxZ)
}

// Classify сравнивает вложенность b и other
func (b Box3D) Classify(other Box3D) Classification {
	return classify(
		[]float64{b.MinX - other.MinX, b.MinY - other.MinY, b.MinZ - other.MinZ},
		[]float64{b.MaxX - other.MaxX, b.MaxY - other.MaxY, b.MaxZ - other.MaxZ},
	)
}

// Overlaps истинно, если пересечение имеет положительный объём
func (b Box3D) Overlaps(other Box3D) bool {
	return overlap1D(b.MinX, b.MaxX, other.MinX, other.MaxX) &&
		overlap1D(b.MinY, b.MaxY, other.MinY, other.MaxY) &&
		overlap1D(b.MinZ, b.MaxZ, other.MinZ, other.MaxZ)
}

// Intersection возвращает общую часть, если она имеет положительный объём
func (b Box3D) Intersection(other Box3D) (Box3D, bool) {
	if !b.Overlaps(other) {
		return Box3D{}, false
	}
	return Box3D{
		MinX: math.Max(b.MinX, other.MinX),
		MinY: math.Max(b.MinY, other.MinY),
		MinZ: math.Max(b.MinZ, other.MinZ),
		MaxX: math.Min(b.MaxX, other.MaxX),
		MaxY: math.Min(b.MaxY, other.MaxY),
		MaxZ: math.Min(b.MaxZ, other.MaxZ),
	}, true
}

// Translate сдвигает коробку
func (b Box3D) Translate(dx, dy, dz float64) Box3D {
	return Box3D{
		MinX: b.MinX + dx, MinY: b.MinY + dy, MinZ: b.MinZ + dz,
		MaxX: b.MaxX + dx, MaxY: b.MaxY + dy, MaxZ: b.MaxZ + dz,
	}
}

// Footprint проекция на горизонтальную плоскость: X -> X, Z -> Y
func (b Box3D) Footprint() Box2D {
	return Box2D{MinX: b.MinX, MinY: b.MinZ, MaxX: b.MaxX, MaxY: b.MaxZ}
}

// String форматирует коробку как [minX,minY,minZ]-[maxX,maxY,maxZ]
func (b Box3D) String() string {
	return fmt.Sprintf("[%g,%g,%g]-[%g,%g,%g]", b.MinX, b.MinY, b.MinZ, b.MaxX, b.MaxY, b.MaxZ)
}

// Cut режет other первой гранью b, проходящей строго внутри other.
// Контракт совпадает с Box2D.Cut: after не пересекается с b, before может.
func (b Box3D) Cut(other Box3D) (before, after Box3D, ok bool) {
	self := b.bounds()
	target := other.bounds()

	for fixed := 0; fixed < 3; fixed++ {
		u := (fixed + 1) % 3
		v := (fixed + 2) % 3
		for dir := 0; dir < 2; dir++ {
			value := self[dir][fixed]
			if !(target[0][fixed] < value && value < target[1][fixed]) {
				continue
			}
			// Грань должна накрывать other по двум оставшимся осям
			if !overlap1D(self[0][u], self[1][u], target[0][u], target[1][u]) ||
				!overlap1D(self[0][v], self[1][v], target[0][v], target[1][v]) {
				continue
			}

			far := target
			far[1-dir][fixed] = value
			near := target
			near[dir][fixed] = value
			return box3DFromBounds(near), box3DFromBounds(far), true
		}
	}
	return Box3D{}, Box3D{}, false
}

func (b Box3D) cornersInside(other Box3D) int {
	count := 0
	for _, x := range [2]float64{b.MinX, b.MaxX} {
		for _, y := range [2]float64{b.MinY, b.MaxY} {
			for _, z := range [2]float64{b.MinZ, b.MaxZ} {
				if other.Contains(x, y, z) {
					count++
				}
			}
		}
	}
	return count
}

// merge склеивает коробки, совпадающие по двум осям и перекрывающиеся по третьей
func (b Box3D) merge(other Box3D) (Box3D, bool) {
	self := b.bounds()
	target := other.bounds()

	for axis := 0; axis < 3; axis++ {
		same := true
		for rest := 0; rest < 3; rest++ {
			if rest == axis {
				continue
			}
			if self[0][rest] != target[0][rest] || self[1][rest] != target[1][rest] {
				same = false
				break
			}
		}
		if same && overlap1D(self[0][axis], self[1][axis], target[0][axis], target[1][axis]) {
			merged := self
			merged[0][axis] = math.Min(self[0][axis], target[0][axis])
			merged[1][axis] = math.Max(self[1][axis], target[1][axis])
			return box3DFromBounds(merged), true
		}
	}
	return Box3D{}, false
}

// Union возвращает попарно непересекающиеся коробки, покрывающие b и other.
// Непересекающиеся (в том числе касающиеся) входы возвращаются как есть в исходном порядке.
func (b Box3D) Union(other Box3D) []Box3D {
	switch b.Classify(other) {
	case Superset:
		return []Box3D{b}
	case Subset:
		return []Box3D{other}
	}
	// Пересечение нулевой меры, в том числе с вырожденной коробкой
	if !b.Overlaps(other) {
		return []Box3D{b, other}
	}
	if merged, ok := b.merge(other); ok {
		return []Box3D{merged}
	}

	first, second := b, other
	if first.cornersInside(second) == 4 {
		first, second = second, first
	}

	rest, piece, ok := first.Cut(second)
	if !ok {
		return []Box3D{b, other}
	}

	// В 3D остатку может понадобиться до трёх разрезов
	out := []Box3D{first, piece}
	for {
		switch first.Classify(rest) {
		case Superset:
			return out
		case Subset:
			out[0] = rest
			return out
		}

		next, piece, ok := first.Cut(rest)
		if !ok {
			return append(out, rest)
		}
		out = append(out, piece)
		rest = next
	}
}

// Subtract возвращает части b, не покрытые other
func (b Box3D) Subtract(other Box3D) []Box3D {
	var out []Box3D
	stack := []Box3D{b}

	for len(stack) > 0 {
		piece := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if other.Classify(piece) == Superset {
			continue
		}
		if !piece.Overlaps(other) {
			out = append(out, piece)
			continue
		}

		before, after, ok := other.Cut(piece)
		if !ok {
			continue
		}
		stack = append(stack, after, before)
	}
	return out
}
