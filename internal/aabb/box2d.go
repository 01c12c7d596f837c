package aabb

import (
	"fmt"
	"math"
)

// Box2D выровненный по осям прямоугольник
type Box2D struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// NewBox2D создаёт прямоугольник, отклоняя min > max и нечисловые координаты
func NewBox2D(minX, minY, maxX, maxY float64) (Box2D, error) {
	b := Box2D{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
	if err := b.Validate(); err != nil {
		return Box2D{}, err
	}
	return b, nil
}

// MustBox2D как NewBox2D, но паникует при ошибке. Только для констант и тестов.
func MustBox2D(minX, minY, maxX, maxY float64) Box2D {
	b, err := NewBox2D(minX, minY, maxX, maxY)
	if err != nil {
		panic(err)
	}
	return b
}

// Validate проверяет инвариант min <= max по каждой оси
func (b Box2D) Validate() error {
	if err := checkAxis("x", b.MinX, b.MaxX); err != nil {
		return err
	}
	return checkAxis("y", b.MinY, b.MaxY)
}

// bounds возвращает границы в виде [направление][ось]
func (b Box2D) bounds() [2][2]float64 {
	return [2][2]float64{{b.MinX, b.MinY}, {b.MaxX, b.MaxY}}
}

func box2DFromBounds(v [2][2]float64) Box2D {
	return Box2D{MinX: v[0][0], MinY: v[0][1], MaxX: v[1][0], MaxY: v[1][1]}
}

// Contains строгая проверка попадания точки внутрь (граница не входит)
func (b Box2D) Contains(x, y float64) bool {
	return b.MinX < x && x < b.MaxX && b.MinY < y && y < b.MaxY
}

// Area возвращает площадь; вырожденные прямоугольники имеют нулевую площадь
func (b Box2D) Area() float64 {
	return extent(b.MinX, b.MaxX) * extent(b.MinY, b.MaxY)
}

// Classify сравнивает вложенность b и other
func (b Box2D) Classify(other Box2D) Classification {
	return classify(
		[]float64{b.MinX - other.MinX, b.MinY - other.MinY},
		[]float64{b.MaxX - other.MaxX, b.MaxY - other.MaxY},
	)
}

// Overlaps истинно, если пересечение имеет положительную площадь
func (b Box2D) Overlaps(other Box2D) bool {
	return overlap1D(b.MinX, b.MaxX, other.MinX, other.MaxX) &&
		overlap1D(b.MinY, b.MaxY, other.MinY, other.MaxY)
}

// Intersection возвращает общую часть, если она имеет положительную площадь
func (b Box2D) Intersection(other Box2D) (Box2D, bool) {
	if !b.Overlaps(other) {
		return Box2D{}, false
	}
	return Box2D{
		MinX: math.Max(b.MinX, other.MinX),
		MinY: math.Max(b.MinY, other.MinY),
		MaxX: math.Min(b.MaxX, other.MaxX),
		MaxY: math.Min(b.MaxY, other.MaxY),
	}, true
}

// Translate сдвигает прямоугольник
func (b Box2D) Translate(dx, dy float64) Box2D {
	return Box2D{MinX: b.MinX + dx, MinY: b.MinY + dy, MaxX: b.MaxX + dx, MaxY: b.MaxY + dy}
}

// Inflate расширяет прямоугольник на r во все стороны
func (b Box2D) Inflate(r float64) Box2D {
	return Box2D{MinX: b.MinX - r, MinY: b.MinY - r, MaxX: b.MaxX + r, MaxY: b.MaxY + r}
}

// String форматирует прямоугольник как [minX,minY]-[maxX,maxY]
func (b Box2D) String() string {
	return fmt.Sprintf("[%g,%g]-[%g,%g]", b.MinX, b.MinY, b.MaxX, b.MaxY)
}

// Cut режет other первой гранью b, проходящей строго внутри other.
//
// Оси перебираются во внешнем цикле, направления (min-грань, затем max-грань)
// во внутреннем. after лежит по дальнюю сторону грани и с b не пересекается;
// before остаётся со стороны b и может с ним пересекаться.
// ok == false, если ни одна грань b не проходит через other.
func (b Box2D) Cut(other Box2D) (before, after Box2D, ok bool) {
	self := b.bounds()
	target := other.bounds()

	for fixed := 0; fixed < 2; fixed++ {
		cut := 1 - fixed
		for dir := 0; dir < 2; dir++ {
			value := self[dir][fixed]
			if !(target[0][fixed] < value && value < target[1][fixed]) {
				continue
			}
			if !overlap1D(self[0][cut], self[1][cut], target[0][cut], target[1][cut]) {
				continue
			}

			far := target
			far[1-dir][fixed] = value
			near := target
			near[dir][fixed] = value
			return box2DFromBounds(near), box2DFromBounds(far), true
		}
	}
	return Box2D{}, Box2D{}, false
}

// cornersInside считает углы b, строго лежащие внутри other
func (b Box2D) cornersInside(other Box2D) int {
	count := 0
	for _, x := range [2]float64{b.MinX, b.MaxX} {
		for _, y := range [2]float64{b.MinY, b.MaxY} {
			if other.Contains(x, y) {
				count++
			}
		}
	}
	return count
}

// merge склеивает прямоугольники, совпадающие по одной оси и
// перекрывающиеся по другой
func (b Box2D) merge(other Box2D) (Box2D, bool) {
	sameX := b.MinX == other.MinX && b.MaxX == other.MaxX
	sameY := b.MinY == other.MinY && b.MaxY == other.MaxY

	if (sameX && overlap1D(b.MinY, b.MaxY, other.MinY, other.MaxY)) ||
		(sameY && overlap1D(b.MinX, b.MaxX, other.MinX, other.MaxX)) {
		return Box2D{
			MinX: math.Min(b.MinX, other.MinX),
			MinY: math.Min(b.MinY, other.MinY),
			MaxX: math.Max(b.MaxX, other.MaxX),
			MaxY: math.Max(b.MaxY, other.MaxY),
		}, true
	}
	return Box2D{}, false
}

// Union возвращает попарно непересекающиеся прямоугольники, покрывающие b и other.
// Непересекающиеся (в том числе касающиеся) входы возвращаются как есть в исходном порядке.
func (b Box2D) Union(other Box2D) []Box2D {
	switch b.Classify(other) {
	case Superset:
		return []Box2D{b}
	case Subset:
		return []Box2D{other}
	}
	// Пересечение нулевой меры, в том числе с вырожденной коробкой
	if !b.Overlaps(other) {
		return []Box2D{b, other}
	}
	if merged, ok := b.merge(other); ok {
		return []Box2D{merged}
	}

	// Если половина углов первого внутри второго, резать выгоднее вторым
	first, second := b, other
	if first.cornersInside(second) == 2 {
		first, second = second, first
	}

	rest, piece, ok := first.Cut(second)
	if !ok {
		return []Box2D{b, other}
	}

	out := []Box2D{first, piece}
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
func (b Box2D) Subtract(other Box2D) []Box2D {
	var out []Box2D
	stack := []Box2D{b}

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
			// piece внутри полос other по обеим осям
			continue
		}
		stack = append(stack, after, before)
	}
	return out
}
