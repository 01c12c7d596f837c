// Package aabb реализует алгебру выровненных по осям прямоугольников (Box2D)
// и параллелепипедов (Box3D): классификацию вложенности, разрезание по граням,
// объединение и вычитание.
//
// Все операции возвращают наборы попарно непересекающихся коробок. Касание
// гранью, ребром или углом (пересечение нулевой меры) пересечением не
// считается ни одной из операций.
package aabb

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidBox возвращается при попытке создать коробку с min > max
// или с нечисловыми координатами
var ErrInvalidBox = errors.New("invalid box")

// Classification результат сравнения вложенности двух коробок
type Classification int

const (
	// None ни одна коробка не содержит другую (включая непересекающиеся)
	None Classification = iota
	// Superset коробка содержит другую (границы включительно)
	Superset
	// Subset коробка содержится в другой
	Subset
)

// String возвращает строковое представление классификации
func (c Classification) String() string {
	switch c {
	case Superset:
		return "Superset"
	case Subset:
		return "Subset"
	default:
		return "None"
	}
}

func checkAxis(name string, min, max float64) error {
	if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return fmt.Errorf("%w: %s axis is not finite [%g, %g]", ErrInvalidBox, name, min, max)
	}
	if min > max {
		return fmt.Errorf("%w: %s axis min %g > max %g", ErrInvalidBox, name, min, max)
	}
	return nil
}

// classify сравнивает покомпонентные разности min и max.
// Superset проверяется первым: равные коробки считаются надмножеством.
func classify(minDeltas, maxDeltas []float64) Classification {
	superset, subset := true, true
	for i := range minDeltas {
		if minDeltas[i] > 0 || maxDeltas[i] < 0 {
			superset = false
		}
		if minDeltas[i] < 0 || maxDeltas[i] > 0 {
			subset = false
		}
	}
	switch {
	case superset:
		return Superset
	case subset:
		return Subset
	default:
		return None
	}
}

// overlap1D истинно только при пересечении интервалов положительной длины
func overlap1D(aMin, aMax, bMin, bMax float64) bool {
	return math.Max(aMin, bMin) < math.Min(aMax, bMax)
}

func extent(min, max float64) float64 {
	if max <= min {
		return 0
	}
	return max - min
}
