// Package voxel хранит коллизионную геометрию региона 16x16x16 клеток
// и строит по ней поколоночные битовые маски.
package voxel

import (
	"errors"
	"fmt"
	"iter"

	"github.com/annel0/voxel-navmesh/internal/aabb"
	"github.com/annel0/voxel-navmesh/internal/vec"
)

const (
	// Width ширина региона по X и Z в клетках
	Width = 16
	// Height высота региона по Y в клетках
	Height = 16
)

// ErrCellOutOfRange клетка лежит вне региона
var ErrCellOutOfRange = errors.New("cell out of region range")

// Region неизменяемый снимок геометрии региона.
// Индексация массивов: [z][x][y].
type Region struct {
	origin vec.Vec3
	cells  [Width][Width][Height][]aabb.Box3D

	collision [Width][Width]uint16
	fullBlock [Width][Width]uint16
	floor     [Width][Width]uint16
}

// NewRegion создаёт регион из отображения клетка -> коробки в локальных координатах клетки.
// Входные срезы копируются.
func NewRegion(origin vec.Vec3, cells map[vec.Vec3][]aabb.Box3D) (*Region, error) {
	r := &Region{origin: origin}

	for pos, boxes := range cells {
		if !pos.InBox(Width, Height) {
			return nil, fmt.Errorf("%w: %+v", ErrCellOutOfRange, pos)
		}
		for _, box := range boxes {
			if err := box.Validate(); err != nil {
				return nil, fmt.Errorf("cell %+v: %w", pos, err)
			}
		}
		if len(boxes) == 0 {
			continue
		}
		r.cells[pos.Z][pos.X][pos.Y] = append([]aabb.Box3D(nil), boxes...)
	}

	r.buildMasks()
	return r, nil
}

// buildMasks сворачивает каждую колонку снизу вверх в три маски
func (r *Region) buildMasks() {
	for z := 0; z < Width; z++ {
		for x := 0; x < Width; x++ {
			var collision, full uint16
			for y, boxes := range r.cells[z][x] {
				if len(boxes) == 0 {
					continue
				}
				collision |= 1 << y
				for _, box := range boxes {
					// Выступ в клетку выше. Для y == 15 бит теряется,
					// сшивка на границе региона на стороне вызывающего.
					if box.MaxY > 1 {
						collision |= 2 << y
					}
				}
				if len(boxes) == 1 && boxes[0] == aabb.FullBlock {
					full |= 1 << y
				}
			}

			r.collision[z][x] = collision
			r.fullBlock[z][x] = full
			// Верх клетки не считается полом, если полный блок лежит
			// в соседней позиции со смещением 1 или 2 по маске.
			r.floor[z][x] = collision &^ (full >> 1) &^ (full >> 2)
		}
	}
}

// Origin возвращает мировые координаты нулевой клетки региона
func (r *Region) Origin() vec.Vec3 {
	return r.origin
}

// Cell возвращает коробки клетки. Срез нельзя изменять.
func (r *Region) Cell(pos vec.Vec3) []aabb.Box3D {
	if !pos.InBox(Width, Height) {
		return nil
	}
	return r.cells[pos.Z][pos.X][pos.Y]
}

// CollisionMask маска занятых клеток колонки
func (r *Region) CollisionMask(x, z int) uint16 {
	return r.collision[z][x]
}

// FullBlockMask маска клеток, содержащих ровно один полный блок
func (r *Region) FullBlockMask(x, z int) uint16 {
	return r.fullBlock[z][x]
}

// FloorMask маска клеток, верх которых может быть полом
func (r *Region) FloorMask(x, z int) uint16 {
	return r.floor[z][x]
}

// iterMasked перебирает пары (клетка, коробка) в порядке z, x, y
func (r *Region) iterMasked(mask func(x, z int) uint16) iter.Seq2[vec.Vec3, aabb.Box3D] {
	return func(yield func(vec.Vec3, aabb.Box3D) bool) {
		for z := 0; z < Width; z++ {
			for x := 0; x < Width; x++ {
				bits := mask(x, z)
				for y := 0; y < Height; y++ {
					if bits>>y&1 == 0 {
						continue
					}
					pos := vec.Vec3{X: x, Y: y, Z: z}
					for _, box := range r.cells[z][x][y] {
						if !yield(pos, box) {
							return
						}
					}
				}
			}
		}
	}
}

// IterFloor перебирает коробки клеток, отмеченных в маске пола
func (r *Region) IterFloor() iter.Seq2[vec.Vec3, aabb.Box3D] {
	return r.iterMasked(r.FloorMask)
}

// IterCeiling перебирает коробки-кандидаты в потолки.
// Отдельной маски потолков нет, поэтому совпадает с IterCollisions.
func (r *Region) IterCeiling() iter.Seq2[vec.Vec3, aabb.Box3D] {
	return r.IterCollisions()
}

// IterCollisions перебирает все коробки региона
func (r *Region) IterCollisions() iter.Seq2[vec.Vec3, aabb.Box3D] {
	return r.iterMasked(func(int, int) uint16 { return 0xFFFF })
}
