// Package terrain генерирует тестовые воксельные регионы по шуму Перлина.
package terrain

import (
	"math/rand"

	"github.com/annel0/voxel-navmesh/internal/aabb"
	"github.com/annel0/voxel-navmesh/internal/vec"
	"github.com/annel0/voxel-navmesh/internal/voxel"
)

// Формы декоративных блоков в локальных координатах клетки
var (
	// нижняя половина блока
	SlabBottom = aabb.Box3D{MaxX: 1, MaxY: 0.5, MaxZ: 1}
	// верхняя половина блока
	SlabTop = aabb.Box3D{MinY: 0.5, MaxX: 1, MaxY: 1, MaxZ: 1}
	// столб забора выступает в клетку выше
	FencePost = aabb.Box3D{MinX: 0.375, MaxX: 0.625, MaxY: 1.5, MinZ: 0.375, MaxZ: 0.625}
)

const (
	minSurface = 1  // Минимальная высота поверхности
	maxSurface = 10 // Максимальная высота поверхности
)

// Generator генерирует регионы ландшафта
type Generator struct {
	Seed           int64   // Сид для генерации шума
	NoiseScale     float64 // Масштаб шума высоты
	SlabChance     float64 // Шанс полублока на поверхности
	FenceChance    float64 // Шанс столба забора
	OverhangChance float64 // Шанс навеса над поверхностью

	noise heightNoise
}

// NewGenerator создаёт генератор с настройками по умолчанию
func NewGenerator(seed int64) *Generator {
	return &Generator{
		Seed:           seed,
		NoiseScale:     0.05, // Настройка сглаженности ландшафта
		SlabChance:     0.08,
		FenceChance:    0.03,
		OverhangChance: 0.02,
		noise:          newHeightNoise(seed),
	}
}

// SurfaceHeight возвращает число сплошных блоков в колонке по глобальным координатам
func (g *Generator) SurfaceHeight(globalX, globalZ int) int {
	h := g.noise.at(float64(globalX)*g.NoiseScale, float64(globalZ)*g.NoiseScale)
	return minSurface + int(h*float64(maxSurface-minSurface))
}

// GenerateRegion генерирует регион с заданным началом.
// Результат детерминирован для пары (Seed, origin).
func (g *Generator) GenerateRegion(origin vec.Vec3) (*voxel.Region, error) {
	// Для каждого региона создаем уникальный сид на основе глобального сида и координат
	regionSeed := g.Seed + int64(origin.X*31) + int64(origin.Y*13) + int64(origin.Z*17)
	rng := rand.New(rand.NewSource(regionSeed))

	cells := make(map[vec.Vec3][]aabb.Box3D)

	for z := 0; z < voxel.Width; z++ {
		for x := 0; x < voxel.Width; x++ {
			surface := g.SurfaceHeight(origin.X+x, origin.Z+z) - origin.Y
			if surface > voxel.Height {
				surface = voxel.Height
			}

			for y := 0; y < surface; y++ {
				cells[vec.Vec3{X: x, Y: y, Z: z}] = []aabb.Box3D{aabb.FullBlock}
			}

			// Декор ставится только внутри региона
			if surface < 0 || surface >= voxel.Height {
				continue
			}
			top := vec.Vec3{X: x, Y: surface, Z: z}

			switch roll := rng.Float64(); {
			case roll < g.SlabChance:
				cells[top] = []aabb.Box3D{SlabBottom}
			case roll < g.SlabChance+g.FenceChance:
				cells[top] = []aabb.Box3D{FencePost}
			}

			if rng.Float64() < g.OverhangChance && surface+2 < voxel.Height {
				cells[vec.Vec3{X: x, Y: surface + 2, Z: z}] = []aabb.Box3D{SlabTop}
			}
		}
	}

	return voxel.NewRegion(origin, cells)
}

// GenerateGrid генерирует квадрат size x size регионов на нулевой высоте
func (g *Generator) GenerateGrid(size int) ([]*voxel.Region, error) {
	regions := make([]*voxel.Region, 0, size*size)
	for rz := 0; rz < size; rz++ {
		for rx := 0; rx < size; rx++ {
			region, err := g.GenerateRegion(vec.Vec3{X: rx * voxel.Width, Z: rz * voxel.Width})
			if err != nil {
				return nil, err
			}
			regions = append(regions, region)
		}
	}
	return regions, nil
}
