package terrain

import (
	"math/bits"
	"testing"

	"github.com/annel0/voxel-navmesh/internal/navmesh"
	"github.com/annel0/voxel-navmesh/internal/vec"
	"github.com/annel0/voxel-navmesh/internal/voxel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRegionDeterministic(t *testing.T) {
	origin := vec.Vec3{X: 32, Z: -16}

	a, err := NewGenerator(42).GenerateRegion(origin)
	require.NoError(t, err)
	b, err := NewGenerator(42).GenerateRegion(origin)
	require.NoError(t, err)

	for z := 0; z < voxel.Width; z++ {
		for x := 0; x < voxel.Width; x++ {
			assert.Equal(t, a.CollisionMask(x, z), b.CollisionMask(x, z))
			for y := 0; y < voxel.Height; y++ {
				pos := vec.Vec3{X: x, Y: y, Z: z}
				assert.Equal(t, a.Cell(pos), b.Cell(pos))
			}
		}
	}
}

func TestGeneratedColumnsAreSolidBelowSurface(t *testing.T) {
	gen := NewGenerator(7)
	gen.SlabChance, gen.FenceChance, gen.OverhangChance = 0, 0, 0

	region, err := gen.GenerateRegion(vec.Vec3{})
	require.NoError(t, err)

	for z := 0; z < voxel.Width; z++ {
		for x := 0; x < voxel.Width; x++ {
			h := gen.SurfaceHeight(x, z)
			require.GreaterOrEqual(t, h, minSurface)
			require.LessOrEqual(t, h, maxSurface)

			full := region.FullBlockMask(x, z)
			assert.Equal(t, uint16(1<<h-1), full, "column %d,%d", x, z)
			// В сплошной колонке пол только на верхнем блоке
			assert.Equal(t, 1, bits.OnesCount16(region.FloorMask(x, z)))
		}
	}
}

func TestGeneratedRegionBuildsNavMesh(t *testing.T) {
	regions, err := NewGenerator(99).GenerateGrid(2)
	require.NoError(t, err)
	require.Len(t, regions, 4)
	assert.Equal(t, vec.Vec3{X: 16}, regions[1].Origin())
	assert.Equal(t, vec.Vec3{Z: 16}, regions[2].Origin())

	for _, region := range regions {
		mesh, err := navmesh.BuildNavMesh(region)
		require.NoError(t, err)

		floor, _ := mesh.NodeCount()
		assert.Positive(t, floor)
		for i := 1; i < len(mesh.Floor); i++ {
			assert.Less(t, mesh.Floor[i-1].Height(), mesh.Floor[i].Height())
		}
	}
}
