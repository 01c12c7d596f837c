package aabb

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nan() float64 { return math.NaN() }

func volume3D(boxes []Box3D) float64 {
	total := 0.0
	for _, b := range boxes {
		total += b.Volume()
	}
	return total
}

func randomBox3D(rng *rand.Rand) Box3D {
	var lo, hi [3]int
	for i := range lo {
		lo[i], hi[i] = rng.Intn(6), rng.Intn(6)
		if lo[i] > hi[i] {
			lo[i], hi[i] = hi[i], lo[i]
		}
	}
	return MustBox3D(
		float64(lo[0]), float64(lo[1]), float64(lo[2]),
		float64(hi[0])+1, float64(hi[1])+1, float64(hi[2])+1,
	)
}

func TestNewBox3DRejectsInvertedAxis(t *testing.T) {
	_, err := NewBox3D(0, 0, 2, 1, 1, 1)
	require.ErrorIs(t, err, ErrInvalidBox)
	assert.ErrorIs(t, Box3D{MinY: math.Inf(-1), MaxY: 1}.Validate(), ErrInvalidBox)
	assert.NoError(t, FullBlock.Validate())
	assert.Equal(t, 1.0, FullBlock.Volume())
}

func TestBox3DUnionStrictSubset(t *testing.T) {
	a := MustBox3D(-2, -2, -2, 2, 2, 2)
	b := MustBox3D(-1, -1, -1, 1, 1, 1)
	assert.Equal(t, []Box3D{a}, a.Union(b))
	assert.Equal(t, []Box3D{a}, b.Union(a))
}

func TestBox3DUnionSubset(t *testing.T) {
	a := MustBox3D(-1, -1, -1, 1, 1, 1)
	b := MustBox3D(-1, -2, -1, 1, 2, 1)
	assert.Equal(t, []Box3D{b}, a.Union(b))
	assert.Equal(t, []Box3D{b}, b.Union(a))
	assert.Equal(t, []Box3D{a}, a.Union(a))
}

func TestBox3DUnionDisjointAndTouching(t *testing.T) {
	cases := map[string][2]Box3D{
		"disjoint":        {MustBox3D(-1, -1, -1, 1, 1, 1), MustBox3D(-1, 2, -1, 1, 4, 1)},
		"touching corner": {FullBlock, MustBox3D(1, 1, 1, 2, 2, 2)},
		"touching edge":   {FullBlock, MustBox3D(0, 1, 1, 1, 2, 2)},
		"touching face":   {FullBlock, MustBox3D(0, 0, 1, 1, 1, 2)},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			a, b := c[0], c[1]
			assert.Equal(t, None, a.Classify(b))
			assert.Equal(t, []Box3D{a, b}, a.Union(b))
			assert.Equal(t, []Box3D{b, a}, b.Union(a))
		})
	}
}

func TestBox3DUnionOverlapOneAxis(t *testing.T) {
	a := FullBlock
	b := MustBox3D(0.5, 0, 0, 1.5, 1, 1)
	want := []Box3D{MustBox3D(0, 0, 0, 1.5, 1, 1)}
	assert.Equal(t, want, a.Union(b))
	assert.Equal(t, want, b.Union(a))
}

func TestBox3DUnionCornerNeedsThreeCuts(t *testing.T) {
	a := MustBox3D(0, 0, 0, 2, 2, 2)
	b := MustBox3D(1, 1, 1, 3, 3, 3)

	pieces := a.Union(b)
	assert.Len(t, pieces, 4)
	assert.Equal(t, 15.0, volume3D(pieces))
}

func TestBox3DZeroWidthBoxes(t *testing.T) {
	cube := MustBox3D(0, 0, 0, 3, 3, 3)
	sheet := MustBox3D(1, -1, 1, 1, 4, 2)

	require.Equal(t, None, cube.Classify(sheet))
	require.False(t, cube.Overlaps(sheet))
	assert.Equal(t, []Box3D{cube, sheet}, cube.Union(sheet))
	assert.Equal(t, []Box3D{sheet, cube}, sheet.Union(cube))

	assert.Equal(t, []Box3D{cube}, cube.Subtract(sheet))
	assert.Equal(t, []Box3D{sheet}, sheet.Subtract(cube))

	// Вырожденные коробки, совпадающие по двум осям, не склеиваются
	other := MustBox3D(1, 2, 1, 1, 5, 2)
	assert.Equal(t, []Box3D{sheet, other}, sheet.Union(other))

	inner := MustBox3D(1, 1, 1, 2, 1, 2)
	assert.Equal(t, []Box3D{cube}, cube.Union(inner))
	assert.Equal(t, []Box3D{cube}, inner.Union(cube))
}

func TestBox3DUnionSwapsWhenHalfCornersInside(t *testing.T) {
	slab := MustBox3D(0, 0, 0, 2, 2, 1)
	wall := MustBox3D(1, -1, -1, 3, 3, 3)
	require.Equal(t, 4, slab.cornersInside(wall))
	require.Equal(t, 0, wall.cornersInside(slab))

	// Режет коробка, внутри которой половина углов другой: один разрез
	want := []Box3D{wall, MustBox3D(0, 0, 0, 1, 2, 1)}
	assert.Equal(t, want, slab.Union(wall))
	assert.Equal(t, want, wall.Union(slab))
}

func TestBox3DUnionConservesVolume(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 1000; i++ {
		a, b := randomBox3D(rng), randomBox3D(rng)
		pieces := a.Union(b)

		shared := 0.0
		if in, ok := a.Intersection(b); ok {
			shared = in.Volume()
		}
		require.Equal(t, a.Volume()+b.Volume(), volume3D(pieces)+shared, "union %v %v -> %v", a, b, pieces)
		for i := range pieces {
			for j := i + 1; j < len(pieces); j++ {
				require.False(t, pieces[i].Overlaps(pieces[j]))
			}
		}
	}
}

func TestBox3DSubtract(t *testing.T) {
	a := MustBox3D(0, 0, 0, 3, 3, 3)
	assert.Empty(t, a.Subtract(a))
	assert.Empty(t, a.Subtract(MustBox3D(-1, -1, -1, 4, 4, 4)))

	hole := MustBox3D(1, 1, 1, 2, 2, 2)
	pieces := a.Subtract(hole)
	assert.Equal(t, 26.0, volume3D(pieces))
	for _, p := range pieces {
		assert.False(t, p.Overlaps(hole))
	}
}

func TestBox3DSubtractConservesVolume(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 1000; i++ {
		a, b := randomBox3D(rng), randomBox3D(rng)
		pieces := a.Subtract(b)

		shared := 0.0
		if in, ok := a.Intersection(b); ok {
			shared = in.Volume()
		}
		require.Equal(t, a.Volume(), volume3D(pieces)+shared, "%v - %v -> %v", a, b, pieces)
	}
}

func TestBox3DFootprint(t *testing.T) {
	b := MustBox3D(0.25, 0, 0.5, 0.75, 1.5, 1)
	assert.Equal(t, MustBox2D(0.25, 0.5, 0.75, 1), b.Footprint())
}
