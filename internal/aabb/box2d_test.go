package aabb

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func area2D(boxes []Box2D) float64 {
	total := 0.0
	for _, b := range boxes {
		total += b.Area()
	}
	return total
}

func assertDisjoint2D(t *testing.T, boxes []Box2D) {
	t.Helper()
	for i := range boxes {
		for j := i + 1; j < len(boxes); j++ {
			assert.False(t, boxes[i].Overlaps(boxes[j]), "куски %v и %v пересекаются", boxes[i], boxes[j])
		}
	}
}

func randomBox2D(rng *rand.Rand) Box2D {
	x0, x1 := rng.Intn(8), rng.Intn(8)
	y0, y1 := rng.Intn(8), rng.Intn(8)
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return MustBox2D(float64(x0), float64(y0), float64(x1)+1, float64(y1)+1)
}

func TestNewBox2DRejectsInvertedAxis(t *testing.T) {
	_, err := NewBox2D(1, 0, 0, 1)
	require.ErrorIs(t, err, ErrInvalidBox)

	_, err = NewBox2D(0, 0, 1, nan())
	require.ErrorIs(t, err, ErrInvalidBox)

	b, err := NewBox2D(1, 0, 1, 2)
	require.NoError(t, err, "нулевая ширина допустима")
	assert.Zero(t, b.Area())
}

func TestBox2DContainsIsStrict(t *testing.T) {
	b := MustBox2D(0, 0, 1, 1)
	assert.True(t, b.Contains(0.5, 0.5))
	assert.False(t, b.Contains(0, 0.5), "граница не входит")
	assert.False(t, b.Contains(1, 1))
}

func TestBox2DClassifyMirrors(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		a, b := randomBox2D(rng), randomBox2D(rng)
		ab, ba := a.Classify(b), b.Classify(a)
		switch ab {
		case Superset:
			if a != b {
				assert.Equal(t, Subset, ba, "%v vs %v", a, b)
			}
		case Subset:
			assert.Equal(t, Superset, ba, "%v vs %v", a, b)
		case None:
			assert.Equal(t, None, ba, "%v vs %v", a, b)
		}
	}
}

func TestBox2DUnionStrictSubset(t *testing.T) {
	a := MustBox2D(-1, -1, 1, 1)
	b := MustBox2D(-2, -2, 2, 2)
	assert.Equal(t, []Box2D{b}, a.Union(b))
	assert.Equal(t, []Box2D{b}, b.Union(a))
}

func TestBox2DUnionSelf(t *testing.T) {
	a := MustBox2D(-1, -1, 1, 1)
	assert.Equal(t, []Box2D{a}, a.Union(a))
}

func TestBox2DUnionDisjointAndTouching(t *testing.T) {
	cases := map[string][2]Box2D{
		"disjoint":        {MustBox2D(-1, -1, 1, 1), MustBox2D(2, -1, 4, 1)},
		"touching corner": {MustBox2D(0, 0, 1, 1), MustBox2D(1, 1, 2, 2)},
		"touching edge":   {MustBox2D(0, 0, 1, 1), MustBox2D(1, 0, 2, 1)},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			a, b := c[0], c[1]
			assert.Equal(t, None, a.Classify(b))
			assert.False(t, a.Overlaps(b))
			assert.Equal(t, []Box2D{a, b}, a.Union(b))
			assert.Equal(t, []Box2D{b, a}, b.Union(a))
		})
	}
}

func TestBox2DZeroWidthBoxes(t *testing.T) {
	line := MustBox2D(2.25, 0.5, 2.25, 2.25)
	strip := MustBox2D(0.5, 1, 3, 1.25)

	require.Equal(t, None, line.Classify(strip))
	require.False(t, line.Overlaps(strip))
	assert.Equal(t, []Box2D{line, strip}, line.Union(strip))
	assert.Equal(t, []Box2D{strip, line}, strip.Union(line))

	assert.Equal(t, []Box2D{strip}, strip.Subtract(line))
	assert.Equal(t, []Box2D{line}, line.Subtract(strip))

	// Вырожденный прямоугольник на границе поглощается
	edge := MustBox2D(0.5, 1, 0.5, 1.25)
	assert.Equal(t, []Box2D{strip}, strip.Union(edge))
	assert.Empty(t, edge.Subtract(strip))
}

func TestBox2DUnionCorner(t *testing.T) {
	a := MustBox2D(0, 0, 2, 2)
	b := MustBox2D(1, 1, 3, 3)

	for _, pieces := range [][]Box2D{a.Union(b), b.Union(a)} {
		assert.Len(t, pieces, 3)
		assert.Equal(t, 7.0, area2D(pieces))
		assertDisjoint2D(t, pieces)
	}
}

func TestBox2DUnionEdge(t *testing.T) {
	a := MustBox2D(0, 0, 2, 2)
	b := MustBox2D(-1, 1, 3, 3)

	for _, pieces := range [][]Box2D{a.Union(b), b.Union(a)} {
		assert.Len(t, pieces, 2)
		assert.Equal(t, 10.0, area2D(pieces))
		assertDisjoint2D(t, pieces)
	}
}

func TestBox2DUnionMergesAlignedBoxes(t *testing.T) {
	a := MustBox2D(0, 0, 2, 1)
	b := MustBox2D(1, 0, 3, 1)
	assert.Equal(t, []Box2D{MustBox2D(0, 0, 3, 1)}, a.Union(b))
	assert.Equal(t, []Box2D{MustBox2D(0, 0, 3, 1)}, b.Union(a))
}

func TestBox2DUnionConservesArea(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		a, b := randomBox2D(rng), randomBox2D(rng)
		pieces := a.Union(b)

		shared := 0.0
		if in, ok := a.Intersection(b); ok {
			shared = in.Area()
		}
		require.Equal(t, a.Area()+b.Area(), area2D(pieces)+shared, "union %v %v -> %v", a, b, pieces)
		assertDisjoint2D(t, pieces)
	}
}

func TestBox2DCut(t *testing.T) {
	a := MustBox2D(0, 0, 2, 2)
	b := MustBox2D(1, 1, 3, 3)

	before, after, ok := a.Cut(b)
	require.True(t, ok)
	assert.Equal(t, MustBox2D(1, 1, 2, 3), before)
	assert.Equal(t, MustBox2D(2, 1, 3, 3), after)
	assert.False(t, after.Overlaps(a))

	_, _, ok = a.Cut(MustBox2D(2, 0, 3, 2))
	assert.False(t, ok, "касающиеся коробки не режутся")

	_, _, ok = MustBox2D(-1, -1, 5, 5).Cut(a)
	assert.False(t, ok, "надмножество не режет")
}

func TestBox2DSubtractEqual(t *testing.T) {
	a := MustBox2D(0, 0, 1, 1)
	assert.Empty(t, a.Subtract(a))
}

func TestBox2DSubtractSuperset(t *testing.T) {
	a := MustBox2D(-1, -1, 1, 1)
	b := MustBox2D(-2, -2, 2, 2)
	assert.Empty(t, a.Subtract(b))
}

func TestBox2DSubtractHole(t *testing.T) {
	a := MustBox2D(0, 0, 3, 3)
	hole := MustBox2D(1, 1, 2, 2)

	pieces := a.Subtract(hole)
	assert.Len(t, pieces, 4)
	assert.Equal(t, 8.0, area2D(pieces))
	assertDisjoint2D(t, pieces)
	for _, p := range pieces {
		assert.False(t, p.Overlaps(hole))
	}
}

func TestBox2DSubtractTouchingKeepsBox(t *testing.T) {
	a := MustBox2D(0, 0, 1, 1)
	assert.Equal(t, []Box2D{a}, a.Subtract(MustBox2D(1, 0, 2, 1)))
}

func TestBox2DSubtractConservesArea(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 1000; i++ {
		a, b := randomBox2D(rng), randomBox2D(rng)
		pieces := a.Subtract(b)

		shared := 0.0
		if in, ok := a.Intersection(b); ok {
			shared = in.Area()
		}
		require.Equal(t, a.Area(), area2D(pieces)+shared, "%v - %v -> %v", a, b, pieces)
		assertDisjoint2D(t, pieces)
		for _, p := range pieces {
			assert.False(t, p.Overlaps(b))
		}
	}
}
