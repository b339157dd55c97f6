package uvplane

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsectLinePlane(t *testing.T) {
	testCases := []struct {
		name        string
		point, dir  mgl64.Vec3
		planePoint  mgl64.Vec3
		planeNormal mgl64.Vec3
		want        float64
		ok          bool
	}{
		{
			name:        "Straight down onto z=0",
			point:       mgl64.Vec3{1, 2, 5},
			dir:         mgl64.Vec3{0, 0, -1},
			planeNormal: mgl64.Vec3{0, 0, 1},
			want:        5,
			ok:          true,
		},
		{
			name:        "Normal does not need to be unit length",
			point:       mgl64.Vec3{1, 2, 5},
			dir:         mgl64.Vec3{0, 0, -2},
			planePoint:  mgl64.Vec3{0, 0, 1},
			planeNormal: mgl64.Vec3{0, 0, 10},
			want:        2,
			ok:          true,
		},
		{
			name:        "Behind the line start",
			point:       mgl64.Vec3{0, 0, 1},
			dir:         mgl64.Vec3{0, 0, 1},
			planeNormal: mgl64.Vec3{0, 0, 1},
			want:        -1,
			ok:          true,
		},
		{
			name:        "Parallel",
			point:       mgl64.Vec3{0, 0, 1},
			dir:         mgl64.Vec3{1, 0, 0},
			planeNormal: mgl64.Vec3{0, 0, 1},
			ok:          false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, ok := IsectLinePlane(tc.point, tc.dir, tc.planePoint, tc.planeNormal)
			require.Equal(t, tc.ok, ok)
			if ok {
				assert.InDelta(t, tc.want, s, float64EqualityThreshold)
			}
		})
	}
}

func TestClosestPointToLine(t *testing.T) {
	s, ok := ClosestPointToLine(mgl64.Vec3{}, vecX, mgl64.Vec3{3, 1, 5}, vecZ)
	require.True(t, ok)
	assert.InDelta(t, 3, s, float64EqualityThreshold)

	_, ok = ClosestPointToLine(mgl64.Vec3{}, vecX, mgl64.Vec3{0, 1, 0}, vecX)
	assert.False(t, ok, "parallel lines have no single closest point")
}

func TestIntersectTriangle(t *testing.T) {
	p0 := mgl64.Vec3{0, 0, 0}
	p1 := mgl64.Vec3{1, 0, 0}
	p2 := mgl64.Vec3{0, 1, 0}
	down := mgl64.Vec3{0, 0, -1}

	testCases := []struct {
		name   string
		origin mgl64.Vec3
		dir    mgl64.Vec3
		hit    mgl64.Vec3
		ok     bool
	}{
		{"Centroid", mgl64.Vec3{1.0 / 3, 1.0 / 3, 5}, down, mgl64.Vec3{1.0 / 3, 1.0 / 3, 0}, true},
		{"On an edge", mgl64.Vec3{.5, 0, 5}, down, mgl64.Vec3{.5, 0, 0}, true},
		{"On a vertex", mgl64.Vec3{0, 0, 5}, down, mgl64.Vec3{0, 0, 0}, true},
		{"Past the hypotenuse", mgl64.Vec3{1, 1, 5}, down, mgl64.Vec3{}, false},
		{"Left of the triangle", mgl64.Vec3{-.1, .5, 5}, down, mgl64.Vec3{}, false},
		{"Below the triangle", mgl64.Vec3{.5, -.1, 5}, down, mgl64.Vec3{}, false},
		{"Parallel to the plane", mgl64.Vec3{.2, .2, 0}, vecX, mgl64.Vec3{}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hit, ok := IntersectTriangle(p0, p1, p2, tc.origin, tc.dir)
			require.Equal(t, tc.ok, ok)
			if ok {
				assertVec3Near(t, tc.hit, hit)
			}
		})
	}

	_, ok := IntersectTriangle(p0, p1, mgl64.Vec3{2, 0, 0}, mgl64.Vec3{.5, 0, 5}, down)
	assert.False(t, ok, "degenerate triangle")
}

func TestIntersectTriangleCentroidProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	randVec := func() mgl64.Vec3 {
		return mgl64.Vec3{rng.Float64()*10 - 5, rng.Float64()*10 - 5, rng.Float64()*10 - 5}
	}

	for i := 0; i < 200; i++ {
		p0, p1, p2 := randVec(), randVec(), randVec()
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		if n.Len() < 1e-3 {
			continue
		}
		n = n.Normalize()
		centroid := p0.Add(p1).Add(p2).Mul(1.0 / 3)

		hit, ok := IntersectTriangle(p0, p1, p2, centroid.Add(n.Mul(3)), n.Mul(-1))
		require.True(t, ok, "triangle %d", i)
		for k := range centroid {
			assert.InDelta(t, centroid[k], hit[k], 1e-6)
		}
	}
}

func TestExpressInBasis(t *testing.T) {
	v0 := mgl64.Vec3{2, 0, 0}
	v1 := mgl64.Vec3{1, 1, 0}
	v2 := mgl64.Vec3{0, 1, 3}

	c, ok := ExpressInBasis(mgl64.Vec3{3, 2, 3}, v0, v1, v2)
	require.True(t, ok)
	back := v0.Mul(c[0]).Add(v1.Mul(c[1])).Add(v2.Mul(c[2]))
	assertVec3Near(t, mgl64.Vec3{3, 2, 3}, back)
	assertVec3Near(t, mgl64.Vec3{1, 1, 1}, c)

	_, ok = ExpressInBasis(vecX, vecX, vecX.Mul(2), vecY)
	assert.False(t, ok)
}

func TestSnapToGrid(t *testing.T) {
	testCases := []struct {
		name string
		p    mgl64.Vec3
		unit float64
		want mgl64.Vec3
	}{
		{"Round up", mgl64.Vec3{.26, .74, 1.1}, .5, mgl64.Vec3{.5, .5, 1}},
		{"Negative", mgl64.Vec3{-.3, -.2, -1.3}, .5, mgl64.Vec3{-.5, 0, -1.5}},
		{"Halfway rounds up", mgl64.Vec3{.25, -.25, 0}, .5, mgl64.Vec3{.5, 0, 0}},
		{"Zero unit", mgl64.Vec3{.3, .4, .5}, 0, mgl64.Vec3{.3, .4, .5}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assertVec3Near(t, tc.want, SnapToGrid(tc.p, tc.unit))
		})
	}
}

func TestProject(t *testing.T) {
	assertVec3Near(t, mgl64.Vec3{3, 0, 0}, Project(mgl64.Vec3{3, 4, 5}, mgl64.Vec3{2, 0, 0}))
	assert.Equal(t, mgl64.Vec3{}, Project(mgl64.Vec3{3, 4, 5}, mgl64.Vec3{}))

	p := ProjectPointOntoPlane(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{0, 0, 1}, vecZ)
	assert.Equal(t, mgl64.Vec3{1, 2, 1}, p)
}

func TestClosestAxis(t *testing.T) {
	testCases := []struct {
		v    mgl64.Vec3
		want Axis
	}{
		{mgl64.Vec3{-3, 1, 2}, AxisX},
		{mgl64.Vec3{.1, -.9, .2}, AxisY},
		{mgl64.Vec3{.1, .2, -.3}, AxisZ},
		{mgl64.Vec3{1, 1, 1}, AxisZ},
		{mgl64.Vec3{1, 1, 0}, AxisY},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprint(tc.v), func(t *testing.T) {
			assert.Equal(t, tc.want, ClosestAxis(tc.v))
		})
	}
}

func TestDecomposeRecompose(t *testing.T) {
	testCases := []struct {
		name string
		m    mgl64.Mat4
	}{
		{"Identity", mgl64.Ident4()},
		{"Translate", mgl64.Translate3D(1, -2, 3)},
		{
			name: "Rotate and scale",
			m: mgl64.Translate3D(1, 2, 3).
				Mul4(mgl64.HomogRotate3D(0.7, mgl64.Vec3{1, 2, 3}.Normalize())).
				Mul4(mgl64.Scale3D(2, .5, 3)),
		},
		{"Mirrored", mgl64.Scale3D(1, 1, -2)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tr, r, s := Decompose(tc.m)
			assert.InDelta(t, 1, r.Len(), float64EqualityThreshold)
			assertMat4Near(t, tc.m, Recompose(tr, r, s))
		})
	}
}

func TestDecomposeShear(t *testing.T) {
	m := mgl64.Mat4FromCols(
		mgl64.Vec4{2, 0, 0, 0},
		mgl64.Vec4{1, 1, 0, 0},
		mgl64.Vec4{0, 0, 1, 0},
		mgl64.Vec4{4, 5, 6, 1},
	)
	tr, r, s := Decompose(m)

	assert.Equal(t, mgl64.Vec3{4, 5, 6}, tr)
	assert.InDelta(t, 1, r.Len(), float64EqualityThreshold)
	assert.InDelta(t, math.Sqrt2, s[1], float64EqualityThreshold)
	assertVec3Near(t, vecX, r.Rotate(vecX), "rotation follows the first column")
	assertVec3Near(t, vecY, r.Rotate(vecY), "second axis is orthogonalized")
}

func TestIsAffine(t *testing.T) {
	assert.True(t, IsAffine(mgl64.Ident4()))
	assert.True(t, IsAffine(mgl64.Translate3D(1, 2, 3)))

	p := mgl64.Ident4()
	p.Set(3, 2, 1)
	assert.False(t, IsAffine(p))

	n := mgl64.Ident4()
	n.Set(0, 1, math.NaN())
	assert.False(t, IsAffine(n))
}
