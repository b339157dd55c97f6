package uvplane

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestControl(t *testing.T, m mgl64.Mat4) (*UvPlaneControl, *[]mgl64.Mat4) {
	t.Helper()
	var changes []mgl64.Mat4
	c, err := NewUvPlaneControl(m, FixedMeasure(1), DefaultOptions(), func(m mgl64.Mat4) {
		changes = append(changes, m)
	})
	require.NoError(t, err)
	return c, &changes
}

func TestNewUvPlaneControlRejectsBadMatrices(t *testing.T) {
	projective := mgl64.Ident4()
	projective.Set(3, 2, .5)
	nan := mgl64.Ident4()
	nan.Set(1, 3, math.NaN())
	inf := mgl64.Ident4()
	inf.Set(0, 0, math.Inf(1))

	testCases := []struct {
		name string
		m    mgl64.Mat4
		err  error
	}{
		{"Projective", projective, ErrNotAffine},
		{"NaN", nan, ErrNotAffine},
		{"Infinite", inf, ErrNotAffine},
		{"Singular", mgl64.Diag4(mgl64.Vec4{1, 0, 1, 1}), ErrSingularMatrix},
		{"Zero", mgl64.Mat4{}, ErrNotAffine},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := NewUvPlaneControl(tc.m, nil, DefaultOptions(), nil)
			assert.ErrorIs(t, err, tc.err)
			assert.Nil(t, c)
		})
	}
}

func TestHandleOrder(t *testing.T) {
	c, _ := newTestControl(t, mgl64.Ident4())

	var names []string
	for _, h := range c.Handles() {
		names = append(names, h.Name())
	}
	assert.Equal(t, []string{
		Handle00, Handle02, Handle20, Handle22,
		Handle10, Handle01, Handle12, Handle21,
		Handle11,
		HandleTransX, HandleTransY, HandleTransZ,
		HandleRotX, HandleRotY, HandleRotZ,
	}, names)

	kinds := map[DragKind]int{}
	for _, h := range c.Handles() {
		kinds[h.Kind()]++
	}
	assert.Equal(t, map[DragKind]int{DragCorner: 4, DragEdge: 4, DragTranslate: 4, DragRotate: 3}, kinds)
}

func TestLayoutHandles(t *testing.T) {
	m := mgl64.Mat4FromCols(
		mgl64.Vec4{2, 0, 0, 0},
		mgl64.Vec4{1, 3, 0, 0},
		mgl64.Vec4{0, 0, 1, 0},
		mgl64.Vec4{5, 6, 7, 1},
	)
	c, _ := newTestControl(t, m)
	i, j, k := m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()

	for _, h := range c.Handles() {
		if h.Kind() == DragRotate {
			continue
		}
		assertVec3Near(t, transformPoint(m, h.PosControl()), h.WorldPosition(), h.Name())
	}

	testCases := []struct {
		name string
		want Constraint
	}{
		{Handle00, PlaneConstraint(vecZero, k)},
		{Handle22, PlaneConstraint(vecZero, k)},
		{Handle10, VectorConstraint(j.Mul(-1))},
		{Handle01, VectorConstraint(i.Mul(-1))},
		{Handle12, VectorConstraint(j)},
		{Handle21, VectorConstraint(i)},
		{Handle11, OmniConstraint()},
		{HandleTransX, VectorConstraint(i)},
		{HandleTransY, VectorConstraint(j)},
		{HandleTransZ, VectorConstraint(k)},
		{HandleRotX, PlaneConstraint(transformPoint(m, defaultPivot), i)},
		{HandleRotY, PlaneConstraint(transformPoint(m, defaultPivot), j)},
		{HandleRotZ, PlaneConstraint(transformPoint(m, defaultPivot), k)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, c.Handle(tc.name).Constraint())
		})
	}

	for _, name := range []string{HandleRotX, HandleRotY, HandleRotZ} {
		assertVec3Near(t, transformPoint(m, defaultPivot), c.Handle(name).WorldPosition(), name)
	}
	rotX := c.Handle(HandleRotX).Transform()
	assertVec3Near(t, i, transformDir(rotX, vecZ), "rotX ring faces along u")
}

func TestControlCornerScenario(t *testing.T) {
	c, changes := newTestControl(t, mgl64.Ident4())

	require.True(t, c.PointerDown(downRay(1, 1)))
	require.Equal(t, c.Handle(Handle22), c.Dragging())

	require.True(t, c.PointerMove(moveRay(1.5, 1)))
	want := mgl64.Diag4(mgl64.Vec4{1.5, 1, 1, 1})
	assertMat4Near(t, want, c.ControlMatrix())
	require.Len(t, *changes, 1)
	assertMat4Near(t, want, (*changes)[0])

	// handles follow the new matrix
	assertVec3Near(t, mgl64.Vec3{1.5, 1, 0}, c.Handle(Handle22).WorldPosition())
	assertVec3Near(t, mgl64.Vec3{.75, .5, 0}, c.Handle(Handle11).WorldPosition())

	require.True(t, c.PointerUp(PointerEvent{Kind: PointerUp}))
	assert.Nil(t, c.Dragging())
	assert.False(t, c.PointerMove(moveRay(3, 3)))
}

func TestControlTranslateScenario(t *testing.T) {
	c, _ := newTestControl(t, mgl64.Ident4())

	// the ray also crosses the rotX and rotY rings, but the centre handle
	// comes first
	require.True(t, c.HandleEvent(downRay(.51, .52)))
	require.Equal(t, c.Handle(Handle11), c.Dragging())

	require.True(t, c.HandleEvent(moveRay(2.51, 3.52)))
	assertMat4Near(t, mgl64.Translate3D(2, 3, 0), c.ControlMatrix())
	require.True(t, c.HandleEvent(PointerEvent{Kind: PointerUp}))
}

func TestControlMissAndIdleEvents(t *testing.T) {
	c, changes := newTestControl(t, mgl64.Ident4())

	assert.False(t, c.PointerDown(downRay(10, 10)))
	assert.False(t, c.PointerMove(moveRay(1, 1)))
	assert.False(t, c.PointerUp(PointerEvent{Kind: PointerUp}))
	assert.False(t, c.HandleEvent(PointerEvent{Kind: EventKind(9)}))
	assert.False(t, c.Cancel())
	assert.Empty(t, *changes)
}

func TestControlCancel(t *testing.T) {
	start := mgl64.Translate3D(1, 2, 0)
	c, _ := newTestControl(t, start)

	require.True(t, c.PointerDown(downRay(1.51, 2.52)))
	require.True(t, c.PointerMove(moveRay(4, 4)))
	assert.NotEqual(t, start, c.ControlMatrix())

	assert.True(t, c.Cancel())
	assert.Equal(t, start, c.ControlMatrix())
	assert.Nil(t, c.Dragging())
	assertVec3Near(t, mgl64.Vec3{1.5, 2.5, 0}, c.Handle(Handle11).WorldPosition())
}

func TestControlCancelKeepsEarlierDrags(t *testing.T) {
	c, _ := newTestControl(t, mgl64.Ident4())

	require.True(t, c.PointerDown(downRay(.51, .52)))
	require.True(t, c.PointerMove(moveRay(1.51, .52)))
	require.True(t, c.PointerUp(PointerEvent{Kind: PointerUp}))
	committed := c.ControlMatrix()
	assertMat4Near(t, mgl64.Translate3D(1, 0, 0), committed)

	require.True(t, c.PointerDown(downRay(1.51, .52)))
	require.True(t, c.PointerMove(moveRay(3, 3)))
	require.True(t, c.Cancel())
	assert.Equal(t, committed, c.ControlMatrix())
}

func TestControlScaleBasis(t *testing.T) {
	start := mgl64.Translate3D(1, 2, 3).Mul4(mgl64.HomogRotate3DZ(.3))
	c, changes := newTestControl(t, start)

	c.ScaleBasis(2, .5)
	m := c.ControlMatrix()
	assertVec3Near(t, start.Col(0).Vec3().Mul(2), m.Col(0).Vec3())
	assertVec3Near(t, start.Col(1).Vec3().Mul(.5), m.Col(1).Vec3())
	assertVec3Near(t, start.Col(2).Vec3(), m.Col(2).Vec3())
	assertVec3Near(t, mgl64.Vec3{1, 2, 3}, m.Col(3).Vec3())
	assert.Len(t, *changes, 1)
}

func TestControlProjectUVRoundTrip(t *testing.T) {
	m := mgl64.Mat4FromCols(
		mgl64.Vec4{2, 1, 0, 0},
		mgl64.Vec4{-1, 3, .5, 0},
		mgl64.Vec4{0, 0, 1, 0},
		mgl64.Vec4{4, -2, 1, 1},
	)
	c, _ := newTestControl(t, m)

	for _, uv := range []mgl64.Vec2{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {.25, -3}} {
		got, ok := c.ProjectUV(transformPoint(m, mgl64.Vec3{uv[0], uv[1], 0}))
		require.True(t, ok)
		assertVec2Near(t, uv, got)
	}
}

func TestControlDraw(t *testing.T) {
	c, _ := newTestControl(t, mgl64.Translate3D(0, 0, 2))
	r := &recordingRenderer{}
	c.Draw(r)

	require.Equal(t, 1+len(c.Handles()), r.calls)
	assert.Len(t, r.coords[0], 24)
	for _, p := range r.coords[0] {
		assert.Equal(t, 2.0, p[2])
	}
}

func TestControlSnapFollowsOptions(t *testing.T) {
	c, _ := newTestControl(t, mgl64.Ident4())
	opts := DefaultOptions()
	opts.SnapAngle = 45
	c.SetOptions(opts)
	assert.Equal(t, 45.0, c.Options().SnapAngle)

	c.SetMeasure(nil)
	assert.Equal(t, 1.0, c.Measure()(mgl64.Vec3{}))
}
