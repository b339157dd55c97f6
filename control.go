package uvplane

import (
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Handle names, in the order pointer events are offered to them.
const (
	Handle00     = "00"
	Handle02     = "02"
	Handle20     = "20"
	Handle22     = "22"
	Handle10     = "10"
	Handle01     = "01"
	Handle12     = "12"
	Handle21     = "21"
	Handle11     = "11"
	HandleTransX = "transX"
	HandleTransY = "transY"
	HandleTransZ = "transZ"
	HandleRotX   = "rotX"
	HandleRotY   = "rotY"
	HandleRotZ   = "rotZ"
)

var (
	colorRed     = color.RGBA{R: 255, A: 255}
	colorGreen   = color.RGBA{G: 255, A: 255}
	colorBlue    = color.RGBA{B: 255, A: 255}
	colorCyan    = color.RGBA{G: 255, B: 255, A: 255}
	colorMagenta = color.RGBA{R: 255, B: 255, A: 255}
	colorWhite   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// frameWidth is the thickness of the drawn outline in control space units.
const frameWidth = 0.01

// UvPlaneControl owns the control matrix of a planar UV projection and the
// fifteen handles that edit it. Column 0 and 1 of the matrix are the world
// space directions of u and v, column 2 is the projection axis and column 3
// is the world position of uv (0, 0).
type UvPlaneControl struct {
	matrix    mgl64.Mat4
	committed mgl64.Mat4

	measure  ViewMeasure
	opts     Options
	onChange func(mgl64.Mat4)

	handles []*Handle
	byName  map[string]*Handle
}

// NewUvPlaneControl builds the control around initial. onChange, if not nil,
// is called with every new matrix.
func NewUvPlaneControl(initial mgl64.Mat4, measure ViewMeasure, opts Options, onChange func(mgl64.Mat4)) (*UvPlaneControl, error) {
	if !IsAffine(initial) {
		return nil, fmt.Errorf("could not create control: %w", ErrNotAffine)
	}
	if initial.Det() == 0 {
		return nil, fmt.Errorf("could not create control: %w", ErrSingularMatrix)
	}
	if measure == nil {
		measure = FixedMeasure(1)
	}

	c := &UvPlaneControl{
		matrix:    initial,
		committed: initial,
		measure:   measure,
		opts:      opts,
		onChange:  onChange,
		byName:    map[string]*Handle{},
	}
	if err := c.buildHandles(); err != nil {
		return nil, err
	}
	c.LayoutHandles()

	log.Printf("UV plane control created with %d handles", len(c.handles))
	return c, nil
}

func (c *UvPlaneControl) buildHandles() error {
	scale := c.opts.HandleScale
	if scale <= 0 {
		scale = DefaultOptions().HandleScale
	}
	size := mgl64.Scale3D(handleBodySize, handleBodySize, handleBodySize)

	cube := func(col color.RGBA) *HandleBody {
		return NewCubeBody(col, scale)
	}
	cone := func(col color.RGBA, orient mgl64.Mat4) *HandleBody {
		return NewHandleBody(UnitCone(16, 1, true), size.Mul4(orient), col, handleDragColor, scale)
	}

	defs := []struct {
		name       string
		kind       DragKind
		body       *HandleBody
		constraint Constraint
		pos        mgl64.Vec3
	}{
		{Handle00, DragCorner, cube(colorBlue), PlaneConstraint(vecZero, vecZ), mgl64.Vec3{0, 0, 0}},
		{Handle02, DragCorner, cube(colorCyan), PlaneConstraint(vecZero, vecZ), mgl64.Vec3{0, 1, 0}},
		{Handle20, DragCorner, cube(colorMagenta), PlaneConstraint(vecZero, vecZ), mgl64.Vec3{1, 0, 0}},
		{Handle22, DragCorner, cube(colorWhite), PlaneConstraint(vecZero, vecZ), mgl64.Vec3{1, 1, 0}},

		{Handle10, DragEdge, cube(handleColor), VectorConstraint(vecY.Mul(-1)), mgl64.Vec3{.5, 0, 0}},
		{Handle01, DragEdge, cube(handleColor), VectorConstraint(vecX.Mul(-1)), mgl64.Vec3{0, .5, 0}},
		{Handle12, DragEdge, cube(handleColor), VectorConstraint(vecY), mgl64.Vec3{.5, 1, 0}},
		{Handle21, DragEdge, cube(handleColor), VectorConstraint(vecX), mgl64.Vec3{1, .5, 0}},

		{Handle11, DragTranslate, NewSphereBody(handleColor, scale), OmniConstraint(), mgl64.Vec3{.5, .5, 0}},

		{HandleTransX, DragTranslate, cone(colorRed, mgl64.HomogRotate3DY(math.Pi/2)), VectorConstraint(vecX), mgl64.Vec3{1.3, .5, 0}},
		{HandleTransY, DragTranslate, cone(colorGreen, mgl64.HomogRotate3DX(-math.Pi/2)), VectorConstraint(vecY), mgl64.Vec3{.5, 1.3, 0}},
		{HandleTransZ, DragTranslate, cone(colorBlue, mgl64.Ident4()), VectorConstraint(vecZ), mgl64.Vec3{.5, .5, 1.3}},

		{HandleRotX, DragRotate, NewTorusBody(colorRed, scale), PlaneConstraint(vecZero, vecX), defaultPivot},
		{HandleRotY, DragRotate, NewTorusBody(colorGreen, scale), PlaneConstraint(vecZero, vecY), defaultPivot},
		{HandleRotZ, DragRotate, NewTorusBody(colorBlue, scale), PlaneConstraint(vecZero, vecZ), defaultPivot},
	}

	for _, s := range defs {
		h, err := NewHandle(c, s.name, s.kind, s.body, s.constraint, s.pos)
		if err != nil {
			return fmt.Errorf("could not create control: %w", err)
		}
		c.handles = append(c.handles, h)
		c.byName[s.name] = h
	}
	return nil
}

// LayoutHandles places every handle from the current matrix and gives it a
// fresh constraint built from the matrix basis.
func (c *UvPlaneControl) LayoutHandles() {
	i := c.matrix.Col(0).Vec3()
	j := c.matrix.Col(1).Vec3()
	k := c.matrix.Col(2).Vec3()

	at := func(p mgl64.Vec3) mgl64.Mat4 {
		return c.matrix.Mul4(mgl64.Translate3D(p[0], p[1], p[2]))
	}

	for _, h := range c.handles {
		switch h.name {
		case Handle00, Handle02, Handle20, Handle22:
			h.setLayout(at(h.posControl), PlaneConstraint(vecZero, k))
		case Handle10:
			h.setLayout(at(h.posControl), VectorConstraint(j.Mul(-1)))
		case Handle01:
			h.setLayout(at(h.posControl), VectorConstraint(i.Mul(-1)))
		case Handle12:
			h.setLayout(at(h.posControl), VectorConstraint(j))
		case Handle21:
			h.setLayout(at(h.posControl), VectorConstraint(i))
		case Handle11:
			h.setLayout(at(h.posControl), OmniConstraint())
		case HandleTransX:
			h.setLayout(at(h.posControl), VectorConstraint(i))
		case HandleTransY:
			h.setLayout(at(h.posControl), VectorConstraint(j))
		case HandleTransZ:
			h.setLayout(at(h.posControl), VectorConstraint(k))
		case HandleRotX:
			h.setLayout(at(h.pivot).Mul4(mgl64.HomogRotate3DY(math.Pi/2)),
				PlaneConstraint(transformPoint(c.matrix, h.pivot), i))
		case HandleRotY:
			h.setLayout(at(h.pivot).Mul4(mgl64.HomogRotate3DX(math.Pi/2)),
				PlaneConstraint(transformPoint(c.matrix, h.pivot), j))
		case HandleRotZ:
			h.setLayout(at(h.pivot),
				PlaneConstraint(transformPoint(c.matrix, h.pivot), k))
		}
	}
}

// UpdateProjectionMatrix replaces the control matrix, lays the handles out
// again and reports the change.
func (c *UvPlaneControl) UpdateProjectionMatrix(m mgl64.Mat4) {
	c.matrix = m
	c.LayoutHandles()
	if c.onChange != nil {
		c.onChange(m)
	}
}

func (c *UvPlaneControl) ControlMatrix() mgl64.Mat4 { return c.matrix }
func (c *UvPlaneControl) Options() Options          { return c.opts }
func (c *UvPlaneControl) Measure() ViewMeasure      { return c.measure }
func (c *UvPlaneControl) Handles() []*Handle        { return c.handles }

// Handle returns the handle with the given name, or nil.
func (c *UvPlaneControl) Handle(name string) *Handle {
	return c.byName[name]
}

// SetOptions swaps the options used by later drags.
func (c *UvPlaneControl) SetOptions(opts Options) {
	c.opts = opts
}

// SetMeasure changes how handle sizes follow the camera.
func (c *UvPlaneControl) SetMeasure(measure ViewMeasure) {
	if measure == nil {
		measure = FixedMeasure(1)
	}
	c.measure = measure
}

// Dragging returns the handle holding the current drag, or nil.
func (c *UvPlaneControl) Dragging() *Handle {
	for _, h := range c.handles {
		if h.dragging {
			return h
		}
	}
	return nil
}

// HandleEvent routes ev to PointerDown, PointerMove or PointerUp.
func (c *UvPlaneControl) HandleEvent(ev PointerEvent) bool {
	switch ev.Kind {
	case PointerDown:
		return c.PointerDown(ev)
	case PointerMove:
		return c.PointerMove(ev)
	case PointerUp:
		return c.PointerUp(ev)
	}
	return false
}

// PointerDown offers the press to each handle in turn. The first handle hit
// takes the drag.
func (c *UvPlaneControl) PointerDown(ev PointerEvent) bool {
	if c.Dragging() != nil {
		return false
	}
	for _, h := range c.handles {
		if h.PointerDown(ev) {
			c.committed = c.matrix
			return true
		}
	}
	return false
}

func (c *UvPlaneControl) PointerMove(ev PointerEvent) bool {
	for _, h := range c.handles {
		if h.PointerMove(ev) {
			return true
		}
	}
	return false
}

func (c *UvPlaneControl) PointerUp(PointerEvent) bool {
	for _, h := range c.handles {
		if h.PointerUp() {
			c.committed = c.matrix
			return true
		}
	}
	return false
}

// Cancel abandons the drag in progress and puts back the matrix it started
// from. It reports whether there was a drag to cancel.
func (c *UvPlaneControl) Cancel() bool {
	h := c.Dragging()
	if h == nil {
		return false
	}
	h.Cancel()
	c.UpdateProjectionMatrix(c.committed)
	return true
}

// ScaleBasis stretches u by sx and v by sy, keeping the origin.
func (c *UvPlaneControl) ScaleBasis(sx, sy float64) {
	c.UpdateProjectionMatrix(c.matrix.Mul4(mgl64.Diag4(mgl64.Vec4{sx, sy, 1, 1})))
}

// ProjectUV maps a world point to uv through the inverse control matrix.
func (c *UvPlaneControl) ProjectUV(p mgl64.Vec3) (mgl64.Vec2, bool) {
	if c.matrix.Det() == 0 {
		return mgl64.Vec2{}, false
	}
	uv := transformPoint(c.matrix.Inv(), p)
	return mgl64.Vec2{uv[0], uv[1]}, true
}

// Draw paints the outline of the unit uv square and then every handle.
func (c *UvPlaneControl) Draw(r Renderer) {
	r.DrawTriangles(c.frameTriangles(), colorMagenta)
	for _, h := range c.handles {
		h.Draw(r)
	}
}

// frameTriangles returns the border between the unit square and a slightly
// smaller inset square, in world space.
func (c *UvPlaneControl) frameTriangles() []mgl64.Vec3 {
	o := [4]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	w := frameWidth
	in := [4]mgl64.Vec3{{w, w, 0}, {1 - w, w, 0}, {1 - w, 1 - w, 0}, {w, 1 - w, 0}}

	out := make([]mgl64.Vec3, 0, 24)
	for n := 0; n < 4; n++ {
		m := (n + 1) % 4
		out = append(out,
			o[n], o[m], in[m],
			o[n], in[m], in[n],
		)
	}
	for n := range out {
		out[n] = transformPoint(c.matrix, out[n])
	}
	return out
}
