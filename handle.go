package uvplane

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type EventKind int

const (
	PointerDown EventKind = iota
	PointerMove
	PointerUp
)

// PointerEvent carries one pointer event and the pick ray under the pointer.
// Modifier enables angle snapping on rotation handles.
type PointerEvent struct {
	Kind     EventKind
	Origin   mgl64.Vec3
	Dir      mgl64.Vec3
	Modifier bool
}

// DragKind selects the drag math a handle applies.
type DragKind int

const (
	DragCorner DragKind = iota
	DragEdge
	DragTranslate
	DragRotate
)

func (k DragKind) String() string {
	switch k {
	case DragCorner:
		return "corner"
	case DragEdge:
		return "edge"
	case DragTranslate:
		return "translate"
	case DragRotate:
		return "rotate"
	}
	return fmt.Sprintf("DragKind(%d)", int(k))
}

// Controller owns the control matrix a handle edits.
type Controller interface {
	ControlMatrix() mgl64.Mat4
	UpdateProjectionMatrix(m mgl64.Mat4)
	Options() Options
	Measure() ViewMeasure
}

// minScaleFactor keeps scale handles from collapsing the control matrix.
const minScaleFactor = 1e-6

var defaultPivot = mgl64.Vec3{.5, .5, 0}

// Handle is one draggable gizmo. Its transform and constraint are rewritten
// by the controller whenever the control matrix changes.
type Handle struct {
	name       string
	kind       DragKind
	body       *HandleBody
	constraint Constraint
	transform  mgl64.Mat4

	// position in control space and the point scale and rotation work about
	posControl mgl64.Vec3
	pivot      mgl64.Vec3

	ctl Controller

	dragging        bool
	dragStart       mgl64.Vec3
	startMatrix     mgl64.Mat4
	startConstraint Constraint
}

func NewHandle(ctl Controller, name string, kind DragKind, body *HandleBody, c Constraint, posControl mgl64.Vec3) (*Handle, error) {
	if ctl == nil {
		return nil, fmt.Errorf("handle %s: %w", name, ErrNilController)
	}
	if body == nil {
		return nil, fmt.Errorf("handle %s: %w", name, ErrNilBody)
	}
	if kind < DragCorner || kind > DragRotate {
		return nil, fmt.Errorf("handle %s: %w: %d", name, ErrUnknownDragKind, int(kind))
	}
	return &Handle{
		name:       name,
		kind:       kind,
		body:       body,
		constraint: c,
		transform:  mgl64.Ident4(),
		posControl: posControl,
		pivot:      defaultPivot,
		ctl:        ctl,
	}, nil
}

func (h *Handle) Name() string                { return h.name }
func (h *Handle) Kind() DragKind              { return h.kind }
func (h *Handle) Body() *HandleBody           { return h.body }
func (h *Handle) Constraint() Constraint      { return h.constraint }
func (h *Handle) Transform() mgl64.Mat4       { return h.transform }
func (h *Handle) PosControl() mgl64.Vec3      { return h.posControl }
func (h *Handle) Pivot() mgl64.Vec3           { return h.pivot }
func (h *Handle) Dragging() bool              { return h.dragging }
func (h *Handle) SetPivot(pivot mgl64.Vec3)   { h.pivot = pivot }
func (h *Handle) WorldPosition() mgl64.Vec3   { return h.transform.Col(3).Vec3() }
func (h *Handle) setLayout(xform mgl64.Mat4, c Constraint) {
	h.transform = xform
	h.constraint = c
}

// PointerDown starts a drag if the ray hits the handle's body.
func (h *Handle) PointerDown(ev PointerEvent) bool {
	if h.dragging {
		return false
	}
	hit, ok := h.body.Intersect(h.transform, h.ctl.Measure(), ev.Origin, ev.Dir)
	if !ok {
		return false
	}
	h.dragging = true
	h.dragStart = hit
	h.startMatrix = h.ctl.ControlMatrix()
	h.startConstraint = h.constraint
	return true
}

// PointerMove turns the pointer displacement into a new control matrix.
func (h *Handle) PointerMove(ev PointerEvent) bool {
	if !h.dragging {
		return false
	}

	// displacement from the drag start, perpendicular to the view ray
	s := h.dragStart.Sub(ev.Origin)
	offsetPerp := Project(s, ev.Dir).Sub(s)

	var (
		m  mgl64.Mat4
		ok bool
	)
	switch h.kind {
	case DragCorner, DragEdge:
		m, ok = h.scaleAroundPivot(h.constraint.Constrain(offsetPerp, ev.Dir))
	case DragTranslate:
		m, ok = h.translate(h.constraint.Constrain(offsetPerp, ev.Dir), h.ctl.Options())
	case DragRotate:
		m, ok = h.rotate(offsetPerp, ev.Dir, ev.Modifier, h.ctl.Options())
	}
	if ok {
		h.ctl.UpdateProjectionMatrix(m)
	}
	return true
}

// PointerUp ends the drag.
func (h *Handle) PointerUp() bool {
	if !h.dragging {
		return false
	}
	h.Cancel()
	return true
}

// Cancel drops any drag state without touching the control matrix.
func (h *Handle) Cancel() {
	h.dragging = false
	h.dragStart = mgl64.Vec3{}
	h.startMatrix = mgl64.Mat4{}
	h.startConstraint = Constraint{}
}

func (h *Handle) Draw(r Renderer) {
	h.body.Draw(r, h.transform, h.ctl.Measure(), h.dragging)
}

// scaleAroundPivot scales the control square so the point opposite this
// handle, mirrored through the pivot, stays put.
func (h *Handle) scaleAroundPivot(offset mgl64.Vec3) (mgl64.Mat4, bool) {
	if h.startMatrix.Det() == 0 {
		return mgl64.Mat4{}, false
	}
	offsetUv := transformDir(h.startMatrix.Inv(), offset)

	fixed := h.pivot.Mul(2).Sub(h.posControl)
	span := h.posControl.Sub(fixed)
	spanNew := span.Add(offsetUv)

	sx := scaleFactor(span[0], spanNew[0])
	sy := scaleFactor(span[1], spanNew[1])

	t := mgl64.Translate3D(fixed[0], fixed[1], fixed[2]).
		Mul4(mgl64.Scale3D(sx, sy, 1)).
		Mul4(mgl64.Translate3D(-fixed[0], -fixed[1], -fixed[2]))
	return h.startMatrix.Mul4(t), true
}

func scaleFactor(span, spanNew float64) float64 {
	if span == 0 {
		return 1
	}
	f := spanNew / span
	if math.Abs(f) < minScaleFactor {
		if f < 0 {
			return -minScaleFactor
		}
		return minScaleFactor
	}
	return f
}

// translate moves the whole control frame. With ClampToBasis the move is
// stepped in whole multiples of ClampScalar along the frame's own axes.
func (h *Handle) translate(offset mgl64.Vec3, opts Options) (mgl64.Mat4, bool) {
	if opts.ClampToBasis && opts.ClampScalar > 0 {
		i := h.startMatrix.Col(0).Vec3()
		j := h.startMatrix.Col(1).Vec3()
		k := h.startMatrix.Col(2).Vec3()
		if c, ok := ExpressInBasis(offset, i, j, k); ok {
			for n := range c {
				c[n] = math.Floor(c[n]/opts.ClampScalar) * opts.ClampScalar
			}
			offset = i.Mul(c[0]).Add(j.Mul(c[1])).Add(k.Mul(c[2]))
		}
	}
	return mgl64.Translate3D(offset[0], offset[1], offset[2]).Mul4(h.startMatrix), true
}

// rotate spins the control frame about the pivot. Both ends of the drag are
// put onto the rotation plane captured when the drag began.
func (h *Handle) rotate(offsetPerp, viewDir mgl64.Vec3, snap bool, opts Options) (mgl64.Mat4, bool) {
	c := h.startConstraint
	n, ok := normalize(c.Normal)
	if !ok {
		return mgl64.Mat4{}, false
	}
	pivot := transformPoint(h.startMatrix, h.pivot)

	p0 := c.Constrain(h.dragStart, viewDir)
	p1 := c.Constrain(h.dragStart.Add(offsetPerp), viewDir)

	v0, ok0 := normalize(p0.Sub(pivot))
	v1, ok1 := normalize(p1.Sub(pivot))
	if !ok0 || !ok1 {
		return mgl64.Mat4{}, false
	}

	angle := math.Acos(mgl64.Clamp(v0.Dot(v1), -1, 1))
	if snap {
		angle = snapAngle(angle, mgl64.DegToRad(opts.SnapAngle))
	}
	if v0.Cross(v1).Dot(n) < 0 {
		angle = -angle
	}

	rot := mgl64.Translate3D(pivot[0], pivot[1], pivot[2]).
		Mul4(mgl64.HomogRotate3D(angle, n)).
		Mul4(mgl64.Translate3D(-pivot[0], -pivot[1], -pivot[2]))
	return rot.Mul4(h.startMatrix), true
}

// snapAngle floors a non-negative angle to a whole number of increments.
func snapAngle(angle, increment float64) float64 {
	if increment <= 0 {
		return angle
	}
	return math.Floor(angle/increment) * increment
}
