package uvplane

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ViewMeasure reports how large one world unit at p appears in the viewport.
// Handle bodies are scaled by viewportScale / measure so they keep a steady
// on-screen size.
type ViewMeasure func(p mgl64.Vec3) float64

// FixedMeasure ignores the camera entirely.
func FixedMeasure(v float64) ViewMeasure {
	return func(mgl64.Vec3) float64 { return v }
}

// EyeDistanceMeasure uses the reciprocal of the straight line distance from
// eye to p. It is an approximation: it ignores the field of view and where p
// lies on screen.
func EyeDistanceMeasure(eye mgl64.Vec3) ViewMeasure {
	return func(p mgl64.Vec3) float64 {
		return 1 / p.Sub(eye).Len()
	}
}

// ProjectedUnitMeasure returns the length in normalized device coordinates of
// the vector up placed at p, as seen through viewProj.
func ProjectedUnitMeasure(viewProj mgl64.Mat4, up mgl64.Vec3) ViewMeasure {
	return func(p mgl64.Vec3) float64 {
		p0 := mgl64.TransformCoordinate(p, viewProj)
		p1 := mgl64.TransformCoordinate(p.Add(up), viewProj)
		return mgl64.Vec2{p1[0] - p0[0], p1[1] - p0[1]}.Len()
	}
}

// Renderer draws world space triangles in a flat color. coords holds three
// entries per triangle.
type Renderer interface {
	DrawTriangles(coords []mgl64.Vec3, col color.RGBA)
}

// HandleBody is the pickable, drawable shape of a handle. It knows nothing
// about drags; the owning handle passes in its current transform.
type HandleBody struct {
	solid         *Solid
	local         mgl64.Mat4
	color         color.RGBA
	dragColor     color.RGBA
	viewportScale float64
}

var (
	handleColor     = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	handleDragColor = color.RGBA{R: 255, G: 255, B: 0, A: 255}
)

const handleBodySize = 0.05

func NewHandleBody(solid *Solid, local mgl64.Mat4, col, dragCol color.RGBA, viewportScale float64) *HandleBody {
	return &HandleBody{
		solid:         solid,
		local:         local,
		color:         col,
		dragColor:     dragCol,
		viewportScale: viewportScale,
	}
}

func NewCubeBody(col color.RGBA, viewportScale float64) *HandleBody {
	return NewHandleBody(UnitCube(), mgl64.Scale3D(handleBodySize, handleBodySize, handleBodySize), col, handleDragColor, viewportScale)
}

func NewSphereBody(col color.RGBA, viewportScale float64) *HandleBody {
	return NewHandleBody(UnitSphere(8, 16), mgl64.Scale3D(handleBodySize, handleBodySize, handleBodySize), col, handleDragColor, viewportScale)
}

func NewConeBody(col color.RGBA, viewportScale float64) *HandleBody {
	return NewHandleBody(UnitCone(16, 1, true), mgl64.Scale3D(handleBodySize, handleBodySize, handleBodySize), col, handleDragColor, viewportScale)
}

func NewTorusBody(col color.RGBA, viewportScale float64) *HandleBody {
	return NewHandleBody(UnitTorus(8, .5, 32, 6), mgl64.Scale3D(handleBodySize, handleBodySize, handleBodySize), col, handleDragColor, viewportScale)
}

func (b *HandleBody) Solid() *Solid {
	return b.solid
}

func (b *HandleBody) Color(dragging bool) color.RGBA {
	if dragging {
		return b.dragColor
	}
	return b.color
}

// WorldTransform places the body at the handle's position and orientation,
// dropping the handle's own scale and shear in favour of a viewport relative
// uniform scale.
func (b *HandleBody) WorldTransform(xform mgl64.Mat4, measure ViewMeasure) mgl64.Mat4 {
	t, r, _ := Decompose(xform)

	m := 1.0
	if measure != nil {
		m = measure(t)
	}
	if m <= 0 || math.IsNaN(m) || math.IsInf(m, 0) {
		m = 1
	}
	scale := b.viewportScale / m

	return Recompose(t, r, mgl64.Vec3{scale, scale, scale}).Mul4(b.local)
}

// Intersect tests the pick ray against the body's triangles in generation
// order and returns the first hit, which is not necessarily the nearest.
func (b *HandleBody) Intersect(xform mgl64.Mat4, measure ViewMeasure, origin, dir mgl64.Vec3) (mgl64.Vec3, bool) {
	l2w := b.WorldTransform(xform, measure)

	for i := 0; i < b.solid.TriangleCount(); i++ {
		p0, p1, p2 := b.solid.Triangle(i)
		hit, ok := IntersectTriangle(
			transformPoint(l2w, p0),
			transformPoint(l2w, p1),
			transformPoint(l2w, p2),
			origin, dir)
		if ok {
			return hit, true
		}
	}
	return mgl64.Vec3{}, false
}

func (b *HandleBody) Draw(r Renderer, xform mgl64.Mat4, measure ViewMeasure, dragging bool) {
	r.DrawTriangles(b.solid.Transform(b.WorldTransform(xform, measure)), b.Color(dragging))
}
