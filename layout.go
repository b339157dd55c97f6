package uvplane

import (
	"fmt"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// minUvSpan is the length below which two uvs of a face count as coincident.
const minUvSpan = 1e-4

// InitialMatrix fits a first control matrix to the mesh using the policy
// named in opts.
func InitialMatrix(mesh *Mesh, opts Options) (mgl64.Mat4, error) {
	if mesh.Empty(opts.SelectedFacesOnly) {
		return mgl64.Mat4{}, fmt.Errorf("could not lay out control: %w", ErrEmptyMesh)
	}
	log.Printf("Laying out control from %s", opts.InitLayout)

	switch opts.InitLayout {
	case PolicyBounds:
		return LayoutBounds(mesh, opts.SelectedFacesOnly)
	case PolicyFace:
		return LayoutFace(mesh, opts.RelocateOrigin)
	case PolicyGrid:
		return LayoutGrid(mesh, opts.GridScale)
	}
	return mgl64.Mat4{}, fmt.Errorf("could not lay out control: %w %q", ErrUnknownLayout, opts.InitLayout)
}

// LayoutBounds builds a frame on the active face and stretches it over the
// bounds of the mesh as seen along the face normal. The origin lands on the
// minimum corner of the bounds.
func LayoutBounds(mesh *Mesh, selectedOnly bool) (mgl64.Mat4, error) {
	face, ok := mesh.ActiveFace()
	if !ok {
		return mgl64.Mat4{}, fmt.Errorf("bounds layout: %w", ErrEmptyMesh)
	}

	normal, ok := normalize(mesh.WorldNormal(face.Normal()))
	if !ok {
		normal = vecZ
	}
	center := mesh.WorldPoint(face.MidPoint())

	tangent := findTangent(normal)
	binormal := normal.Cross(tangent)

	poly2w := mgl64.Mat4FromCols(tangent.Vec4(0), binormal.Vec4(0), normal.Vec4(0), center.Vec4(1))
	w2poly := poly2w.Inv()
	l2poly := w2poly.Mul4(mesh.Transform)

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, f := range mesh.Faces {
		if selectedOnly && !f.Selected {
			continue
		}
		for _, v := range f.Verts {
			p := transformPoint(l2poly, v)
			minX = math.Min(minX, p[0])
			maxX = math.Max(maxX, p[0])
			minY = math.Min(minY, p[1])
			maxY = math.Max(maxY, p[1])
		}
	}
	if math.IsInf(minX, 1) {
		return mgl64.Mat4{}, fmt.Errorf("bounds layout: %w", ErrEmptyMesh)
	}

	dx, dy := maxX-minX, maxY-minY
	// A flat extent would make the matrix singular.
	if dx == 0 {
		dx = 1
	}
	if dy == 0 {
		dy = 1
	}

	origin := tangent.Mul(minX).Add(binormal.Mul(minY)).Add(center)
	return mgl64.Mat4FromCols(
		tangent.Mul(dx).Vec4(0),
		binormal.Mul(dy).Vec4(0),
		normal.Vec4(0),
		origin.Vec4(1),
	), nil
}

// LayoutFace returns the projection that reproduces the uvs already on the
// active face. With relocateOrigin the origin is moved by whole uv tiles so
// it sits close to the face.
func LayoutFace(mesh *Mesh, relocateOrigin bool) (mgl64.Mat4, error) {
	face, ok := mesh.ActiveFace()
	if !ok {
		return mgl64.Mat4{}, fmt.Errorf("face layout: %w", ErrEmptyMesh)
	}
	if len(face.Verts) < 3 {
		return mgl64.Mat4{}, fmt.Errorf("face layout: active face has %d corners: %w", len(face.Verts), ErrEmptyMesh)
	}

	normal := mesh.WorldNormal(face.Normal())
	center := mesh.WorldPoint(face.MidPoint())

	p0 := mesh.WorldPoint(face.Verts[0])
	p1 := mesh.WorldPoint(face.Verts[1])
	p2 := mesh.WorldPoint(face.Verts[2])
	p3 := p0.Sub(normal)

	uv0, uv1, uv2 := repairUvBasis(faceUV(face, 0), faceUV(face, 1), faceUV(face, 2))

	u := mgl64.Mat4FromCols(
		mgl64.Vec4{uv0[0], uv0[1], 0, 1},
		mgl64.Vec4{uv1[0], uv1[1], 0, 1},
		mgl64.Vec4{uv2[0], uv2[1], 0, 1},
		mgl64.Vec4{uv0[0], uv0[1], 1, 1},
	)
	if u.Det() == 0 {
		return mgl64.Mat4{}, fmt.Errorf("face layout: uvs are collinear: %w", ErrSingularMatrix)
	}
	p := mgl64.Mat4FromCols(p0.Vec4(1), p1.Vec4(1), p2.Vec4(1), p3.Vec4(1))

	c := p.Mul4(u.Inv())
	if c.Det() == 0 {
		return mgl64.Mat4{}, fmt.Errorf("face layout: corners are collinear: %w", ErrSingularMatrix)
	}

	if relocateOrigin {
		uv := transformPoint(c.Inv(), center)
		c = c.Mul4(mgl64.Translate3D(math.Floor(uv[0]), math.Floor(uv[1]), 0))
	}
	return c, nil
}

func faceUV(f *Face, i int) mgl64.Vec2 {
	if i < len(f.UVs) {
		return f.UVs[i]
	}
	return mgl64.Vec2{}
}

// repairUvBasis replaces coincident uvs so the three of them span the plane.
func repairUvBasis(uv0, uv1, uv2 mgl64.Vec2) (mgl64.Vec2, mgl64.Vec2, mgl64.Vec2) {
	duv1 := uv1.Sub(uv0)
	duv2 := uv2.Sub(uv0)

	switch {
	case duv1.Len() < minUvSpan && duv2.Len() < minUvSpan:
		uv1 = uv0.Add(mgl64.Vec2{1, 0})
		uv2 = uv0.Add(mgl64.Vec2{0, 1})
	case duv1.Len() < minUvSpan:
		uv1 = uv0.Add(mgl64.Vec2{-duv2[1], duv2[0]})
	case duv2.Len() < minUvSpan || uv2.Sub(uv1).Len() < minUvSpan:
		uv2 = uv0.Add(mgl64.Vec2{duv1[1], -duv1[0]})
	}
	return uv0, uv1, uv2
}

// LayoutGrid aligns the control with the world grid plane most facing the
// active face. The origin snaps to the grid within that plane and keeps the
// face's height along the plane's axis.
func LayoutGrid(mesh *Mesh, scale float64) (mgl64.Mat4, error) {
	face, ok := mesh.ActiveFace()
	if !ok {
		return mgl64.Mat4{}, fmt.Errorf("grid layout: %w", ErrEmptyMesh)
	}
	if scale <= 0 {
		scale = 1
	}

	normal := mesh.WorldNormal(face.Normal())
	activeCenter := mesh.WorldPoint(face.MidPoint())
	center := SnapToGrid(activeCenter, scale)

	var i, j, k mgl64.Vec3
	switch axis := ClosestAxis(normal); axis {
	case AxisX:
		i, j, k = vecY, vecZ, vecX
		center[0] = activeCenter[0]
	case AxisY:
		i, j, k = vecX, vecZ, vecY
		center[1] = activeCenter[1]
	default:
		i, j, k = vecX, vecY, vecZ
		center[2] = activeCenter[2]
	}

	return mgl64.Mat4FromCols(
		i.Mul(scale).Vec4(0),
		j.Mul(scale).Vec4(0),
		k.Mul(scale).Vec4(0),
		center.Vec4(1),
	), nil
}

// findTangent returns a unit vector in the plane with normal n, preferring
// the direction perpendicular to world z.
func findTangent(n mgl64.Vec3) mgl64.Vec3 {
	nn, ok := normalize(n)
	if !ok || 1-math.Abs(nn.Dot(vecZ)) < 1e-4 {
		return vecX
	}
	t, _ := normalize(n.Cross(vecZ))
	return t
}
