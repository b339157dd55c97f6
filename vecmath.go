package uvplane

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	vecX    = mgl64.Vec3{1, 0, 0}
	vecY    = mgl64.Vec3{0, 1, 0}
	vecZ    = mgl64.Vec3{0, 0, 1}
	vecZero = mgl64.Vec3{}
)

// Axis names a world axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	return "?"
}

// IsectLinePlane returns s such that linePoint + s*lineDir lies on the plane.
// planeNormal does not need to be normalized. It reports false when the line
// runs parallel to the plane.
func IsectLinePlane(linePoint, lineDir, planePoint, planeNormal mgl64.Vec3) (float64, bool) {
	denom := lineDir.Dot(planeNormal)
	if denom == 0 {
		return 0, false
	}
	s := planePoint.Sub(linePoint).Dot(planeNormal) / denom
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return 0, false
	}
	return s, true
}

// ClosestPointToLine returns s such that p0 + s*d0 is as close as possible to
// the line through p1 along d1.
func ClosestPointToLine(p0, d0, p1, d1 mgl64.Vec3) (float64, bool) {
	r := d0.Cross(d1)
	norm := r.Cross(d1)
	return IsectLinePlane(p0, d0, p1, norm)
}

// IntersectTriangle returns the point where the ray hits triangle p0 p1 p2.
// Points lying exactly on an edge count as hits.
func IntersectTriangle(p0, p1, p2, origin, dir mgl64.Vec3) (mgl64.Vec3, bool) {
	v10 := p1.Sub(p0)
	v20 := p2.Sub(p0)
	v21 := p2.Sub(p1)

	norm, ok := normalize(v10.Cross(v20))
	if !ok {
		return mgl64.Vec3{}, false
	}

	s, ok := IsectLinePlane(origin, dir, p0, norm)
	if !ok {
		return mgl64.Vec3{}, false
	}
	hit := origin.Add(dir.Mul(s))

	vh0 := hit.Sub(p0)
	vh1 := hit.Sub(p1)
	v01 := v10.Mul(-1)

	if vh0.Cross(v20).Dot(v10.Cross(v20)) < 0 {
		return mgl64.Vec3{}, false
	}
	if vh0.Cross(v10).Dot(v20.Cross(v10)) < 0 {
		return mgl64.Vec3{}, false
	}
	if vh1.Cross(v21).Dot(v01.Cross(v21)) < 0 {
		return mgl64.Vec3{}, false
	}
	return hit, true
}

// ExpressInBasis returns the coefficients (a, b, c) such that
// v = a*v0 + b*v1 + c*v2. It reports false if the basis is degenerate.
func ExpressInBasis(v, v0, v1, v2 mgl64.Vec3) (mgl64.Vec3, bool) {
	m := mgl64.Mat3FromCols(v0, v1, v2)
	if m.Det() == 0 {
		return mgl64.Vec3{}, false
	}
	return m.Inv().Mul3x1(v), true
}

// SnapToGrid rounds each component of p to the nearest multiple of unit.
func SnapToGrid(p mgl64.Vec3, unit float64) mgl64.Vec3 {
	if unit == 0 {
		return p
	}
	var out mgl64.Vec3
	for i := range p {
		out[i] = math.Floor(p[i]/unit+0.5) * unit
	}
	return out
}

// Project returns the component of a along onto.
func Project(a, onto mgl64.Vec3) mgl64.Vec3 {
	l2 := onto.LenSqr()
	if l2 == 0 {
		return mgl64.Vec3{}
	}
	return onto.Mul(a.Dot(onto) / l2)
}

// ProjectPointOntoPlane drops p orthogonally onto the plane.
func ProjectPointOntoPlane(p, planePoint, planeNormal mgl64.Vec3) mgl64.Vec3 {
	return p.Sub(Project(p.Sub(planePoint), planeNormal))
}

// ClosestAxis returns the world axis v is most aligned with.
func ClosestAxis(v mgl64.Vec3) Axis {
	xx, yy, zz := math.Abs(v[0]), math.Abs(v[1]), math.Abs(v[2])
	if xx > yy && xx > zz {
		return AxisX
	}
	if yy > zz {
		return AxisY
	}
	return AxisZ
}

// Decompose splits an affine matrix into translation, rotation and per-axis
// scale. Sheared bases are orthonormalized with Gram-Schmidt, so the rotation
// is always proper even when the columns are not orthogonal.
func Decompose(m mgl64.Mat4) (mgl64.Vec3, mgl64.Quat, mgl64.Vec3) {
	t := m.Col(3).Vec3()
	c0, c1, c2 := m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()
	s := mgl64.Vec3{c0.Len(), c1.Len(), c2.Len()}

	x, ok := normalize(c0)
	if !ok {
		x = vecX
	}
	y, ok := normalize(c1.Sub(Project(c1, x)))
	if !ok {
		y = perpendicular(x)
	}
	z := x.Cross(y)
	if c2.Dot(z) < 0 {
		s[2] = -s[2]
	}

	rot := mgl64.Mat4FromCols(x.Vec4(0), y.Vec4(0), z.Vec4(0), mgl64.Vec4{0, 0, 0, 1})
	return t, mgl64.Mat4ToQuat(rot).Normalize(), s
}

// Recompose builds T * R * S.
func Recompose(t mgl64.Vec3, r mgl64.Quat, s mgl64.Vec3) mgl64.Mat4 {
	return mgl64.Translate3D(t[0], t[1], t[2]).
		Mul4(r.Mat4()).
		Mul4(mgl64.Scale3D(s[0], s[1], s[2]))
}

// IsAffine reports whether m has a bottom row of (0, 0, 0, 1) and only finite
// entries.
func IsAffine(m mgl64.Mat4) bool {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return m.At(3, 0) == 0 && m.At(3, 1) == 0 && m.At(3, 2) == 0 && m.At(3, 3) == 1
}

// transformPoint applies the full affine transform to p.
func transformPoint(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// transformDir applies only the linear part of m to d.
func transformDir(m mgl64.Mat4, d mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(d.Vec4(0)).Vec3()
}

func normalize(v mgl64.Vec3) (mgl64.Vec3, bool) {
	l := v.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return mgl64.Vec3{}, false
	}
	return v.Mul(1 / l), true
}

// perpendicular returns some unit vector orthogonal to the unit vector v.
func perpendicular(v mgl64.Vec3) mgl64.Vec3 {
	other := vecZ
	if ClosestAxis(v) == AxisZ {
		other = vecX
	}
	p, _ := normalize(v.Cross(other))
	return p
}
