package uvplane

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Solid is a flat triangle list. Every three consecutive entries of Coords
// form one triangle; Normals and UVs run in parallel with Coords.
type Solid struct {
	Coords  []mgl64.Vec3
	Normals []mgl64.Vec3
	UVs     []mgl64.Vec2
}

func (s *Solid) TriangleCount() int {
	return len(s.Coords) / 3
}

func (s *Solid) Triangle(i int) (mgl64.Vec3, mgl64.Vec3, mgl64.Vec3) {
	return s.Coords[i*3], s.Coords[i*3+1], s.Coords[i*3+2]
}

// Transform returns the coordinates mapped through m.
func (s *Solid) Transform(m mgl64.Mat4) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(s.Coords))
	for i, p := range s.Coords {
		out[i] = transformPoint(m, p)
	}
	return out
}

// addTri appends one flat shaded triangle. The normal follows the winding.
func (s *Solid) addTri(a, b, c mgl64.Vec3, uva, uvb, uvc mgl64.Vec2) {
	n, ok := normalize(b.Sub(a).Cross(c.Sub(a)))
	if !ok {
		n = vecZ
	}
	s.Coords = append(s.Coords, a, b, c)
	s.Normals = append(s.Normals, n, n, n)
	s.UVs = append(s.UVs, uva, uvb, uvc)
}

// UnitCube returns an axis aligned cube centred on the origin with a half
// extent of 1.
func UnitCube() *Solid {
	v000 := mgl64.Vec3{-1, -1, -1}
	v100 := mgl64.Vec3{1, -1, -1}
	v010 := mgl64.Vec3{-1, 1, -1}
	v110 := mgl64.Vec3{1, 1, -1}
	v001 := mgl64.Vec3{-1, -1, 1}
	v101 := mgl64.Vec3{1, -1, 1}
	v011 := mgl64.Vec3{-1, 1, 1}
	v111 := mgl64.Vec3{1, 1, 1}

	quads := [][4]mgl64.Vec3{
		{v010, v000, v001, v011}, // -x
		{v100, v110, v111, v101}, // +x
		{v000, v100, v101, v001}, // -y
		{v110, v010, v011, v111}, // +y
		{v010, v110, v100, v000}, // -z
		{v001, v101, v111, v011}, // +z
	}

	uv00 := mgl64.Vec2{0, 0}
	uv10 := mgl64.Vec2{1, 0}
	uv01 := mgl64.Vec2{0, 1}
	uv11 := mgl64.Vec2{1, 1}

	s := &Solid{}
	for _, q := range quads {
		s.addTri(q[0], q[1], q[2], uv00, uv10, uv11)
		s.addTri(q[0], q[2], q[3], uv00, uv11, uv01)
	}
	return s
}

// UnitCylinder returns a cylinder along z from -1 to 1. Either radius may be
// zero, which collapses that end to a point.
func UnitCylinder(segs int, radius0, radius1 float64, bottomCap, topCap bool) *Solid {
	s := &Solid{}
	if segs < 3 {
		segs = 3
	}

	vc0 := mgl64.Vec3{0, 0, -1}
	vc1 := mgl64.Vec3{0, 0, 1}
	uvc := mgl64.Vec2{.5, .5}
	fs := float64(segs)

	for i := 0; i < segs; i++ {
		a0 := mgl64.DegToRad(360 * float64(i) / fs)
		a1 := mgl64.DegToRad(360 * float64(i+1) / fs)
		sin0, cos0 := math.Sin(a0), math.Cos(a0)
		sin1, cos1 := math.Sin(a1), math.Cos(a1)

		v00 := mgl64.Vec3{sin0 * radius0, cos0 * radius0, -1}
		v10 := mgl64.Vec3{sin1 * radius0, cos1 * radius0, -1}
		v01 := mgl64.Vec3{sin0 * radius1, cos0 * radius1, 1}
		v11 := mgl64.Vec3{sin1 * radius1, cos1 * radius1, 1}

		uv00 := mgl64.Vec2{float64(i) / fs, 0}
		uv10 := mgl64.Vec2{float64(i+1) / fs, 0}
		uv01 := mgl64.Vec2{float64(i) / fs, 1}
		uv11 := mgl64.Vec2{float64(i+1) / fs, 1}

		if radius0 != 0 {
			s.addTri(v00, v11, v10, uv00, uv11, uv10)
		}
		if radius1 != 0 {
			s.addTri(v00, v01, v11, uv00, uv01, uv11)
		}
		if topCap && radius1 != 0 {
			s.addTri(v01, vc1, v11, mgl64.Vec2{sin0, cos0}, uvc, mgl64.Vec2{sin1, cos1})
		}
		if bottomCap && radius0 != 0 {
			s.addTri(v00, v10, vc0, mgl64.Vec2{sin0, cos0}, mgl64.Vec2{sin1, cos1}, uvc)
		}
	}
	return s
}

// UnitCone is a cylinder whose top end has collapsed to the apex at z = 1.
func UnitCone(segs int, radius float64, cap bool) *Solid {
	return UnitCylinder(segs, radius, 0, cap, false)
}

// UnitSphere returns a latitude/longitude sphere of radius 1. The poles sit on
// the z axis.
func UnitSphere(segsLat, segsLong int) *Solid {
	s := &Solid{}
	if segsLat < 2 {
		segsLat = 2
	}
	if segsLong < 3 {
		segsLong = 3
	}
	fLat, fLong := float64(segsLat), float64(segsLong)

	for la := 0; la < segsLat; la++ {
		t0 := mgl64.DegToRad(180 * float64(la) / fLat)
		t1 := mgl64.DegToRad(180 * float64(la+1) / fLat)
		z0, z1 := math.Cos(t0), math.Cos(t1)
		r0, r1 := math.Sin(t0), math.Sin(t1)

		for lo := 0; lo < segsLong; lo++ {
			p0 := mgl64.DegToRad(360 * float64(lo) / fLong)
			p1 := mgl64.DegToRad(360 * float64(lo+1) / fLong)
			cx0, cx1 := math.Sin(p0), math.Sin(p1)
			cy0, cy1 := math.Cos(p0), math.Cos(p1)

			v00 := mgl64.Vec3{cx0 * r0, cy0 * r0, z0}
			v10 := mgl64.Vec3{cx1 * r0, cy1 * r0, z0}
			v01 := mgl64.Vec3{cx0 * r1, cy0 * r1, z1}
			v11 := mgl64.Vec3{cx1 * r1, cy1 * r1, z1}

			uv00 := mgl64.Vec2{float64(lo) / fLong, float64(la) / fLat}
			uv10 := mgl64.Vec2{float64(lo+1) / fLong, float64(la) / fLat}
			uv01 := mgl64.Vec2{float64(lo) / fLong, float64(la+1) / fLat}
			uv11 := mgl64.Vec2{float64(lo+1) / fLong, float64(la+1) / fLat}

			// The first and last bands would produce zero area triangles at the poles.
			if la != 0 {
				s.addTri(v00, v10, v11, uv00, uv10, uv11)
			}
			if la != segsLat-1 {
				s.addTri(v00, v11, v01, uv00, uv11, uv01)
			}
		}
	}
	return s
}

// UnitTorus returns a torus lying in the xy plane. Each ring is built by
// rotating the radial vector around the tube tangent.
func UnitTorus(radius, ringRadius float64, segsU, segsV int) *Solid {
	s := &Solid{}
	if segsU < 3 {
		segsU = 3
	}
	if segsV < 3 {
		segsV = 3
	}
	fu, fv := float64(segsU), float64(segsV)

	for i := 0; i < segsU; i++ {
		a0 := mgl64.DegToRad(360 * float64(i) / fu)
		a1 := mgl64.DegToRad(360 * float64(i+1) / fu)
		c0 := mgl64.Vec3{math.Sin(a0) * radius, math.Cos(a0) * radius, 0}
		c1 := mgl64.Vec3{math.Sin(a1) * radius, math.Cos(a1) * radius, 0}

		dir0, _ := normalize(c0)
		dir1, _ := normalize(c1)
		dir0 = dir0.Mul(ringRadius)
		dir1 = dir1.Mul(ringRadius)

		tan0, _ := normalize(dir0.Cross(vecZ))
		tan1, _ := normalize(dir1.Cross(vecZ))

		for j := 0; j < segsV; j++ {
			b0 := mgl64.DegToRad(360 * float64(j) / fv)
			b1 := mgl64.DegToRad(360 * float64(j+1) / fv)

			p00 := mgl64.QuatRotate(b0, tan0).Rotate(dir0).Add(c0)
			p01 := mgl64.QuatRotate(b1, tan0).Rotate(dir0).Add(c0)
			p10 := mgl64.QuatRotate(b0, tan1).Rotate(dir1).Add(c1)
			p11 := mgl64.QuatRotate(b1, tan1).Rotate(dir1).Add(c1)

			uv00 := mgl64.Vec2{float64(i) / fu, float64(j) / fv}
			uv10 := mgl64.Vec2{float64(i+1) / fu, float64(j) / fv}
			uv01 := mgl64.Vec2{float64(i) / fu, float64(j+1) / fv}
			uv11 := mgl64.Vec2{float64(i+1) / fu, float64(j+1) / fv}

			s.addTri(p00, p11, p10, uv00, uv11, uv10)
			s.addTri(p00, p01, p11, uv00, uv01, uv11)
		}
	}
	return s
}
