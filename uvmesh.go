package uvplane

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Face is one polygon of a mesh with a uv per corner. Verts are in the mesh's
// local space.
type Face struct {
	Verts    []mgl64.Vec3
	UVs      []mgl64.Vec2
	Selected bool
}

// Normal is the unit normal from the first three corners, +z for faces with
// fewer than three or collinear corners.
func (f *Face) Normal() mgl64.Vec3 {
	if len(f.Verts) < 3 {
		return vecZ
	}
	u := f.Verts[1].Sub(f.Verts[0])
	v := f.Verts[2].Sub(f.Verts[1])
	n, ok := normalize(u.Cross(v))
	if !ok {
		return vecZ
	}
	return n
}

// MidPoint is the mean of the face's corners.
func (f *Face) MidPoint() mgl64.Vec3 {
	if len(f.Verts) == 0 {
		return mgl64.Vec3{}
	}
	var sum mgl64.Vec3
	for _, p := range f.Verts {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(f.Verts)))
}

// Mesh is the minimal surface the uv writer needs: faces, a local to world
// transform and the index of the active face.
type Mesh struct {
	Transform mgl64.Mat4
	Faces     []Face
	Active    int
}

// Empty reports whether there is nothing to project onto.
func (m *Mesh) Empty(selectedOnly bool) bool {
	if m == nil {
		return true
	}
	for _, f := range m.Faces {
		if !selectedOnly || f.Selected {
			return false
		}
	}
	return true
}

// ActiveFace returns the active face, falling back to the first face when
// Active is out of range.
func (m *Mesh) ActiveFace() (*Face, bool) {
	if m == nil || len(m.Faces) == 0 {
		return nil, false
	}
	if m.Active >= 0 && m.Active < len(m.Faces) {
		return &m.Faces[m.Active], true
	}
	return &m.Faces[0], true
}

// WorldNormal maps a local normal through the inverse transpose of the mesh
// transform.
func (m *Mesh) WorldNormal(n mgl64.Vec3) mgl64.Vec3 {
	if m.Transform.Det() == 0 {
		return n
	}
	n2w := m.Transform.Inv().Transpose()
	return transformDir(n2w, n)
}

func (m *Mesh) WorldPoint(p mgl64.Vec3) mgl64.Vec3 {
	return transformPoint(m.Transform, p)
}

// ApplyProjection writes uv = (inverse(proj) * world).xy into every face
// corner, or only into selected faces when selectedOnly is set.
func ApplyProjection(mesh *Mesh, proj mgl64.Mat4, selectedOnly bool) error {
	if mesh == nil {
		return fmt.Errorf("could not apply projection: %w", ErrEmptyMesh)
	}
	if proj.Det() == 0 {
		return fmt.Errorf("could not apply projection: %w", ErrSingularMatrix)
	}
	l2uv := proj.Inv().Mul4(mesh.Transform)

	for fi := range mesh.Faces {
		f := &mesh.Faces[fi]
		if selectedOnly && !f.Selected {
			continue
		}
		if len(f.UVs) != len(f.Verts) {
			f.UVs = make([]mgl64.Vec2, len(f.Verts))
		}
		for vi, p := range f.Verts {
			uv := transformPoint(l2uv, p)
			f.UVs[vi] = mgl64.Vec2{uv[0], uv[1]}
		}
	}
	return nil
}

// NewGridMesh builds an nx by ny grid of selected quads of the given cell
// size in the xy plane, centred on the origin and facing +z.
func NewGridMesh(nx, ny int, size float64) *Mesh {
	if nx < 1 {
		nx = 1
	}
	if ny < 1 {
		ny = 1
	}
	x0 := -float64(nx) * size / 2
	y0 := -float64(ny) * size / 2

	m := &Mesh{Transform: mgl64.Ident4()}
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			ax, ay := x0+float64(x)*size, y0+float64(y)*size
			m.Faces = append(m.Faces, Face{
				Verts: []mgl64.Vec3{
					{ax, ay, 0},
					{ax + size, ay, 0},
					{ax + size, ay + size, 0},
					{ax, ay + size, 0},
				},
				UVs:      make([]mgl64.Vec2, 4),
				Selected: true,
			})
		}
	}
	return m
}
