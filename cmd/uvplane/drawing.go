package main

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	whiteImage = ebiten.NewImage(3, 3)
	whiteSub   *ebiten.Image
)

func init() {
	whiteImage.Fill(color.White)
	whiteSub = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}

// maxBatchVertices keeps each DrawTriangles call within uint16 indices.
const maxBatchVertices = 65535 - 3

type triangle struct {
	p     [3]mgl64.Vec3
	col   color.RGBA
	depth float64
}

// painter collects world space triangles and paints them back to front.
type painter struct {
	tris []triangle
}

func (p *painter) DrawTriangles(coords []mgl64.Vec3, col color.RGBA) {
	for i := 0; i+2 < len(coords); i += 3 {
		p.tris = append(p.tris, triangle{p: [3]mgl64.Vec3{coords[i], coords[i+1], coords[i+2]}, col: col})
	}
}

func (p *painter) Reset() {
	p.tris = p.tris[:0]
}

// Flush projects the collected triangles, sorts them by distance from eye and
// fills them onto screen.
func (p *painter) Flush(screen *ebiten.Image, viewProj mgl64.Mat4, eye mgl64.Vec3, width, height int) {
	for i := range p.tris {
		t := &p.tris[i]
		mid := t.p[0].Add(t.p[1]).Add(t.p[2]).Mul(1.0 / 3)
		t.depth = mid.Sub(eye).Len()
	}
	sort.SliceStable(p.tris, func(i, j int) bool {
		return p.tris[i].depth > p.tris[j].depth
	})

	vertices := make([]ebiten.Vertex, 0, len(p.tris)*3)
	indices := make([]uint16, 0, len(p.tris)*3)

	flush := func() {
		if len(vertices) == 0 {
			return
		}
		op := &ebiten.DrawTrianglesOptions{}
		op.AntiAlias = true
		screen.DrawTriangles(vertices, indices, whiteSub, op)
		vertices = vertices[:0]
		indices = indices[:0]
	}

	for _, t := range p.tris {
		var xs, ys [3]float32
		visible := true
		for n, q := range t.p {
			clip := viewProj.Mul4x1(q.Vec4(1))
			if clip[3] <= 0 {
				visible = false
				break
			}
			xs[n] = float32((clip[0]/clip[3] + 1) / 2 * float64(width))
			ys[n] = float32((1 - clip[1]/clip[3]) / 2 * float64(height))
		}
		if !visible {
			continue
		}

		col := shade(t)
		if len(vertices) > maxBatchVertices {
			flush()
		}
		base := uint16(len(vertices))
		for n := 0; n < 3; n++ {
			vertices = append(vertices, vertex(xs[n], ys[n], col))
		}
		indices = append(indices, base, base+1, base+2)
	}
	flush()
}

// shade darkens triangles that face away from world z so solids read as 3D.
func shade(t triangle) color.RGBA {
	n := t.p[1].Sub(t.p[0]).Cross(t.p[2].Sub(t.p[0]))
	l := n.Len()
	if l == 0 {
		return t.col
	}
	f := 0.6 + 0.4*math.Abs(n.Dot(worldUp.Add(mgl64.Vec3{0.3, -0.5, 0}).Normalize())/l)
	return color.RGBA{
		R: uint8(float64(t.col.R) * f),
		G: uint8(float64(t.col.G) * f),
		B: uint8(float64(t.col.B) * f),
		A: t.col.A,
	}
}

func vertex(x, y float32, clr color.RGBA) ebiten.Vertex {
	return ebiten.Vertex{
		DstX:   x,
		DstY:   y,
		SrcX:   1,
		SrcY:   1,
		ColorR: float32(clr.R) / 255.0,
		ColorG: float32(clr.G) / 255.0,
		ColorB: float32(clr.B) / 255.0,
		ColorA: float32(clr.A) / 255.0,
	}
}
