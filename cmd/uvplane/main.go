package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/smasonuk/uvplane"
)

const (
	screenWidth  = 960
	screenHeight = 720

	checkerTiles = 4
)

var (
	checkerDark  = color.RGBA{R: 70, G: 70, B: 90, A: 255}
	checkerLight = color.RGBA{R: 190, G: 190, B: 210, A: 255}
)

type Game struct {
	camera  *Camera
	control *uvplane.UvPlaneControl
	mesh    *uvplane.Mesh
	opts    uvplane.Options
	painter *painter

	reloads <-chan uvplane.Options

	orbiting     bool
	lastX, lastY int
}

func NewGame(opts uvplane.Options, reloads <-chan uvplane.Options) (*Game, error) {
	g := &Game{
		camera:  NewCamera(mgl64.Vec3{}, 6),
		mesh:    uvplane.NewGridMesh(8, 8, 0.5),
		opts:    opts,
		painter: &painter{},
		reloads: reloads,
	}

	log.Println("Fitting control to mesh...")
	initial, err := uvplane.InitialMatrix(g.mesh, opts)
	if err != nil {
		return nil, err
	}

	g.control, err = uvplane.NewUvPlaneControl(initial, g.measure(), opts, g.applyProjection)
	if err != nil {
		return nil, err
	}
	g.applyProjection(initial)
	return g, nil
}

func (g *Game) applyProjection(m mgl64.Mat4) {
	if err := uvplane.ApplyProjection(g.mesh, m, g.opts.SelectedFacesOnly); err != nil {
		log.Println("error applying projection:", err)
	}
}

func (g *Game) measure() uvplane.ViewMeasure {
	viewProj := g.camera.Projection(screenWidth, screenHeight).Mul4(g.camera.View())
	return uvplane.ProjectedUnitMeasure(viewProj, g.camera.Up())
}

func (g *Game) pointer(kind uvplane.EventKind) (uvplane.PointerEvent, bool) {
	x, y := ebiten.CursorPosition()
	origin, dir, ok := g.camera.Ray(x, y, screenWidth, screenHeight)
	if !ok {
		return uvplane.PointerEvent{}, false
	}
	return uvplane.PointerEvent{
		Kind:     kind,
		Origin:   origin,
		Dir:      dir,
		Modifier: ebiten.IsKeyPressed(ebiten.KeyShift),
	}, true
}

func (g *Game) Update() error {
	select {
	case opts := <-g.reloads:
		log.Printf("Options reloaded: %+v", opts)
		g.opts = opts
		g.control.SetOptions(opts)
	default:
	}

	// Right button orbits, wheel zooms.
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		g.orbiting = true
		g.lastX, g.lastY = ebiten.CursorPosition()
	}
	if g.orbiting {
		x, y := ebiten.CursorPosition()
		g.camera.AddAngle(float64(y-g.lastY)/200.0, -float64(x-g.lastX)/200.0)
		g.lastX, g.lastY = x, y
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonRight) {
		g.orbiting = false
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.camera.Zoom(math.Pow(0.9, wy))
	}
	g.control.SetMeasure(g.measure())

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if ev, ok := g.pointer(uvplane.PointerDown); ok {
			g.control.HandleEvent(ev)
		}
	} else if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if ev, ok := g.pointer(uvplane.PointerMove); ok {
			g.control.HandleEvent(ev)
		}
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.control.HandleEvent(uvplane.PointerEvent{Kind: uvplane.PointerUp})
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		g.control.ScaleBasis(1, 2)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		g.control.ScaleBasis(1, .5)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		g.control.ScaleBasis(2, 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		g.control.ScaleBasis(.5, 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		fmt.Println(formatMatrix(g.control.ControlMatrix()))
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		if !g.control.Cancel() {
			return ebiten.Termination
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	g.painter.Reset()
	g.drawMesh()
	g.control.Draw(g.painter)

	viewProj := g.camera.Projection(screenWidth, screenHeight).Mul4(g.camera.View())
	g.painter.Flush(screen, viewProj, g.camera.GetPosition(), screenWidth, screenHeight)

	status := "idle"
	if h := g.control.Dragging(); h != nil {
		status = fmt.Sprintf("dragging %s (%s)", h.Name(), h.Kind())
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %0.2f  %s\nLMB drag handles, RMB orbit, Shift snap, arrows scale, Enter print, Esc cancel/quit",
		ebiten.ActualFPS(), status))
}

// drawMesh tints each face by the uv checker tile under its centre.
func (g *Game) drawMesh() {
	for _, f := range g.mesh.Faces {
		if len(f.Verts) < 3 || len(f.UVs) == 0 {
			continue
		}
		var uv mgl64.Vec2
		for _, t := range f.UVs {
			uv = uv.Add(t)
		}
		uv = uv.Mul(1 / float64(len(f.UVs)))

		col := checkerDark
		cu := int(math.Floor(uv[0] * checkerTiles))
		cv := int(math.Floor(uv[1] * checkerTiles))
		if (cu+cv)%2 == 0 {
			col = checkerLight
		}

		coords := make([]mgl64.Vec3, 0, (len(f.Verts)-2)*3)
		p0 := g.mesh.WorldPoint(f.Verts[0])
		for i := 2; i < len(f.Verts); i++ {
			coords = append(coords, p0, g.mesh.WorldPoint(f.Verts[i-1]), g.mesh.WorldPoint(f.Verts[i]))
		}
		g.painter.DrawTriangles(coords, col)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func formatMatrix(m mgl64.Mat4) string {
	s := ""
	for r := 0; r < 4; r++ {
		row := m.Row(r)
		s += fmt.Sprintf("% .4f % .4f % .4f % .4f\n", row[0], row[1], row[2], row[3])
	}
	return s
}

func main() {
	configPath := flag.String("config", "", "options file (.toml, .yaml or .yml), reloaded when it changes")
	flag.Parse()

	opts := uvplane.DefaultOptions()
	reloads := make(chan uvplane.Options, 1)
	if *configPath != "" {
		var err error
		opts, err = uvplane.LoadOptionsFile(*configPath)
		if err != nil {
			log.Fatal(err)
		}
		watcher, err := watchOptions(*configPath, reloads)
		if err != nil {
			log.Fatal(err)
		}
		defer watcher.Close()
	}

	game, err := NewGame(opts, reloads)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("UV Plane Layout")
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
