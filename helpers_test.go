package uvplane

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

const float64EqualityThreshold = 1e-9

func assertVec3Near(t *testing.T, want, got mgl64.Vec3, msgAndArgs ...interface{}) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], float64EqualityThreshold, msgAndArgs...)
	}
}

func assertVec2Near(t *testing.T, want, got mgl64.Vec2, msgAndArgs ...interface{}) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], float64EqualityThreshold, msgAndArgs...)
	}
}

func assertMat4Near(t *testing.T, want, got mgl64.Mat4, msgAndArgs ...interface{}) {
	t.Helper()
	if !want.ApproxEqualThreshold(got, float64EqualityThreshold) {
		assert.Fail(t, "matrices differ", "want\n%v\ngot\n%v", want, got)
		if len(msgAndArgs) > 0 {
			t.Log(msgAndArgs...)
		}
	}
}

// recordingRenderer keeps every draw call.
type recordingRenderer struct {
	calls  int
	coords [][]mgl64.Vec3
	colors []color.RGBA
}

func (r *recordingRenderer) DrawTriangles(coords []mgl64.Vec3, col color.RGBA) {
	r.calls++
	r.coords = append(r.coords, coords)
	r.colors = append(r.colors, col)
}

// fakeController records matrix updates without laying anything out.
type fakeController struct {
	matrix  mgl64.Mat4
	opts    Options
	measure ViewMeasure
	updates []mgl64.Mat4
}

func newFakeController(m mgl64.Mat4) *fakeController {
	return &fakeController{matrix: m, opts: DefaultOptions(), measure: FixedMeasure(1)}
}

func (c *fakeController) ControlMatrix() mgl64.Mat4 { return c.matrix }
func (c *fakeController) Options() Options          { return c.opts }
func (c *fakeController) Measure() ViewMeasure      { return c.measure }
func (c *fakeController) UpdateProjectionMatrix(m mgl64.Mat4) {
	c.matrix = m
	c.updates = append(c.updates, m)
}

func downRay(x, y float64) PointerEvent {
	return PointerEvent{Kind: PointerDown, Origin: mgl64.Vec3{x, y, 5}, Dir: mgl64.Vec3{0, 0, -1}}
}

func moveRay(x, y float64) PointerEvent {
	return PointerEvent{Kind: PointerMove, Origin: mgl64.Vec3{x, y, 5}, Dir: mgl64.Vec3{0, 0, -1}}
}
