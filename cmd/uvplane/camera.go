package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var worldUp = mgl64.Vec3{0, 0, 1}

// Camera orbits a target point. Yaw turns around world z and pitch tilts
// toward it.
type Camera struct {
	target   mgl64.Vec3
	yaw      float64
	pitch    float64
	distance float64
	fovy     float64
	near     float64
	far      float64
}

func NewCamera(target mgl64.Vec3, distance float64) *Camera {
	return &Camera{
		target:   target,
		yaw:      mgl64.DegToRad(-30),
		pitch:    mgl64.DegToRad(35),
		distance: distance,
		fovy:     mgl64.DegToRad(45),
		near:     0.05,
		far:      1000,
	}
}

func (c *Camera) GetPosition() mgl64.Vec3 {
	cp := math.Cos(c.pitch)
	offset := mgl64.Vec3{
		math.Sin(c.yaw) * cp,
		-math.Cos(c.yaw) * cp,
		math.Sin(c.pitch),
	}
	return c.target.Add(offset.Mul(c.distance))
}

func (c *Camera) AddAngle(pitch, yaw float64) {
	c.yaw += yaw
	c.pitch = mgl64.Clamp(c.pitch+pitch, -math.Pi/2+0.01, math.Pi/2-0.01)
}

func (c *Camera) Zoom(factor float64) {
	c.distance = mgl64.Clamp(c.distance*factor, 0.5, 200)
}

func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.GetPosition(), c.target, worldUp)
}

func (c *Camera) Projection(width, height int) mgl64.Mat4 {
	return mgl64.Perspective(c.fovy, float64(width)/float64(height), c.near, c.far)
}

// Up is the camera's up direction in world space.
func (c *Camera) Up() mgl64.Vec3 {
	v := c.View()
	return mgl64.Vec3{v.At(1, 0), v.At(1, 1), v.At(1, 2)}
}

// Ray returns the pick ray through the window pixel (x, y), with y growing
// downward as ebiten reports it.
func (c *Camera) Ray(x, y, width, height int) (mgl64.Vec3, mgl64.Vec3, bool) {
	view, proj := c.View(), c.Projection(width, height)
	wy := float64(height - y)

	near, err := mgl64.UnProject(mgl64.Vec3{float64(x), wy, 0}, view, proj, 0, 0, width, height)
	if err != nil {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	far, err := mgl64.UnProject(mgl64.Vec3{float64(x), wy, 1}, view, proj, 0, 0, width, height)
	if err != nil {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	dir := far.Sub(near)
	if dir.Len() == 0 {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	return near, dir.Normalize(), true
}
