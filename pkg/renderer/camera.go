package renderer

import (
	"math"

	"github.com/df07/go-scanline-tracer/pkg/core"
)

// CameraConfig contains all parameters needed to create a camera
type CameraConfig struct {
	Width            int         // Image width in pixels
	Height           int         // Image height in pixels
	Center           core.Point3 // Camera position
	LookAt           core.Point3 // Point the camera is looking at
	Up               core.Vec3   // Up direction (usually 0,1,0)
	VFov             float64     // Vertical field of view in degrees
	DefocusAngle     float64     // Cone angle in degrees of rays through each pixel (0 = pinhole)
	FocusDistance    float64     // Distance to the plane of perfect focus (0 = auto)
	SamplesPerPixel  int         // Rays averaged per pixel
	MaxDepth         int         // Maximum number of bounces per path
	Gamma            float64     // Output gamma (values <= 1 leave colors linear)
	BackgroundTop    core.Color  // Sky color straight up
	BackgroundBottom core.Color  // Sky color straight down
}

// DefaultCameraConfig returns the camera used when a scene does not set one
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Width:            640,
		Height:           480,
		Center:           core.NewVec3(-2, 2, 1),
		LookAt:           core.NewVec3(0, 0, -1),
		Up:               core.NewVec3(0, 1, 0),
		VFov:             20,
		SamplesPerPixel:  10,
		MaxDepth:         10,
		BackgroundTop:    core.NewColor(0.5, 0.7, 1.0),
		BackgroundBottom: core.NewColor(1.0, 1.0, 1.0),
	}
}

// MergeCameraConfig returns base with every non-zero field of override
// applied. A zero field means unset, so an override cannot set a field to 0.
func MergeCameraConfig(base, override CameraConfig) CameraConfig {
	result := base
	if override.Width != 0 {
		result.Width = override.Width
	}
	if override.Height != 0 {
		result.Height = override.Height
	}
	if override.Center != (core.Vec3{}) {
		result.Center = override.Center
	}
	if override.LookAt != (core.Vec3{}) {
		result.LookAt = override.LookAt
	}
	if override.Up != (core.Vec3{}) {
		result.Up = override.Up
	}
	if override.VFov != 0 {
		result.VFov = override.VFov
	}
	if override.DefocusAngle != 0 {
		result.DefocusAngle = override.DefocusAngle
	}
	if override.FocusDistance != 0 {
		result.FocusDistance = override.FocusDistance
	}
	if override.SamplesPerPixel != 0 {
		result.SamplesPerPixel = override.SamplesPerPixel
	}
	if override.MaxDepth != 0 {
		result.MaxDepth = override.MaxDepth
	}
	if override.Gamma != 0 {
		result.Gamma = override.Gamma
	}
	if override.BackgroundTop != (core.Vec3{}) {
		result.BackgroundTop = override.BackgroundTop
	}
	if override.BackgroundBottom != (core.Vec3{}) {
		result.BackgroundBottom = override.BackgroundBottom
	}
	return result
}

// Camera generates rays for rendering. It is built once from a
// CameraConfig and never changes during a render.
type Camera struct {
	config CameraConfig

	center            core.Point3
	pixel00           core.Point3 // Center of the upper-left pixel
	viewportUpperLeft core.Point3
	deltaU            core.Vec3 // Offset to the pixel to the right
	deltaV            core.Vec3 // Offset to the pixel below
	u, v, w           core.Vec3 // Camera frame basis vectors
	defocusDiskU      core.Vec3
	defocusDiskV      core.Vec3
}

// NewCamera creates a camera with the given configuration
func NewCamera(config CameraConfig) *Camera {
	config.Width = max(1, config.Width)
	config.Height = max(1, config.Height)
	if config.SamplesPerPixel <= 0 {
		config.SamplesPerPixel = 1
	}
	if config.MaxDepth < 0 {
		config.MaxDepth = 0
	}

	focusDistance := config.FocusDistance
	if focusDistance <= 0 {
		focusDistance = config.Center.Subtract(config.LookAt).Length()
	}

	// Viewport dimensions at the focus plane
	theta := config.VFov * math.Pi / 180
	viewportHeight := 2 * math.Tan(theta/2) * focusDistance
	viewportWidth := viewportHeight * float64(config.Width) / float64(config.Height)

	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	// Vectors across the horizontal and down the vertical viewport edges
	viewportU := u.Multiply(viewportWidth)
	viewportV := v.Multiply(viewportHeight)

	deltaU := viewportU.Divide(float64(config.Width))
	deltaV := viewportV.Negate().Divide(float64(config.Height))

	viewportUpperLeft := config.Center.
		Subtract(w.Multiply(focusDistance)).
		Subtract(viewportU.Multiply(0.5)).
		Add(viewportV.Multiply(0.5))
	pixel00 := viewportUpperLeft.Add(deltaU.Add(deltaV).Multiply(0.5))

	defocusRadius := focusDistance * math.Tan(config.DefocusAngle/2*math.Pi/180)

	return &Camera{
		config:            config,
		center:            config.Center,
		pixel00:           pixel00,
		viewportUpperLeft: viewportUpperLeft,
		deltaU:            deltaU,
		deltaV:            deltaV,
		u:                 u,
		v:                 v,
		w:                 w,
		defocusDiskU:      u.Multiply(defocusRadius),
		defocusDiskV:      v.Multiply(defocusRadius),
	}
}

// Config returns the normalized configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}

// Width returns the image width in pixels
func (c *Camera) Width() int { return c.config.Width }

// Height returns the image height in pixels
func (c *Camera) Height() int { return c.config.Height }

// Center returns the camera position
func (c *Camera) Center() core.Point3 { return c.center }

// ViewportUpperLeft returns the upper-left corner of the viewport
func (c *Camera) ViewportUpperLeft() core.Point3 { return c.viewportUpperLeft }

// Pixel00 returns the center of the upper-left pixel
func (c *Camera) Pixel00() core.Point3 { return c.pixel00 }

// PixelDeltas returns the offsets between horizontally and vertically adjacent pixels
func (c *Camera) PixelDeltas() (deltaU, deltaV core.Vec3) { return c.deltaU, c.deltaV }

// PixelCenter returns the world-space center of pixel (i, j), with j = 0 at the top
func (c *Camera) PixelCenter(i, j int) core.Point3 {
	return c.pixel00.
		Add(c.deltaU.Multiply(float64(i))).
		Add(c.deltaV.Multiply(float64(j)))
}

// GetRay generates a ray towards a random point in the pixel around
// pixelCenter, originating from the defocus disk when depth of field is on
func (c *Camera) GetRay(pixelCenter core.Point3, sampler core.Sampler) core.Ray {
	offset := core.SampleSquare(sampler)
	pixelSample := pixelCenter.
		Add(c.deltaU.Multiply(offset.X)).
		Add(c.deltaV.Multiply(offset.Y))

	origin := c.center
	if c.config.DefocusAngle > 0 {
		origin = c.defocusDiskSample(sampler)
	}

	return core.NewRay(origin, pixelSample.Subtract(origin))
}

// defocusDiskSample returns a random point on the camera's defocus disk
func (c *Camera) defocusDiskSample(sampler core.Sampler) core.Point3 {
	p := core.RandomInUnitDisk(sampler)
	return c.center.Add(c.defocusDiskU.Multiply(p.X)).Add(c.defocusDiskV.Multiply(p.Y))
}
