package renderer

import (
	"math"

	"github.com/df07/go-scanline-tracer/pkg/core"
	"github.com/df07/go-scanline-tracer/pkg/geometry"
	"github.com/df07/go-scanline-tracer/pkg/material"
)

// shadowAcneEpsilon keeps scattered rays from re-hitting their own surface
const shadowAcneEpsilon = 0.001

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() *Camera
	GetWorld() geometry.Hittable
	GetMaterials() *material.Table
}

// PathOutcome records how a traced path terminated
type PathOutcome int

const (
	// PathBackground means the path escaped to the sky
	PathBackground PathOutcome = iota
	// PathAbsorbed means a material absorbed the path
	PathAbsorbed
	// PathDepthExceeded means the bounce budget ran out
	PathDepthExceeded
)

func (o PathOutcome) String() string {
	switch o {
	case PathBackground:
		return "background"
	case PathAbsorbed:
		return "absorbed"
	case PathDepthExceeded:
		return "depth-exceeded"
	}
	return "unknown"
}

// backgroundGradient returns a gradient color based on ray direction
func (c *Camera) backgroundGradient(r core.Ray) core.Color {
	// Normalize the ray direction to get consistent results
	unitDirection := r.Direction.Normalize()

	// Use the y-component to create a gradient (map from -1,1 to 0,1)
	t := 0.5 * (unitDirection.Y + 1.0)

	return c.config.BackgroundBottom.Lerp(c.config.BackgroundTop, t)
}

// TracePath follows a single path through the world and reports its
// color together with how it terminated and the number of bounces taken
func (c *Camera) TracePath(ray core.Ray, world geometry.Hittable, materials *material.Table, sampler core.Sampler) (core.Color, PathOutcome, int) {
	attenuation := core.NewColor(1, 1, 1)
	rayT := core.NewInterval(shadowAcneEpsilon, math.Inf(1))

	for depth := 0; depth < c.config.MaxDepth; depth++ {
		hit, isHit := world.Hit(ray, rayT)
		if !isHit {
			return attenuation.MultiplyVec(c.backgroundGradient(ray)), PathBackground, depth
		}

		scatter, didScatter := materials.Get(hit.Material).Scatter(ray, hit, sampler)
		if !didScatter {
			return core.Color{}, PathAbsorbed, depth
		}

		attenuation = attenuation.MultiplyVec(scatter.Attenuation)
		ray = scatter.Scattered
	}

	// If we've exceeded the ray bounce limit, no more light is gathered
	return core.Color{}, PathDepthExceeded, c.config.MaxDepth
}

// PerformPathTrace returns the radiance carried back along ray
func (c *Camera) PerformPathTrace(ray core.Ray, world geometry.Hittable, materials *material.Table, sampler core.Sampler) core.Color {
	color, _, _ := c.TracePath(ray, world, materials, sampler)
	return color
}

// CalculateHitColor averages SamplesPerPixel paths through the pixel
// around pixelCenter and returns a display-ready color in [0, 0.999]
func (c *Camera) CalculateHitColor(world geometry.Hittable, materials *material.Table, pixelCenter core.Point3, sampler core.Sampler) core.Color {
	var colorAccum core.Color
	for sample := 0; sample < c.config.SamplesPerPixel; sample++ {
		ray := c.GetRay(pixelCenter, sampler)
		colorAccum = colorAccum.Add(c.PerformPathTrace(ray, world, materials, sampler))
	}

	colorVec := colorAccum.Divide(float64(c.config.SamplesPerPixel))
	if c.config.Gamma > 1 {
		colorVec = colorVec.GammaCorrect(c.config.Gamma)
	}
	return colorVec.Clamp(0.0, 0.999)
}
