package server

import (
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"strconv"

	"github.com/df07/go-scanline-tracer/pkg/core"
	"github.com/df07/go-scanline-tracer/pkg/material"
	"github.com/df07/go-scanline-tracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	MaterialType string                 `json:"materialType,omitempty"`
	SphereIndex  int                    `json:"sphereIndex"`
	Point        [3]float64             `json:"point"`
	Normal       [3]float64             `json:"normal"`
	Distance     float64                `json:"distance"`
	FrontFace    bool                   `json:"frontFace"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
	Path         PathInfo               `json:"path"`
}

// PathInfo describes one traced path through the inspected pixel
type PathInfo struct {
	Outcome string     `json:"outcome"`
	Bounces int        `json:"bounces"`
	Color   [3]float64 `json:"color"`
}

func vecArray(v core.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

func hexColor(c core.Color) string {
	c = c.Clamp(0, 1)
	return fmt.Sprintf("#%02x%02x%02x", int(c.X*255), int(c.Y*255), int(c.Z*255))
}

// extractMaterialInfo describes a material for the inspector
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch mat.Kind {
	case material.Lambertian:
		properties["albedo"] = vecArray(mat.Albedo)
		properties["color"] = hexColor(mat.Albedo)
	case material.Metal:
		properties["albedo"] = vecArray(mat.Albedo)
		properties["color"] = hexColor(mat.Albedo)
		properties["fuzz"] = mat.Fuzz()
	case material.Dielectric:
		properties["refractiveIndex"] = mat.RefractiveIndex()
		properties["color"] = "#ffffff" // Clear glass
	}
	return mat.Kind.String(), properties
}

// InspectResult contains the nearest hit through a pixel center
type InspectResult struct {
	Hit         bool
	HitRecord   core.HitRecord
	SphereIndex int // -1 when nothing was hit
}

// inspectPixel casts an unjittered ray through the center of pixel (x, y)
// and finds which sphere it hits first
func inspectPixel(sceneObj *scene.Scene, pixelX, pixelY int) (core.Ray, InspectResult) {
	camera := sceneObj.GetCamera()
	ray := core.NewRay(camera.Center(), camera.PixelCenter(pixelX, pixelY).Subtract(camera.Center()))

	rayT := core.NewInterval(0.001, math.Inf(1))
	hit, isHit := sceneObj.World.Hit(ray, rayT)
	if !isHit {
		return ray, InspectResult{SphereIndex: -1}
	}

	// The world only reports the nearest hit, find the sphere that produced it
	for i := 0; i < sceneObj.World.Len(); i++ {
		sphereHit, ok := sceneObj.World.Sphere(i).Hit(ray, core.NewInterval(rayT.Min, hit.T+0.001))
		if ok && sphereHit.T == hit.T {
			return ray, InspectResult{Hit: true, HitRecord: hit, SphereIndex: i}
		}
	}
	return ray, InspectResult{Hit: true, HitRecord: hit, SphereIndex: -1}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	overrides, err := parseCameraParams(query)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}
	seed, err := parseSeedParam(query)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(query.Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(query.Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	sceneObj, err := s.createScene(query.Get("scene"), seed, overrides)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	camera := sceneObj.GetCamera()
	if pixelX < 0 || pixelX >= camera.Width() || pixelY < 0 || pixelY >= camera.Height() {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	ray, result := inspectPixel(sceneObj, pixelX, pixelY)

	sampler := core.NewRandomSampler(rand.New(rand.NewSource(seed)))
	color, outcome, bounces := camera.TracePath(ray, sceneObj.World, sceneObj.Materials, sampler)
	response := InspectResponse{
		Hit:         result.Hit,
		SphereIndex: result.SphereIndex,
		Path: PathInfo{
			Outcome: outcome.String(),
			Bounces: bounces,
			Color:   vecArray(color),
		},
	}

	if result.Hit {
		materialType, materialProps := extractMaterialInfo(sceneObj.Materials.Get(result.HitRecord.Material))
		properties := map[string]interface{}{"material": materialProps}
		if result.SphereIndex >= 0 {
			sphere := sceneObj.World.Sphere(result.SphereIndex)
			properties["geometry"] = map[string]interface{}{
				"center": vecArray(sphere.Center),
				"radius": sphere.Radius,
			}
		}

		response.MaterialType = materialType
		response.Point = vecArray(result.HitRecord.Point)
		response.Normal = vecArray(result.HitRecord.Normal)
		response.Distance = result.HitRecord.T
		response.FrontFace = result.HitRecord.FrontFace
		response.Properties = properties
	}

	writeJSON(w, http.StatusOK, response)
}
