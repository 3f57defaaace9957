package renderer

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/df07/go-scanline-tracer/pkg/core"
)

func TestCamera_PixelGrid(t *testing.T) {
	camera := NewCamera(CameraConfig{
		Width:  2,
		Height: 2,
		Center: core.NewVec3(0, 0, 0),
		LookAt: core.NewVec3(0, 0, -1),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   90,
	})

	tests := []struct {
		name     string
		got      core.Vec3
		expected core.Vec3
	}{
		{"viewport upper left", camera.ViewportUpperLeft(), core.NewVec3(-1, 1, -1)},
		{"pixel (0,0)", camera.PixelCenter(0, 0), core.NewVec3(-0.5, 0.5, -1)},
		{"pixel (1,0)", camera.PixelCenter(1, 0), core.NewVec3(0.5, 0.5, -1)},
		{"pixel (0,1)", camera.PixelCenter(0, 1), core.NewVec3(-0.5, -0.5, -1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.expected, tt.got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}

	deltaU, deltaV := camera.PixelDeltas()
	if diff := cmp.Diff(core.NewVec3(1, 0, 0), deltaU, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("deltaU mismatch (-want +got):\n%s", diff)
	}
	// Rows advance downwards
	if diff := cmp.Diff(core.NewVec3(0, -1, 0), deltaV, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("deltaV mismatch (-want +got):\n%s", diff)
	}
}

func TestCamera_GetRayStaysInPixel(t *testing.T) {
	camera := NewCamera(CameraConfig{
		Width:  4,
		Height: 4,
		Center: core.NewVec3(0, 0, 0),
		LookAt: core.NewVec3(0, 0, -1),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   90,
	})
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(1)))
	pixel := camera.PixelCenter(1, 2)

	for i := 0; i < 200; i++ {
		ray := camera.GetRay(pixel, sampler)
		if ray.Origin != camera.Center() {
			t.Fatalf("Expected pinhole origin %v, got %v", camera.Center(), ray.Origin)
		}
		// Pixels are 0.5 units wide on the focus plane at z = -1
		target := ray.At(1)
		if math.Abs(target.X-pixel.X) > 0.25 || math.Abs(target.Y-pixel.Y) > 0.25 || math.Abs(target.Z+1) > 1e-9 {
			t.Fatalf("Ray target %v outside pixel around %v", target, pixel)
		}
	}
}

func TestCamera_DefocusOrigins(t *testing.T) {
	camera := NewCamera(CameraConfig{
		Width:         4,
		Height:        4,
		Center:        core.NewVec3(0, 0, 0),
		LookAt:        core.NewVec3(0, 0, -10),
		Up:            core.NewVec3(0, 1, 0),
		VFov:          20,
		DefocusAngle:  10,
		FocusDistance: 10,
	})
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(3)))
	radius := 10 * math.Tan(5*math.Pi/180)

	moved := false
	for i := 0; i < 100; i++ {
		ray := camera.GetRay(camera.PixelCenter(2, 2), sampler)
		offset := ray.Origin.Subtract(camera.Center())
		if offset.Length() > radius+1e-9 || math.Abs(offset.Z) > 1e-9 {
			t.Fatalf("Origin offset %v outside defocus disk of radius %f", offset, radius)
		}
		if offset.Length() > 0 {
			moved = true
		}
	}
	if !moved {
		t.Error("Expected defocus blur to move ray origins")
	}
}

func TestMergeCameraConfig(t *testing.T) {
	base := DefaultCameraConfig()
	merged := MergeCameraConfig(base, CameraConfig{Width: 32, MaxDepth: 3, Center: core.NewVec3(1, 2, 3)})

	want := base
	want.Width = 32
	want.MaxDepth = 3
	want.Center = core.NewVec3(1, 2, 3)
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Errorf("MergeCameraConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestNewCamera_NormalizesConfig(t *testing.T) {
	camera := NewCamera(CameraConfig{Width: -5, Height: 0, SamplesPerPixel: 0, MaxDepth: -1, VFov: 45, LookAt: core.NewVec3(0, 0, -1), Up: core.NewVec3(0, 1, 0)})
	config := camera.Config()
	if config.Width != 1 || config.Height != 1 {
		t.Errorf("Expected 1x1 image, got %dx%d", config.Width, config.Height)
	}
	if config.SamplesPerPixel != 1 {
		t.Errorf("Expected 1 sample per pixel, got %d", config.SamplesPerPixel)
	}
	if config.MaxDepth != 0 {
		t.Errorf("Expected max depth 0, got %d", config.MaxDepth)
	}
}
