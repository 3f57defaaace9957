package scene

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/df07/go-scanline-tracer/pkg/core"
	"github.com/df07/go-scanline-tracer/pkg/material"
	"github.com/df07/go-scanline-tracer/pkg/renderer"
)

func TestNewDefaultScene(t *testing.T) {
	s := NewDefaultScene()
	if s.GetPrimitiveCount() != 5 {
		t.Errorf("Expected 5 spheres, got %d", s.GetPrimitiveCount())
	}

	kinds := map[material.Kind]int{}
	for _, m := range s.Materials.All() {
		kinds[m.Kind]++
	}
	want := map[material.Kind]int{material.Lambertian: 2, material.Dielectric: 2, material.Metal: 1}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("material kinds mismatch (-want +got):\n%s", diff)
	}

	// Every sphere refers to a material in the table
	for i := 0; i < s.World.Len(); i++ {
		if idx := s.World.Sphere(i).Material; int(idx) >= s.Materials.Len() {
			t.Errorf("sphere %d refers to missing material %d", i, idx)
		}
	}
}

func TestNewDefaultScene_CameraOverrides(t *testing.T) {
	s := NewDefaultScene(renderer.CameraConfig{Width: 32, Height: 16, SamplesPerPixel: 2})
	camera := s.GetCamera()
	if camera.Width() != 32 || camera.Height() != 16 {
		t.Errorf("Expected 32x16 camera, got %dx%d", camera.Width(), camera.Height())
	}
	if s.CameraConfig.SamplesPerPixel != 2 {
		t.Errorf("Expected 2 samples per pixel, got %d", s.CameraConfig.SamplesPerPixel)
	}
	// Untouched fields keep the scene defaults
	if s.CameraConfig.Gamma != 2 {
		t.Errorf("Expected default gamma 2, got %f", s.CameraConfig.Gamma)
	}
}

func TestNewRandomSpheresScene(t *testing.T) {
	a := NewRandomSpheresScene(7)
	b := NewRandomSpheresScene(7)

	// Ground, up to 22x22 small spheres, three feature spheres
	n := a.GetPrimitiveCount()
	if n < 400 || n > 1+22*22+3 {
		t.Errorf("Expected roughly 500 spheres, got %d", n)
	}

	if diff := cmp.Diff(a.World, b.World); diff != "" {
		t.Errorf("same seed produced different worlds (-a +b):\n%s", diff)
	}
	if diff := cmp.Diff(a.Materials.All(), b.Materials.All()); diff != "" {
		t.Errorf("same seed produced different materials (-a +b):\n%s", diff)
	}

	for _, m := range a.Materials.All() {
		if m.Kind == material.Metal && (m.Fuzz() < 0 || m.Fuzz() > 0.5) {
			t.Errorf("metal fuzz %f outside [0, 0.5]", m.Fuzz())
		}
	}
}

func TestNewSphereGridScene(t *testing.T) {
	s := NewSphereGridScene()
	if s.GetPrimitiveCount() != 1+20*20 {
		t.Errorf("Expected 401 spheres, got %d", s.GetPrimitiveCount())
	}
	for _, m := range s.Materials.All()[1:] {
		for _, c := range []float64{m.Albedo.X, m.Albedo.Y, m.Albedo.Z} {
			if c < 0 || c > 1 {
				t.Fatalf("albedo %v outside [0, 1]", m.Albedo)
			}
		}
	}
}

func TestNewFlatScene_RendersAlbedo(t *testing.T) {
	albedo := core.NewColor(0.2, 0.4, 0.6)
	s := NewFlatScene(albedo)

	r, err := renderer.NewScanlineRenderer(s, renderer.RenderConfig{Seed: 11}, nil)
	if err != nil {
		t.Fatalf("NewScanlineRenderer failed: %v", err)
	}
	fb, _, err := r.Render(context.Background(), nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			got := fb.ColorAt(x, y)
			if got.Subtract(albedo).Length() > 0.01 {
				t.Errorf("pixel (%d,%d): expected %v, got %v", x, y, albedo, got)
			}
		}
	}
}

const testSceneYAML = `name: Two Spheres
group: Tests
camera:
  width: 16
  height: 9
  samples: 2
materials:
  - name: ground
    kind: lambertian
    albedo: [0.5, 0.5, 0.5]
  - name: mirror
    kind: metal
    albedo: [0.9, 0.9, 0.9]
    fuzz: 2
spheres:
  - center: [0, -100.5, -1]
    radius: 100
    material: ground
  - center: [0, 0, -1]
    radius: 0.5
    material: mirror
`

func writeScene(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestNewYAMLScene(t *testing.T) {
	path := writeScene(t, t.TempDir(), "two.yaml", testSceneYAML)

	s, err := NewYAMLScene(path)
	if err != nil {
		t.Fatalf("NewYAMLScene failed: %v", err)
	}
	if s.Name != "Two Spheres" || s.GetPrimitiveCount() != 2 {
		t.Errorf("Unexpected scene %q with %d spheres", s.Name, s.GetPrimitiveCount())
	}
	if s.GetCamera().Width() != 16 || s.CameraConfig.SamplesPerPixel != 2 {
		t.Errorf("Expected camera overrides from file, got %+v", s.CameraConfig)
	}
	// Unset camera fields fall back to defaults
	if s.CameraConfig.VFov != renderer.DefaultCameraConfig().VFov {
		t.Errorf("Expected default vfov, got %f", s.CameraConfig.VFov)
	}
	mirror := s.Materials.Get(s.World.Sphere(1).Material)
	if mirror.Kind != material.Metal || mirror.Fuzz() != 1 {
		t.Errorf("Expected metal with clamped fuzz 1, got %+v", mirror)
	}
}

func TestNewYAMLScene_ExplicitZeroCamera(t *testing.T) {
	tests := []struct {
		name          string
		camera        string
		expectedDepth int
		expectedAngle float64
	}{
		{"omitted", "  width: 8\n", renderer.DefaultCameraConfig().MaxDepth, 0},
		{"explicit depth zero", "  maxDepth: 0\n", 0, 0},
		{"defocus set", "  defocusAngle: 0.5\n  maxDepth: 3\n", 3, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := "camera:\n" + tt.camera + `materials:
  - name: ground
    kind: lambertian
    albedo: [0.5, 0.5, 0.5]
spheres:
  - center: [0, 0, -1]
    radius: 0.5
    material: ground
`
			s, err := NewYAMLScene(writeScene(t, t.TempDir(), "zero.yaml", content))
			if err != nil {
				t.Fatalf("NewYAMLScene failed: %v", err)
			}
			config := s.GetCamera().Config()
			if config.MaxDepth != tt.expectedDepth {
				t.Errorf("Expected max depth %d, got %d", tt.expectedDepth, config.MaxDepth)
			}
			if config.DefocusAngle != tt.expectedAngle {
				t.Errorf("Expected defocus angle %v, got %v", tt.expectedAngle, config.DefocusAngle)
			}
		})
	}
}

func TestNewYAMLScene_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "unknown kind",
			content: "materials:\n  - name: a\n    kind: plastic\n",
			wantErr: "unknown material kind",
		},
		{
			name:    "undefined material",
			content: "spheres:\n  - center: [0, 0, 0]\n    radius: 1\n    material: missing\n",
			wantErr: "undefined material",
		},
		{
			name:    "duplicate material",
			content: "materials:\n  - name: a\n    kind: dielectric\n    ior: 1.5\n  - name: a\n    kind: dielectric\n    ior: 1.3\n",
			wantErr: "defined twice",
		},
		{
			name:    "bad vector",
			content: "camera:\n  center: [1, 2]\n",
			wantErr: "expected 3 values",
		},
		{
			name:    "non-positive ior",
			content: "materials:\n  - name: a\n    kind: glass\n",
			wantErr: "ior must be positive",
		},
	}
	dir := t.TempDir()
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScene(t, dir, "bad"+string(rune('a'+i))+".yaml", tt.content)
			_, err := NewYAMLScene(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateScene(t *testing.T) {
	dir := t.TempDir()
	writeScene(t, dir, "two.yaml", testSceneYAML)
	opts := CreateOptions{ScenesDir: dir, Seed: 1, CameraOverrides: renderer.CameraConfig{Width: 8, Height: 4}}

	for _, id := range []string{DefaultSceneID, RandomSpheresSceneID, SphereGridSceneID, FlatSceneID, "yaml:two"} {
		t.Run(id, func(t *testing.T) {
			s, err := CreateScene(id, opts)
			if err != nil {
				t.Fatalf("CreateScene(%q) failed: %v", id, err)
			}
			if s.GetCamera().Width() != 8 || s.GetCamera().Height() != 4 {
				t.Errorf("Expected overrides applied, got %dx%d", s.GetCamera().Width(), s.GetCamera().Height())
			}
		})
	}

	for _, id := range []string{"cornell-box", "yaml:../two", "yaml:missing"} {
		if _, err := CreateScene(id, opts); err == nil {
			t.Errorf("Expected error for scene %q", id)
		}
	}
}
