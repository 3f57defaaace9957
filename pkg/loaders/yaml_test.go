package loaders

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const threeSpheres = `name: Three Spheres
description: Diffuse, glass and metal
group: Examples
camera:
  width: 64
  height: 48
  center: [-2, 2, 1]
  lookAt: [0, 0, -1]
  samples: 4
materials:
  - name: ground
    kind: lambertian
    albedo: [0.8, 0.8, 0.0]
  - name: glass
    kind: dielectric
    ior: 1.5
  - name: gold
    kind: metal
    albedo: [0.8, 0.6, 0.2]
    fuzz: 0.3
spheres:
  - center: [0, -100.5, -1]
    radius: 100
    material: ground
  - center: [-1, 0, -1]
    radius: 0.5
    material: glass
  - center: [1, 0, -1]
    radius: 0.5
    material: gold
`

func TestParseSceneFile(t *testing.T) {
	sf, err := ParseSceneFile(strings.NewReader(threeSpheres))
	if err != nil {
		t.Fatalf("ParseSceneFile failed: %v", err)
	}

	want := &SceneFile{
		Name:        "Three Spheres",
		Description: "Diffuse, glass and metal",
		Group:       "Examples",
		Camera: CameraSection{
			Width:           64,
			Height:          48,
			Center:          []float64{-2, 2, 1},
			LookAt:          []float64{0, 0, -1},
			SamplesPerPixel: 4,
		},
		Materials: []MaterialDecl{
			{Name: "ground", Kind: "lambertian", Albedo: []float64{0.8, 0.8, 0.0}},
			{Name: "glass", Kind: "dielectric", IOR: 1.5},
			{Name: "gold", Kind: "metal", Albedo: []float64{0.8, 0.6, 0.2}, Fuzz: 0.3},
		},
		Spheres: []SphereDecl{
			{Center: []float64{0, -100.5, -1}, Radius: 100, Material: "ground"},
			{Center: []float64{-1, 0, -1}, Radius: 0.5, Material: "glass"},
			{Center: []float64{1, 0, -1}, Radius: 0.5, Material: "gold"},
		},
	}
	if diff := cmp.Diff(want, sf); diff != "" {
		t.Errorf("ParseSceneFile() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSceneFile_ExplicitZeros(t *testing.T) {
	sf, err := ParseSceneFile(strings.NewReader("camera:\n  maxDepth: 0\n  defocusAngle: 0\n"))
	if err != nil {
		t.Fatalf("ParseSceneFile failed: %v", err)
	}
	if sf.Camera.MaxDepth == nil || *sf.Camera.MaxDepth != 0 {
		t.Errorf("Expected explicit maxDepth 0, got %v", sf.Camera.MaxDepth)
	}
	if sf.Camera.DefocusAngle == nil || *sf.Camera.DefocusAngle != 0 {
		t.Errorf("Expected explicit defocusAngle 0, got %v", sf.Camera.DefocusAngle)
	}

	omitted, err := ParseSceneFile(strings.NewReader("camera:\n  width: 8\n"))
	if err != nil {
		t.Fatalf("ParseSceneFile failed: %v", err)
	}
	if omitted.Camera.MaxDepth != nil || omitted.Camera.DefocusAngle != nil {
		t.Errorf("Expected omitted fields to stay nil, got %+v", omitted.Camera)
	}
}

func TestParseSceneFile_UnknownField(t *testing.T) {
	if _, err := ParseSceneFile(strings.NewReader("spheres:\n  - centre: [0, 0, 0]\n")); err == nil {
		t.Error("Expected error for misspelled field")
	}
}

func TestLoadSceneFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "three.yaml")
	if err := os.WriteFile(path, []byte(threeSpheres), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	sf, err := LoadSceneFile(path)
	if err != nil {
		t.Fatalf("LoadSceneFile failed: %v", err)
	}
	if len(sf.Spheres) != 3 {
		t.Errorf("Expected 3 spheres, got %d", len(sf.Spheres))
	}
}

func TestValidateFilePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"valid yaml", "scenes/three.yaml", false},
		{"valid yml", "scenes/three.yml", false},
		{"empty", "", true},
		{"traversal", "../../etc/passwd.yaml", true},
		{"wrong extension", "scenes/three.pbrt", true},
		{"null byte", "scenes/three\x00.yaml", true},
		{"too long", "scenes/" + strings.Repeat("a", 600) + ".yaml", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFilePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateFilePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestVec3(t *testing.T) {
	if _, err := Vec3([]float64{1, 2}, "center"); err == nil {
		t.Error("Expected error for two-element vector")
	}
	v, err := OptionalVec3(nil, "up")
	if err != nil || v.X != 0 || v.Y != 0 || v.Z != 0 {
		t.Errorf("Expected zero vector for empty list, got %v (err %v)", v, err)
	}
}
