package loaders

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/df07/go-scanline-tracer/pkg/core"
)

// SceneFile is the on-disk description of a sphere scene
type SceneFile struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Group       string         `yaml:"group"`
	Camera      CameraSection  `yaml:"camera"`
	Materials   []MaterialDecl `yaml:"materials"`
	Spheres     []SphereDecl   `yaml:"spheres"`
}

// CameraSection holds camera overrides; omitted fields keep their defaults.
// DefocusAngle and MaxDepth are pointers so an explicit 0 can be told apart
// from an omitted field.
type CameraSection struct {
	Width            int       `yaml:"width"`
	Height           int       `yaml:"height"`
	Center           []float64 `yaml:"center"`
	LookAt           []float64 `yaml:"lookAt"`
	Up               []float64 `yaml:"up"`
	VFov             float64   `yaml:"vfov"`
	DefocusAngle     *float64  `yaml:"defocusAngle"`
	FocusDistance    float64   `yaml:"focusDistance"`
	SamplesPerPixel  int       `yaml:"samples"`
	MaxDepth         *int      `yaml:"maxDepth"`
	Gamma            float64   `yaml:"gamma"`
	BackgroundTop    []float64 `yaml:"backgroundTop"`
	BackgroundBottom []float64 `yaml:"backgroundBottom"`
}

// MaterialDecl declares a named material
type MaterialDecl struct {
	Name   string    `yaml:"name"`
	Kind   string    `yaml:"kind"`
	Albedo []float64 `yaml:"albedo"`
	Fuzz   float64   `yaml:"fuzz"`
	IOR    float64   `yaml:"ior"`
}

// SphereDecl places a sphere that uses a named material
type SphereDecl struct {
	Center   []float64 `yaml:"center"`
	Radius   float64   `yaml:"radius"`
	Material string    `yaml:"material"`
}

// ParseSceneFile decodes a YAML scene description
func ParseSceneFile(reader io.Reader) (*SceneFile, error) {
	var sf SceneFile
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)
	if err := decoder.Decode(&sf); err != nil {
		if err == io.EOF {
			return &sf, nil
		}
		return nil, fmt.Errorf("failed to decode scene file: %w", err)
	}
	return &sf, nil
}

// LoadSceneFile loads and parses a YAML scene file
func LoadSceneFile(filename string) (*SceneFile, error) {
	if err := validateFilePath(filename); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	sf, err := ParseSceneFile(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return sf, nil
}

// IsSceneFile reports whether filename has a scene file extension
func IsSceneFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".yaml" || ext == ".yml"
}

// validateFilePath validates a file path for security issues
func validateFilePath(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	// Check for null bytes (could indicate path manipulation)
	if strings.Contains(filename, "\x00") {
		return fmt.Errorf("invalid file path: null bytes not allowed")
	}

	// Check for directory traversal attempts
	cleanPath := filepath.Clean(filename)
	for _, part := range strings.Split(filepath.ToSlash(cleanPath), "/") {
		if part == ".." {
			return fmt.Errorf("invalid file path: directory traversal not allowed")
		}
	}

	if !IsSceneFile(cleanPath) {
		return fmt.Errorf("invalid file type: only .yaml scene files are allowed")
	}

	if len(cleanPath) > 512 {
		return fmt.Errorf("file path too long: maximum 512 characters allowed")
	}

	return nil
}

// Vec3 converts a three-element list into a vector
func Vec3(values []float64, field string) (core.Vec3, error) {
	if len(values) != 3 {
		return core.Vec3{}, fmt.Errorf("%s: expected 3 values, got %d", field, len(values))
	}
	return core.NewVec3(values[0], values[1], values[2]), nil
}

// OptionalVec3 is like Vec3 but treats an empty list as the zero vector
func OptionalVec3(values []float64, field string) (core.Vec3, error) {
	if len(values) == 0 {
		return core.Vec3{}, nil
	}
	return Vec3(values, field)
}
