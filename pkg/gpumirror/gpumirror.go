// Package gpumirror flattens a scene into the fixed-layout buffers a
// compute shader consumes. Every record is padded to a multiple of 16
// bytes so it can be uploaded as a structured buffer unchanged.
package gpumirror

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/rand"

	"github.com/df07/go-scanline-tracer/pkg/core"
	"github.com/df07/go-scanline-tracer/pkg/geometry"
	"github.com/df07/go-scanline-tracer/pkg/material"
	"github.com/df07/go-scanline-tracer/pkg/renderer"
)

// MaxSampleOffsets is the size of the shader's jitter table
const MaxSampleOffsets = 100

const (
	magic   = "SPHB"
	version = 1
)

// Float3 is a tightly packed float3
type Float3 [3]float32

func toFloat3(v core.Vec3) Float3 {
	return Float3{float32(v.X), float32(v.Y), float32(v.Z)}
}

// Global holds the per-frame constants. Each float3 is followed by one
// 32-bit slot so that it starts on a 16-byte boundary.
type Global struct {
	CameraPos         Float3
	_                 float32
	ViewportUpperLeft Float3
	_                 float32
	FirstPixelPos     Float3
	_                 float32
	DeltaU            Float3
	_                 float32
	DeltaV            Float3
	ObjectCount       uint32
	ScreenSize        [2]uint32
	Depth             uint32
	SampleCount       uint32
}

// SphereTransform is the geometry half of a sphere
type SphereTransform struct {
	Center Float3
	Radius float32
}

// SphereMaterial is the shading half of a sphere. Type uses the same
// values as material.Kind.
type SphereMaterial struct {
	Albedo    Float3
	FuzzOrIOR float32
	Type      uint32
	_         [3]uint32
}

// Buffers is the complete GPU-side mirror of a scene. Transforms and
// Materials are indexed by sphere and follow the world's sphere order.
type Buffers struct {
	Global        Global
	SampleOffsets [][2]float32
	Transforms    []SphereTransform
	Materials     []SphereMaterial
}

// header precedes the buffers in the serialized form
type header struct {
	Magic       [4]byte
	Version     uint32
	SampleCount uint32
	ObjectCount uint32
}

// Build flattens world and materials as seen through camera. The jitter
// table holds one offset in [-0.5, 0.5) per sample, up to MaxSampleOffsets.
func Build(world *geometry.World, materials *material.Table, camera *renderer.Camera, seed int64) *Buffers {
	config := camera.Config()
	sampleCount := min(config.SamplesPerPixel, MaxSampleOffsets)
	deltaU, deltaV := camera.PixelDeltas()

	b := &Buffers{
		Global: Global{
			CameraPos:         toFloat3(camera.Center()),
			ViewportUpperLeft: toFloat3(camera.ViewportUpperLeft()),
			FirstPixelPos:     toFloat3(camera.Pixel00()),
			DeltaU:            toFloat3(deltaU),
			DeltaV:            toFloat3(deltaV),
			ObjectCount:       uint32(world.Len()),
			ScreenSize:        [2]uint32{uint32(config.Width), uint32(config.Height)},
			Depth:             uint32(config.MaxDepth),
			SampleCount:       uint32(sampleCount),
		},
		SampleOffsets: make([][2]float32, sampleCount),
		Transforms:    make([]SphereTransform, world.Len()),
		Materials:     make([]SphereMaterial, world.Len()),
	}

	sampler := core.NewRandomSampler(rand.New(rand.NewSource(seed)))
	for i := range b.SampleOffsets {
		offset := core.SampleSquare(sampler)
		b.SampleOffsets[i] = [2]float32{float32(offset.X), float32(offset.Y)}
	}

	for i := 0; i < world.Len(); i++ {
		b.Transforms[i] = SphereTransform{
			Center: toFloat3(world.Centers[i]),
			Radius: float32(world.Radii[i]),
		}
		m := materials.Get(world.Materials[i])
		b.Materials[i] = SphereMaterial{
			Albedo:    toFloat3(m.Albedo),
			FuzzOrIOR: float32(m.FuzzOrIOR),
			Type:      uint32(m.Kind),
		}
	}

	return b
}

// WriteTo serializes the buffers little-endian
func (b *Buffers) WriteTo(w io.Writer) (int64, error) {
	if len(b.Transforms) != len(b.Materials) {
		return 0, fmt.Errorf("gpumirror: %d transforms but %d materials", len(b.Transforms), len(b.Materials))
	}

	var buf bytes.Buffer
	h := header{
		Version:     version,
		SampleCount: uint32(len(b.SampleOffsets)),
		ObjectCount: uint32(len(b.Transforms)),
	}
	copy(h.Magic[:], magic)

	for _, part := range []any{h, b.Global, b.SampleOffsets, b.Transforms, b.Materials} {
		if err := binary.Write(&buf, binary.LittleEndian, part); err != nil {
			return 0, fmt.Errorf("while encoding gpu buffers: %w", err)
		}
	}
	return buf.WriteTo(w)
}

// Read decodes buffers produced by WriteTo
func Read(r io.Reader) (*Buffers, error) {
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("while reading gpu buffer header: %w", err)
	}
	if string(h.Magic[:]) != magic {
		return nil, errors.New("gpumirror: not a sphere buffer file")
	}
	if h.Version != version {
		return nil, fmt.Errorf("gpumirror: unsupported version %d", h.Version)
	}
	if h.SampleCount > MaxSampleOffsets {
		return nil, fmt.Errorf("gpumirror: %d sample offsets exceeds %d", h.SampleCount, MaxSampleOffsets)
	}

	b := &Buffers{
		SampleOffsets: make([][2]float32, h.SampleCount),
		Transforms:    make([]SphereTransform, h.ObjectCount),
		Materials:     make([]SphereMaterial, h.ObjectCount),
	}
	for _, part := range []any{&b.Global, b.SampleOffsets, b.Transforms, b.Materials} {
		if err := binary.Read(r, binary.LittleEndian, part); err != nil {
			return nil, fmt.Errorf("while reading gpu buffers: %w", err)
		}
	}
	return b, nil
}
