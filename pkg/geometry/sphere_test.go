package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/df07/go-scanline-tracer/pkg/core"
)

var defaultInterval = core.NewInterval(0.001, 1000.0)

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, 0)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, defaultInterval)
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_AnalyticRoot(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, -1), 0.5, 3)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, defaultInterval)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}

	want := core.HitRecord{
		Point:     core.NewVec3(0, 0, -0.5),
		Normal:    core.NewVec3(0, 0, 1),
		T:         0.5,
		FrontFace: true,
		Material:  3,
	}
	if diff := cmp.Diff(want, hit, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Hit() mismatch (-want +got):\n%s", diff)
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, 0)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:           "unnormalized direction",
			rayOrigin:      core.NewVec3(0, 0, 3),
			rayDirection:   core.NewVec3(0, 0, -2),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := sphere.Hit(ray, defaultInterval)

			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}
			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}
			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected FrontFace=%v, got %v", tt.expectedFront, hit.FrontFace)
			}
			if hit.Normal.Subtract(tt.expectedNormal).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
			// The stored normal always opposes the ray
			if hit.Normal.Dot(ray.Direction) > 0 {
				t.Errorf("Normal %v does not oppose ray direction %v", hit.Normal, ray.Direction)
			}
		})
	}
}

func TestSphere_Hit_IntervalIsExclusive(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, 0)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	// Near root t=1 sits on the boundary; the far root t=3 is used instead
	hit, ok := sphere.Hit(ray, core.NewInterval(1.0, 10.0))
	if !ok || math.Abs(hit.T-3.0) > 1e-9 {
		t.Errorf("Expected far root t=3, got ok=%v t=%f", ok, hit.T)
	}

	if _, ok := sphere.Hit(ray, core.NewInterval(0.001, 1.0)); ok {
		t.Error("Expected no hit when the only candidate equals the interval max")
	}
}

func TestSphere_Degenerate(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
	}{
		{"zero radius", 0},
		{"negative radius", -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sphere := NewSphere(core.NewVec3(0, 0, 0), tt.radius, 0)
			if sphere.Radius != 0 {
				t.Errorf("Expected radius clamped to 0, got %f", sphere.Radius)
			}
			ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))
			if _, ok := sphere.Hit(ray, defaultInterval); ok {
				t.Error("Expected degenerate sphere to never be hit")
			}
		})
	}
}

func TestWorld_Hit_Empty(t *testing.T) {
	world := NewWorld(0)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	if _, ok := world.Hit(ray, defaultInterval); ok {
		t.Error("Expected empty world to never be hit")
	}
}

func TestWorld_Hit_Nearest(t *testing.T) {
	world := NewWorld(3)
	world.AddSphere(NewSphere(core.NewVec3(0, 0, -10), 1, 0))
	world.AddSphere(NewSphere(core.NewVec3(0, 0, -3), 1, 1))
	world.AddSphere(NewSphere(core.NewVec3(0, 0, -6), 1, 2))

	hit, ok := world.Hit(core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1)), defaultInterval)
	if !ok {
		t.Fatal("Expected hit, but got miss")
	}
	if hit.Material != 1 || math.Abs(hit.T-2) > 1e-9 {
		t.Errorf("Expected nearest sphere (material 1, t=2), got material %d t=%f", hit.Material, hit.T)
	}
}

func TestWorld_Hit_MatchesBruteForce(t *testing.T) {
	random := rand.New(rand.NewSource(1234))
	world := NewWorld(64)
	for i := 0; i < 64; i++ {
		world.AddSphere(NewSphere(
			core.NewVec3(random.Float64()*20-10, random.Float64()*20-10, -random.Float64()*30),
			0.2+random.Float64()*2,
			core.MaterialIndex(i),
		))
	}

	for i := 0; i < 500; i++ {
		dir := core.NewVec3(random.Float64()*2-1, random.Float64()*2-1, -1)
		ray := core.NewRay(core.NewVec3(0, 0, 5), dir)

		got, gotOK := world.Hit(ray, defaultInterval)

		var want core.HitRecord
		wantOK := false
		for j := 0; j < world.Len(); j++ {
			hit, ok := world.Sphere(j).Hit(ray, defaultInterval)
			if ok && (!wantOK || hit.T < want.T) {
				want, wantOK = hit, true
			}
		}

		if gotOK != wantOK {
			t.Fatalf("ray %d: World.Hit ok=%v, brute force ok=%v", i, gotOK, wantOK)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("ray %d: World.Hit differs from brute force (-want +got):\n%s", i, diff)
		}
	}
}

func TestWorld_SphereRoundTrip(t *testing.T) {
	world := NewWorld(1)
	s := NewSphere(core.NewVec3(1, 2, 3), 4, 5)
	idx := world.AddSphere(s)
	if got := world.Sphere(idx); got != s {
		t.Errorf("Expected %+v, got %+v", s, got)
	}
	world.Clear()
	if world.Len() != 0 {
		t.Errorf("Expected empty world after Clear, got %d spheres", world.Len())
	}
}
