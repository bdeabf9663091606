package scene

import (
	"math"
	"testing"

	"github.com/df07/cg-tracing/pkg/core"
)

func TestGenerateRayCenterPixelPointsDownDirect(t *testing.T) {
	cam := Camera{
		Origin:         core.NewVec3(0, 0, 0),
		Direct:         core.NewVec3(0, 0, 1),
		ViewAngleScale: 0.5,
		FocalDistance:  1,
	}
	frame := cam.NewFrame(8, 8)
	// Stratum (0,0) with jitter -0.5 puts the sample on the corner of pixel
	// (4,4), which is the exact image centre of an 8x8 image; no lens sample
	// (aperture=0).
	ray := cam.GenerateRay(frame, 4, 4, 8, 8, 0, 0, -0.5, -0.5, 0.5, 0.5, 0.5)
	if math.Abs(ray.Direct.X) > 1e-9 || math.Abs(ray.Direct.Y) > 1e-9 {
		t.Errorf("center ray direction = %v, want to point straight down +Z", ray.Direct)
	}
	if math.Abs(ray.Direct.Length()-1) > 1e-9 {
		t.Errorf("ray direction not unit length: %v", ray.Direct)
	}
}

func TestGenerateRayWithoutApertureIgnoresLensSample(t *testing.T) {
	cam := Camera{
		Origin:         core.NewVec3(1, 2, 3),
		Direct:         core.NewVec3(0, 0, 1),
		ViewAngleScale: 0.5,
		FocalDistance:  1,
		Aperture:       0, // disabled
	}
	frame := cam.NewFrame(4, 4)
	a := cam.GenerateRay(frame, 1, 1, 4, 4, 0, 0, 0.1, -0.2, 0.1, 0.9, 0.5)
	b := cam.GenerateRay(frame, 1, 1, 4, 4, 0, 0, 0.1, -0.2, 0.9, 0.1, 0.5)
	if a.Origin != b.Origin {
		t.Errorf("with aperture=0, different lens samples should not move the origin: %v vs %v", a.Origin, b.Origin)
	}
}

func TestNewFrameNormalizesDirection(t *testing.T) {
	cam := Camera{Direct: core.NewVec3(0, 0, 5), ViewAngleScale: 1}
	frame := cam.NewFrame(4, 4)
	if math.Abs(frame.direct.Length()-1) > 1e-9 {
		t.Errorf("frame direction not normalized: %v", frame.direct)
	}
}
