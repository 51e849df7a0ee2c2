package game

import (
	"testing"

	df_cube "github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl32"
)

func TestTraversePositiveX(t *testing.T) {
	var steps []RayStep
	for step := range Traverse(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{3.5, 0.5, 0.5}) {
		steps = append(steps, step)
	}
	if len(steps) != 4 {
		t.Fatalf("expected 4 blocks to be visited, got %d", len(steps))
	}
	if !steps[0].First || steps[0].Pos != (df_cube.Pos{0, 0, 0}) {
		t.Fatalf("unexpected first step %+v", steps[0])
	}
	for i, step := range steps[1:] {
		if step.Pos != (df_cube.Pos{i + 1, 0, 0}) {
			t.Fatalf("unexpected position %v at step %d", step.Pos, i+1)
		}
		if step.Face != df_cube.FaceWest {
			t.Fatalf("expected ray to enter through the west face, got %v", step.Face)
		}
		if want := float32(i) + 0.5; step.Dist != want {
			t.Fatalf("expected distance %v, got %v", want, step.Dist)
		}
	}
}

func TestTraverseNegativeZ(t *testing.T) {
	var steps []RayStep
	for step := range Traverse(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{0.5, 0.5, -1.5}) {
		steps = append(steps, step)
	}
	if len(steps) != 3 {
		t.Fatalf("expected 3 blocks to be visited, got %d", len(steps))
	}
	if steps[2].Pos != (df_cube.Pos{0, 0, -2}) || steps[2].Face != df_cube.FaceSouth {
		t.Fatalf("unexpected last step %+v", steps[2])
	}
}

func TestTraverseStopsEarly(t *testing.T) {
	n := 0
	for range Traverse(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 0}) {
		n++
	}
	if n != 0 {
		t.Fatalf("expected zero length ray to visit nothing")
	}
	for range Traverse(mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{10.5, 0.5, 0.5}) {
		n++
		break
	}
	if n != 1 {
		t.Fatalf("expected iteration to stop when the caller breaks")
	}
}
