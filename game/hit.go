package game

import (
	"fmt"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// HitResult is the outcome of a raycast from the viewpoint of a player against the blocks of a world.
type HitResult struct {
	// Position is the position of the block that was hit.
	Position cube.Pos
	// Face is the face of the block the ray entered through.
	Face cube.Face
	// Location is the exact world-space point where the ray hit the block.
	Location mgl32.Vec3
	// Inside is true if the ray started inside the block that was hit.
	Inside bool
	// Miss is true if the ray did not hit any block. Position then holds the last block the ray passed through.
	Miss bool
}

// Offset returns the location of the hit relative to the origin of the block hit.
func (h HitResult) Offset() mgl32.Vec3 {
	return h.Location.Sub(PosVec3(h.Position))
}

func (h HitResult) String() string {
	if h.Miss {
		return fmt.Sprintf("miss(%v)", h.Location)
	}
	return fmt.Sprintf("hit(pos=%v face=%v loc=%v inside=%v)", h.Position, h.Face, h.Location, h.Inside)
}

// PosVec3 returns the origin of the block position passed as a 32-bit vector.
func PosVec3(pos cube.Pos) mgl32.Vec3 {
	return mgl32.Vec3{float32(pos[0]), float32(pos[1]), float32(pos[2])}
}
