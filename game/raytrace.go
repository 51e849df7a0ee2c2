package game

import (
	"iter"

	"github.com/chewxy/math32"
	df_cube "github.com/df-mc/dragonfly/server/block/cube"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// RayStep is a single block visited by Traverse.
type RayStep struct {
	// Pos is the position of the block visited.
	Pos df_cube.Pos
	// Face is the face of the block that the ray entered through.
	Face df_cube.Face
	// Dist is the distance from the start of the ray to the point where it entered the block.
	Dist float32
	// First is true for the block containing the start of the ray.
	First bool
}

// Traverse yields every block the line segment between start and end passes through, in order.
// https://github.com/pmmp/Math/blob/stable/src/VoxelRayTrace.php#L67
func Traverse(start, end mgl32.Vec3) iter.Seq[RayStep] {
	return func(yield func(RayStep) bool) {
		diff := end.Sub(start)
		if diff.LenSqr() <= 0 {
			return
		}
		dirVec := diff.Normalize()
		radius := diff.Len()

		stepX := PHPSpaceshipOp(dirVec.X(), 0)
		stepY := PHPSpaceshipOp(dirVec.Y(), 0)
		stepZ := PHPSpaceshipOp(dirVec.Z(), 0)

		tMaxX := rayTraceDistanceToBoundary(start.X(), dirVec.X())
		tMaxY := rayTraceDistanceToBoundary(start.Y(), dirVec.Y())
		tMaxZ := rayTraceDistanceToBoundary(start.Z(), dirVec.Z())

		tDeltaX := float32(0)
		if dirVec.X() != 0 {
			tDeltaX = stepX / dirVec.X()
		}

		tDeltaY := float32(0)
		if dirVec.Y() != 0 {
			tDeltaY = stepY / dirVec.Y()
		}

		tDeltaZ := float32(0)
		if dirVec.Z() != 0 {
			tDeltaZ = stepZ / dirVec.Z()
		}

		current := cube.PosFromVec3(start)
		step := RayStep{Pos: df_cube.Pos(current), Face: dominantFace(dirVec), First: true}
		for {
			if !yield(step) {
				return
			}
			step.First = false

			if tMaxX < tMaxY && tMaxX < tMaxZ {
				if tMaxX > radius {
					return
				}
				current[0] += int(stepX)
				step.Dist, step.Face = tMaxX, entryFace(0, stepX)
				tMaxX += tDeltaX
			} else if tMaxY < tMaxZ {
				if tMaxY > radius {
					return
				}
				current[1] += int(stepY)
				step.Dist, step.Face = tMaxY, entryFace(1, stepY)
				tMaxY += tDeltaY
			} else {
				if tMaxZ > radius {
					return
				}
				current[2] += int(stepZ)
				step.Dist, step.Face = tMaxZ, entryFace(2, stepZ)
				tMaxZ += tDeltaZ
			}
			step.Pos = df_cube.Pos(current)
		}
	}
}

// entryFace returns the face of a block that a ray moving along the axis in the direction of step enters through.
func entryFace(axis int, step float32) df_cube.Face {
	switch axis {
	case 0:
		if step > 0 {
			return df_cube.FaceWest
		}
		return df_cube.FaceEast
	case 1:
		if step > 0 {
			return df_cube.FaceDown
		}
		return df_cube.FaceUp
	default:
		if step > 0 {
			return df_cube.FaceNorth
		}
		return df_cube.FaceSouth
	}
}

// dominantFace returns the face a ray in the direction passed would enter a block through along its longest axis.
func dominantFace(dir mgl32.Vec3) df_cube.Face {
	ax, ay, az := math32.Abs(dir.X()), math32.Abs(dir.Y()), math32.Abs(dir.Z())
	if ax >= ay && ax >= az {
		return entryFace(0, PHPSpaceshipOp(dir.X(), 0))
	} else if ay >= az {
		return entryFace(1, PHPSpaceshipOp(dir.Y(), 0))
	}
	return entryFace(2, PHPSpaceshipOp(dir.Z(), 0))
}

// https://github.com/pmmp/Math/blob/stable/src/VoxelRayTrace.php#L134
func rayTraceDistanceToBoundary(s, ds float32) float32 {
	if ds == 0 {
		return math32.MaxFloat32
	}

	if ds < 0 {
		s = -s
		ds = -ds

		if math32.Floor(s) == s {
			return 0
		}
	}

	return (1 - (s - math32.Floor(s))) / ds
}
