package player

import (
	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/oomph-ac/peek/game"

	df_cube "github.com/df-mc/dragonfly/server/block/cube"
)

// Pick casts a ray from the eyes of the player in the direction it is looking and returns the first block hit
// within maxDistance. Liquids are passed through unless includeFluids is true.
func (p *Player) Pick(maxDistance float32, includeFluids bool) game.HitResult {
	yaw, pitch := p.Rotation()
	dir := game.DirectionVector(yaw, pitch)
	start := p.EyePosition()
	end := start.Add(dir.Mul(maxDistance))

	for step := range game.Traverse(start, end) {
		if step.Dist > maxDistance {
			break
		}
		b := p.w.Block(step.Pos)
		if _, ok := b.(block.Air); ok {
			continue
		}
		if _, ok := b.(world.Liquid); ok && !includeFluids {
			continue
		}
		return game.HitResult{
			Position: step.Pos,
			Face:     step.Face,
			Location: start.Add(dir.Mul(step.Dist)),
			Inside:   step.First,
		}
	}
	return game.HitResult{
		Position: df_cube.Pos(cube.PosFromVec3(end)),
		Face:     df_cube.FaceUp,
		Location: end,
		Miss:     true,
	}
}
