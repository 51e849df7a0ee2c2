package player

import (
	"testing"

	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/peek/game"
	oworld "github.com/oomph-ac/peek/world"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

func newTestWorld() *oworld.World {
	w := oworld.New(nil)
	w.AddChunk(protocol.ChunkPos{0, 0}, oworld.NewChunk())
	return w
}

func TestPickHitsFirstSolidBlock(t *testing.T) {
	w := newTestWorld()
	w.SetBlock(cube.Pos{0, 65, 2}, block.Stone{})
	w.SetBlock(cube.Pos{0, 65, 3}, block.Dirt{})

	p := New("viewer", w, nil)
	p.Move(mgl32.Vec3{0.5, 64, 0.5}, 0, 0)

	hit := p.Pick(p.InteractionRange(), false)
	if hit.Miss {
		t.Fatalf("expected a hit, got %v", hit)
	}
	if hit.Position != (cube.Pos{0, 65, 2}) {
		t.Fatalf("expected stone to be hit, got %v", hit.Position)
	}
	if hit.Face != cube.FaceNorth {
		t.Fatalf("expected north face, got %v", hit.Face)
	}
	if !hit.Location.ApproxEqualThreshold(mgl32.Vec3{0.5, 64 + game.EyeHeight, 2}, 1e-3) {
		t.Fatalf("unexpected hit location %v", hit.Location)
	}
}

func TestPickMissesOutOfRange(t *testing.T) {
	w := newTestWorld()
	w.SetBlock(cube.Pos{0, 65, 8}, block.Stone{})

	p := New("viewer", w, nil)
	p.Move(mgl32.Vec3{0.5, 64, 0.5}, 0, 0)

	if hit := p.Pick(p.InteractionRange(), false); !hit.Miss {
		t.Fatalf("expected a miss, got %v", hit)
	}
}

func TestPickLooksDown(t *testing.T) {
	w := newTestWorld()
	w.SetBlock(cube.Pos{0, 63, 0}, block.Stone{})

	p := New("viewer", w, nil)
	p.Move(mgl32.Vec3{0.5, 64, 0.5}, 0, 90)

	hit := p.Pick(p.InteractionRange(), false)
	if hit.Miss || hit.Position != (cube.Pos{0, 63, 0}) || hit.Face != cube.FaceUp {
		t.Fatalf("expected the top of the block below, got %v", hit)
	}
}

func TestGameModeInteractionRange(t *testing.T) {
	p := New("viewer", newTestWorld(), nil)
	if p.InteractionRange() != game.DefaultInteractionRange {
		t.Fatalf("unexpected default range %v", p.InteractionRange())
	}
	p.SetGameMode(packet.GameTypeCreative)
	if p.InteractionRange() != game.CreativeInteractionRange {
		t.Fatalf("unexpected creative range %v", p.InteractionRange())
	}
}

func TestBlockPosition(t *testing.T) {
	p := New("viewer", newTestWorld(), nil)
	p.Move(mgl32.Vec3{-0.5, 64.9, 15.99}, 0, 0)
	if pos := p.BlockPosition(); pos != (cube.Pos{-1, 64, 15}) {
		t.Fatalf("unexpected block position %v", pos)
	}
}
