package world

import (
	_ "unsafe"

	"github.com/df-mc/dragonfly/server/world"
	"github.com/df-mc/dragonfly/server/world/chunk"
	"github.com/oomph-ac/peek/oerror"
)

// AirRuntimeID is the runtime ID of minecraft:air, used to fill chunks that fail to decode.
var AirRuntimeID uint32

// noinspection ALL
//
//go:linkname world_finaliseBlockRegistry github.com/df-mc/dragonfly/server/world.finaliseBlockRegistry
func world_finaliseBlockRegistry()

func init() {
	world_finaliseBlockRegistry()
	airRID, ok := chunk.StateToRuntimeID("minecraft:air", nil)
	if !ok {
		panic(oerror.New("unable to find runtime ID for air"))
	}
	AirRuntimeID = airRID
}

// NewChunk returns an empty chunk with the height range of the overworld.
func NewChunk() *chunk.Chunk {
	return chunk.New(AirRuntimeID, world.Overworld.Range())
}
