package utils

import (
	"github.com/df-mc/dragonfly/server/world"
)

// BlockName returns the registry name of the block, for example "minecraft:stone".
func BlockName(b world.Block) string {
	n, _ := b.EncodeBlock()
	return n
}

// BlockProperties returns the state properties of the block.
func BlockProperties(b world.Block) map[string]any {
	_, properties := b.EncodeBlock()
	return properties
}
