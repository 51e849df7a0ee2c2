package world

import (
	"maps"
	"slices"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
)

// BlockEntity holds the NBT data of a block entity, such as a chest or a sign, as it was last sent by the server.
type BlockEntity struct {
	// ID is the identifier of the block entity found under the "id" key of its NBT, for example "Chest".
	ID string
	// Pos is the position of the block entity.
	Pos cube.Pos
	// Data is the full NBT of the block entity.
	Data map[string]any
}

// HasBlockEntity returns true if the block passed carries a block entity.
func HasBlockEntity(b world.Block) bool {
	_, ok := b.(world.NBTer)
	return ok
}

// BlockEntity returns the block entity at the position passed, or nil if there is none. The block entity returned
// is a deep copy and may be modified freely.
func (w *World) BlockEntity(pos cube.Pos) *BlockEntity {
	w.RLock()
	be, ok := w.blockEntities[chunkPosOf(pos)][pos]
	w.RUnlock()
	if !ok {
		return nil
	}
	return &BlockEntity{ID: be.ID, Pos: be.Pos, Data: cloneNBT(be.Data)}
}

// SetBlockEntity stores the NBT of a block entity at the position passed. Nothing is stored if the chunk the
// position is in is not loaded.
func (w *World) SetBlockEntity(pos cube.Pos, data map[string]any) bool {
	chunkPos := chunkPosOf(pos)

	w.Lock()
	defer w.Unlock()

	if _, ok := w.chunks[chunkPos]; !ok {
		return false
	}
	if w.blockEntities[chunkPos] == nil {
		w.blockEntities[chunkPos] = make(map[cube.Pos]*BlockEntity)
	}
	id, _ := data["id"].(string)
	w.blockEntities[chunkPos][pos] = &BlockEntity{ID: id, Pos: pos, Data: cloneNBT(data)}
	return true
}

// RemoveBlockEntity removes the block entity at the position passed.
func (w *World) RemoveBlockEntity(pos cube.Pos) {
	w.Lock()
	delete(w.blockEntities[chunkPosOf(pos)], pos)
	w.Unlock()
}

// cloneNBT returns a deep copy of a decoded NBT compound.
func cloneNBT(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	c := maps.Clone(data)
	for k, v := range c {
		c[k] = cloneNBTValue(v)
	}
	return c
}

func cloneNBTValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return cloneNBT(v)
	case []any:
		c := slices.Clone(v)
		for i, e := range c {
			c[i] = cloneNBTValue(e)
		}
		return c
	case []map[string]any:
		c := make([]map[string]any, len(v))
		for i, e := range v {
			c[i] = cloneNBT(e)
		}
		return c
	case []byte:
		return slices.Clone(v)
	case []int32:
		return slices.Clone(v)
	case []int64:
		return slices.Clone(v)
	}
	return v
}
