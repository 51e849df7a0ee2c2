package world

import (
	"sync/atomic"

	"github.com/chewxy/math32"
	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

var currentWorldId atomic.Uint64

// World is the view of a world that peek has been told about: the chunks sent to a viewer, blocks updated after the
// chunks were sent and the block entities of those chunks.
type World struct {
	id           uint64
	lastCleanPos protocol.ChunkPos

	chunks         map[protocol.ChunkPos]ChunkSource
	exemptedChunks map[protocol.ChunkPos]struct{}
	blockUpdates   map[protocol.ChunkPos]map[cube.Pos]world.Block
	blockEntities  map[protocol.ChunkPos]map[cube.Pos]*BlockEntity

	log *logrus.Logger

	deadlock.RWMutex
}

// New returns an empty World. The logger passed may be nil.
func New(log *logrus.Logger) *World {
	return &World{
		chunks:         make(map[protocol.ChunkPos]ChunkSource),
		exemptedChunks: make(map[protocol.ChunkPos]struct{}),
		blockUpdates:   make(map[protocol.ChunkPos]map[cube.Pos]world.Block),
		blockEntities:  make(map[protocol.ChunkPos]map[cube.Pos]*BlockEntity),
		id:             currentWorldId.Add(1),
		log:            log,
	}
}

// ID returns the unique ID of the world.
func (w *World) ID() uint64 {
	return w.id
}

// Range returns the vertical range of the world.
func (w *World) Range() cube.Range {
	return world.Overworld.Range()
}

// AddChunk adds a chunk to the world. Block updates and block entities of a chunk previously at the same position
// are discarded.
func (w *World) AddChunk(chunkPos protocol.ChunkPos, c ChunkSource) {
	w.Lock()
	defer w.Unlock()

	if old, ok := w.chunks[chunkPos]; ok {
		if cached, ok := old.(*CachedChunk); ok {
			cached.Unsubscribe()
		}
		delete(w.blockUpdates, chunkPos)
		delete(w.blockEntities, chunkPos)
	}
	w.chunks[chunkPos] = c
	w.exemptedChunks[chunkPos] = struct{}{}
}

// RemoveChunk removes the chunk at the position passed along with everything stored for it.
func (w *World) RemoveChunk(chunkPos protocol.ChunkPos) {
	w.Lock()
	defer w.Unlock()

	w.removeChunk(chunkPos)
}

// GetChunk returns the chunk at the position passed, or nil if it was never added.
func (w *World) GetChunk(pos protocol.ChunkPos) ChunkSource {
	w.RLock()
	c := w.chunks[pos]
	w.RUnlock()

	return c
}

// IsLoaded returns true if the position passed is within the height range of the world and the chunk it is in has
// been added.
func (w *World) IsLoaded(pos cube.Pos) bool {
	if pos.OutOfBounds(w.Range()) {
		return false
	}
	return w.GetChunk(chunkPosOf(pos)) != nil
}

// Block returns the block at the position passed. Air is returned for positions in chunks that are not loaded.
func (w *World) Block(pos cube.Pos) world.Block {
	if pos.OutOfBounds(w.Range()) {
		return block.Air{}
	}

	chunkPos := chunkPosOf(pos)
	w.RLock()
	if b, ok := w.blockUpdates[chunkPos][pos]; ok {
		w.RUnlock()
		return b
	}
	c := w.chunks[chunkPos]
	w.RUnlock()

	if c == nil {
		return block.Air{}
	}

	// TODO: Implement and account for multi-layer blocks.
	rid := c.Block(uint8(pos[0]), int16(pos[1]), uint8(pos[2]), 0)
	if b, ok := world.BlockByRuntimeID(rid); ok {
		return b
	}
	return block.Air{}
}

// SetBlock sets the block at the position passed. The update is kept until the chunk it is in is replaced or
// removed.
func (w *World) SetBlock(pos cube.Pos, b world.Block) {
	if pos.OutOfBounds(w.Range()) {
		return
	}
	chunkPos := chunkPosOf(pos)

	w.Lock()
	defer w.Unlock()

	if w.blockUpdates[chunkPos] == nil {
		w.blockUpdates[chunkPos] = make(map[cube.Pos]world.Block)
	}
	w.blockUpdates[chunkPos][pos] = b
	if !HasBlockEntity(b) {
		delete(w.blockEntities[chunkPos], pos)
	}
}

// CleanChunks cleans up the chunks in respect to the given chunk radius and chunk position.
func (w *World) CleanChunks(radius int32, pos protocol.ChunkPos) {
	w.Lock()
	defer w.Unlock()

	if pos == w.lastCleanPos {
		return
	}
	w.lastCleanPos = pos

	for chunkPos := range w.chunks {
		_, exempted := w.exemptedChunks[chunkPos]
		inRange := chunkInRange(radius, chunkPos, pos)

		if exempted && inRange {
			delete(w.exemptedChunks, chunkPos)
		} else if !exempted && !inRange {
			w.removeChunk(chunkPos)
			if w.log != nil {
				w.log.Debugf("removed chunk %v out of range of %v (radius=%d)", chunkPos, pos, radius)
			}
		}
	}
}

// PurgeChunks removes all chunks from the world.
func (w *World) PurgeChunks() {
	w.Lock()
	defer w.Unlock()

	for chunkPos := range w.chunks {
		w.removeChunk(chunkPos)
	}
}

// removeChunk removes a chunk. It assumes the world is already locked for writing.
func (w *World) removeChunk(chunkPos protocol.ChunkPos) {
	if cached, ok := w.chunks[chunkPos].(*CachedChunk); ok {
		cached.Unsubscribe()
	}
	delete(w.chunks, chunkPos)
	delete(w.exemptedChunks, chunkPos)
	delete(w.blockUpdates, chunkPos)
	delete(w.blockEntities, chunkPos)
}

// chunkPosOf returns the position of the chunk the block position is in.
func chunkPosOf(pos cube.Pos) protocol.ChunkPos {
	return protocol.ChunkPos{int32(pos[0]) >> 4, int32(pos[2]) >> 4}
}

// chunkInRange returns true if the chunk position is within the given radius of the chunk position.
func chunkInRange(radius int32, chunkPos, pos protocol.ChunkPos) bool {
	diffX, diffZ := pos[0]-chunkPos[0], pos[1]-chunkPos[1]
	dist := math32.Sqrt(float32(diffX*diffX) + float32(diffZ*diffZ))

	return int32(dist) <= radius
}
