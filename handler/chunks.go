package handler

import (
	"bytes"

	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	df_world "github.com/df-mc/dragonfly/server/world"
	"github.com/df-mc/dragonfly/server/world/chunk"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/peek/game"
	"github.com/oomph-ac/peek/player"
	"github.com/oomph-ac/peek/utils"
	"github.com/oomph-ac/peek/world"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

// chunkRadiusPadding is added to the chunk radius of a client before chunks out of range are dropped.
const chunkRadiusPadding = 4

// WorldHandler keeps the world and position of a player in line with the packets sent between the client and the
// server.
type WorldHandler struct {
	// ChunkRadius is the radius in chunks around the player beyond which chunks are removed from its world.
	ChunkRadius int32
}

// NewWorldHandler returns a WorldHandler that drops chunks beyond the radius passed until the client or server
// agree on a different one.
func NewWorldHandler(chunkRadius int32) *WorldHandler {
	return &WorldHandler{ChunkRadius: chunkRadius}
}

// HandleClientPacket handles a packet sent by the client of the player passed.
func (h *WorldHandler) HandleClientPacket(pk packet.Packet, p *player.Player) {
	switch pk := pk.(type) {
	case *packet.PlayerAuthInput:
		p.Move(pk.Position.Sub(mgl32.Vec3{0, game.EyeHeight}), pk.Yaw, pk.Pitch)
		p.World().CleanChunks(h.ChunkRadius, p.ChunkPos())
	case *packet.RequestChunkRadius:
		h.ChunkRadius = pk.ChunkRadius + chunkRadiusPadding
	}
}

// HandleServerPacket handles a packet sent by the server to the player passed.
func (h *WorldHandler) HandleServerPacket(pk packet.Packet, p *player.Player) {
	switch pk := pk.(type) {
	case *packet.ChunkRadiusUpdated:
		h.ChunkRadius = pk.ChunkRadius + chunkRadiusPadding
	case *packet.SetPlayerGameType:
		p.SetGameMode(pk.GameType)
	case *packet.UpdateBlock:
		// TODO: Implement and account for multi-layer blocks.
		if pk.Layer != 0 {
			return
		}
		b, ok := df_world.BlockByRuntimeID(pk.NewBlockRuntimeID)
		if !ok {
			p.Log().Errorf("unable to find block with runtime ID %v", pk.NewBlockRuntimeID)
			b = block.Air{}
		}
		p.World().SetBlock(blockPos(pk.Position), b)
	case *packet.BlockActorData:
		if !p.World().SetBlockEntity(blockPos(pk.Position), pk.NBTData) {
			p.Log().Debugf("dropped block entity at %v in unloaded chunk", pk.Position)
		}
	case *packet.LevelChunk:
		if _, err := world.Cache(p.World(), pk); err != nil {
			p.Log().Errorf("unable to decode chunk %v: %v", pk.Position, err)
		}
	case *packet.SubChunk:
		h.handleSubChunk(pk, p)
	}
}

// handleSubChunk decodes the entries of a SubChunk packet into the chunks of the player's world. Chunks shared
// through the cache are never written to, so a new chunk replaces them.
func (h *WorldHandler) handleSubChunk(pk *packet.SubChunk, p *player.Player) {
	if pk.CacheEnabled {
		p.Log().Debug("dropped cached sub chunk response")
		return
	}
	chunks := map[protocol.ChunkPos]*chunk.Chunk{}
	added := map[protocol.ChunkPos]struct{}{}

	for _, entry := range pk.SubChunkEntries {
		// Do not handle sub-chunk responses that returned an error.
		if entry.Result != protocol.SubChunkResultSuccess {
			continue
		}

		chunkPos := protocol.ChunkPos{
			pk.Position[0] + int32(entry.Offset[0]),
			pk.Position[2] + int32(entry.Offset[2]),
		}
		c, ok := chunks[chunkPos]
		if !ok {
			if existing, isChunk := p.World().GetChunk(chunkPos).(*chunk.Chunk); isChunk {
				c = existing
			} else {
				c = world.NewChunk()
				added[chunkPos] = struct{}{}
			}
			chunks[chunkPos] = c
		}

		var index byte
		sub, err := utils.DecodeSubChunk(bytes.NewBuffer(entry.RawPayload), c, &index, chunk.NetworkEncoding)
		if err != nil {
			p.Log().Errorf("unable to decode sub chunk in %v: %v", chunkPos, err)
			continue
		}
		c.Sub()[index] = sub
	}

	for pos := range added {
		p.World().AddChunk(pos, chunks[pos])
	}
}

func blockPos(pos protocol.BlockPos) cube.Pos {
	return cube.Pos{int(pos.X()), int(pos.Y()), int(pos.Z())}
}
