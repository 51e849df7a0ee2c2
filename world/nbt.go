package world

import (
	"bytes"
	"fmt"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/sandertv/gophertunnel/minecraft/nbt"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sirupsen/logrus"
)

// BlockEntityPos reads the position of a block entity from the "x", "y" and "z" keys of its NBT.
func BlockEntityPos(data map[string]any) (cube.Pos, bool) {
	x, okX := data["x"].(int32)
	y, okY := data["y"].(int32)
	z, okZ := data["z"].(int32)
	if !okX || !okY || !okZ {
		return cube.Pos{}, false
	}
	return cube.Pos{int(x), int(y), int(z)}, true
}

// LoadBlockEntities decodes the consecutive network NBT compounds in the buffer passed, such as the block entities
// trailing a LevelChunk payload, and stores every one that carries a position. It returns the amount of block
// entities stored.
func (w *World) LoadBlockEntities(buf *bytes.Buffer) int {
	dec := nbt.NewDecoderWithEncoding(buf, nbt.NetworkLittleEndian)
	count := 0
	for buf.Len() > 0 {
		var data map[string]any
		if err := dec.Decode(&data); err != nil {
			if w.log != nil {
				w.log.WithFields(logrus.Fields{"remaining": buf.Len()}).Debugf("stopped decoding block entities: %v", err)
			}
			break
		}
		pos, ok := BlockEntityPos(data)
		if !ok {
			continue
		}
		if w.SetBlockEntity(pos, data) {
			count++
		}
	}
	return count
}

// loadChunkBlockEntities stores the block entities trailing the payload of a LevelChunk packet.
func (w *World) loadChunkBlockEntities(data []byte) {
	if len(data) == 0 {
		return
	}
	w.LoadBlockEntities(bytes.NewBuffer(data))
}

// biomeCopyLast is the header of a biome storage that repeats the storage before it.
const biomeCopyLast = 0x7f

// skipBiomes reads past the biome storages of a network encoded chunk, one for every sub chunk.
func skipBiomes(buf *bytes.Buffer, count int) error {
	for i := 0; i < count; i++ {
		header, err := buf.ReadByte()
		if err != nil {
			return fmt.Errorf("biome storage %d: %w", i, err)
		}
		bitsPerIndex := int(header >> 1)
		if bitsPerIndex == biomeCopyLast {
			if i == 0 {
				return fmt.Errorf("first biome storage points to a previous one")
			}
			continue
		}

		paletteCount := int32(1)
		if bitsPerIndex != 0 {
			switch bitsPerIndex {
			case 1, 2, 3, 4, 5, 6, 8, 16:
			default:
				return fmt.Errorf("biome storage %d: invalid bits per index %d", i, bitsPerIndex)
			}
			indicesPerWord := 32 / bitsPerIndex
			words := 4096 / indicesPerWord
			if 4096%indicesPerWord != 0 {
				words++
			}
			if buf.Len() < words*4 {
				return fmt.Errorf("biome storage %d: want %d index bytes, have %d", i, words*4, buf.Len())
			}
			buf.Next(words * 4)

			if err := protocol.Varint32(buf, &paletteCount); err != nil {
				return fmt.Errorf("biome storage %d palette size: %w", i, err)
			}
			if paletteCount <= 0 {
				return fmt.Errorf("biome storage %d: invalid palette size %d", i, paletteCount)
			}
		}
		for j := int32(0); j < paletteCount; j++ {
			var biome int32
			if err := protocol.Varint32(buf, &biome); err != nil {
				return fmt.Errorf("biome storage %d palette entry: %w", i, err)
			}
		}
	}
	return nil
}

// skipBorderBlocks reads past the education edition border blocks of a network encoded chunk.
func skipBorderBlocks(buf *bytes.Buffer) error {
	n, err := buf.ReadByte()
	if err != nil {
		return fmt.Errorf("border block count: %w", err)
	}
	if buf.Len() < int(n) {
		return fmt.Errorf("want %d border blocks, have %d bytes", n, buf.Len())
	}
	buf.Next(int(n))
	return nil
}
