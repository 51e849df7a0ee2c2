package world

import (
	"bytes"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/df-mc/dragonfly/server/world/chunk"
	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/peek/oerror"
	"github.com/oomph-ac/peek/utils"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
	"github.com/sirupsen/logrus"
	"github.com/zeebo/xxh3"
)

var (
	chunkCache = make(map[xxh3.Uint128]*CachedChunk)
	chunkQueue = make(chan addChunkRequest, 4096)
	cMu        sync.Mutex
)

func init() {
	for i := 0; i < runtime.NumCPU(); i++ {
		go cacheWorker()
	}
	go clearCacheWorker()
}

// Cache queues the chunk of a LevelChunk packet to be decoded and added to the world passed. Identical chunk
// payloads sent to different viewers share one decoded chunk. If the queue is full the chunk is decoded on the
// calling goroutine and false is returned. LevelChunk packets using sub-chunk requests carry no blocks and are
// ignored. Block entities found after the chunk data are stored in the world once the chunk is added.
func Cache(w *World, input *packet.LevelChunk) (bool, error) {
	if input.CacheEnabled || input.SubChunkCount == protocol.SubChunkRequestModeLimited || input.SubChunkCount == protocol.SubChunkRequestModeLimitless {
		return false, nil
	}

	select {
	case chunkQueue <- addChunkRequest{input: input, target: w}:
		return true, nil
	default:
		c, blockEntities, err := decodeChunk(input)
		w.AddChunk(input.Position, c)
		w.loadChunkBlockEntities(blockEntities)
		return false, err
	}
}

// CachedChunk is a decoded chunk shared between every world it was sent to.
type CachedChunk struct {
	subs atomic.Int64
	c    *chunk.Chunk
	// blockEntities holds the network NBT of the block entities sent along with the chunk.
	blockEntities []byte
}

func (sc *CachedChunk) Subscribe() {
	sc.subs.Add(1)
}

func (sc *CachedChunk) Unsubscribe() {
	sc.subs.Add(-1)
}

func (sc *CachedChunk) Block(x uint8, y int16, z uint8, layer uint8) (rid uint32) {
	return sc.c.Block(x, y, z, layer)
}

type addChunkRequest struct {
	input  *packet.LevelChunk
	target *World
}

// decodeChunk decodes the payload of a LevelChunk packet and returns the chunk alongside the block entity NBT that
// trails the chunk data. An empty chunk is returned alongside the error if the sub chunks could not be decoded.
func decodeChunk(input *packet.LevelChunk) (*chunk.Chunk, []byte, error) {
	// TODO: decode chunks of the nether and end with their own ranges.
	c := NewChunk()
	buf := bytes.NewBuffer(input.RawPayload)
	for i := 0; i < int(input.SubChunkCount); i++ {
		index := uint8(i)
		sub, err := utils.DecodeSubChunk(buf, c, &index, chunk.NetworkEncoding)
		if err != nil {
			return NewChunk(), nil, oerror.New("unable to decode chunk at %v: %v", input.Position, err)
		}
		if int(index) >= len(c.Sub()) {
			return NewChunk(), nil, oerror.New("sub chunk index %d out of range in chunk at %v", index, input.Position)
		}
		c.Sub()[index] = sub
	}
	c.Compact()

	if err := skipBiomes(buf, len(c.Sub())); err != nil {
		return c, nil, oerror.New("unable to read biomes of chunk at %v: %v", input.Position, err)
	}
	if err := skipBorderBlocks(buf); err != nil {
		return c, nil, oerror.New("unable to read border blocks of chunk at %v: %v", input.Position, err)
	}
	return c, bytes.Clone(buf.Bytes()), nil
}

func clearCacheWorker() {
	t := time.NewTicker(time.Second)
	defer t.Stop()

	defer func() {
		if err := recover(); err != nil {
			hub := sentry.CurrentHub().Clone()
			hub.Recover(err)
			hub.Flush(time.Second * 5)
		}
	}()

	for range t.C {
		cMu.Lock()
		for chunkHash, cachedChunk := range chunkCache {
			if cachedChunk.subs.Load() <= 0 {
				delete(chunkCache, chunkHash)
			}
		}
		cMu.Unlock()
	}
}

func cacheWorker() {
	defer func() {
		hub := sentry.CurrentHub().Clone()
		if err := recover(); err != nil {
			hub.Recover(oerror.New("cacheWorker crashed: %v", err))
			hub.Flush(time.Second * 5)
		}
	}()

	for req := range chunkQueue {
		chunkHash := xxh3.Hash128(req.input.RawPayload)

		// The lookup and insert happen under one lock so two workers never decode the same payload twice.
		cMu.Lock()
		cachedChunk, found := chunkCache[chunkHash]
		if !found {
			c, blockEntities, err := decodeChunk(req.input)
			if err != nil && req.target.log != nil {
				req.target.log.Warn(err)
			}
			cachedChunk = &CachedChunk{c: c, blockEntities: blockEntities}
			chunkCache[chunkHash] = cachedChunk
		}
		cachedChunk.Subscribe()
		req.target.AddChunk(req.input.Position, cachedChunk)
		cMu.Unlock()

		req.target.loadChunkBlockEntities(cachedChunk.blockEntities)
	}

	logrus.Warnf("cache worker shutdown")
}
