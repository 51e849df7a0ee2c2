package payload

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/peek/accessor"
	"github.com/oomph-ac/peek/game"
	"github.com/oomph-ac/peek/internal"
	"github.com/oomph-ac/peek/oerror"
	"github.com/oomph-ac/peek/player"
	oworld "github.com/oomph-ac/peek/world"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

// SyncData is a request sent by a client to have the server append its data to a block accessor. It carries just
// enough of the accessor for the server to rebuild it.
type SyncData struct {
	ShowDetails bool
	Hit         game.HitResult
	BlockState  world.Block
	FakeBlock   item.Stack
}

// NewSyncData returns the SyncData of the accessor passed.
func NewSyncData(a accessor.Block) SyncData {
	return SyncData{
		ShowDetails: a.ShowDetails(),
		Hit:         a.HitResult(),
		BlockState:  a.BlockState(),
		FakeBlock:   a.FakeBlock(),
	}
}

// Unpack rebuilds the accessor on the side of the player passed, looking up the block entity in the player's world
// at most once and only if the block state carries one. Nil is returned if the player has no world.
func (d SyncData) Unpack(p *player.Player) accessor.Block {
	if p == nil || p.World() == nil {
		return nil
	}
	w := p.World()

	var blockEntity func() *oworld.BlockEntity
	if oworld.HasBlockEntity(d.BlockState) {
		pos := d.Hit.Position
		blockEntity = sync.OnceValue(func() *oworld.BlockEntity {
			return w.BlockEntity(pos)
		})
	}
	return accessor.NewBlockBuilder().
		World(w).
		Player(p).
		ShowDetails(d.ShowDetails).
		Hit(d.Hit).
		BlockState(d.BlockState).
		BlockEntity(blockEntity).
		FakeBlock(d.FakeBlock).
		Build()
}

// syncDataWire is the network representation of SyncData.
type syncDataWire struct {
	ShowDetails    bool
	Position       protocol.BlockPos
	Face           int32
	Offset         mgl32.Vec3
	Inside         bool
	BlockRuntimeID uint32
	ItemName       string
	ItemMeta       int16
	ItemCount      int32
}

// Marshal encodes or decodes the wire representation depending on the IO passed.
func (s *syncDataWire) Marshal(io protocol.IO) {
	io.Bool(&s.ShowDetails)
	io.BlockPos(&s.Position)
	io.Varint32(&s.Face)
	io.Float32(&s.Offset[0])
	io.Float32(&s.Offset[1])
	io.Float32(&s.Offset[2])
	io.Bool(&s.Inside)
	io.Varuint32(&s.BlockRuntimeID)
	io.String(&s.ItemName)
	io.Int16(&s.ItemMeta)
	io.Varint32(&s.ItemCount)
}

func (d SyncData) wire() syncDataWire {
	state := d.BlockState
	if state == nil {
		state = block.Air{}
	}
	pos := d.Hit.Position
	s := syncDataWire{
		ShowDetails:    d.ShowDetails,
		Position:       protocol.BlockPos{int32(pos[0]), int32(pos[1]), int32(pos[2])},
		Face:           int32(d.Hit.Face),
		Offset:         d.Hit.Offset(),
		Inside:         d.Hit.Inside,
		BlockRuntimeID: world.BlockRuntimeID(state),
	}
	if !d.FakeBlock.Empty() {
		s.ItemName, s.ItemMeta = d.FakeBlock.Item().EncodeItem()
		s.ItemCount = int32(d.FakeBlock.Count())
	}
	return s
}

func (s syncDataWire) syncData() (SyncData, error) {
	if s.Face < 0 || s.Face > 5 {
		return SyncData{}, oerror.New("invalid block face %d", s.Face)
	}
	state, ok := world.BlockByRuntimeID(s.BlockRuntimeID)
	if !ok {
		return SyncData{}, oerror.New("unknown block runtime ID %d", s.BlockRuntimeID)
	}

	var fakeBlock item.Stack
	if s.ItemName != "" {
		it, ok := world.ItemByName(s.ItemName, s.ItemMeta)
		if !ok {
			return SyncData{}, oerror.New("unknown item %s:%d", s.ItemName, s.ItemMeta)
		}
		if s.ItemCount <= 0 {
			return SyncData{}, oerror.New("invalid item count %d", s.ItemCount)
		}
		fakeBlock = item.NewStack(it, int(s.ItemCount))
	}

	pos := cube.Pos{int(s.Position.X()), int(s.Position.Y()), int(s.Position.Z())}
	return SyncData{
		ShowDetails: s.ShowDetails,
		Hit: game.HitResult{
			Position: pos,
			Face:     cube.Face(s.Face),
			Location: game.PosVec3(pos).Add(s.Offset),
			Inside:   s.Inside,
		},
		BlockState: state,
		FakeBlock:  fakeBlock,
	}, nil
}

// EncodeSyncData encodes the SyncData passed into its network representation.
func EncodeSyncData(d SyncData) []byte {
	buf := internal.Buffer()
	defer internal.ReleaseBuffer(buf)

	s := d.wire()
	s.Marshal(protocol.NewWriter(buf, 0))
	return bytes.Clone(buf.Bytes())
}

// DecodeSyncData decodes SyncData from its network representation.
func DecodeSyncData(data []byte) (d SyncData, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decode sync data: %v", r)
		}
	}()

	var s syncDataWire
	buf := bytes.NewBuffer(data)
	s.Marshal(protocol.NewReader(buf, 0, true))
	if buf.Len() != 0 {
		return SyncData{}, oerror.New("%d unread bytes after sync data", buf.Len())
	}
	return s.syncData()
}
