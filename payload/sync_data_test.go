package payload

import (
	"bytes"
	"math"
	"testing"

	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/peek/game"
	"github.com/oomph-ac/peek/player"
	oworld "github.com/oomph-ac/peek/world"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
)

func TestSyncDataRoundTrip(t *testing.T) {
	in := SyncData{
		ShowDetails: true,
		Hit: game.HitResult{
			Position: cube.Pos{-12, 70, 33},
			Face:     cube.FaceWest,
			Location: mgl32.Vec3{-12, 70.5, 33.25},
		},
		BlockState: block.Stone{},
		FakeBlock:  item.NewStack(block.Dirt{}, 1),
	}

	out, err := DecodeSyncData(EncodeSyncData(in))
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if !out.ShowDetails || out.Hit.Position != in.Hit.Position || out.Hit.Face != in.Hit.Face {
		t.Fatalf("hit mismatch: got %v, want %v", out.Hit, in.Hit)
	}
	if !out.Hit.Location.ApproxEqual(in.Hit.Location) {
		t.Fatalf("location mismatch: got %v, want %v", out.Hit.Location, in.Hit.Location)
	}
	if world.BlockRuntimeID(out.BlockState) != world.BlockRuntimeID(in.BlockState) {
		t.Fatalf("block state mismatch: got %T", out.BlockState)
	}
	if out.FakeBlock.Empty() || out.FakeBlock.Count() != 1 {
		t.Fatalf("expected fake block to survive, got %v", out.FakeBlock)
	}
}

func TestSyncDataEmptyFakeBlock(t *testing.T) {
	in := SyncData{Hit: game.HitResult{Position: cube.Pos{0, 1, 0}}, BlockState: block.Stone{}}
	out, err := DecodeSyncData(EncodeSyncData(in))
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if !out.FakeBlock.Empty() {
		t.Fatalf("expected empty fake block, got %v", out.FakeBlock)
	}
}

func TestDecodeSyncDataRejectsGarbage(t *testing.T) {
	if _, err := DecodeSyncData([]byte{0x01}); err == nil {
		t.Fatalf("expected truncated payload to fail")
	}

}

func encodeWire(s syncDataWire) []byte {
	var buf bytes.Buffer
	s.Marshal(protocol.NewWriter(&buf, 0))
	return buf.Bytes()
}

func TestDecodeSyncDataRejectsInvalidFields(t *testing.T) {
	stone := world.BlockRuntimeID(block.Stone{})
	valid := syncDataWire{Position: protocol.BlockPos{1, 64, 1}, Face: 1, BlockRuntimeID: stone, ItemName: "minecraft:dirt", ItemCount: 1}
	if _, err := DecodeSyncData(encodeWire(valid)); err != nil {
		t.Fatalf("unexpected error decoding valid sync data: %v", err)
	}

	cases := map[string][]byte{
		"invalid face":         encodeWire(syncDataWire{Face: 9, BlockRuntimeID: stone}),
		"negative face":        encodeWire(syncDataWire{Face: -1, BlockRuntimeID: stone}),
		"unknown runtime ID":   encodeWire(syncDataWire{BlockRuntimeID: math.MaxUint32}),
		"unknown item":         encodeWire(syncDataWire{BlockRuntimeID: stone, ItemName: "peek:not_an_item", ItemCount: 1}),
		"zero item count":      encodeWire(syncDataWire{BlockRuntimeID: stone, ItemName: "minecraft:dirt", ItemCount: 0}),
		"negative item count":  encodeWire(syncDataWire{BlockRuntimeID: stone, ItemName: "minecraft:dirt", ItemCount: -3}),
		"trailing bytes":       append(encodeWire(valid), 0x00),
		"truncated item count": encodeWire(valid)[:len(encodeWire(valid))-1],
	}
	for name, data := range cases {
		if _, err := DecodeSyncData(data); err == nil {
			t.Fatalf("%s: expected decoding to fail", name)
		}
	}
}

func TestUnpackLooksUpBlockEntityOnce(t *testing.T) {
	w := oworld.New(nil)
	w.AddChunk(protocol.ChunkPos{0, 0}, oworld.NewChunk())
	pos := cube.Pos{1, 64, 1}
	w.SetBlock(pos, block.NewChest())
	w.SetBlockEntity(pos, map[string]any{"id": "Chest", "x": int32(1), "y": int32(64), "z": int32(1)})

	p := player.New("viewer", w, nil)
	a := SyncData{Hit: game.HitResult{Position: pos}, BlockState: block.NewChest()}.Unpack(p)
	if a == nil {
		t.Fatalf("expected an accessor")
	}
	be := a.BlockEntity()
	if be == nil || be.ID != "Chest" {
		t.Fatalf("expected chest block entity, got %v", be)
	}

	w.RemoveBlockEntity(pos)
	if a.BlockEntity() == nil {
		t.Fatalf("expected block entity lookup to be memoised")
	}

	plain := SyncData{Hit: game.HitResult{Position: pos}, BlockState: block.Stone{}}.Unpack(p)
	if plain.BlockEntity() != nil {
		t.Fatalf("expected no block entity for a block without one")
	}
}

func TestServerDataRoundTrip(t *testing.T) {
	in := map[string]any{"x": int32(1), "BlockId": "minecraft:stone", "nested": map[string]any{"a": byte(1)}}
	b, err := EncodeServerData(in)
	if err != nil {
		t.Fatalf("unexpected encode error: %v", err)
	}
	out, err := DecodeServerData(b)
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if out["x"] != int32(1) || out["BlockId"] != "minecraft:stone" {
		t.Fatalf("unexpected server data: %v", out)
	}

	pk, err := ResponsePacket(in)
	if err != nil || pk.Identifier != IdentifierReceiveData {
		t.Fatalf("unexpected response packet %v (%v)", pk, err)
	}
}
