package provider

import (
	"errors"
	"testing"

	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/peek/accessor"
	"github.com/oomph-ac/peek/game"
	oworld "github.com/oomph-ac/peek/world"
)

type mockProvider struct {
	uid      string
	priority int
	err      error
}

func (m mockProvider) UID() string   { return m.uid }
func (m mockProvider) Priority() int { return m.priority }

func (m mockProvider) AppendServerData(data map[string]any, _ accessor.Block) error {
	data[m.uid] = byte(1)
	return m.err
}

func uids(providers []ServerDataProvider) []string {
	s := make([]string, len(providers))
	for i, p := range providers {
		s[i] = p.UID()
	}
	return s
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBlockProvidersMatching(t *testing.T) {
	r := NewRegistry()
	r.RegisterBlock(mockProvider{uid: "test:stone"}, "minecraft:stone")
	r.RegisterBlock(mockProvider{uid: "test:any"}, Wildcard)
	r.RegisterBlockEntity(mockProvider{uid: "test:chest"}, "Chest")

	if got := uids(r.BlockProviders(block.Stone{}, nil)); !equal(got, []string{"test:stone", "test:any"}) {
		t.Fatalf("unexpected providers for stone: %v", got)
	}
	if got := uids(r.BlockProviders(block.Dirt{}, &oworld.BlockEntity{ID: "Chest"})); !equal(got, []string{"test:any", "test:chest"}) {
		t.Fatalf("unexpected providers for dirt with chest entity: %v", got)
	}
	if got := r.BlockProviders(block.Dirt{}, nil); len(got) != 1 {
		t.Fatalf("expected only the wildcard provider, got %v", uids(got))
	}
}

func TestBlockProvidersDeduplicateAndSort(t *testing.T) {
	r := NewRegistry()
	r.RegisterBlock(mockProvider{uid: "test:late", priority: 5}, "minecraft:stone")
	r.RegisterBlock(mockProvider{uid: "test:early", priority: -5}, "minecraft:stone", Wildcard)
	r.RegisterBlock(mockProvider{uid: "test:mid"}, Wildcard)

	got := uids(r.BlockProviders(block.Stone{}, nil))
	if !equal(got, []string{"test:early", "test:mid", "test:late"}) {
		t.Fatalf("unexpected provider order: %v", got)
	}
}

func TestRegisterReplacesSameUID(t *testing.T) {
	r := NewRegistry()
	r.RegisterBlock(mockProvider{uid: "test:a"}, Wildcard)
	r.RegisterBlock(mockProvider{uid: "test:b"}, Wildcard)
	r.RegisterBlock(mockProvider{uid: "test:a", err: errors.New("replaced")}, Wildcard)

	providers := r.BlockProviders(block.Stone{}, nil)
	if got := uids(providers); !equal(got, []string{"test:a", "test:b"}) {
		t.Fatalf("unexpected providers after replacing: %v", got)
	}
	if providers[0].(mockProvider).err == nil {
		t.Fatalf("expected the replacement provider to be returned")
	}
}

func TestSetEnabled(t *testing.T) {
	r := NewRegistry()
	r.RegisterBlock(mockProvider{uid: "test:a"}, Wildcard)
	r.SetEnabled("test:a", false)
	if r.Enabled("test:a") || len(r.BlockProviders(block.Stone{}, nil)) != 0 {
		t.Fatalf("expected disabled provider to be skipped")
	}
	r.SetEnabled("test:a", true)
	if !r.Enabled("test:a") || len(r.BlockProviders(block.Stone{}, nil)) != 1 {
		t.Fatalf("expected enabled provider to be returned")
	}
}

func TestDefaultProviders(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	be := &oworld.BlockEntity{ID: "Furnace", Data: map[string]any{
		"CustomName": "Smelter",
		"Items":      []any{map[string]any{}, map[string]any{}},
		"CookTime":   int16(40),
	}}
	a := accessor.NewBlockBuilder().
		Hit(game.HitResult{Position: cube.Pos{0, 64, 0}}).
		BlockState(block.Stone{}).
		BlockEntity(func() *oworld.BlockEntity { return be }).
		ShowDetails(true).
		Build()

	providers := r.BlockProviders(a.Block(), a.BlockEntity())
	if got := uids(providers); !equal(got, []string{"peek:furnace", "peek:container", "peek:block_states"}) {
		t.Fatalf("unexpected default providers: %v", got)
	}
	data := a.ServerData()
	for _, p := range providers {
		if err := p.AppendServerData(data, a); err != nil {
			t.Fatalf("unexpected provider error: %v", err)
		}
	}
	if data["CustomName"] != "Smelter" || data["OccupiedSlots"] != int32(2) {
		t.Fatalf("unexpected container data: %v", data)
	}
	if furnace, ok := data["Furnace"].(map[string]any); !ok || furnace["CookTime"] != int16(40) {
		t.Fatalf("unexpected furnace data: %v", data["Furnace"])
	}
}
