package provider

import (
	"maps"

	"github.com/oomph-ac/peek/accessor"
	"github.com/oomph-ac/peek/utils"
)

// RegisterDefaults registers the providers shipped with peek.
func RegisterDefaults(r *Registry) {
	r.RegisterBlockEntity(ContainerProvider{},
		"Chest", "Barrel", "ShulkerBox", "Hopper", "Dispenser", "Dropper",
		"Furnace", "BlastFurnace", "Smoker", "BrewingStand",
	)
	r.RegisterBlockEntity(FurnaceProvider{}, "Furnace", "BlastFurnace", "Smoker")
	r.RegisterBlock(BlockStatesProvider{}, Wildcard)
}

// ContainerProvider appends the custom name, the lock and the amount of occupied slots of a container.
type ContainerProvider struct{}

func (ContainerProvider) UID() string { return "peek:container" }

func (ContainerProvider) AppendServerData(data map[string]any, a accessor.Block) error {
	be := a.BlockEntity()
	if be == nil {
		return nil
	}
	if name, ok := be.Data["CustomName"].(string); ok && name != "" {
		data["CustomName"] = name
	}
	if lock, ok := be.Data["Lock"].(string); ok && lock != "" {
		data["Locked"] = byte(1)
	}
	if items, ok := be.Data["Items"].([]any); ok {
		data["OccupiedSlots"] = int32(len(items))
	}
	return nil
}

// FurnaceProvider appends the smelting progress of furnaces, blast furnaces and smokers.
type FurnaceProvider struct{}

func (FurnaceProvider) UID() string { return "peek:furnace" }

// Priority makes the furnace data available before container data is appended.
func (FurnaceProvider) Priority() int { return -10 }

func (FurnaceProvider) AppendServerData(data map[string]any, a accessor.Block) error {
	be := a.BlockEntity()
	if be == nil {
		return nil
	}
	progress := make(map[string]any)
	for _, key := range []string{"BurnTime", "CookTime", "BurnDuration"} {
		if v, ok := be.Data[key].(int16); ok {
			progress[key] = v
		}
	}
	if len(progress) > 0 {
		data["Furnace"] = progress
	}
	return nil
}

// BlockStatesProvider appends the state properties of the block when details are requested.
type BlockStatesProvider struct{}

func (BlockStatesProvider) UID() string { return "peek:block_states" }

// Priority makes block states run after every other provider.
func (BlockStatesProvider) Priority() int { return 100 }

func (BlockStatesProvider) AppendServerData(data map[string]any, a accessor.Block) error {
	if !a.ShowDetails() {
		return nil
	}
	if properties := utils.BlockProperties(a.BlockState()); len(properties) > 0 {
		data["States"] = maps.Clone(properties)
	}
	return nil
}
