package provider

import (
	"slices"

	"github.com/df-mc/dragonfly/server/world"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/peek/utils"
	oworld "github.com/oomph-ac/peek/world"
	"github.com/sasha-s/go-deadlock"
)

// Registry holds server data providers keyed by the blocks and block entities they handle.
type Registry struct {
	mu deadlock.RWMutex

	byBlock       map[string]*orderedmap.OrderedMap[string, ServerDataProvider]
	byBlockEntity map[string]*orderedmap.OrderedMap[string, ServerDataProvider]
	disabled      map[string]struct{}
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byBlock:       make(map[string]*orderedmap.OrderedMap[string, ServerDataProvider]),
		byBlockEntity: make(map[string]*orderedmap.OrderedMap[string, ServerDataProvider]),
		disabled:      make(map[string]struct{}),
	}
}

// RegisterBlock registers a provider for the block names passed, such as "minecraft:furnace". Wildcard registers
// the provider for every block. Registering a provider with the UID of one already registered for a name replaces
// it, keeping its position.
func (r *Registry) RegisterBlock(p ServerDataProvider, names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range names {
		register(r.byBlock, name, p)
	}
}

// RegisterBlockEntity registers a provider for the block entity IDs passed, such as "Furnace".
func (r *Registry) RegisterBlockEntity(p ServerDataProvider, ids ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		register(r.byBlockEntity, id, p)
	}
}

func register(m map[string]*orderedmap.OrderedMap[string, ServerDataProvider], key string, p ServerDataProvider) {
	providers, ok := m[key]
	if !ok {
		providers = orderedmap.NewOrderedMap[string, ServerDataProvider]()
		m[key] = providers
	}
	providers.Set(p.UID(), p)
}

// SetEnabled enables or disables the provider with the UID passed.
func (r *Registry) SetEnabled(uid string, enabled bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if enabled {
		delete(r.disabled, uid)
	} else {
		r.disabled[uid] = struct{}{}
	}
}

// Enabled returns false if the provider with the UID passed was disabled.
func (r *Registry) Enabled(uid string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, disabled := r.disabled[uid]
	return !disabled
}

// BlockProviders returns the enabled providers for the block and block entity passed, sorted by priority. The
// block entity may be nil. Providers registered for the block name come first, followed by wildcard providers and
// providers registered for the block entity.
func (r *Registry) BlockProviders(b world.Block, be *oworld.BlockEntity) []ServerDataProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	collected := orderedmap.NewOrderedMap[string, ServerDataProvider]()
	collect := func(providers *orderedmap.OrderedMap[string, ServerDataProvider]) {
		if providers == nil {
			return
		}
		for el := providers.Front(); el != nil; el = el.Next() {
			if _, disabled := r.disabled[el.Key]; disabled {
				continue
			}
			if _, ok := collected.Get(el.Key); !ok {
				collected.Set(el.Key, el.Value)
			}
		}
	}
	if b != nil {
		collect(r.byBlock[utils.BlockName(b)])
	}
	collect(r.byBlock[Wildcard])
	if be != nil && be.ID != "" {
		collect(r.byBlockEntity[be.ID])
	}

	providers := make([]ServerDataProvider, 0, collected.Len())
	for el := collected.Front(); el != nil; el = el.Next() {
		providers = append(providers, el.Value)
	}
	slices.SortStableFunc(providers, func(a, b ServerDataProvider) int {
		return priority(a) - priority(b)
	})
	return providers
}
