// Package client keeps track of the block a viewer is looking at on the client side and of the server data synced
// for it.
package client

import (
	"sync"

	"github.com/oomph-ac/peek/accessor"
	"github.com/oomph-ac/peek/payload"
	"github.com/oomph-ac/peek/player"
	oworld "github.com/oomph-ac/peek/world"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
	"github.com/zeebo/xxh3"
)

// Tracker tracks the accessor of the block a player is looking at.
type Tracker struct {
	p               *player.Player
	log             *logrus.Logger
	interval        uint64
	serverConnected bool

	mu          deadlock.Mutex
	tick        uint64
	current     accessor.Block
	lastHash    uint64
	lastRequest uint64
	requested   bool
}

// NewTracker returns a Tracker for the player passed. Identical requests are sent at most once every interval
// ticks. serverConnected should be true if the server is known to answer requests.
func NewTracker(p *player.Player, interval uint64, serverConnected bool) *Tracker {
	return &Tracker{p: p, log: p.Log(), interval: interval, serverConnected: serverConnected}
}

// Tick advances the tick counter of the tracker.
func (t *Tracker) Tick() {
	t.mu.Lock()
	t.tick++
	t.mu.Unlock()
}

// Current returns the accessor of the block currently looked at, or nil.
func (t *Tracker) Current() accessor.Block {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Pick raycasts from the eyes of the player and builds an accessor for the block hit. False is returned if
// nothing was hit, in which case the current accessor is cleared.
func (t *Tracker) Pick(showDetails bool) (accessor.Block, bool) {
	hit := t.p.Pick(t.p.InteractionRange(), false)

	t.mu.Lock()
	defer t.mu.Unlock()

	if hit.Miss {
		t.current = nil
		return nil, false
	}
	w := t.p.World()
	state := w.Block(hit.Position)

	var blockEntity func() *oworld.BlockEntity
	if oworld.HasBlockEntity(state) {
		pos := hit.Position
		blockEntity = sync.OnceValue(func() *oworld.BlockEntity {
			return w.BlockEntity(pos)
		})
	}
	t.current = accessor.NewBlockBuilder().
		World(w).
		Player(t.p).
		Hit(hit).
		BlockState(state).
		BlockEntity(blockEntity).
		ServerConnected(t.serverConnected).
		ShowDetails(showDetails).
		Build()
	return t.current, true
}

// Request returns the packet requesting server data for the accessor passed. False is returned if the server is
// not connected, or if an identical request was made less than the request interval ago.
func (t *Tracker) Request(a accessor.Block) (*packet.ScriptMessage, bool) {
	if !a.ServerConnected() {
		return nil, false
	}
	pk := payload.RequestPacket(payload.NewSyncData(a))
	hash := xxh3.Hash(pk.Data)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.requested && hash == t.lastHash && t.tick-t.lastRequest < t.interval {
		return nil, false
	}
	t.requested, t.lastHash, t.lastRequest = true, hash, t.tick
	return pk, true
}

// HandleResponse handles a server data response. It returns the current accessor rebuilt with the server data if
// the data belongs to the block currently looked at.
func (t *Tracker) HandleResponse(pk *packet.ScriptMessage) (accessor.Block, bool) {
	if pk.Identifier != payload.IdentifierReceiveData {
		return nil, false
	}
	data, err := payload.DecodeServerData(pk.Data)
	if err != nil {
		t.log.Debugf("dropped malformed server data: %v", err)
		return nil, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil {
		return nil, false
	}
	a := accessor.NewBlockBuilder().From(t.current).ServerData(data).RequireVerification().Build()
	if !a.VerifyData(data) {
		return nil, false
	}
	t.current = a
	return a, true
}
