package accessor

import (
	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/oomph-ac/peek/assert"
	"github.com/oomph-ac/peek/game"
	"github.com/oomph-ac/peek/player"
	oworld "github.com/oomph-ac/peek/world"
)

// BlockBuilder builds Block accessors. The zero value is not ready for use: use NewBlockBuilder.
type BlockBuilder struct {
	w               *oworld.World
	p               *player.Player
	serverData      map[string]any
	serverConnected bool
	showDetails     bool
	hit             *game.HitResult
	blockState      world.Block
	blockEntity     func() *oworld.BlockEntity
	fakeBlock       item.Stack
	verify          bool
}

// NewBlockBuilder returns a builder for an accessor of an air block without a fake block.
func NewBlockBuilder() *BlockBuilder {
	return &BlockBuilder{blockState: block.Air{}}
}

// World sets the world the block is in.
func (b *BlockBuilder) World(w *oworld.World) *BlockBuilder {
	b.w = w
	return b
}

// Player sets the player looking at the block.
func (b *BlockBuilder) Player(p *player.Player) *BlockBuilder {
	b.p = p
	return b
}

// ServerData sets the server data of the block. An empty map is used if it is never set.
func (b *BlockBuilder) ServerData(data map[string]any) *BlockBuilder {
	b.serverData = data
	return b
}

// ServerConnected sets whether the server is known to answer server data requests.
func (b *BlockBuilder) ServerConnected(connected bool) *BlockBuilder {
	b.serverConnected = connected
	return b
}

// ShowDetails sets whether detailed information was asked for.
func (b *BlockBuilder) ShowDetails(showDetails bool) *BlockBuilder {
	b.showDetails = showDetails
	return b
}

// Hit sets the hit result of the block. It must be set before Build is called.
func (b *BlockBuilder) Hit(hit game.HitResult) *BlockBuilder {
	b.hit = &hit
	return b
}

// BlockState sets the block looked at.
func (b *BlockBuilder) BlockState(state world.Block) *BlockBuilder {
	b.blockState = state
	return b
}

// BlockEntity sets the function called to look up the block entity of the block. It may be nil.
func (b *BlockBuilder) BlockEntity(f func() *oworld.BlockEntity) *BlockBuilder {
	b.blockEntity = f
	return b
}

// FakeBlock sets the item the block is disguised as.
func (b *BlockBuilder) FakeBlock(stack item.Stack) *BlockBuilder {
	b.fakeBlock = stack
	return b
}

// From copies everything but the verification requirement from an existing accessor. The block entity lookup of
// the accessor passed is shared.
func (b *BlockBuilder) From(a Block) *BlockBuilder {
	b.w = a.World()
	b.p = a.Player()
	b.serverData = a.ServerData()
	b.serverConnected = a.ServerConnected()
	b.showDetails = a.ShowDetails()
	hit := a.HitResult()
	b.hit = &hit
	if src, ok := a.(*blockAccessor); ok {
		b.blockEntity = src.blockEntity
	} else {
		b.blockEntity = a.BlockEntity
	}
	b.blockState = a.BlockState()
	b.fakeBlock = a.FakeBlock()
	return b
}

// RequireVerification makes the accessor built check server data against its position in VerifyData.
func (b *BlockBuilder) RequireVerification() *BlockBuilder {
	b.verify = true
	return b
}

// Build builds the accessor. It panics if no hit result was set.
func (b *BlockBuilder) Build() Block {
	assert.IsTrue(b.hit != nil, "block accessor built without a hit result")

	serverData := b.serverData
	if serverData == nil {
		serverData = make(map[string]any)
	}
	state := b.blockState
	if state == nil {
		state = block.Air{}
	}
	a := &blockAccessor{
		base: base{
			w:               b.w,
			p:               b.p,
			serverData:      serverData,
			hit:             *b.hit,
			serverConnected: b.serverConnected,
			showDetails:     b.showDetails,
		},
		blockState:  state,
		blockEntity: b.blockEntity,
		fakeBlock:   b.fakeBlock,
	}
	if b.verify {
		a.requireVerification()
	}
	return a
}
