package accessor

import (
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/world"
	oworld "github.com/oomph-ac/peek/world"
)

// Block is an accessor for a block that was hit by a raycast.
type Block interface {
	Accessor

	// Block returns the block hit. Dragonfly blocks carry their state, so this is the same value as BlockState.
	Block() world.Block
	// BlockState returns the state of the block hit.
	BlockState() world.Block
	// BlockEntity returns the block entity of the block hit, or nil if it has none.
	BlockEntity() *oworld.BlockEntity
	// Position returns the position of the block hit.
	Position() cube.Pos
	// Side returns the face of the block that was hit.
	Side() cube.Face
	// PickedResult returns the item stack a player would get by picking the block, or an empty stack.
	PickedResult() item.Stack
	// FakeBlock returns the item stack shown instead of the real block, or an empty stack.
	FakeBlock() item.Stack
	// IsFakeBlock returns true if a fake block is shown instead of the real block.
	IsFakeBlock() bool
	// SetFakeBlock sets the item stack shown instead of the real block.
	SetFakeBlock(stack item.Stack)
}

type blockAccessor struct {
	base

	blockState  world.Block
	blockEntity func() *oworld.BlockEntity
	fakeBlock   item.Stack
}

func (a *blockAccessor) Block() world.Block {
	return a.blockState
}

func (a *blockAccessor) BlockState() world.Block {
	return a.blockState
}

func (a *blockAccessor) BlockEntity() *oworld.BlockEntity {
	if a.blockEntity == nil {
		return nil
	}
	return a.blockEntity()
}

func (a *blockAccessor) Position() cube.Pos {
	return a.hit.Position
}

func (a *blockAccessor) Side() cube.Face {
	return a.hit.Face
}

func (a *blockAccessor) PickedResult() item.Stack {
	if it, ok := a.blockState.(world.Item); ok {
		return item.NewStack(it, 1)
	}
	return item.Stack{}
}

// Target returns the block entity of the block, or nil.
func (a *blockAccessor) Target() any {
	if be := a.BlockEntity(); be != nil {
		return be
	}
	return nil
}

func (a *blockAccessor) FakeBlock() item.Stack {
	return a.fakeBlock
}

func (a *blockAccessor) IsFakeBlock() bool {
	return !a.fakeBlock.Empty()
}

func (a *blockAccessor) SetFakeBlock(stack item.Stack) {
	a.fakeBlock = stack
}

// VerifyData compares the "x", "y" and "z" keys of the data passed with the position of the block if
// verification was required when building the accessor.
func (a *blockAccessor) VerifyData(data map[string]any) bool {
	if !a.verify {
		return true
	}
	x, _ := data["x"].(int32)
	y, _ := data["y"].(int32)
	z, _ := data["z"].(int32)
	pos := a.Position()
	return int(x) == pos.X() && int(y) == pos.Y() && int(z) == pos.Z()
}
