package game

const (
	// EyeHeight is the height of a standing player's eyes above their feet.
	EyeHeight = float32(1.62)

	// DefaultInteractionRange is the block interaction range of a survival player.
	DefaultInteractionRange = float32(4.5)
	// CreativeInteractionRange is the block interaction range of a creative player.
	CreativeInteractionRange = float32(5.0)

	// DefaultSyncRangePadding is added to the interaction range of a player before squaring it to get the maximum
	// distance at which server data is still synced for a block.
	DefaultSyncRangePadding = float32(21)
)
