package player

import (
	"github.com/chewxy/math32"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/peek/game"
	oworld "github.com/oomph-ac/peek/world"
	"github.com/sandertv/gophertunnel/minecraft/protocol"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

// Player is a viewer of a world: the entity that looks at blocks and asks for their server data.
type Player struct {
	name string
	log  *logrus.Logger
	w    *oworld.World

	mu               deadlock.RWMutex
	pos              mgl32.Vec3
	yaw, pitch       float32
	gameMode         int32
	interactionRange float32
}

// New returns a new Player standing at the origin of the world passed.
func New(name string, w *oworld.World, log *logrus.Logger) *Player {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Player{
		name:             name,
		log:              log,
		w:                w,
		gameMode:         packet.GameTypeSurvival,
		interactionRange: game.DefaultInteractionRange,
	}
}

// Name returns the display name of the player.
func (p *Player) Name() string {
	return p.name
}

// World returns the world the player is in.
func (p *Player) World() *oworld.World {
	return p.w
}

// Log returns the logger of the player.
func (p *Player) Log() *logrus.Logger {
	return p.log
}

// Move moves the player's feet to the position passed and sets its rotation.
func (p *Player) Move(pos mgl32.Vec3, yaw, pitch float32) {
	p.mu.Lock()
	p.pos, p.yaw, p.pitch = pos, yaw, pitch
	p.mu.Unlock()
}

// Position returns the position of the player's feet.
func (p *Player) Position() mgl32.Vec3 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pos
}

// Rotation returns the yaw and pitch of the player.
func (p *Player) Rotation() (yaw, pitch float32) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.yaw, p.pitch
}

// EyePosition returns the position of the player's eyes.
func (p *Player) EyePosition() mgl32.Vec3 {
	return p.Position().Add(mgl32.Vec3{0, game.EyeHeight})
}

// BlockPosition returns the position of the block the player's feet are in.
func (p *Player) BlockPosition() cube.Pos {
	pos := p.Position()
	return cube.Pos{int(math32.Floor(pos[0])), int(math32.Floor(pos[1])), int(math32.Floor(pos[2]))}
}

// ChunkPos returns the position of the chunk the player is in.
func (p *Player) ChunkPos() protocol.ChunkPos {
	pos := p.BlockPosition()
	return protocol.ChunkPos{int32(pos[0]) >> 4, int32(pos[2]) >> 4}
}

// SetGameMode sets the game mode of the player. Creative players get the creative interaction range.
func (p *Player) SetGameMode(gameMode int32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.gameMode = gameMode
	if gameMode == packet.GameTypeCreative {
		p.interactionRange = game.CreativeInteractionRange
	} else {
		p.interactionRange = game.DefaultInteractionRange
	}
}

// GameMode returns the game mode of the player.
func (p *Player) GameMode() int32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gameMode
}

// SetInteractionRange overrides the block interaction range of the player.
func (p *Player) SetInteractionRange(r float32) {
	p.mu.Lock()
	p.interactionRange = r
	p.mu.Unlock()
}

// InteractionRange returns the distance up to which the player can interact with blocks.
func (p *Player) InteractionRange() float32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.interactionRange
}
