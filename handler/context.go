package handler

import (
	"github.com/oomph-ac/peek/player"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

// Context is the context a request from a player is handled in.
type Context interface {
	// Player returns the player that sent the request.
	Player() *player.Player
	// Execute runs the function passed in a place where the world of the player may be read.
	Execute(f func())
}

// PacketWriter writes packets to a client. *minecraft.Conn implements it.
type PacketWriter interface {
	WritePacket(pk packet.Packet) error
}

// executor is implemented by *worker.Pool.
type executor interface {
	Execute(f func())
}

// playerContext is the Context of requests received through HandlePacket.
type playerContext struct {
	p    *player.Player
	exec executor
}

func (c playerContext) Player() *player.Player { return c.p }
func (c playerContext) Execute(f func())       { c.exec.Execute(f) }
