// Package accessor exposes read access to the target a player is looking at, together with the context needed to
// describe it: the world, the viewer, and data synced from the server.
package accessor

import (
	"github.com/oomph-ac/peek/game"
	"github.com/oomph-ac/peek/player"
	oworld "github.com/oomph-ac/peek/world"
)

// Accessor is implemented by every kind of accessor.
type Accessor interface {
	// World returns the world the target is in.
	World() *oworld.World
	// Player returns the player viewing the target.
	Player() *player.Player
	// ServerData returns the data appended by server data providers. It is never nil.
	ServerData() map[string]any
	// HitResult returns the raycast result the accessor was built from.
	HitResult() game.HitResult
	// ServerConnected returns true if the server is able to answer server data requests.
	ServerConnected() bool
	// ShowDetails returns true if the viewer asked for detailed information.
	ShowDetails() bool
	// Target returns the object being described, or nil if there is none.
	Target() any
	// VerifyData returns false if the server data passed was computed for a different target.
	VerifyData(data map[string]any) bool
}

// base holds the state shared by all accessors.
type base struct {
	w               *oworld.World
	p               *player.Player
	serverData      map[string]any
	hit             game.HitResult
	serverConnected bool
	showDetails     bool
	verify          bool
}

func (a *base) World() *oworld.World       { return a.w }
func (a *base) Player() *player.Player     { return a.p }
func (a *base) ServerData() map[string]any { return a.serverData }
func (a *base) HitResult() game.HitResult  { return a.hit }
func (a *base) ServerConnected() bool      { return a.serverConnected }
func (a *base) ShowDetails() bool          { return a.showDetails }

// requireVerification makes VerifyData compare server data against the target.
func (a *base) requireVerification() {
	a.verify = true
}
