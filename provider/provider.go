// Package provider holds the registry of server data providers: plugin code that runs on the server to append
// authoritative data about a block to the response sent to a client.
package provider

import (
	"github.com/oomph-ac/peek/accessor"
)

// Wildcard registers a provider for every block.
const Wildcard = "*"

// ServerDataProvider appends server-only data about a block to the data sent back to the client.
type ServerDataProvider interface {
	// UID returns the unique identifier of the provider, for example "peek:block_states".
	UID() string
	// AppendServerData appends data about the block of the accessor passed. The map is the server data of the
	// accessor and is shared by every provider handling the same request.
	AppendServerData(data map[string]any, a accessor.Block) error
}

// Prioritised is implemented by providers that need to run before or after others. Providers with a lower
// priority run first. Providers not implementing it have a priority of 0.
type Prioritised interface {
	Priority() int
}

// priority returns the priority of the provider passed.
func priority(p ServerDataProvider) int {
	if pr, ok := p.(Prioritised); ok {
		return pr.Priority()
	}
	return 0
}
