// Package payload implements the messages exchanged between a client and a server to sync server data of a block
// the client is looking at. Messages travel in ScriptMessage packets.
package payload

import (
	"fmt"

	"github.com/sandertv/gophertunnel/minecraft/nbt"
	"github.com/sandertv/gophertunnel/minecraft/protocol/packet"
)

const (
	// IdentifierRequestBlock identifies a ScriptMessage sent by a client carrying SyncData.
	IdentifierRequestBlock = "peek:request_block"
	// IdentifierReceiveData identifies a ScriptMessage sent by the server carrying server data.
	IdentifierReceiveData = "peek:receive_data"
)

// EncodeServerData encodes server data as little endian network NBT.
func EncodeServerData(data map[string]any) ([]byte, error) {
	b, err := nbt.MarshalEncoding(data, nbt.NetworkLittleEndian)
	if err != nil {
		return nil, fmt.Errorf("encode server data: %w", err)
	}
	return b, nil
}

// DecodeServerData decodes server data encoded with EncodeServerData.
func DecodeServerData(b []byte) (map[string]any, error) {
	var data map[string]any
	if err := nbt.UnmarshalEncoding(b, &data, nbt.NetworkLittleEndian); err != nil {
		return nil, fmt.Errorf("decode server data: %w", err)
	}
	if data == nil {
		data = make(map[string]any)
	}
	return data, nil
}

// RequestPacket returns the packet a client sends to request server data for the SyncData passed.
func RequestPacket(d SyncData) *packet.ScriptMessage {
	return &packet.ScriptMessage{Identifier: IdentifierRequestBlock, Data: EncodeSyncData(d)}
}

// ResponsePacket returns the packet the server sends back with the server data passed.
func ResponsePacket(data map[string]any) (*packet.ScriptMessage, error) {
	b, err := EncodeServerData(data)
	if err != nil {
		return nil, err
	}
	return &packet.ScriptMessage{Identifier: IdentifierReceiveData, Data: b}, nil
}
