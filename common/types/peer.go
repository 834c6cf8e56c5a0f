package types

import "github.com/google/uuid"

// PeerID identifies a remote hub.
type PeerID string

// NoPeer is the zero PeerID.
const NoPeer PeerID = ""

// RandomPeerID generates a fresh identity for a hub that has none yet.
func RandomPeerID() PeerID {
	return PeerID(uuid.NewString())
}

func (p PeerID) String() string { return string(p) }
