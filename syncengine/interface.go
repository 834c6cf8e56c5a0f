package syncengine

import (
	"context"

	"github.com/hubsync/go-hub/api/client"
	"github.com/hubsync/go-hub/common/types"
	"github.com/hubsync/go-hub/messages"
	"github.com/hubsync/go-hub/syncid"
)

//go:generate mockgen -typed -package=mocks -destination=./mocks/mocks.go -source=./interface.go

// Dialer opens sync sessions with peers.
type Dialer interface {
	Dial(ctx context.Context, peer types.PeerID) (client.Transport, error)
	Peers() []types.PeerID
}

// MessageStore is the message store the engine merges into and serves from.
type MessageStore interface {
	Submit(ctx context.Context, source messages.Source, msg *types.Message) (messages.Result, error)
	GetBySyncIDs(ids []syncid.ID) ([]*types.Message, error)
	IterateIDs(fn func(syncid.ID) error) error
	Count() int
	ApproximateSize() (int64, error)
	OnMerged(fn messages.Listener)
	OnRemoved(fn messages.Listener)
}
