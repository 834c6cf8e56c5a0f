package client

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/hubsync/go-hub/api/wire"
)

// Unary issues one grpc call per request.
type Unary struct {
	options
	client *wire.HubSyncClient
}

var _ Transport = (*Unary)(nil)

func NewUnary(cc grpc.ClientConnInterface, opts ...Opt) *Unary {
	u := &Unary{options: defaultOptions(), client: wire.NewHubSyncClient(cc)}
	for _, opt := range opts {
		opt(&u.options)
	}
	return u
}

func unaryCall[Req, Resp any](
	u *Unary,
	ctx context.Context,
	method string,
	call func(context.Context, *Req, ...grpc.CallOption) (*Resp, error),
	req *Req,
) (*Resp, error) {
	start := time.Now()
	ctx, cancel := u.withTimeout(ctx)
	defer cancel()
	resp, err := call(ctx, req)
	err = classify(err)
	observe("unary", method, start, err)
	if err != nil {
		u.logger.Debug("unary call failed",
			zap.Stringer("peer", u.peer),
			zap.String("method", method),
			zap.Error(err),
		)
		return nil, err
	}
	return resp, nil
}

func (u *Unary) GetInfo(ctx context.Context, req *wire.InfoRequest) (*wire.HubInfo, error) {
	return unaryCall(u, ctx, "get_info", u.client.GetInfo, req)
}

func (u *Unary) GetSyncSnapshotByPrefix(ctx context.Context, prefix []byte) (*wire.SyncSnapshot, error) {
	return unaryCall(u, ctx, "get_sync_snapshot_by_prefix",
		u.client.GetSyncSnapshotByPrefix, &wire.PrefixRequest{Prefix: prefix})
}

func (u *Unary) GetSyncMetadataByPrefix(ctx context.Context, prefix []byte) (*wire.TrieNodeMetadata, error) {
	return unaryCall(u, ctx, "get_sync_metadata_by_prefix",
		u.client.GetSyncMetadataByPrefix, &wire.PrefixRequest{Prefix: prefix})
}

func (u *Unary) GetAllSyncIDsByPrefix(ctx context.Context, prefix []byte) (*wire.SyncIDs, error) {
	return unaryCall(u, ctx, "get_all_sync_ids_by_prefix",
		u.client.GetAllSyncIDsByPrefix, &wire.PrefixRequest{Prefix: prefix})
}

func (u *Unary) GetAllMessagesBySyncIDs(ctx context.Context, ids [][]byte) (*wire.Messages, error) {
	return unaryCall(u, ctx, "get_all_messages_by_sync_ids",
		u.client.GetAllMessagesBySyncIDs, &wire.SyncIDs{IDs: ids})
}

// Close is a no-op, the connection is owned by the caller.
func (u *Unary) Close() error {
	return nil
}
