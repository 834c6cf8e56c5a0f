package wire

import (
	"context"

	"google.golang.org/grpc"

	"github.com/hubsync/go-hub/common/types"
)

const ServiceName = "hub.v1.HubSyncService"

const (
	FullMethodGetInfo                 = "/" + ServiceName + "/GetInfo"
	FullMethodGetSyncSnapshotByPrefix = "/" + ServiceName + "/GetSyncSnapshotByPrefix"
	FullMethodGetSyncMetadataByPrefix = "/" + ServiceName + "/GetSyncMetadataByPrefix"
	FullMethodGetAllSyncIDsByPrefix   = "/" + ServiceName + "/GetAllSyncIdsByPrefix"
	FullMethodGetAllMessagesBySyncIDs = "/" + ServiceName + "/GetAllMessagesBySyncIds"
	FullMethodGetSyncStatus           = "/" + ServiceName + "/GetSyncStatus"
	FullMethodSubmitMessage           = "/" + ServiceName + "/SubmitMessage"
	FullMethodStreamSync              = "/" + ServiceName + "/StreamSync"
)

type StreamSyncServer = grpc.BidiStreamingServer[StreamRequest, StreamResponse]

type StreamSyncClient = grpc.BidiStreamingClient[StreamRequest, StreamResponse]

// HubSyncServer is implemented by the grpc server.
type HubSyncServer interface {
	GetInfo(context.Context, *InfoRequest) (*HubInfo, error)
	GetSyncSnapshotByPrefix(context.Context, *PrefixRequest) (*SyncSnapshot, error)
	GetSyncMetadataByPrefix(context.Context, *PrefixRequest) (*TrieNodeMetadata, error)
	GetAllSyncIDsByPrefix(context.Context, *PrefixRequest) (*SyncIDs, error)
	GetAllMessagesBySyncIDs(context.Context, *SyncIDs) (*Messages, error)
	GetSyncStatus(context.Context, *SyncStatusRequest) (*SyncStatusResponse, error)
	SubmitMessage(context.Context, *types.Message) (*SubmitResponse, error)
	StreamSync(StreamSyncServer) error
}

func unaryHandler[Req, Resp any](
	fullMethod string,
	call func(HubSyncServer, context.Context, *Req) (*Resp, error),
) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(HubSyncServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(srv.(HubSyncServer), ctx, req.(*Req))
		})
	}
}

func streamSyncHandler(srv any, stream grpc.ServerStream) error {
	return srv.(HubSyncServer).StreamSync(&grpc.GenericServerStream[StreamRequest, StreamResponse]{ServerStream: stream})
}

// ServiceDesc describes HubSyncService for grpc.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*HubSyncServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetInfo",
			Handler:    unaryHandler(FullMethodGetInfo, HubSyncServer.GetInfo),
		},
		{
			MethodName: "GetSyncSnapshotByPrefix",
			Handler:    unaryHandler(FullMethodGetSyncSnapshotByPrefix, HubSyncServer.GetSyncSnapshotByPrefix),
		},
		{
			MethodName: "GetSyncMetadataByPrefix",
			Handler:    unaryHandler(FullMethodGetSyncMetadataByPrefix, HubSyncServer.GetSyncMetadataByPrefix),
		},
		{
			MethodName: "GetAllSyncIdsByPrefix",
			Handler:    unaryHandler(FullMethodGetAllSyncIDsByPrefix, HubSyncServer.GetAllSyncIDsByPrefix),
		},
		{
			MethodName: "GetAllMessagesBySyncIds",
			Handler:    unaryHandler(FullMethodGetAllMessagesBySyncIDs, HubSyncServer.GetAllMessagesBySyncIDs),
		},
		{
			MethodName: "GetSyncStatus",
			Handler:    unaryHandler(FullMethodGetSyncStatus, HubSyncServer.GetSyncStatus),
		},
		{
			MethodName: "SubmitMessage",
			Handler:    unaryHandler(FullMethodSubmitMessage, HubSyncServer.SubmitMessage),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "StreamSync",
			Handler:       streamSyncHandler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "hub/v1/sync.scale",
}

// RegisterHubSyncServer registers srv on s.
func RegisterHubSyncServer(s grpc.ServiceRegistrar, srv HubSyncServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// HubSyncClient calls HubSyncService with the scale codec.
type HubSyncClient struct {
	cc grpc.ClientConnInterface
}

func NewHubSyncClient(cc grpc.ClientConnInterface) *HubSyncClient {
	return &HubSyncClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HubSyncClient) GetInfo(ctx context.Context, in *InfoRequest, opts ...grpc.CallOption) (*HubInfo, error) {
	return invoke[HubInfo](ctx, c.cc, FullMethodGetInfo, in, opts)
}

func (c *HubSyncClient) GetSyncSnapshotByPrefix(
	ctx context.Context,
	in *PrefixRequest,
	opts ...grpc.CallOption,
) (*SyncSnapshot, error) {
	return invoke[SyncSnapshot](ctx, c.cc, FullMethodGetSyncSnapshotByPrefix, in, opts)
}

func (c *HubSyncClient) GetSyncMetadataByPrefix(
	ctx context.Context,
	in *PrefixRequest,
	opts ...grpc.CallOption,
) (*TrieNodeMetadata, error) {
	return invoke[TrieNodeMetadata](ctx, c.cc, FullMethodGetSyncMetadataByPrefix, in, opts)
}

func (c *HubSyncClient) GetAllSyncIDsByPrefix(
	ctx context.Context,
	in *PrefixRequest,
	opts ...grpc.CallOption,
) (*SyncIDs, error) {
	return invoke[SyncIDs](ctx, c.cc, FullMethodGetAllSyncIDsByPrefix, in, opts)
}

func (c *HubSyncClient) GetAllMessagesBySyncIDs(
	ctx context.Context,
	in *SyncIDs,
	opts ...grpc.CallOption,
) (*Messages, error) {
	return invoke[Messages](ctx, c.cc, FullMethodGetAllMessagesBySyncIDs, in, opts)
}

func (c *HubSyncClient) GetSyncStatus(
	ctx context.Context,
	in *SyncStatusRequest,
	opts ...grpc.CallOption,
) (*SyncStatusResponse, error) {
	return invoke[SyncStatusResponse](ctx, c.cc, FullMethodGetSyncStatus, in, opts)
}

func (c *HubSyncClient) SubmitMessage(
	ctx context.Context,
	in *types.Message,
	opts ...grpc.CallOption,
) (*SubmitResponse, error) {
	return invoke[SubmitResponse](ctx, c.cc, FullMethodSubmitMessage, in, opts)
}

func (c *HubSyncClient) StreamSync(ctx context.Context, opts ...grpc.CallOption) (StreamSyncClient, error) {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], FullMethodStreamSync, opts...)
	if err != nil {
		return nil, err
	}
	return &grpc.GenericClientStream[StreamRequest, StreamResponse]{ClientStream: stream}, nil
}
