package handler

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"

	"github.com/rl1809/production-records/internal/core/domain"
)

const recordServiceName = "records.RecordService"

const (
	PingMethod       = "/" + recordServiceName + "/Ping"
	AddRecordMethod  = "/" + recordServiceName + "/AddRecord"
	GetRecordsMethod = "/" + recordServiceName + "/GetRecords"
)

// JSONCodec carries gRPC messages as JSON. Servers and clients of
// RecordService must both use it.
type JSONCodec struct{}

func (JSONCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (JSONCodec) Name() string {
	return "json"
}

type PingRequest struct{}

type PingResponse struct {
	Message string `json:"message"`
}

type AddRecordRequest struct {
	Record domain.RecordInput `json:"record"`
}

type AddRecordResponse struct {
	Message string        `json:"message"`
	Record  domain.Record `json:"record"`
}

type GetRecordsRequest struct{}

type GetRecordsResponse struct {
	Records []domain.Record `json:"records"`
}

type RecordServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	AddRecord(context.Context, *AddRecordRequest) (*AddRecordResponse, error)
	GetRecords(context.Context, *GetRecordsRequest) (*GetRecordsResponse, error)
}

func RegisterRecordServiceServer(s grpc.ServiceRegistrar, srv RecordServiceServer) {
	s.RegisterService(&recordServiceDesc, srv)
}

func pingHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(PingRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RecordServiceServer).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PingMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RecordServiceServer).Ping(ctx, req.(*PingRequest))
	})
}

func addRecordHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(AddRecordRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RecordServiceServer).AddRecord(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: AddRecordMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RecordServiceServer).AddRecord(ctx, req.(*AddRecordRequest))
	})
}

func getRecordsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetRecordsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RecordServiceServer).GetRecords(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetRecordsMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RecordServiceServer).GetRecords(ctx, req.(*GetRecordsRequest))
	})
}

var recordServiceDesc = grpc.ServiceDesc{
	ServiceName: recordServiceName,
	HandlerType: (*RecordServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: pingHandler},
		{MethodName: "AddRecord", Handler: addRecordHandler},
		{MethodName: "GetRecords", Handler: getRecordsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "records.json",
}
