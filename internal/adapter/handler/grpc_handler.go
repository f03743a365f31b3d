package handler

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/rl1809/production-records/internal/core/domain"
	"github.com/rl1809/production-records/internal/core/service"
	"github.com/rl1809/production-records/internal/metrics"
)

type GRPCHandler struct {
	records *service.RecordService
	auth    *service.AuthService
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewGRPCHandler(records *service.RecordService, auth *service.AuthService, m *metrics.Metrics, logger *zap.Logger) *GRPCHandler {
	return &GRPCHandler{
		records: records,
		auth:    auth,
		metrics: m,
		logger:  logger,
	}
}

// NewServer returns a gRPC server with the record service registered and
// bearer authentication on every method except Ping.
func (h *GRPCHandler) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts,
		grpc.ForceServerCodec(JSONCodec{}),
		grpc.UnaryInterceptor(h.authInterceptor),
	)
	srv := grpc.NewServer(opts...)
	RegisterRecordServiceServer(srv, h)
	return srv
}

func (h *GRPCHandler) authInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (interface{}, error) {
	if info.FullMethod == PingMethod {
		return next(ctx, req)
	}

	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get("authorization"); len(values) > 0 {
			header = values[0]
		}
	}

	token, err := bearerToken(header)
	if err == nil {
		var identity string
		identity, err = h.auth.Authenticate(token)
		if err == nil {
			return next(WithIdentity(ctx, identity), req)
		}
	}

	return nil, status.Error(codes.Unauthenticated, unauthorizedMessage(err))
}

func (h *GRPCHandler) Ping(ctx context.Context, req *PingRequest) (*PingResponse, error) {
	return &PingResponse{Message: "pong"}, nil
}

func (h *GRPCHandler) AddRecord(ctx context.Context, req *AddRecordRequest) (*AddRecordResponse, error) {
	user, _ := IdentityFrom(ctx)

	record, err := h.records.AddRecord(ctx, user, req.Record)
	if err != nil {
		return nil, h.statusError(err)
	}

	h.metrics.RecordAppended()
	return &AddRecordResponse{Message: "Record added", Record: record}, nil
}

func (h *GRPCHandler) GetRecords(ctx context.Context, req *GetRecordsRequest) (*GetRecordsResponse, error) {
	records, err := h.records.RecentRecords(ctx)
	if err != nil {
		return nil, h.statusError(err)
	}
	return &GetRecordsResponse{Records: records}, nil
}

func (h *GRPCHandler) statusError(err error) error {
	if errors.Is(err, domain.ErrInvalidRecord) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	h.logger.Error("grpc request failed", zap.Error(err))
	return status.Error(codes.Internal, "internal error")
}
