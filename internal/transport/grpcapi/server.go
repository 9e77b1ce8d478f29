package grpcapi

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/xtding233/prizewheel/internal/engine"
)

// Wheel is the engine surface the transport needs.
type Wheel interface {
	Spin(ctx context.Context) (engine.Outcome, error)
	Status() engine.Status
	SetMode(mode int) error
	Flush(ctx context.Context)
}

type Server struct {
	wheel  Wheel
	logger *zap.Logger
}

func NewServer(w Wheel, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{wheel: w, logger: logger}
}

// NewGRPCServer builds a grpc.Server with the Wheel service and request logging.
func NewGRPCServer(w Wheel, logger *zap.Logger, opts ...grpc.ServerOption) *grpc.Server {
	s := NewServer(w, logger)
	opts = append(opts, grpc.ChainUnaryInterceptor(s.logUnary))
	gs := grpc.NewServer(opts...)
	RegisterWheelServer(gs, s)
	return gs
}

func (s *Server) Spin(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	out, err := s.wheel.Spin(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return structpb.NewStruct(map[string]any{
		"spin_id":     out.SpinID,
		"date":        out.Date,
		"index":       out.Index,
		"prize_id":    out.PrizeID,
		"prize_name":  out.PrizeName,
		"category":    out.Category,
		"filler":      out.Filler,
		"reason":      out.Reason,
		"probability": out.Probability,
	})
}

func (s *Server) Status(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	b, err := json.Marshal(s.wheel.Status())
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return structpb.NewStruct(m)
}

func (s *Server) SetMode(_ context.Context, in *wrapperspb.Int32Value) (*emptypb.Empty, error) {
	if err := s.wheel.SetMode(int(in.GetValue())); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *Server) Flush(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	s.wheel.Flush(ctx)
	return &emptypb.Empty{}, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, engine.ErrBusy):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, engine.ErrNoStock), errors.Is(err, engine.ErrNoCandidate):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, engine.ErrInvalidMode):
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

func (s *Server) logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	fields := []zap.Field{
		zap.String("method", info.FullMethod),
		zap.Duration("took", time.Since(start)),
	}
	if err != nil {
		s.logger.Warn("grpc call failed", append(fields, zap.Error(err))...)
	} else {
		s.logger.Debug("grpc call", fields...)
	}
	return resp, err
}
