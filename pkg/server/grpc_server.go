// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package server

import (
	"context"
	"fmt"
	"math"
	"net"

	"github.com/golang/protobuf/ptypes/empty"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	pb "github.com/nttcom/pcepcodec/api/codec/v1"
	"github.com/nttcom/pcepcodec/pkg/packet/pcep"
)

type APIServer struct {
	server     *Server
	grpcServer *grpc.Server
	pb.UnimplementedCodecServiceServer
}

func NewAPIServer(s *Server, grpcServer *grpc.Server) *APIServer {
	apiServer := &APIServer{
		server:     s,
		grpcServer: grpcServer,
	}
	pb.RegisterCodecServiceServer(grpcServer, apiServer)
	return apiServer
}

func (s *APIServer) Serve(address string, port string) error {
	listenInfo := net.JoinHostPort(address, port)
	s.server.logger.Info("gRPC listen", zap.String("listenInfo", listenInfo), zap.String("server", "grpc"))
	grpcListener, err := net.Listen("tcp", listenInfo)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.grpcServer.Serve(grpcListener)
}

func (s *APIServer) Decode(ctx context.Context, input *wrapperspb.BytesValue) (*structpb.Struct, error) {
	s.server.logger.Debug("received Decode API request", zap.Int("length", len(input.GetValue())), zap.String("server", "grpc"))

	m, errs, err := s.server.registry.ParseMessage(input.GetValue())
	s.server.metrics.observe(LabelValueSourceGrpc, m, errs, err)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "failed to decode message: %v", err)
	}
	desc, err := pcep.Describe(m, errs)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to render message: %v", err)
	}
	ret, err := structpb.NewStruct(desc)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to render message: %v", err)
	}
	return ret, nil
}

func (s *APIServer) Encode(ctx context.Context, input *structpb.Struct) (*wrapperspb.BytesValue, error) {
	s.server.logger.Debug("received Encode API request", zap.Any("input", input.AsMap()), zap.String("server", "grpc"))

	m, err := buildMessage(input.GetFields())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	wire, err := m.Serialize()
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to serialize message: %v", err)
	}
	return wrapperspb.Bytes(wire), nil
}

func (s *APIServer) ListMessageTypes(context.Context, *empty.Empty) (*structpb.Struct, error) {
	types := []any{}
	for _, t := range pcep.MessageTypes() {
		types = append(types, map[string]any{
			"type": float64(t),
			"name": t.String(),
		})
	}
	return structpb.NewStruct(map[string]any{"messageTypes": types})
}

// buildMessage creates the messages that need no more than a few scalar
// fields: Keepalive, Open, Close, PCNtf and PCErr.
func buildMessage(fields map[string]*structpb.Value) (pcep.Message, error) {
	messageType := fields["messageType"].GetStringValue()
	switch messageType {
	case pcep.MessageTypeKeepalive.String():
		return pcep.NewKeepaliveMessage(), nil
	case pcep.MessageTypeOpen.String():
		sessionID, err := uint8Field(fields, "sessionID", 0)
		if err != nil {
			return nil, err
		}
		keepalive, err := uint8Field(fields, "keepalive", 30)
		if err != nil {
			return nil, err
		}
		m := pcep.NewOpenMessage(sessionID, keepalive, nil)
		if m.Open.Deadtime, err = uint8Field(fields, "deadTimer", m.Open.Deadtime); err != nil {
			return nil, err
		}
		return m, nil
	case pcep.MessageTypeClose.String():
		reason, err := uint8Field(fields, "reason", 1)
		if err != nil {
			return nil, err
		}
		return pcep.NewCloseMessage(reason), nil
	case pcep.MessageTypeNotification.String():
		nt, err := uint8Field(fields, "notificationType", 0)
		if err != nil {
			return nil, err
		}
		nv, err := uint8Field(fields, "notificationValue", 0)
		if err != nil {
			return nil, err
		}
		return pcep.NewNotificationMessage(nt, nv), nil
	case pcep.MessageTypeError.String():
		et, err := uint8Field(fields, "errorType", 0)
		if err != nil {
			return nil, err
		}
		ev, err := uint8Field(fields, "errorValue", 0)
		if err != nil {
			return nil, err
		}
		return pcep.NewErrorMessageFromCode(pcep.NewPCEPError(et, ev), nil), nil
	case "":
		return nil, fmt.Errorf("messageType is required")
	default:
		return nil, fmt.Errorf("cannot encode message type %q", messageType)
	}
}

func uint8Field(fields map[string]*structpb.Value, key string, def uint8) (uint8, error) {
	v, ok := fields[key]
	if !ok {
		return def, nil
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	if n.NumberValue < 0 || n.NumberValue > math.MaxUint8 || n.NumberValue != math.Trunc(n.NumberValue) {
		return 0, fmt.Errorf("%s out of range: %v", key, n.NumberValue)
	}
	return uint8(n.NumberValue), nil
}
