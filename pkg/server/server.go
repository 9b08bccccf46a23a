// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package server

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/nttcom/pcepcodec/internal/config"
	"github.com/nttcom/pcepcodec/pkg/packet/pcep"
)

type Options struct {
	GrpcAddr       string
	GrpcPort       string
	TapEnabled     bool
	TapAddr        string
	TapPort        string
	MetricsEnabled bool
	MetricsAddr    string
	MetricsPort    string
}

// ServerError tells which component of pcepd stopped and why.
type ServerError struct {
	Server string
	Error  error
}

type Server struct {
	registry *pcep.Registry
	metrics  *Metrics
	logger   *zap.Logger
}

func NewServer(registry *pcep.Registry, metrics *Metrics, logger *zap.Logger) *Server {
	if registry == nil {
		registry = pcep.DefaultRegistry()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		registry: registry,
		metrics:  metrics,
		logger:   logger,
	}
}

// NewRegistry builds the codec registry described by the codec section of
// the configuration.
func NewRegistry(c config.Codec, logger *zap.Logger) *pcep.Registry {
	opts := []pcep.RegistryOption{
		pcep.WithLogger(logger),
		pcep.WithKeepUnknownTLVs(c.KeepUnknownTLVs),
	}
	if c.MaxSubobjectDepth > 0 {
		opts = append(opts, pcep.WithMaxSubobjectDepth(c.MaxSubobjectDepth))
	}
	for _, class := range c.DisabledObjectClasses {
		opts = append(opts, pcep.WithoutObjectClass(pcep.ObjectClass(class)))
	}
	return pcep.NewRegistry(opts...)
}

// Run starts every enabled component and blocks until ctx is done or one
// of them fails.
func (s *Server) Run(ctx context.Context, o *Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errChan := make(chan ServerError, 3)

	apiServer := NewAPIServer(s, grpc.NewServer())
	go func() {
		<-ctx.Done()
		apiServer.grpcServer.GracefulStop()
	}()
	go func() {
		if err := apiServer.Serve(o.GrpcAddr, o.GrpcPort); err != nil {
			errChan <- ServerError{Server: "grpc", Error: err}
		}
	}()

	if o.TapEnabled {
		go func() {
			if err := s.ServeTap(ctx, o.TapAddr, o.TapPort); err != nil {
				errChan <- ServerError{Server: "tap", Error: err}
			}
		}()
	}

	if o.MetricsEnabled {
		go func() {
			if err := s.metrics.Serve(ctx, o.MetricsAddr, o.MetricsPort, s.logger); err != nil {
				errChan <- ServerError{Server: "metrics", Error: err}
			}
		}()
	}

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down", zap.Error(ctx.Err()))
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil
		}
		return ctx.Err()
	case serverError := <-errChan:
		return fmt.Errorf("%s server stopped: %w", serverError.Server, serverError.Error)
	}
}
