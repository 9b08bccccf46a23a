// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nttcom/pcepcodec/pkg/packet/pcep"
)

const Namespace = "pcepcodec"

const (
	// LabelSource is the component a message was decoded by
	LabelSource = "source"
	// LabelMessageType is the name of a decoded message type
	LabelMessageType = "message_type"
	LabelErrorType   = "error_type"
	LabelErrorValue  = "error_value"

	LabelValueSourceTap  = "tap"
	LabelValueSourceGrpc = "grpc"
)

type Metrics struct {
	Registry *prometheus.Registry

	// Messages counts messages the grammar could build
	Messages *prometheus.CounterVec
	// ProtocolErrors counts the error codes of PCErr answers
	ProtocolErrors *prometheus.CounterVec
	// DecodeFailures counts frames rejected as malformed
	DecodeFailures *prometheus.CounterVec
	// TapSessions is the number of connected tap peers
	TapSessions prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewPedanticRegistry(),
		Messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "messages_total",
			Help:      "The number of decoded PCEP messages",
		}, []string{LabelSource, LabelMessageType}),
		ProtocolErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "protocol_errors_total",
			Help:      "The number of PCEP errors raised while decoding messages",
		}, []string{LabelSource, LabelErrorType, LabelErrorValue}),
		DecodeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "decode_failures_total",
			Help:      "The number of malformed PCEP messages",
		}, []string{LabelSource}),
		TapSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "tap_sessions",
			Help:      "The number of connected tap sessions",
		}),
	}
	m.Registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: Namespace}),
		m.Messages,
		m.ProtocolErrors,
		m.DecodeFailures,
		m.TapSessions,
	)
	return m
}

func (m *Metrics) observe(source string, msg pcep.Message, errs []*pcep.ErrorMessage, err error) {
	if err != nil {
		m.DecodeFailures.WithLabelValues(source).Inc()
		return
	}
	if msg != nil {
		m.Messages.WithLabelValues(source, msg.MessageType().String()).Inc()
	}
	for _, e := range errs {
		for _, code := range e.Codes() {
			m.ProtocolErrors.WithLabelValues(source,
				strconv.Itoa(int(code.Type())),
				strconv.Itoa(int(code.Value())),
			).Inc()
		}
	}
}

func (m *Metrics) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	return mux
}

// Serve exposes /metrics until ctx is done.
func (m *Metrics) Serve(ctx context.Context, address string, port string, logger *zap.Logger) error {
	listenInfo := net.JoinHostPort(address, port)
	srv := &http.Server{
		Addr:              listenInfo,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Info("failed to shutdown metrics server", zap.Error(err), zap.String("server", "metrics"))
		}
	}()

	logger.Info("metrics listen", zap.String("listenInfo", listenInfo), zap.String("server", "metrics"))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
