// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package server

import (
	"context"
	"encoding/hex"
	"errors"
	"io"
	"net"

	"go.uber.org/zap"

	"github.com/nttcom/pcepcodec/pkg/packet/pcep"
)

// ServeTap accepts PCEP connections and decodes everything the peers send.
// Nothing is ever written back.
func (s *Server) ServeTap(ctx context.Context, address string, port string) error {
	listenInfo := net.JoinHostPort(address, port)
	s.logger.Info("tap listen", zap.String("listenInfo", listenInfo), zap.String("server", "tap"))
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", listenInfo)
	if err != nil {
		return err
	}
	return s.serveTap(ctx, listener)
}

func (s *Server) serveTap(ctx context.Context, listener net.Listener) error {
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		ss := newSession(conn, s)
		go ss.run(ctx)
	}
}

type session struct {
	conn     net.Conn
	reader   *pcep.Reader
	registry *pcep.Registry
	metrics  *Metrics
	logger   *zap.Logger
}

func newSession(conn net.Conn, s *Server) *session {
	return &session{
		conn:     conn,
		reader:   pcep.NewReader(conn, s.registry),
		registry: s.registry,
		metrics:  s.metrics,
		logger:   s.logger.With(zap.String("session", conn.RemoteAddr().String()), zap.String("server", "tap")),
	}
}

// run decodes messages until the session ends. Cancelling ctx closes the
// connection.
func (ss *session) run(ctx context.Context) {
	defer ss.conn.Close()
	stop := context.AfterFunc(ctx, func() { ss.conn.Close() })
	defer stop()
	ss.metrics.TapSessions.Inc()
	defer ss.metrics.TapSessions.Dec()
	ss.logger.Info("tap session started")

	for {
		frame, err := ss.reader.ReadFrame()
		if err != nil {
			switch {
			case ctx.Err() != nil:
				ss.logger.Info("tap session stopped")
			case errors.Is(err, io.EOF):
				ss.logger.Info("tap session closed by peer")
			default:
				ss.logger.Info("failed to read message", zap.Error(err))
			}
			return
		}
		if ss.handle(frame) {
			ss.logger.Info("tap session closed")
			return
		}
	}
}

// handle logs one frame and reports whether it ends the session.
func (ss *session) handle(frame []byte) bool {
	m, errs, err := ss.registry.ParseMessage(frame)
	ss.metrics.observe(LabelValueSourceTap, m, errs, err)
	if err != nil {
		ss.logger.Info("failed to decode message", zap.Error(err), zap.String("frame", hex.EncodeToString(frame)))
		return false
	}

	for _, e := range errs {
		wire, serr := e.Serialize()
		if serr != nil {
			ss.logger.Info("failed to serialize PCErr", zap.Error(serr))
			continue
		}
		ss.logger.Info("protocol error", zap.Object("pcerr", e), zap.String("wire", hex.EncodeToString(wire)))
	}
	if m == nil {
		return false
	}

	ss.logger.Info("received message", zap.String("messageType", m.MessageType().String()))
	ss.logger.Debug("message content", zap.Object("message", m))
	_, isClose := m.(*pcep.CloseMessage)
	return isClose
}
