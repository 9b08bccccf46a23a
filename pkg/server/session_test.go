// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedServer() (*Server, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	return NewServer(nil, nil, zap.New(core)), logs
}

func TestSessionRun(t *testing.T) {
	s, logs := newObservedServer()
	client, conn := net.Pipe()

	done := make(chan struct{})
	go func() {
		newSession(conn, s).run(context.Background())
		close(done)
	}()

	for _, f := range [][]byte{keepaliveFrame, replyWithoutRPFrame, keepaliveFrame, closeFrame} {
		_, err := client.Write(f)
		require.NoError(t, err)
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not end after Close")
	}
	client.Close()

	assert.Equal(t, float64(2), testutil.ToFloat64(s.metrics.Messages.WithLabelValues(LabelValueSourceTap, "Keepalive")))
	assert.Equal(t, float64(1), testutil.ToFloat64(s.metrics.Messages.WithLabelValues(LabelValueSourceTap, "Close")))
	assert.Equal(t, float64(1), testutil.ToFloat64(s.metrics.ProtocolErrors.WithLabelValues(LabelValueSourceTap, "6", "1")))
	assert.Equal(t, float64(0), testutil.ToFloat64(s.metrics.TapSessions))

	pcerr := logs.FilterMessage("protocol error").All()
	require.Len(t, pcerr, 1)
	assert.Equal(t, "2006000c0d10000800000601", pcerr[0].ContextMap()["wire"])
	assert.Equal(t, 1, logs.FilterMessage("tap session closed").Len())
}

func TestSessionBrokenStream(t *testing.T) {
	s, logs := newObservedServer()
	client, conn := net.Pipe()

	done := make(chan struct{})
	go func() {
		newSession(conn, s).run(context.Background())
		close(done)
	}()

	// version 2 header
	_, err := client.Write([]byte{0x40, 0x02, 0x00, 0x04})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("session did not end on a bad header")
	}
	client.Close()
	assert.Equal(t, 1, logs.FilterMessage("failed to read message").Len())
}

func TestServeTap(t *testing.T) {
	s, logs := newObservedServer()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() {
		served <- s.serveTap(ctx, listener)
	}()

	conn, err := net.Dial("tcp", listener.Addr().String())
	require.NoError(t, err)
	_, err = conn.Write(append(append([]byte{}, keepaliveFrame...), closeFrame...))
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("tap session closed").Len() == 1
	}, 5*time.Second, 10*time.Millisecond)
	conn.Close()

	cancel()
	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("tap listener did not stop")
	}
}

func TestSessionStopsOnCancel(t *testing.T) {
	tests := []struct {
		name   string
		frames [][]byte
	}{
		{
			name: "Idle session",
		},
		{
			name:   "Session after a Keepalive",
			frames: [][]byte{keepaliveFrame},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, logs := newObservedServer()
			client, conn := net.Pipe()
			defer client.Close()

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				newSession(conn, s).run(ctx)
				close(done)
			}()

			for _, f := range tt.frames {
				_, err := client.Write(f)
				require.NoError(t, err)
			}
			assert.Eventually(t, func() bool {
				return testutil.ToFloat64(s.metrics.TapSessions) == 1
			}, 5*time.Second, 10*time.Millisecond)

			cancel()
			select {
			case <-done:
			case <-time.After(5 * time.Second):
				t.Fatal("session kept running after cancel")
			}
			assert.Equal(t, float64(0), testutil.ToFloat64(s.metrics.TapSessions))
			assert.Equal(t, 1, logs.FilterMessage("tap session stopped").Len())
		})
	}
}
