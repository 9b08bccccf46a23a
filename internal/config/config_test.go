// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Global
		wantErr string
	}{
		{
			name: "Full configuration",
			input: `
global:
  grpcServer:
    address: 192.0.2.10
    port: 50052
  tap:
    address: 192.0.2.10
    port: 14189
    enabled: true
  metrics:
    port: 9100
    enabled: true
  log:
    path: /var/log/pcepcodec/
    name: pcepd.log
    debug: true
  codec:
    keepUnknownTLVs: true
    maxSubobjectDepth: 2
    disabledObjectClasses: [19, 20]
`,
			want: Global{
				GrpcServer: GrpcServer{Address: "192.0.2.10", Port: "50052"},
				Tap:        Tap{Address: "192.0.2.10", Port: "14189", Enabled: true},
				Metrics:    Metrics{Address: DefaultMetricsAddress, Port: "9100", Enabled: true},
				Log:        Log{Path: "/var/log/pcepcodec/", Name: "pcepd.log", Debug: true},
				Codec:      Codec{KeepUnknownTLVs: true, MaxSubobjectDepth: 2, DisabledObjectClasses: []uint8{19, 20}},
			},
		},
		{
			name: "Defaults",
			input: `
global:
  grpcServer:
    port: 50052
  log:
    path: /tmp/
    name: pcepd.log
`,
			want: Global{
				GrpcServer: GrpcServer{Address: DefaultGrpcAddress, Port: "50052"},
				Tap:        Tap{Address: DefaultTapAddress, Port: DefaultTapPort},
				Metrics:    Metrics{Address: DefaultMetricsAddress, Port: DefaultMetricsPort},
				Log:        Log{Path: "/tmp/", Name: "pcepd.log"},
				Codec:      Codec{MaxSubobjectDepth: DefaultMaxSubobjectDepth},
			},
		},
		{
			name:    "Missing mandatory keys",
			input:   "global:\n  tap:\n    enabled: true\n",
			wantErr: "global.grpcServer.port is mandatory",
		},
		{
			name:    "Empty document",
			input:   "",
			wantErr: "config is empty",
		},
		{
			name:    "Malformed YAML",
			input:   "global: [",
			wantErr: "failed to decode config",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Decode(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Global)
		})
	}
}

func TestReadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pcepd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("global:\n  grpcServer: {port: 50052}\n  log: {path: /tmp/, name: a.log}\n"), 0o600))

	c, err := ReadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "50052", c.Global.GrpcServer.Port)

	_, err = ReadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
