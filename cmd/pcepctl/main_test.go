// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package main

import (
	"bytes"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEncodeCmd(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "keepalive",
			args: []string{"encode", "keepalive"},
			want: "20020004\n",
		},
		{
			name: "close",
			args: []string{"encode", "close", "--reason", "2"},
			want: "2007000c0f12000800000002\n",
		},
		{
			name: "open",
			args: []string{"encode", "open", "--session-id", "1", "--keepalive", "30"},
			want: "2001000c01120008201e7801\n",
		},
		{
			name: "sr-ero",
			args: []string{"encode", "sr-ero", "--segment", "16001"},
			want: "0712000c2408000903e81000\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeCmdErrors(t *testing.T) {
	_, err := execute(t, "encode", "sr-ero")
	assert.Error(t, err)

	_, err = execute(t, "encode", "sr-ero", "--segment", "not-a-sid")
	assert.Error(t, err)

	_, err = execute(t, "encode", "initiate", "--src", "192.0.2.1", "--dst", "bad", "--segment", "16001")
	assert.Error(t, err)
}

func TestDecodeCmd(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		out, err := execute(t, "decode", "20 02 00 04", "2007000c0f12000800000002")
		require.NoError(t, err)

		var got []map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(out), &got))
		require.Len(t, got, 2)
		assert.Equal(t, "Keepalive", got[0]["message"].(map[any]any)["messageType"])
		assert.Equal(t, "Close", got[1]["message"].(map[any]any)["messageType"])
	})

	t.Run("json with protocol error", func(t *testing.T) {
		out, err := execute(t, "--json", "decode", "0x2004000c0310000800000000")
		require.NoError(t, err)

		var got []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		require.Len(t, got, 1)
		assert.NotContains(t, got[0], "message")
		assert.Len(t, got[0]["errors"], 1)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stream.bin")
		require.NoError(t, os.WriteFile(path, []byte{0x20, 0x02, 0x00, 0x04, 0x20, 0x02, 0x00, 0x04}, 0o600))

		out, err := execute(t, "--json", "decode", "--file", path)
		require.NoError(t, err)
		var got []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Len(t, got, 2)
	})

	t.Run("invalid hex", func(t *testing.T) {
		_, err := execute(t, "decode", "zz")
		assert.Error(t, err)
	})

	t.Run("truncated stream", func(t *testing.T) {
		_, err := execute(t, "decode", "200200")
		assert.Error(t, err)
	})
}

func TestPcapCmd(t *testing.T) {
	var buf bytes.Buffer
	w := pcapgo.NewWriter(&buf)
	require.NoError(t, w.WriteFileHeader(65536, layers.LinkTypeEthernet))

	ip := &layers.IPv4{
		Version:  4,
		TTL:      64,
		Protocol: layers.IPProtocolTCP,
		SrcIP:    net.IP{192, 0, 2, 1},
		DstIP:    net.IP{192, 0, 2, 2},
	}
	tcp := &layers.TCP{SrcPort: 40000, DstPort: 4189, Seq: 1, ACK: true, PSH: true, Window: 1024}
	require.NoError(t, tcp.SetNetworkLayerForChecksum(ip))
	sb := gopacket.NewSerializeBuffer()
	require.NoError(t, gopacket.SerializeLayers(sb, gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true},
		&layers.Ethernet{
			SrcMAC:       net.HardwareAddr{0x02, 0, 0, 0, 0, 1},
			DstMAC:       net.HardwareAddr{0x02, 0, 0, 0, 0, 2},
			EthernetType: layers.EthernetTypeIPv4,
		},
		ip, tcp, gopacket.Payload{0x20, 0x02, 0x00, 0x04},
	))
	data := sb.Bytes()
	require.NoError(t, w.WritePacket(gopacket.CaptureInfo{CaptureLength: len(data), Length: len(data)}, data))

	path := filepath.Join(t.TempDir(), "pcep.pcap")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))

	out, err := execute(t, "--json", "pcap", path)
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "192.0.2.1:40000 -> 192.0.2.2:4189", got[0]["stream"])
	assert.Len(t, got[0]["messages"], 1)
}
