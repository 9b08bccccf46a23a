// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package capture

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type segment struct {
	srcPort, dstPort uint16
	seq              uint32
	payload          []byte
}

func writeCapture(t *testing.T, segs []segment) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := pcapgo.NewWriter(&buf)
	require.NoError(t, w.WriteFileHeader(65536, layers.LinkTypeEthernet))

	for i, s := range segs {
		eth := &layers.Ethernet{
			SrcMAC:       net.HardwareAddr{0x02, 0, 0, 0, 0, 1},
			DstMAC:       net.HardwareAddr{0x02, 0, 0, 0, 0, 2},
			EthernetType: layers.EthernetTypeIPv4,
		}
		ip := &layers.IPv4{
			Version:  4,
			TTL:      64,
			Protocol: layers.IPProtocolTCP,
			SrcIP:    net.IP{192, 0, 2, 1},
			DstIP:    net.IP{192, 0, 2, 2},
		}
		if s.srcPort == PCEPPort {
			ip.SrcIP, ip.DstIP = ip.DstIP, ip.SrcIP
		}
		tcp := &layers.TCP{
			SrcPort: layers.TCPPort(s.srcPort),
			DstPort: layers.TCPPort(s.dstPort),
			Seq:     s.seq,
			ACK:     true,
			PSH:     true,
			Window:  1024,
		}
		require.NoError(t, tcp.SetNetworkLayerForChecksum(ip))

		sb := gopacket.NewSerializeBuffer()
		opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
		require.NoError(t, gopacket.SerializeLayers(sb, opts, eth, ip, tcp, gopacket.Payload(s.payload)))
		data := sb.Bytes()
		ci := gopacket.CaptureInfo{
			Timestamp:     time.Unix(1700000000, int64(i)),
			CaptureLength: len(data),
			Length:        len(data),
		}
		require.NoError(t, w.WritePacket(ci, data))
	}
	return buf.Bytes()
}

func TestStreams(t *testing.T) {
	open := []byte{0x20, 0x01, 0x00, 0x0c, 0x01, 0x10, 0x00, 0x08, 0x20, 0x1e, 0x78, 0x01}
	keepalive := []byte{0x20, 0x02, 0x00, 0x04}

	data := writeCapture(t, []segment{
		{srcPort: 40000, dstPort: PCEPPort, seq: 100, payload: open[:6]},
		{srcPort: 40000, dstPort: PCEPPort, seq: 106, payload: open[6:]},
		// retransmission overlapping the previous segment
		{srcPort: 40000, dstPort: PCEPPort, seq: 106, payload: append(append([]byte{}, open[6:]...), keepalive...)},
		{srcPort: PCEPPort, dstPort: 40000, seq: 500, payload: keepalive},
		// segment after a gap
		{srcPort: PCEPPort, dstPort: 40000, seq: 600, payload: keepalive},
		{srcPort: 40000, dstPort: 179, seq: 1, payload: []byte{0xff}},
	})

	streams, err := NewExtractor().Streams(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, streams, 2)

	assert.Equal(t, "192.0.2.1:40000", streams[0].Src)
	assert.Equal(t, "192.0.2.2:4189", streams[0].Dst)
	assert.Equal(t, append(append([]byte{}, open...), keepalive...), streams[0].Payload)

	assert.Equal(t, "192.0.2.2:4189 -> 192.0.2.1:40000", streams[1].String())
	assert.Equal(t, keepalive, streams[1].Payload)
}

func TestStreamsCustomPort(t *testing.T) {
	data := writeCapture(t, []segment{
		{srcPort: 40000, dstPort: 14189, seq: 1, payload: []byte{0x20, 0x02, 0x00, 0x04}},
	})

	streams, err := NewExtractor().Streams(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, streams)

	streams, err = NewExtractor(WithPort(14189)).Streams(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, streams, 1)
}

func TestStreamsInvalidCapture(t *testing.T) {
	_, err := NewExtractor().Streams(bytes.NewReader([]byte{0x01, 0x02}))
	assert.Error(t, err)

	_, err = NewExtractor().Streams(bytes.NewReader(bytes.Repeat([]byte{0x55}, 32)))
	assert.Error(t, err)
}
