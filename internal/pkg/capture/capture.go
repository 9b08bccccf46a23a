// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

// Package capture extracts PCEP byte streams from packet captures.
package capture

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"go.uber.org/zap"
)

const PCEPPort = 4189

// pcapng section header block type
var ngMagic = []byte{0x0a, 0x0d, 0x0d, 0x0a}

// Stream is the payload one TCP endpoint sent to its peer, in sequence order.
type Stream struct {
	Src     string
	Dst     string
	Payload []byte

	nextSeq uint32
	started bool
}

func (s *Stream) String() string {
	return fmt.Sprintf("%s -> %s", s.Src, s.Dst)
}

// add appends the part of payload beyond what the stream already holds.
// Segments that arrive ahead of the expected sequence number are dropped.
func (s *Stream) add(seq uint32, payload []byte) bool {
	if !s.started {
		s.started = true
		s.nextSeq = seq
	}
	offset := int32(s.nextSeq - seq)
	switch {
	case offset < 0:
		return false
	case int(offset) >= len(payload):
		return true
	}
	s.Payload = append(s.Payload, payload[offset:]...)
	s.nextSeq = seq + uint32(len(payload))
	return true
}

type packetSource interface {
	ReadPacketData() ([]byte, gopacket.CaptureInfo, error)
	LinkType() layers.LinkType
}

type Extractor struct {
	port   layers.TCPPort
	logger *zap.Logger
}

type Option func(*Extractor)

func WithPort(port uint16) Option {
	return func(e *Extractor) {
		e.port = layers.TCPPort(port)
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		port:   PCEPPort,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Streams reads a pcap or pcapng capture and returns the PCEP streams in
// order of first appearance.
func (e *Extractor) Streams(r io.Reader) ([]*Stream, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(len(ngMagic))
	if err != nil {
		return nil, fmt.Errorf("failed to read capture header: %w", err)
	}
	var src packetSource
	if bytes.Equal(magic, ngMagic) {
		src, err = pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
	} else {
		src, err = pcapgo.NewReader(br)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open capture: %w", err)
	}
	return e.collect(src)
}

func (e *Extractor) collect(src packetSource) ([]*Stream, error) {
	var (
		eth     layers.Ethernet
		sll     layers.LinuxSLL
		dot1q   layers.Dot1Q
		ip4     layers.IPv4
		ip6     layers.IPv6
		tcp     layers.TCP
		payload gopacket.Payload
	)
	first := layers.LayerTypeEthernet
	switch src.LinkType() {
	case layers.LinkTypeEthernet:
	case layers.LinkTypeLinuxSLL:
		first = layers.LayerTypeLinuxSLL
	case layers.LinkTypeRaw, layers.LinkTypeIPv4:
		first = layers.LayerTypeIPv4
	default:
		return nil, fmt.Errorf("unsupported link type %s", src.LinkType())
	}
	parser := gopacket.NewDecodingLayerParser(first, &eth, &sll, &dot1q, &ip4, &ip6, &tcp, &payload)
	parser.IgnoreUnsupported = true
	decoded := []gopacket.LayerType{}

	streams := map[string]*Stream{}
	var order []*Stream
	for n := 1; ; n++ {
		data, _, err := src.ReadPacketData()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("packet %d: %w", n, err)
		}
		if err := parser.DecodeLayers(data, &decoded); err != nil {
			e.logger.Debug("skip undecodable packet", zap.Int("packet", n), zap.Error(err))
			continue
		}

		var netFlow gopacket.Flow
		isTCP := false
		for _, typ := range decoded {
			switch typ {
			case layers.LayerTypeIPv4:
				netFlow = ip4.NetworkFlow()
			case layers.LayerTypeIPv6:
				netFlow = ip6.NetworkFlow()
			case layers.LayerTypeTCP:
				isTCP = true
			}
		}
		if !isTCP || (tcp.SrcPort != e.port && tcp.DstPort != e.port) || len(tcp.Payload) == 0 {
			continue
		}

		netSrc, netDst := netFlow.Endpoints()
		srcKey := fmt.Sprintf("%s:%d", netSrc, tcp.SrcPort)
		dstKey := fmt.Sprintf("%s:%d", netDst, tcp.DstPort)
		key := srcKey + ">" + dstKey
		s, ok := streams[key]
		if !ok {
			s = &Stream{Src: srcKey, Dst: dstKey}
			streams[key] = s
			order = append(order, s)
		}
		if !s.add(tcp.Seq, tcp.Payload) {
			e.logger.Debug("skip out of order segment",
				zap.Int("packet", n), zap.Stringer("stream", s), zap.Uint32("seq", tcp.Seq))
		}
	}
	return order, nil
}
