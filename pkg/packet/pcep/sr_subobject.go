// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net/netip"

	"go.uber.org/zap/zapcore"

	"github.com/nttcom/pcepcodec/internal/pkg/segment"
)

// NAI types (RFC8664 4.3.1, RFC9603 4.3.1)
const (
	NaiTypeAbsent               uint8 = 0x00
	NaiTypeIPv4Node             uint8 = 0x01
	NaiTypeIPv6Node             uint8 = 0x02
	NaiTypeIPv4Adjacency        uint8 = 0x03
	NaiTypeIPv6AdjacencyGlobal  uint8 = 0x04
	NaiTypeUnnumberedAdjacency  uint8 = 0x05
	NaiTypeIPv6AdjacencyLinkLoc uint8 = 0x06
)

var errSIDAndNAIAbsent = errors.New("SID and NAI are both absent")

// SRNai identifies the node or adjacency a segment refers to. Which fields
// are set depends on the NAI type.
type SRNai struct {
	LocalAddr         netip.Addr
	RemoteAddr        netip.Addr
	LocalNodeID       uint32
	LocalInterfaceID  uint32
	RemoteNodeID      uint32
	RemoteInterfaceID uint32
}

func naiLength(naiType uint8) (int, error) {
	switch naiType {
	case NaiTypeAbsent:
		return 0, nil
	case NaiTypeIPv4Node:
		return 4, nil
	case NaiTypeIPv6Node:
		return 16, nil
	case NaiTypeIPv4Adjacency:
		return 8, nil
	case NaiTypeIPv6AdjacencyGlobal:
		return 32, nil
	case NaiTypeUnnumberedAdjacency:
		return 16, nil
	case NaiTypeIPv6AdjacencyLinkLoc:
		return 40, nil
	}
	return 0, fmt.Errorf("unsupported NAI type %d", naiType)
}

func decodeNai(naiType uint8, b []byte) *SRNai {
	nai := &SRNai{}
	switch naiType {
	case NaiTypeIPv4Node:
		nai.LocalAddr = addrFrom4(b[0:4])
	case NaiTypeIPv6Node:
		nai.LocalAddr = addrFrom16(b[0:16])
	case NaiTypeIPv4Adjacency:
		nai.LocalAddr = addrFrom4(b[0:4])
		nai.RemoteAddr = addrFrom4(b[4:8])
	case NaiTypeIPv6AdjacencyGlobal:
		nai.LocalAddr = addrFrom16(b[0:16])
		nai.RemoteAddr = addrFrom16(b[16:32])
	case NaiTypeUnnumberedAdjacency:
		nai.LocalNodeID = binary.BigEndian.Uint32(b[0:4])
		nai.LocalInterfaceID = binary.BigEndian.Uint32(b[4:8])
		nai.RemoteNodeID = binary.BigEndian.Uint32(b[8:12])
		nai.RemoteInterfaceID = binary.BigEndian.Uint32(b[12:16])
	case NaiTypeIPv6AdjacencyLinkLoc:
		nai.LocalAddr = addrFrom16(b[0:16])
		nai.LocalInterfaceID = binary.BigEndian.Uint32(b[16:20])
		nai.RemoteAddr = addrFrom16(b[20:36])
		nai.RemoteInterfaceID = binary.BigEndian.Uint32(b[36:40])
	}
	return nai
}

func (nai *SRNai) serialize(naiType uint8) []byte {
	switch naiType {
	case NaiTypeIPv4Node:
		return addrBytes(nai.LocalAddr, false)
	case NaiTypeIPv6Node:
		return addrBytes(nai.LocalAddr, true)
	case NaiTypeIPv4Adjacency:
		return AppendByteSlices(addrBytes(nai.LocalAddr, false), addrBytes(nai.RemoteAddr, false))
	case NaiTypeIPv6AdjacencyGlobal:
		return AppendByteSlices(addrBytes(nai.LocalAddr, true), addrBytes(nai.RemoteAddr, true))
	case NaiTypeUnnumberedAdjacency:
		return AppendByteSlices(
			Uint32ToByteSlice(nai.LocalNodeID),
			Uint32ToByteSlice(nai.LocalInterfaceID),
			Uint32ToByteSlice(nai.RemoteNodeID),
			Uint32ToByteSlice(nai.RemoteInterfaceID),
		)
	case NaiTypeIPv6AdjacencyLinkLoc:
		return AppendByteSlices(
			addrBytes(nai.LocalAddr, true),
			Uint32ToByteSlice(nai.LocalInterfaceID),
			addrBytes(nai.RemoteAddr, true),
			Uint32ToByteSlice(nai.RemoteInterfaceID),
		)
	}
	return nil
}

func (nai *SRNai) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	if nai.LocalAddr.IsValid() {
		enc.AddString("localAddr", nai.LocalAddr.String())
	}
	if nai.RemoteAddr.IsValid() {
		enc.AddString("remoteAddr", nai.RemoteAddr.String())
	}
	if nai.LocalNodeID != 0 || nai.RemoteNodeID != 0 {
		enc.AddUint32("localNodeID", nai.LocalNodeID)
		enc.AddUint32("remoteNodeID", nai.RemoteNodeID)
	}
	if nai.LocalInterfaceID != 0 || nai.RemoteInterfaceID != 0 {
		enc.AddUint32("localInterfaceID", nai.LocalInterfaceID)
		enc.AddUint32("remoteInterfaceID", nai.RemoteInterfaceID)
	}
	return nil
}

// SR-ERO Subobject (RFC8664 4.3.1)
const (
	srEroFFlag uint8 = 0x08 // NAI absent
	srEroSFlag uint8 = 0x04 // SID absent
	srEroCFlag uint8 = 0x02
	srEroMFlag uint8 = 0x01
)

type SREroSubobject struct {
	NaiType uint8
	CFlag   bool
	MFlag   bool
	SID     *uint32 // nil when the SID is absent
	Nai     *SRNai  // nil when the NAI is absent
}

const srEroFlagsLength = 2

func decodeSREro(body []byte) (*SREroSubobject, error) {
	if len(body) < srEroFlagsLength {
		return nil, fmt.Errorf("SR-ERO too short: %d bytes", len(body))
	}
	flags := body[1]
	so := &SREroSubobject{
		NaiType: body[0] >> 4,
		CFlag:   IsBitSet(flags, srEroCFlag),
		MFlag:   IsBitSet(flags, srEroMFlag),
	}
	rest := body[srEroFlagsLength:]
	sAbsent := IsBitSet(flags, srEroSFlag)
	fAbsent := IsBitSet(flags, srEroFFlag)
	if sAbsent && fAbsent {
		return nil, errSIDAndNAIAbsent
	}
	if !sAbsent {
		if len(rest) < 4 {
			return nil, fmt.Errorf("SR-ERO SID truncated: %d bytes", len(rest))
		}
		sid := binary.BigEndian.Uint32(rest[0:4])
		so.SID = &sid
		rest = rest[4:]
	}
	if !fAbsent {
		l, err := naiLength(so.NaiType)
		if err != nil {
			return nil, err
		}
		if err := expectBodyLength(rest, l); err != nil {
			return nil, err
		}
		so.Nai = decodeNai(so.NaiType, rest)
		rest = rest[l:]
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("SR-ERO has %d trailing bytes", len(rest))
	}
	return so, nil
}

func (so *SREroSubobject) SubobjectType() SubobjectType {
	return SubobjectTypeSR
}

func (so *SREroSubobject) serializeBody(SubobjectFamily) ([]byte, error) {
	if so.SID == nil && so.Nai == nil {
		return nil, errSIDAndNAIAbsent
	}
	var flags uint8
	flags = SetBit(flags, srEroFFlag, so.Nai == nil)
	flags = SetBit(flags, srEroSFlag, so.SID == nil)
	flags = SetBit(flags, srEroCFlag, so.CFlag)
	flags = SetBit(flags, srEroMFlag, so.MFlag)
	buf := []byte{so.NaiType << 4, flags}
	if so.SID != nil {
		buf = append(buf, Uint32ToByteSlice(*so.SID)...)
	}
	if so.Nai != nil {
		if _, err := naiLength(so.NaiType); err != nil {
			return nil, err
		}
		buf = append(buf, so.Nai.serialize(so.NaiType)...)
	}
	return buf, nil
}

func (so *SREroSubobject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("naiType", so.NaiType)
	enc.AddBool("cFlag", so.CFlag)
	enc.AddBool("mFlag", so.MFlag)
	if seg, ok := so.Segment(); ok {
		enc.AddString("label", seg.SidString())
	} else if so.SID != nil {
		enc.AddUint32("sid", *so.SID)
	}
	if so.Nai != nil {
		return enc.AddObject("nai", so.Nai)
	}
	return nil
}

// Segment returns the MPLS segment when the SID carries a label stack entry.
func (so *SREroSubobject) Segment() (segment.SegmentSRMPLS, bool) {
	if so.SID == nil || !so.MFlag {
		return segment.SegmentSRMPLS{}, false
	}
	return segment.SegmentSRMPLSFromEntry(*so.SID), true
}

func NewSREroSubobject(seg segment.SegmentSRMPLS) *SREroSubobject {
	sid := seg.LabelStackEntry()
	return &SREroSubobject{
		NaiType: NaiTypeAbsent,
		MFlag:   true,
		SID:     &sid,
	}
}

// SRv6-ERO Subobject (RFC9603 4.3.1)
const (
	srv6EroVFlag uint8 = 0x08
	srv6EroTFlag uint8 = 0x04 // SID structure present
	srv6EroFFlag uint8 = 0x02 // NAI absent
	srv6EroSFlag uint8 = 0x01 // SID absent
)

type SRv6EroSubobject struct {
	NaiType   uint8
	VFlag     bool
	Behavior  uint16
	SID       netip.Addr // invalid when the SID is absent
	Nai       *SRNai
	Structure *segment.SIDStructure
}

const (
	srv6EroFixedLength     = 6 // flags, reserved, behavior
	srv6SIDStructureLength = 8
)

func decodeSRv6Ero(body []byte) (*SRv6EroSubobject, error) {
	if len(body) < srv6EroFixedLength {
		return nil, fmt.Errorf("SRv6-ERO too short: %d bytes", len(body))
	}
	flags := body[1]
	so := &SRv6EroSubobject{
		NaiType:  body[0] >> 4,
		VFlag:    IsBitSet(flags, srv6EroVFlag),
		Behavior: binary.BigEndian.Uint16(body[4:6]),
	}
	rest := body[srv6EroFixedLength:]
	sAbsent := IsBitSet(flags, srv6EroSFlag)
	fAbsent := IsBitSet(flags, srv6EroFFlag)
	if sAbsent && fAbsent {
		return nil, errSIDAndNAIAbsent
	}
	if !sAbsent {
		if len(rest) < 16 {
			return nil, fmt.Errorf("SRv6-ERO SID truncated: %d bytes", len(rest))
		}
		so.SID = addrFrom16(rest[0:16])
		rest = rest[16:]
	}
	if !fAbsent {
		switch so.NaiType {
		case NaiTypeIPv6Node, NaiTypeIPv6AdjacencyGlobal, NaiTypeIPv6AdjacencyLinkLoc:
		default:
			return nil, fmt.Errorf("unsupported NAI type %d for SRv6", so.NaiType)
		}
		l, _ := naiLength(so.NaiType)
		if len(rest) < l {
			return nil, fmt.Errorf("SRv6-ERO NAI truncated: %d bytes", len(rest))
		}
		so.Nai = decodeNai(so.NaiType, rest)
		rest = rest[l:]
	}
	if IsBitSet(flags, srv6EroTFlag) {
		if len(rest) < srv6SIDStructureLength {
			return nil, fmt.Errorf("SRv6-ERO SID structure truncated: %d bytes", len(rest))
		}
		so.Structure = &segment.SIDStructure{
			LocatorBlockLength: rest[0],
			LocatorNodeLength:  rest[1],
			FunctionLength:     rest[2],
			ArgumentLength:     rest[3],
		}
		rest = rest[srv6SIDStructureLength:]
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("SRv6-ERO has %d trailing bytes", len(rest))
	}
	return so, nil
}

func (so *SRv6EroSubobject) SubobjectType() SubobjectType {
	return SubobjectTypeSRv6
}

func (so *SRv6EroSubobject) serializeBody(SubobjectFamily) ([]byte, error) {
	sidPresent := so.SID.IsValid()
	if !sidPresent && so.Nai == nil {
		return nil, errSIDAndNAIAbsent
	}
	var flags uint8
	flags = SetBit(flags, srv6EroVFlag, so.VFlag)
	flags = SetBit(flags, srv6EroTFlag, so.Structure != nil)
	flags = SetBit(flags, srv6EroFFlag, so.Nai == nil)
	flags = SetBit(flags, srv6EroSFlag, !sidPresent)
	buf := []byte{so.NaiType << 4, flags, 0, 0}
	buf = append(buf, Uint16ToByteSlice(so.Behavior)...)
	if sidPresent {
		buf = append(buf, addrBytes(so.SID, true)...)
	}
	if so.Nai != nil {
		buf = append(buf, so.Nai.serialize(so.NaiType)...)
	}
	if s := so.Structure; s != nil {
		buf = append(buf, s.LocatorBlockLength, s.LocatorNodeLength, s.FunctionLength, s.ArgumentLength, 0, 0, 0, 0)
	}
	return buf, nil
}

func (so *SRv6EroSubobject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("naiType", so.NaiType)
	enc.AddBool("vFlag", so.VFlag)
	enc.AddString("behavior", segment.BehaviorName(so.Behavior))
	if so.SID.IsValid() {
		enc.AddString("sid", so.SID.String())
	}
	if so.Nai != nil {
		return enc.AddObject("nai", so.Nai)
	}
	return nil
}

// Segment returns the SRv6 segment described by the sub-object.
func (so *SRv6EroSubobject) Segment() (segment.SegmentSRv6, bool) {
	if !so.SID.IsValid() {
		return segment.SegmentSRv6{}, false
	}
	return segment.SegmentSRv6{Sid: so.SID, Behavior: so.Behavior, Structure: so.Structure}, true
}

func NewSRv6EroSubobject(seg segment.SegmentSRv6) *SRv6EroSubobject {
	return &SRv6EroSubobject{
		NaiType:   NaiTypeAbsent,
		Behavior:  seg.Behavior,
		SID:       seg.Sid,
		Structure: seg.Structure,
	}
}

// NewSegmentSubobjects builds strict ERO sub-objects from a segment list.
func NewSegmentSubobjects(segs []segment.Segment) ([]RouteSubobject, error) {
	list := make([]RouteSubobject, 0, len(segs))
	for _, seg := range segs {
		switch s := seg.(type) {
		case segment.SegmentSRMPLS:
			list = append(list, RouteSubobject{Subobject: NewSREroSubobject(s)})
		case segment.SegmentSRv6:
			list = append(list, RouteSubobject{Subobject: NewSRv6EroSubobject(s)})
		default:
			return nil, fmt.Errorf("unsupported segment type %T", seg)
		}
	}
	return list, nil
}

// Segments returns the segments carried by SR and SRv6 sub-objects of list.
func Segments(list []RouteSubobject) []segment.Segment {
	var segs []segment.Segment
	for _, rs := range list {
		switch so := rs.Subobject.(type) {
		case *SREroSubobject:
			if seg, ok := so.Segment(); ok {
				segs = append(segs, seg)
			}
		case *SRv6EroSubobject:
			if seg, ok := so.Segment(); ok {
				segs = append(segs, seg)
			}
		}
	}
	return segs
}
