// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package segment

import (
	"errors"
	"fmt"
	"net/netip"
	"strconv"
	"strings"

	api "github.com/osrg/gobgp/v3/api"
)

// Segment is one hop of an SR path.
type Segment interface {
	SidString() string
}

// NewSegment parses an MPLS label ("16001"), an SRv6 SID ("fd00::1") or an
// SRv6 SID with its endpoint behavior code ("fd00::1/1").
func NewSegment(sid string) (Segment, error) {
	if sid6, behavior, found := strings.Cut(sid, "/"); found {
		addr, err := netip.ParseAddr(sid6)
		if err != nil || !addr.Is6() {
			return nil, fmt.Errorf("invalid SRv6 SID %q", sid6)
		}
		b, err := strconv.ParseUint(behavior, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid SRv6 behavior %q", behavior)
		}
		seg := NewSegmentSRv6(addr)
		seg.Behavior = uint16(b)
		return seg, nil
	}
	if addr, err := netip.ParseAddr(sid); err == nil && addr.Is6() {
		return NewSegmentSRv6(addr), nil
	}
	if i, err := strconv.ParseUint(sid, 10, 32); err == nil {
		if i > MaxLabel {
			return nil, fmt.Errorf("label %d exceeds 20 bits", i)
		}
		return NewSegmentSRMPLS(uint32(i)), nil
	}
	return nil, errors.New("invalid SID")
}

// NewSegmentList parses every SID of sids with NewSegment.
func NewSegmentList(sids []string) ([]Segment, error) {
	segs := make([]Segment, 0, len(sids))
	for _, sid := range sids {
		seg, err := NewSegment(sid)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sid, err)
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

const MaxLabel = 1<<20 - 1

type SegmentSRMPLS struct {
	Sid uint32 // 20-bit label
}

func (seg SegmentSRMPLS) SidString() string {
	return strconv.Itoa(int(seg.Sid))
}

// LabelStackEntry returns the 32-bit label stack entry with zero TC, S and TTL.
func (seg SegmentSRMPLS) LabelStackEntry() uint32 {
	return seg.Sid << 12
}

func NewSegmentSRMPLS(sid uint32) SegmentSRMPLS {
	return SegmentSRMPLS{
		Sid: sid,
	}
}

// SegmentSRMPLSFromEntry extracts the label of a 32-bit label stack entry.
func SegmentSRMPLSFromEntry(entry uint32) SegmentSRMPLS {
	return NewSegmentSRMPLS(entry >> 12)
}

// SRv6 SID structure (RFC9603 4.3.1.1)
type SIDStructure struct {
	LocatorBlockLength uint8
	LocatorNodeLength  uint8
	FunctionLength     uint8
	ArgumentLength     uint8
}

type SegmentSRv6 struct {
	Sid       netip.Addr
	Behavior  uint16
	Structure *SIDStructure
}

func (seg SegmentSRv6) SidString() string {
	return seg.Sid.String()
}

// BehaviorString names the endpoint behavior using the BGP SRv6 registry.
func (seg SegmentSRv6) BehaviorString() string {
	return BehaviorName(seg.Behavior)
}

func NewSegmentSRv6(sid netip.Addr) SegmentSRv6 {
	return SegmentSRv6{
		Sid:      sid,
		Behavior: uint16(api.SRv6Behavior_END),
	}
}

// BehaviorName returns the IANA name of an SRv6 endpoint behavior code.
func BehaviorName(behavior uint16) string {
	return api.SRv6Behavior(behavior).String()
}
