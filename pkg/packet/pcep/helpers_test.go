// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"net/netip"

	"github.com/nttcom/pcepcodec/internal/pkg/segment"
)

func mustAddr(s string) netip.Addr {
	return netip.MustParseAddr(s)
}

func mustPrefix(s string) netip.Prefix {
	return netip.MustParsePrefix(s)
}

// testSegments returns an SR-MPLS segment list with the given SIDs.
func testSegments(sids ...uint32) []segment.Segment {
	segs := make([]segment.Segment, 0, len(sids))
	for _, sid := range sids {
		segs = append(segs, segment.NewSegmentSRMPLS(sid))
	}
	return segs
}
