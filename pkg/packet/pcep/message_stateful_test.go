// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportMessage(t *testing.T) {
	segs := testSegments(16001, 16002)
	srp, err := NewSRPObject(segs, 1, false)
	require.NoError(t, err)
	ero, err := NewEROObject(segs)
	require.NoError(t, err)
	src, dst := mustAddr("192.0.2.1"), mustAddr("192.0.2.2")

	t.Run("SR report with association", func(t *testing.T) {
		data := frame(t, MessageTypeReport,
			srp, NewLSPObject("policy-a", 5),
			NewSRPolicyAssociation(src, 100, dst, 200),
			ero,
		)
		m, errs, err := ParseMessage(data)
		require.NoError(t, err)
		assert.Empty(t, errs)
		rpt := m.(*ReportMessage)
		require.Len(t, rpt.Reports, 1)

		p := rpt.Reports[0].SRPolicy()
		assert.Equal(t, uint32(5), p.PlspID)
		assert.Equal(t, "policy-a", p.Name)
		assert.Equal(t, uint32(100), p.Color)
		assert.Equal(t, uint32(200), p.Preference)
		assert.Equal(t, segs, p.SegmentList)
	})

	t.Run("Color from vendor information", func(t *testing.T) {
		data := frame(t, MessageTypeReport,
			srp, NewLSPObject("policy-b", 6), ero,
			NewCiscoVendorInformation(300, 10),
		)
		m, _, err := ParseMessage(data)
		require.NoError(t, err)
		p := m.(*ReportMessage).Reports[0].SRPolicy()
		assert.Equal(t, uint32(300), p.Color)
		assert.Equal(t, uint32(10), p.Preference)
	})

	t.Run("Non-SR report needs LSP identifiers", func(t *testing.T) {
		withIDs := NewLSPObject("rsvp", 8)
		withIDs.TLVs = append(withIDs.TLVs, NewIPv4LSPIdentifiers(src, dst, 1, 2, 0))
		data := frame(t, MessageTypeReport,
			NewLSPObject("rsvp", 7), ero,
			withIDs, ero,
		)
		m, errs, err := ParseMessage(data)
		require.NoError(t, err)
		assert.Equal(t, []PCEPError{PCEPErrLSPIdentifiersTLVMissing}, errorCodes(errs))
		rpt := m.(*ReportMessage)
		require.Len(t, rpt.Reports, 1)

		p := rpt.Reports[0].SRPolicy()
		assert.Equal(t, uint32(8), p.PlspID)
		assert.Equal(t, src, p.SrcAddr)
		assert.Equal(t, dst, p.DstAddr)
	})

	t.Run("Attributes in RFC8231 order", func(t *testing.T) {
		lspa := &LSPAObject{ObjectFlags: ObjectFlags{ProcessingRule: true}, SetupPriority: 7, HoldingPriority: 7}
		bw := &BandwidthObject{ObjectFlags: ObjectFlags{ProcessingRule: true}, Bandwidth: 1000}
		metric := &MetricObject{MetricType: 2, MetricValue: 20}
		rro := &RROObject{}
		rro.Subobjects = []RouteSubobject{{Subobject: &IPv4PrefixSubobject{Prefix: mustPrefix("10.0.0.1/32")}}}

		data := frame(t, MessageTypeReport, NewLSPObject("", 0), ero, bw, metric, rro, lspa)
		m, errs, err := ParseMessage(data)
		require.NoError(t, err)
		assert.Empty(t, errs)
		path := m.(*ReportMessage).Reports[0].Path
		require.NotNil(t, path)
		assert.Equal(t, lspa, path.LSPA)
		assert.Equal(t, bw, path.Bandwidth)
		assert.Equal(t, []*MetricObject{metric}, path.Metrics)
		assert.Equal(t, rro, path.RRO)
	})

	t.Run("Missing LSP", func(t *testing.T) {
		m, errs, err := ParseMessage(frame(t, MessageTypeReport, srp, ero))
		require.NoError(t, err)
		assert.Nil(t, m)
		assert.Equal(t, []PCEPError{PCEPErrLSPMissing}, errorCodes(errs))
	})

	t.Run("Path without ERO", func(t *testing.T) {
		bw := &BandwidthObject{ObjectFlags: ObjectFlags{ProcessingRule: true}, Bandwidth: 1}
		m, errs, err := ParseMessage(frame(t, MessageTypeReport, srp, NewLSPObject("", 9), bw))
		require.NoError(t, err)
		assert.Nil(t, m)
		assert.Equal(t, []PCEPError{PCEPErrEROMissing}, errorCodes(errs))
	})
}

func TestUpdateMessage(t *testing.T) {
	segs := testSegments(16010, 16020, 16030)
	upd, err := NewUpdateMessage(3, "policy-a", 12, segs)
	require.NoError(t, err)
	data, err := upd.Serialize()
	require.NoError(t, err)

	m, errs, err := ParseMessage(data)
	require.NoError(t, err)
	assert.Empty(t, errs)
	got := m.(*UpdateMessage)
	require.Len(t, got.Updates, 1)
	assert.Equal(t, upd.Updates[0].SRP, got.Updates[0].SRP)
	assert.Equal(t, uint32(12), got.Updates[0].LSP.PlspID)
	assert.Equal(t, "policy-a", got.Updates[0].LSP.Name())
	assert.Equal(t, segs, got.Updates[0].Path.ERO.Segments())

	tests := []struct {
		name string
		objs []Object
		want []PCEPError
	}{
		{
			name: "Missing SRP",
			objs: []Object{NewLSPObject("", 1), upd.Updates[0].Path.ERO},
			want: []PCEPError{PCEPErrSRPMissing},
		},
		{
			name: "Missing LSP",
			objs: []Object{upd.Updates[0].SRP, upd.Updates[0].Path.ERO},
			want: []PCEPError{PCEPErrLSPMissing},
		},
		{
			name: "Missing ERO",
			objs: []Object{upd.Updates[0].SRP, NewLSPObject("", 1)},
			want: []PCEPError{PCEPErrEROMissing},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, errs, err := ParseMessage(frame(t, MessageTypeUpdate, tt.objs...))
			require.NoError(t, err)
			assert.Nil(t, m)
			assert.Equal(t, tt.want, errorCodes(errs))
		})
	}
}

func TestInitiateMessage(t *testing.T) {
	segs := testSegments(16001)
	src, dst := mustAddr("192.0.2.1"), mustAddr("192.0.2.2")

	tests := []struct {
		name             string
		pccType          PCCType
		wantAssociations int
		wantVendorInfo   int
	}{
		{name: "RFC compliant", pccType: PCCTypeRFCCompliant, wantAssociations: 1, wantVendorInfo: 1},
		{name: "Cisco legacy", pccType: PCCTypeCiscoLegacy, wantVendorInfo: 1},
		{name: "Juniper legacy", pccType: PCCTypeJuniperLegacy, wantAssociations: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := NewInitiateMessage(4, "policy-a", segs, 100, 200, src, dst, WithPCCType(tt.pccType))
			require.NoError(t, err)
			data, err := msg.Serialize()
			require.NoError(t, err)

			m, errs, err := ParseMessage(data)
			require.NoError(t, err)
			assert.Empty(t, errs)
			req := m.(*InitiateMessage).Requests[0]
			assert.False(t, req.IsRemoval())
			assert.Len(t, req.Associations, tt.wantAssociations)
			assert.Len(t, req.VendorInformation, tt.wantVendorInfo)
			assert.Equal(t, src, req.Endpoints.Source)
			assert.Equal(t, dst, req.Endpoints.Destination)
			assert.Equal(t, segs, req.Path.ERO.Segments())
			assert.Equal(t, uint32(0), req.LSP.PlspID)
		})
	}

	t.Run("Undefined PCC type", func(t *testing.T) {
		_, err := NewInitiateMessage(4, "policy-a", segs, 100, 200, src, dst, WithPCCType(PCCType(9)))
		assert.Error(t, err)
	})

	t.Run("Removal without ERO", func(t *testing.T) {
		srp, err := NewSRPObject(nil, 5, true)
		require.NoError(t, err)
		m, errs, err := ParseMessage(frame(t, MessageTypeInitiate, srp, NewLSPObject("", 33)))
		require.NoError(t, err)
		assert.Empty(t, errs)
		req := m.(*InitiateMessage).Requests[0]
		assert.True(t, req.IsRemoval())
		assert.Nil(t, req.Path)
	})

	t.Run("Instantiation without ERO", func(t *testing.T) {
		srp, err := NewSRPObject(segs, 6, false)
		require.NoError(t, err)
		m, errs, err := ParseMessage(frame(t, MessageTypeInitiate, srp, NewLSPObject("policy-a", 0)))
		require.NoError(t, err)
		assert.Nil(t, m)
		assert.Equal(t, []PCEPError{PCEPErrEROMissing}, errorCodes(errs))
	})
}
