// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// objectBytes prepends a common object header with the P flag set.
func objectBytes(class ObjectClass, typ ObjectType, body ...[]byte) []byte {
	b := AppendByteSlices(body...)
	h := NewCommonObjectHeader(class, typ, CommonObjectHeaderLength+uint16(len(b)))
	h.PFlag = true
	return append(h.Serialize(), b...)
}

func addrSlice(s string) []byte {
	return mustAddr(s).AsSlice()
}

func TestObjectReferenceVectors(t *testing.T) {
	ipv4Prefix := []byte{0x01, 0x08, 10, 0, 0, 1, 32, 0x00}
	rroPrefix := []byte{0x01, 0x08, 192, 0, 2, 1, 32, 0x03}
	kbps := []byte{0x44, 0x7a, 0x00, 0x00} // 1000.0

	tests := []struct {
		name  string
		input []byte
		opts  []RegistryOption
		want  Object
	}{
		{
			name:  "OPEN",
			input: objectBytes(ObjectClassOpen, ObjectTypeOpen, []byte{0x20, 0x1e, 0x78, 0x01}),
		},
		{
			name:  "RP",
			input: objectBytes(ObjectClassRP, ObjectTypeRP, []byte{0x00, 0x00, 0x00, 0x13, 0x00, 0x00, 0x00, 0x01}),
		},
		{
			name:  "NO-PATH",
			input: objectBytes(ObjectClassNoPath, ObjectTypeNoPath, []byte{0x01, 0x80, 0x00, 0x00}),
		},
		{
			name:  "END-POINTS IPv4",
			input: objectBytes(ObjectClassEndpoints, ObjectTypeEndpointsIPv4, addrSlice("10.0.0.1"), addrSlice("10.0.0.2")),
		},
		{
			name:  "END-POINTS IPv6",
			input: objectBytes(ObjectClassEndpoints, ObjectTypeEndpointsIPv6, addrSlice("2001:db8::1"), addrSlice("2001:db8::2")),
		},
		{
			name: "END-POINTS P2MP IPv4",
			input: objectBytes(ObjectClassEndpoints, ObjectTypeEndpointsP2MPIPv4,
				[]byte{0x00, 0x00, 0x00, 0x01}, addrSlice("10.0.0.1"), addrSlice("10.0.0.2"), addrSlice("10.0.0.3")),
		},
		{
			name:  "BANDWIDTH requested",
			input: objectBytes(ObjectClassBandwidth, ObjectTypeBandwidthRequested, kbps),
			want:  &BandwidthObject{ObjectFlags: ObjectFlags{ProcessingRule: true}, Bandwidth: 1000},
		},
		{
			name:  "BANDWIDTH reoptimization",
			input: objectBytes(ObjectClassBandwidth, ObjectTypeBandwidthReoptimization, kbps),
			want:  &ReoptimizationBandwidthObject{ObjectFlags: ObjectFlags{ProcessingRule: true}, Bandwidth: 1000},
		},
		{
			name:  "METRIC",
			input: objectBytes(ObjectClassMetric, ObjectTypeMetric, []byte{0x00, 0x00, 0x03, MetricTypeTE, 0x41, 0x20, 0x00, 0x00}),
			want: &MetricObject{
				ObjectFlags: ObjectFlags{ProcessingRule: true},
				BFlag:       true,
				CFlag:       true,
				MetricType:  MetricTypeTE,
				MetricValue: 10,
			},
		},
		{
			name:  "ERO",
			input: objectBytes(ObjectClassERO, ObjectTypeERO, ipv4Prefix),
		},
		{
			name:  "RRO",
			input: objectBytes(ObjectClassRRO, ObjectTypeRRO, rroPrefix),
		},
		{
			name: "LSPA",
			input: objectBytes(ObjectClassLSPA, ObjectTypeLSPA, []byte{
				0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x02,
				0x00, 0x00, 0x00, 0x04, 0x07, 0x07, 0x01, 0x00,
			}),
		},
		{
			name:  "IRO",
			input: objectBytes(ObjectClassIRO, ObjectTypeIRO, []byte{0x81, 0x08, 10, 0, 0, 1, 32, 0x00}),
		},
		{
			name:  "SVEC",
			input: objectBytes(ObjectClassSVEC, ObjectTypeSVEC, []byte{0x00, 0x00, 0x00, 0x07, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x02}),
		},
		{
			name:  "NOTIFICATION",
			input: objectBytes(ObjectClassNotification, ObjectTypeNotification, []byte{0x00, 0x00, 0x02, 0x01}),
		},
		{
			name:  "PCEP-ERROR",
			input: objectBytes(ObjectClassPCEPError, ObjectTypePCEPError, []byte{0x00, 0x00, 0x01, 0x02}),
		},
		{
			name:  "LOAD-BALANCING",
			input: objectBytes(ObjectClassLoadBalancing, ObjectTypeLoadBalancing, []byte{0x00, 0x00, 0x00, 0x04}, kbps),
			want:  &LoadBalancingObject{ObjectFlags: ObjectFlags{ProcessingRule: true}, MaxLSP: 4, MinBandwidth: 1000},
		},
		{
			name:  "CLOSE",
			input: objectBytes(ObjectClassClose, ObjectTypeClose, []byte{0x00, 0x00, 0x00, 0x02}),
		},
		{
			name:  "PATH-KEY",
			input: objectBytes(ObjectClassPathKey, ObjectTypePathKey, []byte{0x40, 0x08, 0x12, 0x34, 0x12, 0x34, 0x50, 0x00}),
		},
		{
			name:  "XRO",
			input: objectBytes(ObjectClassXRO, ObjectTypeXRO, []byte{0x00, 0x00, 0x00, 0x01, 0x81, 0x08, 10, 1, 0, 0, 16, 0x01}),
		},
		{
			name:  "MONITORING",
			input: objectBytes(ObjectClassMonitoring, ObjectTypeMonitoring, []byte{0x00, 0x00, 0x00, 0x03, 0x00, 0x00, 0x00, 0x09}),
		},
		{
			name:  "PCC-REQ-ID IPv4",
			input: objectBytes(ObjectClassPCCReqID, ObjectTypePCCReqIDIPv4, addrSlice("10.0.0.1")),
		},
		{
			name:  "PCC-REQ-ID IPv6",
			input: objectBytes(ObjectClassPCCReqID, ObjectTypePCCReqIDIPv6, addrSlice("2001:db8::1")),
		},
		{
			name:  "PCC-REQ-ID IPv6 holding an IPv4-mapped address",
			input: objectBytes(ObjectClassPCCReqID, ObjectTypePCCReqIDIPv6, addrSlice("::ffff:10.0.0.1")),
		},
		{
			name:  "OF",
			input: objectBytes(ObjectClassOF, ObjectTypeOF, []byte{0x00, 0x01, 0x00, 0x00}),
		},
		{
			name:  "CLASSTYPE",
			input: objectBytes(ObjectClassClassType, ObjectTypeClassType, []byte{0x00, 0x00, 0x00, 0x01}),
			want:  &ClassTypeObject{ObjectFlags: ObjectFlags{ProcessingRule: true}, ClassType: 1},
		},
		{
			name:  "GC",
			input: objectBytes(ObjectClassGlobalConstraints, ObjectTypeGlobalConstraints, []byte{5, 90, 10, 100}),
		},
		{
			name:  "PCE-ID IPv4",
			input: objectBytes(ObjectClassPCEID, ObjectTypePCEIDIPv4, addrSlice("192.0.2.1")),
		},
		{
			name:  "PCE-ID IPv6",
			input: objectBytes(ObjectClassPCEID, ObjectTypePCEIDIPv6, addrSlice("2001:db8::1")),
		},
		{
			name:  "PCE-ID IPv6 holding an IPv4-mapped address",
			input: objectBytes(ObjectClassPCEID, ObjectTypePCEIDIPv6, addrSlice("::ffff:10.0.0.1")),
		},
		{
			name: "PROC-TIME",
			input: objectBytes(ObjectClassProcTime, ObjectTypeProcTime, []byte{
				0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x05,
				0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x09,
				0x00, 0x00, 0x00, 0x04, 0x00, 0x00, 0x00, 0x02,
			}),
			want: &ProcTimeObject{
				ObjectFlags: ObjectFlags{ProcessingRule: true},
				Estimated:   true,
				Current:     5,
				Min:         1,
				Max:         9,
				Average:     4,
				Variance:    2,
			},
		},
		{
			name:  "OVERLOAD",
			input: objectBytes(ObjectClassOverload, ObjectTypeOverload, []byte{0x00, 0x00, 0x00, 0x3c}),
			want:  &OverloadObject{ObjectFlags: ObjectFlags{ProcessingRule: true}, Duration: 60},
		},
		{
			name:  "UNREACH-DESTINATION IPv4",
			input: objectBytes(ObjectClassUnreachDestination, ObjectTypeUnreachDestinationIPv4, addrSlice("10.0.0.1"), addrSlice("10.0.0.2")),
		},
		{
			name:  "UNREACH-DESTINATION IPv6",
			input: objectBytes(ObjectClassUnreachDestination, ObjectTypeUnreachDestinationIPv6, addrSlice("2001:db8::1")),
		},
		{
			name:  "UNREACH-DESTINATION IPv6 without destinations",
			input: objectBytes(ObjectClassUnreachDestination, ObjectTypeUnreachDestinationIPv6),
		},
		{
			name:  "UNREACH-DESTINATION IPv6 holding an IPv4-mapped address",
			input: objectBytes(ObjectClassUnreachDestination, ObjectTypeUnreachDestinationIPv6, addrSlice("::ffff:10.0.0.1")),
		},
		{
			name:  "SERO",
			input: objectBytes(ObjectClassSERO, ObjectTypeSERO, ipv4Prefix),
		},
		{
			name:  "SRRO",
			input: objectBytes(ObjectClassSRRO, ObjectTypeSRRO, rroPrefix),
		},
		{
			name:  "BNC branch node list",
			input: objectBytes(ObjectClassBNC, ObjectTypeBranchNodeList, ipv4Prefix),
		},
		{
			name:  "BNC non-branch node list",
			input: objectBytes(ObjectClassBNC, ObjectTypeNonBranchNodeList, ipv4Prefix),
		},
		{
			name: "LSP with an unpadded symbolic name",
			input: objectBytes(ObjectClassLSP, ObjectTypeLSP,
				[]byte{0x00, 0x00, 0x10, 0x29},
				[]byte{0x00, 0x11, 0x00, 0x04, 'l', 's', 'p', '1'}),
		},
		{
			name: "LSP with a padded symbolic name",
			input: objectBytes(ObjectClassLSP, ObjectTypeLSP,
				[]byte{0x00, 0x00, 0x10, 0x29},
				[]byte{0x00, 0x11, 0x00, 0x02, 'a', 'b', 0x00, 0x00}),
		},
		{
			name: "SRP with PATH-SETUP-TYPE",
			input: objectBytes(ObjectClassSRP, ObjectTypeSRP,
				[]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01},
				[]byte{0x00, 0x1c, 0x00, 0x04, 0x00, 0x00, 0x00, 0x01}),
		},
		{
			name:  "VENDOR-INFORMATION kept as raw data",
			input: objectBytes(ObjectClassVendorInformation, ObjectTypeVendorInformation, []byte{0x00, 0x00, 0x12, 0x34, 0xde, 0xad, 0xbe, 0xef}),
			opts:  []RegistryOption{WithKeepUnknownTLVs(true)},
		},
		{
			name: "ASSOCIATION IPv4",
			input: objectBytes(ObjectClassAssociation, ObjectTypeAssociationIPv4,
				[]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x06, 0x00, 0x01}, addrSlice("10.0.0.1")),
		},
		{
			name: "ASSOCIATION IPv6",
			input: objectBytes(ObjectClassAssociation, ObjectTypeAssociationIPv6,
				[]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x06, 0x00, 0x01}, addrSlice("2001:db8::1")),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objs, err := NewRegistry(tt.opts...).DecodeObjects(tt.input)
			require.NoError(t, err)
			require.Len(t, objs, 1)
			if tt.want != nil {
				assert.Equal(t, tt.want, objs[0])
			}

			got, err := SerializeObject(objs[0])
			require.NoError(t, err)
			assert.Equal(t, tt.input, got)
		})
	}
}

func TestFixedObjectBodyLength(t *testing.T) {
	extra := []byte{0x7b, 0x2f, 0x66, 0x1e}
	tests := []struct {
		name  string
		input []byte
	}{
		{
			name:  "BANDWIDTH requested with trailing data",
			input: objectBytes(ObjectClassBandwidth, ObjectTypeBandwidthRequested, []byte{0x7b, 0x2f, 0x66, 0x1e}, extra, extra, extra),
		},
		{
			name:  "BANDWIDTH reoptimization with trailing data",
			input: objectBytes(ObjectClassBandwidth, ObjectTypeBandwidthReoptimization, []byte{0x44, 0x7a, 0x00, 0x00}, extra),
		},
		{
			name:  "METRIC with trailing data",
			input: objectBytes(ObjectClassMetric, ObjectTypeMetric, []byte{0x00, 0x00, 0x00, 0x02, 0x41, 0x20, 0x00, 0x00}, extra),
		},
		{
			name:  "METRIC too short",
			input: objectBytes(ObjectClassMetric, ObjectTypeMetric, []byte{0x00, 0x00, 0x00, 0x02}),
		},
		{
			name:  "LOAD-BALANCING with trailing data",
			input: objectBytes(ObjectClassLoadBalancing, ObjectTypeLoadBalancing, []byte{0x00, 0x00, 0x00, 0x04, 0x44, 0x7a, 0x00, 0x00}, extra),
		},
		{
			name:  "CLASSTYPE with trailing data",
			input: objectBytes(ObjectClassClassType, ObjectTypeClassType, []byte{0x00, 0x00, 0x00, 0x01}, extra),
		},
		{
			name:  "PROC-TIME with trailing data",
			input: objectBytes(ObjectClassProcTime, ObjectTypeProcTime, make([]byte, procTimeObjectBodySize), extra),
		},
		{
			name:  "OVERLOAD with trailing data",
			input: objectBytes(ObjectClassOverload, ObjectTypeOverload, []byte{0x00, 0x00, 0x00, 0x3c}, extra),
		},
		{
			name:  "PCE-ID IPv6 with an IPv4-sized body",
			input: objectBytes(ObjectClassPCEID, ObjectTypePCEIDIPv6, addrSlice("10.0.0.1")),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistry().DecodeObjects(tt.input)
			require.Error(t, err)
			var de *DeserializeError
			assert.ErrorAs(t, err, &de)
		})
	}
}

func TestAddressObjectType(t *testing.T) {
	tests := []struct {
		name     string
		obj      Object
		wantType ObjectType
		want     []byte
		wantErr  bool
	}{
		{
			name:     "IPv4 address without a type",
			obj:      &PCEIDObject{addressObject{Address: mustAddr("10.0.0.1")}},
			wantType: ObjectTypePCEIDIPv4,
			want:     addrSlice("10.0.0.1"),
		},
		{
			name:     "IPv6 address without a type",
			obj:      &PCCReqIDObject{addressObject{Address: mustAddr("2001:db8::1")}},
			wantType: ObjectTypePCCReqIDIPv6,
			want:     addrSlice("2001:db8::1"),
		},
		{
			name:     "IPv4 address sent as IPv6",
			obj:      &PCEIDObject{addressObject{ObjectType: ObjectTypePCEIDIPv6, Address: mustAddr("10.0.0.1")}},
			wantType: ObjectTypePCEIDIPv6,
			want:     addrSlice("::ffff:10.0.0.1"),
		},
		{
			name:    "IPv6 address sent as IPv4",
			obj:     &PCEIDObject{addressObject{ObjectType: ObjectTypePCEIDIPv4, Address: mustAddr("2001:db8::1")}},
			wantErr: true,
		},
		{
			name:    "Missing address",
			obj:     &PCCReqIDObject{},
			wantErr: true,
		},
		{
			name:     "UNREACH-DESTINATION without destinations keeps its type",
			obj:      &UnreachDestinationObject{ObjectType: ObjectTypeUnreachDestinationIPv6},
			wantType: ObjectTypeUnreachDestinationIPv6,
		},
		{
			name:     "UNREACH-DESTINATION derives IPv6 from its destinations",
			obj:      &UnreachDestinationObject{Destinations: []netip.Addr{mustAddr("2001:db8::1")}},
			wantType: ObjectTypeUnreachDestinationIPv6,
			want:     addrSlice("2001:db8::1"),
		},
		{
			name:    "UNREACH-DESTINATION IPv4 with an IPv6 destination",
			obj:     &UnreachDestinationObject{ObjectType: ObjectTypeUnreachDestinationIPv4, Destinations: []netip.Addr{mustAddr("2001:db8::1")}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.obj.SerializeBody()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, tt.obj.Type())
			assert.Equal(t, tt.want, got)
		})
	}
}
