// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDecodeUnknownObjects(t *testing.T) {
	bandwidth := []byte{0x05, 0x12, 0x00, 0x08, 0x00, 0x00, 0x00, 0x00}

	tests := []struct {
		name     string
		registry *Registry
		input    []byte
		want     []Object
	}{
		{
			name:     "Unknown class with P flag",
			registry: NewRegistry(),
			input:    []byte{0x7f, 0x12, 0x00, 0x04},
			want: []Object{&UnknownObject{
				ObjectFlags: ObjectFlags{ProcessingRule: true},
				ObjectClass: 0x7f,
				ObjectType:  0x01,
				Error:       PCEPErrUnrecognizedObjectClass,
				Body:        []uint8{},
			}},
		},
		{
			name:     "Unknown type of a known class",
			registry: NewRegistry(),
			input:    []byte{0x02, 0xf2, 0x00, 0x06, 0xaa, 0xbb},
			want: []Object{&UnknownObject{
				ObjectFlags: ObjectFlags{ProcessingRule: true},
				ObjectClass: ObjectClassRP,
				ObjectType:  0x0f,
				Error:       PCEPErrUnrecognizedObjectType,
				Body:        []uint8{0xaa, 0xbb},
			}},
		},
		{
			name:     "Unknown class without P flag is skipped",
			registry: NewRegistry(),
			input:    []byte{0x7f, 0x10, 0x00, 0x04},
			want:     nil,
		},
		{
			name:     "Disabled class",
			registry: NewRegistry(WithoutObjectClass(ObjectClassBandwidth)),
			input:    bandwidth,
			want: []Object{&UnknownObject{
				ObjectFlags: ObjectFlags{ProcessingRule: true},
				ObjectClass: ObjectClassBandwidth,
				ObjectType:  ObjectTypeBandwidthRequested,
				Error:       PCEPErrNotSupportedObjectClass,
				Body:        []uint8{0x00, 0x00, 0x00, 0x00},
			}},
		},
		{
			name:     "Disabled type",
			registry: NewRegistry(WithoutObjectType(ObjectClassBandwidth, ObjectTypeBandwidthRequested)),
			input:    bandwidth,
			want: []Object{&UnknownObject{
				ObjectFlags: ObjectFlags{ProcessingRule: true},
				ObjectClass: ObjectClassBandwidth,
				ObjectType:  ObjectTypeBandwidthRequested,
				Error:       PCEPErrNotSupportedObjectType,
				Body:        []uint8{0x00, 0x00, 0x00, 0x00},
			}},
		},
		{
			name: "Custom object parser",
			registry: NewRegistry(WithObjectParser(0x7f, 0x01, func(_ *Registry, _ *CommonObjectHeader, body []byte) (Object, error) {
				return &CloseObject{Reason: body[3]}, nil
			})),
			input: []byte{0x7f, 0x13, 0x00, 0x08, 0x00, 0x00, 0x00, 0x02},
			want: []Object{&CloseObject{
				ObjectFlags: ObjectFlags{ProcessingRule: true, Ignore: true},
				Reason:      2,
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.registry.DecodeObjects(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeTLVs(t *testing.T) {
	unknownTLV := []byte{0x7f, 0xff, 0x00, 0x02, 0xaa, 0xbb, 0x00, 0x00}
	unknownVendor := []byte{0x00, 0x07, 0x00, 0x08, 0x00, 0x00, 0x00, 0x63, 0x01, 0x02, 0x03, 0x04}
	pathName := []byte{0x00, 0x11, 0x00, 0x05, 'l', 's', 'p', '-', '1', 0x00, 0x00, 0x00}

	tests := []struct {
		name     string
		registry *Registry
		input    []byte
		want     []TLVInterface
	}{
		{
			name:     "Known TLV",
			registry: NewRegistry(),
			input:    pathName,
			want:     []TLVInterface{&SymbolicPathName{Name: "lsp-1"}},
		},
		{
			name:     "Unknown TLV is dropped",
			registry: NewRegistry(),
			input:    append(append([]byte{}, unknownTLV...), pathName...),
			want:     []TLVInterface{&SymbolicPathName{Name: "lsp-1"}},
		},
		{
			name:     "Unknown TLV is kept",
			registry: NewRegistry(WithKeepUnknownTLVs(true)),
			input:    unknownTLV,
			want:     []TLVInterface{&UndefinedTLV{Typ: 0x7fff, Length: 2, Value: []byte{0xaa, 0xbb}}},
		},
		{
			name:     "Vendor information of an unknown enterprise is dropped",
			registry: NewRegistry(),
			input:    unknownVendor,
			want:     nil,
		},
		{
			name:     "Vendor information of an unknown enterprise is kept",
			registry: NewRegistry(WithKeepUnknownTLVs(true)),
			input:    unknownVendor,
			want: []TLVInterface{&VendorInformationTLV{VendorInformation: VendorInformation{
				EnterpriseNumber: 99,
				Raw:              []byte{0x01, 0x02, 0x03, 0x04},
			}}},
		},
		{
			name: "Vendor information with a registered parser",
			registry: NewRegistry(WithVendorInfoParser(99, func(body []byte) ([]TLVInterface, error) {
				return []TLVInterface{&UndefinedTLV{Typ: 1, Length: uint16(len(body)), Value: body}}, nil
			})),
			input: unknownVendor,
			want: []TLVInterface{&VendorInformationTLV{VendorInformation: VendorInformation{
				EnterpriseNumber: 99,
				TLVs:             []TLVInterface{&UndefinedTLV{Typ: 1, Length: 4, Value: []byte{0x01, 0x02, 0x03, 0x04}}},
			}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.registry.DecodeTLVs(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeTLVsTruncated(t *testing.T) {
	_, err := DefaultRegistry().DecodeTLVs([]byte{0x00, 0x11, 0x00, 0x08, 'a'})
	assert.Error(t, err)
}

func TestRegistryLogsSkippedData(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := NewRegistry(WithLogger(zap.New(core)))

	_, err := r.DecodeTLVs([]byte{0x7f, 0xff, 0x00, 0x00})
	require.NoError(t, err)
	_, err = r.DecodeObjects([]byte{0x7f, 0x10, 0x00, 0x04})
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("skip unknown TLV").Len())
	assert.Equal(t, 1, logs.FilterMessage("skip unsupported object").Len())
}

func TestCiscoVendorInformation(t *testing.T) {
	body, err := serializeObjects(NewCiscoVendorInformation(100, 200))
	require.NoError(t, err)

	objs, err := DefaultRegistry().DecodeObjects(body)
	require.NoError(t, err)
	require.Len(t, objs, 1)
	vi, ok := objs[0].(*VendorInformationObject)
	require.True(t, ok)

	color, ok := vi.Color()
	assert.True(t, ok)
	assert.Equal(t, uint32(100), color)
	pref, ok := vi.Preference()
	assert.True(t, ok)
	assert.Equal(t, uint32(200), pref)
}

func TestDefaultRegistry(t *testing.T) {
	assert.Same(t, DefaultRegistry(), DefaultRegistry())
	assert.NotSame(t, DefaultRegistry(), NewRegistry())
}
