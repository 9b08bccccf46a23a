// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppendByteSlices(t *testing.T) {
	tests := []struct {
		name     string
		input    [][]byte
		expected []byte
	}{
		{
			name:     "Concatenate non-empty slices",
			input:    [][]byte{{0x01, 0x02}, {0x03, 0x04, 0x05}},
			expected: []byte{0x01, 0x02, 0x03, 0x04, 0x05},
		},
		{
			name:     "Nil slices are skipped",
			input:    [][]byte{nil, {0x01}, nil},
			expected: []byte{0x01},
		},
		{
			name:     "Concatenate empty slices",
			input:    [][]byte{{}, {}},
			expected: []byte{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AppendByteSlices(tt.input...))
		})
	}
}

func TestIntegerToByteSlice(t *testing.T) {
	assert.Equal(t, []byte{0x01, 0x02}, Uint16ToByteSlice(uint16(0x0102)))
	assert.Equal(t, []byte{0x00, 0x11}, Uint16ToByteSlice(TLVSymbolicPathName))
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, Uint32ToByteSlice(uint32(0x01020304)))
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, Uint32ToByteSlice(EnterpriseNumber(0xffffffff)))
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}, Uint64ToByteSlice(0x0102030405060708))
}

func TestBitHelpers(t *testing.T) {
	tests := []struct {
		name  string
		value uint16
		bit   uint16
		set   bool
		want  uint16
	}{
		{name: "Set a clear bit", value: 0x0000, bit: 0x0100, set: true, want: 0x0100},
		{name: "Set an already set bit", value: 0x0101, bit: 0x0001, set: true, want: 0x0101},
		{name: "Condition false leaves the value", value: 0x0002, bit: 0x0001, set: false, want: 0x0002},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SetBit(tt.value, tt.bit, tt.set)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.set || IsBitSet(tt.value, tt.bit), IsBitSet(got, tt.bit))
		})
	}
	assert.True(t, IsBitSet(uint32(0x00020001), 0x00020000))
	assert.False(t, IsBitSet(uint8(0x03), 0x04))
}

func TestPaddedLength(t *testing.T) {
	for n, want := range map[int]int{0: 0, 1: 4, 3: 4, 4: 4, 5: 8, 11: 12} {
		assert.Equal(t, want, paddedLength(n), "n=%d", n)
	}
}

func TestAddrBytes(t *testing.T) {
	tests := []struct {
		name string
		addr netip.Addr
		is6  bool
		want []byte
	}{
		{name: "IPv4", addr: mustAddr("192.0.2.1"), want: []byte{192, 0, 2, 1}},
		{name: "IPv4-mapped IPv6 as IPv4", addr: mustAddr("::ffff:192.0.2.1"), want: []byte{192, 0, 2, 1}},
		{name: "Invalid IPv4", addr: netip.Addr{}, want: []byte{0, 0, 0, 0}},
		{name: "IPv6", addr: mustAddr("2001:db8::1"), is6: true, want: []byte{0x20, 0x01, 0x0d, 0xb8, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}},
		{name: "Invalid IPv6", addr: netip.Addr{}, is6: true, want: make([]byte, 16)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, addrBytes(tt.addr, tt.is6))
		})
	}

	assert.Equal(t, mustAddr("10.0.0.1"), addrFrom4([]byte{10, 0, 0, 1, 0xff}))
	assert.Equal(t, mustAddr("2001:db8::1"), addrFrom16(addrBytes(mustAddr("2001:db8::1"), true)))
}
