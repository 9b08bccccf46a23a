// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"encoding/binary"
	"net/netip"

	"golang.org/x/exp/constraints"
)

// AppendByteSlices concatenates multiple byte slices into a single slice.
func AppendByteSlices(slices ...[]byte) []byte {
	totalLen := 0
	for _, s := range slices {
		totalLen += len(s)
	}

	result := make([]byte, totalLen)
	offset := 0
	for _, s := range slices {
		copy(result[offset:], s)
		offset += len(s)
	}

	return result
}

// Uint16ToByteSlice converts a uint16 or TLVType value to a big-endian byte slice.
func Uint16ToByteSlice[T ~uint16](v T) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, uint16(v))
	return b
}

// Uint32ToByteSlice converts a uint32 value to a big-endian byte slice.
func Uint32ToByteSlice[T ~uint32](v T) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(v))
	return b
}

// Uint64ToByteSlice converts a uint64 value to a big-endian byte slice.
func Uint64ToByteSlice(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// Bitwise is a type constraint for unsigned integer types used as flag fields.
type Bitwise interface {
	constraints.Unsigned
}

// IsBitSet checks if a specific bit is set in the value, with bit 0 as the least significant bit (LSB).
func IsBitSet[T Bitwise](value, mask T) bool {
	return value&mask != 0
}

// SetBit sets a specific bit in the value of any unsigned integer type.
func SetBit[T Bitwise](value, bit T, condition bool) T {
	if condition {
		return value | bit
	}
	return value
}

// paddedLength rounds n up to the next 4-byte boundary.
func paddedLength(n int) int {
	return (n + 3) &^ 3
}

func addrFrom4(b []byte) netip.Addr {
	return netip.AddrFrom4([4]byte(b[:4]))
}

func addrFrom16(b []byte) netip.Addr {
	return netip.AddrFrom16([16]byte(b[:16]))
}

// addrBytes returns the wire form of addr in the requested family. An
// invalid address yields zeros.
func addrBytes(addr netip.Addr, is6 bool) []byte {
	if is6 {
		if !addr.IsValid() {
			return make([]byte, 16)
		}
		a := addr.As16()
		return a[:]
	}
	if !addr.IsValid() || !addr.Unmap().Is4() {
		return make([]byte, 4)
	}
	a := addr.Unmap().As4()
	return a[:]
}
