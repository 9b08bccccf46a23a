// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"encoding/binary"
	"fmt"
	"net/netip"

	"go.uber.org/zap/zapcore"
)

// SubobjectFamily selects the header and body layout of route sub-objects.
type SubobjectFamily uint8

const (
	FamilyERO SubobjectFamily = iota // ERO, IRO, SERO, PATH-KEY, BNC
	FamilyRRO                        // RRO, SRRO
	FamilyXRO                        // XRO, EXRS
)

func (f SubobjectFamily) String() string {
	switch f {
	case FamilyERO:
		return "ERO"
	case FamilyRRO:
		return "RRO"
	case FamilyXRO:
		return "XRO"
	}
	return fmt.Sprintf("SubobjectFamily(%d)", uint8(f))
}

type SubobjectType uint8

const (
	SubobjectTypeIPv4Prefix SubobjectType = 0x01
	SubobjectTypeIPv6Prefix SubobjectType = 0x02
	SubobjectTypeLabel      SubobjectType = 0x03
	SubobjectTypeUnnumbered SubobjectType = 0x04
	SubobjectTypeASNumber   SubobjectType = 0x20
	SubobjectTypeExrs       SubobjectType = 0x21
	SubobjectTypeSRLG       SubobjectType = 0x22
	SubobjectTypeSR         SubobjectType = 0x24
	SubobjectTypeSRv6       SubobjectType = 0x28
	SubobjectTypePathKey32  SubobjectType = 0x40
	SubobjectTypePathKey128 SubobjectType = 0x41
)

var subobjectTypeNames = map[SubobjectType]string{
	SubobjectTypeIPv4Prefix: "IPv4 prefix",
	SubobjectTypeIPv6Prefix: "IPv6 prefix",
	SubobjectTypeLabel:      "Label",
	SubobjectTypeUnnumbered: "Unnumbered Interface ID",
	SubobjectTypeASNumber:   "Autonomous system number",
	SubobjectTypeExrs:       "EXRS",
	SubobjectTypeSRLG:       "SRLG",
	SubobjectTypeSR:         "SR",
	SubobjectTypeSRv6:       "SRv6",
	SubobjectTypePathKey32:  "PKS IPv4",
	SubobjectTypePathKey128: "PKS IPv6",
}

func (t SubobjectType) String() string {
	if name, ok := subobjectTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown Subobject (0x%02x)", uint8(t))
}

const (
	subobjectHeaderLength = 2
	subobjectFlagBit      = 0x80
	subobjectTypeMask     = 0x7f

	DefaultMaxSubobjectDepth = 4
)

// Subobject is the body of a route sub-object. The set of implementations
// is closed.
type Subobject interface {
	SubobjectType() SubobjectType
	MarshalLogObject(enc zapcore.ObjectEncoder) error
	serializeBody(family SubobjectFamily) ([]byte, error)
}

// RouteSubobject is one element of an ERO, RRO or XRO family list.
type RouteSubobject struct {
	Loose     bool // L bit, ERO family only
	Mandatory bool // X bit, XRO family only
	Subobject Subobject
}

func (s RouteSubobject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	if s.Subobject == nil {
		return nil
	}
	enc.AddString("type", s.Subobject.SubobjectType().String())
	if s.Loose {
		enc.AddBool("loose", true)
	}
	if s.Mandatory {
		enc.AddBool("mandatory", true)
	}
	return s.Subobject.MarshalLogObject(enc)
}

type subobjectList []RouteSubobject

func (l subobjectList) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, s := range l {
		if err := enc.AppendObject(s); err != nil {
			return err
		}
	}
	return nil
}

func addSubobjects(enc zapcore.ObjectEncoder, list []RouteSubobject) {
	_ = enc.AddArray("subobjects", subobjectList(list))
}

// DecodeSubobjects parses a sub-object list of the given family. EXRS
// sub-objects nest at most maxDepth levels.
func DecodeSubobjects(family SubobjectFamily, data []byte, maxDepth int) ([]RouteSubobject, error) {
	return decodeSubobjects(family, data, 0, maxDepth)
}

func decodeSubobjects(family SubobjectFamily, data []byte, depth, maxDepth int) ([]RouteSubobject, error) {
	var list []RouteSubobject
	for len(data) > 0 {
		if len(data) < subobjectHeaderLength {
			return nil, deserializeErrorf("%s sub-object header truncated: %d bytes left", family, len(data))
		}
		length := int(data[1])
		if length < subobjectHeaderLength || length > len(data) {
			return nil, deserializeErrorf("%s sub-object length %d out of range (%d bytes left)", family, length, len(data))
		}
		flag := family != FamilyRRO && data[0]&subobjectFlagBit != 0
		typ := SubobjectType(data[0] & subobjectTypeMask)
		if family == FamilyRRO {
			typ = SubobjectType(data[0])
		}
		body, err := decodeSubobjectBody(family, typ, data[subobjectHeaderLength:length], depth, maxDepth)
		if err != nil {
			return nil, err
		}
		rs := RouteSubobject{Subobject: body}
		switch family {
		case FamilyERO:
			rs.Loose = flag
		case FamilyXRO:
			rs.Mandatory = flag
		}
		list = append(list, rs)
		data = data[length:]
	}
	return list, nil
}

func decodeSubobjectBody(family SubobjectFamily, typ SubobjectType, body []byte, depth, maxDepth int) (Subobject, error) {
	var so Subobject
	var err error
	switch typ {
	case SubobjectTypeIPv4Prefix:
		so, err = decodeIPv4Prefix(family, body)
	case SubobjectTypeIPv6Prefix:
		so, err = decodeIPv6Prefix(family, body)
	case SubobjectTypeLabel:
		so, err = decodeLabelSubobject(family, body)
	case SubobjectTypeUnnumbered:
		so, err = decodeUnnumbered(family, body)
	case SubobjectTypeASNumber:
		so, err = decodeASNumber(body)
	case SubobjectTypeSRLG:
		so, err = decodeSRLG(body)
	case SubobjectTypePathKey32:
		so, err = decodePathKey32(body)
	case SubobjectTypePathKey128:
		so, err = decodePathKey128(body)
	case SubobjectTypeExrs:
		if family == FamilyRRO {
			return &UnknownSubobject{Type: typ, Body: append([]byte{}, body...)}, nil
		}
		if depth >= maxDepth {
			return nil, deserializeErrorf("EXRS nesting exceeds %d levels", maxDepth)
		}
		var inner []RouteSubobject
		inner, err = decodeSubobjects(FamilyXRO, body, depth+1, maxDepth)
		so = &ExrsSubobject{Subobjects: inner}
	case SubobjectTypeSR:
		if family == FamilyXRO {
			return &UnknownSubobject{Type: typ, Body: append([]byte{}, body...)}, nil
		}
		so, err = decodeSREro(body)
	case SubobjectTypeSRv6:
		if family == FamilyXRO {
			return &UnknownSubobject{Type: typ, Body: append([]byte{}, body...)}, nil
		}
		so, err = decodeSRv6Ero(body)
	default:
		return &UnknownSubobject{Type: typ, Body: append([]byte{}, body...)}, nil
	}
	if err != nil {
		return nil, wrapDeserializeError(err, "%s %s sub-object", family, typ)
	}
	return so, nil
}

// SerializeSubobjects encodes list with the header layout of family.
func SerializeSubobjects(family SubobjectFamily, list []RouteSubobject) ([]byte, error) {
	var buf []byte
	for i, s := range list {
		if s.Subobject == nil {
			return nil, fmt.Errorf("%s sub-object %d has no body", family, i)
		}
		body, err := s.Subobject.serializeBody(family)
		if err != nil {
			return nil, fmt.Errorf("%s sub-object %d: %w", family, i, err)
		}
		length := subobjectHeaderLength + len(body)
		if length > 0xff {
			return nil, fmt.Errorf("%s sub-object %d too long: %d bytes", family, i, length)
		}
		header := uint8(s.Subobject.SubobjectType())
		if family != FamilyRRO {
			header &= subobjectTypeMask
			if (family == FamilyERO && s.Loose) || (family == FamilyXRO && s.Mandatory) {
				header |= subobjectFlagBit
			}
		}
		buf = append(buf, header, uint8(length))
		buf = append(buf, body...)
	}
	return buf, nil
}

func expectBodyLength(body []byte, want int) error {
	if len(body) != want {
		return fmt.Errorf("wrong length of array of bytes. Passed: %d; Expected: %d", len(body), want)
	}
	return nil
}

// RRO protection flags of prefix and unnumbered sub-objects (RFC3209 4.4.1)
const (
	rroLocalProtectionAvailable uint8 = 0x01
	rroLocalProtectionInUse     uint8 = 0x02
)

// IPv4 prefix (RFC3209 4.3.3.3)
type IPv4PrefixSubobject struct {
	Prefix              netip.Prefix
	ProtectionAvailable bool  // RRO
	ProtectionInUse     bool  // RRO
	Attribute           uint8 // XRO
}

const ipv4PrefixBodyLength = 6

func decodeIPv4Prefix(family SubobjectFamily, body []byte) (*IPv4PrefixSubobject, error) {
	if err := expectBodyLength(body, ipv4PrefixBodyLength); err != nil {
		return nil, err
	}
	bits := int(body[4])
	if bits > 32 {
		return nil, fmt.Errorf("invalid prefix length %d", bits)
	}
	so := &IPv4PrefixSubobject{Prefix: netip.PrefixFrom(addrFrom4(body[0:4]), bits)}
	so.decodeTrailer(family, body[5])
	return so, nil
}

func (so *IPv4PrefixSubobject) decodeTrailer(family SubobjectFamily, b uint8) {
	switch family {
	case FamilyRRO:
		so.ProtectionAvailable = IsBitSet(b, rroLocalProtectionAvailable)
		so.ProtectionInUse = IsBitSet(b, rroLocalProtectionInUse)
	case FamilyXRO:
		so.Attribute = b
	}
}

func (so *IPv4PrefixSubobject) SubobjectType() SubobjectType {
	return SubobjectTypeIPv4Prefix
}

func (so *IPv4PrefixSubobject) serializeBody(family SubobjectFamily) ([]byte, error) {
	if !so.Prefix.IsValid() || !so.Prefix.Addr().Is4() {
		return nil, fmt.Errorf("invalid IPv4 prefix %s", so.Prefix)
	}
	return append(addrBytes(so.Prefix.Addr(), false), uint8(so.Prefix.Bits()),
		prefixTrailer(family, so.ProtectionAvailable, so.ProtectionInUse, so.Attribute)), nil
}

func (so *IPv4PrefixSubobject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("prefix", so.Prefix.String())
	addProtection(enc, so.ProtectionAvailable, so.ProtectionInUse)
	if so.Attribute != 0 {
		enc.AddUint8("attribute", so.Attribute)
	}
	return nil
}

func prefixTrailer(family SubobjectFamily, available, inUse bool, attribute uint8) uint8 {
	switch family {
	case FamilyRRO:
		var b uint8
		b = SetBit(b, rroLocalProtectionAvailable, available)
		b = SetBit(b, rroLocalProtectionInUse, inUse)
		return b
	case FamilyXRO:
		return attribute
	}
	return 0
}

func addProtection(enc zapcore.ObjectEncoder, available, inUse bool) {
	if available {
		enc.AddBool("protectionAvailable", true)
	}
	if inUse {
		enc.AddBool("protectionInUse", true)
	}
}

// IPv6 prefix (RFC3209 4.3.3.4)
type IPv6PrefixSubobject struct {
	Prefix              netip.Prefix
	ProtectionAvailable bool  // RRO
	ProtectionInUse     bool  // RRO
	Attribute           uint8 // XRO
}

const ipv6PrefixBodyLength = 18

func decodeIPv6Prefix(family SubobjectFamily, body []byte) (*IPv6PrefixSubobject, error) {
	if err := expectBodyLength(body, ipv6PrefixBodyLength); err != nil {
		return nil, err
	}
	bits := int(body[16])
	if bits > 128 {
		return nil, fmt.Errorf("invalid prefix length %d", bits)
	}
	so := &IPv6PrefixSubobject{Prefix: netip.PrefixFrom(addrFrom16(body[0:16]), bits)}
	switch family {
	case FamilyRRO:
		so.ProtectionAvailable = IsBitSet(body[17], rroLocalProtectionAvailable)
		so.ProtectionInUse = IsBitSet(body[17], rroLocalProtectionInUse)
	case FamilyXRO:
		so.Attribute = body[17]
	}
	return so, nil
}

func (so *IPv6PrefixSubobject) SubobjectType() SubobjectType {
	return SubobjectTypeIPv6Prefix
}

func (so *IPv6PrefixSubobject) serializeBody(family SubobjectFamily) ([]byte, error) {
	if !so.Prefix.IsValid() || !so.Prefix.Addr().Is6() {
		return nil, fmt.Errorf("invalid IPv6 prefix %s", so.Prefix)
	}
	return append(addrBytes(so.Prefix.Addr(), true), uint8(so.Prefix.Bits()),
		prefixTrailer(family, so.ProtectionAvailable, so.ProtectionInUse, so.Attribute)), nil
}

func (so *IPv6PrefixSubobject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("prefix", so.Prefix.String())
	addProtection(enc, so.ProtectionAvailable, so.ProtectionInUse)
	if so.Attribute != 0 {
		enc.AddUint8("attribute", so.Attribute)
	}
	return nil
}

// Unnumbered interface ID (RFC3477 4)
type UnnumberedSubobject struct {
	RouterID            netip.Addr
	InterfaceID         uint32
	ProtectionAvailable bool  // RRO
	ProtectionInUse     bool  // RRO
	Attribute           uint8 // XRO
}

const unnumberedBodyLength = 10

func decodeUnnumbered(family SubobjectFamily, body []byte) (*UnnumberedSubobject, error) {
	if err := expectBodyLength(body, unnumberedBodyLength); err != nil {
		return nil, err
	}
	so := &UnnumberedSubobject{
		RouterID:    addrFrom4(body[2:6]),
		InterfaceID: binary.BigEndian.Uint32(body[6:10]),
	}
	switch family {
	case FamilyRRO:
		so.ProtectionAvailable = IsBitSet(body[0], rroLocalProtectionAvailable)
		so.ProtectionInUse = IsBitSet(body[0], rroLocalProtectionInUse)
	case FamilyXRO:
		so.Attribute = body[1]
	}
	return so, nil
}

func (so *UnnumberedSubobject) SubobjectType() SubobjectType {
	return SubobjectTypeUnnumbered
}

func (so *UnnumberedSubobject) serializeBody(family SubobjectFamily) ([]byte, error) {
	body := make([]byte, unnumberedBodyLength)
	switch family {
	case FamilyRRO:
		body[0] = prefixTrailer(family, so.ProtectionAvailable, so.ProtectionInUse, 0)
	case FamilyXRO:
		body[1] = so.Attribute
	}
	copy(body[2:6], addrBytes(so.RouterID, false))
	binary.BigEndian.PutUint32(body[6:10], so.InterfaceID)
	return body, nil
}

func (so *UnnumberedSubobject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("routerID", so.RouterID.String())
	enc.AddUint32("interfaceID", so.InterfaceID)
	addProtection(enc, so.ProtectionAvailable, so.ProtectionInUse)
	if so.Attribute != 0 {
		enc.AddUint8("attribute", so.Attribute)
	}
	return nil
}

// Autonomous system number (RFC3209 4.3.3.5)
type ASNumberSubobject struct {
	ASNumber uint16
}

const asNumberBodyLength = 2

func decodeASNumber(body []byte) (*ASNumberSubobject, error) {
	if err := expectBodyLength(body, asNumberBodyLength); err != nil {
		return nil, err
	}
	return &ASNumberSubobject{ASNumber: binary.BigEndian.Uint16(body)}, nil
}

func (so *ASNumberSubobject) SubobjectType() SubobjectType {
	return SubobjectTypeASNumber
}

func (so *ASNumberSubobject) serializeBody(SubobjectFamily) ([]byte, error) {
	return Uint16ToByteSlice(so.ASNumber), nil
}

func (so *ASNumberSubobject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint16("asNumber", so.ASNumber)
	return nil
}

// SRLG (RFC5521 2.1.1)
type SRLGSubobject struct {
	SRLGID    uint32
	Attribute uint8
}

const srlgBodyLength = 6

func decodeSRLG(body []byte) (*SRLGSubobject, error) {
	if err := expectBodyLength(body, srlgBodyLength); err != nil {
		return nil, err
	}
	return &SRLGSubobject{
		SRLGID:    binary.BigEndian.Uint32(body[0:4]),
		Attribute: body[5],
	}, nil
}

func (so *SRLGSubobject) SubobjectType() SubobjectType {
	return SubobjectTypeSRLG
}

func (so *SRLGSubobject) serializeBody(SubobjectFamily) ([]byte, error) {
	return append(Uint32ToByteSlice(so.SRLGID), 0, so.Attribute), nil
}

func (so *SRLGSubobject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("srlgID", so.SRLGID)
	enc.AddUint8("attribute", so.Attribute)
	return nil
}

// Path-key with a 32-bit PCE ID (RFC5520 3.1)
type PathKey32Subobject struct {
	PathKey uint16
	PCEID   netip.Addr
}

const pathKey32BodyLength = 6

func decodePathKey32(body []byte) (*PathKey32Subobject, error) {
	if err := expectBodyLength(body, pathKey32BodyLength); err != nil {
		return nil, err
	}
	return &PathKey32Subobject{
		PathKey: binary.BigEndian.Uint16(body[0:2]),
		PCEID:   addrFrom4(body[2:6]),
	}, nil
}

func (so *PathKey32Subobject) SubobjectType() SubobjectType {
	return SubobjectTypePathKey32
}

func (so *PathKey32Subobject) serializeBody(SubobjectFamily) ([]byte, error) {
	return append(Uint16ToByteSlice(so.PathKey), addrBytes(so.PCEID, false)...), nil
}

func (so *PathKey32Subobject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint16("pathKey", so.PathKey)
	enc.AddString("pceID", so.PCEID.String())
	return nil
}

// Path-key with a 128-bit PCE ID (RFC5520 3.2)
type PathKey128Subobject struct {
	PathKey uint16
	PCEID   netip.Addr
}

const pathKey128BodyLength = 18

func decodePathKey128(body []byte) (*PathKey128Subobject, error) {
	if err := expectBodyLength(body, pathKey128BodyLength); err != nil {
		return nil, err
	}
	return &PathKey128Subobject{
		PathKey: binary.BigEndian.Uint16(body[0:2]),
		PCEID:   addrFrom16(body[2:18]),
	}, nil
}

func (so *PathKey128Subobject) SubobjectType() SubobjectType {
	return SubobjectTypePathKey128
}

func (so *PathKey128Subobject) serializeBody(SubobjectFamily) ([]byte, error) {
	return append(Uint16ToByteSlice(so.PathKey), addrBytes(so.PCEID, true)...), nil
}

func (so *PathKey128Subobject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint16("pathKey", so.PathKey)
	enc.AddString("pceID", so.PCEID.String())
	return nil
}

// ExrsSubobject nests XRO sub-objects inside an ERO (RFC5521 2.2). EXRS
// may itself contain EXRS.
type ExrsSubobject struct {
	Subobjects []RouteSubobject
}

func (so *ExrsSubobject) SubobjectType() SubobjectType {
	return SubobjectTypeExrs
}

func (so *ExrsSubobject) serializeBody(SubobjectFamily) ([]byte, error) {
	return SerializeSubobjects(FamilyXRO, so.Subobjects)
}

func (so *ExrsSubobject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	addSubobjects(enc, so.Subobjects)
	return nil
}

// UnknownSubobject keeps a sub-object of an unrecognized type verbatim.
type UnknownSubobject struct {
	Type SubobjectType
	Body []byte
}

func (so *UnknownSubobject) SubobjectType() SubobjectType {
	return so.Type
}

func (so *UnknownSubobject) serializeBody(SubobjectFamily) ([]byte, error) {
	return so.Body, nil
}

func (so *UnknownSubobject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBinary("body", so.Body)
	return nil
}
