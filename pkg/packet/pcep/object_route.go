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

	"github.com/nttcom/pcepcodec/internal/pkg/segment"
)

// routeObject holds the sub-object list shared by the route-carrying objects.
type routeObject struct {
	ObjectFlags
	Subobjects []RouteSubobject
}

func (o *routeObject) decodeRoute(r *Registry, family SubobjectFamily, body []byte) error {
	var err error
	o.Subobjects, err = DecodeSubobjects(family, body, r.maxSubobjectDepth)
	return err
}

func (o *routeObject) marshalRoute(enc zapcore.ObjectEncoder) {
	o.addFlags(enc)
	addSubobjects(enc, o.Subobjects)
}

// ERO Object (RFC5440 7.9)
type EROObject struct {
	routeObject
}

func (o *EROObject) decode(r *Registry, _ *CommonObjectHeader, body []byte) error {
	return o.decodeRoute(r, FamilyERO, body)
}

func (o *EROObject) Class() ObjectClass { return ObjectClassERO }
func (o *EROObject) Type() ObjectType   { return ObjectTypeERO }

func (o *EROObject) SerializeBody() ([]uint8, error) {
	return SerializeSubobjects(FamilyERO, o.Subobjects)
}

func (o *EROObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.marshalRoute(enc)
	return nil
}

// Segments returns the SR path carried by the ERO.
func (o *EROObject) Segments() []segment.Segment {
	return Segments(o.Subobjects)
}

func NewEROObject(segs []segment.Segment) (*EROObject, error) {
	list, err := NewSegmentSubobjects(segs)
	if err != nil {
		return nil, err
	}
	o := &EROObject{}
	o.ProcessingRule = true
	o.Subobjects = list
	return o, nil
}

// ReportedRouteObject is implemented by RRO and SRRO.
type ReportedRouteObject interface {
	Object
	RouteSubobjects() []RouteSubobject
}

// RRO Object (RFC5440 7.10)
type RROObject struct {
	routeObject
}

func (o *RROObject) decode(r *Registry, _ *CommonObjectHeader, body []byte) error {
	return o.decodeRoute(r, FamilyRRO, body)
}

func (o *RROObject) Class() ObjectClass { return ObjectClassRRO }
func (o *RROObject) Type() ObjectType   { return ObjectTypeRRO }

func (o *RROObject) SerializeBody() ([]uint8, error) {
	return SerializeSubobjects(FamilyRRO, o.Subobjects)
}

func (o *RROObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.marshalRoute(enc)
	return nil
}

func (o *RROObject) RouteSubobjects() []RouteSubobject {
	return o.Subobjects
}

// IRO Object (RFC5440 7.12)
type IROObject struct {
	routeObject
}

func (o *IROObject) decode(r *Registry, _ *CommonObjectHeader, body []byte) error {
	return o.decodeRoute(r, FamilyERO, body)
}

func (o *IROObject) Class() ObjectClass { return ObjectClassIRO }
func (o *IROObject) Type() ObjectType   { return ObjectTypeIRO }

func (o *IROObject) SerializeBody() ([]uint8, error) {
	return SerializeSubobjects(FamilyERO, o.Subobjects)
}

func (o *IROObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.marshalRoute(enc)
	return nil
}

// PATH-KEY Object (RFC5520 3.2.2)
type PathKeyObject struct {
	routeObject
}

func (o *PathKeyObject) decode(r *Registry, _ *CommonObjectHeader, body []byte) error {
	if err := o.decodeRoute(r, FamilyERO, body); err != nil {
		return err
	}
	if len(o.Subobjects) == 0 {
		return deserializeErrorf("PATH-KEY object without path-key sub-objects")
	}
	return nil
}

func (o *PathKeyObject) Class() ObjectClass { return ObjectClassPathKey }
func (o *PathKeyObject) Type() ObjectType   { return ObjectTypePathKey }

func (o *PathKeyObject) SerializeBody() ([]uint8, error) {
	return SerializeSubobjects(FamilyERO, o.Subobjects)
}

func (o *PathKeyObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.marshalRoute(enc)
	return nil
}

// XRO Object (RFC5521 2.1)
const (
	xroFFlag                 uint16 = 0x0001
	xroObjectFixedBodyLength        = 4
)

type XROObject struct {
	routeObject
	FFlag bool // fail if the exclusion cannot be satisfied by the reoptimized path
}

func (o *XROObject) decode(r *Registry, _ *CommonObjectHeader, body []byte) error {
	if err := checkObjectBody(o.Class(), body, xroObjectFixedBodyLength); err != nil {
		return err
	}
	o.FFlag = IsBitSet(binary.BigEndian.Uint16(body[2:4]), xroFFlag)
	return o.decodeRoute(r, FamilyXRO, body[xroObjectFixedBodyLength:])
}

func (o *XROObject) Class() ObjectClass { return ObjectClassXRO }
func (o *XROObject) Type() ObjectType   { return ObjectTypeXRO }

func (o *XROObject) SerializeBody() ([]uint8, error) {
	list, err := SerializeSubobjects(FamilyXRO, o.Subobjects)
	if err != nil {
		return nil, err
	}
	return AppendByteSlices([]uint8{0, 0}, Uint16ToByteSlice(SetBit(uint16(0), xroFFlag, o.FFlag)), list), nil
}

func (o *XROObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBool("fFlag", o.FFlag)
	o.marshalRoute(enc)
	return nil
}

// SERO Object (RFC8306 3.2)
type SEROObject struct {
	routeObject
}

func (o *SEROObject) decode(r *Registry, _ *CommonObjectHeader, body []byte) error {
	return o.decodeRoute(r, FamilyERO, body)
}

func (o *SEROObject) Class() ObjectClass { return ObjectClassSERO }
func (o *SEROObject) Type() ObjectType   { return ObjectTypeSERO }

func (o *SEROObject) SerializeBody() ([]uint8, error) {
	return SerializeSubobjects(FamilyERO, o.Subobjects)
}

func (o *SEROObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.marshalRoute(enc)
	return nil
}

// SRRO Object (RFC8306 3.2)
type SRROObject struct {
	routeObject
}

func (o *SRROObject) decode(r *Registry, _ *CommonObjectHeader, body []byte) error {
	return o.decodeRoute(r, FamilyRRO, body)
}

func (o *SRROObject) Class() ObjectClass { return ObjectClassSRRO }
func (o *SRROObject) Type() ObjectType   { return ObjectTypeSRRO }

func (o *SRROObject) SerializeBody() ([]uint8, error) {
	return SerializeSubobjects(FamilyRRO, o.Subobjects)
}

func (o *SRROObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.marshalRoute(enc)
	return nil
}

func (o *SRROObject) RouteSubobjects() []RouteSubobject {
	return o.Subobjects
}

// BNC Object (RFC8306 3.11), a branch or non-branch node list
type BranchNodeListObject struct {
	routeObject
	NonBranch bool
}

func (o *BranchNodeListObject) decode(r *Registry, h *CommonObjectHeader, body []byte) error {
	o.NonBranch = h.ObjectType == ObjectTypeNonBranchNodeList
	return o.decodeRoute(r, FamilyERO, body)
}

func (o *BranchNodeListObject) Class() ObjectClass { return ObjectClassBNC }

func (o *BranchNodeListObject) Type() ObjectType {
	if o.NonBranch {
		return ObjectTypeNonBranchNodeList
	}
	return ObjectTypeBranchNodeList
}

func (o *BranchNodeListObject) SerializeBody() ([]uint8, error) {
	return SerializeSubobjects(FamilyERO, o.Subobjects)
}

func (o *BranchNodeListObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBool("nonBranch", o.NonBranch)
	o.marshalRoute(enc)
	return nil
}

// UNREACH-DESTINATION Object (RFC8306 3.10)
type UnreachDestinationObject struct {
	ObjectFlags
	// ObjectType keeps the decoded type; zero derives it from Destinations.
	ObjectType   ObjectType
	Destinations []netip.Addr
}

func (o *UnreachDestinationObject) decode(_ *Registry, h *CommonObjectHeader, body []byte) error {
	size := 4
	addrAt := addrFrom4
	if h.ObjectType == ObjectTypeUnreachDestinationIPv6 {
		size = 16
		addrAt = addrFrom16
	} else if h.ObjectType != ObjectTypeUnreachDestinationIPv4 {
		return deserializeErrorf("unsupported UNREACH-DESTINATION object type %d", h.ObjectType)
	}
	if len(body)%size != 0 {
		return deserializeErrorf("UNREACH-DESTINATION body length %d is not a multiple of %d", len(body), size)
	}
	for off := 0; off < len(body); off += size {
		o.Destinations = append(o.Destinations, addrAt(body[off:off+size]))
	}
	o.ObjectType = h.ObjectType
	return nil
}

func (o *UnreachDestinationObject) Class() ObjectClass { return ObjectClassUnreachDestination }

func (o *UnreachDestinationObject) Type() ObjectType {
	if o.ObjectType != 0 {
		return o.ObjectType
	}
	if len(o.Destinations) > 0 && o.Destinations[0].Is6() && !o.Destinations[0].Is4In6() {
		return ObjectTypeUnreachDestinationIPv6
	}
	return ObjectTypeUnreachDestinationIPv4
}

func (o *UnreachDestinationObject) SerializeBody() ([]uint8, error) {
	var is6 bool
	switch o.Type() {
	case ObjectTypeUnreachDestinationIPv4:
	case ObjectTypeUnreachDestinationIPv6:
		is6 = true
	default:
		return nil, fmt.Errorf("unsupported UNREACH-DESTINATION object type %d", o.ObjectType)
	}
	var buf []uint8
	for _, d := range o.Destinations {
		if !is6 && !d.Unmap().Is4() {
			return nil, fmt.Errorf("UNREACH-DESTINATION IPv4 needs IPv4 addresses, got %s", d)
		}
		buf = append(buf, addrBytes(d, is6)...)
	}
	return buf, nil
}

func (o *UnreachDestinationObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.addFlags(enc)
	enc.AddString("destinations", fmt.Sprint(o.Destinations))
	return nil
}
