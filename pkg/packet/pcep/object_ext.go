// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"encoding/binary"
	"fmt"

	"go.uber.org/zap/zapcore"
)

// OF Object (RFC5541 3.1)
const (
	OFCodeMCP  uint16 = 1 // Minimum Cost Path
	OFCodeMLP  uint16 = 2 // Minimum Load Path
	OFCodeMBP  uint16 = 3 // Maximum residual Bandwidth Path
	OFCodeMBC  uint16 = 4 // Minimize aggregate Bandwidth Consumption
	OFCodeMLL  uint16 = 5 // Minimize the Load of the most loaded Link
	OFCodeMCC  uint16 = 6 // Minimize the Cumulative Cost of a set of paths
	OFCodeSPT  uint16 = 7 // Shortest Path Tree
	OFCodeMCT  uint16 = 8 // Minimum Cost Tree
	OFCodeMSL  uint16 = 9
	OFCodeMSN  uint16 = 10
	OFCodeMSS  uint16 = 11
	OFCodeMSLL uint16 = 12

	ofObjectFixedBodyLength = 4
)

type OFObject struct {
	ObjectFlags
	Code uint16
	TLVs []TLVInterface
}

func (o *OFObject) decode(r *Registry, _ *CommonObjectHeader, body []byte) error {
	if err := checkObjectBody(o.Class(), body, ofObjectFixedBodyLength); err != nil {
		return err
	}
	o.Code = binary.BigEndian.Uint16(body[0:2])
	var err error
	o.TLVs, err = r.DecodeTLVs(body[ofObjectFixedBodyLength:])
	return err
}

func (o *OFObject) Class() ObjectClass { return ObjectClassOF }
func (o *OFObject) Type() ObjectType   { return ObjectTypeOF }

func (o *OFObject) SerializeBody() ([]uint8, error) {
	return AppendByteSlices(Uint16ToByteSlice(o.Code), []uint8{0, 0}, serializeTLVs(o.TLVs)), nil
}

func (o *OFObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.addFlags(enc)
	enc.AddUint16("code", o.Code)
	addTLVs(enc, o.TLVs)
	return nil
}

// CLASSTYPE Object (RFC5455 3)
const classTypeMask uint8 = 0x07

type ClassTypeObject struct {
	ObjectFlags
	ClassType uint8
}

func (o *ClassTypeObject) decode(_ *Registry, _ *CommonObjectHeader, body []byte) error {
	if err := checkFixedObjectBody(o.Class(), body, 4); err != nil {
		return err
	}
	o.ClassType = body[3] & classTypeMask
	return nil
}

func (o *ClassTypeObject) Class() ObjectClass { return ObjectClassClassType }
func (o *ClassTypeObject) Type() ObjectType   { return ObjectTypeClassType }

func (o *ClassTypeObject) SerializeBody() ([]uint8, error) {
	if o.ClassType > classTypeMask {
		return nil, fmt.Errorf("class type %d out of range", o.ClassType)
	}
	return []uint8{0, 0, 0, o.ClassType}, nil
}

func (o *ClassTypeObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.addFlags(enc)
	enc.AddUint8("classType", o.ClassType)
	return nil
}

// GC Object (RFC5557 5.3), utilisation in percent
const gcObjectFixedBodyLength = 4

type GlobalConstraintsObject struct {
	ObjectFlags
	MaxHop            uint8
	MaxUtilization    uint8
	MinUtilization    uint8
	OverBookingFactor uint8
	TLVs              []TLVInterface
}

func (o *GlobalConstraintsObject) decode(r *Registry, _ *CommonObjectHeader, body []byte) error {
	if err := checkObjectBody(o.Class(), body, gcObjectFixedBodyLength); err != nil {
		return err
	}
	o.MaxHop = body[0]
	o.MaxUtilization = body[1]
	o.MinUtilization = body[2]
	o.OverBookingFactor = body[3]
	var err error
	o.TLVs, err = r.DecodeTLVs(body[gcObjectFixedBodyLength:])
	return err
}

func (o *GlobalConstraintsObject) Class() ObjectClass { return ObjectClassGlobalConstraints }
func (o *GlobalConstraintsObject) Type() ObjectType   { return ObjectTypeGlobalConstraints }

func (o *GlobalConstraintsObject) SerializeBody() ([]uint8, error) {
	buf := []uint8{o.MaxHop, o.MaxUtilization, o.MinUtilization, o.OverBookingFactor}
	return append(buf, serializeTLVs(o.TLVs)...), nil
}

func (o *GlobalConstraintsObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.addFlags(enc)
	enc.AddUint8("maxHop", o.MaxHop)
	enc.AddUint8("maxUtilization", o.MaxUtilization)
	enc.AddUint8("minUtilization", o.MinUtilization)
	enc.AddUint8("overBookingFactor", o.OverBookingFactor)
	addTLVs(enc, o.TLVs)
	return nil
}
