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

// MONITORING Object (RFC5886 4.1)
const (
	monitoringLivenessFlag   uint8 = 0x01
	monitoringGeneralFlag    uint8 = 0x02
	monitoringProcessingFlag uint8 = 0x04
	monitoringOverloadFlag   uint8 = 0x08
	monitoringIncompleteFlag uint8 = 0x10

	monitoringObjectFixedBodyLength = 8
)

type MonitoringObject struct {
	ObjectFlags
	Liveness       bool
	General        bool
	ProcessingTime bool
	Overload       bool
	Incomplete     bool
	MonitoringID   uint32
	TLVs           []TLVInterface
}

func (o *MonitoringObject) decode(r *Registry, _ *CommonObjectHeader, body []byte) error {
	if err := checkObjectBody(o.Class(), body, monitoringObjectFixedBodyLength); err != nil {
		return err
	}
	o.Liveness = IsBitSet(body[3], monitoringLivenessFlag)
	o.General = IsBitSet(body[3], monitoringGeneralFlag)
	o.ProcessingTime = IsBitSet(body[3], monitoringProcessingFlag)
	o.Overload = IsBitSet(body[3], monitoringOverloadFlag)
	o.Incomplete = IsBitSet(body[3], monitoringIncompleteFlag)
	o.MonitoringID = binary.BigEndian.Uint32(body[4:8])
	var err error
	o.TLVs, err = r.DecodeTLVs(body[monitoringObjectFixedBodyLength:])
	return err
}

func (o *MonitoringObject) Class() ObjectClass { return ObjectClassMonitoring }
func (o *MonitoringObject) Type() ObjectType   { return ObjectTypeMonitoring }

func (o *MonitoringObject) SerializeBody() ([]uint8, error) {
	var flags uint8
	flags = SetBit(flags, monitoringLivenessFlag, o.Liveness)
	flags = SetBit(flags, monitoringGeneralFlag, o.General)
	flags = SetBit(flags, monitoringProcessingFlag, o.ProcessingTime)
	flags = SetBit(flags, monitoringOverloadFlag, o.Overload)
	flags = SetBit(flags, monitoringIncompleteFlag, o.Incomplete)
	return AppendByteSlices([]uint8{0, 0, 0, flags}, Uint32ToByteSlice(o.MonitoringID), serializeTLVs(o.TLVs)), nil
}

func (o *MonitoringObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.addFlags(enc)
	enc.AddUint32("monitoringID", o.MonitoringID)
	enc.AddBool("liveness", o.Liveness)
	enc.AddBool("general", o.General)
	enc.AddBool("processingTime", o.ProcessingTime)
	enc.AddBool("overload", o.Overload)
	enc.AddBool("incomplete", o.Incomplete)
	addTLVs(enc, o.TLVs)
	return nil
}

// addressObject decodes a single IPv4 (type 1) or IPv6 (type 2) address body.
// ObjectType keeps the decoded type; zero derives it from Address.
type addressObject struct {
	ObjectFlags
	ObjectType ObjectType
	Address    netip.Addr
}

func (o *addressObject) decodeAddress(class ObjectClass, h *CommonObjectHeader, body []byte) error {
	switch {
	case h.ObjectType == 1 && len(body) == 4:
		o.Address = addrFrom4(body)
	case h.ObjectType == 2 && len(body) == 16:
		o.Address = addrFrom16(body)
	default:
		return deserializeErrorf("invalid %s object: type %d with %d bytes", class, h.ObjectType, len(body))
	}
	o.ObjectType = h.ObjectType
	return nil
}

func (o *addressObject) addressType() ObjectType {
	if o.ObjectType != 0 {
		return o.ObjectType
	}
	if o.Address.Is6() && !o.Address.Is4In6() {
		return 2
	}
	return 1
}

func (o *addressObject) serializeAddress() ([]uint8, error) {
	if !o.Address.IsValid() {
		return nil, fmt.Errorf("missing address")
	}
	switch o.addressType() {
	case 1:
		if !o.Address.Unmap().Is4() {
			return nil, fmt.Errorf("object type 1 needs an IPv4 address, got %s", o.Address)
		}
		return addrBytes(o.Address, false), nil
	case 2:
		return addrBytes(o.Address, true), nil
	default:
		return nil, fmt.Errorf("unsupported address object type %d", o.ObjectType)
	}
}

func (o *addressObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.addFlags(enc)
	enc.AddString("address", o.Address.String())
	return nil
}

// PCC-REQ-ID Object (RFC5886 4.2)
type PCCReqIDObject struct {
	addressObject
}

func (o *PCCReqIDObject) decode(_ *Registry, h *CommonObjectHeader, body []byte) error {
	return o.decodeAddress(o.Class(), h, body)
}

func (o *PCCReqIDObject) Class() ObjectClass              { return ObjectClassPCCReqID }
func (o *PCCReqIDObject) Type() ObjectType                { return o.addressType() }
func (o *PCCReqIDObject) SerializeBody() ([]uint8, error) { return o.serializeAddress() }

// PCE-ID Object (RFC5886 4.3)
type PCEIDObject struct {
	addressObject
}

func (o *PCEIDObject) decode(_ *Registry, h *CommonObjectHeader, body []byte) error {
	return o.decodeAddress(o.Class(), h, body)
}

func (o *PCEIDObject) Class() ObjectClass              { return ObjectClassPCEID }
func (o *PCEIDObject) Type() ObjectType                { return o.addressType() }
func (o *PCEIDObject) SerializeBody() ([]uint8, error) { return o.serializeAddress() }

// PROC-TIME Object (RFC5886 4.4), milliseconds
const (
	procTimeEstimatedFlag  uint16 = 0x0001
	procTimeObjectBodySize        = 24
)

type ProcTimeObject struct {
	ObjectFlags
	Estimated bool
	Current   uint32
	Min       uint32
	Max       uint32
	Average   uint32
	Variance  uint32
}

func (o *ProcTimeObject) decode(_ *Registry, _ *CommonObjectHeader, body []byte) error {
	if err := checkFixedObjectBody(o.Class(), body, procTimeObjectBodySize); err != nil {
		return err
	}
	o.Estimated = IsBitSet(binary.BigEndian.Uint16(body[2:4]), procTimeEstimatedFlag)
	o.Current = binary.BigEndian.Uint32(body[4:8])
	o.Min = binary.BigEndian.Uint32(body[8:12])
	o.Max = binary.BigEndian.Uint32(body[12:16])
	o.Average = binary.BigEndian.Uint32(body[16:20])
	o.Variance = binary.BigEndian.Uint32(body[20:24])
	return nil
}

func (o *ProcTimeObject) Class() ObjectClass { return ObjectClassProcTime }
func (o *ProcTimeObject) Type() ObjectType   { return ObjectTypeProcTime }

func (o *ProcTimeObject) SerializeBody() ([]uint8, error) {
	return AppendByteSlices(
		[]uint8{0, 0},
		Uint16ToByteSlice(SetBit(uint16(0), procTimeEstimatedFlag, o.Estimated)),
		Uint32ToByteSlice(o.Current),
		Uint32ToByteSlice(o.Min),
		Uint32ToByteSlice(o.Max),
		Uint32ToByteSlice(o.Average),
		Uint32ToByteSlice(o.Variance),
	), nil
}

func (o *ProcTimeObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.addFlags(enc)
	enc.AddBool("estimated", o.Estimated)
	enc.AddUint32("current", o.Current)
	enc.AddUint32("min", o.Min)
	enc.AddUint32("max", o.Max)
	enc.AddUint32("average", o.Average)
	enc.AddUint32("variance", o.Variance)
	return nil
}

// OVERLOAD Object (RFC5886 4.5), seconds
type OverloadObject struct {
	ObjectFlags
	Duration uint16
}

func (o *OverloadObject) decode(_ *Registry, _ *CommonObjectHeader, body []byte) error {
	if err := checkFixedObjectBody(o.Class(), body, 4); err != nil {
		return err
	}
	o.Duration = binary.BigEndian.Uint16(body[2:4])
	return nil
}

func (o *OverloadObject) Class() ObjectClass { return ObjectClassOverload }
func (o *OverloadObject) Type() ObjectType   { return ObjectTypeOverload }

func (o *OverloadObject) SerializeBody() ([]uint8, error) {
	return append([]uint8{0, 0}, Uint16ToByteSlice(o.Duration)...), nil
}

func (o *OverloadObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.addFlags(enc)
	enc.AddUint16("duration", o.Duration)
	return nil
}
