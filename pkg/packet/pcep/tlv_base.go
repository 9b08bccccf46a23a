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

// NO-PATH-VECTOR flags (RFC5440 7.5, RFC8306)
const (
	NoPathVectorPCEUnavailable       uint32 = 0x00000001
	NoPathVectorUnknownDestination   uint32 = 0x00000002
	NoPathVectorUnknownSource        uint32 = 0x00000004
	NoPathVectorBRPCPathComputation  uint32 = 0x00000008
	NoPathVectorPKSExpansionFailure  uint32 = 0x00000010
	NoPathVectorNoGCOMigrationPath   uint32 = 0x00000020
	NoPathVectorNoGCOSolution        uint32 = 0x00000040
	NoPathVectorP2MPReachability     uint32 = 0x00001000
	NoPathVectorUnknownDestinationP2 uint32 = 0x00002000
)

type NoPathVector struct {
	Flags uint32
}

func (tlv *NoPathVector) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "NoPathVector", int(TLVNoPathVectorValueLength))
	if err != nil {
		return err
	}
	tlv.Flags = binary.BigEndian.Uint32(value)
	return nil
}

func (tlv *NoPathVector) Serialize() []byte {
	return serializeTLV(tlv.Type(), Uint32ToByteSlice(tlv.Flags))
}

func (tlv *NoPathVector) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBool("pceUnavailable", IsBitSet(tlv.Flags, NoPathVectorPCEUnavailable))
	enc.AddBool("unknownDestination", IsBitSet(tlv.Flags, NoPathVectorUnknownDestination))
	enc.AddBool("unknownSource", IsBitSet(tlv.Flags, NoPathVectorUnknownSource))
	enc.AddUint32("flags", tlv.Flags)
	return nil
}

func (tlv *NoPathVector) Type() TLVType {
	return TLVNoPathVector
}

func (tlv *NoPathVector) Len() uint16 {
	return TLVHeaderLength + TLVNoPathVectorValueLength
}

// OverloadDuration carries the overload period in seconds.
type OverloadDuration struct {
	Duration uint32
}

func (tlv *OverloadDuration) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "OverloadDuration", int(TLVOverloadDurationValueLength))
	if err != nil {
		return err
	}
	tlv.Duration = binary.BigEndian.Uint32(value)
	return nil
}

func (tlv *OverloadDuration) Serialize() []byte {
	return serializeTLV(tlv.Type(), Uint32ToByteSlice(tlv.Duration))
}

func (tlv *OverloadDuration) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("duration", tlv.Duration)
	return nil
}

func (tlv *OverloadDuration) Type() TLVType {
	return TLVOverloadDuration
}

func (tlv *OverloadDuration) Len() uint16 {
	return TLVHeaderLength + TLVOverloadDurationValueLength
}

// ReqMissing names the request that a SVEC dependency is missing.
type ReqMissing struct {
	RequestID uint32
}

func (tlv *ReqMissing) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "ReqMissing", int(TLVReqMissingValueLength))
	if err != nil {
		return err
	}
	tlv.RequestID = binary.BigEndian.Uint32(value)
	return nil
}

func (tlv *ReqMissing) Serialize() []byte {
	return serializeTLV(tlv.Type(), Uint32ToByteSlice(tlv.RequestID))
}

func (tlv *ReqMissing) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("requestID", tlv.RequestID)
	return nil
}

func (tlv *ReqMissing) Type() TLVType {
	return TLVReqMissing
}

func (tlv *ReqMissing) Len() uint16 {
	return TLVHeaderLength + TLVReqMissingValueLength
}

// OFList lists supported objective function codes (RFC5541 2.1).
type OFList struct {
	Codes []uint16
}

func (tlv *OFList) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "OFList", -1)
	if err != nil {
		return err
	}
	if len(value)%2 != 0 {
		return fmt.Errorf("OFList length %d is not a multiple of 2", len(value))
	}
	tlv.Codes = make([]uint16, 0, len(value)/2)
	for i := 0; i < len(value); i += 2 {
		tlv.Codes = append(tlv.Codes, binary.BigEndian.Uint16(value[i:i+2]))
	}
	return nil
}

func (tlv *OFList) Serialize() []byte {
	value := make([]byte, 0, 2*len(tlv.Codes))
	for _, code := range tlv.Codes {
		value = append(value, Uint16ToByteSlice(code)...)
	}
	return serializeTLV(tlv.Type(), value)
}

func (tlv *OFList) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("codes", fmt.Sprint(tlv.Codes))
	return nil
}

func (tlv *OFList) Type() TLVType {
	return TLVOFList
}

func (tlv *OFList) Len() uint16 {
	return tlvLen(2 * len(tlv.Codes))
}

// Order (RFC5557 5.1)
type Order struct {
	DeleteOrder uint32
	SetupOrder  uint32
}

func (tlv *Order) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "Order", int(TLVOrderValueLength))
	if err != nil {
		return err
	}
	tlv.DeleteOrder = binary.BigEndian.Uint32(value[0:4])
	tlv.SetupOrder = binary.BigEndian.Uint32(value[4:8])
	return nil
}

func (tlv *Order) Serialize() []byte {
	return serializeTLV(tlv.Type(), AppendByteSlices(
		Uint32ToByteSlice(tlv.DeleteOrder),
		Uint32ToByteSlice(tlv.SetupOrder),
	))
}

func (tlv *Order) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("deleteOrder", tlv.DeleteOrder)
	enc.AddUint32("setupOrder", tlv.SetupOrder)
	return nil
}

func (tlv *Order) Type() TLVType {
	return TLVOrder
}

func (tlv *Order) Len() uint16 {
	return TLVHeaderLength + TLVOrderValueLength
}

// P2MPCapable (RFC8306 3.1.2)
type P2MPCapable struct {
	Value uint16
}

func (tlv *P2MPCapable) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "P2MPCapable", int(TLVP2MPCapableValueLength))
	if err != nil {
		return err
	}
	tlv.Value = binary.BigEndian.Uint16(value)
	return nil
}

func (tlv *P2MPCapable) Serialize() []byte {
	return serializeTLV(tlv.Type(), Uint16ToByteSlice(tlv.Value))
}

func (tlv *P2MPCapable) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint16("value", tlv.Value)
	return nil
}

func (tlv *P2MPCapable) Type() TLVType {
	return TLVP2MPCapable
}

func (tlv *P2MPCapable) Len() uint16 {
	return tlvLen(int(TLVP2MPCapableValueLength))
}
