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

// Label C-Types (RFC3471 3)
const (
	LabelCTypeType1       uint8 = 1
	LabelCTypeGeneralized uint8 = 2
	LabelCTypeWaveband    uint8 = 3
)

const (
	labelUpstreamFlag uint8 = 0x80
	labelGlobalFlag   uint8 = 0x01 // RRO only
)

// Label is the contents of a label sub-object. The set of implementations
// is closed.
type Label interface {
	CType() uint8
	MarshalLogObject(enc zapcore.ObjectEncoder) error
	serialize() []byte
}

// LabelSubobject (RFC3473 5.1.1, RFC3209 4.4.1.2)
type LabelSubobject struct {
	Upstream bool
	Global   bool // RRO
	Label    Label
}

const labelHeaderLength = 2

func decodeLabelSubobject(family SubobjectFamily, body []byte) (*LabelSubobject, error) {
	if len(body) < labelHeaderLength {
		return nil, fmt.Errorf("label sub-object too short: %d bytes", len(body))
	}
	so := &LabelSubobject{Upstream: IsBitSet(body[0], labelUpstreamFlag)}
	if family == FamilyRRO {
		so.Global = IsBitSet(body[0], labelGlobalFlag)
	}
	label, err := decodeLabel(body[1], body[labelHeaderLength:])
	if err != nil {
		return nil, err
	}
	so.Label = label
	return so, nil
}

func decodeLabel(ctype uint8, data []byte) (Label, error) {
	switch ctype {
	case LabelCTypeType1:
		if err := expectBodyLength(data, 4); err != nil {
			return nil, err
		}
		return &Type1Label{Value: binary.BigEndian.Uint32(data)}, nil
	case LabelCTypeGeneralized:
		if len(data) == 0 || len(data)%4 != 0 {
			return nil, fmt.Errorf("generalized label length %d is not a positive multiple of 4", len(data))
		}
		return &GeneralizedLabel{Value: append([]byte{}, data...)}, nil
	case LabelCTypeWaveband:
		if err := expectBodyLength(data, 12); err != nil {
			return nil, err
		}
		return &WavebandLabel{
			WavebandID: binary.BigEndian.Uint32(data[0:4]),
			StartLabel: binary.BigEndian.Uint32(data[4:8]),
			EndLabel:   binary.BigEndian.Uint32(data[8:12]),
		}, nil
	}
	return &UnknownLabel{Type: ctype, Value: append([]byte{}, data...)}, nil
}

func (so *LabelSubobject) SubobjectType() SubobjectType {
	return SubobjectTypeLabel
}

func (so *LabelSubobject) serializeBody(family SubobjectFamily) ([]byte, error) {
	if so.Label == nil {
		return nil, fmt.Errorf("label sub-object without label")
	}
	var flags uint8
	flags = SetBit(flags, labelUpstreamFlag, so.Upstream)
	flags = SetBit(flags, labelGlobalFlag, so.Global && family == FamilyRRO)
	return append([]byte{flags, so.Label.CType()}, so.Label.serialize()...), nil
}

func (so *LabelSubobject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBool("upstream", so.Upstream)
	if so.Global {
		enc.AddBool("global", true)
	}
	if so.Label != nil {
		enc.AddUint8("cType", so.Label.CType())
		return enc.AddObject("label", so.Label)
	}
	return nil
}

// Type1Label is a 32-bit MPLS label value.
type Type1Label struct {
	Value uint32
}

func (l *Type1Label) CType() uint8      { return LabelCTypeType1 }
func (l *Type1Label) serialize() []byte { return Uint32ToByteSlice(l.Value) }

func (l *Type1Label) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("value", l.Value)
	return nil
}

// GeneralizedLabel (RFC3471 3.2)
type GeneralizedLabel struct {
	Value []byte
}

func (l *GeneralizedLabel) CType() uint8      { return LabelCTypeGeneralized }
func (l *GeneralizedLabel) serialize() []byte { return l.Value }

func (l *GeneralizedLabel) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBinary("value", l.Value)
	return nil
}

// WavebandLabel (RFC3471 3.3)
type WavebandLabel struct {
	WavebandID uint32
	StartLabel uint32
	EndLabel   uint32
}

func (l *WavebandLabel) CType() uint8 { return LabelCTypeWaveband }

func (l *WavebandLabel) serialize() []byte {
	return AppendByteSlices(
		Uint32ToByteSlice(l.WavebandID),
		Uint32ToByteSlice(l.StartLabel),
		Uint32ToByteSlice(l.EndLabel),
	)
}

func (l *WavebandLabel) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("wavebandID", l.WavebandID)
	enc.AddUint32("startLabel", l.StartLabel)
	enc.AddUint32("endLabel", l.EndLabel)
	return nil
}

type UnknownLabel struct {
	Type  uint8
	Value []byte
}

func (l *UnknownLabel) CType() uint8      { return l.Type }
func (l *UnknownLabel) serialize() []byte { return l.Value }

func (l *UnknownLabel) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBinary("value", l.Value)
	return nil
}
