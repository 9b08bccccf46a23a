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

type EnterpriseNumber uint32

const (
	EnterpriseNumberCisco   EnterpriseNumber = 9
	EnterpriseNumberJuniper EnterpriseNumber = 2636
)

func (en EnterpriseNumber) String() string {
	switch en {
	case EnterpriseNumberCisco:
		return "Cisco"
	case EnterpriseNumberJuniper:
		return "Juniper"
	}
	return fmt.Sprintf("Enterprise %d", uint32(en))
}

const enterpriseNumberLength = 4

// VendorInfoParser decodes the vendor-specific bytes following the
// enterprise number.
type VendorInfoParser func(body []byte) ([]TLVInterface, error)

// VendorInformation is the payload shared by the VENDOR-INFORMATION object
// and TLV (RFC7470). Raw is only set when no parser knows the enterprise
// number.
type VendorInformation struct {
	EnterpriseNumber EnterpriseNumber
	TLVs             []TLVInterface
	Raw              []byte
}

func (vi *VendorInformation) serialize() []byte {
	buf := Uint32ToByteSlice(vi.EnterpriseNumber)
	if vi.Raw != nil && vi.TLVs == nil {
		return append(buf, vi.Raw...)
	}
	return append(buf, serializeTLVs(vi.TLVs)...)
}

func (vi *VendorInformation) length() int {
	if vi.Raw != nil && vi.TLVs == nil {
		return enterpriseNumberLength + len(vi.Raw)
	}
	l := enterpriseNumberLength
	for _, tlv := range vi.TLVs {
		l += int(tlv.Len())
	}
	return l
}

func (vi *VendorInformation) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("enterpriseNumber", vi.EnterpriseNumber.String())
	addTLVs(enc, vi.TLVs)
	if vi.Raw != nil {
		enc.AddBinary("raw", vi.Raw)
	}
	return nil
}

// VendorInformationTLV is TLV type 7.
type VendorInformationTLV struct {
	VendorInformation
}

// DecodeFromBytes keeps the payload raw; the registry resolves vendor
// sub-TLVs when decoding TLV lists.
func (tlv *VendorInformationTLV) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "VendorInformation", -1)
	if err != nil {
		return err
	}
	if len(value) < enterpriseNumberLength {
		return fmt.Errorf("vendor information too short: %d bytes", len(value))
	}
	tlv.EnterpriseNumber = EnterpriseNumber(binary.BigEndian.Uint32(value[:enterpriseNumberLength]))
	tlv.Raw = append([]byte{}, value[enterpriseNumberLength:]...)
	tlv.TLVs = nil
	return nil
}

func (tlv *VendorInformationTLV) Serialize() []byte {
	return serializeTLV(tlv.Type(), tlv.serialize())
}

func (tlv *VendorInformationTLV) Type() TLVType {
	return TLVVendorInformation
}

func (tlv *VendorInformationTLV) Len() uint16 {
	return tlvLen(tlv.length())
}

// Color returns the SR Policy color carried by Cisco vendor information.
func (vi *VendorInformation) Color() (uint32, bool) {
	if t, ok := findTLV[*CiscoColor](vi.TLVs); ok {
		return t.Color, true
	}
	return 0, false
}

func (vi *VendorInformation) Preference() (uint32, bool) {
	if t, ok := findTLV[*CiscoPreference](vi.TLVs); ok {
		return t.Preference, true
	}
	return 0, false
}

// NewCiscoVendorInformation builds the vendor information object Cisco
// PCCs read the SR Policy color and preference from.
func NewCiscoVendorInformation(color, preference uint32) *VendorInformationObject {
	return &VendorInformationObject{
		VendorInformation: VendorInformation{
			EnterpriseNumber: EnterpriseNumberCisco,
			TLVs: []TLVInterface{
				&CiscoColor{Color: color},
				&CiscoPreference{Preference: preference},
			},
		},
	}
}

// Cisco vendor sub-TLVs
type CiscoColor struct {
	Color uint32
}

func (tlv *CiscoColor) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "CiscoColor", int(SubTLVColorCiscoValueLength))
	if err != nil {
		return err
	}
	tlv.Color = binary.BigEndian.Uint32(value)
	return nil
}

func (tlv *CiscoColor) Serialize() []byte {
	return serializeTLV(tlv.Type(), Uint32ToByteSlice(tlv.Color))
}

func (tlv *CiscoColor) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("color", tlv.Color)
	return nil
}

func (tlv *CiscoColor) Type() TLVType {
	return SubTLVColorCisco
}

func (tlv *CiscoColor) Len() uint16 {
	return TLVHeaderLength + SubTLVColorCiscoValueLength
}

type CiscoPreference struct {
	Preference uint32
}

func (tlv *CiscoPreference) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "CiscoPreference", int(SubTLVPreferenceCiscoValueLength))
	if err != nil {
		return err
	}
	tlv.Preference = binary.BigEndian.Uint32(value)
	return nil
}

func (tlv *CiscoPreference) Serialize() []byte {
	return serializeTLV(tlv.Type(), Uint32ToByteSlice(tlv.Preference))
}

func (tlv *CiscoPreference) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("preference", tlv.Preference)
	return nil
}

func (tlv *CiscoPreference) Type() TLVType {
	return SubTLVPreferenceCisco
}

func (tlv *CiscoPreference) Len() uint16 {
	return TLVHeaderLength + SubTLVPreferenceCiscoValueLength
}

// ParseCiscoVendorInfo decodes the Cisco color and preference sub-TLVs.
// Other Cisco sub-TLVs are kept as UndefinedTLV.
func ParseCiscoVendorInfo(body []byte) ([]TLVInterface, error) {
	var tlvs []TLVInterface
	err := walkTLVs(body, func(typ TLVType, raw []byte) error {
		var tlv TLVInterface
		switch typ {
		case SubTLVColorCisco:
			tlv = &CiscoColor{}
		case SubTLVPreferenceCisco:
			tlv = &CiscoPreference{}
		default:
			tlv = &UndefinedTLV{}
		}
		if err := tlv.DecodeFromBytes(raw); err != nil {
			return err
		}
		tlvs = append(tlvs, tlv)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cisco vendor information: %w", err)
	}
	return tlvs, nil
}
