// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"encoding/binary"
	"fmt"
	"net/netip"
	"slices"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap/zapcore"
)

type StatefulPCECapability struct {
	LSPUpdateCapability            bool // 31
	IncludeDBVersion               bool // 30
	LSPInstantiationCapability     bool // 29
	TriggeredResync                bool // 28
	DeltaLSPSyncCapability         bool // 27
	TriggeredInitialSync           bool // 26
	P2mpCapability                 bool // 25
	P2mpLSPUpdateCapability        bool // 24
	P2mpLSPInstantiationCapability bool // 23
	LSPSchedulingCapability        bool // 22
	PdLSPCapability                bool // 21
	ColorCapability                bool // 20
	PathRecomputationCapability    bool // 19
	StrictPathCapability           bool // 18
	Relax                          bool // 17
}

const (
	LSPUpdateCapabilityBit            uint32 = 0x00000001
	IncludeDBVersionCapabilityBit     uint32 = 0x00000002
	LSPInstantiationCapabilityBit     uint32 = 0x00000004
	TriggeredResyncCapabilityBit      uint32 = 0x00000008
	DeltaLSPSyncCapabilityBit         uint32 = 0x00000010
	TriggeredInitialSyncBit           uint32 = 0x00000020
	P2mpCapabilityBit                 uint32 = 0x00000040
	P2mpLSPUpdateCapabilityBit        uint32 = 0x00000080
	P2mpLSPInstantiationCapabilityBit uint32 = 0x00000100
	LSPSchedulingCapabilityBit        uint32 = 0x00000200
	PdLSPCapabilityBit                uint32 = 0x00000400
	ColorCapabilityBit                uint32 = 0x00000800
	PathRecomputationCapabilityBit    uint32 = 0x00001000
	StrictPathCapabilityBit           uint32 = 0x00002000
	RelaxCapabilityBit                uint32 = 0x00004000
)

func (tlv *StatefulPCECapability) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "StatefulPCECapability", int(TLVStatefulPCECapabilityValueLength))
	if err != nil {
		return err
	}
	tlv.ExtractCapabilities(binary.BigEndian.Uint32(value))
	return nil
}

func (tlv *StatefulPCECapability) Serialize() []byte {
	return AppendByteSlices(
		Uint16ToByteSlice(tlv.Type()),
		Uint16ToByteSlice(TLVStatefulPCECapabilityValueLength),
		Uint32ToByteSlice(tlv.SetFlags()),
	)
}

func (tlv *StatefulPCECapability) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBool("lspUpdateCapability", tlv.LSPUpdateCapability)
	enc.AddBool("includeDBVersion", tlv.IncludeDBVersion)
	enc.AddBool("lspInstantiationCapability", tlv.LSPInstantiationCapability)
	enc.AddBool("triggeredResync", tlv.TriggeredResync)
	enc.AddBool("deltaLSPSyncCapability", tlv.DeltaLSPSyncCapability)
	enc.AddBool("triggeredInitialSync", tlv.TriggeredInitialSync)
	enc.AddBool("colorCapability", tlv.ColorCapability)
	return nil
}

func (tlv *StatefulPCECapability) Type() TLVType {
	return TLVStatefulPCECapability
}

func (tlv *StatefulPCECapability) Len() uint16 {
	return TLVHeaderLength + TLVStatefulPCECapabilityValueLength
}

func (tlv *StatefulPCECapability) ExtractCapabilities(flags uint32) {
	tlv.LSPUpdateCapability = IsBitSet(flags, LSPUpdateCapabilityBit)
	tlv.IncludeDBVersion = IsBitSet(flags, IncludeDBVersionCapabilityBit)
	tlv.LSPInstantiationCapability = IsBitSet(flags, LSPInstantiationCapabilityBit)
	tlv.TriggeredResync = IsBitSet(flags, TriggeredResyncCapabilityBit)
	tlv.DeltaLSPSyncCapability = IsBitSet(flags, DeltaLSPSyncCapabilityBit)
	tlv.TriggeredInitialSync = IsBitSet(flags, TriggeredInitialSyncBit)
	tlv.P2mpCapability = IsBitSet(flags, P2mpCapabilityBit)
	tlv.P2mpLSPUpdateCapability = IsBitSet(flags, P2mpLSPUpdateCapabilityBit)
	tlv.P2mpLSPInstantiationCapability = IsBitSet(flags, P2mpLSPInstantiationCapabilityBit)
	tlv.LSPSchedulingCapability = IsBitSet(flags, LSPSchedulingCapabilityBit)
	tlv.PdLSPCapability = IsBitSet(flags, PdLSPCapabilityBit)
	tlv.ColorCapability = IsBitSet(flags, ColorCapabilityBit)
	tlv.PathRecomputationCapability = IsBitSet(flags, PathRecomputationCapabilityBit)
	tlv.StrictPathCapability = IsBitSet(flags, StrictPathCapabilityBit)
	tlv.Relax = IsBitSet(flags, RelaxCapabilityBit)
}

func (tlv *StatefulPCECapability) SetFlags() uint32 {
	var flags uint32
	flags = SetBit(flags, LSPUpdateCapabilityBit, tlv.LSPUpdateCapability)
	flags = SetBit(flags, IncludeDBVersionCapabilityBit, tlv.IncludeDBVersion)
	flags = SetBit(flags, LSPInstantiationCapabilityBit, tlv.LSPInstantiationCapability)
	flags = SetBit(flags, TriggeredResyncCapabilityBit, tlv.TriggeredResync)
	flags = SetBit(flags, DeltaLSPSyncCapabilityBit, tlv.DeltaLSPSyncCapability)
	flags = SetBit(flags, TriggeredInitialSyncBit, tlv.TriggeredInitialSync)
	flags = SetBit(flags, P2mpCapabilityBit, tlv.P2mpCapability)
	flags = SetBit(flags, P2mpLSPUpdateCapabilityBit, tlv.P2mpLSPUpdateCapability)
	flags = SetBit(flags, P2mpLSPInstantiationCapabilityBit, tlv.P2mpLSPInstantiationCapability)
	flags = SetBit(flags, LSPSchedulingCapabilityBit, tlv.LSPSchedulingCapability)
	flags = SetBit(flags, PdLSPCapabilityBit, tlv.PdLSPCapability)
	flags = SetBit(flags, ColorCapabilityBit, tlv.ColorCapability)
	flags = SetBit(flags, PathRecomputationCapabilityBit, tlv.PathRecomputationCapability)
	flags = SetBit(flags, StrictPathCapabilityBit, tlv.StrictPathCapability)
	flags = SetBit(flags, RelaxCapabilityBit, tlv.Relax)
	return flags
}

func (tlv *StatefulPCECapability) CapStrings() []string {
	ret := []string{"Stateful"}
	if tlv.LSPUpdateCapability {
		ret = append(ret, "Update")
	}
	if tlv.IncludeDBVersion {
		ret = append(ret, "Include-DB-Ver")
	}
	if tlv.LSPInstantiationCapability {
		ret = append(ret, "Instantiation")
	}
	if tlv.TriggeredResync {
		ret = append(ret, "Triggered-Resync")
	}
	if tlv.DeltaLSPSyncCapability {
		ret = append(ret, "Delta-LSP-Sync")
	}
	if tlv.TriggeredInitialSync {
		ret = append(ret, "Triggered-Initial-Sync")
	}
	if tlv.ColorCapability {
		ret = append(ret, "Color")
	}
	return ret
}

func NewStatefulPCECapability(flags uint32) *StatefulPCECapability {
	tlv := &StatefulPCECapability{}
	tlv.ExtractCapabilities(flags)
	return tlv
}

type SymbolicPathName struct {
	Name string
}

func (tlv *SymbolicPathName) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "SymbolicPathName", -1)
	if err != nil {
		return err
	}
	if !utf8.Valid(value) {
		return fmt.Errorf("invalid UTF-8 sequence in SymbolicPathName")
	}
	tlv.Name = string(value)
	return nil
}

func (tlv *SymbolicPathName) Serialize() []byte {
	return serializeTLV(tlv.Type(), []byte(tlv.Name))
}

func (tlv *SymbolicPathName) Type() TLVType {
	return TLVSymbolicPathName
}

func (tlv *SymbolicPathName) Len() uint16 {
	return tlvLen(len(tlv.Name))
}

func (tlv *SymbolicPathName) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("symbolicPathName", tlv.Name)
	return nil
}

func NewSymbolicPathName(name string) *SymbolicPathName {
	return &SymbolicPathName{Name: name}
}

type IPv4LSPIdentifiers struct {
	IPv4TunnelSenderAddress   netip.Addr
	IPv4TunnelEndpointAddress netip.Addr
	LSPID                     uint16
	TunnelID                  uint16
	ExtendedTunnelID          uint32
}

const (
	IPv4LSPIdentifiersLSPIDOffset                 = 4
	IPv4LSPIdentifiersTunnelIDOffset              = 6
	IPv4LSPIdentifiersExtendedTunnelIDOffset      = 8
	IPv4LSPIdentifiersTunnelEndpointAddressOffset = 12
)

func (tlv *IPv4LSPIdentifiers) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "IPv4LSPIdentifiers", int(TLVIPv4LSPIdentifiersValueLength))
	if err != nil {
		return err
	}

	tlv.IPv4TunnelSenderAddress = addrFrom4(value[:IPv4LSPIdentifiersLSPIDOffset])
	tlv.LSPID = binary.BigEndian.Uint16(value[IPv4LSPIdentifiersLSPIDOffset:IPv4LSPIdentifiersTunnelIDOffset])
	tlv.TunnelID = binary.BigEndian.Uint16(value[IPv4LSPIdentifiersTunnelIDOffset:IPv4LSPIdentifiersExtendedTunnelIDOffset])
	tlv.ExtendedTunnelID = binary.BigEndian.Uint32(value[IPv4LSPIdentifiersExtendedTunnelIDOffset:IPv4LSPIdentifiersTunnelEndpointAddressOffset])
	tlv.IPv4TunnelEndpointAddress = addrFrom4(value[IPv4LSPIdentifiersTunnelEndpointAddressOffset:])

	return nil
}

func (tlv *IPv4LSPIdentifiers) Serialize() []byte {
	value := make([]byte, TLVIPv4LSPIdentifiersValueLength)

	copy(value[:IPv4LSPIdentifiersLSPIDOffset], addrBytes(tlv.IPv4TunnelSenderAddress, false))
	binary.BigEndian.PutUint16(value[IPv4LSPIdentifiersLSPIDOffset:IPv4LSPIdentifiersTunnelIDOffset], tlv.LSPID)
	binary.BigEndian.PutUint16(value[IPv4LSPIdentifiersTunnelIDOffset:IPv4LSPIdentifiersExtendedTunnelIDOffset], tlv.TunnelID)
	binary.BigEndian.PutUint32(value[IPv4LSPIdentifiersExtendedTunnelIDOffset:IPv4LSPIdentifiersTunnelEndpointAddressOffset], tlv.ExtendedTunnelID)
	copy(value[IPv4LSPIdentifiersTunnelEndpointAddressOffset:], addrBytes(tlv.IPv4TunnelEndpointAddress, false))

	return serializeTLV(tlv.Type(), value)
}

func (tlv *IPv4LSPIdentifiers) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("senderAddress", tlv.IPv4TunnelSenderAddress.String())
	enc.AddString("endpointAddress", tlv.IPv4TunnelEndpointAddress.String())
	enc.AddUint16("lspID", tlv.LSPID)
	enc.AddUint16("tunnelID", tlv.TunnelID)
	enc.AddUint32("extendedTunnelID", tlv.ExtendedTunnelID)
	return nil
}

func (tlv *IPv4LSPIdentifiers) Type() TLVType {
	return TLVIPv4LSPIdentifiers
}

func (tlv *IPv4LSPIdentifiers) Len() uint16 {
	return TLVHeaderLength + TLVIPv4LSPIdentifiersValueLength
}

func NewIPv4LSPIdentifiers(senderAddr, endpointAddr netip.Addr, lspID, tunnelID uint16, extendedTunnelID uint32) *IPv4LSPIdentifiers {
	return &IPv4LSPIdentifiers{
		IPv4TunnelSenderAddress:   senderAddr,
		IPv4TunnelEndpointAddress: endpointAddr,
		LSPID:                     lspID,
		TunnelID:                  tunnelID,
		ExtendedTunnelID:          extendedTunnelID,
	}
}

type IPv6LSPIdentifiers struct {
	IPv6TunnelSenderAddress   netip.Addr
	IPv6TunnelEndpointAddress netip.Addr
	LSPID                     uint16
	TunnelID                  uint16
	ExtendedTunnelID          [16]byte
}

const (
	IPv6LSPIdentifiersLSPIDOffset                 = 16
	IPv6LSPIdentifiersTunnelIDOffset              = 18
	IPv6LSPIdentifiersExtendedTunnelIDOffset      = 20
	IPv6LSPIdentifiersTunnelEndpointAddressOffset = 36
)

func (tlv *IPv6LSPIdentifiers) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "IPv6LSPIdentifiers", int(TLVIPv6LSPIdentifiersValueLength))
	if err != nil {
		return err
	}

	tlv.IPv6TunnelSenderAddress = addrFrom16(value[:IPv6LSPIdentifiersLSPIDOffset])
	tlv.LSPID = binary.BigEndian.Uint16(value[IPv6LSPIdentifiersLSPIDOffset:IPv6LSPIdentifiersTunnelIDOffset])
	tlv.TunnelID = binary.BigEndian.Uint16(value[IPv6LSPIdentifiersTunnelIDOffset:IPv6LSPIdentifiersExtendedTunnelIDOffset])
	copy(tlv.ExtendedTunnelID[:], value[IPv6LSPIdentifiersExtendedTunnelIDOffset:IPv6LSPIdentifiersTunnelEndpointAddressOffset])
	tlv.IPv6TunnelEndpointAddress = addrFrom16(value[IPv6LSPIdentifiersTunnelEndpointAddressOffset:])

	return nil
}

func (tlv *IPv6LSPIdentifiers) Serialize() []byte {
	value := make([]byte, TLVIPv6LSPIdentifiersValueLength)

	copy(value[:IPv6LSPIdentifiersLSPIDOffset], addrBytes(tlv.IPv6TunnelSenderAddress, true))
	binary.BigEndian.PutUint16(value[IPv6LSPIdentifiersLSPIDOffset:IPv6LSPIdentifiersTunnelIDOffset], tlv.LSPID)
	binary.BigEndian.PutUint16(value[IPv6LSPIdentifiersTunnelIDOffset:IPv6LSPIdentifiersExtendedTunnelIDOffset], tlv.TunnelID)
	copy(value[IPv6LSPIdentifiersExtendedTunnelIDOffset:IPv6LSPIdentifiersTunnelEndpointAddressOffset], tlv.ExtendedTunnelID[:])
	copy(value[IPv6LSPIdentifiersTunnelEndpointAddressOffset:], addrBytes(tlv.IPv6TunnelEndpointAddress, true))

	return serializeTLV(tlv.Type(), value)
}

func (tlv *IPv6LSPIdentifiers) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("senderAddress", tlv.IPv6TunnelSenderAddress.String())
	enc.AddString("endpointAddress", tlv.IPv6TunnelEndpointAddress.String())
	enc.AddUint16("lspID", tlv.LSPID)
	enc.AddUint16("tunnelID", tlv.TunnelID)
	return nil
}

func (tlv *IPv6LSPIdentifiers) Type() TLVType {
	return TLVIPv6LSPIdentifiers
}

func (tlv *IPv6LSPIdentifiers) Len() uint16 {
	return TLVHeaderLength + TLVIPv6LSPIdentifiersValueLength
}

func NewIPv6LSPIdentifiers(senderAddr, endpointAddr netip.Addr, lspID, tunnelID uint16, extendedTunnelID [16]byte) *IPv6LSPIdentifiers {
	return &IPv6LSPIdentifiers{
		IPv6TunnelSenderAddress:   senderAddr,
		IPv6TunnelEndpointAddress: endpointAddr,
		LSPID:                     lspID,
		TunnelID:                  tunnelID,
		ExtendedTunnelID:          extendedTunnelID,
	}
}

// LSPErrorCode (RFC8231 7.3.3)
type LSPErrorCode struct {
	ErrorCode uint32
}

func (tlv *LSPErrorCode) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "LSPErrorCode", int(TLVLSPErrorCodeValueLength))
	if err != nil {
		return err
	}
	tlv.ErrorCode = binary.BigEndian.Uint32(value)
	return nil
}

func (tlv *LSPErrorCode) Serialize() []byte {
	return serializeTLV(tlv.Type(), Uint32ToByteSlice(tlv.ErrorCode))
}

func (tlv *LSPErrorCode) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("lspErrorCode", tlv.ErrorCode)
	return nil
}

func (tlv *LSPErrorCode) Type() TLVType {
	return TLVLSPErrorCode
}

func (tlv *LSPErrorCode) Len() uint16 {
	return TLVHeaderLength + TLVLSPErrorCodeValueLength
}

// RsvpErrorSpec carries an RSVP ERROR_SPEC object verbatim.
type RsvpErrorSpec struct {
	ErrorSpec []byte
}

func (tlv *RsvpErrorSpec) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "RsvpErrorSpec", -1)
	if err != nil {
		return err
	}
	tlv.ErrorSpec = append([]byte(nil), value...)
	return nil
}

func (tlv *RsvpErrorSpec) Serialize() []byte {
	return serializeTLV(tlv.Type(), tlv.ErrorSpec)
}

func (tlv *RsvpErrorSpec) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBinary("errorSpec", tlv.ErrorSpec)
	return nil
}

func (tlv *RsvpErrorSpec) Type() TLVType {
	return TLVRsvpErrorSpec
}

func (tlv *RsvpErrorSpec) Len() uint16 {
	return tlvLen(len(tlv.ErrorSpec))
}

type LSPDBVersion struct {
	VersionNumber uint64
}

func (tlv *LSPDBVersion) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "LSPDBVersion", int(TLVLSPDBVersionValueLength))
	if err != nil {
		return err
	}
	tlv.VersionNumber = binary.BigEndian.Uint64(value)
	return nil
}

func (tlv *LSPDBVersion) Serialize() []byte {
	return AppendByteSlices(
		Uint16ToByteSlice(tlv.Type()),
		Uint16ToByteSlice(TLVLSPDBVersionValueLength),
		Uint64ToByteSlice(tlv.VersionNumber),
	)
}

func (tlv *LSPDBVersion) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint64("versionNumber", tlv.VersionNumber)
	return nil
}

func (tlv *LSPDBVersion) Type() TLVType {
	return TLVLSPDBVersion
}

func (tlv *LSPDBVersion) Len() uint16 {
	return TLVHeaderLength + TLVLSPDBVersionValueLength
}

func (tlv *LSPDBVersion) CapStrings() []string {
	return []string{"LSP-DB-VERSION"}
}

func NewLSPDBVersion(version uint64) *LSPDBVersion {
	return &LSPDBVersion{
		VersionNumber: version,
	}
}

// SpeakerEntityID (RFC8232 4.1)
type SpeakerEntityID struct {
	ID []byte
}

func (tlv *SpeakerEntityID) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "SpeakerEntityID", -1)
	if err != nil {
		return err
	}
	tlv.ID = append([]byte(nil), value...)
	return nil
}

func (tlv *SpeakerEntityID) Serialize() []byte {
	return serializeTLV(tlv.Type(), tlv.ID)
}

func (tlv *SpeakerEntityID) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBinary("speakerEntityID", tlv.ID)
	return nil
}

func (tlv *SpeakerEntityID) Type() TLVType {
	return TLVSpeakerEntityID
}

func (tlv *SpeakerEntityID) Len() uint16 {
	return tlvLen(len(tlv.ID))
}

type SRPCECapability struct {
	HasUnlimitedMaxSIDDepth bool
	IsNAISupported          bool
	MaximumSidDepth         uint8
}

const (
	UnlimitedMaximumSIDDepthFlag uint8 = 0x01
	NAISupportedFlag             uint8 = 0x02
)

const (
	SRPCECapabilityFlagsOffset = 2
	SRPCECapabilityMSDOffset   = 3
)

func (tlv *SRPCECapability) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "SRPCECapability", int(TLVSRPCECapabilityValueLength))
	if err != nil {
		return err
	}

	flags := value[SRPCECapabilityFlagsOffset]
	tlv.HasUnlimitedMaxSIDDepth = IsBitSet(flags, UnlimitedMaximumSIDDepthFlag)
	tlv.IsNAISupported = IsBitSet(flags, NAISupportedFlag)
	tlv.MaximumSidDepth = value[SRPCECapabilityMSDOffset]

	return nil
}

func (tlv *SRPCECapability) Serialize() []byte {
	value := make([]byte, TLVSRPCECapabilityValueLength)

	value[SRPCECapabilityFlagsOffset] = SetBit(value[SRPCECapabilityFlagsOffset], UnlimitedMaximumSIDDepthFlag, tlv.HasUnlimitedMaxSIDDepth)
	value[SRPCECapabilityFlagsOffset] = SetBit(value[SRPCECapabilityFlagsOffset], NAISupportedFlag, tlv.IsNAISupported)
	value[SRPCECapabilityMSDOffset] = tlv.MaximumSidDepth

	return serializeTLV(tlv.Type(), value)
}

func (tlv *SRPCECapability) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBool("unlimitedMaxSIDDepth", tlv.HasUnlimitedMaxSIDDepth)
	enc.AddBool("naiIsSupported", tlv.IsNAISupported)
	enc.AddUint8("maximumSIDDepth", tlv.MaximumSidDepth)
	return nil
}

func (tlv *SRPCECapability) Type() TLVType {
	return TLVSRPCECapability
}

func (tlv *SRPCECapability) Len() uint16 {
	return TLVHeaderLength + TLVSRPCECapabilityValueLength
}

func (tlv *SRPCECapability) CapStrings() []string {
	var ret []string
	if tlv.HasUnlimitedMaxSIDDepth {
		ret = append(ret, "Unlimited-SID-Depth")
	}
	if tlv.IsNAISupported {
		ret = append(ret, "NAI-Supported")
	}
	return ret
}

func NewSRPCECapability(hasUnlimitedMaxSIDDepth bool, isNAISupported bool, maximumSidDepth uint8) *SRPCECapability {
	return &SRPCECapability{
		HasUnlimitedMaxSIDDepth: hasUnlimitedMaxSIDDepth,
		IsNAISupported:          isNAISupported,
		MaximumSidDepth:         maximumSidDepth,
	}
}

type Pst uint8

const (
	PathSetupTypeRSVPTE  Pst = 0x00
	PathSetupTypeSRTE    Pst = 0x01
	PathSetupTypePCECCTE Pst = 0x02
	PathSetupTypeSRv6TE  Pst = 0x03
	PathSetupTypeIPTE    Pst = 0x04
)

var pathSetupDescriptions = map[Pst]struct {
	Description string
	Reference   string
}{
	PathSetupTypeRSVPTE:  {"Path is set up using the RSVP-TE signaling protocol", "RFC8408"},
	PathSetupTypeSRTE:    {"Traffic engineering path is set up using Segment Routing", "RFC8664"},
	PathSetupTypePCECCTE: {"Traffic engineering path is set up using PCECC mode", "RFC9050"},
	PathSetupTypeSRv6TE:  {"Traffic engineering path is set up using SRv6", "RFC9603"},
	PathSetupTypeIPTE:    {"Native IP TE Path", "RFC9757"},
}

func (pst Pst) String() string {
	if desc, found := pathSetupDescriptions[pst]; found {
		return fmt.Sprintf("%s (%s)", desc.Description, desc.Reference)
	}
	return fmt.Sprintf("Unknown PathSetupType (0x%02x)", uint16(pst))
}

type Psts []Pst

func (ts Psts) MarshalJSON() ([]byte, error) {
	if ts == nil {
		return []byte("null"), nil
	}
	values := make([]string, 0, len(ts))
	for _, pst := range ts {
		values = append(values, fmt.Sprintf("%d", pst))
	}
	return []byte("[" + strings.Join(values, ",") + "]"), nil
}

type PathSetupType struct {
	PathSetupType Pst
}

const (
	PathSetupTypePathSetupTypeIndex = 3
)

func (tlv *PathSetupType) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "PathSetupType", int(TLVPathSetupTypeValueLength))
	if err != nil {
		return err
	}
	tlv.PathSetupType = Pst(value[PathSetupTypePathSetupTypeIndex])
	return nil
}

func (tlv *PathSetupType) Serialize() []byte {
	value := make([]byte, TLVPathSetupTypeValueLength)
	value[PathSetupTypePathSetupTypeIndex] = byte(tlv.PathSetupType)
	return serializeTLV(tlv.Type(), value)
}

func (tlv *PathSetupType) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("pathSetupType", tlv.PathSetupType.String())
	return nil
}

func (tlv *PathSetupType) Type() TLVType {
	return TLVPathSetupType
}

func (tlv *PathSetupType) Len() uint16 {
	return TLVHeaderLength + TLVPathSetupTypeValueLength
}

func NewPathSetupType(pst Pst) *PathSetupType {
	return &PathSetupType{
		PathSetupType: pst,
	}
}

type ExtendedAssociationID struct {
	Color    uint32
	Endpoint netip.Addr
}

func (tlv *ExtendedAssociationID) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "ExtendedAssociationID", -1)
	if err != nil {
		return err
	}

	switch uint16(len(value)) {
	case TLVExtendedAssociationIDIPv4ValueLength:
		tlv.Endpoint = addrFrom4(value[4:8])
	case TLVExtendedAssociationIDIPv6ValueLength:
		tlv.Endpoint = addrFrom16(value[4:20])
	default:
		return fmt.Errorf("extended association ID: unsupported value length %d", len(value))
	}
	tlv.Color = binary.BigEndian.Uint32(value[0:4])

	return nil
}

func (tlv *ExtendedAssociationID) Serialize() []byte {
	return serializeTLV(tlv.Type(), AppendByteSlices(
		Uint32ToByteSlice(tlv.Color),
		addrBytes(tlv.Endpoint, tlv.Endpoint.Is6()),
	))
}

func (tlv *ExtendedAssociationID) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("color", tlv.Color)
	enc.AddString("endpoint", tlv.Endpoint.String())
	return nil
}

func (tlv *ExtendedAssociationID) Type() TLVType {
	return TLVExtendedAssociationID
}

func (tlv *ExtendedAssociationID) Len() uint16 {
	if tlv.Endpoint.Is6() {
		return TLVHeaderLength + TLVExtendedAssociationIDIPv6ValueLength
	}
	return TLVHeaderLength + TLVExtendedAssociationIDIPv4ValueLength
}

func NewExtendedAssociationID(color uint32, endpoint netip.Addr) *ExtendedAssociationID {
	return &ExtendedAssociationID{
		Color:    color,
		Endpoint: endpoint,
	}
}

type PathSetupTypeCapability struct {
	PathSetupTypes Psts
	SubTLVs        []TLVInterface
}

func (tlv *PathSetupTypeCapability) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "PathSetupTypeCapability", -1)
	if err != nil {
		return err
	}
	if len(value) < 4 {
		return fmt.Errorf("PathSetupTypeCapability too short: %d bytes", len(value))
	}

	pstNum := int(value[3])
	pstEnd := 4 + paddedLength(pstNum)
	if len(value) < 4+pstNum {
		return fmt.Errorf("PathSetupTypeCapability declares %d PSTs but has %d bytes", pstNum, len(value)-4)
	}
	tlv.PathSetupTypes = nil
	for i := range pstNum {
		tlv.PathSetupTypes = append(tlv.PathSetupTypes, Pst(value[4+i]))
	}
	if pstEnd >= len(value) {
		return nil
	}

	tlv.SubTLVs, err = DecodeTLVs(value[pstEnd:])
	return err
}

func (tlv *PathSetupTypeCapability) Serialize() []byte {
	numOfPst := len(tlv.PathSetupTypes)

	val := make([]byte, 4+paddedLength(numOfPst))
	val[3] = byte(numOfPst)
	for i, pst := range tlv.PathSetupTypes {
		val[4+i] = byte(pst)
	}
	val = append(val, serializeTLVs(tlv.SubTLVs)...)

	return serializeTLV(tlv.Type(), val)
}

func (tlv *PathSetupTypeCapability) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("pathSetupTypes", fmt.Sprint(tlv.PathSetupTypes))
	addTLVs(enc, tlv.SubTLVs)
	return nil
}

func (tlv *PathSetupTypeCapability) Type() TLVType {
	return TLVPathSetupTypeCapability
}

func (tlv *PathSetupTypeCapability) Len() uint16 {
	length := 4 + paddedLength(len(tlv.PathSetupTypes))
	for _, subTLV := range tlv.SubTLVs {
		length += int(subTLV.Len())
	}
	return uint16(TLVHeaderLength + length)
}

func (tlv *PathSetupTypeCapability) CapStrings() []string {
	ret := []string{}
	if slices.Contains(tlv.PathSetupTypes, PathSetupTypeSRTE) {
		ret = append(ret, "SR-TE")
	}
	if slices.Contains(tlv.PathSetupTypes, PathSetupTypeSRv6TE) {
		ret = append(ret, "SRv6-TE")
	}
	return ret
}

type AssocType uint16

const (
	AssocTypePathProtectionAssociation              AssocType = 0x01
	AssocTypeDisjointAssociation                    AssocType = 0x02
	AssocTypePolicyAssociation                      AssocType = 0x03
	AssocTypeSingleSidedBidirectionalLSPAssociation AssocType = 0x04
	AssocTypeDoubleSidedBidirectionalLSPAssociation AssocType = 0x05
	AssocTypeSRPolicyAssociation                    AssocType = 0x06
	AssocTypeVnAssociationType                      AssocType = 0x07
)

var assocTypeNames = map[AssocType]string{
	AssocTypePathProtectionAssociation:              "Path Protection Association",
	AssocTypeDisjointAssociation:                    "Disjoint Association",
	AssocTypePolicyAssociation:                      "Policy Association",
	AssocTypeSingleSidedBidirectionalLSPAssociation: "Single Sided Bidirectional LSP Association",
	AssocTypeDoubleSidedBidirectionalLSPAssociation: "Double Sided Bidirectional LSP Association",
	AssocTypeSRPolicyAssociation:                    "SR Policy Association",
	AssocTypeVnAssociationType:                      "VN Association Type",
}

func (at AssocType) String() string {
	if name, ok := assocTypeNames[at]; ok {
		return name
	}
	return fmt.Sprintf("Unknown AssocType (0x%04x)", uint16(at))
}

type AssocTypeList struct {
	AssocTypes []AssocType
}

func (tlv *AssocTypeList) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "AssocTypeList", -1)
	if err != nil {
		return err
	}
	if len(value)%2 != 0 {
		return fmt.Errorf("AssocTypeList length %d is not a multiple of 2", len(value))
	}
	tlv.AssocTypes = nil
	for i := 0; i < len(value); i += 2 {
		tlv.AssocTypes = append(tlv.AssocTypes, AssocType(binary.BigEndian.Uint16(value[i:i+2])))
	}
	return nil
}

func (tlv *AssocTypeList) Serialize() []byte {
	value := make([]byte, 0, 2*len(tlv.AssocTypes))
	for _, at := range tlv.AssocTypes {
		value = append(value, Uint16ToByteSlice(at)...)
	}
	return serializeTLV(tlv.Type(), value)
}

func (tlv *AssocTypeList) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	for i, at := range tlv.AssocTypes {
		enc.AddString(fmt.Sprintf("assocType%d", i), at.String())
	}
	return nil
}

func (tlv *AssocTypeList) Type() TLVType {
	return TLVAssocTypeList
}

func (tlv *AssocTypeList) Len() uint16 {
	return tlvLen(2 * len(tlv.AssocTypes))
}

func (tlv *AssocTypeList) CapStrings() []string {
	return []string{}
}

// Binding types of the TE-PATH-BINDING TLV (RFC9604)
const (
	BindingTypeMPLSLabel      uint8 = 0x00
	BindingTypeMPLSLabelEntry uint8 = 0x01
	BindingTypeSRv6SID        uint8 = 0x02
	BindingTypeSRv6Behavior   uint8 = 0x03
)

// TePathBinding (RFC9604 4)
type TePathBinding struct {
	BindingType  uint8
	Removal      bool
	BindingValue []byte
}

const tePathBindingRemovalFlag uint8 = 0x80

func (tlv *TePathBinding) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "TePathBinding", -1)
	if err != nil {
		return err
	}
	if len(value) < 4 {
		return fmt.Errorf("TePathBinding too short: %d bytes", len(value))
	}
	tlv.BindingType = value[0]
	tlv.Removal = IsBitSet(value[1], tePathBindingRemovalFlag)
	tlv.BindingValue = append([]byte(nil), value[4:]...)
	return nil
}

func (tlv *TePathBinding) Serialize() []byte {
	value := make([]byte, 4, 4+len(tlv.BindingValue))
	value[0] = tlv.BindingType
	value[1] = SetBit(value[1], tePathBindingRemovalFlag, tlv.Removal)
	value = append(value, tlv.BindingValue...)
	return serializeTLV(tlv.Type(), value)
}

func (tlv *TePathBinding) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("bindingType", tlv.BindingType)
	enc.AddBool("removal", tlv.Removal)
	enc.AddBinary("bindingValue", tlv.BindingValue)
	return nil
}

func (tlv *TePathBinding) Type() TLVType {
	return TLVTePathBinding
}

func (tlv *TePathBinding) Len() uint16 {
	return tlvLen(4 + len(tlv.BindingValue))
}

// MPLSLabel returns the 20-bit label of an MPLS label binding.
func (tlv *TePathBinding) MPLSLabel() (uint32, bool) {
	switch tlv.BindingType {
	case BindingTypeMPLSLabel, BindingTypeMPLSLabelEntry:
		if len(tlv.BindingValue) < 3 {
			return 0, false
		}
		raw := uint32(tlv.BindingValue[0])<<16 | uint32(tlv.BindingValue[1])<<8 | uint32(tlv.BindingValue[2])
		return raw >> 4, true
	}
	return 0, false
}

func NewMPLSLabelBinding(label uint32) *TePathBinding {
	v := label << 4
	return &TePathBinding{
		BindingType:  BindingTypeMPLSLabel,
		BindingValue: []byte{byte(v >> 16), byte(v >> 8), byte(v)},
	}
}

// Protocol-Origin of an SR Policy candidate path
const protocolOriginPCEP uint8 = 0x0a

type SRPolicyCandidatePathIdentifier struct {
	ProtocolOrigin uint8
	OriginatorASN  uint32
	OriginatorAddr netip.Addr // After DecodeFromBytes, even ipv4 addresses are assigned in ipv6 format
	Discriminator  uint32
}

func (tlv *SRPolicyCandidatePathIdentifier) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "SRPolicyCandidatePathIdentifier", int(TLVSRPolicyCPathIDValueLength))
	if err != nil {
		return err
	}
	tlv.ProtocolOrigin = value[0]
	tlv.OriginatorASN = binary.BigEndian.Uint32(value[4:8])
	tlv.OriginatorAddr = addrFrom16(value[8:24])
	tlv.Discriminator = binary.BigEndian.Uint32(value[24:28])
	return nil
}

func (tlv *SRPolicyCandidatePathIdentifier) Serialize() []byte {
	origin := tlv.ProtocolOrigin
	if origin == 0 {
		origin = protocolOriginPCEP
	}
	value := make([]byte, TLVSRPolicyCPathIDValueLength)
	value[0] = origin
	binary.BigEndian.PutUint32(value[4:8], tlv.OriginatorASN)
	// IPv4 originators are carried in the low-order bytes
	if tlv.OriginatorAddr.Is4() {
		copy(value[20:24], tlv.OriginatorAddr.AsSlice())
	} else if tlv.OriginatorAddr.Is6() {
		copy(value[8:24], tlv.OriginatorAddr.AsSlice())
	}
	binary.BigEndian.PutUint32(value[24:28], tlv.Discriminator)
	return serializeTLV(tlv.Type(), value)
}

func (tlv *SRPolicyCandidatePathIdentifier) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("protocolOrigin", tlv.ProtocolOrigin)
	enc.AddUint32("originatorASN", tlv.OriginatorASN)
	enc.AddString("originatorAddr", tlv.OriginatorAddr.String())
	enc.AddUint32("discriminator", tlv.Discriminator)
	return nil
}

func (tlv *SRPolicyCandidatePathIdentifier) Type() TLVType {
	return TLVSRPolicyCPathID
}

func (tlv *SRPolicyCandidatePathIdentifier) Len() uint16 {
	return TLVHeaderLength + TLVSRPolicyCPathIDValueLength
}

type SRPolicyCandidatePathPreference struct {
	Preference uint32
}

func (tlv *SRPolicyCandidatePathPreference) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "SRPolicyCandidatePathPreference", int(TLVSRPolicyCPathPreferenceValueLength))
	if err != nil {
		return err
	}
	tlv.Preference = binary.BigEndian.Uint32(value)
	return nil
}

func (tlv *SRPolicyCandidatePathPreference) Serialize() []byte {
	return serializeTLV(tlv.Type(), Uint32ToByteSlice(tlv.Preference))
}

func (tlv *SRPolicyCandidatePathPreference) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("preference", tlv.Preference)
	return nil
}

func (tlv *SRPolicyCandidatePathPreference) Type() TLVType {
	return TLVSRPolicyCPathPreference
}

func (tlv *SRPolicyCandidatePathPreference) Len() uint16 {
	return TLVHeaderLength + TLVSRPolicyCPathPreferenceValueLength
}

type Color struct {
	Color uint32
}

func (tlv *Color) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "Color", int(TLVColorValueLength))
	if err != nil {
		return err
	}
	tlv.Color = binary.BigEndian.Uint32(value)
	return nil
}

func (tlv *Color) Serialize() []byte {
	return serializeTLV(tlv.Type(), Uint32ToByteSlice(tlv.Color))
}

func (tlv *Color) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("color", tlv.Color)
	return nil
}

func (tlv *Color) Type() TLVType {
	return TLVColor
}

func (tlv *Color) Len() uint16 {
	return TLVHeaderLength + TLVColorValueLength
}
