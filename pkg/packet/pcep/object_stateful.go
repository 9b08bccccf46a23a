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

// LSP Object (RFC8231 7.3)
const (
	lspDFlag   uint32 = 0x01
	lspSFlag   uint32 = 0x02
	lspRFlag   uint32 = 0x04
	lspAFlag   uint32 = 0x08
	lspOFlags  uint32 = 0x70
	lspCFlag   uint32 = 0x80 // RFC8281
	maxPlspID  uint32 = 0xfffff
	lspOOffset        = 4

	lspObjectFixedBodyLength = 4
)

// Operational states (RFC8231 7.3)
const (
	LSPOperationalDown       uint8 = 0
	LSPOperationalUp         uint8 = 1
	LSPOperationalActive     uint8 = 2
	LSPOperationalGoingDown  uint8 = 3
	LSPOperationalGoingUp    uint8 = 4
	lspOperationalStateLimit uint8 = 7
)

type LSPObject struct {
	ObjectFlags
	PlspID uint32
	CFlag  bool  // created by a PCInitiate
	OFlag  uint8 // operational state
	AFlag  bool  // administrative
	RFlag  bool  // remove
	SFlag  bool  // sync
	DFlag  bool  // delegate
	TLVs   []TLVInterface
}

func (o *LSPObject) decode(r *Registry, _ *CommonObjectHeader, body []byte) error {
	if err := checkObjectBody(o.Class(), body, lspObjectFixedBodyLength); err != nil {
		return err
	}
	word := binary.BigEndian.Uint32(body[0:4])
	o.PlspID = word >> 12 // 20 bits from top
	o.CFlag = IsBitSet(word, lspCFlag)
	o.OFlag = uint8((word & lspOFlags) >> lspOOffset)
	o.AFlag = IsBitSet(word, lspAFlag)
	o.RFlag = IsBitSet(word, lspRFlag)
	o.SFlag = IsBitSet(word, lspSFlag)
	o.DFlag = IsBitSet(word, lspDFlag)
	var err error
	o.TLVs, err = r.DecodeTLVs(body[lspObjectFixedBodyLength:])
	return err
}

func (o *LSPObject) Class() ObjectClass { return ObjectClassLSP }
func (o *LSPObject) Type() ObjectType   { return ObjectTypeLSP }

func (o *LSPObject) SerializeBody() ([]uint8, error) {
	if o.PlspID > maxPlspID {
		return nil, fmt.Errorf("PLSP-ID %d exceeds 20 bits", o.PlspID)
	}
	if o.OFlag > lspOperationalStateLimit {
		return nil, fmt.Errorf("operational state %d exceeds 3 bits", o.OFlag)
	}
	word := o.PlspID<<12 | uint32(o.OFlag)<<lspOOffset
	word = SetBit(word, lspCFlag, o.CFlag)
	word = SetBit(word, lspAFlag, o.AFlag)
	word = SetBit(word, lspRFlag, o.RFlag)
	word = SetBit(word, lspSFlag, o.SFlag)
	word = SetBit(word, lspDFlag, o.DFlag)
	return append(Uint32ToByteSlice(word), serializeTLVs(o.TLVs)...), nil
}

func (o *LSPObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.addFlags(enc)
	enc.AddUint32("plspID", o.PlspID)
	if name := o.Name(); name != "" {
		enc.AddString("name", name)
	}
	enc.AddUint8("operational", o.OFlag)
	enc.AddBool("administrative", o.AFlag)
	enc.AddBool("remove", o.RFlag)
	enc.AddBool("sync", o.SFlag)
	enc.AddBool("delegate", o.DFlag)
	enc.AddBool("create", o.CFlag)
	addTLVs(enc, o.TLVs)
	return nil
}

// Name returns the symbolic path name, if any.
func (o *LSPObject) Name() string {
	if t, ok := findTLV[*SymbolicPathName](o.TLVs); ok {
		return t.Name
	}
	return ""
}

// HasLSPIdentifiers reports whether an IPv4 or IPv6 LSP-IDENTIFIERS TLV is present.
func (o *LSPObject) HasLSPIdentifiers() bool {
	if _, ok := findTLV[*IPv4LSPIdentifiers](o.TLVs); ok {
		return true
	}
	_, ok := findTLV[*IPv6LSPIdentifiers](o.TLVs)
	return ok
}

// Endpoints returns the tunnel sender and endpoint from the LSP-IDENTIFIERS TLV.
func (o *LSPObject) Endpoints() (src, dst netip.Addr, ok bool) {
	if t, found := findTLV[*IPv4LSPIdentifiers](o.TLVs); found {
		return t.IPv4TunnelSenderAddress, t.IPv4TunnelEndpointAddress, true
	}
	if t, found := findTLV[*IPv6LSPIdentifiers](o.TLVs); found {
		return t.IPv6TunnelSenderAddress, t.IPv6TunnelEndpointAddress, true
	}
	return netip.Addr{}, netip.Addr{}, false
}

func NewLSPObject(lspName string, plspID uint32) *LSPObject {
	o := &LSPObject{
		ObjectFlags: ObjectFlags{ProcessingRule: true},
		PlspID:      plspID,
		OFlag:       LSPOperationalUp,
		AFlag:       true, // desired operational state is active (RFC8231 7.3)
		DFlag:       true,
	}
	if lspName != "" {
		o.TLVs = append(o.TLVs, NewSymbolicPathName(lspName))
	}
	return o
}

// SRP Object (RFC8231 7.2)
const (
	srpRFlag                 uint32 = 0x01 // RFC8281 5.2
	srpObjectFixedBodyLength        = 8
)

type SRPObject struct {
	ObjectFlags
	RFlag bool
	SRPID uint32 // 0x00000000 and 0xFFFFFFFF are reserved.
	TLVs  []TLVInterface
}

func (o *SRPObject) decode(r *Registry, _ *CommonObjectHeader, body []byte) error {
	if err := checkObjectBody(o.Class(), body, srpObjectFixedBodyLength); err != nil {
		return err
	}
	o.RFlag = IsBitSet(binary.BigEndian.Uint32(body[0:4]), srpRFlag)
	o.SRPID = binary.BigEndian.Uint32(body[4:8])
	var err error
	o.TLVs, err = r.DecodeTLVs(body[srpObjectFixedBodyLength:])
	return err
}

func (o *SRPObject) Class() ObjectClass { return ObjectClassSRP }
func (o *SRPObject) Type() ObjectType   { return ObjectTypeSRP }

func (o *SRPObject) SerializeBody() ([]uint8, error) {
	return AppendByteSlices(
		Uint32ToByteSlice(SetBit(uint32(0), srpRFlag, o.RFlag)),
		Uint32ToByteSlice(o.SRPID),
		serializeTLVs(o.TLVs),
	), nil
}

func (o *SRPObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.addFlags(enc)
	enc.AddUint32("srpID", o.SRPID)
	enc.AddBool("remove", o.RFlag)
	addTLVs(enc, o.TLVs)
	return nil
}

// PathSetupType returns the PST carried in the SRP, RSVP-TE when absent.
func (o *SRPObject) PathSetupType() Pst {
	if t, ok := findTLV[*PathSetupType](o.TLVs); ok {
		return t.PathSetupType
	}
	return PathSetupTypeRSVPTE
}

// IsSegmentRouting reports whether the SRP announces an SR or SRv6 path.
func (o *SRPObject) IsSegmentRouting() bool {
	pst := o.PathSetupType()
	return pst == PathSetupTypeSRTE || pst == PathSetupTypeSRv6TE
}

// NewSRPObject builds an SRP whose PST follows the type of the first segment.
func NewSRPObject(segs []segment.Segment, srpID uint32, isRemove bool) (*SRPObject, error) {
	o := &SRPObject{
		ObjectFlags: ObjectFlags{ProcessingRule: true},
		RFlag:       isRemove,
		SRPID:       srpID,
	}
	if len(segs) == 0 {
		return o, nil
	}
	switch segs[0].(type) {
	case segment.SegmentSRMPLS:
		o.TLVs = append(o.TLVs, NewPathSetupType(PathSetupTypeSRTE))
	case segment.SegmentSRv6:
		o.TLVs = append(o.TLVs, NewPathSetupType(PathSetupTypeSRv6TE))
	default:
		return nil, fmt.Errorf("invalid Segment type %T", segs[0])
	}
	return o, nil
}

// ASSOCIATION Object (RFC8697 6.1)
const (
	associationRFlag           uint16 = 0x0001
	associationObjectFixedBody        = 8
)

type AssociationObject struct {
	ObjectFlags
	RFlag     bool
	AssocType AssocType
	AssocID   uint16
	Source    netip.Addr
	TLVs      []TLVInterface
}

func (o *AssociationObject) decode(r *Registry, h *CommonObjectHeader, body []byte) error {
	size := 4
	addrAt := addrFrom4
	switch h.ObjectType {
	case ObjectTypeAssociationIPv4:
	case ObjectTypeAssociationIPv6:
		size = 16
		addrAt = addrFrom16
	default:
		return deserializeErrorf("unsupported ASSOCIATION object type %d", h.ObjectType)
	}
	if err := checkObjectBody(o.Class(), body, associationObjectFixedBody+size); err != nil {
		return err
	}
	o.RFlag = IsBitSet(binary.BigEndian.Uint16(body[2:4]), associationRFlag)
	o.AssocType = AssocType(binary.BigEndian.Uint16(body[4:6]))
	o.AssocID = binary.BigEndian.Uint16(body[6:8])
	o.Source = addrAt(body[8 : 8+size])
	var err error
	o.TLVs, err = r.DecodeTLVs(body[8+size:])
	return err
}

func (o *AssociationObject) Class() ObjectClass { return ObjectClassAssociation }

func (o *AssociationObject) Type() ObjectType {
	if o.Source.Is6() && !o.Source.Is4In6() {
		return ObjectTypeAssociationIPv6
	}
	return ObjectTypeAssociationIPv4
}

func (o *AssociationObject) SerializeBody() ([]uint8, error) {
	if !o.Source.IsValid() {
		return nil, fmt.Errorf("ASSOCIATION without source address")
	}
	return AppendByteSlices(
		[]uint8{0, 0},
		Uint16ToByteSlice(SetBit(uint16(0), associationRFlag, o.RFlag)),
		Uint16ToByteSlice(o.AssocType),
		Uint16ToByteSlice(o.AssocID),
		addrBytes(o.Source, o.Type() == ObjectTypeAssociationIPv6),
		serializeTLVs(o.TLVs),
	), nil
}

func (o *AssociationObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.addFlags(enc)
	enc.AddBool("remove", o.RFlag)
	enc.AddString("assocType", o.AssocType.String())
	enc.AddUint16("assocID", o.AssocID)
	enc.AddString("source", o.Source.String())
	addTLVs(enc, o.TLVs)
	return nil
}

// Color returns the SR Policy color from the EXTENDED-ASSOCIATION-ID TLV.
func (o *AssociationObject) Color() (uint32, bool) {
	if t, ok := findTLV[*ExtendedAssociationID](o.TLVs); ok {
		return t.Color, true
	}
	return 0, false
}

func (o *AssociationObject) Preference() (uint32, bool) {
	if t, ok := findTLV[*SRPolicyCandidatePathPreference](o.TLVs); ok {
		return t.Preference, true
	}
	return 0, false
}

// NewSRPolicyAssociation builds the SR Policy association (RFC9862) for a
// policy identified by color and endpoint.
func NewSRPolicyAssociation(source netip.Addr, color uint32, endpoint netip.Addr, preference uint32) *AssociationObject {
	return &AssociationObject{
		ObjectFlags: ObjectFlags{ProcessingRule: true},
		AssocType:   AssocTypeSRPolicyAssociation,
		AssocID:     1,
		Source:      source,
		TLVs: []TLVInterface{
			NewExtendedAssociationID(color, endpoint),
			&SRPolicyCandidatePathIdentifier{OriginatorAddr: source},
			&SRPolicyCandidatePathPreference{Preference: preference},
		},
	}
}

// VENDOR-INFORMATION Object (RFC7470 4)
type VendorInformationObject struct {
	ObjectFlags
	VendorInformation
}

func (o *VendorInformationObject) Class() ObjectClass { return ObjectClassVendorInformation }
func (o *VendorInformationObject) Type() ObjectType   { return ObjectTypeVendorInformation }

func (o *VendorInformationObject) SerializeBody() ([]uint8, error) {
	return o.serialize(), nil
}

func (o *VendorInformationObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.addFlags(enc)
	return o.VendorInformation.MarshalLogObject(enc)
}
