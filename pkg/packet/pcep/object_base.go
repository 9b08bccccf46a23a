// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"encoding/binary"
	"fmt"
	"math"
	"net/netip"

	"go.uber.org/zap/zapcore"
)

func checkObjectBody(class ObjectClass, body []byte, minLength int) error {
	if len(body) < minLength {
		return deserializeErrorf("%s object body too short. Passed: %d; Expected: >= %d", class, len(body), minLength)
	}
	return nil
}

// checkFixedObjectBody is checkObjectBody for objects without optional TLVs.
func checkFixedObjectBody(class ObjectClass, body []byte, length int) error {
	if len(body) != length {
		return deserializeErrorf("%s object body length mismatch. Passed: %d; Expected: %d", class, len(body), length)
	}
	return nil
}

func float32At(b []byte) float32 {
	return math.Float32frombits(binary.BigEndian.Uint32(b))
}

func float32Bytes(f float32) []byte {
	return Uint32ToByteSlice(math.Float32bits(f))
}

// OPEN Object (RFC5440 7.3)
const (
	openObjectBodyLength = 4
	pcepVersion          = 1
)

type OpenObject struct {
	ObjectFlags
	Version   uint8
	Flag      uint8
	Keepalive uint8
	Deadtime  uint8
	Sid       uint8
	TLVs      []TLVInterface
}

func (o *OpenObject) decode(r *Registry, _ *CommonObjectHeader, body []byte) error {
	if err := checkObjectBody(o.Class(), body, openObjectBodyLength); err != nil {
		return err
	}
	o.Version = body[0] >> 5
	o.Flag = body[0] & 0x1f
	o.Keepalive = body[1]
	o.Deadtime = body[2]
	o.Sid = body[3]
	if o.Version != pcepVersion {
		return deserializeErrorf("unsupported OPEN version %d", o.Version)
	}
	var err error
	o.TLVs, err = r.DecodeTLVs(body[openObjectBodyLength:])
	return err
}

func (o *OpenObject) Class() ObjectClass { return ObjectClassOpen }
func (o *OpenObject) Type() ObjectType   { return ObjectTypeOpen }

func (o *OpenObject) SerializeBody() ([]uint8, error) {
	version := o.Version
	if version == 0 {
		version = pcepVersion
	}
	buf := []uint8{version<<5 | o.Flag&0x1f, o.Keepalive, o.Deadtime, o.Sid}
	return append(buf, serializeTLVs(o.TLVs)...), nil
}

func (o *OpenObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.addFlags(enc)
	enc.AddUint8("version", o.Version)
	enc.AddUint8("keepalive", o.Keepalive)
	enc.AddUint8("deadTimer", o.Deadtime)
	enc.AddUint8("sessionID", o.Sid)
	addTLVs(enc, o.TLVs)
	return nil
}

func NewOpenObject(sessionID uint8, keepalive uint8, capabilities []CapabilityInterface) *OpenObject {
	o := &OpenObject{
		ObjectFlags: ObjectFlags{ProcessingRule: true},
		Version:     pcepVersion,
		Keepalive:   keepalive,
		Deadtime:    keepalive * 4,
		Sid:         sessionID,
	}
	for _, c := range capabilities {
		o.TLVs = append(o.TLVs, c)
	}
	return o
}

// RP Object (RFC5440 7.4)
const (
	RPPriorityMask          uint32 = 0x00000007
	RPReoptimizationFlag    uint32 = 0x00000008
	RPBiDirectionalFlag     uint32 = 0x00000010
	RPLooseFlag             uint32 = 0x00000020 // O
	RPVSPTFlag              uint32 = 0x00000040 // RFC5441
	RPSupplyOFFlag          uint32 = 0x00000080 // RFC5541
	RPPathKeyFlag           uint32 = 0x00000100 // RFC5520
	RPReportOrderFlag       uint32 = 0x00000200 // RFC5557
	RPMakeBeforeBreakFlag   uint32 = 0x00000400 // RFC8306
	RPEROCompressionFlag    uint32 = 0x00000800 // RFC8306
	RPP2MPFlag              uint32 = 0x00001000 // RFC8306
	RPFragmentationFlag     uint32 = 0x00002000 // RFC8306
	rpObjectFixedBodyLength        = 8
)

type RPObject struct {
	ObjectFlags
	Priority        uint8
	Reoptimization  bool
	BiDirectional   bool
	Loose           bool
	VSPT            bool
	SupplyOF        bool
	PathKey         bool
	ReportOrder     bool
	MakeBeforeBreak bool
	EROCompression  bool
	P2MP            bool
	Fragmentation   bool
	RequestID       uint32
	TLVs            []TLVInterface
}

func (o *RPObject) decode(r *Registry, _ *CommonObjectHeader, body []byte) error {
	if err := checkObjectBody(o.Class(), body, rpObjectFixedBodyLength); err != nil {
		return err
	}
	flags := binary.BigEndian.Uint32(body[0:4])
	o.Priority = uint8(flags & RPPriorityMask)
	o.Reoptimization = IsBitSet(flags, RPReoptimizationFlag)
	o.BiDirectional = IsBitSet(flags, RPBiDirectionalFlag)
	o.Loose = IsBitSet(flags, RPLooseFlag)
	o.VSPT = IsBitSet(flags, RPVSPTFlag)
	o.SupplyOF = IsBitSet(flags, RPSupplyOFFlag)
	o.PathKey = IsBitSet(flags, RPPathKeyFlag)
	o.ReportOrder = IsBitSet(flags, RPReportOrderFlag)
	o.MakeBeforeBreak = IsBitSet(flags, RPMakeBeforeBreakFlag)
	o.EROCompression = IsBitSet(flags, RPEROCompressionFlag)
	o.P2MP = IsBitSet(flags, RPP2MPFlag)
	o.Fragmentation = IsBitSet(flags, RPFragmentationFlag)
	o.RequestID = binary.BigEndian.Uint32(body[4:8])
	var err error
	o.TLVs, err = r.DecodeTLVs(body[rpObjectFixedBodyLength:])
	return err
}

func (o *RPObject) Class() ObjectClass { return ObjectClassRP }
func (o *RPObject) Type() ObjectType   { return ObjectTypeRP }

func (o *RPObject) SerializeBody() ([]uint8, error) {
	if o.Priority > uint8(RPPriorityMask) {
		return nil, fmt.Errorf("RP priority %d out of range", o.Priority)
	}
	flags := uint32(o.Priority)
	flags = SetBit(flags, RPReoptimizationFlag, o.Reoptimization)
	flags = SetBit(flags, RPBiDirectionalFlag, o.BiDirectional)
	flags = SetBit(flags, RPLooseFlag, o.Loose)
	flags = SetBit(flags, RPVSPTFlag, o.VSPT)
	flags = SetBit(flags, RPSupplyOFFlag, o.SupplyOF)
	flags = SetBit(flags, RPPathKeyFlag, o.PathKey)
	flags = SetBit(flags, RPReportOrderFlag, o.ReportOrder)
	flags = SetBit(flags, RPMakeBeforeBreakFlag, o.MakeBeforeBreak)
	flags = SetBit(flags, RPEROCompressionFlag, o.EROCompression)
	flags = SetBit(flags, RPP2MPFlag, o.P2MP)
	flags = SetBit(flags, RPFragmentationFlag, o.Fragmentation)
	return AppendByteSlices(Uint32ToByteSlice(flags), Uint32ToByteSlice(o.RequestID), serializeTLVs(o.TLVs)), nil
}

func (o *RPObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.addFlags(enc)
	enc.AddUint32("requestID", o.RequestID)
	enc.AddUint8("priority", o.Priority)
	enc.AddBool("reoptimization", o.Reoptimization)
	enc.AddBool("biDirectional", o.BiDirectional)
	enc.AddBool("loose", o.Loose)
	if o.PathKey {
		enc.AddBool("pathKey", true)
	}
	if o.P2MP {
		enc.AddBool("p2mp", true)
	}
	addTLVs(enc, o.TLVs)
	return nil
}

func NewRPObject(requestID uint32) *RPObject {
	return &RPObject{
		ObjectFlags: ObjectFlags{ProcessingRule: true},
		RequestID:   requestID,
	}
}

// NO-PATH Object (RFC5440 7.5)
const (
	NoPathNatureNoPathFound     uint8  = 0x00
	NoPathNaturePCEChainBroken  uint8  = 0x01
	noPathCFlag                 uint16 = 0x8000
	noPathObjectFixedBodyLength        = 4
)

type NoPathObject struct {
	ObjectFlags
	NatureOfIssue  uint8
	UnsatisfiedCon bool // C flag
	TLVs           []TLVInterface
}

func (o *NoPathObject) decode(r *Registry, _ *CommonObjectHeader, body []byte) error {
	if err := checkObjectBody(o.Class(), body, noPathObjectFixedBodyLength); err != nil {
		return err
	}
	o.NatureOfIssue = body[0]
	o.UnsatisfiedCon = IsBitSet(binary.BigEndian.Uint16(body[1:3]), noPathCFlag)
	var err error
	o.TLVs, err = r.DecodeTLVs(body[noPathObjectFixedBodyLength:])
	return err
}

func (o *NoPathObject) Class() ObjectClass { return ObjectClassNoPath }
func (o *NoPathObject) Type() ObjectType   { return ObjectTypeNoPath }

func (o *NoPathObject) SerializeBody() ([]uint8, error) {
	buf := make([]uint8, noPathObjectFixedBodyLength)
	buf[0] = o.NatureOfIssue
	binary.BigEndian.PutUint16(buf[1:3], SetBit(uint16(0), noPathCFlag, o.UnsatisfiedCon))
	return append(buf, serializeTLVs(o.TLVs)...), nil
}

func (o *NoPathObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.addFlags(enc)
	enc.AddUint8("natureOfIssue", o.NatureOfIssue)
	enc.AddBool("unsatisfiedConstraints", o.UnsatisfiedCon)
	addTLVs(enc, o.TLVs)
	return nil
}

// END-POINTS Object (RFC5440 7.6, RFC8306 3.3.2)
const (
	LeafTypeNew       uint32 = 1
	LeafTypeOld       uint32 = 2
	LeafTypeUnchanged uint32 = 3
	LeafTypeRemoved   uint32 = 4
)

type EndpointsObject struct {
	ObjectFlags
	ObjectType   ObjectType
	Source       netip.Addr
	Destination  netip.Addr   // P2P
	LeafType     uint32       // P2MP
	Destinations []netip.Addr // P2MP
}

func (o *EndpointsObject) decode(_ *Registry, h *CommonObjectHeader, body []byte) error {
	o.ObjectType = h.ObjectType
	switch h.ObjectType {
	case ObjectTypeEndpointsIPv4:
		if len(body) != 8 {
			return deserializeErrorf("wrong length of END-POINTS IPv4 body. Passed: %d; Expected: 8", len(body))
		}
		o.Source = addrFrom4(body[0:4])
		o.Destination = addrFrom4(body[4:8])
	case ObjectTypeEndpointsIPv6:
		if len(body) != 32 {
			return deserializeErrorf("wrong length of END-POINTS IPv6 body. Passed: %d; Expected: 32", len(body))
		}
		o.Source = addrFrom16(body[0:16])
		o.Destination = addrFrom16(body[16:32])
	case ObjectTypeEndpointsP2MPIPv4, ObjectTypeEndpointsP2MPIPv6:
		size := 4
		if h.ObjectType == ObjectTypeEndpointsP2MPIPv6 {
			size = 16
		}
		if len(body) < 4+size || (len(body)-4)%size != 0 {
			return deserializeErrorf("wrong length of END-POINTS P2MP body: %d", len(body))
		}
		o.LeafType = binary.BigEndian.Uint32(body[0:4])
		addrAt := addrFrom4
		if size == 16 {
			addrAt = addrFrom16
		}
		o.Source = addrAt(body[4 : 4+size])
		for off := 4 + size; off < len(body); off += size {
			o.Destinations = append(o.Destinations, addrAt(body[off:off+size]))
		}
	default:
		return deserializeErrorf("unsupported END-POINTS object type %d", h.ObjectType)
	}
	return nil
}

func (o *EndpointsObject) Class() ObjectClass { return ObjectClassEndpoints }
func (o *EndpointsObject) Type() ObjectType   { return o.ObjectType }

// IsP2MP reports whether the object carries a P2MP leaf list.
func (o *EndpointsObject) IsP2MP() bool {
	return o.ObjectType == ObjectTypeEndpointsP2MPIPv4 || o.ObjectType == ObjectTypeEndpointsP2MPIPv6
}

func (o *EndpointsObject) SerializeBody() ([]uint8, error) {
	switch o.ObjectType {
	case ObjectTypeEndpointsIPv4:
		if !o.Source.Unmap().Is4() || !o.Destination.Unmap().Is4() {
			return nil, fmt.Errorf("END-POINTS IPv4 needs IPv4 addresses")
		}
		return AppendByteSlices(addrBytes(o.Source, false), addrBytes(o.Destination, false)), nil
	case ObjectTypeEndpointsIPv6:
		if !o.Source.Is6() || !o.Destination.Is6() {
			return nil, fmt.Errorf("END-POINTS IPv6 needs IPv6 addresses")
		}
		return AppendByteSlices(addrBytes(o.Source, true), addrBytes(o.Destination, true)), nil
	case ObjectTypeEndpointsP2MPIPv4, ObjectTypeEndpointsP2MPIPv6:
		is6 := o.ObjectType == ObjectTypeEndpointsP2MPIPv6
		buf := AppendByteSlices(Uint32ToByteSlice(o.LeafType), addrBytes(o.Source, is6))
		for _, d := range o.Destinations {
			buf = append(buf, addrBytes(d, is6)...)
		}
		return buf, nil
	}
	return nil, fmt.Errorf("unsupported END-POINTS object type %d", o.ObjectType)
}

func (o *EndpointsObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.addFlags(enc)
	enc.AddString("source", o.Source.String())
	if o.IsP2MP() {
		enc.AddUint32("leafType", o.LeafType)
		enc.AddString("destinations", fmt.Sprint(o.Destinations))
		return nil
	}
	enc.AddString("destination", o.Destination.String())
	return nil
}

// NewEndpointsObject builds a P2P END-POINTS object whose type follows the
// address family of src.
func NewEndpointsObject(src, dst netip.Addr) (*EndpointsObject, error) {
	o := &EndpointsObject{
		ObjectFlags: ObjectFlags{ProcessingRule: true},
		Source:      src,
		Destination: dst,
	}
	switch {
	case src.Unmap().Is4() && dst.Unmap().Is4():
		o.ObjectType = ObjectTypeEndpointsIPv4
	case src.Is6() && dst.Is6():
		o.ObjectType = ObjectTypeEndpointsIPv6
	default:
		return nil, fmt.Errorf("mismatched END-POINTS address families %s, %s", src, dst)
	}
	return o, nil
}

// BANDWIDTH Object (RFC5440 7.7), bytes per second
type BandwidthObject struct {
	ObjectFlags
	Bandwidth float32
}

func (o *BandwidthObject) decode(_ *Registry, _ *CommonObjectHeader, body []byte) error {
	if err := checkFixedObjectBody(o.Class(), body, 4); err != nil {
		return err
	}
	o.Bandwidth = float32At(body[0:4])
	return nil
}

func (o *BandwidthObject) Class() ObjectClass { return ObjectClassBandwidth }
func (o *BandwidthObject) Type() ObjectType   { return ObjectTypeBandwidthRequested }

func (o *BandwidthObject) SerializeBody() ([]uint8, error) {
	return float32Bytes(o.Bandwidth), nil
}

func (o *BandwidthObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.addFlags(enc)
	enc.AddFloat32("bandwidth", o.Bandwidth)
	return nil
}

// ReoptimizationBandwidthObject is the BANDWIDTH object of a reoptimized
// path (object type 2).
type ReoptimizationBandwidthObject struct {
	ObjectFlags
	Bandwidth float32
}

func (o *ReoptimizationBandwidthObject) decode(_ *Registry, _ *CommonObjectHeader, body []byte) error {
	if err := checkFixedObjectBody(o.Class(), body, 4); err != nil {
		return err
	}
	o.Bandwidth = float32At(body[0:4])
	return nil
}

func (o *ReoptimizationBandwidthObject) Class() ObjectClass { return ObjectClassBandwidth }
func (o *ReoptimizationBandwidthObject) Type() ObjectType {
	return ObjectTypeBandwidthReoptimization
}

func (o *ReoptimizationBandwidthObject) SerializeBody() ([]uint8, error) {
	return float32Bytes(o.Bandwidth), nil
}

func (o *ReoptimizationBandwidthObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.addFlags(enc)
	enc.AddFloat32("reoptimizationBandwidth", o.Bandwidth)
	return nil
}

// METRIC Object (RFC5440 7.8)
const (
	MetricTypeIGP      uint8 = 1
	MetricTypeTE       uint8 = 2
	MetricTypeHopCount uint8 = 3

	metricBFlag          uint8 = 0x01
	metricCFlag          uint8 = 0x02
	metricObjectBodySize       = 8
)

type MetricObject struct {
	ObjectFlags
	BFlag       bool // bound
	CFlag       bool // computed
	MetricType  uint8
	MetricValue float32
}

func (o *MetricObject) decode(_ *Registry, _ *CommonObjectHeader, body []byte) error {
	if err := checkFixedObjectBody(o.Class(), body, metricObjectBodySize); err != nil {
		return err
	}
	o.CFlag = IsBitSet(body[2], metricCFlag)
	o.BFlag = IsBitSet(body[2], metricBFlag)
	o.MetricType = body[3]
	o.MetricValue = float32At(body[4:8])
	return nil
}

func (o *MetricObject) Class() ObjectClass { return ObjectClassMetric }
func (o *MetricObject) Type() ObjectType   { return ObjectTypeMetric }

func (o *MetricObject) SerializeBody() ([]uint8, error) {
	buf := make([]uint8, 4, metricObjectBodySize)
	buf[2] = SetBit(buf[2], metricCFlag, o.CFlag)
	buf[2] = SetBit(buf[2], metricBFlag, o.BFlag)
	buf[3] = o.MetricType
	return append(buf, float32Bytes(o.MetricValue)...), nil
}

func (o *MetricObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.addFlags(enc)
	enc.AddUint8("metricType", o.MetricType)
	enc.AddFloat32("metricValue", o.MetricValue)
	enc.AddBool("bound", o.BFlag)
	enc.AddBool("computed", o.CFlag)
	return nil
}

// LSPA Object (RFC5440 7.11)
const (
	lspaLFlag                 uint8 = 0x01
	lspaObjectFixedBodyLength       = 16
)

type LSPAObject struct {
	ObjectFlags
	ExcludeAny      uint32
	IncludeAny      uint32
	IncludeAll      uint32
	SetupPriority   uint8
	HoldingPriority uint8
	LFlag           bool // local protection desired
	TLVs            []TLVInterface
}

func (o *LSPAObject) decode(r *Registry, _ *CommonObjectHeader, body []byte) error {
	if err := checkObjectBody(o.Class(), body, lspaObjectFixedBodyLength); err != nil {
		return err
	}
	o.ExcludeAny = binary.BigEndian.Uint32(body[0:4])
	o.IncludeAny = binary.BigEndian.Uint32(body[4:8])
	o.IncludeAll = binary.BigEndian.Uint32(body[8:12])
	o.SetupPriority = body[12]
	o.HoldingPriority = body[13]
	o.LFlag = IsBitSet(body[14], lspaLFlag)
	var err error
	o.TLVs, err = r.DecodeTLVs(body[lspaObjectFixedBodyLength:])
	return err
}

func (o *LSPAObject) Class() ObjectClass { return ObjectClassLSPA }
func (o *LSPAObject) Type() ObjectType   { return ObjectTypeLSPA }

func (o *LSPAObject) SerializeBody() ([]uint8, error) {
	buf := make([]uint8, lspaObjectFixedBodyLength)
	binary.BigEndian.PutUint32(buf[0:4], o.ExcludeAny)
	binary.BigEndian.PutUint32(buf[4:8], o.IncludeAny)
	binary.BigEndian.PutUint32(buf[8:12], o.IncludeAll)
	buf[12] = o.SetupPriority
	buf[13] = o.HoldingPriority
	buf[14] = SetBit(buf[14], lspaLFlag, o.LFlag)
	return append(buf, serializeTLVs(o.TLVs)...), nil
}

func (o *LSPAObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.addFlags(enc)
	enc.AddUint32("excludeAny", o.ExcludeAny)
	enc.AddUint32("includeAny", o.IncludeAny)
	enc.AddUint32("includeAll", o.IncludeAll)
	enc.AddUint8("setupPriority", o.SetupPriority)
	enc.AddUint8("holdingPriority", o.HoldingPriority)
	enc.AddBool("localProtection", o.LFlag)
	addTLVs(enc, o.TLVs)
	return nil
}

// SVEC Object (RFC5440 7.13.2)
const (
	svecLinkDiverseFlag uint8 = 0x01
	svecNodeDiverseFlag uint8 = 0x02
	svecSRLGDiverseFlag uint8 = 0x04
)

type SVECObject struct {
	ObjectFlags
	LinkDiverse bool
	NodeDiverse bool
	SRLGDiverse bool
	RequestIDs  []uint32
}

func (o *SVECObject) decode(_ *Registry, _ *CommonObjectHeader, body []byte) error {
	if err := checkObjectBody(o.Class(), body, 4); err != nil {
		return err
	}
	if (len(body)-4)%4 != 0 {
		return deserializeErrorf("SVEC request-ID list length %d is not a multiple of 4", len(body)-4)
	}
	o.LinkDiverse = IsBitSet(body[3], svecLinkDiverseFlag)
	o.NodeDiverse = IsBitSet(body[3], svecNodeDiverseFlag)
	o.SRLGDiverse = IsBitSet(body[3], svecSRLGDiverseFlag)
	for off := 4; off < len(body); off += 4 {
		o.RequestIDs = append(o.RequestIDs, binary.BigEndian.Uint32(body[off:off+4]))
	}
	return nil
}

func (o *SVECObject) Class() ObjectClass { return ObjectClassSVEC }
func (o *SVECObject) Type() ObjectType   { return ObjectTypeSVEC }

func (o *SVECObject) SerializeBody() ([]uint8, error) {
	if len(o.RequestIDs) == 0 {
		return nil, fmt.Errorf("SVEC needs at least one request ID")
	}
	buf := make([]uint8, 4, 4+4*len(o.RequestIDs))
	buf[3] = SetBit(buf[3], svecLinkDiverseFlag, o.LinkDiverse)
	buf[3] = SetBit(buf[3], svecNodeDiverseFlag, o.NodeDiverse)
	buf[3] = SetBit(buf[3], svecSRLGDiverseFlag, o.SRLGDiverse)
	for _, id := range o.RequestIDs {
		buf = append(buf, Uint32ToByteSlice(id)...)
	}
	return buf, nil
}

func (o *SVECObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.addFlags(enc)
	enc.AddBool("linkDiverse", o.LinkDiverse)
	enc.AddBool("nodeDiverse", o.NodeDiverse)
	enc.AddBool("srlgDiverse", o.SRLGDiverse)
	enc.AddString("requestIDs", fmt.Sprint(o.RequestIDs))
	return nil
}

// NOTIFICATION Object (RFC5440 7.14)
const (
	NotificationTypePendingRequestCancelled uint8 = 1
	NotificationTypeOverloaded              uint8 = 2

	NotificationValuePCCCancelled     uint8 = 1
	NotificationValuePCECancelled     uint8 = 2
	NotificationValuePCEOverloaded    uint8 = 1
	NotificationValuePCENotOverloaded uint8 = 2

	notificationObjectFixedBodyLength = 4
)

type NotificationObject struct {
	ObjectFlags
	NotificationType  uint8
	NotificationValue uint8
	TLVs              []TLVInterface
}

func (o *NotificationObject) decode(r *Registry, _ *CommonObjectHeader, body []byte) error {
	if err := checkObjectBody(o.Class(), body, notificationObjectFixedBodyLength); err != nil {
		return err
	}
	o.NotificationType = body[2]
	o.NotificationValue = body[3]
	var err error
	o.TLVs, err = r.DecodeTLVs(body[notificationObjectFixedBodyLength:])
	return err
}

func (o *NotificationObject) Class() ObjectClass { return ObjectClassNotification }
func (o *NotificationObject) Type() ObjectType   { return ObjectTypeNotification }

func (o *NotificationObject) SerializeBody() ([]uint8, error) {
	buf := []uint8{0, 0, o.NotificationType, o.NotificationValue}
	return append(buf, serializeTLVs(o.TLVs)...), nil
}

func (o *NotificationObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.addFlags(enc)
	enc.AddUint8("notificationType", o.NotificationType)
	enc.AddUint8("notificationValue", o.NotificationValue)
	addTLVs(enc, o.TLVs)
	return nil
}

// PCEP-ERROR Object (RFC5440 7.15)
const pcepErrorObjectFixedBodyLength = 4

type PCEPErrorObject struct {
	ObjectFlags
	ErrorType  uint8
	ErrorValue uint8
	TLVs       []TLVInterface
}

func (o *PCEPErrorObject) decode(r *Registry, _ *CommonObjectHeader, body []byte) error {
	if err := checkObjectBody(o.Class(), body, pcepErrorObjectFixedBodyLength); err != nil {
		return err
	}
	o.ErrorType = body[2]
	o.ErrorValue = body[3]
	var err error
	o.TLVs, err = r.DecodeTLVs(body[pcepErrorObjectFixedBodyLength:])
	return err
}

func (o *PCEPErrorObject) Class() ObjectClass { return ObjectClassPCEPError }
func (o *PCEPErrorObject) Type() ObjectType   { return ObjectTypePCEPError }

func (o *PCEPErrorObject) SerializeBody() ([]uint8, error) {
	buf := []uint8{0, 0, o.ErrorType, o.ErrorValue}
	return append(buf, serializeTLVs(o.TLVs)...), nil
}

func (o *PCEPErrorObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.addFlags(enc)
	enc.AddUint8("errorType", o.ErrorType)
	enc.AddUint8("errorValue", o.ErrorValue)
	enc.AddString("error", o.Code().String())
	addTLVs(enc, o.TLVs)
	return nil
}

// Code returns the error type and value as a PCEPError.
func (o *PCEPErrorObject) Code() PCEPError {
	return NewPCEPError(o.ErrorType, o.ErrorValue)
}

func NewPCEPErrorObject(code PCEPError) *PCEPErrorObject {
	return &PCEPErrorObject{
		ErrorType:  code.Type(),
		ErrorValue: code.Value(),
	}
}

// LOAD-BALANCING Object (RFC5440 7.16)
const loadBalancingObjectBodyLength = 8

type LoadBalancingObject struct {
	ObjectFlags
	MaxLSP       uint8
	MinBandwidth float32
}

func (o *LoadBalancingObject) decode(_ *Registry, _ *CommonObjectHeader, body []byte) error {
	if err := checkFixedObjectBody(o.Class(), body, loadBalancingObjectBodyLength); err != nil {
		return err
	}
	o.MaxLSP = body[3]
	o.MinBandwidth = float32At(body[4:8])
	return nil
}

func (o *LoadBalancingObject) Class() ObjectClass { return ObjectClassLoadBalancing }
func (o *LoadBalancingObject) Type() ObjectType   { return ObjectTypeLoadBalancing }

func (o *LoadBalancingObject) SerializeBody() ([]uint8, error) {
	return append([]uint8{0, 0, 0, o.MaxLSP}, float32Bytes(o.MinBandwidth)...), nil
}

func (o *LoadBalancingObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.addFlags(enc)
	enc.AddUint8("maxLSP", o.MaxLSP)
	enc.AddFloat32("minBandwidth", o.MinBandwidth)
	return nil
}

// CLOSE Object (RFC5440 7.17)
const (
	CloseReasonNoExplanation       uint8 = 1
	CloseReasonDeadTimerExpired    uint8 = 2
	CloseReasonMalformedMessage    uint8 = 3
	CloseReasonUnknownRequests     uint8 = 4
	CloseReasonUnrecognizedMessage uint8 = 5

	closeObjectFixedBodyLength = 4
)

type CloseObject struct {
	ObjectFlags
	Reason uint8
	TLVs   []TLVInterface
}

func (o *CloseObject) decode(r *Registry, _ *CommonObjectHeader, body []byte) error {
	if err := checkObjectBody(o.Class(), body, closeObjectFixedBodyLength); err != nil {
		return err
	}
	o.Reason = body[3]
	var err error
	o.TLVs, err = r.DecodeTLVs(body[closeObjectFixedBodyLength:])
	return err
}

func (o *CloseObject) Class() ObjectClass { return ObjectClassClose }
func (o *CloseObject) Type() ObjectType   { return ObjectTypeClose }

func (o *CloseObject) SerializeBody() ([]uint8, error) {
	return append([]uint8{0, 0, 0, o.Reason}, serializeTLVs(o.TLVs)...), nil
}

func (o *CloseObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	o.addFlags(enc)
	enc.AddUint8("reason", o.Reason)
	addTLVs(enc, o.TLVs)
	return nil
}
