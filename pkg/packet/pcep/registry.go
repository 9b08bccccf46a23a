// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"encoding/binary"
	"maps"
	"sync"

	"go.uber.org/zap"
)

// ObjectParser decodes the body of one object. Returning a nil Object drops
// it from the message.
type ObjectParser func(r *Registry, header *CommonObjectHeader, body []byte) (Object, error)

type objectKey struct {
	class ObjectClass
	typ   ObjectType
}

// Registry holds the object, TLV and vendor information parsers used to
// decode messages. It is immutable after construction and safe for
// concurrent use.
type Registry struct {
	logger            *zap.Logger
	keepUnknownTLVs   bool
	maxSubobjectDepth int

	objects         map[objectKey]ObjectParser
	disabledClasses map[ObjectClass]struct{}
	disabledTypes   map[objectKey]struct{}
	tlvs            map[TLVType]func() TLVInterface
	vendors         map[EnterpriseNumber]VendorInfoParser
}

type RegistryOption func(*Registry)

func WithLogger(logger *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithKeepUnknownTLVs keeps unrecognized TLVs and vendor information with an
// unknown enterprise number instead of dropping them.
func WithKeepUnknownTLVs(keep bool) RegistryOption {
	return func(r *Registry) {
		r.keepUnknownTLVs = keep
	}
}

// WithMaxSubobjectDepth bounds EXRS nesting inside route objects.
func WithMaxSubobjectDepth(depth int) RegistryOption {
	return func(r *Registry) {
		if depth > 0 {
			r.maxSubobjectDepth = depth
		}
	}
}

func WithVendorInfoParser(en EnterpriseNumber, p VendorInfoParser) RegistryOption {
	return func(r *Registry) {
		r.vendors[en] = p
	}
}

func WithObjectParser(class ObjectClass, typ ObjectType, p ObjectParser) RegistryOption {
	return func(r *Registry) {
		r.objects[objectKey{class, typ}] = p
	}
}

func WithTLVParser(typ TLVType, factory func() TLVInterface) RegistryOption {
	return func(r *Registry) {
		r.tlvs[typ] = factory
	}
}

// WithoutObjectClass makes every object of the class decode as not supported.
func WithoutObjectClass(class ObjectClass) RegistryOption {
	return func(r *Registry) {
		r.disabledClasses[class] = struct{}{}
	}
}

func WithoutObjectType(class ObjectClass, typ ObjectType) RegistryOption {
	return func(r *Registry) {
		r.disabledTypes[objectKey{class, typ}] = struct{}{}
	}
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		logger:            zap.NewNop(),
		maxSubobjectDepth: DefaultMaxSubobjectDepth,
		objects:           maps.Clone(defaultObjectParsers),
		disabledClasses:   map[ObjectClass]struct{}{},
		disabledTypes:     map[objectKey]struct{}{},
		tlvs:              maps.Clone(defaultTLVs),
		vendors: map[EnterpriseNumber]VendorInfoParser{
			EnterpriseNumberCisco: ParseCiscoVendorInfo,
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var (
	defaultRegistryOnce sync.Once
	defaultRegistry     *Registry
)

// DefaultRegistry returns the shared registry built without options.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

func (r *Registry) Logger() *zap.Logger {
	return r.logger
}

type decodableObject[T any] interface {
	*T
	Object
	decode(r *Registry, h *CommonObjectHeader, body []byte) error
}

func objectParser[T any, PT decodableObject[T]]() ObjectParser {
	return func(r *Registry, h *CommonObjectHeader, body []byte) (Object, error) {
		o := PT(new(T))
		if err := o.decode(r, h, body); err != nil {
			return nil, err
		}
		return o, nil
	}
}

func parseVendorInformationObject(r *Registry, _ *CommonObjectHeader, body []byte) (Object, error) {
	vi, err := r.decodeVendorInformation(body)
	if err != nil || vi == nil {
		return nil, err
	}
	return &VendorInformationObject{VendorInformation: *vi}, nil
}

var defaultObjectParsers = map[objectKey]ObjectParser{
	{ObjectClassOpen, ObjectTypeOpen}:                                 objectParser[OpenObject](),
	{ObjectClassRP, ObjectTypeRP}:                                     objectParser[RPObject](),
	{ObjectClassNoPath, ObjectTypeNoPath}:                             objectParser[NoPathObject](),
	{ObjectClassEndpoints, ObjectTypeEndpointsIPv4}:                   objectParser[EndpointsObject](),
	{ObjectClassEndpoints, ObjectTypeEndpointsIPv6}:                   objectParser[EndpointsObject](),
	{ObjectClassEndpoints, ObjectTypeEndpointsP2MPIPv4}:               objectParser[EndpointsObject](),
	{ObjectClassEndpoints, ObjectTypeEndpointsP2MPIPv6}:               objectParser[EndpointsObject](),
	{ObjectClassBandwidth, ObjectTypeBandwidthRequested}:              objectParser[BandwidthObject](),
	{ObjectClassBandwidth, ObjectTypeBandwidthReoptimization}:         objectParser[ReoptimizationBandwidthObject](),
	{ObjectClassMetric, ObjectTypeMetric}:                             objectParser[MetricObject](),
	{ObjectClassERO, ObjectTypeERO}:                                   objectParser[EROObject](),
	{ObjectClassRRO, ObjectTypeRRO}:                                   objectParser[RROObject](),
	{ObjectClassLSPA, ObjectTypeLSPA}:                                 objectParser[LSPAObject](),
	{ObjectClassIRO, ObjectTypeIRO}:                                   objectParser[IROObject](),
	{ObjectClassSVEC, ObjectTypeSVEC}:                                 objectParser[SVECObject](),
	{ObjectClassNotification, ObjectTypeNotification}:                 objectParser[NotificationObject](),
	{ObjectClassPCEPError, ObjectTypePCEPError}:                       objectParser[PCEPErrorObject](),
	{ObjectClassLoadBalancing, ObjectTypeLoadBalancing}:               objectParser[LoadBalancingObject](),
	{ObjectClassClose, ObjectTypeClose}:                               objectParser[CloseObject](),
	{ObjectClassPathKey, ObjectTypePathKey}:                           objectParser[PathKeyObject](),
	{ObjectClassXRO, ObjectTypeXRO}:                                   objectParser[XROObject](),
	{ObjectClassMonitoring, ObjectTypeMonitoring}:                     objectParser[MonitoringObject](),
	{ObjectClassPCCReqID, ObjectTypePCCReqIDIPv4}:                     objectParser[PCCReqIDObject](),
	{ObjectClassPCCReqID, ObjectTypePCCReqIDIPv6}:                     objectParser[PCCReqIDObject](),
	{ObjectClassOF, ObjectTypeOF}:                                     objectParser[OFObject](),
	{ObjectClassClassType, ObjectTypeClassType}:                       objectParser[ClassTypeObject](),
	{ObjectClassGlobalConstraints, ObjectTypeGlobalConstraints}:       objectParser[GlobalConstraintsObject](),
	{ObjectClassPCEID, ObjectTypePCEIDIPv4}:                           objectParser[PCEIDObject](),
	{ObjectClassPCEID, ObjectTypePCEIDIPv6}:                           objectParser[PCEIDObject](),
	{ObjectClassProcTime, ObjectTypeProcTime}:                         objectParser[ProcTimeObject](),
	{ObjectClassOverload, ObjectTypeOverload}:                         objectParser[OverloadObject](),
	{ObjectClassUnreachDestination, ObjectTypeUnreachDestinationIPv4}: objectParser[UnreachDestinationObject](),
	{ObjectClassUnreachDestination, ObjectTypeUnreachDestinationIPv6}: objectParser[UnreachDestinationObject](),
	{ObjectClassSERO, ObjectTypeSERO}:                                 objectParser[SEROObject](),
	{ObjectClassSRRO, ObjectTypeSRRO}:                                 objectParser[SRROObject](),
	{ObjectClassBNC, ObjectTypeBranchNodeList}:                        objectParser[BranchNodeListObject](),
	{ObjectClassBNC, ObjectTypeNonBranchNodeList}:                     objectParser[BranchNodeListObject](),
	{ObjectClassLSP, ObjectTypeLSP}:                                   objectParser[LSPObject](),
	{ObjectClassSRP, ObjectTypeSRP}:                                   objectParser[SRPObject](),
	{ObjectClassVendorInformation, ObjectTypeVendorInformation}:       parseVendorInformationObject,
	{ObjectClassAssociation, ObjectTypeAssociationIPv4}:               objectParser[AssociationObject](),
	{ObjectClassAssociation, ObjectTypeAssociationIPv6}:               objectParser[AssociationObject](),
}

// DecodeTLVs decodes a padded TLV list. Unknown TLVs are logged and dropped
// unless the registry keeps them.
func (r *Registry) DecodeTLVs(data []byte) ([]TLVInterface, error) {
	var tlvs []TLVInterface
	err := walkTLVs(data, func(typ TLVType, raw []byte) error {
		tlv, err := r.decodeTLV(typ, raw)
		if err != nil {
			return err
		}
		if tlv != nil {
			tlvs = append(tlvs, tlv)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tlvs, nil
}

func (r *Registry) decodeTLV(typ TLVType, raw []byte) (TLVInterface, error) {
	if typ == TLVVendorInformation {
		vi, err := r.decodeVendorInformation(raw[TLVHeaderLength:])
		if err != nil || vi == nil {
			return nil, err
		}
		return &VendorInformationTLV{VendorInformation: *vi}, nil
	}

	factory, ok := r.tlvs[typ]
	if !ok {
		if !r.keepUnknownTLVs {
			r.logger.Debug("skip unknown TLV", zap.String("type", typ.String()), zap.Int("length", len(raw)-TLVHeaderLength))
			return nil, nil
		}
		factory = func() TLVInterface { return &UndefinedTLV{} }
	}
	tlv := factory()
	if err := tlv.DecodeFromBytes(raw); err != nil {
		return nil, wrapDeserializeError(err, "failed to decode %s", typ)
	}
	return tlv, nil
}

// decodeVendorInformation returns nil when the enterprise number has no
// parser and unknown data is not kept.
func (r *Registry) decodeVendorInformation(body []byte) (*VendorInformation, error) {
	if len(body) < enterpriseNumberLength {
		return nil, deserializeErrorf("vendor information too short: %d bytes", len(body))
	}
	en := EnterpriseNumber(binary.BigEndian.Uint32(body[:enterpriseNumberLength]))
	payload := body[enterpriseNumberLength:]

	p, ok := r.vendors[en]
	if !ok {
		if !r.keepUnknownTLVs {
			r.logger.Debug("skip vendor information", zap.String("enterpriseNumber", en.String()))
			return nil, nil
		}
		return &VendorInformation{EnterpriseNumber: en, Raw: append([]byte{}, payload...)}, nil
	}
	tlvs, err := p(payload)
	if err != nil {
		return nil, wrapDeserializeError(err, "failed to decode vendor information of %s", en)
	}
	return &VendorInformation{EnterpriseNumber: en, TLVs: tlvs}, nil
}

// DecodeObjects splits a message body into objects. Objects without a parser
// are dropped when their P flag is clear and become UnknownObject otherwise.
func (r *Registry) DecodeObjects(data []byte) ([]Object, error) {
	var objs []Object
	for len(data) > 0 {
		var h CommonObjectHeader
		if err := h.DecodeFromBytes(data); err != nil {
			return nil, err
		}
		length := int(h.ObjectLength)
		if length < int(CommonObjectHeaderLength) || length > len(data) {
			return nil, deserializeErrorf("Object length %d out of range. Remaining: %d.", length, len(data))
		}
		body := data[CommonObjectHeaderLength:length]
		data = data[length:]

		o, err := r.decodeObject(&h, body)
		if err != nil {
			return nil, err
		}
		if !isNilObject(o) {
			objs = append(objs, o)
		}
	}
	return objs, nil
}

func (r *Registry) decodeObject(h *CommonObjectHeader, body []byte) (Object, error) {
	key := objectKey{h.ObjectClass, h.ObjectType}

	if _, ok := r.disabledClasses[h.ObjectClass]; ok {
		return r.unknownObject(h, PCEPErrNotSupportedObjectClass, body), nil
	}
	if _, ok := r.disabledTypes[key]; ok {
		return r.unknownObject(h, PCEPErrNotSupportedObjectType, body), nil
	}

	parser, ok := r.objects[key]
	if !ok {
		code := PCEPErrUnrecognizedObjectClass
		if r.knowsClass(h.ObjectClass) {
			code = PCEPErrUnrecognizedObjectType
		}
		return r.unknownObject(h, code, body), nil
	}

	o, err := parser(r, h, body)
	if err != nil {
		return nil, wrapDeserializeError(err, "failed to decode %s object", h.ObjectClass)
	}
	if isNilObject(o) {
		return nil, nil
	}
	f := o.Flags()
	f.ProcessingRule = h.PFlag
	f.Ignore = h.IFlag
	return o, nil
}

func (r *Registry) knowsClass(class ObjectClass) bool {
	for t := ObjectType(1); t <= maxObjectType; t++ {
		if _, ok := r.objects[objectKey{class, t}]; ok {
			return true
		}
	}
	return false
}

// unknownObject returns nil for objects the receiver is allowed to ignore.
func (r *Registry) unknownObject(h *CommonObjectHeader, code PCEPError, body []byte) Object {
	if !h.PFlag {
		r.logger.Debug("skip unsupported object",
			zap.String("class", h.ObjectClass.String()),
			zap.Uint8("type", uint8(h.ObjectType)))
		return nil
	}
	return &UnknownObject{
		ObjectFlags: ObjectFlags{ProcessingRule: h.PFlag, Ignore: h.IFlag},
		ObjectClass: h.ObjectClass,
		ObjectType:  h.ObjectType,
		Error:       code,
		Body:        append([]byte{}, body...),
	}
}
