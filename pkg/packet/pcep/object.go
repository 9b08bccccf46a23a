// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"encoding/binary"
	"fmt"
	"reflect"

	"go.uber.org/zap/zapcore"
)

const CommonObjectHeaderLength uint16 = 4

// PCEP Object-Class (1 byte)
type ObjectClass uint8

const (
	ObjectClassOpen               ObjectClass = 0x01 // RFC5440
	ObjectClassRP                 ObjectClass = 0x02 // RFC5440
	ObjectClassNoPath             ObjectClass = 0x03 // RFC5440
	ObjectClassEndpoints          ObjectClass = 0x04 // RFC5440
	ObjectClassBandwidth          ObjectClass = 0x05 // RFC5440
	ObjectClassMetric             ObjectClass = 0x06 // RFC5440
	ObjectClassERO                ObjectClass = 0x07 // RFC5440
	ObjectClassRRO                ObjectClass = 0x08 // RFC5440
	ObjectClassLSPA               ObjectClass = 0x09 // RFC5440
	ObjectClassIRO                ObjectClass = 0x0a // RFC5440
	ObjectClassSVEC               ObjectClass = 0x0b // RFC5440
	ObjectClassNotification       ObjectClass = 0x0c // RFC5440
	ObjectClassPCEPError          ObjectClass = 0x0d // RFC5440
	ObjectClassLoadBalancing      ObjectClass = 0x0e // RFC5440
	ObjectClassClose              ObjectClass = 0x0f // RFC5440
	ObjectClassPathKey            ObjectClass = 0x10 // RFC5520
	ObjectClassXRO                ObjectClass = 0x11 // RFC5521
	ObjectClassMonitoring         ObjectClass = 0x13 // RFC5886
	ObjectClassPCCReqID           ObjectClass = 0x14 // RFC5886
	ObjectClassOF                 ObjectClass = 0x15 // RFC5541
	ObjectClassClassType          ObjectClass = 0x16 // RFC5455
	ObjectClassGlobalConstraints  ObjectClass = 0x18 // RFC5557
	ObjectClassPCEID              ObjectClass = 0x19 // RFC5886
	ObjectClassProcTime           ObjectClass = 0x1a // RFC5886
	ObjectClassOverload           ObjectClass = 0x1b // RFC5886
	ObjectClassUnreachDestination ObjectClass = 0x1c // RFC8306
	ObjectClassSERO               ObjectClass = 0x1d // RFC8306
	ObjectClassSRRO               ObjectClass = 0x1e // RFC8306
	ObjectClassBNC                ObjectClass = 0x1f // RFC8306
	ObjectClassLSP                ObjectClass = 0x20 // RFC8231
	ObjectClassSRP                ObjectClass = 0x21 // RFC8231
	ObjectClassVendorInformation  ObjectClass = 0x22 // RFC7470
	ObjectClassAssociation        ObjectClass = 0x28 // RFC8697
)

var objectClassNames = map[ObjectClass]string{
	ObjectClassOpen:               "OPEN",
	ObjectClassRP:                 "RP",
	ObjectClassNoPath:             "NO-PATH",
	ObjectClassEndpoints:          "END-POINTS",
	ObjectClassBandwidth:          "BANDWIDTH",
	ObjectClassMetric:             "METRIC",
	ObjectClassERO:                "ERO",
	ObjectClassRRO:                "RRO",
	ObjectClassLSPA:               "LSPA",
	ObjectClassIRO:                "IRO",
	ObjectClassSVEC:               "SVEC",
	ObjectClassNotification:       "NOTIFICATION",
	ObjectClassPCEPError:          "PCEP-ERROR",
	ObjectClassLoadBalancing:      "LOAD-BALANCING",
	ObjectClassClose:              "CLOSE",
	ObjectClassPathKey:            "PATH-KEY",
	ObjectClassXRO:                "XRO",
	ObjectClassMonitoring:         "MONITORING",
	ObjectClassPCCReqID:           "PCC-REQ-ID",
	ObjectClassOF:                 "OF",
	ObjectClassClassType:          "CLASSTYPE",
	ObjectClassGlobalConstraints:  "GLOBAL-CONSTRAINTS",
	ObjectClassPCEID:              "PCE-ID",
	ObjectClassProcTime:           "PROC-TIME",
	ObjectClassOverload:           "OVERLOAD",
	ObjectClassUnreachDestination: "UNREACH-DESTINATION",
	ObjectClassSERO:               "SERO",
	ObjectClassSRRO:               "SRRO",
	ObjectClassBNC:                "BNC",
	ObjectClassLSP:                "LSP",
	ObjectClassSRP:                "SRP",
	ObjectClassVendorInformation:  "VENDOR-INFORMATION",
	ObjectClassAssociation:        "ASSOCIATION",
}

func (c ObjectClass) String() string {
	if name, ok := objectClassNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Unknown ObjectClass (0x%02x)", uint8(c))
}

// PCEP Object-Type (4 bit)
type ObjectType uint8

const (
	ObjectTypeOpen                    ObjectType = 0x01
	ObjectTypeRP                      ObjectType = 0x01
	ObjectTypeNoPath                  ObjectType = 0x01
	ObjectTypeEndpointsIPv4           ObjectType = 0x01
	ObjectTypeEndpointsIPv6           ObjectType = 0x02
	ObjectTypeEndpointsP2MPIPv4       ObjectType = 0x03
	ObjectTypeEndpointsP2MPIPv6       ObjectType = 0x04
	ObjectTypeBandwidthRequested      ObjectType = 0x01
	ObjectTypeBandwidthReoptimization ObjectType = 0x02
	ObjectTypeMetric                  ObjectType = 0x01
	ObjectTypeERO                     ObjectType = 0x01
	ObjectTypeRRO                     ObjectType = 0x01
	ObjectTypeLSPA                    ObjectType = 0x01
	ObjectTypeIRO                     ObjectType = 0x01
	ObjectTypeSVEC                    ObjectType = 0x01
	ObjectTypeNotification            ObjectType = 0x01
	ObjectTypePCEPError               ObjectType = 0x01
	ObjectTypeLoadBalancing           ObjectType = 0x01
	ObjectTypeClose                   ObjectType = 0x01
	ObjectTypePathKey                 ObjectType = 0x01
	ObjectTypeXRO                     ObjectType = 0x01
	ObjectTypeMonitoring              ObjectType = 0x01
	ObjectTypePCCReqIDIPv4            ObjectType = 0x01
	ObjectTypePCCReqIDIPv6            ObjectType = 0x02
	ObjectTypeOF                      ObjectType = 0x01
	ObjectTypeClassType               ObjectType = 0x01
	ObjectTypeGlobalConstraints       ObjectType = 0x01
	ObjectTypePCEIDIPv4               ObjectType = 0x01
	ObjectTypePCEIDIPv6               ObjectType = 0x02
	ObjectTypeProcTime                ObjectType = 0x01
	ObjectTypeOverload                ObjectType = 0x01
	ObjectTypeUnreachDestinationIPv4  ObjectType = 0x01
	ObjectTypeUnreachDestinationIPv6  ObjectType = 0x02
	ObjectTypeSERO                    ObjectType = 0x01
	ObjectTypeSRRO                    ObjectType = 0x01
	ObjectTypeBranchNodeList          ObjectType = 0x01
	ObjectTypeNonBranchNodeList       ObjectType = 0x02
	ObjectTypeLSP                     ObjectType = 0x01
	ObjectTypeSRP                     ObjectType = 0x01
	ObjectTypeVendorInformation       ObjectType = 0x01
	ObjectTypeAssociationIPv4         ObjectType = 0x01
	ObjectTypeAssociationIPv6         ObjectType = 0x02
)

// Object-Type is 4 bits wide
const maxObjectType ObjectType = 0x0f

type CommonObjectHeader struct { // RFC5440 7.2
	ObjectClass  ObjectClass
	ObjectType   ObjectType
	ResFlags     uint8 // MUST be set to zero
	PFlag        bool  // 0: optional, 1: MUST
	IFlag        bool  // 0: processed, 1: ignored
	ObjectLength uint16
}

func (h *CommonObjectHeader) DecodeFromBytes(objectHeader []uint8) error {
	if len(objectHeader) < int(CommonObjectHeaderLength) {
		return deserializeErrorf("Too few bytes in passed array. Passed: %d Expected: >= %d.", len(objectHeader), CommonObjectHeaderLength)
	}
	h.ObjectClass = ObjectClass(objectHeader[0])
	h.ObjectType = ObjectType(objectHeader[1] & 0xf0 >> 4)
	h.ResFlags = uint8(objectHeader[1] & 0x0c >> 2)
	h.PFlag = (objectHeader[1] & 0x02) != 0
	h.IFlag = (objectHeader[1] & 0x01) != 0
	h.ObjectLength = binary.BigEndian.Uint16(objectHeader[2:4])
	return nil
}

func (h *CommonObjectHeader) Serialize() []uint8 {
	buf := make([]uint8, 0, 4)
	buf = append(buf, uint8(h.ObjectClass))
	otFlags := uint8(h.ObjectType)<<4 | h.ResFlags<<2
	otFlags = SetBit(otFlags, 0x02, h.PFlag)
	otFlags = SetBit(otFlags, 0x01, h.IFlag)
	buf = append(buf, otFlags)
	buf = append(buf, Uint16ToByteSlice(h.ObjectLength)...)
	return buf
}

func NewCommonObjectHeader(objectClass ObjectClass, objectType ObjectType, objectLength uint16) *CommonObjectHeader {
	return &CommonObjectHeader{
		ObjectClass:  objectClass,
		ObjectType:   objectType,
		ObjectLength: objectLength,
	}
}

// ObjectFlags carries the P (processing rule) and I (ignore) header bits.
type ObjectFlags struct {
	ProcessingRule bool
	Ignore         bool
}

// Flags lets every object embedding ObjectFlags satisfy Object.
func (f *ObjectFlags) Flags() *ObjectFlags {
	return f
}

func (f *ObjectFlags) addFlags(enc zapcore.ObjectEncoder) {
	enc.AddBool("processingRule", f.ProcessingRule)
	enc.AddBool("ignore", f.Ignore)
}

// Object is one decoded PCEP object.
type Object interface {
	Class() ObjectClass
	Type() ObjectType
	Flags() *ObjectFlags
	// SerializeBody returns the object body without the common header.
	SerializeBody() ([]uint8, error)
	MarshalLogObject(enc zapcore.ObjectEncoder) error
}

// SerializeObject encodes o with its common object header.
func SerializeObject(o Object) ([]uint8, error) {
	if o == nil {
		return nil, fmt.Errorf("cannot serialize nil object")
	}
	body, err := o.SerializeBody()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s object: %w", o.Class(), err)
	}
	length := int(CommonObjectHeaderLength) + len(body)
	if length > 0xffff {
		return nil, fmt.Errorf("%s object too long: %d bytes", o.Class(), length)
	}
	h := NewCommonObjectHeader(o.Class(), o.Type(), uint16(length))
	h.PFlag = o.Flags().ProcessingRule
	h.IFlag = o.Flags().Ignore
	return AppendByteSlices(h.Serialize(), body), nil
}

// serializeObjects concatenates the wire form of objs, skipping nil entries.
func serializeObjects(objs ...Object) ([]uint8, error) {
	var buf []uint8
	for _, o := range objs {
		if isNilObject(o) {
			continue
		}
		b, err := SerializeObject(o)
		if err != nil {
			return nil, err
		}
		buf = append(buf, b...)
	}
	return buf, nil
}

// UnknownObject stands in for an object the registry could not decode while
// its P flag demanded processing.
type UnknownObject struct {
	ObjectFlags
	ObjectClass ObjectClass
	ObjectType  ObjectType
	Error       PCEPError
	Body        []uint8
}

func (o *UnknownObject) Class() ObjectClass {
	return o.ObjectClass
}

func (o *UnknownObject) Type() ObjectType {
	return o.ObjectType
}

func (o *UnknownObject) SerializeBody() ([]uint8, error) {
	return o.Body, nil
}

func (o *UnknownObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("class", o.ObjectClass.String())
	enc.AddUint8("type", uint8(o.ObjectType))
	enc.AddString("error", o.Error.String())
	return nil
}

// ErrorObject converts the placeholder into the PCEP-ERROR object reporting it.
func (o *UnknownObject) ErrorObject() *PCEPErrorObject {
	return NewPCEPErrorObject(o.Error)
}

// objectList is a marshaler for logging a slice of objects.
type objectList []Object

func (l objectList) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, o := range l {
		if isNilObject(o) {
			continue
		}
		if err := enc.AppendObject(o); err != nil {
			return err
		}
	}
	return nil
}

func isNilObject(o Object) bool {
	if o == nil {
		return true
	}
	v := reflect.ValueOf(o)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
