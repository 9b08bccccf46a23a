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

const CommonHeaderLength uint16 = 4

const Version uint8 = 1

type MessageType uint8

const ( // PCEP Message-Type (1byte)
	MessageTypeOpen              MessageType = 0x01 // RFC5440
	MessageTypeKeepalive         MessageType = 0x02 // RFC5440
	MessageTypeRequest           MessageType = 0x03 // RFC5440
	MessageTypeReply             MessageType = 0x04 // RFC5440
	MessageTypeNotification      MessageType = 0x05 // RFC5440
	MessageTypeError             MessageType = 0x06 // RFC5440
	MessageTypeClose             MessageType = 0x07 // RFC5440
	MessageTypeMonitoringRequest MessageType = 0x08 // RFC5886
	MessageTypeMonitoringReply   MessageType = 0x09 // RFC5886
	MessageTypeReport            MessageType = 0x0a // RFC8231
	MessageTypeUpdate            MessageType = 0x0b // RFC8231
	MessageTypeInitiate          MessageType = 0x0c // RFC8281
	MessageTypeStartTLS          MessageType = 0x0d // RFC8253
)

var messageTypeNames = map[MessageType]string{
	MessageTypeOpen:              "Open",
	MessageTypeKeepalive:         "Keepalive",
	MessageTypeRequest:           "PCReq",
	MessageTypeReply:             "PCRep",
	MessageTypeNotification:      "PCNtf",
	MessageTypeError:             "PCErr",
	MessageTypeClose:             "Close",
	MessageTypeMonitoringRequest: "PCMonReq",
	MessageTypeMonitoringReply:   "PCMonRep",
	MessageTypeReport:            "PCRpt",
	MessageTypeUpdate:            "PCUpd",
	MessageTypeInitiate:          "PCInitiate",
	MessageTypeStartTLS:          "StartTLS",
}

func (t MessageType) String() string {
	if name, ok := messageTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown MessageType (0x%02x)", uint8(t))
}

// MessageTypes lists every message type the codec understands.
func MessageTypes() []MessageType {
	types := make([]MessageType, 0, len(messageTypeNames))
	for t := MessageTypeOpen; t <= MessageTypeStartTLS; t++ {
		types = append(types, t)
	}
	return types
}

// Common header of PCEP Message
type CommonHeader struct { // RFC5440 6.1
	Version       uint8 // Current version is 1
	Flag          uint8
	MessageType   MessageType
	MessageLength uint16
}

func (h *CommonHeader) DecodeFromBytes(header []uint8) error {
	if len(header) < int(CommonHeaderLength) {
		return deserializeErrorf("Too few bytes in passed array. Passed: %d Expected: >= %d.", len(header), CommonHeaderLength)
	}
	h.Version = header[0] >> 5
	h.Flag = header[0] & 0x1f
	h.MessageType = MessageType(header[1])
	h.MessageLength = binary.BigEndian.Uint16(header[2:4])
	return nil
}

func (h *CommonHeader) Serialize() []uint8 {
	buf := make([]uint8, 0, CommonHeaderLength)
	buf = append(buf, h.Version<<5|h.Flag)
	buf = append(buf, uint8(h.MessageType))
	buf = append(buf, Uint16ToByteSlice(h.MessageLength)...)
	return buf
}

func NewCommonHeader(messageType MessageType, messageLength uint16) *CommonHeader {
	return &CommonHeader{
		Version:       Version,
		MessageType:   messageType,
		MessageLength: messageLength,
	}
}

// DecodeCommonHeader reads a message header and rejects unsupported
// versions and impossible lengths.
func DecodeCommonHeader(header []uint8) (*CommonHeader, error) {
	h := &CommonHeader{}
	if err := h.DecodeFromBytes(header); err != nil {
		return nil, err
	}
	if h.Version != Version {
		return nil, deserializeErrorf("Unsupported PCEP version %d", h.Version)
	}
	if h.MessageLength < CommonHeaderLength {
		return nil, deserializeErrorf("Message length %d is shorter than the common header", h.MessageLength)
	}
	return h, nil
}

type Message interface {
	MessageType() MessageType
	// Objects returns the message objects in wire order.
	Objects() []Object
	Serialize() ([]uint8, error)
	MarshalLogObject(enc zapcore.ObjectEncoder) error
}

// SerializeMessage frames the objects of m behind a common header.
func SerializeMessage(m Message) ([]uint8, error) {
	if isNilMessage(m) {
		return nil, fmt.Errorf("cannot serialize nil message")
	}
	body, err := serializeObjects(m.Objects()...)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s message: %w", m.MessageType(), err)
	}
	length := int(CommonHeaderLength) + len(body)
	if length > 0xffff {
		return nil, fmt.Errorf("%s message too long: %d bytes", m.MessageType(), length)
	}
	h := NewCommonHeader(m.MessageType(), uint16(length))
	return AppendByteSlices(h.Serialize(), body), nil
}

func isNilMessage(m Message) bool {
	if m == nil {
		return true
	}
	v := reflect.ValueOf(m)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func marshalMessage(enc zapcore.ObjectEncoder, m Message) error {
	enc.AddString("messageType", m.MessageType().String())
	return enc.AddArray("objects", objectList(m.Objects()))
}

type messageParser func(s *objectStream) (Message, error)

var messageParsers = map[MessageType]messageParser{
	MessageTypeOpen:              parseOpenMessage,
	MessageTypeKeepalive:         parseKeepaliveMessage,
	MessageTypeRequest:           parseRequestMessage,
	MessageTypeReply:             parseReplyMessage,
	MessageTypeNotification:      parseNotificationMessage,
	MessageTypeError:             parseErrorMessage,
	MessageTypeClose:             parseCloseMessage,
	MessageTypeMonitoringRequest: parseMonitoringRequestMessage,
	MessageTypeMonitoringReply:   parseMonitoringReplyMessage,
	MessageTypeReport:            parseReportMessage,
	MessageTypeUpdate:            parseUpdateMessage,
	MessageTypeInitiate:          parseInitiateMessage,
	MessageTypeStartTLS:          parseStartTLSMessage,
}

// ParseMessage decodes one framed message. Protocol errors the peer should
// be told about are returned as PCErr messages; the returned Message is nil
// when the grammar could not build one. A non-nil error means the input was
// malformed beyond what a PCErr can report.
func (r *Registry) ParseMessage(data []uint8) (Message, []*ErrorMessage, error) {
	h, err := DecodeCommonHeader(data)
	if err != nil {
		return nil, nil, err
	}
	if int(h.MessageLength) != len(data) {
		return nil, nil, deserializeErrorf("Body size %d does not match header size %d", len(data)-int(CommonHeaderLength), int(h.MessageLength)-int(CommonHeaderLength))
	}
	parse, ok := messageParsers[h.MessageType]
	if !ok {
		return nil, nil, deserializeErrorf("Unknown message type %d", uint8(h.MessageType))
	}
	objs, err := r.DecodeObjects(data[CommonHeaderLength:])
	if err != nil {
		return nil, nil, err
	}

	s := &objectStream{objs: objs}
	m, err := parse(s)
	if err == nil && !isNilMessage(m) {
		return m, s.errs, nil
	}

	// A rejected message with unrecognized mandatory objects is answered
	// with the errors of those objects.
	errs := s.errs
	for _, o := range objs {
		if u, ok := o.(*UnknownObject); ok {
			errs = append(errs, &ErrorMessage{Errors: []*PCEPErrorObject{u.ErrorObject()}})
		}
	}
	if len(errs) > 0 {
		return nil, errs, nil
	}
	if err == nil {
		err = deserializeErrorf("%s message could not be assembled", h.MessageType)
	}
	return nil, nil, err
}

// ParseMessage decodes one framed message with the default registry.
func ParseMessage(data []uint8) (Message, []*ErrorMessage, error) {
	return DefaultRegistry().ParseMessage(data)
}

// Open Message
type OpenMessage struct {
	Open *OpenObject
}

func (m *OpenMessage) MessageType() MessageType {
	return MessageTypeOpen
}

func (m *OpenMessage) Objects() []Object {
	return []Object{m.Open}
}

func (m *OpenMessage) Serialize() ([]uint8, error) {
	return SerializeMessage(m)
}

func (m *OpenMessage) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return marshalMessage(enc, m)
}

func NewOpenMessage(sessionID uint8, keepalive uint8, capabilities []CapabilityInterface) *OpenMessage {
	return &OpenMessage{
		Open: NewOpenObject(sessionID, keepalive, capabilities),
	}
}

func parseOpenMessage(s *objectStream) (Message, error) {
	if s.empty() {
		return nil, deserializeErrorf("Open message doesn't contain OPEN object.")
	}
	open, ok := popIf[*OpenObject](s)
	if !ok {
		return nil, deserializeErrorf("Open message doesn't contain OPEN object.")
	}
	if err := s.finish(); err != nil {
		return nil, err
	}
	return &OpenMessage{Open: open}, nil
}

// Keepalive Message
type KeepaliveMessage struct{}

func (m *KeepaliveMessage) MessageType() MessageType {
	return MessageTypeKeepalive
}

func (m *KeepaliveMessage) Objects() []Object {
	return nil
}

func (m *KeepaliveMessage) Serialize() ([]uint8, error) {
	return SerializeMessage(m)
}

func (m *KeepaliveMessage) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return marshalMessage(enc, m)
}

var keepaliveMessage = &KeepaliveMessage{}

// NewKeepaliveMessage returns the shared Keepalive message.
func NewKeepaliveMessage() *KeepaliveMessage {
	return keepaliveMessage
}

func parseKeepaliveMessage(s *objectStream) (Message, error) {
	if err := s.finish(); err != nil {
		return nil, err
	}
	return keepaliveMessage, nil
}

// StartTLS Message
type StartTLSMessage struct{}

func (m *StartTLSMessage) MessageType() MessageType {
	return MessageTypeStartTLS
}

func (m *StartTLSMessage) Objects() []Object {
	return nil
}

func (m *StartTLSMessage) Serialize() ([]uint8, error) {
	return SerializeMessage(m)
}

func (m *StartTLSMessage) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return marshalMessage(enc, m)
}

func parseStartTLSMessage(s *objectStream) (Message, error) {
	if err := s.finish(); err != nil {
		return nil, err
	}
	return &StartTLSMessage{}, nil
}

// Close Message
type CloseMessage struct {
	Close *CloseObject
}

func (m *CloseMessage) MessageType() MessageType {
	return MessageTypeClose
}

func (m *CloseMessage) Objects() []Object {
	return []Object{m.Close}
}

func (m *CloseMessage) Serialize() ([]uint8, error) {
	return SerializeMessage(m)
}

func (m *CloseMessage) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return marshalMessage(enc, m)
}

func NewCloseMessage(reason uint8) *CloseMessage {
	return &CloseMessage{
		Close: &CloseObject{
			ObjectFlags: ObjectFlags{ProcessingRule: true},
			Reason:      reason,
		},
	}
}

func parseCloseMessage(s *objectStream) (Message, error) {
	closeObj, ok := popIf[*CloseObject](s)
	if !ok {
		return nil, deserializeErrorf("Close message doesn't contain CLOSE object.")
	}
	if err := s.finish(); err != nil {
		return nil, err
	}
	return &CloseMessage{Close: closeObj}, nil
}
