// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"go.uber.org/zap/zapcore"
)

// ErrorType tells which requests, LSPs or session an error refers to.
// It is one of *RequestErrorType, *StatefulErrorType or *SessionErrorType.
type ErrorType interface {
	objects() []Object
	name() string
}

type RequestErrorType struct {
	RPs []*RPObject
}

func (t *RequestErrorType) objects() []Object { return asObjects(t.RPs) }
func (t *RequestErrorType) name() string      { return "request" }

type StatefulErrorType struct {
	SRPs []*SRPObject
}

func (t *StatefulErrorType) objects() []Object { return asObjects(t.SRPs) }
func (t *StatefulErrorType) name() string      { return "stateful" }

// SessionErrorType carries the OPEN object proposing acceptable session
// characteristics.
type SessionErrorType struct {
	Open *OpenObject
}

func (t *SessionErrorType) objects() []Object { return nil }
func (t *SessionErrorType) name() string      { return "session" }

// PCErr Message
type ErrorMessage struct {
	ErrorType ErrorType
	Errors    []*PCEPErrorObject
}

func (m *ErrorMessage) MessageType() MessageType {
	return MessageTypeError
}

func (m *ErrorMessage) Objects() []Object {
	var objs []Object
	if m.ErrorType != nil {
		objs = append(objs, m.ErrorType.objects()...)
	}
	objs = append(objs, asObjects(m.Errors)...)
	if t, ok := m.ErrorType.(*SessionErrorType); ok && t.Open != nil {
		objs = append(objs, t.Open)
	}
	return objs
}

func (m *ErrorMessage) Serialize() ([]uint8, error) {
	return SerializeMessage(m)
}

func (m *ErrorMessage) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	if m.ErrorType != nil {
		enc.AddString("errorType", m.ErrorType.name())
	}
	return marshalMessage(enc, m)
}

// Codes returns the error codes carried by the message.
func (m *ErrorMessage) Codes() []PCEPError {
	codes := make([]PCEPError, 0, len(m.Errors))
	for _, e := range m.Errors {
		codes = append(codes, e.Code())
	}
	return codes
}

// NewErrorMessageFromCode builds a PCErr for code, referring to rp when
// it is not nil.
func NewErrorMessageFromCode(code PCEPError, rp *RPObject) *ErrorMessage {
	m := &ErrorMessage{
		Errors: []*PCEPErrorObject{NewPCEPErrorObject(code)},
	}
	if rp != nil {
		m.ErrorType = &RequestErrorType{RPs: []*RPObject{rp}}
	}
	return m
}

func NewStatefulErrorMessage(code PCEPError, srps ...*SRPObject) *ErrorMessage {
	return &ErrorMessage{
		ErrorType: &StatefulErrorType{SRPs: srps},
		Errors:    []*PCEPErrorObject{NewPCEPErrorObject(code)},
	}
}

func parseErrorMessage(s *objectStream) (Message, error) {
	if s.empty() {
		return nil, deserializeErrorf("Error message is empty.")
	}
	switch s.peek().(type) {
	case *PCEPErrorObject, *RPObject, *SRPObject:
	default:
		return nil, deserializeErrorf("At least one PCEPErrorObject is mandatory.")
	}

	var (
		errs []*PCEPErrorObject
		rps  []*RPObject
		srps []*SRPObject
		open *OpenObject
	)
	c := newChain(s,
		many(&errs),
		many(&rps),
		many(&srps),
		custom(func(o Object) bool {
			v, ok := o.(*OpenObject)
			if !ok || len(rps) > 0 || len(srps) > 0 {
				return false
			}
			open = v
			return true
		}),
		many(&errs),
	)
	for !s.empty() {
		if u, ok := s.peek().(*UnknownObject); ok {
			return &ErrorMessage{Errors: []*PCEPErrorObject{u.ErrorObject()}}, nil
		}
		if !c.next() {
			break
		}
	}

	if len(errs) == 0 {
		return nil, deserializeErrorf("At least one PCEPErrorObject is mandatory.")
	}
	if err := s.finish(); err != nil {
		return nil, err
	}
	m := &ErrorMessage{Errors: errs}
	switch {
	case open != nil:
		m.ErrorType = &SessionErrorType{Open: open}
	case len(srps) > 0:
		m.ErrorType = &StatefulErrorType{SRPs: srps}
	case len(rps) > 0:
		m.ErrorType = &RequestErrorType{RPs: rps}
	}
	return m, nil
}
