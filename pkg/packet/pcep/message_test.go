// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"errors"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frame serializes objs behind a common header of type mt.
func frame(t *testing.T, mt MessageType, objs ...Object) []byte {
	t.Helper()
	body, err := serializeObjects(objs...)
	require.NoError(t, err)
	h := NewCommonHeader(mt, CommonHeaderLength+uint16(len(body)))
	return append(h.Serialize(), body...)
}

func errorCodes(errs []*ErrorMessage) []PCEPError {
	var codes []PCEPError
	for _, e := range errs {
		codes = append(codes, e.Codes()...)
	}
	return codes
}

func TestDecodeCommonHeader(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		want    *CommonHeader
		wantErr bool
	}{
		{
			name:  "Keepalive header",
			input: []byte{0x20, 0x02, 0x00, 0x04},
			want:  &CommonHeader{Version: 1, MessageType: MessageTypeKeepalive, MessageLength: 4},
		},
		{
			name:    "Version 2 is rejected",
			input:   []byte{0x40, 0x02, 0x00, 0x04},
			wantErr: true,
		},
		{
			name:    "Length shorter than the header",
			input:   []byte{0x20, 0x02, 0x00, 0x03},
			wantErr: true,
		},
		{
			name:    "Truncated header",
			input:   []byte{0x20, 0x02},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := DecodeCommonHeader(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, h)
		})
	}
}

func TestKeepaliveMessage(t *testing.T) {
	data := []byte{0x20, 0x02, 0x00, 0x04}

	m, errs, err := ParseMessage(data)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Same(t, NewKeepaliveMessage(), m)

	b, err := NewKeepaliveMessage().Serialize()
	require.NoError(t, err)
	assert.Equal(t, data, b)
}

func TestParseMessageFraming(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		wantErr string
	}{
		{
			name:    "Declared length larger than the buffer",
			input:   []byte{0x20, 0x02, 0x00, 0x08},
			wantErr: "Body size 0 does not match header size 4",
		},
		{
			name:    "Unknown message type",
			input:   []byte{0x20, 0x7f, 0x00, 0x04},
			wantErr: "Unknown message type 127",
		},
		{
			name:    "Open without objects",
			input:   []byte{0x20, 0x01, 0x00, 0x04},
			wantErr: "Open message doesn't contain OPEN object.",
		},
		{
			name:    "Truncated object",
			input:   []byte{0x20, 0x07, 0x00, 0x08, 0x0f, 0x10, 0x00, 0x08},
			wantErr: "Object length 8 out of range",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, errs, err := ParseMessage(tt.input)
			assert.Nil(t, m)
			assert.Empty(t, errs)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			var de *DeserializeError
			assert.True(t, errors.As(err, &de))
		})
	}
}

func TestUnprocessedObjects(t *testing.T) {
	data := frame(t, MessageTypeKeepalive, &CloseObject{Reason: CloseReasonNoExplanation})

	m, errs, err := ParseMessage(data)
	assert.Nil(t, m)
	assert.Empty(t, errs)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnprocessedObjects)
}

func TestOpenMessage(t *testing.T) {
	open := NewOpenMessage(7, 30, nil)
	data, err := open.Serialize()
	require.NoError(t, err)
	assert.Equal(t, []byte{
		0x20, 0x01, 0x00, 0x0c, // common header
		0x01, 0x12, 0x00, 0x08, // OPEN object header, P flag set
		0x20, 30, 120, 7,
	}, data)

	m, errs, err := ParseMessage(data)
	require.NoError(t, err)
	assert.Empty(t, errs)
	got, ok := m.(*OpenMessage)
	require.True(t, ok)
	assert.Equal(t, open.Open, got.Open)
}

func TestOpenMessageCapabilities(t *testing.T) {
	caps := DefaultCapabilities(CapabilityOptions{Instantiation: true, SRv6: true})
	data, err := NewOpenMessage(1, 30, caps).Serialize()
	require.NoError(t, err)

	m, _, err := ParseMessage(data)
	require.NoError(t, err)
	open := m.(*OpenMessage).Open
	assert.Contains(t, open.CapStrings(), "Instantiation")
	assert.Len(t, open.Capabilities(), len(caps))
}

func TestErrorMessage(t *testing.T) {
	rp := NewRPObject(1)
	perr := &PCEPErrorObject{ObjectFlags: ObjectFlags{ProcessingRule: true}, ErrorType: 6, ErrorValue: 1}
	srp := &SRPObject{ObjectFlags: ObjectFlags{ProcessingRule: true}, SRPID: 9}
	open := NewOpenObject(1, 30, nil)
	unknown := []byte{0x7f, 0x12, 0x00, 0x04}

	tests := []struct {
		name    string
		input   []byte
		want    *ErrorMessage
		wantErr bool
	}{
		{
			name:  "Request error",
			input: frame(t, MessageTypeError, rp, perr),
			want: &ErrorMessage{
				ErrorType: &RequestErrorType{RPs: []*RPObject{rp}},
				Errors:    []*PCEPErrorObject{perr},
			},
		},
		{
			name:  "Error without error type",
			input: frame(t, MessageTypeError, perr),
			want:  &ErrorMessage{Errors: []*PCEPErrorObject{perr}},
		},
		{
			name:  "Stateful error",
			input: frame(t, MessageTypeError, srp, perr),
			want: &ErrorMessage{
				ErrorType: &StatefulErrorType{SRPs: []*SRPObject{srp}},
				Errors:    []*PCEPErrorObject{perr},
			},
		},
		{
			name:  "Session error with OPEN",
			input: frame(t, MessageTypeError, perr, open),
			want: &ErrorMessage{
				ErrorType: &SessionErrorType{Open: open},
				Errors:    []*PCEPErrorObject{perr},
			},
		},
		{
			name:  "Unknown object replaces the matched errors",
			input: append(frame(t, MessageTypeError, perr), unknown...),
			want: &ErrorMessage{
				Errors: []*PCEPErrorObject{NewPCEPErrorObject(PCEPErrUnrecognizedObjectClass)},
			},
		},
		{
			name:    "RP without error",
			input:   frame(t, MessageTypeError, rp),
			wantErr: true,
		},
		{
			name:    "Leading object of the wrong class",
			input:   frame(t, MessageTypeError, open, perr),
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want != nil && len(tt.input) > 0 {
				// fix the header length after raw appends
				tt.input[2] = uint8(len(tt.input) >> 8)
				tt.input[3] = uint8(len(tt.input))
			}
			m, _, err := ParseMessage(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m)
		})
	}
}

func TestErrorMessageRoundTrip(t *testing.T) {
	m := NewStatefulErrorMessage(PCEPErrLSPMissing, &SRPObject{ObjectFlags: ObjectFlags{ProcessingRule: true}, SRPID: 3})
	data, err := m.Serialize()
	require.NoError(t, err)

	got, _, err := ParseMessage(data)
	require.NoError(t, err)
	assert.Equal(t, []PCEPError{PCEPErrLSPMissing}, got.(*ErrorMessage).Codes())
	assert.Equal(t, m.ErrorType, got.(*ErrorMessage).ErrorType)
}

func TestCloseMessage(t *testing.T) {
	data, err := NewCloseMessage(CloseReasonDeadTimerExpired).Serialize()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x20, 0x07, 0x00, 0x0c, 0x0f, 0x12, 0x00, 0x08, 0x00, 0x00, 0x00, 0x02}, data)

	m, _, err := ParseMessage(data)
	require.NoError(t, err)
	assert.Equal(t, CloseReasonDeadTimerExpired, m.(*CloseMessage).Close.Reason)
}

func TestNotificationMessage(t *testing.T) {
	rp := NewRPObject(4)
	notRequired := &RPObject{RequestID: 5}
	ntf := &NotificationObject{
		ObjectFlags:       ObjectFlags{ProcessingRule: true},
		NotificationType:  NotificationTypeOverloaded,
		NotificationValue: NotificationValuePCEOverloaded,
	}

	t.Run("RP scoped notification", func(t *testing.T) {
		m, errs, err := ParseMessage(frame(t, MessageTypeNotification, rp, ntf))
		require.NoError(t, err)
		assert.Empty(t, errs)
		assert.Equal(t, &NotificationMessage{
			Groups: []*NotificationGroup{{RPs: []*RPObject{rp}, Notifications: []*NotificationObject{ntf}}},
		}, m)
	})

	t.Run("RP without the P flag", func(t *testing.T) {
		m, errs, err := ParseMessage(frame(t, MessageTypeNotification, notRequired, ntf))
		require.NoError(t, err)
		assert.Nil(t, m)
		require.Len(t, errs, 1)
		assert.Equal(t, []PCEPError{PCEPErrPFlagNotSet}, errs[0].Codes())
		assert.Equal(t, &RequestErrorType{RPs: []*RPObject{notRequired}}, errs[0].ErrorType)
	})

	t.Run("Two groups", func(t *testing.T) {
		m, _, err := ParseMessage(frame(t, MessageTypeNotification, ntf, rp, ntf, ntf))
		require.NoError(t, err)
		groups := m.(*NotificationMessage).Groups
		require.Len(t, groups, 2)
		assert.Empty(t, groups[0].RPs)
		assert.Len(t, groups[1].Notifications, 2)
	})

	t.Run("RP without notification", func(t *testing.T) {
		_, _, err := ParseMessage(frame(t, MessageTypeNotification, rp))
		assert.Error(t, err)
	})

	t.Run("Builder", func(t *testing.T) {
		data, err := NewNotificationMessage(NotificationTypePendingRequestCancelled, NotificationValuePCECancelled, rp).Serialize()
		require.NoError(t, err)
		m, _, err := ParseMessage(data)
		require.NoError(t, err)
		g := m.(*NotificationMessage).Groups[0]
		assert.Equal(t, uint32(4), g.RPs[0].RequestID)
		assert.Equal(t, NotificationValuePCECancelled, g.Notifications[0].NotificationValue)
	})
}

func TestRequestMessage(t *testing.T) {
	ep, err := NewEndpointsObject(mustAddr("192.0.2.1"), mustAddr("192.0.2.2"))
	require.NoError(t, err)
	bw := &BandwidthObject{ObjectFlags: ObjectFlags{ProcessingRule: true}, Bandwidth: 1000}
	rro := &RROObject{}
	rro.Subobjects = []RouteSubobject{{Subobject: &IPv4PrefixSubobject{Prefix: mustPrefix("192.0.2.9/32")}}}

	reopt := NewRPObject(1)
	reopt.Reoptimization = true

	t.Run("Minimal request", func(t *testing.T) {
		rp := NewRPObject(1)
		metric := &MetricObject{MetricType: MetricTypeTE, MetricValue: 10}
		m, errs, err := ParseMessage(frame(t, MessageTypeRequest, rp, ep, bw, metric))
		require.NoError(t, err)
		assert.Empty(t, errs)
		req := m.(*RequestMessage).Requests[0]
		assert.Equal(t, rp, req.RP)
		require.NotNil(t, req.P2P)
		assert.Equal(t, ep, req.P2P.Endpoints)
		assert.Equal(t, bw, req.P2P.Bandwidth)
		assert.Equal(t, []*MetricObject{metric}, req.P2P.Metrics)
	})

	t.Run("Reoptimization without RRO", func(t *testing.T) {
		m, errs, err := ParseMessage(frame(t, MessageTypeRequest, reopt, ep, bw))
		require.NoError(t, err)
		assert.Nil(t, m)
		require.Len(t, errs, 1)
		assert.Equal(t, []PCEPError{PCEPErrRROMissing}, errs[0].Codes())
		assert.Equal(t, &RequestErrorType{RPs: []*RPObject{reopt}}, errs[0].ErrorType)
	})

	t.Run("Reoptimization with RRO", func(t *testing.T) {
		reoptBW := &ReoptimizationBandwidthObject{Bandwidth: 500}
		m, errs, err := ParseMessage(frame(t, MessageTypeRequest, reopt, ep, rro, reoptBW, bw))
		require.NoError(t, err)
		assert.Empty(t, errs)
		c := m.(*RequestMessage).Requests[0].P2P
		require.NotNil(t, c.ReportedRoute)
		assert.Equal(t, float32(500), c.ReportedRoute.ReoptimizationBandwidth.Bandwidth)
		assert.Equal(t, bw, c.Bandwidth)
	})

	t.Run("Missing RP", func(t *testing.T) {
		m, errs, err := ParseMessage(frame(t, MessageTypeRequest, ep))
		require.NoError(t, err)
		assert.Nil(t, m)
		assert.Equal(t, []PCEPError{PCEPErrRPMissing}, errorCodes(errs))
	})

	t.Run("Missing END-POINTS", func(t *testing.T) {
		rp := NewRPObject(2)
		m, errs, err := ParseMessage(frame(t, MessageTypeRequest, rp, bw))
		require.NoError(t, err)
		assert.Nil(t, m)
		assert.Equal(t, []PCEPError{PCEPErrEndPointsMissing}, errorCodes(errs))
	})

	t.Run("RP without the P flag", func(t *testing.T) {
		m, errs, err := ParseMessage(frame(t, MessageTypeRequest, &RPObject{RequestID: 3}, ep))
		require.NoError(t, err)
		assert.Nil(t, m)
		assert.Equal(t, []PCEPError{PCEPErrPFlagNotSet}, errorCodes(errs))
	})

	t.Run("SVEC and P2MP request", func(t *testing.T) {
		svec := &SVECObject{ObjectFlags: ObjectFlags{ProcessingRule: true}, LinkDiverse: true, RequestIDs: []uint32{1, 2}}
		of := &OFObject{ObjectFlags: ObjectFlags{ProcessingRule: true}, Code: OFCodeMCP}
		p2mp := NewRPObject(2)
		p2mp.P2MP = true
		leaves := &EndpointsObject{
			ObjectFlags:  ObjectFlags{ProcessingRule: true},
			ObjectType:   ObjectTypeEndpointsP2MPIPv4,
			LeafType:     LeafTypeNew,
			Source:       mustAddr("192.0.2.1"),
			Destinations: []netip.Addr{mustAddr("192.0.2.2"), mustAddr("192.0.2.3")},
		}
		m, errs, err := ParseMessage(frame(t, MessageTypeRequest, svec, of, p2mp, leaves, bw))
		require.NoError(t, err)
		assert.Empty(t, errs)
		msg := m.(*RequestMessage)
		require.Len(t, msg.SVECs, 1)
		assert.Equal(t, of, msg.SVECs[0].OF)
		c := msg.Requests[0].P2MP
		require.NotNil(t, c)
		require.Len(t, c.EndpointRROPairs, 1)
		assert.Equal(t, leaves, c.EndpointRROPairs[0].Endpoints)
		assert.Equal(t, bw, c.Bandwidth)
	})
}

func TestReplyMessage(t *testing.T) {
	rp := NewRPObject(1)
	ero, err := NewEROObject(testSegments(16001, 16002))
	require.NoError(t, err)
	bw := &BandwidthObject{ObjectFlags: ObjectFlags{ProcessingRule: true}, Bandwidth: 100}
	noPath := &NoPathObject{ObjectFlags: ObjectFlags{ProcessingRule: true}, NatureOfIssue: NoPathNatureNoPathFound}

	t.Run("Success with two paths", func(t *testing.T) {
		m, errs, err := ParseMessage(frame(t, MessageTypeReply, rp, ero, bw, ero))
		require.NoError(t, err)
		assert.Empty(t, errs)
		r := m.(*ReplyMessage).Replies[0]
		require.NotNil(t, r.Success)
		require.Len(t, r.Success.Paths, 2)
		assert.Equal(t, bw, r.Success.Paths[0].Bandwidth)
		assert.Equal(t, testSegments(16001, 16002), r.Success.Paths[1].ERO.Segments())
	})

	t.Run("Failure", func(t *testing.T) {
		m, _, err := ParseMessage(frame(t, MessageTypeReply, rp, noPath, bw))
		require.NoError(t, err)
		r := m.(*ReplyMessage).Replies[0]
		assert.Nil(t, r.Success)
		require.NotNil(t, r.Failure)
		assert.Equal(t, bw, r.Failure.Bandwidth)
	})

	t.Run("Two replies with monitoring tail", func(t *testing.T) {
		pceID := &PCEIDObject{addressObject{ObjectFlags: ObjectFlags{ProcessingRule: true}, Address: mustAddr("198.51.100.1")}}
		m, _, err := ParseMessage(frame(t, MessageTypeReply, rp, noPath, pceID, NewRPObject(2), ero))
		require.NoError(t, err)
		replies := m.(*ReplyMessage).Replies
		require.Len(t, replies, 2)
		require.Len(t, replies[0].MetricPCEs, 1)
		assert.Equal(t, mustAddr("198.51.100.1"), replies[0].MetricPCEs[0].PCEID.Address)
		assert.NotNil(t, replies[1].Success)
	})

	t.Run("Missing RP", func(t *testing.T) {
		m, errs, err := ParseMessage(frame(t, MessageTypeReply, ero))
		require.NoError(t, err)
		assert.Nil(t, m)
		assert.Equal(t, []PCEPError{PCEPErrRPMissing}, errorCodes(errs))
	})
}

func TestMonitoringMessages(t *testing.T) {
	mon := &MonitoringObject{ObjectFlags: ObjectFlags{ProcessingRule: true}, ProcessingTime: true, MonitoringID: 7}
	pceID := &PCEIDObject{addressObject{ObjectFlags: ObjectFlags{ProcessingRule: true}, Address: mustAddr("198.51.100.1")}}
	procTime := &ProcTimeObject{Current: 3, Min: 1, Max: 9, Average: 4}

	t.Run("General reply", func(t *testing.T) {
		m, _, err := ParseMessage(frame(t, MessageTypeMonitoringReply, mon, pceID, procTime))
		require.NoError(t, err)
		rep := m.(*MonitoringReplyMessage)
		assert.Empty(t, rep.Specific)
		require.Len(t, rep.General, 1)
		assert.Equal(t, uint32(9), rep.General[0].ProcTime.Max)
	})

	t.Run("Specific reply", func(t *testing.T) {
		m, _, err := ParseMessage(frame(t, MessageTypeMonitoringReply, mon, NewRPObject(1), pceID, NewRPObject(2), pceID, procTime))
		require.NoError(t, err)
		rep := m.(*MonitoringReplyMessage)
		assert.Empty(t, rep.General)
		require.Len(t, rep.Specific, 2)
		assert.Equal(t, uint32(2), rep.Specific[1].RP.RequestID)
		assert.NotNil(t, rep.Specific[1].MetricPCEs[0].ProcTime)
	})

	t.Run("Reply without MONITORING", func(t *testing.T) {
		m, errs, err := ParseMessage(frame(t, MessageTypeMonitoringReply, pceID))
		require.NoError(t, err)
		assert.Nil(t, m)
		assert.Equal(t, []PCEPError{PCEPErrMonitoringObjectMissing}, errorCodes(errs))
	})

	t.Run("Request", func(t *testing.T) {
		ep, err := NewEndpointsObject(mustAddr("192.0.2.1"), mustAddr("192.0.2.2"))
		require.NoError(t, err)
		m, _, err := ParseMessage(frame(t, MessageTypeMonitoringRequest, mon, pceID, NewRPObject(1), ep))
		require.NoError(t, err)
		req := m.(*MonitoringRequestMessage)
		assert.Equal(t, uint32(7), req.Monitoring.MonitoringID)
		assert.Len(t, req.PCEIDs, 1)
		assert.Len(t, req.Requests, 1)
	})

	t.Run("Reply mixing general and specific lists", func(t *testing.T) {
		m := &MonitoringReplyMessage{
			Monitoring: mon,
			General:    []*MetricPCE{{PCEID: pceID}},
			Specific:   []*SpecificMetrics{{RP: NewRPObject(1)}},
		}
		_, err := m.Serialize()
		assert.Error(t, err)
	})
}

func TestMessageTypeString(t *testing.T) {
	assert.Equal(t, "PCInitiate", MessageTypeInitiate.String())
	assert.Equal(t, "Unknown MessageType (0x42)", MessageType(0x42).String())
	assert.Len(t, MessageTypes(), 13)
}
