// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// PCMonReq Message (RFC5886)
type MonitoringRequestMessage struct {
	Monitoring *MonitoringObject
	PCCReqID   *PCCReqIDObject
	PCEIDs     []*PCEIDObject
	SVECs      []*SVECGroup
	Requests   []*Request
}

func (m *MonitoringRequestMessage) MessageType() MessageType {
	return MessageTypeMonitoringRequest
}

func (m *MonitoringRequestMessage) Objects() []Object {
	objs := []Object{m.Monitoring, m.PCCReqID}
	objs = append(objs, asObjects(m.PCEIDs)...)
	for _, g := range m.SVECs {
		objs = append(objs, g.objects()...)
	}
	for _, r := range m.Requests {
		objs = append(objs, r.objects()...)
	}
	return objs
}

func (m *MonitoringRequestMessage) Serialize() ([]uint8, error) {
	return SerializeMessage(m)
}

func (m *MonitoringRequestMessage) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return marshalMessage(enc, m)
}

func parseMonitoringRequestMessage(s *objectStream) (Message, error) {
	mon, ok := popIf[*MonitoringObject](s)
	if !ok {
		s.addError(PCEPErrMonitoringObjectMissing, nil)
		return nil, nil
	}
	m := &MonitoringRequestMessage{Monitoring: mon}
	m.PCCReqID, _ = popIf[*PCCReqIDObject](s)
	m.PCEIDs = popAll[*PCEIDObject](s)
	m.SVECs = parseSVECGroups(s)
	m.Requests = parseRequests(s)
	if err := s.finish(); err != nil {
		return nil, err
	}
	return m, nil
}

// SpecificMetrics is the monitoring data of one request.
type SpecificMetrics struct {
	RP         *RPObject
	MetricPCEs []*MetricPCE
}

// PCMonRep Message (RFC5886). General and Specific are mutually exclusive:
// the reply carries either one PCE-ID led list or per-request lists.
type MonitoringReplyMessage struct {
	Monitoring *MonitoringObject
	PCCReqID   *PCCReqIDObject
	General    []*MetricPCE
	Specific   []*SpecificMetrics
}

func (m *MonitoringReplyMessage) MessageType() MessageType {
	return MessageTypeMonitoringReply
}

func (m *MonitoringReplyMessage) Objects() []Object {
	objs := []Object{m.Monitoring, m.PCCReqID}
	objs = append(objs, metricPCEObjects(m.General)...)
	for _, sm := range m.Specific {
		objs = append(objs, sm.RP)
		objs = append(objs, metricPCEObjects(sm.MetricPCEs)...)
	}
	return objs
}

func (m *MonitoringReplyMessage) Serialize() ([]uint8, error) {
	if len(m.General) > 0 && len(m.Specific) > 0 {
		return nil, fmt.Errorf("monitoring reply carries both general and specific metrics")
	}
	return SerializeMessage(m)
}

func (m *MonitoringReplyMessage) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return marshalMessage(enc, m)
}

func parseMonitoringReplyMessage(s *objectStream) (Message, error) {
	mon, ok := popIf[*MonitoringObject](s)
	if !ok {
		s.addError(PCEPErrMonitoringObjectMissing, nil)
		return nil, nil
	}
	m := &MonitoringReplyMessage{Monitoring: mon}
	m.PCCReqID, _ = popIf[*PCCReqIDObject](s)
	if peekIs[*RPObject](s) {
		for {
			rp, ok := popIf[*RPObject](s)
			if !ok {
				break
			}
			m.Specific = append(m.Specific, &SpecificMetrics{
				RP:         rp,
				MetricPCEs: parseMetricPCEs(s),
			})
		}
	} else {
		m.General = parseMetricPCEs(s)
	}
	if err := s.finish(); err != nil {
		return nil, err
	}
	return m, nil
}
