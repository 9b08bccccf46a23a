// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"go.uber.org/zap/zapcore"
)

// Failure is the result of a request no path was found for.
type Failure struct {
	NoPath    *NoPathObject
	LSPA      *LSPAObject
	Bandwidth *BandwidthObject
	Metrics   []*MetricObject
	IRO       *IROObject
}

func (f *Failure) objects() []Object {
	objs := []Object{f.NoPath, f.LSPA, f.Bandwidth}
	objs = append(objs, asObjects(f.Metrics)...)
	return append(objs, f.IRO)
}

type Path struct {
	ERO       *EROObject
	LSPA      *LSPAObject
	OF        *OFObject
	Bandwidth *BandwidthObject
	Metrics   []*MetricObject
	IRO       *IROObject
}

func (p *Path) objects() []Object {
	objs := []Object{p.ERO, p.LSPA, p.OF, p.Bandwidth}
	objs = append(objs, asObjects(p.Metrics)...)
	return append(objs, p.IRO)
}

type Success struct {
	Paths             []*Path
	VendorInformation []*VendorInformationObject
}

func (s *Success) objects() []Object {
	var objs []Object
	for _, p := range s.Paths {
		objs = append(objs, p.objects()...)
	}
	return append(objs, asObjects(s.VendorInformation)...)
}

type Reply struct {
	RP                *RPObject
	Monitoring        *MonitoringObject
	PCCReqID          *PCCReqIDObject
	VendorInformation []*VendorInformationObject
	// At most one of Failure and Success is set.
	Failure    *Failure
	Success    *Success
	MetricPCEs []*MetricPCE
}

func (r *Reply) objects() []Object {
	objs := []Object{r.RP, r.Monitoring, r.PCCReqID}
	objs = append(objs, asObjects(r.VendorInformation)...)
	switch {
	case r.Failure != nil:
		objs = append(objs, r.Failure.objects()...)
	case r.Success != nil:
		objs = append(objs, r.Success.objects()...)
	}
	return append(objs, metricPCEObjects(r.MetricPCEs)...)
}

// PCRep Message
type ReplyMessage struct {
	Replies []*Reply
}

func (m *ReplyMessage) MessageType() MessageType {
	return MessageTypeReply
}

func (m *ReplyMessage) Objects() []Object {
	var objs []Object
	for _, r := range m.Replies {
		objs = append(objs, r.objects()...)
	}
	return objs
}

func (m *ReplyMessage) Serialize() ([]uint8, error) {
	return SerializeMessage(m)
}

func (m *ReplyMessage) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return marshalMessage(enc, m)
}

func parseReplyMessage(s *objectStream) (Message, error) {
	if s.empty() {
		return nil, deserializeErrorf("Pcrep message cannot be empty.")
	}
	m := &ReplyMessage{}
	for !s.empty() {
		rp, ok := popIf[*RPObject](s)
		if !ok {
			// the stray object is dropped and reported once
			s.pop()
			if !s.hasError(PCEPErrRPMissing) {
				s.addError(PCEPErrRPMissing, nil)
			}
			continue
		}
		m.Replies = append(m.Replies, parseReply(s, rp))
	}
	if len(m.Replies) == 0 {
		return nil, nil
	}
	return m, nil
}

func parseReply(s *objectStream, rp *RPObject) *Reply {
	r := &Reply{RP: rp}
	r.Monitoring, _ = popIf[*MonitoringObject](s)
	r.PCCReqID, _ = popIf[*PCCReqIDObject](s)
	r.VendorInformation = popAll[*VendorInformationObject](s)

	if noPath, ok := popIf[*NoPathObject](s); ok {
		f := &Failure{NoPath: noPath}
		runChain(s,
			one(&f.LSPA),
			one(&f.Bandwidth),
			many(&f.Metrics),
			one(&f.IRO),
		)
		r.Failure = f
	} else if peekIs[*EROObject](s) {
		success := &Success{}
		for {
			ero, ok := popIf[*EROObject](s)
			if !ok {
				break
			}
			p := &Path{ERO: ero}
			runChain(s,
				one(&p.LSPA),
				one(&p.OF),
				one(&p.Bandwidth),
				many(&p.Metrics),
				one(&p.IRO),
			)
			success.Paths = append(success.Paths, p)
		}
		success.VendorInformation = popAll[*VendorInformationObject](s)
		r.Success = success
	}

	r.MetricPCEs = parseMetricPCEs(s)
	return r
}
