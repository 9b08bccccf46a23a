// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"go.uber.org/zap/zapcore"
)

// MonitoringRequest is the optional monitoring prefix of a PCReq.
type MonitoringRequest struct {
	Monitoring *MonitoringObject
	PCCReqID   *PCCReqIDObject
	PCEIDs     []*PCEIDObject
}

func (m *MonitoringRequest) objects() []Object {
	if m == nil {
		return nil
	}
	return append([]Object{m.Monitoring, m.PCCReqID}, asObjects(m.PCEIDs)...)
}

// SVECGroup is an SVEC object with the objects that apply to the whole
// synchronized set.
type SVECGroup struct {
	SVEC              *SVECObject
	OF                *OFObject
	GC                *GlobalConstraintsObject
	XRO               *XROObject
	Metrics           []*MetricObject
	VendorInformation []*VendorInformationObject
}

func (g *SVECGroup) objects() []Object {
	objs := []Object{g.SVEC, g.OF, g.GC, g.XRO}
	objs = append(objs, asObjects(g.Metrics)...)
	return append(objs, asObjects(g.VendorInformation)...)
}

type Request struct {
	RP                *RPObject
	VendorInformation []*VendorInformationObject
	PathKey           *PathKeyObject
	// Exactly one of P2P and P2MP is set, following the RP P2MP flag.
	P2P  *P2PSegmentComputation
	P2MP *P2MPSegmentComputation
}

func (r *Request) objects() []Object {
	objs := append([]Object{r.RP}, asObjects(r.VendorInformation)...)
	objs = append(objs, r.PathKey)
	switch {
	case r.P2P != nil:
		objs = append(objs, r.P2P.objects()...)
	case r.P2MP != nil:
		objs = append(objs, r.P2MP.objects()...)
	}
	return objs
}

// ReportedRoute is the route of the LSP being reoptimized.
type ReportedRoute struct {
	RRO                     *RROObject
	ReoptimizationBandwidth *ReoptimizationBandwidthObject
}

type P2PSegmentComputation struct {
	Endpoints         *EndpointsObject
	ReportedRoute     *ReportedRoute
	VendorInformation []*VendorInformationObject
	LoadBalancing     *LoadBalancingObject
	LSPA              *LSPAObject
	Bandwidth         *BandwidthObject
	Metrics           []*MetricObject
	IRO               *IROObject
	RRO               *RROObject
	XRO               *XROObject
	OF                *OFObject
	ClassType         *ClassTypeObject
}

func (c *P2PSegmentComputation) objects() []Object {
	objs := []Object{c.Endpoints}
	if c.ReportedRoute != nil {
		objs = append(objs, c.ReportedRoute.RRO, c.ReportedRoute.ReoptimizationBandwidth)
	}
	objs = append(objs, asObjects(c.VendorInformation)...)
	objs = append(objs, c.LoadBalancing, c.LSPA, c.Bandwidth)
	objs = append(objs, asObjects(c.Metrics)...)
	return append(objs, c.IRO, c.RRO, c.XRO, c.OF, c.ClassType)
}

func (c *P2PSegmentComputation) hasRRO() bool {
	return c.RRO != nil || (c.ReportedRoute != nil && c.ReportedRoute.RRO != nil)
}

// EndpointRROPair groups one P2MP END-POINTS object with the reported
// routes of its leaves.
type EndpointRROPair struct {
	Endpoints               *EndpointsObject
	RROs                    []ReportedRouteObject
	ReoptimizationBandwidth *ReoptimizationBandwidthObject
}

type P2MPSegmentComputation struct {
	EndpointRROPairs []*EndpointRROPair
	OF               *OFObject
	LSPA             *LSPAObject
	Bandwidth        *BandwidthObject
	Metrics          []*MetricObject
	IRO              *IROObject
	BNC              *BranchNodeListObject
	LoadBalancing    *LoadBalancingObject
}

func (c *P2MPSegmentComputation) objects() []Object {
	var objs []Object
	for _, p := range c.EndpointRROPairs {
		objs = append(objs, p.Endpoints)
		for _, rro := range p.RROs {
			objs = append(objs, rro)
		}
		objs = append(objs, p.ReoptimizationBandwidth)
	}
	objs = append(objs, c.OF, c.LSPA, c.Bandwidth)
	objs = append(objs, asObjects(c.Metrics)...)
	return append(objs, c.IRO, c.BNC, c.LoadBalancing)
}

// PCReq Message
type RequestMessage struct {
	Monitoring *MonitoringRequest
	SVECs      []*SVECGroup
	Requests   []*Request
}

func (m *RequestMessage) MessageType() MessageType {
	return MessageTypeRequest
}

func (m *RequestMessage) Objects() []Object {
	objs := m.Monitoring.objects()
	for _, g := range m.SVECs {
		objs = append(objs, g.objects()...)
	}
	for _, r := range m.Requests {
		objs = append(objs, r.objects()...)
	}
	return objs
}

func (m *RequestMessage) Serialize() ([]uint8, error) {
	return SerializeMessage(m)
}

func (m *RequestMessage) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return marshalMessage(enc, m)
}

func parseRequestMessage(s *objectStream) (Message, error) {
	if s.empty() {
		return nil, deserializeErrorf("Pcreq message cannot be empty.")
	}
	m := &RequestMessage{
		Monitoring: parseMonitoringRequest(s),
		SVECs:      parseSVECGroups(s),
	}
	m.Requests = parseRequests(s)
	if err := s.finish(); err != nil {
		return nil, err
	}
	if len(m.Requests) == 0 {
		if len(s.errs) == 0 {
			s.addError(PCEPErrRPMissing, nil)
		}
		return nil, nil
	}
	return m, nil
}

func parseMonitoringRequest(s *objectStream) *MonitoringRequest {
	mon, ok := popIf[*MonitoringObject](s)
	if !ok {
		return nil
	}
	m := &MonitoringRequest{Monitoring: mon}
	m.PCCReqID, _ = popIf[*PCCReqIDObject](s)
	m.PCEIDs = popAll[*PCEIDObject](s)
	return m
}

func parseSVECGroups(s *objectStream) []*SVECGroup {
	var groups []*SVECGroup
	for {
		svec, ok := popIf[*SVECObject](s)
		if !ok {
			return groups
		}
		g := &SVECGroup{SVEC: svec}
		runChain(s,
			one(&g.OF),
			one(&g.GC),
			one(&g.XRO),
			many(&g.Metrics),
			many(&g.VendorInformation),
		)
		groups = append(groups, g)
	}
}

// parseRequests reads requests until the stream ends or an RP is missing.
// Requests whose RP lacks the P flag are reported and dropped.
func parseRequests(s *objectStream) []*Request {
	var requests []*Request
	for !s.empty() {
		rp, ok := popIf[*RPObject](s)
		if !ok {
			if !s.hasError(PCEPErrRPMissing) {
				s.addError(PCEPErrRPMissing, nil)
			}
			return requests
		}
		req := &Request{RP: rp}
		rejected := false
		if !rp.ProcessingRule {
			s.addError(PCEPErrPFlagNotSet, nil)
			rejected = true
		}
		req.VendorInformation = popAll[*VendorInformationObject](s)
		if rp.PathKey {
			req.PathKey, _ = popIf[*PathKeyObject](s)
		}
		if !peekIs[*EndpointsObject](s) {
			s.addError(PCEPErrEndPointsMissing, rp)
			return requests
		}

		if rp.P2MP {
			req.P2MP = parseP2MPSegmentComputation(s, rp)
		} else {
			ep, _ := popIf[*EndpointsObject](s)
			if !ep.ProcessingRule {
				s.addError(PCEPErrPFlagNotSet, rp)
				ep = nil
			}
			req.P2P = parseP2PSegmentComputation(s, rp, ep)
		}
		if !rejected && (req.P2P != nil || req.P2MP != nil) {
			requests = append(requests, req)
		}
	}
	return requests
}

// parseP2PSegmentComputation returns nil when a reoptimization request
// lacks the route being reoptimized.
func parseP2PSegmentComputation(s *objectStream, rp *RPObject, ep *EndpointsObject) *P2PSegmentComputation {
	c := &P2PSegmentComputation{Endpoints: ep}
	runChain(s,
		custom(func(o Object) bool {
			rro, ok := o.(*RROObject)
			if !ok {
				return false
			}
			c.ReportedRoute = &ReportedRoute{RRO: rro}
			c.ReportedRoute.ReoptimizationBandwidth, _ = popIf[*ReoptimizationBandwidthObject](s)
			return true
		}),
		many(&c.VendorInformation),
		one(&c.LoadBalancing),
		one(&c.LSPA),
		one(&c.Bandwidth),
		many(&c.Metrics),
		one(&c.IRO),
		one(&c.RRO),
		one(&c.XRO),
		one(&c.OF),
		custom(func(o Object) bool {
			ct, ok := o.(*ClassTypeObject)
			if !ok {
				return false
			}
			if !ct.ProcessingRule {
				s.addError(PCEPErrPFlagNotSet, rp)
			} else {
				c.ClassType = ct
			}
			return true
		}),
	)
	if rp.Reoptimization && c.Bandwidth != nil && !c.hasRRO() {
		s.addError(PCEPErrRROMissing, rp)
		return nil
	}
	return c
}

func parseP2MPSegmentComputation(s *objectStream, rp *RPObject) *P2MPSegmentComputation {
	c := &P2MPSegmentComputation{}
	for {
		ep, ok := popIf[*EndpointsObject](s)
		if !ok {
			break
		}
		pair := &EndpointRROPair{}
		if ep.ProcessingRule {
			pair.Endpoints = ep
		} else {
			s.addError(PCEPErrPFlagNotSet, rp)
		}
		for {
			rro, ok := s.peek().(ReportedRouteObject)
			if !ok {
				break
			}
			s.pop()
			if rro.Flags().ProcessingRule {
				pair.RROs = append(pair.RROs, rro)
			}
		}
		pair.ReoptimizationBandwidth, _ = popIf[*ReoptimizationBandwidthObject](s)
		c.EndpointRROPairs = append(c.EndpointRROPairs, pair)
	}

	runChain(s,
		one(&c.OF),
		one(&c.LSPA),
		one(&c.Bandwidth),
		many(&c.Metrics),
		custom(func(o Object) bool {
			switch v := o.(type) {
			case *IROObject:
				c.IRO = v
			case *BranchNodeListObject:
				c.BNC = v
			default:
				return false
			}
			return true
		}),
		one(&c.LoadBalancing),
	)

	if rp.Reoptimization && c.Bandwidth != nil {
		for _, p := range c.EndpointRROPairs {
			if len(p.RROs) == 0 || p.ReoptimizationBandwidth == nil {
				s.addError(PCEPErrRROMissing, rp)
				break
			}
		}
	}
	return c
}
