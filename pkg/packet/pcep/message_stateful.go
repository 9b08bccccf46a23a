// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"errors"
	"net/netip"

	"go.uber.org/zap/zapcore"

	"github.com/nttcom/pcepcodec/internal/pkg/segment"
)

// IntendedPath is the path a PCE asks the PCC to set up, with its
// attribute list.
type IntendedPath struct {
	ERO       *EROObject
	LSPA      *LSPAObject
	Bandwidth *BandwidthObject
	Metrics   []*MetricObject
	IRO       *IROObject
}

func (p *IntendedPath) objects() []Object {
	if p == nil {
		return nil
	}
	objs := []Object{p.ERO, p.LSPA, p.Bandwidth}
	objs = append(objs, asObjects(p.Metrics)...)
	return append(objs, p.IRO)
}

func (p *IntendedPath) attributeSteps() []grammarStep {
	return []grammarStep{
		one(&p.LSPA),
		one(&p.Bandwidth),
		many(&p.Metrics),
		one(&p.IRO),
	}
}

// ReportedPath is the intended path of a state report along with the
// actual attributes and route of the LSP.
type ReportedPath struct {
	ERO                     *EROObject
	LSPA                    *LSPAObject
	Bandwidth               *BandwidthObject
	ReoptimizationBandwidth *ReoptimizationBandwidthObject
	Metrics                 []*MetricObject
	IRO                     *IROObject
	RRO                     *RROObject
}

func (p *ReportedPath) objects() []Object {
	if p == nil {
		return nil
	}
	objs := []Object{p.ERO, p.LSPA, p.Bandwidth, p.ReoptimizationBandwidth}
	objs = append(objs, asObjects(p.Metrics)...)
	return append(objs, p.IRO, p.RRO)
}

// SRPolicy is the SR Policy view of an LSP: PLSP-ID, name, endpoints,
// color, preference and segment list.
type SRPolicy struct {
	PlspID      uint32
	Name        string
	SrcAddr     netip.Addr
	DstAddr     netip.Addr
	Color       uint32
	Preference  uint32
	SegmentList []segment.Segment
}

func (p *SRPolicy) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("plspID", p.PlspID)
	enc.AddString("name", p.Name)
	enc.AddString("srcAddr", p.SrcAddr.String())
	enc.AddString("dstAddr", p.DstAddr.String())
	enc.AddUint32("color", p.Color)
	enc.AddUint32("preference", p.Preference)
	return enc.AddArray("segmentList", zapcore.ArrayMarshalerFunc(func(enc zapcore.ArrayEncoder) error {
		for _, seg := range p.SegmentList {
			enc.AppendString(seg.SidString())
		}
		return nil
	}))
}

type StateReport struct {
	SRP               *SRPObject
	LSP               *LSPObject
	Associations      []*AssociationObject
	Path              *ReportedPath
	VendorInformation []*VendorInformationObject
}

func (r *StateReport) objects() []Object {
	objs := []Object{r.SRP, r.LSP}
	objs = append(objs, asObjects(r.Associations)...)
	objs = append(objs, r.Path.objects()...)
	return append(objs, asObjects(r.VendorInformation)...)
}

// SRPolicy summarizes the report. Color and preference come from the SR
// Policy association, or from Cisco vendor information when there is none.
func (r *StateReport) SRPolicy() *SRPolicy {
	p := &SRPolicy{
		PlspID: r.LSP.PlspID,
		Name:   r.LSP.Name(),
	}
	p.SrcAddr, p.DstAddr, _ = r.LSP.Endpoints()
	found := false
	for _, a := range r.Associations {
		if color, ok := a.Color(); ok {
			p.Color = color
			p.Preference, _ = a.Preference()
			found = true
			break
		}
	}
	if !found {
		for _, vi := range r.VendorInformation {
			if color, ok := vi.Color(); ok {
				p.Color = color
				p.Preference, _ = vi.Preference()
				break
			}
		}
	}
	if r.Path != nil && r.Path.ERO != nil {
		p.SegmentList = r.Path.ERO.Segments()
	}
	return p
}

// PCRpt Message
type ReportMessage struct {
	Reports []*StateReport
}

func (m *ReportMessage) MessageType() MessageType {
	return MessageTypeReport
}

func (m *ReportMessage) Objects() []Object {
	var objs []Object
	for _, r := range m.Reports {
		objs = append(objs, r.objects()...)
	}
	return objs
}

func (m *ReportMessage) Serialize() ([]uint8, error) {
	return SerializeMessage(m)
}

func (m *ReportMessage) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return marshalMessage(enc, m)
}

func parseReportMessage(s *objectStream) (Message, error) {
	if s.empty() {
		return nil, deserializeErrorf("Pcrpt message cannot be empty.")
	}
	m := &ReportMessage{}
	for !s.empty() {
		if r := parseStateReport(s); r != nil {
			m.Reports = append(m.Reports, r)
		}
	}
	if len(m.Reports) == 0 {
		return nil, nil
	}
	return m, nil
}

// parseStateReport always consumes at least one object.
func parseStateReport(s *objectStream) *StateReport {
	r := &StateReport{}
	r.SRP, _ = popIf[*SRPObject](s)
	lsp, ok := popIf[*LSPObject](s)
	if !ok {
		if r.SRP == nil {
			s.pop()
		}
		if !s.hasError(PCEPErrLSPMissing) {
			s.addError(PCEPErrLSPMissing, nil)
		}
		return nil
	}
	r.LSP = lsp
	valid := true
	sr := r.SRP != nil && r.SRP.IsSegmentRouting()
	if !sr && lsp.PlspID != 0 && !lsp.HasLSPIdentifiers() {
		s.addError(PCEPErrLSPIdentifiersTLVMissing, nil)
		valid = false
	}

	r.Associations = popAll[*AssociationObject](s)
	if hasPath(s) {
		ero, ok := popIf[*EROObject](s)
		if !ok {
			s.pop()
			s.addError(PCEPErrEROMissing, nil)
			return nil
		}
		p := &ReportedPath{ERO: ero}
		// LSPA is accepted before the bandwidth (older drafts) and after
		// the RRO (RFC8231).
		runChain(s,
			one(&p.LSPA),
			custom(func(o Object) bool {
				switch v := o.(type) {
				case *BandwidthObject:
					p.Bandwidth = v
				case *ReoptimizationBandwidthObject:
					p.ReoptimizationBandwidth = v
				default:
					return false
				}
				return true
			}).repeated(),
			many(&p.Metrics),
			one(&p.IRO),
			one(&p.RRO),
			grammarStep{match: one(&p.LSPA).match, jump: 1},
		)
		r.Path = p
	}
	r.Associations = append(r.Associations, popAll[*AssociationObject](s)...)
	r.VendorInformation = popAll[*VendorInformationObject](s)
	if !valid {
		return nil
	}
	return r
}

// hasPath reports whether the next object starts a path rather than the
// next report or the trailing lists.
func hasPath(s *objectStream) bool {
	switch s.peek().(type) {
	case nil, *SRPObject, *LSPObject, *AssociationObject, *VendorInformationObject:
		return false
	}
	return true
}

type UpdateRequest struct {
	SRP               *SRPObject
	LSP               *LSPObject
	Associations      []*AssociationObject
	Path              *IntendedPath
	VendorInformation []*VendorInformationObject
}

func (u *UpdateRequest) objects() []Object {
	objs := []Object{u.SRP, u.LSP}
	objs = append(objs, asObjects(u.Associations)...)
	objs = append(objs, u.Path.objects()...)
	return append(objs, asObjects(u.VendorInformation)...)
}

// PCUpd Message
type UpdateMessage struct {
	Updates []*UpdateRequest
}

func (m *UpdateMessage) MessageType() MessageType {
	return MessageTypeUpdate
}

func (m *UpdateMessage) Objects() []Object {
	var objs []Object
	for _, u := range m.Updates {
		objs = append(objs, u.objects()...)
	}
	return objs
}

func (m *UpdateMessage) Serialize() ([]uint8, error) {
	return SerializeMessage(m)
}

func (m *UpdateMessage) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return marshalMessage(enc, m)
}

func NewUpdateMessage(srpID uint32, lspName string, plspID uint32, segmentList []segment.Segment) (*UpdateMessage, error) {
	srp, err := NewSRPObject(segmentList, srpID, false)
	if err != nil {
		return nil, err
	}
	ero, err := NewEROObject(segmentList)
	if err != nil {
		return nil, err
	}
	return &UpdateMessage{
		Updates: []*UpdateRequest{{
			SRP:  srp,
			LSP:  NewLSPObject(lspName, plspID),
			Path: &IntendedPath{ERO: ero},
		}},
	}, nil
}

func parseUpdateMessage(s *objectStream) (Message, error) {
	if s.empty() {
		return nil, deserializeErrorf("Pcup message cannot be empty.")
	}
	m := &UpdateMessage{}
	for !s.empty() {
		u := &UpdateRequest{}
		var ok bool
		if u.SRP, ok = popIf[*SRPObject](s); !ok {
			s.addError(PCEPErrSRPMissing, nil)
			break
		}
		if u.LSP, ok = popIf[*LSPObject](s); !ok {
			s.addError(PCEPErrLSPMissing, nil)
			break
		}
		u.Associations = popAll[*AssociationObject](s)
		ero, ok := popIf[*EROObject](s)
		if !ok {
			s.addError(PCEPErrEROMissing, nil)
			break
		}
		u.Path = &IntendedPath{ERO: ero}
		runChain(s, u.Path.attributeSteps()...)
		u.Associations = append(u.Associations, popAll[*AssociationObject](s)...)
		u.VendorInformation = popAll[*VendorInformationObject](s)
		m.Updates = append(m.Updates, u)
	}
	if err := s.finish(); err != nil {
		return nil, err
	}
	if len(m.Updates) == 0 {
		return nil, nil
	}
	return m, nil
}

type InitiateRequest struct {
	SRP          *SRPObject
	LSP          *LSPObject
	Associations []*AssociationObject
	Endpoints    *EndpointsObject
	// Path is nil when the request removes an LSP.
	Path              *IntendedPath
	VendorInformation []*VendorInformationObject
}

func (r *InitiateRequest) objects() []Object {
	objs := []Object{r.SRP, r.LSP}
	objs = append(objs, asObjects(r.Associations)...)
	objs = append(objs, r.Endpoints)
	objs = append(objs, r.Path.objects()...)
	return append(objs, asObjects(r.VendorInformation)...)
}

// IsRemoval reports whether the request deletes a PCE-initiated LSP.
func (r *InitiateRequest) IsRemoval() bool {
	return (r.SRP != nil && r.SRP.RFlag) || (r.LSP != nil && r.LSP.RFlag)
}

// PCInitiate Message
type InitiateMessage struct {
	Requests []*InitiateRequest
}

func (m *InitiateMessage) MessageType() MessageType {
	return MessageTypeInitiate
}

func (m *InitiateMessage) Objects() []Object {
	var objs []Object
	for _, r := range m.Requests {
		objs = append(objs, r.objects()...)
	}
	return objs
}

func (m *InitiateMessage) Serialize() ([]uint8, error) {
	return SerializeMessage(m)
}

func (m *InitiateMessage) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return marshalMessage(enc, m)
}

// PCCType selects how color and preference are signalled to the PCC.
type PCCType int

const (
	PCCTypeRFCCompliant PCCType = iota
	PCCTypeCiscoLegacy
	PCCTypeJuniperLegacy
)

type initiateParams struct {
	pccType PCCType
}

type InitiateOption func(*initiateParams)

func WithPCCType(t PCCType) InitiateOption {
	return func(p *initiateParams) {
		p.pccType = t
	}
}

func NewInitiateMessage(srpID uint32, lspName string, segmentList []segment.Segment, color uint32, preference uint32, srcAddr netip.Addr, dstAddr netip.Addr, opts ...InitiateOption) (*InitiateMessage, error) {
	params := initiateParams{pccType: PCCTypeRFCCompliant}
	for _, o := range opts {
		o(&params)
	}

	srp, err := NewSRPObject(segmentList, srpID, false)
	if err != nil {
		return nil, err
	}
	ep, err := NewEndpointsObject(srcAddr, dstAddr)
	if err != nil {
		return nil, err
	}
	ero, err := NewEROObject(segmentList)
	if err != nil {
		return nil, err
	}
	r := &InitiateRequest{
		SRP:       srp,
		LSP:       NewLSPObject(lspName, 0), // PLSP-ID = 0
		Endpoints: ep,
		Path:      &IntendedPath{ERO: ero},
	}
	switch params.pccType {
	case PCCTypeJuniperLegacy:
		r.Associations = []*AssociationObject{NewSRPolicyAssociation(srcAddr, color, dstAddr, preference)}
	case PCCTypeCiscoLegacy:
		r.VendorInformation = []*VendorInformationObject{NewCiscoVendorInformation(color, preference)}
	case PCCTypeRFCCompliant:
		r.Associations = []*AssociationObject{NewSRPolicyAssociation(srcAddr, color, dstAddr, preference)}
		// FRRouting is treated as an RFC compliant
		r.VendorInformation = []*VendorInformationObject{NewCiscoVendorInformation(color, preference)}
	default:
		return nil, errors.New("undefined pcc type")
	}
	return &InitiateMessage{Requests: []*InitiateRequest{r}}, nil
}

func parseInitiateMessage(s *objectStream) (Message, error) {
	if s.empty() {
		return nil, deserializeErrorf("Pcinitiate message cannot be empty.")
	}
	m := &InitiateMessage{}
	for !s.empty() {
		r := &InitiateRequest{}
		var ok bool
		if r.SRP, ok = popIf[*SRPObject](s); !ok {
			s.addError(PCEPErrSRPMissing, nil)
			break
		}
		if r.LSP, ok = popIf[*LSPObject](s); !ok {
			s.addError(PCEPErrLSPMissing, nil)
			break
		}
		r.Associations = popAll[*AssociationObject](s)
		r.Endpoints, _ = popIf[*EndpointsObject](s)
		if ero, ok := popIf[*EROObject](s); ok {
			r.Path = &IntendedPath{ERO: ero}
			runChain(s, r.Path.attributeSteps()...)
		} else if !r.IsRemoval() {
			s.addError(PCEPErrEROMissing, nil)
			break
		}
		r.Associations = append(r.Associations, popAll[*AssociationObject](s)...)
		r.VendorInformation = popAll[*VendorInformationObject](s)
		m.Requests = append(m.Requests, r)
	}
	if err := s.finish(); err != nil {
		return nil, err
	}
	if len(m.Requests) == 0 {
		return nil, nil
	}
	return m, nil
}
