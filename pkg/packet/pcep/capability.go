// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

// CapabilityInterface is a TLV advertised in the OPEN object.
type CapabilityInterface interface {
	TLVInterface
	CapStrings() []string
}

// CapabilityOptions tunes DefaultCapabilities.
type CapabilityOptions struct {
	MaximumSIDDepth uint8
	Instantiation   bool
	SRv6            bool
}

// DefaultCapabilities returns the capability TLVs an active stateful SR
// speaker advertises.
func DefaultCapabilities(opts CapabilityOptions) []CapabilityInterface {
	msd := opts.MaximumSIDDepth
	if msd == 0 {
		msd = 16
	}
	srCap := NewSRPCECapability(false, false, msd)
	psts := Psts{PathSetupTypeRSVPTE, PathSetupTypeSRTE}
	if opts.SRv6 {
		psts = append(psts, PathSetupTypeSRv6TE)
	}
	return []CapabilityInterface{
		&StatefulPCECapability{
			LSPUpdateCapability:        true,
			LSPInstantiationCapability: opts.Instantiation,
		},
		&PathSetupTypeCapability{
			PathSetupTypes: psts,
			SubTLVs:        []TLVInterface{srCap},
		},
		NewSRPCECapability(false, false, msd),
		&AssocTypeList{
			AssocTypes: []AssocType{AssocTypePathProtectionAssociation, AssocTypeSRPolicyAssociation},
		},
	}
}

// Capabilities returns the capability TLVs of the OPEN object.
func (o *OpenObject) Capabilities() []CapabilityInterface {
	var caps []CapabilityInterface
	for _, tlv := range o.TLVs {
		if c, ok := tlv.(CapabilityInterface); ok {
			caps = append(caps, c)
		}
	}
	return caps
}

// CapStrings flattens the capability names advertised in the OPEN object.
func (o *OpenObject) CapStrings() []string {
	var ret []string
	for _, c := range o.Capabilities() {
		ret = append(ret, c.CapStrings()...)
	}
	return ret
}
