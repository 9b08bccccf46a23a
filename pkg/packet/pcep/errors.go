// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"errors"
	"fmt"
)

// PCEPError is a PCEP Error-Type / Error-value pair packed as Type<<8 | Value.
type PCEPError uint16

func NewPCEPError(errType, errValue uint8) PCEPError {
	return PCEPError(uint16(errType)<<8 | uint16(errValue))
}

// Type returns the Error-Type of the pair.
func (e PCEPError) Type() uint8 {
	return uint8(e >> 8)
}

// Value returns the Error-value of the pair.
func (e PCEPError) Value() uint8 {
	return uint8(e)
}

// PCEP Error-Type / Error-value registry (RFC5440 and extensions)
var (
	// Session establishment failure
	PCEPErrInvalidOpen                = NewPCEPError(1, 1)
	PCEPErrNoOpenBeforeOpenWait       = NewPCEPError(1, 2)
	PCEPErrNonAcceptableNonNegotiable = NewPCEPError(1, 3)
	PCEPErrNonAcceptableNegotiable    = NewPCEPError(1, 4)
	PCEPErrSecondOpen                 = NewPCEPError(1, 5)
	PCEPErrPCErrNonAcceptable         = NewPCEPError(1, 6)
	PCEPErrNoMessageBeforeKeepWait    = NewPCEPError(1, 7)
	PCEPErrVersionNotSupported        = NewPCEPError(1, 8)

	PCEPErrCapabilityNotSupported = NewPCEPError(2, 0)

	PCEPErrUnrecognizedObjectClass = NewPCEPError(3, 1)
	PCEPErrUnrecognizedObjectType  = NewPCEPError(3, 2)

	PCEPErrNotSupportedObjectClass      = NewPCEPError(4, 1)
	PCEPErrNotSupportedObjectType       = NewPCEPError(4, 2)
	PCEPErrUnsupportedParameter         = NewPCEPError(4, 4)
	PCEPErrUnsupportedNetworkConstraint = NewPCEPError(4, 5)
	PCEPErrBandwidthTypeNotSupported    = NewPCEPError(4, 6)
	PCEPErrUnsupportedEndpointType      = NewPCEPError(4, 7)
	PCEPErrUnsupportedEndpointTLV       = NewPCEPError(4, 8)
	PCEPErrUnsupportedGranularity       = NewPCEPError(4, 9)

	PCEPErrCBitSet                   = NewPCEPError(5, 1)
	PCEPErrOBitSet                   = NewPCEPError(5, 2)
	PCEPErrOFNotAllowed              = NewPCEPError(5, 3)
	PCEPErrOFBitSet                  = NewPCEPError(5, 4)
	PCEPErrGCONotAllowed             = NewPCEPError(5, 5)
	PCEPErrP2MPComputationNotAllowed = NewPCEPError(5, 7)

	PCEPErrRPMissing                = NewPCEPError(6, 1)
	PCEPErrRROMissing               = NewPCEPError(6, 2)
	PCEPErrEndPointsMissing         = NewPCEPError(6, 3)
	PCEPErrMonitoringObjectMissing  = NewPCEPError(6, 4)
	PCEPErrLSPMissing               = NewPCEPError(6, 8)
	PCEPErrEROMissing               = NewPCEPError(6, 9)
	PCEPErrSRPMissing               = NewPCEPError(6, 10)
	PCEPErrLSPIdentifiersTLVMissing = NewPCEPError(6, 11)
	PCEPErrLSPDBVersionTLVMissing   = NewPCEPError(6, 12)

	PCEPErrSyncPathCompRequestMissing = NewPCEPError(7, 0)
	PCEPErrUnknownRequestReference    = NewPCEPError(8, 0)
	PCEPErrAttemptSecondSession       = NewPCEPError(9, 0)

	PCEPErrPFlagNotSet             = NewPCEPError(10, 1)
	PCEPErrBadLabelValue           = NewPCEPError(10, 2)
	PCEPErrUnsupportedSREROCount   = NewPCEPError(10, 3)
	PCEPErrBadLabelFormat          = NewPCEPError(10, 4)
	PCEPErrEROMixesSRAndNonSR      = NewPCEPError(10, 5)
	PCEPErrSIDAndNAIAbsentInERO    = NewPCEPError(10, 6)
	PCEPErrSIDAndNAIAbsentInRRO    = NewPCEPError(10, 7)
	PCEPErrSymbolicPathNameMissing = NewPCEPError(10, 8)
	PCEPErrMSDExceedsDefault       = NewPCEPError(10, 9)
	PCEPErrRROMixesSRAndNonSR      = NewPCEPError(10, 10)
	PCEPErrMalformedObject         = NewPCEPError(10, 11)

	PCEPErrUnrecognizedEXRSSubobject = NewPCEPError(11, 0)

	PCEPErrUnsupportedClassType = NewPCEPError(12, 1)
	PCEPErrInvalidClassType     = NewPCEPError(12, 2)
	PCEPErrClassTypeNotTEClass  = NewPCEPError(12, 3)

	PCEPErrInterLayerInsufficientMemory = NewPCEPError(13, 1)
	PCEPErrInterLayerNotSupported       = NewPCEPError(13, 2)

	PCEPErrFragmentedRequestFailure = NewPCEPError(18, 1)
	PCEPErrFragmentedReportFailure  = NewPCEPError(18, 2)

	PCEPErrUpdateNonDelegatedLSP           = NewPCEPError(19, 1)
	PCEPErrUpdateWithoutStatefulCapability = NewPCEPError(19, 2)
	PCEPErrUpdateUnknownPLSPID             = NewPCEPError(19, 3)
	PCEPErrReportWithoutActiveCapability   = NewPCEPError(19, 5)
	PCEPErrInitiatedLSPLimitReached        = NewPCEPError(19, 6)
	PCEPErrDelegationNotRevocable          = NewPCEPError(19, 7)
	PCEPErrNonZeroPLSPIDInInitiate         = NewPCEPError(19, 8)
	PCEPErrLSPNotPCEInitiated              = NewPCEPError(19, 9)
	PCEPErrInitiateFrequencyLimitReached   = NewPCEPError(19, 10)

	PCEPErrCannotProcessStateReport    = NewPCEPError(20, 1)
	PCEPErrLSPDBVersionMismatch        = NewPCEPError(20, 2)
	PCEPErrTriggeredSyncWithoutVersion = NewPCEPError(20, 3)
	PCEPErrTriggeredResyncNotSupported = NewPCEPError(20, 4)
	PCEPErrCannotCompleteStateSync     = NewPCEPError(20, 5)

	PCEPErrUnsupportedPathSetupType = NewPCEPError(21, 1)
	PCEPErrMismatchedPathSetupType  = NewPCEPError(21, 2)

	PCEPErrSymbolicPathNameInUse       = NewPCEPError(23, 1)
	PCEPErrSpeakerIDForNonInitiatedLSP = NewPCEPError(23, 2)

	PCEPErrUnacceptableInstantiation = NewPCEPError(24, 1)
	PCEPErrInstantiationInternal     = NewPCEPError(24, 2)
	PCEPErrInstantiationSignaling    = NewPCEPError(24, 3)

	PCEPErrStartTLSAfterExchange  = NewPCEPError(25, 1)
	PCEPErrNonStartTLSMessage     = NewPCEPError(25, 2)
	PCEPErrTLSFailureNoFallback   = NewPCEPError(25, 3)
	PCEPErrTLSFailureFallback     = NewPCEPError(25, 4)
	PCEPErrStartTLSWaitExpired    = NewPCEPError(25, 5)
	PCEPErrTLSNegotiationMismatch = NewPCEPError(25, 6)

	PCEPErrAssociationTypeNotSupported = NewPCEPError(26, 1)
	PCEPErrTooManyLSPsInAssociation    = NewPCEPError(26, 2)
	PCEPErrTooManyAssociationGroups    = NewPCEPError(26, 3)
	PCEPErrAssociationUnknown          = NewPCEPError(26, 4)
)

var pcepErrorDescriptions = map[PCEPError]string{
	PCEPErrInvalidOpen:                "Reception of an invalid Open message or a non Open message",
	PCEPErrNoOpenBeforeOpenWait:       "No Open message received before the expiration of the OpenWait timer",
	PCEPErrNonAcceptableNonNegotiable: "Unacceptable and non-negotiable session characteristics",
	PCEPErrNonAcceptableNegotiable:    "Unacceptable but negotiable session characteristics",
	PCEPErrSecondOpen:                 "Reception of a second Open message with still unacceptable session characteristics",
	PCEPErrPCErrNonAcceptable:         "Reception of a PCErr message proposing unacceptable session characteristics",
	PCEPErrNoMessageBeforeKeepWait:    "No Keepalive or PCErr message received before the expiration of the KeepWait timer",
	PCEPErrVersionNotSupported:        "PCEP version not supported",

	PCEPErrCapabilityNotSupported: "Capability not supported",

	PCEPErrUnrecognizedObjectClass: "Unrecognized object class",
	PCEPErrUnrecognizedObjectType:  "Unrecognized object Type",

	PCEPErrNotSupportedObjectClass:      "Not supported object class",
	PCEPErrNotSupportedObjectType:       "Not supported object Type",
	PCEPErrUnsupportedParameter:         "Unsupported parameter",
	PCEPErrUnsupportedNetworkConstraint: "Unsupported network performance constraint",
	PCEPErrBandwidthTypeNotSupported:    "BANDWIDTH object type 3 or 4 not supported",
	PCEPErrUnsupportedEndpointType:      "Unsupported endpoint type in END-POINTS Generalized Endpoint object type",
	PCEPErrUnsupportedEndpointTLV:       "Unsupported TLV present in END-POINTS Generalized Endpoint object type",
	PCEPErrUnsupportedGranularity:       "Unsupported granularity in the RP object flags",

	PCEPErrCBitSet:                   "C bit of the METRIC object set (request rejected)",
	PCEPErrOBitSet:                   "O bit of the RP object cleared (request rejected)",
	PCEPErrOFNotAllowed:              "Objective function not allowed (request rejected)",
	PCEPErrOFBitSet:                  "OF bit of the RP object set (request rejected)",
	PCEPErrGCONotAllowed:             "Global concurrent optimization not allowed",
	PCEPErrP2MPComputationNotAllowed: "P2MP path computation is not allowed",

	PCEPErrRPMissing:                "RP object missing",
	PCEPErrRROMissing:               "RRO missing for a reoptimization request (R bit of the RP object set)",
	PCEPErrEndPointsMissing:         "END-POINTS object missing",
	PCEPErrMonitoringObjectMissing:  "MONITORING object missing",
	PCEPErrLSPMissing:               "LSP object missing",
	PCEPErrEROMissing:               "ERO object missing for a path in an LSP Update Request where TE-LSP setup is requested",
	PCEPErrSRPMissing:               "SRP object missing for a path in an LSP Update Request where TE-LSP setup is requested",
	PCEPErrLSPIdentifiersTLVMissing: "LSP-IDENTIFIERS TLV missing for a path in an LSP State Report where TE-LSP setup is requested",
	PCEPErrLSPDBVersionTLVMissing:   "LSP-DB-VERSION TLV missing",

	PCEPErrSyncPathCompRequestMissing: "Synchronized path computation request missing",
	PCEPErrUnknownRequestReference:    "Unknown request reference",
	PCEPErrAttemptSecondSession:       "Attempt to establish a second PCEP session",

	PCEPErrPFlagNotSet:             "Reception of an object with P flag not set although the P flag must be set according to this specification",
	PCEPErrBadLabelValue:           "Bad label value",
	PCEPErrUnsupportedSREROCount:   "Unsupported number of SR-ERO subobjects",
	PCEPErrBadLabelFormat:          "Bad label format",
	PCEPErrEROMixesSRAndNonSR:      "ERO mixes SR-ERO subobjects with other subobject types",
	PCEPErrSIDAndNAIAbsentInERO:    "Both SID and NAI are absent in the SR-ERO subobject",
	PCEPErrSIDAndNAIAbsentInRRO:    "Both SID and NAI are absent in the SR-RRO subobject",
	PCEPErrSymbolicPathNameMissing: "SYMBOLIC-PATH-NAME TLV missing",
	PCEPErrMSDExceedsDefault:       "MSD exceeds the default for the PCEP session",
	PCEPErrRROMixesSRAndNonSR:      "RRO mixes SR-RRO subobjects with other subobject types",
	PCEPErrMalformedObject:         "Malformed object",

	PCEPErrUnrecognizedEXRSSubobject: "Unrecognized EXRS subobject",

	PCEPErrUnsupportedClassType: "Unsupported class-type",
	PCEPErrInvalidClassType:     "Invalid class-type",
	PCEPErrClassTypeNotTEClass:  "Class-Type and setup priority do not form a configured TE-class",

	PCEPErrInterLayerInsufficientMemory: "Insufficient memory",
	PCEPErrInterLayerNotSupported:       "Inter-layer path computation not supported",

	PCEPErrFragmentedRequestFailure: "Fragmented request failure",
	PCEPErrFragmentedReportFailure:  "Fragmented Report failure",

	PCEPErrUpdateNonDelegatedLSP:           "Attempted LSP Update Request for a non-delegated LSP",
	PCEPErrUpdateWithoutStatefulCapability: "Attempted LSP Update Request if the stateful PCE capability was not advertised",
	PCEPErrUpdateUnknownPLSPID:             "Attempted LSP Update Request for an LSP identified by an unknown PLSP-ID",
	PCEPErrReportWithoutActiveCapability:   "Attempted LSP State Report if active stateful PCE capability was not advertised",
	PCEPErrInitiatedLSPLimitReached:        "PCE-initiated LSP limit reached",
	PCEPErrDelegationNotRevocable:          "Delegation for PCE-initiated LSP cannot be revoked",
	PCEPErrNonZeroPLSPIDInInitiate:         "Non-zero PLSP-ID in LSP Initiate Request",
	PCEPErrLSPNotPCEInitiated:              "LSP is not PCE initiated",
	PCEPErrInitiateFrequencyLimitReached:   "PCE-initiated operation-frequency limit reached",

	PCEPErrCannotProcessStateReport:    "A PCE indicates to a PCC that it cannot process an otherwise valid LSP State Report",
	PCEPErrLSPDBVersionMismatch:        "LSP-DB version mismatch",
	PCEPErrTriggeredSyncWithoutVersion: "Attempt to trigger synchronization before PCE trigger",
	PCEPErrTriggeredResyncNotSupported: "Attempt to trigger a synchronization when the PCE triggered synchronization capability has not been advertised",
	PCEPErrCannotCompleteStateSync:     "A PCC indicates to a PCE that it cannot complete the State Synchronization",

	PCEPErrUnsupportedPathSetupType: "Unsupported path setup type",
	PCEPErrMismatchedPathSetupType:  "Mismatched path setup type",

	PCEPErrSymbolicPathNameInUse:       "SYMBOLIC-PATH-NAME in use",
	PCEPErrSpeakerIDForNonInitiatedLSP: "Speaker identity included for an LSP that is not PCE initiated",

	PCEPErrUnacceptableInstantiation: "Unacceptable instantiation parameters",
	PCEPErrInstantiationInternal:     "Internal error",
	PCEPErrInstantiationSignaling:    "Signaling error",

	PCEPErrStartTLSAfterExchange:  "Reception of StartTLS after any PCEP exchange",
	PCEPErrNonStartTLSMessage:     "Reception of any other message apart from StartTLS, Open, or PCErr",
	PCEPErrTLSFailureNoFallback:   "Failure, connection without TLS is not possible",
	PCEPErrTLSFailureFallback:     "Failure, connection without TLS is possible",
	PCEPErrStartTLSWaitExpired:    "No StartTLS message before StartTLSWait timer expired",
	PCEPErrTLSNegotiationMismatch: "TLS negotiation mismatch",

	PCEPErrAssociationTypeNotSupported: "Association type is not supported",
	PCEPErrTooManyLSPsInAssociation:    "Too many LSPs in the association group",
	PCEPErrTooManyAssociationGroups:    "Too many association groups",
	PCEPErrAssociationUnknown:          "Association unknown",
}

func (e PCEPError) String() string {
	if desc, ok := pcepErrorDescriptions[e]; ok {
		return fmt.Sprintf("%s (type=%d, value=%d)", desc, e.Type(), e.Value())
	}
	return fmt.Sprintf("Unknown PCEP error (type=%d, value=%d)", e.Type(), e.Value())
}

// ErrUnprocessedObjects is wrapped by failures reporting objects left over
// after a grammar finished matching.
var ErrUnprocessedObjects = errors.New("unprocessed objects")

// DeserializeError reports malformed input that aborts parsing of the
// current message.
type DeserializeError struct {
	Msg string
	Err error
}

func (e *DeserializeError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *DeserializeError) Unwrap() error {
	return e.Err
}

func deserializeErrorf(format string, args ...any) error {
	return &DeserializeError{Msg: fmt.Sprintf(format, args...)}
}

func wrapDeserializeError(err error, format string, args ...any) error {
	return &DeserializeError{Msg: fmt.Sprintf(format, args...), Err: err}
}

func unprocessedObjects(objs []Object) error {
	names := make([]string, 0, len(objs))
	for _, o := range objs {
		names = append(names, o.Class().String())
	}
	return &DeserializeError{Msg: fmt.Sprintf("Unprocessed Objects: %v", names), Err: ErrUnprocessedObjects}
}
