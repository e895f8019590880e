package property

import "log"

// unknownToken is the defensive wire string returned when encoding a
// value outside the declared enum. It guards against future enum
// extension without a codec update; it must never reach the wire as a
// write because Unknown is never a valid write target.
const unknownToken = "unknown"

// Functionality is the module functionality level (CFUN).
type Functionality int

const (
	FunctionalityUnknown Functionality = iota
	FunctionalityMinimum               // RF and SIM off
	FunctionalityFull                  // full functionality
	FunctionalitySIMOnly               // SIM active, RF off
)

var functionalityTokens = map[Functionality]string{
	FunctionalityMinimum: "0",
	FunctionalityFull:    "1",
	FunctionalitySIMOnly: "4",
}

// Token encodes the level as its wire string. Total over all values.
func (f Functionality) Token() string {
	if tok, ok := functionalityTokens[f]; ok {
		return tok
	}
	log.Printf("property: no token for functionality level %d", int(f))
	return unknownToken
}

// ParseFunctionality decodes a wire token. Unrecognized tokens map to
// FunctionalityUnknown.
func ParseFunctionality(tok string) Functionality {
	for level, t := range functionalityTokens {
		if t == tok {
			return level
		}
	}
	return FunctionalityUnknown
}

// FlowControl is one direction of the DCE/DTE flow-control setting.
type FlowControl int

const (
	FlowUnknown  FlowControl = iota
	FlowNone                 // no flow control
	FlowHardware             // RTS/CTS
)

var flowControlTokens = map[FlowControl]string{
	FlowNone:     "0",
	FlowHardware: "2",
}

// Token encodes the mode as its wire string. Total over all values.
func (f FlowControl) Token() string {
	if tok, ok := flowControlTokens[f]; ok {
		return tok
	}
	log.Printf("property: no token for flow-control mode %d", int(f))
	return unknownToken
}

// ParseFlowControl decodes a wire token. Unrecognized tokens map to
// FlowUnknown.
func ParseFlowControl(tok string) FlowControl {
	for mode, t := range flowControlTokens {
		if t == tok {
			return mode
		}
	}
	return FlowUnknown
}

// FlowControlPair is the per-direction flow-control setting: first how
// the DCE is controlled by the DTE, then how the DTE is controlled by
// the DCE.
type FlowControlPair struct {
	DCEByDTE FlowControl
	DTEByDCE FlowControl
}

// URCPort selects the UART that carries unsolicited result codes.
type URCPort int

const (
	PortUnknown URCPort = iota
	PortMain
	PortAux
	PortEMUX
)

var urcPortTokens = map[URCPort]string{
	PortMain: "main",
	PortAux:  "aux",
	PortEMUX: "emux",
}

// Token encodes the port as its wire string. Total over all values.
func (p URCPort) Token() string {
	if tok, ok := urcPortTokens[p]; ok {
		return tok
	}
	log.Printf("property: no token for URC port %d", int(p))
	return unknownToken
}

// ParseURCPort decodes a wire token. Unrecognized tokens map to
// PortUnknown.
func ParseURCPort(tok string) URCPort {
	for port, t := range urcPortTokens {
		if t == tok {
			return port
		}
	}
	return PortUnknown
}

// NetworkCategory is the network-category search mode (iotopmode).
type NetworkCategory int

const (
	CategoryUnknown NetworkCategory = iota
	CategoryLTEM
	CategoryNBIoT
	CategoryBoth
)

var networkCategoryTokens = map[NetworkCategory]string{
	CategoryLTEM:  "0",
	CategoryNBIoT: "1",
	CategoryBoth:  "2",
}

// Token encodes the category as its wire string. Total over all values.
func (c NetworkCategory) Token() string {
	if tok, ok := networkCategoryTokens[c]; ok {
		return tok
	}
	log.Printf("property: no token for network category %d", int(c))
	return unknownToken
}

// ParseNetworkCategory decodes a wire token. Unrecognized tokens map to
// CategoryUnknown.
func ParseNetworkCategory(tok string) NetworkCategory {
	for cat, t := range networkCategoryTokens {
		if t == tok {
			return cat
		}
	}
	return CategoryUnknown
}

// FeatureState is a boolean-like module feature flag, used for the SIM
// toolkit (BIP) setting that can silently rewrite DNS behavior.
type FeatureState int

const (
	FeatureUnknown FeatureState = iota
	FeatureDisabled
	FeatureEnabled
)

var featureTokens = map[FeatureState]string{
	FeatureDisabled: "0",
	FeatureEnabled:  "1",
}

// Token encodes the flag as its wire string. Total over all values.
func (s FeatureState) Token() string {
	if tok, ok := featureTokens[s]; ok {
		return tok
	}
	log.Printf("property: no token for feature state %d", int(s))
	return unknownToken
}

// ParseFeatureState decodes a wire token. Unrecognized tokens map to
// FeatureUnknown.
func ParseFeatureState(tok string) FeatureState {
	for state, t := range featureTokens {
		if t == tok {
			return state
		}
	}
	return FeatureUnknown
}

// RAT is one radio access technology in the scan priority list.
type RAT int

const (
	RATGSM RAT = iota + 1
	RATLTEM
	RATNBIoT
)

var ratCodes = map[RAT]string{
	RATGSM:   "01",
	RATLTEM:  "02",
	RATNBIoT: "03",
}

var ratNames = map[string]RAT{
	"gsm":   RATGSM,
	"ltem":  RATLTEM,
	"nbiot": RATNBIoT,
}

// Code returns the 2-digit scan-sequence code. The RAT list is
// configuration data, not device-reported data, so an unsupported value
// is a programming error and panics.
func (r RAT) Code() string {
	code, ok := ratCodes[r]
	if !ok {
		log.Panicf("property: unsupported RAT %d in scan sequence", int(r))
	}
	return code
}

// ParseRAT decodes a configuration name ("gsm", "ltem", "nbiot").
func ParseRAT(name string) (RAT, bool) {
	r, ok := ratNames[name]
	return r, ok
}

// ScanSequence concatenates the 2-digit codes for the given technologies
// in priority order, producing the nwscanseq payload body.
func ScanSequence(rats []RAT) string {
	var seq string
	for _, r := range rats {
		seq += r.Code()
	}
	return seq
}
