package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFunctionalityRoundTrip(t *testing.T) {
	for _, level := range []Functionality{FunctionalityMinimum, FunctionalityFull, FunctionalitySIMOnly} {
		assert.Equal(t, level, ParseFunctionality(level.Token()), "level %d", level)
	}
}

func TestFlowControlRoundTrip(t *testing.T) {
	for _, mode := range []FlowControl{FlowNone, FlowHardware} {
		assert.Equal(t, mode, ParseFlowControl(mode.Token()), "mode %d", mode)
	}
}

func TestURCPortRoundTrip(t *testing.T) {
	for _, port := range []URCPort{PortMain, PortAux, PortEMUX} {
		assert.Equal(t, port, ParseURCPort(port.Token()), "port %d", port)
	}
}

func TestNetworkCategoryRoundTrip(t *testing.T) {
	for _, cat := range []NetworkCategory{CategoryLTEM, CategoryNBIoT, CategoryBoth} {
		assert.Equal(t, cat, ParseNetworkCategory(cat.Token()), "category %d", cat)
	}
}

func TestFeatureStateRoundTrip(t *testing.T) {
	for _, state := range []FeatureState{FeatureDisabled, FeatureEnabled} {
		assert.Equal(t, state, ParseFeatureState(state.Token()), "state %d", state)
	}
}

func TestDecodeUnknownTokens(t *testing.T) {
	for _, tok := range []string{"", "7", "banana", "-1", "00", " 0"} {
		assert.Equal(t, FunctionalityUnknown, ParseFunctionality(tok), "functionality %q", tok)
		assert.Equal(t, FlowUnknown, ParseFlowControl(tok), "flow control %q", tok)
		assert.Equal(t, PortUnknown, ParseURCPort(tok), "URC port %q", tok)
		assert.Equal(t, CategoryUnknown, ParseNetworkCategory(tok), "network category %q", tok)
		assert.Equal(t, FeatureUnknown, ParseFeatureState(tok), "feature %q", tok)
	}
}

func TestEncodeOutsideEnumFallsBack(t *testing.T) {
	assert.Equal(t, unknownToken, Functionality(99).Token())
	assert.Equal(t, unknownToken, FlowControl(99).Token())
	assert.Equal(t, unknownToken, URCPort(99).Token())
	assert.Equal(t, unknownToken, NetworkCategory(99).Token())
	assert.Equal(t, unknownToken, FeatureState(99).Token())

	// The sentinel itself is never a valid write target either.
	assert.Equal(t, unknownToken, FunctionalityUnknown.Token())
}

func TestScanSequence(t *testing.T) {
	tests := []struct {
		name string
		rats []RAT
		want string
	}{
		{"single", []RAT{RATLTEM}, "02"},
		{"pair", []RAT{RATLTEM, RATNBIoT}, "0203"},
		{"all three", []RAT{RATNBIoT, RATLTEM, RATGSM}, "030201"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScanSequence(tt.rats))
		})
	}
}

func TestScanSequencePanicsOnUnsupportedRAT(t *testing.T) {
	assert.Panics(t, func() { ScanSequence([]RAT{RAT(42)}) })
}

func TestParseRAT(t *testing.T) {
	r, ok := ParseRAT("ltem")
	assert.True(t, ok)
	assert.Equal(t, RATLTEM, r)

	_, ok = ParseRAT("wimax")
	assert.False(t, ok)
}
