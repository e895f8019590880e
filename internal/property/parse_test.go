package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BinSentry/FreeRTOS-Cellular-Interface-Quectel-BG770-sub001/internal/at"
)

func TestParseFlowControlLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    FlowControlPair
		wantErr bool
	}{
		{"hardware both", "+IFC: 2,2", FlowControlPair{FlowHardware, FlowHardware}, false},
		{"none both", "+IFC: 0,0", FlowControlPair{FlowNone, FlowNone}, false},
		{"mixed", "+IFC: 2,0", FlowControlPair{FlowHardware, FlowNone}, false},
		{"loose spacing", "  +IFC:  2 , 2 ", FlowControlPair{FlowHardware, FlowHardware}, false},
		{"wrong prefix", "+CFUN: 2,2", FlowControlPair{}, true},
		{"one token", "+IFC: 2", FlowControlPair{}, true},
		{"out of domain", "+IFC: 2,7", FlowControlPair{}, true},
		{"software mode out of domain", "+IFC: 1,1", FlowControlPair{}, true},
		{"non-numeric", "+IFC: x,2", FlowControlPair{}, true},
		{"empty", "", FlowControlPair{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFlowControlLine(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, at.ErrParse)
				// Never partially populated: one bad field resets both.
				assert.Equal(t, FlowControlPair{}, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFunctionalityLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Functionality
		wantErr bool
	}{
		{"sim only", "+CFUN: 4", FunctionalitySIMOnly, false},
		{"full", "+CFUN: 1", FunctionalityFull, false},
		{"minimum", "+CFUN: 0", FunctionalityMinimum, false},
		{"out of domain", "+CFUN: 5", FunctionalityUnknown, true},
		{"negative", "+CFUN: -1", FunctionalityUnknown, true},
		{"wrong prefix", "+IFC: 4", FunctionalityUnknown, true},
		{"garbage", "+CFUN: full", FunctionalityUnknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFunctionalityLine(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, at.ErrParse)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseURCPortLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    URCPort
		wantErr bool
	}{
		{"main", `+QURCCFG: "urcport","main"`, PortMain, false},
		{"aux", `+QURCCFG: "urcport","aux"`, PortAux, false},
		{"emux", `+QURCCFG: "urcport","emux"`, PortEMUX, false},
		{"wrong setting name", `+QURCCFG: "urcmode","main"`, PortUnknown, true},
		{"unknown port", `+QURCCFG: "urcport","uart9"`, PortUnknown, true},
		{"missing value", `+QURCCFG: "urcport"`, PortUnknown, true},
		{"wrong prefix", `+QCFG: "urcport","main"`, PortUnknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseURCPortLine(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, at.ErrParse)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNetworkCategoryLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    NetworkCategory
		wantErr bool
	}{
		{"ltem", `+QCFG: "iotopmode",0`, CategoryLTEM, false},
		{"nbiot", `+QCFG: "iotopmode",1`, CategoryNBIoT, false},
		{"both", `+QCFG: "iotopmode",2`, CategoryBoth, false},
		{"out of domain", `+QCFG: "iotopmode",3`, CategoryUnknown, true},
		{"wrong setting name", `+QCFG: "nwscanseq",0`, CategoryUnknown, true},
		{"non-numeric", `+QCFG: "iotopmode",auto`, CategoryUnknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNetworkCategoryLine(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, at.ErrParse)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSIMToolkitLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    FeatureState
		wantErr bool
	}{
		{"enabled", "+QSTK: 1", FeatureEnabled, false},
		{"disabled", "+QSTK: 0", FeatureDisabled, false},
		{"out of domain", "+QSTK: 2", FeatureUnknown, true},
		{"out of domain high", "+QSTK: 100", FeatureUnknown, true},
		{"wrong prefix", "+CFUN: 1", FeatureUnknown, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSIMToolkitLine(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, at.ErrParse)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
