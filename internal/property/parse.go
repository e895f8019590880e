package property

// Response-line parsers. Each parser receives one whitespace-normalized
// line, confirms the expected property-name literal, tokenizes per the
// property's arity and decodes through the codec. On any failure the
// output is the Unknown sentinel and ErrParse is reported; a result is
// never partially populated.

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BinSentry/FreeRTOS-Cellular-Interface-Quectel-BG770-sub001/internal/at"
)

// splitResponse strips the expected leading literal from the line and
// returns the remaining comma-separated tokens, trimmed.
func splitResponse(line, prefix string, arity int) ([]string, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, prefix) {
		return nil, fmt.Errorf("%w: expected %q in %q", at.ErrParse, prefix, line)
	}

	rest := strings.TrimSpace(strings.TrimPrefix(trimmed, prefix))
	tokens := strings.Split(rest, ",")
	if len(tokens) < arity {
		return nil, fmt.Errorf("%w: want %d tokens in %q, got %d", at.ErrParse, arity, line, len(tokens))
	}

	for i := range tokens {
		tokens[i] = strings.TrimSpace(tokens[i])
	}
	return tokens[:arity], nil
}

// parseBoundedInt parses a base-10 token and range-checks it against the
// property's valid domain before it is accepted.
func parseBoundedInt(tok string, valid ...int) (int, error) {
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: non-numeric token %q", at.ErrParse, tok)
	}
	for _, v := range valid {
		if n == v {
			return n, nil
		}
	}
	return 0, fmt.Errorf("%w: token %q outside valid domain %v", at.ErrParse, tok, valid)
}

// ParseFlowControlLine decodes a "+IFC: <dce-by-dte>,<dte-by-dce>" line.
func ParseFlowControlLine(line string) (FlowControlPair, error) {
	tokens, err := splitResponse(line, at.PrefixFlowControl, 2)
	if err != nil {
		return FlowControlPair{}, err
	}

	var modes [2]FlowControl
	for i, tok := range tokens {
		n, err := parseBoundedInt(tok, 0, 2)
		if err != nil {
			return FlowControlPair{}, err
		}
		if modes[i] = ParseFlowControl(strconv.Itoa(n)); modes[i] == FlowUnknown {
			return FlowControlPair{}, fmt.Errorf("%w: unmapped flow-control token %q", at.ErrParse, tok)
		}
	}

	return FlowControlPair{DCEByDTE: modes[0], DTEByDCE: modes[1]}, nil
}

// ParseFunctionalityLine decodes a "+CFUN: <level>" line.
func ParseFunctionalityLine(line string) (Functionality, error) {
	tokens, err := splitResponse(line, at.PrefixFunctionality, 1)
	if err != nil {
		return FunctionalityUnknown, err
	}

	if _, err := parseBoundedInt(tokens[0], 0, 1, 4); err != nil {
		return FunctionalityUnknown, err
	}

	level := ParseFunctionality(tokens[0])
	if level == FunctionalityUnknown {
		return FunctionalityUnknown, fmt.Errorf("%w: unmapped functionality token %q", at.ErrParse, tokens[0])
	}
	return level, nil
}

// ParseURCPortLine decodes a `+QURCCFG: "urcport","<port>"` line.
func ParseURCPortLine(line string) (URCPort, error) {
	tokens, err := splitResponse(line, at.PrefixURCConfig, 2)
	if err != nil {
		return PortUnknown, err
	}

	if tokens[0] != `"urcport"` {
		return PortUnknown, fmt.Errorf("%w: expected \"urcport\" setting in %q", at.ErrParse, line)
	}

	port := ParseURCPort(strings.Trim(tokens[1], `"`))
	if port == PortUnknown {
		return PortUnknown, fmt.Errorf("%w: unmapped URC port token %q", at.ErrParse, tokens[1])
	}
	return port, nil
}

// ParseNetworkCategoryLine decodes a `+QCFG: "iotopmode",<mode>` line.
func ParseNetworkCategoryLine(line string) (NetworkCategory, error) {
	tokens, err := splitResponse(line, at.PrefixQConfig, 2)
	if err != nil {
		return CategoryUnknown, err
	}

	if tokens[0] != `"iotopmode"` {
		return CategoryUnknown, fmt.Errorf("%w: expected \"iotopmode\" setting in %q", at.ErrParse, line)
	}

	if _, err := parseBoundedInt(tokens[1], 0, 1, 2); err != nil {
		return CategoryUnknown, err
	}

	cat := ParseNetworkCategory(tokens[1])
	if cat == CategoryUnknown {
		return CategoryUnknown, fmt.Errorf("%w: unmapped network-category token %q", at.ErrParse, tokens[1])
	}
	return cat, nil
}

// ParseSIMToolkitLine decodes a "+QSTK: <0|1>" line.
func ParseSIMToolkitLine(line string) (FeatureState, error) {
	tokens, err := splitResponse(line, at.PrefixSIMToolkit, 1)
	if err != nil {
		return FeatureUnknown, err
	}

	if _, err := parseBoundedInt(tokens[0], 0, 1); err != nil {
		return FeatureUnknown, err
	}

	state := ParseFeatureState(tokens[0])
	if state == FeatureUnknown {
		return FeatureUnknown, fmt.Errorf("%w: unmapped feature token %q", at.ErrParse, tokens[0])
	}
	return state, nil
}
