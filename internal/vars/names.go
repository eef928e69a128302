package vars

import "strings"

// MiddleNameHandling selects how multi-token given names are split.
type MiddleNameHandling string

// Handling modes. The values match the configuration surface.
const (
	MiddleNameLeaveAlone MiddleNameHandling = "leave alone"
	MiddleNameSeparate   MiddleNameHandling = "separate"
	MiddleNameRemove     MiddleNameHandling = "remove"
)

// ParseMiddleNameHandling maps a raw config value to a handling mode,
// falling back to MiddleNameSeparate for anything unrecognized.
func ParseMiddleNameHandling(raw string) MiddleNameHandling {
	switch MiddleNameHandling(strings.ToLower(strings.TrimSpace(raw))) {
	case MiddleNameLeaveAlone:
		return MiddleNameLeaveAlone
	case MiddleNameRemove:
		return MiddleNameRemove
	default:
		return MiddleNameSeparate
	}
}

// SplitGivenName splits a raw given name into given and middle parts.
// Tokens beyond the first are middle-name tokens. Empty or single-token
// input yields an empty middle under every mode.
func SplitGivenName(raw string, mode MiddleNameHandling) (given, middle string) {
	tokens := strings.Fields(raw)
	if len(tokens) == 0 {
		return "", ""
	}
	switch mode {
	case MiddleNameSeparate:
		return tokens[0], strings.Join(tokens[1:], " ")
	case MiddleNameRemove:
		return tokens[0], ""
	default: // leave alone
		return strings.Join(tokens, " "), ""
	}
}
