package sgp22

import "strings"

// Direction tells a dissector which side produced the message. BER-TLV does
// not carry the CHOICE discriminant, so request and response shapes sharing a
// tag can only be told apart this way.
type Direction int

const (
	DirectionUnknown Direction = iota
	DirectionRequest
	DirectionResponse
)

func (d Direction) String() string {
	switch d {
	case DirectionRequest:
		return "request"
	case DirectionResponse:
		return "response"
	default:
		return "unknown"
	}
}

// IsResponse reports whether the message was produced by the eUICC.
// Unknown directions decode as requests.
func (d Direction) IsResponse() bool {
	return d == DirectionResponse
}

// ParseDirection interprets an "originator->target" string such as
// "LPA->eUICC" (request) or "eUICC->LPA" (response). The plain words
// "request"/"command" and "response" are accepted as well.
func ParseDirection(s string) Direction {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "→", "->")

	if from, _, ok := strings.Cut(s, "->"); ok {
		return originatorDirection(strings.TrimSpace(from))
	}
	if from, _, ok := strings.Cut(s, ">"); ok {
		return originatorDirection(strings.TrimSpace(from))
	}

	switch s {
	case "request", "req", "command", "cmd", "c-apdu":
		return DirectionRequest
	case "response", "rsp", "resp", "r-apdu":
		return DirectionResponse
	default:
		return DirectionUnknown
	}
}

func originatorDirection(from string) Direction {
	switch from {
	case "lpa", "lpad", "lpa(d)", "device", "terminal", "me", "host", "modem":
		return DirectionRequest
	case "euicc", "uicc", "card", "sim", "isd-r", "isdr":
		return DirectionResponse
	default:
		return DirectionUnknown
	}
}
