package sgp22

import "testing"

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
	}{
		{"LPA->eUICC", DirectionRequest},
		{"eUICC->LPA", DirectionResponse},
		{"lpa -> euicc", DirectionRequest},
		{"eUICC → LPA", DirectionResponse},
		{"LPAd>eUICC", DirectionRequest},
		{"request", DirectionRequest},
		{"Response", DirectionResponse},
		{"SM-DP+->LPA", DirectionUnknown},
		{"", DirectionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseDirection(tt.in); got != tt.want {
				t.Errorf("ParseDirection(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDirection_IsResponse(t *testing.T) {
	if DirectionUnknown.IsResponse() {
		t.Error("unknown direction must decode as a request")
	}
	if !DirectionResponse.IsResponse() {
		t.Error("response direction must decode as a response")
	}
}
