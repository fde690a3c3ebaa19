package sgp22

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gregLibert/esim-trace/pkg/tree"
)

const testEID = "89049032123451234512345678901235"

func TestBuildGetEuiccData(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		dir     Direction
		want    *tree.Node
	}{
		{
			name:    "Default request",
			payload: "00",
			dir:     DirectionRequest,
			want:    &tree.Node{Name: "GetEuiccDataRequest", Value: "default (EID)"},
		},
		{
			name:    "EID tag list",
			payload: "5C015A",
			dir:     DirectionRequest,
			want: &tree.Node{
				Name:     "GetEuiccDataRequest",
				Children: []*tree.Node{{Name: "Tag list", Value: "EID"}},
			},
		},
		{
			name:    "Other tag list",
			payload: "5C025A4F",
			dir:     DirectionRequest,
			want: &tree.Node{
				Name: "GetEuiccDataRequest",
				Children: []*tree.Node{{Name: "Tag list", Value: "5A 4F", Children: []*tree.Node{
					{Name: "5A", Value: "EID"},
					{Name: "4F", Value: "Unknown"},
				}}},
			},
		},
		{
			name:    "EID response",
			payload: "5A10" + testEID,
			dir:     DirectionResponse,
			want: &tree.Node{
				Name: "GetEuiccDataResponse",
				Children: []*tree.Node{{
					Name:  "EID",
					Value: "89 04 90 32 12 34 51 23 45 12 34 56 78 90 12 35",
				}},
			},
		},
		{
			name:    "Short EID",
			payload: "5A028904",
			dir:     DirectionResponse,
			want: &tree.Node{
				Name:     "GetEuiccDataResponse",
				Children: []*tree.Node{{Name: "EID", Value: "89 04", Hint: "expected 16 bytes, got 2"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildGetEuiccData(tt.payload, tt.dir)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildGetEuiccChallenge(t *testing.T) {
	if root := buildGetEuiccChallenge("", DirectionRequest); root.Name != "GetEuiccChallengeRequest" || len(root.Children) != 0 {
		t.Errorf("request = %s", root.Describe())
	}

	root := buildGetEuiccChallenge(tv("80", "00112233445566778899AABBCCDDEEFF"), DirectionResponse)
	if got := mustChild(t, root, "eUICC challenge").Value; got != "00112233445566778899AABBCCDDEEFF" {
		t.Errorf("challenge = %q", got)
	}
}

func TestBuildEuiccConfiguredAddresses(t *testing.T) {
	root := buildEuiccConfiguredAddresses(tv("80", utf8Hex("smdp.io"))+tv("81", utf8Hex("lpa.ds.gsma.com")), DirectionResponse)
	want := &tree.Node{
		Name: "EuiccConfiguredAddressesResponse",
		Children: []*tree.Node{
			{Name: "Default SM-DP+ address", Value: "smdp.io"},
			{Name: "Root SM-DS address", Value: "lpa.ds.gsma.com"},
		},
	}
	if diff := cmp.Diff(want, root); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildProfileInstallationResult(t *testing.T) {
	t.Run("Result data and signature", func(t *testing.T) {
		payload := tv("BF27", tv("80", "01"), tv("A2", tv("A0"))) + tv("5F37", "AA")
		root := buildProfileInstallationResult(payload, DirectionUnknown)
		if root.Value != "success" {
			t.Errorf("value = %q", root.Value)
		}
		mustChild(t, root, sigPIR)
	})

	t.Run("Signature only", func(t *testing.T) {
		root := buildProfileInstallationResult(tv("5F37", "BBCC")+tv("A5"), DirectionResponse)
		if root.Value == "raw" {
			t.Fatalf("signature alone should be decoded:\n%s", root.Describe())
		}
		if got := mustChild(t, root, sigPIR).Value; got != "BBCC" {
			t.Errorf("signature = %q", got)
		}
		mustChild(t, root, "ProfileInstallationResult A5")
	})

	t.Run("Raw fallback", func(t *testing.T) {
		root := buildProfileInstallationResult(tv("A5", tv("80", "01")), DirectionResponse)
		if root.Value != "raw" {
			t.Errorf("value = %q", root.Value)
		}
		if got := mustChild(t, root, "Unknown A5", "Tag 80").Hint; got != "01" {
			t.Errorf("raw child hint = %q", got)
		}
	})

	t.Run("Undecodable bytes", func(t *testing.T) {
		root := buildProfileInstallationResult("5F", DirectionResponse)
		if got := mustChild(t, root, "Raw").Hint; got != "5F" {
			t.Errorf("raw hint = %q", got)
		}
	})
}
