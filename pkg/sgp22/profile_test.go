package sgp22

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gregLibert/esim-trace/pkg/tlv"
	"github.com/gregLibert/esim-trace/pkg/tree"
)

const testICCID = "8901100000000000001"

func TestBuildProfileInfoList_Response(t *testing.T) {
	profile := tv("E3",
		tv("5A", tlv.EncodeBCDSwapped(testICCID)),
		tv("4F", "A0000005591010FFFFFFFF8900001100"),
		tv("9F70", "01"),
		tv("90", utf8Hex("Work")),
		tv("91", utf8Hex("Operator")),
		tv("95", "02"),
		tv("B7", tv("80", "02F810"), tv("81", "FF")),
		tv("99", "0640"),
		tv("DF01", "00"),
	)

	tests := []struct {
		name    string
		payload string
		dir     Direction
	}{
		{"Direct E3", profile, DirectionResponse},
		{"Inside profileInfoListOk", tv("A0", profile), DirectionResponse},
		{"Inside SEQUENCE, unknown direction", tv("30", profile), DirectionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := buildProfileInfoList(tt.payload, tt.dir)
			if root.Name != "ProfileInfoListResponse" || root.Value != "count=1" {
				t.Fatalf("root = %s", root)
			}

			p := mustChild(t, root, "Profile 1")
			if p.Value != "Work" {
				t.Errorf("profile value = %q, want the nickname", p.Value)
			}

			checks := []struct {
				path  []string
				value string
			}{
				{[]string{"ICCID"}, testICCID},
				{[]string{"Profile state"}, "Enabled"},
				{[]string{"Profile nickname"}, "Work"},
				{[]string{"Service provider name"}, "Operator"},
				{[]string{"Profile class"}, "operational"},
				{[]string{"Profile owner", "MCC/MNC"}, "208-01"},
				{[]string{"Profile owner", "GID1"}, "FF"},
				{[]string{"Profile policy rules"}, "ppr1"},
				{[]string{"ProfileInfo DF01"}, "len=1"},
			}
			for _, c := range checks {
				if got := mustChild(t, p, c.path...).Value; got != c.value {
					t.Errorf("%v = %q, want %q", c.path, got, c.value)
				}
			}
		})
	}
}

func TestBuildProfileInfoList_MultipleProfiles(t *testing.T) {
	payload := tv("A0",
		tv("E3", tv("9F70", "00"), tv("92", utf8Hex("Test"))),
		tv("E3", tv("9F70", "01")),
	)
	root := buildProfileInfoList(payload, DirectionResponse)

	if diff := cmp.Diff([]string{"Profile 1", "Profile 2"}, childNames(root)); diff != "" {
		t.Fatalf("profiles mismatch (-want +got):\n%s", diff)
	}
	if got := mustChild(t, root, "Profile 1", "Profile state").Value; got != "Disabled" {
		t.Errorf("Profile 1 state = %q", got)
	}
	if got := mustChild(t, root, "Profile 1").Value; got != "Test" {
		t.Errorf("Profile 1 value = %q", got)
	}
}

func TestBuildProfileInfoList_ResponseWithoutProfiles(t *testing.T) {
	t.Run("Empty list", func(t *testing.T) {
		root := buildProfileInfoList("A000", DirectionResponse)
		if root.Name != "ProfileInfoListResponse" || root.Value != "count=0" || len(root.Children) != 0 {
			t.Errorf("got:\n%s", root.Describe())
		}
	})

	t.Run("Error", func(t *testing.T) {
		root := buildProfileInfoList("80017F", DirectionResponse)
		if got := mustChild(t, root, "Error").Value; got != "undefinedError" {
			t.Errorf("Error = %q", got)
		}
	})
}

func TestBuildProfileInfoList_Request(t *testing.T) {
	payload := tv("A0", tv("5A", tlv.EncodeBCDSwapped(testICCID))) + tv("5C", "5A9F7090DF01")
	root := buildProfileInfoList(payload, DirectionRequest)

	want := &tree.Node{
		Name: "ProfileInfoListRequest",
		Children: []*tree.Node{
			{Name: "Search criteria", Value: "iccid", Children: []*tree.Node{
				{Name: "ICCID", Value: testICCID},
			}},
			{Name: "Tag list", Value: "5A 9F70 90 DF01", Children: []*tree.Node{
				{Name: "5A", Value: "ICCID"},
				{Name: "9F70", Value: "Profile state"},
				{Name: "90", Value: "Profile nickname"},
				{Name: "DF01", Value: "Unknown"},
			}},
		},
	}
	if diff := cmp.Diff(want, root); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}

	if got := buildProfileInfoList("", DirectionRequest).Value; got != "all profiles" {
		t.Errorf("empty request value = %q", got)
	}
}

func TestDecodePLMN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"02F810", "208-01"},
		{"130062", "310-260"},
		{"0102", "0102"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := DecodePLMN(tlv.Hex(tt.in)); got != tt.want {
				t.Errorf("DecodePLMN(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildSetNickname(t *testing.T) {
	iccid := tv("5A", tlv.EncodeBCDSwapped(testICCID))

	t.Run("Nickname tag 90", func(t *testing.T) {
		root := buildSetNickname(iccid+tv("90", utf8Hex("Home")), DirectionRequest)
		if got := mustChild(t, root, "ICCID").Value; got != testICCID {
			t.Errorf("ICCID = %q", got)
		}
		n := mustChild(t, root, "Nickname")
		if n.Value != "Home" || n.Hint != "" {
			t.Errorf("Nickname = %s", n)
		}
	})

	t.Run("Nickname tag 0C", func(t *testing.T) {
		root := buildSetNickname(iccid+tv("0C", utf8Hex("Home")), DirectionRequest)
		if got := mustChild(t, root, "Nickname").Value; got != "Home" {
			t.Errorf("Nickname = %q", got)
		}
	})

	t.Run("Response", func(t *testing.T) {
		root := buildSetNickname("800101", DirectionResponse)
		if root.Name != "SetNicknameResponse" {
			t.Errorf("root = %q", root.Name)
		}
		if got := mustChild(t, root, "Result").Value; got != "iccidNotFound" {
			t.Errorf("Result = %q", got)
		}
	})
}

func TestProfileOperations(t *testing.T) {
	t.Run("Enable request", func(t *testing.T) {
		root := buildEnableProfile(tv("A0", tv("4F", "A0000005591010"))+tv("81", "FF"), DirectionRequest)
		want := &tree.Node{
			Name: "EnableProfileRequest",
			Children: []*tree.Node{
				{Name: "Profile identifier", Children: []*tree.Node{{Name: "ISD-P AID", Value: "A0000005591010"}}},
				{Name: "Refresh flag", Value: "true"},
			},
		}
		if diff := cmp.Diff(want, root); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	tests := []struct {
		name    string
		build   func(string, Direction) *tree.Node
		payload string
		want    string
	}{
		{"Enable response", buildEnableProfile, "800102", "profileNotInDisabledState"},
		{"Disable response", buildDisableProfile, "800102", "profileNotInEnabledState"},
		{"Delete response", buildDeleteProfile, "800100", "ok"},
		{"Disable response catBusy", buildDisableProfile, "800105", "catBusy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := tt.build(tt.payload, DirectionResponse)
			if got := mustChild(t, root, "Result").Value; got != tt.want {
				t.Errorf("Result = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("Delete request", func(t *testing.T) {
		root := buildDeleteProfile(tv("5A", tlv.EncodeBCDSwapped(testICCID)), DirectionRequest)
		if got := mustChild(t, root, "ICCID").Value; got != testICCID {
			t.Errorf("ICCID = %q", got)
		}
	})
}
