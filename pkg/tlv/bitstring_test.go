package tlv

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeBitStringFlags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		names []string
		want  []Flag
	}{
		{
			name:  "Single significant bit",
			input: "0780",
			names: []string{"a", "b"},
			want:  []Flag{{"a", FlagSupported}, {"b", FlagNotSupported}},
		},
		{
			name:  "Two significant bits",
			input: "06C0",
			names: []string{"a", "b"},
			want:  []Flag{{"a", FlagSupported}, {"b", FlagSupported}},
		},
		{
			name:  "Unused bits mask set bits",
			input: "07C0",
			names: []string{"a", "b"},
			want:  []Flag{{"a", FlagSupported}, {"b", FlagNotSupported}},
		},
		{
			name:  "Second byte",
			input: "00 00 40",
			names: []string{"f0", "f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8", "f9"},
			want: []Flag{
				{"f0", FlagNotSupported}, {"f1", FlagNotSupported}, {"f2", FlagNotSupported},
				{"f3", FlagNotSupported}, {"f4", FlagNotSupported}, {"f5", FlagNotSupported},
				{"f6", FlagNotSupported}, {"f7", FlagNotSupported}, {"f8", FlagNotSupported},
				{"f9", FlagSupported},
			},
		},
		{
			name:  "More bits than names",
			input: "00FF",
			names: []string{"a"},
			want:  []Flag{{"a", FlagSupported}},
		},
		{
			name:  "Empty value",
			input: "",
			names: []string{"a"},
			want:  []Flag{{"a", FlagNotSupported}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeBitStringFlags(tt.input, tt.names)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DecodeBitStringFlags mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeRawFlags(t *testing.T) {
	got := DecodeRawFlags("40", []string{"a", "b"})
	want := []Flag{{"a", FlagNotSupported}, {"b", FlagSupported}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeRawFlags mismatch (-want +got):\n%s", diff)
	}
	if !got[1].IsSet() {
		t.Error("IsSet() should report the set flag")
	}
}
