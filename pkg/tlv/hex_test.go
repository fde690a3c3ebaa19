package tlv

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHex(t *testing.T) {
	tests := []struct {
		name   string
		inputs []string
		want   []byte
	}{
		{"STORE DATA header", []string{"80E2", "9100"}, []byte{0x80, 0xE2, 0x91, 0x00}},
		{"Spaced TLV", []string{"bf2e 00", " 9000 "}, []byte{0xBF, 0x2E, 0x00, 0x90, 0x00}},
		{"Nothing", nil, []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hex(tt.inputs...); !bytes.Equal(got, tt.want) {
				t.Errorf("Hex(%q) = %X, want %X", tt.inputs, got, tt.want)
			}
		})
	}

	for _, bad := range []string{"BF2", "5Z"} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Hex(%q) should panic", bad)
				}
			}()
			Hex(bad)
		}()
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Spaces and case", "5a 1A", "5A1A"},
		{"Separators", "BF:2D\n00", "BF2D00"},
		{"Garbage", "zz--!!", ""},
		{"Non hex letters", "5G 1h", "51"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := Normalize(got); again != got {
				t.Errorf("Normalize is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestSplitBytes(t *testing.T) {
	want := []string{"BF", "2D", "00"}
	if diff := cmp.Diff(want, SplitBytes("BF2D00")); diff != "" {
		t.Errorf("SplitBytes mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"AB"}, SplitBytes("ABC")); diff != "" {
		t.Errorf("SplitBytes odd length mismatch (-want +got):\n%s", diff)
	}
}

func TestToBytes(t *testing.T) {
	if got := ToBytes("5a 0"); !bytes.Equal(got, []byte{0x5A}) {
		t.Errorf("ToBytes() = %X, want 5A", got)
	}
	if got := ToBytes(""); len(got) != 0 {
		t.Errorf("ToBytes(\"\") = %X, want empty", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("ABCDEF", 4); got != "ABCD..." {
		t.Errorf("Truncate() = %q", got)
	}
	if got := Truncate("ABCD", 4); got != "ABCD" {
		t.Errorf("Truncate() = %q", got)
	}
}
