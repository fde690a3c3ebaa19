package tlv

import "testing"

func TestDecodeUTF8Lenient(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Plain ASCII", "736D6470 2E 6578616D706C652E636F6D", "smdp.example.com"},
		{"Valid UTF-8", "C3A9746532", "éte2"},
		{"Invalid bytes dropped", "41FF42C3", "AB"},
		{"Empty", "", ""},
		{"Garbage only", "FFFE", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeUTF8Lenient(tt.input); got != tt.want {
				t.Errorf("DecodeUTF8Lenient(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDecodeBCDSwapped(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"ICCID with filler", "98 10 01 00 00 00 00 00 00 F1", "8901100000000000001"},
		{"Even digits", "2143", "1234"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeBCDSwapped(tt.input); got != tt.want {
				t.Errorf("DecodeBCDSwapped(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBCDSwappedRoundTrip(t *testing.T) {
	for _, digits := range []string{"8901100000000000001", "89049032123451234512345678901234", "1"} {
		encoded := EncodeBCDSwapped(digits)
		if got := DecodeBCDSwapped(encoded); got != digits {
			t.Errorf("round trip of %q via %q = %q", digits, encoded, got)
		}
	}
}

func TestMakeSafeASCII(t *testing.T) {
	input := []byte{0x41, 0x42, 0x00, 0x1F, 0x7F, 0x43} // AB, null, US, DEL, C
	want := "AB...C"                                    // 0x7F (127) is > 126, so it becomes dot

	got := MakeSafeASCII(input)
	if got != want {
		t.Errorf("MakeSafeASCII() = %q, want %q", got, want)
	}
}
