package tlv

import "testing"

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		format string
		want   string
	}{
		{"Default hex", []byte{0xA0, 0x00, 0x01}, "", "A00001"},
		{"ASCII", []byte{'V', 'I', 'S', 'A', 0x00}, FormatASCII, `5649534100 ("VISA.")`},
		{"Int", []byte{0x01, 0x00}, FormatInt, "256"},
		{"Int empty falls back to hex", nil, FormatInt, ""},
		{"UTF8", []byte("smdp.io"), FormatUTF8, "smdp.io"},
		{"BCD", []byte{0x98, 0x10, 0xF1}, FormatBCD, "89011"},
		{"Version", []byte{0x02, 0x03, 0x01}, FormatVersion, "2.3.1"},
		{"Bytes", []byte{0x89, 0x04, 0x90}, FormatBytes, "89 04 90"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.data, tt.format); got != tt.want {
				t.Errorf("FormatValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	if n, ok := ParseInt([]byte{0x7F}); !ok || n != 127 {
		t.Errorf("ParseInt(7F) = %d, %v", n, ok)
	}
	if _, ok := ParseInt(nil); ok {
		t.Error("ParseInt(nil) should fail")
	}
	if _, ok := ParseInt(make([]byte, 9)); ok {
		t.Error("ParseInt(9 bytes) should fail")
	}
	if _, ok := ParseInt([]byte{0xFF, 0, 0, 0, 0, 0, 0, 0}); ok {
		t.Error("ParseInt should reject values above int64")
	}
}
