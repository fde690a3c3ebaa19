package tlv

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// asciiOnly drops every rune outside of 7-bit ASCII. Invalid UTF-8 sequences
// surface as utf8.RuneError and are dropped as well.
var asciiOnly = runes.Remove(runes.Predicate(func(r rune) bool {
	return r >= utf8.RuneSelf
}))

// DecodeUTF8Lenient decodes hex-encoded text. Valid UTF-8 is returned as-is,
// anything else is decoded as ASCII ignoring the offending bytes. It never
// fails: undecodable input yields an empty string.
func DecodeUTF8Lenient(s string) string {
	data := ToBytes(s)
	if len(data) == 0 {
		return ""
	}
	if utf8.Valid(data) {
		return string(data)
	}

	out, _, err := transform.String(asciiOnly, string(data))
	if err != nil {
		return ""
	}
	return out
}

// DecodeBCDSwapped decodes swapped-nibble BCD as used for ICCID and IMEI:
// every byte is written low nibble first, trailing 'F' filler is removed.
// Example: "981001" -> "890110".
func DecodeBCDSwapped(s string) string {
	var sb strings.Builder
	for _, b := range SplitBytes(Normalize(s)) {
		sb.WriteByte(b[1])
		sb.WriteByte(b[0])
	}
	return strings.TrimRight(sb.String(), "F")
}

// EncodeBCDSwapped is the inverse of DecodeBCDSwapped. An odd digit count is
// padded with 'F'.
func EncodeBCDSwapped(digits string) string {
	digits = strings.ToUpper(digits)
	if len(digits)%2 != 0 {
		digits += "F"
	}

	var sb strings.Builder
	for i := 0; i+1 < len(digits); i += 2 {
		sb.WriteByte(digits[i+1])
		sb.WriteByte(digits[i])
	}
	return sb.String()
}

func MakeSafeASCII(data []byte) string {
	return strings.Map(func(r rune) rune {
		if r >= 32 && r <= 126 {
			return r
		}
		return '.'
	}, string(data))
}
