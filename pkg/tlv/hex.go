package tlv

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Hex constructs a byte slice from a series of hex strings.
func Hex(parts ...string) []byte {
	fullHex := strings.Join(parts, "")
	// Clean up spaces to allow format like "00 A4 04 00"
	cleanHex := strings.ReplaceAll(fullHex, " ", "")

	data, err := hex.DecodeString(cleanHex)
	if err != nil {
		panic(fmt.Sprintf("invalid input '%s': %v", cleanHex, err))
	}
	return data
}

// Normalize strips every character that is not a hex digit and uppercases the
// rest, so captures pasted with spaces, colons or line breaks decode as-is.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'A' && c <= 'F':
			sb.WriteByte(c)
		case c >= 'a' && c <= 'f':
			sb.WriteByte(c - 'a' + 'A')
		}
	}
	return sb.String()
}

// SplitBytes cuts a normalized hex string into 2-character byte tokens.
// A trailing odd nibble is dropped.
func SplitBytes(s string) []string {
	out := make([]string, 0, len(s)/2)
	for i := 0; i+1 < len(s); i += 2 {
		out = append(out, s[i:i+2])
	}
	return out
}

// ToBytes normalizes s and decodes it. An odd trailing nibble is dropped
// instead of failing the whole conversion.
func ToBytes(s string) []byte {
	clean := Normalize(s)
	if len(clean)%2 != 0 {
		clean = clean[:len(clean)-1]
	}
	data, err := hex.DecodeString(clean)
	if err != nil {
		return nil
	}
	return data
}

// ToHex returns the uppercase hex representation of data.
func ToHex(data []byte) string {
	return strings.ToUpper(hex.EncodeToString(data))
}

// Truncate shortens a hex string to at most max characters, marking the cut
// with an ellipsis.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
