package tlv

import (
	"fmt"
	"strconv"
	"strings"
)

// Value formats understood by FormatValue. Dissectors attach one to each known
// field of their tag tables.
const (
	FormatHex     = "hex"
	FormatASCII   = "ascii"
	FormatInt     = "int"
	FormatUTF8    = "utf8"
	FormatBCD     = "bcd"
	FormatVersion = "version"
	FormatBytes   = "bytes"
)

// FormatValue renders raw value bytes for display according to format.
// Unknown formats fall back to uppercase hex.
func FormatValue(data []byte, format string) string {
	switch format {
	case FormatASCII:
		return fmt.Sprintf("%X (%q)", data, MakeSafeASCII(data))
	case FormatInt:
		if n, ok := ParseInt(data); ok {
			return strconv.FormatInt(n, 10)
		}
		return ToHex(data)
	case FormatUTF8:
		return DecodeUTF8Lenient(ToHex(data))
	case FormatBCD:
		return DecodeBCDSwapped(ToHex(data))
	case FormatVersion:
		parts := make([]string, len(data))
		for i, b := range data {
			parts[i] = strconv.Itoa(int(b))
		}
		return strings.Join(parts, ".")
	case FormatBytes:
		return strings.Join(SplitBytes(ToHex(data)), " ")
	default:
		return ToHex(data)
	}
}

// ParseInt interprets data as an unsigned big-endian integer. Empty values and
// values longer than 8 bytes are rejected.
func ParseInt(data []byte) (int64, bool) {
	if len(data) == 0 || len(data) > 8 {
		return 0, false
	}
	n, err := strconv.ParseUint(ToHex(data), 16, 64)
	if err != nil || n > 1<<63-1 {
		return 0, false
	}
	return int64(n), true
}
