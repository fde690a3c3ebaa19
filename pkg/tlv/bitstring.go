package tlv

import "github.com/gregLibert/esim-trace/pkg/bits"

// BIT STRING Logic (X.690 8.6):
//
// The first content octet holds the number of unused bits (0-7) in the final
// octet. The following octets carry the bits, most significant bit first, so
// named bit 0 is 0x80 of the first data octet.
//
// Example: 07 80 -> one significant bit, bit 0 set.

const (
	FlagSupported    = "Support"
	FlagNotSupported = "Not Support"
)

// Flag is one named bit of a BIT STRING.
type Flag struct {
	Name  string
	Value string
}

// IsSet reports whether the flag bit was present and set.
func (f Flag) IsSet() bool {
	return f.Value == FlagSupported
}

// DecodeBitStringFlags decodes a hex BIT STRING value (unused-bit count byte
// first) into one Flag per name. Bits past the significant length and names
// past the data are "Not Support"; bits without a name are ignored.
func DecodeBitStringFlags(s string, names []string) []Flag {
	data := ToBytes(s)
	if len(data) == 0 {
		return namedFlags(nil, 0, names)
	}

	unused := int(data[0])
	if unused > 7 {
		unused = 7
	}
	payload := data[1:]
	return namedFlags(payload, len(payload)*8-unused, names)
}

// DecodeRawFlags is DecodeBitStringFlags for values carrying no unused-bit
// count byte: every bit of every byte is significant.
func DecodeRawFlags(s string, names []string) []Flag {
	data := ToBytes(s)
	return namedFlags(data, len(data)*8, names)
}

func namedFlags(payload []byte, significant int, names []string) []Flag {
	flags := make([]Flag, len(names))
	for i, name := range names {
		value := FlagNotSupported
		if i < significant && bits.IsSetMSBFirst(payload, i) {
			value = FlagSupported
		}
		flags[i] = Flag{Name: name, Value: value}
	}
	return flags
}
