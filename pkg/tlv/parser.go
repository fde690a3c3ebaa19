// Package tlv provides lenient BER-TLV (Basic Encoding Rules - Tag-Length-Value)
// tokenization and the hex/text helpers needed to read captured card traffic.
package tlv

import (
	"errors"
	"fmt"
	"strings"

	"github.com/moov-io/bertlv"
)

// BER-TLV Logic according to ISO/IEC 8825-1 (X.690) and ISO/IEC 7816-4 Annex D.
//
// TAG:
//   - Bits 8-7 of the first byte: class (universal, application, context, private).
//   - Bit 6: constructed (1) or primitive (0).
//   - Bits 5-1 all set (0x1F): the tag number continues in the following bytes.
//     Each continuation byte has bit 8 set, except the last one.
//     Example: BF 2D, 9F 70, 5F 37.
//
// LENGTH:
//   - Short form: 0x00-0x7F is the length itself.
//   - Long form: 0x81-0x84 announces 1 to 4 following length bytes (big endian).
//   - 0x80 is the indefinite form. It is not used by card applications and stops decoding.
//
// Captured traces are frequently truncated. Decoding never fails as a whole:
// it returns every TLV read before the first problem together with the reason.

// MaxLengthBytes is the largest long form length accepted (4 bytes, 4 GiB).
const MaxLengthBytes = 4

var (
	ErrTruncatedTag     = errors.New("truncated tag")
	ErrTruncatedLength  = errors.New("truncated length")
	ErrTruncatedValue   = errors.New("value exceeds remaining data")
	ErrIndefiniteLength = errors.New("indefinite length not supported")
	ErrLengthTooLarge   = errors.New("length field too large")
	ErrNoProgress       = errors.New("decoder made no progress")
)

// DecodeError reports where and why decoding stopped.
type DecodeError struct {
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("bertlv: offset %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// TLV is one decoded Tag-Length-Value token. Value is the raw payload; nested
// TLVs are not decoded (see Children).
type TLV struct {
	Tag    string
	Length int
	Value  []byte
}

// ValueHex returns the value as uppercase hex.
func (t TLV) ValueHex() string {
	return ToHex(t.Value)
}

// IsConstructed reports whether bit 6 of the first tag byte is set.
func (t TLV) IsConstructed() bool {
	data := ToBytes(t.Tag)
	return len(data) > 0 && data[0]&0x20 != 0
}

// Children tokenizes the value. Truncated content yields the TLVs read so far.
func (t TLV) Children() []TLV {
	children, _ := Decode(t.Value)
	return children
}

// Encoded rebuilds the full TLV bytes using the minimal length encoding.
func (t TLV) Encoded() ([]byte, error) {
	return Encode(bertlv.TLV{Tag: t.Tag, Value: t.Value})
}

// Parse normalizes a hex string and tokenizes it, dropping an odd trailing
// nibble. It returns every TLV decoded before the first malformed one.
func Parse(s string) []TLV {
	tlvs, _ := DecodeHex(s)
	return tlvs
}

// DecodeHex is Parse that also reports why decoding stopped early.
func DecodeHex(s string) ([]TLV, error) {
	return Decode(ToBytes(s))
}

// Decode tokenizes data into consecutive top-level TLVs. On a malformed token
// it stops and returns the TLVs already decoded together with a *DecodeError.
func Decode(data []byte) ([]TLV, error) {
	var out []TLV

	offset := 0
	for offset < len(data) {
		packet, n, err := decodeOne(data[offset:])
		if err != nil {
			return out, &DecodeError{Offset: offset, Err: err}
		}
		if n <= 0 {
			return out, &DecodeError{Offset: offset, Err: ErrNoProgress}
		}
		out = append(out, packet)
		offset += n
	}

	return out, nil
}

func decodeOne(data []byte) (TLV, int, error) {
	tag, tagLen, ok := ReadTag(data)
	if !ok {
		return TLV{}, 0, ErrTruncatedTag
	}

	length, lenLen, err := readLength(data[tagLen:])
	if err != nil {
		return TLV{}, 0, err
	}

	start := tagLen + lenLen
	if length > len(data)-start {
		return TLV{}, 0, ErrTruncatedValue
	}
	end := start + length

	return TLV{Tag: tag, Length: length, Value: data[start:end:end]}, end, nil
}

// ReadTag reads one BER tag at the start of data and returns it as uppercase
// hex together with the number of bytes consumed.
func ReadTag(data []byte) (string, int, bool) {
	if len(data) == 0 {
		return "", 0, false
	}

	n := 1
	if data[0]&0x1F == 0x1F {
		for {
			if n >= len(data) {
				return "", 0, false
			}
			b := data[n]
			n++
			if b&0x80 == 0 {
				break
			}
		}
	}

	return ToHex(data[:n]), n, true
}

func readLength(data []byte) (int, int, error) {
	if len(data) == 0 {
		return 0, 0, ErrTruncatedLength
	}

	first := data[0]
	if first < 0x80 {
		return int(first), 1, nil
	}

	numBytes := int(first & 0x7F)
	if numBytes == 0 {
		return 0, 0, ErrIndefiniteLength
	}
	if numBytes > MaxLengthBytes {
		return 0, 0, ErrLengthTooLarge
	}
	if 1+numBytes > len(data) {
		return 0, 0, ErrTruncatedLength
	}

	length := 0
	for _, b := range data[1 : 1+numBytes] {
		length = (length << 8) | int(b)
	}
	if length < 0 {
		return 0, 0, ErrLengthTooLarge
	}
	return length, 1 + numBytes, nil
}

// Find returns the first TLV carrying tag (case insensitive).
func Find(tlvs []TLV, tag string) (TLV, bool) {
	for _, t := range tlvs {
		if strings.EqualFold(t.Tag, tag) {
			return t, true
		}
	}
	return TLV{}, false
}

// DecodeTree decodes data strictly and recursively with bertlv. Unlike Decode
// it fails on any malformed byte, including inside constructed values.
func DecodeTree(data []byte) ([]bertlv.TLV, error) {
	packets, err := bertlv.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("bertlv decode failed: %w", err)
	}
	return packets, nil
}

// RawValue returns the value bytes of a bertlv packet, re-encoding nested
// TLVs of constructed packets.
func RawValue(p bertlv.TLV) []byte {
	if len(p.TLVs) > 0 {
		if enc, err := bertlv.Encode(p.TLVs); err == nil {
			return enc
		}
	}
	return p.Value
}

// Encode serializes packets with bertlv.
func Encode(packets ...bertlv.TLV) ([]byte, error) {
	data, err := bertlv.Encode(packets)
	if err != nil {
		return nil, fmt.Errorf("bertlv encode failed: %w", err)
	}
	return data, nil
}
