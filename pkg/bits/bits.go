package bits

// Bit returns a byte with only the n-th bit set (1 to 8).
func Bit(n uint) byte {
	if n < 1 || n > 8 {
		return 0
	}
	return 1 << (n - 1)
}

// IsSet checks if the n-th bit is set (1 to 8).
func IsSet(b byte, n uint) bool {
	return b&Bit(n) != 0
}

// GetRange extracts the value from a range of bits (e.g., bits 4 to 3).
// Example: GetRange(0b00001100, 4, 3) returns 3 (0b11)
func GetRange(b byte, high, low uint) byte {
	if high < low || high > 8 || low < 1 {
		return 0
	}

	width := high - low + 1
	mask := byte((1 << width) - 1)

	return (b >> (low - 1)) & mask
}

// Set sets the n-th bit (1 to 8).
func Set(b byte, n uint) byte {
	return b | Bit(n)
}

// IsSetMSBFirst reports whether the bit at position index is set, counting
// from the most significant bit of data[0]. This is the ASN.1 BIT STRING
// numbering: bit 0 is 0x80 of the first byte, bit 8 is 0x80 of the second.
// Out of range positions are reported as unset.
func IsSetMSBFirst(data []byte, index int) bool {
	if index < 0 || index/8 >= len(data) {
		return false
	}
	return IsSet(data[index/8], uint(8-index%8))
}

// SetMSBFirst is the inverse of IsSetMSBFirst. The slice must be large enough.
func SetMSBFirst(data []byte, index int) {
	if index < 0 || index/8 >= len(data) {
		return
	}
	data[index/8] = Set(data[index/8], uint(8-index%8))
}
