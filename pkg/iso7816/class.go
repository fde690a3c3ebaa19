package iso7816

import (
	"fmt"
	"strings"

	"github.com/gregLibert/esim-trace/pkg/bits"
)

// CLA byte layouts seen in eSIM traces.
//
// Interindustry classes (ISO/IEC 7816-4, 5.4.1), b8 = 0:
//
//	000c ssnn  first range: b5 chaining, b4-b3 SM, b2-b1 channel 0-3
//	01sc nnnn  further range: b6 SM, b5 chaining, b4-b1 channel minus 4
//
// GlobalPlatform classes (GPC 2.3, 11.1.4), used for STORE DATA and
// GET DATA towards the ISD-R:
//
//	1000 0snn  b3 GP secure messaging, channel 0-3
//	11s0 nnnn  b6 GP secure messaging, channel 4-19
//
// Any other class with b8 set is proprietary and left opaque.

// SecureMessaging is the SM indication of a class byte.
type SecureMessaging int

const (
	SMNone SecureMessaging = iota
	// SMProprietary is also used for GlobalPlatform secure messaging.
	SMProprietary
	SMHeaderNoProc
	// SMHeaderAuth only exists in the first interindustry range.
	SMHeaderAuth
)

var smNames = map[SecureMessaging]string{
	SMNone:         "None",
	SMProprietary:  "Proprietary",
	SMHeaderNoProc: "ISO (Header not processed)",
	SMHeaderAuth:   "ISO (Header authenticated)",
}

const maxChannel = 19

// Class is a decoded CLA byte.
type Class struct {
	Raw             byte
	IsProprietary   bool
	IsChained       bool
	SecureMessaging SecureMessaging
	Channel         uint8
}

// NewClass decodes a CLA byte. 'FF' is reserved for PPS and rejected.
func NewClass(cla byte) (Class, error) {
	if cla == 0xFF {
		return Class{}, fmt.Errorf("invalid CLA value: 0xFF is reserved")
	}

	c := Class{Raw: cla}
	switch {
	case bits.IsSet(cla, 8):
		c.IsProprietary = true
		c.decodeGlobalPlatform()
	case bits.IsSet(cla, 7):
		c.IsChained = bits.IsSet(cla, 5)
		c.Channel = bits.GetRange(cla, 4, 1) + 4
		if bits.IsSet(cla, 6) {
			c.SecureMessaging = SMHeaderNoProc
		}
	default:
		c.IsChained = bits.IsSet(cla, 5)
		c.Channel = bits.GetRange(cla, 2, 1)
		c.SecureMessaging = SecureMessaging(bits.GetRange(cla, 4, 3))
	}
	return c, nil
}

// decodeGlobalPlatform fills the channel and SM of a GlobalPlatform class.
// Other proprietary classes keep the zero values.
func (c *Class) decodeGlobalPlatform() {
	var smBit uint
	switch {
	case isFirstGP(c.Raw):
		c.Channel = bits.GetRange(c.Raw, 2, 1)
		smBit = 3
	case isFurtherGP(c.Raw):
		c.Channel = bits.GetRange(c.Raw, 4, 1) + 4
		smBit = 6
	default:
		return
	}
	if bits.IsSet(c.Raw, smBit) {
		c.SecureMessaging = SMProprietary
	}
}

func isFirstGP(cla byte) bool   { return cla&0xF8 == 0x80 }
func isFurtherGP(cla byte) bool { return cla&0xD0 == 0xC0 }

// IsGlobalPlatform reports a class in '80'-'87', 'C0'-'CF' or 'E0'-'EF'.
func (c Class) IsGlobalPlatform() bool {
	return isFirstGP(c.Raw) || isFurtherGP(c.Raw)
}

// NewGlobalPlatformClass returns the class an LPA uses to reach the ISD-R on
// the given logical channel.
func NewGlobalPlatformClass(channel uint8, secure bool) (Class, error) {
	if channel > maxChannel {
		return Class{}, fmt.Errorf("channel %d out of range (max %d)", channel, maxChannel)
	}

	raw, smBit := 0x80|channel, uint(3)
	if channel > 3 {
		raw, smBit = 0xC0|(channel-4), 6
	}
	if secure {
		raw = bits.Set(raw, smBit)
	}
	return NewClass(raw)
}

// NewInterindustryClass builds an interindustry class, picking the first or
// further range from the channel.
func NewInterindustryClass(isChained bool, sm SecureMessaging, channel uint8) (Class, error) {
	if channel > maxChannel {
		return Class{}, fmt.Errorf("channel %d out of range (max %d)", channel, maxChannel)
	}
	if channel > 3 && (sm == SMProprietary || sm == SMHeaderAuth) {
		return Class{}, fmt.Errorf("SM indicator %d not supported for further interindustry range (ch 4-19)", sm)
	}

	c := Class{IsChained: isChained, SecureMessaging: sm, Channel: channel}
	raw, err := c.Encode()
	if err != nil {
		return Class{}, err
	}
	c.Raw = raw
	return c, nil
}

// Encode returns the CLA byte. Proprietary classes are returned as parsed.
func (c *Class) Encode() (byte, error) {
	if c.IsProprietary {
		return c.Raw, nil
	}

	var b byte
	if c.IsChained {
		b = bits.Set(b, 5)
	}
	if c.Channel <= 3 {
		return b | byte(c.SecureMessaging)<<2 | c.Channel, nil
	}

	b = bits.Set(b, 7)
	if c.SecureMessaging != SMNone {
		b = bits.Set(b, 6)
	}
	return b | (c.Channel - 4), nil
}

// Verbose describes the class on several lines.
func (c Class) Verbose() string {
	if c.IsGlobalPlatform() {
		sm := "None"
		if c.SecureMessaging != SMNone {
			sm = "GlobalPlatform"
		}
		return fmt.Sprintf("Class: GlobalPlatform (0x%02X)\nSecure Messaging: %s\nLogical Channel: %d", c.Raw, sm, c.Channel)
	}
	if c.IsProprietary {
		return fmt.Sprintf("Class: Proprietary (0x%02X)", c.Raw)
	}

	var sb strings.Builder
	if c.Channel > 3 {
		sb.WriteString("Range: Further Interindustry (Ch 4-19)\n")
	} else {
		sb.WriteString("Range: First Interindustry (Ch 0-3)\n")
	}
	if c.IsChained {
		sb.WriteString("Chaining: More commands follow (Chaining)\n")
	} else {
		sb.WriteString("Chaining: Last or only command\n")
	}

	sm, ok := smNames[c.SecureMessaging]
	if !ok {
		sm = "Unknown"
	}
	fmt.Fprintf(&sb, "Secure Messaging: %s\nLogical Channel: %d", sm, c.Channel)
	return sb.String()
}
