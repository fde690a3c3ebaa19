package iso7816

import (
	"fmt"

	"github.com/gregLibert/esim-trace/pkg/tlv"
	"github.com/gregLibert/esim-trace/pkg/tree"
)

// Header is the header of a captured command APDU, plus the command data
// when it can be located.
//
// Captures are often truncated, so parsing never fails: a command shorter
// than the four header bytes yields the zero Header, and a data field shorter
// than Lc leaves Data nil. The Le byte is not decoded.
type Header struct {
	CLA, INS, P1, P2 byte
	Lc               int
	HasLc            bool
	Data             []byte
}

// ParseCommandHeader parses the hex form of a captured command APDU.
func ParseCommandHeader(s string) Header {
	raw := tlv.ToBytes(s)
	if len(raw) < 4 {
		return Header{}
	}

	h := Header{CLA: raw[0], INS: raw[1], P1: raw[2], P2: raw[3]}
	if len(raw) == 4 {
		return h
	}

	h.HasLc = true
	h.Lc = int(raw[4])
	rest := raw[5:]

	switch {
	case h.Lc > 0 && len(rest) >= h.Lc:
		h.Data = rest[:h.Lc:h.Lc]
	case h.Lc == 0 && len(rest) > 0:
		// Some readers log extended or unspecified lengths as 00 followed by the data.
		h.Data = rest
	}

	return h
}

// Class decodes the CLA byte.
func (h Header) Class() (Class, error) {
	return NewClass(h.CLA)
}

// Instruction decodes the INS byte.
func (h Header) Instruction() (Instruction, error) {
	return NewInstruction(InsCode(h.INS))
}

// Command rebuilds the command APDU. Le is not recovered.
func (h Header) Command() (*CommandAPDU, error) {
	cla, err := h.Class()
	if err != nil {
		return nil, err
	}
	ins, err := h.Instruction()
	if err != nil {
		return nil, err
	}
	return NewCommandAPDU(cla, ins, h.P1, h.P2, h.Data, 0), nil
}

// DataHex returns the command data in uppercase hex.
func (h Header) DataHex() string {
	return tlv.ToHex(h.Data)
}

// Describe renders the header as a tree.
func (h Header) Describe() *tree.Node {
	root := tree.New("Command APDU", "")

	cla, claErr := h.Class()
	switch {
	case claErr != nil:
		root.AddHint("CLA", fmt.Sprintf("%02X", h.CLA), claErr.Error())
	case cla.IsGlobalPlatform():
		root.AddHint("CLA", fmt.Sprintf("%02X", h.CLA), fmt.Sprintf("GlobalPlatform, channel %d", cla.Channel))
	case cla.IsProprietary:
		root.AddHint("CLA", fmt.Sprintf("%02X", h.CLA), "Proprietary")
	default:
		root.AddHint("CLA", fmt.Sprintf("%02X", h.CLA), fmt.Sprintf("Interindustry, channel %d", cla.Channel))
	}

	ins, err := h.Instruction()
	if err != nil {
		root.AddHint("INS", fmt.Sprintf("%02X", h.INS), err.Error())
	} else {
		root.AddHint("INS", fmt.Sprintf("%02X", h.INS), ins.Name(cla))
	}

	root.Add("P1", fmt.Sprintf("%02X", h.P1))
	root.Add("P2", fmt.Sprintf("%02X", h.P2))

	if h.HasLc {
		root.Add("Lc", fmt.Sprintf("%d", h.Lc))
	}
	if len(h.Data) > 0 {
		root.AddHint("Data", fmt.Sprintf("len=%d", len(h.Data)), tlv.Truncate(h.DataHex(), 120))
	}

	return root
}
