package iso7816

import (
	"bytes"
	"fmt"
)

// APDU (Application Protocol Data Unit) according to ISO/IEC 7816-3 and 7816-4.
//
// C-APDU: CLA INS P1 P2 [Lc Data] [Le]
//   - Short lengths use one byte (Lc up to 255, Le up to 256 with 00 meaning 256).
//   - Extended lengths use 00 + two bytes and are chosen when Lc > 255 or Le > 256.
//
// R-APDU: [Data] SW1 SW2
//
// ES10 messages travel inside GlobalPlatform STORE DATA commands (GPC 2.3, 11.11).
// A message larger than one command is cut into blocks:
//   - P1 b8 marks the last block, P1 b5-b4 = 10 announces BER-TLV data.
//   - P2 is the block number, starting at 00.
//
// On T=0 the card answers 61XX and the remainder is fetched with GET RESPONSE.

// Length limits (ISO 7816-3).
const (
	MaxShortLc    = 255
	MaxShortLe    = 256 // encoded as 00
	MaxExtendedLc = 65535
	MaxExtendedLe = 65536 // encoded as 0000
)

// STORE DATA P1 values for BER-TLV data.
const (
	StoreDataMoreBlocks byte = 0x11
	StoreDataLastBlock  byte = 0x91
)

// MaxStoreDataBlocks is the number of blocks P2 can count.
const MaxStoreDataBlocks = 256

// CommandAPDU represents a command sent to the card.
type CommandAPDU struct {
	Class       Class
	Instruction Instruction
	P1, P2      byte
	Data        []byte
	Ne          int // Expected response length (0 means none)
}

// NewCommandAPDU creates a basic command.
func NewCommandAPDU(cla Class, ins Instruction, p1, p2 byte, data []byte, ne int) *CommandAPDU {
	return &CommandAPDU{
		Class:       cla,
		Instruction: ins,
		P1:          p1,
		P2:          p2,
		Data:        data,
		Ne:          ne,
	}
}

// Bytes encodes the command, switching to extended lengths when Data or Ne
// do not fit the short form.
func (c *CommandAPDU) Bytes() ([]byte, error) {
	if len(c.Data) > MaxExtendedLc || c.Ne > MaxExtendedLe {
		return nil, fmt.Errorf("command too large: Nc=%d Ne=%d", len(c.Data), c.Ne)
	}

	class, err := c.Class.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode Class: %w", err)
	}
	buf := bytes.NewBuffer([]byte{class, byte(c.Instruction.Raw), c.P1, c.P2})

	nc, ne := len(c.Data), c.Ne
	extended := nc > MaxShortLc || ne > MaxShortLe

	if nc > 0 {
		if extended {
			buf.Write([]byte{0x00, byte(nc >> 8), byte(nc)})
		} else {
			buf.WriteByte(byte(nc))
		}
		buf.Write(c.Data)
	}

	switch {
	case ne <= 0:
	case !extended:
		// 256 wraps to 00.
		buf.WriteByte(byte(ne))
	default:
		// Without Lc, the leading 00 tells extended Le apart from a short one.
		if nc == 0 {
			buf.WriteByte(0x00)
		}
		// 65536 wraps to 0000.
		buf.Write([]byte{byte(ne >> 8), byte(ne)})
	}

	return buf.Bytes(), nil
}

// NewStoreData builds one STORE DATA block.
func NewStoreData(cla Class, block int, last bool, data []byte) (*CommandAPDU, error) {
	if block < 0 || block >= MaxStoreDataBlocks {
		return nil, fmt.Errorf("block number %d out of range", block)
	}
	ins, err := NewInstruction(INS_STORE_DATA)
	if err != nil {
		return nil, err
	}
	p1 := StoreDataMoreBlocks
	if last {
		p1 = StoreDataLastBlock
	}
	return NewCommandAPDU(cla, ins, p1, byte(block), data, MaxShortLe), nil
}

// SegmentStoreData cuts an ES10 message into STORE DATA blocks of at most
// blockSize bytes. A blockSize of 0 or more than MaxShortLc uses MaxShortLc.
func SegmentStoreData(cla Class, payload []byte, blockSize int) ([]*CommandAPDU, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("empty STORE DATA payload")
	}
	if blockSize <= 0 || blockSize > MaxShortLc {
		blockSize = MaxShortLc
	}

	var cmds []*CommandAPDU
	for offset := 0; offset < len(payload); offset += blockSize {
		end := min(offset+blockSize, len(payload))
		cmd, err := NewStoreData(cla, len(cmds), end == len(payload), payload[offset:end])
		if err != nil {
			return nil, fmt.Errorf("segment at offset %d: %w", offset, err)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// String returns a readable representation of the command meta-data.
func (c *CommandAPDU) String() string {
	return fmt.Sprintf("%s | P1: %02X, P2: %02X | Lc: %d | Le: %d",
		c.Instruction.Verbose(), c.P1, c.P2, len(c.Data), c.Ne)
}

// ResponseAPDU represents the reply from the card (R-APDU).
type ResponseAPDU struct {
	Data   []byte
	Status StatusWord
}

// ParseResponseAPDU parses raw bytes received from the card into a ResponseAPDU.
// The input must contain at least 2 bytes (SW1, SW2).
func ParseResponseAPDU(raw []byte) (*ResponseAPDU, error) {
	if len(raw) < 2 {
		return nil, fmt.Errorf("response too short: length %d", len(raw))
	}

	indexSW1 := len(raw) - 2
	data := raw[:indexSW1]
	sw1 := raw[indexSW1]
	sw2 := raw[indexSW1+1]

	return &ResponseAPDU{
		Data:   data,
		Status: NewStatusWord(sw1, sw2),
	}, nil
}

// MoreData reports whether the card holds further response bytes (61XX).
func (r *ResponseAPDU) MoreData() (int, bool) {
	if r.Status.SW1() != 0x61 {
		return 0, false
	}
	if r.Status.SW2() == 0x00 {
		return MaxShortLe, true
	}
	return int(r.Status.SW2()), true
}

// JoinResponses concatenates the data of a 61XX / GET RESPONSE chain. The
// status word is the one of the last part.
func JoinResponses(parts ...*ResponseAPDU) *ResponseAPDU {
	if len(parts) == 0 {
		return nil
	}
	var data []byte
	for _, p := range parts {
		data = append(data, p.Data...)
	}
	return &ResponseAPDU{Data: data, Status: parts[len(parts)-1].Status}
}

// String returns a readable representation of the response.
func (r *ResponseAPDU) String() string {
	return fmt.Sprintf("Data (%d bytes) | Status: %s", len(r.Data), r.Status.Verbose())
}

