package iso7816

import (
	"fmt"

	"github.com/gregLibert/esim-trace/pkg/bits"
)

// INS byte rules (ISO/IEC 7816-4, 5.4.2):
//   - '6X' and '9X' are procedure bytes and never valid instructions.
//   - Under an interindustry class an odd INS announces BER-TLV data
//     (READ BINARY 'B0' against 'B1').
//
// The same code may name different commands under a proprietary class:
// 'E2' is APPEND RECORD for ISO but STORE DATA for GlobalPlatform, the
// command carrying every ES10 message to the ISD-R.

// InsCode is a raw instruction byte.
type InsCode byte

// Instructions of ISO/IEC 7816-4 seen on a UICC.
const (
	INS_VERIFY                InsCode = 0x20
	INS_CHANGE_REFERENCE_DATA InsCode = 0x24
	INS_RESET_RETRY_COUNTER   InsCode = 0x2C
	INS_ACTIVATE_FILE         InsCode = 0x44
	INS_MANAGE_CHANNEL        InsCode = 0x70
	INS_EXTERNAL_AUTHENTICATE InsCode = 0x82
	INS_GET_CHALLENGE         InsCode = 0x84
	INS_INTERNAL_AUTHENTICATE InsCode = 0x88
	INS_SEARCH_RECORD         InsCode = 0xA2
	INS_SELECT                InsCode = 0xA4
	INS_READ_BINARY           InsCode = 0xB0
	INS_READ_BINARY_BER       InsCode = 0xB1
	INS_READ_RECORD           InsCode = 0xB2
	INS_GET_RESPONSE          InsCode = 0xC0
	INS_ENVELOPE              InsCode = 0xC2
	INS_GET_DATA              InsCode = 0xCA
	INS_GET_DATA_BER          InsCode = 0xCB
	INS_UPDATE_BINARY         InsCode = 0xD6
	INS_PUT_DATA              InsCode = 0xDA
	INS_UPDATE_RECORD         InsCode = 0xDC
	INS_CREATE_FILE           InsCode = 0xE0
	INS_APPEND_RECORD         InsCode = 0xE2
	INS_DELETE_FILE           InsCode = 0xE4
)

// Instructions of the GlobalPlatform and ETSI TS 102 221 classes.
const (
	INS_TERMINAL_PROFILE  InsCode = 0x10
	INS_FETCH             InsCode = 0x12
	INS_TERMINAL_RESPONSE InsCode = 0x14
	INS_INITIALIZE_UPDATE InsCode = 0x50
	INS_STORE_DATA        InsCode = 0xE2
	INS_STATUS            InsCode = 0xF2
)

// insName holds the ISO name and, when it differs or only exists there, the
// name under a proprietary class.
type insName struct {
	iso, proprietary string
}

var insNames = map[InsCode]insName{
	INS_TERMINAL_PROFILE:      {"", "TERMINAL PROFILE"},
	INS_FETCH:                 {"", "FETCH"},
	INS_TERMINAL_RESPONSE:     {"", "TERMINAL RESPONSE"},
	INS_VERIFY:                {"VERIFY", ""},
	INS_CHANGE_REFERENCE_DATA: {"CHANGE REFERENCE DATA", ""},
	INS_RESET_RETRY_COUNTER:   {"RESET RETRY COUNTER", ""},
	INS_ACTIVATE_FILE:         {"ACTIVATE FILE", ""},
	INS_INITIALIZE_UPDATE:     {"", "INITIALIZE UPDATE"},
	INS_MANAGE_CHANNEL:        {"MANAGE CHANNEL", ""},
	INS_EXTERNAL_AUTHENTICATE: {"EXTERNAL AUTHENTICATE", ""},
	INS_GET_CHALLENGE:         {"GET CHALLENGE", ""},
	INS_INTERNAL_AUTHENTICATE: {"INTERNAL AUTHENTICATE", ""},
	INS_SEARCH_RECORD:         {"SEARCH RECORD", ""},
	INS_SELECT:                {"SELECT", ""},
	INS_READ_BINARY:           {"READ BINARY", ""},
	INS_READ_BINARY_BER:       {"READ BINARY (BER-TLV)", ""},
	INS_READ_RECORD:           {"READ RECORD", ""},
	INS_GET_RESPONSE:          {"GET RESPONSE", ""},
	INS_ENVELOPE:              {"ENVELOPE", ""},
	INS_GET_DATA:              {"GET DATA", ""},
	INS_GET_DATA_BER:          {"GET DATA (BER-TLV)", ""},
	INS_UPDATE_BINARY:         {"UPDATE BINARY", ""},
	INS_PUT_DATA:              {"PUT DATA", ""},
	INS_UPDATE_RECORD:         {"UPDATE RECORD", ""},
	INS_CREATE_FILE:           {"CREATE FILE", ""},
	INS_APPEND_RECORD:         {"APPEND RECORD", "STORE DATA"},
	INS_DELETE_FILE:           {"DELETE FILE", ""},
	INS_STATUS:                {"", "STATUS"},
}

// Instruction is a validated INS byte.
type Instruction struct {
	Raw      InsCode
	IsBERTLV bool
}

// NewInstruction validates ins, rejecting the '6X' and '9X' ranges.
func NewInstruction(ins InsCode) (Instruction, error) {
	switch byte(ins) & 0xF0 {
	case 0x60, 0x90:
		return Instruction{}, fmt.Errorf("invalid INS 0x%02X: 6X and 9X are reserved", byte(ins))
	}
	return Instruction{Raw: ins, IsBERTLV: bits.IsSet(byte(ins), 1)}, nil
}

// Verbose describes the instruction on one line.
func (i Instruction) Verbose() string {
	format := "Standard"
	if i.IsBERTLV {
		format = "BER-TLV"
	}
	return fmt.Sprintf("INS: 0x%02X | Command: %s | Format: %s", byte(i.Raw), i.Raw, format)
}

// Name returns the command name under cla. Proprietary classes prefer the
// GlobalPlatform / ETSI name and fall back to the ISO one.
func (i Instruction) Name(cla Class) string {
	if cla.IsProprietary {
		if n := insNames[i.Raw]; n.proprietary != "" {
			return n.proprietary
		}
	}
	return i.Raw.String()
}

// String returns the ISO/IEC 7816-4 command name.
func (c InsCode) String() string {
	if n := insNames[c]; n.iso != "" {
		return n.iso
	}
	return fmt.Sprintf("InsCode(%02X)", byte(c))
}
