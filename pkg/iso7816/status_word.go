package iso7816

import (
	"fmt"

	"github.com/gregLibert/esim-trace/pkg/bits"
)

// StatusWord is the SW1-SW2 trailer of a response APDU.
//
// Most values are fixed codes. Some SW1 values carry a quantity in SW2:
//
//	61XX        XX more bytes wait for GET RESPONSE (T=0 transport)
//	91XX        success, a proactive command of XX bytes is pending (ETSI TS 102 221)
//	6CXX        wrong Le, XX is the expected one
//	62XX, 64XX  XX in '02'-'80': the card asks for a query of XX bytes
//	63CX        counter X, usually the tries left
type StatusWord uint16

// Category groups status words by their SW1 range.
type Category int

const (
	CategoryUnknown Category = iota
	CategorySuccess
	CategoryWarning
	CategoryError
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategorySuccess:
		return "success"
	case CategoryWarning:
		return "warning"
	case CategoryError:
		return "error"
	default:
		return "unknown"
	}
}

// NewStatusWord builds a status word from SW1 and SW2.
func NewStatusWord(sw1, sw2 byte) StatusWord {
	return StatusWord(uint16(sw1)<<8 | uint16(sw2))
}

func (sw StatusWord) SW1() byte { return byte(sw >> 8) }
func (sw StatusWord) SW2() byte { return byte(sw) }

// Category classifies the status word.
func (sw StatusWord) Category() Category {
	switch sw1 := sw.SW1(); {
	case sw == SW_NO_ERROR, sw1 == 0x61, sw1 == 0x91:
		return CategorySuccess
	case sw1 == 0x62, sw1 == 0x63:
		return CategoryWarning
	case sw1 >= 0x64 && sw1 <= 0x6F:
		return CategoryError
	default:
		return CategoryUnknown
	}
}

func (sw StatusWord) IsSuccess() bool { return sw.Category() == CategorySuccess }
func (sw StatusWord) IsWarning() bool { return sw.Category() == CategoryWarning }
func (sw StatusWord) IsError() bool   { return sw.Category() == CategoryError }

// IsTriggeringByCard reports a 62XX or 64XX where XX is a query length.
func (sw StatusWord) IsTriggeringByCard() bool {
	n := sw.SW2()
	return (sw.SW1() == 0x62 || sw.SW1() == 0x64) && n >= 0x02 && n <= 0x80
}

// IsCounter reports a 63CX status word.
func (sw StatusWord) IsCounter() bool {
	return sw.SW1() == 0x63 && bits.GetRange(sw.SW2(), 8, 5) == 0x0C
}

// Verbose describes the status word, quantities included.
func (sw StatusWord) Verbose() string {
	sw1, sw2 := sw.SW1(), sw.SW2()

	switch {
	case sw.IsTriggeringByCard():
		kind := "Warning (Triggering)"
		if sw1 == 0x64 {
			kind = "Error/Abort (Triggering)"
		}
		return fmt.Sprintf("%s: Card expects query of %d bytes", kind, sw2)
	case sw.IsCounter():
		return fmt.Sprintf("Warning: State changed, counter = %d", bits.GetRange(sw2, 4, 1))
	case sw1 == 0x61:
		return fmt.Sprintf("Process completed, %d bytes available", sw2)
	case sw1 == 0x91:
		return fmt.Sprintf("Normal processing, proactive command of %d bytes pending", sw2)
	case sw1 == 0x6C:
		return fmt.Sprintf("Wrong length, correct Le is %d", sw2)
	}

	desc, ok := statusDescriptions[sw]
	if !ok {
		desc = sw1Descriptions[sw1]
	}
	if desc == "" {
		desc = "Unknown Status"
	}
	return fmt.Sprintf("[%04X] %s", uint16(sw), desc)
}

// String returns the description of a known status word, or its hex value.
func (sw StatusWord) String() string {
	if desc, ok := statusDescriptions[sw]; ok {
		return desc
	}
	return fmt.Sprintf("StatusWord(%04X)", uint16(sw))
}

// Status words met on the ISD-R and ECASD, ISO/IEC 7816-4 and GPC 2.3 11.1.3.
const (
	SW_NO_ERROR StatusWord = 0x9000

	SW_WARN_NO_INFO            StatusWord = 0x6200
	SW_WARN_TRIGGERING_BY_CARD StatusWord = 0x6202
	SW_WARN_DATA_CORRUPTED     StatusWord = 0x6281
	SW_WARN_EOF_REACHED        StatusWord = 0x6282
	SW_WARN_FILE_DEACTIVATED   StatusWord = 0x6283
	SW_WARN_NV_CHANGED_NO_INFO StatusWord = 0x6300
	SW_WARN_FILE_FILLED        StatusWord = 0x6381

	SW_ERR_EXEC_NO_INFO   StatusWord = 0x6400
	SW_ERR_MEMORY_FAILURE StatusWord = 0x6581
	SW_ERR_WRONG_LENGTH   StatusWord = 0x6700

	SW_ERR_LOGICAL_CHANNEL_NOT_SUPP  StatusWord = 0x6881
	SW_ERR_SECURE_MESSAGING_NOT_SUPP StatusWord = 0x6882
	SW_ERR_LAST_COMMAND_EXPECTED     StatusWord = 0x6883

	SW_ERR_CMD_NOT_ALLOWED_NO_INFO StatusWord = 0x6900
	SW_ERR_SECURITY_STATUS_NOT_SAT StatusWord = 0x6982
	SW_ERR_COND_OF_USE_NOT_SAT     StatusWord = 0x6985
	SW_ERR_SM_OBJ_INCORRECT        StatusWord = 0x6988

	SW_ERR_INCORRECT_PARAMS_DATA StatusWord = 0x6A80
	SW_ERR_FUNC_NOT_SUPPORTED    StatusWord = 0x6A81
	SW_ERR_FILE_NOT_FOUND        StatusWord = 0x6A82
	SW_ERR_NOT_ENOUGH_MEMORY     StatusWord = 0x6A84
	SW_ERR_INCORRECT_PARAMS_P1P2 StatusWord = 0x6A86
	SW_ERR_REF_DATA_NOT_FOUND    StatusWord = 0x6A88

	SW_ERR_WRONG_P1P2        StatusWord = 0x6B00
	SW_ERR_INS_INVALID       StatusWord = 0x6D00
	SW_ERR_CLA_NOT_SUPPORTED StatusWord = 0x6E00
	SW_ERR_UNKNOWN           StatusWord = 0x6F00
)

var statusDescriptions = map[StatusWord]string{
	SW_NO_ERROR: "Normal processing",

	SW_WARN_NO_INFO:            "Warning: no information given",
	SW_WARN_TRIGGERING_BY_CARD: "Warning: triggering by the card",
	SW_WARN_DATA_CORRUPTED:     "Warning: part of returned data may be corrupted",
	SW_WARN_EOF_REACHED:        "Warning: end of file or record reached before reading Ne bytes",
	SW_WARN_FILE_DEACTIVATED:   "Warning: selected file deactivated",
	SW_WARN_NV_CHANGED_NO_INFO: "Warning: NV memory changed, no information given",
	SW_WARN_FILE_FILLED:        "Warning: file filled up by the last write",

	SW_ERR_EXEC_NO_INFO:   "Execution error: NV memory unchanged",
	SW_ERR_MEMORY_FAILURE: "Execution error: memory failure",
	SW_ERR_WRONG_LENGTH:   "Wrong length",

	SW_ERR_LOGICAL_CHANNEL_NOT_SUPP:  "Logical channel not supported",
	SW_ERR_SECURE_MESSAGING_NOT_SUPP: "Secure messaging not supported",
	SW_ERR_LAST_COMMAND_EXPECTED:     "Last command of the chain expected",

	SW_ERR_CMD_NOT_ALLOWED_NO_INFO: "Command not allowed",
	SW_ERR_SECURITY_STATUS_NOT_SAT: "Security status not satisfied",
	SW_ERR_COND_OF_USE_NOT_SAT:     "Conditions of use not satisfied",
	SW_ERR_SM_OBJ_INCORRECT:        "Incorrect secure messaging data objects",

	SW_ERR_INCORRECT_PARAMS_DATA: "Incorrect parameters in the command data field",
	SW_ERR_FUNC_NOT_SUPPORTED:    "Function not supported",
	SW_ERR_FILE_NOT_FOUND:        "File or application not found",
	SW_ERR_NOT_ENOUGH_MEMORY:     "Not enough memory space",
	SW_ERR_INCORRECT_PARAMS_P1P2: "Incorrect parameters P1-P2",
	SW_ERR_REF_DATA_NOT_FOUND:    "Referenced data or reference data not found",

	SW_ERR_WRONG_P1P2:        "Wrong parameters P1-P2",
	SW_ERR_INS_INVALID:       "Instruction code not supported or invalid",
	SW_ERR_CLA_NOT_SUPPORTED: "Class not supported",
	SW_ERR_UNKNOWN:           "No precise diagnosis",
}

// sw1Descriptions covers unlisted codes.
var sw1Descriptions = map[byte]string{
	0x62: "Warning: NV memory unchanged",
	0x63: "Warning: NV memory changed",
	0x64: "Execution Error: NV memory unchanged",
	0x65: "Execution Error: NV memory changed",
	0x66: "Execution Error: Security issue",
	0x68: "Checking Error: Function not supported",
	0x69: "Checking Error: Command not allowed",
	0x6A: "Checking Error: Wrong parameters",
}
