package iso7816

import (
	"fmt"

	"github.com/gregLibert/esim-trace/pkg/tlv"
)

// A Transaction is one C-APDU and the R-APDU the card sent back.
//
// A Trace is the ordered list of transactions behind one logical command.
// On T=0 an ES10 response longer than the short Le comes back as '61XX'
// followed by GET RESPONSE transactions; a '6CXX' makes the LPA resend the
// command with the right Le. The Trace keeps the whole conversation and its
// outcome is the one of the last transaction.

// Transaction is a command and its response. Response is nil when the
// capture holds no response.
type Transaction struct {
	Command  *CommandAPDU
	Response *ResponseAPDU
}

// IsSuccess reports whether the response status is a success.
func (t *Transaction) IsSuccess() bool {
	return t.Response != nil && t.Response.Status.IsSuccess()
}

// NewTransaction rebuilds a transaction from a captured command and response,
// both in hex. An empty response yields a transaction without Response.
func NewTransaction(cmdHex, rspHex string) (*Transaction, error) {
	if len(tlv.ToBytes(cmdHex)) < 4 {
		return nil, fmt.Errorf("command too short: %q", cmdHex)
	}
	cmd, err := ParseCommandHeader(cmdHex).Command()
	if err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}

	tx := &Transaction{Command: cmd}
	if tlv.Normalize(rspHex) == "" {
		return tx, nil
	}
	if tx.Response, err = ParseResponseAPDU(tlv.ToBytes(rspHex)); err != nil {
		return nil, fmt.Errorf("invalid response: %w", err)
	}
	return tx, nil
}

// Trace is a sequence of transactions.
type Trace []Transaction

// Last returns the final transaction, or nil for an empty trace.
func (t Trace) Last() *Transaction {
	if len(t) == 0 {
		return nil
	}
	return &t[len(t)-1]
}

// IsSuccess reports the outcome of the last transaction. Intermediate 61XX
// statuses do not count.
func (t Trace) IsSuccess() bool {
	last := t.Last()
	return last != nil && last.IsSuccess()
}

// Responses returns the responses of the trace, skipping transactions
// without one.
func (t Trace) Responses() []*ResponseAPDU {
	out := make([]*ResponseAPDU, 0, len(t))
	for _, tx := range t {
		if tx.Response != nil {
			out = append(out, tx.Response)
		}
	}
	return out
}

// Response joins the response data of the whole trace under the status of
// the last response.
func (t Trace) Response() *ResponseAPDU {
	return JoinResponses(t.Responses()...)
}
