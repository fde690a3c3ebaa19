// Package capture decodes eSIM traffic as it appears in logs: APDU exchanges
// between the LPA and the eUICC, or bare ES10 payloads tagged with their
// direction.
package capture

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/gregLibert/esim-trace/pkg/iso7816"
	"github.com/gregLibert/esim-trace/pkg/sgp22"
	"github.com/gregLibert/esim-trace/pkg/tlv"
	"github.com/gregLibert/esim-trace/pkg/tree"
)

const hintLimit = 120

// Decoder decodes captured exchanges and payload entries. It holds no
// per-capture state, see Session for that.
type Decoder struct {
	Payloads    *sgp22.Decoder
	MessageType sgp22.MessageType
	Logger      *logrus.Logger
}

// NewDecoder returns an eSIM capture decoder. A nil logger discards every
// message.
func NewDecoder(logger *logrus.Logger) *Decoder {
	payloads := sgp22.NewDecoder(logger)
	return &Decoder{
		Payloads:    payloads,
		MessageType: sgp22.MessageTypeESIM,
		Logger:      payloads.Logger,
	}
}

// DecodeExchange decodes one command APDU and its response using a default
// Decoder.
func DecodeExchange(cmdHex, rspHex string) *tree.Node {
	return NewDecoder(nil).DecodeExchange(cmdHex, rspHex)
}

// DecodeExchange decodes a single exchange on its own. Segmented STORE DATA
// and 61XX chains need a Session.
func (d *Decoder) DecodeExchange(cmdHex, rspHex string) *tree.Node {
	return d.NewSession().Exchange(cmdHex, rspHex)
}

// DecodeEntry decodes a bare payload entry read from a capture file.
func (d *Decoder) DecodeEntry(e Entry) *tree.Node {
	if e.IsAPDU() {
		return d.DecodeExchange(e.Command, e.Response)
	}
	return d.payloads().Decode(d.MessageType, e.Payload, e.Direction)
}

func (d *Decoder) describeFCI(data []byte) *tree.Node {
	fci, err := ParseFCI(data)
	if err != nil {
		return tree.New("FCI", fmt.Sprintf("len=%d", len(data))).WithHint(err.Error())
	}
	return fci.Describe()
}

// isESIMPayload reports whether data starts with a two byte context
// specific constructed tag, the shape of every ES10 message.
func isESIMPayload(data []byte) bool {
	return len(data) >= 2 && data[0] == 0xBF
}

func (d *Decoder) payloads() *sgp22.Decoder {
	if d.Payloads == nil {
		return sgp22.NewDecoder(d.Logger)
	}
	return d.Payloads
}

func (d *Decoder) logger() *logrus.Logger {
	return d.payloads().Logger
}

func dataNode(data []byte) *tree.Node {
	return tree.New("Data", fmt.Sprintf("len=%d", len(data))).WithHint(tlv.Truncate(tlv.ToHex(data), hintLimit))
}

func isSelect(ins byte) bool {
	return ins == byte(iso7816.INS_SELECT)
}
