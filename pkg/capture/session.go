package capture

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/gregLibert/esim-trace/pkg/iso7816"
	"github.com/gregLibert/esim-trace/pkg/sgp22"
	"github.com/gregLibert/esim-trace/pkg/tlv"
	"github.com/gregLibert/esim-trace/pkg/tree"
)

// STORE DATA P1 b8 (GPC 2.3, 11.11.2.1).
const storeDataLastBlock = 0x80

// Session follows the exchanges of one capture in order. It rebuilds ES10
// messages sent in several STORE DATA blocks and responses fetched through
// 61XX / GET RESPONSE before decoding them.
//
// A Session is not safe for concurrent use.
type Session struct {
	d *Decoder

	blocks  int
	command []byte

	// chain holds the transactions of a response fetched with GET RESPONSE.
	chain iso7816.Trace
}

// NewSession starts a session on top of d.
func (d *Decoder) NewSession() *Session {
	return &Session{d: d}
}

// Entry decodes one capture entry, APDU or payload.
func (s *Session) Entry(e Entry) *tree.Node {
	if e.IsAPDU() {
		return s.Exchange(e.Command, e.Response)
	}
	return s.d.DecodeEntry(e)
}

// Exchange decodes the next command APDU and its response, both in hex. An
// empty rspHex only decodes the command.
func (s *Session) Exchange(cmdHex, rspHex string) *tree.Node {
	root := tree.New("Exchange", "")

	cmd, h, ok := s.describeCommand(cmdHex)
	root.Append(cmd)
	root.Value = cmd.Value

	if ok && tlv.Normalize(rspHex) != "" {
		root.Append(s.responseNode(cmdHex, h, rspHex))
	}
	return root
}

func (s *Session) describeCommand(cmdHex string) (*tree.Node, iso7816.Header, bool) {
	if len(tlv.ToBytes(cmdHex)) < 4 {
		return tree.New("Command APDU", "").WithHint("too short: " + tlv.Normalize(cmdHex)), iso7816.Header{}, false
	}

	h := iso7816.ParseCommandHeader(cmdHex)
	n := h.Describe()
	if ins := n.Child("INS"); ins != nil {
		n.Value = ins.Hint
	}

	cla, err := h.Class()
	if err != nil {
		return n, h, true
	}

	switch {
	case cla.IsGlobalPlatform() && h.INS == byte(iso7816.INS_STORE_DATA):
		s.storeData(n, h)
	case isSelect(h.INS) && len(h.Data) > 0:
		if name, ok := knownAIDs[h.DataHex()]; ok {
			n.Add("Application", name)
		}
	case isESIMPayload(h.Data):
		n.Append(s.d.payloads().Decode(s.d.MessageType, h.DataHex(), sgp22.DirectionRequest))
	}
	return n, h, true
}

// storeData buffers STORE DATA blocks until the last one, then decodes the
// whole message.
func (s *Session) storeData(n *tree.Node, h iso7816.Header) {
	if int(h.P2) != s.blocks {
		s.d.logger().WithFields(logrus.Fields{
			"expected": s.blocks,
			"got":      h.P2,
		}).Debug("STORE DATA block out of sequence")
		if h.P2 == 0 {
			s.resetCommand()
		}
	}

	s.command = append(s.command, h.Data...)
	s.blocks++

	if h.P1&storeDataLastBlock == 0 {
		n.Add("Block", "intermediate").WithHint(fmt.Sprintf("block %d, %d bytes buffered", h.P2, len(s.command)))
		return
	}

	block := n.Add("Block", "last")
	payload := s.command
	if s.blocks > 1 {
		block.Hint = fmt.Sprintf("%d blocks, len=%d", s.blocks, len(payload))
	}
	s.resetCommand()

	if isESIMPayload(payload) {
		n.Append(s.d.payloads().Decode(s.d.MessageType, tlv.ToHex(payload), sgp22.DirectionRequest))
	}
}

func (s *Session) resetCommand() {
	s.blocks = 0
	s.command = nil
}

func (s *Session) responseNode(cmdHex string, h iso7816.Header, rspHex string) *tree.Node {
	rsp, err := iso7816.ParseResponseAPDU(tlv.ToBytes(rspHex))
	if err != nil {
		s.d.logger().WithField("response", tlv.Normalize(rspHex)).Debugf("unreadable response: %v", err)
		return tree.New("Response APDU", "").WithHint(err.Error())
	}

	n := tree.New("Response APDU", fmt.Sprintf("%04X", uint16(rsp.Status)))

	// Reserved CLA or INS only lose the command side of the transaction.
	cmd, _ := h.Command()
	tx := iso7816.Transaction{Command: cmd, Response: rsp}
	if h.INS == byte(iso7816.INS_GET_RESPONSE) && len(s.chain) > 0 {
		s.chain = append(s.chain, tx)
	} else {
		s.chain = iso7816.Trace{tx}
	}

	if remaining, more := rsp.MoreData(); more {
		if len(rsp.Data) > 0 {
			n.Append(dataNode(rsp.Data))
		}
		n.AddHint("SW", fmt.Sprintf("%04X", uint16(rsp.Status)), rsp.Status.Verbose()).
			Add("Pending", fmt.Sprintf("%d", remaining))
		return n
	}

	chain := s.chain
	s.chain = nil
	full := chain.Response()

	if len(chain) > 1 {
		n.Add("Reassembled", fmt.Sprintf("%d parts, len=%d", len(chain), len(full.Data)))
		s.d.logger().WithFields(logrus.Fields{
			"command": tlv.Truncate(tlv.Normalize(cmdHex), hintLimit),
			"parts":   len(chain),
		}).Debug("response reassembled")
	}

	switch {
	case len(full.Data) == 0:
	case isESIMPayload(full.Data):
		n.Append(s.d.payloads().Decode(s.d.MessageType, tlv.ToHex(full.Data), sgp22.DirectionResponse))
	case full.Data[0] == 0x6F && chain[0].Command != nil && isSelect(byte(chain[0].Command.Instruction.Raw)):
		n.Append(s.d.describeFCI(full.Data))
	default:
		n.Append(dataNode(full.Data))
	}

	n.AddHint("SW", fmt.Sprintf("%04X", uint16(rsp.Status)), rsp.Status.Verbose())
	return n
}
