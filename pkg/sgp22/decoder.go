package sgp22

import (
	"errors"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gregLibert/esim-trace/pkg/tlv"
	"github.com/gregLibert/esim-trace/pkg/tree"
)

// Decoder turns captured payloads into parse trees using a Registry.
// A Decoder is safe for concurrent use once its Registry is populated.
type Decoder struct {
	Registry *Registry
	Logger   *logrus.Logger
}

// NewDecoder returns a decoder backed by the default registry. A nil logger
// discards every message.
func NewDecoder(logger *logrus.Logger) *Decoder {
	if logger == nil {
		logger = newDiscardLogger()
	}
	return &Decoder{
		Registry: DefaultRegistry(),
		Logger:   logger,
	}
}

// Decode tokenizes payload and hands the value of each top-level TLV to the
// dissector registered for its tag. Tags without a dissector are rendered
// generically.
//
// A payload holding exactly one TLV returns the dissector tree itself. Other
// payloads are wrapped in a "Payload" node. Bytes that could not be tokenized
// end up in a "parse-error" node carrying their raw hex.
func (d *Decoder) Decode(mt MessageType, payload string, dir Direction) *tree.Node {
	data := tlv.ToBytes(payload)
	tlvs, err := tlv.Decode(data)

	var nodes []*tree.Node
	for _, t := range tlvs {
		nodes = append(nodes, d.decodeTLV(mt, t, dir))
	}

	if err == nil && len(nodes) == 1 {
		return nodes[0]
	}

	root := tree.New("Payload", "")
	root.Append(nodes...)

	if err != nil {
		offset := 0
		var decodeErr *tlv.DecodeError
		if errors.As(err, &decodeErr) {
			offset = decodeErr.Offset
		}
		d.logger().WithFields(logrus.Fields{
			"offset": offset,
			"tokens": len(tlvs),
		}).Debugf("tokenizer stopped: %v", err)

		root.AddHint("parse-error", lenValue(len(data)-offset), err.Error()+": "+hexHint(data[offset:]))
	}
	if len(data) == 0 {
		d.logger().Debugf("no hex data in payload %q", payload)
		root.AddHint("parse-error", "empty payload", tlv.Truncate(strings.TrimSpace(payload), hintLimit))
	}
	return root
}

func (d *Decoder) decodeTLV(mt MessageType, t tlv.TLV, dir Direction) *tree.Node {
	reg := d.Registry
	if reg == nil {
		reg = DefaultRegistry()
	}

	dissector, ok := reg.Resolve(mt, t.Tag)
	if !ok {
		d.logger().WithFields(logrus.Fields{
			"type": mt.String(),
			"tag":  t.Tag,
		}).Debug("no dissector registered")
		return GenericNode(t)
	}
	return dissector.Build(t.ValueHex(), dir)
}

var discardLogger = newDiscardLogger()

func (d *Decoder) logger() *logrus.Logger {
	if d.Logger == nil {
		return discardLogger
	}
	return d.Logger
}

func newDiscardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.Out = io.Discard
	return logger
}
