package sgp22

import (
	"fmt"
	"strings"

	"github.com/moov-io/bertlv"

	"github.com/gregLibert/esim-trace/pkg/tlv"
	"github.com/gregLibert/esim-trace/pkg/tree"
)

// hintLimit caps the raw hex shown in hints.
const hintLimit = 120

// field describes a primitive tag and how its value is displayed.
type field struct {
	tag    string
	name   string
	format string
}

func lookupField(fields []field, tag string) (field, bool) {
	for _, f := range fields {
		if strings.EqualFold(f.tag, tag) {
			return f, true
		}
	}
	return field{}, false
}

// addFields decodes every TLV through the field table. Tags missing from the
// table become generic nodes named after category.
func addFields(parent *tree.Node, tlvs []tlv.TLV, fields []field, category string) {
	for _, t := range tlvs {
		if f, ok := lookupField(fields, t.Tag); ok {
			parent.Append(fieldNode(f.name, t, f.format))
			continue
		}
		parent.Append(unknownNode(category, t))
	}
}

func fieldNode(name string, t tlv.TLV, format string) *tree.Node {
	return tree.New(name, tlv.FormatValue(t.Value, format))
}

// unknownNode is the passthrough for tags a dissector does not interpret.
func unknownNode(category string, t tlv.TLV) *tree.Node {
	return tree.New(category+" "+t.Tag, lenValue(t.Length)).WithHint(hexHint(t.Value))
}

func lenValue(n int) string {
	return fmt.Sprintf("len=%d", n)
}

func hexHint(data []byte) string {
	return tlv.Truncate(tlv.ToHex(data), hintLimit)
}

// enumNode renders an INTEGER through a name table. Values that are not
// integers are shown as raw hex.
func enumNode(name string, t tlv.TLV, names map[int64]string) *tree.Node {
	n, ok := tlv.ParseInt(t.Value)
	if !ok {
		return tree.New(name, tlv.ToHex(t.Value)).WithHint("not an integer")
	}
	return tree.New(name, enumName(names, n))
}

func enumName(names map[int64]string, n int64) string {
	if s, ok := names[n]; ok {
		return s
	}
	return fmt.Sprintf("Unknown(%d)", n)
}

// booleanNode renders a BER BOOLEAN (00 false, anything else true).
func booleanNode(name string, t tlv.TLV) *tree.Node {
	if t.Length != 1 {
		return tree.New(name, tlv.ToHex(t.Value)).WithHint("not a boolean")
	}
	if t.Value[0] == 0x00 {
		return tree.New(name, "false")
	}
	return tree.New(name, "true")
}

// flagsNode renders named BIT STRING flags as children. The node value lists
// the flags that are set.
func flagsNode(name string, t tlv.TLV, names []string) *tree.Node {
	flags := tlv.DecodeBitStringFlags(t.ValueHex(), names)
	n := tree.New(name, "").WithHint(tlv.ToHex(t.Value))

	var set []string
	for _, f := range flags {
		n.Add(f.Name, f.Value)
		if f.IsSet() {
			set = append(set, f.Name)
		}
	}
	n.Value = joinOrNone(set)
	return n
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// isContextConstructed reports whether tag is one of A0-AF.
func isContextConstructed(tag string) bool {
	return len(tag) == 2 && tag[0] == 'A'
}

// messageRoot names the root node of a message after its direction.
func messageRoot(message string, dir Direction) *tree.Node {
	if dir.IsResponse() {
		return tree.New(message+"Response", "")
	}
	return tree.New(message+"Request", "")
}

// GenericNode renders a TLV no dissector claims. Constructed values that are
// well-formed BER are expanded recursively; anything else is kept opaque.
func GenericNode(t tlv.TLV) *tree.Node {
	n := unknownNode("Unknown", t)
	if !t.IsConstructed() || t.Length == 0 {
		return n
	}

	packets, err := tlv.DecodeTree(t.Value)
	if err != nil || len(packets) == 0 {
		return n
	}

	n.Hint = ""
	for _, p := range packets {
		n.Append(PacketNode(p))
	}
	return n
}

// PacketNode renders a strictly decoded bertlv packet and its children.
func PacketNode(p bertlv.TLV) *tree.Node {
	raw := tlv.RawValue(p)
	n := tree.New("Tag "+strings.ToUpper(p.Tag), lenValue(len(raw)))
	if len(p.TLVs) == 0 {
		return n.WithHint(hexHint(raw))
	}
	for _, c := range p.TLVs {
		n.Append(PacketNode(c))
	}
	return n
}
