package sgp22

import (
	"strings"
	"testing"

	"github.com/gregLibert/esim-trace/pkg/tlv"
	"github.com/gregLibert/esim-trace/pkg/tree"
)

// tv encodes one TLV as hex. parts are concatenated to form the value.
func tv(tag string, parts ...string) string {
	t := tlv.TLV{Tag: tag, Value: tlv.ToBytes(strings.Join(parts, ""))}
	enc, err := t.Encoded()
	if err != nil {
		panic(err)
	}
	return tlv.ToHex(enc)
}

func utf8Hex(s string) string {
	return tlv.ToHex([]byte(s))
}

// mustChild walks a path of child names and fails the test if one is missing.
func mustChild(t *testing.T, n *tree.Node, path ...string) *tree.Node {
	t.Helper()
	cur := n
	for _, name := range path {
		next := cur.Child(name)
		if next == nil {
			t.Fatalf("missing node %q under %q in:\n%s", name, cur.Name, n.Describe())
		}
		cur = next
	}
	return cur
}

func childNames(n *tree.Node) []string {
	var names []string
	for _, c := range n.Children {
		names = append(names, c.Name)
	}
	return names
}
