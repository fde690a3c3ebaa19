package tree

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// Supported export formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCBOR = "cbor"
)

// Formats lists the names accepted by Marshal.
var Formats = []string{FormatText, FormatJSON, FormatYAML, FormatCBOR}

// Marshal serializes the tree in the requested format. Text output is the
// Describe report followed by a newline.
func Marshal(n *Node, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return []byte(n.Describe() + "\n"), nil
	case FormatJSON:
		data, err := json.MarshalIndent(n, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("json encode failed: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(n)
		if err != nil {
			return nil, fmt.Errorf("yaml encode failed: %w", err)
		}
		return data, nil
	case FormatCBOR:
		data, err := cbor.Marshal(n)
		if err != nil {
			return nil, fmt.Errorf("cbor encode failed: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unknown format: %s (supported: %s)", format, strings.Join(Formats, ", "))
	}
}
