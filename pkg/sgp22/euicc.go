package sgp22

import (
	"fmt"

	"github.com/gregLibert/esim-trace/pkg/tlv"
	"github.com/gregLibert/esim-trace/pkg/tree"
)

const eidLength = 16

var euiccDataTagNames = map[string]string{
	"5A": "EID",
}

// buildGetEuiccData decodes GetEuiccData (BF3E).
//
// Request: the literal 00 or a tagList (5C), normally '5A' for the EID.
// Response: eidValue (5A), shown as byte pairs.
func buildGetEuiccData(payload string, dir Direction) *tree.Node {
	root := messageRoot("GetEuiccData", dir)
	clean := tlv.Normalize(payload)

	if !dir.IsResponse() && (clean == "" || clean == "00") {
		root.Value = "default (EID)"
		return root
	}

	for _, t := range tlv.Parse(clean) {
		switch {
		case !dir.IsResponse() && t.Tag == "5C" && t.ValueHex() == "5A":
			root.Append(tree.New("Tag list", "EID"))
		case !dir.IsResponse() && t.Tag == "5C":
			root.Append(tagListNode("Tag list", t.Value, euiccDataTagNames))
		case dir.IsResponse() && t.Tag == "5A":
			eid := fieldNode("EID", t, tlv.FormatBytes)
			if t.Length != eidLength {
				eid.Hint = fmt.Sprintf("expected %d bytes, got %d", eidLength, t.Length)
			}
			root.Append(eid)
		default:
			root.Append(unknownNode("GetEuiccData", t))
		}
	}
	return root
}

// buildGetEuiccChallenge decodes GetEuiccChallenge (BF2E).
//
// Request: empty. Response: euiccChallenge (80).
func buildGetEuiccChallenge(payload string, dir Direction) *tree.Node {
	root := messageRoot("GetEuiccChallenge", dir)

	for _, t := range tlv.Parse(payload) {
		if dir.IsResponse() && t.Tag == "80" {
			root.Append(fieldNode("eUICC challenge", t, tlv.FormatHex))
			continue
		}
		root.Append(unknownNode("GetEuiccChallenge", t))
	}
	return root
}

// buildEuiccConfiguredAddresses decodes EuiccConfiguredAddresses (BF3C).
//
// Request: empty. Response: defaultDpAddress (80) and rootDsAddress (81).
func buildEuiccConfiguredAddresses(payload string, dir Direction) *tree.Node {
	root := messageRoot("EuiccConfiguredAddresses", dir)

	for _, t := range tlv.Parse(payload) {
		switch {
		case dir.IsResponse() && t.Tag == "80":
			root.Append(fieldNode("Default SM-DP+ address", t, tlv.FormatUTF8))
		case dir.IsResponse() && t.Tag == "81":
			root.Append(fieldNode("Root SM-DS address", t, tlv.FormatUTF8))
		default:
			root.Append(unknownNode("EuiccConfiguredAddresses", t))
		}
	}
	return root
}

// buildProfileInstallationResult decodes ProfileInstallationResult (BF37).
// Only the eUICC sends it, the direction is ignored. When neither the result
// data nor the signature is found, the top-level TLVs are kept raw.
func buildProfileInstallationResult(payload string, _ Direction) *tree.Node {
	value := tlv.ToBytes(payload)
	tlvs := tlv.Parse(payload)

	_, hasData := tlv.Find(tlvs, "BF27")
	_, hasSignature := tlv.Find(tlvs, "5F37")
	if hasData || hasSignature {
		return profileInstallationResultNode("ProfileInstallationResult", value)
	}

	root := tree.New("ProfileInstallationResult", "raw")
	for _, t := range tlvs {
		root.Append(GenericNode(t))
	}
	if len(tlvs) == 0 && len(value) > 0 {
		root.Append(tree.New("Raw", lenValue(len(value))).WithHint(hexHint(value)))
	}
	return root
}
