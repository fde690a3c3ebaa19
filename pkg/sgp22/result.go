package sgp22

import (
	"crypto/x509"
	stdasn1 "encoding/asn1"
	"fmt"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"

	"github.com/gregLibert/esim-trace/pkg/tlv"
	"github.com/gregLibert/esim-trace/pkg/tree"
)

// Signature names used for the 5F37 tag depending on the enclosing message.
const (
	sigPIR          = "euiccSignPIR"
	sigRPR          = "euiccSignRPR"
	sigServer1      = "serverSignature1"
	sigNotification = "euiccNotificationSignature"
	sigEuicc1       = "euiccSignature1"
)

// maxLegacyIDLength bounds the identification number accepted by the byte scan.
const maxLegacyIDLength = 2

// signatureNode surfaces signature bytes verbatim. Signatures are not verified.
func signatureNode(name string, t tlv.TLV) *tree.Node {
	return tree.New(name, tlv.ToHex(t.Value)).WithHint(lenValue(t.Length))
}

// certificateNode renders an X.509 certificate. The subject and issuer are
// shown when the DER parses; the certificate is never validated.
func certificateNode(name string, t tlv.TLV) *tree.Node {
	n := tree.New(name, lenValue(t.Length))

	der, err := t.Encoded()
	if err != nil {
		return n.WithHint(hexHint(t.Value))
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return n.WithHint(hexHint(t.Value))
	}

	n.Add("Subject", cert.Subject.String())
	n.Add("Issuer", cert.Issuer.String())
	n.Add("Serial number", fmt.Sprintf("%X", cert.SerialNumber))
	if len(cert.SubjectKeyId) > 0 {
		n.Add("Subject key identifier", tlv.ToHex(cert.SubjectKeyId))
	}
	if len(cert.AuthorityKeyId) > 0 {
		n.Add("Authority key identifier", tlv.ToHex(cert.AuthorityKeyId))
	}
	return n
}

// decodeOID decodes the content octets of an OBJECT IDENTIFIER.
func decodeOID(value []byte) (string, bool) {
	var b cryptobyte.Builder
	b.AddASN1(asn1.OBJECT_IDENTIFIER, func(c *cryptobyte.Builder) {
		c.AddBytes(value)
	})
	der, err := b.Bytes()
	if err != nil {
		return "", false
	}

	var oid stdasn1.ObjectIdentifier
	s := cryptobyte.String(der)
	if !s.ReadASN1ObjectIdentifier(&oid) {
		return "", false
	}
	return oid.String(), true
}

func oidNode(name string, t tlv.TLV) *tree.Node {
	if oid, ok := decodeOID(t.Value); ok {
		return tree.New(name, oid)
	}
	return tree.New(name, tlv.ToHex(t.Value)).WithHint("invalid object identifier")
}

// profileInstallationResultNode decodes the value of ProfileInstallationResult
// (BF37): the result data and euiccSignPIR.
func profileInstallationResultNode(name string, value []byte) *tree.Node {
	n := tree.New(name, "")
	children, _ := tlv.Decode(value)

	for _, t := range children {
		switch t.Tag {
		case "BF27":
			data := profileInstallationResultDataNode(t.Value)
			n.Append(data)
			if final := data.Child("Final result"); final != nil {
				n.Value = final.Value
			}
		case "5F37":
			n.Append(signatureNode(sigPIR, t))
		default:
			n.Append(unknownNode("ProfileInstallationResult", t))
		}
	}
	return n
}

// profileInstallationResultDataNode decodes ProfileInstallationResultData (BF27).
func profileInstallationResultDataNode(value []byte) *tree.Node {
	n := tree.New("ProfileInstallationResultData", "")
	children, _ := tlv.Decode(value)

	for _, t := range children {
		switch t.Tag {
		case "80":
			n.Append(fieldNode("Transaction ID", t, tlv.FormatHex))
		case "BF2F":
			n.Append(notificationMetadataNode("Notification metadata", t.Value))
		case "06":
			n.Append(oidNode("SM-DP+ OID", t))
		case "A2":
			n.Append(finalResultNode(t))
		default:
			n.Append(unknownNode("ProfileInstallationResultData", t))
		}
	}
	return n
}

// finalResultNode decodes the finalResult CHOICE: successResult (A0) or
// errorResult (A1).
func finalResultNode(t tlv.TLV) *tree.Node {
	n := tree.New("Final result", "")

	for _, c := range t.Children() {
		switch c.Tag {
		case "A0":
			n.Value = "success"
			n.Append(successResultNode(c))
		case "A1":
			n.Value = "error"
			n.Append(errorResultNode(c))
		default:
			n.Append(unknownNode("FinalResult", c))
		}
	}
	return n
}

func successResultNode(t tlv.TLV) *tree.Node {
	n := tree.New("Success", "")
	for _, c := range t.Children() {
		switch c.Tag {
		case "4F":
			n.Append(fieldNode("AID", c, tlv.FormatHex))
		case "04":
			n.Append(euiccResponseNode(c.Value))
		default:
			n.Append(unknownNode("SuccessResult", c))
		}
	}
	return n
}

// errorResultNode decodes errorResult. Its two INTEGER fields are read in
// order: bppCommandId first, errorReason second, whatever tags carry them.
// simaResponse is 82 under automatic tagging; some encoders send 04.
func errorResultNode(t tlv.TLV) *tree.Node {
	n := tree.New("Error", "")

	integers := 0
	for _, c := range t.Children() {
		switch c.Tag {
		case "80", "81", "02":
			integers++
			switch integers {
			case 1:
				n.Append(enumNode("BPP command ID", c, bppCommandIDs))
			case 2:
				reason := enumNode("Error reason", c, installErrorReasons)
				n.Value = reason.Value
				n.Append(reason)
			default:
				n.Append(unknownNode("ErrorResult", c))
			}
		case "82", "04":
			n.Append(euiccResponseNode(c.Value))
		default:
			n.Append(unknownNode("ErrorResult", c))
		}
	}
	return n
}

// euiccResponseNode decodes the EUICCResponse carried in simaResponse.
//
// The status fields sit at varying depths depending on the encoder, so every
// SEQUENCE (30) and context constructed tag (A0-AF) is walked looking for
// status (80) and identification number (81). Other tags are kept as unknown
// nodes. When the walk finds nothing the bytes are scanned for the same fields
// at any offset.
func euiccResponseNode(value []byte) *tree.Node {
	n := tree.New("SIMA response", lenValue(len(value)))

	children, _ := tlv.Decode(value)
	if walkEUICCResponse(n, children) {
		return n
	}
	if scanEUICCResponse(n, value) {
		n.Hint = "legacy byte scan"
		return n
	}

	n.Hint = "no status found: " + hexHint(value)
	return n
}

func walkEUICCResponse(n *tree.Node, tlvs []tlv.TLV) bool {
	found := false
	for _, t := range tlvs {
		switch {
		case t.Tag == "80":
			n.Append(enumNode("Status", t, peStatuses))
			found = true
		case t.Tag == "81":
			n.Append(fieldNode("Identification number", t, tlv.FormatInt))
			found = true
		case t.Tag == "30" || isContextConstructed(t.Tag):
			if walkEUICCResponse(n, t.Children()) {
				found = true
			}
		default:
			n.Append(unknownNode("EUICCResponse", t))
		}
	}
	return found
}

// scanEUICCResponse looks for "80 01 xx" and "81 0L id" byte patterns.
func scanEUICCResponse(n *tree.Node, data []byte) bool {
	var status, id *tree.Node

	for i := 0; i+2 < len(data); i++ {
		switch {
		case status == nil && data[i] == 0x80 && data[i+1] == 0x01:
			status = enumNode("Status", tlv.TLV{Tag: "80", Length: 1, Value: data[i+2 : i+3]}, peStatuses)
		case id == nil && data[i] == 0x81 && data[i+1] > 0 && int(data[i+1]) <= maxLegacyIDLength && i+2+int(data[i+1]) <= len(data):
			length := int(data[i+1])
			id = fieldNode("Identification number", tlv.TLV{Tag: "81", Length: length, Value: data[i+2 : i+2+length]}, tlv.FormatInt)
		}
	}

	n.Append(status, id)
	return status != nil || id != nil
}
