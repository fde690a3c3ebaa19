package sgp22

import (
	"github.com/gregLibert/esim-trace/pkg/tlv"
	"github.com/gregLibert/esim-trace/pkg/tree"
)

var serverSigned1Fields = []field{
	{tag: "80", name: "Transaction ID", format: tlv.FormatHex},
	{tag: "81", name: "eUICC challenge", format: tlv.FormatHex},
	{tag: "83", name: "Server address", format: tlv.FormatUTF8},
	{tag: "84", name: "Server challenge", format: tlv.FormatHex},
}

var euiccSigned1Fields = []field{
	{tag: "80", name: "Transaction ID", format: tlv.FormatHex},
	{tag: "83", name: "Server address", format: tlv.FormatUTF8},
	{tag: "84", name: "Server challenge", format: tlv.FormatHex},
}

// DeviceCapabilities: every supported release is a VersionType.
var deviceCapabilityFields = []field{
	{tag: "80", name: "gsmSupportedRelease", format: tlv.FormatVersion},
	{tag: "81", name: "utranSupportedRelease", format: tlv.FormatVersion},
	{tag: "82", name: "cdma2000onexSupportedRelease", format: tlv.FormatVersion},
	{tag: "83", name: "cdma2000hrpdSupportedRelease", format: tlv.FormatVersion},
	{tag: "84", name: "cdma2000ehrpdSupportedRelease", format: tlv.FormatVersion},
	{tag: "85", name: "eutranEpcSupportedRelease", format: tlv.FormatVersion},
	{tag: "86", name: "contactlessSupportedRelease", format: tlv.FormatVersion},
	{tag: "87", name: "rspCrlSupportedVersion", format: tlv.FormatVersion},
	{tag: "88", name: "nrEpcSupportedRelease", format: tlv.FormatVersion},
	{tag: "89", name: "nr5gcSupportedRelease", format: tlv.FormatVersion},
	{tag: "8A", name: "eutran5gcSupportedRelease", format: tlv.FormatVersion},
	{tag: "8B", name: "lpaSvn", format: tlv.FormatVersion},
	{tag: "8C", name: "catSupportedClasses", format: tlv.FormatHex},
	{tag: "8D", name: "euiccFormFactorType", format: tlv.FormatInt},
}

var euiccInfo2Fields = []field{
	{tag: "81", name: "Profile version", format: tlv.FormatVersion},
	{tag: "82", name: "SVN", format: tlv.FormatVersion},
	{tag: "83", name: "Firmware version", format: tlv.FormatVersion},
	{tag: "84", name: "Extended card resource", format: tlv.FormatHex},
	{tag: "85", name: "UICC capability", format: tlv.FormatHex},
	{tag: "86", name: "TS 102 241 version", format: tlv.FormatVersion},
	{tag: "87", name: "GlobalPlatform version", format: tlv.FormatVersion},
	{tag: "88", name: "RSP capability", format: tlv.FormatHex},
	{tag: "04", name: "PP version", format: tlv.FormatVersion},
	{tag: "0C", name: "SAS accreditation number", format: tlv.FormatUTF8},
}

// buildAuthenticateServer decodes AuthenticateServer (BF38).
func buildAuthenticateServer(payload string, dir Direction) *tree.Node {
	if dir.IsResponse() {
		return authenticateServerResponse(payload)
	}
	return authenticateServerRequest(payload)
}

// authenticateServerRequest decodes AuthenticateServerRequest.
//
// Two fields share tag 30: serverSigned1 comes first, the server certificate
// after it. The first A0-A3 is the ctxParams1 CHOICE; A1 and A2 seen after it
// are the certificate chain and the CRL list.
func authenticateServerRequest(payload string) *tree.Node {
	root := tree.New("AuthenticateServerRequest", "")

	seenSigned := false
	seenCtx := false
	for _, t := range tlv.Parse(payload) {
		switch {
		case t.Tag == "30" && !seenSigned:
			seenSigned = true
			root.Append(serverSigned1Node(t))
		case t.Tag == "30":
			root.Append(certificateNode("Server certificate", t))
		case t.Tag == "5F37":
			root.Append(signatureNode(sigServer1, t))
		case t.Tag == "04":
			root.Append(fieldNode("eUICC CI PKID to be used", t, tlv.FormatHex))
		case !seenCtx && (t.Tag == "A0" || t.Tag == "A1" || t.Tag == "A2" || t.Tag == "A3"):
			seenCtx = true
			root.Append(ctxParamsNode(t))
		case t.Tag == "A1":
			root.Append(certificateListNode("Other certificates in chain", t))
		case t.Tag == "A2":
			root.Append(crlListNode(t))
		default:
			root.Append(unknownNode("AuthenticateServerRequest", t))
		}
	}

	if id := root.Find("Transaction ID"); id != nil {
		root.Value = "transactionId=" + id.Value
	}
	return root
}

func serverSigned1Node(t tlv.TLV) *tree.Node {
	n := tree.New("ServerSigned1", "")
	for _, c := range t.Children() {
		if f, ok := lookupField(serverSigned1Fields, c.Tag); ok {
			n.Append(fieldNode(f.name, c, f.format))
			continue
		}
		switch c.Tag {
		case "A5":
			n.Append(sessionContextNode(c))
		case "86":
			n.Append(flagsNode("Server capabilities", c, serverCapabilityNames))
		default:
			n.Append(unknownNode("ServerSigned1", c))
		}
	}
	return n
}

// sessionContextNode decodes SessionContext (A5): the server SVN, the CRL
// stapling BOOLEAN and the supported push services OIDs.
func sessionContextNode(t tlv.TLV) *tree.Node {
	n := tree.New("Session context", "")
	for _, c := range t.Children() {
		switch c.Tag {
		case "80":
			n.Append(fieldNode("Server SVN", c, tlv.FormatVersion))
		case "81", "01":
			n.Append(booleanNode("CRL stapling used", c))
		case "82":
			n.Append(fieldNode("eUICC CI PKID to be used", c, tlv.FormatHex))
		case "A3", "30":
			services := n.Add("Supported push services", "")
			for _, oid := range c.Children() {
				if oid.Tag == "06" {
					services.Append(oidNode("Push service", oid))
					continue
				}
				services.Append(unknownNode("SupportedPushServices", oid))
			}
		default:
			n.Append(unknownNode("SessionContext", c))
		}
	}
	return n
}

// ctxParamsNode decodes the CtxParams1 CHOICE.
func ctxParamsNode(t tlv.TLV) *tree.Node {
	n := tree.New("Context parameters", "")

	switch t.Tag {
	case "A0":
		n.Value = "commonAuthentication"
		for _, c := range t.Children() {
			switch c.Tag {
			case "80":
				n.Append(fieldNode("Matching ID", c, tlv.FormatUTF8))
			case "A1":
				n.Append(deviceInfoNode(c))
			default:
				n.Append(unknownNode("CtxParamsForCommonAuthentication", c))
			}
		}
	case "A1":
		n.Value = "deviceChange"
		for _, c := range t.Children() {
			switch c.Tag {
			case "5A":
				n.Append(fieldNode("ICCID", c, tlv.FormatBCD))
			case "A1":
				n.Append(deviceInfoNode(c))
			default:
				n.Append(unknownNode("CtxParamsForDeviceChange", c))
			}
		}
	case "A2":
		n.Value = "profileRecovery"
		for _, c := range t.Children() {
			switch c.Tag {
			case "5A":
				n.Append(fieldNode("ICCID", c, tlv.FormatBCD))
			case "80":
				n.Append(fieldNode("Matching ID", c, tlv.FormatUTF8))
			case "A1":
				n.Append(deviceInfoNode(c))
			default:
				n.Append(unknownNode("CtxParamsForProfileRecovery", c))
			}
		}
	case "A3":
		n.Value = "pushServiceRegistration"
		for _, c := range t.Children() {
			switch c.Tag {
			case "06":
				n.Append(oidNode("Selected push service", c))
			case "0C":
				n.Append(fieldNode("Push token", c, tlv.FormatUTF8))
			default:
				n.Append(unknownNode("CtxParamsForPushServiceRegistration", c))
			}
		}
	}
	return n
}

// deviceInfoNode decodes DeviceInfo: TAC, capabilities and IMEI (BCD).
func deviceInfoNode(t tlv.TLV) *tree.Node {
	n := tree.New("Device info", "")
	for _, c := range t.Children() {
		switch c.Tag {
		case "80":
			n.Append(fieldNode("TAC", c, tlv.FormatHex))
		case "A1":
			caps := n.Add("Device capabilities", "")
			addFields(caps, c.Children(), deviceCapabilityFields, "DeviceCapabilities")
		case "82":
			n.Append(fieldNode("IMEI", c, tlv.FormatBCD))
		default:
			n.Append(unknownNode("DeviceInfo", c))
		}
	}
	return n
}

func certificateListNode(name string, t tlv.TLV) *tree.Node {
	n := tree.New(name, "")
	for _, c := range t.Children() {
		if c.Tag == "30" {
			n.Append(certificateNode("Certificate", c))
			continue
		}
		n.Append(unknownNode("CertificateList", c))
	}
	return n
}

func crlListNode(t tlv.TLV) *tree.Node {
	n := tree.New("CRL list", "")
	for _, c := range t.Children() {
		n.Append(tree.New("CRL", lenValue(c.Length)).WithHint(hexHint(c.Value)))
	}
	return n
}

// authenticateServerResponse decodes the AuthenticateServerResponse CHOICE:
// authenticateResponseOk (A0) or authenticateResponseError (A1).
func authenticateServerResponse(payload string) *tree.Node {
	root := tree.New("AuthenticateServerResponse", "")

	for _, t := range tlv.Parse(payload) {
		switch t.Tag {
		case "A0":
			root.Value = "ok"
			root.Append(authenticateResponseOkNode(t))
		case "A1":
			errNode := authenticateResponseErrorNode(t)
			root.Value = "error"
			if code := errNode.Child("Error code"); code != nil {
				root.Value = "error: " + code.Value
			}
			root.Append(errNode)
		default:
			root.Append(unknownNode("AuthenticateServerResponse", t))
		}
	}
	return root
}

func authenticateResponseOkNode(t tlv.TLV) *tree.Node {
	n := tree.New("AuthenticateResponseOk", "")

	sequences := 0
	for _, c := range t.Children() {
		switch c.Tag {
		case "30":
			sequences++
			switch sequences {
			case 1:
				n.Append(euiccSigned1Node(c))
			case 2:
				n.Append(certificateNode("eUICC certificate", c))
			default:
				n.Append(certificateNode("EUM certificate", c))
			}
		case "5F37":
			n.Append(signatureNode(sigEuicc1, c))
		case "A0", "A1":
			n.Append(certificateListNode("Other certificates in chain", c))
		default:
			n.Append(unknownNode("AuthenticateResponseOk", c))
		}
	}
	return n
}

func euiccSigned1Node(t tlv.TLV) *tree.Node {
	n := tree.New("EuiccSigned1", "")
	for _, c := range t.Children() {
		if f, ok := lookupField(euiccSigned1Fields, c.Tag); ok {
			n.Append(fieldNode(f.name, c, f.format))
			continue
		}
		switch c.Tag {
		case "BF22":
			n.Append(euiccInfo2Node(c))
		case "A0", "A1", "A2", "A3":
			n.Append(ctxParamsNode(c))
		default:
			n.Append(unknownNode("EuiccSigned1", c))
		}
	}
	return n
}

// euiccInfo2Node decodes EUICCInfo2 (BF22).
func euiccInfo2Node(t tlv.TLV) *tree.Node {
	n := tree.New("EUICCInfo2", "")
	for _, c := range t.Children() {
		if f, ok := lookupField(euiccInfo2Fields, c.Tag); ok {
			n.Append(fieldNode(f.name, c, f.format))
			continue
		}
		switch c.Tag {
		case "A9", "AA":
			name := "CI PKIDs for verification"
			if c.Tag == "AA" {
				name = "CI PKIDs for signing"
			}
			ids := n.Add(name, "")
			for _, id := range c.Children() {
				ids.Append(fieldNode("PKID", id, tlv.FormatHex))
			}
		case "8B":
			n.Append(enumNode("eUICC category", c, euiccCategories))
		case "99":
			n.Append(flagsNode("Forbidden profile policy rules", c, profilePolicyRuleNames))
		default:
			n.Append(unknownNode("EUICCInfo2", c))
		}
	}
	return n
}

func authenticateResponseErrorNode(t tlv.TLV) *tree.Node {
	n := tree.New("AuthenticateResponseError", "")
	for _, c := range t.Children() {
		switch c.Tag {
		case "80":
			n.Append(fieldNode("Transaction ID", c, tlv.FormatHex))
		case "02", "81":
			n.Append(enumNode("Error code", c, authenticateErrors))
		default:
			n.Append(unknownNode("AuthenticateResponseError", c))
		}
	}
	return n
}
