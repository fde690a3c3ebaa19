package sgp22

import (
	"fmt"

	"github.com/gregLibert/esim-trace/pkg/tlv"
	"github.com/gregLibert/esim-trace/pkg/tree"
)

// buildListNotification decodes ListNotification (BF28).
//
// Request: optional profileManagementOperation filter (81), empty means all.
// Response: notificationMetadataList (A0) or listNotificationsResultError.
// Some eUICCs return the BF2F entries without the A0 wrapper.
func buildListNotification(payload string, dir Direction) *tree.Node {
	root := messageRoot("ListNotification", dir)
	tlvs := tlv.Parse(payload)

	if !dir.IsResponse() {
		if len(tlvs) == 0 {
			root.Value = "all notifications"
		}
		for _, t := range tlvs {
			if t.Tag == "81" {
				root.Append(notificationEventsNode("Profile management operation", t, false))
				continue
			}
			root.Append(unknownNode("ListNotificationRequest", t))
		}
		return root
	}

	count := 0
	addMetadata := func(t tlv.TLV) {
		count++
		root.Append(notificationMetadataNode(fmt.Sprintf("Notification %d", count), t.Value))
	}

	for _, t := range tlvs {
		switch t.Tag {
		case "A0":
			for _, c := range t.Children() {
				if c.Tag == "BF2F" {
					addMetadata(c)
					continue
				}
				root.Append(unknownNode("NotificationMetadataList", c))
			}
		case "BF2F":
			addMetadata(t)
		case "81", "80", "02":
			root.Append(enumNode("Error", t, listNotificationErrors))
		default:
			root.Append(unknownNode("ListNotificationResponse", t))
		}
	}

	if root.Child("Error") == nil {
		root.Value = fmt.Sprintf("count=%d", count)
	}
	return root
}

// buildRetrieveNotificationsList decodes RetrieveNotificationsList (BF2B).
//
// Request: optional searchCriteria, seqNumber (80) or profileManagementOperation
// (81), with or without its A0 wrapper.
// Response: notificationList (A0) of PendingNotification, a single
// ProfileInstallationResult (BF37), or notificationsListResultError.
func buildRetrieveNotificationsList(payload string, dir Direction) *tree.Node {
	root := messageRoot("RetrieveNotificationsList", dir)
	tlvs := tlv.Parse(payload)

	if !dir.IsResponse() {
		if len(tlvs) == 1 && tlvs[0].Tag == "A0" {
			tlvs = tlvs[0].Children()
		}
		if len(tlvs) == 0 {
			root.Value = "all notifications"
		}
		for _, t := range tlvs {
			switch t.Tag {
			case "80":
				root.Append(fieldNode("Sequence number", t, tlv.FormatInt))
			case "81":
				root.Append(notificationEventsNode("Profile management operation", t, false))
			default:
				root.Append(unknownNode("SearchCriteria", t))
			}
		}
		return root
	}

	count := 0
	for _, t := range tlvs {
		switch t.Tag {
		case "A0":
			for _, c := range t.Children() {
				count++
				root.Append(pendingNotificationNode(c, count))
			}
		case "BF37":
			count++
			root.Append(profileInstallationResultNode("ProfileInstallationResult", t.Value))
		case "81", "80", "02":
			root.Append(enumNode("Error", t, retrieveNotificationsErrors))
		default:
			root.Append(unknownNode("RetrieveNotificationsListResponse", t))
		}
	}

	if root.Child("Error") == nil {
		root.Value = fmt.Sprintf("count=%d", count)
	}
	return root
}

// pendingNotificationNode decodes one PendingNotification CHOICE.
func pendingNotificationNode(t tlv.TLV, index int) *tree.Node {
	name := fmt.Sprintf("Notification %d", index)

	switch t.Tag {
	case "BF37":
		n := profileInstallationResultNode(name, t.Value)
		n.Value = joinNonEmpty("ProfileInstallationResult", n.Value)
		return n
	case "30":
		n := otherSignedNotificationNode(name, t)
		n.Value = "OtherSignedNotification"
		return n
	case "BF51":
		n := rpmPackageResultNode(name, t)
		n.Value = "LoadRpmPackageResult"
		return n
	case "BF2F":
		n := notificationMetadataNode(name, t.Value)
		n.Hint = "bare NotificationMetadata"
		return n
	case "5F37":
		n := tree.New(name, "signature").WithHint("bare signature")
		n.Append(signatureNode(sigNotification, t))
		return n
	default:
		return unknownNode("PendingNotification", t)
	}
}

// otherSignedNotificationNode decodes OtherSignedNotification: metadata,
// signature and the eUICC and EUM certificates.
func otherSignedNotificationNode(name string, t tlv.TLV) *tree.Node {
	n := tree.New(name, "")

	certs := 0
	for _, c := range t.Children() {
		switch c.Tag {
		case "BF2F":
			n.Append(notificationMetadataNode("Notification metadata", c.Value))
		case "5F37":
			n.Append(signatureNode(sigNotification, c))
		case "30":
			certs++
			if certs == 1 {
				n.Append(certificateNode("eUICC certificate", c))
			} else {
				n.Append(certificateNode("EUM certificate", c))
			}
		default:
			n.Append(unknownNode("OtherSignedNotification", c))
		}
	}
	return n
}

// rpmPackageResultNode decodes LoadRpmPackageResult: the signed result data
// and euiccSignRPR.
func rpmPackageResultNode(name string, t tlv.TLV) *tree.Node {
	n := tree.New(name, "")

	for _, c := range t.Children() {
		switch c.Tag {
		case "30", "A0":
			data := tree.New("LoadRpmPackageResultDataSigned", "")
			for _, f := range c.Children() {
				switch f.Tag {
				case "80":
					data.Append(fieldNode("Transaction ID", f, tlv.FormatHex))
				case "BF2F":
					data.Append(notificationMetadataNode("Notification metadata", f.Value))
				case "06":
					data.Append(oidNode("SM-DP+ OID", f))
				default:
					data.Append(unknownNode("LoadRpmPackageResultData", f))
				}
			}
			n.Append(data)
		case "5F37":
			n.Append(signatureNode(sigRPR, c))
		default:
			n.Append(unknownNode("LoadRpmPackageResult", c))
		}
	}
	return n
}

// buildNotificationSent decodes NotificationSent (BF30).
//
// Request: seqNumber (80). Response: deleteNotificationStatus (80).
func buildNotificationSent(payload string, dir Direction) *tree.Node {
	root := messageRoot("NotificationSent", dir)

	for _, t := range tlv.Parse(payload) {
		switch {
		case t.Tag == "80" && dir.IsResponse():
			root.Append(enumNode("Delete notification status", t, deleteNotificationStatuses))
		case t.Tag == "80":
			root.Append(fieldNode("Sequence number", t, tlv.FormatInt))
		default:
			root.Append(unknownNode("NotificationSent", t))
		}
	}
	return root
}

func joinNonEmpty(a, b string) string {
	if b == "" {
		return a
	}
	return a + ": " + b
}
