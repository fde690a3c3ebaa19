package sgp22

import (
	"fmt"

	"github.com/gregLibert/esim-trace/pkg/tlv"
	"github.com/gregLibert/esim-trace/pkg/tree"
)

const (
	requested    = "Requested"
	notRequested = "Not Requested"
)

// NotificationEvent is one flag of the NotificationEvent BIT STRING.
type NotificationEvent struct {
	Name      string
	Requested bool
}

// DecodeNotificationEvents decodes a NotificationEvent bitmap and returns the
// eight flags with the number of requested events.
//
// Encoders disagree on the presence of the unused-bits byte, so the form is
// guessed: a first byte of 0-7 followed by at least one byte ("07 80",
// "05 04 00") is a BIT STRING with its unused-bits count, anything else is
// read as raw flag bytes.
func DecodeNotificationEvents(s string) ([]NotificationEvent, int) {
	data := tlv.ToBytes(s)

	var flags []tlv.Flag
	if len(data) >= 2 && data[0] <= 7 {
		flags = tlv.DecodeBitStringFlags(s, notificationEventNames)
	} else {
		flags = tlv.DecodeRawFlags(s, notificationEventNames)
	}

	events := make([]NotificationEvent, len(flags))
	count := 0
	for i, f := range flags {
		events[i] = NotificationEvent{Name: f.Name, Requested: f.IsSet()}
		if f.IsSet() {
			count++
		}
	}
	return events, count
}

// notificationEventsNode renders a NotificationEvent bitmap. When single is
// set, a hint flags values that do not carry exactly one event.
func notificationEventsNode(name string, t tlv.TLV, single bool) *tree.Node {
	events, count := DecodeNotificationEvents(t.ValueHex())
	n := tree.New(name, "")

	var set []string
	for _, e := range events {
		value := notRequested
		if e.Requested {
			value = requested
			set = append(set, e.Name)
		}
		n.Add(e.Name, value)
	}
	n.Value = joinOrNone(set)

	if single && count != 1 {
		n.Hint = fmt.Sprintf("expected exactly one event, found %d (%s)", count, t.ValueHex())
	}
	return n
}

// notificationMetadataNode decodes NotificationMetadata (BF2F).
func notificationMetadataNode(name string, value []byte) *tree.Node {
	n := tree.New(name, "")
	children, _ := tlv.Decode(value)

	for _, t := range children {
		switch t.Tag {
		case "80":
			n.Append(fieldNode("Sequence number", t, tlv.FormatInt))
		case "81":
			n.Append(notificationEventsNode("Profile management operation", t, true))
		case "0C":
			n.Append(fieldNode("Notification address", t, tlv.FormatUTF8))
		case "5A":
			n.Append(fieldNode("ICCID", t, tlv.FormatBCD))
		default:
			n.Append(unknownNode("NotificationMetadata", t))
		}
	}

	if seq := n.Child("Sequence number"); seq != nil {
		n.Value = "seq=" + seq.Value
	}
	return n
}
