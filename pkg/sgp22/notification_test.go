package sgp22

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gregLibert/esim-trace/pkg/tlv"
	"github.com/gregLibert/esim-trace/pkg/tree"
)

func TestDecodeNotificationEvents(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantSet   []string
		wantCount int
	}{
		{"Unused bits form, install", "0780", []string{"notificationInstall"}, 1},
		{"Unused bits form, rpm disable", "0204", []string{"notificationRpmDisable"}, 1},
		{"Unused bits form, nothing set", "0000", nil, 0},
		{"Unused bits form, long value", "000280", []string{"notificationRpmDelete"}, 1},
		{"Raw flags", "40", []string{"notificationLocalEnable"}, 1},
		{"Raw flags, first byte above 7", "C000", []string{"notificationInstall", "notificationLocalEnable"}, 2},
		{"Empty", "", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, count := DecodeNotificationEvents(tt.in)
			if len(events) != len(notificationEventNames) {
				t.Fatalf("got %d events, want %d", len(events), len(notificationEventNames))
			}

			var set []string
			for _, e := range events {
				if e.Requested {
					set = append(set, e.Name)
				}
			}
			if diff := cmp.Diff(tt.wantSet, set); diff != "" {
				t.Errorf("requested events mismatch (-want +got):\n%s", diff)
			}
			if count != tt.wantCount {
				t.Errorf("count = %d, want %d", count, tt.wantCount)
			}
		})
	}
}

func TestNotificationEventsNode_SingleCheck(t *testing.T) {
	one := notificationEventsNode("op", tlv.TLV{Tag: "81", Length: 2, Value: tlv.Hex("0780")}, true)
	if one.Hint != "" {
		t.Errorf("single event should not be flagged, hint %q", one.Hint)
	}
	if one.Value != "notificationInstall" {
		t.Errorf("value = %q", one.Value)
	}
	if got := one.Child("notificationLocalEnable").Value; got != notRequested {
		t.Errorf("notificationLocalEnable = %q, want %q", got, notRequested)
	}

	two := notificationEventsNode("op", tlv.TLV{Tag: "81", Length: 2, Value: tlv.Hex("06C0")}, true)
	if two.Hint == "" {
		t.Error("two events should be flagged")
	}

	filter := notificationEventsNode("op", tlv.TLV{Tag: "81", Length: 2, Value: tlv.Hex("06C0")}, false)
	if filter.Hint != "" {
		t.Errorf("filters may carry several events, hint %q", filter.Hint)
	}
}

func TestNotificationMetadataNode(t *testing.T) {
	iccid := "8901100000000000001"
	value := tlv.ToBytes(tv("80", "05") +
		tv("81", "0780") +
		tv("0C", utf8Hex("smdp.io")) +
		tv("5A", tlv.EncodeBCDSwapped(iccid)) +
		tv("99", "00"))

	got := notificationMetadataNode("Notification 1", value)

	want := &tree.Node{
		Name:  "Notification 1",
		Value: "seq=5",
		Children: []*tree.Node{
			{Name: "Sequence number", Value: "5"},
			notificationEventsNode("Profile management operation", tlv.TLV{Tag: "81", Length: 2, Value: tlv.Hex("0780")}, true),
			{Name: "Notification address", Value: "smdp.io"},
			{Name: "ICCID", Value: iccid},
			{Name: "NotificationMetadata 99", Value: "len=1", Hint: "00"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("notificationMetadataNode() mismatch (-want +got):\n%s", diff)
	}
}
