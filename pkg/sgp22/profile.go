package sgp22

import (
	"fmt"
	"strings"

	"github.com/gregLibert/esim-trace/pkg/tlv"
	"github.com/gregLibert/esim-trace/pkg/tree"
)

// ProfileInfo tag meanings, also used to decode tag lists (5C).
var profileInfoTagNames = map[string]string{
	"5A":   "ICCID",
	"4F":   "ISD-P AID",
	"9F70": "Profile state",
	"90":   "Profile nickname",
	"91":   "Service provider name",
	"92":   "Profile name",
	"93":   "Icon type",
	"94":   "Icon",
	"95":   "Profile class",
	"B6":   "Notification configuration info",
	"B7":   "Profile owner",
	"B8":   "SM-DP+ proprietary data",
	"99":   "Profile policy rules",
}

var profileInfoFields = []field{
	{tag: "5A", name: "ICCID", format: tlv.FormatBCD},
	{tag: "4F", name: "ISD-P AID", format: tlv.FormatHex},
	{tag: "90", name: "Profile nickname", format: tlv.FormatUTF8},
	{tag: "91", name: "Service provider name", format: tlv.FormatUTF8},
	{tag: "92", name: "Profile name", format: tlv.FormatUTF8},
}

var profileOwnerFields = []field{
	{tag: "81", name: "GID1", format: tlv.FormatHex},
	{tag: "82", name: "GID2", format: tlv.FormatHex},
}

// Containers that may wrap the E3 ProfileInfo entries of a response.
var profileContainers = []string{"A0", "30", "BF2D"}

// buildProfileInfoList decodes ProfileInfoList (BF2D).
//
// E3 entries are looked up first at the top level, then one level inside the
// known containers. Without any entry the payload is decoded as a request
// (searchCriteria A0 and tagList 5C) unless it is a response.
func buildProfileInfoList(payload string, dir Direction) *tree.Node {
	tlvs := tlv.Parse(payload)

	if profiles := findProfiles(tlvs); len(profiles) > 0 {
		root := tree.New("ProfileInfoListResponse", fmt.Sprintf("count=%d", len(profiles)))
		for i, p := range profiles {
			root.Append(profileInfoNode(fmt.Sprintf("Profile %d", i+1), p))
		}
		return root
	}

	if dir.IsResponse() {
		root := tree.New("ProfileInfoListResponse", "count=0")
		for _, t := range tlvs {
			switch t.Tag {
			case "A0":
				// Empty profileInfoListOk.
			case "80", "81", "02":
				root.Value = ""
				root.Append(enumNode("Error", t, profileInfoListErrors))
			default:
				root.Append(unknownNode("ProfileInfoListResponse", t))
			}
		}
		return root
	}

	root := tree.New("ProfileInfoListRequest", "")
	if len(tlvs) == 0 {
		root.Value = "all profiles"
	}
	for _, t := range tlvs {
		switch t.Tag {
		case "A0":
			root.Append(searchCriteriaNode(t))
		case "5C":
			root.Append(tagListNode("Tag list", t.Value, profileInfoTagNames))
		default:
			root.Append(unknownNode("ProfileInfoListRequest", t))
		}
	}
	return root
}

func findProfiles(tlvs []tlv.TLV) []tlv.TLV {
	var profiles []tlv.TLV
	for _, t := range tlvs {
		if t.Tag == "E3" {
			profiles = append(profiles, t)
		}
	}
	if len(profiles) > 0 {
		return profiles
	}

	for _, t := range tlvs {
		if !isProfileContainer(t.Tag) {
			continue
		}
		for _, c := range t.Children() {
			if c.Tag == "E3" {
				profiles = append(profiles, c)
			}
		}
	}
	return profiles
}

func isProfileContainer(tag string) bool {
	for _, c := range profileContainers {
		if c == tag {
			return true
		}
	}
	return false
}

// profileInfoNode decodes one ProfileInfo (E3) entry.
func profileInfoNode(name string, t tlv.TLV) *tree.Node {
	n := tree.New(name, "")

	for _, c := range t.Children() {
		if f, ok := lookupField(profileInfoFields, c.Tag); ok {
			n.Append(fieldNode(f.name, c, f.format))
			continue
		}

		switch c.Tag {
		case "9F70":
			n.Append(enumNode("Profile state", c, profileStates))
		case "93":
			n.Append(enumNode("Icon type", c, iconTypes))
		case "94":
			n.Append(tree.New("Icon", lenValue(c.Length)).WithHint(hexHint(c.Value)))
		case "95":
			n.Append(enumNode("Profile class", c, profileClasses))
		case "B6":
			n.Append(notificationConfigurationNode(c))
		case "B7":
			n.Append(profileOwnerNode(c))
		case "B8":
			n.Append(tree.New("SM-DP+ proprietary data", lenValue(c.Length)).WithHint(hexHint(c.Value)))
		case "99":
			n.Append(flagsNode("Profile policy rules", c, profilePolicyRuleNames))
		default:
			n.Append(unknownNode("ProfileInfo", c))
		}
	}

	switch {
	case n.Child("Profile nickname") != nil:
		n.Value = n.Child("Profile nickname").Value
	case n.Child("Profile name") != nil:
		n.Value = n.Child("Profile name").Value
	case n.Child("ICCID") != nil:
		n.Value = n.Child("ICCID").Value
	}
	return n
}

// notificationConfigurationNode decodes the SEQUENCE OF
// NotificationConfigurationInformation (B6).
func notificationConfigurationNode(t tlv.TLV) *tree.Node {
	n := tree.New("Notification configuration info", "")

	for i, c := range t.Children() {
		if c.Tag != "30" {
			n.Append(unknownNode("NotificationConfigurationInfo", c))
			continue
		}
		entry := n.Add(fmt.Sprintf("Entry %d", i+1), "")
		for _, f := range c.Children() {
			switch f.Tag {
			case "80":
				entry.Append(notificationEventsNode("Profile management operation", f, false))
			case "0C", "81":
				entry.Append(fieldNode("Notification address", f, tlv.FormatUTF8))
			default:
				entry.Append(unknownNode("NotificationConfigurationInformation", f))
			}
		}
	}
	return n
}

// profileOwnerNode decodes OperatorId (B7): MCC/MNC and group identifiers.
func profileOwnerNode(t tlv.TLV) *tree.Node {
	n := tree.New("Profile owner", "")
	for _, c := range t.Children() {
		if c.Tag == "80" {
			n.Append(tree.New("MCC/MNC", DecodePLMN(c.Value)).WithHint(c.ValueHex()))
			continue
		}
		if f, ok := lookupField(profileOwnerFields, c.Tag); ok {
			n.Append(fieldNode(f.name, c, f.format))
			continue
		}
		n.Append(unknownNode("ProfileOwner", c))
	}
	if plmn := n.Child("MCC/MNC"); plmn != nil {
		n.Value = plmn.Value
	}
	return n
}

// DecodePLMN decodes a 3-byte PLMN identity (3GPP TS 24.008) into "MCC-MNC",
// e.g. 02F810 -> "208-01". Other lengths are returned as hex.
func DecodePLMN(data []byte) string {
	s := tlv.ToHex(data)
	if len(s) != 6 {
		return s
	}
	mcc := string([]byte{s[1], s[0], s[3]})
	mnc := string([]byte{s[5], s[4]})
	if s[2] != 'F' {
		mnc += string(s[2])
	}
	return mcc + "-" + mnc
}

// searchCriteriaNode decodes the searchCriteria CHOICE (A0).
func searchCriteriaNode(t tlv.TLV) *tree.Node {
	n := tree.New("Search criteria", "")
	for _, c := range t.Children() {
		switch c.Tag {
		case "4F":
			n.Value = "isdpAid"
			n.Append(fieldNode("ISD-P AID", c, tlv.FormatHex))
		case "5A":
			n.Value = "iccid"
			n.Append(fieldNode("ICCID", c, tlv.FormatBCD))
		case "95":
			n.Value = "profileClass"
			n.Append(enumNode("Profile class", c, profileClasses))
		default:
			n.Append(unknownNode("SearchCriteria", c))
		}
	}
	return n
}

// tagListNode decodes a tag list (5C): a concatenation of bare tags, named
// through a fixed table.
func tagListNode(name string, value []byte, names map[string]string) *tree.Node {
	n := tree.New(name, "")

	var listed []string
	for rest := value; len(rest) > 0; {
		tag, size, ok := tlv.ReadTag(rest)
		if !ok {
			n.Append(tree.New("Truncated tag", tlv.ToHex(rest)))
			break
		}
		meaning, known := names[tag]
		if !known {
			meaning = "Unknown"
		}
		n.Add(tag, meaning)
		listed = append(listed, tag)
		rest = rest[size:]
	}

	n.Value = strings.Join(listed, " ")
	return n
}

var profileIdentifierFields = []field{
	{tag: "4F", name: "ISD-P AID", format: tlv.FormatHex},
	{tag: "5A", name: "ICCID", format: tlv.FormatBCD},
}

// buildSetNickname decodes SetNickname (BF29).
//
// Request: iccid (5A) and profileNickname. The nickname is normally tagged 90
// but some LPAs send a UTF8String (0C); both are accepted.
// Response: setNicknameResult (80).
func buildSetNickname(payload string, dir Direction) *tree.Node {
	root := messageRoot("SetNickname", dir)

	for _, t := range tlv.Parse(payload) {
		switch {
		case dir.IsResponse() && t.Tag == "80":
			root.Append(enumNode("Result", t, setNicknameResults))
		case !dir.IsResponse() && t.Tag == "5A":
			root.Append(fieldNode("ICCID", t, tlv.FormatBCD))
		case !dir.IsResponse() && t.Tag == "90":
			root.Append(fieldNode("Nickname", t, tlv.FormatUTF8))
		case !dir.IsResponse() && t.Tag == "0C":
			root.Append(fieldNode("Nickname", t, tlv.FormatUTF8).WithHint("tag 0C"))
		default:
			root.Append(unknownNode("SetNickname", t))
		}
	}
	return root
}

// buildEnableProfile decodes EnableProfile (BF31).
func buildEnableProfile(payload string, dir Direction) *tree.Node {
	return profileOperation("EnableProfile", payload, dir, enableResults)
}

// buildDisableProfile decodes DisableProfile (BF32).
func buildDisableProfile(payload string, dir Direction) *tree.Node {
	return profileOperation("DisableProfile", payload, dir, disableResults)
}

// profileOperation decodes the Enable/DisableProfile pair.
//
// Request: profileIdentifier (A0, holding 4F or 5A) and refreshFlag (81).
// Response: result (80).
func profileOperation(message, payload string, dir Direction, results map[int64]string) *tree.Node {
	root := messageRoot(message, dir)

	for _, t := range tlv.Parse(payload) {
		switch {
		case dir.IsResponse() && t.Tag == "80":
			root.Append(enumNode("Result", t, results))
		case !dir.IsResponse() && t.Tag == "A0":
			id := root.Add("Profile identifier", "")
			addFields(id, t.Children(), profileIdentifierFields, "ProfileIdentifier")
		case !dir.IsResponse() && t.Tag == "81":
			root.Append(booleanNode("Refresh flag", t))
		default:
			root.Append(unknownNode(message, t))
		}
	}
	return root
}

// buildDeleteProfile decodes DeleteProfile (BF33).
//
// Request: isdpAid (4F) or iccid (5A). Response: deleteResult (80).
func buildDeleteProfile(payload string, dir Direction) *tree.Node {
	root := messageRoot("DeleteProfile", dir)

	for _, t := range tlv.Parse(payload) {
		switch {
		case dir.IsResponse() && t.Tag == "80":
			root.Append(enumNode("Result", t, deleteResults))
		case !dir.IsResponse():
			if f, ok := lookupField(profileIdentifierFields, t.Tag); ok {
				root.Append(fieldNode(f.name, t, f.format))
				continue
			}
			root.Append(unknownNode("DeleteProfile", t))
		default:
			root.Append(unknownNode("DeleteProfile", t))
		}
	}
	return root
}
