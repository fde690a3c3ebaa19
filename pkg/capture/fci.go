package capture

import (
	"errors"
	"fmt"
	"strings"

	"github.com/moov-io/bertlv"

	"github.com/gregLibert/esim-trace/pkg/sgp22"
	"github.com/gregLibert/esim-trace/pkg/tlv"
	"github.com/gregLibert/esim-trace/pkg/tree"
)

// FILE CONTROL INFORMATION (FCI) returned by SELECT on a GlobalPlatform
// security domain (GPC 2.3, 11.1.3), as sent back by the ISD-R and ECASD.
//
//	6F  FCI template
//	  84  Application / file AID
//	  A5  Proprietary data
//	    73    Security domain management data
//	    9F6E  Application production life cycle data
//	    9F65  Maximum length of data field in command message
//	    50    Application label (non security domain applications)

// Well known eSIM applications.
const (
	AIDISDR  = "A0000005591010FFFFFFFF8900000100"
	AIDECASD = "A0000005591010FFFFFFFF8900000200"
)

var knownAIDs = map[string]string{
	AIDISDR:  "ISD-R",
	AIDECASD: "ECASD",
}

// ErrEmptyFCI is returned when a SELECT response carries no data.
var ErrEmptyFCI = errors.New("empty FCI")

// FCI is the File Control Information of a selected application.
type FCI struct {
	AID         []byte              `tlv:"84"`
	Proprietary *FCIProprietaryData `tlv:"A5"`
	Unknown     []bertlv.TLV        `tlv:",unknown"`
}

// FCIProprietaryData holds the content of tag A5. Applications other than
// security domains may carry an application label.
type FCIProprietaryData struct {
	ManagementData    []bertlv.TLV `tlv:"73"`
	LifeCycleData     string       `tlv:"9F6E"`
	MaxCommandDataLen string       `tlv:"9F65" fmt:"int"`
	Label             string       `tlv:"50" fmt:"ascii"`
	Unknown           []bertlv.TLV `tlv:",unknown"`
}

// ParseFCI decodes a SELECT response. The 6F wrapper is optional.
func ParseFCI(data []byte) (*FCI, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFCI
	}

	packets, err := tlv.DecodeTree(data)
	if err != nil {
		return nil, fmt.Errorf("parse FCI: %w", err)
	}
	if len(packets) > 0 && strings.EqualFold(packets[0].Tag, "6F") {
		packets = packets[0].TLVs
	}

	fci := &FCI{}
	if err := tlv.UnmarshalFromPackets(packets, fci); err != nil {
		return nil, fmt.Errorf("parse FCI: %w", err)
	}
	return fci, nil
}

// AIDHex returns the selected AID in uppercase hex.
func (f *FCI) AIDHex() string {
	return tlv.ToHex(f.AID)
}

// ApplicationName names the selected application when it is a well known
// eSIM one.
func (f *FCI) ApplicationName() (string, bool) {
	name, ok := knownAIDs[f.AIDHex()]
	return name, ok
}

// Describe renders the FCI as a tree.
func (f *FCI) Describe() *tree.Node {
	root := tree.New("FCI", "")

	if len(f.AID) > 0 {
		aid := root.Add("AID", f.AIDHex())
		if name, ok := f.ApplicationName(); ok {
			root.Value = name
			aid.Hint = name
		}
	}

	if p := f.Proprietary; p != nil {
		prop := root.Add("Proprietary data", "")
		if p.Label != "" {
			prop.Add("Application label", p.Label)
		}
		if len(p.ManagementData) > 0 {
			md := prop.Add("Security domain management data", "")
			for _, t := range p.ManagementData {
				md.Append(sgp22.PacketNode(t))
			}
		}
		if p.LifeCycleData != "" {
			prop.Add("Application production life cycle data", p.LifeCycleData)
		}
		if p.MaxCommandDataLen != "" {
			prop.Add("Max command data length", p.MaxCommandDataLen)
		}
		for _, t := range p.Unknown {
			prop.Append(sgp22.PacketNode(t))
		}
	}
	for _, t := range f.Unknown {
		root.Append(sgp22.PacketNode(t))
	}
	return root
}
