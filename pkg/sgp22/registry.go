// Package sgp22 decodes GSMA SGP.22 (Remote SIM Provisioning) messages exchanged
// between the LPA and the eUICC into display-agnostic parse trees.
//
// Every top-level message tag (BF2D ProfileInfoList, BF38 AuthenticateServer, ...)
// has its own dissector. Dissectors are looked up in a Registry keyed by message
// type and uppercase tag, so new messages plug in without touching the decoder.
//
// Decoding never fails: truncated or unknown data degrades to generic nodes
// carrying the raw hex.
package sgp22

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gregLibert/esim-trace/pkg/tree"
)

// MessageType selects a family of dissectors.
type MessageType int

const (
	MessageTypeUnknown MessageType = iota
	// MessageTypeESIM covers the ES10x interface between the LPA and the eUICC.
	MessageTypeESIM
)

func (m MessageType) String() string {
	switch m {
	case MessageTypeESIM:
		return "esim"
	default:
		return fmt.Sprintf("MessageType(%d)", int(m))
	}
}

// ParseMessageType parses the name of a message type ("esim", case insensitive).
func ParseMessageType(s string) (MessageType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "esim", "es10", "sgp22", "sgp.22":
		return MessageTypeESIM, nil
	default:
		return MessageTypeUnknown, fmt.Errorf("unknown message type: %q", s)
	}
}

// Dissector turns the value of a top-level TLV into a parse tree.
// payload is the hex encoded value, without the top-level tag and length.
type Dissector interface {
	Build(payload string, dir Direction) *tree.Node
}

// DissectorFunc adapts a function to the Dissector interface.
type DissectorFunc func(payload string, dir Direction) *tree.Node

func (f DissectorFunc) Build(payload string, dir Direction) *tree.Node {
	return f(payload, dir)
}

type registryKey struct {
	mt  MessageType
	tag string
}

// Registry maps (message type, tag) pairs to dissectors.
//
// Register is not safe for concurrent use. Once populated, a Registry may be
// shared freely between goroutines.
type Registry struct {
	entries map[registryKey]Dissector
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[registryKey]Dissector)}
}

// Register associates d with (mt, tag). Tags are case insensitive. A later
// registration for the same key replaces the previous one.
func (r *Registry) Register(mt MessageType, tag string, d Dissector) {
	r.entries[registryKey{mt: mt, tag: strings.ToUpper(tag)}] = d
}

// Resolve returns the dissector registered for (mt, tag).
// Lookup is an exact match on the uppercase tag.
func (r *Registry) Resolve(mt MessageType, tag string) (Dissector, bool) {
	d, ok := r.entries[registryKey{mt: mt, tag: strings.ToUpper(tag)}]
	return d, ok
}

// Tags lists the tags registered for mt, sorted.
func (r *Registry) Tags(mt MessageType) []string {
	var tags []string
	for k := range r.entries {
		if k.mt == mt {
			tags = append(tags, k.tag)
		}
	}
	sort.Strings(tags)
	return tags
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// DefaultRegistry returns the process-wide registry holding every built-in
// dissector. It is populated on first use and must not be modified afterwards.
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		r := NewRegistry()
		registerESIM(r)
		defaultRegistry = r
	})
	return defaultRegistry
}

// Resolve looks up a dissector in the default registry.
func Resolve(mt MessageType, tag string) (Dissector, bool) {
	return DefaultRegistry().Resolve(mt, tag)
}

// messageNames holds the ASN.1 names of the built-in eSIM messages.
var messageNames = map[string]string{
	"BF28": "ListNotification",
	"BF29": "SetNickname",
	"BF2B": "RetrieveNotificationsList",
	"BF2D": "ProfileInfoList",
	"BF2E": "GetEuiccChallenge",
	"BF30": "NotificationSent",
	"BF31": "EnableProfile",
	"BF32": "DisableProfile",
	"BF33": "DeleteProfile",
	"BF37": "ProfileInstallationResult",
	"BF38": "AuthenticateServer",
	"BF3C": "EuiccConfiguredAddresses",
	"BF3E": "GetEuiccData",
}

// MessageName returns the name of a built-in eSIM message, or "" when the tag
// is not known.
func MessageName(tag string) string {
	return messageNames[strings.ToUpper(tag)]
}

func registerESIM(r *Registry) {
	r.Register(MessageTypeESIM, "BF28", DissectorFunc(buildListNotification))
	r.Register(MessageTypeESIM, "BF29", DissectorFunc(buildSetNickname))
	r.Register(MessageTypeESIM, "BF2B", DissectorFunc(buildRetrieveNotificationsList))
	r.Register(MessageTypeESIM, "BF2D", DissectorFunc(buildProfileInfoList))
	r.Register(MessageTypeESIM, "BF2E", DissectorFunc(buildGetEuiccChallenge))
	r.Register(MessageTypeESIM, "BF30", DissectorFunc(buildNotificationSent))
	r.Register(MessageTypeESIM, "BF31", DissectorFunc(buildEnableProfile))
	r.Register(MessageTypeESIM, "BF32", DissectorFunc(buildDisableProfile))
	r.Register(MessageTypeESIM, "BF33", DissectorFunc(buildDeleteProfile))
	r.Register(MessageTypeESIM, "BF37", DissectorFunc(buildProfileInstallationResult))
	r.Register(MessageTypeESIM, "BF38", DissectorFunc(buildAuthenticateServer))
	r.Register(MessageTypeESIM, "BF3C", DissectorFunc(buildEuiccConfiguredAddresses))
	r.Register(MessageTypeESIM, "BF3E", DissectorFunc(buildGetEuiccData))
}
