package config

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/hubsync/go-hub/common/types"
)

// PeerAddresses maps remote hubs to their grpc address.
type PeerAddresses map[types.PeerID]string

// ParsePeerAddresses parses "id@host:port" entries.
func ParsePeerAddresses(entries []string) (PeerAddresses, error) {
	out := PeerAddresses{}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		id, addr, ok := strings.Cut(entry, "@")
		if !ok || id == "" || addr == "" {
			return nil, fmt.Errorf("peer %q: want id@host:port", entry)
		}
		if prev, ok := out[types.PeerID(id)]; ok && prev != addr {
			return nil, fmt.Errorf("peer %s listed with %s and %s", id, prev, addr)
		}
		out[types.PeerID(id)] = addr
	}
	return out, nil
}

// String implements pflag.Value.
func (p *PeerAddresses) String() string {
	if p == nil || *p == nil {
		return ""
	}
	entries := make([]string, 0, len(*p))
	for _, id := range slices.Sorted(maps.Keys(*p)) {
		entries = append(entries, fmt.Sprintf("%s@%s", id, (*p)[id]))
	}
	return strings.Join(entries, ",")
}

// Set implements pflag.Value. Entries accumulate across repeated flags.
func (p *PeerAddresses) Set(value string) error {
	parsed, err := ParsePeerAddresses(strings.Split(value, ","))
	if err != nil {
		return err
	}
	if *p == nil {
		*p = PeerAddresses{}
	}
	for id, addr := range parsed {
		if prev, ok := (*p)[id]; ok && prev != addr {
			return fmt.Errorf("peer %s listed with %s and %s", id, prev, addr)
		}
		(*p)[id] = addr
	}
	return nil
}

// Type implements pflag.Value.
func (*PeerAddresses) Type() string {
	return "peers"
}

// PeerAddressesDecodeFunc decodes PeerAddresses from a list of "id@host:port"
// entries or a comma separated string of them. Tables keyed by peer id are
// decoded by mapstructure itself.
func PeerAddressesDecodeFunc() mapstructure.DecodeHookFuncType {
	return func(f, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(PeerAddresses{}) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return ParsePeerAddresses(strings.Split(v, ","))
		case []string:
			return ParsePeerAddresses(v)
		case []any:
			entries := make([]string, 0, len(v))
			for _, e := range v {
				s, ok := e.(string)
				if !ok {
					return nil, fmt.Errorf("peer entry %v: want string", e)
				}
				entries = append(entries, s)
			}
			return ParsePeerAddresses(entries)
		}
		return data, nil
	}
}
