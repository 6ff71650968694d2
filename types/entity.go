// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import "encoding/json"

// IPv4Type is the type tag of entities representing IPv4 addresses.
const IPv4Type = "IPv4"

// Entity represents a single piece of information, such as an IP address or a
// domain name, as handed to us by the host tool. Fields we don't know about
// are kept in Extra, so entities pass through unchanged.
type Entity struct {
	Value    string   `json:"value"`              // raw address text
	Type     string   `json:"type"`               // type tag, such as "IPv4"
	Types    []string `json:"types,omitempty"`    // all type tags, if known
	IsIP     bool     `json:"isIP"`               // entity is an IP address
	IsIPv4   bool     `json:"isIPv4,omitempty"`   // optional host-tool hint
	IsIPv6   bool     `json:"isIPv6,omitempty"`   // optional host-tool hint
	IsDomain bool     `json:"isDomain,omitempty"` // optional host-tool hint

	Extra map[string]json.RawMessage `json:"-"` // other host-tool fields, or nil
}

// entityFields has the same fields as Entity, but none of its methods.
type entityFields Entity

// UnmarshalJSON decodes the known entity fields and keeps all other fields
// in Extra.
func (e *Entity) UnmarshalJSON(data []byte) error {
	var fields entityFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, known := range knownEntityFields {
		delete(all, known)
	}
	fields.Extra = nil
	if len(all) > 0 {
		fields.Extra = all
	}
	*e = Entity(fields)
	return nil
}

// MarshalJSON encodes the known entity fields together with the fields in
// Extra. Known fields take precedence over Extra.
func (e Entity) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(entityFields(e))
	if err != nil || len(e.Extra) == 0 {
		return data, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for name, value := range e.Extra {
		if _, ok := all[name]; ok || isKnownEntityField(name) {
			continue
		}
		all[name] = value
	}
	return json.Marshal(all)
}

var knownEntityFields = []string{
	"value", "type", "types", "isIP", "isIPv4", "isIPv6", "isDomain",
}

func isKnownEntityField(name string) bool {
	for _, known := range knownEntityFields {
		if name == known {
			return true
		}
	}
	return false
}
