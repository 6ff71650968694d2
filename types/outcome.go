// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import (
	"fmt"
	"strings"
)

// Outcome indicates the result "kind" of looking up an entity, such as found,
// not found, failed, et cetera.
type Outcome int

// The lookup outcomes of an entity.
const (
	Pending  Outcome = iota // lookup dispatched, but not yet settled.
	Skipped                 // entity not eligible for lookup.
	NotFound                // lookup service has no data for the address.
	Failed                  // lookup failed for any other reason.
	Found                   // lookup service returned data.
)

// String returns the clear-text representation of an Outcome value.
func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Skipped:
		return "skipped"
	case NotFound:
		return "notfound"
	case Failed:
		return "failed"
	case Found:
		return "found"
	}
	return fmt.Sprintf("Outcome(%d)", o)
}

// IsFinal returns true if the lookup of an entity has been settled one way or
// another.
func (o Outcome) IsFinal() bool {
	return o != Pending
}

// MarshalText renders an Outcome in its clear-text representation.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText parses the clear-text representation of an Outcome.
func (o *Outcome) UnmarshalText(text []byte) error {
	s := strings.ToLower(string(text))
	for _, candidate := range []Outcome{Pending, Skipped, NotFound, Failed, Found} {
		if candidate.String() == s {
			*o = candidate
			return nil
		}
	}
	return fmt.Errorf("invalid outcome %q", s)
}
