// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import (
	"encoding/json"
	"time"
)

// ResultRecord pairs an entity with the data payload returned by the lookup
// service. Data is nil (rendered as JSON null) unless Outcome is [Found].
type ResultRecord struct {
	Entity  *Entity         // references the caller's entity, never owned.
	Data    json.RawMessage // raw payload, or nil.
	Outcome Outcome         // why there is data, or why not.
	Err     error           // if Outcome is Failed, the cause.
}

// resultRecordJSON is the wire shape of a [ResultRecord], with the error cause
// flattened into text.
type resultRecordJSON struct {
	Entity  *Entity         `json:"entity"`
	Data    json.RawMessage `json:"data"`
	Outcome Outcome         `json:"outcome"`
	Error   string          `json:"error,omitempty"`
}

// MarshalJSON renders a record as {"entity":...,"data":...,"outcome":...},
// with data always present and null in case of no payload.
func (r ResultRecord) MarshalJSON() ([]byte, error) {
	rj := resultRecordJSON{
		Entity:  r.Entity,
		Data:    r.Data,
		Outcome: r.Outcome,
	}
	if rj.Data == nil {
		rj.Data = json.RawMessage("null")
	}
	if r.Err != nil {
		rj.Error = r.Err.Error()
	}
	return json.Marshal(rj)
}

// Addr returns the address value of the record's entity, or "" if there is no
// entity.
func (r ResultRecord) Addr() string {
	if r.Entity == nil {
		return ""
	}
	return r.Entity.Value
}

// RunStats sums up a single batch run.
type RunStats struct {
	Searched          int           `json:"searched"`          // eligible and dispatched lookups
	SkippedDuplicate  int           `json:"skippedDuplicate"`  // eligible, but already dispatched
	SkippedIneligible int           `json:"skippedIneligible"` // not an IPv4 entity
	Found             int           `json:"found"`             // lookups with data
	NotFound          int           `json:"notFound"`          // lookups without data (404)
	Errored           int           `json:"errored"`           // failed lookups
	Elapsed           time.Duration `json:"elapsed"`           // wall-clock time of the batch
}

// Skipped returns the total number of skipped entities.
func (s RunStats) Skipped() int {
	return s.SkippedDuplicate + s.SkippedIneligible
}
