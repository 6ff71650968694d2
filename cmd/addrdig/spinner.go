// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

// Yet another (braille) spinner.

package main

import (
	"sync/atomic"
	"time"
)

var spinnerPhases = func() []string {
	phases := []string{}
	for _, r := range "⣾⣽⣻⢿⡿⣟⣯⣷" {
		phases = append(phases, string(r)+" ")
	}
	return phases
}()

// spinner advances its phase in the background at fixed intervals until
// stopped; just enough to show that lookups are still in flight.
type spinner struct {
	phase atomic.Uint32
	done  chan struct{}
}

// newSpinner returns a new spinner already spinning at the specified interval.
// Call the Stop method to release its background resources.
func newSpinner(interval time.Duration) *spinner {
	s := &spinner{done: make(chan struct{})}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.phase.Add(1)
			case <-s.done:
				return
			}
		}
	}()
	return s
}

// Spinner returns the spinner string for the current phase.
func (s *spinner) Spinner() string {
	return spinnerPhases[int(s.phase.Load())%len(spinnerPhases)]
}

// Stop the spinner and release the background resources.
func (s *spinner) Stop() {
	close(s.done)
}
