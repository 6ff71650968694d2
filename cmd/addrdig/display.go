// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/siemens/addrdig/lookup"
	"github.com/siemens/addrdig/types"

	"github.com/dustin/go-humanize"
)

// maxListed limits how many ports, hostnames, et cetera get listed per address.
const maxListed = 6

// renderer renders the terminal display, based on the records passed to its
// Render method.
type renderer struct {
	Indentation int
	service     string
	total       int // number of entities in the batch
	w           io.Writer
	spinner     *spinner
}

// newRenderer returns a renderer rendering to the specified io.Writer. service
// names the lookup service and total is the number of entities in the batch.
func newRenderer(w io.Writer, service string, total int, sp *spinner) *renderer {
	return &renderer{
		service: service,
		total:   total,
		w:       w,
		spinner: sp,
	}
}

// Render the given records.
func (r *renderer) Render(recs []types.ResultRecord) {
	if len(recs) == 0 {
		fmt.Fprintf(r.w, "looking up %s entities at %s...\n", humanize.Comma(int64(r.total)), r.service)
		return
	}
	settled := 0
	maxlen := 0
	for _, rec := range recs {
		if rec.Outcome.IsFinal() {
			settled++
		}
		if l := len(rec.Addr()); l > maxlen {
			maxlen = l
		}
	}
	fmt.Fprintf(r.w, "%s: %s of %s distinct entities settled\n",
		headerStyle.Styled(r.service),
		humanize.Comma(int64(settled)), humanize.Comma(int64(len(recs))))
	for _, rec := range recs {
		r.renderRecord(maxlen, rec)
	}
}

// renderRecord renders a single record's address and outcome.
func (r *renderer) renderRecord(labelwidth int, rec types.ResultRecord) {
	fmt.Fprintf(r.w, "%-*s%-*s ", r.Indentation, "", labelwidth, rec.Addr())
	switch rec.Outcome {
	case types.Pending:
		spin := "… "
		if r.spinner != nil {
			spin = r.spinner.Spinner()
		}
		fmt.Fprint(r.w, pendingStyle.Styled(spin+"looking up"))
	case types.Found:
		fmt.Fprint(r.w, foundStyle.Styled("✔ "+describeHost(rec.Data)))
	case types.NotFound:
		fmt.Fprint(r.w, notFoundStyle.Styled("– no data"))
	case types.Failed:
		msg := "failed"
		if rec.Err != nil {
			msg = rec.Err.Error()
		}
		fmt.Fprint(r.w, failedStyle.Styled("× "+msg))
	case types.Skipped:
		typ := ""
		if rec.Entity != nil && rec.Entity.Type != "" {
			typ = " " + rec.Entity.Type
		}
		fmt.Fprint(r.w, skippedStyle.Styled("· skipped"+typ))
	}
	fmt.Fprintln(r.w)
}

// renderSummary renders the final statistics of a batch.
func renderSummary(w io.Writer, stats types.RunStats) {
	fmt.Fprintf(w, "searched %s, skipped %s (%s duplicate, %s ineligible)\n",
		humanize.Comma(int64(stats.Searched)),
		humanize.Comma(int64(stats.Skipped())),
		humanize.Comma(int64(stats.SkippedDuplicate)),
		humanize.Comma(int64(stats.SkippedIneligible)))
	fmt.Fprintf(w, "found %s, no data %s, errored %s, took %s\n",
		humanize.Comma(int64(stats.Found)),
		humanize.Comma(int64(stats.NotFound)),
		humanize.Comma(int64(stats.Errored)),
		stats.Elapsed.Round(time.Millisecond))
}

// describeHost returns a one-line description of an InternetDB payload, or a
// generic notice for other payloads.
func describeHost(data []byte) string {
	info, err := lookup.ParseHostInfo(data)
	if err != nil {
		return "data"
	}
	parts := []string{}
	if len(info.Ports) > 0 {
		ports := make([]string, 0, len(info.Ports))
		for _, port := range info.Ports {
			ports = append(ports, strconv.Itoa(port))
		}
		parts = append(parts, "ports "+list(ports))
	}
	if len(info.Hostnames) > 0 {
		parts = append(parts, "hosts "+list(info.Hostnames))
	}
	if len(info.Tags) > 0 {
		parts = append(parts, "tags "+list(info.Tags))
	}
	if len(info.Vulns) > 0 {
		parts = append(parts, humanize.Comma(int64(len(info.Vulns)))+" vulns")
	}
	if len(parts) == 0 {
		return "data"
	}
	return strings.Join(parts, "; ")
}

// list joins the items, abbreviating overly long lists.
func list(items []string) string {
	if len(items) <= maxListed {
		return strings.Join(items, ",")
	}
	return strings.Join(items[:maxListed], ",") + fmt.Sprintf(",+%d", len(items)-maxListed)
}
