// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/siemens/addrdig/batch"
	"github.com/siemens/addrdig/lookup"
	"github.com/siemens/addrdig/types"

	"github.com/gosuri/uilive"
)

// EnrichAndReport gathers the entities to look up from the input file and the
// command line arguments, optionally resolving domain names into IPv4
// addresses. It then looks up the entities, rendering the progress to the
// diagnostics writer, and finally writes the results as JSON to the output
// file, or the out writer if no output file has been specified.
func EnrichAndReport(
	ctx context.Context,
	cfg Config,
	input string,
	output string,
	args []string,
	stdin io.Reader,
	out io.Writer,
	diag io.Writer,
) error {
	entities, err := loadEntities(input, args, stdin)
	if err != nil {
		return err
	}
	if cfg.Resolver.Enabled {
		entities, err = resolveDomains(ctx, cfg.Resolver, entities)
		if err != nil {
			return fmt.Errorf("cannot resolve domain names: %w", err)
		}
	}

	client := lookup.New(
		lookup.WithBaseURL(cfg.Service.BaseURL),
		lookup.WithTimeout(cfg.Service.Timeout),
		lookup.WithRateLimit(cfg.Service.RateLimit),
		lookup.WithUserAgent(cfg.Service.UserAgent),
	)

	// Create an empty (concurrency-safe) tally and immediately fire off the
	// rendering goroutine. The rendering will only stop after tracking has
	// finished because the progress stream channel has been closed. We then
	// render a final update and end rendering, signalling the end of our
	// activities via renderingDone.
	tally := batch.NewTally()
	news := make(chan types.ResultRecord, cfg.Workers)
	trackingDone := make(chan struct{})
	renderingDone := make(chan struct{})

	sp := newSpinner(cfg.Display.SpinnerInterval)
	defer sp.Stop()
	// As in uilive's own background mode the rendering into its buffer might
	// not yet be complete when it gets flushed, we always flush explicitly
	// after having completed the rendering.
	term := uilive.New()
	term.Out = diag
	r := newRenderer(term, serviceName(cfg.Service.BaseURL), len(entities), sp)
	r.Indentation = cfg.Display.Indentation

	go func() {
		defer close(renderingDone)
		if !cfg.Display.Live {
			<-trackingDone
			return
		}
		defer func() {
			renderTally(term, r, tally)
		}()
		renderTally(term, r, tally)
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				renderTally(term, r, tally)
			case <-trackingDone:
				return
			}
		}
	}()
	go func() {
		_ = tally.Track(ctx, news)
		close(trackingDone)
	}()

	b := batch.New(cfg.Workers, client, batch.WithProgress(news)).Run(ctx, entities)
	close(news)
	<-renderingDone
	renderSummary(diag, b.Stats)

	return writeRecords(output, out, b.Records)
}

// renderTally renders the current tally and flushes it to the terminal.
func renderTally(term *uilive.Writer, r *renderer, tally *batch.Tally) {
	r.Render(tally.Get())
	_ = term.Flush()
}

// writeRecords writes the records as an indented JSON array to the specified
// output file, or to out if the output file name is empty.
func writeRecords(output string, out io.Writer, recs []types.ResultRecord) error {
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("cannot create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(recs); err != nil {
		return fmt.Errorf("cannot write results: %w", err)
	}
	return nil
}

// serviceName returns the host name of the lookup service for display.
func serviceName(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return baseURL
	}
	return u.Host
}
