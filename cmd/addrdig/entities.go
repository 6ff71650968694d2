// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/siemens/addrdig/dnsworker"
	"github.com/siemens/addrdig/types"

	"github.com/miekg/dns"
	"github.com/thediveo/lxkns/log"
)

// entityFromArg turns a command line argument into an entity: an IPv4 or IPv6
// address, or otherwise a domain name.
func entityFromArg(arg string) types.Entity {
	arg = strings.TrimSpace(arg)
	if ip := net.ParseIP(arg); ip != nil {
		if ip.To4() != nil && !strings.Contains(arg, ":") {
			return ipv4Entity(arg)
		}
		return types.Entity{
			Value:  arg,
			Type:   "IPv6",
			Types:  []string{"IP", "IPv6"},
			IsIP:   true,
			IsIPv6: true,
		}
	}
	return types.Entity{
		Value:    arg,
		Type:     "domain",
		Types:    []string{"domain"},
		IsDomain: true,
	}
}

func ipv4Entity(addr string) types.Entity {
	return types.Entity{
		Value:  addr,
		Type:   types.IPv4Type,
		Types:  []string{"IP", types.IPv4Type},
		IsIP:   true,
		IsIPv4: true,
	}
}

// readEntities reads a JSON array of entities, such as produced by the host
// tool.
func readEntities(r io.Reader) ([]types.Entity, error) {
	var entities []types.Entity
	dec := json.NewDecoder(r)
	if err := dec.Decode(&entities); err != nil {
		return nil, fmt.Errorf("invalid entities: %w", err)
	}
	return entities, nil
}

// loadEntities gathers the entities from the specified input file, if any,
// followed by the entities given as command line arguments. An input of "-"
// reads from stdin.
func loadEntities(input string, args []string, stdin io.Reader) ([]types.Entity, error) {
	var entities []types.Entity
	switch input {
	case "":
	case "-":
		e, err := readEntities(stdin)
		if err != nil {
			return nil, err
		}
		entities = e
	default:
		f, err := os.Open(input)
		if err != nil {
			return nil, fmt.Errorf("cannot open entities: %w", err)
		}
		defer f.Close()
		e, err := readEntities(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", input, err)
		}
		entities = e
	}
	for _, arg := range args {
		entities = append(entities, entityFromArg(arg))
	}
	return entities, nil
}

// resolveDomains resolves the domain entities into IPv4 addresses, inserting
// an IPv4 entity for each resolved address right after its domain entity. The
// domain entities themselves are kept. Resolution failures are logged but
// otherwise ignored.
func resolveDomains(ctx context.Context, cfg ResolverConfig, entities []types.Entity) ([]types.Entity, error) {
	dnsclnt := dns.Client{Net: "udp", Timeout: cfg.Timeout}
	pool, err := dnsworker.New(ctx, cfg.Workers, &dnsclnt, cfg.Address)
	if err != nil {
		return nil, err
	}
	// Each callback only writes its own slot, and StopWait waits for all
	// callbacks to have been run.
	resolved := make([][]string, len(entities))
	for idx := range entities {
		if !entities[idx].IsDomain {
			continue
		}
		idx := idx
		name := entities[idx].Value
		pool.ResolveIPv4(ctx, name, func(addrs []string, err error) {
			if err != nil {
				log.Warnf("cannot resolve %s: %s", name, err)
				return
			}
			log.Debugf("resolved %s into %v", name, addrs)
			resolved[idx] = addrs
		})
	}
	pool.StopWait()

	out := make([]types.Entity, 0, len(entities))
	for idx, entity := range entities {
		out = append(out, entity)
		for _, addr := range resolved[idx] {
			out = append(out, ipv4Entity(addr))
		}
	}
	return out, nil
}
