// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dnsworker

import (
	"context"
	"fmt"
	"sync"

	"github.com/gammazero/workerpool"
	"github.com/miekg/dns"
)

// Pool is a (size-limited) pool of DNS client connections talking with the
// same DNS resolver address.
type Pool struct {
	workers *workerpool.WorkerPool
	dnsclnt *dns.Client
	mu      sync.Mutex // protects the pool of DNS connections
	free    []*dns.Conn
}

// New returns a pool of the specified size of DNS client connections, with each
// connection talking to the same DNS resolver address.
//
// DNS tasks are submitted using [Pool.Submit] in form of task functions
// receiving a concrete [dns.Conn].
//
// The passed context is used for creating (dialing) the DNS client connections
// only. It is not directly passed to the submitted DNS tasks, so task
// submitters are themselves responsible for capturing the necessary context in
// their task function closure.
func New(ctx context.Context, size int, dnsclnt *dns.Client, addr string) (*Pool, error) {
	if size < 1 {
		size = 1
	}
	free := make([]*dns.Conn, 0, size)
	for i := 0; i < size; i++ {
		conn, err := dnsclnt.DialContext(ctx, addr)
		if err != nil {
			// Immediately release all connections created so far.
			for _, conn := range free {
				conn.Close()
			}
			return nil, fmt.Errorf("cannot connect to DNS resolver %s: %w", addr, err)
		}
		free = append(free, conn)
	}
	return &Pool{
		workers: workerpool.New(size),
		dnsclnt: dnsclnt,
		free:    free,
	}, nil
}

// Submit a task to the DNS client connection pool, where it gets enqueued to be
// executed on an available DNS client connection.
func (p *Pool) Submit(task func(conn *dns.Conn)) {
	p.workers.Submit(func() { p.task(task) })
}

// ResolveIPv4 is a convenience method for submitting A queries and gathering
// the results. The resolved IPv4 addresses in textual format, or an error if
// resolution failed, are passed to the specified callback function fn. A name
// without any A answers counts as failed.
//
// Please note that when the passed context is cancelled this will cancel all
// scheduled name resolution jobs, reporting the context error to fn.
func (p *Pool) ResolveIPv4(ctx context.Context, name string, fn func([]string, error)) {
	p.Submit(func(conn *dns.Conn) {
		var addrs []string
		var err error
		defer func() { fn(addrs, err) }() // ...ensure triggering the result callback on our way out

		select {
		case <-ctx.Done():
			err = ctx.Err()
			return
		default:
		}

		msg := dns.Msg{
			MsgHdr: dns.MsgHdr{Id: dns.Id()},
		}
		fqdn := dns.Fqdn(name)
		msg.SetQuestion(fqdn, dns.TypeA)
		var r *dns.Msg
		r, _, err = p.dnsclnt.ExchangeWithConn(&msg, conn)
		if err != nil {
			err = fmt.Errorf("ResolveIPv4: query for %q failed: %w", fqdn, err)
			return
		}
		for _, rr := range r.Answer {
			if a, ok := rr.(*dns.A); ok {
				addrs = append(addrs, a.A.String())
			}
		}
		if len(addrs) == 0 {
			err = fmt.Errorf("ResolveIPv4: query for %q yields no answers (%s)",
				fqdn, dns.RcodeToString[r.Rcode])
		}
	})
}

// task grabs the next free DNS client and passes it to the specified function.
// After the function returns, the connection is put back into the free list.
func (p *Pool) task(task func(conn *dns.Conn)) {
	p.mu.Lock()
	if len(p.free) == 0 {
		p.mu.Unlock()
		panic("no free DNS client connection available")
	}
	last := len(p.free) - 1
	conn := p.free[last]
	p.free = p.free[:last]
	p.mu.Unlock()

	task(conn)

	p.mu.Lock()
	p.free = append(p.free, conn)
	p.mu.Unlock()
}

// StopWait waits for all enqueued resolution or generic DNS request tasks to
// finish, and then shuts down the pool.
func (p *Pool) StopWait() {
	p.workers.StopWait()
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, conn := range p.free {
		conn.Close()
	}
	p.free = nil
}
