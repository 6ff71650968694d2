// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

/*
Package dnstest provides a local fake DNS resolver for tests.
*/
package dnstest

import (
	"net"

	"github.com/miekg/dns"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

// StartResolver starts a local UDP DNS server answering A queries for the
// fully qualified names in answers with the listed IPv4 addresses. All other
// queries yield NXDOMAIN. The server gets shut down automatically at the end
// of the current spec. StartResolver returns the server's address.
func StartResolver(answers map[string][]string) string {
	GinkgoHelper()
	pc := Successful(net.ListenPacket("udp", "127.0.0.1:0"))
	started := make(chan struct{})
	srv := &dns.Server{
		PacketConn:        pc,
		NotifyStartedFunc: func() { close(started) },
		Handler: dns.HandlerFunc(func(w dns.ResponseWriter, req *dns.Msg) {
			resp := new(dns.Msg)
			resp.SetReply(req)
			q := req.Question[0]
			addrs, ok := answers[q.Name]
			if ok && q.Qtype == dns.TypeA {
				for _, addr := range addrs {
					resp.Answer = append(resp.Answer, &dns.A{
						Hdr: dns.RR_Header{Name: q.Name, Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 60},
						A:   net.ParseIP(addr),
					})
				}
			} else {
				resp.Rcode = dns.RcodeNameError
			}
			_ = w.WriteMsg(resp)
		}),
	}
	go func() { _ = srv.ActivateAndServe() }()
	Eventually(started).Should(BeClosed())
	DeferCleanup(func() { _ = srv.Shutdown() })
	return pc.LocalAddr().String()
}
