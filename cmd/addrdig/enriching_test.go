// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/siemens/addrdig/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// record is the JSON shape of a result record as written by addrdig.
type record struct {
	Entity  types.Entity    `json:"entity"`
	Data    json.RawMessage `json:"data"`
	Outcome string          `json:"outcome"`
	Error   string          `json:"error"`
}

func fakeInternetDB() string {
	GinkgoHelper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch strings.TrimPrefix(r.URL.Path, "/") {
		case "192.0.2.1":
			_, _ = w.Write([]byte(`{"ip":"192.0.2.1","ports":[22,80],"hostnames":["foo.example"],"vulns":["CVE-2023-0001"]}`))
		case "192.0.2.3":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"No information available"}`))
		}
	}))
	DeferCleanup(func() {
		srv.CloseClientConnections()
		srv.Close()
	})
	return srv.URL
}

var _ = Describe("addrdig command", func() {

	It("looks up addresses and writes the results", NodeTimeout(20*time.Second), func(ctx context.Context) {
		baseURL := fakeInternetDB()
		var out, diag bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&diag)
		cmd.SetArgs([]string{
			"--base-url", baseURL, "--quiet", "--workers", "2",
			"192.0.2.1", "example.org", "192.0.2.2", "192.0.2.1", "192.0.2.3",
		})
		Expect(cmd.ExecuteContext(ctx)).To(Succeed())

		var recs []record
		Expect(json.Unmarshal(out.Bytes(), &recs)).To(Succeed())
		Expect(recs).To(HaveLen(4))
		Expect(recs[0].Entity.Value).To(Equal("192.0.2.1"))
		Expect(recs[0].Outcome).To(Equal("found"))
		Expect(recs[0].Data).To(MatchJSON(
			`{"ip":"192.0.2.1","ports":[22,80],"hostnames":["foo.example"],"vulns":["CVE-2023-0001"]}`))
		Expect(recs[1]).To(And(
			HaveField("Entity.Value", "example.org"),
			HaveField("Outcome", "skipped"),
			HaveField("Data", BeEquivalentTo("null"))))
		Expect(recs[2]).To(And(
			HaveField("Entity.Value", "192.0.2.2"),
			HaveField("Outcome", "notfound"),
			HaveField("Data", BeEquivalentTo("null"))))
		Expect(recs[3]).To(And(
			HaveField("Entity.Value", "192.0.2.3"),
			HaveField("Outcome", "failed"),
			HaveField("Error", ContainSubstring("status 500"))))

		Expect(diag.String()).To(And(
			ContainSubstring("searched 3, skipped 2 (1 duplicate, 1 ineligible)"),
			ContainSubstring("found 1, no data 1, errored 1")))
	})

	It("writes the results to a file", NodeTimeout(20*time.Second), func(ctx context.Context) {
		baseURL := fakeInternetDB()
		output := filepath.Join(GinkgoT().TempDir(), "results.json")
		input := filepath.Join(GinkgoT().TempDir(), "input.json")
		Expect(os.WriteFile(input, []byte(`[{"type":"IPv4","value":"192.0.2.1","isIP":true}]`), 0o600)).
			To(Succeed())
		var out, diag bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetErr(&diag)
		cmd.SetArgs([]string{"--base-url", baseURL, "--spinner", "20ms", "-i", input, "-o", output})
		Expect(cmd.ExecuteContext(ctx)).To(Succeed())
		Expect(out.Len()).To(BeZero())

		data, err := os.ReadFile(output)
		Expect(err).NotTo(HaveOccurred())
		var recs []record
		Expect(json.Unmarshal(data, &recs)).To(Succeed())
		Expect(recs).To(ConsistOf(HaveField("Outcome", "found")))
		Expect(diag.String()).To(ContainSubstring("ports 22,80; hosts foo.example; 1 vulns"))
	})

	It("passes entities through untouched", NodeTimeout(20*time.Second), func(ctx context.Context) {
		baseURL := fakeInternetDB()
		var out bytes.Buffer
		cmd := newRootCmd()
		cmd.SetIn(strings.NewReader(`[
			{"type":"domain","value":"example.org","isDomain":true,"requestContext":{"requestType":"OnDemand"},"channels":[1]}
		]`))
		cmd.SetOut(&out)
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--base-url", baseURL, "--quiet", "-i", "-"})
		Expect(cmd.ExecuteContext(ctx)).To(Succeed())

		var recs []struct {
			Entity json.RawMessage `json:"entity"`
		}
		Expect(json.Unmarshal(out.Bytes(), &recs)).To(Succeed())
		Expect(recs).To(HaveLen(1))
		Expect(recs[0].Entity).To(MatchJSON(
			`{"type":"domain","value":"example.org","isIP":false,"isDomain":true,"requestContext":{"requestType":"OnDemand"},"channels":[1]}`))
	})

	DescribeTable("rejects invalid invocations",
		func(args []string, errtext string) {
			cmd := newRootCmd()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(args)
			Expect(cmd.Execute()).To(MatchError(ContainSubstring(errtext)))
		},
		Entry("nothing to look up", []string{}, "nothing to look up"),
		Entry("no workers", []string{"--workers", "0", "192.0.2.1"}, "workers out of range"),
		Entry("invalid base URL", []string{"--base-url", "foo", "192.0.2.1"}, "invalid lookup service base URL"),
		Entry("missing input file", []string{"-i", "/nada/nothing.json"}, "cannot open entities"),
	)

	It("exits with an error code", func() {
		DeferCleanup(func(exit func(int), args []string) {
			osExit = exit
			os.Args = args
		}, osExit, os.Args)
		code := 0
		osExit = func(c int) { code = c; panic(errors.New("exit")) }
		os.Args = []string{"addrdig"}
		Expect(func() { main() }).To(PanicWith(MatchError("exit")))
		Expect(code).To(Equal(1))
	})

})
