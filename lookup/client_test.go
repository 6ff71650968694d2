// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package lookup

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/siemens/addrdig/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gleak"
)

// fakeInternetDB starts a test HTTP server with the specified handler and
// returns a client talking to it.
func fakeInternetDB(handler http.HandlerFunc, options ...ClientOption) *Client {
	GinkgoHelper()
	srv := httptest.NewServer(handler)
	DeferCleanup(func() {
		srv.CloseClientConnections()
		srv.Close()
	})
	return New(append([]ClientOption{WithBaseURL(srv.URL + "/")}, options...)...)
}

var _ = Describe("lookup client", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			http.DefaultTransport.(*http.Transport).CloseIdleConnections()
			Eventually(Goroutines).WithTimeout(3 * time.Second).WithPolling(250 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	It("defaults to InternetDB", func() {
		Expect(New().BaseURL()).To(Equal(DefaultBaseURL))
		Expect(New(WithBaseURL("http://localhost:1234/")).BaseURL()).To(Equal("http://localhost:1234"))
	})

	It("returns the payload of a found address", func(ctx context.Context) {
		var mu sync.Mutex
		var path, ua string
		client := fakeInternetDB(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			path, ua = r.URL.Path, r.Header.Get("User-Agent")
			mu.Unlock()
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"ports":[22,80]}`))
		}, WithUserAgent("addrdig-test"))

		res := client.Lookup(ctx, "192.0.2.42")
		Expect(res.Outcome).To(Equal(types.Found))
		Expect(res.Err).NotTo(HaveOccurred())
		Expect(res.Data).To(MatchJSON(`{"ports":[22,80]}`))

		mu.Lock()
		defer mu.Unlock()
		Expect(path).To(Equal("/192.0.2.42"))
		Expect(ua).To(Equal("addrdig-test"))
	})

	It("reports not found addresses without an error", func(ctx context.Context) {
		client := fakeInternetDB(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"No information available"}`))
		})

		res := client.Lookup(ctx, "192.0.2.1")
		Expect(res.Outcome).To(Equal(types.NotFound))
		Expect(res.Data).To(BeNil())
		Expect(res.Err).NotTo(HaveOccurred())
	})

	DescribeTable("classifies failures",
		func(ctx context.Context, status int, body string, errtext string) {
			client := fakeInternetDB(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				_, _ = w.Write([]byte(body))
			})

			res := client.Lookup(ctx, "192.0.2.1")
			Expect(res.Outcome).To(Equal(types.Failed))
			Expect(res.Data).To(BeNil())
			Expect(res.Err).To(MatchError(ContainSubstring(errtext)))
		},
		Entry("on server errors", http.StatusInternalServerError, "kaboom", "status 500 Internal Server Error: kaboom"),
		Entry("on rate limiting", http.StatusTooManyRequests, `{"detail":"Rate limit exceeded"}`, "Rate limit exceeded"),
		Entry("on bad requests", http.StatusBadRequest, `{"detail":"Invalid IP"}`, "status 400"),
		Entry("on malformed bodies", http.StatusOK, `{"ports":[22,`, "malformed response body"),
		Entry("on oversized bodies", http.StatusOK, "["+strings.Repeat("0,", maxBodySize/2)+"0]", "response too large"),
	)

	It("reports HTTP status failures as HTTPError", func(ctx context.Context) {
		client := fakeInternetDB(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		res := client.Lookup(ctx, "192.0.2.1")
		var herr *HTTPError
		Expect(errors.As(res.Err, &herr)).To(BeTrue())
		Expect(herr.StatusCode).To(Equal(http.StatusBadGateway))
		Expect(herr.Addr).To(Equal("192.0.2.1"))
	})

	It("fails on timeouts", NodeTimeout(10*time.Second), func(ctx context.Context) {
		client := fakeInternetDB(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
		}, WithTimeout(100*time.Millisecond))

		start := time.Now()
		res := client.Lookup(ctx, "192.0.2.1")
		Expect(time.Since(start)).To(BeNumerically("<", 2*time.Second))
		Expect(res.Outcome).To(Equal(types.Failed))
		Expect(res.Err).To(HaveOccurred())
	})

	It("fails on transport errors", func(ctx context.Context) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		res := New(WithBaseURL(url)).Lookup(ctx, "192.0.2.1")
		Expect(res.Outcome).To(Equal(types.Failed))
		Expect(res.Err).To(MatchError(ContainSubstring("lookup 192.0.2.1")))
	})

	It("paces lookups when rate limited", NodeTimeout(10*time.Second), func(ctx context.Context) {
		client := fakeInternetDB(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}, WithRateLimit(20))

		start := time.Now()
		for i := 0; i < 3; i++ {
			Expect(client.Lookup(ctx, "192.0.2.1").Outcome).To(Equal(types.Found))
		}
		// first request passes immediately, the next two wait 50ms each.
		Expect(time.Since(start)).To(BeNumerically(">=", 90*time.Millisecond))
	})

	It("doesn't wait for the rate limiter when cancelled", func(specctx context.Context) {
		client := New(WithRateLimit(0.001))
		ctx, cancel := context.WithCancel(specctx)
		cancel()
		res := client.Lookup(ctx, "192.0.2.1")
		Expect(res.Outcome).To(Equal(types.Failed))
		Expect(res.Err).To(MatchError(ContainSubstring("rate limiter")))
	})

})
