// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package lookup

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// errorEnvelope is the error body shape of InternetDB, such as {"detail":"No
// information available"}.
type errorEnvelope struct {
	Detail string `json:"detail"`
}

// HTTPError is a summary of a non-2xx lookup service response.
type HTTPError struct {
	Addr       string // address value looked up
	StatusCode int
	Status     string
	Detail     string // error detail reported by the service, if any.
	Snippet    string // truncated body otherwise.
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "lookup http error"
	}
	msg := fmt.Sprintf("lookup %s: status %s", e.Addr, strings.TrimSpace(e.Status))
	switch {
	case e.Detail != "":
		msg += ": " + e.Detail
	case e.Snippet != "":
		msg += ": " + e.Snippet
	}
	return msg
}

func newHTTPError(addr string, resp *http.Response, body []byte) error {
	h := &HTTPError{
		Addr:       addr,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
	}
	if h.Status == "" {
		h.Status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	var env errorEnvelope
	if len(body) > 0 && json.Unmarshal(body, &env) == nil && env.Detail != "" {
		h.Detail = strings.TrimSpace(env.Detail)
		return h
	}
	h.Snippet = snippet(body)
	return h
}

// snippet returns a single-line, truncated rendition of a response body.
func snippet(body []byte) string {
	const max = 128
	b := body
	if len(b) > max {
		b = b[:max]
	}
	s := strings.ReplaceAll(string(b), "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if len(body) > max {
		return s + "..."
	}
	return s
}
