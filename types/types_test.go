// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types_test

import (
	"encoding/json"
	"errors"

	"github.com/siemens/addrdig/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

var _ = Describe("information model", func() {

	DescribeTable("outcome names",
		func(o types.Outcome, name string, final bool) {
			Expect(o.String()).To(Equal(name))
			Expect(o.IsFinal()).To(Equal(final))
			var parsed types.Outcome
			Expect(parsed.UnmarshalText([]byte(name))).To(Succeed())
			Expect(parsed).To(Equal(o))
		},
		Entry("pending", types.Pending, "pending", false),
		Entry("skipped", types.Skipped, "skipped", true),
		Entry("not found", types.NotFound, "notfound", true),
		Entry("failed", types.Failed, "failed", true),
		Entry("found", types.Found, "found", true),
	)

	It("renders unknown outcomes", func() {
		Expect(types.Outcome(42).String()).To(Equal("Outcome(42)"))
		var o types.Outcome
		Expect(o.UnmarshalText([]byte("foobar"))).NotTo(Succeed())
	})

	It("renders records with null data", func() {
		e := types.Entity{Value: "192.0.2.1", Type: types.IPv4Type, IsIP: true}
		Expect(string(Successful(json.Marshal(types.ResultRecord{
			Entity:  &e,
			Outcome: types.Failed,
			Err:     errors.New("kaboom"),
		})))).To(MatchJSON(`{
			"entity": {"value":"192.0.2.1","type":"IPv4","isIP":true},
			"data": null,
			"outcome": "failed",
			"error": "kaboom"
		}`))
	})

	It("renders records with payload", func() {
		e := types.Entity{Value: "192.0.2.1", Type: types.IPv4Type, IsIP: true}
		Expect(string(Successful(json.Marshal([]types.ResultRecord{{
			Entity:  &e,
			Data:    json.RawMessage(`{"ports":[22,80]}`),
			Outcome: types.Found,
		}})))).To(MatchJSON(`[{
			"entity": {"value":"192.0.2.1","type":"IPv4","isIP":true},
			"data": {"ports":[22,80]},
			"outcome": "found"
		}]`))
	})

	It("passes unknown entity fields through", func() {
		const input = `{
			"type": "domain",
			"value": "example.org",
			"isIP": false,
			"isDomain": true,
			"requestContext": {"requestType": "OnDemand"},
			"channels": [1]
		}`
		var e types.Entity
		Expect(json.Unmarshal([]byte(input), &e)).To(Succeed())
		Expect(e.Value).To(Equal("example.org"))
		Expect(e.IsDomain).To(BeTrue())
		Expect(e.Extra).To(HaveLen(2))
		Expect(e.Extra).To(HaveKeyWithValue("channels", BeEquivalentTo(`[1]`)))
		Expect(string(Successful(json.Marshal(e)))).To(MatchJSON(input))
	})

	It("keeps entities without unknown fields lean", func() {
		var e types.Entity
		Expect(json.Unmarshal([]byte(`{"type":"IPv4","value":"192.0.2.1","isIP":true}`), &e)).To(Succeed())
		Expect(e.Extra).To(BeNil())
		Expect(e).To(Equal(types.Entity{Value: "192.0.2.1", Type: types.IPv4Type, IsIP: true}))
	})

	It("doesn't let unknown fields override known ones", func() {
		e := types.Entity{
			Value: "192.0.2.1",
			Type:  types.IPv4Type,
			IsIP:  true,
			Extra: map[string]json.RawMessage{
				"value": json.RawMessage(`"10.0.0.1"`),
				"note":  json.RawMessage(`"hi"`),
			},
		}
		Expect(string(Successful(json.Marshal(e)))).To(MatchJSON(
			`{"value":"192.0.2.1","type":"IPv4","isIP":true,"note":"hi"}`))
	})

	It("sums up skipped entities", func() {
		Expect(types.RunStats{SkippedDuplicate: 2, SkippedIneligible: 3}.Skipped()).To(Equal(5))
	})

})
