/*
Package lookup implements a client for per-address lookup services, such as
Shodan's InternetDB, that are keyed by IPv4 address and answer with some
structured (JSON) data about the address.

A [Client] carries out exactly one HTTP GET request per lookup, there are no
retries. The result of a lookup is classified into one of three outcomes:

  - [types.Found] when the service answered with 2xx and a well-formed JSON
    body; the raw body is passed on as the payload.
  - [types.NotFound] when the service answered with 404. This is the expected
    “no data about this address” answer and thus not an error.
  - [types.Failed] in all other cases, such as transport errors, timeouts,
    other HTTP status codes, or malformed bodies. The cause is returned
    alongside, with HTTP status failures being reported as [HTTPError].

# Usage

	client := lookup.New(
	    lookup.WithTimeout(10*time.Second),
	    lookup.WithRateLimit(1),
	)
	res := client.Lookup(ctx, "8.8.8.8")
	switch res.Outcome {
	case types.Found:
	    info, _ := lookup.ParseHostInfo(res.Data)
	    // ...
	}

Clients are safe for concurrent use by multiple goroutines. When a rate limit
has been set, it is shared by all goroutines using the same client.
*/
package lookup
