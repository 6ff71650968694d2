/*
Package dnsworker implements a simple limiting DNS client-request execution
pool. addrdig uses [Pool] to turn host names given on the command line into IPv4
address entities before looking them up.

Usage

	dnsclnt := dns.Client{}
	workers, err := dnsworker.New(
	    context.Background(),
	    4,                    // number of parallel DNS connections and thus workers
	    &dnsclnt,             // DNS client
	    "127.0.0.1:53",       // address of server/resolver
	)
	workers.ResolveIPv4(ctx,
	    "foobar.example.org",
	    func(addrs []string, err error){
	        // do something with addrs, unless there's an error reported
	    })
	workers.StopWait()

# Acknowledgements

Under its hood, [Pool] leverages [gammazero/workerpool] as the limiting
goroutine pool.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
*/
package dnsworker
