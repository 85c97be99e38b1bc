package dnsbench

import (
	"errors"
	"net"
	"time"

	"github.com/miekg/dns"
)

// query sends msg to addr over a fresh connected UDP socket and awaits a
// single datagram or the timeout. The connected socket makes the kernel drop
// datagrams from any other source, so whatever arrives came from the
// resolver. The socket is released before returning on every path.
func query(addr string, msg *dns.Msg, timeout time.Duration) QueryResult {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return QueryResult{Outcome: OutcomeError, Kind: ErrSocket, Err: err}
	}
	co := &dns.Conn{Conn: conn, UDPSize: edns0BufferSize}
	defer co.Close()

	start := time.Now()
	co.SetWriteDeadline(start.Add(timeout))
	if err := co.WriteMsg(msg); err != nil {
		return QueryResult{Outcome: OutcomeError, Kind: ErrSocket, Err: err}
	}

	co.SetReadDeadline(start.Add(timeout))
	resp, err := co.ReadMsg()
	elapsed := time.Since(start)
	if err != nil {
		var nerr net.Error
		if errors.As(err, &nerr) && nerr.Timeout() {
			return QueryResult{Outcome: OutcomeTimeout, LatencyMs: durationMs(timeout)}
		}
		kind := ErrMalformed
		var operr *net.OpError
		if errors.As(err, &operr) {
			kind = ErrSocket
		}
		return QueryResult{Outcome: OutcomeError, Kind: kind, Err: err, LatencyMs: durationMs(elapsed)}
	}

	kind, hasA := validateResponse(msg, resp)
	if kind != ErrNone {
		return QueryResult{Outcome: OutcomeError, Kind: kind, Rcode: resp.Rcode, LatencyMs: durationMs(elapsed)}
	}
	return QueryResult{
		Outcome:     OutcomeOK,
		LatencyMs:   durationMs(elapsed),
		Rcode:       resp.Rcode,
		Validated:   true,
		HasARecords: hasA,
	}
}

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
