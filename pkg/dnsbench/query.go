package dnsbench

import (
	"strings"

	"github.com/miekg/dns"
)

// buildQuery builds a standard recursive query for qname with a random
// transaction id. When dnssec is set, an EDNS0 OPT record advertising a
// 4096-byte payload with the DO bit is appended.
func buildQuery(qname string, qtype uint16, dnssec bool) *dns.Msg {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(qname), qtype)
	if dnssec {
		m.SetEdns0(edns0BufferSize, true)
	}
	return m
}

// validateResponse applies the validation contract to a parsed response:
// txid matches, QR=1, not truncated, the question echoes the query and the
// RCODE is NOERROR or NXDOMAIN. It returns ErrNone and whether the answer
// section carries at least one A record, or the kind of violation.
func validateResponse(req, resp *dns.Msg) (ErrorKind, bool) {
	if resp.Id != req.Id {
		return ErrIDMismatch, false
	}
	if resp.Truncated {
		return ErrTruncated, false
	}
	if !resp.Response {
		return ErrMalformed, false
	}
	if len(resp.Question) != 1 || !questionEchoes(req.Question[0], resp.Question[0]) {
		return ErrQuestionMismatch, false
	}
	if resp.Rcode != dns.RcodeSuccess && resp.Rcode != dns.RcodeNameError {
		return ErrBadRcode, false
	}
	return ErrNone, hasARecords(resp)
}

// questionEchoes compares questions with a case-insensitive owner name.
func questionEchoes(q, r dns.Question) bool {
	return strings.EqualFold(q.Name, r.Name) && q.Qtype == r.Qtype && q.Qclass == r.Qclass
}

func hasARecords(m *dns.Msg) bool {
	for _, rr := range m.Answer {
		if _, ok := rr.(*dns.A); ok {
			return true
		}
	}
	return false
}
