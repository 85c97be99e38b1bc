package dnsbench

import (
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_success(t *testing.T) {
	s := NewServer(func(w dns.ResponseWriter, r *dns.Msg) {
		ret := new(dns.Msg)
		ret.SetReply(r)
		ret.Answer = append(ret.Answer, A("example.org. IN A 127.0.0.1"))
		w.WriteMsg(ret)
	})
	defer s.Close()

	msg := buildQuery("example.org", dns.TypeA, false)
	res := query(s.Addr, msg, time.Second)

	require.Equal(t, OutcomeOK, res.Outcome)
	assert.True(t, res.Validated)
	assert.True(t, res.HasARecords)
	assert.Equal(t, dns.RcodeSuccess, res.Rcode)
	assert.Greater(t, res.LatencyMs, 0.0)
}

func TestQuery_nxdomain(t *testing.T) {
	s := NewServer(func(w dns.ResponseWriter, r *dns.Msg) {
		ret := new(dns.Msg)
		ret.SetRcode(r, dns.RcodeNameError)
		w.WriteMsg(ret)
	})
	defer s.Close()

	msg := buildQuery("nxdomain-test-0001.invalid", dns.TypeA, false)
	res := query(s.Addr, msg, time.Second)

	require.Equal(t, OutcomeOK, res.Outcome)
	assert.True(t, res.Validated)
	assert.False(t, res.HasARecords)
	assert.Equal(t, dns.RcodeNameError, res.Rcode)
}

func TestQuery_timeout(t *testing.T) {
	s := NewServer(func(dns.ResponseWriter, *dns.Msg) {
		// swallow the query
	})
	defer s.Close()

	timeout := 200 * time.Millisecond
	msg := buildQuery("example.org", dns.TypeA, false)
	res := query(s.Addr, msg, timeout)

	require.Equal(t, OutcomeTimeout, res.Outcome)
	assert.Equal(t, durationMs(timeout), res.LatencyMs)
}

func TestQuery_idMismatch(t *testing.T) {
	s := NewServer(func(w dns.ResponseWriter, r *dns.Msg) {
		ret := new(dns.Msg)
		ret.SetReply(r)
		ret.Id = r.Id + 1
		w.WriteMsg(ret)
	})
	defer s.Close()

	msg := buildQuery("example.org", dns.TypeA, false)
	res := query(s.Addr, msg, time.Second)

	require.Equal(t, OutcomeError, res.Outcome)
	assert.Equal(t, ErrIDMismatch, res.Kind)
}

func TestQuery_truncated(t *testing.T) {
	s := NewServer(func(w dns.ResponseWriter, r *dns.Msg) {
		ret := new(dns.Msg)
		ret.SetReply(r)
		ret.Truncated = true
		w.WriteMsg(ret)
	})
	defer s.Close()

	msg := buildQuery("example.org", dns.TypeA, false)
	res := query(s.Addr, msg, time.Second)

	require.Equal(t, OutcomeError, res.Outcome)
	assert.Equal(t, ErrTruncated, res.Kind)
}

func TestQuery_badRcode(t *testing.T) {
	s := NewServer(func(w dns.ResponseWriter, r *dns.Msg) {
		ret := new(dns.Msg)
		ret.SetRcode(r, dns.RcodeServerFailure)
		w.WriteMsg(ret)
	})
	defer s.Close()

	msg := buildQuery("example.org", dns.TypeA, false)
	res := query(s.Addr, msg, time.Second)

	require.Equal(t, OutcomeError, res.Outcome)
	assert.Equal(t, ErrBadRcode, res.Kind)
}

func TestQuery_socketError(t *testing.T) {
	msg := buildQuery("example.org", dns.TypeA, false)
	res := query("unresolvable.invalid:53", msg, time.Second)

	require.Equal(t, OutcomeError, res.Outcome)
	assert.Equal(t, ErrSocket, res.Kind)
	assert.Error(t, res.Err)
}
