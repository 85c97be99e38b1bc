package dnsbench

import (
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQuery(t *testing.T) {
	msg := buildQuery("example.com", dns.TypeA, false)

	require.Len(t, msg.Question, 1)
	assert.Equal(t, "example.com.", msg.Question[0].Name)
	assert.Equal(t, dns.TypeA, msg.Question[0].Qtype)
	assert.Equal(t, uint16(dns.ClassINET), msg.Question[0].Qclass)
	assert.True(t, msg.RecursionDesired)
	assert.False(t, msg.Response)
	assert.Nil(t, msg.IsEdns0())
}

func TestBuildQuery_dnssec(t *testing.T) {
	msg := buildQuery("example.com", dns.TypeAAAA, true)

	opt := msg.IsEdns0()
	require.NotNil(t, opt)
	assert.EqualValues(t, edns0BufferSize, opt.UDPSize())
	assert.True(t, opt.Do())
}

func TestBuildQuery_roundTrip(t *testing.T) {
	msg := buildQuery("ExAmPlE.CoM", dns.TypeA, true)

	packed, err := msg.Pack()
	require.NoError(t, err)

	parsed := new(dns.Msg)
	require.NoError(t, parsed.Unpack(packed))

	assert.Equal(t, msg.Id, parsed.Id)
	require.Len(t, parsed.Question, 1)
	assert.True(t, questionEchoes(msg.Question[0], parsed.Question[0]))
	assert.Equal(t, dns.TypeA, parsed.Question[0].Qtype)
	assert.Equal(t, uint16(dns.ClassINET), parsed.Question[0].Qclass)
}

func TestValidateResponse(t *testing.T) {
	req := buildQuery("example.org", dns.TypeA, false)

	reply := func(mutate func(*dns.Msg)) *dns.Msg {
		resp := new(dns.Msg)
		resp.SetReply(req)
		if mutate != nil {
			mutate(resp)
		}
		return resp
	}

	tests := []struct {
		name     string
		resp     *dns.Msg
		wantKind ErrorKind
		wantHasA bool
	}{
		{
			name: "valid answer with A records",
			resp: reply(func(m *dns.Msg) {
				m.Answer = append(m.Answer, A("example.org. IN A 127.0.0.1"))
			}),
			wantKind: ErrNone,
			wantHasA: true,
		},
		{
			name: "valid NXDOMAIN",
			resp: reply(func(m *dns.Msg) {
				m.Rcode = dns.RcodeNameError
			}),
			wantKind: ErrNone,
			wantHasA: false,
		},
		{
			name: "valid answer without A records",
			resp: reply(nil),
			wantKind: ErrNone,
			wantHasA: false,
		},
		{
			name: "case-folded question still echoes",
			resp: reply(func(m *dns.Msg) {
				m.Question[0].Name = "EXAMPLE.ORG."
			}),
			wantKind: ErrNone,
			wantHasA: false,
		},
		{
			name: "transaction id mismatch",
			resp: reply(func(m *dns.Msg) {
				m.Id = req.Id + 1
			}),
			wantKind: ErrIDMismatch,
		},
		{
			name: "truncated response",
			resp: reply(func(m *dns.Msg) {
				m.Truncated = true
			}),
			wantKind: ErrTruncated,
		},
		{
			name: "query instead of response",
			resp: reply(func(m *dns.Msg) {
				m.Response = false
			}),
			wantKind: ErrMalformed,
		},
		{
			name: "question not echoed",
			resp: reply(func(m *dns.Msg) {
				m.Question[0].Name = "other.org."
			}),
			wantKind: ErrQuestionMismatch,
		},
		{
			name: "unexpected rcode",
			resp: reply(func(m *dns.Msg) {
				m.Rcode = dns.RcodeServerFailure
			}),
			wantKind: ErrBadRcode,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, hasA := validateResponse(req, tt.resp)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantHasA, hasA)
		})
	}
}

func TestHasARecords_ignoresOtherTypes(t *testing.T) {
	req := buildQuery("example.org", dns.TypeAAAA, false)
	resp := new(dns.Msg)
	resp.SetReply(req)
	aaaa, err := dns.NewRR("example.org. IN AAAA ::1")
	require.NoError(t, err)
	resp.Answer = append(resp.Answer, aaaa)

	kind, hasA := validateResponse(req, resp)
	assert.Equal(t, ErrNone, kind)
	assert.False(t, hasA)
}
