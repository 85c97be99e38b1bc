package dnsbench

import (
	"github.com/miekg/dns"
)

// Server represents simple DNS server.
type Server struct {
	Addr  string
	inner *dns.Server
}

// Close shuts down running DNS server instance.
func (s *Server) Close() {
	s.inner.Shutdown()
}

// NewServer creates and starts new UDP DNS server instance.
func NewServer(f dns.HandlerFunc) *Server {
	ch := make(chan bool)
	s := &dns.Server{Net: "udp", Addr: "127.0.0.1:0", NotifyStartedFunc: func() { close(ch) }, Handler: f}

	go func() {
		if err := s.ListenAndServe(); err != nil {
			panic(err)
		}
	}()

	<-ch
	return &Server{Addr: s.PacketConn.LocalAddr().String(), inner: s}
}

func A(rr string) *dns.A { r, _ := dns.NewRR(rr); return r.(*dns.A) }
