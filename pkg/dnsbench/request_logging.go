package dnsbench

import (
	"fmt"
	"log"
	"os"

	"github.com/miekg/dns"
)

// requestLogger writes one line per finished query task to a log file.
type requestLogger struct {
	file   *os.File
	logger *log.Logger
}

func (b *Benchmark) openRequestLog() error {
	if b.RequestLogPath == "" {
		return nil
	}
	f, err := os.OpenFile(b.RequestLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open request log %q: %w", b.RequestLogPath, err)
	}
	b.requestLog = &requestLogger{file: f, logger: log.New(f, "", log.LstdFlags)}
	return nil
}

func (b *Benchmark) closeRequestLog() {
	if b.requestLog != nil {
		_ = b.requestLog.file.Close()
		b.requestLog = nil
	}
}

func (l *requestLogger) log(t task, req *dns.Msg, res QueryResult) {
	outcome := "ok"
	detail := dns.RcodeToString[res.Rcode]
	switch res.Outcome {
	case OutcomeTimeout:
		outcome = "timeout"
		detail = "-"
	case OutcomeError:
		outcome = "error"
		detail = res.Kind.String()
		if res.Err != nil {
			detail = fmt.Sprintf("%s (%v)", res.Kind, res.Err)
		}
	}
	l.logger.Printf("resolver:[%s] set:[%s] round:[%d] reqid:[%d] qname:[%s] qtype:[%s] outcome:[%s] detail:[%s] latency:[%.2fms]",
		t.resolver.Addr, t.set, t.round, req.Id, req.Question[0].Name, dns.TypeToString[t.qtype], outcome, detail, res.LatencyMs)
}
