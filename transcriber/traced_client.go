package transcriber

import (
	"crypto/tls"
	"io"
	"net/http"
	"net/http/httptrace"
	"time"
)

const requestTimeout = 30 * time.Second

// TracedClient posts uploads and records the phases of each request.
type TracedClient struct {
	client *http.Client
}

func NewTracedClient() *TracedClient {
	return &TracedClient{
		client: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
				ForceAttemptHTTP2:   true,
			},
		},
	}
}

type TracedResponse struct {
	Body       []byte
	StatusCode int
	Header     http.Header
	Metrics    *NetworkMetrics
}

// phases collects timestamps from httptrace callbacks.
type phases struct {
	m         NetworkMetrics
	getConn   time.Time
	gotConn   time.Time
	tlsStart  time.Time
	wrote     time.Time
	firstByte time.Time
}

func (p *phases) trace() *httptrace.ClientTrace {
	return &httptrace.ClientTrace{
		GetConn: func(string) { p.getConn = time.Now() },
		GotConn: func(info httptrace.GotConnInfo) {
			p.gotConn = time.Now()
			p.m.Connect = p.gotConn.Sub(p.getConn)
			p.m.ConnReused = info.Reused
		},
		TLSHandshakeStart: func() { p.tlsStart = time.Now() },
		TLSHandshakeDone: func(cs tls.ConnectionState, _ error) {
			p.m.TLS = time.Since(p.tlsStart)
			p.m.TLSProtocol = tls.VersionName(cs.Version)
		},
		WroteRequest: func(httptrace.WroteRequestInfo) {
			p.wrote = time.Now()
			p.m.Upload = p.wrote.Sub(p.gotConn)
		},
		GotFirstResponseByte: func() {
			p.firstByte = time.Now()
			p.m.TTFB = p.firstByte.Sub(p.wrote)
		},
	}
}

func (c *TracedClient) Do(req *http.Request) (*TracedResponse, error) {
	var p phases
	req = req.WithContext(httptrace.WithClientTrace(req.Context(), p.trace()))
	start := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	p.m.Download = time.Since(p.firstByte)
	p.m.Total = time.Since(start)

	return &TracedResponse{
		Body:       body,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Metrics:    &p.m,
	}, nil
}

// WarmConnection opens a connection to url so the first upload skips the
// handshake. It returns the TLS handshake time, or 0 on failure.
func (c *TracedClient) WarmConnection(url string) time.Duration {
	var p phases
	req, err := http.NewRequest(http.MethodHead, url, nil)
	if err != nil {
		return 0
	}
	req = req.WithContext(httptrace.WithClientTrace(req.Context(), p.trace()))
	resp, err := c.client.Do(req)
	if err != nil {
		return 0
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return p.m.TLS
}

// Warm pre-connects to the provider's endpoint.
func (b *baseTranscriber) Warm() time.Duration {
	return b.client.WarmConnection(b.apiURL)
}
