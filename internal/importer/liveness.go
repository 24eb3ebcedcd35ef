package importer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"time"
)

// Prober checks whether a URL still resolves
type Prober interface {
	Probe(ctx context.Context, url string, timeout time.Duration) LivenessResult
}

// LivenessProbe issues HEAD requests to check that a URL still exists
type LivenessProbe struct {
	client    *http.Client
	userAgent string
}

// NewLivenessProbe creates a probe. A nil client uses a fresh http.Client.
func NewLivenessProbe(client *http.Client, userAgent string) *LivenessProbe {
	if client == nil {
		client = &http.Client{}
	}
	return &LivenessProbe{
		client:    client,
		userAgent: userAgent,
	}
}

// ReasonCancelled is reported when the caller's context ends during a probe
const ReasonCancelled = "Cancelled"

// Probe sends a HEAD request bounded by timeout. It never fails; every
// outcome is described by the returned LivenessResult. If parent is done
// before a response arrives the reason is ReasonCancelled, which says
// nothing about the URL itself.
func (p *LivenessProbe) Probe(parent context.Context, url string, timeout time.Duration) LivenessResult {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return LivenessResult{Reason: "ERR_INVALID_URL"}
	}
	if p.userAgent != "" {
		req.Header.Set("User-Agent", p.userAgent)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		if parent.Err() != nil {
			return LivenessResult{Reason: ReasonCancelled}
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return LivenessResult{Reason: "Timeout"}
		}
		return LivenessResult{Reason: classifyNetworkError(err)}
	}
	resp.Body.Close()

	code := resp.StatusCode
	if code >= 200 && code < 400 {
		return LivenessResult{IsAlive: true, StatusCode: &code, Reason: "OK"}
	}
	return LivenessResult{StatusCode: &code, Reason: fmt.Sprintf("HTTP %d", code)}
}

// classifyNetworkError maps transport failures to short errno-style codes
func classifyNetworkError(err error) string {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return "ETIMEDOUT"
		}
		return "ENOTFOUND"
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return "ECONNREFUSED"
	case errors.Is(err, syscall.ECONNRESET):
		return "ECONNRESET"
	case errors.Is(err, syscall.EHOSTUNREACH):
		return "EHOSTUNREACH"
	case errors.Is(err, syscall.ENETUNREACH):
		return "ENETUNREACH"
	}

	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return "CERT_INVALID"
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "ETIMEDOUT"
	}

	return fmt.Sprintf("%T", rootCause(err))
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

// UncheckedProbe treats every URL as alive
type UncheckedProbe struct{}

func (UncheckedProbe) Probe(context.Context, string, time.Duration) LivenessResult {
	return LivenessResult{IsAlive: true, Reason: "unchecked"}
}
