// Package netx provides network reachability probing for the connectivity
// monitor.
package netx

import (
	"context"
	"net/http"
	"time"
)

const defaultProbeTimeout = 3 * time.Second

// Prober checks whether the remote store is reachable. Any HTTP response,
// including a 4xx, counts as "online": the probe asks about connectivity,
// not authorization.
type Prober struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

func NewProber(url string) *Prober {
	return &Prober{
		url:     url,
		client:  &http.Client{},
		timeout: defaultProbeTimeout,
	}
}

// Online issues a HEAD request against the probe URL and reports whether any
// response came back before the timeout.
func (p *Prober) Online(ctx context.Context) bool {
	if p.url == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.url, nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()

	return true
}
