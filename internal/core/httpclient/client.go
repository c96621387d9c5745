package httpclient

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"shipment-relay/internal/core/logger"
	"shipment-relay/internal/core/proxy"

	"go.uber.org/zap"
)

// LoggingRoundTripper captures request details for debugging.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
	// Name identifies the remote system in log lines (e.g., shopify, inpost).
	Name string
}

// RoundTrip executes the request and logs details.
// Query strings are left out of the logged URL since they may carry order names.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	log := logger.Get().With(
		zap.String("remote", lrt.Name),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
	)

	log.Debug("HTTP Request Started")

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		log.Error("HTTP Request Failed",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	log.Debug("HTTP Request Completed",
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// NewClient returns an http.Client with logging middleware for the named remote.
// When the proxy settings are enabled every request is routed through it.
func NewClient(name string, timeout time.Duration, proxySettings proxy.Settings) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if proxySettings.HasProxy() {
		proxyURL, err := url.Parse(proxySettings.FullURL())
		if err != nil {
			return nil, fmt.Errorf("invalid proxy settings: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &http.Client{
		Transport: &LoggingRoundTripper{
			Proxied: transport,
			Name:    name,
		},
		Timeout: timeout,
	}, nil
}
