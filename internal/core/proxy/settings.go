package proxy

import (
	"fmt"
	"net/url"
)

// Settings contains the outbound proxy used by the API clients.
type Settings struct {
	Enabled  bool
	Hostname string
	Port     int
	Username string
	Password string
}

// HasProxy returns true if proxy is enabled and configured.
func (p Settings) HasProxy() bool {
	return p.Enabled && p.Hostname != "" && p.Port > 0
}

// HostPort returns the proxy URL without credentials (e.g., "http://proxy.local:3128").
func (p Settings) HostPort() string {
	if !p.HasProxy() {
		return ""
	}
	return fmt.Sprintf("http://%s:%d", p.Hostname, p.Port)
}

// FullURL returns the proxy URL including credentials when both are set.
// Credentials are escaped so passwords with reserved characters survive parsing.
func (p Settings) FullURL() string {
	if !p.HasProxy() {
		return ""
	}
	if p.Username != "" && p.Password != "" {
		u := url.URL{
			Scheme: "http",
			User:   url.UserPassword(p.Username, p.Password),
			Host:   fmt.Sprintf("%s:%d", p.Hostname, p.Port),
		}
		return u.String()
	}
	return p.HostPort()
}
