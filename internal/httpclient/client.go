package httpclient

import (
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds a single model request. Image generation at 2K
	// routinely takes well over a minute, so the ceiling is generous.
	DefaultTimeout = 10 * time.Minute
	// Transport tuning for stable, long-lived connections.
	MaxIdleConns          = 100
	MaxIdleConnsPerHost   = 20
	IdleConnTimeout       = 120 * time.Second
	TLSHandshakeTimeout   = 30 * time.Second
	ExpectContinueTimeout = 2 * time.Second
	ResponseHeaderTimeout = 2 * time.Minute
)

// NewTransport returns the tuned transport shared by object-store clients
// that accept a custom round tripper.
func NewTransport() *http.Transport {
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          MaxIdleConns,
		MaxIdleConnsPerHost:   MaxIdleConnsPerHost,
		IdleConnTimeout:       IdleConnTimeout,
		TLSHandshakeTimeout:   TLSHandshakeTimeout,
		ExpectContinueTimeout: ExpectContinueTimeout,
		ResponseHeaderTimeout: ResponseHeaderTimeout,
	}
}
