// Package http provides the shared outbound HTTP client.
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient returns a client for upstream market data calls.
//
// http.DefaultClient has no timeout, so every outbound call goes through this
// client. The whole-request timeout comes from the caller; dial, TLS and
// response-header phases get their own shorter limits so a stalled upstream
// fails fast enough for the chat user to get an answer.
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   10, // 接続先はほぼPolygonのみ
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
