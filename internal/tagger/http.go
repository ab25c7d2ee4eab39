package tagger

import (
	"net/http"
	"net/url"
	"time"
)

// NewHTTPClient creates the client used by HTTP-based taggers
func NewHTTPClient(timeout time.Duration, httpProxy, httpsProxy string) *http.Client {
	if timeout == 0 {
		timeout = 60 * time.Second // Kkma is slow on long speeches
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: newProxyFunc(httpProxy, httpsProxy),
		},
	}
}

// newProxyFunc routes requests through the configured proxies and falls
// back to HTTP_PROXY/HTTPS_PROXY/NO_PROXY from the environment
func newProxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
