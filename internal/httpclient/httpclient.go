package httpclient

import (
	"net/http"
	"time"

	"cataloguechat/internal/config"
)

// harvest pages, landing-page scrapes and file downloads all go through the
// same pooled transport so repeated requests to one repository reuse
// connections
var pooledTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// New returns a client on the shared transport with the given overall timeout.
func New(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: pooledTransport,
		Timeout:   timeout,
	}
}
