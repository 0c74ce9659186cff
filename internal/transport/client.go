package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// maxRedirects is the redirect limit. IIIF servers commonly redirect from
// http to https and from a short id to the canonical manifest URL.
const maxRedirects = 10

// ErrInvalidProxyAddress is returned when the proxy is neither "host:port"
// nor a socks5:// URL.
var ErrInvalidProxyAddress = errors.New("invalid proxy address: expected host:port or socks5://host:port")

// HeaderProvider supplies the extra cookie and headers sent to a host.
type HeaderProvider interface {
	HeadersFor(host string) (cookie string, headers map[string]string)
}

type options struct {
	proxyAddress string
	timeout      time.Duration
	headers      HeaderProvider
}

// Option configures the client built by NewHTTPClient.
type Option func(*options)

// WithProxy routes every connection through the SOCKS5 proxy at address.
// An empty address means a direct connection.
func WithProxy(address string) Option {
	return func(o *options) {
		o.proxyAddress = address
	}
}

// WithTimeout sets the whole-request timeout. Zero means no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithHeaders injects provider's headers into every request, including
// requests issued while following redirects.
func WithHeaders(provider HeaderProvider) Option {
	return func(o *options) {
		o.headers = provider
	}
}

// NewHTTPClient creates the client used by the fetcher.
func NewHTTPClient(opts ...Option) (*http.Client, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return nil, errors.New("unexpected default transport type")
	}
	transport := base.Clone()

	if o.proxyAddress != "" {
		dialer, err := socksDialer(o.proxyAddress)
		if err != nil {
			return nil, err
		}
		transport.Proxy = nil
		transport.DialContext = dialContext(dialer)
	}

	var rt http.RoundTripper = transport
	if o.headers != nil {
		rt = &headerInjectingTransport{base: transport, provider: o.headers}
	}

	return &http.Client{
		Transport: rt,
		Timeout:   o.timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}, nil
}

// socksDialer accepts "host:port" or a socks5:// URL, the latter allowing
// credentials.
func socksDialer(address string) (proxy.Dialer, error) {
	if strings.Contains(address, "://") {
		u, err := url.Parse(address)
		if err != nil || u.Scheme != "socks5" || !isValidProxyAddress(u.Host) {
			return nil, ErrInvalidProxyAddress
		}
		dialer, err := proxy.FromURL(u, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		return dialer, nil
	}

	if !isValidProxyAddress(address) {
		return nil, ErrInvalidProxyAddress
	}
	dialer, err := proxy.SOCKS5("tcp", address, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}
	return dialer, nil
}

// dialContext adapts a proxy.Dialer to http.Transport.DialContext.
func dialContext(dialer proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := dialer.(proxy.ContextDialer); ok {
		return cd.DialContext
	}

	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		type dialResult struct {
			conn net.Conn
			err  error
		}
		resultCh := make(chan dialResult, 1)

		go func() {
			conn, err := dialer.Dial(network, addr)
			resultCh <- dialResult{conn, err}
		}()

		select {
		case result := <-resultCh:
			return result.conn, result.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// isValidProxyAddress checks for "host:port" with a port in 1-65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}

// headerInjectingTransport adds the provider's cookie and headers to every request.
type headerInjectingTransport struct {
	base     http.RoundTripper
	provider HeaderProvider
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	cookie, headers := t.provider.HeadersFor(req.URL.Hostname())
	if cookie == "" && len(headers) == 0 {
		return t.base.RoundTrip(req)
	}

	clone := req.Clone(req.Context())
	if cookie != "" {
		if existing := clone.Header.Get("Cookie"); existing != "" {
			clone.Header.Set("Cookie", existing+"; "+cookie)
		} else {
			clone.Header.Set("Cookie", cookie)
		}
	}
	for key, value := range headers {
		clone.Header.Set(key, value)
	}

	return t.base.RoundTrip(clone)
}
