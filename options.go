package cardpointe

import (
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	DefaultHost      = "https://{site}.cardconnect.com"
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "cardpointe-go"
)

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Options struct {
	HTTPClient     HTTPDoer
	Timeout        time.Duration
	Logger         *slog.Logger
	Host           string
	UserAgent      string
	CheckResponses bool
}

type Option func(*Options)

func WithHTTPClient(client HTTPDoer) Option {
	return func(o *Options) {
		o.HTTPClient = client
	}
}

// WithTimeout sets the timeout of the default HTTP client. It has no effect
// when WithHTTPClient is used.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithHost overrides the API host. "{site}" is replaced by the credentials'
// site.
func WithHost(host string) Option {
	return func(o *Options) {
		o.Host = host
	}
}

func WithUserAgent(ua string) Option {
	return func(o *Options) {
		o.UserAgent = ua
	}
}

// WithResponseChecks turns declined or failed business responses into
// *ResponseError. Without it, every 2xx body is returned as is.
func WithResponseChecks() Option {
	return func(o *Options) {
		o.CheckResponses = true
	}
}

func NewOptions(opts ...Option) Options {
	o := Options{
		Timeout:   DefaultTimeout,
		Host:      DefaultHost,
		UserAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: o.Timeout}
	}
	return o
}
