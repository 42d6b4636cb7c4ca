package index

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/wheelhouse-labs/wheelhouse/internal/branding"
)

// DefaultBaseURL is the public PyPI JSON API.
const DefaultBaseURL = "https://pypi.org/pypi"

// DefaultTimeout bounds a single lookup.
const DefaultTimeout = 15 * time.Second

// Availability is the outcome of a lookup.
type Availability int

const (
	// Unknown means the index could not confirm either way.
	Unknown Availability = iota
	// Found means the index knows the package.
	Found
	// NotFound means the index answered that the package does not exist.
	NotFound
)

func (a Availability) String() string {
	switch a {
	case Found:
		return "found"
	case NotFound:
		return "not found"
	default:
		return "unknown"
	}
}

// Release is the subset of the JSON metadata we log.
type Release struct {
	Info struct {
		Name    string `json:"name"`
		Version string `json:"version"`
		Summary string `json:"summary"`
	} `json:"info"`
}

// Checker performs availability lookups. It never retries.
type Checker struct {
	client  *resty.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithHTTPClient sets the underlying HTTP client (useful for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Checker) { c.client = resty.NewWithClient(hc) }
}

// WithBaseURL points the checker at a mirror.
func WithBaseURL(u string) Option {
	return func(c *Checker) { c.baseURL = u }
}

// WithTimeout bounds each lookup.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) { c.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Checker) { c.logger = l }
}

// New returns a Checker for the public index unless overridden.
func New(opts ...Option) *Checker {
	c := &Checker{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = resty.New()
	}
	c.logger = c.logger.With(zap.String("component", "index"))
	c.client.
		SetBaseURL(c.baseURL).
		SetTimeout(c.timeout).
		SetRetryCount(0).
		SetLogger(c.logger.Sugar()).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", branding.CLIName()+"-index")
	return c
}

// Exists looks the package up once. Transport errors and unexpected statuses
// yield Unknown; they are logged, never returned.
func (c *Checker) Exists(ctx context.Context, name string) Availability {
	log := c.logger.With(zap.String("package", name))

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("name", name).
		Get("/{name}/json")
	if err != nil {
		log.Warn("index lookup failed", zap.Error(err))
		return Unknown
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		// The status alone decides; metadata is only logged when it decodes.
		var rel Release
		if err := json.Unmarshal(resp.Body(), &rel); err != nil {
			log.Debug("package found, metadata unreadable", zap.Error(err))
			return Found
		}
		log.Debug("package found",
			zap.String("latest", rel.Info.Version),
			zap.String("summary", rel.Info.Summary))
		return Found
	case http.StatusNotFound:
		log.Info("package not found on index")
		return NotFound
	default:
		log.Warn("unexpected index status", zap.Int("status", resp.StatusCode()))
		return Unknown
	}
}
