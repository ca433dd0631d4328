// Package purldb fetches package metadata from the PurlDB API
// (https://public.purldb.io) and prepares it for display.
package purldb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/s-celles/package-url-viewer/client"
	"github.com/s-celles/package-url-viewer/fetch"
)

const (
	BaseURL            = "https://public.purldb.io"
	APIURL             = BaseURL + "/api/packages/"
	DefaultTimeout     = 10 * time.Second
	DefaultMaxPages    = 5
	MaxVersionsDisplay = 10
)

// Client queries PurlDB. Lookups are cached for the lifetime of the client.
// It is safe for concurrent use.
type Client struct {
	apiURL   string
	timeout  time.Duration
	maxPages int
	fetcher  fetch.FetcherInterface
	logger   *log.Logger
	cache    *cache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another packages endpoint.
func WithBaseURL(apiURL string) Option {
	return func(c *Client) {
		c.apiURL = apiURL
	}
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithMaxPages caps how many result pages FetchVersions follows.
func WithMaxPages(n int) Option {
	return func(c *Client) {
		c.maxPages = n
	}
}

// WithFetcher sets the transport.
func WithFetcher(f fetch.FetcherInterface) Option {
	return func(c *Client) {
		c.fetcher = f
	}
}

// WithLogger sets the logger used for upstream failures.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a PurlDB client for the public instance unless
// configured otherwise.
func NewClient(opts ...Option) *Client {
	c := &Client{
		apiURL:   APIURL,
		timeout:  DefaultTimeout,
		maxPages: DefaultMaxPages,
		cache:    newCache(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.fetcher == nil {
		c.fetcher = fetch.NewCircuitBreakerFetcher(fetch.NewFetcher())
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	return c
}

// PackageURL returns the API URL that looks up purl.
func (c *Client) PackageURL(purl string) string {
	return c.apiURL + "?purl=" + client.EncodeURIComponent(purl)
}

// FetchPackage returns the first PurlDB record for purl, or nil if PurlDB has
// none. Misses and non-OK responses are cached as nil; transport failures
// are returned and not cached.
func (c *Client) FetchPackage(ctx context.Context, purl string) (*Package, error) {
	if pkg, ok := c.cache.getPackage(purl); ok {
		c.logger.Debug("purldb cache hit", "purl", purl)
		return pkg, nil
	}

	var resp Response
	if err := c.getJSON(ctx, c.PackageURL(purl), &resp); err != nil {
		if fetch.IsStatusError(err) {
			c.logger.Warn("purldb lookup failed", "purl", purl, "err", err)
			c.cache.setPackage(purl, nil)
			return nil, nil
		}
		return nil, fmt.Errorf("fetching %s from purldb: %w", purl, err)
	}

	var pkg *Package
	if len(resp.Results) > 0 {
		pkg = &resp.Results[0]
	}
	c.cache.setPackage(purl, pkg)
	return pkg, nil
}

// FetchVersions returns every PurlDB record for a package, following result
// pages up to the configured limit. A non-OK response ends pagination and the
// records gathered so far are returned and cached.
func (c *Client) FetchVersions(ctx context.Context, typ, namespace, name string) ([]Package, error) {
	key := versionsKey(typ, namespace, name)
	if v, ok := c.cache.getVersions(key); ok {
		c.logger.Debug("purldb cache hit", "key", key)
		return v, nil
	}

	params := url.Values{}
	params.Set("type", typ)
	params.Set("name", name)
	if namespace != "" {
		params.Set("namespace", namespace)
	}

	var all []Package
	next := c.apiURL + "?" + params.Encode()
	for pages := 0; next != "" && pages < c.maxPages; pages++ {
		var resp Response
		if err := c.getJSON(ctx, next, &resp); err != nil {
			if fetch.IsStatusError(err) {
				c.logger.Warn("purldb versions lookup failed", "key", key, "page", pages+1, "err", err)
				break
			}
			return nil, fmt.Errorf("fetching versions of %s from purldb: %w", key, err)
		}
		all = append(all, resp.Results...)
		next = resp.Next
	}

	if all == nil {
		all = []Package{}
	}
	c.cache.setVersions(key, all)
	return all, nil
}

// FetchDependencies loads the dependencies listed at depsURL. The endpoint may
// answer with a bare list or a paginated envelope.
func (c *Client) FetchDependencies(ctx context.Context, depsURL string) ([]Dependency, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, depsURL, &raw); err != nil {
		return nil, fmt.Errorf("fetching dependencies: %w", err)
	}
	return decodeDependencies(raw)
}

// Dependencies returns the dependencies of pkg, fetching them when PurlDB
// only gave a URL.
func (c *Client) Dependencies(ctx context.Context, pkg *Package) ([]Dependency, error) {
	if pkg == nil {
		return nil, nil
	}
	if pkg.Dependencies.URL != "" {
		return c.FetchDependencies(ctx, pkg.Dependencies.URL)
	}
	return pkg.Dependencies.Items, nil
}

// ClearCache drops every cached lookup.
func (c *Client) ClearCache() {
	c.cache.clear()
}

func (c *Client) getJSON(ctx context.Context, u string, v any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.logger.Debug("purldb request", "url", u)
	resp, err := c.fetcher.Fetch(ctx, u)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeDependencies(raw json.RawMessage) ([]Dependency, error) {
	var deps []Dependency
	if err := json.Unmarshal(raw, &deps); err == nil {
		return deps, nil
	}

	var envelope struct {
		Results []Dependency `json:"results"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decoding dependencies: %w", err)
	}
	return envelope.Results, nil
}
