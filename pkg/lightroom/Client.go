package lightroom

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/4kphotoz/website/pkg/metrics"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/oauth2"
)

const (
	DefaultBaseURL = "https://lr.adobe.io/v2"
	DefaultTimeout = 10 * time.Second

	// maxImageBytes bounds a single rendition download.
	maxImageBytes = 32 << 20
)

var (
	ErrNotConfigured = errors.New("photo catalog not configured")
)

/*
StatusError is returned when the catalog API answers with a non-2xx status.
*/
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog request to '%s' returned status %d", e.URL, e.StatusCode)
}

// IsClientError reports whether err is a 4xx answer from the catalog.
func IsClientError(err error) bool {
	var statusErr *StatusError

	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 400 && statusErr.StatusCode < 500
	}

	return false
}

type ClientConfig struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	AccessToken  string
	RefreshToken string
	CatalogID    string
	Timeout      time.Duration
	HTTPClient   *http.Client

	// Breaker settings. Zero values pick sensible defaults.
	BreakerFailureThreshold uint32
	BreakerOpenTimeout      time.Duration
}

/*
Catalog is the subset of the catalog API the gallery needs.
*/
type Catalog interface {
	Configured() bool
	Albums(ctx context.Context) ([]AlbumResource, error)
	AlbumAssets(ctx context.Context, albumID string, limit, offset int) ([]AlbumAssetResource, error)
	Asset(ctx context.Context, assetID string) (AssetResource, error)
	Renditions(ctx context.Context, assetID string) ([]Rendition, error)
	Fetch(ctx context.Context, href string) (Image, error)
}

type Image struct {
	Body        []byte
	ContentType string
}

type response struct {
	body        []byte
	contentType string
}

type Client struct {
	config     ClientConfig
	httpClient *http.Client
	tokens     oauth2.TokenSource
	breaker    *gobreaker.CircuitBreaker[response]
}

func NewClient(config ClientConfig) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	if config.TokenURL == "" {
		config.TokenURL = DefaultTokenURL
	}

	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	if config.BreakerFailureThreshold == 0 {
		config.BreakerFailureThreshold = 5
	}

	if config.BreakerOpenTimeout <= 0 {
		config.BreakerOpenTimeout = 30 * time.Second
	}

	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	threshold := config.BreakerFailureThreshold

	breaker := gobreaker.NewCircuitBreaker[response](gobreaker.Settings{
		Name:        "photo-catalog",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     config.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || IsClientError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker changed state", "name", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		config:     config,
		httpClient: httpClient,
		tokens:     newTokenSource(config, httpClient),
		breaker:    breaker,
	}
}

/*
Configured reports whether the client has a catalog and some way to obtain
an access token.
*/
func (c *Client) Configured() bool {
	return c.config.CatalogID != "" && c.tokens != nil
}

/*
GET /catalogs/{catalog}/albums
*/
func (c *Client) Albums(ctx context.Context) ([]AlbumResource, error) {
	result := resourceList[AlbumResource]{}

	if err := c.getJSON(ctx, c.catalogURL("albums"), &result); err != nil {
		return nil, fmt.Errorf("error listing albums: %w", err)
	}

	return result.Resources, nil
}

/*
GET /catalogs/{catalog}/albums/{albumId}/assets
*/
func (c *Client) AlbumAssets(ctx context.Context, albumID string, limit, offset int) ([]AlbumAssetResource, error) {
	result := resourceList[AlbumAssetResource]{}
	query := url.Values{}

	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}

	u := c.catalogURL("albums", albumID, "assets")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	if err := c.getJSON(ctx, u, &result); err != nil {
		return nil, fmt.Errorf("error listing assets for album '%s': %w", albumID, err)
	}

	return result.Resources, nil
}

/*
GET /catalogs/{catalog}/assets/{assetId}
*/
func (c *Client) Asset(ctx context.Context, assetID string) (AssetResource, error) {
	result := AssetResource{}

	if err := c.getJSON(ctx, c.catalogURL("assets", assetID), &result); err != nil {
		return result, fmt.Errorf("error getting asset '%s': %w", assetID, err)
	}

	return result, nil
}

/*
GET /catalogs/{catalog}/assets/{assetId}/renditions
*/
func (c *Client) Renditions(ctx context.Context, assetID string) ([]Rendition, error) {
	result := resourceList[Rendition]{}

	if err := c.getJSON(ctx, c.catalogURL("assets", assetID, "renditions"), &result); err != nil {
		return nil, fmt.Errorf("error listing renditions for asset '%s': %w", assetID, err)
	}

	return result.Resources, nil
}

/*
Fetch downloads binary rendition data. Relative hrefs are resolved against
the catalog.
*/
func (c *Client) Fetch(ctx context.Context, href string) (Image, error) {
	resp, err := c.get(ctx, c.ResolveHref(href))
	if err != nil {
		return Image{}, fmt.Errorf("error fetching rendition: %w", err)
	}

	contentType := resp.contentType
	if contentType == "" {
		contentType = "image/jpeg"
	}

	return Image{Body: resp.body, ContentType: contentType}, nil
}

func (c *Client) ResolveHref(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}

	return c.catalogURL() + strings.TrimLeft(href, "/")
}

func (c *Client) catalogURL(parts ...string) string {
	escaped := make([]string, 0, len(parts))

	for _, part := range parts {
		escaped = append(escaped, url.PathEscape(part))
	}

	return c.config.BaseURL + "/catalogs/" + url.PathEscape(c.config.CatalogID) + "/" + strings.Join(escaped, "/")
}

func (c *Client) getJSON(ctx context.Context, u string, v any) error {
	resp, err := c.get(ctx, u)
	if err != nil {
		return err
	}

	return ParseResponse(resp.body, v)
}

func (c *Client) get(ctx context.Context, u string) (response, error) {
	if !c.Configured() {
		return response{}, ErrNotConfigured
	}

	resp, err := c.breaker.Execute(func() (response, error) {
		return c.do(ctx, u)
	})

	metrics.RecordCatalogRequest(err)
	return resp, err
}

func (c *Client) do(ctx context.Context, u string) (response, error) {
	var (
		err   error
		token *oauth2.Token
		req   *http.Request
		res   *http.Response
		body  []byte
	)

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	if token, err = c.tokens.Token(); err != nil {
		return response{}, err
	}

	if req, err = http.NewRequestWithContext(ctx, http.MethodGet, u, nil); err != nil {
		return response{}, fmt.Errorf("error building catalog request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("x-api-key", c.config.ClientID)

	if res, err = c.httpClient.Do(req); err != nil {
		return response{}, fmt.Errorf("error calling catalog: %w", err)
	}

	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
		return response{}, &StatusError{URL: u, StatusCode: res.StatusCode}
	}

	if body, err = io.ReadAll(io.LimitReader(res.Body, maxImageBytes)); err != nil {
		return response{}, fmt.Errorf("error reading catalog response: %w", err)
	}

	return response{body: body, contentType: res.Header.Get("Content-Type")}, nil
}
