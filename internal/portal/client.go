package portal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"sjsage522/topicworker/config"
	"sjsage522/topicworker/helpers"
	"sjsage522/topicworker/logger"
	apperrors "sjsage522/topicworker/pkg/errors"
	"sjsage522/topicworker/services/cache"
)

// Client holds an authenticated session with the identity provider and the
// topic registration portal.
type Client struct {
	cfg      *config.Config
	http     *resty.Client
	cacheSvc cache.CacheService
	log      *logger.Logger
}

// NewClient creates a portal client with an empty session.
// cacheSvc may be nil, which disables the rate limit guard.
func NewClient(cfg *config.Config, cacheSvc cache.CacheService) (*Client, error) {
	httpClient, err := helpers.NewSessionClient(cfg.UserAgent, cfg.RequestTimeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		cfg:      cfg,
		http:     httpClient,
		cacheSvc: cacheSvc,
		log:      logger.ForPortal(),
	}, nil
}

// checkRateLimit fails fast while a rate limit block is stored in the cache
func (c *Client) checkRateLimit() error {
	if c.cacheSvc == nil {
		return nil
	}

	value, err := c.cacheSvc.Get(rateLimitKey)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			c.log.Warn().Err(err).Msg("Rate limit cache unavailable")
		}
		return nil
	}

	seconds, _ := strconv.Atoi(string(value))
	return apperrors.NewRateLimit(component, time.Duration(seconds)*time.Second)
}

// blockRequests stores a rate limit block for the configured duration
func (c *Client) blockRequests() {
	if c.cacheSvc == nil {
		return
	}

	seconds := int(c.cfg.RateLimitBlock.Seconds())
	if err := c.cacheSvc.Set(rateLimitKey, []byte(strconv.Itoa(seconds)), c.cfg.RateLimitBlock); err != nil {
		c.log.Warn().Err(err).Msg("Failed to store rate limit block")
	}
}

// get fetches url and returns its UTF-8 body
func (c *Client) get(ctx context.Context, url, action string) (string, error) {
	if err := c.checkRateLimit(); err != nil {
		return "", err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return "", apperrors.NewNetwork(component, "failed to "+action, err)
	}

	return c.readBody(resp, action)
}

// postForm submits a url-encoded form and returns the UTF-8 response body
func (c *Client) postForm(ctx context.Context, url string, form map[string]string, headers map[string]string, action string) (string, error) {
	if err := c.checkRateLimit(); err != nil {
		return "", err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetFormData(form).
		Post(url)
	if err != nil {
		return "", apperrors.NewNetwork(component, "failed to "+action, err)
	}

	return c.readBody(resp, action)
}

func (c *Client) readBody(resp *resty.Response, action string) (string, error) {
	if helpers.IsRateLimited(resp.StatusCode()) {
		c.blockRequests()
		retryAfter := resp.Header().Get("Retry-After")
		c.log.Warn().
			Int("status", resp.StatusCode()).
			Str("retry_after", retryAfter).
			Msg("Portal is rate limiting requests")
		return "", apperrors.NewRateLimit(component, c.cfg.RateLimitBlock)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", apperrors.NewNetwork(component,
			fmt.Sprintf("failed to %s: unexpected status code %d", action, resp.StatusCode()), nil)
	}

	body, err := helpers.DecodeResponse(resp)
	if err != nil {
		return "", apperrors.NewParsing(component, "failed to decode response", err)
	}

	return string(body), nil
}

// sessionExpired reports whether the page asks the user to log in
func (c *Client) sessionExpired(body string) bool {
	return strings.Contains(body, c.cfg.SessionExpiredMarker)
}
