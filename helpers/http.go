package helpers

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"slices"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"
)

// NewSessionClient creates an HTTP client that keeps cookies between requests
// and sends browser-like headers.
func NewSessionClient(userAgent string, timeout time.Duration) (*resty.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	client := resty.New()
	client.SetCookieJar(jar)
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", userAgent)
	client.SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	client.SetHeader("Accept-Language", "pl-PL,pl;q=0.9,en-US;q=0.8,en;q=0.7")

	return client, nil
}

// ResetSession drops every cookie held by the client
func ResetSession(client *resty.Client) error {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("failed to create cookie jar: %w", err)
	}
	client.SetCookieJar(jar)
	return nil
}

// IsRateLimited reports whether the status code means the server is throttling us
func IsRateLimited(statusCode int) bool {
	return slices.Contains([]int{http.StatusTooManyRequests, 430}, statusCode)
}

// DecodeBody converts a response body to UTF-8 (if needed) based on the
// Content-Type header and the body content.
func DecodeBody(body []byte, contentType string) (io.Reader, error) {
	encoding, name, _ := charset.DetermineEncoding(body, contentType)

	// If already UTF-8, return as is
	if strings.EqualFold(name, "utf-8") {
		return bytes.NewReader(body), nil
	}

	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(body))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, utf8Reader); err != nil {
		return nil, fmt.Errorf("failed to read converted UTF-8 body: %w", err)
	}

	return &buf, nil
}

// DecodeResponse returns the UTF-8 body of a resty response
func DecodeResponse(resp *resty.Response) ([]byte, error) {
	reader, err := DecodeBody(resp.Body(), resp.Header().Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	return io.ReadAll(reader)
}
