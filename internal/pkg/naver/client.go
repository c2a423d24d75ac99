package naver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"
)

const (
	defaultBaseURL = "https://openapi.naver.com"
	defaultTimeout = 10 * time.Second
	bookSearchPath = "/v1/search/book.json"
)

// ErrMissingCredentials is returned when the client id or secret is unset
var ErrMissingCredentials = errors.New("Server configuration error: Missing Naver API credentials")

// UpstreamError is a failed call to the Naver API
type UpstreamError struct {
	Msg string
	Err error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Client represents Naver Open API HTTP client.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	http         *http.Client
}

// BookQuery represents book search parameters
type BookQuery struct {
	Query   string
	Display int // 1..100, 10 when zero
	Start   int // 1..1000, 1 when zero
}

// Book is one search hit
type Book struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Image       string `json:"image"`
	Author      string `json:"author"`
	Discount    string `json:"discount"`
	Publisher   string `json:"publisher"`
	PubDate     string `json:"pubdate"`
	ISBN        string `json:"isbn"`
	Description string `json:"description"`
}

// BookSearchResult mirrors the book.json response
type BookSearchResult struct {
	LastBuildDate string `json:"lastBuildDate"`
	Total         int    `json:"total"`
	Start         int    `json:"start"`
	Display       int    `json:"display"`
	Items         []Book `json:"items"`
}

// NewClient creates a new Naver client.
func NewClient(baseURL, clientID, clientSecret string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     strings.TrimSpace(clientID),
		clientSecret: strings.TrimSpace(clientSecret),
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Configured reports whether credentials are present
func (c *Client) Configured() bool {
	return c != nil && c.clientID != "" && c.clientSecret != ""
}

// SearchBooks calls the book search endpoint
func (c *Client) SearchBooks(ctx context.Context, q BookQuery) (*BookSearchResult, error) {
	if !c.Configured() {
		return nil, ErrMissingCredentials
	}

	params := url.Values{}
	params.Set("query", q.Query)
	params.Set("display", strconv.Itoa(clamp(q.Display, 1, 100, 10)))
	params.Set("start", strconv.Itoa(clamp(q.Start, 1, 1000, 1)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+bookSearchPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("naver request error: %w", err)
	}
	req.Header.Set("X-Naver-Client-Id", c.clientID)
	req.Header.Set("X-Naver-Client-Secret", c.clientSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classifyRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if readErr != nil {
			return nil, &UpstreamError{Msg: fmt.Sprintf("naver http error: status=%d body=<failed to read body: %v>", resp.StatusCode, readErr)}
		}
		return nil, &UpstreamError{Msg: fmt.Sprintf("naver http error: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))}
	}

	var result BookSearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &UpstreamError{Msg: "naver decode error", Err: err}
	}
	if result.Items == nil {
		result.Items = []Book{}
	}
	return &result, nil
}

func clamp(v, lo, hi, def int) int {
	if v == 0 {
		return def
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func classifyRequestError(ctx context.Context, err error) error {
	if isTimeoutError(ctx, err) {
		return &UpstreamError{Msg: "naver timeout", Err: err}
	}
	if isNetworkError(err) {
		return &UpstreamError{Msg: "naver network error", Err: err}
	}
	return &UpstreamError{Msg: "naver request error", Err: err}
}

func isTimeoutError(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = urlErr.Err
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH)
}
