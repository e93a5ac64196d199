package kalaapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// Client talks to the Kala Sahayak artisan service.
type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

func NewClient(baseURL, userAgent string, rps int, maxRetries int) *Client {
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent:  userAgent,
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: maxRetries,
		backoff:    time.Second,
	}
}

// HealthStatus matches GET /health
type HealthStatus struct {
	Service           string `json:"service"`
	LLMInitialized    bool   `json:"llm_initialized"`
	TwilioInitialized bool   `json:"twilio_initialized"`
	ActiveSessions    int    `json:"active_sessions"`
}

type Message struct {
	Message string `json:"message"`
}

type InquiryPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// ProductDetails matches one element of GET /api/products
type ProductDetails struct {
	ID                string          `json:"id,omitempty"`
	ArtisanID         string          `json:"artisan_id"`
	ArtisanName       string          `json:"artisan_name,omitempty"`
	EnhancedImagePath string          `json:"enhanced_image_path"`
	Description       string          `json:"description"`
	Hashtags          []string        `json:"hashtags"`
	Price             decimal.Decimal `json:"price"`
	OriginalNote      string          `json:"original_note"`

	Raw json.RawMessage `json:"-"`
}

type ProductsParams struct {
	Category string
	Limit    int
	Offset   int
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("kala api: unexpected status code: %d", e.StatusCode)
	}
	return fmt.Sprintf("kala api: status %d: %s", e.StatusCode, e.Message)
}

func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var res HealthStatus
	if err := c.do(ctx, http.MethodGet, "/health", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Status(ctx context.Context) (*Message, error) {
	var res Message
	if err := c.do(ctx, http.MethodGet, "/", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) SubmitArtisanInquiry(ctx context.Context, p InquiryPayload) (*Message, error) {
	var res Message
	if err := c.do(ctx, http.MethodPost, "/api/artisan-inquiry", p, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) PublishedProducts(ctx context.Context, p ProductsParams) ([]ProductDetails, error) {
	q := url.Values{}
	if p.Category != "" {
		q.Set("category", p.Category)
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		q.Set("offset", strconv.Itoa(p.Offset))
	}
	path := "/api/products"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var raw []json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	out := make([]ProductDetails, 0, len(raw))
	for i, r := range raw {
		var d ProductDetails
		if err := json.Unmarshal(r, &d); err != nil {
			return nil, errors.Wrapf(err, "decode product %d", i)
		}
		d.Raw = r
		out = append(out, d)
	}
	return out, nil
}

// retryable reports whether a failed attempt may be repeated. Writes are only
// repeated when the server refused them outright.
func retryable(method string, status int) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	return method == http.MethodGet && status >= 500
}

func (c *Client) do(ctx context.Context, method, path string, body, target any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		payload = b
	}

	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1x, 2x, 4x...
			wait := c.backoff * time.Duration(1<<uint(i-1))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		retry, err := c.attempt(ctx, method, path, payload, target)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		lastErr = err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}

func (c *Client) attempt(ctx context.Context, method, path string, payload []byte, target any) (bool, error) {
	var rdr io.Reader
	if payload != nil {
		rdr = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return method == http.MethodGet, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
		return retryable(method, resp.StatusCode), apiErr
	}

	if target == nil {
		return false, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return false, errors.Wrap(err, "decode response")
	}
	return false, nil
}

func errorMessage(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(b) == 0 {
		return ""
	}
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(b, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		return body.Error
	}
	return ""
}
