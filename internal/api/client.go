package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AbdulWasayUl/go-weather-logger/internal/logger"
)

const (
	DefaultTimeout = 10 * time.Second
	unitsMetric    = "metric"
)

// RawResponse is the decoded weather payload, left uninterpreted.
type RawResponse map[string]interface{}

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a client for the endpoint at baseURL. A non-positive
// timeout falls back to DefaultTimeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

// Fetch issues exactly one GET for the current weather in city. It does not
// retry and does not cache.
func (c *Client) Fetch(ctx context.Context, city string) (RawResponse, error) {
	reqURL, err := c.buildURL(city)
	if err != nil {
		return nil, &FetchError{Kind: Transport, Detail: "invalid endpoint", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &FetchError{Kind: Transport, Detail: "failed to create request", Err: err}
	}
	req.Header.Set("Accept", "application/json")

	logger.Debug("Making request to %s for city %q", c.baseURL, city)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		cause := stripURL(err)
		if isTimeout(err) {
			return nil, &FetchError{Kind: Timeout, Detail: fmt.Sprintf("no response within %s", c.httpClient.Timeout), Err: cause}
		}
		return nil, &FetchError{Kind: Transport, Detail: c.redact(cause.Error()), Err: cause}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, &FetchError{Kind: Timeout, Detail: "timed out reading response body", Err: err}
		}
		return nil, &FetchError{Kind: Transport, Detail: "failed to read response body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Error("API returned status code %d. Body: %s", resp.StatusCode, string(body))
		detail := "API returned non-OK status: " + resp.Status
		if msg := errorMessage(body); msg != "" {
			detail += ": " + msg
		}
		return nil, &FetchError{Kind: Transport, Detail: detail}
	}

	data, err := decode(body)
	if err != nil {
		return nil, &FetchError{Kind: Decode, Detail: err.Error(), Err: err}
	}
	return data, nil
}

func (c *Client) buildURL(city string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", unitsMetric)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// decode keeps numbers as json.Number so the payload re-serializes verbatim.
func decode(body []byte) (RawResponse, error) {
	var data RawResponse
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse weather response: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("failed to parse weather response: unexpected data after JSON object")
	}
	if data == nil {
		return nil, errors.New("failed to parse weather response: body is not a JSON object")
	}
	return data, nil
}

func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Message
}

// stripURL drops the *url.Error wrapper, whose message repeats the request URL
// and with it the appid query parameter.
func stripURL(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		return ue.Err
	}
	return err
}

func (c *Client) redact(s string) string {
	if c.apiKey == "" {
		return s
	}
	s = strings.ReplaceAll(s, url.QueryEscape(c.apiKey), "REDACTED")
	return strings.ReplaceAll(s, c.apiKey, "REDACTED")
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
