// Package pickupapi is the HTTP client for the pickup coordination
// backend. The backend owns record identity and status; this package only
// moves JSON and reports typed HTTP failures for the sync layer to
// classify.
package pickupapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mealbridge/mealbridge/internal/pickup"
)

// Store defines the backend operations the sync engine consumes.
// Implemented by *Client; tests substitute fakes.
type Store interface {
	FetchAvailable(ctx context.Context) ([]pickup.Record, error)
	FetchOwned(ctx context.Context, userID string) ([]pickup.Record, error)
	FetchCompleted(ctx context.Context) ([]pickup.Record, error)
	FetchPending(ctx context.Context, userID string) ([]pickup.Record, error)
	FetchCart(ctx context.Context, userID string) ([]pickup.Record, error)
	UpdateStatus(ctx context.Context, id int64, status pickup.Status) (pickup.Record, error)
	AddFood(ctx context.Context, rec pickup.Record) (pickup.Record, error)
	DeleteFood(ctx context.Context, id int64) error
	RequestPickup(ctx context.Context, id int64) error
}

// Ensure Client implements Store at compile time.
var _ Store = (*Client)(nil)

// Client talks to the pickup backend HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	clientID  string
}

const (
	defaultAPIBind   = "127.0.0.1:8080"
	defaultUserAgent = "mealbridge/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client using the provided apiBind host:port value.
// Each client carries a stable session id so the backend can correlate
// retried requests.
func NewClient(apiBind string) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		clientID:  uuid.NewString(),
	}, nil
}

// FetchAvailable retrieves records receivers may still claim or advance
// (status Requested, Accepted, or Person on the Way).
func (c *Client) FetchAvailable(ctx context.Context) ([]pickup.Record, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var records []pickup.Record
	if err := c.do(ctx, http.MethodGet, "/api/pickup/available", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FetchOwned retrieves every record owned by the given donor, any status.
func (c *Client) FetchOwned(ctx context.Context, userID string) ([]pickup.Record, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var records []pickup.Record
	rel := &url.URL{Path: "/api/pickup/status", RawQuery: userQuery(userID)}
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FetchCompleted retrieves globally visible completed records.
func (c *Client) FetchCompleted(ctx context.Context) ([]pickup.Record, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var records []pickup.Record
	if err := c.do(ctx, http.MethodGet, "/api/pickup/completed", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FetchPending retrieves the donor's listed-but-unclaimed food items.
func (c *Client) FetchPending(ctx context.Context, userID string) ([]pickup.Record, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var records []pickup.Record
	rel := &url.URL{Path: "/api/food/pending", RawQuery: userQuery(userID)}
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FetchCart retrieves the donor's cart of drafted food items.
func (c *Client) FetchCart(ctx context.Context, userID string) ([]pickup.Record, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var records []pickup.Record
	rel := &url.URL{Path: "/api/food/cart", RawQuery: userQuery(userID)}
	if err := c.doURL(ctx, http.MethodGet, rel, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// UpdateStatus attempts a lifecycle transition. The backend enforces
// single-claimant authority: a stale assumption comes back as a 409.
func (c *Client) UpdateStatus(ctx context.Context, id int64, status pickup.Status) (pickup.Record, error) {
	if c == nil {
		return pickup.Record{}, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("status", string(status))
	rel := &url.URL{Path: "/api/pickup/" + strconv.FormatInt(id, 10), RawQuery: values.Encode()}
	var updated pickup.Record
	if err := c.doURL(ctx, http.MethodPut, rel, nil, &updated); err != nil {
		return pickup.Record{}, err
	}
	return updated, nil
}

// AddFood submits a new donation listing.
func (c *Client) AddFood(ctx context.Context, rec pickup.Record) (pickup.Record, error) {
	if c == nil {
		return pickup.Record{}, fmt.Errorf("client is nil")
	}
	var created pickup.Record
	if err := c.do(ctx, http.MethodPost, "/api/food/add", rec, &created); err != nil {
		return pickup.Record{}, err
	}
	return created, nil
}

// DeleteFood removes a drafted donation from the donor's cart.
func (c *Client) DeleteFood(ctx context.Context, id int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodDelete, "/api/food/delete/"+strconv.FormatInt(id, 10), nil, nil)
}

// RequestPickup moves a cart item into the pickup workflow at Requested.
func (c *Client) RequestPickup(ctx context.Context, id int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("status", string(pickup.StatusRequested))
	rel := &url.URL{Path: "/api/food/pickup/" + strconv.FormatInt(id, 10), RawQuery: values.Encode()}
	return c.doURL(ctx, http.MethodPut, rel, nil, nil)
}

// StatusError reports a non-2xx backend response.
type StatusError struct {
	Code     int
	Endpoint string
	Message  string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Endpoint, e.Code, e.Message)
	}
	return fmt.Sprintf("api %s returned status %d", e.Endpoint, e.Code)
}

// IsConflict reports whether the backend rejected a transition because the
// record's status no longer matched the client's assumption.
func (e *StatusError) IsConflict() bool {
	return e.Code == http.StatusConflict
}

func userQuery(userID string) string {
	values := url.Values{}
	values.Set("userId", userID)
	return values.Encode()
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, rel, body, dest)
}

func (c *Client) doURL(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Client-ID", c.clientID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		message, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{
			Code:     resp.StatusCode,
			Endpoint: rel.Path,
			Message:  strings.TrimSpace(string(message)),
		}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		// An empty 2xx body is an acknowledgement, not a failure.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
