package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	apimw "github.com/ricirt/taskboard/internal/api/middleware"
)

const (
	HealthPath = "/api/health/"
	AddPath    = "/api/common/add/"
)

// AddResponse maps the body of GET /api/common/add/.
// TaskID is empty when the body carries no usable task_id, including bodies
// that are not objects at all; Error then usually carries the backend's
// message. Fields of an unexpected type are read leniently, never rejected.
type AddResponse struct {
	TaskID string `json:"task_id"`
	Queued bool   `json:"queued"`
	Error  string `json:"error,omitempty"`
}

// Client talks to the backend over HTTP.
//
// Like a browser fetch, a non-2xx status is not an error: the body is
// decoded whatever the status. Only transport and decode failures are
// returned as errors.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New builds a client for baseURL (e.g. "http://127.0.0.1:8000").
// A zero timeout means requests never time out on their own.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Health fetches the health endpoint and returns the body re-serialized as
// compact JSON, the way a browser prints a parsed value: key order kept,
// numbers and string escapes normalized, the last of duplicate keys wins.
func (c *Client) Health(ctx context.Context) (json.RawMessage, error) {
	body, err := c.get(ctx, HealthPath, nil)
	if err != nil {
		return nil, err
	}

	v, err := parseJSON(body)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return stringify(v), nil
}

// Add asks the backend to queue add(x, y).
func (c *Client) Add(ctx context.Context, x, y int) (*AddResponse, error) {
	query := url.Values{}
	query.Set("x", strconv.Itoa(x))
	query.Set("y", strconv.Itoa(y))

	body, err := c.get(ctx, AddPath, query)
	if err != nil {
		return nil, err
	}

	v, err := parseJSON(body)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return newAddResponse(v), nil
}

func newAddResponse(v any) *AddResponse {
	resp := &AddResponse{}
	obj, ok := v.(*object)
	if !ok {
		return resp
	}

	if id, ok := obj.get("task_id"); ok {
		resp.TaskID = displayText(id)
	}
	if queued, ok := obj.get("queued"); ok {
		resp.Queued, _ = queued.(bool)
	}
	if msg, ok := obj.get("error"); ok && msg != nil {
		if s, isString := msg.(string); isString {
			resp.Error = s
		} else {
			resp.Error = string(stringify(msg))
		}
	}
	return resp
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if id := apimw.GetCorrelationID(ctx); id != "" {
		req.Header.Set(apimw.HeaderCorrelationID, id)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}
