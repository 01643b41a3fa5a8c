// Package langflow is the HTTP client for the Langflow flow-execution API.
// It performs at most one outbound call per inbound request and reports every
// failure once, with an explicit category.
package langflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rizvand/scraper-langflow/internal/extract"
)

const (
	runTimeout    = 60 * time.Second
	healthTimeout = 10 * time.Second
	debugTimeout  = 30 * time.Second

	// testMessage is the fixed input sent by TestFlow.
	testMessage = "Hello, this is a test message"
)

// Client talks to a single Langflow instance. The default API key and flow ID
// come from configuration at construction; request-supplied values always win.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	flowID     string
	tweaks     Tweaks
}

func NewClient(baseURL, apiKey, flowID string, tweaks Tweaks) *Client {
	if tweaks == nil {
		tweaks = Tweaks{}
	}
	return &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		flowID:     flowID,
		tweaks:     tweaks,
	}
}

// BaseURL reports the configured Langflow address (echoed by health/debug).
func (c *Client) BaseURL() string { return c.baseURL }

// ResolveFlowID picks the flow to run: request override first, configured
// default second. With neither, the request cannot be served.
func (c *Client) ResolveFlowID(override string) (string, error) {
	if id := strings.TrimSpace(override); id != "" {
		return id, nil
	}
	if id := strings.TrimSpace(c.flowID); id != "" {
		return id, nil
	}
	return "", &Error{
		Kind:    KindNoFlow,
		Message: "No flow_id provided in request and no FLOW_ID environment variable set. Please provide flow_id in the request body.",
	}
}

// headers builds the Langflow request headers. A request-supplied API key
// takes precedence over the configured default.
func (c *Client) headers(userKey string) http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	key := userKey
	if key == "" {
		key = c.apiKey
	}
	if key != "" {
		h.Set("x-api-key", key)
	}
	return h
}

// RawResponse is an upstream response held verbatim for the debug endpoints.
type RawResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k := range h {
		out[k] = h.Get(k)
	}
	return out
}

func (c *Client) do(ctx context.Context, method, url string, headers http.Header, body []byte, timeout time.Duration) (*RawResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, &Error{Kind: KindUnreachable, Message: "could not build Langflow request", Err: err}
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Kind: KindUnreachable, Message: "could not connect to Langflow", Err: err}
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindUnreachable, Message: "could not read Langflow response", Err: err}
	}
	return &RawResponse{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       b,
	}, nil
}

// RunPayload is the request body for a flow run.
type RunPayload struct {
	InputValue string `json:"input_value"`
	OutputType string `json:"output_type"`
	InputType  string `json:"input_type"`
	Tweaks     Tweaks `json:"tweaks"`
}

func (c *Client) runPayload(message string, tweaks Tweaks) RunPayload {
	return RunPayload{
		InputValue: message,
		OutputType: "chat",
		InputType:  "chat",
		Tweaks:     tweaks,
	}
}

func (c *Client) runURL(flowID string) string {
	return fmt.Sprintf("%s/api/v1/run/%s", c.baseURL, flowID)
}

// RunFlow executes the flow with the given message and returns the parsed
// response body. Failures come back as *Error with the matching kind.
func (c *Client) RunFlow(ctx context.Context, flowID, apiKey, message string) (extract.Value, error) {
	payload := c.runPayload(message, c.tweaks)
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Kind: KindUnreachable, Message: "could not encode run payload", Err: err}
	}
	url := c.runURL(flowID)
	slog.Info("running langflow flow", "url", url, "flow_id", flowID)

	headers := c.headers(apiKey)
	headers.Set("Content-Type", "application/json")
	resp, err := c.do(ctx, http.MethodPost, url, headers, body, runTimeout)
	if err != nil {
		return nil, err
	}
	slog.Info("langflow response", "status", resp.StatusCode, "bytes", len(resp.Body))

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			Kind:    KindUpstreamStatus,
			Message: fmt.Sprintf("Langflow API error: %s", string(resp.Body)),
			Status:  resp.StatusCode,
			Body:    string(resp.Body),
		}
	}
	if strings.TrimSpace(string(resp.Body)) == "" {
		return nil, &Error{Kind: KindEmptyBody, Message: "Empty response from Langflow"}
	}
	v, err := extract.Parse(resp.Body)
	if err != nil {
		return nil, &Error{
			Kind:    KindMalformedBody,
			Message: fmt.Sprintf("Invalid JSON response from Langflow: %v", err),
			Err:     err,
		}
	}
	return v, nil
}

// Health probes the Langflow health endpoint. A nil error means connected.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodGet, c.baseURL+"/health", nil, nil, healthTimeout)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return &Error{
			Kind:    KindUpstreamStatus,
			Message: fmt.Sprintf("langflow health returned %d", resp.StatusCode),
			Status:  resp.StatusCode,
			Body:    string(resp.Body),
		}
	}
	return nil
}

// ListProjects fetches the Langflow projects listing verbatim for the debug
// passthrough. Only transport failures are errors; any status is a result.
func (c *Client) ListProjects(ctx context.Context, apiKey string) (*RawResponse, error) {
	return c.do(ctx, http.MethodGet, c.baseURL+"/api/v1/projects", c.headers(apiKey), nil, debugTimeout)
}

// TestFlowResult is the raw outcome of a debug test invocation.
type TestFlowResult struct {
	URL      string
	Payload  RunPayload
	Response *RawResponse
}

// TestFlow runs the flow once with a fixed message and no tweaks, returning
// the upstream response verbatim.
func (c *Client) TestFlow(ctx context.Context, flowID, apiKey string) (*TestFlowResult, error) {
	payload := c.runPayload(testMessage, Tweaks{})
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Kind: KindUnreachable, Message: "could not encode run payload", Err: err}
	}
	url := c.runURL(flowID)
	headers := c.headers(apiKey)
	headers.Set("Content-Type", "application/json")
	resp, err := c.do(ctx, http.MethodPost, url, headers, body, runTimeout)
	if err != nil {
		return nil, err
	}
	return &TestFlowResult{URL: url, Payload: payload, Response: resp}, nil
}
