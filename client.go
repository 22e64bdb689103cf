package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultAPIURL  = "http://localhost:8080/api"
	defaultTimeout = 60 * time.Second
	maxBodyBytes   = 64 << 20
)

// Operation selects the backend endpoint.
type Operation int

const (
	OpVisualize Operation = iota
	OpExecute
)

func (op Operation) path() string {
	if op == OpExecute {
		return "/execute"
	}
	return "/visualize"
}

func (op Operation) verb() string {
	if op == OpExecute {
		return "execute"
	}
	return "visualize"
}

func (op Operation) failure() string {
	if op == OpExecute {
		return "Execution failed"
	}
	return "Visualization failed"
}

func (op Operation) String() string { return op.verb() }

// Request is the body sent to the backend.
type Request struct {
	Code     string   `json:"code"`
	Language Language `json:"language"`
}

// Response is a decoded backend reply.
type Response struct {
	Success       bool
	Output        string
	Error         string
	ExecutionTime *int64 // ms
	Steps         Trace
}

// Client talks to the execution/visualization backend.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// NewClient returns a client whose requests fail after timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultAPIURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Run submits code for execution or visualization. Visualize treats a
// successful reply without steps as ErrNotVisualizable.
func (c *Client) Run(ctx context.Context, op Operation, req Request) (Response, error) {
	if strings.TrimSpace(req.Code) == "" {
		return Response{}, ErrEmptyCode
	}
	body, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+op.path(), bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	status, raw, err := c.do(httpReq)
	if err != nil {
		return Response{}, &TransportError{Op: op.verb(), Err: err}
	}

	doc, parseErr := parseBody(raw)
	if status < 200 || status > 299 {
		return Response{}, &BackendError{Status: status, Message: errorText(doc, status)}
	}
	if parseErr != nil {
		return Response{}, &MalformedResponseError{Err: parseErr}
	}
	resp, err := decodeResponse(doc)
	if err != nil {
		return Response{}, err
	}
	if !resp.Success {
		return resp, &BackendError{Message: resp.Error}
	}
	if op == OpVisualize && len(resp.Steps) == 0 {
		return resp, ErrNotVisualizable
	}
	return resp, nil
}

// Health asks the backend whether it is up and returns its status line.
func (c *Client) Health(ctx context.Context) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	status, raw, err := c.do(httpReq)
	if err != nil {
		return "", &TransportError{Op: "health", Err: err}
	}
	text := strings.TrimSpace(string(raw))
	if status < 200 || status > 299 {
		doc, _ := parseBody(raw)
		return "", &BackendError{Status: status, Message: errorText(doc, status)}
	}
	return text, nil
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, raw, nil
}

func parseBody(raw []byte) (Value, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Value{}, fmt.Errorf("empty body")
	}
	return ParseValue(raw)
}

func errorText(doc Value, status int) string {
	if msg, ok := doc.Lookup("error", "message"); ok && msg.Kind == KindText && msg.Text != "" {
		return msg.Text
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d", status)
}

func decodeResponse(doc Value) (Response, error) {
	if doc.Kind != KindMap {
		return Response{}, &MalformedResponseError{Err: fmt.Errorf("expected object, got %s", doc.Kind)}
	}
	success, ok := doc.Get("success")
	if !ok || success.Kind != KindBool {
		return Response{}, &MalformedResponseError{Err: fmt.Errorf("missing success flag")}
	}
	resp := Response{Success: success.Bool}
	if out, ok := doc.Get("output"); ok {
		resp.Output = out.textOr("")
	}
	if msg, ok := doc.Get("error"); ok {
		resp.Error = msg.textOr("")
	}
	if ms, ok := doc.Get("executionTime"); ok {
		if f, ok := ms.Number(); ok {
			n := int64(f)
			resp.ExecutionTime = &n
		}
	}
	resp.Steps = decodeTrace(listField(doc, "visualizationSteps"))
	return resp, nil
}
