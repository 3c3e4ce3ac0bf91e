package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout is the fixed per-call budget. Exceeding it surfaces a
// timeout-kind Error rather than an indefinite wait.
const DefaultTimeout = 30 * time.Second

// Client is the sole boundary to the letter service. It carries its own
// configuration so workflows receive it as an explicit dependency and tests
// can substitute doubles; there is no package-level instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures the client during construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout overrides the fixed per-call timeout budget.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient constructs a client against one fixed base address.
func NewClient(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// BaseURL reports the configured service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health checks service liveness.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var out HealthStatus
	if err := c.getJSON(ctx, "/health", &out); err != nil {
		return HealthStatus{}, err
	}
	return out, nil
}

// UploadTemplate sends one multipart request registering a new template.
// Name is attached only when supplied; category always travels, defaulting to
// "general".
func (c *Client) UploadTemplate(ctx context.Context, file io.Reader, filename, name, category string) (*UploadResult, error) {
	if category = strings.TrimSpace(category); category == "" {
		category = "general"
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, &Error{Kind: ErrorKindNetwork, Message: fallbackMessage, Detail: err.Error()}
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, &Error{Kind: ErrorKindNetwork, Message: fallbackMessage, Detail: err.Error()}
	}
	if name = strings.TrimSpace(name); name != "" {
		if err := writer.WriteField("name", name); err != nil {
			return nil, &Error{Kind: ErrorKindNetwork, Message: fallbackMessage, Detail: err.Error()}
		}
	}
	if err := writer.WriteField("category", category); err != nil {
		return nil, &Error{Kind: ErrorKindNetwork, Message: fallbackMessage, Detail: err.Error()}
	}
	if err := writer.Close(); err != nil {
		return nil, &Error{Kind: ErrorKindNetwork, Message: fallbackMessage, Detail: err.Error()}
	}

	data, err := c.do(ctx, http.MethodPost, "/api/templates/upload", &body, writer.FormDataContentType())
	if err != nil {
		return nil, err
	}

	var result UploadResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &Error{Kind: ErrorKindServer, Message: fallbackMessage, Detail: err.Error()}
	}
	return &result, nil
}

// ListTemplates fetches the template summaries in server-defined order.
func (c *Client) ListTemplates(ctx context.Context) ([]Template, error) {
	var out struct {
		Templates []Template `json:"templates"`
	}
	if err := c.getJSON(ctx, "/api/templates", &out); err != nil {
		return nil, err
	}
	return out.Templates, nil
}

// GetTemplate fetches the full template, schema included.
func (c *Client) GetTemplate(ctx context.Context, id int) (*Template, error) {
	var out Template
	if err := c.getJSON(ctx, fmt.Sprintf("/api/templates/%d", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTemplate removes a template server-side and returns the
// acknowledgment message.
func (c *Client) DeleteTemplate(ctx context.Context, id int) (string, error) {
	data, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/templates/%d", id), nil, "")
	if err != nil {
		return "", err
	}
	var out struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", &Error{Kind: ErrorKindServer, Message: fallbackMessage, Detail: err.Error()}
	}
	return out.Message, nil
}

// GenerateDocument exchanges form values for the generated artifact. The
// response is opaque bytes; it is never decoded as text.
func (c *Client) GenerateDocument(ctx context.Context, id int, values map[string]any) ([]byte, error) {
	payload, err := json.Marshal(values)
	if err != nil {
		return nil, &Error{Kind: ErrorKindNetwork, Message: fallbackMessage, Detail: err.Error()}
	}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/documents/generate/%d", id), bytes.NewReader(payload), "application/json")
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	data, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: ErrorKindServer, Message: fallbackMessage, Detail: err.Error()}
	}
	return nil
}

// do issues a single attempt within the fixed timeout budget and normalizes
// every failure into *Error. There are no retries; every retry in this system
// is an explicit user action.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &Error{Kind: ErrorKindNetwork, Message: fallbackMessage, Detail: err.Error()}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, normalizeTransportErr(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, normalizeTransportErr(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, normalizeStatusErr(resp.StatusCode, data)
	}
	return data, nil
}

func normalizeTransportErr(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: ErrorKindTimeout, Message: fallbackMessage}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: ErrorKindTimeout, Message: fallbackMessage}
	}
	return &Error{Kind: ErrorKindNetwork, Message: fallbackMessage}
}

// normalizeStatusErr maps a non-2xx response onto the single error shape,
// preferring the body's detail/message fields when present.
func normalizeStatusErr(status int, body []byte) *Error {
	kind := ErrorKindServer
	if status == http.StatusNotFound {
		kind = ErrorKindNotFound
	}

	var payload struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)

	message := strings.TrimSpace(payload.Detail)
	if message == "" {
		message = strings.TrimSpace(payload.Message)
	}
	if message == "" {
		return &Error{Kind: kind, Message: fallbackMessage}
	}
	return &Error{Kind: kind, Message: message, Detail: strings.TrimSpace(payload.Detail)}
}
